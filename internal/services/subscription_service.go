package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"immoportal/internal/models/db_models"
	"immoportal/internal/models/request_models"
	"immoportal/internal/models/response_models"
	"immoportal/internal/repositories"
	"immoportal/pkg/utils"
)

const subscriptionHistoryLimit = 5

type SubscriptionServiceInterface interface {
	IsActive(ctx context.Context, clientID uuid.UUID) (bool, error)
	History(ctx context.Context, p Principal, clientID uuid.UUID) ([]response_models.Subscription, error)
	Record(ctx context.Context, p Principal, clientID uuid.UUID, req request_models.RecordSubscriptionRequest) (*response_models.Subscription, error)
}

type SubscriptionService struct {
	subRepo     repositories.SubscriptionRepository
	accountRepo repositories.AccountRepository
	clock       utils.Clock
	logger      *zap.Logger
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	accountRepo repositories.AccountRepository,
	clock utils.Clock,
	logger *zap.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		subRepo:     subRepo,
		accountRepo: accountRepo,
		clock:       clock,
		logger:      logger,
	}
}

// IsActive reports whether the client's latest subscription is active today.
func (s *SubscriptionService) IsActive(ctx context.Context, clientID uuid.UUID) (bool, error) {
	latest, err := s.subRepo.Latest(ctx, clientID)
	if err != nil {
		s.logger.Error("load latest subscription", zap.String("client_id", clientID.String()), zap.Error(err))
		return false, utils.ErrDatabaseError
	}
	return subscriptionActive(latest, utils.CivilDate(s.clock.Now())), nil
}

// subscriptionActive compares at day granularity: ends_at equal to today is still active.
func subscriptionActive(sub *db_models.Subscription, today time.Time) bool {
	if sub == nil || sub.Status != db_models.SubStatusActive {
		return false
	}
	if sub.EndsAt == nil {
		return true
	}
	endsAt := utils.CivilDate(time.Time(*sub.EndsAt))
	return !endsAt.Before(today)
}

func (s *SubscriptionService) History(ctx context.Context, p Principal, clientID uuid.UUID) ([]response_models.Subscription, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListByClient(ctx, clientID, subscriptionHistoryLimit)
	if err != nil {
		s.logger.Error("list subscriptions", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.Subscription, 0, len(subs))
	for i := range subs {
		out = append(out, toSubscriptionResponse(&subs[i]))
	}
	return out, nil
}

// Record appends a subscription window set by staff.
func (s *SubscriptionService) Record(ctx context.Context, p Principal, clientID uuid.UUID, req request_models.RecordSubscriptionRequest) (*response_models.Subscription, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	startsAt, err := utils.ParseDate(req.StartsAt)
	if err != nil {
		return nil, utils.InvalidField("starts_at", "must be a date (YYYY-MM-DD)")
	}
	var endsAt *datatypes.Date
	if req.EndsAt != "" {
		end, err := utils.ParseDate(req.EndsAt)
		if err != nil {
			return nil, utils.InvalidField("ends_at", "must be a date (YYYY-MM-DD)")
		}
		if end.Before(startsAt) {
			return nil, utils.InvalidField("ends_at", "must not be before starts_at")
		}
		d := datatypes.Date(end)
		endsAt = &d
	}

	profile, err := s.accountRepo.FindProfile(ctx, clientID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if profile == nil || profile.Role != db_models.RoleClient {
		return nil, utils.ErrClientNotFound
	}

	createdBy := p.ID
	sub := &db_models.Subscription{
		ClientID:      clientID,
		Status:        db_models.SubscriptionStatus(req.Status),
		StartsAt:      datatypes.Date(startsAt),
		EndsAt:        endsAt,
		PaidAmountEUR: req.PaidAmountEUR,
		CreatedBy:     &createdBy,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		s.logger.Error("record subscription", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	s.logger.Info("subscription recorded",
		zap.String("client_id", clientID.String()),
		zap.String("status", req.Status),
		zap.String("by", p.ID.String()),
	)
	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

// defaultSubscription is the package granted at client provisioning.
func defaultSubscription(today time.Time, months, amountEUR int, createdBy uuid.UUID) *db_models.Subscription {
	end := datatypes.Date(today.AddDate(0, months, 0))
	return &db_models.Subscription{
		Status:        db_models.SubStatusActive,
		StartsAt:      datatypes.Date(today),
		EndsAt:        &end,
		PaidAmountEUR: amountEUR,
		CreatedBy:     &createdBy,
		Metadata:      datatypes.JSON(`{"source":"provisioning"}`),
	}
}

func toSubscriptionResponse(sub *db_models.Subscription) response_models.Subscription {
	out := response_models.Subscription{
		ID:            sub.ID.String(),
		Status:        string(sub.Status),
		StartsAt:      utils.FormatDate(time.Time(sub.StartsAt)),
		PaidAmountEUR: sub.PaidAmountEUR,
		CreatedAt:     sub.CreatedAt,
	}
	if sub.EndsAt != nil {
		end := utils.FormatDate(time.Time(*sub.EndsAt))
		out.EndsAt = &end
	}
	return out
}
