package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"immoportal/internal/models/db_models"
	"immoportal/internal/models/request_models"
	"immoportal/internal/models/response_models"
	"immoportal/internal/repositories"
	"immoportal/pkg/metrics"
	"immoportal/pkg/utils"
)

const agencyRequestsLimit = 300

type ContactRequestServiceInterface interface {
	// Submit records a pending request. created is false when the client had
	// already asked for this property; that is not an error.
	Submit(ctx context.Context, p Principal, propertyID uuid.UUID) (created bool, err error)
	Decide(ctx context.Context, p Principal, requestID uuid.UUID, req request_models.DecideRequest) (*response_models.AgencyRequest, error)
	ListForClient(ctx context.Context, p Principal) ([]response_models.ClientRequest, error)
	ListForAgency(ctx context.Context, p Principal) (*response_models.AgencyRequestsResponse, error)
}

type ContactRequestService struct {
	requestRepo  repositories.ContactRequestRepository
	propertyRepo repositories.PropertyRepository
	accountRepo  repositories.AccountRepository
	subscription SubscriptionServiceInterface
	mail         IMailService
	clock        utils.Clock
	logger       *zap.Logger
}

func NewContactRequestService(
	requestRepo repositories.ContactRequestRepository,
	propertyRepo repositories.PropertyRepository,
	accountRepo repositories.AccountRepository,
	subscription SubscriptionServiceInterface,
	mail IMailService,
	clock utils.Clock,
	logger *zap.Logger,
) ContactRequestServiceInterface {
	return &ContactRequestService{
		requestRepo:  requestRepo,
		propertyRepo: propertyRepo,
		accountRepo:  accountRepo,
		subscription: subscription,
		mail:         mail,
		clock:        clock,
		logger:       logger,
	}
}

func (s *ContactRequestService) Submit(ctx context.Context, p Principal, propertyID uuid.UUID) (bool, error) {
	if err := RequireRole(p, db_models.ClientOnly...); err != nil {
		return false, err
	}

	active, err := s.subscription.IsActive(ctx, p.ID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, utils.ErrSubscriptionInactive
	}

	listing, err := s.propertyRepo.FindPublicByID(ctx, propertyID)
	if err != nil {
		s.logger.Error("load listing", zap.String("property_id", propertyID.String()), zap.Error(err))
		return false, utils.ErrDatabaseError
	}
	if listing == nil {
		return false, utils.ErrPropertyNotFound
	}

	request := &db_models.ContactRequest{
		ClientID:   p.ID,
		PropertyID: propertyID,
		Status:     db_models.RequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.ContactRequestsSubmitted.WithLabelValues("duplicate").Inc()
			return false, nil
		}
		s.logger.Error("create contact request",
			zap.String("client_id", p.ID.String()),
			zap.String("property_id", propertyID.String()),
			zap.Error(err),
		)
		return false, utils.ErrDatabaseError
	}

	metrics.ContactRequestsSubmitted.WithLabelValues("created").Inc()
	s.logger.Info("contact request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("client_id", p.ID.String()),
		zap.String("property_id", propertyID.String()),
	)
	return true, nil
}

// Decide moves a pending request to approved or rejected. Only the first
// decision applies; later ones fail with ErrRequestAlreadyDecided.
func (s *ContactRequestService) Decide(ctx context.Context, p Principal, requestID uuid.UUID, req request_models.DecideRequest) (*response_models.AgencyRequest, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	decision := db_models.ContactRequestStatus(req.Decision)

	decidedAt := s.clock.Now()
	rows, err := s.requestRepo.Decide(ctx, requestID, decision, p.ID, decidedAt)
	if err != nil {
		s.logger.Error("decide contact request", zap.String("request_id", requestID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	if rows == 0 {
		existing, err := s.requestRepo.FindByID(ctx, requestID)
		if err != nil {
			s.logger.Error("load contact request", zap.String("request_id", requestID.String()), zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
		if existing == nil {
			return nil, utils.ErrRequestNotFound
		}
		return nil, utils.ErrRequestAlreadyDecided
	}

	metrics.ContactRequestsDecided.WithLabelValues(string(decision)).Inc()
	s.logger.Info("contact request decided",
		zap.String("request_id", requestID.String()),
		zap.String("decision", string(decision)),
		zap.String("by", p.ID.String()),
	)

	// Committed. A failed reload only skips the notice.
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil || request == nil {
		s.logger.Warn("decision applied but request reload failed, client not notified",
			zap.String("request_id", requestID.String()),
			zap.Error(err),
		)
		by := p.ID.String()
		return &response_models.AgencyRequest{
			ID:        requestID.String(),
			Status:    string(decision),
			DecidedAt: &decidedAt,
			DecidedBy: &by,
		}, nil
	}

	go s.notifyDecision(context.WithoutCancel(ctx), *request)

	out := toAgencyRequest(request, nil, nil)
	return &out, nil
}

// notifyDecision emails the client. Failures are logged only.
func (s *ContactRequestService) notifyDecision(ctx context.Context, request db_models.ContactRequest) {
	identity, err := s.accountRepo.FindById(ctx, request.ClientID)
	if err != nil || identity == nil {
		s.logger.Warn("decision notice: client identity not found", zap.String("client_id", request.ClientID.String()), zap.Error(err))
		return
	}

	var name, title string
	if profile, err := s.accountRepo.FindProfile(ctx, request.ClientID); err == nil && profile != nil && profile.FullName != nil {
		name = *profile.FullName
	}
	if listing, err := s.propertyRepo.FindPublicByID(ctx, request.PropertyID); err == nil && listing != nil {
		title = listing.Title
	}

	if err := s.mail.SendDecisionNotice(identity.Email, name, title, request.Status); err != nil {
		s.logger.Warn("decision notice not sent", zap.String("request_id", request.ID.String()), zap.Error(err))
	}
}

// ListForClient returns the caller's own requests, newest first. Owner
// contact is attached only to approved requests, and only from a contact row
// for the same client and property.
func (s *ContactRequestService) ListForClient(ctx context.Context, p Principal) ([]response_models.ClientRequest, error) {
	if err := RequireRole(p, db_models.ClientOnly...); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByClient(ctx, p.ID, 0)
	if err != nil {
		s.logger.Error("list client requests", zap.String("client_id", p.ID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	listings, err := s.listingsByID(ctx, requests)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	contacts, err := s.requestRepo.ApprovedContacts(ctx, p.ID)
	if err != nil {
		s.logger.Error("load approved contacts", zap.String("client_id", p.ID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	contactByProperty := make(map[uuid.UUID]db_models.ApprovedOwnerContact, len(contacts))
	for _, c := range contacts {
		if c.ClientID == p.ID {
			contactByProperty[c.PropertyID] = c
		}
	}

	out := make([]response_models.ClientRequest, 0, len(requests))
	for i := range requests {
		r := &requests[i]
		item := response_models.ClientRequest{
			ID:         r.ID.String(),
			Status:     string(r.Status),
			CreatedAt:  r.CreatedAt,
			DecidedAt:  r.DecidedAt,
			PropertyID: r.PropertyID.String(),
			Property:   listingSummary(listings[r.PropertyID]),
		}
		if r.Status == db_models.RequestApproved && r.ClientID == p.ID {
			if c, ok := contactByProperty[r.PropertyID]; ok {
				item.OwnerContact = &response_models.OwnerContact{
					OwnerName:  c.OwnerName,
					OwnerPhone: c.OwnerPhone,
					OwnerEmail: c.OwnerEmail,
				}
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ListForAgency returns the latest requests across all clients, split into
// pending and decided, each newest first.
func (s *ContactRequestService) ListForAgency(ctx context.Context, p Principal) (*response_models.AgencyRequestsResponse, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListRecent(ctx, agencyRequestsLimit)
	if err != nil {
		s.logger.Error("list agency requests", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	listings, err := s.listingsByID(ctx, requests)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	clientIDs := make([]uuid.UUID, 0, len(requests))
	seen := make(map[uuid.UUID]struct{})
	for _, r := range requests {
		if _, ok := seen[r.ClientID]; !ok {
			seen[r.ClientID] = struct{}{}
			clientIDs = append(clientIDs, r.ClientID)
		}
	}
	profiles, err := s.accountRepo.FindProfiles(ctx, clientIDs)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	names := make(map[uuid.UUID]*string, len(profiles))
	for _, pr := range profiles {
		names[pr.ID] = pr.FullName
	}

	resp := &response_models.AgencyRequestsResponse{
		Total:   len(requests),
		Pending: []response_models.AgencyRequest{},
		Decided: []response_models.AgencyRequest{},
	}
	for i := range requests {
		r := &requests[i]
		item := toAgencyRequest(r, names[r.ClientID], listings[r.PropertyID])
		if r.Status == db_models.RequestPending {
			resp.Pending = append(resp.Pending, item)
		} else {
			resp.Decided = append(resp.Decided, item)
		}
	}
	return resp, nil
}

func (s *ContactRequestService) listingsByID(ctx context.Context, requests []db_models.ContactRequest) (map[uuid.UUID]*db_models.PublicProperty, error) {
	ids := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.PropertyID)
	}
	rows, err := s.propertyRepo.FindPublicByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("load request listings", zap.Error(err))
		return nil, err
	}
	out := make(map[uuid.UUID]*db_models.PublicProperty, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func listingSummary(l *db_models.PublicProperty) *response_models.ListingSummary {
	if l == nil {
		return nil
	}
	return &response_models.ListingSummary{Title: l.Title, City: l.City, Zip: l.Zip}
}

func toAgencyRequest(r *db_models.ContactRequest, clientName *string, listing *db_models.PublicProperty) response_models.AgencyRequest {
	out := response_models.AgencyRequest{
		ID:         r.ID.String(),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		DecidedAt:  r.DecidedAt,
		ClientID:   r.ClientID.String(),
		ClientName: clientName,
		PropertyID: r.PropertyID.String(),
		Property:   listingSummary(listing),
	}
	if r.DecidedBy != nil {
		by := r.DecidedBy.String()
		out.DecidedBy = &by
	}
	return out
}
