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
	"immoportal/pkg/utils"
)

const (
	clientListLimit        = 200
	clientDetailRequestMax = 200
)

// ProvisioningTerms is the subscription granted to every new client.
type ProvisioningTerms struct {
	Months    int
	AmountEUR int
}

type ClientServiceInterface interface {
	CreateClientAccount(ctx context.Context, p Principal, req request_models.CreateAccountRequest) (*response_models.CreateAccountResponse, error)
	CreateAgentAccount(ctx context.Context, p Principal, req request_models.CreateAccountRequest) (*response_models.CreateAccountResponse, error)
	ListClients(ctx context.Context, p Principal) ([]response_models.ClientSummary, error)
	GetClient(ctx context.Context, p Principal, clientID uuid.UUID) (*response_models.ClientDetail, error)
}

type ClientService struct {
	accountRepo  repositories.AccountRepository
	criteriaRepo repositories.SearchCriteriaRepository
	subRepo      repositories.SubscriptionRepository
	requestRepo  repositories.ContactRequestRepository
	propertyRepo repositories.PropertyRepository
	subscription SubscriptionServiceInterface
	terms        ProvisioningTerms
	clock        utils.Clock
	logger       *zap.Logger
}

func NewClientService(
	accountRepo repositories.AccountRepository,
	criteriaRepo repositories.SearchCriteriaRepository,
	subRepo repositories.SubscriptionRepository,
	requestRepo repositories.ContactRequestRepository,
	propertyRepo repositories.PropertyRepository,
	subscription SubscriptionServiceInterface,
	terms ProvisioningTerms,
	clock utils.Clock,
	logger *zap.Logger,
) ClientServiceInterface {
	return &ClientService{
		accountRepo:  accountRepo,
		criteriaRepo: criteriaRepo,
		subRepo:      subRepo,
		requestRepo:  requestRepo,
		propertyRepo: propertyRepo,
		subscription: subscription,
		terms:        terms,
		clock:        clock,
		logger:       logger,
	}
}

// CreateClientAccount provisions identity, client profile, default
// subscription and empty criteria in one transaction.
func (s *ClientService) CreateClientAccount(ctx context.Context, p Principal, req request_models.CreateAccountRequest) (*response_models.CreateAccountResponse, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	bundle, err := s.prepare(ctx, req, db_models.RoleClient)
	if err != nil {
		return nil, err
	}
	today := utils.CivilDate(s.clock.Now())
	bundle.Subscription = defaultSubscription(today, s.terms.Months, s.terms.AmountEUR, p.ID)
	bundle.Criteria = &db_models.SearchCriteria{PropertyTypes: []string{}}

	if err := s.provision(ctx, bundle); err != nil {
		return nil, err
	}
	s.logger.Info("client account created",
		zap.String("client_id", bundle.Identity.ID.String()),
		zap.String("by", p.ID.String()),
	)
	return &response_models.CreateAccountResponse{UserID: bundle.Identity.ID.String()}, nil
}

func (s *ClientService) CreateAgentAccount(ctx context.Context, p Principal, req request_models.CreateAccountRequest) (*response_models.CreateAccountResponse, error) {
	if err := RequireRole(p, db_models.AdminOnly...); err != nil {
		return nil, err
	}

	bundle, err := s.prepare(ctx, req, db_models.RoleAgent)
	if err != nil {
		return nil, err
	}
	if err := s.provision(ctx, bundle); err != nil {
		return nil, err
	}
	s.logger.Info("agent account created",
		zap.String("agent_id", bundle.Identity.ID.String()),
		zap.String("by", p.ID.String()),
	)
	return &response_models.CreateAccountResponse{UserID: bundle.Identity.ID.String()}, nil
}

func (s *ClientService) prepare(ctx context.Context, req request_models.CreateAccountRequest, role db_models.Role) (repositories.AccountBundle, error) {
	req.Email = normalizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return repositories.AccountBundle{}, err
	}
	email := req.Email

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return repositories.AccountBundle{}, utils.ErrDatabaseError
	}
	if existing != nil {
		return repositories.AccountBundle{}, utils.ErrEmailAlreadyExists
	}

	bundle, err := newAccountBundle(email, req.Password, req.FullName, role)
	if err != nil {
		return repositories.AccountBundle{}, utils.ErrDatabaseError
	}
	return bundle, nil
}

func (s *ClientService) provision(ctx context.Context, bundle repositories.AccountBundle) error {
	if err := s.accountRepo.Provision(ctx, bundle); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrEmailAlreadyExists
		}
		s.logger.Error("provision account", zap.String("role", string(bundle.Profile.Role)), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *ClientService) ListClients(ctx context.Context, p Principal) ([]response_models.ClientSummary, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	profiles, err := s.accountRepo.ListProfilesByRole(ctx, db_models.RoleClient, clientListLimit)
	if err != nil {
		s.logger.Error("list clients", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.ClientSummary, 0, len(profiles))
	for i := range profiles {
		out = append(out, toClientSummary(&profiles[i]))
	}
	return out, nil
}

// GetClient is the back-office view of one client: profile, criteria, the
// last subscriptions and every request with public listing data.
func (s *ClientService) GetClient(ctx context.Context, p Principal, clientID uuid.UUID) (*response_models.ClientDetail, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	profile, err := s.accountRepo.FindProfile(ctx, clientID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if profile == nil || profile.Role != db_models.RoleClient {
		return nil, utils.ErrClientNotFound
	}

	criteria, err := s.criteriaRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	subs, err := s.subscription.History(ctx, p, clientID)
	if err != nil {
		return nil, err
	}
	active, err := s.subscription.IsActive(ctx, clientID)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByClient(ctx, clientID, clientDetailRequestMax)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	ids := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.PropertyID)
	}
	listings, err := s.propertyRepo.FindPublicByIDs(ctx, ids)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	byID := make(map[uuid.UUID]*db_models.PublicProperty, len(listings))
	for i := range listings {
		byID[listings[i].ID] = &listings[i]
	}

	reqs := make([]response_models.ClientRequest, 0, len(requests))
	for _, r := range requests {
		reqs = append(reqs, response_models.ClientRequest{
			ID:         r.ID.String(),
			Status:     string(r.Status),
			CreatedAt:  r.CreatedAt,
			DecidedAt:  r.DecidedAt,
			PropertyID: r.PropertyID.String(),
			Property:   listingSummary(byID[r.PropertyID]),
		})
	}

	return &response_models.ClientDetail{
		Profile:       toClientSummary(profile),
		Active:        active,
		Criteria:      toCriteriaResponse(clientID, criteria),
		Subscriptions: subs,
		Requests:      reqs,
	}, nil
}

func toClientSummary(p *db_models.Profile) response_models.ClientSummary {
	return response_models.ClientSummary{
		ID:        p.ID.String(),
		FullName:  p.FullName,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}
