package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"immoportal/internal/models/db_models"
	"immoportal/internal/models/request_models"
	"immoportal/internal/models/response_models"
	"immoportal/internal/repositories"
	"immoportal/pkg/utils"
)

type CriteriaServiceInterface interface {
	MatchedListings(ctx context.Context, p Principal) (*response_models.MatchedListingsResponse, error)
	Get(ctx context.Context, p Principal, clientID uuid.UUID) (*response_models.Criteria, error)
	Upsert(ctx context.Context, p Principal, clientID uuid.UUID, req request_models.UpsertCriteriaRequest) (*response_models.Criteria, error)
}

type CriteriaService struct {
	criteriaRepo repositories.SearchCriteriaRepository
	propertyRepo repositories.PropertyRepository
	accountRepo  repositories.AccountRepository
	subscription SubscriptionServiceInterface
	images       ImageServiceInterface
	logger       *zap.Logger
}

func NewCriteriaService(
	criteriaRepo repositories.SearchCriteriaRepository,
	propertyRepo repositories.PropertyRepository,
	accountRepo repositories.AccountRepository,
	subscription SubscriptionServiceInterface,
	images ImageServiceInterface,
	logger *zap.Logger,
) CriteriaServiceInterface {
	return &CriteriaService{
		criteriaRepo: criteriaRepo,
		propertyRepo: propertyRepo,
		accountRepo:  accountRepo,
		subscription: subscription,
		images:       images,
		logger:       logger,
	}
}

// MatchedListings returns the active public listings matching the calling
// client's criteria, newest first. An inactive subscription yields no listings
// and nothing else is read.
func (s *CriteriaService) MatchedListings(ctx context.Context, p Principal) (*response_models.MatchedListingsResponse, error) {
	if err := RequireRole(p, db_models.ClientOnly...); err != nil {
		return nil, err
	}

	active, err := s.subscription.IsActive(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return &response_models.MatchedListingsResponse{
			Active:   false,
			Listings: []response_models.PublicListing{},
		}, nil
	}

	criteria, err := s.criteriaRepo.FindByClientID(ctx, p.ID)
	if err != nil {
		s.logger.Error("load criteria", zap.String("client_id", p.ID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	status := db_models.PropertyActive
	listings, err := s.propertyRepo.ListPublic(ctx, repositories.PublicFilter{Status: &status})
	if err != nil {
		s.logger.Error("load public listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	matched := make([]db_models.PublicProperty, 0, len(listings))
	for _, l := range listings {
		if Matches(criteria, l) {
			matched = append(matched, l)
		}
	}

	ids := make([]uuid.UUID, 0, len(matched))
	for _, l := range matched {
		ids = append(ids, l.ID)
	}
	covers := s.images.CoverURLs(ctx, ids)

	out := make([]response_models.PublicListing, 0, len(matched))
	for i := range matched {
		item := toPublicListing(&matched[i])
		if url, ok := covers[matched[i].ID]; ok {
			item.CoverURL = &url
		}
		out = append(out, item)
	}

	return &response_models.MatchedListingsResponse{
		Active:   true,
		Criteria: toCriteriaResponse(p.ID, criteria),
		Listings: out,
	}, nil
}

// Matches reports whether l satisfies c. A nil c, or any nil bound, is
// unconstrained. A listing with no value for a constrained field passes that
// field. Numeric bounds are inclusive.
func Matches(c *db_models.SearchCriteria, l db_models.PublicProperty) bool {
	if c == nil {
		return true
	}
	if c.City != nil && strings.TrimSpace(*c.City) != "" {
		if !strings.EqualFold(strings.TrimSpace(l.City), strings.TrimSpace(*c.City)) {
			return false
		}
	}
	if !atLeast(l.Price, c.MinPrice) || !atMost(l.Price, c.MaxPrice) {
		return false
	}
	if !atLeast(l.Surface, c.MinSurface) || !atLeast(l.Rooms, c.MinRooms) {
		return false
	}
	if len(c.PropertyTypes) > 0 && l.Type != nil && strings.TrimSpace(*l.Type) != "" {
		want := strings.ToLower(strings.TrimSpace(*l.Type))
		found := false
		for _, t := range c.PropertyTypes {
			if strings.ToLower(strings.TrimSpace(t)) == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func atLeast(v, lo *int) bool {
	return v == nil || lo == nil || *v >= *lo
}

func atMost(v, hi *int) bool {
	return v == nil || hi == nil || *v <= *hi
}

func (s *CriteriaService) Get(ctx context.Context, p Principal, clientID uuid.UUID) (*response_models.Criteria, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	criteria, err := s.criteriaRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toCriteriaResponse(clientID, criteria), nil
}

// Upsert replaces the client's criteria wholesale. Blank city and empty
// type lists clear those constraints.
func (s *CriteriaService) Upsert(ctx context.Context, p Principal, clientID uuid.UUID, req request_models.UpsertCriteriaRequest) (*response_models.Criteria, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, utils.InvalidField("max_price", "must be greater than or equal to min_price")
	}

	profile, err := s.accountRepo.FindProfile(ctx, clientID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if profile == nil || profile.Role != db_models.RoleClient {
		return nil, utils.ErrClientNotFound
	}

	criteria := &db_models.SearchCriteria{
		ClientID:      clientID,
		City:          optionalString(req.City),
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		MinSurface:    req.MinSurface,
		MinRooms:      req.MinRooms,
		PropertyTypes: NormalizeTypes(req.PropertyTypes),
	}
	if err := s.criteriaRepo.Upsert(ctx, criteria); err != nil {
		s.logger.Error("upsert criteria", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return toCriteriaResponse(clientID, criteria), nil
}

// NormalizeTypes splits comma-separated entries, trims and lowercases them,
// and drops blanks and duplicates. Order of first appearance is kept.
func NormalizeTypes(in []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			t := strings.ToLower(strings.TrimSpace(part))
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toCriteriaResponse(clientID uuid.UUID, c *db_models.SearchCriteria) *response_models.Criteria {
	out := &response_models.Criteria{
		ClientID:      clientID.String(),
		PropertyTypes: []string{},
	}
	if c == nil {
		return out
	}
	out.City = c.City
	out.MinPrice = c.MinPrice
	out.MaxPrice = c.MaxPrice
	out.MinSurface = c.MinSurface
	out.MinRooms = c.MinRooms
	if len(c.PropertyTypes) > 0 {
		out.PropertyTypes = append(out.PropertyTypes, c.PropertyTypes...)
	}
	return out
}

func toPublicListing(l *db_models.PublicProperty) response_models.PublicListing {
	return response_models.PublicListing{
		ID:          l.ID.String(),
		Title:       l.Title,
		Description: l.Description,
		City:        l.City,
		Zip:         l.Zip,
		Price:       l.Price,
		Surface:     l.Surface,
		Rooms:       l.Rooms,
		Type:        l.Type,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
