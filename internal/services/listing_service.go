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

const agencyListingsLimit = 200

type ListingServiceInterface interface {
	Create(ctx context.Context, p Principal, req request_models.PropertyRequest, images []ImageUpload) (*response_models.CreatePropertyResponse, error)
	Update(ctx context.Context, p Principal, id uuid.UUID, req request_models.PropertyRequest) (*response_models.PropertyDetail, error)
	SetStatus(ctx context.Context, p Principal, id uuid.UUID, req request_models.SetPropertyStatusRequest) error
	ListPublic(ctx context.Context, p Principal) ([]response_models.PublicListing, error)
	GetFull(ctx context.Context, p Principal, id uuid.UUID) (*response_models.PropertyDetail, error)
}

type ListingService struct {
	propertyRepo repositories.PropertyRepository
	images       ImageServiceInterface
	logger       *zap.Logger
}

func NewListingService(
	propertyRepo repositories.PropertyRepository,
	images ImageServiceInterface,
	logger *zap.Logger,
) ListingServiceInterface {
	return &ListingService{
		propertyRepo: propertyRepo,
		images:       images,
		logger:       logger,
	}
}

// Create inserts an active property, then uploads its images. Image failures
// are reported per image and never undo the property.
func (s *ListingService) Create(ctx context.Context, p Principal, req request_models.PropertyRequest, images []ImageUpload) (*response_models.CreatePropertyResponse, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	property := propertyFromRequest(req)
	property.Status = db_models.PropertyActive

	id, err := s.propertyRepo.Create(ctx, property)
	if err != nil {
		s.logger.Error("create property", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	s.logger.Info("property created", zap.String("property_id", id.String()), zap.String("by", p.ID.String()))

	results := s.images.UploadAll(ctx, id, images)
	return &response_models.CreatePropertyResponse{
		ID:     id.String(),
		Images: results,
	}, nil
}

// Update overwrites every editable field. An empty status keeps the current one.
func (s *ListingService) Update(ctx context.Context, p Principal, id uuid.UUID, req request_models.PropertyRequest) (*response_models.PropertyDetail, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing == nil {
		return nil, utils.ErrPropertyNotFound
	}

	property := propertyFromRequest(req)
	property.ID = id
	property.CreatedAt = existing.CreatedAt
	property.Status = existing.Status
	if req.Status != "" {
		property.Status = db_models.PropertyStatus(req.Status)
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		s.logger.Error("update property", zap.String("property_id", id.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	property.Images = existing.Images
	return s.toDetail(ctx, property), nil
}

func (s *ListingService) SetStatus(ctx context.Context, p Principal, id uuid.UUID, req request_models.SetPropertyStatusRequest) error {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	rows, err := s.propertyRepo.UpdateStatus(ctx, id, db_models.PropertyStatus(req.Status))
	if err != nil {
		s.logger.Error("set property status", zap.String("property_id", id.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	if rows == 0 {
		return utils.ErrPropertyNotFound
	}
	return nil
}

// ListPublic is the back-office listing overview: public projection, any status.
func (s *ListingService) ListPublic(ctx context.Context, p Principal) ([]response_models.PublicListing, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	listings, err := s.propertyRepo.ListPublic(ctx, repositories.PublicFilter{Limit: agencyListingsLimit})
	if err != nil {
		s.logger.Error("list listings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	covers := s.images.CoverURLs(ctx, ids)

	out := make([]response_models.PublicListing, 0, len(listings))
	for i := range listings {
		item := toPublicListing(&listings[i])
		if url, ok := covers[listings[i].ID]; ok {
			item.CoverURL = &url
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *ListingService) GetFull(ctx context.Context, p Principal, id uuid.UUID) (*response_models.PropertyDetail, error) {
	if err := RequireRole(p, db_models.StaffRoles...); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if property == nil {
		return nil, utils.ErrPropertyNotFound
	}
	return s.toDetail(ctx, property), nil
}

func (s *ListingService) toDetail(ctx context.Context, property *db_models.Property) *response_models.PropertyDetail {
	detail := &response_models.PropertyDetail{
		PublicListing: response_models.PublicListing{
			ID:          property.ID.String(),
			Title:       property.Title,
			Description: property.Description,
			City:        property.City,
			Zip:         property.Zip,
			Price:       property.Price,
			Surface:     property.Surface,
			Rooms:       property.Rooms,
			Type:        property.Type,
			Status:      string(property.Status),
			CreatedAt:   property.CreatedAt,
			UpdatedAt:   property.UpdatedAt,
		},
		OwnerName:  property.OwnerName,
		OwnerPhone: property.OwnerPhone,
		OwnerEmail: property.OwnerEmail,
		Images:     make([]response_models.PropertyImage, 0, len(property.Images)),
	}

	for _, img := range property.Images {
		item := response_models.PropertyImage{
			ID:         img.ID.String(),
			Path:       img.Path,
			OrderIndex: img.OrderIndex,
		}
		if url, ok := s.images.SignedURL(ctx, img.Path); ok {
			item.URL = &url
		}
		detail.Images = append(detail.Images, item)
	}
	if len(detail.Images) > 0 && detail.Images[0].URL != nil {
		detail.CoverURL = detail.Images[0].URL
	}
	return detail
}

// propertyFromRequest maps blank optional text to NULL.
func propertyFromRequest(req request_models.PropertyRequest) *db_models.Property {
	return &db_models.Property{
		Title:       strings.TrimSpace(req.Title),
		City:        strings.TrimSpace(req.City),
		Zip:         optionalString(req.Zip),
		Price:       req.Price,
		Surface:     req.Surface,
		Rooms:       req.Rooms,
		Type:        optionalString(req.Type),
		Description: optionalString(req.Description),
		OwnerName:   optionalString(req.OwnerName),
		OwnerPhone:  optionalString(req.OwnerPhone),
		OwnerEmail:  optionalString(req.OwnerEmail),
	}
}
