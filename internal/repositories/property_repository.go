package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"immoportal/internal/models/db_models"
)

// PublicFilter narrows the public listing read. Status nil means any status.
type PublicFilter struct {
	Status *db_models.PropertyStatus
	Limit  int
}

type PropertyRepository interface {
	Create(ctx context.Context, property *db_models.Property) (uuid.UUID, error)
	Update(ctx context.Context, property *db_models.Property) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.PropertyStatus) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Property, error)
	AddImage(ctx context.Context, image *db_models.PropertyImage) error
	CoverPaths(ctx context.Context, propertyIDs []uuid.UUID) (map[uuid.UUID]string, error)

	ListPublic(ctx context.Context, filter PublicFilter) ([]db_models.PublicProperty, error)
	FindPublicByID(ctx context.Context, id uuid.UUID) (*db_models.PublicProperty, error)
	FindPublicByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.PublicProperty, error)
}

// updatableColumns are written on a full edit. Nil pointers clear the column.
var updatableColumns = []string{
	"title", "description", "city", "zip", "price", "surface", "rooms", "type",
	"status", "owner_name", "owner_phone", "owner_email", "updated_at",
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *db_models.Property) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Omit("Images").Create(property).Error; err != nil {
		return uuid.Nil, err
	}
	return property.ID, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *db_models.Property) error {
	result := r.db.WithContext(ctx).
		Model(property).
		Select(updatableColumns).
		Updates(property)
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.PropertyStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&db_models.Property{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Property, error) {
	var property db_models.Property
	err := r.db.WithContext(ctx).
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC")
		}).
		First(&property, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) AddImage(ctx context.Context, image *db_models.PropertyImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *propertyRepository) CoverPaths(ctx context.Context, propertyIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	covers := make(map[uuid.UUID]string, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return covers, nil
	}

	var rows []db_models.CoverImage
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (property_id) property_id, path
			FROM property_images
			WHERE property_id IN ? AND deleted_at IS NULL
			ORDER BY property_id, order_index ASC, created_at ASC`, propertyIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		covers[row.PropertyID] = row.Path
	}
	return covers, nil
}

func (r *propertyRepository) ListPublic(ctx context.Context, filter PublicFilter) ([]db_models.PublicProperty, error) {
	var listings []db_models.PublicProperty
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	q = q.Scopes(withLimit(filter.Limit))
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *propertyRepository) FindPublicByID(ctx context.Context, id uuid.UUID) (*db_models.PublicProperty, error) {
	var listing db_models.PublicProperty
	err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (r *propertyRepository) FindPublicByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.PublicProperty, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var listings []db_models.PublicProperty
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// withLimit applies a LIMIT only when limit is positive.
func withLimit(limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}
