package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"immoportal/internal/models/db_models"
)

type SearchCriteriaRepository interface {
	FindByClientID(ctx context.Context, clientID uuid.UUID) (*db_models.SearchCriteria, error)
	Upsert(ctx context.Context, criteria *db_models.SearchCriteria) error
}

type searchCriteriaRepository struct {
	db *gorm.DB
}

func NewSearchCriteriaRepository(db *gorm.DB) SearchCriteriaRepository {
	return &searchCriteriaRepository{db: db}
}

func (r *searchCriteriaRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) (*db_models.SearchCriteria, error) {
	var criteria db_models.SearchCriteria
	err := r.db.WithContext(ctx).First(&criteria, "client_id = ?", clientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &criteria, nil
}

// Upsert replaces every field of the client's single criteria row.
func (r *searchCriteriaRepository) Upsert(ctx context.Context, criteria *db_models.SearchCriteria) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "client_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"city", "min_price", "max_price", "min_surface", "min_rooms",
				"property_types", "updated_at", "deleted_at",
			}),
		}).
		Create(criteria).Error
}
