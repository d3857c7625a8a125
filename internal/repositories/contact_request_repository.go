package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"immoportal/internal/models/db_models"
)

type ContactRequestRepository interface {
	Create(ctx context.Context, request *db_models.ContactRequest) error
	// Decide moves a pending request to status. It returns the rows affected;
	// zero means the request is missing or was already decided.
	Decide(ctx context.Context, id uuid.UUID, status db_models.ContactRequestStatus, decidedBy uuid.UUID, at time.Time) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.ContactRequest, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]db_models.ContactRequest, error)
	ListRecent(ctx context.Context, limit int) ([]db_models.ContactRequest, error)
	ApprovedContacts(ctx context.Context, clientID uuid.UUID) ([]db_models.ApprovedOwnerContact, error)
}

type contactRequestRepository struct {
	db *gorm.DB
}

func NewContactRequestRepository(db *gorm.DB) ContactRequestRepository {
	return &contactRequestRepository{db: db}
}

func (r *contactRequestRepository) Create(ctx context.Context, request *db_models.ContactRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *contactRequestRepository) Decide(ctx context.Context, id uuid.UUID, status db_models.ContactRequestStatus, decidedBy uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&db_models.ContactRequest{}).
		Where("id = ? AND status = ?", id, db_models.RequestPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *contactRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.ContactRequest, error) {
	var request db_models.ContactRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *contactRequestRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]db_models.ContactRequest, error) {
	var requests []db_models.ContactRequest
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Scopes(withLimit(limit)).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *contactRequestRepository) ListRecent(ctx context.Context, limit int) ([]db_models.ContactRequest, error) {
	var requests []db_models.ContactRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Scopes(withLimit(limit)).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *contactRequestRepository) ApprovedContacts(ctx context.Context, clientID uuid.UUID) ([]db_models.ApprovedOwnerContact, error) {
	var contacts []db_models.ApprovedOwnerContact
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}
