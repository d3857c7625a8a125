package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"immoportal/internal/models/db_models"
)

type SubscriptionRepository interface {
	Latest(ctx context.Context, clientID uuid.UUID) (*db_models.Subscription, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]db_models.Subscription, error)
	Create(ctx context.Context, subscription *db_models.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Latest(ctx context.Context, clientID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Scopes(withLimit(limit)).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *db_models.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}
