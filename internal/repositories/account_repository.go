package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"immoportal/internal/models/db_models"
)

// AccountBundle is everything created together when a client is provisioned.
// Subscription and Criteria are nil for staff accounts.
type AccountBundle struct {
	Identity     *db_models.Identity
	Profile      *db_models.Profile
	Subscription *db_models.Subscription
	Criteria     *db_models.SearchCriteria
}

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*db_models.Identity, error)
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Identity, error)
	FindProfile(ctx context.Context, id uuid.UUID) (*db_models.Profile, error)
	FindProfiles(ctx context.Context, ids []uuid.UUID) ([]db_models.Profile, error)
	ListProfilesByRole(ctx context.Context, role db_models.Role, limit int) ([]db_models.Profile, error)
	Provision(ctx context.Context, bundle AccountBundle) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Identity, error) {
	var identity db_models.Identity
	err := a.db.WithContext(ctx).First(&identity, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &identity, nil
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Identity, error) {
	var identity db_models.Identity
	err := a.db.WithContext(ctx).First(&identity, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &identity, nil
}

func (a *accountRepository) FindProfile(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := a.db.WithContext(ctx).First(&profile, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (a *accountRepository) FindProfiles(ctx context.Context, ids []uuid.UUID) ([]db_models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []db_models.Profile
	if err := a.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (a *accountRepository) ListProfilesByRole(ctx context.Context, role db_models.Role, limit int) ([]db_models.Profile, error) {
	var profiles []db_models.Profile
	err := a.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Scopes(withLimit(limit)).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Provision writes the bundle in one transaction; any failure leaves nothing behind.
func (a *accountRepository) Provision(ctx context.Context, bundle AccountBundle) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bundle.Identity).Error; err != nil {
			return err
		}

		bundle.Profile.ID = bundle.Identity.ID
		if err := tx.Create(bundle.Profile).Error; err != nil {
			return err
		}

		if bundle.Subscription != nil {
			bundle.Subscription.ClientID = bundle.Identity.ID
			if err := tx.Create(bundle.Subscription).Error; err != nil {
				return err
			}
		}

		if bundle.Criteria != nil {
			bundle.Criteria.ClientID = bundle.Identity.ID
			if err := tx.Create(bundle.Criteria).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
