package services

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"immoportal/internal/models/db_models"
	"immoportal/internal/repositories"
	"immoportal/pkg/utils"
)

// Principal is an authenticated identity and the role read from its profile.
// An empty Role means the role could not be resolved.
type Principal struct {
	ID   uuid.UUID
	Role db_models.Role
}

// RequireRole fails with ErrForbidden unless p holds one of allowed.
// An unresolved role never passes.
func RequireRole(p Principal, allowed ...db_models.Role) error {
	if p.ID == uuid.Nil || !p.Role.Valid() {
		return utils.ErrForbidden
	}
	if !slices.Contains(allowed, p.Role) {
		return utils.ErrForbidden
	}
	return nil
}

type AccessGateInterface interface {
	Resolve(ctx context.Context, identityID uuid.UUID) Principal
	Require(p Principal, allowed ...db_models.Role) error
}

type AccessGate struct {
	accountRepo repositories.AccountRepository
	logger      *zap.Logger
}

func NewAccessGate(accountRepo repositories.AccountRepository, logger *zap.Logger) AccessGateInterface {
	return &AccessGate{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Resolve loads the role from the profile table. A missing profile or a
// lookup error yields a principal with no role.
func (g *AccessGate) Resolve(ctx context.Context, identityID uuid.UUID) Principal {
	p := Principal{ID: identityID}

	profile, err := g.accountRepo.FindProfile(ctx, identityID)
	if err != nil {
		g.logger.Warn("role lookup failed", zap.String("identity_id", identityID.String()), zap.Error(err))
		return p
	}
	if profile == nil {
		return p
	}
	if profile.Role.Valid() {
		p.Role = profile.Role
	}
	return p
}

func (g *AccessGate) Require(p Principal, allowed ...db_models.Role) error {
	return RequireRole(p, allowed...)
}
