package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"immoportal/internal/models/db_models"
	"immoportal/internal/models/request_models"
	"immoportal/internal/models/response_models"
	"immoportal/internal/repositories"
	mem "immoportal/pkg/memcache"
	"immoportal/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	SignOut(claims *utils.Claims)
	IsRevoked(tokenID string) bool
	Me(ctx context.Context, p Principal) (*response_models.MeResponse, error)
	EnsureBootstrapAdmin(ctx context.Context, email, password, name string) error
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	tokens      *utils.TokenIssuer
	revoked     mem.TTLStore
	logger      *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	tokens *utils.TokenIssuer,
	revoked mem.TTLStore,
	logger *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		tokens:      tokens,
		revoked:     revoked,
		logger:      logger,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	request.Email = normalizeEmail(request.Email)
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	startTime := time.Now()

	identity, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		a.logger.Error("login lookup", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if identity == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(identity.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, claims, err := a.tokens.CreateToken(identity.ID)
	if err != nil {
		a.logger.Error("sign token", zap.Error(err))
		return nil, utils.ErrInvalidCredentials
	}

	resp := &response_models.AccountLoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if profile, err := a.accountRepo.FindProfile(ctx, identity.ID); err == nil && profile != nil {
		resp.Role = string(profile.Role)
	}

	a.logger.Debug("login", zap.String("user_id", identity.ID.String()), zap.Duration("took", time.Since(startTime)))
	return resp, nil
}

// SignOut revokes the token id until the token would have expired anyway.
func (a *AccountService) SignOut(claims *utils.Claims) {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	a.revoked.Set(revokedKey(claims.ID), claims.UserID, ttl)
}

func (a *AccountService) IsRevoked(tokenID string) bool {
	if tokenID == "" {
		return false
	}
	_, ok := a.revoked.Peek(revokedKey(tokenID))
	return ok
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

// Me describes the caller. Home is the landing area for the role; a
// principal without a role gets none.
func (a *AccountService) Me(ctx context.Context, p Principal) (*response_models.MeResponse, error) {
	identity, err := a.accountRepo.FindById(ctx, p.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if identity == nil {
		return nil, utils.ErrUnauthorized
	}

	resp := &response_models.MeResponse{
		ID:    identity.ID.String(),
		Email: identity.Email,
		Role:  string(p.Role),
		Home:  homeFor(p.Role),
	}
	if profile, err := a.accountRepo.FindProfile(ctx, p.ID); err == nil && profile != nil {
		resp.FullName = profile.FullName
	}
	return resp, nil
}

func homeFor(role db_models.Role) string {
	switch role {
	case db_models.RoleClient:
		return "/app/client"
	case db_models.RoleAgent, db_models.RoleAdmin:
		return "/app/agent"
	}
	return ""
}

// EnsureBootstrapAdmin creates the configured admin once. It is a no-op when
// unconfigured or when the email is already taken.
func (a *AccountService) EnsureBootstrapAdmin(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	existing, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	bundle, err := newAccountBundle(email, password, name, db_models.RoleAdmin)
	if err != nil {
		return err
	}
	if err := a.accountRepo.Provision(ctx, bundle); err != nil {
		return err
	}
	a.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newAccountBundle(email, password, name string, role db_models.Role) (repositories.AccountBundle, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return repositories.AccountBundle{}, err
	}
	return repositories.AccountBundle{
		Identity: &db_models.Identity{
			Email:        email,
			PasswordHash: hashedPassword,
		},
		Profile: &db_models.Profile{
			Role:     role,
			FullName: optionalString(name),
		},
	}, nil
}
