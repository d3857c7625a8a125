package services

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"
	"immoportal/pkg/utils"
)

type SyncResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type SyncServiceInterface interface {
	// Authorize checks the shared secret. An unconfigured secret rejects everyone.
	Authorize(provided string) error
	RunDaily(ctx context.Context) (*SyncResult, error)
}

type SyncService struct {
	secret string
	logger *zap.Logger
}

func NewSyncService(secret string, logger *zap.Logger) SyncServiceInterface {
	return &SyncService{secret: secret, logger: logger}
}

func (s *SyncService) Authorize(provided string) error {
	if s.secret == "" || provided == "" {
		return utils.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(s.secret), []byte(provided)) != 1 {
		return utils.ErrUnauthorized
	}
	return nil
}

// RunDaily is the hook for the external listing feed import. No feed is wired yet.
func (s *SyncService) RunDaily(ctx context.Context) (*SyncResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Info("daily sync triggered")
	return &SyncResult{
		OK:      true,
		Message: "Daily sync endpoint ready. Listing feed import is not configured.",
	}, nil
}
