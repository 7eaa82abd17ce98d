package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

// UseCase fronts the authentication provider. Identity comes from the
// verified token; the only state kept here is the revocation list.
type UseCase struct {
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		sessions: sessions,
		logger:   logger,
	}
}

func (uc *UseCase) CurrentUser(ctx context.Context) (*domain.User, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: caller.UserID, Email: caller.Email}, nil
}

// SignOut revokes the caller's token until it expires.
func (uc *UseCase) SignOut(ctx context.Context) error {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return err
	}
	if caller.SessionID == "" {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, &domain.Session{
		ID:        caller.SessionID,
		UserID:    caller.UserID,
		Email:     caller.Email,
		ExpiresAt: caller.ExpiresAt,
	}); err != nil {
		return err
	}
	uc.logger.Info("session revoked", zap.String("user_id", caller.UserID))
	return nil
}

// IsRevoked reports whether a token id was signed out.
func (uc *UseCase) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return uc.sessions.IsRevoked(ctx, sessionID)
}
