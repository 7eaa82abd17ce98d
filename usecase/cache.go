package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/repository"
)

// InvalidateBoard drops the cached board of a workspace after a mutation.
// Cache failures are logged and never fail the mutation.
func InvalidateBoard(ctx context.Context, cache repository.BoardCache, workspaceID string, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, workspaceID); err != nil && logger != nil {
		logger.Warn("board cache invalidation failed", zap.String("workspace_id", workspaceID), zap.Error(err))
	}
}
