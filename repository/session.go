package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// SessionRepository records signed-out sessions until their tokens expire.
type SessionRepository interface {
	Revoke(ctx context.Context, session *domain.Session) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// BoardCache stores assembled board data per workspace.
type BoardCache interface {
	// Get returns domain.ErrCacheMiss when nothing is cached.
	Get(ctx context.Context, workspaceID string) (*BoardSnapshot, error)
	// Generation is read before loading a snapshot from storage.
	Generation(ctx context.Context, workspaceID string) (int64, error)
	// Set is a no-op when the workspace was invalidated after
	// snapshot.Generation was read.
	Set(ctx context.Context, snapshot *BoardSnapshot) error
	Invalidate(ctx context.Context, workspaceID string) error
}

// BoardSnapshot is the unfiltered data a board is built from.
type BoardSnapshot struct {
	WorkspaceID string        `json:"workspaceId"`
	Tasks       []domain.Task `json:"tasks"`
	Tags        []domain.Tag  `json:"tags"`
	Generation  int64         `json:"generation"`
}
