package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

type WorkspaceRepository interface {
	// Create inserts the workspace and its owner membership atomically.
	Create(ctx context.Context, ws *domain.Workspace) error
	// EnsurePersonal returns the user's earliest membership, creating a
	// workspace named name (with owner membership) when none exists.
	EnsurePersonal(ctx context.Context, userID, name string) (*domain.Membership, error)
	GetMembership(ctx context.Context, workspaceID, userID string) (*domain.Membership, error)
	// FirstMembership returns the earliest joined membership or domain.ErrNoMembership.
	FirstMembership(ctx context.Context, userID string) (*domain.Membership, error)
	// ListForUser returns the user's workspaces ordered by join time ascending.
	ListForUser(ctx context.Context, userID string) ([]domain.MemberWorkspace, error)
}

type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) error
	// Redeem validates the token and adds a member membership in one atomic
	// step. Redeeming twice for the same user yields one membership.
	Redeem(ctx context.Context, token, userID string) (string, error)
	// PurgeExpired deletes invites whose expiry is not after now.
	PurgeExpired(ctx context.Context) (int64, error)
}
