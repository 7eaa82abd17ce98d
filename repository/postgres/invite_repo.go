package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type inviteRepository struct {
	pool *pgxpool.Pool
}

// NewInviteRepository returns a Postgres-backed implementation of InviteRepository.
func NewInviteRepository(pool *pgxpool.Pool) repository.InviteRepository {
	return &inviteRepository{pool: pool}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.Invite) error {
	if invite == nil || invite.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	if invite.ID == "" {
		invite.ID = uuid.NewString()
	}
	if invite.Token == "" {
		invite.Token = uuid.NewString()
	}

	const query = `
	INSERT INTO workspace_invites (id, workspace_id, created_by, token, expires_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		invite.ID,
		invite.WorkspaceID,
		invite.CreatedBy,
		invite.Token,
		invite.ExpiresAt,
	).Scan(&invite.CreatedAt)
	if pgCode(err) == codeForeignKeyViolation {
		return domain.ErrWorkspaceNotFound
	}
	return err
}

// Redeem delegates to join_workspace_via_invite, which validates the token
// and inserts the membership in one statement.
func (r *inviteRepository) Redeem(ctx context.Context, token, userID string) (string, error) {
	var workspaceID string
	err := r.pool.QueryRow(ctx, `SELECT join_workspace_via_invite($1, $2)::text`, token, userID).Scan(&workspaceID)
	if err != nil {
		switch pgCode(err) {
		case codeInviteNotFound:
			return "", domain.ErrInviteNotFound
		case codeInviteExpired:
			return "", domain.ErrInviteExpired
		}
		return "", err
	}
	return workspaceID, nil
}

func (r *inviteRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workspace_invites WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
