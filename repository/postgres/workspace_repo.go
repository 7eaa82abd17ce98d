package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type workspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository returns a Postgres-backed implementation of WorkspaceRepository.
func NewWorkspaceRepository(pool *pgxpool.Pool) repository.WorkspaceRepository {
	return &workspaceRepository{pool: pool}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *workspaceRepository) Create(ctx context.Context, ws *domain.Workspace) error {
	if ws == nil || ws.OwnerID == "" {
		return domain.ErrInvalidPayload
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := createWithOwner(ctx, tx, ws)
		return err
	})
}

// EnsurePersonal serialises concurrent first requests of the same user with a
// transaction-scoped advisory lock so at most one personal workspace is made.
func (r *workspaceRepository) EnsurePersonal(ctx context.Context, userID, name string) (*domain.Membership, error) {
	var membership *domain.Membership
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
			return err
		}
		existing, err := firstMembership(ctx, tx, userID)
		if err == nil {
			membership = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNoMembership) {
			return err
		}
		membership, err = createWithOwner(ctx, tx, &domain.Workspace{Name: name, OwnerID: userID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

func (r *workspaceRepository) GetMembership(ctx context.Context, workspaceID, userID string) (*domain.Membership, error) {
	const query = `
	SELECT workspace_id::text, user_id, role, joined_at
	FROM workspace_members
	WHERE workspace_id = $1 AND user_id = $2
	`
	m, err := scanMembership(r.pool.QueryRow(ctx, query, workspaceID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotAMember
	}
	return m, err
}

func (r *workspaceRepository) FirstMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	return firstMembership(ctx, r.pool, userID)
}

func (r *workspaceRepository) ListForUser(ctx context.Context, userID string) ([]domain.MemberWorkspace, error) {
	const query = `
	SELECT w.id::text, w.name, w.owner_id, w.created_at, m.role, m.joined_at
	FROM workspace_members m
	JOIN workspaces w ON w.id = m.workspace_id
	WHERE m.user_id = $1
	ORDER BY m.joined_at, m.id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MemberWorkspace{}
	for rows.Next() {
		var mw domain.MemberWorkspace
		if err := rows.Scan(&mw.ID, &mw.Name, &mw.OwnerID, &mw.CreatedAt, &mw.Role, &mw.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, mw)
	}
	return out, rows.Err()
}

func createWithOwner(ctx context.Context, tx pgx.Tx, ws *domain.Workspace) (*domain.Membership, error) {
	if ws.ID == "" {
		ws.ID = uuid.NewString()
	}
	const insertWorkspace = `
	INSERT INTO workspaces (id, name, owner_id)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insertWorkspace, ws.ID, ws.Name, ws.OwnerID).Scan(&ws.CreatedAt); err != nil {
		return nil, err
	}

	const insertOwner = `
	INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
	VALUES ($1, $2, $3, $4)
	RETURNING workspace_id::text, user_id, role, joined_at
	`
	return scanMembership(tx.QueryRow(ctx, insertOwner, ws.ID, ws.OwnerID, domain.RoleOwner, ws.CreatedAt))
}

func firstMembership(ctx context.Context, q querier, userID string) (*domain.Membership, error) {
	const query = `
	SELECT workspace_id::text, user_id, role, joined_at
	FROM workspace_members
	WHERE user_id = $1
	ORDER BY joined_at, id
	LIMIT 1
	`
	m, err := scanMembership(q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoMembership
	}
	return m, err
}

func scanMembership(row rowScanner) (*domain.Membership, error) {
	var m domain.Membership
	if err := row.Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
