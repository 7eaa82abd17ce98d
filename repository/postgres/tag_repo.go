package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository returns a Postgres-backed implementation of TagRepository.
func NewTagRepository(pool *pgxpool.Pool) repository.TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) List(ctx context.Context, workspaceID string) ([]domain.Tag, error) {
	const query = `
	SELECT id::text, workspace_id::text, user_id, name, color, created_at
	FROM tags
	WHERE workspace_id = $1
	ORDER BY lower(name), name
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.WorkspaceID, &tag.UserID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if tag == nil || tag.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tags (id, workspace_id, user_id, name, color)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, tag.ID, tag.WorkspaceID, tag.UserID, tag.Name, tag.Color).Scan(&tag.CreatedAt)
	if pgCode(err) == codeUniqueViolation {
		return domain.ErrDuplicateTagName
	}
	return err
}

// Delete removes the tag and rewrites every referencing task in one statement.
func (r *tagRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `
	WITH deleted AS (
		DELETE FROM tags WHERE workspace_id = $1 AND id = $2 RETURNING id
	)
	UPDATE tasks
	SET tag_ids = array_remove(tasks.tag_ids, deleted.id), updated_at = NOW()
	FROM deleted
	WHERE tasks.workspace_id = $1 AND deleted.id = ANY(tasks.tag_ids)
	`
	_, err := r.pool.Exec(ctx, query, workspaceID, id)
	return err
}
