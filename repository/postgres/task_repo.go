package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const taskColumns = `id::text, workspace_id::text, user_id, text, description, status, priority,
	due_date, tag_ids::text[], subtasks, notes, archived, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE workspace_id = $1 AND id = $2`
	return scanTask(r.pool.QueryRow(ctx, query, workspaceID, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	order := "created_at DESC"
	if filter.Archived {
		order = "updated_at DESC"
	}
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE workspace_id = $1 AND archived = $2
	ORDER BY ` + order

	rows, err := r.pool.Query(ctx, query, filter.WorkspaceID, filter.Archived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, workspace_id, user_id, text, description, status, priority, due_date, tag_ids, subtasks, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::uuid[], $10::jsonb, $11::jsonb)
	RETURNING created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		task.ID,
		task.WorkspaceID,
		task.UserID,
		task.Text,
		task.Description,
		task.Status,
		task.Priority,
		dueDate(task.DueDate),
		nonNil(task.TagIDs),
		marshalList(task.Subtasks),
		marshalList(task.Notes),
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	query := `
	UPDATE tasks
	SET description = $3,
		due_date = $4,
		priority = $5,
		tag_ids = $6::uuid[],
		subtasks = $7::jsonb,
		notes = $8::jsonb,
		updated_at = NOW()
	WHERE workspace_id = $1 AND id = $2
	RETURNING ` + taskColumns

	updated, err := scanTask(r.pool.QueryRow(ctx, query,
		task.WorkspaceID,
		task.ID,
		task.Description,
		dueDate(task.DueDate),
		task.Priority,
		nonNil(task.TagIDs),
		marshalList(task.Subtasks),
		marshalList(task.Notes),
	))
	if err != nil {
		return err
	}
	*task = *updated
	return nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, workspaceID, id string, status domain.TaskStatus) error {
	const query = `UPDATE tasks SET status = $3, updated_at = NOW() WHERE workspace_id = $1 AND id = $2`
	return r.exec(ctx, query, workspaceID, id, status)
}

func (r *taskRepository) SetArchived(ctx context.Context, workspaceID, id string, archived bool) error {
	const query = `UPDATE tasks SET archived = $3, updated_at = NOW() WHERE workspace_id = $1 AND id = $2`
	return r.exec(ctx, query, workspaceID, id, archived)
}

func (r *taskRepository) ArchiveCompleted(ctx context.Context, workspaceID string) (int64, error) {
	const query = `
	UPDATE tasks
	SET archived = TRUE, updated_at = NOW()
	WHERE workspace_id = $1 AND status = 'completed' AND NOT archived
	`
	tag, err := r.pool.Exec(ctx, query, workspaceID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *taskRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM tasks WHERE workspace_id = $1 AND id = $2`
	return r.exec(ctx, query, workspaceID, id)
}

func (r *taskRepository) AppendNote(ctx context.Context, workspaceID, taskID string, note domain.Note) error {
	const query = `
	UPDATE tasks
	SET notes = notes || $3::jsonb, updated_at = NOW()
	WHERE workspace_id = $1 AND id = $2
	`
	return r.exec(ctx, query, workspaceID, taskID, marshalList([]domain.Note{note}))
}

func (r *taskRepository) RemoveNote(ctx context.Context, workspaceID, taskID, noteID string) error {
	const query = `
	UPDATE tasks
	SET notes = COALESCE((
			SELECT jsonb_agg(n ORDER BY ord)
			FROM jsonb_array_elements(notes) WITH ORDINALITY AS e(n, ord)
			WHERE n ->> 'id' <> $3
		), '[]'::jsonb),
		updated_at = NOW()
	WHERE workspace_id = $1 AND id = $2
	`
	return r.exec(ctx, query, workspaceID, taskID, noteID)
}

func (r *taskRepository) ToggleSubtask(ctx context.Context, workspaceID, taskID, subtaskID string) (*domain.Subtask, error) {
	var toggled *domain.Subtask
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var raw []byte
		err := tx.QueryRow(ctx,
			`SELECT subtasks FROM tasks WHERE workspace_id = $1 AND id = $2 FOR UPDATE`,
			workspaceID, taskID,
		).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		if err != nil {
			return err
		}

		var subtasks []domain.Subtask
		if err := json.Unmarshal(raw, &subtasks); err != nil {
			return err
		}
		for i, s := range subtasks {
			if s.ID == subtaskID {
				subtasks[i] = s.Toggle()
				toggled = &subtasks[i]
				break
			}
		}
		if toggled == nil {
			return domain.ErrSubtaskNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE tasks SET subtasks = $3::jsonb, updated_at = NOW() WHERE workspace_id = $1 AND id = $2`,
			workspaceID, taskID, marshalList(subtasks),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

func (r *taskRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func dueDate(d *domain.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		due      *time.Time
		subtasks []byte
		notes    []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.WorkspaceID,
		&task.UserID,
		&task.Text,
		&task.Description,
		&task.Status,
		&task.Priority,
		&due,
		&task.TagIDs,
		&subtasks,
		&notes,
		&task.Archived,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if due != nil {
		d := domain.DateOf(*due)
		task.DueDate = &d
	}
	if len(subtasks) > 0 {
		if err := json.Unmarshal(subtasks, &task.Subtasks); err != nil {
			return nil, err
		}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &task.Notes); err != nil {
			return nil, err
		}
	}
	task.TagIDs = nonNil(task.TagIDs)
	task.Tags = []domain.Tag{}
	task.Subtasks = nonNil(task.Subtasks)
	task.Notes = nonNil(task.Notes)
	return &task, nil
}
