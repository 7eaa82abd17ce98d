package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

type TaskFilter struct {
	WorkspaceID string
	Archived    bool
}

// TaskRepository persists tasks. Every method is scoped to a workspace and
// every write is a single atomic storage operation.
type TaskRepository interface {
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Task, error)
	// List returns active tasks newest first, or archived tasks most recently
	// updated first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	// Update replaces description, due date, priority, tag ids, subtasks and notes.
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, workspaceID, id string, status domain.TaskStatus) error
	SetArchived(ctx context.Context, workspaceID, id string, archived bool) error
	// ArchiveCompleted archives every completed, unarchived task and reports how many changed.
	ArchiveCompleted(ctx context.Context, workspaceID string) (int64, error)
	Delete(ctx context.Context, workspaceID, id string) error
	AppendNote(ctx context.Context, workspaceID, taskID string, note domain.Note) error
	RemoveNote(ctx context.Context, workspaceID, taskID, noteID string) error
	ToggleSubtask(ctx context.Context, workspaceID, taskID, subtaskID string) (*domain.Subtask, error)
}
