package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskboard/domain"
	boltInfra "github.com/fastygo/taskboard/internal/infrastructure/bolt"
	"github.com/fastygo/taskboard/repository"
)

// taskRecord is the stored form of a task; tags are kept as id references.
type taskRecord struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	UserID      string            `json:"user_id"`
	Text        string            `json:"text"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	Priority    domain.Priority   `json:"priority"`
	DueDate     *domain.Date      `json:"due_date,omitempty"`
	TagIDs      []string          `json:"tag_ids"`
	Subtasks    []domain.Subtask  `json:"subtasks"`
	Notes       []domain.Note     `json:"notes"`
	Archived    bool              `json:"archived"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func recordFromTask(t *domain.Task) taskRecord {
	return taskRecord{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		UserID:      t.UserID,
		Text:        t.Text,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		TagIDs:      nonNil(t.TagIDs),
		Subtasks:    nonNil(t.Subtasks),
		Notes:       nonNil(t.Notes),
		Archived:    t.Archived,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r taskRecord) toTask() domain.Task {
	return domain.Task{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		UserID:      r.UserID,
		Text:        r.Text,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		TagIDs:      nonNil(r.TagIDs),
		Tags:        []domain.Tag{},
		Subtasks:    nonNil(r.Subtasks),
		Notes:       nonNil(r.Notes),
		Archived:    r.Archived,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type taskRepository struct {
	store *boltInfra.Store
}

// NewTaskRepository returns a BoltDB-backed implementation of TaskRepository.
func NewTaskRepository(store *boltInfra.Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Task, error) {
	var rec taskRecord
	err := r.store.DB.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(boltInfra.BucketTasks), key(workspaceID, id), &rec)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrTaskNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	task := rec.toTask()
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.store.DB.View(func(tx *bolt.Tx) error {
		return scanPrefix(tx.Bucket(boltInfra.BucketTasks), prefix(filter.WorkspaceID), func(_, v []byte) error {
			var rec taskRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.Archived == filter.Archived {
				tasks = append(tasks, rec.toTask())
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if filter.Archived {
			return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := r.store.Now()
	task.CreatedAt, task.UpdatedAt = now, now

	return r.store.DB.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(boltInfra.BucketTasks), key(task.WorkspaceID, task.ID), recordFromTask(task))
	})
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	rec, err := r.mutate(task.WorkspaceID, task.ID, func(rec *taskRecord) error {
		rec.Description = task.Description
		rec.DueDate = task.DueDate
		rec.Priority = task.Priority
		rec.TagIDs = nonNil(task.TagIDs)
		rec.Subtasks = nonNil(task.Subtasks)
		rec.Notes = nonNil(task.Notes)
		return nil
	})
	if err != nil {
		return err
	}
	*task = rec.toTask()
	return nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, workspaceID, id string, status domain.TaskStatus) error {
	_, err := r.mutate(workspaceID, id, func(rec *taskRecord) error {
		rec.Status = status
		return nil
	})
	return err
}

func (r *taskRepository) SetArchived(ctx context.Context, workspaceID, id string, archived bool) error {
	_, err := r.mutate(workspaceID, id, func(rec *taskRecord) error {
		rec.Archived = archived
		return nil
	})
	return err
}

func (r *taskRepository) ArchiveCompleted(ctx context.Context, workspaceID string) (int64, error) {
	var affected int64
	err := r.store.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltInfra.BucketTasks)
		now := r.store.Now()
		pending := map[string]taskRecord{}
		err := scanPrefix(b, prefix(workspaceID), func(k, v []byte) error {
			var rec taskRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.Status == domain.StatusCompleted && !rec.Archived {
				rec.Archived = true
				rec.UpdatedAt = now
				pending[string(k)] = rec
			}
			return nil
		})
		if err != nil {
			return err
		}
		for k, rec := range pending {
			if err := putJSON(b, []byte(k), rec); err != nil {
				return err
			}
		}
		affected = int64(len(pending))
		return nil
	})
	return affected, err
}

func (r *taskRepository) Delete(ctx context.Context, workspaceID, id string) error {
	return r.store.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltInfra.BucketTasks)
		k := key(workspaceID, id)
		if b.Get(k) == nil {
			return domain.ErrTaskNotFound
		}
		return b.Delete(k)
	})
}

func (r *taskRepository) AppendNote(ctx context.Context, workspaceID, taskID string, note domain.Note) error {
	_, err := r.mutate(workspaceID, taskID, func(rec *taskRecord) error {
		rec.Notes = append(rec.Notes, note)
		return nil
	})
	return err
}

func (r *taskRepository) RemoveNote(ctx context.Context, workspaceID, taskID, noteID string) error {
	_, err := r.mutate(workspaceID, taskID, func(rec *taskRecord) error {
		kept := rec.Notes[:0]
		for _, n := range rec.Notes {
			if n.ID != noteID {
				kept = append(kept, n)
			}
		}
		rec.Notes = kept
		return nil
	})
	return err
}

func (r *taskRepository) ToggleSubtask(ctx context.Context, workspaceID, taskID, subtaskID string) (*domain.Subtask, error) {
	var toggled domain.Subtask
	_, err := r.mutate(workspaceID, taskID, func(rec *taskRecord) error {
		for i, s := range rec.Subtasks {
			if s.ID == subtaskID {
				rec.Subtasks[i] = s.Toggle()
				toggled = rec.Subtasks[i]
				return nil
			}
		}
		return domain.ErrSubtaskNotFound
	})
	if err != nil {
		return nil, err
	}
	return &toggled, nil
}

// mutate loads a task, applies fn and stores it with a fresh updated_at, all
// inside one transaction.
func (r *taskRepository) mutate(workspaceID, id string, fn func(*taskRecord) error) (taskRecord, error) {
	var rec taskRecord
	err := r.store.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltInfra.BucketTasks)
		k := key(workspaceID, id)
		found, err := getJSON(b, k, &rec)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrTaskNotFound
		}
		if err := fn(&rec); err != nil {
			return err
		}
		rec.UpdatedAt = r.store.Now()
		return putJSON(b, k, rec)
	})
	return rec, err
}
