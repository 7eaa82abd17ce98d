package task

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

// UseCase holds every task write path. Each method checks the caller,
// validates input, resolves the active workspace and then issues one
// storage operation.
type UseCase struct {
	tasks      repository.TaskRepository
	tags       repository.TagRepository
	workspaces usecase.WorkspaceResolver
	cache      repository.BoardCache
	now        func() time.Time
	logger     *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	tags repository.TagRepository,
	workspaces usecase.WorkspaceResolver,
	cache repository.BoardCache,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:      tasks,
		tags:       tags,
		workspaces: workspaces,
		cache:      cache,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock replaces the clock used for note timestamps.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func (uc *UseCase) CreateTask(ctx context.Context, in validation.CreateTaskInput) (*domain.Task, error) {
	caller, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		in, err = validation.CreateTask(in)
		return err
	})
	if err != nil {
		return nil, err
	}

	task := domain.NewTask(workspaceID, caller.UserID, in.Text, in.Description)
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	uc.changed(ctx, workspaceID)
	return task, nil
}

// UpdateTask replaces description, due date, priority, tags, subtasks and
// notes in one write. Status and text are never touched here.
func (uc *UseCase) UpdateTask(ctx context.Context, in validation.UpdateTaskInput) (*domain.Task, error) {
	var update validation.TaskUpdate
	_, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		update, err = validation.UpdateTask(in)
		return err
	})
	if err != nil {
		return nil, err
	}

	tags, err := uc.tags.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	index := domain.IndexTags(tags)
	for i, id := range update.TagIDs {
		if _, ok := index[id]; !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("tagIds[%d]", i), "Invalid tag ID")
		}
	}

	task := &domain.Task{
		ID:          update.ID,
		WorkspaceID: workspaceID,
		Description: update.Description,
		DueDate:     update.DueDate,
		Priority:    update.Priority,
		TagIDs:      update.TagIDs,
		Subtasks:    update.Subtasks,
		Notes:       update.Notes,
	}
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	task.Tags = index.Resolve(task.TagIDs)
	uc.changed(ctx, workspaceID)
	return task, nil
}

func (uc *UseCase) UpdateTaskStatus(ctx context.Context, in validation.UpdateTaskStatusInput) error {
	_, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		in, err = validation.UpdateTaskStatus(in)
		return err
	})
	if err != nil {
		return err
	}
	if err := uc.tasks.UpdateStatus(ctx, workspaceID, in.ID, domain.TaskStatus(in.Status)); err != nil {
		return err
	}
	uc.changed(ctx, workspaceID)
	return nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, in validation.IDInput) error {
	_, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		in, err = validation.TaskID(in)
		return err
	})
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, workspaceID, in.ID); err != nil {
		return err
	}
	uc.changed(ctx, workspaceID)
	return nil
}

// ArchiveCompletedTasks archives every completed task of the active workspace
// and returns how many were archived by this call.
func (uc *UseCase) ArchiveCompletedTasks(ctx context.Context) (int64, error) {
	_, workspaceID, err := uc.scope(ctx, nil)
	if err != nil {
		return 0, err
	}
	n, err := uc.tasks.ArchiveCompleted(ctx, workspaceID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.changed(ctx, workspaceID)
	}
	return n, nil
}

// RestoreTask moves an archived task back onto the board. Active tasks are
// reported as not found.
func (uc *UseCase) RestoreTask(ctx context.Context, in validation.IDInput) error {
	_, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		in, err = validation.TaskID(in)
		return err
	})
	if err != nil {
		return err
	}
	current, err := uc.tasks.GetByID(ctx, workspaceID, in.ID)
	if err != nil {
		return err
	}
	if !current.Archived {
		return domain.ErrTaskNotFound
	}
	if err := uc.tasks.SetArchived(ctx, workspaceID, in.ID, false); err != nil {
		return err
	}
	uc.changed(ctx, workspaceID)
	return nil
}

func (uc *UseCase) AddNote(ctx context.Context, in validation.AddNoteInput) (*domain.Note, error) {
	_, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		in, err = validation.AddNote(in)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, err
	}
	note := domain.Note{ID: id.String(), Text: in.Text, CreatedAt: now}
	if err := uc.tasks.AppendNote(ctx, workspaceID, in.TaskID, note); err != nil {
		return nil, err
	}
	uc.changed(ctx, workspaceID)
	return &note, nil
}

func (uc *UseCase) DeleteNote(ctx context.Context, in validation.DeleteNoteInput) error {
	_, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		in, err = validation.DeleteNote(in)
		return err
	})
	if err != nil {
		return err
	}
	if err := uc.tasks.RemoveNote(ctx, workspaceID, in.TaskID, in.NoteID); err != nil {
		return err
	}
	uc.changed(ctx, workspaceID)
	return nil
}

func (uc *UseCase) ToggleSubtask(ctx context.Context, in validation.ToggleSubtaskInput) (*domain.Subtask, error) {
	_, workspaceID, err := uc.scope(ctx, func() error {
		var err error
		in, err = validation.ToggleSubtask(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	subtask, err := uc.tasks.ToggleSubtask(ctx, workspaceID, in.TaskID, in.SubtaskID)
	if err != nil {
		return nil, err
	}
	uc.changed(ctx, workspaceID)
	return subtask, nil
}

// scope authenticates, runs validate (if any) and resolves the workspace, in
// that order, so nothing reaches storage for a rejected request.
func (uc *UseCase) scope(ctx context.Context, validate func() error) (*usecase.Caller, string, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	if validate != nil {
		if err := validate(); err != nil {
			return nil, "", err
		}
	}
	workspaceID, err := uc.workspaces.ResolveActiveWorkspace(ctx)
	if err != nil {
		return nil, "", err
	}
	return caller, workspaceID, nil
}

func (uc *UseCase) changed(ctx context.Context, workspaceID string) {
	usecase.InvalidateBoard(ctx, uc.cache, workspaceID, uc.logger)
}
