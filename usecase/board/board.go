package board

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

// UseCase assembles read models. Stored tag references are resolved against
// the workspace's tags; ids that no longer resolve are dropped.
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

// WithClock replaces the clock that decides which day counts as today.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func (uc *UseCase) ListActiveTasks(ctx context.Context) ([]domain.Task, error) {
	snapshot, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Tasks, nil
}

// ListArchivedTasks returns archived tasks, most recently updated first,
// optionally narrowed by a search text.
func (uc *UseCase) ListArchivedTasks(ctx context.Context, search string) ([]domain.Task, error) {
	workspaceID, err := uc.resolve(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{WorkspaceID: workspaceID, Archived: true})
	if err != nil {
		return nil, err
	}
	tags, err := uc.tags.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	attachTags(tasks, tags)
	return domain.TaskQuery{Search: search}.Filter(tasks), nil
}

func (uc *UseCase) ListTags(ctx context.Context) ([]domain.Tag, error) {
	snapshot, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Tags, nil
}

// Board groups the active tasks into status columns.
func (uc *UseCase) Board(ctx context.Context, q domain.TaskQuery) (*domain.Board, error) {
	snapshot, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildBoard(snapshot.WorkspaceID, snapshot.Tasks, snapshot.Tags, q, domain.DateOf(uc.now())), nil
}

func (uc *UseCase) resolve(ctx context.Context) (string, error) {
	if _, err := usecase.CallerFrom(ctx); err != nil {
		return "", err
	}
	return uc.workspaces.ResolveActiveWorkspace(ctx)
}

// snapshot returns the workspace's active tasks with resolved tags plus its
// tag list, from the cache when possible.
func (uc *UseCase) snapshot(ctx context.Context) (*repository.BoardSnapshot, error) {
	workspaceID, err := uc.resolve(ctx)
	if err != nil {
		return nil, err
	}

	cache := uc.cache
	var generation int64
	if cache != nil {
		cached, err := cache.Get(ctx, workspaceID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			uc.logger.Warn("board cache read failed", zap.String("workspace_id", workspaceID), zap.Error(err))
		}
		// the generation must be read before storage is
		if generation, err = cache.Generation(ctx, workspaceID); err != nil {
			uc.logger.Warn("board cache generation read failed", zap.String("workspace_id", workspaceID), zap.Error(err))
			cache = nil
		}
	}

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{WorkspaceID: workspaceID})
	if err != nil {
		return nil, err
	}
	tags, err := uc.tags.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	attachTags(tasks, tags)

	snapshot := &repository.BoardSnapshot{WorkspaceID: workspaceID, Tasks: tasks, Tags: tags, Generation: generation}
	if cache != nil {
		if err := cache.Set(ctx, snapshot); err != nil {
			uc.logger.Warn("board cache write failed", zap.String("workspace_id", workspaceID), zap.Error(err))
		}
	}
	return snapshot, nil
}

func attachTags(tasks []domain.Task, tags []domain.Tag) {
	index := domain.IndexTags(tags)
	for i := range tasks {
		tasks[i].Tags = index.Resolve(tasks[i].TagIDs)
	}
}
