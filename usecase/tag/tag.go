package tag

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

type UseCase struct {
	tags       repository.TagRepository
	workspaces usecase.WorkspaceResolver
	cache      repository.BoardCache
	logger     *zap.Logger
}

func New(tags repository.TagRepository, workspaces usecase.WorkspaceResolver, cache repository.BoardCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tags:       tags,
		workspaces: workspaces,
		cache:      cache,
		logger:     logger,
	}
}

func (uc *UseCase) CreateTag(ctx context.Context, in validation.CreateTagInput) (*domain.Tag, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if in, err = validation.CreateTag(in); err != nil {
		return nil, err
	}
	workspaceID, err := uc.workspaces.ResolveActiveWorkspace(ctx)
	if err != nil {
		return nil, err
	}

	tag := &domain.Tag{WorkspaceID: workspaceID, UserID: caller.UserID, Name: in.Name, Color: in.Color}
	if err := uc.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	usecase.InvalidateBoard(ctx, uc.cache, workspaceID, uc.logger)
	return tag, nil
}

// DeleteTag removes the tag together with every reference to it.
func (uc *UseCase) DeleteTag(ctx context.Context, in validation.IDInput) error {
	if _, err := usecase.CallerFrom(ctx); err != nil {
		return err
	}
	in, err := validation.TagID(in)
	if err != nil {
		return err
	}
	workspaceID, err := uc.workspaces.ResolveActiveWorkspace(ctx)
	if err != nil {
		return err
	}
	if err := uc.tags.Delete(ctx, workspaceID, in.ID); err != nil {
		return err
	}
	usecase.InvalidateBoard(ctx, uc.cache, workspaceID, uc.logger)
	return nil
}
