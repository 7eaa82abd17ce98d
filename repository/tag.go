package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

type TagRepository interface {
	// List returns the workspace's tags ordered by name.
	List(ctx context.Context, workspaceID string) ([]domain.Tag, error)
	// Create fails with domain.ErrDuplicateTagName when the name is taken.
	Create(ctx context.Context, tag *domain.Tag) error
	// Delete removes the tag and strips its id from every task in the same
	// operation. Deleting a missing tag is not an error.
	Delete(ctx context.Context, workspaceID, id string) error
}
