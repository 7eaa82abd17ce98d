package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskboard/domain"
	boltInfra "github.com/fastygo/taskboard/internal/infrastructure/bolt"
	"github.com/fastygo/taskboard/repository"
)

type tagRecord struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

type tagRepository struct {
	store *boltInfra.Store
}

// NewTagRepository returns a BoltDB-backed implementation of TagRepository.
func NewTagRepository(store *boltInfra.Store) repository.TagRepository {
	return &tagRepository{store: store}
}

func (r *tagRepository) List(ctx context.Context, workspaceID string) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	err := r.store.DB.View(func(tx *bolt.Tx) error {
		return scanPrefix(tx.Bucket(boltInfra.BucketTags), prefix(workspaceID), func(_, v []byte) error {
			var rec domain.Tag
			if err := unmarshalTag(v, &rec); err != nil {
				return err
			}
			tags = append(tags, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	return tags, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if tag == nil || tag.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltInfra.BucketTags)
		err := scanPrefix(b, prefix(tag.WorkspaceID), func(_, v []byte) error {
			var existing domain.Tag
			if err := unmarshalTag(v, &existing); err != nil {
				return err
			}
			if existing.Name == tag.Name {
				return domain.ErrDuplicateTagName
			}
			return nil
		})
		if err != nil {
			return err
		}
		if tag.ID == "" {
			tag.ID = uuid.NewString()
		}
		tag.CreatedAt = r.store.Now()
		return putJSON(b, key(tag.WorkspaceID, tag.ID), tagRecord{
			ID:          tag.ID,
			WorkspaceID: tag.WorkspaceID,
			UserID:      tag.UserID,
			Name:        tag.Name,
			Color:       tag.Color,
			CreatedAt:   tag.CreatedAt,
		})
	})
}

func (r *tagRepository) Delete(ctx context.Context, workspaceID, id string) error {
	return r.store.DB.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(boltInfra.BucketTags).Delete(key(workspaceID, id)); err != nil {
			return err
		}

		tasks := tx.Bucket(boltInfra.BucketTasks)
		now := r.store.Now()
		changed := map[string]taskRecord{}
		err := scanPrefix(tasks, prefix(workspaceID), func(k, v []byte) error {
			var rec taskRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			kept := make([]string, 0, len(rec.TagIDs))
			for _, tagID := range rec.TagIDs {
				if tagID != id {
					kept = append(kept, tagID)
				}
			}
			if len(kept) != len(rec.TagIDs) {
				rec.TagIDs = kept
				rec.UpdatedAt = now
				changed[string(k)] = rec
			}
			return nil
		})
		if err != nil {
			return err
		}
		for k, rec := range changed {
			if err := putJSON(tasks, []byte(k), rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func unmarshalTag(v []byte, tag *domain.Tag) error {
	var rec tagRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return err
	}
	*tag = domain.Tag{
		ID:          rec.ID,
		WorkspaceID: rec.WorkspaceID,
		UserID:      rec.UserID,
		Name:        rec.Name,
		Color:       rec.Color,
		CreatedAt:   rec.CreatedAt,
	}
	return nil
}
