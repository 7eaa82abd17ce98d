package bolt

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskboard/domain"
	boltInfra "github.com/fastygo/taskboard/internal/infrastructure/bolt"
	"github.com/fastygo/taskboard/repository"
)

type inviteRepository struct {
	store *boltInfra.Store
}

// NewInviteRepository returns a BoltDB-backed implementation of InviteRepository.
func NewInviteRepository(store *boltInfra.Store) repository.InviteRepository {
	return &inviteRepository{store: store}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.Invite) error {
	if invite == nil || invite.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	if invite.ID == "" {
		invite.ID = uuid.NewString()
	}
	if invite.Token == "" {
		invite.Token = uuid.NewString()
	}
	invite.CreatedAt = r.store.Now()

	return r.store.DB.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(boltInfra.BucketWorkspaces).Get([]byte(invite.WorkspaceID)) == nil {
			return domain.ErrWorkspaceNotFound
		}
		return putJSON(tx.Bucket(boltInfra.BucketInvites), []byte(invite.Token), invite)
	})
}

func (r *inviteRepository) Redeem(ctx context.Context, token, userID string) (string, error) {
	var workspaceID string
	err := r.store.DB.Update(func(tx *bolt.Tx) error {
		var invite domain.Invite
		found, err := getJSON(tx.Bucket(boltInfra.BucketInvites), []byte(token), &invite)
		if err != nil {
			return err
		}
		if !found || tx.Bucket(boltInfra.BucketWorkspaces).Get([]byte(invite.WorkspaceID)) == nil {
			return domain.ErrInviteNotFound
		}
		if invite.IsExpired(r.store.Now()) {
			return domain.ErrInviteExpired
		}

		workspaceID = invite.WorkspaceID
		if tx.Bucket(boltInfra.BucketMembers).Get(key(workspaceID, userID)) != nil {
			return nil
		}
		_, err = insertMember(tx, domain.Membership{
			WorkspaceID: workspaceID,
			UserID:      userID,
			Role:        domain.RoleMember,
			JoinedAt:    r.store.Now(),
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return workspaceID, nil
}

func (r *inviteRepository) PurgeExpired(ctx context.Context) (int64, error) {
	var purged int64
	err := r.store.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltInfra.BucketInvites)
		now := r.store.Now()
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var invite domain.Invite
			if err := json.Unmarshal(v, &invite); err != nil {
				return err
			}
			if invite.IsExpired(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		purged = int64(len(expired))
		return nil
	})
	return purged, err
}
