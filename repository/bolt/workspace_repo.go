package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskboard/domain"
	boltInfra "github.com/fastygo/taskboard/internal/infrastructure/bolt"
	"github.com/fastygo/taskboard/repository"
)

// memberRecord carries a bucket sequence so memberships created within the
// same clock tick still have a stable join order.
type memberRecord struct {
	domain.Membership
	Seq uint64 `json:"seq"`
}

func joinedBefore(a, b memberRecord) bool {
	if !a.JoinedAt.Equal(b.JoinedAt) {
		return a.JoinedAt.Before(b.JoinedAt)
	}
	return a.Seq < b.Seq
}

type workspaceRepository struct {
	store *boltInfra.Store
}

// NewWorkspaceRepository returns a BoltDB-backed implementation of WorkspaceRepository.
func NewWorkspaceRepository(store *boltInfra.Store) repository.WorkspaceRepository {
	return &workspaceRepository{store: store}
}

func (r *workspaceRepository) Create(ctx context.Context, ws *domain.Workspace) error {
	if ws == nil || ws.OwnerID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.DB.Update(func(tx *bolt.Tx) error {
		_, err := r.createWithOwner(tx, ws)
		return err
	})
}

func (r *workspaceRepository) EnsurePersonal(ctx context.Context, userID, name string) (*domain.Membership, error) {
	var membership *domain.Membership
	err := r.store.DB.Update(func(tx *bolt.Tx) error {
		first, err := firstMembership(tx, userID)
		if err != nil {
			return err
		}
		if first != nil {
			membership = &first.Membership
			return nil
		}
		membership, err = r.createWithOwner(tx, &domain.Workspace{Name: name, OwnerID: userID})
		return err
	})
	return membership, err
}

func (r *workspaceRepository) GetMembership(ctx context.Context, workspaceID, userID string) (*domain.Membership, error) {
	var rec memberRecord
	err := r.store.DB.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(boltInfra.BucketMembers), key(workspaceID, userID), &rec)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNotAMember
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec.Membership, nil
}

func (r *workspaceRepository) FirstMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	var first *memberRecord
	err := r.store.DB.View(func(tx *bolt.Tx) error {
		var err error
		first, err = firstMembership(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, domain.ErrNoMembership
	}
	return &first.Membership, nil
}

func (r *workspaceRepository) ListForUser(ctx context.Context, userID string) ([]domain.MemberWorkspace, error) {
	var records []memberRecord
	out := []domain.MemberWorkspace{}
	err := r.store.DB.View(func(tx *bolt.Tx) error {
		var err error
		records, err = userMemberships(tx, userID)
		if err != nil {
			return err
		}
		sort.SliceStable(records, func(i, j int) bool { return joinedBefore(records[i], records[j]) })

		workspaces := tx.Bucket(boltInfra.BucketWorkspaces)
		for _, m := range records {
			var ws domain.Workspace
			found, err := getJSON(workspaces, []byte(m.WorkspaceID), &ws)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			out = append(out, domain.MemberWorkspace{Workspace: ws, Role: m.Role, JoinedAt: m.JoinedAt})
		}
		return nil
	})
	return out, err
}

func (r *workspaceRepository) createWithOwner(tx *bolt.Tx, ws *domain.Workspace) (*domain.Membership, error) {
	if ws.ID == "" {
		ws.ID = uuid.NewString()
	}
	ws.CreatedAt = r.store.Now()
	if err := putJSON(tx.Bucket(boltInfra.BucketWorkspaces), []byte(ws.ID), ws); err != nil {
		return nil, err
	}
	rec, err := insertMember(tx, domain.Membership{
		WorkspaceID: ws.ID,
		UserID:      ws.OwnerID,
		Role:        domain.RoleOwner,
		JoinedAt:    ws.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return &rec.Membership, nil
}

func insertMember(tx *bolt.Tx, m domain.Membership) (memberRecord, error) {
	b := tx.Bucket(boltInfra.BucketMembers)
	seq, err := b.NextSequence()
	if err != nil {
		return memberRecord{}, err
	}
	rec := memberRecord{Membership: m, Seq: seq}
	return rec, putJSON(b, key(m.WorkspaceID, m.UserID), rec)
}

func userMemberships(tx *bolt.Tx, userID string) ([]memberRecord, error) {
	var out []memberRecord
	suffix := []byte("/" + userID)
	err := tx.Bucket(boltInfra.BucketMembers).ForEach(func(k, v []byte) error {
		if !bytes.HasSuffix(k, suffix) {
			return nil
		}
		var rec memberRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		if rec.UserID == userID {
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

func firstMembership(tx *bolt.Tx, userID string) (*memberRecord, error) {
	records, err := userMemberships(tx, userID)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	first := records[0]
	for _, rec := range records[1:] {
		if joinedBefore(rec, first) {
			first = rec
		}
	}
	return &first, nil
}
