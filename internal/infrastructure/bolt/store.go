package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the embedded storage driver.
var (
	BucketMeta       = []byte("meta")
	BucketWorkspaces = []byte("workspaces")
	BucketMembers    = []byte("workspace_members")
	BucketInvites    = []byte("workspace_invites")
	BucketTags       = []byte("tags")
	BucketTasks      = []byte("tasks")
)

var buckets = [][]byte{BucketMeta, BucketWorkspaces, BucketMembers, BucketInvites, BucketTags, BucketTasks}

// Store wraps a BoltDB file holding every board collection.
type Store struct {
	DB  *bolt.DB
	Now func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now for timestamps and invite expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.Now = now
		}
	}
}

// Open initializes the BoltDB file and ensures every bucket exists.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{DB: db, Now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ping reports whether the database file is still open.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.DB.View(func(tx *bolt.Tx) error {
		if tx.Bucket(BucketMeta) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
