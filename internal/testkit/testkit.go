// Package testkit assembles the use cases over a temporary BoltDB file and an
// in-memory Redis for tests.
package testkit

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	boltInfra "github.com/fastygo/taskboard/internal/infrastructure/bolt"
	"github.com/fastygo/taskboard/repository"
	boltRepo "github.com/fastygo/taskboard/repository/bolt"
	redisRepo "github.com/fastygo/taskboard/repository/redis"
	"github.com/fastygo/taskboard/usecase"
	"github.com/fastygo/taskboard/usecase/auth"
	"github.com/fastygo/taskboard/usecase/board"
	"github.com/fastygo/taskboard/usecase/tag"
	"github.com/fastygo/taskboard/usecase/task"
	"github.com/fastygo/taskboard/usecase/workspace"
)

// Clock moves forward by Step on every reading so that records created in
// sequence get distinct timestamps.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start, Step: time.Second}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.Step)
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Kit is a fully wired set of use cases.
type Kit struct {
	Store      *boltInfra.Store
	Redis      *miniredis.Miniredis
	Clock      *Clock
	Cache      repository.BoardCache
	Workspaces *workspace.UseCase
	Tasks      *task.UseCase
	Tags       *tag.UseCase
	Board      *board.UseCase
	Auth       *auth.UseCase
}

// Start is 2026-03-10 09:00 UTC.
var Start = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func New(t *testing.T) *Kit {
	t.Helper()
	clock := NewClock(Start)

	store, err := boltInfra.Open(filepath.Join(t.TempDir(), "board.db"), boltInfra.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := boltRepo.Migrate(store, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := redisRepo.NewBoardCache(client, time.Minute)

	tasks := boltRepo.NewTaskRepository(store)
	tags := boltRepo.NewTagRepository(store)
	workspaces := workspace.New(
		boltRepo.NewWorkspaceRepository(store),
		boltRepo.NewInviteRepository(store),
		workspace.Options{Now: clock.Now},
		nil,
	)

	return &Kit{
		Store:      store,
		Redis:      srv,
		Clock:      clock,
		Cache:      cache,
		Workspaces: workspaces,
		Tasks:      task.New(tasks, tags, workspaces, cache, nil).WithClock(clock.Now),
		Tags:       tag.New(tags, workspaces, cache, nil),
		Board:      board.New(tasks, tags, workspaces, cache, nil).WithClock(clock.Now),
		Auth:       auth.New(redisRepo.NewSessionRepository(client), nil),
	}
}

// As returns a context authenticated as userID with its own preference store.
func As(userID string) (context.Context, usecase.MemoryPreferences) {
	prefs := usecase.MemoryPreferences{}
	ctx := usecase.WithCaller(context.Background(), &usecase.Caller{
		UserID:    userID,
		Email:     userID + "@example.com",
		SessionID: "session-" + userID,
		ExpiresAt: time.Now().Add(time.Hour),
		Prefs:     prefs,
	})
	return ctx, prefs
}
