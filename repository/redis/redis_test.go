package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/matryer/is"
	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redislib.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked until expiry", func(t *testing.T) {
		is := is.New(t)
		srv, client := newClient(t)
		repo := NewSessionRepository(client)

		session := &domain.Session{ID: "jti-1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
		is.NoErr(repo.Revoke(ctx, session))

		revoked, err := repo.IsRevoked(ctx, "jti-1")
		is.NoErr(err)
		is.True(revoked)

		srv.FastForward(2 * time.Hour)
		revoked, err = repo.IsRevoked(ctx, "jti-1")
		is.NoErr(err)
		is.True(!revoked)
	})

	t.Run("already expired session is not stored", func(t *testing.T) {
		is := is.New(t)
		srv, client := newClient(t)
		repo := NewSessionRepository(client)

		is.NoErr(repo.Revoke(ctx, &domain.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
		is.Equal(len(srv.Keys()), 0)
	})

	t.Run("missing id", func(t *testing.T) {
		is := is.New(t)
		_, client := newClient(t)
		is.Equal(NewSessionRepository(client).Revoke(ctx, &domain.Session{}), domain.ErrInvalidPayload)
	})
}

func TestBoardCache(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	srv, client := newClient(t)
	cache := NewBoardCache(client, time.Minute)

	_, err := cache.Get(ctx, "ws")
	is.Equal(err, domain.ErrCacheMiss)

	due := domain.NewDate(2026, time.March, 3)
	task := domain.NewTask("ws", "u1", "Ship it", "")
	task.ID = "t1"
	task.DueDate = &due
	task.Tags = []domain.Tag{{ID: "tag-1", Name: "release", Color: "#00ff00"}}

	is.NoErr(cache.Set(ctx, &repository.BoardSnapshot{
		WorkspaceID: "ws",
		Tasks:       []domain.Task{*task},
		Tags:        task.Tags,
	}))
	is.True(srv.Exists("board:ws"))

	got, err := cache.Get(ctx, "ws")
	is.NoErr(err)
	is.Equal(len(got.Tasks), 1)
	is.Equal(got.Tasks[0].DueDate.String(), "2026-03-03")
	is.Equal(got.Tasks[0].Tags[0].Name, "release")

	is.NoErr(cache.Invalidate(ctx, "ws"))
	_, err = cache.Get(ctx, "ws")
	is.Equal(err, domain.ErrCacheMiss)

	gen, err := cache.Generation(ctx, "ws")
	is.NoErr(err)
	is.Equal(gen, int64(1))
	is.NoErr(cache.Set(ctx, &repository.BoardSnapshot{WorkspaceID: "ws", Generation: gen}))
	srv.FastForward(2 * time.Minute)
	_, err = cache.Get(ctx, "ws")
	is.Equal(err, domain.ErrCacheMiss)
}

func TestBoardCache_StaleGenerationNotStored(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	srv, client := newClient(t)
	cache := NewBoardCache(client, time.Minute)

	gen, err := cache.Generation(ctx, "ws")
	is.NoErr(err)
	is.Equal(gen, int64(0))

	// a mutation lands while the reader is still loading
	is.NoErr(cache.Invalidate(ctx, "ws"))

	is.NoErr(cache.Set(ctx, &repository.BoardSnapshot{WorkspaceID: "ws", Generation: gen}))
	is.True(!srv.Exists("board:ws"))

	current, err := cache.Generation(ctx, "ws")
	is.NoErr(err)
	is.NoErr(cache.Set(ctx, &repository.BoardSnapshot{WorkspaceID: "ws", Generation: current}))
	is.True(srv.Exists("board:ws"))
}
