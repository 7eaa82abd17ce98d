package auth_test

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/testkit"
)

func TestSignOut(t *testing.T) {
	is := is.New(t)
	kit := testkit.New(t)
	ctx, _ := testkit.As("alice")

	user, err := kit.Auth.CurrentUser(ctx)
	is.NoErr(err)
	is.Equal(user.ID, "alice")

	revoked, err := kit.Auth.IsRevoked(ctx, "session-alice")
	is.NoErr(err)
	is.True(!revoked)

	is.NoErr(kit.Auth.SignOut(ctx))
	revoked, err = kit.Auth.IsRevoked(ctx, "session-alice")
	is.NoErr(err)
	is.True(revoked)
}

func TestCurrentUserUnauthenticated(t *testing.T) {
	is := is.New(t)
	kit := testkit.New(t)
	_, err := kit.Auth.CurrentUser(context.Background())
	is.Equal(err, domain.ErrUnauthenticated)
	is.Equal(kit.Auth.SignOut(context.Background()), domain.ErrUnauthenticated)
}
