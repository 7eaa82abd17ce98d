package workspace_test

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/testkit"
	"github.com/fastygo/taskboard/internal/validation"
)

const prefKey = "active_workspace_id"

func TestResolveActiveWorkspace(t *testing.T) {
	t.Run("bootstraps a personal workspace once", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		ctx, prefs := testkit.As("alice")

		first, err := kit.Workspaces.ResolveActiveWorkspace(ctx)
		is.NoErr(err)
		is.Equal(prefs[prefKey], first)

		delete(prefs, prefKey)
		again, err := kit.Workspaces.ResolveActiveWorkspace(ctx)
		is.NoErr(err)
		is.Equal(again, first)

		list, err := kit.Workspaces.ListWorkspaces(ctx)
		is.NoErr(err)
		is.Equal(len(list), 1)
		is.Equal(list[0].Name, "Personal")
		is.Equal(list[0].Role, domain.RoleOwner)
	})

	t.Run("stale preference falls back to earliest membership", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		aliceCtx, _ := testkit.As("alice")
		bobCtx, bobPrefs := testkit.As("bob")

		alices, err := kit.Workspaces.ResolveActiveWorkspace(aliceCtx)
		is.NoErr(err)
		bobs, err := kit.Workspaces.ResolveActiveWorkspace(bobCtx)
		is.NoErr(err)

		bobPrefs[prefKey] = alices // not a member there
		got, err := kit.Workspaces.ResolveActiveWorkspace(bobCtx)
		is.NoErr(err)
		is.Equal(got, bobs)
		is.Equal(bobPrefs[prefKey], bobs)
	})

	t.Run("garbage preference is ignored", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		ctx, prefs := testkit.As("alice")
		prefs[prefKey] = "../../etc"

		got, err := kit.Workspaces.ResolveActiveWorkspace(ctx)
		is.NoErr(err)
		is.True(validation.IsID(got))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		_, err := kit.Workspaces.ResolveActiveWorkspace(context.Background())
		is.Equal(err, domain.ErrUnauthenticated)
	})
}

func TestCreateAndSwitchWorkspace(t *testing.T) {
	is := is.New(t)
	kit := testkit.New(t)
	ctx, prefs := testkit.As("alice")
	otherCtx, _ := testkit.As("mallory")

	personal, err := kit.Workspaces.ResolveActiveWorkspace(ctx)
	is.NoErr(err)

	team, err := kit.Workspaces.CreateWorkspace(ctx, validation.CreateWorkspaceInput{Name: "  Team  "})
	is.NoErr(err)
	is.Equal(team.Name, "Team")
	is.Equal(prefs[prefKey], team.ID)

	active, err := kit.Workspaces.ActiveWorkspace(ctx)
	is.NoErr(err)
	is.Equal(active.ID, team.ID)
	is.Equal(active.Role, domain.RoleOwner)

	_, err = kit.Workspaces.CreateWorkspace(ctx, validation.CreateWorkspaceInput{Name: " "})
	is.True(domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = kit.Workspaces.SwitchWorkspace(otherCtx, validation.SwitchWorkspaceInput{WorkspaceID: team.ID})
	is.Equal(err, domain.ErrNotAMember)

	_, err = kit.Workspaces.SwitchWorkspace(ctx, validation.SwitchWorkspaceInput{WorkspaceID: personal})
	is.NoErr(err)
	is.Equal(prefs[prefKey], personal)

	list, err := kit.Workspaces.ListWorkspaces(ctx)
	is.NoErr(err)
	is.Equal(len(list), 2)
	is.Equal(list[0].ID, personal) // join order
	is.Equal(list[1].ID, team.ID)
}

func TestInvites(t *testing.T) {
	kit := testkit.New(t)
	ownerCtx, _ := testkit.As("owner")
	team, err := kit.Workspaces.CreateWorkspace(ownerCtx, validation.CreateWorkspaceInput{Name: "Team"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("only members can invite", func(t *testing.T) {
		is := is.New(t)
		ctx, _ := testkit.As("stranger")
		_, err := kit.Workspaces.GenerateInvite(ctx, validation.GenerateInviteInput{WorkspaceID: team.ID})
		is.Equal(err, domain.ErrNotAMember)
	})

	t.Run("joining twice yields one membership", func(t *testing.T) {
		is := is.New(t)
		invite, err := kit.Workspaces.GenerateInvite(ownerCtx, validation.GenerateInviteInput{WorkspaceID: team.ID})
		is.NoErr(err)
		is.True(validation.IsID(invite.Token))
		ttl := invite.ExpiresAt.Sub(invite.CreatedAt)
		is.True(ttl > 6*24*time.Hour && ttl <= 7*24*time.Hour)

		guestCtx, guestPrefs := testkit.As("guest")
		for i := 0; i < 2; i++ {
			id, err := kit.Workspaces.JoinWorkspace(guestCtx, validation.JoinWorkspaceInput{Token: invite.Token})
			is.NoErr(err)
			is.Equal(id, team.ID)
		}
		is.Equal(guestPrefs[prefKey], team.ID)

		list, err := kit.Workspaces.ListWorkspaces(guestCtx)
		is.NoErr(err)
		is.Equal(len(list), 1)
		is.Equal(list[0].Role, domain.RoleMember)
	})

	t.Run("unknown token", func(t *testing.T) {
		is := is.New(t)
		ctx, _ := testkit.As("guest2")
		_, err := kit.Workspaces.JoinWorkspace(ctx, validation.JoinWorkspaceInput{Token: "no-such-token"})
		is.Equal(err, domain.ErrInviteNotFound)
	})

	t.Run("expired token creates no membership", func(t *testing.T) {
		is := is.New(t)
		invite, err := kit.Workspaces.GenerateInvite(ownerCtx, validation.GenerateInviteInput{WorkspaceID: team.ID})
		is.NoErr(err)
		kit.Clock.Advance(8 * 24 * time.Hour)

		ctx, _ := testkit.As("late")
		_, err = kit.Workspaces.JoinWorkspace(ctx, validation.JoinWorkspaceInput{Token: invite.Token})
		is.Equal(err, domain.ErrInviteExpired)

		list, err := kit.Workspaces.ListWorkspaces(ctx)
		is.NoErr(err)
		is.Equal(len(list), 0)

		n, err := kit.Workspaces.PurgeExpiredInvites(context.Background())
		is.NoErr(err)
		is.Equal(n, int64(2))
	})
}
