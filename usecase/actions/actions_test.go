package actions_test

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/testkit"
	"github.com/fastygo/taskboard/usecase"
	"github.com/fastygo/taskboard/usecase/actions"
)

func newDispatcher(t *testing.T) *usecase.Dispatcher {
	t.Helper()
	kit := testkit.New(t)
	d := usecase.NewDispatcher(nil)
	actions.Register(d, actions.Services{
		Tasks:      kit.Tasks,
		Tags:       kit.Tags,
		Board:      kit.Board,
		Workspaces: kit.Workspaces,
		Auth:       kit.Auth,
	})
	return d
}

func TestActions(t *testing.T) {
	d := newDispatcher(t)
	ctx, _ := testkit.As("alice")

	t.Run("create then list", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(ctx, "createTask", map[string]interface{}{"text": "From the form", "description": ""})
		is.True(res.Success)
		created := res.Data.(*domain.Task)

		res = d.Invoke(ctx, "listActiveTasks", nil)
		is.True(res.Success)
		tasks := res.Data.([]domain.Task)
		is.Equal(len(tasks), 1)
		is.Equal(tasks[0].ID, created.ID)

		res = d.Invoke(ctx, "deleteTask", created.ID)
		is.True(res.Success)
	})

	t.Run("validation failure reports first field", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(ctx, "createTag", map[string]interface{}{"name": "x", "color": "red"})
		is.True(!res.Success)
		is.Equal(res.Code, domain.ErrCodeInvalid)
		is.Equal(res.Error, "Must be a valid hex color")
	})

	t.Run("duplicate tag gets friendly message", func(t *testing.T) {
		is := is.New(t)
		payload := map[string]interface{}{"name": "bug", "color": "#ff0000"}
		is.True(d.Invoke(ctx, "createTag", payload).Success)
		res := d.Invoke(ctx, "createTag", payload)
		is.Equal(res.Error, "A tag with that name already exists")
	})

	t.Run("archive reports count", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(ctx, "archiveCompletedTasks", nil)
		is.True(res.Success)
	})

	t.Run("board without payload", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(ctx, "board", nil)
		is.True(res.Success)
		is.Equal(len(res.Data.(*domain.Board).Columns), 4)
	})

	t.Run("malformed payload", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(ctx, "updateTaskStatus", nil)
		is.Equal(res.Code, domain.ErrCodeInvalid)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(context.Background(), "createTask", map[string]interface{}{"text": "x"})
		is.Equal(res.Error, "Not authenticated")
		is.Equal(res.Code, domain.ErrCodeUnauthorized)
	})

	t.Run("invite round trip", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(ctx, "getActiveWorkspace", nil)
		is.True(res.Success)
		active := res.Data.(*domain.MemberWorkspace)

		res = d.Invoke(ctx, "generateInviteLink", map[string]interface{}{"workspaceId": active.ID})
		is.True(res.Success)
		invite := res.Data.(*domain.Invite)

		guest, _ := testkit.As("guest")
		res = d.Invoke(guest, "joinWorkspace", map[string]interface{}{"token": invite.Token})
		is.True(res.Success)

		res = d.Invoke(guest, "joinWorkspace", map[string]interface{}{"token": "bogus"})
		is.Equal(res.Error, "Invite not found")
	})
}
