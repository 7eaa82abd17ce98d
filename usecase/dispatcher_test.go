package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/fastygo/taskboard/domain"
)

func TestDispatcherInvoke(t *testing.T) {
	d := NewDispatcher(nil)
	d.RegisterCommand("ok", "Failed ok", func(ctx context.Context, payload interface{}) (interface{}, error) {
		return payload, nil
	})
	d.RegisterCommand("storage", "Failed to save", func(context.Context, interface{}) (interface{}, error) {
		return nil, errors.New(`pq: duplicate key value violates unique constraint "tags_pkey"`)
	})
	d.RegisterCommand("invalid", "Failed to save", func(context.Context, interface{}) (interface{}, error) {
		return nil, domain.NewValidationError("name", "Tag name is required")
	})
	d.RegisterCommand("boom", "Failed to explode", func(context.Context, interface{}) (interface{}, error) {
		var m map[string]int
		m["x"]++
		return nil, nil
	})
	d.RegisterQuery("whoami", "Failed to load user", func(ctx context.Context, _ interface{}) (interface{}, error) {
		caller, err := CallerFrom(ctx)
		if err != nil {
			return nil, err
		}
		return caller.UserID, nil
	})

	t.Run("success", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(context.Background(), "ok", "payload")
		is.True(res.Success)
		is.Equal(res.Data, "payload")
	})

	t.Run("storage text never leaks", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(context.Background(), "storage", nil)
		is.True(!res.Success)
		is.Equal(res.Error, "Failed to save")
		is.Equal(res.Code, domain.ErrCodeInternal)
	})

	t.Run("validation message surfaces verbatim", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(context.Background(), "invalid", nil)
		is.Equal(res.Error, "Tag name is required")
		is.Equal(res.Code, domain.ErrCodeInvalid)
	})

	t.Run("panic becomes a failed result", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(context.Background(), "boom", nil)
		is.True(!res.Success)
		is.Equal(res.Error, "Failed to explode")
	})

	t.Run("queries share the boundary", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(context.Background(), "whoami", nil)
		is.Equal(res.Error, "Not authenticated")

		ctx := WithCaller(context.Background(), &Caller{UserID: "u1"})
		res = d.Invoke(ctx, "whoami", nil)
		is.Equal(res.Data, "u1")
	})

	t.Run("unknown action", func(t *testing.T) {
		is := is.New(t)
		res := d.Invoke(context.Background(), "nope", nil)
		is.Equal(res.Code, domain.ErrCodeNotFound)
		is.Equal(res.Error, "Unknown action")
	})

	t.Run("registry", func(t *testing.T) {
		is := is.New(t)
		is.Equal(d.Actions(), []string{"boom", "invalid", "ok", "storage", "whoami"})
	})
}

func TestMemoryPreferences(t *testing.T) {
	is := is.New(t)
	prefs := MemoryPreferences{}
	_, ok := prefs.Get("k")
	is.True(!ok)
	prefs.Set("k", "v", PreferenceOptions{})
	v, ok := prefs.Get("k")
	is.True(ok)
	is.Equal(v, "v")
}
