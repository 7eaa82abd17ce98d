package httpcontext

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/usecase"
)

func TestAttach_RequestID(t *testing.T) {
	is := is.New(t)
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "abc")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	is.Equal(appLogger.RequestIDFrom(ctx), "abc")
	is.Equal(string(rc.Response.Header.Peek("X-Request-ID")), "abc")
	_, hasDeadline := ctx.Deadline()
	is.True(hasDeadline)
}

func TestAttach_GeneratesRequestID(t *testing.T) {
	is := is.New(t)
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(0).Attach(&rc)
	defer cancel()
	is.Equal(len(appLogger.RequestIDFrom(ctx)), 36)
}

func TestAttach_BindsCaller(t *testing.T) {
	is := is.New(t)
	var rc fasthttp.RequestCtx
	rc.Request.Header.SetCookie("active_workspace_id", "ws-1")
	SetCaller(&rc, &usecase.Caller{UserID: "u1", Email: "u1@example.com"})

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	caller, err := usecase.CallerFrom(ctx)
	is.NoErr(err)
	is.Equal(caller.UserID, "u1")

	v, ok := caller.Prefs.Get("active_workspace_id")
	is.True(ok)
	is.Equal(v, "ws-1")
}

func TestAttach_Anonymous(t *testing.T) {
	is := is.New(t)
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()
	_, err := usecase.CallerFrom(ctx)
	is.True(err != nil)
}

func TestCookieStore_Set(t *testing.T) {
	is := is.New(t)
	var rc fasthttp.RequestCtx
	rc.Request.Header.SetCookie("active_workspace_id", "old")
	store := NewCookieStore(&rc)

	store.Set("active_workspace_id", "new", usecase.PreferenceOptions{
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
		MaxAge:   24 * time.Hour,
	})

	v, ok := store.Get("active_workspace_id")
	is.True(ok)
	is.Equal(v, "new") // written value wins over the request cookie

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey("active_workspace_id")
	is.True(rc.Response.Header.Cookie(c))
	is.Equal(string(c.Value()), "new")
	is.Equal(string(c.Path()), "/")
	is.True(c.HTTPOnly())
	is.True(c.Secure())
	is.Equal(c.MaxAge(), 86400)
	is.Equal(c.SameSite(), fasthttp.CookieSameSiteLaxMode)
}
