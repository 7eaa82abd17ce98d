package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/usecase"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

type callerValueKey struct{}

// SetCaller records the authenticated caller on the request. Auth middleware
// calls it once the token has been verified.
func SetCaller(ctx *fasthttp.RequestCtx, caller *usecase.Caller) {
	ctx.SetUserValue(callerValueKey{}, caller)
}

// CallerOf returns the caller stored by SetCaller, or nil.
func CallerOf(ctx *fasthttp.RequestCtx) *usecase.Caller {
	caller, _ := ctx.UserValue(callerValueKey{}).(*usecase.Caller)
	return caller
}

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it
// with request metadata. When the request carries a caller it is bound to the
// context with cookie-backed preferences.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	if caller := CallerOf(ctx); caller != nil {
		bound := *caller
		bound.Prefs = NewCookieStore(ctx)
		stdCtx = usecase.WithCaller(stdCtx, &bound)
	}

	return stdCtx, cancel
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
