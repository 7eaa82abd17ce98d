package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	if status == http.StatusNoContent {
		ctx.SetStatusCode(status)
		return
	}
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

// respondError reports err to the client. Errors without a caller-facing
// classification are logged and replaced by fallback.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error, fallback string) {
	env := transport.FromError(err, fallback)
	if env.Code == domain.ErrCodeInternal {
		h.logger.Error(fallback,
			zap.String("request_id", string(ctx.Response.Header.Peek("X-Request-ID"))),
			zap.Error(err),
		)
	}
	h.respondJSON(ctx, mapError(env.Code), env)
}

// decodeBody unmarshals the JSON request body into out, answering 400 on failure.
func (h baseHandler) decodeBody(ctx *fasthttp.RequestCtx, out interface{}) bool {
	body := ctx.PostBody()
	if len(body) == 0 || json.Unmarshal(body, out) != nil {
		h.respondError(ctx, domain.ErrInvalidPayload, domain.ErrInvalidPayload.Message)
		return false
	}
	return true
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func mapError(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeInvalid:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeConflict:
		return http.StatusConflict
	case domain.ErrCodeExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
