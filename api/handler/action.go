package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/usecase"
)

// ActionHandler exposes the dispatcher. Every outcome, failures included, is
// a 200 carrying the response envelope.
type ActionHandler struct {
	baseHandler
	dispatcher *usecase.Dispatcher
}

func NewActionHandler(dispatcher *usecase.Dispatcher, adapter *httpcontext.Adapter, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		dispatcher:  dispatcher,
	}
}

// @Summary Invoke a named action
// @Tags actions
// @Router /api/v1/actions/{name} [post]
func (h *ActionHandler) Invoke(ctx *fasthttp.RequestCtx) {
	var payload interface{}
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			h.respondJSON(ctx, http.StatusOK, transport.FromError(domain.ErrInvalidPayload, ""))
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondJSON(ctx, http.StatusOK, h.dispatcher.Invoke(stdCtx, pathParam(ctx, "name"), payload))
}

// @Summary List action names
// @Tags actions
// @Router /api/v1/actions [get]
func (h *ActionHandler) List(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.dispatcher.Actions())
}
