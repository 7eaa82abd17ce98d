package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	workspaceUC "github.com/fastygo/taskboard/usecase/workspace"
)

type WorkspaceHandler struct {
	baseHandler
	uc *workspaceUC.UseCase
}

func NewWorkspaceHandler(uc *workspaceUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the caller's workspaces
// @Tags workspaces
// @Router /api/v1/workspaces [get]
func (h *WorkspaceHandler) GetWorkspaces(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.ListWorkspaces(stdCtx)
	if err != nil {
		h.respondError(ctx, err, "Failed to fetch workspaces")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, list)
}

// @Summary Create workspace
// @Tags workspaces
// @Router /api/v1/workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(ctx *fasthttp.RequestCtx) {
	var req transport.WorkspaceRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ws, err := h.uc.CreateWorkspace(stdCtx, validation.CreateWorkspaceInput{Name: req.Name})
	if err != nil {
		h.respondError(ctx, err, "Failed to create workspace")
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, ws)
}

// @Summary Active workspace of the session
// @Tags workspaces
// @Router /api/v1/session/workspace [get]
func (h *WorkspaceHandler) GetActive(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ws, err := h.uc.ActiveWorkspace(stdCtx)
	if err != nil {
		h.respondError(ctx, err, "Failed to resolve workspace")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, ws)
}

// @Summary Switch the active workspace
// @Tags workspaces
// @Router /api/v1/session/workspace [put]
func (h *WorkspaceHandler) Switch(ctx *fasthttp.RequestCtx) {
	var req transport.SwitchWorkspaceRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	m, err := h.uc.SwitchWorkspace(stdCtx, validation.SwitchWorkspaceInput{WorkspaceID: req.WorkspaceID})
	if err != nil {
		h.respondError(ctx, err, "Failed to switch workspace")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, m)
}

// @Summary Generate an invite link
// @Tags workspaces
// @Router /api/v1/workspaces/{id}/invites [post]
func (h *WorkspaceHandler) GenerateInvite(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	inv, err := h.uc.GenerateInvite(stdCtx, validation.GenerateInviteInput{WorkspaceID: pathParam(ctx, "id")})
	if err != nil {
		h.respondError(ctx, err, "Failed to generate invite")
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, inv)
}

// @Summary Join a workspace through an invite
// @Tags workspaces
// @Router /api/v1/invites/{token} [post]
func (h *WorkspaceHandler) Join(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.JoinWorkspace(stdCtx, validation.JoinWorkspaceInput{Token: pathParam(ctx, "token")})
	if err != nil {
		h.respondError(ctx, err, "Failed to join workspace")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.JoinResponse{WorkspaceID: id})
}
