package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/pkg/httpcontext"
	authUC "github.com/fastygo/taskboard/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc          *authUC.UseCase
	tokenCookie string
}

// NewAuthHandler serves the session endpoints. tokenCookie is cleared on sign out.
func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, tokenCookie string) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		tokenCookie: tokenCookie,
	}
}

// @Summary Current user
// @Tags auth
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.CurrentUser(stdCtx)
	if err != nil {
		h.respondError(ctx, err, "Failed to fetch user")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Sign out
// @Tags auth
// @Router /api/v1/auth/signout [post]
func (h *AuthHandler) SignOut(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SignOut(stdCtx); err != nil {
		h.respondError(ctx, err, "Failed to sign out")
		return
	}
	if h.tokenCookie != "" {
		httpcontext.ClearCookie(ctx, h.tokenCookie)
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
