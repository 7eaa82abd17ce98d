package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	boardUC "github.com/fastygo/taskboard/usecase/board"
	tagUC "github.com/fastygo/taskboard/usecase/tag"
)

type TagHandler struct {
	baseHandler
	uc    *tagUC.UseCase
	board *boardUC.UseCase
}

func NewTagHandler(uc *tagUC.UseCase, board *boardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		board:       board,
	}
}

// @Summary List tags
// @Tags tags
// @Router /api/v1/tags [get]
func (h *TagHandler) GetTags(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tags, err := h.board.ListTags(stdCtx)
	if err != nil {
		h.respondError(ctx, err, "Failed to fetch tags")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tags)
}

// @Summary Create tag
// @Tags tags
// @Router /api/v1/tags [post]
func (h *TagHandler) CreateTag(ctx *fasthttp.RequestCtx) {
	var in validation.CreateTagInput
	if !h.decodeBody(ctx, &in) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tag, err := h.uc.CreateTag(stdCtx, in)
	if err != nil {
		h.respondError(ctx, err, "Failed to create tag")
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, tag)
}

// @Summary Delete tag
// @Tags tags
// @Router /api/v1/tags/{id} [delete]
func (h *TagHandler) DeleteTag(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTag(stdCtx, validation.IDInput{ID: pathParam(ctx, "id")}); err != nil {
		h.respondError(ctx, err, "Failed to delete tag")
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
