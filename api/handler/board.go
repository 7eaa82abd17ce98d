package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	boardUC "github.com/fastygo/taskboard/usecase/board"
)

type BoardHandler struct {
	baseHandler
	uc *boardUC.UseCase
}

func NewBoardHandler(uc *boardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Board columns, tag counts and stats of the active workspace
// @Tags board
// @Param q query string false "search text"
// @Param tag query []string false "tag ids, any may match"
// @Router /api/v1/board [get]
func (h *BoardHandler) GetBoard(ctx *fasthttp.RequestCtx) {
	query := domain.TaskQuery{Search: string(ctx.QueryArgs().Peek("q"))}
	for _, tag := range ctx.QueryArgs().PeekMulti("tag") {
		query.TagIDs = append(query.TagIDs, string(tag))
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	board, err := h.uc.Board(stdCtx, query)
	if err != nil {
		h.respondError(ctx, err, "Failed to fetch tasks")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, board)
}
