package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	boardUC "github.com/fastygo/taskboard/usecase/board"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc    *taskUC.UseCase
	board *boardUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, board *boardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		board:       board,
	}
}

// @Summary List active tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.board.ListActiveTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, err, "Failed to fetch tasks")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var in validation.CreateTaskInput
	if !h.decodeBody(ctx, &in) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, in)
	if err != nil {
		h.respondError(ctx, err, "Failed to create task")
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	var in validation.UpdateTaskInput
	if !h.decodeBody(ctx, &in) {
		return
	}
	in.ID = pathParam(ctx, "id")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, in)
	if err != nil {
		h.respondError(ctx, err, "Failed to update task")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Move task to another column
// @Tags tasks
// @Router /api/v1/tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	var req transport.TaskStatusRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	in := validation.UpdateTaskStatusInput{ID: pathParam(ctx, "id"), Status: req.Status}
	if err := h.uc.UpdateTaskStatus(stdCtx, in); err != nil {
		h.respondError(ctx, err, "Failed to update task status")
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, validation.IDInput{ID: pathParam(ctx, "id")}); err != nil {
		h.respondError(ctx, err, "Failed to delete task")
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Add note
// @Tags tasks
// @Router /api/v1/tasks/{id}/notes [post]
func (h *TaskHandler) AddNote(ctx *fasthttp.RequestCtx) {
	var req transport.NoteRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	note, err := h.uc.AddNote(stdCtx, validation.AddNoteInput{TaskID: pathParam(ctx, "id"), Text: req.Text})
	if err != nil {
		h.respondError(ctx, err, "Failed to add note")
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, note)
}

// @Summary Delete note
// @Tags tasks
// @Router /api/v1/tasks/{id}/notes/{noteId} [delete]
func (h *TaskHandler) DeleteNote(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	in := validation.DeleteNoteInput{TaskID: pathParam(ctx, "id"), NoteID: pathParam(ctx, "noteId")}
	if err := h.uc.DeleteNote(stdCtx, in); err != nil {
		h.respondError(ctx, err, "Failed to delete note")
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Toggle subtask completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks/{subtaskId}/toggle [post]
func (h *TaskHandler) ToggleSubtask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	in := validation.ToggleSubtaskInput{TaskID: pathParam(ctx, "id"), SubtaskID: pathParam(ctx, "subtaskId")}
	subtask, err := h.uc.ToggleSubtask(stdCtx, in)
	if err != nil {
		h.respondError(ctx, err, "Failed to update subtask")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, subtask)
}

// @Summary List archived tasks
// @Tags archive
// @Router /api/v1/archive [get]
func (h *TaskHandler) GetArchived(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.board.ListArchivedTasks(stdCtx, string(ctx.QueryArgs().Peek("q")))
	if err != nil {
		h.respondError(ctx, err, "Failed to fetch archived tasks")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Archive completed tasks
// @Tags archive
// @Router /api/v1/archive [post]
func (h *TaskHandler) ArchiveCompleted(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	n, err := h.uc.ArchiveCompletedTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, err, "Failed to archive tasks")
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ArchiveResponse{Archived: n})
}

// @Summary Restore archived task
// @Tags archive
// @Router /api/v1/archive/{id}/restore [post]
func (h *TaskHandler) Restore(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RestoreTask(stdCtx, validation.IDInput{ID: pathParam(ctx, "id")}); err != nil {
		h.respondError(ctx, err, "Failed to restore task")
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
