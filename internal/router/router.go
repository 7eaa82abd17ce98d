package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskboard/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Board     *apiHandler.BoardHandler
	Task      *apiHandler.TaskHandler
	Tag       *apiHandler.TagHandler
	Workspace *apiHandler.WorkspaceHandler
	Action    *apiHandler.ActionHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Everything else acts on behalf of an authenticated caller
	api := r.Group("/api/v1")

	api.GET("/auth/me", authMiddleware(handlers.Auth.Me))
	api.POST("/auth/signout", authMiddleware(handlers.Auth.SignOut))

	api.GET("/board", authMiddleware(handlers.Board.GetBoard))

	api.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	api.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	api.PUT("/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	api.PATCH("/tasks/{id}/status", authMiddleware(handlers.Task.UpdateStatus))
	api.POST("/tasks/{id}/notes", authMiddleware(handlers.Task.AddNote))
	api.DELETE("/tasks/{id}/notes/{noteId}", authMiddleware(handlers.Task.DeleteNote))
	api.POST("/tasks/{id}/subtasks/{subtaskId}/toggle", authMiddleware(handlers.Task.ToggleSubtask))

	api.GET("/archive", authMiddleware(handlers.Task.GetArchived))
	api.POST("/archive", authMiddleware(handlers.Task.ArchiveCompleted))
	api.POST("/archive/{id}/restore", authMiddleware(handlers.Task.Restore))

	api.GET("/tags", authMiddleware(handlers.Tag.GetTags))
	api.POST("/tags", authMiddleware(handlers.Tag.CreateTag))
	api.DELETE("/tags/{id}", authMiddleware(handlers.Tag.DeleteTag))

	api.GET("/workspaces", authMiddleware(handlers.Workspace.GetWorkspaces))
	api.POST("/workspaces", authMiddleware(handlers.Workspace.CreateWorkspace))
	api.POST("/workspaces/{id}/invites", authMiddleware(handlers.Workspace.GenerateInvite))
	api.GET("/session/workspace", authMiddleware(handlers.Workspace.GetActive))
	api.PUT("/session/workspace", authMiddleware(handlers.Workspace.Switch))
	api.POST("/invites/{token}", authMiddleware(handlers.Workspace.Join))

	api.GET("/actions", authMiddleware(handlers.Action.List))
	api.POST("/actions/{name}", authMiddleware(handlers.Action.Invoke))

	return r
}
