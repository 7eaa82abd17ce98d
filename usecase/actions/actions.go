// Package actions exposes the use cases as named operations taking untyped
// payloads, for the dispatcher behind POST /api/v1/actions/{name}.
package actions

import (
	"context"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/usecase"
	"github.com/fastygo/taskboard/usecase/auth"
	"github.com/fastygo/taskboard/usecase/board"
	"github.com/fastygo/taskboard/usecase/tag"
	"github.com/fastygo/taskboard/usecase/task"
	"github.com/fastygo/taskboard/usecase/workspace"
)

type Services struct {
	Tasks      *task.UseCase
	Tags       *tag.UseCase
	Board      *board.UseCase
	Workspaces *workspace.UseCase
	Auth       *auth.UseCase
}

// BoardQuery is the payload of the board query.
type BoardQuery struct {
	Search string   `json:"search"`
	TagIDs []string `json:"tagIds"`
}

// SearchQuery is the payload of listArchivedTasks.
type SearchQuery struct {
	Search string `json:"search"`
}

type archiveResult struct {
	Archived int64 `json:"archived"`
}

type workspaceRef struct {
	WorkspaceID string `json:"workspaceId"`
}

// decoded adapts a typed use case call to a dispatcher handler.
func decoded[In any](call func(ctx context.Context, in In) (interface{}, error)) usecase.CommandHandler {
	return func(ctx context.Context, payload interface{}) (interface{}, error) {
		var in In
		if err := validation.Decode(payload, &in); err != nil {
			return nil, err
		}
		return call(ctx, in)
	}
}

// optional is decoded for payloads that may be omitted entirely.
func optional[In any](call func(ctx context.Context, in In) (interface{}, error)) usecase.QueryHandler {
	return func(ctx context.Context, payload interface{}) (interface{}, error) {
		var in In
		if payload != nil {
			if err := validation.Decode(payload, &in); err != nil {
				return nil, err
			}
		}
		return call(ctx, in)
	}
}

func Register(d *usecase.Dispatcher, s Services) {
	d.RegisterCommand("createTask", "Failed to create task",
		decoded(func(ctx context.Context, in validation.CreateTaskInput) (interface{}, error) {
			return s.Tasks.CreateTask(ctx, in)
		}))
	d.RegisterCommand("updateTask", "Failed to update task",
		decoded(func(ctx context.Context, in validation.UpdateTaskInput) (interface{}, error) {
			return s.Tasks.UpdateTask(ctx, in)
		}))
	d.RegisterCommand("updateTaskStatus", "Failed to update task status",
		decoded(func(ctx context.Context, in validation.UpdateTaskStatusInput) (interface{}, error) {
			return nil, s.Tasks.UpdateTaskStatus(ctx, in)
		}))
	d.RegisterCommand("deleteTask", "Failed to delete task",
		decoded(func(ctx context.Context, in validation.IDInput) (interface{}, error) {
			return nil, s.Tasks.DeleteTask(ctx, in)
		}))
	d.RegisterCommand("archiveCompletedTasks", "Failed to archive tasks",
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			n, err := s.Tasks.ArchiveCompletedTasks(ctx)
			if err != nil {
				return nil, err
			}
			return archiveResult{Archived: n}, nil
		})
	d.RegisterCommand("restoreTask", "Failed to restore task",
		decoded(func(ctx context.Context, in validation.IDInput) (interface{}, error) {
			return nil, s.Tasks.RestoreTask(ctx, in)
		}))
	d.RegisterCommand("addNote", "Failed to add note",
		decoded(func(ctx context.Context, in validation.AddNoteInput) (interface{}, error) {
			return s.Tasks.AddNote(ctx, in)
		}))
	d.RegisterCommand("deleteNote", "Failed to delete note",
		decoded(func(ctx context.Context, in validation.DeleteNoteInput) (interface{}, error) {
			return nil, s.Tasks.DeleteNote(ctx, in)
		}))
	d.RegisterCommand("toggleSubtask", "Failed to update subtask",
		decoded(func(ctx context.Context, in validation.ToggleSubtaskInput) (interface{}, error) {
			return s.Tasks.ToggleSubtask(ctx, in)
		}))

	d.RegisterCommand("createTag", "Failed to create tag",
		decoded(func(ctx context.Context, in validation.CreateTagInput) (interface{}, error) {
			return s.Tags.CreateTag(ctx, in)
		}))
	d.RegisterCommand("deleteTag", "Failed to delete tag",
		decoded(func(ctx context.Context, in validation.IDInput) (interface{}, error) {
			return nil, s.Tags.DeleteTag(ctx, in)
		}))

	d.RegisterCommand("createWorkspace", "Failed to create workspace",
		decoded(func(ctx context.Context, in validation.CreateWorkspaceInput) (interface{}, error) {
			return s.Workspaces.CreateWorkspace(ctx, in)
		}))
	d.RegisterCommand("switchWorkspace", "Failed to switch workspace",
		decoded(func(ctx context.Context, in validation.SwitchWorkspaceInput) (interface{}, error) {
			return s.Workspaces.SwitchWorkspace(ctx, in)
		}))
	d.RegisterCommand("generateInviteLink", "Failed to generate invite",
		decoded(func(ctx context.Context, in validation.GenerateInviteInput) (interface{}, error) {
			return s.Workspaces.GenerateInvite(ctx, in)
		}))
	d.RegisterCommand("joinWorkspace", "Failed to join workspace",
		decoded(func(ctx context.Context, in validation.JoinWorkspaceInput) (interface{}, error) {
			id, err := s.Workspaces.JoinWorkspace(ctx, in)
			if err != nil {
				return nil, err
			}
			return workspaceRef{WorkspaceID: id}, nil
		}))

	d.RegisterCommand("signOut", "Failed to sign out",
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			return nil, s.Auth.SignOut(ctx)
		})

	d.RegisterQuery("getCurrentUser", "Failed to load user",
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.Auth.CurrentUser(ctx)
		})
	d.RegisterQuery("listActiveTasks", "Failed to fetch tasks",
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.Board.ListActiveTasks(ctx)
		})
	d.RegisterQuery("listArchivedTasks", "Failed to fetch archived tasks",
		optional(func(ctx context.Context, in SearchQuery) (interface{}, error) {
			return s.Board.ListArchivedTasks(ctx, in.Search)
		}))
	d.RegisterQuery("listTags", "Failed to fetch tags",
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.Board.ListTags(ctx)
		})
	d.RegisterQuery("board", "Failed to load board",
		optional(func(ctx context.Context, in BoardQuery) (interface{}, error) {
			return s.Board.Board(ctx, domain.TaskQuery{Search: in.Search, TagIDs: in.TagIDs})
		}))
	d.RegisterQuery("listWorkspaces", "Failed to fetch workspaces",
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.Workspaces.ListWorkspaces(ctx)
		})
	d.RegisterQuery("getActiveWorkspace", "Failed to load workspace",
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.Workspaces.ActiveWorkspace(ctx)
		})
}
