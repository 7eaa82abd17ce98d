package transport

// Bodies of REST requests whose remaining fields come from the route.
// Full payloads decode straight into the validation inputs.

type TaskStatusRequest struct {
	Status string `json:"status"`
}

type NoteRequest struct {
	Text string `json:"text"`
}

type WorkspaceRequest struct {
	Name string `json:"name"`
}

type SwitchWorkspaceRequest struct {
	WorkspaceID string `json:"workspaceId"`
}

// ArchiveResponse reports how many tasks ArchiveCompletedTasks moved.
type ArchiveResponse struct {
	Archived int64 `json:"archived"`
}

// JoinResponse names the workspace an invite admitted the caller to.
type JoinResponse struct {
	WorkspaceID string `json:"workspaceId"`
}
