package validation

import (
	"fmt"
	"strings"

	"github.com/fastygo/taskboard/domain"
)

type CreateWorkspaceInput struct {
	Name string `json:"name"`
}

type SwitchWorkspaceInput struct {
	WorkspaceID string `json:"workspaceId"`
}

type GenerateInviteInput struct {
	WorkspaceID string `json:"workspaceId"`
}

type JoinWorkspaceInput struct {
	Token string `json:"token"`
}

func CreateWorkspace(in CreateWorkspaceInput) (CreateWorkspaceInput, error) {
	name, err := requiredText("name", in.Name, MaxWorkspaceName,
		"Workspace name is required", fmt.Sprintf("Workspace name must be at most %d characters", MaxWorkspaceName))
	if err != nil {
		return in, err
	}
	return CreateWorkspaceInput{Name: name}, nil
}

func SwitchWorkspace(in SwitchWorkspaceInput) (SwitchWorkspaceInput, error) {
	return in, checkID("workspaceId", in.WorkspaceID, "Invalid workspace ID")
}

func GenerateInvite(in GenerateInviteInput) (GenerateInviteInput, error) {
	return in, checkID("workspaceId", in.WorkspaceID, "Invalid workspace ID")
}

func JoinWorkspace(in JoinWorkspaceInput) (JoinWorkspaceInput, error) {
	token := strings.TrimSpace(in.Token)
	if token == "" {
		return in, domain.NewValidationError("token", "Invite token is required")
	}
	return JoinWorkspaceInput{Token: token}, nil
}
