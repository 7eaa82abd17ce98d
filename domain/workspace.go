package domain

import "time"

// Role is a member's standing in a workspace. The owner is fixed at creation.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Workspace is the tenant boundary for tasks and tags.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Membership grants a user access to a workspace.
type Membership struct {
	WorkspaceID string    `json:"workspaceId"`
	UserID      string    `json:"userId"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// MemberWorkspace is a workspace annotated with the caller's role.
type MemberWorkspace struct {
	Workspace
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Invite is a time-boxed token granting membership in one workspace.
type Invite struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	CreatedBy   string    `json:"createdBy"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsExpired reports whether the invite can no longer be redeemed at reference.
func (i *Invite) IsExpired(reference time.Time) bool {
	if i == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !reference.Before(i.ExpiresAt)
}
