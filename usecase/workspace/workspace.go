package workspace

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

// Options tune workspace bootstrap, the sticky preference and invites.
type Options struct {
	DefaultName   string
	PreferenceKey string
	Preference    usecase.PreferenceOptions
	InviteTTL     time.Duration
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultName == "" {
		o.DefaultName = "Personal"
	}
	if o.PreferenceKey == "" {
		o.PreferenceKey = "active_workspace_id"
	}
	if o.Preference.Path == "" {
		o.Preference.Path = "/"
	}
	if o.InviteTTL <= 0 {
		o.InviteTTL = 7 * 24 * time.Hour
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type UseCase struct {
	workspaces repository.WorkspaceRepository
	invites    repository.InviteRepository
	opts       Options
	logger     *zap.Logger
}

func New(workspaces repository.WorkspaceRepository, invites repository.InviteRepository, opts Options, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		workspaces: workspaces,
		invites:    invites,
		opts:       opts.withDefaults(),
		logger:     logger,
	}
}

// ResolveActiveWorkspace returns the workspace the caller is working in. The
// sticky preference wins while the caller is still a member; otherwise the
// earliest joined workspace is used, and a first-time user gets a fresh one.
func (uc *UseCase) ResolveActiveWorkspace(ctx context.Context) (string, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return "", err
	}

	if preferred, ok := caller.Prefs.Get(uc.opts.PreferenceKey); ok && validation.IsID(preferred) {
		_, err := uc.workspaces.GetMembership(ctx, preferred, caller.UserID)
		if err == nil {
			return preferred, nil
		}
		if !errors.Is(err, domain.ErrNotAMember) {
			return "", err
		}
	}

	membership, err := uc.workspaces.FirstMembership(ctx, caller.UserID)
	if errors.Is(err, domain.ErrNoMembership) {
		membership, err = uc.workspaces.EnsurePersonal(ctx, caller.UserID, uc.opts.DefaultName)
		if err == nil {
			uc.logger.Info("personal workspace bootstrapped",
				zap.String("user_id", caller.UserID),
				zap.String("workspace_id", membership.WorkspaceID))
		}
	}
	if err != nil {
		return "", err
	}

	uc.remember(caller, membership.WorkspaceID)
	return membership.WorkspaceID, nil
}

// ActiveWorkspace returns the resolved workspace annotated with the caller's role.
func (uc *UseCase) ActiveWorkspace(ctx context.Context) (*domain.MemberWorkspace, error) {
	id, err := uc.ResolveActiveWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (uc *UseCase) ListWorkspaces(ctx context.Context) ([]domain.MemberWorkspace, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return uc.workspaces.ListForUser(ctx, caller.UserID)
}

func (uc *UseCase) SwitchWorkspace(ctx context.Context, in validation.SwitchWorkspaceInput) (*domain.Membership, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if in, err = validation.SwitchWorkspace(in); err != nil {
		return nil, err
	}
	membership, err := uc.workspaces.GetMembership(ctx, in.WorkspaceID, caller.UserID)
	if err != nil {
		return nil, err
	}
	uc.remember(caller, membership.WorkspaceID)
	return membership, nil
}

// CreateWorkspace makes the caller owner of a new workspace and switches to it.
func (uc *UseCase) CreateWorkspace(ctx context.Context, in validation.CreateWorkspaceInput) (*domain.Workspace, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if in, err = validation.CreateWorkspace(in); err != nil {
		return nil, err
	}
	ws := &domain.Workspace{Name: in.Name, OwnerID: caller.UserID}
	if err := uc.workspaces.Create(ctx, ws); err != nil {
		return nil, err
	}
	uc.remember(caller, ws.ID)
	return ws, nil
}

// GenerateInvite issues a join token for a workspace the caller belongs to.
func (uc *UseCase) GenerateInvite(ctx context.Context, in validation.GenerateInviteInput) (*domain.Invite, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if in, err = validation.GenerateInvite(in); err != nil {
		return nil, err
	}
	if _, err := uc.workspaces.GetMembership(ctx, in.WorkspaceID, caller.UserID); err != nil {
		return nil, err
	}

	invite := &domain.Invite{
		WorkspaceID: in.WorkspaceID,
		CreatedBy:   caller.UserID,
		ExpiresAt:   uc.opts.Now().Add(uc.opts.InviteTTL),
	}
	if err := uc.invites.Create(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// JoinWorkspace redeems an invite token and makes the joined workspace active.
func (uc *UseCase) JoinWorkspace(ctx context.Context, in validation.JoinWorkspaceInput) (string, error) {
	caller, err := usecase.CallerFrom(ctx)
	if err != nil {
		return "", err
	}
	if in, err = validation.JoinWorkspace(in); err != nil {
		return "", err
	}
	workspaceID, err := uc.invites.Redeem(ctx, in.Token, caller.UserID)
	if err != nil {
		return "", err
	}
	uc.remember(caller, workspaceID)
	return workspaceID, nil
}

// PurgeExpiredInvites deletes invites that can no longer be redeemed.
func (uc *UseCase) PurgeExpiredInvites(ctx context.Context) (int64, error) {
	n, err := uc.invites.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.logger.Info("expired invites purged", zap.Int64("count", n))
	}
	return n, nil
}

func (uc *UseCase) remember(caller *usecase.Caller, workspaceID string) {
	caller.Prefs.Set(uc.opts.PreferenceKey, workspaceID, uc.opts.Preference)
}
