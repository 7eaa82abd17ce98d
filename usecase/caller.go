package usecase

import (
	"context"
	"time"

	"github.com/fastygo/taskboard/domain"
)

// PreferenceOptions mirrors the attributes of a sticky preference cookie.
type PreferenceOptions struct {
	Path     string
	HTTPOnly bool
	SameSite string
	Secure   bool
	MaxAge   time.Duration
}

// PreferenceStore persists per-session defaults such as the active workspace.
type PreferenceStore interface {
	Get(key string) (string, bool)
	Set(key, value string, opts PreferenceOptions)
}

// MemoryPreferences is a PreferenceStore for callers without cookies (CLI, tests).
type MemoryPreferences map[string]string

func (m MemoryPreferences) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok && v != ""
}

func (m MemoryPreferences) Set(key, value string, _ PreferenceOptions) {
	m[key] = value
}

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	UserID    string
	Email     string
	SessionID string
	ExpiresAt time.Time
	Prefs     PreferenceStore
}

type callerKey struct{}

// WithCaller stores the caller in ctx.
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the authenticated caller or domain.ErrUnauthenticated.
func CallerFrom(ctx context.Context) (*Caller, error) {
	caller, _ := ctx.Value(callerKey{}).(*Caller)
	if caller == nil || caller.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if caller.Prefs == nil {
		caller.Prefs = MemoryPreferences{}
	}
	return caller, nil
}

// WorkspaceResolver answers which workspace the caller's operations apply to.
type WorkspaceResolver interface {
	ResolveActiveWorkspace(ctx context.Context) (string, error)
}
