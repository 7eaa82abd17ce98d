package domain

import "time"

// Session is the authenticated identity extracted from a provider-issued token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// User is the subset of the provider's user record exposed to the board.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
