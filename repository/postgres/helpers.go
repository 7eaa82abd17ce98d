// Package postgres implements the repositories on PostgreSQL through pgx.
// Multi-row writes are single statements or run inside one transaction.
package postgres

import (
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes inspected by the repositories. TB404 and TB410 are raised
// by join_workspace_via_invite.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInviteNotFound      = "TB404"
	codeInviteExpired       = "TB410"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// marshalList encodes a slice as a JSON array, never as null.
func marshalList[T any](items []T) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
