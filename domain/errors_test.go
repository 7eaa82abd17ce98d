package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestDescribe(t *testing.T) {
	is := is.New(t)

	code, msg := Describe(errors.New("pq: relation \"tasks\" does not exist"), "Failed to create task")
	is.Equal(code, ErrCodeInternal)
	is.Equal(msg, "Failed to create task")

	code, msg = Describe(fmt.Errorf("create tag: %w", ErrDuplicateTagName), "Failed to create tag")
	is.Equal(code, ErrCodeConflict)
	is.Equal(msg, "A tag with that name already exists")

	code, msg = Describe(NewValidationError("color", "Must be a valid hex color"), "x")
	is.Equal(code, ErrCodeInvalid)
	is.Equal(msg, "Must be a valid hex color")

	code, _ = Describe(ErrSessionNotFound, "x")
	is.Equal(code, ErrCodeUnauthorized)
}

func TestError_Is(t *testing.T) {
	is := is.New(t)
	wrapped := WrapError(ErrCodeNotFound, "Task not found", errors.New("no rows"))
	is.True(errors.Is(wrapped, ErrTaskNotFound))
	is.True(!errors.Is(wrapped, ErrTagNotFound))
}
