// Package validation checks external input against the domain model before it
// reaches storage. Every check is pure and reports the first failing field.
package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/mitchellh/mapstructure"

	"github.com/fastygo/taskboard/domain"
)

const (
	MaxTaskText      = 500
	MaxDescription   = 2000
	MaxSubtaskText   = 500
	MaxNoteText      = 5000
	MaxTagName       = 50
	MaxWorkspaceName = 100
	maxLocalID       = 100
)

const hexColorPattern = "^#[0-9a-fA-F]{6}$"

// Decode copies an untyped payload (usually a decoded JSON object) into out.
// A bare string payload is treated as {"id": payload}.
func Decode(payload interface{}, out interface{}) error {
	if payload == nil {
		return domain.ErrInvalidPayload
	}
	if s, ok := payload.(string); ok {
		payload = map[string]interface{}{"id": s}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "decoder setup failed", err)
	}
	if err := dec.Decode(payload); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err)
	}
	return nil
}

// IsID reports whether s is a syntactically valid entity identifier.
func IsID(s string) bool {
	return govalidator.IsUUID(s)
}

func checkID(field, value, message string) error {
	if !IsID(value) {
		return domain.NewValidationError(field, message)
	}
	return nil
}

func checkLocalID(field, value string) error {
	if strings.TrimSpace(value) == "" || !govalidator.StringLength(value, "1", itoa(maxLocalID)) {
		return domain.NewValidationError(field, "Invalid item ID")
	}
	return nil
}

// requiredText trims value and checks 1..max characters.
func requiredText(field, value string, max int, emptyMsg, longMsg string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.NewValidationError(field, emptyMsg)
	}
	if !govalidator.StringLength(value, "1", itoa(max)) {
		return "", domain.NewValidationError(field, longMsg)
	}
	return value, nil
}

// optionalText trims value and checks 0..max characters.
func optionalText(field, value string, max int, longMsg string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" && !govalidator.StringLength(value, "0", itoa(max)) {
		return "", domain.NewValidationError(field, longMsg)
	}
	return value, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// parseTimestamp accepts RFC 3339 timestamps and, for notes written by older
// clients, Unix epoch milliseconds.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}
	if govalidator.IsRFC3339(s) {
		return time.Parse(time.RFC3339, s)
	}
	if govalidator.IsInt(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

var errEmptyTimestamp = errors.New("empty timestamp")
