package transport

import "github.com/fastygo/taskboard/domain"

// Envelope is the body of every JSON response, REST routes and the action
// endpoint alike: {success, data} or {success, error, code}.
type Envelope = domain.Result[interface{}]

func NewSuccess(data interface{}) Envelope {
	return domain.Ok[interface{}](data)
}

// NewError builds a failed envelope with an explicit code.
func NewError(code domain.ErrorCode, message string) Envelope {
	return Envelope{Success: false, Code: code, Error: message}
}

// FromError classifies err with domain.Describe, falling back to fallback for
// unclassified errors.
func FromError(err error, fallback string) Envelope {
	return domain.Fail[interface{}](err, fallback)
}
