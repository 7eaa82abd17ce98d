package domain

// Result is the uniform outcome of an operation invoked across the action boundary.
type Result[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    ErrorCode `json:"code,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail converts err into a failed Result using Describe.
func Fail[T any](err error, fallback string) Result[T] {
	code, msg := Describe(err, fallback)
	return Result[T]{Success: false, Error: msg, Code: code}
}
