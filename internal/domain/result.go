package domain

import "encoding/json"

// Result is the outcome of one public generation operation. It holds either
// a value or a user-facing error message, never both.
type Result[T any] struct {
	value T
	err   string
	kind  Kind
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Fail wraps a failure message of the given kind. An empty message is
// replaced so the error branch is never blank.
func Fail[T any](kind Kind, message string) Result[T] {
	if message == "" {
		message = "unknown error"
	}
	if kind == "" {
		kind = KindGeneration
	}
	return Result[T]{err: message, kind: kind}
}

// Value returns the payload and whether the result succeeded.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// OK reports whether the result carries a value.
func (r Result[T]) OK() bool {
	return r.ok
}

// Err returns the failure message, or "" on success.
func (r Result[T]) Err() string {
	return r.err
}

// Kind returns the failure kind, or "" on success.
func (r Result[T]) Kind() Kind {
	return r.kind
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(struct {
			Data T `json:"data"`
		}{r.value})
	}
	return json.Marshal(struct {
		Error string `json:"error"`
	}{r.err})
}
