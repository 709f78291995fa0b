package analytics

import "encoding/json"

// Failure is the data form of an operation error. It is what dashboard
// clients receive instead of a chart when a query fails.
type Failure struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Unauthorized is returned when an operation is called without a principal.
var Unauthorized = Failure{Error: "Unauthorized"}

// Result holds either a value or a Failure, never both.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a failure. err may be nil.
func Fail[T any](msg string, err error) Result[T] {
	f := Failure{Error: msg}
	if err != nil {
		f.Details = err.Error()
	}
	return Result[T]{failure: &f}
}

func failWith[T any](f Failure) Result[T] {
	return Result[T]{failure: &f}
}

// Get returns the value and failure. Exactly one is meaningful: when the
// failure is non-nil the value is the zero T.
func (r Result[T]) Get() (T, *Failure) {
	return r.value, r.failure
}

// Failed reports whether r holds a failure.
func (r Result[T]) Failed() bool { return r.failure != nil }

// MarshalJSON encodes the value, or the failure object when r failed.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.failure != nil {
		return json.Marshal(r.failure)
	}
	return json.Marshal(r.value)
}
