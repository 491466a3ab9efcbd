package insight

// Status is the settled outcome of one adapter call.
type Status int

const (
	StatusSuccess Status = iota
	StatusAbsent
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusAbsent:
		return "absent"
	default:
		return "error"
	}
}

// Result holds the settled outcome of one adapter call so the per-collaborator
// policy is applied in one place.
type Result[T any] struct {
	Value  T
	Err    error
	Status Status
}

// SettleSlice classifies a slice-returning call: an error, an empty slice
// (absent) or at least one element (success).
func SettleSlice[E any](v []E, err error) Result[[]E] {
	switch {
	case err != nil:
		return Result[[]E]{Err: err, Status: StatusError}
	case len(v) == 0:
		return Result[[]E]{Status: StatusAbsent}
	default:
		return Result[[]E]{Value: v, Status: StatusSuccess}
	}
}

// SettlePtr classifies a pointer-returning call: an error, nil (absent) or a
// value (success).
func SettlePtr[T any](v *T, err error) Result[*T] {
	switch {
	case err != nil:
		return Result[*T]{Err: err, Status: StatusError}
	case v == nil:
		return Result[*T]{Status: StatusAbsent}
	default:
		return Result[*T]{Value: v, Status: StatusSuccess}
	}
}

// Absent is the result of a collaborator that was never called.
func Absent[T any]() Result[T] {
	return Result[T]{Status: StatusAbsent}
}

// Require applies the required-collaborator policy: an error propagates, an
// absent value is reported through ok so the caller can substitute or fail.
func Require[T any](r Result[T]) (value T, ok bool, err error) {
	if r.Status == StatusError {
		return value, false, r.Err
	}
	return r.Value, r.Status == StatusSuccess, nil
}

// Optional applies the optional-collaborator policy: an error is downgraded to
// absent after being handed to onErr, which may be nil.
func Optional[T any](r Result[T], onErr func(error)) (value T, ok bool) {
	if r.Status == StatusError {
		if onErr != nil {
			onErr(r.Err)
		}
		return value, false
	}
	return r.Value, r.Status == StatusSuccess
}
