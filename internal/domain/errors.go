package domain

import "errors"

var (
	ErrMissingField    = errors.New("missing field")
	ErrInvalidLocation = errors.New("invalid location")
)

type ValidationKind string

const (
	MissingField    ValidationKind = "MissingField"
	InvalidLocation ValidationKind = "InvalidLocation"
)

// ValidationError is a client-input failure from intake. It matches
// ErrMissingField or ErrInvalidLocation with errors.Is.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case MissingField:
		return target == ErrMissingField
	case InvalidLocation:
		return target == ErrInvalidLocation
	}
	return false
}
