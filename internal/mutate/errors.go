package mutate

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrDuplicateName   = errors.New("name already in use")
	ErrUnknownDataType = errors.New("unknown datatype")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError is returned when a request is well-formed but rejected at the
// owner boundary. It unwraps to one of the Err* sentinels.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e ValidationError) Unwrap() error { return e.Err }
