package content

import (
	"errors"
	"fmt"
)

// ErrEmptyID is returned when an entry is written without an id.
var ErrEmptyID = errors.New("content id is required")

// PersistError reports a backend write that failed.
//
// The in-memory mapping already reflects the change; the Store stays
// dirty until a later write or Flush succeeds.
type PersistError struct {
	Namespace Namespace
	Op        string
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s (%s): %v", e.Namespace, e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// IsPersistError reports whether err is or wraps a PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
