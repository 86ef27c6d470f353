// Package engineerr defines the error kinds used across the core, per
// the propagation policy: Configuration and Resource errors are fatal
// at setup, Runtime errors abort the current block and are logged,
// Transient errors are dropped with a counter increment.
package engineerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors identifying each of the four error kinds.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrRuntime       = errors.New("runtime error")
	ErrResource      = errors.New("resource error")
	ErrTransient     = errors.New("transient error")
)

// Configuration wraps err as a Configuration-kind error.
func Configuration(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConfiguration)...)
}

// Runtime wraps err as a Runtime-kind error.
func Runtime(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrRuntime, err)
}

// Resource wraps err as a Resource-kind error.
func Resource(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrResource)...)
}

// Multi collects errors from several sources that failed independently,
// e.g. the backend's and each processor's cleanup error in Realm.Close.
// Adapted from the teacher's execErrors.
type Multi []error

// Add appends err to the set if it is non-nil.
func (m Multi) Add(err error) Multi {
	if err == nil {
		return m
	}
	return append(m, err)
}

// Err returns untyped nil if the set is empty, otherwise itself.
func (m Multi) Err() error {
	if len(m) == 0 {
		return nil
	}
	return m
}

func (m Multi) Error() string {
	s := make([]string, 0, len(m))
	for _, e := range m {
		s = append(s, e.Error())
	}
	return strings.Join(s, "; ")
}

// Is reports whether any wrapped error matches target.
func (m Multi) Is(target error) bool {
	for _, e := range m {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}
