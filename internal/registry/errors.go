package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the requested service or version has no stored
// configuration.
var ErrNotFound = errors.New("configuration not found")

// inputError indicates invalid caller input. The transport layer maps
// this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// IsInputError reports whether err is an invalid-input error.
func IsInputError(err error) bool {
	var ie inputError
	return errors.As(err, &ie)
}

// ConflictError reports a version collision for a service. Explicit
// indicates the version was caller-specified (surfaced as a conflict)
// rather than auto-assigned (surfaced only after retries exhaust).
type ConflictError struct {
	Service  string
	Version  int
	Explicit bool
}

func (e *ConflictError) Error() string {
	if e.Explicit {
		return fmt.Sprintf("version %d already exists for service %q", e.Version, e.Service)
	}
	return fmt.Sprintf("could not assign a version for service %q: concurrent submissions kept winning", e.Service)
}

// ValidationError carries the full list of schema violations for a
// rejected document.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
