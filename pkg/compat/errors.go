package compat

import (
	"errors"
	"fmt"
)

// NotFoundError reports an unknown app key or system slug. Single-entity
// lookups fail fast with this error; multi-entity operations catch and skip.
type NotFoundError struct {
	Kind string // "app" or "system"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
