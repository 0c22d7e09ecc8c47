package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("agent not found")

// NotFoundError reports a lookup for an identifier that is not registered.
type NotFoundError struct {
	ID        string
	Available []Identifier
}

func (e *NotFoundError) Error() string {
	names := make([]string, len(e.Available))
	for i, id := range e.Available {
		names[i] = string(id)
	}
	return fmt.Sprintf("agent '%s' not found. Available agents: %s", e.ID, strings.Join(names, ", "))
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound checks if err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// RegistrationError reports a descriptor rejected while building a registry.
type RegistrationError struct {
	Index  int
	ID     Identifier
	Reason string
	Err    error
}

func (e *RegistrationError) Error() string {
	var b strings.Builder
	b.WriteString("agent registration failed")
	if e.ID != "" {
		fmt.Fprintf(&b, " for '%s'", e.ID)
	} else if e.Reason != "no agents registered" {
		fmt.Fprintf(&b, " at position %d", e.Index)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
