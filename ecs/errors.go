package ecs

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvariant is wrapped by every panic raised for a broken runtime invariant.
	// Recover the panic value and test it with errors.Is to distinguish these
	// from unrelated panics.
	ErrInvariant = errors.New("ecs: invariant violation")

	// ErrInvalidConfig is returned by Config.Validate and LoadConfig.
	ErrInvalidConfig = errors.New("ecs: invalid config")
)

// invariant panics with an ErrInvariant-wrapped error carrying a stack trace.
func invariant(format string, args ...any) {
	panic(errors.Wrapf(ErrInvariant, format, args...))
}
