package errors_test

import (
	"fmt"
	"testing"

	"github.com/peterrrock2/gerrydb-meta/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		uncoded := newUncoded("uncoded error")
		cnf := newErrColumnNotFound("col")
		nnf := newErrNamespaceNotFound("ns")
		cnfCustom := errors.New(errColumnNotFound, "custom column message")

		tests := []struct {
			err    error
			target errors.Code
			exp    bool
		}{
			{
				err:    uncoded,
				target: errUncoded,
				exp:    true,
			},
			{
				err:    uncoded,
				target: errColumnNotFound,
				exp:    false,
			},
			{
				err:    cnf,
				target: errColumnNotFound,
				exp:    true,
			},
			{
				err:    cnf,
				target: errNamespaceNotFound,
				exp:    false,
			},
			{
				err:    errors.Wrap(nnf, "with message"),
				target: errNamespaceNotFound,
				exp:    true,
			},
			{
				err:    cnfCustom,
				target: errColumnNotFound,
				exp:    true,
			},
			{
				err:    structuredError{paths: []string{"a", "b"}},
				target: errStructured,
				exp:    true,
			},
			{
				err:    errors.Wrap(structuredError{paths: []string{"a"}}, "resolving"),
				target: errStructured,
				exp:    true,
			},
		}

		for i, test := range tests {
			t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
				got := errors.Is(test.err, test.target)
				assert.Equal(t, test.exp, got)
			})
		}
	})
}

// Test error codes.

const (
	errUncoded           errors.Code = "Uncoded"
	errColumnNotFound    errors.Code = "ColumnNotFound"
	errNamespaceNotFound errors.Code = "NamespaceNotFound"
	errStructured        errors.Code = "Structured"
)

func newUncoded(message string) error {
	return errors.New(
		errUncoded,
		message,
	)
}

func newErrColumnNotFound(column string) error {
	return errors.New(
		errColumnNotFound,
		"column not found: "+column,
	)
}

func newErrNamespaceNotFound(namespace string) error {
	return errors.New(
		errNamespaceNotFound,
		"namespace not found: "+namespace,
	)
}

// structuredError exercises the Coded interface path of errors.Is.
type structuredError struct {
	paths []string
}

func (e structuredError) Error() string {
	return fmt.Sprintf("structured error: %v", e.paths)
}

func (e structuredError) ErrorCode() errors.Code {
	return errStructured
}
