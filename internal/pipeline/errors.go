package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"inventox/internal"
)

type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// MissingColumnError names the role that could not be resolved and the headers that were present.
type MissingColumnError struct {
	Role      internal.ColumnRole
	Available []string
}

func (e *MissingColumnError) Error() string {
	quoted := make([]string, 0, len(e.Available))
	for _, h := range e.Available {
		quoted = append(quoted, fmt.Sprintf("%q", h))
	}
	return fmt.Sprintf("%s column not found; available columns: [%s]", e.Role, strings.Join(quoted, ", "))
}

type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot read %s as a table: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// UnexpectedError wraps anything outside the taxonomy, including recovered panics.
type UnexpectedError struct {
	Err   error
	Stack []byte
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected failure: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Classify maps err onto the taxonomy. Taxonomy errors pass through with their
// stack wrapper intact; anything else becomes an *UnexpectedError.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		notFound   *NotFoundError
		missing    *MissingColumnError
		parse      *ParseError
		write      *WriteError
		unexpected *UnexpectedError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &missing), errors.As(err, &parse),
		errors.As(err, &write), errors.As(err, &unexpected):
		return err
	}
	return errors.WithStack(&UnexpectedError{Err: err})
}

func notFound(path string) error {
	return errors.WithStack(&NotFoundError{Path: path})
}

func parseFailure(path string, err error) error {
	return errors.WithStack(&ParseError{Path: path, Err: err})
}

func writeFailure(path string, err error) error {
	return errors.WithStack(&WriteError{Path: path, Err: err})
}
