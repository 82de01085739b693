package types

import (
	"errors"
	"fmt"
)

// Error categories. Every typed error below unwraps to exactly one of
// these, so callers can classify with errors.Is and still extract payloads
// with errors.As.
var (
	ErrSyntax       = errors.New("syntax error")
	ErrSchema       = errors.New("schema error")
	ErrConstraint   = errors.New("constraint violation")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrStorageIO    = errors.New("storage i/o error")
)

// SyntaxError reports a lexical or grammatical failure at a byte position
// in the query text.
type SyntaxError struct {
	Position int
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: expected %s, found %s",
		e.Position, e.Expected, e.Found)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// SchemaErrorKind distinguishes schema-level failures.
type SchemaErrorKind string

const (
	DuplicateTable SchemaErrorKind = "duplicate table"
	UnknownTable   SchemaErrorKind = "unknown table"
	UnknownColumn  SchemaErrorKind = "unknown column"
	InvalidSchema  SchemaErrorKind = "invalid schema"
)

// SchemaError reports a failure validating a statement against the catalog
// or a table definition against itself.
type SchemaError struct {
	Kind   SchemaErrorKind
	Table  string
	Column string
	Detail string
}

func (e *SchemaError) Error() string {
	msg := string(e.Kind)
	if e.Table != "" {
		msg += fmt.Sprintf(" %q", e.Table)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(", column %q", e.Column)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// ConstraintKind distinguishes constraint violations.
type ConstraintKind string

const (
	PrimaryKeyDuplicate ConstraintKind = "primary key duplicate"
	UniqueDuplicate     ConstraintKind = "unique duplicate"
	NotNullViolation    ConstraintKind = "not null violation"
)

// ConstraintViolation reports a row that would break a PRIMARY KEY, UNIQUE,
// or NOT NULL constraint. The statement that produced it has mutated
// nothing.
type ConstraintViolation struct {
	Kind   ConstraintKind
	Table  string
	Column string
	Value  Value
}

func (e *ConstraintViolation) Error() string {
	if e.Kind == NotNullViolation {
		return fmt.Sprintf("%s: column %q of table %q cannot be NULL",
			e.Kind, e.Column, e.Table)
	}
	return fmt.Sprintf("%s: value %s already exists in column %q of table %q",
		e.Kind, e.Value, e.Column, e.Table)
}

func (e *ConstraintViolation) Unwrap() error { return ErrConstraint }

// TypeMismatchError reports a literal that is not compatible with the
// declared type of the column it targets.
type TypeMismatchError struct {
	Column   string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch on column %q: expected %s, got %s",
		e.Column, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// StorageIOError reports a durable read or write failure. The in-memory
// state has been rolled back to the pre-statement snapshot.
type StorageIOError struct {
	Path string
	Err  error
}

func (e *StorageIOError) Error() string {
	return fmt.Sprintf("storage i/o error on %s: %v", e.Path, e.Err)
}

func (e *StorageIOError) Unwrap() []error { return []error{ErrStorageIO, e.Err} }
