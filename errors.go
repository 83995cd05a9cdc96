package ormlite

import (
	"errors"
	"fmt"
)

// ErrLockConflict is returned when the backend reports its database is
// busy. It is transient; retrying is the caller's responsibility (§5).
var ErrLockConflict = errors.New("ormlite: database is locked")

// NotFoundError means the row does not exist, or has been Delete'd within
// the current transaction and is shadowed until commit (§4.5.4).
type NotFoundError struct {
	ObjectID ObjectId
	TypeName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ormlite: object not found: type %q, id %s", e.TypeName, e.ObjectID)
}

// NewNotFoundError builds a NotFoundError for (typeName, id).
func NewNotFoundError(id ObjectId, typeName string) error {
	return &NotFoundError{ObjectID: id, TypeName: typeName}
}

// UnexpectedTypeError means the column affinity observed at read time is
// incompatible with the field's declared DataType.
type UnexpectedTypeError struct {
	TypeName   string
	AttrName   string
	TableName  string
	ColumnName string
	Expected   DataType
	Got        string
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf(
		"ormlite: invalid type for %s.%s: expected equivalent of %s, got %s (table: %s, column: %s)",
		e.TypeName, e.AttrName, e.Expected, e.Got, e.TableName, e.ColumnName,
	)
}

// MissingColumnError means the table lacks a column the schema requires —
// schema drift between the Go type and the backend table.
type MissingColumnError struct {
	TypeName   string
	AttrName   string
	TableName  string
	ColumnName string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf(
		"ormlite: missing a column for %s.%s (table: %s, column: %s)",
		e.TypeName, e.AttrName, e.TableName, e.ColumnName,
	)
}

// StorageError is the catch-all wrapping any backend failure that doesn't
// fit a more specific kind. Unwrap returns the original backend error.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("ormlite: storage error: %v", e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as the opaque catch-all kind.
func NewStorageError(err error) error {
	return &StorageError{Err: err}
}
