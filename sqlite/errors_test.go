package sqlite

import (
	"errors"
	"testing"

	"github.com/kelvindb/ormlite"
)

func TestMapErrorBusyIsLockConflict(t *testing.T) {
	err := mapError(errors.New("database is locked (SQLITE_BUSY)"), ormlite.Schema{})
	if !errors.Is(err, ormlite.ErrLockConflict) {
		t.Fatalf("mapError(busy) = %v, want ErrLockConflict", err)
	}
}

func TestMapErrorMissingColumn(t *testing.T) {
	schema := ormlite.Schema{
		TypeName:  "widget",
		TableName: "widgets",
		Fields: []ormlite.Field{
			{AttrName: "Count", ColumnName: "count", ColumnType: ormlite.Int64},
		},
	}
	err := mapError(errors.New(`no such column: count`), schema)
	var mc *ormlite.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("mapError(no such column) = %v, want *MissingColumnError", err)
	}
	if mc.AttrName != "Count" {
		t.Fatalf("AttrName = %q, want Count", mc.AttrName)
	}
}

func TestMapErrorScanMismatch(t *testing.T) {
	schema := ormlite.Schema{
		TypeName:  "widget",
		TableName: "widgets",
		Fields: []ormlite.Field{
			{AttrName: "Count", ColumnName: "count", ColumnType: ormlite.Int64},
		},
	}
	err := mapError(errors.New(`sql: Scan error on column index 1, name "count": converting driver.Value type string ("x") to a int64: invalid syntax`), schema)
	var ut *ormlite.UnexpectedTypeError
	if !errors.As(err, &ut) {
		t.Fatalf("mapError(scan mismatch) = %v, want *UnexpectedTypeError", err)
	}
	if ut.ColumnName != "count" {
		t.Fatalf("ColumnName = %q, want count", ut.ColumnName)
	}
}

func TestMapErrorFallsBackToStorageError(t *testing.T) {
	err := mapError(errors.New("disk I/O error"), ormlite.Schema{})
	var se *ormlite.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("mapError(unrecognized) = %v, want *StorageError", err)
	}
}
