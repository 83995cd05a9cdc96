package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/kelvindb/ormlite"
)

// isBusyErr reports whether err is (or wraps) sqlite's SQLITE_BUSY /
// SQLITE_LOCKED diagnostic. modernc.org/sqlite does not export a typed
// sentinel for this, so — like the pruned reference storage layer's own
// wrapDBError does for sql.ErrNoRows — we match on the driver's message
// text.
func isBusyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_LOCKED")
}

// mapError classifies a backend failure against schema into this
// module's error taxonomy (see errors.go at the repository root). Driver
// errors carry no structured diagnostic beyond their message text, so
// column-shape problems are recovered with best-effort string matching —
// the same approach the reference migration code uses to detect
// "no such column" failures after an ALTER TABLE.
func mapError(err error, schema ormlite.Schema) error {
	if err == nil {
		return nil
	}
	if isBusyErr(err) {
		return ormlite.ErrLockConflict
	}

	msg := err.Error()

	if col, ok := extractMissingColumn(msg); ok {
		field := schema.FieldByColumnName(col)
		return &ormlite.MissingColumnError{
			TypeName:   schema.TypeName,
			AttrName:   field.AttrName,
			TableName:  schema.TableName,
			ColumnName: col,
		}
	}

	if col, ok := extractScanMismatch(msg); ok {
		field := schema.FieldByColumnName(col)
		return &ormlite.UnexpectedTypeError{
			TypeName:   schema.TypeName,
			AttrName:   field.AttrName,
			TableName:  schema.TableName,
			ColumnName: col,
			Expected:   field.ColumnType,
			Got:        msg,
		}
	}

	return ormlite.NewStorageError(err)
}

// extractMissingColumn recovers the offending column name from sqlite's
// "no such column: X" diagnostic, and from its "table T has no column
// named X" diagnostic (raised by an INSERT naming a column the table lacks).
func extractMissingColumn(msg string) (string, bool) {
	if idx := strings.Index(msg, "no such column: "); idx >= 0 {
		rest := msg[idx+len("no such column: "):]
		return strings.TrimSpace(firstToken(rest)), true
	}
	if idx := strings.Index(msg, "has no column named "); idx >= 0 {
		rest := msg[idx+len("has no column named "):]
		return strings.TrimSpace(firstToken(rest)), true
	}
	return "", false
}

// extractScanMismatch recovers the column name from a database/sql
// "Scan error on column index N, name \"X\": ..." failure, which is what
// database/sql surfaces when a driver value can't convert to the
// destination pointer's type.
func extractScanMismatch(msg string) (string, bool) {
	if !strings.Contains(msg, "Scan error on column") {
		return "", false
	}
	start := strings.Index(msg, `name "`)
	if start < 0 {
		return "", false
	}
	start += len(`name "`)
	end := strings.Index(msg[start:], `"`)
	if end < 0 {
		return "", false
	}
	return msg[start : start+end], true
}

func firstToken(s string) string {
	for i, r := range s {
		if r == ':' || r == ',' || r == ' ' || r == '\n' {
			return s[:i]
		}
	}
	return s
}

var errNoRows = sql.ErrNoRows

func isNoRows(err error) bool {
	return errors.Is(err, errNoRows)
}
