package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kelvindb/ormlite"
)

// Tx implements ormlite.StorageTransaction over a dedicated *sql.Conn
// inside a BEGIN IMMEDIATE transaction. Every exported method runs with
// context.Background(): ormlite.StorageTransaction carries no per-call
// context parameter, matching the synchronous, single-threaded contract
// the Transaction core assumes.
type Tx struct {
	conn *sql.Conn
}

var columnTypeSQL = map[ormlite.DataType]string{
	ormlite.String:  "TEXT",
	ormlite.Bytes:   "BLOB",
	ormlite.Int64:   "BIGINT",
	ormlite.Float64: "REAL",
	ormlite.Bool:    "TINYINT",
}

func (t *Tx) ctx() context.Context { return context.Background() }

// TableExists reports whether tableName exists, via sqlite_master.
func (t *Tx) TableExists(tableName string) (bool, error) {
	var n int
	err := t.conn.QueryRowContext(t.ctx(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		tableName,
	).Scan(&n)
	if err != nil {
		return false, mapError(err, ormlite.Schema{TableName: tableName})
	}
	return n > 0, nil
}

// CreateTable emits CREATE TABLE for schema: an autoincrement integer id
// column plus one column per field, in declared order.
func (t *Tx) CreateTable(schema ormlite.Schema) error {
	var b strings.Builder
	fmt.Fprintf(&b, `CREATE TABLE "%s" (id INTEGER PRIMARY KEY AUTOINCREMENT`, schema.TableName)
	for _, f := range schema.Fields {
		sqlType, ok := columnTypeSQL[f.ColumnType]
		if !ok {
			return fmt.Errorf("ormlite/sqlite: unknown column type %s for %s.%s", f.ColumnType, schema.TypeName, f.AttrName)
		}
		fmt.Fprintf(&b, `, "%s" %s`, f.ColumnName, sqlType)
	}
	b.WriteString(")")

	if _, err := t.conn.ExecContext(t.ctx(), b.String()); err != nil {
		return mapError(err, schema)
	}
	return nil
}

// InsertRow inserts row's values into schema's table and returns the
// generated id. An empty schema (no fields to persist) emits a
// DEFAULT VALUES insert.
func (t *Tx) InsertRow(schema ormlite.Schema, row ormlite.Row) (ormlite.ObjectId, error) {
	var query string
	args := make([]any, 0, len(row))

	if len(schema.Fields) == 0 {
		query = fmt.Sprintf(`INSERT INTO "%s" DEFAULT VALUES`, schema.TableName)
	} else {
		cols := schema.ColumnNames()
		quoted := make([]string, len(cols))
		placeholders := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = `"` + c + `"`
			placeholders[i] = "?"
		}
		query = fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
			schema.TableName, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
		for _, v := range row {
			args = append(args, v.Any())
		}
	}

	res, err := t.conn.ExecContext(t.ctx(), query, args...)
	if err != nil {
		return 0, mapError(err, schema)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapError(err, schema)
	}
	return ormlite.ObjectId(id), nil
}

// UpdateRow sets every field column for id.
func (t *Tx) UpdateRow(id ormlite.ObjectId, schema ormlite.Schema, row ormlite.Row) error {
	if len(schema.Fields) == 0 {
		return nil
	}

	cols := schema.ColumnNames()
	setClauses := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		setClauses[i] = fmt.Sprintf(`"%s" = ?`, c)
		args = append(args, row[i].Any())
	}
	args = append(args, id.Int64())

	query := fmt.Sprintf(`UPDATE "%s" SET %s WHERE id = ?`, schema.TableName, strings.Join(setClauses, ", "))
	if _, err := t.conn.ExecContext(t.ctx(), query, args...); err != nil {
		return mapError(err, schema)
	}
	return nil
}

// SelectRow selects exactly schema.Fields, by name, in declaration order,
// for id. A missing row maps to NotFoundError.
func (t *Tx) SelectRow(id ormlite.ObjectId, schema ormlite.Schema) (ormlite.Row, error) {
	if len(schema.Fields) == 0 {
		var n int
		err := t.conn.QueryRowContext(t.ctx(),
			fmt.Sprintf(`SELECT COUNT(*) FROM "%s" WHERE id = ?`, schema.TableName), id.Int64(),
		).Scan(&n)
		if err != nil {
			return nil, mapError(err, schema)
		}
		if n == 0 {
			return nil, ormlite.NewNotFoundError(id, schema.TypeName)
		}
		return ormlite.Row{}, nil
	}

	cols := schema.ColumnNames()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = `"` + c + `"`
	}
	query := fmt.Sprintf(`SELECT %s FROM "%s" WHERE id = ?`, strings.Join(quoted, ", "), schema.TableName)

	dest := make([]any, len(schema.Fields))
	for i, f := range schema.Fields {
		dest[i] = scanDestFor(f.ColumnType)
	}

	if err := t.conn.QueryRowContext(t.ctx(), query, id.Int64()).Scan(dest...); err != nil {
		if isNoRows(err) {
			return nil, ormlite.NewNotFoundError(id, schema.TypeName)
		}
		return nil, mapError(err, schema)
	}

	row := make(ormlite.Row, len(schema.Fields))
	for i, f := range schema.Fields {
		row[i] = ormlite.ValueFromAny(f.ColumnType, derefScanDest(dest[i]))
	}
	return row, nil
}

// DeleteRow deletes the row for id.
func (t *Tx) DeleteRow(id ormlite.ObjectId, schema ormlite.Schema) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, schema.TableName)
	if _, err := t.conn.ExecContext(t.ctx(), query, id.Int64()); err != nil {
		return mapError(err, schema)
	}
	return nil
}

// Commit issues COMMIT on the dedicated connection and releases it.
func (t *Tx) Commit() error {
	defer func() { _ = t.conn.Close() }()
	if _, err := t.conn.ExecContext(context.Background(), "COMMIT"); err != nil {
		return mapError(err, ormlite.Schema{})
	}
	return nil
}

// Rollback issues ROLLBACK on the dedicated connection and releases it.
func (t *Tx) Rollback() error {
	defer func() { _ = t.conn.Close() }()
	if _, err := t.conn.ExecContext(context.Background(), "ROLLBACK"); err != nil {
		return mapError(err, ormlite.Schema{})
	}
	return nil
}

// scanDestFor returns a pointer destination database/sql can Scan a
// column of the given DataType into.
func scanDestFor(kind ormlite.DataType) any {
	switch kind {
	case ormlite.String:
		return new(string)
	case ormlite.Bytes:
		return new([]byte)
	case ormlite.Int64:
		return new(int64)
	case ormlite.Float64:
		return new(float64)
	case ormlite.Bool:
		// sqlite has no native boolean type; TINYINT columns round-trip
		// through the driver as int64, so scan as one and let
		// ValueFromAny do the int64->bool conversion (mirrors how the
		// reference storage layer handles its own TINYINT-backed flags).
		return new(int64)
	default:
		panic(fmt.Sprintf("ormlite/sqlite: unknown column type %s", kind))
	}
}

// derefScanDest unwraps a pointer produced by scanDestFor back to its
// pointed-to value.
func derefScanDest(dest any) any {
	switch p := dest.(type) {
	case *string:
		return *p
	case *[]byte:
		return *p
	case *int64:
		return *p
	case *float64:
		return *p
	default:
		panic(fmt.Sprintf("ormlite/sqlite: unexpected scan destination %T", dest))
	}
}
