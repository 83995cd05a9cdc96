package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kelvindb/ormlite"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	b, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})
	return b
}

var widgetSchema = ormlite.Schema{
	TypeName:  "widget",
	TableName: "widgets",
	Fields: []ormlite.Field{
		{AttrName: "Name", ColumnName: "name", ColumnType: ormlite.String},
		{AttrName: "Count", ColumnName: "count", ColumnType: ormlite.Int64},
	},
}

func TestTableLifecycle(t *testing.T) {
	b := newTestBackend(t)
	tx, err := b.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	exists, err := tx.TableExists(widgetSchema.TableName)
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if exists {
		t.Fatal("table exists before CreateTable")
	}

	if err := tx.CreateTable(widgetSchema); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	exists, err = tx.TableExists(widgetSchema.TableName)
	if err != nil {
		t.Fatalf("TableExists after create: %v", err)
	}
	if !exists {
		t.Fatal("table missing after CreateTable")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestInsertSelectUpdateDeleteRoundTrip(t *testing.T) {
	b := newTestBackend(t)
	tx, err := b.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.CreateTable(widgetSchema); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	row := ormlite.Row{ormlite.ValueOf("gizmo"), ormlite.ValueOf(int64(3))}
	id, err := tx.InsertRow(widgetSchema, row)
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	got, err := tx.SelectRow(id, widgetSchema)
	if err != nil {
		t.Fatalf("SelectRow: %v", err)
	}
	if ormlite.ScalarOf[string](got[0]) != "gizmo" || ormlite.ScalarOf[int64](got[1]) != 3 {
		t.Fatalf("SelectRow = %+v, want {gizmo 3}", got)
	}

	updated := ormlite.Row{ormlite.ValueOf("gizmo"), ormlite.ValueOf(int64(4))}
	if err := tx.UpdateRow(id, widgetSchema, updated); err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}
	got, err = tx.SelectRow(id, widgetSchema)
	if err != nil {
		t.Fatalf("SelectRow after update: %v", err)
	}
	if ormlite.ScalarOf[int64](got[1]) != 4 {
		t.Fatalf("Count after update = %d, want 4", ormlite.ScalarOf[int64](got[1]))
	}

	if err := tx.DeleteRow(id, widgetSchema); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if _, err := tx.SelectRow(id, widgetSchema); err == nil {
		t.Fatal("SelectRow after delete succeeded, want NotFoundError")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestSelectMissingRowIsNotFound(t *testing.T) {
	b := newTestBackend(t)
	tx, err := b.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.CreateTable(widgetSchema); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	_, err = tx.SelectRow(ormlite.ObjectId(999), widgetSchema)
	if err == nil {
		t.Fatal("SelectRow for missing id succeeded")
	}
	var nf *ormlite.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("SelectRow error = %v, want *ormlite.NotFoundError", err)
	}
}

func TestEmptySchemaRoundTrip(t *testing.T) {
	b := newTestBackend(t)
	tx, err := b.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	empty := ormlite.Schema{TypeName: "marker", TableName: "markers"}
	if err := tx.CreateTable(empty); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	id, err := tx.InsertRow(empty, nil)
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	row, err := tx.SelectRow(id, empty)
	if err != nil {
		t.Fatalf("SelectRow: %v", err)
	}
	if len(row) != 0 {
		t.Fatalf("empty-schema row = %+v, want zero-length", row)
	}
}

func TestTransactionIntegrationViaCore(t *testing.T) {
	b := newTestBackend(t)
	stx, err := b.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	tx := ormlite.Open(stx)
	h, err := ormlite.Create[testWidget](tx, testWidget{Name: "gizmo", Count: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	v, release := h.BorrowMut()
	v.Count = 7
	release()

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	stx2, err := b.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tx2 := ormlite.Open(stx2)
	h2, err := ormlite.Get[testWidget](tx2, h.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	v2, release2 := h2.Borrow()
	defer release2()
	if v2.Count != 7 {
		t.Fatalf("Count after reopen = %d, want 7", v2.Count)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
}

// testWidget is this package's own copy of the root package's test
// fixture type: test doubles aren't exported across package boundaries,
// and a real Record implementation is cheap to restate.
type testWidget struct {
	Name  string
	Count int64
}

func (w *testWidget) Schema() ormlite.Schema { return widgetSchema }

func (w *testWidget) ToRow() ormlite.Row {
	return ormlite.Row{ormlite.ValueOf(w.Name), ormlite.ValueOf(w.Count)}
}

func (w *testWidget) FromRow(row ormlite.Row) {
	w.Name = ormlite.ScalarOf[string](row[0])
	w.Count = ormlite.ScalarOf[int64](row[1])
}

