package ormlite

// Field describes one persistable attribute: the name the application's
// type exposes (for diagnostics only), the backend column it maps to, and
// that column's DataType.
type Field struct {
	AttrName   string
	ColumnName string
	ColumnType DataType
}

// Schema is a static, program-lifetime descriptor of a persistable type's
// table shape, emitted by the external code-generation collaborator (§1,
// out of scope here). TableName defaults to TypeName; a Field's ColumnName
// defaults to its AttrName. Column ordering in Fields is authoritative for
// every Row crossing a StorageTransaction boundary.
type Schema struct {
	TypeName  string
	TableName string
	Fields    []Field
}

// ColumnNames returns the backend column name for each field, in
// declaration order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.ColumnName
	}
	return names
}

// FieldByColumnName looks up a field by its backend column name. If no
// field matches, it falls back to the synthetic id column descriptor —
// the same fallback the original crate's error mapper uses when a
// diagnostic names a column the schema doesn't recognize (see
// SPEC_FULL.md, "Missing-column fallback field").
func (s Schema) FieldByColumnName(columnName string) Field {
	for _, f := range s.Fields {
		if f.ColumnName == columnName {
			return f
		}
	}
	return Field{AttrName: "id", ColumnName: "id", ColumnType: Int64}
}

// Row is an ordered sequence of values with the same length and type order
// as a Schema's Fields. There is no primary key inside the row itself —
// the id column is backend-managed.
type Row []Value

// Record is implemented by a pointer to a persistable type. It supplies
// the schema descriptor and the row codec the Transaction core consumes —
// the Go-generics equivalent of the original `Object: Any + Sized` trait's
// associated SCHEMA const plus as_row/from_row methods (see
// SPEC_FULL.md's "Go-native adaptations").
type Record interface {
	Schema() Schema
	ToRow() Row
	FromRow(Row)
}

// RecordPtr binds a value type T to its pointer-receiver Record
// implementation. Generic functions that need to construct a *T and read
// its schema (Create, Get) are parameterized over both T and RecordPtr[T]
// rather than being methods on Transaction, since Go methods cannot carry
// additional type parameters beyond their receiver's.
type RecordPtr[T any] interface {
	*T
	Record
}
