package ormlite

// StorageTransaction is a single-transaction view of the backend. An
// implementation is responsible for mapping every backend failure it
// surfaces into this package's error taxonomy (see errors.go) before
// returning — the Transaction core treats whatever error comes back as
// already classified.
//
// The contract allows any engine providing transactional row CRUD plus DDL
// over integer auto-increment ids; ormlite/sqlite is the one backend this
// module ships.
type StorageTransaction interface {
	// TableExists reports whether tableName already exists.
	TableExists(tableName string) (bool, error)

	// CreateTable creates the table for schema: an auto-increment integer
	// primary key column named "id" plus one column per field in
	// declared order.
	CreateTable(schema Schema) error

	// InsertRow binds row's values to schema.Fields' columns by position
	// and returns the generated id. If schema.Fields is empty, it emits
	// a DEFAULT-VALUES insert.
	InsertRow(schema Schema, row Row) (ObjectId, error)

	// UpdateRow sets every field column for id.
	UpdateRow(id ObjectId, schema Schema, row Row) error

	// SelectRow selects exactly schema.Fields, by name, in declaration
	// order, owning (copying) all returned string/blob data.
	SelectRow(id ObjectId, schema Schema) (Row, error)

	// DeleteRow deletes the row for id.
	DeleteRow(id ObjectId, schema Schema) error

	Commit() error
	Rollback() error
}
