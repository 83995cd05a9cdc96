package ormlite

import "reflect"

// ObjectState is the per-cached-entry dirty-tracking state that decides
// what, if anything, gets flushed to the backend at commit.
type ObjectState int

const (
	// Clean means the entry is in sync with the backend as of the last
	// I/O; commit issues no write for it.
	Clean ObjectState = iota
	// Modified means the entry has been mutably borrowed since the last
	// sync; commit issues an UPDATE.
	Modified
	// Removed means Delete has been called; commit issues a DELETE. A
	// Removed entry is absorbing: it never reverts within a transaction.
	Removed
)

func (s ObjectState) String() string {
	switch s {
	case Clean:
		return "Clean"
	case Modified:
		return "Modified"
	case Removed:
		return "Removed"
	default:
		return "ObjectState(invalid)"
	}
}

// entry is the cached object shared by every Handle for a given (type, id)
// pair within a transaction: one state cell, one polymorphic slot, one
// borrow guard. It is the Go-pointer equivalent of the original crate's
// Rc<RefCell<dyn Store>> + Rc<Cell<ObjectState>> pairing — a pointer
// already gives the aliasing Rc provides, so a single allocation suffices.
type entry struct {
	state  ObjectState
	obj    Record
	borrow borrowGuard
}

// cacheKey disambiguates persistable types that happen to share an id
// value. reflect.Type stands in for Rust's TypeId::of::<T>().
type cacheKey struct {
	typ reflect.Type
	id  ObjectId
}

func typeKeyFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Transaction holds exactly one backend transaction, the per-transaction
// identity map, and the deferred-write queue — which is the identity map
// itself, since entries carry their own state (§4.5.1).
//
// A Transaction is not safe for concurrent use from multiple goroutines,
// and must not be shared across them: like the Rust original it models, it
// is single-threaded and cooperative (§5). It is consumed by Commit or
// Rollback; any further use after either panics.
type Transaction struct {
	storage  StorageTransaction
	cache    map[cacheKey]*entry
	consumed bool
}

// Open starts a Transaction over an already-open backend transaction.
func Open(storage StorageTransaction) *Transaction {
	return &Transaction{storage: storage, cache: make(map[cacheKey]*entry)}
}

func (tx *Transaction) mustBeOpen() {
	if tx.consumed {
		panic("ormlite: transaction already consumed")
	}
}

// ensureTable is the table-readiness policy (§4.5.2): before any
// per-type operation, check the table exists, creating it if absent. This
// is within-transaction DDL and must succeed before the row operation that
// follows it.
func ensureTable[T any, PT RecordPtr[T]](tx *Transaction) (Schema, error) {
	tx.mustBeOpen()
	var zero T
	schema := PT(&zero).Schema()

	exists, err := tx.storage.TableExists(schema.TableName)
	if err != nil {
		return schema, err
	}
	if exists {
		return schema, nil
	}
	return schema, tx.storage.CreateTable(schema)
}

// Create inserts obj into the backend and returns a Handle to it. The
// entry starts Clean, not Modified: the INSERT has already happened, so a
// commit with no intervening mutation issues no further write (§4.5.3).
func Create[T any, PT RecordPtr[T]](tx *Transaction, obj T) (Handle[T], error) {
	schema, err := ensureTable[T, PT](tx)
	if err != nil {
		return Handle[T]{}, err
	}

	rec := PT(&obj)
	id, err := tx.storage.InsertRow(schema, rec.ToRow())
	if err != nil {
		return Handle[T]{}, err
	}

	e := &entry{state: Clean, obj: rec}
	tx.cache[cacheKey{typeKeyFor[T](), id}] = e

	return Handle[T]{id: id, e: e}, nil
}

// Get returns a Handle for the cached or freshly-loaded object at id. A
// cache hit reuses the existing entry with no re-read (§4.5.4); repeated
// Get calls for the same (T, id) therefore observe each other's mutations
// instantly, since they share the same entry. An entry in the Removed
// state fails with NotFound — a deletion earlier in this transaction
// shadows the backend row even though the DELETE has not yet been issued.
func Get[T any, PT RecordPtr[T]](tx *Transaction, id ObjectId) (Handle[T], error) {
	schema, err := ensureTable[T, PT](tx)
	if err != nil {
		return Handle[T]{}, err
	}

	key := cacheKey{typeKeyFor[T](), id}
	e, ok := tx.cache[key]
	if !ok {
		row, err := tx.storage.SelectRow(id, schema)
		if err != nil {
			return Handle[T]{}, err
		}
		var zero T
		rec := PT(&zero)
		rec.FromRow(row)
		e = &entry{state: Clean, obj: rec}
		tx.cache[key] = e
	}

	if e.state == Removed {
		return Handle[T]{}, NewNotFoundError(id, schema.TypeName)
	}

	return Handle[T]{id: id, e: e}, nil
}

// Commit flushes every dirty cache entry — one UPDATE per Modified entry,
// one DELETE per Removed entry, nothing for Clean entries — then commits
// the backend transaction (§4.5.6). Iteration order is unspecified but is
// a single pass; the cache is only read during the flush, never mutated.
//
// A failure mid-flush aborts the commit and returns the mapped error; the
// cache is left exactly as it was, and the backend transaction is left as
// it is: neither its Commit nor its Rollback is called. Either way the
// Transaction is consumed: no further use is defined.
func (tx *Transaction) Commit() error {
	tx.mustBeOpen()
	defer func() { tx.consumed = true }()

	for key, e := range tx.cache {
		switch e.state {
		case Modified:
			if err := tx.storage.UpdateRow(key.id, e.obj.Schema(), e.obj.ToRow()); err != nil {
				return err
			}
		case Removed:
			if err := tx.storage.DeleteRow(key.id, e.obj.Schema()); err != nil {
				return err
			}
		case Clean:
			// nothing to flush
		}
	}

	return tx.storage.Commit()
}

// Rollback discards every buffered change and rolls back the backend
// transaction (§4.5.7). The Transaction is consumed; handles that outlive
// the call are not meant to be reused.
func (tx *Transaction) Rollback() error {
	tx.mustBeOpen()
	tx.consumed = true
	return tx.storage.Rollback()
}
