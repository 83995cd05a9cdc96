// Package ormlite is a minimal object-relational mapping layer over a
// single-file embedded SQL engine.
//
// Application types annotated as persistable (see Record) are mapped to
// tables; instances are manipulated through short-lived Transaction handles
// that buffer reads and defer writes until Commit. The value this package
// provides is the identity-preserving transactional cache that sits between
// application code and the SQL backend — not the backend itself (see
// StorageTransaction and the ormlite/sqlite subpackage) and not the code
// generation that would normally emit a Schema and row codec for a type.
package ormlite
