package ormlite

import "fmt"

// ObjectId is a backend-assigned, signed 64-bit identifier. It is immutable
// once assigned and unique within a table.
type ObjectId int64

// Int64 returns the id as a plain int64.
func (id ObjectId) Int64() int64 { return int64(id) }

func (id ObjectId) String() string { return fmt.Sprintf("%d", int64(id)) }

// DataType is the compile-time tag of a persistable attribute. Every
// attribute a code generator emits for a Record has exactly one DataType.
type DataType int

const (
	String DataType = iota
	Bytes
	Int64
	Float64
	Bool
)

func (t DataType) String() string {
	switch t {
	case String:
		return "String"
	case Bytes:
		return "Bytes"
	case Int64:
		return "Int64"
	case Float64:
		return "Float64"
	case Bool:
		return "Bool"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Value is a tagged scalar payload exchanged with the storage backend. It
// carries exactly one of the five DataType variants; reading the wrong
// accessor for the held variant is a programmer error (see ScalarOf).
//
// On the write path (ToRow) a Value built from a string or []byte borrows
// the caller's memory directly — Go's reference semantics mean there is
// nothing to copy. On the read path (StorageTransaction.SelectRow) the
// backend owns freshly decoded copies, since the underlying row data may
// be tied to driver-internal buffers.
type Value struct {
	kind  DataType
	str   string
	bytes []byte
	i64   int64
	f64   float64
	b     bool
}

// Kind reports which DataType variant the Value holds.
func (v Value) Kind() DataType { return v.kind }

func newStringValue(s string) Value  { return Value{kind: String, str: s} }
func newBytesValue(b []byte) Value   { return Value{kind: Bytes, bytes: b} }
func newInt64Value(i int64) Value    { return Value{kind: Int64, i64: i} }
func newFloat64Value(f float64) Value { return Value{kind: Float64, f64: f} }
func newBoolValue(b bool) Value      { return Value{kind: Bool, b: b} }

// Any returns the held value as an untyped scalar, ready to bind to a
// database/sql argument list. It is the type-erased escape hatch a
// StorageTransaction implementation needs: such code operates generically
// over Rows whose field types are only known to the generated Record
// implementations, never to the backend itself.
func (v Value) Any() any {
	switch v.kind {
	case String:
		return v.str
	case Bytes:
		return v.bytes
	case Int64:
		return v.i64
	case Float64:
		return v.f64
	case Bool:
		return v.b
	default:
		panic(fmt.Sprintf("ormlite: invalid DataType %d", v.kind))
	}
}

// ValueFromAny builds a Value of the given kind from a raw scalar decoded
// off a database/sql row. It is Any's counterpart on the read path.
func ValueFromAny(kind DataType, a any) Value {
	switch kind {
	case String:
		return newStringValue(a.(string))
	case Bytes:
		return newBytesValue(a.([]byte))
	case Int64:
		return newInt64Value(a.(int64))
	case Float64:
		return newFloat64Value(a.(float64))
	case Bool:
		switch x := a.(type) {
		case bool:
			return newBoolValue(x)
		case int64:
			return newBoolValue(x != 0)
		default:
			panic(fmt.Sprintf("ormlite: %T is not a bool-compatible scan target", a))
		}
	default:
		panic(fmt.Sprintf("ormlite: invalid DataType %d", kind))
	}
}

// Scalar is the set of Go types a persistable attribute may be stored as:
// exactly the five built-ins the codec below switches on, not named types
// defined over them. It is the Go-generics stand-in for the original
// AsDataType trait, which Rust could implement directly on
// String/Vec<u8>/i64/f64/bool; Go cannot attach methods to built-in types,
// so the codec is expressed as a trio of functions keyed on the same type
// parameter instead.
type Scalar interface {
	string | []byte | int64 | float64 | bool
}

// DataTypeOf returns the DataType tag for T. It never varies per call —
// it is the generic equivalent of AsDataType::DATA_TYPE.
func DataTypeOf[T Scalar]() DataType {
	var zero T
	return dataTypeOf(any(zero))
}

func dataTypeOf(v any) DataType {
	switch v.(type) {
	case string:
		return String
	case []byte:
		return Bytes
	case int64:
		return Int64
	case float64:
		return Float64
	case bool:
		return Bool
	default:
		panic(fmt.Sprintf("ormlite: %T is not a Scalar", v))
	}
}

// ValueOf converts a scalar attribute into its wire Value. It is the
// generic equivalent of AsDataType::as_value/to_value.
func ValueOf[T Scalar](v T) Value {
	switch x := any(v).(type) {
	case string:
		return newStringValue(x)
	case []byte:
		return newBytesValue(x)
	case int64:
		return newInt64Value(x)
	case float64:
		return newFloat64Value(x)
	case bool:
		return newBoolValue(x)
	default:
		panic(fmt.Sprintf("ormlite: %T is not a Scalar", v))
	}
}

// ScalarOf decodes a Value back into T. It panics if the Value's variant
// does not match T's DataType — per §4.1, this is a programmer error (the
// storage layer reads the column typed by the field's declared DataType,
// so a mismatch here means the generated codec and the schema disagree),
// never a data-driven condition callers should branch on.
func ScalarOf[T Scalar](v Value) T {
	var zero T
	switch any(zero).(type) {
	case string:
		if v.kind != String {
			panic("ormlite: not expected type")
		}
		return any(v.str).(T)
	case []byte:
		if v.kind != Bytes {
			panic("ormlite: not expected type")
		}
		return any(v.bytes).(T)
	case int64:
		if v.kind != Int64 {
			panic("ormlite: not expected type")
		}
		return any(v.i64).(T)
	case float64:
		if v.kind != Float64 {
			panic("ormlite: not expected type")
		}
		return any(v.f64).(T)
	case bool:
		if v.kind != Bool {
			panic("ormlite: not expected type")
		}
		return any(v.b).(T)
	default:
		panic(fmt.Sprintf("ormlite: %T is not a Scalar", zero))
	}
}
