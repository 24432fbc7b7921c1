package parquet

import (
	"fmt"

	"github.com/arrowlake/parquet/format"
)

// Kind identifies which field of a Value holds meaningful data, or that the
// value is null.
type Kind int8

const (
	Null Kind = iota
	Boolean
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "NULL"
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// kindOf maps a column's physical type to the Value kind used to hold its
// decoded values.
func kindOf(t format.Type) Kind {
	switch t {
	case format.Boolean:
		return Boolean
	case format.Int32:
		return Int32
	case format.Int64:
		return Int64
	case format.Int96:
		return Int96
	case format.Float:
		return Float
	case format.Double:
		return Double
	case format.ByteArray:
		return ByteArray
	case format.FixedLenByteArray:
		return FixedLenByteArray
	default:
		return Null
	}
}

// Value is a single decoded parquet value plus the repetition and
// definition levels that locate it within its record. The zero value is the
// null value at definition/repetition level 0.
//
// Unlike the teacher's Value, which packs every physical type behind an
// unsafe.Pointer/uint64 union to stay machine-word sized, this Value spells
// out one field per physical type. Reading never needs the write-path's
// tight per-value packing, and an explicit struct is far easier to reason
// about without being able to run the race detector or a fuzzer over it.
type Value struct {
	kind   Kind
	bool_  bool
	i32    int32
	i64    int64
	i96    [12]byte
	f32    float32
	f64    float64
	bytes  []byte
	defLvl int32
	repLvl int32
}

func NullValue() Value { return Value{} }

func BooleanValue(v bool) Value { return Value{kind: Boolean, bool_: v} }

func Int32Value(v int32) Value { return Value{kind: Int32, i32: v} }

func Int64Value(v int64) Value { return Value{kind: Int64, i64: v} }

func Int96Value(v [12]byte) Value { return Value{kind: Int96, i96: v} }

func FloatValue(v float32) Value { return Value{kind: Float, f32: v} }

func DoubleValue(v float64) Value { return Value{kind: Double, f64: v} }

func ByteArrayValue(v []byte) Value { return Value{kind: ByteArray, bytes: v} }

func FixedLenByteArrayValue(v []byte) Value { return Value{kind: FixedLenByteArray, bytes: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) Boolean() bool { return v.bool_ }

func (v Value) Int32() int32 { return v.i32 }

func (v Value) Int64() int64 { return v.i64 }

func (v Value) Int96() [12]byte { return v.i96 }

func (v Value) Float() float32 { return v.f32 }

func (v Value) Double() float64 { return v.f64 }

func (v Value) ByteArray() []byte { return v.bytes }

func (v Value) DefinitionLevel() int32 { return v.defLvl }

func (v Value) RepetitionLevel() int32 { return v.repLvl }

// Level returns v with its repetition and definition levels set, leaving
// everything else unchanged. Page decoding constructs values with Level
// applied so downstream assembly never needs to track levels separately
// from the value they annotate.
func (v Value) Level(repetitionLevel, definitionLevel int32) Value {
	v.repLvl = repetitionLevel
	v.defLvl = definitionLevel
	return v
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Boolean:
		return fmt.Sprintf("%t", v.bool_)
	case Int32:
		return fmt.Sprintf("%d", v.i32)
	case Int64:
		return fmt.Sprintf("%d", v.i64)
	case Int96:
		return fmt.Sprintf("%x", v.i96)
	case Float:
		return fmt.Sprintf("%g", v.f32)
	case Double:
		return fmt.Sprintf("%g", v.f64)
	case ByteArray, FixedLenByteArray:
		return fmt.Sprintf("%q", v.bytes)
	default:
		return "?"
	}
}
