// Package record implements the Record Assembler (reconstructing Dremel-
// striped per-column level/value streams into nested records) and the
// record tree it produces.
package record

import "github.com/arrowlake/parquet"

// Value is one node of an assembled record tree: a struct, a list, a null
// marker, or a leaf scalar. Exactly one of Struct, List, Scalar is
// meaningful, selected by IsStruct/IsList; a plain scalar leaf has neither
// flag set. Null distinguishes an explicitly-absent struct/list/scalar from
// one with zero fields/elements (spec §4.5: "an empty list is distinguished
// from a null list").
type Value struct {
	Null     bool
	IsStruct bool
	IsList   bool
	Scalar   parquet.Value
	Struct   map[string]*Value
	List     []*Value
}

// Field looks up a struct field by name. It returns nil if v is not a
// struct, is null, or has no such field.
func (v *Value) Field(name string) *Value {
	if v == nil || !v.IsStruct || v.Struct == nil {
		return nil
	}
	return v.Struct[name]
}

// Len returns the number of elements in a list value, or 0 if v is not a
// non-null list.
func (v *Value) Len() int {
	if v == nil || !v.IsList || v.Null {
		return 0
	}
	return len(v.List)
}

// Index returns the i'th element of a list value, or nil if out of range.
func (v *Value) Index(i int) *Value {
	if v == nil || !v.IsList || i < 0 || i >= len(v.List) {
		return nil
	}
	return v.List[i]
}

func newStruct() *Value {
	return &Value{IsStruct: true, Struct: map[string]*Value{}}
}
