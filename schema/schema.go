// Package schema builds the rooted tree of group and primitive nodes
// described by a file's footer metadata, computing the per-node
// max_definition_level / max_repetition_level values the record assembler
// needs to apply the Dremel striping rules.
//
// segmentio/parquet-go builds its schema tree by reflecting over Go struct
// tags (see node.go/group.go in the teacher); a reader has no struct to
// reflect over, so this package instead walks the flat, depth-first,
// num-children-prefixed format.SchemaElement list the same way the
// teacher's Node interface shape (Optional/Repeated/Required decorators,
// NumChildren/ChildByName) models a schema once built.
package schema

import (
	"fmt"

	"github.com/arrowlake/parquet/format"
)

// Repetition mirrors format.FieldRepetitionType but is always set, even for
// the implicit REQUIRED root.
type Repetition int8

const (
	Required Repetition = iota
	Optional
	Repeated
)

// Node is one node of the schema tree: either a group (len(Children) > 0)
// or a primitive leaf.
type Node struct {
	Name           string
	Repetition     Repetition
	Type           format.Type
	TypeLength     int32
	ConvertedType  *format.ConvertedType
	LogicalType    *format.LogicalType
	Scale          *int32
	Precision      *int32
	Children       []*Node
	Parent         *Node
	ColumnIndex    int // leaf index into RowGroup.Columns, -1 for groups
	MaxDefLevel    int32
	MaxRepLevel    int32
}

func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsList reports whether n is a LIST-wrapper group, as in the 3-level list
// convention: a group annotated with the LIST converted type that has exactly
// one child. The child's repetition and shape are not checked.
func (n *Node) IsList() bool {
	if n.IsLeaf() || len(n.Children) != 1 {
		return false
	}
	return n.ConvertedType != nil && *n.ConvertedType == listConvertedType
}

// IsMap reports whether n is a MAP-wrapper group: a group annotated with the
// MAP or MAP_KEY_VALUE converted type that has exactly one child. The child's
// repetition and its (key, value) fields are not checked.
func (n *Node) IsMap() bool {
	if n.IsLeaf() || len(n.Children) != 1 {
		return false
	}
	if n.ConvertedType != nil && (*n.ConvertedType == mapConvertedType || *n.ConvertedType == mapKeyValueConvertedType) {
		return true
	}
	return false
}

// Element returns the synthetic repeated group inside a LIST or MAP
// wrapper that actually carries the REPEATED marker in the Dremel sense.
func (n *Node) Element() *Node {
	return n.Children[0]
}

// ConvertedType codes relevant to list/map detection, per the Parquet
// logical type spec (their numeric values are stable across the format).
const (
	listConvertedType        format.ConvertedType = 3
	mapConvertedType         format.ConvertedType = 1
	mapKeyValueConvertedType format.ConvertedType = 2
)

// Walk calls fn for n and every descendant, depth-first pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Leaves returns every primitive leaf under n, in column-index order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(c *Node) {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
	})
	return leaves
}

// ByColumnIndex returns a lookup table from leaf column index to Node,
// sized to the number of leaves under root.
func ByColumnIndex(root *Node) []*Node {
	leaves := root.Leaves()
	table := make([]*Node, len(leaves))
	for _, leaf := range leaves {
		table[leaf.ColumnIndex] = leaf
	}
	return table
}

// Build constructs the schema tree from a file's flattened, depth-first
// schema element list (format.FileMetaData.Schema). elements[0] is the
// implicit root group.
func Build(elements []format.SchemaElement) (*Node, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("schema: empty schema element list")
	}
	pos := 0
	columnIndex := 0
	root, err := build(elements, &pos, &columnIndex, nil)
	if err != nil {
		return nil, err
	}
	if pos != len(elements) {
		return nil, fmt.Errorf("schema: %d schema elements left unconsumed", len(elements)-pos)
	}
	computeLevels(root, 0, 0)
	return root, nil
}

func build(elements []format.SchemaElement, pos *int, columnIndex *int, parent *Node) (*Node, error) {
	if *pos >= len(elements) {
		return nil, fmt.Errorf("schema: truncated schema element list")
	}
	e := elements[*pos]
	*pos++

	n := &Node{
		Name:          e.Name,
		ConvertedType: e.ConvertedType,
		LogicalType:   e.LogicalType,
		Scale:         e.Scale,
		Precision:     e.Precision,
		Parent:        parent,
		ColumnIndex:   -1,
	}
	if e.RepetitionType != nil {
		switch *e.RepetitionType {
		case format.Optional:
			n.Repetition = Optional
		case format.Repeated:
			n.Repetition = Repeated
		default:
			n.Repetition = Required
		}
	} else if parent != nil {
		return nil, fmt.Errorf("schema: element %q is missing a repetition type", e.Name)
	}

	if e.NumChildren != nil && *e.NumChildren > 0 {
		n.ColumnIndex = -1
		for i := int32(0); i < *e.NumChildren; i++ {
			child, err := build(elements, pos, columnIndex, n)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	} else if parent != nil {
		// Primitive leaf.
		if e.Type == nil {
			return nil, fmt.Errorf("schema: leaf element %q is missing its physical type", e.Name)
		}
		n.Type = *e.Type
		if e.TypeLength != nil {
			n.TypeLength = *e.TypeLength
		}
		n.ColumnIndex = *columnIndex
		*columnIndex++
	}

	return n, nil
}

func computeLevels(n *Node, defLevel, repLevel int32) {
	switch n.Repetition {
	case Optional:
		defLevel++
	case Repeated:
		defLevel++
		repLevel++
	}
	n.MaxDefLevel = defLevel
	n.MaxRepLevel = repLevel
	for _, c := range n.Children {
		computeLevels(c, defLevel, repLevel)
	}
}

// PathStep describes one step from the schema root to a leaf, as used by
// the record assembler to know, at each def level along a leaf's path,
// whether that step is a container, a list, a map, or simply repeated.
type PathStep struct {
	FieldIndex     int
	Name           string
	IsContainer    bool
	IsRepeated     bool
	IsList         bool
	IsMap          bool
	DefinitionLevel int32
}

// PathTo returns the ordered steps from root to leaf.
func PathTo(root, leaf *Node) []PathStep {
	var chain []*Node
	for n := leaf; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	// reverse: root first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	steps := make([]PathStep, 0, len(chain)-1)
	defLevel := int32(0)
	for i := 1; i < len(chain); i++ { // skip synthetic root
		n := chain[i]
		fieldIndex := 0
		if n.Parent != nil {
			for idx, c := range n.Parent.Children {
				if c == n {
					fieldIndex = idx
					break
				}
			}
		}
		if n.Repetition == Optional || n.Repetition == Repeated {
			defLevel++
		}
		if isListElementPassthrough(n) {
			// The single, required child of a LIST convention's synthetic
			// "list" group carries no meaning of its own (it is always
			// there whenever the list has an element at this position), so
			// it gets no step at all: whatever it wraps (a scalar, or a
			// struct's own fields) is addressed directly at the list's
			// position. A nested list's own wrapper is handled instead by
			// the repeated-step merge below.
			continue
		}
		steps = append(steps, PathStep{
			FieldIndex:      fieldIndex,
			Name:            n.Name,
			IsContainer:     !n.IsLeaf(),
			IsRepeated:      n.Repetition == Repeated,
			IsList:          n.Parent != nil && n.Parent.IsList(),
			IsMap:           n.Parent != nil && n.Parent.IsMap(),
			DefinitionLevel: defLevel,
		})
	}
	return collapseWrappers(steps)
}

// isListElementPassthrough reports whether n is the sole, required child of
// a LIST convention's synthetic repeated "list" group (conventionally named
// "element"): present only to hold the list's item type, not a field in its
// own right. A nested list's inner wrapper (n.IsList()/n.IsMap()) is exempt:
// that one is consumed by collapseWrappers instead, since it still needs to
// contribute a repeated step of its own.
func isListElementPassthrough(n *Node) bool {
	if n.Repetition != Required || n.IsList() || n.IsMap() {
		return false
	}
	list := n.Parent
	if list == nil || len(list.Children) != 1 || list.Children[0] != n {
		return false
	}
	return list.Parent != nil && list.Parent.IsList()
}

// collapseWrappers merges a 3-level LIST/MAP wrapper group's step with its
// sole repeated child's step into one, so that a path through
//
//	optional group my_list (LIST) { repeated group list { required int32 element; } }
//
// surfaces as a single repeated step named "my_list" rather than a container
// step followed by a repeated one named "list". The wrapper never has its
// own record representation (spec's materialized record models a list as
// its elements directly, not as a struct wrapping them), so nothing but the
// repeated step's name and field index needs to survive the merge; its
// DefinitionLevel already accounts for both the wrapper's and the child's
// own level increments, which is exactly what the assembler's two-threshold
// null/empty/present test needs.
func collapseWrappers(steps []PathStep) []PathStep {
	out := make([]PathStep, 0, len(steps))
	for _, s := range steps {
		if (s.IsList || s.IsMap) && len(out) > 0 {
			wrapper := out[len(out)-1]
			out = out[:len(out)-1]
			s.Name = wrapper.Name
			s.FieldIndex = wrapper.FieldIndex
		}
		s.IsList = false
		s.IsMap = false
		out = append(out, s)
	}
	return out
}
