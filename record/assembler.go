package record

import (
	"fmt"

	"github.com/arrowlake/parquet"
	"github.com/arrowlake/parquet/schema"
)

// Assembler reconstructs nested records from a batch of per-leaf-column
// level+value streams, implementing the independent-per-column insertion
// algorithm of spec §4.5. One Assembler is built per projected schema and
// reused across batches.
type Assembler struct {
	root   *schema.Node
	leaves []*schema.Node
	paths  [][]schema.PathStep
}

// NewAssembler precomputes the root-to-leaf path of every projected leaf,
// since PathTo's schema walk is identical for every batch assembled against
// root.
func NewAssembler(root *schema.Node) *Assembler {
	leaves := root.Leaves()
	paths := make([][]schema.PathStep, len(leaves))
	for i, leaf := range leaves {
		paths[i] = schema.PathTo(root, leaf)
	}
	return &Assembler{root: root, leaves: leaves, paths: paths}
}

// columnState tracks one leaf column's walk position across its value
// stream: idx[k] addresses the current element at repetition depth k, and
// record is the index of the record currently being filled.
type columnState struct {
	idx    []int32
	record int
}

func newColumnState(maxRepLevel int32) *columnState {
	return &columnState{idx: make([]int32, maxRepLevel+1), record: -1}
}

func countRecords(values []parquet.Value) int {
	n := 0
	for _, v := range values {
		if v.RepetitionLevel() == 0 {
			n++
		}
	}
	return n
}

// AssembleBatch assembles columns — one value stream per projected leaf, in
// the same order as root.Leaves() — into one *Value (a struct) per record.
// Every column must agree on record count, per spec §4.5's "Record
// boundary" rule.
func (a *Assembler) AssembleBatch(columns [][]parquet.Value) ([]*Value, error) {
	if len(columns) != len(a.leaves) {
		return nil, fmt.Errorf("record: expected %d columns, got %d", len(a.leaves), len(columns))
	}

	numRecords := 0
	if len(columns) > 0 {
		numRecords = countRecords(columns[0])
	}
	for i, col := range columns {
		if n := countRecords(col); n != numRecords {
			return nil, fmt.Errorf("record: column %d has %d records, column 0 has %d", i, n, numRecords)
		}
	}

	records := make([]*Value, numRecords)

	for leafIdx, leaf := range a.leaves {
		st := newColumnState(leaf.MaxRepLevel)
		path := a.paths[leafIdx]

		for _, v := range columns[leafIdx] {
			r := v.RepetitionLevel()
			if r == 0 {
				st.record++
				for k := 1; k < len(st.idx); k++ {
					st.idx[k] = 0
				}
			} else {
				for k := int(r) + 1; k < len(st.idx); k++ {
					st.idx[k] = 0
				}
				st.idx[r]++
			}

			if st.record < 0 || st.record >= len(records) {
				return nil, fmt.Errorf("record: column %d produced record index %d outside [0,%d)", leafIdx, st.record, len(records))
			}
			if records[st.record] == nil {
				records[st.record] = newStruct()
			}

			if err := insertValue(records[st.record], st.idx, path, v); err != nil {
				return nil, fmt.Errorf("record: column %d, record %d: %w", leafIdx, st.record, err)
			}
		}
	}

	return records, nil
}

// insertValue walks path from the record's root struct, addressing each
// repeated step via idx, and writes v at the fully-addressed leaf position
// once every step along the way is confirmed present. It stops early and
// materializes a null/empty marker at the first step whose own definition
// level v's definition level falls short of, per spec §4.5 step 2.
//
// A repeated step's own DefinitionLevel is the level reached once that
// step's node is confirmed to occur at least once; by the time the walk
// reaches it every earlier step has already returned on its own absence, so
// three outcomes remain for this step itself: more than one level short
// means the list itself is null (for a collapsed LIST/MAP step, the wrapper
// group is absent), exactly one level short means it occurs zero times for
// this record (present, empty), and anything from its own level upward
// means the addressed occurrence exists and the walk continues into it (or,
// at the last step, writes v there).
//
// PathTo already collapses a 3-level LIST/MAP wrapper group with its sole
// repeated child into one step, so a plain list<T> or map<K,V> surfaces here
// as an ordinary repeated step. When that step's element is itself another
// repeated step (list<list<T>>, the wrapper collapse applying one level
// deeper), directList carries the freshly addressed element straight through
// as the next step's list, rather than nesting it inside a one-field struct
// named after the inner step.
func insertValue(node *Value, idx []int32, path []schema.PathStep, v parquet.Value) error {
	d := v.DefinitionLevel()
	repDepth := 0
	var directList *Value

	for i, step := range path {
		last := i == len(path)-1

		if step.IsRepeated {
			repDepth++
			level := step.DefinitionLevel
			dl := directList
			directList = nil
			switch {
			case d < level-1:
				if dl != nil {
					*dl = Value{Null: true, IsList: true}
				} else {
					setField(node, step.Name, &Value{Null: true, IsList: true})
				}
				return nil
			case d == level-1:
				// List is present but has no elements at this position.
				resolveList(node, step.Name, dl)
				return nil
			default: // d >= level
				list := resolveList(node, step.Name, dl)
				pos := int(idx[repDepth])
				for len(list.List) <= pos {
					list.List = append(list.List, nil)
				}
				if last {
					list.List[pos] = &Value{Scalar: v}
					return nil
				}
				elem := list.List[pos]
				nested := i+1 < len(path) && path[i+1].IsRepeated
				if elem == nil {
					if nested {
						elem = &Value{}
					} else {
						elem = newStruct()
					}
					list.List[pos] = elem
				}
				if nested {
					directList = elem
				}
				node = elem
			}
			continue
		}

		if d < step.DefinitionLevel {
			null := &Value{Null: true}
			if step.IsContainer {
				null.IsStruct = true
			}
			setField(node, step.Name, null)
			return nil
		}
		if last {
			setField(node, step.Name, &Value{Scalar: v})
			return nil
		}
		node = ensureStructChild(node, step.Name)
	}

	return nil
}

func setField(node *Value, name string, v *Value) {
	if node.Struct == nil {
		node.Struct = map[string]*Value{}
	}
	node.Struct[name] = v
}

func ensureList(node *Value, name string) *Value {
	list := node.Struct[name]
	if list == nil || list.Null {
		list = &Value{IsList: true, List: []*Value{}}
		setField(node, name, list)
	}
	return list
}

// resolveList returns the list this step addresses. directList, when set, is
// the element a parent repeated step already placed for this step to occupy
// directly (the list<list<T>> case); otherwise the list is looked up by name
// on node, same as ensureList.
func resolveList(node *Value, name string, directList *Value) *Value {
	if directList != nil {
		if !directList.IsList {
			directList.IsList = true
			directList.List = []*Value{}
		}
		return directList
	}
	return ensureList(node, name)
}

func ensureStructChild(node *Value, name string) *Value {
	child := node.Struct[name]
	if child == nil || child.Null {
		child = newStruct()
		setField(node, name, child)
	}
	return child
}
