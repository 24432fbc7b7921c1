package record_test

import (
	"testing"

	"github.com/arrowlake/parquet"
	"github.com/arrowlake/parquet/format"
	"github.com/arrowlake/parquet/record"
	"github.com/arrowlake/parquet/schema"
)

func ct(v format.ConvertedType) *format.ConvertedType { return &v }

const listConvertedType = format.ConvertedType(3)

// matrixSchema describes a doubly-nested 3-level-convention list:
//
//	message Grid {
//	  optional group matrix (LIST) {
//	    repeated group list {
//	      required group element (LIST) {
//	        repeated group list {
//	          required int32 element;
//	        }
//	      }
//	    }
//	  }
//	}
func matrixSchema(t *testing.T) *schema.Node {
	t.Helper()
	elements := []format.SchemaElement{
		{Name: "Grid", NumChildren: i32(1)},
		{Name: "matrix", NumChildren: i32(1), RepetitionType: rep(format.Optional), ConvertedType: ct(listConvertedType)},
		{Name: "list", NumChildren: i32(1), RepetitionType: rep(format.Repeated)},
		{Name: "element", NumChildren: i32(1), RepetitionType: rep(format.Required), ConvertedType: ct(listConvertedType)},
		{Name: "list", NumChildren: i32(1), RepetitionType: rep(format.Repeated)},
		{Name: "element", Type: typ(format.Int32), RepetitionType: rep(format.Required)},
	}
	root, err := schema.Build(elements)
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}
	return root
}

// TestAssembleBatchCollapsesNestedLists walks a doubly-nested list<list<i32>>
// column and checks that the 3-level convention's wrapper groups never
// surface as named fields: matrix[i] must be a list of ints directly, not a
// struct wrapping one.
func TestAssembleBatchCollapsesNestedLists(t *testing.T) {
	root := matrixSchema(t)
	assembler := record.NewAssembler(root)

	leaf := []parquet.Value{
		// row 0: matrix=[[1,2],[3,4,5],[6]]
		parquet.Int32Value(1).Level(0, 3),
		parquet.Int32Value(2).Level(2, 3),
		parquet.Int32Value(3).Level(1, 3),
		parquet.Int32Value(4).Level(2, 3),
		parquet.Int32Value(5).Level(2, 3),
		parquet.Int32Value(6).Level(1, 3),
		// row 1: matrix=[[],[100],[]]
		parquet.NullValue().Level(0, 2),
		parquet.Int32Value(100).Level(1, 3),
		parquet.NullValue().Level(1, 2),
		// row 2: matrix=null
		parquet.NullValue().Level(0, 0),
	}

	records, err := assembler.AssembleBatch([][]parquet.Value{leaf})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	matrix := records[0].Field("matrix")
	if matrix.Len() != 3 {
		t.Fatalf("row0.matrix: expected 3 sublists, got %d", matrix.Len())
	}
	want := [][]int32{{1, 2}, {3, 4, 5}, {6}}
	for i, sub := range want {
		inner := matrix.Index(i)
		if !inner.IsList || inner.IsStruct {
			t.Fatalf("row0.matrix[%d]: expected a plain list, got %+v", i, inner)
		}
		if inner.Len() != len(sub) {
			t.Fatalf("row0.matrix[%d]: expected %d elements, got %d", i, len(sub), inner.Len())
		}
		for j, want := range sub {
			if got := inner.Index(j).Scalar.Int32(); got != want {
				t.Errorf("row0.matrix[%d][%d]: expected %d, got %d", i, j, want, got)
			}
		}
	}

	row1 := records[1].Field("matrix")
	if row1.Len() != 3 {
		t.Fatalf("row1.matrix: expected 3 sublists, got %d", row1.Len())
	}
	if got := row1.Index(0).Len(); got != 0 {
		t.Errorf("row1.matrix[0]: expected an empty list, got %d elements", got)
	}
	if row1.Index(0).Null {
		t.Errorf("row1.matrix[0]: expected present-but-empty, got null")
	}
	if got := row1.Index(1).Index(0).Scalar.Int32(); got != 100 {
		t.Errorf("row1.matrix[1][0]: expected 100, got %d", got)
	}
	if got := row1.Index(2).Len(); got != 0 {
		t.Errorf("row1.matrix[2]: expected an empty list, got %d elements", got)
	}

	row2 := records[2].Field("matrix")
	if row2 == nil || !row2.Null {
		t.Errorf("row2.matrix: expected null, got %v", row2)
	}
}

// itemsSchema describes a 3-level-convention list of structs:
//
//	message Order {
//	  optional group items (LIST) {
//	    repeated group list {
//	      required group element {
//	        required binary name (UTF8);
//	        required int32 quantity;
//	      }
//	    }
//	  }
//	}
func itemsSchema(t *testing.T) *schema.Node {
	t.Helper()
	elements := []format.SchemaElement{
		{Name: "Order", NumChildren: i32(1)},
		{Name: "items", NumChildren: i32(1), RepetitionType: rep(format.Optional), ConvertedType: ct(listConvertedType)},
		{Name: "list", NumChildren: i32(1), RepetitionType: rep(format.Repeated)},
		{Name: "element", NumChildren: i32(2), RepetitionType: rep(format.Required)},
		{Name: "name", Type: typ(format.ByteArray), RepetitionType: rep(format.Required)},
		{Name: "quantity", Type: typ(format.Int32), RepetitionType: rep(format.Required)},
	}
	root, err := schema.Build(elements)
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}
	return root
}

// TestAssembleBatchCollapsesListOfStructWrapper checks that a 3-level list's
// "element" group never surfaces as a field named "element": items[i] must
// be the {name, quantity} struct directly.
func TestAssembleBatchCollapsesListOfStructWrapper(t *testing.T) {
	root := itemsSchema(t)
	assembler := record.NewAssembler(root)

	// Leaves in root.Leaves() order: items.element.name, items.element.quantity.
	name := []parquet.Value{
		parquet.ByteArrayValue([]byte("apple")).Level(0, 2),
		parquet.ByteArrayValue([]byte("banana")).Level(1, 2),
		parquet.NullValue().Level(0, 1),
	}
	quantity := []parquet.Value{
		parquet.Int32Value(5).Level(0, 2),
		parquet.Int32Value(10).Level(1, 2),
		parquet.NullValue().Level(0, 1),
	}

	records, err := assembler.AssembleBatch([][]parquet.Value{name, quantity})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	items := records[0].Field("items")
	if items.Len() != 2 {
		t.Fatalf("row0.items: expected 2 elements, got %d", items.Len())
	}
	first := items.Index(0)
	if !first.IsStruct || first.Field("element") != nil {
		t.Fatalf("row0.items[0]: expected a bare {name,quantity} struct, got %+v", first)
	}
	if string(first.Field("name").Scalar.ByteArray()) != "apple" {
		t.Errorf("row0.items[0].name: expected apple, got %v", first.Field("name"))
	}
	if first.Field("quantity").Scalar.Int32() != 5 {
		t.Errorf("row0.items[0].quantity: expected 5, got %v", first.Field("quantity"))
	}

	row1items := records[1].Field("items")
	if row1items.Len() != 0 || row1items.Null {
		t.Errorf("row1.items: expected present-but-empty, got %v", row1items)
	}
}
