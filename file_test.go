package parquet

import (
	"testing"

	"github.com/arrowlake/parquet/format"
	"github.com/arrowlake/parquet/schema"
)

func buildTestSchema(t *testing.T, elements []format.SchemaElement) *schema.Node {
	t.Helper()
	root, err := schema.Build(elements)
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}
	return root
}

func TestIsFlatSchema(t *testing.T) {
	flat := buildTestSchema(t, []format.SchemaElement{
		{Name: "M", NumChildren: i32p(2)},
		{Name: "id", Type: typeP(format.Int64), RepetitionType: repTypeP(format.Required)},
		{Name: "name", Type: typeP(format.ByteArray), RepetitionType: repTypeP(format.Optional)},
	})
	if !isFlatSchema(flat) {
		t.Error("expected a schema with only top-level scalar fields to be flat")
	}

	nested := buildTestSchema(t, []format.SchemaElement{
		{Name: "M", NumChildren: i32p(2)},
		{Name: "id", Type: typeP(format.Int64), RepetitionType: repTypeP(format.Required)},
		{Name: "contacts", NumChildren: i32p(1), RepetitionType: repTypeP(format.Repeated)},
		{Name: "name", Type: typeP(format.ByteArray), RepetitionType: repTypeP(format.Required)},
	})
	if isFlatSchema(nested) {
		t.Error("expected a schema with a repeated group to be classified as nested")
	}
}

func TestProjectedLeaves(t *testing.T) {
	root := buildTestSchema(t, []format.SchemaElement{
		{Name: "M", NumChildren: i32p(2)},
		{Name: "id", Type: typeP(format.Int64), RepetitionType: repTypeP(format.Required)},
		{Name: "address", NumChildren: i32p(1), RepetitionType: repTypeP(format.Optional)},
		{Name: "city", Type: typeP(format.ByteArray), RepetitionType: repTypeP(format.Required)},
	})
	h := &FileHandle{path: "test", root: root}

	all, err := h.projectedLeaves(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 leaves with no projection, got %d", len(all))
	}

	one, err := h.projectedLeaves([]string{"address.city"})
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].Name != "city" {
		t.Fatalf("expected [city], got %v", one)
	}

	if _, err := h.projectedLeaves([]string{"nope"}); err == nil {
		t.Fatal("expected an error projecting an unknown column")
	}
}
