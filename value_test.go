package parquet

import "testing"

func TestValueAccessors(t *testing.T) {
	if !NullValue().IsNull() {
		t.Error("NullValue should report IsNull")
	}
	if BooleanValue(true).Boolean() != true {
		t.Error("BooleanValue round-trip failed")
	}
	if Int32Value(7).Int32() != 7 {
		t.Error("Int32Value round-trip failed")
	}
	if Int64Value(-3).Int64() != -3 {
		t.Error("Int64Value round-trip failed")
	}
	if FloatValue(1.5).Float() != 1.5 {
		t.Error("FloatValue round-trip failed")
	}
	if DoubleValue(2.5).Double() != 2.5 {
		t.Error("DoubleValue round-trip failed")
	}
	if string(ByteArrayValue([]byte("hi")).ByteArray()) != "hi" {
		t.Error("ByteArrayValue round-trip failed")
	}
}

func TestValueLevel(t *testing.T) {
	v := Int32Value(1).Level(2, 3)
	if v.RepetitionLevel() != 2 || v.DefinitionLevel() != 3 {
		t.Errorf("expected levels (2,3), got (%d,%d)", v.RepetitionLevel(), v.DefinitionLevel())
	}
	// Level must not disturb the value's kind or payload.
	if v.Int32() != 1 || v.Kind() != Int32 {
		t.Errorf("Level mutated the value's payload: %v", v)
	}
}

func TestValueKindOf(t *testing.T) {
	cases := map[Kind]Value{
		Boolean:           BooleanValue(true),
		Int32:             Int32Value(0),
		Int64:             Int64Value(0),
		Float:             FloatValue(0),
		Double:            DoubleValue(0),
		ByteArray:         ByteArrayValue(nil),
		FixedLenByteArray: FixedLenByteArrayValue(nil),
	}
	for kind, v := range cases {
		if v.Kind() != kind {
			t.Errorf("expected kind %s, got %s", kind, v.Kind())
		}
	}
}
