package parquet

import (
	"testing"

	"github.com/arrowlake/parquet/format"
)

func TestDecodeDictionaryPageInt32(t *testing.T) {
	payload := plainInt32Payload(5, 10, 15)
	dict, err := decodeDictionaryPage("test", format.Int32, 0, 3, payload)
	if err != nil {
		t.Fatal(err)
	}
	if dict.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", dict.Len())
	}
	if dict.Lookup(1).Int32() != 10 {
		t.Errorf("expected entry 1 to be 10, got %d", dict.Lookup(1).Int32())
	}
}

func TestDictionaryLookupOutOfRangeReturnsNull(t *testing.T) {
	dict := &Dictionary{values: []Value{Int32Value(1)}}
	if !dict.Lookup(5).IsNull() {
		t.Error("expected an out-of-range lookup to return a null value")
	}
	if !dict.Lookup(-1).IsNull() {
		t.Error("expected a negative lookup to return a null value")
	}
}

func TestDecodeDictionaryPageByteArray(t *testing.T) {
	// PLAIN BYTE_ARRAY: 4-byte little-endian length prefix per value.
	payload := []byte{
		3, 0, 0, 0, 'r', 'e', 'd',
		4, 0, 0, 0, 'b', 'l', 'u', 'e',
	}
	dict, err := decodeDictionaryPage("test", format.ByteArray, 0, 2, payload)
	if err != nil {
		t.Fatal(err)
	}
	if string(dict.Lookup(0).ByteArray()) != "red" || string(dict.Lookup(1).ByteArray()) != "blue" {
		t.Errorf("unexpected dictionary values: %v, %v", dict.Lookup(0), dict.Lookup(1))
	}
}

func TestDecodeDictionaryPageRejectsUnsupportedType(t *testing.T) {
	if _, err := decodeDictionaryPage("test", format.Type(99), 0, 1, nil); err == nil {
		t.Fatal("expected an error decoding a dictionary of an unknown physical type")
	}
}
