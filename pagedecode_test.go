package parquet

import (
	"encoding/binary"
	"testing"

	"github.com/arrowlake/parquet/format"
)

func plainInt32Payload(values ...int32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return buf
}

func TestDecodePageV1RequiredColumn(t *testing.T) {
	payload := plainInt32Payload(10, 20, 30)
	info := PageInfo{
		Header: &format.PageHeader{
			Type:                 format.DataPage,
			UncompressedPageSize: int32(len(payload)),
			CompressedPageSize:   int32(len(payload)),
			DataPageHeader: &format.DataPageHeader{
				NumValues: 3,
				Encoding:  format.Plain,
			},
		},
		Data:  payload,
		Codec: format.Uncompressed,
		Type:  format.Int32,
	}

	page, err := DecodePage("test", info, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(page.Values))
	}
	for i, want := range []int32{10, 20, 30} {
		if page.Values[i].Int32() != want {
			t.Errorf("value %d: got %d, want %d", i, page.Values[i].Int32(), want)
		}
		if page.Values[i].IsNull() {
			t.Errorf("value %d: unexpected null on a required column", i)
		}
	}
}

// rleRun encodes a single hybrid RLE run: value repeated count times, at a
// bit width of 1 byte per value (sufficient for the small levels/indices
// these tests use).
func rleRun(count, value int) []byte {
	return []byte{byte(count << 1), byte(value)}
}

func TestDecodePageV1ScattersNulls(t *testing.T) {
	// optional int32 column: def levels [1, 0, 1] over 3 slots, only 2
	// present. Three single-value RLE runs avoid needing a full bit-packed
	// group of 8.
	var levelStream []byte
	levelStream = append(levelStream, rleRun(1, 1)...)
	levelStream = append(levelStream, rleRun(1, 0)...)
	levelStream = append(levelStream, rleRun(1, 1)...)

	lengthPrefixed := make([]byte, 4+len(levelStream))
	binary.LittleEndian.PutUint32(lengthPrefixed, uint32(len(levelStream)))
	copy(lengthPrefixed[4:], levelStream)

	payload := append(append([]byte{}, lengthPrefixed...), plainInt32Payload(10, 30)...)

	info := PageInfo{
		Header: &format.PageHeader{
			Type:                 format.DataPage,
			UncompressedPageSize: int32(len(payload)),
			CompressedPageSize:   int32(len(payload)),
			DataPageHeader: &format.DataPageHeader{
				NumValues: 3,
				Encoding:  format.Plain,
			},
		},
		Data:  payload,
		Codec: format.Uncompressed,
		Type:  format.Int32,
	}

	page, err := DecodePage("test", info, nil, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Values) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(page.Values))
	}
	if page.Values[0].IsNull() || page.Values[0].Int32() != 10 {
		t.Errorf("slot 0: expected present value 10, got %v", page.Values[0])
	}
	if !page.Values[1].IsNull() {
		t.Errorf("slot 1: expected null, got %v", page.Values[1])
	}
	if page.Values[2].IsNull() || page.Values[2].Int32() != 30 {
		t.Errorf("slot 2: expected present value 30, got %v", page.Values[2])
	}
}

func TestDecodePageV1WithDictionary(t *testing.T) {
	dict := &Dictionary{values: []Value{ByteArrayValue([]byte("red")), ByteArrayValue([]byte("blue"))}}

	// RLE_DICTIONARY payload: 1 byte bit-width prefix, then three
	// single-value RLE runs encoding indices [0, 1, 0].
	var indexStream []byte
	indexStream = append(indexStream, 1) // bit width
	indexStream = append(indexStream, rleRun(1, 0)...)
	indexStream = append(indexStream, rleRun(1, 1)...)
	indexStream = append(indexStream, rleRun(1, 0)...)

	info := PageInfo{
		Header: &format.PageHeader{
			Type:                 format.DataPage,
			UncompressedPageSize: int32(len(indexStream)),
			CompressedPageSize:   int32(len(indexStream)),
			DataPageHeader: &format.DataPageHeader{
				NumValues: 3,
				Encoding:  format.RLEDictionary,
			},
		},
		Data:  indexStream,
		Codec: format.Uncompressed,
		Type:  format.ByteArray,
	}

	page, err := DecodePage("test", info, dict, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(page.Values))
	}
	if string(page.Values[0].ByteArray()) != "red" || string(page.Values[1].ByteArray()) != "blue" || string(page.Values[2].ByteArray()) != "red" {
		t.Errorf("unexpected dictionary-resolved values: %v", page.Values)
	}
}

func TestDecodePageV1RejectsWrongPageSize(t *testing.T) {
	payload := plainInt32Payload(1, 2)
	info := PageInfo{
		Header: &format.PageHeader{
			Type:                 format.DataPage,
			UncompressedPageSize: int32(len(payload)) + 4, // lies about the size
			CompressedPageSize:   int32(len(payload)),
			DataPageHeader:       &format.DataPageHeader{NumValues: 2, Encoding: format.Plain},
		},
		Data:  payload,
		Codec: format.Uncompressed,
		Type:  format.Int32,
	}
	if _, err := DecodePage("test", info, nil, 0, 0); err == nil {
		t.Fatal("expected an error when the declared uncompressed size doesn't match the decompressed payload")
	}
}

func TestDecodePageV2SplitsLevelsAndValues(t *testing.T) {
	// required column: repLen=defLen=0, values are the whole payload.
	payload := plainInt32Payload(7, 8)
	info := PageInfo{
		Header: &format.PageHeader{
			Type:                 format.DataPageV2,
			UncompressedPageSize: int32(len(payload)),
			DataPageHeaderV2: &format.DataPageHeaderV2{
				NumValues:                  2,
				NumRows:                    2,
				Encoding:                   format.Plain,
				RepetitionLevelsByteLength: 0,
				DefinitionLevelsByteLength: 0,
			},
		},
		Data:  payload,
		Codec: format.Uncompressed,
		Type:  format.Int32,
	}

	page, err := DecodePage("test", info, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.NumRows != 2 {
		t.Errorf("expected NumRows 2, got %d", page.NumRows)
	}
	if len(page.Values) != 2 || page.Values[0].Int32() != 7 || page.Values[1].Int32() != 8 {
		t.Errorf("unexpected values: %v", page.Values)
	}
}
