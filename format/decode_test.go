package format

import (
	"encoding/binary"
	"testing"

	"github.com/segmentio/encoding/thrift"
)

// Thrift compact-protocol field type tags, used only by compactWriter below
// to build test fixtures; decode.go never references these; it hands the
// wire bytes straight to thrift.Unmarshal/thrift.Decoder.
const (
	ctypeStop          = 0x0
	ctypeBooleanTrue   = 0x1
	ctypeBooleanFalse  = 0x2
	ctypeI32           = 0x5
	ctypeI64           = 0x6
	ctypeBinary        = 0x8
	ctypeList          = 0x9
	ctypeStruct        = 0xC
)

// compactWriter is a tiny throwaway Thrift compact-protocol encoder used
// only to build fixtures for the decoder tests below; production code never
// writes Parquet and has no encoder.
type compactWriter struct {
	buf    []byte
	lastID int16
}

func (w *compactWriter) field(id int16, typ byte) {
	delta := id - w.lastID
	if delta > 0 && delta <= 15 {
		w.buf = append(w.buf, byte(delta)<<4|typ)
	} else {
		w.buf = append(w.buf, typ)
		w.zigzag32(int32(id))
	}
	w.lastID = id
}

func (w *compactWriter) stop() { w.buf = append(w.buf, ctypeStop) }

func (w *compactWriter) uvarint(u uint64) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], u)
	w.buf = append(w.buf, b[:n]...)
}

func (w *compactWriter) zigzag32(v int32) { w.uvarint(uint64(uint32(v<<1) ^ uint32(v>>31))) }
func (w *compactWriter) zigzag64(v int64) { w.uvarint(uint64(v<<1) ^ uint64(v>>63)) }

func (w *compactWriter) binary(b []byte) {
	w.uvarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *compactWriter) str(s string) { w.binary([]byte(s)) }

func (w *compactWriter) list(elemType byte, n int) {
	if n < 15 {
		w.buf = append(w.buf, byte(n)<<4|elemType)
	} else {
		w.buf = append(w.buf, 0xF0|elemType)
		w.uvarint(uint64(n))
	}
}

func newStructWriter() *compactWriter { return &compactWriter{} }

func TestDecodePageHeaderDataPageV2(t *testing.T) {
	dph := newStructWriter()
	dph.field(1, ctypeI32)
	dph.zigzag32(10) // num_values
	dph.field(2, ctypeI32)
	dph.zigzag32(1) // num_nulls
	dph.field(3, ctypeI32)
	dph.zigzag32(3) // num_rows
	dph.field(4, ctypeI32)
	dph.zigzag32(int32(Plain)) // encoding
	dph.field(5, ctypeI32)
	dph.zigzag32(4) // def levels length
	dph.field(6, ctypeI32)
	dph.zigzag32(2) // rep levels length
	dph.field(7, ctypeBooleanFalse)
	dph.stop()

	w := newStructWriter()
	w.field(1, ctypeI32)
	w.zigzag32(int32(DataPageV2))
	w.field(2, ctypeI32)
	w.zigzag32(100)
	w.field(3, ctypeI32)
	w.zigzag32(90)
	w.field(8, ctypeStruct)
	w.buf = append(w.buf, dph.buf...)
	w.stop()

	h, n, err := DecodePageHeader(w.buf)
	if err != nil {
		t.Fatalf("DecodePageHeader: %v", err)
	}
	if n != len(w.buf) {
		t.Fatalf("consumed %d bytes, want %d", n, len(w.buf))
	}
	if h.Type != DataPageV2 {
		t.Fatalf("Type = %v, want DATA_PAGE_V2", h.Type)
	}
	if h.UncompressedPageSize != 100 || h.CompressedPageSize != 90 {
		t.Fatalf("sizes = %d/%d, want 100/90", h.UncompressedPageSize, h.CompressedPageSize)
	}
	v2 := h.DataPageHeaderV2
	if v2 == nil {
		t.Fatal("missing DataPageHeaderV2")
	}
	if v2.NumValues != 10 || v2.NumNulls != 1 || v2.NumRows != 3 {
		t.Fatalf("v2 = %+v", v2)
	}
	if v2.IsCompressedOrDefault() {
		t.Fatal("expected is_compressed=false to be honored")
	}
}

func TestDecodeFileMetaDataRoundTrip(t *testing.T) {
	name := newStructWriter()
	name.field(1, ctypeI32)
	name.zigzag32(int32(Int64))
	name.field(3, ctypeI32)
	name.zigzag32(int32(Required))
	name.field(4, ctypeBinary)
	name.str("id")
	name.stop()

	root := newStructWriter()
	root.field(4, ctypeBinary)
	root.str("root")
	root.field(5, ctypeI32)
	root.zigzag32(1)
	root.stop()

	chunkMeta := newStructWriter()
	chunkMeta.field(1, ctypeI32)
	chunkMeta.zigzag32(int32(Int64))
	chunkMeta.field(2, ctypeList)
	chunkMeta.list(ctypeI32, 1)
	chunkMeta.zigzag32(int32(Plain))
	chunkMeta.field(4, ctypeI32)
	chunkMeta.zigzag32(int32(Uncompressed))
	chunkMeta.field(5, ctypeI64)
	chunkMeta.zigzag64(5)
	chunkMeta.field(9, ctypeI64)
	chunkMeta.zigzag64(4)
	chunkMeta.stop()

	chunk := newStructWriter()
	chunk.field(2, ctypeI64)
	chunk.zigzag64(0)
	chunk.field(3, ctypeStruct)
	chunk.buf = append(chunk.buf, chunkMeta.buf...)
	chunk.stop()

	rowGroup := newStructWriter()
	rowGroup.field(1, ctypeList)
	rowGroup.list(ctypeStruct, 1)
	rowGroup.buf = append(rowGroup.buf, chunk.buf...)
	rowGroup.field(3, ctypeI64)
	rowGroup.zigzag64(5)
	rowGroup.stop()

	meta := newStructWriter()
	meta.field(1, ctypeI32)
	meta.zigzag32(1)
	meta.field(2, ctypeList)
	meta.list(ctypeStruct, 2)
	meta.buf = append(meta.buf, root.buf...)
	meta.buf = append(meta.buf, name.buf...)
	meta.field(3, ctypeI64)
	meta.zigzag64(5)
	meta.field(4, ctypeList)
	meta.list(ctypeStruct, 1)
	meta.buf = append(meta.buf, rowGroup.buf...)
	meta.stop()

	got := new(FileMetaData)
	protocol := thrift.CompactProtocol{}
	if err := thrift.Unmarshal(&protocol, meta.buf, got); err != nil {
		t.Fatalf("thrift.Unmarshal: %v", err)
	}
	if got.NumRows != 5 {
		t.Fatalf("NumRows = %d, want 5", got.NumRows)
	}
	if len(got.Schema) != 2 || got.Schema[1].Name != "id" {
		t.Fatalf("Schema = %+v", got.Schema)
	}
	if len(got.RowGroups) != 1 || len(got.RowGroups[0].Columns) != 1 {
		t.Fatalf("RowGroups = %+v", got.RowGroups)
	}
	col := got.RowGroups[0].Columns[0].MetaData
	if col == nil || col.NumValues != 5 || col.DataPageOffset != 4 {
		t.Fatalf("column metadata = %+v", col)
	}
}
