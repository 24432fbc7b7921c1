package format

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/thrift"
)

// magicPlain is written at the very end of a Parquet file, after the
// 4-byte metadata length. magicEncrypted ("PARE") signals an encrypted
// footer, which this reader does not attempt to decrypt (spec Non-goal).
const (
	magicPlain     = "PAR1"
	magicEncrypted = "PARE"
)

// ReadFileMetaData implements the footer layout from spec §6:
//
//	... [metadata bytes][i32 metadata_len][4-byte magic]
//
// It seeks to the trailer, validates the magic, and decodes the compact
// Thrift metadata blob into a FileMetaData. This is the one concrete
// implementation of the "bytes → FileMetadata" pure function the core
// pipeline treats as an external collaborator (spec §1).
func ReadFileMetaData(r io.ReaderAt, size int64) (*FileMetaData, error) {
	if size < 8 {
		return nil, fmt.Errorf("format: file too small to contain a parquet footer (%d bytes)", size)
	}

	trailer := make([]byte, 8)
	if _, err := r.ReadAt(trailer, size-8); err != nil {
		return nil, fmt.Errorf("format: reading footer trailer: %w", err)
	}

	magic := string(trailer[4:])
	switch magic {
	case magicPlain:
	case magicEncrypted:
		return nil, fmt.Errorf("format: encrypted column chunks are not supported (magic=%q)", magic)
	default:
		return nil, fmt.Errorf("format: invalid footer magic %q", magic)
	}

	metadataLen := int64(int32(trailer[0]) | int32(trailer[1])<<8 | int32(trailer[2])<<16 | int32(trailer[3])<<24)
	if metadataLen < 0 || metadataLen > size-8 {
		return nil, fmt.Errorf("format: invalid footer metadata length %d", metadataLen)
	}

	buf := make([]byte, metadataLen)
	if _, err := r.ReadAt(buf, size-8-metadataLen); err != nil {
		return nil, fmt.Errorf("format: reading footer metadata: %w", err)
	}

	meta := new(FileMetaData)
	protocol := thrift.CompactProtocol{}
	if err := thrift.Unmarshal(&protocol, buf, meta); err != nil {
		return nil, fmt.Errorf("format: decoding footer metadata: %w", err)
	}
	return meta, nil
}

// PageHeaderReader decodes a sequence of Thrift compact-protocol PageHeader
// values from a single column chunk buffer, one per call to Decode,
// stopping exactly at the first byte of that page's payload each time -
// the same streaming shape segmentio/parquet-go's ColumnPages uses its
// thrift.Decoder for, so a chunk's trailing padding is never touched
// unless the caller asks for one more header than the chunk actually has.
type PageHeaderReader struct {
	protocol thrift.CompactProtocol
	decoder  thrift.Decoder
	section  *countingReader
}

// NewPageHeaderReader wraps buf for sequential page header decoding.
func NewPageHeaderReader(buf []byte) *PageHeaderReader {
	pr := &PageHeaderReader{section: &countingReader{buf: buf}}
	pr.decoder.Reset(pr.protocol.NewReader(pr.section))
	return pr
}

// Decode reads the next PageHeader and reports how many bytes of buf it
// consumed in total so far, so the caller can slice out the page payload.
func (pr *PageHeaderReader) Decode() (*PageHeader, int, error) {
	h := new(PageHeader)
	if err := pr.decoder.Decode(h); err != nil {
		return nil, pr.section.n, err
	}
	return h, pr.section.n, nil
}

// countingReader tracks how many bytes have been read off buf so the page
// scanner knows where a decoded header's payload begins.
type countingReader struct {
	buf []byte
	n   int
}

func (c *countingReader) Read(p []byte) (int, error) {
	if c.n >= len(c.buf) {
		return 0, io.EOF
	}
	n := copy(p, c.buf[c.n:])
	c.n += n
	return n, nil
}

// DecodePageHeader decodes one Thrift compact-protocol PageHeader from the
// front of buf, returning the number of bytes consumed so the caller (the
// page scanner) knows where the page payload begins.
func DecodePageHeader(buf []byte) (*PageHeader, int, error) {
	return NewPageHeaderReader(buf).Decode()
}
