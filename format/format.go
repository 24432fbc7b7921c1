// Package format defines the Go representation of the Parquet file footer
// metadata: the schema, row group index, column chunk descriptors, and page
// headers described by the Parquet Thrift IDL.
//
// The struct tags below (`thrift:"id,required|optional"`) are read by
// github.com/segmentio/encoding/thrift, the same reflection-driven compact
// protocol codec segmentio/parquet-go itself decodes the footer and page
// headers with. decode.go calls thrift.Unmarshal/thrift.Decoder against
// these types; nothing in this package hand-rolls the wire format.
package format

import "sort"

// Type is the physical type of a primitive schema leaf.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType is the repetition of a schema node.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// Encoding identifies how column values (or levels) are packed into a page.
type Encoding int32

const (
	Plain Encoding = iota
	_              // GROUP_VAR_INT, never implemented by any writer
	PlainDictionary
	RLE
	BitPacked // deprecated
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the codec a column chunk's pages are
// compressed with.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	LZO
	Brotli
	LZ4
	Zstd
	Lz4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case LZO:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case LZ4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType identifies the kind of page a PageHeader describes.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

func (t PageType) String() string {
	switch t {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN"
	}
}

// ConvertedType and LogicalType carry enough of the Thrift-defined logical
// type system for the convert package to map physical values to domain
// values. The core reader never interprets these fields itself.
type ConvertedType int32

// LogicalType is the Thrift union of logical-type annotations a
// SchemaElement may carry. Exactly one field is non-nil; which one is
// selected by which Thrift field ID was present on the wire, same as
// TimeUnit below. The empty marker types (StringType, DateType, ...) carry
// no fields of their own - their presence alone is the signal.
type LogicalType struct {
	UTF8      *StringType `thrift:"1,optional"`
	Map       *MapType    `thrift:"2,optional"`
	List      *ListType   `thrift:"3,optional"`
	Enum      *EnumType   `thrift:"4,optional"`
	Decimal   *DecimalType `thrift:"5,optional"`
	Date      *DateType   `thrift:"6,optional"`
	Time      *TimeType   `thrift:"7,optional"`
	Timestamp *TimeType   `thrift:"8,optional"`
	Integer   *IntType    `thrift:"10,optional"`
	Unknown   *NullType   `thrift:"11,optional"`
	Json      *JsonType   `thrift:"12,optional"`
	Bson      *BsonType   `thrift:"13,optional"`
	UUID      *UUIDType   `thrift:"14,optional"`
}

type StringType struct{}
type MapType struct{}
type ListType struct{}
type EnumType struct{}
type DateType struct{}
type NullType struct{}
type JsonType struct{}
type BsonType struct{}
type UUIDType struct{}

type TimeType struct {
	IsAdjustedToUTC bool     `thrift:"1,required"`
	Unit            TimeUnit `thrift:"2,required"`
}

// TimeUnit is the Thrift union selecting the precision TIME and TIMESTAMP
// values are stored at: exactly one of Millis/Micros/Nanos is non-nil.
// segmentio/encoding/thrift decodes a union the same way it decodes any
// other struct - by field ID - so the union has to be spelled out as one
// optional pointer field per variant rather than collapsed into an enum.
type TimeUnit struct {
	Millis *MilliSeconds `thrift:"1,optional"`
	Micros *MicroSeconds `thrift:"2,optional"`
	Nanos  *NanoSeconds  `thrift:"3,optional"`
}

type MilliSeconds struct{}
type MicroSeconds struct{}
type NanoSeconds struct{}

// MillisUnit, MicrosUnit and NanosUnit construct a TimeUnit selecting the
// named variant, for callers building a TimeType/TimeUnit by hand (the
// deprecated ConvertedType path has no TimeUnit on the wire at all, so the
// converter has to supply one itself).
func MillisUnit() TimeUnit { return TimeUnit{Millis: &MilliSeconds{}} }
func MicrosUnit() TimeUnit { return TimeUnit{Micros: &MicroSeconds{}} }
func NanosUnit() TimeUnit  { return TimeUnit{Nanos: &NanoSeconds{}} }

type DecimalType struct {
	Scale     int32 `thrift:"1,required"`
	Precision int32 `thrift:"2,required"`
}

type IntType struct {
	BitWidth int8 `thrift:"1,required"`
	IsSigned bool `thrift:"2,required"`
}

// SchemaElement is one node of the flattened schema tree stored in the file
// footer. Children follow their parent in depth-first pre-order; NumChildren
// tells the reader how many of the following elements belong to this node.
type SchemaElement struct {
	Type           *Type                `thrift:"1,optional"`
	TypeLength     *int32               `thrift:"2,optional"`
	RepetitionType *FieldRepetitionType `thrift:"3,optional"`
	Name           string               `thrift:"4,required"`
	NumChildren    *int32               `thrift:"5,optional"`
	ConvertedType  *ConvertedType       `thrift:"6,optional"`
	Scale          *int32               `thrift:"7,optional"`
	Precision      *int32               `thrift:"8,optional"`
	FieldID        *int32               `thrift:"9,optional"`
	LogicalType    *LogicalType         `thrift:"10,optional"`
}

// KeyValue is a single entry of the file's free-form key/value metadata.
type KeyValue struct {
	Key   string  `thrift:"1,required"`
	Value *string `thrift:"2,optional"`
}

// SortKeyValueMetadata sorts key/value metadata entries for stable output.
func SortKeyValueMetadata(kv []KeyValue) {
	sort.Slice(kv, func(i, j int) bool {
		switch {
		case kv[i].Key < kv[j].Key:
			return true
		case kv[i].Key > kv[j].Key:
			return false
		default:
			return strPtr(kv[i].Value) < strPtr(kv[j].Value)
		}
	})
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Statistics holds the optional per-column-chunk or per-page min/max/null
// counters. The reader does not interpret them (statistics-based skipping is
// a spec Non-goal); they are preserved only so callers can inspect them.
type Statistics struct {
	Max           []byte `thrift:"1,optional"`
	Min           []byte `thrift:"2,optional"`
	NullCount     *int64 `thrift:"3,optional"`
	DistinctCount *int64 `thrift:"4,optional"`
	MaxValue      []byte `thrift:"5,optional"`
	MinValue      []byte `thrift:"6,optional"`
}

// ColumnMetaData describes one column chunk's encoding and layout.
type ColumnMetaData struct {
	Type                  Type                `thrift:"1,required"`
	Encodings             []Encoding          `thrift:"2,required"`
	PathInSchema          []string            `thrift:"3,required"`
	Codec                 CompressionCodec    `thrift:"4,required"`
	NumValues             int64               `thrift:"5,required"`
	TotalUncompressedSize int64               `thrift:"6,required"`
	TotalCompressedSize   int64               `thrift:"7,required"`
	KeyValueMetadata      []KeyValue          `thrift:"8,optional"`
	DataPageOffset        int64               `thrift:"9,required"`
	IndexPageOffset       *int64              `thrift:"10,optional"`
	DictionaryPageOffset  *int64              `thrift:"11,optional"`
	Statistics            *Statistics         `thrift:"12,optional"`
	EncodingStats         []PageEncodingStats `thrift:"13,optional"`
	BloomFilterOffset     *int64              `thrift:"14,optional"`
}

type PageEncodingStats struct {
	PageType PageType `thrift:"1,required"`
	Encoding Encoding `thrift:"2,required"`
	Count    int32    `thrift:"3,required"`
}

// ColumnChunk is one column's storage within one row group.
type ColumnChunk struct {
	FilePath   *string         `thrift:"1,optional"`
	FileOffset int64           `thrift:"2,required"`
	MetaData   *ColumnMetaData `thrift:"3,optional"`
}

// RowGroup is a horizontal partition of the file: the same byte range across
// every projected column chunk.
type RowGroup struct {
	Columns        []ColumnChunk   `thrift:"1,required"`
	TotalByteSize  int64           `thrift:"2,required"`
	NumRows        int64           `thrift:"3,required"`
	SortingColumns []SortingColumn `thrift:"4,optional"`
	FileOffset     *int64          `thrift:"5,optional"`
}

type SortingColumn struct {
	ColumnIdx  int32 `thrift:"1,required"`
	Descending bool  `thrift:"2,required"`
	NullsFirst bool  `thrift:"3,required"`
}

// FileMetaData is the fully decoded file footer.
type FileMetaData struct {
	Version          int32           `thrift:"1,required"`
	Schema           []SchemaElement `thrift:"2,required"`
	NumRows          int64           `thrift:"3,required"`
	RowGroups        []RowGroup      `thrift:"4,required"`
	KeyValueMetadata []KeyValue      `thrift:"5,optional"`
	CreatedBy        *string         `thrift:"6,optional"`
}

// Page headers.

type PageHeader struct {
	Type                 PageType              `thrift:"1,required"`
	UncompressedPageSize int32                 `thrift:"2,required"`
	CompressedPageSize   int32                 `thrift:"3,required"`
	CRC                  *int32                `thrift:"4,optional"`
	DataPageHeader       *DataPageHeader       `thrift:"5,optional"`
	IndexPageHeader      *IndexPageHeader      `thrift:"6,optional"`
	DictionaryPageHeader *DictionaryPageHeader `thrift:"7,optional"`
	DataPageHeaderV2     *DataPageHeaderV2     `thrift:"8,optional"`
}

type DataPageHeader struct {
	NumValues               int32       `thrift:"1,required"`
	Encoding                Encoding    `thrift:"2,required"`
	DefinitionLevelEncoding Encoding    `thrift:"3,required"`
	RepetitionLevelEncoding Encoding    `thrift:"4,required"`
	Statistics              *Statistics `thrift:"5,optional"`
}

type IndexPageHeader struct{}

type DictionaryPageHeader struct {
	NumValues int32    `thrift:"1,required"`
	Encoding  Encoding `thrift:"2,required"`
	IsSorted  *bool    `thrift:"3,optional"`
}

type DataPageHeaderV2 struct {
	NumValues                  int32       `thrift:"1,required"`
	NumNulls                   int32       `thrift:"2,required"`
	NumRows                    int32       `thrift:"3,required"`
	Encoding                   Encoding    `thrift:"4,required"`
	DefinitionLevelsByteLength int32       `thrift:"5,required"`
	RepetitionLevelsByteLength int32       `thrift:"6,required"`
	IsCompressed               *bool       `thrift:"7,optional"`
	Statistics                 *Statistics `thrift:"8,optional"`
}

// IsCompressedOrDefault returns whether the page payload is compressed,
// defaulting to true per the Thrift field's documented default value.
func (h *DataPageHeaderV2) IsCompressedOrDefault() bool {
	return h.IsCompressed == nil || *h.IsCompressed
}
