package parquet

import (
	"github.com/arrowlake/parquet/compress"
	"github.com/arrowlake/parquet/encoding"
	"github.com/arrowlake/parquet/format"
)

// Page is the decoded output of the page decoder (spec §4.2): parallel
// repetition/definition level arrays of length NumValues, and a Values slice
// of the same length in stream order that holds a null Value at every
// position whose definition level is below the column's maximum. NumRows is
// only meaningful for
// DATA_PAGE_V2 pages; v1 callers derive row count from Rep==0 counts
// themselves.
type Page struct {
	Rep     []int32
	Def     []int32
	Values  []Value
	NumRows int32
}

// DecodePage implements spec §4.2 end to end: header already parsed by the
// scanner, so this decompresses the payload, decodes levels, decodes values
// under the page's encoding (applying dictionary indirection where used),
// and reserves null slots for positions whose definition level falls short
// of maxDefLevel.
func DecodePage(path string, info PageInfo, dict *Dictionary, maxDefLevel, maxRepLevel int32) (*Page, error) {
	h := info.Header

	switch h.Type {
	case format.DataPage:
		return decodeDataPageV1(path, info, dict, maxDefLevel, maxRepLevel)
	case format.DataPageV2:
		return decodeDataPageV2(path, info, dict, maxDefLevel, maxRepLevel)
	default:
		return nil, corruptf(path, "DecodePage called with non-data page type %d", h.Type)
	}
}

func decodeDataPageV1(path string, info PageInfo, dict *Dictionary, maxDefLevel, maxRepLevel int32) (*Page, error) {
	h := info.Header
	dh := h.DataPageHeader
	if dh == nil {
		return nil, corruptf(path, "DATA_PAGE is missing its data_page_header")
	}

	payload, err := compress.Decompress(info.Codec, nil, info.Data)
	if err != nil {
		return nil, corruptf(path, "decompressing data page: %w", err)
	}
	if len(payload) != int(h.UncompressedPageSize) {
		return nil, corruptf(path, "decompressed page is %d bytes, header declares %d", len(payload), h.UncompressedPageSize)
	}

	numValues := int(dh.NumValues)
	cursor := payload

	rep, n, err := encoding.DecodeLevelsV1(nil, cursor, maxRepLevel)
	if err != nil {
		return nil, corruptf(path, "decoding repetition levels: %w", err)
	}
	cursor = cursor[n:]

	def, n, err := encoding.DecodeLevelsV1(nil, cursor, maxDefLevel)
	if err != nil {
		return nil, corruptf(path, "decoding definition levels: %w", err)
	}
	cursor = cursor[n:]

	return finishPage(path, numValues, rep, def, maxDefLevel, maxRepLevel, dh.Encoding, info.Type, info.TypeLength, dict, cursor)
}

func decodeDataPageV2(path string, info PageInfo, dict *Dictionary, maxDefLevel, maxRepLevel int32) (*Page, error) {
	h := info.Header
	dh := h.DataPageHeaderV2
	if dh == nil {
		return nil, corruptf(path, "DATA_PAGE_V2 is missing its data_page_header_v2")
	}

	data := info.Data
	repLen := int(dh.RepetitionLevelsByteLength)
	defLen := int(dh.DefinitionLevelsByteLength)
	if repLen+defLen > len(data) {
		return nil, corruptf(path, "level byte lengths %d+%d exceed page size %d", repLen, defLen, len(data))
	}

	rep, err := encoding.DecodeLevelsV2(nil, data[:repLen], maxRepLevel, dh.RepetitionLevelsByteLength)
	if err != nil {
		return nil, corruptf(path, "decoding repetition levels: %w", err)
	}
	def, err := encoding.DecodeLevelsV2(nil, data[repLen:repLen+defLen], maxDefLevel, dh.DefinitionLevelsByteLength)
	if err != nil {
		return nil, corruptf(path, "decoding definition levels: %w", err)
	}

	values := data[repLen+defLen:]
	if dh.IsCompressedOrDefault() && info.Codec != format.Uncompressed {
		expected := int(h.UncompressedPageSize) - repLen - defLen
		decompressed, err := compress.Decompress(info.Codec, nil, values)
		if err != nil {
			return nil, corruptf(path, "decompressing data page v2 values: %w", err)
		}
		if len(decompressed) != expected {
			return nil, corruptf(path, "decompressed v2 values are %d bytes, expected %d", len(decompressed), expected)
		}
		values = decompressed
	}

	page, err := finishPage(path, int(dh.NumValues), rep, def, maxDefLevel, maxRepLevel, dh.Encoding, info.Type, info.TypeLength, dict, values)
	if err != nil {
		return nil, err
	}
	page.NumRows = dh.NumRows
	return page, nil
}

// finishPage decodes the values stream (presentCount entries) under enc and
// scatters them into a length-numValues Value slice, leaving null holes
// wherever the definition level falls short of maxDefLevel, per spec §4.2
// step 5.
func finishPage(path string, numValues int, rep, def []int32, maxDefLevel, maxRepLevel int32, enc format.Encoding, typ format.Type, typeLength int32, dict *Dictionary, valuesBuf []byte) (*Page, error) {
	if len(rep) == 0 && maxRepLevel == 0 {
		rep = make([]int32, numValues)
	}
	if len(def) == 0 && maxDefLevel == 0 {
		def = make([]int32, numValues)
		for i := range def {
			def[i] = maxDefLevel
		}
	}
	if len(rep) != numValues {
		return nil, corruptf(path, "repetition level stream has %d entries, expected %d", len(rep), numValues)
	}
	if len(def) != numValues {
		return nil, corruptf(path, "definition level stream has %d entries, expected %d", len(def), numValues)
	}

	present := 0
	for _, d := range def {
		if d == maxDefLevel {
			present++
		}
	}

	decoded, err := decodeValues(path, enc, typ, typeLength, dict, valuesBuf, present)
	if err != nil {
		return nil, err
	}
	if len(decoded) != present {
		return nil, corruptf(path, "decoded %d present values, expected %d", len(decoded), present)
	}

	out := make([]Value, numValues)
	vi := 0
	for i := 0; i < numValues; i++ {
		if def[i] == maxDefLevel {
			out[i] = decoded[vi].Level(rep[i], def[i])
			vi++
		} else {
			out[i] = NullValue().Level(rep[i], def[i])
		}
	}

	return &Page{Rep: rep, Def: def, Values: out}, nil
}

func decodeValues(path string, enc format.Encoding, typ format.Type, typeLength int32, dict *Dictionary, buf []byte, count int) ([]Value, error) {
	switch enc {
	case format.Plain:
		return decodePlainValues(path, typ, typeLength, buf, count)

	case format.PlainDictionary, format.RLEDictionary:
		if dict == nil {
			return nil, corruptf(path, "%s page has no dictionary", enc)
		}
		indices, err := encoding.DecodeDictionaryIndices(nil, buf)
		if err != nil {
			return nil, corruptf(path, "decoding dictionary indices: %w", err)
		}
		if len(indices) < count {
			return nil, corruptf(path, "dictionary index stream has %d entries, need %d", len(indices), count)
		}
		values := make([]Value, count)
		for i := 0; i < count; i++ {
			if indices[i] < 0 || int(indices[i]) >= dict.Len() {
				return nil, corruptf(path, "dictionary index %d out of range for dictionary of %d entries", indices[i], dict.Len())
			}
			values[i] = dict.Lookup(indices[i])
		}
		return values, nil

	case format.DeltaBinaryPacked:
		switch typ {
		case format.Int32:
			is, err := encoding.DecodeInt32DeltaBinaryPacked(buf)
			if err != nil {
				return nil, corruptf(path, "decoding DELTA_BINARY_PACKED: %w", err)
			}
			return int32Values(is, count, path)
		case format.Int64:
			is, err := encoding.DecodeInt64DeltaBinaryPacked(buf)
			if err != nil {
				return nil, corruptf(path, "decoding DELTA_BINARY_PACKED: %w", err)
			}
			return int64Values(is, count, path)
		default:
			return nil, unsupportedf(path, "DELTA_BINARY_PACKED on physical type %s", typ)
		}

	case format.DeltaLengthByteArray:
		bs, err := encoding.DecodeByteArrayDeltaLength(buf)
		if err != nil {
			return nil, corruptf(path, "decoding DELTA_LENGTH_BYTE_ARRAY: %w", err)
		}
		return byteArrayValues(bs, count, path)

	case format.DeltaByteArray:
		bs, err := encoding.DecodeByteArrayDelta(buf)
		if err != nil {
			return nil, corruptf(path, "decoding DELTA_BYTE_ARRAY: %w", err)
		}
		return byteArrayValues(bs, count, path)

	case format.ByteStreamSplit:
		switch typ {
		case format.Float:
			fs, err := encoding.DecodeFloatByteStreamSplit(buf)
			if err != nil {
				return nil, corruptf(path, "decoding BYTE_STREAM_SPLIT: %w", err)
			}
			values := make([]Value, count)
			for i := 0; i < count && i < len(fs); i++ {
				values[i] = FloatValue(fs[i])
			}
			return values, nil
		case format.Double:
			ds, err := encoding.DecodeDoubleByteStreamSplit(buf)
			if err != nil {
				return nil, corruptf(path, "decoding BYTE_STREAM_SPLIT: %w", err)
			}
			values := make([]Value, count)
			for i := 0; i < count && i < len(ds); i++ {
				values[i] = DoubleValue(ds[i])
			}
			return values, nil
		default:
			return nil, unsupportedf(path, "BYTE_STREAM_SPLIT on physical type %s", typ)
		}

	default:
		return nil, unsupportedf(path, "encoding %s", enc)
	}
}

func decodePlainValues(path string, typ format.Type, typeLength int32, buf []byte, count int) ([]Value, error) {
	switch typ {
	case format.Boolean:
		bs, err := encoding.DecodeBooleanPlain(buf, count)
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN BOOLEAN: %w", err)
		}
		values := make([]Value, len(bs))
		for i, b := range bs {
			values[i] = BooleanValue(b)
		}
		return values, nil
	case format.Int32:
		is, err := encoding.DecodeInt32Plain(buf)
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN INT32: %w", err)
		}
		return int32Values(is, count, path)
	case format.Int64:
		is, err := encoding.DecodeInt64Plain(buf)
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN INT64: %w", err)
		}
		return int64Values(is, count, path)
	case format.Int96:
		is, err := encoding.DecodeInt96Plain(buf)
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN INT96: %w", err)
		}
		if len(is) != count {
			return nil, corruptf(path, "PLAIN INT96 stream has %d values, expected %d", len(is), count)
		}
		values := make([]Value, count)
		for i, v := range is {
			values[i] = Int96Value(v)
		}
		return values, nil
	case format.Float:
		fs, err := encoding.DecodeFloatPlain(buf)
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN FLOAT: %w", err)
		}
		values := make([]Value, count)
		for i := 0; i < count && i < len(fs); i++ {
			values[i] = FloatValue(fs[i])
		}
		return values, nil
	case format.Double:
		ds, err := encoding.DecodeDoublePlain(buf)
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN DOUBLE: %w", err)
		}
		values := make([]Value, count)
		for i := 0; i < count && i < len(ds); i++ {
			values[i] = DoubleValue(ds[i])
		}
		return values, nil
	case format.ByteArray:
		bs, err := encoding.DecodeByteArrayPlain(buf)
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN BYTE_ARRAY: %w", err)
		}
		return byteArrayValues(bs, count, path)
	case format.FixedLenByteArray:
		bs, err := encoding.DecodeFixedLenByteArrayPlain(buf, int(typeLength))
		if err != nil {
			return nil, corruptf(path, "decoding PLAIN FIXED_LEN_BYTE_ARRAY: %w", err)
		}
		values := make([]Value, count)
		for i := 0; i < count && i < len(bs); i++ {
			values[i] = FixedLenByteArrayValue(bs[i])
		}
		return values, nil
	default:
		return nil, unsupportedf(path, "PLAIN on unknown physical type %d", typ)
	}
}

func int32Values(is []int32, count int, path string) ([]Value, error) {
	if len(is) != count {
		return nil, corruptf(path, "INT32 stream has %d values, expected %d", len(is), count)
	}
	values := make([]Value, count)
	for i, v := range is {
		values[i] = Int32Value(v)
	}
	return values, nil
}

func int64Values(is []int64, count int, path string) ([]Value, error) {
	if len(is) != count {
		return nil, corruptf(path, "INT64 stream has %d values, expected %d", len(is), count)
	}
	values := make([]Value, count)
	for i, v := range is {
		values[i] = Int64Value(v)
	}
	return values, nil
}

func byteArrayValues(bs [][]byte, count int, path string) ([]Value, error) {
	if len(bs) != count {
		return nil, corruptf(path, "BYTE_ARRAY stream has %d values, expected %d", len(bs), count)
	}
	values := make([]Value, count)
	for i, v := range bs {
		values[i] = ByteArrayValue(v)
	}
	return values, nil
}
