package parquet

import (
	"github.com/arrowlake/parquet/encoding"
	"github.com/arrowlake/parquet/format"
)

// Dictionary is the ordered array of typed values a column chunk's
// dictionary page decodes to. PLAIN_DICTIONARY / RLE_DICTIONARY data pages
// reference it by small integer index; it is parsed once per column chunk
// and shared by every data page of that chunk (spec §3 "Dictionary").
type Dictionary struct {
	kind   Kind
	values []Value
}

func (d *Dictionary) Len() int { return len(d.values) }

// Lookup returns the dictionary entry at i, or the null value if i is out
// of range (treated as corrupt by the caller, which always checks bounds
// itself; this is only a defensive fallback).
func (d *Dictionary) Lookup(i int32) Value {
	if i < 0 || int(i) >= len(d.values) {
		return NullValue()
	}
	return d.values[i]
}

// decodeDictionaryPage decodes a dictionary page's decompressed payload
// into a Dictionary of the column's physical type. Dictionary pages are
// always PLAIN-encoded regardless of the column's data page encoding.
func decodeDictionaryPage(path string, typ format.Type, typeLength int32, numValues int32, payload []byte) (*Dictionary, error) {
	kind := kindOf(typ)
	values := make([]Value, 0, numValues)

	switch typ {
	case format.Boolean:
		bs, err := encoding.DecodeBooleanPlain(payload, int(numValues))
		if err != nil {
			return nil, corruptf(path, "decoding BOOLEAN dictionary: %w", err)
		}
		for _, b := range bs {
			values = append(values, BooleanValue(b))
		}
	case format.Int32:
		is, err := encoding.DecodeInt32Plain(payload)
		if err != nil {
			return nil, corruptf(path, "decoding INT32 dictionary: %w", err)
		}
		for _, v := range is {
			values = append(values, Int32Value(v))
		}
	case format.Int64:
		is, err := encoding.DecodeInt64Plain(payload)
		if err != nil {
			return nil, corruptf(path, "decoding INT64 dictionary: %w", err)
		}
		for _, v := range is {
			values = append(values, Int64Value(v))
		}
	case format.Int96:
		is, err := encoding.DecodeInt96Plain(payload)
		if err != nil {
			return nil, corruptf(path, "decoding INT96 dictionary: %w", err)
		}
		for _, v := range is {
			values = append(values, Int96Value(v))
		}
	case format.Float:
		fs, err := encoding.DecodeFloatPlain(payload)
		if err != nil {
			return nil, corruptf(path, "decoding FLOAT dictionary: %w", err)
		}
		for _, v := range fs {
			values = append(values, FloatValue(v))
		}
	case format.Double:
		ds, err := encoding.DecodeDoublePlain(payload)
		if err != nil {
			return nil, corruptf(path, "decoding DOUBLE dictionary: %w", err)
		}
		for _, v := range ds {
			values = append(values, DoubleValue(v))
		}
	case format.ByteArray:
		bs, err := encoding.DecodeByteArrayPlain(payload)
		if err != nil {
			return nil, corruptf(path, "decoding BYTE_ARRAY dictionary: %w", err)
		}
		for _, v := range bs {
			values = append(values, ByteArrayValue(v))
		}
	case format.FixedLenByteArray:
		bs, err := encoding.DecodeFixedLenByteArrayPlain(payload, int(typeLength))
		if err != nil {
			return nil, corruptf(path, "decoding FIXED_LEN_BYTE_ARRAY dictionary: %w", err)
		}
		for _, v := range bs {
			values = append(values, FixedLenByteArrayValue(v))
		}
	default:
		return nil, unsupportedf(path, "dictionary of unknown physical type %d", typ)
	}

	return &Dictionary{kind: kind, values: values}, nil
}
