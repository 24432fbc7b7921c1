package encoding

import (
	"fmt"
	"math"
)

// DecodeFloatByteStreamSplit decodes a BYTE_STREAM_SPLIT page of FLOAT
// values: the 4 byte-planes of each value's little-endian representation
// are stored de-interleaved, one plane after another, rather than value by
// value.
func DecodeFloatByteStreamSplit(src []byte) ([]float32, error) {
	const width = 4
	if len(src)%width != 0 {
		return nil, fmt.Errorf("encoding: BYTE_STREAM_SPLIT FLOAT input size %d is not a multiple of %d", len(src), width)
	}
	count := len(src) / width
	dst := make([]float32, count)
	for i := 0; i < count; i++ {
		dst[i] = math.Float32frombits(
			uint32(src[i]) |
				uint32(src[i+count])<<8 |
				uint32(src[i+count*2])<<16 |
				uint32(src[i+count*3])<<24,
		)
	}
	return dst, nil
}

// DecodeDoubleByteStreamSplit decodes a BYTE_STREAM_SPLIT page of DOUBLE
// values, following the same de-interleaving as DecodeFloatByteStreamSplit
// across 8 byte-planes.
func DecodeDoubleByteStreamSplit(src []byte) ([]float64, error) {
	const width = 8
	if len(src)%width != 0 {
		return nil, fmt.Errorf("encoding: BYTE_STREAM_SPLIT DOUBLE input size %d is not a multiple of %d", len(src), width)
	}
	count := len(src) / width
	dst := make([]float64, count)
	for i := 0; i < count; i++ {
		dst[i] = math.Float64frombits(
			uint64(src[i]) |
				uint64(src[i+count])<<8 |
				uint64(src[i+count*2])<<16 |
				uint64(src[i+count*3])<<24 |
				uint64(src[i+count*4])<<32 |
				uint64(src[i+count*5])<<40 |
				uint64(src[i+count*6])<<48 |
				uint64(src[i+count*7])<<56,
		)
	}
	return dst, nil
}
