package encoding

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arrowlake/parquet/internal/bits"
)

// ByteArrayLengthSize is the width of the length prefix in front of each
// PLAIN-encoded BYTE_ARRAY value.
const ByteArrayLengthSize = 4

// DecodeBooleanPlain unpacks count bit-packed boolean values (LSB first,
// 8 per byte, as PLAIN packs them) from src.
func DecodeBooleanPlain(src []byte, count int) ([]bool, error) {
	if bc := bits.ByteCount(uint(count)); bc > len(src) {
		return nil, fmt.Errorf("encoding: PLAIN boolean run of %d values needs %d bytes, got %d", count, bc, len(src))
	}
	dst := make([]bool, count)
	for i := range dst {
		dst[i] = (src[i/8]>>(uint(i)%8))&1 != 0
	}
	return dst, nil
}

func DecodeInt32Plain(src []byte) ([]int32, error) {
	if len(src)%4 != 0 {
		return nil, fmt.Errorf("encoding: PLAIN INT32 input size %d is not a multiple of 4", len(src))
	}
	dst := make([]int32, len(src)/4)
	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return dst, nil
}

func DecodeInt64Plain(src []byte) ([]int64, error) {
	if len(src)%8 != 0 {
		return nil, fmt.Errorf("encoding: PLAIN INT64 input size %d is not a multiple of 8", len(src))
	}
	dst := make([]int64, len(src)/8)
	for i := range dst {
		dst[i] = int64(binary.LittleEndian.Uint64(src[8*i:]))
	}
	return dst, nil
}

// DecodeInt96Plain returns each INT96 value as its raw 12 little-endian
// bytes; synthesizing a timestamp from it is out of scope (see the convert
// package).
func DecodeInt96Plain(src []byte) ([][12]byte, error) {
	if len(src)%12 != 0 {
		return nil, fmt.Errorf("encoding: PLAIN INT96 input size %d is not a multiple of 12", len(src))
	}
	dst := make([][12]byte, len(src)/12)
	for i := range dst {
		copy(dst[i][:], src[12*i:12*i+12])
	}
	return dst, nil
}

func DecodeFloatPlain(src []byte) ([]float32, error) {
	if len(src)%4 != 0 {
		return nil, fmt.Errorf("encoding: PLAIN FLOAT input size %d is not a multiple of 4", len(src))
	}
	dst := make([]float32, len(src)/4)
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return dst, nil
}

func DecodeDoublePlain(src []byte) ([]float64, error) {
	if len(src)%8 != 0 {
		return nil, fmt.Errorf("encoding: PLAIN DOUBLE input size %d is not a multiple of 8", len(src))
	}
	dst := make([]float64, len(src)/8)
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:]))
	}
	return dst, nil
}

// DecodeByteArrayPlain splits src into its length-prefixed BYTE_ARRAY
// values. Each returned slice aliases src; callers that retain values past
// the lifetime of the page buffer must copy them.
func DecodeByteArrayPlain(src []byte) ([][]byte, error) {
	var dst [][]byte
	for len(src) > 0 {
		if len(src) < ByteArrayLengthSize {
			return nil, fmt.Errorf("encoding: PLAIN byte array truncated length prefix")
		}
		n := int(binary.LittleEndian.Uint32(src))
		src = src[ByteArrayLengthSize:]
		if n < 0 || n > len(src) {
			return nil, fmt.Errorf("encoding: PLAIN byte array length %d exceeds remaining %d bytes", n, len(src))
		}
		dst = append(dst, src[:n:n])
		src = src[n:]
	}
	return dst, nil
}

// DecodeFixedLenByteArrayPlain splits src into len(src)/size values of
// exactly size bytes each.
func DecodeFixedLenByteArrayPlain(src []byte, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("encoding: invalid FIXED_LEN_BYTE_ARRAY size %d", size)
	}
	if len(src)%size != 0 {
		return nil, fmt.Errorf("encoding: PLAIN FIXED_LEN_BYTE_ARRAY input size %d is not a multiple of %d", len(src), size)
	}
	dst := make([][]byte, len(src)/size)
	for i := range dst {
		dst[i] = src[i*size : (i+1)*size : (i+1)*size]
	}
	return dst, nil
}
