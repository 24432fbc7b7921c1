// Package encoding implements the decode side of the value and level
// encodings used by Parquet data and dictionary pages: the hybrid
// RLE/bit-packing scheme for repetition levels, definition levels, and
// dictionary indices; PLAIN; the three DELTA_* schemes; and
// BYTE_STREAM_SPLIT.
//
// Every function here is decode-only and operates on whole in-memory
// buffers rather than streaming readers, because the page decoder always
// holds a page's full decompressed payload before decoding it.
package encoding

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arrowlake/parquet/internal/bits"
)

// DecodeLevelsV1 decodes a repetition or definition level array encoded with
// the hybrid RLE/bit-packing scheme as it appears in a DATA_PAGE (v1): a
// 4-byte little-endian length prefix followed by exactly that many bytes of
// hybrid-encoded data. It returns the decoded levels and the number of bytes
// consumed from src, including the length prefix.
func DecodeLevelsV1(dst []int32, src []byte, maxLevel int32) ([]int32, int, error) {
	if maxLevel == 0 {
		return dst[:0], 0, nil
	}
	if len(src) < 4 {
		return dst, 0, fmt.Errorf("encoding: level run shorter than length prefix: %w", io.ErrUnexpectedEOF)
	}
	n := int(binary.LittleEndian.Uint32(src))
	if n > len(src)-4 {
		return dst, 0, fmt.Errorf("encoding: level run length %d exceeds available %d bytes: %w", n, len(src)-4, io.ErrUnexpectedEOF)
	}
	bitWidth := bits.BitWidth(uint64(maxLevel))
	dst, err := decodeHybrid(dst[:0], src[4:4+n], bitWidth)
	return dst, 4 + n, err
}

// DecodeLevelsV2 decodes a repetition or definition level array encoded with
// the hybrid RLE/bit-packing scheme as it appears in a DATA_PAGE_V2: exactly
// byteLength bytes of hybrid-encoded data with no length prefix, because the
// page header already carries the byte length explicitly.
func DecodeLevelsV2(dst []int32, src []byte, maxLevel int32, byteLength int32) ([]int32, error) {
	if maxLevel == 0 {
		return dst[:0], nil
	}
	n := int(byteLength)
	if n > len(src) {
		return dst, fmt.Errorf("encoding: level run length %d exceeds available %d bytes: %w", n, len(src), io.ErrUnexpectedEOF)
	}
	bitWidth := bits.BitWidth(uint64(maxLevel))
	return decodeHybrid(dst[:0], src[:n], bitWidth)
}

// DecodeDictionaryIndices decodes the dictionary indices of a page encoded
// with PLAIN_DICTIONARY or RLE_DICTIONARY: a single byte holding the
// bit-width, followed by hybrid RLE/bit-packed data running to the end of
// the page payload.
func DecodeDictionaryIndices(dst []int32, src []byte) ([]int32, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}
	bitWidth := uint(src[0])
	return decodeHybrid(dst[:0], src[1:], bitWidth)
}

// decodeHybrid decodes a sequence of hybrid RLE/bit-packing runs, each
// prefixed by a uvarint header whose low bit distinguishes a run-length
// repeated value (0) from a bit-packed group of 8 values (1).
func decodeHybrid(dst []int32, src []byte, bitWidth uint) ([]int32, error) {
	if bitWidth > 32 {
		return dst, fmt.Errorf("encoding: invalid level/index bit-width %d", bitWidth)
	}
	if bitWidth == 0 {
		return dst, nil
	}

	bitMask := uint64(1)<<bitWidth - 1
	byteCount1 := bits.ByteCount(1 * bitWidth)
	byteCount8 := bits.ByteCount(8 * bitWidth)

	for i := 0; i < len(src); {
		u, n := binary.Uvarint(src[i:])
		if n <= 0 {
			return dst, fmt.Errorf("encoding: malformed hybrid run header: %w", io.ErrUnexpectedEOF)
		}
		i += n

		count, bitpack := uint(u>>1), (u&1) != 0
		if !bitpack {
			j := i + byteCount1
			if j > len(src) {
				return dst, fmt.Errorf("encoding: run-length block of %d values: %w", count, io.ErrUnexpectedEOF)
			}
			var b [4]byte
			copy(b[:], src[i:j])
			word := binary.LittleEndian.Uint32(b[:])
			i = j
			for ; count > 0; count-- {
				dst = append(dst, int32(word))
			}
			continue
		}

		for n := uint(0); n < count; n++ {
			j := i + byteCount8
			if j > len(src) {
				return dst, fmt.Errorf("encoding: bit-packed block of %d values: %w", 8*count, io.ErrUnexpectedEOF)
			}

			value := uint64(0)
			bitOffset := uint(0)
			for _, b := range src[i:j] {
				value |= uint64(b) << bitOffset
				for bitOffset += 8; bitOffset >= bitWidth; bitOffset -= bitWidth {
					dst = append(dst, int32(value&bitMask))
					value >>= bitWidth
				}
			}
			i = j
		}
	}

	return dst, nil
}
