package encoding

import (
	"encoding/binary"
	"fmt"
)

// cursor walks a byte slice left to right, used by the DELTA_* decoders to
// share position across the binary-packed, length, and byte-array stages of
// a single page payload.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) uvarint() (uint64, error) {
	u, n := binary.Uvarint(c.buf[c.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("encoding: malformed varint at offset %d", c.pos)
	}
	c.pos += n
	return u, nil
}

func (c *cursor) varint() (int64, error) {
	v, n := binary.Varint(c.buf[c.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("encoding: malformed varint at offset %d", c.pos)
	}
	c.pos += n
	return v, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, fmt.Errorf("encoding: need %d bytes at offset %d, only %d available", n, c.pos, len(c.buf)-c.pos)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// decodeDeltaBinaryPacked decodes the DELTA_BINARY_PACKED block format
// shared by DELTA_BINARY_PACKED pages and the length/prefix streams of
// DELTA_LENGTH_BYTE_ARRAY and DELTA_BYTE_ARRAY. It returns the decoded
// values and leaves c positioned just past the values it consumed.
func decodeDeltaBinaryPacked(c *cursor) ([]int64, error) {
	blockSize, err := c.uvarint()
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading block size: %w", err)
	}
	numMiniBlocks, err := c.uvarint()
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading mini block count: %w", err)
	}
	totalValues, err := c.uvarint()
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading value count: %w", err)
	}
	firstValue, err := c.varint()
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading first value: %w", err)
	}

	if numMiniBlocks == 0 || blockSize == 0 || blockSize%128 != 0 {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: invalid block size %d / mini block count %d", blockSize, numMiniBlocks)
	}
	miniBlockSize := int(blockSize) / int(numMiniBlocks)
	if miniBlockSize == 0 || miniBlockSize%32 != 0 {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: invalid mini block size %d", miniBlockSize)
	}

	values := make([]int64, 0, totalValues)
	if totalValues > 0 {
		values = append(values, firstValue)
	}
	last := firstValue

	for uint64(len(values)) < totalValues {
		minDelta, err := c.varint()
		if err != nil {
			return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading min delta: %w", err)
		}
		bitWidths, err := c.bytes(int(numMiniBlocks))
		if err != nil {
			return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading bit widths: %w", err)
		}

		remaining := int(totalValues) - len(values)
		block := make([]int64, 0, int(blockSize))

		for _, bw := range bitWidths {
			n := miniBlockSize
			if n > remaining {
				n = remaining
			}
			if n <= 0 {
				continue
			}
			if bw == 0 {
				for i := 0; i < n; i++ {
					block = append(block, 0)
				}
			} else {
				vals, err := decodeMiniBlock(c, uint(bw), n, miniBlockSize)
				if err != nil {
					return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading mini block: %w", err)
				}
				block = append(block, vals...)
			}
			remaining -= n
		}

		for i := range block {
			block[i] += minDelta
		}
		block[0] += last
		for i := 1; i < len(block); i++ {
			block[i] += block[i-1]
		}
		last = block[len(block)-1]
		values = append(values, block...)
	}

	return values, nil
}

// decodeMiniBlock reads n consecutive bitWidth-wide unsigned values packed
// LSB-first across whole miniBlockSize/8-aligned bytes, per the Parquet
// DELTA_BINARY_PACKED mini-block layout: a mini block always occupies
// miniBlockSize*bitWidth/8 bytes, even when it holds fewer than
// miniBlockSize values, so the padding after the last value is consumed too.
func decodeMiniBlock(c *cursor, bitWidth uint, n, miniBlockSize int) ([]int64, error) {
	nbytes := miniBlockSize * int(bitWidth) / 8
	buf, err := c.bytes(nbytes)
	if err != nil {
		return nil, err
	}

	values := make([]int64, n)
	bitMask := uint64(1)<<bitWidth - 1
	value := uint64(0)
	bitOffset := uint(0)
	bi := 0

	for vi := 0; vi < n; {
		for bitOffset < bitWidth && bi < len(buf) {
			value |= uint64(buf[bi]) << bitOffset
			bitOffset += 8
			bi++
		}
		values[vi] = int64(value & bitMask)
		value >>= bitWidth
		bitOffset -= bitWidth
		vi++
	}

	return values, nil
}

// DecodeInt32DeltaBinaryPacked decodes a DELTA_BINARY_PACKED page of INT32
// values.
func DecodeInt32DeltaBinaryPacked(src []byte) ([]int32, error) {
	c := &cursor{buf: src}
	values, err := decodeDeltaBinaryPacked(c)
	if err != nil {
		return nil, err
	}
	dst := make([]int32, len(values))
	for i, v := range values {
		dst[i] = int32(v)
	}
	return dst, nil
}

// DecodeInt64DeltaBinaryPacked decodes a DELTA_BINARY_PACKED page of INT64
// values.
func DecodeInt64DeltaBinaryPacked(src []byte) ([]int64, error) {
	c := &cursor{buf: src}
	return decodeDeltaBinaryPacked(c)
}

// DecodeByteArrayDeltaLength decodes a DELTA_LENGTH_BYTE_ARRAY page: a
// DELTA_BINARY_PACKED stream of lengths, followed immediately by the
// concatenated raw value bytes.
func DecodeByteArrayDeltaLength(src []byte) ([][]byte, error) {
	c := &cursor{buf: src}
	lengths, err := decodeDeltaBinaryPacked(c)
	if err != nil {
		return nil, fmt.Errorf("DELTA_LENGTH_BYTE_ARRAY: %w", err)
	}
	dst := make([][]byte, len(lengths))
	for i, n := range lengths {
		b, err := c.bytes(int(n))
		if err != nil {
			return nil, fmt.Errorf("DELTA_LENGTH_BYTE_ARRAY: value %d/%d: %w", i, len(lengths), err)
		}
		dst[i] = b
	}
	return dst, nil
}

// DecodeByteArrayDelta decodes a DELTA_BYTE_ARRAY page: a DELTA_BINARY_PACKED
// stream of shared-prefix lengths, a DELTA_BINARY_PACKED stream of suffix
// lengths, then the concatenated suffix bytes. Each value is reconstructed
// by combining the prefix carried over from the previous value with its own
// suffix.
func DecodeByteArrayDelta(src []byte) ([][]byte, error) {
	c := &cursor{buf: src}
	prefixes, err := decodeDeltaBinaryPacked(c)
	if err != nil {
		return nil, fmt.Errorf("DELTA_BYTE_ARRAY: reading prefix lengths: %w", err)
	}
	suffixes, err := decodeDeltaBinaryPacked(c)
	if err != nil {
		return nil, fmt.Errorf("DELTA_BYTE_ARRAY: reading suffix lengths: %w", err)
	}
	if len(prefixes) != len(suffixes) {
		return nil, fmt.Errorf("DELTA_BYTE_ARRAY: %d prefix lengths but %d suffix lengths", len(prefixes), len(suffixes))
	}

	dst := make([][]byte, len(suffixes))
	var previous []byte
	for i, suffixLen := range suffixes {
		prefixLen := int(prefixes[i])
		if prefixLen > len(previous) {
			return nil, fmt.Errorf("DELTA_BYTE_ARRAY: prefix length %d exceeds previous value length %d", prefixLen, len(previous))
		}
		suffix, err := c.bytes(int(suffixLen))
		if err != nil {
			return nil, fmt.Errorf("DELTA_BYTE_ARRAY: value %d/%d: %w", i, len(suffixes), err)
		}
		value := make([]byte, prefixLen+len(suffix))
		copy(value, previous[:prefixLen])
		copy(value[prefixLen:], suffix)
		dst[i] = value
		previous = value
	}
	return dst, nil
}
