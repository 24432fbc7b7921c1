// Package convert turns a leaf's decoded physical parquet.Value, together
// with its schema node's logical or converted type, into the Go value an
// application actually wants: a string for UTF8, a time.Time for
// DATE/TIMESTAMP, a time.Duration for TIME, a *big.Rat for DECIMAL, a
// uuid.UUID for UUID. It is
// the external collaborator the row-assembly pipeline hands physical values
// to rather than interpreting logical types itself (spec §6's "logical-type
// conversion" boundary).
package convert

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/arrowlake/parquet"
	"github.com/arrowlake/parquet/format"
	"github.com/arrowlake/parquet/schema"
)

// Converter maps a physical value decoded for a leaf node to its logical Go
// representation. Implementations must treat a null value (v.IsNull()) as
// (nil, nil): null-handling is a row-assembly concern the converter should
// never need to special-case for errors.
type Converter interface {
	Convert(v parquet.Value, node *schema.Node) (interface{}, error)
}

// Converted type codes this package recognizes when a leaf carries the
// deprecated ConvertedType field instead of (or alongside) LogicalType.
// Their numeric values are fixed by the parquet format and stable across
// versions.
const (
	ctUTF8            format.ConvertedType = 0
	ctDecimal         format.ConvertedType = 5
	ctDate            format.ConvertedType = 6
	ctTimeMillis      format.ConvertedType = 7
	ctTimeMicros      format.ConvertedType = 8
	ctTimestampMillis format.ConvertedType = 9
	ctTimestampMicros format.ConvertedType = 10
)

// DefaultConverter is the Converter used when a caller does not supply one
// of its own. It handles the logical types spec §17 calls for: UTF8 as
// string, DATE/TIMESTAMP as time.Time, TIME as a time.Duration since
// midnight, DECIMAL as *big.Rat, UUID as
// uuid.UUID. INT96 is left as the raw [12]byte the page decoder already
// produces, per the Open Question decision recorded for that type: this
// module declines to synthesize an INT96 timestamp (an explicit Non-goal),
// so DefaultConverter passes it through unconverted.
type DefaultConverter struct{}

func (DefaultConverter) Convert(v parquet.Value, node *schema.Node) (interface{}, error) {
	if v.IsNull() {
		return nil, nil
	}

	if lt := node.LogicalType; lt != nil {
		switch {
		case lt.UTF8 != nil:
			return convertUTF8(v, node)
		case lt.Date != nil:
			return convertDate(v, node)
		case lt.Time != nil:
			return convertTime(v, node, lt.Time.Unit)
		case lt.Timestamp != nil:
			return convertTimestamp(v, node, lt.Timestamp.Unit)
		case lt.Decimal != nil:
			return convertDecimal(v, node, lt.Decimal.Scale)
		case lt.UUID != nil:
			return convertUUID(v, node)
		}
	}

	if node.ConvertedType != nil {
		switch *node.ConvertedType {
		case ctUTF8:
			return convertUTF8(v, node)
		case ctDate:
			return convertDate(v, node)
		case ctTimeMillis:
			return convertTime(v, node, format.MillisUnit())
		case ctTimeMicros:
			return convertTime(v, node, format.MicrosUnit())
		case ctTimestampMillis:
			return convertTimestamp(v, node, format.MillisUnit())
		case ctTimestampMicros:
			return convertTimestamp(v, node, format.MicrosUnit())
		case ctDecimal:
			scale := int32(0)
			if node.Scale != nil {
				scale = *node.Scale
			}
			return convertDecimal(v, node, scale)
		}
	}

	return passthrough(v), nil
}

// passthrough returns the plain Go value of whatever physical type v holds,
// for leaves with no logical type annotation at all.
func passthrough(v parquet.Value) interface{} {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return v.Int32()
	case parquet.Int64:
		return v.Int64()
	case parquet.Int96:
		return v.Int96()
	case parquet.Float:
		return v.Float()
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return v.ByteArray()
	default:
		return nil
	}
}

func convertUTF8(v parquet.Value, node *schema.Node) (interface{}, error) {
	if v.Kind() != parquet.ByteArray && v.Kind() != parquet.FixedLenByteArray {
		return nil, fmt.Errorf("convert: %s: UTF8 logical type on non-byte-array physical type %s", node.Name, v.Kind())
	}
	return string(v.ByteArray()), nil
}

func convertDate(v parquet.Value, node *schema.Node) (interface{}, error) {
	if v.Kind() != parquet.Int32 {
		return nil, fmt.Errorf("convert: %s: DATE logical type on non-INT32 physical type %s", node.Name, v.Kind())
	}
	return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32())), nil
}

func convertTime(v parquet.Value, node *schema.Node, unit format.TimeUnit) (interface{}, error) {
	switch v.Kind() {
	case parquet.Int32:
		return time.Duration(v.Int32()) * time.Millisecond, nil
	case parquet.Int64:
		return durationFromUnit(v.Int64(), unit), nil
	default:
		return nil, fmt.Errorf("convert: %s: TIME logical type on unsupported physical type %s", node.Name, v.Kind())
	}
}

func convertTimestamp(v parquet.Value, node *schema.Node, unit format.TimeUnit) (interface{}, error) {
	if v.Kind() != parquet.Int64 {
		return nil, fmt.Errorf("convert: %s: TIMESTAMP logical type on non-INT64 physical type %s", node.Name, v.Kind())
	}
	d := durationFromUnit(v.Int64(), unit)
	return time.Unix(0, 0).UTC().Add(d), nil
}

func durationFromUnit(value int64, unit format.TimeUnit) time.Duration {
	switch {
	case unit.Millis != nil:
		return time.Duration(value) * time.Millisecond
	case unit.Micros != nil:
		return time.Duration(value) * time.Microsecond
	default: // Nanos, or an unset union read from a malformed file
		return time.Duration(value)
	}
}

func convertDecimal(v parquet.Value, node *schema.Node, scale int32) (interface{}, error) {
	var unscaled *big.Int
	switch v.Kind() {
	case parquet.Int32:
		unscaled = big.NewInt(int64(v.Int32()))
	case parquet.Int64:
		unscaled = big.NewInt(v.Int64())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		unscaled = bigIntFromTwosComplement(v.ByteArray())
	default:
		return nil, fmt.Errorf("convert: %s: DECIMAL logical type on unsupported physical type %s", node.Name, v.Kind())
	}

	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	return new(big.Rat).SetFrac(unscaled, denom), nil
}

// bigIntFromTwosComplement parses DECIMAL's BYTE_ARRAY/FIXED_LEN_BYTE_ARRAY
// encoding: a big-endian two's complement integer.
func bigIntFromTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	n := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		// Negative: subtract 2^(8*len(b)).
		full := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		n.Sub(n, full)
	}
	return n
}

func convertUUID(v parquet.Value, node *schema.Node) (interface{}, error) {
	if v.Kind() != parquet.FixedLenByteArray || len(v.ByteArray()) != 16 {
		return nil, fmt.Errorf("convert: %s: UUID logical type requires a 16-byte FIXED_LEN_BYTE_ARRAY", node.Name)
	}
	id, err := uuid.FromBytes(v.ByteArray())
	if err != nil {
		return nil, fmt.Errorf("convert: %s: %w", node.Name, err)
	}
	return id, nil
}
