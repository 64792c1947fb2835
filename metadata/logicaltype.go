package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/colexch/ipc/errs"
)

// TypeID tags the logical-type union carried by a Field. It is a closed set
// on the wire today, but new tags can be added in future versions of this
// package without breaking readers of old data: an old reader simply fails
// a decode containing a tag it does not recognize with
// errs.ErrUnsupportedType instead of silently misinterpreting the bytes.
type TypeID byte

const (
	NullTypeID TypeID = iota + 1
	IntTypeID
	FloatingPointTypeID
	BinaryTypeID
	Utf8TypeID
	BoolTypeID
	DecimalTypeID
	DateTypeID
	TimeTypeID
	TimestampTypeID
	IntervalTypeID
	ListTypeID
	StructTypeID
	UnionTypeID
	FixedSizeBinaryTypeID
	FixedSizeListTypeID
	MapTypeID
)

// LogicalType is the tagged-union interface every concrete type (Null, Int,
// FloatingPoint, ...) implements. Field.Type holds one of these.
type LogicalType interface {
	// TypeID returns the wire tag identifying this variant.
	TypeID() TypeID
}

// Null is the logical type of a column with no physical storage.
type Null struct{}

func (Null) TypeID() TypeID { return NullTypeID }

// Int is a fixed-width integer type.
type Int struct {
	BitWidth int32 // one of 8, 16, 32, 64
	Signed   bool
}

func (Int) TypeID() TypeID { return IntTypeID }

// FloatPrecision distinguishes the IEEE 754 width of a FloatingPoint column.
type FloatPrecision int16

const (
	PrecisionHalf FloatPrecision = iota
	PrecisionSingle
	PrecisionDouble
)

// FloatingPoint is an IEEE 754 floating point type.
type FloatingPoint struct {
	Precision FloatPrecision
}

func (FloatingPoint) TypeID() TypeID { return FloatingPointTypeID }

// Binary is a variable-length byte-string type.
type Binary struct{}

func (Binary) TypeID() TypeID { return BinaryTypeID }

// Utf8 is a variable-length UTF-8 string type.
type Utf8 struct{}

func (Utf8) TypeID() TypeID { return Utf8TypeID }

// Bool is a single-bit boolean type, packed 8 per byte in its values buffer.
type Bool struct{}

func (Bool) TypeID() TypeID { return BoolTypeID }

// Decimal is a fixed-precision, fixed-scale decimal type.
type Decimal struct {
	Precision int32
	Scale     int32
}

func (Decimal) TypeID() TypeID { return DecimalTypeID }

// DateUnit distinguishes day-resolution from millisecond-resolution dates.
type DateUnit int16

const (
	DateDay DateUnit = iota
	DateMillisecond
)

// Date is a calendar date type.
type Date struct {
	Unit DateUnit
}

func (Date) TypeID() TypeID { return DateTypeID }

// TimeUnit is the resolution shared by Time, Timestamp, and duration-like types.
type TimeUnit int16

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

// Time is a time-of-day type with no date component.
type Time struct {
	Unit     TimeUnit
	BitWidth int32 // 32 for SECOND/MILLISECOND, 64 for MICROSECOND/NANOSECOND
}

func (Time) TypeID() TypeID { return TimeTypeID }

// Timestamp is a calendar timestamp, optionally attributed to a timezone.
type Timestamp struct {
	Unit TimeUnit
	// Timezone is the IANA zone name, or "" if the timestamp is zone-naive.
	Timezone string
}

func (Timestamp) TypeID() TypeID { return TimestampTypeID }

// IntervalUnit distinguishes calendar (year/month) from absolute (day/time) intervals.
type IntervalUnit int16

const (
	YearMonth IntervalUnit = iota
	DayTime
)

// Interval is a calendar interval type.
type Interval struct {
	Unit IntervalUnit
}

func (Interval) TypeID() TypeID { return IntervalTypeID }

// List is a variable-length list type; its single element type is carried
// by the owning Field's one child, per spec.
type List struct{}

func (List) TypeID() TypeID { return ListTypeID }

// Struct is a nested record type; its member fields are the owning Field's children.
type Struct struct{}

func (Struct) TypeID() TypeID { return StructTypeID }

// UnionMode distinguishes sparse (one buffer per child, same length) from
// dense (children compacted, with an offsets buffer) union layout.
type UnionMode int16

const (
	Sparse UnionMode = iota
	Dense
)

// Union is a tagged union over its owning Field's children.
type Union struct {
	Mode UnionMode
	// TypeIDs optionally remaps child index to a stable on-wire type id. A
	// nil slice means child index IS the type id (the common case).
	TypeIDs []int32
}

func (Union) TypeID() TypeID { return UnionTypeID }

// FixedSizeBinary is a fixed-width byte-string type.
type FixedSizeBinary struct {
	ByteWidth int32
}

func (FixedSizeBinary) TypeID() TypeID { return FixedSizeBinaryTypeID }

// FixedSizeList is a list type whose every element has the same fixed length.
type FixedSizeList struct {
	ListSize int32
}

func (FixedSizeList) TypeID() TypeID { return FixedSizeListTypeID }

// Map is a key-value association type. Per spec, its layout must be
// indistinguishable from List: the owning Field has exactly one Struct
// child with two non-nullable children (key, value).
type Map struct {
	KeysSorted bool
}

func (Map) TypeID() TypeID { return MapTypeID }

// --- encode ---

// buildLogicalType writes t's variant-specific table (if any) and returns
// its offset (0 for variants with no payload fields) alongside its TypeID tag.
func buildLogicalType(b *flatbuffers.Builder, t LogicalType) (flatbuffers.UOffsetT, TypeID, error) {
	switch v := t.(type) {
	case Null:
		return buildEmptyTable(b), NullTypeID, nil
	case Int:
		b.StartObject(2)
		b.PrependInt32Slot(0, v.BitWidth, 0)
		b.PrependBoolSlot(1, v.Signed, false)

		return b.EndObject(), IntTypeID, nil
	case FloatingPoint:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(v.Precision), 0)

		return b.EndObject(), FloatingPointTypeID, nil
	case Binary:
		return buildEmptyTable(b), BinaryTypeID, nil
	case Utf8:
		return buildEmptyTable(b), Utf8TypeID, nil
	case Bool:
		return buildEmptyTable(b), BoolTypeID, nil
	case Decimal:
		b.StartObject(2)
		b.PrependInt32Slot(0, v.Precision, 0)
		b.PrependInt32Slot(1, v.Scale, 0)

		return b.EndObject(), DecimalTypeID, nil
	case Date:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(v.Unit), 0)

		return b.EndObject(), DateTypeID, nil
	case Time:
		b.StartObject(2)
		b.PrependInt16Slot(0, int16(v.Unit), 0)
		b.PrependInt32Slot(1, v.BitWidth, 0)

		return b.EndObject(), TimeTypeID, nil
	case Timestamp:
		var tzOff flatbuffers.UOffsetT
		if v.Timezone != "" {
			tzOff = b.CreateString(v.Timezone)
		}
		b.StartObject(2)
		b.PrependInt16Slot(0, int16(v.Unit), 0)
		if tzOff != 0 {
			b.PrependUOffsetTSlot(1, tzOff, 0)
		}

		return b.EndObject(), TimestampTypeID, nil
	case Interval:
		b.StartObject(1)
		b.PrependInt16Slot(0, int16(v.Unit), 0)

		return b.EndObject(), IntervalTypeID, nil
	case List:
		return buildEmptyTable(b), ListTypeID, nil
	case Struct:
		return buildEmptyTable(b), StructTypeID, nil
	case Union:
		var idsOff flatbuffers.UOffsetT
		if len(v.TypeIDs) > 0 {
			b.StartVector(4, len(v.TypeIDs), 4)
			for i := len(v.TypeIDs) - 1; i >= 0; i-- {
				b.PrependInt32(v.TypeIDs[i])
			}
			idsOff = b.EndVector(len(v.TypeIDs))
		}
		b.StartObject(2)
		b.PrependInt16Slot(0, int16(v.Mode), 0)
		if idsOff != 0 {
			b.PrependUOffsetTSlot(1, idsOff, 0)
		}

		return b.EndObject(), UnionTypeID, nil
	case FixedSizeBinary:
		b.StartObject(1)
		b.PrependInt32Slot(0, v.ByteWidth, 0)

		return b.EndObject(), FixedSizeBinaryTypeID, nil
	case FixedSizeList:
		b.StartObject(1)
		b.PrependInt32Slot(0, v.ListSize, 0)

		return b.EndObject(), FixedSizeListTypeID, nil
	case Map:
		b.StartObject(1)
		b.PrependBoolSlot(0, v.KeysSorted, false)

		return b.EndObject(), MapTypeID, nil
	default:
		return 0, 0, errs.ErrUnsupportedType
	}
}

func buildEmptyTable(b *flatbuffers.Builder) flatbuffers.UOffsetT {
	b.StartObject(0)

	return b.EndObject()
}

// --- decode ---

// decodeLogicalType reads the variant table at pos (an absolute position
// within buf) for the given tag.
func decodeLogicalType(buf []byte, pos flatbuffers.UOffsetT, tag TypeID) (LogicalType, error) {
	var tbl flatbuffers.Table
	tbl.Bytes = buf
	tbl.Pos = pos

	switch tag {
	case NullTypeID:
		return Null{}, nil
	case IntTypeID:
		return Int{
			BitWidth: getInt32(&tbl, 4, 0),
			Signed:   getBool(&tbl, 6, false),
		}, nil
	case FloatingPointTypeID:
		return FloatingPoint{Precision: FloatPrecision(getInt16(&tbl, 4, 0))}, nil
	case BinaryTypeID:
		return Binary{}, nil
	case Utf8TypeID:
		return Utf8{}, nil
	case BoolTypeID:
		return Bool{}, nil
	case DecimalTypeID:
		return Decimal{
			Precision: getInt32(&tbl, 4, 0),
			Scale:     getInt32(&tbl, 6, 0),
		}, nil
	case DateTypeID:
		return Date{Unit: DateUnit(getInt16(&tbl, 4, 0))}, nil
	case TimeTypeID:
		return Time{
			Unit:     TimeUnit(getInt16(&tbl, 4, 0)),
			BitWidth: getInt32(&tbl, 6, 0),
		}, nil
	case TimestampTypeID:
		tz := getString(&tbl, 6)

		return Timestamp{
			Unit:     TimeUnit(getInt16(&tbl, 4, 0)),
			Timezone: tz,
		}, nil
	case IntervalTypeID:
		return Interval{Unit: IntervalUnit(getInt16(&tbl, 4, 0))}, nil
	case ListTypeID:
		return List{}, nil
	case StructTypeID:
		return Struct{}, nil
	case UnionTypeID:
		ids := getInt32Vector(&tbl, 6)

		return Union{
			Mode:    UnionMode(getInt16(&tbl, 4, 0)),
			TypeIDs: ids,
		}, nil
	case FixedSizeBinaryTypeID:
		return FixedSizeBinary{ByteWidth: getInt32(&tbl, 4, 0)}, nil
	case FixedSizeListTypeID:
		return FixedSizeList{ListSize: getInt32(&tbl, 4, 0)}, nil
	case MapTypeID:
		return Map{KeysSorted: getBool(&tbl, 4, false)}, nil
	default:
		return nil, errs.ErrUnsupportedType
	}
}
