package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/colexch/ipc/errs"
)

// KeyValue is one entry of a custom-metadata list. Order is preserved on
// the wire and duplicate keys are permitted — this codec does not
// deduplicate or index them.
type KeyValue struct {
	Key   string
	Value string
}

// DictionaryEncoding marks a Field as dictionary-encoded: its column is
// stored as indices of IndexType, with the dictionary values delivered
// out-of-band in a DictionaryBatch keyed by ID.
type DictionaryEncoding struct {
	ID        int64
	IndexType Int
	IsOrdered bool
}

// DefaultDictionaryIndexType is the IndexType a decoded DictionaryEncoding
// gets when its indexType table is absent on the wire: signed 32-bit
// indices. The encoder always writes IndexType as given, so a zero-value
// IndexType round-trips as Int{BitWidth: 0}, not as this default.
var DefaultDictionaryIndexType = Int{BitWidth: 32, Signed: true}

// Field describes one column: its name, nullability, logical type, optional
// dictionary encoding, and (for nested types) child fields.
//
// Invariants (enforced by Validate):
//   - Primitive types carry no children.
//   - A Map field has exactly one Struct child with exactly two non-nullable
//     children (key, value); its on-wire buffer layout is otherwise
//     identical to List so an unaware reader can consume it as one.
type Field struct {
	Name           string
	Nullable       bool
	Type           LogicalType
	Dictionary     *DictionaryEncoding
	Children       []Field
	CustomMetadata []KeyValue
}

// Validate checks the structural invariants spec.md §3 places on Field.
func (f Field) Validate() error {
	switch f.Type.(type) {
	case Map:
		if len(f.Children) != 1 {
			return errs.ErrInvalidFieldLayout
		}

		child := f.Children[0]
		if _, ok := child.Type.(Struct); !ok {
			return errs.ErrInvalidFieldLayout
		}

		if len(child.Children) != 2 {
			return errs.ErrInvalidFieldLayout
		}

		if child.Children[0].Nullable || child.Children[1].Nullable {
			return errs.ErrInvalidFieldLayout
		}
	case Null, Binary, Utf8, Bool, Int, FloatingPoint, Decimal, Date, Time,
		Timestamp, Interval, FixedSizeBinary:
		if len(f.Children) != 0 {
			return errs.ErrInvalidFieldLayout
		}
	}

	for _, c := range f.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// --- encode ---

func buildKeyValue(b *flatbuffers.Builder, kv KeyValue) flatbuffers.UOffsetT {
	keyOff := b.CreateString(kv.Key)
	valOff := b.CreateString(kv.Value)

	b.StartObject(2)
	b.PrependUOffsetTSlot(0, keyOff, 0)
	b.PrependUOffsetTSlot(1, valOff, 0)

	return b.EndObject()
}

func buildKeyValueVector(b *flatbuffers.Builder, kvs []KeyValue) flatbuffers.UOffsetT {
	if len(kvs) == 0 {
		return 0
	}

	offs := make([]flatbuffers.UOffsetT, len(kvs))
	for i, kv := range kvs {
		offs[i] = buildKeyValue(b, kv)
	}

	return buildOffsetVector(b, offs)
}

// buildOffsetVector writes a vector of table/string offsets already built
// (offs must already be fully constructed in the builder).
func buildOffsetVector(b *flatbuffers.Builder, offs []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b.StartVector(4, len(offs), 4)
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}

	return b.EndVector(len(offs))
}

func buildDictionaryEncoding(b *flatbuffers.Builder, d DictionaryEncoding) flatbuffers.UOffsetT {
	indexOff, _, _ := buildLogicalType(b, d.IndexType)

	b.StartObject(3)
	b.PrependInt64Slot(0, d.ID, 0)
	b.PrependUOffsetTSlot(1, indexOff, 0)
	b.PrependBoolSlot(2, d.IsOrdered, false)

	return b.EndObject()
}

// buildField writes f (and recursively, its children) bottom-up and returns
// the resulting Field table's offset.
func buildField(b *flatbuffers.Builder, f Field) (flatbuffers.UOffsetT, error) {
	childOffs := make([]flatbuffers.UOffsetT, len(f.Children))
	for i, c := range f.Children {
		off, err := buildField(b, c)
		if err != nil {
			return 0, err
		}

		childOffs[i] = off
	}

	var nameOff flatbuffers.UOffsetT
	if f.Name != "" {
		nameOff = b.CreateString(f.Name)
	}

	var dictOff flatbuffers.UOffsetT
	if f.Dictionary != nil {
		dictOff = buildDictionaryEncoding(b, *f.Dictionary)
	}

	metaOff := buildKeyValueVector(b, f.CustomMetadata)

	var childrenOff flatbuffers.UOffsetT
	if len(childOffs) > 0 {
		childrenOff = buildOffsetVector(b, childOffs)
	}

	typeOff, typeTag, err := buildLogicalType(b, f.Type)
	if err != nil {
		return 0, err
	}

	b.StartObject(7)
	if nameOff != 0 {
		b.PrependUOffsetTSlot(0, nameOff, 0)
	}
	b.PrependBoolSlot(1, f.Nullable, false)
	b.PrependByteSlot(2, byte(typeTag), 0)
	if typeOff != 0 {
		b.PrependUOffsetTSlot(3, typeOff, 0)
	}
	if dictOff != 0 {
		b.PrependUOffsetTSlot(4, dictOff, 0)
	}
	if childrenOff != 0 {
		b.PrependUOffsetTSlot(5, childrenOff, 0)
	}
	if metaOff != 0 {
		b.PrependUOffsetTSlot(6, metaOff, 0)
	}

	return b.EndObject(), nil
}

// --- decode ---

func decodeKeyValue(buf []byte, pos flatbuffers.UOffsetT) KeyValue {
	var t flatbuffers.Table
	t.Bytes = buf
	t.Pos = pos

	return KeyValue{
		Key:   getString(&t, 4),
		Value: getString(&t, 6),
	}
}

func decodeKeyValueVector(t *flatbuffers.Table, slot flatbuffers.VOffsetT) ([]KeyValue, error) {
	start, n, ok := vectorInfo(t, slot)
	if !ok || n == 0 {
		return nil, nil
	}

	out := make([]KeyValue, n)
	for i := range n {
		out[i] = decodeKeyValue(t.Bytes, tableVectorElemPos(t, start, i))
	}

	return out, nil
}

func decodeDictionaryEncoding(buf []byte, pos flatbuffers.UOffsetT) (DictionaryEncoding, error) {
	var t flatbuffers.Table
	t.Bytes = buf
	t.Pos = pos

	idxType := DefaultDictionaryIndexType
	if idxPos, ok := getTablePos(&t, 6); ok {
		lt, err := decodeLogicalType(buf, idxPos, IntTypeID)
		if err != nil {
			return DictionaryEncoding{}, err
		}

		idxType = lt.(Int)
	}

	return DictionaryEncoding{
		ID:        getInt64(&t, 4, 0),
		IndexType: idxType,
		IsOrdered: getBool(&t, 8, false),
	}, nil
}

// decodeField reads the Field table at pos, recursing into children.
func decodeField(buf []byte, pos flatbuffers.UOffsetT) (Field, error) {
	var t flatbuffers.Table
	t.Bytes = buf
	t.Pos = pos

	f := Field{
		Name:     getString(&t, 4),
		Nullable: getBool(&t, 6, false),
	}

	typeTag := TypeID(getInt8(&t, 8, 0))

	typePos, hasType := getTablePos(&t, 10)
	if !hasType {
		return Field{}, errs.ErrUnsupportedType
	}

	lt, err := decodeLogicalType(buf, typePos, typeTag)
	if err != nil {
		return Field{}, err
	}

	f.Type = lt

	if dictPos, ok := getTablePos(&t, 12); ok {
		dict, err := decodeDictionaryEncoding(buf, dictPos)
		if err != nil {
			return Field{}, err
		}

		f.Dictionary = &dict
	}

	if start, n, ok := vectorInfo(&t, 14); ok && n > 0 {
		children := make([]Field, n)
		for i := range n {
			childPos := tableVectorElemPos(&t, start, i)

			child, err := decodeField(buf, childPos)
			if err != nil {
				return Field{}, err
			}

			children[i] = child
		}

		f.Children = children
	}

	meta, err := decodeKeyValueVector(&t, 16)
	if err != nil {
		return Field{}, err
	}

	f.CustomMetadata = meta

	return f, nil
}
