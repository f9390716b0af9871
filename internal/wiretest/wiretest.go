// Package wiretest builds protobuf wire-format byte slices by hand, for
// tests that need exact control over tags and encodings without a
// protoc dependency.
package wiretest

import (
	"encoding/binary"
	"math"
)

// Builder accumulates encoded bytes.
type Builder struct {
	buf []byte
}

// New creates an empty Builder.
func New() *Builder { return &Builder{} }

// Build returns the accumulated wire bytes.
func (b *Builder) Build() []byte { return b.buf }

func (b *Builder) appendVarint(v uint64) *Builder {
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], v)
	b.buf = append(b.buf, tmp[:n]...)
	return b
}

// Tag appends a field tag (number<<3 | wireType).
func (b *Builder) Tag(number int32, wireType int8) *Builder {
	return b.appendVarint(uint64(number)<<3 | uint64(wireType))
}

// Varint appends a raw base-128 varint field: its tag (wire type 0) and
// value.
func (b *Builder) Varint(number int32, v uint64) *Builder {
	return b.Tag(number, 0).appendVarint(v)
}

// Int32 appends a varint-encoded signed int32 field (no zigzag).
func (b *Builder) Int32(number int32, v int32) *Builder {
	return b.Varint(number, uint64(uint32(v)))
}

// Int64 appends a varint-encoded signed int64 field (no zigzag).
func (b *Builder) Int64(number int32, v int64) *Builder {
	return b.Varint(number, uint64(v))
}

// Bool appends a boolean field.
func (b *Builder) Bool(number int32, v bool) *Builder {
	if v {
		return b.Varint(number, 1)
	}
	return b.Varint(number, 0)
}

// Sint32 appends a zigzag-encoded signed int32 field.
func (b *Builder) Sint32(number int32, v int32) *Builder {
	return b.Varint(number, zigzag32(v))
}

// Sint64 appends a zigzag-encoded signed int64 field.
func (b *Builder) Sint64(number int32, v int64) *Builder {
	return b.Varint(number, zigzag64(v))
}

func zigzag32(v int32) uint64 {
	return uint64(uint32((v << 1) ^ (v >> 31)))
}

func zigzag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// Fixed32 appends a little-endian 32-bit field.
func (b *Builder) Fixed32(number int32, v uint32) *Builder {
	b.Tag(number, 5)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// Fixed64 appends a little-endian 64-bit field.
func (b *Builder) Fixed64(number int32, v uint64) *Builder {
	b.Tag(number, 1)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// Float appends a float field.
func (b *Builder) Float(number int32, v float32) *Builder {
	return b.Fixed32(number, math.Float32bits(v))
}

// Double appends a double field.
func (b *Builder) Double(number int32, v float64) *Builder {
	return b.Fixed64(number, math.Float64bits(v))
}

// String appends a UTF-8 string field.
func (b *Builder) String(number int32, s string) *Builder {
	return b.Bytes(number, []byte(s))
}

// Bytes appends a length-delimited bytes field.
func (b *Builder) Bytes(number int32, v []byte) *Builder {
	b.Tag(number, 2)
	b.appendVarint(uint64(len(v)))
	b.buf = append(b.buf, v...)
	return b
}

// Message appends a length-delimited submessage field whose contents
// were built separately (typically via another Builder's Build()).
func (b *Builder) Message(number int32, contents []byte) *Builder {
	return b.Bytes(number, contents)
}

// PackedVarint appends a packed-repeated run of varints.
func (b *Builder) PackedVarint(number int32, vs ...uint64) *Builder {
	inner := New()
	for _, v := range vs {
		inner.appendVarint(v)
	}
	return b.Bytes(number, inner.Build())
}

// PackedFixed32 appends a packed-repeated run of fixed32 values.
func (b *Builder) PackedFixed32(number int32, vs ...uint32) *Builder {
	inner := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], v)
		inner = append(inner, tmp[:]...)
	}
	return b.Bytes(number, inner)
}

// MapEntry builds the bytes of one map<K,V> entry submessage by
// concatenating key and value as given: each must already be a complete
// encoded field including its own tag (field 1 for the key, field 2 for
// the value), e.g. the Build() of a Builder.
func MapEntry(key, value []byte) []byte {
	return append(append([]byte{}, key...), value...)
}
