package emit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/wire"
)

func TestDecodePrimitiveVarintKinds(t *testing.T) {
	row, err := decodePrimitive(protoreflect.Int64Kind, wire.FieldInfo{WireType: wire.Varint, Raw64: 42})
	require.NoError(t, err)
	require.Equal(t, "42", row)

	row, err = decodePrimitive(protoreflect.BoolKind, wire.FieldInfo{WireType: wire.Varint, Raw64: 1})
	require.NoError(t, err)
	require.Equal(t, "true", row)

	row, err = decodePrimitive(protoreflect.BoolKind, wire.FieldInfo{WireType: wire.Varint, Raw64: 0})
	require.NoError(t, err)
	require.Equal(t, "false", row)

	row, err = decodePrimitive(protoreflect.Sint32Kind, wire.FieldInfo{WireType: wire.Varint, Raw64: wire.ZigZagEncode32(-5)})
	require.NoError(t, err)
	require.Equal(t, "-5", row)
}

func TestDecodePrimitiveFixed32SignedDistinguishesWireType(t *testing.T) {
	// Sfixed32 must read Raw32 when the wire type is Fixed32, not Raw64.
	var negOne int32 = -1
	row, err := decodePrimitive(protoreflect.Sfixed32Kind, wire.FieldInfo{WireType: wire.Fixed32, Raw32: uint32(negOne)})
	require.NoError(t, err)
	require.Equal(t, "-1", row)
}

func TestDecodePrimitiveFloatAndDouble(t *testing.T) {
	row, err := decodePrimitive(protoreflect.FloatKind, wire.FieldInfo{WireType: wire.Fixed32, Raw32: math.Float32bits(1.5)})
	require.NoError(t, err)
	require.Equal(t, "1.5", row)

	row, err = decodePrimitive(protoreflect.DoubleKind, wire.FieldInfo{WireType: wire.Fixed64, Raw64: math.Float64bits(2.5)})
	require.NoError(t, err)
	require.Equal(t, "2.5", row)
}

func TestDecodePrimitiveRejectsMessageKind(t *testing.T) {
	_, err := decodePrimitive(protoreflect.MessageKind, wire.FieldInfo{})
	require.Error(t, err)
}

func TestSinkLimit(t *testing.T) {
	s := NewSink(2)
	require.NoError(t, s.emit("a"))
	err := s.emit("b")
	require.Error(t, err)
	require.Equal(t, []string{"a", "b"}, s.Take())
	require.Nil(t, s.Take())
}

func TestSinkUnlimited(t *testing.T) {
	s := NewSink(-1)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.emit("x"))
	}
	require.Len(t, s.Take(), 5)
}
