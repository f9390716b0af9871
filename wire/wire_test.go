package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTagAndPrimitives(t *testing.T) {
	// field 1, varint 150; field 2, fixed32; field 3, fixed64.
	buf := []byte{0x08, 0x96, 0x01, 0x15, 0x01, 0x00, 0x00, 0x00, 0x19, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	r := NewReader(buf, 0)

	tag, err := r.ReadTag()
	require.NoError(t, err)
	number, wt := DecodeTag(tag)
	require.Equal(t, int32(1), number)
	require.Equal(t, int8(Varint), wt)
	v, err := r.ReadVarint64()
	require.NoError(t, err)
	require.Equal(t, uint64(150), v)

	tag, err = r.ReadTag()
	require.NoError(t, err)
	number, wt = DecodeTag(tag)
	require.Equal(t, int32(2), number)
	require.Equal(t, int8(Fixed32), wt)
	f32, err := r.ReadLE32()
	require.NoError(t, err)
	require.Equal(t, uint32(1), f32)

	tag, err = r.ReadTag()
	require.NoError(t, err)
	number, wt = DecodeTag(tag)
	require.Equal(t, int32(3), number)
	require.Equal(t, int8(Fixed64), wt)
	f64, err := r.ReadLE64()
	require.NoError(t, err)
	require.Equal(t, uint64(2), f64)

	tag, err = r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, uint32(0), tag)
}

func TestReadTagRejectsGroups(t *testing.T) {
	buf := []byte{0x0b} // field 1, wire type 3 (StartGroup)
	r := NewReader(buf, 0)
	_, err := r.ReadTag()
	require.Error(t, err)
}

func TestPushPopLimit(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(buf, 0)
	lim, err := r.PushLimit(2)
	require.NoError(t, err)
	require.Equal(t, 2, r.BytesUntilLimit())
	require.NoError(t, r.Skip(2))
	require.True(t, r.ConsumedEntireMessage())
	r.PopLimit(lim)
	require.Equal(t, 2, r.BytesUntilLimit())
}

func TestPushLimitExceedsEnclosing(t *testing.T) {
	r := NewReader([]byte{1, 2, 3}, 0)
	_, err := r.PushLimit(10)
	require.Error(t, err)
}

func TestRecursionDepthExceeded(t *testing.T) {
	r := NewReader([]byte{1, 2, 3}, 1)
	_, remaining := r.IncrementRecursionDepthAndPushLimit(1)
	require.Equal(t, 1, remaining)
	_, remaining = r.IncrementRecursionDepthAndPushLimit(1)
	require.Equal(t, -1, remaining)
}

func TestIncrementRecursionDepthBadLength(t *testing.T) {
	r := NewReader([]byte{1, 2, 3}, 10)
	_, remaining := r.IncrementRecursionDepthAndPushLimit(100)
	require.Equal(t, -2, remaining)
}

func TestZigZagRoundTrip(t *testing.T) {
	require.Equal(t, int32(-1), ZigZagDecode32(ZigZagEncode32(-1)))
	require.Equal(t, int32(5), ZigZagDecode32(ZigZagEncode32(5)))
	require.Equal(t, int64(-7), ZigZagDecode64(ZigZagEncode64(-7)))
}

func TestFieldInfoEqual(t *testing.T) {
	a := FieldInfo{WireType: Varint, Raw64: 5}
	b := FieldInfo{WireType: Varint, Raw64: 5}
	c := FieldInfo{WireType: Varint, Raw64: 6}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))

	bytesA := FieldInfo{WireType: Bytes, Length: 3}
	bytesB := FieldInfo{WireType: Bytes, Length: 3}
	require.True(t, bytesA.Equal(bytesB))
}
