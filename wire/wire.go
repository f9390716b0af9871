// Package wire implements the low-level tag/length/value reader for the
// protobuf wire format: varints, fixed-width scalars, length-delimited
// headers, and the recursion-depth/size-limit bookkeeping a streaming
// traverser needs to descend into submessages safely. It reads from an
// in-memory byte slice rather than an io.Reader, since a query payload is
// always a single fully-buffered message (see the engine façade).
//
// Primitive varint and fixed-width decoding is delegated to
// google.golang.org/protobuf/encoding/protowire; this package adds the
// stateful cursor, the nested-limit stack, and the recursion counter that
// protowire's stateless Consume* functions don't provide.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/streamproto/pbq/perrors"
)

// Wire types, per the protobuf encoding. 3 and 4 (group start/end) are
// recognized only so they can be rejected.
const (
	Varint        = 0
	Fixed64       = 1
	Bytes         = 2
	StartGroup    = 3
	EndGroup      = 4
	Fixed32       = 5
)

// DefaultMaxRecursionDepth bounds submessage nesting when a caller does
// not supply their own limit.
const DefaultMaxRecursionDepth = 100

func badProto(format string, args ...interface{}) error {
	return perrors.E(perrors.BadProto, fmt.Sprintf(format, args...))
}

// Reader is a single-pass cursor over a payload's bytes.
type Reader struct {
	buf      []byte
	pos      int
	limit    int // exclusive end of the current length-delimited scope
	depth    int
	maxDepth int
}

// NewReader wraps buf for reading, with the whole slice as the initial
// limit. maxDepth<=0 selects DefaultMaxRecursionDepth.
func NewReader(buf []byte, maxDepth int) *Reader {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRecursionDepth
	}
	return &Reader{buf: buf, limit: len(buf), maxDepth: maxDepth}
}

// DecodeTag splits a tag into its field number and wire type.
func DecodeTag(tag uint32) (number int32, wireType int8) {
	return int32(tag >> 3), int8(tag & 7)
}

// ReadTag reads the next field tag, or returns 0 with no error exactly
// when the current limit has been cleanly exhausted.
func (r *Reader) ReadTag() (uint32, error) {
	if r.pos == r.limit {
		return 0, nil
	}
	if r.pos > r.limit {
		return 0, badProto("reader cursor ran past its limit")
	}
	v, n := protowire.ConsumeVarint(r.buf[r.pos:r.limit])
	if n < 0 {
		return 0, badProto("truncated field tag")
	}
	if v == 0 {
		return 0, badProto("zero field tag before the end of the message")
	}
	if v > 0xffffffff {
		return 0, badProto("field tag overflows 32 bits")
	}
	r.pos += n
	if _, wt := DecodeTag(uint32(v)); wt == StartGroup || wt == EndGroup {
		return 0, badProto("group wire types are not supported")
	}
	return uint32(v), nil
}

// ReadVarint64 reads a raw base-128 varint.
func (r *Reader) ReadVarint64() (uint64, error) {
	v, n := protowire.ConsumeVarint(r.buf[r.pos:r.limit])
	if n < 0 {
		return 0, badProto("truncated varint")
	}
	r.pos += n
	return v, nil
}

// ReadVarintSize reads a varint and returns it as a non-negative length.
func (r *Reader) ReadVarintSize() (int, error) {
	v, err := r.ReadVarint64()
	if err != nil {
		return 0, err
	}
	if v > uint64(^uint(0)>>1) {
		return 0, badProto("declared length too large")
	}
	return int(v), nil
}

// ReadLE32 reads a little-endian fixed32.
func (r *Reader) ReadLE32() (uint32, error) {
	v, n := protowire.ConsumeFixed32(r.buf[r.pos:r.limit])
	if n < 0 {
		return 0, badProto("truncated fixed32")
	}
	r.pos += n
	return v, nil
}

// ReadLE64 reads a little-endian fixed64.
func (r *Reader) ReadLE64() (uint64, error) {
	v, n := protowire.ConsumeFixed64(r.buf[r.pos:r.limit])
	if n < 0 {
		return 0, badProto("truncated fixed64")
	}
	r.pos += n
	return v, nil
}

// ReadExact reads exactly n bytes, bounded by the current limit.
func (r *Reader) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, badProto("negative read length")
	}
	if r.pos+n > r.limit {
		return nil, badProto("truncated length-delimited field")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (r *Reader) Skip(n int) error {
	_, err := r.ReadExact(n)
	return err
}

// Limit is an opaque token returned by PushLimit that restores the prior
// scope when handed to PopLimit.
type Limit struct {
	prev int
}

// PushLimit narrows the reader's scope to the next n bytes, which must
// fit within the currently active limit.
func (r *Reader) PushLimit(n int) (Limit, error) {
	if n < 0 {
		return Limit{}, badProto("negative length-delimited length")
	}
	newLimit := r.pos + n
	if newLimit > r.limit {
		return Limit{}, badProto("length-delimited field exceeds enclosing message")
	}
	old := r.limit
	r.limit = newLimit
	return Limit{prev: old}, nil
}

// PopLimit restores the scope saved by a matching PushLimit.
func (r *Reader) PopLimit(l Limit) {
	r.limit = l.prev
}

// BytesUntilLimit reports how many bytes remain before the current limit.
func (r *Reader) BytesUntilLimit() int {
	return r.limit - r.pos
}

// ConsumedEntireMessage reports whether the cursor sits exactly at the
// current limit.
func (r *Reader) ConsumedEntireMessage() bool {
	return r.pos == r.limit
}

// RecursionToken is returned by IncrementRecursionDepthAndPushLimit and
// must be handed back to DecrementRecursionDepthAndPopLimit to unwind.
type RecursionToken struct {
	limit Limit
}

// IncrementRecursionDepthAndPushLimit bumps the recursion counter and
// narrows the reader's scope to a submessage of length n in one step.
// It returns remaining=-1 if doing so would exceed the configured
// recursion depth, and remaining=-2 if n itself is not a valid length
// within the enclosing scope (a BadProto condition distinct from
// recursion exhaustion, reported by the caller accordingly).
func (r *Reader) IncrementRecursionDepthAndPushLimit(n int) (RecursionToken, int) {
	if r.depth+1 > r.maxDepth {
		return RecursionToken{}, -1
	}
	lim, err := r.PushLimit(n)
	if err != nil {
		return RecursionToken{}, -2
	}
	r.depth++
	return RecursionToken{limit: lim}, n
}

// DecrementRecursionDepthAndPopLimit undoes a prior successful
// IncrementRecursionDepthAndPushLimit.
func (r *Reader) DecrementRecursionDepthAndPopLimit(t RecursionToken) {
	r.depth--
	r.PopLimit(t.limit)
}

// ZigZagDecode32/64 and ZigZagEncode32/64 round out the varint helpers
// the emitters and the map-key parser need; they delegate directly to
// protowire since the encoding is identical.
func ZigZagDecode32(v uint64) int32 { return int32(protowire.DecodeZigZag(v)) }
func ZigZagDecode64(v uint64) int64 { return protowire.DecodeZigZag(v) }
func ZigZagEncode32(v int32) uint64 { return protowire.EncodeZigZag(int64(v)) }
func ZigZagEncode64(v int64) uint64 { return protowire.EncodeZigZag(v) }
