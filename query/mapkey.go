package query

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/wire"
)

// parseMapKey renders a selector's raw text as the FieldInfo/bytes pair
// MapFilter compares against a buffered entry key, per the key field's
// declared type.
func parseMapKey(keyFD protoreflect.FieldDescriptor, raw string) (wire.FieldInfo, []byte, error) {
	switch keyFD.Kind() {
	case protoreflect.StringKind:
		return wire.FieldInfo{WireType: wire.Bytes, Length: len(raw)}, []byte(raw), nil
	case protoreflect.BoolKind:
		var v uint64
		switch raw {
		case "true":
			v = 1
		case "false":
			v = 0
		default:
			return wire.FieldInfo{}, nil, badQuery("boolean map key must be true or false, got %q", raw)
		}
		return wire.FieldInfo{WireType: wire.Varint, Raw64: v}, nil, nil
	case protoreflect.Int32Kind:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid int32 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Varint, Raw64: uint64(n)}, nil, nil
	case protoreflect.Int64Kind:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid int64 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Varint, Raw64: uint64(n)}, nil, nil
	case protoreflect.Uint32Kind:
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid uint32 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Varint, Raw64: n}, nil, nil
	case protoreflect.Uint64Kind:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid uint64 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Varint, Raw64: n}, nil, nil
	case protoreflect.Sint32Kind:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid sint32 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Varint, Raw64: wire.ZigZagEncode32(int32(n))}, nil, nil
	case protoreflect.Sint64Kind:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid sint64 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Varint, Raw64: wire.ZigZagEncode64(n)}, nil, nil
	case protoreflect.Fixed32Kind:
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid fixed32 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Fixed32, Raw32: uint32(n)}, nil, nil
	case protoreflect.Sfixed32Kind:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid sfixed32 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Fixed32, Raw32: uint32(int32(n))}, nil, nil
	case protoreflect.Fixed64Kind:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid fixed64 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Fixed64, Raw64: n}, nil, nil
	case protoreflect.Sfixed64Kind:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return wire.FieldInfo{}, nil, badQuery("invalid sfixed64 map key %q: %v", raw, err)
		}
		return wire.FieldInfo{WireType: wire.Fixed64, Raw64: uint64(n)}, nil, nil
	}
	return wire.FieldInfo{}, nil, badQuery("unsupported map key type %v", fmt.Sprint(keyFD.Kind()))
}
