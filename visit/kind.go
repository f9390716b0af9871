package visit

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/wire"
)

// WireTypeForKind returns the wire type a scalar of kind k is encoded
// with when not packed.
func WireTypeForKind(k protoreflect.Kind) int8 {
	switch k {
	case protoreflect.BoolKind, protoreflect.EnumKind,
		protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Uint32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Uint64Kind:
		return wire.Varint
	case protoreflect.Sfixed32Kind, protoreflect.Fixed32Kind, protoreflect.FloatKind:
		return wire.Fixed32
	case protoreflect.Sfixed64Kind, protoreflect.Fixed64Kind, protoreflect.DoubleKind:
		return wire.Fixed64
	case protoreflect.StringKind, protoreflect.BytesKind, protoreflect.MessageKind, protoreflect.GroupKind:
		return wire.Bytes
	}
	return wire.Varint
}

// PackedTreatmentForKind returns the Treatment used to read a packed
// run of primitives of kind k.
func PackedTreatmentForKind(k protoreflect.Kind) Treatment {
	switch WireTypeForKind(k) {
	case wire.Fixed32:
		return AsPacked32
	case wire.Fixed64:
		return AsPacked64
	default:
		return AsPackedVarint
	}
}

// CompositeTreatmentForKind returns the Treatment for an unpacked
// length-delimited field of kind k: string/bytes read their raw bytes,
// message recurses, anything else (including the unsupported Group) is
// skipped.
func CompositeTreatmentForKind(k protoreflect.Kind) Treatment {
	switch k {
	case protoreflect.StringKind:
		return AsString
	case protoreflect.BytesKind:
		return AsBytes
	case protoreflect.MessageKind:
		return AsSubmessage
	default:
		return Skip
	}
}
