package emit

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/floatfmt"
	"github.com/streamproto/pbq/perrors"
	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

// Primitive is the terminal visitor for scalar leaf fields.
type Primitive struct {
	visit.Base
	kind  protoreflect.Kind
	sink  *Sink
	trav  visit.Traverser
}

// NewPrimitive creates a Primitive emitter for a field declared as kind.
func NewPrimitive(kind protoreflect.Kind, sink *Sink) *Primitive {
	return &Primitive{kind: kind, sink: sink}
}

func (p *Primitive) Pushed(t visit.Traverser) { p.trav = t }

func (p *Primitive) emit(row string) {
	if err := p.sink.emit(row); err != nil {
		p.trav.Abort(err)
	}
}

func (p *Primitive) ReadPrimitive(f wire.FieldInfo) {
	row, err := decodePrimitive(p.kind, f)
	if err != nil {
		p.trav.Abort(err)
		return
	}
	p.emit(row)
}

func (p *Primitive) ReadLengthDelimitedField(wire.FieldInfo) (visit.Treatment, visit.Visitor) {
	return visit.CompositeTreatmentForKind(p.kind), nil
}

func (p *Primitive) ReadString(b []byte) {
	p.emit(string(b))
}

func (p *Primitive) ReadBytes(b []byte) {
	p.emit("\\x" + strings.ToUpper(hex.EncodeToString(b)))
}

func decodePrimitive(kind protoreflect.Kind, f wire.FieldInfo) (string, error) {
	switch kind {
	case protoreflect.DoubleKind:
		return floatfmt.Double(math.Float64frombits(f.Raw64)), nil
	case protoreflect.FloatKind:
		return floatfmt.Float(math.Float32frombits(f.Raw32)), nil
	case protoreflect.Int64Kind, protoreflect.Sfixed64Kind:
		return strconv.FormatInt(int64(f.Raw64), 10), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return strconv.FormatUint(f.Raw64, 10), nil
	case protoreflect.Int32Kind, protoreflect.Sfixed32Kind:
		if f.WireType == wire.Fixed32 {
			return strconv.FormatInt(int64(int32(f.Raw32)), 10), nil
		}
		return strconv.FormatInt(int64(int32(uint32(f.Raw64))), 10), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		if f.WireType == wire.Fixed32 {
			return strconv.FormatUint(uint64(f.Raw32), 10), nil
		}
		return strconv.FormatUint(uint64(uint32(f.Raw64)), 10), nil
	case protoreflect.BoolKind:
		if f.Raw64 != 0 {
			return "true", nil
		}
		return "false", nil
	case protoreflect.Sint32Kind:
		return strconv.FormatInt(int64(wire.ZigZagDecode32(f.Raw64)), 10), nil
	case protoreflect.Sint64Kind:
		return strconv.FormatInt(wire.ZigZagDecode64(f.Raw64), 10), nil
	}
	return "", perrors.E(perrors.BadProto, "field declared as %v cannot be read as a primitive", kind)
}
