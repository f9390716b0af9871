package emit

import (
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

// Enum is the terminal visitor for enum-typed leaf fields.
type Enum struct {
	visit.Base
	desc protoreflect.EnumDescriptor
	sink *Sink
	trav visit.Traverser
}

// NewEnum creates an Enum emitter resolving numeric values against desc.
func NewEnum(desc protoreflect.EnumDescriptor, sink *Sink) *Enum {
	return &Enum{desc: desc, sink: sink}
}

func (e *Enum) Pushed(t visit.Traverser) { e.trav = t }

func (e *Enum) ReadPrimitive(f wire.FieldInfo) {
	n := protoreflect.EnumNumber(int32(f.Raw64))
	row := strconv.FormatInt(int64(n), 10)
	if v := e.desc.Values().ByNumber(n); v != nil {
		row = string(v.Name())
	}
	if err := e.sink.emit(row); err != nil {
		e.trav.Abort(err)
	}
}
