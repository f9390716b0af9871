package emit

import (
	"github.com/streamproto/pbq/perrors"
	"github.com/streamproto/pbq/schema"
	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

// Message is the terminal visitor for submessage-typed leaf fields: it
// buffers the whole submessage and renders it as JSON rather than
// descending into its fields.
type Message struct {
	visit.Base
	resolver schema.JSONTypeResolver
	typeURL  string
	sink     *Sink
	trav     visit.Traverser
}

// NewMessage creates a Message emitter rendering bytes at typeURL via
// resolver.
func NewMessage(resolver schema.JSONTypeResolver, typeURL string, sink *Sink) *Message {
	return &Message{resolver: resolver, typeURL: typeURL, sink: sink}
}

func (m *Message) Pushed(t visit.Traverser) { m.trav = t }

func (m *Message) ReadLengthDelimitedField(wire.FieldInfo) (visit.Treatment, visit.Visitor) {
	return visit.Buffer, nil
}

func (m *Message) BufferedValue(b []byte) {
	row, err := m.resolver.BinaryToJSON(m.typeURL, b)
	if err != nil {
		m.trav.Abort(perrors.E(perrors.BadProto, err))
		return
	}
	if err := m.sink.emit(row); err != nil {
		m.trav.Abort(err)
	}
}
