// Package visit defines the capability set every pipeline stage
// implements (the spec's "visitor"), plus the Treatment a visitor
// chooses for a length-delimited field.
//
// Every event defaults to "stay on the current visitor, do nothing
// else." Rather than require each concrete visitor to return itself
// (which Go's embedding can't do without a self-reference), a nil
// Visitor return from BeginField/BeginMessage/ReadLengthDelimitedField
// means exactly that: no push, stay put. A non-nil return is always a
// real, different visitor to push — typically the stage's own `next`,
// handing control to the downstream stage.
package visit

import "github.com/streamproto/pbq/wire"

// Treatment says how the traverser should handle a length-delimited
// field's bytes.
type Treatment int

const (
	Skip Treatment = iota
	Buffer
	AsString
	AsBytes
	AsSubmessage
	AsPackedVarint
	AsPacked32
	AsPacked64
)

// Traverser is the minimal surface a visitor may query about the active
// traversal. It exists so Pushed can observe traversal state without
// this package importing the traverse package (which imports this one).
// Abort lets a visitor signal an early, sentinel-driven exit (the row
// limit, typically) without every event method needing an error return.
type Traverser interface {
	Depth() int
	Abort(err error)
}

// Visitor is the capability set a pipeline stage implements. Concrete
// stages embed Base and override only the events they care about.
type Visitor interface {
	Pushed(t Traverser)
	BeginField(number int32, wireType int8) Visitor
	ReadPrimitive(f wire.FieldInfo)
	ReadLengthDelimitedField(f wire.FieldInfo) (Treatment, Visitor)
	ReadString(b []byte)
	ReadBytes(b []byte)
	BufferedValue(b []byte)
	BeginMessage() Visitor
	EndField()
	Popped()

	// Next/SetNext manage the pointer the compiler links between
	// adjacent stages in the chain.
	Next() Visitor
	SetNext(v Visitor)
}

// Base supplies the identity behavior for every event; embed it in a
// concrete stage and override only what differs.
type Base struct {
	next Visitor
}

func (*Base) Pushed(Traverser)                  {}
func (*Base) BeginField(int32, int8) Visitor    { return nil }
func (*Base) ReadPrimitive(wire.FieldInfo)      {}
func (*Base) ReadString([]byte)                 {}
func (*Base) ReadBytes([]byte)                  {}
func (*Base) BufferedValue([]byte)              {}
func (*Base) BeginMessage() Visitor             { return nil }
func (*Base) EndField()                         {}
func (*Base) Popped()                           {}

func (b *Base) ReadLengthDelimitedField(wire.FieldInfo) (Treatment, Visitor) {
	return Skip, nil
}

func (b *Base) Next() Visitor      { return b.next }
func (b *Base) SetNext(v Visitor)  { b.next = v }

// Sentinel is the no-op visitor that sits at the bottom of the stack so
// it is never empty during a ScanField call.
type Sentinel struct{ Base }

func NewSentinel() *Sentinel { return &Sentinel{} }
