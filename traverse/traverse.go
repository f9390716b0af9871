// Package traverse implements the single-pass wire-stream walker: it
// keeps the visitor stack, decodes each field, and dispatches events to
// whichever visitor currently sits on top, including the cascading
// begin_field/begin_message push protocol and packed-repeated unrolling.
package traverse

import (
	"github.com/streamproto/pbq/perrors"
	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

type stackEntry struct {
	v           visit.Visitor
	depthAtPush int
}

// Traverser walks one payload's wire stream through a visitor chain.
type Traverser struct {
	r     *wire.Reader
	stack []stackEntry
	depth int
	err   error
}

// New creates a Traverser over r with the sentinel no-op visitor at the
// bottom of its stack, per the invariant that the stack is never empty.
func New(r *wire.Reader) *Traverser {
	t := &Traverser{r: r}
	t.push(visit.NewSentinel())
	return t
}

// PushRoot installs v as the head of the compiled pipeline, above the
// sentinel.
func (t *Traverser) PushRoot(v visit.Visitor) {
	t.push(v)
}

// Depth implements visit.Traverser.
func (t *Traverser) Depth() int { return t.depth }

// Abort implements visit.Traverser: the first error recorded wins, and
// every dispatch loop polls it after invoking a visitor event.
func (t *Traverser) Abort(err error) {
	if t.err == nil {
		t.err = err
	}
}

func (t *Traverser) top() visit.Visitor {
	return t.stack[len(t.stack)-1].v
}

func (t *Traverser) push(v visit.Visitor) {
	t.stack = append(t.stack, stackEntry{v: v, depthAtPush: t.depth})
	v.Pushed(t)
}

// pop removes and returns the top visitor, delivering Popped().
func (t *Traverser) pop() visit.Visitor {
	e := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	e.v.Popped()
	return e.v
}

// unwindAbove pops every stack entry pushed at a depth greater than
// depth, deepest first.
func (t *Traverser) unwindAbove(depth int) {
	for len(t.stack) > 1 && t.stack[len(t.stack)-1].depthAtPush > depth {
		t.pop()
	}
}

// ScanField is the shared entry point for: the synthesized root field,
// each tag scan_message reads, and each element of a packed-repeated
// run. It brackets the dispatch in §4.3's begin_field cascade: BeginField
// is offered to the current visitor and, as long as a different visitor
// comes back, pushed and offered again (the fixpoint rule), then every
// visitor that was asked is handed a matching EndField in reverse order
// once dispatch completes, and anything pushed along the way is popped.
func (t *Traverser) ScanField(fi wire.FieldInfo) error {
	predepth := t.depth
	var chain []visit.Visitor
	for {
		cur := t.top()
		chain = append(chain, cur)
		nv := cur.BeginField(fi.Number, fi.WireType)
		if nv == nil {
			break
		}
		t.depth++
		t.push(nv)
	}
	err := t.scanField(fi)
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].EndField()
	}
	t.unwindAbove(predepth)
	t.depth = predepth
	if err != nil {
		return err
	}
	return t.err
}

// scanField implements §4.3 steps 1-3: deliver a primitive directly, or
// resolve a length-delimited field's treatment (with its own, narrower
// begin_field cascade for any visitor the treatment hands off to) and
// dispatch it.
func (t *Traverser) scanField(fi wire.FieldInfo) error {
	if fi.WireType != wire.Bytes {
		t.top().ReadPrimitive(fi)
		return t.err
	}
	cur := t.top()
	treatment, nv := cur.ReadLengthDelimitedField(fi)
	predepth := t.depth
	pushed := false
	if nv != nil {
		pushed = true
		t.depth++
		t.push(nv)
		for {
			top := t.top()
			n2 := top.BeginField(fi.Number, fi.WireType)
			if n2 == nil {
				break
			}
			t.depth++
			t.push(n2)
		}
	}
	err := t.dispatchTreatment(treatment, fi)
	if pushed {
		// Deliver EndField to everything pushed in this narrower
		// cascade, innermost first, skipping the original cur (it is
		// owed its EndField by the enclosing ScanField bracket).
		for i := len(t.stack) - 1; i >= 0 && t.stack[i].depthAtPush > predepth; i-- {
			t.stack[i].v.EndField()
		}
		t.unwindAbove(predepth)
		t.depth = predepth
	}
	if err != nil {
		return err
	}
	return t.err
}

func (t *Traverser) dispatchTreatment(tr visit.Treatment, fi wire.FieldInfo) error {
	switch tr {
	case visit.Skip:
		return t.r.Skip(fi.Length)
	case visit.Buffer:
		b, err := t.r.ReadExact(fi.Length)
		if err != nil {
			return err
		}
		t.top().BufferedValue(b)
	case visit.AsString:
		b, err := t.r.ReadExact(fi.Length)
		if err != nil {
			return err
		}
		t.top().ReadString(b)
	case visit.AsBytes:
		b, err := t.r.ReadExact(fi.Length)
		if err != nil {
			return err
		}
		t.top().ReadBytes(b)
	case visit.AsSubmessage:
		tok, remaining := t.r.IncrementRecursionDepthAndPushLimit(fi.Length)
		if remaining == -1 {
			return perrors.E(perrors.RecursionDepthExceeded, "submessage nesting exceeds the configured limit")
		}
		if remaining == -2 {
			return perrors.E(perrors.BadProto, "submessage length exceeds its enclosing message")
		}
		err := t.scanMessage()
		t.r.DecrementRecursionDepthAndPopLimit(tok)
		return err
	case visit.AsPackedVarint:
		return t.scanPacked(fi, wire.Varint)
	case visit.AsPacked32:
		return t.scanPacked(fi, wire.Fixed32)
	case visit.AsPacked64:
		return t.scanPacked(fi, wire.Fixed64)
	}
	return nil
}

// scanMessage implements scan_message: a begin_message cascade, then a
// loop over tags until a clean end-of-limit, each bracketed through
// ScanField.
func (t *Traverser) scanMessage() error {
	predepth := t.depth
	for {
		cur := t.top()
		nv := cur.BeginMessage()
		if nv == nil {
			break
		}
		t.depth++
		t.push(nv)
	}
	for {
		tag, err := t.r.ReadTag()
		if err != nil {
			return err
		}
		if tag == 0 {
			break
		}
		number, wt := wire.DecodeTag(tag)
		fi, err := t.readFieldValue(number, wt)
		if err != nil {
			return err
		}
		if err := t.ScanField(fi); err != nil {
			return err
		}
		if t.err != nil {
			return t.err
		}
	}
	t.unwindAbove(predepth)
	t.depth = predepth
	return nil
}

// scanPacked implements the packed-repeated unrolling: a limit bounds
// the run, and each element is read as a primitive of innerWT and
// bracketed through ScanField exactly like a regular tag.
func (t *Traverser) scanPacked(fi wire.FieldInfo, innerWT int8) error {
	lim, err := t.r.PushLimit(fi.Length)
	if err != nil {
		return err
	}
	for t.r.BytesUntilLimit() > 0 {
		elem, err := t.readFieldValue(fi.Number, innerWT)
		if err != nil {
			t.r.PopLimit(lim)
			return err
		}
		if err := t.ScanField(elem); err != nil {
			t.r.PopLimit(lim)
			return err
		}
		if t.err != nil {
			t.r.PopLimit(lim)
			return t.err
		}
	}
	t.r.PopLimit(lim)
	return nil
}

func (t *Traverser) readFieldValue(number int32, wt int8) (wire.FieldInfo, error) {
	switch wt {
	case wire.Varint:
		v, err := t.r.ReadVarint64()
		if err != nil {
			return wire.FieldInfo{}, err
		}
		return wire.FieldInfo{Number: number, WireType: wt, Raw64: v}, nil
	case wire.Fixed64:
		v, err := t.r.ReadLE64()
		if err != nil {
			return wire.FieldInfo{}, err
		}
		return wire.FieldInfo{Number: number, WireType: wt, Raw64: v}, nil
	case wire.Fixed32:
		v, err := t.r.ReadLE32()
		if err != nil {
			return wire.FieldInfo{}, err
		}
		return wire.FieldInfo{Number: number, WireType: wt, Raw32: v}, nil
	case wire.Bytes:
		n, err := t.r.ReadVarintSize()
		if err != nil {
			return wire.FieldInfo{}, err
		}
		return wire.FieldInfo{Number: number, WireType: wt, Length: n}, nil
	default:
		return wire.FieldInfo{}, perrors.E(perrors.BadProto, "unsupported wire type %d", wt)
	}
}
