package filter

import (
	"bytes"

	"github.com/streamproto/pbq/traverse"
	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

type mapFilterState int

const (
	mfOutermost mapFilterState = iota
	mfInEntry
	mfInKey
	mfInValue
)

// MapFilter selects the single map entry whose key equals WantedKey,
// re-traversing its buffered value bytes through Next() on a match.
type MapFilter struct {
	visit.Base

	WantedKey      wire.FieldInfo
	WantedKeyBytes []byte // set only when WantedKey.WireType == wire.Bytes
	MaxDepth       int

	state      mapFilterState
	keyField   wire.FieldInfo
	keyBytes   []byte
	valueField wire.FieldInfo
	valueBytes []byte
	trav       visit.Traverser
}

func (m *MapFilter) Pushed(t visit.Traverser) { m.trav = t }

func (m *MapFilter) BeginField(number int32, wt int8) visit.Visitor {
	if m.state != mfInEntry {
		return nil
	}
	switch number {
	case 1:
		m.state = mfInKey
	case 2:
		m.state = mfInValue
	}
	return nil
}

func (m *MapFilter) BeginMessage() visit.Visitor {
	m.state = mfInEntry
	return nil
}

func (m *MapFilter) ReadPrimitive(f wire.FieldInfo) {
	switch m.state {
	case mfInKey:
		m.keyField = f
	case mfInValue:
		m.valueField = f
	}
}

func (m *MapFilter) ReadLengthDelimitedField(f wire.FieldInfo) (visit.Treatment, visit.Visitor) {
	switch m.state {
	case mfOutermost:
		m.state = mfInEntry
		return visit.AsSubmessage, nil
	case mfInKey:
		m.keyField = f
		return visit.Buffer, nil
	case mfInValue:
		m.valueField = f
		return visit.Buffer, nil
	}
	return visit.Skip, nil
}

func (m *MapFilter) BufferedValue(b []byte) {
	switch m.state {
	case mfInKey:
		m.keyBytes = b
	case mfInValue:
		m.valueBytes = b
	}
}

func (m *MapFilter) EndField() {
	switch m.state {
	case mfInKey, mfInValue:
		m.state = mfInEntry
	case mfInEntry:
		if m.matches() {
			m.emitValue()
		}
		m.reset()
	}
}

func (m *MapFilter) Popped() {
	m.reset()
}

func (m *MapFilter) matches() bool {
	if !m.keyField.Equal(m.WantedKey) {
		return false
	}
	if m.WantedKey.WireType == wire.Bytes {
		return bytes.Equal(m.keyBytes, m.WantedKeyBytes)
	}
	return true
}

// emitValue re-traverses the buffered value bytes (or, for a scalar
// value, simply redelivers the already-read primitive) against a fresh
// traverser rooted at Next(). Errors, including LimitReached, are
// reported to the outer traversal through Abort rather than a return
// value, since EndField has none.
func (m *MapFilter) emitValue() {
	r := wire.NewReader(m.valueBytes, m.MaxDepth)
	sub := traverse.New(r)
	sub.PushRoot(m.Next())
	if err := sub.ScanField(m.valueField); err != nil {
		m.trav.Abort(err)
	}
}

func (m *MapFilter) reset() {
	m.state = mfOutermost
	m.keyField = wire.FieldInfo{}
	m.keyBytes = nil
	m.valueField = wire.FieldInfo{}
	m.valueBytes = nil
}
