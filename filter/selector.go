package filter

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

type selectorState int

const (
	scanning selectorState = iota
	emittingPacked
	emittingOtherComposite
)

// FieldSelector picks out a single declared field from a message by
// number, tracking a zero-based element index across its occurrences.
type FieldSelector struct {
	visit.Base

	WantedNumber int32
	Kind         protoreflect.Kind
	IsPacked     bool
	WantedIndex  *int // nil selects every occurrence ([*])

	state        selectorState
	openWireType []int8 // LIFO: one entry per still-open BeginField/EndField bracket on WantedNumber
	currentIndex int
}

func (s *FieldSelector) indexMatches() bool {
	return s.WantedIndex == nil || s.currentIndex == *s.WantedIndex
}

func (s *FieldSelector) BeginField(number int32, wt int8) visit.Visitor {
	if number != s.WantedNumber {
		return nil
	}
	s.openWireType = append(s.openWireType, wt)
	if wt == wire.Bytes {
		if s.IsPacked {
			s.state = emittingPacked
			return nil
		}
		if s.indexMatches() {
			if s.Kind == protoreflect.MessageKind {
				return s.Next()
			}
			s.state = emittingOtherComposite
		}
		return nil
	}
	if s.indexMatches() {
		return s.Next()
	}
	return nil
}

func (s *FieldSelector) ReadLengthDelimitedField(f wire.FieldInfo) (visit.Treatment, visit.Visitor) {
	if s.state == emittingPacked {
		return visit.PackedTreatmentForKind(s.Kind), nil
	}
	if f.Number == s.WantedNumber && s.indexMatches() && s.state == emittingOtherComposite {
		return visit.CompositeTreatmentForKind(s.Kind), s.Next()
	}
	return visit.Skip, nil
}

// EndField closes out the occurrence that began with the matching
// BeginField, popping the wire type that bracket recorded for itself.
// A packed blob's own closing bracket does not advance the index: its
// elements already did, one EndField each, while unrolling in between
// this bracket's BeginField and its own EndField here. Each of those
// carries its own entry on openWireType, so the blob's wire type
// survives underneath them instead of getting clobbered by whatever
// wire type the last element used.
func (s *FieldSelector) EndField() {
	if len(s.openWireType) == 0 {
		return
	}
	n := len(s.openWireType) - 1
	wt := s.openWireType[n]
	s.openWireType = s.openWireType[:n]
	if wt == wire.Bytes && s.IsPacked {
		s.state = scanning
		return
	}
	s.currentIndex++
	s.state = scanning
}

func (s *FieldSelector) Popped() {
	s.state = scanning
	s.openWireType = nil
	s.currentIndex = 0
}
