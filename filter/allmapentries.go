package filter

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

type allMapState int

const (
	allOutermost allMapState = iota
	allInEntry
	allInWantedField
	allInUnwantedOtherField
)

// AllMapEntries streams either every key or every value of a map,
// ignoring key equality entirely.
type AllMapEntries struct {
	visit.Base

	WantKeys bool
	Kind     protoreflect.Kind

	state allMapState
}

func (a *AllMapEntries) BeginField(number int32, wt int8) visit.Visitor {
	switch a.state {
	case allOutermost:
		a.state = allInEntry
		return nil
	case allInEntry:
		if (number == 1 && a.WantKeys) || (number == 2 && !a.WantKeys) {
			a.state = allInWantedField
			return a.Next()
		}
		a.state = allInUnwantedOtherField
	}
	return nil
}

func (a *AllMapEntries) ReadLengthDelimitedField(wire.FieldInfo) (visit.Treatment, visit.Visitor) {
	switch a.state {
	case allInEntry:
		return visit.AsSubmessage, nil
	case allInWantedField:
		return visit.CompositeTreatmentForKind(a.Kind), a.Next()
	}
	return visit.Skip, nil
}

func (a *AllMapEntries) EndField() {
	switch a.state {
	case allInWantedField, allInUnwantedOtherField:
		a.state = allInEntry
	default:
		a.state = allOutermost
	}
}

func (a *AllMapEntries) Popped() {
	a.state = allOutermost
}
