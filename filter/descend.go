// Package filter holds the non-terminal pipeline stages: the visitors
// the query compiler links between a root message and its emitter to
// select which fields, indices, and map entries reach the result rows.
package filter

import (
	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

// DescendIntoSubmessage strips one layer of message envelope so the
// next stage sees the fields of the submessage itself rather than the
// length-delimited bytes carrying it.
type DescendIntoSubmessage struct {
	visit.Base
}

func (d *DescendIntoSubmessage) ReadLengthDelimitedField(wire.FieldInfo) (visit.Treatment, visit.Visitor) {
	return visit.AsSubmessage, nil
}

func (d *DescendIntoSubmessage) BeginMessage() visit.Visitor {
	return d.Next()
}
