// Package pbq is the engine façade (C7): it ties the query compiler to
// the traverser and exposes the single pure function the spec's host
// bindings consume: new(catalog, query, limit).run(payload) -> rows.
package pbq

import (
	"github.com/streamproto/pbq/emit"
	"github.com/streamproto/pbq/perrors"
	"github.com/streamproto/pbq/query"
	"github.com/streamproto/pbq/schema"
	"github.com/streamproto/pbq/traverse"
	"github.com/streamproto/pbq/visit"
	"github.com/streamproto/pbq/wire"
)

// Catalog, DescSet, and JSONTypeResolver are the descriptor-catalog
// contract, re-exported from schema so callers need only import this
// package.
type (
	Catalog          = schema.Catalog
	DescSet          = schema.DescSet
	JSONTypeResolver = schema.JSONTypeResolver
)

// NoLimit is passed to NewQuery when a caller wants every matching row.
const NoLimit = -1

// Query owns a compiled visitor chain and may be run against any number
// of payloads, one at a time.
type Query struct {
	root     visit.Visitor
	sink     *emit.Sink
	maxDepth int
}

// NewQuery compiles text against cat. limit<0 (NoLimit) means unbounded;
// limit==0 yields an empty result from every call to Run without ever
// reading a payload.
func NewQuery(cat Catalog, text string, limit int) (*Query, error) {
	return NewQueryWithRecursionLimit(cat, text, limit, wire.DefaultMaxRecursionDepth)
}

// NewQueryWithRecursionLimit is NewQuery with an explicit submessage
// recursion bound, for callers that need to tune it away from the wire
// reader's default.
func NewQueryWithRecursionLimit(cat Catalog, text string, limit, maxDepth int) (*Query, error) {
	root, sink, err := query.Compile(cat, text, limit, maxDepth)
	if err != nil {
		return nil, err
	}
	return &Query{root: root, sink: sink, maxDepth: maxDepth}, nil
}

// Run executes the compiled query against one payload and returns its
// result rows. A limit of 0 short-circuits without touching payload at
// all, per the boundary behavior in the testable-properties section.
func (q *Query) Run(payload []byte) ([]string, error) {
	if q.sink.Limit() == 0 {
		return []string{}, nil
	}
	r := wire.NewReader(payload, q.maxDepth)
	t := traverse.New(r)
	t.PushRoot(q.root)
	root := wire.FieldInfo{Number: 0, WireType: wire.Bytes, Length: len(payload)}
	if err := t.ScanField(root); err != nil {
		if perrors.Is(err, perrors.LimitReached) {
			return q.sink.Take(), nil
		}
		q.sink.Take()
		return nil, err
	}
	return q.sink.Take(), nil
}
