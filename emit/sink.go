// Package emit holds the terminal pipeline stages: the visitors that
// turn a selected value's bytes into a result row instead of passing
// them further down a chain.
package emit

import "github.com/streamproto/pbq/perrors"

// Sink accumulates result rows for one Query.Run call and enforces the
// optional row limit.
type Sink struct {
	rows  []string
	limit int // -1 means unlimited
}

// NewSink creates a Sink. limit<0 means unlimited.
func NewSink(limit int) *Sink {
	return &Sink{limit: limit}
}

// Limit reports the configured row limit, or a negative number if there
// is none.
func (s *Sink) Limit() int {
	return s.limit
}

// Take returns the rows accumulated so far and clears the sink, per the
// engine façade's "run clears the emitter's accumulated rows before
// returning them" contract.
func (s *Sink) Take() []string {
	rows := s.rows
	s.rows = nil
	return rows
}

// emit appends row and reports perrors.LimitReached once the configured
// limit has just been reached, so the caller can signal the traverser to
// abort.
func (s *Sink) emit(row string) error {
	s.rows = append(s.rows, row)
	if s.limit >= 0 && len(s.rows) >= s.limit {
		return perrors.E(perrors.LimitReached, "row limit reached")
	}
	return nil
}
