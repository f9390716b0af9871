// Package floatfmt renders IEEE-754 floats as shortest round-trip
// decimal text, the same contract the spec's host environment would
// otherwise supply as a locale-sensitive callable.
package floatfmt

import "strconv"

// Float renders a float32 with the fewest digits that still round-trip.
func Float(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Double renders a float64 with the fewest digits that still round-trip.
func Double(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
