// Package query parses the textual path-expression grammar and
// compiles it, against a schema.Catalog, into a linked visitor chain
// the engine façade can run a payload through.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/streamproto/pbq/perrors"
)

// part is one dot-separated segment of a path: a field reference plus
// an optional selector.
type part struct {
	field string // NAME or NUMBER, as written

	hasSelector bool
	keys        bool    // selector was "|keys"
	index       *string // selector was "[...]"; nil means no bracket, "*" means wildcard
}

// ast is the parsed query: an optional set name, the root message name,
// and zero or more path parts.
type ast struct {
	set     string
	message string
	parts   []part
}

func badQuery(format string, args ...interface{}) error {
	return perrors.E(perrors.BadQuery, fmt.Sprintf(format, args...))
}

// parse splits text into set/message/path by colons alone. With two or
// more colons, the text before the first names the set and the text
// between the first and second names the message; with one colon the set
// is "default"; with none the whole text is the message. Dots play no
// part in finding the set prefix, so "set:pkg.Msg:path" names set "set"
// even though no colon precedes its first '.' — see DESIGN.md for the
// worked-through reasoning.
func parse(text string) (*ast, error) {
	if text == "" {
		return nil, badQuery("empty query")
	}
	a := &ast{set: "default"}
	rest := text
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		head := rest[:i]
		tail := rest[i+1:]
		if j := strings.IndexByte(tail, ':'); j >= 0 {
			a.set = head
			a.message = tail[:j]
			rest = tail[j+1:]
		} else {
			a.message = head
			rest = tail
		}
	} else {
		a.message = rest
		rest = ""
	}
	if a.message == "" {
		return nil, badQuery("missing message name")
	}
	if rest == "" {
		return a, nil
	}
	for _, raw := range strings.Split(rest, ".") {
		p, err := parsePart(raw)
		if err != nil {
			return nil, err
		}
		a.parts = append(a.parts, p)
	}
	return a, nil
}

func parsePart(raw string) (part, error) {
	if raw == "" {
		return part{}, badQuery("empty path segment")
	}
	if strings.HasSuffix(raw, "|keys") {
		field := strings.TrimSuffix(raw, "|keys")
		if field == "" {
			return part{}, badQuery("missing field name before |keys")
		}
		return part{field: field, hasSelector: true, keys: true}, nil
	}
	if i := strings.IndexByte(raw, '['); i >= 0 {
		if !strings.HasSuffix(raw, "]") {
			return part{}, badQuery("unterminated selector in %q", raw)
		}
		field := raw[:i]
		idx := raw[i+1 : len(raw)-1]
		if field == "" {
			return part{}, badQuery("missing field name before selector in %q", raw)
		}
		if idx == "" {
			return part{}, badQuery("empty selector in %q", raw)
		}
		return part{field: field, hasSelector: true, index: &idx}, nil
	}
	return part{field: raw}, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseFieldNumber(s string) (int32, bool) {
	if !isAllDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
