package query

import (
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq/emit"
	"github.com/streamproto/pbq/filter"
	"github.com/streamproto/pbq/perrors"
	"github.com/streamproto/pbq/schema"
	"github.com/streamproto/pbq/visit"
)

// cursor is the compiler's DescPtrs: its running view of what kind of
// thing the next segment reads.
type cursor struct {
	kind    protoreflect.Kind
	message protoreflect.MessageDescriptor
	enum    protoreflect.EnumDescriptor
}

func cursorForField(fd protoreflect.FieldDescriptor) cursor {
	c := cursor{kind: fd.Kind()}
	switch fd.Kind() {
	case protoreflect.MessageKind:
		c.message = fd.Message()
	case protoreflect.EnumKind:
		c.enum = fd.Enum()
	}
	return c
}

// Compile parses text and resolves it against cat into a linked visitor
// chain plus the sink its terminal emitter writes to. maxDepth is the
// recursion budget handed to any MapFilter stages for their buffered
// value re-traversal.
func Compile(cat schema.Catalog, text string, limit, maxDepth int) (visit.Visitor, *emit.Sink, error) {
	a, err := parse(text)
	if err != nil {
		return nil, nil, err
	}
	descSet, err := cat.GetSet(a.set)
	if err != nil {
		return nil, nil, perrors.E(perrors.BadQuery, err)
	}
	msgDesc, err := descSet.FindMessage(a.message)
	if err != nil {
		return nil, nil, perrors.E(perrors.BadQuery, err)
	}

	sink := emit.NewSink(limit)
	var chain []visit.Visitor
	cur := cursor{kind: protoreflect.MessageKind, message: msgDesc}

	if len(a.parts) > 0 {
		chain = append(chain, &filter.DescendIntoSubmessage{})
	}

	for i, p := range a.parts {
		if i > 0 {
			chain = append(chain, &filter.DescendIntoSubmessage{})
		}
		if cur.message == nil {
			return nil, nil, perrors.E(perrors.BadQuery, "cannot traverse into a non-message field")
		}
		fd, err := resolveField(cur.message, p.field)
		if err != nil {
			return nil, nil, err
		}

		isMap := fd.IsMap()
		isRepeated := fd.Cardinality() == protoreflect.Repeated && !isMap

		if !isMap && !isRepeated && p.hasSelector {
			return nil, nil, perrors.E(perrors.BadQuery, "field %q is not repeated and cannot carry a selector", fd.Name())
		}
		if (isMap || isRepeated) && !p.hasSelector {
			return nil, nil, perrors.E(perrors.BadQuery, "repeated field %q requires a selector", fd.Name())
		}
		if p.keys && !isMap {
			return nil, nil, perrors.E(perrors.BadQuery, "|keys is only valid on a map field")
		}

		var wantedIndex *int
		if isRepeated {
			if p.index == nil {
				return nil, nil, perrors.E(perrors.BadQuery, "repeated field %q requires a [index] selector", fd.Name())
			}
			if *p.index != "*" {
				n, err := strconv.Atoi(*p.index)
				if err != nil || n < 0 {
					return nil, nil, perrors.E(perrors.BadQuery, "invalid index %q for field %q", *p.index, fd.Name())
				}
				wantedIndex = &n
			}
		}

		sel := &filter.FieldSelector{
			WantedNumber: int32(fd.Number()),
			Kind:         fd.Kind(),
			IsPacked:     fd.IsPacked(),
			WantedIndex:  wantedIndex,
		}
		chain = append(chain, sel)

		if isMap {
			keyFD := fd.MapKey()
			valFD := fd.MapValue()
			switch {
			case p.keys:
				chain = append(chain, &filter.AllMapEntries{WantKeys: true, Kind: keyFD.Kind()})
				cur = cursorForField(keyFD)
			case *p.index == "*":
				chain = append(chain, &filter.AllMapEntries{WantKeys: false, Kind: valFD.Kind()})
				cur = cursorForField(valFD)
			default:
				keyFI, keyBytes, err := parseMapKey(keyFD, *p.index)
				if err != nil {
					return nil, nil, err
				}
				chain = append(chain, &filter.MapFilter{
					WantedKey:      keyFI,
					WantedKeyBytes: keyBytes,
					MaxDepth:       maxDepth,
				})
				cur = cursorForField(valFD)
			}
		} else {
			cur = cursorForField(fd)
		}
	}

	var emitter visit.Visitor
	switch {
	case cur.enum != nil:
		emitter = emit.NewEnum(cur.enum, sink)
	case cur.message != nil:
		emitter = emit.NewMessage(descSet.JSONTypeResolver(), schema.TypeURL(cur.message.FullName()), sink)
	default:
		emitter = emit.NewPrimitive(cur.kind, sink)
	}
	chain = append(chain, emitter)

	for i := 0; i < len(chain)-1; i++ {
		chain[i].SetNext(chain[i+1])
	}
	return chain[0], sink, nil
}

func resolveField(md protoreflect.MessageDescriptor, ref string) (protoreflect.FieldDescriptor, error) {
	if n, ok := parseFieldNumber(ref); ok {
		fd := md.Fields().ByNumber(protoreflect.FieldNumber(n))
		if fd == nil {
			return nil, perrors.E(perrors.BadQuery, "message %q has no field number %d", md.FullName(), n)
		}
		return fd, nil
	}
	fd := md.Fields().ByName(protoreflect.Name(ref))
	if fd == nil {
		return nil, perrors.E(perrors.BadQuery, "message %q has no field %q", md.FullName(), ref)
	}
	return fd, nil
}
