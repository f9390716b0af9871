package wire

// FieldInfo is the event the traverser hands to a visitor: a tag number,
// its wire type, and whichever scalar the wire type implies. For
// wire-type 2 (Bytes), Length holds the declared byte count rather than
// any decoded value — the bytes themselves are fetched later, through
// whichever Treatment the visitor chose.
type FieldInfo struct {
	Number   int32
	WireType int8
	Raw64    uint64 // populated for Varint and Fixed64
	Raw32    uint32 // populated for Fixed32
	Length   int    // populated for Bytes
}

// Equal implements the value-equality rule from the data model: wire
// types must match, and for Bytes only the declared length is compared
// (content equality is the map filter's job, via buffered bytes).
func (f FieldInfo) Equal(o FieldInfo) bool {
	if f.WireType != o.WireType {
		return false
	}
	switch f.WireType {
	case Varint, Fixed64:
		return f.Raw64 == o.Raw64
	case Fixed32:
		return f.Raw32 == o.Raw32
	case Bytes:
		return f.Length == o.Length
	}
	return false
}
