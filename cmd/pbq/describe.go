package main

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/streamproto/pbq"
)

// describe prints the field layout of the message named by ref, a
// "set:message" string, the way the query grammar names messages minus
// the trailing path.
func describe(cat pbq.Catalog, ref string) error {
	set, message, err := splitSetMessage(ref)
	if err != nil {
		return err
	}
	ds, err := cat.GetSet(set)
	if err != nil {
		return err
	}
	md, err := ds.FindMessage(message)
	if err != nil {
		return err
	}
	printMessage(md, 0)
	return nil
}

func splitSetMessage(ref string) (set, message string, err error) {
	i := strings.LastIndex(ref, ":")
	if i < 0 {
		return "default", ref, nil
	}
	return ref[:i], ref[i+1:], nil
}

func printMessage(md protoreflect.MessageDescriptor, indent int) {
	pad := strings.Repeat("  ", indent)
	fmt.Printf("%s%s\n", pad, md.FullName())
	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		fmt.Printf("%s  %d %s %s\n", pad, fd.Number(), fd.Name(), fieldType(fd))
	}
}

func fieldType(fd protoreflect.FieldDescriptor) string {
	switch {
	case fd.IsMap():
		return fmt.Sprintf("map<%s,%s>", fd.MapKey().Kind(), fieldType(fd.MapValue()))
	case fd.IsList():
		return "repeated " + fd.Kind().String()
	case fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind:
		return string(fd.Message().FullName())
	case fd.Kind() == protoreflect.EnumKind:
		return string(fd.Enum().FullName())
	default:
		return fd.Kind().String()
	}
}
