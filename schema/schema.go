// Package schema defines the descriptor-catalog contract the engine
// consumes: a read-only lookup from set name to message descriptors plus
// a JSON renderer for submessage bytes. The catalog's own storage and
// loading are host concerns; this package only carries the interfaces
// every other package compiles and runs against.
package schema

import "google.golang.org/protobuf/reflect/protoreflect"

// JSONTypeResolver renders a message's wire bytes as canonical JSON,
// looked up by its type URL.
type JSONTypeResolver interface {
	BinaryToJSON(typeURL string, b []byte) (string, error)
}

// DescSet is a named bundle of file descriptors.
type DescSet interface {
	FindMessage(fullName string) (protoreflect.MessageDescriptor, error)
	JSONTypeResolver() JSONTypeResolver
}

// Catalog maps descriptor-set names to DescSets.
type Catalog interface {
	GetSet(name string) (DescSet, error)
}

// TypeURL implements the type-URL convention used by the JSON renderer.
func TypeURL(fullName protoreflect.FullName) string {
	return "type.googleapis.com/" + string(fullName)
}
