// Package catalog is the reference implementation of the descriptor
// catalog the engine consumes as a read-only collaborator: it loads
// FileDescriptorSet blobs into a named registry and renders submessage
// bytes as canonical JSON via dynamicpb, the way the spec's external
// catalog store is expected to.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/streamproto/pbq/perrors"
	"github.com/streamproto/pbq/schema"
)

// Set is a DescSet backed by an in-memory protoregistry.Files built
// from one FileDescriptorSet.
type Set struct {
	files *protoregistry.Files
}

// NewSet builds a Set from an already-parsed FileDescriptorSet.
func NewSet(fds *descriptorpb.FileDescriptorSet) (*Set, error) {
	files, err := protodesc.NewFiles(fds)
	if err != nil {
		return nil, perrors.E(perrors.BadQuery, fmt.Errorf("building descriptor set: %w", err))
	}
	return &Set{files: files}, nil
}

// FindMessage implements schema.DescSet.
func (s *Set) FindMessage(fullName string) (protoreflect.MessageDescriptor, error) {
	d, err := s.files.FindDescriptorByName(protoreflect.FullName(fullName))
	if err != nil {
		return nil, perrors.E(perrors.BadQuery, fmt.Errorf("message %q: %w", fullName, err))
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, perrors.E(perrors.BadQuery, fmt.Sprintf("%q is not a message", fullName))
	}
	return md, nil
}

// JSONTypeResolver implements schema.DescSet.
func (s *Set) JSONTypeResolver() schema.JSONTypeResolver {
	return (*jsonResolver)(s)
}

// MessageNames returns the full names of every top-level message
// declared across the set's files, sorted. Nested messages are
// reachable through FindMessage but are omitted here since the set can
// hold enough of them to make a flat listing more noise than signal.
func (s *Set) MessageNames() []string {
	var names []string
	s.files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		msgs := fd.Messages()
		for i := 0; i < msgs.Len(); i++ {
			names = append(names, string(msgs.Get(i).FullName()))
		}
		return true
	})
	sort.Strings(names)
	return names
}

type jsonResolver Set

// BinaryToJSON implements schema.JSONTypeResolver by decoding bytes
// against the message named in typeURL (per the
// "type.googleapis.com/<full_name>" convention) through a dynamicpb
// message, then rendering it with protojson.
func (r *jsonResolver) BinaryToJSON(typeURL string, b []byte) (string, error) {
	fullName := strings.TrimPrefix(typeURL, "type.googleapis.com/")
	md, err := (*Set)(r).FindMessage(fullName)
	if err != nil {
		return "", err
	}
	msg := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(b, msg); err != nil {
		return "", perrors.E(perrors.BadProto, fmt.Errorf("decoding %s: %w", fullName, err))
	}
	out, err := protojson.MarshalOptions{UseProtoNames: false}.Marshal(msg)
	if err != nil {
		return "", perrors.E(perrors.BadProto, fmt.Errorf("rendering %s as JSON: %w", fullName, err))
	}
	return string(out), nil
}

// Catalog is a name -> Set registry with a "default" entry expected by
// the query compiler when a query text names no set.
type Catalog struct {
	sets map[string]*Set
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{sets: make(map[string]*Set)}
}

// Add registers set under name, overwriting any prior registration.
func (c *Catalog) Add(name string, set *Set) {
	c.sets[name] = set
}

// Names returns the registered descriptor set names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.sets))
	for name := range c.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set returns the registered set by name, or nil if no set is
// registered under that name. Unlike GetSet it returns the concrete
// *Set so callers outside the schema.Catalog contract, such as a
// listing command, can reach Set.MessageNames.
func (c *Catalog) Set(name string) *Set {
	return c.sets[name]
}

// GetSet implements schema.Catalog.
func (c *Catalog) GetSet(name string) (schema.DescSet, error) {
	s, ok := c.sets[name]
	if !ok {
		return nil, perrors.E(perrors.BadQuery, fmt.Sprintf("unknown descriptor set %q", name))
	}
	return s, nil
}

// LoadSet reads one serialized FileDescriptorSet from path and registers
// it under name.
func (c *Catalog) LoadSet(name, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return perrors.E(perrors.Other, err)
	}
	fds := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(b, fds); err != nil {
		return perrors.E(perrors.BadProto, fmt.Errorf("parsing descriptor set %s: %w", path, err))
	}
	set, err := NewSet(fds)
	if err != nil {
		return err
	}
	c.Add(name, set)
	return nil
}

// LoadDir registers one descriptor set per *.binpb/*.fds/*.descriptorset
// file directly under dir, named after the file's base name without its
// extension.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, perrors.E(perrors.Other, err)
	}
	c := NewCatalog()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		switch ext {
		case ".binpb", ".fds", ".descriptorset":
		default:
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if err := c.LoadSet(name, filepath.Join(dir, e.Name())); err != nil {
			return nil, fmt.Errorf("loading %s: %w", e.Name(), err)
		}
	}
	return c, nil
}
