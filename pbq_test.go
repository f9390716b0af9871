package pbq_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/streamproto/pbq"
	"github.com/streamproto/pbq/catalog"
	"github.com/streamproto/pbq/internal/wiretest"
	"github.com/streamproto/pbq/perrors"
)

// buildCatalog assembles, by hand, a FileDescriptorSet describing:
//
//	message Person {
//	  string name = 1;
//	  int32 age = 2;
//	  repeated int32 scores = 3 [packed = true];
//	  map<string, string> tags = 4;
//	  Status status = 5;
//	  Address address = 6;
//	  enum Status { ACTIVE = 0; INACTIVE = 1; }
//	}
//	message Address { string city = 1; }
//
// without a protoc invocation, since the toolchain may not run here.
func buildCatalog(t *testing.T) pbq.Catalog {
	t.Helper()

	label := func(l descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto_Label { return &l }
	typ := func(ty descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto_Type { return &ty }

	tagsEntry := &descriptorpb.DescriptorProto{
		Name: proto.String("TagsEntry"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("key"), Number: proto.Int32(1),
				Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
				Type:  typ(descriptorpb.FieldDescriptorProto_TYPE_STRING)},
			{Name: proto.String("value"), Number: proto.Int32(2),
				Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
				Type:  typ(descriptorpb.FieldDescriptorProto_TYPE_STRING)},
		},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}

	status := &descriptorpb.EnumDescriptorProto{
		Name: proto.String("Status"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("ACTIVE"), Number: proto.Int32(0)},
			{Name: proto.String("INACTIVE"), Number: proto.Int32(1)},
		},
	}

	person := &descriptorpb.DescriptorProto{
		Name: proto.String("Person"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("name"), Number: proto.Int32(1),
				Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
				Type:  typ(descriptorpb.FieldDescriptorProto_TYPE_STRING)},
			{Name: proto.String("age"), Number: proto.Int32(2),
				Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
				Type:  typ(descriptorpb.FieldDescriptorProto_TYPE_INT32)},
			{Name: proto.String("scores"), Number: proto.Int32(3),
				Label:   label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED),
				Type:    typ(descriptorpb.FieldDescriptorProto_TYPE_INT32),
				Options: &descriptorpb.FieldOptions{Packed: proto.Bool(true)}},
			{Name: proto.String("tags"), Number: proto.Int32(4),
				Label:    label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED),
				Type:     typ(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE),
				TypeName: proto.String(".test.Person.TagsEntry")},
			{Name: proto.String("status"), Number: proto.Int32(5),
				Label:    label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
				Type:     typ(descriptorpb.FieldDescriptorProto_TYPE_ENUM),
				TypeName: proto.String(".test.Person.Status")},
			{Name: proto.String("address"), Number: proto.Int32(6),
				Label:    label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
				Type:     typ(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE),
				TypeName: proto.String(".test.Address")},
		},
		NestedType: []*descriptorpb.DescriptorProto{tagsEntry},
		EnumType:   []*descriptorpb.EnumDescriptorProto{status},
	}

	address := &descriptorpb.DescriptorProto{
		Name: proto.String("Address"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("city"), Number: proto.Int32(1),
				Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL),
				Type:  typ(descriptorpb.FieldDescriptorProto_TYPE_STRING)},
		},
	}

	fdProto := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("test.proto"),
		Package:     proto.String("test"),
		Syntax:      proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{person, address},
	}
	fds := &descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{fdProto}}

	set, err := catalog.NewSet(fds)
	require.NoError(t, err)
	cat := catalog.NewCatalog()
	cat.Add("test", set)
	return cat
}

func buildPayload() []byte {
	entryA := wiretest.New().String(1, "a").String(2, "x")
	entryB := wiretest.New().String(1, "b").String(2, "y")
	addr := wiretest.New().String(1, "NYC")

	b := wiretest.New().
		String(1, "Alice").
		Int32(2, 30).
		PackedVarint(3, 1, 2, 3).
		Message(4, entryA.Build()).
		Message(4, entryB.Build()).
		Varint(5, 1). // Status.INACTIVE
		Message(6, addr.Build())
	return b.Build()
}

func runQuery(t *testing.T, cat pbq.Catalog, text string, limit int) []string {
	t.Helper()
	q, err := pbq.NewQuery(cat, text, limit)
	require.NoError(t, err)
	rows, err := q.Run(buildPayload())
	require.NoError(t, err)
	return rows
}

func TestScalarField(t *testing.T) {
	cat := buildCatalog(t)
	require.Equal(t, []string{"Alice"}, runQuery(t, cat, "test:test.Person:name", pbq.NoLimit))
	require.Equal(t, []string{"30"}, runQuery(t, cat, "test:test.Person:age", pbq.NoLimit))
}

func TestPackedRepeatedIndexAndWildcard(t *testing.T) {
	cat := buildCatalog(t)
	require.Equal(t, []string{"2"}, runQuery(t, cat, "test:test.Person:scores[1]", pbq.NoLimit))
	require.Equal(t, []string{"1", "2", "3"}, runQuery(t, cat, "test:test.Person:scores[*]", pbq.NoLimit))
}

func TestMapKeyLookupAndMiss(t *testing.T) {
	cat := buildCatalog(t)
	require.Equal(t, []string{"x"}, runQuery(t, cat, "test:test.Person:tags[a]", pbq.NoLimit))
	require.Empty(t, runQuery(t, cat, "test:test.Person:tags[missing]", pbq.NoLimit))
}

func TestMapKeysAndValuesWildcard(t *testing.T) {
	cat := buildCatalog(t)
	require.Equal(t, []string{"a", "b"}, runQuery(t, cat, "test:test.Person:tags|keys", pbq.NoLimit))
	require.Equal(t, []string{"x", "y"}, runQuery(t, cat, "test:test.Person:tags[*]", pbq.NoLimit))
}

func TestEnumField(t *testing.T) {
	cat := buildCatalog(t)
	require.Equal(t, []string{"INACTIVE"}, runQuery(t, cat, "test:test.Person:status", pbq.NoLimit))
}

func TestSubmessageAsJSON(t *testing.T) {
	cat := buildCatalog(t)
	rows := runQuery(t, cat, "test:test.Person:address", pbq.NoLimit)
	require.Len(t, rows, 1)
	require.Contains(t, rows[0], "NYC")
}

func TestNestedPath(t *testing.T) {
	cat := buildCatalog(t)
	require.Equal(t, []string{"NYC"}, runQuery(t, cat, "test:test.Person:address.city", pbq.NoLimit))
}

func TestRowLimit(t *testing.T) {
	cat := buildCatalog(t)
	rows := runQuery(t, cat, "test:test.Person:scores[*]", 1)
	require.Equal(t, []string{"1"}, rows)
}

func TestRowLimitZeroNeverReadsPayload(t *testing.T) {
	cat := buildCatalog(t)
	q, err := pbq.NewQuery(cat, "test:test.Person:name", 0)
	require.NoError(t, err)
	rows, err := q.Run(nil)
	require.NoError(t, err)
	require.Equal(t, []string{}, rows)
}

func TestRecursionLimitExceeded(t *testing.T) {
	cat := buildCatalog(t)
	q, err := pbq.NewQueryWithRecursionLimit(cat, "test:test.Person:address.city", pbq.NoLimit, 1)
	require.NoError(t, err)
	_, err = q.Run(buildPayload())
	require.Error(t, err)
	require.True(t, perrors.Is(err, perrors.RecursionDepthExceeded))
}

func TestRecursionLimitSufficient(t *testing.T) {
	cat := buildCatalog(t)
	q, err := pbq.NewQueryWithRecursionLimit(cat, "test:test.Person:address.city", pbq.NoLimit, 2)
	require.NoError(t, err)
	rows, err := q.Run(buildPayload())
	require.NoError(t, err)
	require.Equal(t, []string{"NYC"}, rows)
}

func TestUnknownSetIsBadQuery(t *testing.T) {
	cat := buildCatalog(t)
	_, err := pbq.NewQuery(cat, "nope:test.Person:name", pbq.NoLimit)
	require.Error(t, err)
	require.True(t, perrors.Is(err, perrors.BadQuery))
}

func TestRepeatedFieldWithoutSelectorIsBadQuery(t *testing.T) {
	cat := buildCatalog(t)
	_, err := pbq.NewQuery(cat, "test:test.Person:scores", pbq.NoLimit)
	require.Error(t, err)
	require.True(t, perrors.Is(err, perrors.BadQuery))
}

func TestKeysSelectorOnNonMapIsBadQuery(t *testing.T) {
	cat := buildCatalog(t)
	_, err := pbq.NewQuery(cat, "test:test.Person:name|keys", pbq.NoLimit)
	require.Error(t, err)
	require.True(t, perrors.Is(err, perrors.BadQuery))
}
