// Package rpc implements the worker subprocess transport the driver uses
// for multiprocess analysis (§5): a gRPC streaming service carrying
// dynamically-constructed protobuf messages built from an embedded
// .proto schema, the same jhump/protoreflect + google.golang.org/protobuf
// combination internal/signature uses to validate its own embedded
// resource, here extended to actually construct wire messages instead of
// just validating a schema against one.
package rpc

import (
	"embed"
	"fmt"

	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

//go:embed resources/worker.proto
var resources embed.FS

// schema bundles the protoreflect descriptors (message + field) needed to
// build and read dynamic messages for both RPC message types this
// service exchanges.
type schema struct {
	issueMessage protoreflect.MessageDescriptor
	issueFields  struct{ file, line, typeName, severity, message protoreflect.FieldDescriptor }

	partitionRequest protoreflect.MessageDescriptor
	partitionFields  struct{ allFiles, ownedFiles protoreflect.FieldDescriptor }
}

// loadSchema parses the embedded .proto with protoparse (exactly how
// internal/signature.schemaMessage loads its own embedded schema), then
// bridges jhump/protoreflect's descriptor model to the standard
// google.golang.org/protobuf one via protodesc so dynamicpb can build
// live messages from it.
func loadSchema() (*schema, error) {
	data, err := resources.ReadFile("resources/worker.proto")
	if err != nil {
		return nil, fmt.Errorf("rpc: reading schema: %w", err)
	}
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"worker.proto": string(data),
		}),
	}
	fds, err := parser.ParseFiles("worker.proto")
	if err != nil {
		return nil, fmt.Errorf("rpc: parsing schema: %w", err)
	}
	if len(fds) == 0 {
		return nil, fmt.Errorf("rpc: schema produced no file descriptor")
	}
	fdProto := fds[0].AsFileDescriptorProto()
	file, err := protodesc.NewFile(fdProto, nil)
	if err != nil {
		return nil, fmt.Errorf("rpc: bridging schema to protoreflect: %w", err)
	}

	s := &schema{}
	for i := 0; i < file.Messages().Len(); i++ {
		md := file.Messages().Get(i)
		switch md.Name() {
		case "IssueMessage":
			s.issueMessage = md
			s.issueFields.file = md.Fields().ByName("file")
			s.issueFields.line = md.Fields().ByName("line")
			s.issueFields.typeName = md.Fields().ByName("type_name")
			s.issueFields.severity = md.Fields().ByName("severity")
			s.issueFields.message = md.Fields().ByName("message")
		case "PartitionRequest":
			s.partitionRequest = md
			s.partitionFields.allFiles = md.Fields().ByName("all_files")
			s.partitionFields.ownedFiles = md.Fields().ByName("owned_files")
		}
	}
	if s.issueMessage == nil || s.partitionRequest == nil {
		return nil, fmt.Errorf("rpc: schema missing IssueMessage or PartitionRequest")
	}
	return s, nil
}

func (s *schema) newIssueMessage() *dynamicpb.Message { return dynamicpb.NewMessage(s.issueMessage) }

func (s *schema) newPartitionRequest() *dynamicpb.Message {
	return dynamicpb.NewMessage(s.partitionRequest)
}
