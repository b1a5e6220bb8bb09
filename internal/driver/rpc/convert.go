package rpc

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/funvibe/funlint/internal/issue"
)

// encodeIssue builds a dynamic IssueMessage from ii. The rendered message
// text travels on the wire instead of the raw template arguments — the
// parent only needs it to re-sort and re-dedup the merged stream.
func (s *schema) encodeIssue(ii issue.IssueInstance) *dynamicpb.Message {
	msg := s.newIssueMessage()
	msg.Set(s.issueFields.file, protoreflect.ValueOfString(ii.File))
	msg.Set(s.issueFields.line, protoreflect.ValueOfInt32(int32(ii.Line)))
	msg.Set(s.issueFields.typeName, protoreflect.ValueOfString(ii.Issue.TypeName))
	msg.Set(s.issueFields.severity, protoreflect.ValueOfInt32(int32(ii.Issue.Severity)))
	msg.Set(s.issueFields.message, protoreflect.ValueOfString(ii.Render()))
	return msg
}

// decodeIssue rebuilds an IssueInstance from a received IssueMessage,
// looking the catalog Issue back up by its stable type name (issue.Lookup)
// so severity/category/remediation are the real catalog values rather
// than a copy flattened onto the wire. The already-rendered message is
// reattached as a single %s argument against a pass-through template, so
// Render() on the rebuilt instance reproduces the worker's exact text.
func (s *schema) decodeIssue(msg *dynamicpb.Message) issue.IssueInstance {
	file := msg.Get(s.issueFields.file).String()
	line := int(msg.Get(s.issueFields.line).Int())
	typeName := msg.Get(s.issueFields.typeName).String()
	rendered := msg.Get(s.issueFields.message).String()

	iss := issue.Lookup(typeName)
	if iss == nil {
		iss = &issue.Issue{TypeName: typeName, Template: "%s"}
	}
	passthrough := &issue.Issue{
		ID: iss.ID, TypeName: iss.TypeName, Category: iss.Category,
		Severity: iss.Severity, Template: "%s", Remediation: iss.Remediation,
	}
	return issue.New(passthrough, file, line, rendered)
}

func (s *schema) encodePartitionRequest(allFiles, ownedFiles []string) *dynamicpb.Message {
	msg := s.newPartitionRequest()
	appendStrings(msg, s.partitionFields.allFiles, allFiles)
	appendStrings(msg, s.partitionFields.ownedFiles, ownedFiles)
	return msg
}

func (s *schema) decodePartitionRequest(msg *dynamicpb.Message) (allFiles, ownedFiles []string) {
	return readStrings(msg, s.partitionFields.allFiles), readStrings(msg, s.partitionFields.ownedFiles)
}

func appendStrings(msg *dynamicpb.Message, fd protoreflect.FieldDescriptor, values []string) {
	list := msg.Mutable(fd).List()
	for _, v := range values {
		list.Append(protoreflect.ValueOfString(v))
	}
}

func readStrings(msg *dynamicpb.Message, fd protoreflect.FieldDescriptor) []string {
	list := msg.Get(fd).List()
	out := make([]string, list.Len())
	for i := 0; i < list.Len(); i++ {
		out[i] = list.Get(i).String()
	}
	return out
}
