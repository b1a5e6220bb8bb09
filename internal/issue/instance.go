package issue

import "fmt"

// IssueInstance binds a catalog Issue to a source location and template
// arguments.
type IssueInstance struct {
	Issue *Issue
	File  string
	Line  int
	Args  []interface{}
}

// New builds an IssueInstance from a catalog entry.
func New(iss *Issue, file string, line int, args ...interface{}) IssueInstance {
	return IssueInstance{Issue: iss, File: file, Line: line, Args: args}
}

// Render formats the issue's printf-style template with its arguments.
// Rendering is otherwise the printer's job; this is the one piece of
// text the collector needs to deduplicate by message.
func (ii IssueInstance) Render() string {
	return fmt.Sprintf(ii.Issue.Template, ii.Args...)
}

// zeroPaddedLine renders a line number padded to 5 digits, the sort key
// width mandated by §8's "Issue ordering" property.
func zeroPaddedLine(line int) string {
	return fmt.Sprintf("%05d", line)
}
