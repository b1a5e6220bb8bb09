// Package doccomment implements line-oriented parsing of doc-comments for
// @param, @var, @return, @template, @inherits, @deprecated, and @suppress
// tags (§4.2 "Doc-comment driven types"). Parse does not consult any
// Config, and the parse pass in package visit calls it for every
// declaration's doc-comment; the `read_type_annotations` setting (§6) is
// not read, so doc-comments are parsed whatever its value.
package doccomment

import (
	"strings"

	"github.com/funvibe/funlint/internal/typesystem"
)

// ParamTag is a parsed `@param T $name` entry.
type ParamTag struct {
	Type typesystem.UnionType
	Name string
}

// Comment is the structured result of parsing one doc-comment block.
type Comment struct {
	Params      []ParamTag
	Var         typesystem.UnionType
	HasVar      bool
	Return      typesystem.UnionType
	HasReturn   bool
	Templates   []string // @template identifiers, declaration order
	Inherits    []string // @inherits T (generic parent binding hints)
	Deprecated  bool
	Suppress    []string // @suppress IssueType, one or more per line
}

// Parse scans doc as a line-oriented doc-comment body (leading `/**`,
// trailing `*/`, and per-line ` * ` decoration already stripped or not —
// both are tolerated) and resolves every `T` type expression against
// resolver.
func Parse(doc string, resolver typesystem.NameResolver) Comment {
	var c Comment
	for _, raw := range strings.Split(doc, "\n") {
		line := stripLineDecoration(raw)
		if !strings.HasPrefix(line, "@") {
			continue
		}
		tag, rest := splitTag(line)
		switch tag {
		case "@param":
			typeStr, name := splitTypeAndVar(rest)
			ut, err := typesystem.FromStringInContext(typeStr, resolver)
			if err == nil {
				c.Params = append(c.Params, ParamTag{Type: ut, Name: name})
			}
		case "@var":
			typeStr, _ := splitTypeAndVar(rest)
			ut, err := typesystem.FromStringInContext(typeStr, resolver)
			if err == nil {
				c.Var = ut
				c.HasVar = true
			}
		case "@return":
			ut, err := typesystem.FromStringInContext(strings.TrimSpace(rest), resolver)
			if err == nil {
				c.Return = ut
				c.HasReturn = true
			}
		case "@template":
			id := strings.TrimSpace(strings.Fields(rest)[0])
			if id != "" {
				c.Templates = append(c.Templates, id)
			}
		case "@inherits":
			c.Inherits = append(c.Inherits, strings.TrimSpace(rest))
		case "@deprecated":
			c.Deprecated = true
		case "@suppress":
			for _, f := range strings.Fields(rest) {
				c.Suppress = append(c.Suppress, f)
			}
		}
	}
	return c
}

func stripLineDecoration(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "/**")
	line = strings.TrimPrefix(line, "/*")
	line = strings.TrimSuffix(line, "*/")
	line = strings.TrimPrefix(line, "*")
	return strings.TrimSpace(line)
}

func splitTag(line string) (tag, rest string) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], fields[1]
}

// splitTypeAndVar splits "T $name" into ("T", "name"); if no `$name`
// suffix is present, name is "".
func splitTypeAndVar(rest string) (typeStr, name string) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", ""
	}
	typeStr = fields[0]
	if len(fields) > 1 && strings.HasPrefix(fields[1], "$") {
		name = strings.TrimPrefix(fields[1], "$")
	}
	return typeStr, name
}
