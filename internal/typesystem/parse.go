package typesystem

import (
	"fmt"
	"strings"
)

// NameResolver resolves a bare or namespaced class name written in source
// or doc-comment text to its canonical (namespace, name) pair, consulting
// the surrounding context's namespace-use map. Implemented by scope.Context
// to avoid an import cycle between typesystem and scope.
type NameResolver interface {
	ResolveClassName(name string) (namespace, shortName string)
}

var nativeNames = map[string]NativeKind{
	"array":    Array,
	"bool":     Bool,
	"boolean":  Bool,
	"callable": Callable,
	"float":    Float,
	"double":   Float,
	"int":      Int,
	"integer":  Int,
	"null":     Null,
	"void":     Void,
	"object":   Object,
	"string":   String,
	"mixed":    Mixed,
	"resource": Resource,
	"static":   Static,
	"self":     Static,
	"$this":    Static,
}

// FromStringInContext parses a `|`-delimited union-type expression such as
// "int|string[]|\Foo\Bar" into a UnionType, resolving unqualified class
// names through resolver. Each `|`-separated piece is either `T[]` (wrapped
// as a generic array), a recognized native keyword, or a class name.
func FromStringInContext(s string, resolver NameResolver) (UnionType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty(), nil
	}
	var out UnionType
	for _, piece := range splitTopLevelPipe(s) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		t, err := parseOneType(piece, resolver)
		if err != nil {
			return Empty(), err
		}
		out = out.AddType(t)
	}
	return out, nil
}

// splitTopLevelPipe splits on `|` that is not nested inside `<...>`
// (template-parameter lists may themselves contain unions).
func splitTopLevelPipe(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseOneType(piece string, resolver NameResolver) (Type, error) {
	if strings.HasSuffix(piece, "[]") {
		elem, err := parseOneType(strings.TrimSuffix(piece, "[]"), resolver)
		if err != nil {
			return nil, err
		}
		return GenericArrayType{Element: elem}, nil
	}
	lower := strings.ToLower(piece)
	if nk, ok := nativeNames[lower]; ok {
		return NativeType{Kind: nk}, nil
	}
	if name, generics, ok := splitGenericSuffix(piece); ok {
		ns, short := resolver.ResolveClassName(name)
		params := make([]UnionType, len(generics))
		for i, g := range generics {
			ut, err := FromStringInContext(g, resolver)
			if err != nil {
				return nil, err
			}
			params[i] = ut
		}
		return ClassType{Namespace: ns, Name: short, TemplateParams: params}, nil
	}
	ns, short := resolver.ResolveClassName(piece)
	return ClassType{Namespace: ns, Name: short}, nil
}

// splitGenericSuffix recognizes `Name<A,B>` and splits the comma-separated
// argument list at the top level (commas nested inside further `<...>`
// are not split).
func splitGenericSuffix(piece string) (name string, args []string, ok bool) {
	open := strings.IndexByte(piece, '<')
	if open < 0 || !strings.HasSuffix(piece, ">") {
		return "", nil, false
	}
	name = piece[:open]
	inner := piece[open+1 : len(piece)-1]
	depth := 0
	start := 0
	for i, r := range inner {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, inner[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, inner[start:])
	return name, args, true
}

// ParseTemplateType parses a bare `@template T` identifier into a
// TemplateType, without resolver involvement.
func ParseTemplateType(identifier string) (TemplateType, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return TemplateType{}, fmt.Errorf("typesystem: empty template identifier")
	}
	return TemplateType{Identifier: identifier}, nil
}
