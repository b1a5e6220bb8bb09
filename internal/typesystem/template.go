package typesystem

// WithTemplateParameterTypeMap substitutes every TemplateType member (and
// every TemplateType nested inside a ClassType's template arguments) with
// its concrete union from m, leaving identifiers absent from m untouched.
// Substitution is one shallow-deep pass: m is assumed to contain no nested
// template types, so a single walk suffices.
func (u UnionType) WithTemplateParameterTypeMap(m map[string]UnionType) UnionType {
	var out UnionType
	for _, t := range u.types {
		out = out.AddUnion(substituteType(t, m))
	}
	return out
}

func substituteType(t Type, m map[string]UnionType) UnionType {
	switch tt := t.(type) {
	case TemplateType:
		if repl, ok := m[tt.Identifier]; ok {
			return repl
		}
		return FromTypes(tt)
	case GenericArrayType:
		elem := substituteType(tt.Element, m)
		var out UnionType
		for _, e := range elem.Types() {
			out = out.AddType(GenericArrayType{Element: e})
		}
		return out
	case ClassType:
		if len(tt.TemplateParams) == 0 {
			return FromTypes(tt)
		}
		newParams := make([]UnionType, len(tt.TemplateParams))
		for i, p := range tt.TemplateParams {
			newParams[i] = p.WithTemplateParameterTypeMap(m)
		}
		return FromTypes(ClassType{Namespace: tt.Namespace, Name: tt.Name, TemplateParams: newParams})
	default:
		return FromTypes(t)
	}
}

// AsExpandedTypes walks every class-typed member's ancestor FQSENs
// transitively (cycle-safe), adding each ancestor as a member type. Used
// whenever a covariance check needs the full ancestor set rather than one
// direct parent.
func (u UnionType) AsExpandedTypes(ap ExpandedAncestorProvider) UnionType {
	out := u
	for _, t := range u.types {
		ct, ok := t.(ClassType)
		if !ok || ap == nil {
			continue
		}
		visited := map[string]bool{ct.String(): true}
		for _, a := range ap.ExpandedAncestors(ct, visited) {
			out = out.AddType(a)
		}
	}
	return out
}

// ExpandedAncestorProvider supplies the transitive ancestor closure of a
// class type, implemented by the codebase package.
type ExpandedAncestorProvider interface {
	ExpandedAncestors(ct ClassType, visited map[string]bool) []Type
}
