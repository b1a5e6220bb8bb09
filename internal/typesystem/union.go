package typesystem

import "strings"

// UnionType is an unordered set of Types: "any of these". The zero value
// is the empty union.
type UnionType struct {
	types []Type
}

// Empty returns the empty union type.
func Empty() UnionType { return UnionType{} }

// FromTypes builds a union from the given types, deduplicating structurally
// equal entries.
func FromTypes(ts ...Type) UnionType {
	var u UnionType
	for _, t := range ts {
		u = u.AddType(t)
	}
	return u
}

// IsEmpty reports whether the union has no member types.
func (u UnionType) IsEmpty() bool { return len(u.types) == 0 }

// Types returns the member types. Callers must not mutate the slice.
func (u UnionType) Types() []Type { return u.types }

// HasType reports structural membership.
func (u UnionType) HasType(t Type) bool {
	for _, e := range u.types {
		if e.Equal(t) {
			return true
		}
	}
	return false
}

// HasTemplateType reports whether any member is an unsubstituted template
// identifier (directly, or nested inside a class type's template args).
func (u UnionType) HasTemplateType() bool {
	for _, t := range u.types {
		if hasTemplateType(t) {
			return true
		}
	}
	return false
}

func hasTemplateType(t Type) bool {
	switch tt := t.(type) {
	case TemplateType:
		return true
	case GenericArrayType:
		return hasTemplateType(tt.Element)
	case ClassType:
		for _, p := range tt.TemplateParams {
			if p.HasTemplateType() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// HasStaticType reports whether the `static` pseudo-type is a member.
func (u UnionType) HasStaticType() bool {
	return u.HasType(NativeType{Static})
}

// AddType returns a new union with t added (no-op if already present).
func (u UnionType) AddType(t Type) UnionType {
	if t == nil || u.HasType(t) {
		return u
	}
	out := make([]Type, len(u.types), len(u.types)+1)
	copy(out, u.types)
	out = append(out, t)
	return UnionType{types: out}
}

// AddUnion returns the union of u and o.
func (u UnionType) AddUnion(o UnionType) UnionType {
	result := u
	for _, t := range o.types {
		result = result.AddType(t)
	}
	return result
}

// RemoveType returns a new union with every member structurally equal to t
// removed.
func (u UnionType) RemoveType(t Type) UnionType {
	out := make([]Type, 0, len(u.types))
	for _, e := range u.types {
		if !e.Equal(t) {
			out = append(out, e)
		}
	}
	return UnionType{types: out}
}

// AsGenericArrayTypes wraps each member as the element type of a T[].
func (u UnionType) AsGenericArrayTypes() UnionType {
	var out UnionType
	for _, t := range u.types {
		out = out.AddType(GenericArrayType{Element: t})
	}
	return out
}

// GenericArrayElementTypes unwraps each T[] member to T; a bare `array`
// member contributes `mixed`; non-array members contribute nothing.
func (u UnionType) GenericArrayElementTypes() UnionType {
	var out UnionType
	for _, t := range u.types {
		switch tt := t.(type) {
		case GenericArrayType:
			out = out.AddType(tt.Element)
		case NativeType:
			if tt.Kind == Array {
				out = out.AddType(NativeType{Mixed})
			}
		}
	}
	return out
}

func (u UnionType) String() string {
	if len(u.types) == 0 {
		return ""
	}
	parts := make([]string, len(u.types))
	for i, t := range u.types {
		parts[i] = t.String()
	}
	return strings.Join(parts, "|")
}

// Equal reports set equality (order-independent).
func (u UnionType) Equal(o UnionType) bool {
	if len(u.types) != len(o.types) {
		return false
	}
	for _, t := range u.types {
		if !o.HasType(t) {
			return false
		}
	}
	return true
}
