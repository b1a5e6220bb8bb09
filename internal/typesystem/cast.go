package typesystem

// AncestorProvider lets the type system answer "is class A an ancestor of
// class B" without importing the codebase package, breaking the natural
// import cycle (codebase needs Type, cast needs the class hierarchy).
type AncestorProvider interface {
	// IsAncestor reports whether `ancestor` is `child` itself or one of its
	// transitively imported interfaces/traits/parents.
	IsAncestor(child, ancestor ClassType) bool
}

// nativeCoercions is the built-in coercion table: key casts to every
// NativeKind in its value set.
var nativeCoercions = map[NativeKind][]NativeKind{
	Null:     {Bool, Int, Float, String, Array, Object, Callable, Resource, Mixed, Void, Static},
	Int:      {Float, String, Bool},
	Float:    {Int, String, Bool},
	Bool:     {String, Int, Float},
	String:   {Bool},
	Resource: {},
}

func nativeCanCastTo(l, r NativeKind) bool {
	if l == r {
		return true
	}
	if l == Mixed || r == Mixed {
		return true
	}
	for _, to := range nativeCoercions[l] {
		if to == r {
			return true
		}
	}
	return false
}

// CanCastToUnion reports whether l can cast to some member of r, per the
// lattice in §4.2: structural equality, mixed on either side, native
// coercion, class ancestry (ap may be nil if no class-ancestry check is
// needed), and recursive element-type matching for generic arrays.
func CanCastToUnion(l Type, r UnionType, ap AncestorProvider) bool {
	if lNative, ok := l.(NativeType); ok && lNative.Kind == Mixed {
		return true
	}
	for _, rt := range r.Types() {
		if canCastToType(l, rt, ap) {
			return true
		}
	}
	return false
}

func canCastToType(l, r Type, ap AncestorProvider) bool {
	if l.Equal(r) {
		return true
	}
	if rn, ok := r.(NativeType); ok && rn.Kind == Mixed {
		return true
	}
	if ln, ok := l.(NativeType); ok && ln.Kind == Mixed {
		return true
	}
	switch lt := l.(type) {
	case NativeType:
		if rt, ok := r.(NativeType); ok {
			return nativeCanCastTo(lt.Kind, rt.Kind)
		}
		return false
	case ClassType:
		rt, ok := r.(ClassType)
		if !ok {
			return false
		}
		if ap != nil && ap.IsAncestor(lt, rt) {
			return true
		}
		return false
	case GenericArrayType:
		rt, ok := r.(GenericArrayType)
		if !ok {
			if rn, ok2 := r.(NativeType); ok2 && rn.Kind == Array {
				return true
			}
			return false
		}
		return canCastToType(lt.Element, rt.Element, ap)
	case CallableType:
		_, ok := r.(CallableType)
		return ok
	case TemplateType:
		if rt, ok := r.(TemplateType); ok {
			return rt.Identifier == lt.Identifier
		}
		return false
	default:
		return false
	}
}

// UnionCanCastToUnion reports whether every member of l can cast to some
// member of r, the overall union-to-union relation used at call sites.
func UnionCanCastToUnion(l, r UnionType, ap AncestorProvider) bool {
	if l.IsEmpty() {
		return true
	}
	for _, lt := range l.Types() {
		if !CanCastToUnion(lt, r, ap) {
			return false
		}
	}
	return true
}
