package scope

import "github.com/funvibe/funlint/internal/typesystem"

// Superglobals returns the hard-coded union types for variables the
// analyzer must treat as always defined, regardless of scope (§6).
func Superglobals() map[string]typesystem.UnionType {
	str := typesystem.NativeType{Kind: typesystem.String}
	strArr := typesystem.GenericArrayType{Element: str}
	strArrArr := typesystem.GenericArrayType{Element: strArr}
	intArr := typesystem.GenericArrayType{Element: typesystem.NativeType{Kind: typesystem.Int}}
	intArrArr := typesystem.GenericArrayType{Element: intArr}
	intArrArrArr := typesystem.GenericArrayType{Element: intArrArr}
	strArrArrArr := typesystem.GenericArrayType{Element: strArrArr}
	arr := typesystem.NativeType{Kind: typesystem.Array}
	null := typesystem.NativeType{Kind: typesystem.Null}

	return map[string]typesystem.UnionType{
		"argv":                  typesystem.FromTypes(strArr),
		"argc":                  typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int}),
		"_GET":                  typesystem.FromTypes(strArr, strArrArr),
		"_POST":                 typesystem.FromTypes(strArr, strArrArr),
		"_COOKIE":               typesystem.FromTypes(strArr, strArrArr),
		"_REQUEST":              typesystem.FromTypes(strArr, strArrArr),
		"_SERVER":               typesystem.FromTypes(arr),
		"_SESSION":              typesystem.FromTypes(arr),
		"GLOBALS":               typesystem.FromTypes(arr),
		"_ENV":                  typesystem.FromTypes(strArr),
		"_FILES":                typesystem.FromTypes(intArrArr, strArrArr, intArrArrArr, strArrArrArr),
		"http_response_header":  typesystem.FromTypes(strArr, null),
	}
}

// IsSuperglobal reports whether name is one of the hard-coded superglobal
// variables (without consulting config's runkit_superglobals extension
// list; callers should check that separately).
func IsSuperglobal(name string) bool {
	_, ok := Superglobals()[name]
	return ok
}
