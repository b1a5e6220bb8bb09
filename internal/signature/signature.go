// Package signature implements the bundled built-in function/superglobal
// signature map consulted by UnionTypeVisitor's function-call inference
// (§4.3.2): "internal functions whose union type is empty are looked up
// in a bundled signature map keyed by function FQSEN." The bundle ships
// as embedded JSON data, validated at load time against a schema
// described by an embedded .proto — loaded dynamically with
// jhump/protoreflect the same way the teacher's grpc builtins load
// runtime .proto descriptors, so the shape of the signature bundle can be
// revisioned without a Go recompile.
package signature

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"

	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/typesystem"
)

//go:embed resources/signatures.proto resources/signatures.json
var resources embed.FS

// ParamSig is one parameter of a bundled signature.
type ParamSig struct {
	Name       string
	Type       typesystem.UnionType
	ByRef      bool
	HasDefault bool
}

// FuncSig is a bundled function or superglobal signature.
type FuncSig struct {
	FQSEN    *fqsen.FQSEN
	Params   []ParamSig
	Return   typesystem.UnionType
	Variadic bool
}

// Bundle is the loaded signature map, keyed by canonical FQSEN string
// (e.g. `\strlen`).
type Bundle struct {
	byFQSEN map[string]*FuncSig
}

// Lookup returns the bundled signature for f, if any.
func (b *Bundle) Lookup(f *fqsen.FQSEN) (*FuncSig, bool) {
	if b == nil {
		return nil, false
	}
	sig, ok := b.byFQSEN[f.String()]
	return sig, ok
}

// jsonParam/jsonFunc/jsonBundle mirror resources/signatures.json's shape.
type jsonParam struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ByRef      bool   `json:"by_ref"`
	HasDefault bool   `json:"has_default"`
}

type jsonFunc struct {
	FQSEN      string      `json:"fqsen"`
	Params     []jsonParam `json:"params"`
	ReturnType string      `json:"return_type"`
	Variadic   bool        `json:"variadic"`
}

type jsonBundle struct {
	Functions []jsonFunc `json:"functions"`
}

// rootResolver resolves every bare type name against the root namespace;
// the signature bundle's type strings never reference `use`-aliased
// names, so no richer resolver is needed.
type rootResolver struct{}

func (rootResolver) ResolveClassName(name string) (string, string) { return "", name }

// schemaMessage returns the `BuiltinFunction` message descriptor from the
// embedded .proto, parsed with protoreflect the way the teacher's
// grpcLoadProto builtin parses a user-supplied .proto at runtime. Load
// uses this purely to validate that the JSON resource's required fields
// match the schema on file — a mismatch there means the two embedded
// resources drifted apart.
func schemaMessage() (*desc.MessageDescriptor, error) {
	protoSrc, err := resources.ReadFile("resources/signatures.proto")
	if err != nil {
		return nil, fmt.Errorf("signature: reading schema: %w", err)
	}
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"signatures.proto": string(protoSrc),
		}),
	}
	fds, err := parser.ParseFiles("signatures.proto")
	if err != nil {
		return nil, fmt.Errorf("signature: parsing schema: %w", err)
	}
	if len(fds) == 0 {
		return nil, fmt.Errorf("signature: schema produced no file descriptor")
	}
	md := fds[0].FindMessage("funlint.signature.BuiltinFunction")
	if md == nil {
		return nil, fmt.Errorf("signature: schema missing BuiltinFunction message")
	}
	return md, nil
}

func validateAgainstSchema(md *desc.MessageDescriptor, fn jsonFunc) error {
	for _, want := range []string{"fqsen", "return_type"} {
		if md.FindFieldByName(want) == nil {
			return fmt.Errorf("signature: schema drift: field %q absent from BuiltinFunction", want)
		}
	}
	if fn.FQSEN == "" {
		return fmt.Errorf("signature: entry missing required field fqsen")
	}
	return nil
}

// Load parses the embedded JSON resource, validating it against the
// embedded proto schema, and resolves every type-expression string
// through typesystem.FromStringInContext.
func Load() (*Bundle, error) {
	md, err := schemaMessage()
	if err != nil {
		return nil, err
	}
	data, err := resources.ReadFile("resources/signatures.json")
	if err != nil {
		return nil, fmt.Errorf("signature: reading data: %w", err)
	}
	var jb jsonBundle
	if err := json.Unmarshal(data, &jb); err != nil {
		return nil, fmt.Errorf("signature: parsing data: %w", err)
	}

	b := &Bundle{byFQSEN: map[string]*FuncSig{}}
	for _, fn := range jb.Functions {
		if err := validateAgainstSchema(md, fn); err != nil {
			return nil, err
		}
		sig, err := buildSig(fn)
		if err != nil {
			return nil, err
		}
		b.byFQSEN[sig.FQSEN.String()] = sig
	}
	return b, nil
}

func buildSig(fn jsonFunc) (*FuncSig, error) {
	namespace, name := splitFQSEN(fn.FQSEN)
	ret, err := typesystem.FromStringInContext(fn.ReturnType, rootResolver{})
	if err != nil {
		return nil, fmt.Errorf("signature: %s: return type: %w", fn.FQSEN, err)
	}
	params := make([]ParamSig, len(fn.Params))
	for i, p := range fn.Params {
		pt, err := typesystem.FromStringInContext(p.Type, rootResolver{})
		if err != nil {
			return nil, fmt.Errorf("signature: %s: param %s: %w", fn.FQSEN, p.Name, err)
		}
		params[i] = ParamSig{Name: p.Name, Type: pt, ByRef: p.ByRef, HasDefault: p.HasDefault}
	}
	return &FuncSig{
		FQSEN:    fqsen.NewFunction(namespace, name),
		Params:   params,
		Return:   ret,
		Variadic: fn.Variadic,
	}, nil
}

func splitFQSEN(raw string) (namespace, name string) {
	s := raw
	if len(s) > 0 && s[0] == '\\' {
		s = s[1:]
	}
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			last = i + 1
		}
	}
	return s[:max(0, last-1)], s[last:]
}
