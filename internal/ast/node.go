// Package ast defines the generic AST node shape the core consumes (§6):
// each node carries a kind, a flag bitfield, either named or ordered
// children, a line number, and an optional doc-comment. The parser that
// produces this AST is an external collaborator (§1); this package only
// describes the shape visitors walk.
package ast

// Kind enumerates every node kind the core's visitors know how to
// dispatch on. A default arm handling unknown kinds always yields an
// empty union type (§9 "enum + match").
type Kind int

const (
	KindInvalid Kind = iota

	// Declarations (named children; ParseVisitor reads these).
	KindProgram
	KindNamespace
	KindUse        // single `use`; Value = UseKind-tagged spec, Children["name"], Children["alias"]
	KindGroupUse   // Children["prefix"], List of KindUse
	KindDeclare    // Value holds the directive name, e.g. "strict_types"
	// KindClassDecl/KindInterfaceDecl/KindTraitDecl: Children["name"] (raw
	// source name, KindNameIdentifier), Children["extends"] (optional, a
	// single name for classes, a List-bearing node for interfaces which
	// may extend several), Children["implements"] (List of names),
	// Children["uses"] (List of trait names), Children["body"] (List of
	// KindMethodDecl/KindPropertyDecl/KindClassConstDecl). Flags carries
	// FlagAbstract/FlagFinal. Doc carries the class's own doc-comment.
	KindClassDecl
	KindInterfaceDecl
	KindTraitDecl
	// KindMethodDecl/KindFunctionDecl/KindClosureDecl: Children["name"],
	// Children["params"] (List of KindParam), Children["returnType"]
	// (optional, Value = union-type source text), Children["body"]
	// (KindBlock). Flags carries visibility/FlagStatic/FlagAbstract/
	// FlagReturnsRef. Doc carries the doc-comment (@param/@return/@template).
	KindMethodDecl
	KindFunctionDecl
	KindClosureDecl
	// KindPropertyDecl: Children["name"] (Value = bare name, no sigil),
	// Children["type"] (optional declared type text), Children["default"]
	// (optional expression). Flags carries visibility/FlagStatic.
	KindPropertyDecl
	// KindClassConstDecl/KindGlobalConstDecl: Children["name"], Children["value"].
	KindClassConstDecl
	KindGlobalConstDecl
	// KindParam: Value = bare parameter name. Children["type"] (optional
	// declared type text), Children["default"] (optional expression).
	// Flags carries FlagByRef/FlagVariadic/FlagHasDefault.
	KindParam

	// Statements (ordered List children).
	KindBlock
	KindExprStmt
	KindIf
	KindTry
	KindCatch
	KindForeach
	KindFor
	KindWhile
	KindEcho
	KindReturn
	KindGlobalStmt

	// Expressions.
	KindVar
	KindBinaryOp
	KindUnaryOp
	KindConditional // ternary
	KindCoalesce
	KindArrayLit
	KindCast
	KindNew
	KindInstanceof
	KindClone
	KindIncDec
	KindPropAccess
	KindStaticPropAccess
	KindMethodCall
	KindStaticCall
	KindFuncCall
	KindAssign
	KindAssignRef
	KindAssignDim
	KindListAssign
	KindClassConstFetch
	KindNameIdentifier
	KindYield // Children["value"] optional; presence anywhere in a body sets FlagYields on its enclosing Method/Func

	// Literals.
	KindLiteralInt
	KindLiteralFloat
	KindLiteralString
	KindLiteralBool
	KindLiteralNull
)

// Flags is a bitfield carried on declaration and a few expression nodes.
type Flags uint32

const (
	FlagByRef Flags = 1 << iota
	FlagVariadic
	FlagStatic
	FlagAbstract
	FlagFinal
	FlagPublic
	FlagProtected
	FlagPrivate
	FlagReturnsRef
	FlagYields
	FlagHasDefault
	FlagIsDim        // for AssignDim: the LHS is an array-dim write
	FlagIsPre        // for IncDec: pre vs post
	FlagIsInc        // for IncDec: increment vs decrement
	FlagConstant     // for ConstantDeclaration-like bindings (:- immutability)
	FlagSpread       // call-site `...$args` unpack
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Node is the single generic AST node type every visitor switches on.
type Node struct {
	Kind     Kind
	Flags    Flags
	Line     int
	Doc      string // raw doc-comment text attached to this node, "" if none
	Value    interface{}
	Children map[string]*Node
	List     []*Node
}

// New creates a bare node of the given kind at line.
func New(kind Kind, line int) *Node {
	return &Node{Kind: kind, Line: line}
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.Children == nil {
		return nil
	}
	return n.Children[name]
}

// WithChild sets a named child and returns the receiver (builder style,
// used by test fixtures constructing ASTs by hand).
func (n *Node) WithChild(name string, child *Node) *Node {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	n.Children[name] = child
	return n
}

// WithList appends to the ordered child list and returns the receiver.
func (n *Node) WithList(children ...*Node) *Node {
	n.List = append(n.List, children...)
	return n
}

// StringValue type-asserts Value to string, returning "" otherwise.
func (n *Node) StringValue() string {
	if n == nil {
		return ""
	}
	s, _ := n.Value.(string)
	return s
}
