// Package issue implements the Issue catalog, IssueInstance values, the
// filter chain, and the buffering Collector described in §4.5.
package issue

// Category is a bitmask: an Issue may belong to more than one category.
type Category uint32

const (
	CategoryUndefined Category = 1 << iota
	CategoryTypeSafety
	CategoryAnalysis
	CategoryVariable
	CategoryRedefine
	CategoryDeprecated
	CategoryDeadCode
	CategoryGenerics
	CategoryCompatible
	CategorySyntax
	CategoryInternal
)

// Severity is a coarse three-level scale.
type Severity int

const (
	SeverityLow      Severity = 0
	SeverityNormal   Severity = 5
	SeverityCritical Severity = 10
)

// Remediation is a coarse difficulty-to-fix estimate, 0 (trivial) upward.
type Remediation int

// Issue is a catalog entry: a diagnostic class, not yet bound to a
// location.
type Issue struct {
	ID          int
	TypeName    string
	Category    Category
	Severity    Severity
	Template    string // printf-style
	Remediation Remediation
}

var registry = map[string]*Issue{}
var nextID = 1

func register(name string, cat Category, sev Severity, template string, rem Remediation) *Issue {
	iss := &Issue{ID: nextID, TypeName: name, Category: cat, Severity: sev, Template: template, Remediation: rem}
	nextID++
	registry[name] = iss
	return iss
}

// Lookup returns the catalog entry for a stable type name, or nil.
func Lookup(typeName string) *Issue { return registry[typeName] }

// All returns every registered Issue, useful for driver-side `--list-issue-types`.
func All() []*Issue {
	out := make([]*Issue, 0, len(registry))
	for _, v := range registry {
		out = append(out, v)
	}
	return out
}

// The catalog. Stable numeric ids are assigned in declaration order; do
// not reorder existing entries once released, only append.
var (
	UndeclaredExtendedClass = register("PhanUndeclaredExtendedClass", CategoryUndefined, SeverityCritical,
		"Class extends undeclared class %s", 5)
	UndeclaredInterface = register("PhanUndeclaredInterface", CategoryUndefined, SeverityCritical,
		"Class implements undeclared interface %s", 5)
	UndeclaredTrait = register("PhanUndeclaredTrait", CategoryUndefined, SeverityCritical,
		"Class uses undeclared trait %s", 5)
	UndeclaredVariable = register("PhanUndeclaredVariable", CategoryVariable, SeverityNormal,
		"Variable $%s is undeclared", 3)
	UndeclaredProperty = register("PhanUndeclaredProperty", CategoryUndefined, SeverityNormal,
		"Reference to undeclared property %s", 3)
	UndeclaredClassMethod = register("PhanUndeclaredClassMethod", CategoryUndefined, SeverityNormal,
		"Call to undeclared method %s", 3)
	UndeclaredFunction = register("PhanUndeclaredFunction", CategoryUndefined, SeverityNormal,
		"Call to undeclared function %s", 3)
	UndeclaredTypeParameter = register("PhanUndeclaredTypeParameter", CategoryUndefined, SeverityNormal,
		"Parameter of undeclared type %s", 4)
	UndeclaredReturnType = register("PhanUndeclaredReturnType", CategoryUndefined, SeverityNormal,
		"Return type of undeclared type %s", 4)

	TypeMismatchArgument = register("PhanTypeMismatchArgument", CategoryTypeSafety, SeverityNormal,
		"Argument %d (%s) is %s but %s() takes %s", 4)
	TypeMismatchArgumentInternal = register("PhanTypeMismatchArgumentInternal", CategoryTypeSafety, SeverityNormal,
		"Argument %d (%s) is %s but %s() takes %s", 4)
	TypeMismatchProperty = register("PhanTypeMismatchProperty", CategoryTypeSafety, SeverityNormal,
		"Assigning %s to property but %s is %s", 4)
	TypeMismatchReturn = register("PhanTypeMismatchReturn", CategoryTypeSafety, SeverityNormal,
		"Returning %s but %s() is declared to return %s", 4)
	TypeNonVarPassByRef = register("PhanTypeNonVarPassByRef", CategoryTypeSafety, SeverityNormal,
		"Only variables can be passed by reference at argument %d of %s()", 4)
	TypeArrayOperator = register("PhanTypeArrayOperator", CategoryTypeSafety, SeverityLow,
		"Invalid array operator between %s and %s", 2)
	TypeComparisonFromArray = register("PhanTypeComparisonFromArray", CategoryTypeSafety, SeverityLow,
		"Comparing an array to %s is weak and usually a bug", 2)

	ParamTooFew = register("PhanParamTooFew", CategoryTypeSafety, SeverityNormal,
		"Call with %d arg(s) to %s() which requires %d arg(s)", 3)
	ParamTooFewInternal = register("PhanParamTooFewInternal", CategoryTypeSafety, SeverityNormal,
		"Call with %d arg(s) to %s() which requires %d arg(s)", 3)
	ParamTooMany = register("PhanParamTooMany", CategoryTypeSafety, SeverityNormal,
		"Call with %d arg(s) to %s() which only takes %d arg(s)", 3)
	ParamTooManyInternal = register("PhanParamTooManyInternal", CategoryTypeSafety, SeverityNormal,
		"Call with %d arg(s) to %s() which only takes %d arg(s)", 3)
	ParamSpecial1 = register("PhanParamSpecial1", CategoryTypeSafety, SeverityNormal, "Argument %d (%s) of %s() must be of type %s", 3)
	ParamSpecial2 = register("PhanParamSpecial2", CategoryTypeSafety, SeverityNormal, "Argument %d (%s) of %s() must be of type %s when argument %d is %s", 3)
	ParamSpecial3 = register("PhanParamSpecial3", CategoryTypeSafety, SeverityNormal, "Argument %d (%s) of %s() must be an array of type %s", 3)
	ParamSpecial4 = register("PhanParamSpecial4", CategoryTypeSafety, SeverityNormal, "Argument %d (%s) of %s() must be callable", 3)

	TypeParentConstructorCalled = register("PhanTypeParentConstructorCalled", CategoryAnalysis, SeverityNormal,
		"Must call parent::__construct() from %s which extends %s", 5)

	ParamSignatureMismatch = register("PhanParamSignatureMismatch", CategoryCompatible, SeverityNormal,
		"Declaration of %s should be compatible with %s", 6)
	AccessSignatureMismatch = register("PhanAccessSignatureMismatch", CategoryCompatible, SeverityNormal,
		"Visibility of %s must be compatible with %s", 4)

	RedefineClass = register("PhanRedefineClass", CategoryRedefine, SeverityCritical,
		"%s defined more than once", 5)
	RedefineFunction = register("PhanRedefineFunction", CategoryRedefine, SeverityCritical,
		"%s defined more than once", 5)

	IncompatibleCompositionProp = register("PhanIncompatibleCompositionProp", CategoryCompatible, SeverityNormal,
		"Property %s conflicts with an inherited property of the same name", 4)
	IncompatibleCompositionMethod = register("PhanIncompatibleCompositionMethod", CategoryCompatible, SeverityNormal,
		"Method %s conflicts with an inherited method of the same name", 4)
	IncompatibleCompositionConst = register("PhanIncompatibleCompositionConst", CategoryCompatible, SeverityNormal,
		"Constant %s conflicts with an inherited constant of the same name", 4)

	UnreferencedClass = register("PhanUnreferencedClass", CategoryDeadCode, SeverityLow, "Possibly unreferenced class %s", 2)
	UnreferencedMethod = register("PhanUnreferencedMethod", CategoryDeadCode, SeverityLow, "Possibly unreferenced method %s", 2)
	UnreferencedProperty = register("PhanUnreferencedProperty", CategoryDeadCode, SeverityLow, "Possibly unreferenced property %s", 2)
	UnreferencedConstant = register("PhanUnreferencedConstant", CategoryDeadCode, SeverityLow, "Possibly unreferenced constant %s", 2)
	UnreferencedFunction = register("PhanUnreferencedFunction", CategoryDeadCode, SeverityLow, "Possibly unreferenced function %s", 2)

	DeprecatedFunction = register("PhanDeprecatedFunction", CategoryDeprecated, SeverityLow, "Call to deprecated function %s", 1)
	DeprecatedClass = register("PhanDeprecatedClass", CategoryDeprecated, SeverityLow, "Use of deprecated class %s", 1)
	DeprecatedProperty = register("PhanDeprecatedProperty", CategoryDeprecated, SeverityLow, "Use of deprecated property %s", 1)

	SyntaxError = register("PhanSyntaxError", CategorySyntax, SeverityCritical, "Syntax error: %s", 0)
	Unanalyzable = register("PhanUnanalyzable", CategoryInternal, SeverityLow, "Expression could not be analyzed: %s", 0)
)
