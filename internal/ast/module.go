package ast

// Module is the declaration tree for one compilation unit, as handed over by
// the external parser: type definitions, module variables, function headers
// with their bodies and annotations, and linker-imported function signatures.
type Module struct {
	Pos       Position
	Name      Ident
	TypeDefs  []*TypeDef
	Vars      []*VarDecl
	Functions []*Function
	Imports   []*ImportedFunction
}

// TypeDef binds a name to a type expression. Resolution of the right-hand
// side happens in the resolver; the parser only guarantees shape.
// Example: "type point: (x: i16, y: i16)"
type TypeDef struct {
	Pos  Position
	Name Ident
	Expr TypeExpr
}

// VarDecl declares a variable with an explicit type, an initializer
// expression, or both. A declaration with only an initializer gets its type
// inferred by the resolver.
type VarDecl struct {
	Pos  Position
	Name Ident
	Type TypeExpr // nil when inferred from Init
	Init Expr     // nil when zero-initialized from Type
}

// Function is a single function declaration. Every function takes exactly one
// input value (bound to "in") and produces exactly one output value (bound to
// "out"); tuples and vectors simulate multiplicity.
type Function struct {
	Pos       Position
	Name      Ident
	Input     TypeExpr
	Output    TypeExpr
	Body      Instruction
	Pure      bool // @pure: output depends only on input
	NoDiscard bool // @nodiscard: call results must be consumed
	Const     bool // @const: must fold at compile time; implies @pure
}

// ImportedFunction is an opaque call-graph leaf provided by the external
// module linker, arriving with its purity flag and finalized step bound.
type ImportedFunction struct {
	Pos    Position
	Name   Ident
	Input  TypeExpr
	Output TypeExpr
	Pure   bool
	Bound  int
}
