package ir

import (
	"tact/internal/ast"
	"tact/internal/types"
)

// Expr is a typed expression.
type Expr interface {
	Type() types.Type
	ExprPos() ast.Position
	isExpr()
}

func (*IntLit) isExpr()      {}
func (*FloatLit) isExpr()    {}
func (*BoolLit) isExpr()     {}
func (*VarRef) isExpr()      {}
func (*Binary) isExpr()      {}
func (*Unary) isExpr()       {}
func (*Call) isExpr()        {}
func (*Cast) isExpr()        {}
func (*MakeTuple) isExpr()   {}
func (*MakeVector) isExpr()  {}
func (*FieldAccess) isExpr() {}
func (*Index) isExpr()       {}
func (*Fold) isExpr()        {}
func (*MakeVariant) isExpr() {}
func (*EnumConst) isExpr()   {}

// IntLit is an integer literal, typed with the narrowest scalar holding it
// or widened in context.
type IntLit struct {
	Pos   ast.Position
	T     types.Type
	Value int64
}

type FloatLit struct {
	Pos   ast.Position
	Value float64
}

type BoolLit struct {
	Pos   ast.Position
	Value bool
}

// VarRef reads a named binding: "in", "out", a local or a WITH binding.
type VarRef struct {
	Pos  ast.Position
	Name string
	T    types.Type
}

type Binary struct {
	Pos ast.Position
	Op  string
	L   Expr
	R   Expr
	T   types.Type
}

type Unary struct {
	Pos ast.Position
	Op  string
	X   Expr
	T   types.Type
}

// Call invokes a local or imported function with its single argument.
type Call struct {
	Pos      ast.Position
	Callee   string
	Arg      Expr
	T        types.Type
	Imported bool
}

// Cast is an implicit lossless widening inserted by the resolver.
type Cast struct {
	Pos ast.Position
	X   Expr
	T   types.Type
}

// MakeTuple constructs a tuple; Values follow the field order of T.
type MakeTuple struct {
	Pos    ast.Position
	Values []Expr
	T      *types.Tuple
}

type MakeVector struct {
	Pos   ast.Position
	Elems []Expr
	T     *types.Vector
}

// FieldAccess reads tuple field FieldIdx (named Field) of X.
type FieldAccess struct {
	Pos      ast.Position
	X        Expr
	Field    string
	FieldIdx int
	T        types.Type
}

type Index struct {
	Pos ast.Position
	X   Expr
	Idx Expr
	T   types.Type
}

// Fold reduces a boolean tuple or vector with ALL, NONE or ANY.
type Fold struct {
	Pos ast.Position
	Op  ast.FoldOp
	X   Expr
}

// MakeVariant constructs a sum-type value.
type MakeVariant struct {
	Pos     ast.Position
	Tag     string
	Payload Expr
	T       *types.Sum
}

// EnumConst is an enum tag used as a value.
type EnumConst struct {
	Pos   ast.Position
	Tag   string
	Value int64
	T     *types.Enum
}

func (e *IntLit) Type() types.Type      { return e.T }
func (e *FloatLit) Type() types.Type    { return types.TypeF32 }
func (e *BoolLit) Type() types.Type     { return types.TypeBool }
func (e *VarRef) Type() types.Type      { return e.T }
func (e *Binary) Type() types.Type      { return e.T }
func (e *Unary) Type() types.Type       { return e.T }
func (e *Call) Type() types.Type        { return e.T }
func (e *Cast) Type() types.Type        { return e.T }
func (e *MakeTuple) Type() types.Type   { return e.T }
func (e *MakeVector) Type() types.Type  { return e.T }
func (e *FieldAccess) Type() types.Type { return e.T }
func (e *Index) Type() types.Type       { return e.T }
func (e *Fold) Type() types.Type        { return types.TypeBool }
func (e *MakeVariant) Type() types.Type { return e.T }
func (e *EnumConst) Type() types.Type   { return e.T }

func (e *IntLit) ExprPos() ast.Position      { return e.Pos }
func (e *FloatLit) ExprPos() ast.Position    { return e.Pos }
func (e *BoolLit) ExprPos() ast.Position     { return e.Pos }
func (e *VarRef) ExprPos() ast.Position      { return e.Pos }
func (e *Binary) ExprPos() ast.Position      { return e.Pos }
func (e *Unary) ExprPos() ast.Position       { return e.Pos }
func (e *Call) ExprPos() ast.Position        { return e.Pos }
func (e *Cast) ExprPos() ast.Position        { return e.Pos }
func (e *MakeTuple) ExprPos() ast.Position   { return e.Pos }
func (e *MakeVector) ExprPos() ast.Position  { return e.Pos }
func (e *FieldAccess) ExprPos() ast.Position { return e.Pos }
func (e *Index) ExprPos() ast.Position       { return e.Pos }
func (e *Fold) ExprPos() ast.Position        { return e.Pos }
func (e *MakeVariant) ExprPos() ast.Position { return e.Pos }
func (e *EnumConst) ExprPos() ast.Position   { return e.Pos }

// ConstInt extracts a compile-time-constant integer from an expression:
// integer literals, enum constants, and casts thereof.
func ConstInt(e Expr) (int64, bool) {
	switch x := e.(type) {
	case *IntLit:
		return x.Value, true
	case *EnumConst:
		return x.Value, true
	case *Cast:
		return ConstInt(x.X)
	}
	return 0, false
}
