package ast

import (
	"fmt"
	"strconv"
	"strings"
)

type Expr interface {
	Node
	isExpr()
}

func (*LiteralExpr) isExpr()     {}
func (*IdentExpr) isExpr()       {}
func (*BinaryExpr) isExpr()      {}
func (*UnaryExpr) isExpr()       {}
func (*CallExpr) isExpr()        {}
func (*TupleExpr) isExpr()       {}
func (*VectorExpr) isExpr()      {}
func (*FieldAccessExpr) isExpr() {}
func (*IndexExpr) isExpr()       {}
func (*FoldExpr) isExpr()        {}
func (*VariantExpr) isExpr()     {}
func (*EnumConstExpr) isExpr()   {}

type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	BoolLiteral
)

// LiteralExpr is a scalar literal. Integer literals carry no intrinsic width;
// the resolver assigns the narrowest scalar that holds the value, widening in
// context as needed.
type LiteralExpr struct {
	Pos      Position
	Kind     LiteralKind
	IntVal   int64
	FloatVal float64
	BoolVal  bool
}

// IdentExpr references a variable, the function input "in", or the function
// output "out".
type IdentExpr struct {
	Pos  Position
	Name string
}

type BinaryExpr struct {
	Pos   Position
	Op    string
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Pos     Position
	Op      string
	Operand Expr
}

// CallExpr calls a function with its single argument value.
type CallExpr struct {
	Pos    Position
	Callee Ident
	Arg    Expr
}

// TupleExpr constructs a tuple value field by field, in declared order.
type TupleExpr struct {
	Pos    Position
	Fields []*TupleExprField
}

type TupleExprField struct {
	Pos   Position
	Name  Ident
	Value Expr
}

// VectorExpr constructs a vector value element by element.
type VectorExpr struct {
	Pos   Position
	Elems []Expr
}

type FieldAccessExpr struct {
	Pos    Position
	Target Expr
	Field  Ident
}

type IndexExpr struct {
	Pos    Position
	Target Expr
	Index  Expr
}

type FoldOp int

const (
	FoldAll FoldOp = iota
	FoldNone
	FoldAny
)

func (op FoldOp) String() string {
	switch op {
	case FoldAll:
		return "ALL"
	case FoldNone:
		return "NONE"
	default:
		return "ANY"
	}
}

// FoldExpr reduces a boolean tuple or vector to a single bool.
type FoldExpr struct {
	Pos     Position
	Op      FoldOp
	Operand Expr
}

// VariantExpr constructs a sum-type value with the given tag and payload.
// Example: "direction.north(1)"
type VariantExpr struct {
	Pos     Position
	Type    Ident
	Tag     Ident
	Payload Expr
}

// EnumConstExpr references an enum tag as a value.
// Example: "weekday.monday"
type EnumConstExpr struct {
	Pos  Position
	Type Ident
	Tag  Ident
}

func (e *LiteralExpr) String() string {
	switch e.Kind {
	case IntLiteral:
		return strconv.FormatInt(e.IntVal, 10)
	case FloatLiteral:
		return strconv.FormatFloat(e.FloatVal, 'g', -1, 32)
	default:
		return strconv.FormatBool(e.BoolVal)
	}
}

func (e *IdentExpr) String() string { return e.Name }

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", e.Op, e.Operand.String())
}

func (e *CallExpr) String() string {
	return e.Callee.Value + "(" + e.Arg.String() + ")"
}

func (e *TupleExpr) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Name.Value + ": " + f.Value.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (f *TupleExprField) String() string { return f.Name.Value + ": " + f.Value.String() }

func (e *VectorExpr) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (e *FieldAccessExpr) String() string {
	return e.Target.String() + "." + e.Field.Value
}

func (e *IndexExpr) String() string {
	return e.Target.String() + "[" + e.Index.String() + "]"
}

func (e *FoldExpr) String() string {
	return e.Op.String() + "(" + e.Operand.String() + ")"
}

func (e *VariantExpr) String() string {
	return fmt.Sprintf("%s.%s(%s)", e.Type.Value, e.Tag.Value, e.Payload.String())
}

func (e *EnumConstExpr) String() string {
	return e.Type.Value + "." + e.Tag.Value
}
