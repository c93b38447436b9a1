package ir

import (
	"tact/internal/ast"
	"tact/internal/types"
)

// Instr is one typed instruction of a function body.
type Instr interface {
	InstrPos() ast.Position
	isInstr()
}

func (*Block) isInstr()    {}
func (*Set) isInstr()      {}
func (*If) isInstr()       {}
func (*For) isInstr()      {}
func (*While) isInstr()    {}
func (*Match) isInstr()    {}
func (*ExprStmt) isInstr() {}

func (b *Block) InstrPos() ast.Position    { return b.Pos }
func (s *Set) InstrPos() ast.Position      { return s.Pos }
func (s *If) InstrPos() ast.Position       { return s.Pos }
func (s *For) InstrPos() ast.Position      { return s.Pos }
func (s *While) InstrPos() ast.Position    { return s.Pos }
func (s *Match) InstrPos() ast.Position    { return s.Pos }
func (s *ExprStmt) InstrPos() ast.Position { return s.Pos }

// Block is a scope: local definitions followed by instructions.
type Block struct {
	Pos   ast.Position
	Vars  []*VarDef
	Items []Instr
}

// VarDef is a typed local variable. Init is nil for zero-initialized
// declarations.
type VarDef struct {
	Pos  ast.Position
	Name string
	Type types.Type
	Init Expr
}

// Set is a simultaneous assignment: WITH bindings evaluate
// last-declared-to-first, sources evaluate against the pre-block binding
// table, targets commit atomically as one step.
type Set struct {
	Pos     ast.Position
	With    []*WithDef
	Entries []*SetEntry
}

type WithDef struct {
	Pos   ast.Position
	Name  string
	Type  types.Type
	Value Expr
}

type SetEntry struct {
	Pos    ast.Position
	Target Expr // VarRef, FieldAccess or Index
	Value  Expr
}

// If is an ordered condition chain with an optional '_' default.
type If struct {
	Pos     ast.Position
	Arms    []*IfArm
	Default Instr
}

type IfArm struct {
	Pos  ast.Position
	Cond Expr
	Body Instr
}

// For iterates Var over the constant integer range [From, To).
type For struct {
	Pos  ast.Position
	Var  string
	From Expr
	To   Expr
	Body Instr
}

// While iterates while Cond holds. MaxIter is the iteration bound proven by
// the step-bound analyzer; the evaluator treats exceeding it as a compiler
// bug, never as program behavior.
type While struct {
	Pos     ast.Position
	Cond    Expr
	Body    Instr
	MaxIter int
}

// Match selects the first arm matching the scrutinee in declared order.
type Match struct {
	Pos       ast.Position
	Scrutinee Expr
	Arms      []*MatchArm
	Default   Instr
}

// MatchArm matches a sum variant or enum tag by name, or an integer value.
// Binder names the payload binding for variant arms, empty otherwise.
type MatchArm struct {
	Pos      ast.Position
	Tag      string
	IntValue *int64
	Binder   string
	Body     Instr
}

// ExprStmt evaluates X and discards the result.
type ExprStmt struct {
	Pos ast.Position
	X   Expr
}
