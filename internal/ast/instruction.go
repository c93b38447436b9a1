package ast

import (
	"fmt"
	"strings"
)

// Instruction is one statement of a function body. A function body is a
// single top-level Instruction, usually a Block.
type Instruction interface {
	Node
	isInstruction()
}

func (*Block) isInstruction()     {}
func (*SetStmt) isInstruction()   {}
func (*IfStmt) isInstruction()    {}
func (*ForStmt) isInstruction()   {}
func (*WhileStmt) isInstruction() {}
func (*MatchStmt) isInstruction() {}
func (*ExprStmt) isInstruction()  {}

// Block is a sequence of local declarations followed by instructions. Each
// declared variable may reference only previously declared names in the same
// block plus the function input.
type Block struct {
	Pos   Position
	Vars  []*VarDecl
	Items []Instruction
}

// SetStmt is a simultaneous assignment. All WITH sub-bindings evaluate first,
// strictly last-declared-to-first-declared; all right-hand sides then
// evaluate against the pre-block binding table; all targets commit atomically
// as one step. "SET a: b, b: a END" is therefore a true swap.
type SetStmt struct {
	Pos     Position
	With    []*WithBinding
	Entries []*SetEntry
}

type WithBinding struct {
	Pos   Position
	Name  Ident
	Value Expr
}

type SetEntry struct {
	Pos    Position
	Target Expr // IdentExpr, FieldAccessExpr or IndexExpr
	Value  Expr
}

// IfStmt is an ordered condition chain. The first true condition's
// instruction runs; Default is the "_" arm, nil when absent.
type IfStmt struct {
	Pos     Position
	Arms    []*IfArm
	Default Instruction
}

type IfArm struct {
	Pos  Position
	Cond Expr
	Body Instruction
}

// ForStmt iterates the bound symbol over an integer range. Both range
// expressions must be compile-time constants for the step bound to exist.
type ForStmt struct {
	Pos  Position
	Var  Ident
	From Expr
	To   Expr
	Body Instruction
}

// WhileStmt iterates while the guard holds. The step-bound analyzer must
// prove a constant iteration bound or compilation fails.
type WhileStmt struct {
	Pos  Position
	Cond Expr
	Body Instruction
}

// MatchStmt selects the first arm whose pattern matches the scrutinee, in
// declared order. Default is the "_" catch-all, nil when absent.
type MatchStmt struct {
	Pos       Position
	Scrutinee Expr
	Arms      []*MatchArm
	Default   Instruction
}

type MatchArm struct {
	Pos     Position
	Pattern *Pattern
	Body    Instruction
}

// Pattern matches a sum variant or enum tag by name, or an integer literal.
// Binder, when present, receives a variant's carried payload.
type Pattern struct {
	Pos      Position
	Tag      string // variant or enum tag; empty for integer patterns
	Binder   *Ident // payload binding for variant patterns
	IntValue *int64 // integer literal patterns
}

// ExprStmt evaluates an expression for its effect, discarding the result.
type ExprStmt struct {
	Pos  Position
	Expr Expr
}

func (b *Block) String() string {
	parts := make([]string, 0, len(b.Vars)+len(b.Items))
	for _, v := range b.Vars {
		parts = append(parts, v.String())
	}
	for _, item := range b.Items {
		parts = append(parts, item.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (v *VarDecl) String() string {
	if v.Init != nil {
		return fmt.Sprintf("var %s: %s", v.Name.Value, v.Init.String())
	}
	return fmt.Sprintf("var %s %s", v.Name.Value, v.Type.String())
}

func (s *SetStmt) String() string {
	parts := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Target.String(), e.Value.String())
	}
	out := "SET " + strings.Join(parts, ", ")
	if len(s.With) > 0 {
		withs := make([]string, len(s.With))
		for i, w := range s.With {
			withs[i] = fmt.Sprintf("%s: %s", w.Name.Value, w.Value.String())
		}
		out += " WITH " + strings.Join(withs, ", ")
	}
	return out + " END"
}

func (w *WithBinding) String() string { return w.Name.Value + ": " + w.Value.String() }
func (e *SetEntry) String() string    { return e.Target.String() + ": " + e.Value.String() }

func (s *IfStmt) String() string {
	parts := make([]string, len(s.Arms))
	for i, arm := range s.Arms {
		parts[i] = fmt.Sprintf("%s: %s", arm.Cond.String(), arm.Body.String())
	}
	out := "IF " + strings.Join(parts, ", ")
	if s.Default != nil {
		out += ", _: " + s.Default.String()
	}
	return out + " END"
}

func (a *IfArm) String() string { return a.Cond.String() + ": " + a.Body.String() }

func (s *ForStmt) String() string {
	return fmt.Sprintf("FOR %s: %s..%s %s END", s.Var.Value, s.From.String(), s.To.String(), s.Body.String())
}

func (s *WhileStmt) String() string {
	return fmt.Sprintf("WHILE %s %s END", s.Cond.String(), s.Body.String())
}

func (s *MatchStmt) String() string {
	parts := make([]string, len(s.Arms))
	for i, arm := range s.Arms {
		parts[i] = fmt.Sprintf("%s: %s", arm.Pattern.String(), arm.Body.String())
	}
	out := fmt.Sprintf("MATCH %s %s", s.Scrutinee.String(), strings.Join(parts, ", "))
	if s.Default != nil {
		out += ", _: " + s.Default.String()
	}
	return out + " END"
}

func (a *MatchArm) String() string { return a.Pattern.String() + ": " + a.Body.String() }

func (p *Pattern) String() string {
	if p.IntValue != nil {
		return fmt.Sprintf("%d", *p.IntValue)
	}
	if p.Binder != nil {
		return fmt.Sprintf("%s(%s)", p.Tag, p.Binder.Value)
	}
	return p.Tag
}

func (s *ExprStmt) String() string { return s.Expr.String() }

func (m *Module) String() string { return "module " + m.Name.Value }

func (t *TypeDef) String() string { return "type " + t.Name.Value + ": " + t.Expr.String() }

func (f *Function) String() string {
	return fmt.Sprintf("fn %s(%s) -> %s", f.Name.Value, f.Input.String(), f.Output.String())
}

func (f *ImportedFunction) String() string {
	return fmt.Sprintf("import fn %s(%s) -> %s", f.Name.Value, f.Input.String(), f.Output.String())
}
