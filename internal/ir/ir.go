package ir

// Typed intermediate representation handed to the external code generator.
// Every expression carries its resolved type, implicit widenings appear as
// explicit Cast nodes, and each function carries its proven step bound plus
// purity metadata. Constant-folded call sites are already substituted.

import (
	"tact/internal/ast"
	"tact/internal/types"
)

type BoundKind int

const (
	// BoundUnknown: the bound has not been computed yet.
	BoundUnknown BoundKind = iota
	// BoundFinite: a proven finite worst-case step count.
	BoundFinite
	// BoundUnbounded: no finite bound exists. Always a compile failure.
	BoundUnbounded
)

// StepBound is the statically proven upper limit on instructions executed
// per invocation of a function.
type StepBound struct {
	Kind  BoundKind
	Steps int
}

func Finite(steps int) StepBound { return StepBound{Kind: BoundFinite, Steps: steps} }

func (b StepBound) IsFinite() bool { return b.Kind == BoundFinite }

// Program is one fully resolved compilation unit.
type Program struct {
	Module    string
	Globals   []*VarDef // module variables, initializers resolved in order
	Functions []*Function
	Imports   []*ImportedFunction

	funcIndex   map[string]*Function
	importIndex map[string]*ImportedFunction
}

// NewProgram builds a program with name lookup indexes.
func NewProgram(module string, globals []*VarDef, functions []*Function, imports []*ImportedFunction) *Program {
	p := &Program{
		Module:      module,
		Globals:     globals,
		Functions:   functions,
		Imports:     imports,
		funcIndex:   make(map[string]*Function, len(functions)),
		importIndex: make(map[string]*ImportedFunction, len(imports)),
	}
	for _, fn := range functions {
		p.funcIndex[fn.Name] = fn
	}
	for _, imp := range imports {
		p.importIndex[imp.Name] = imp
	}
	return p
}

// Function returns the local function with the given name, or nil.
func (p *Program) Function(name string) *Function { return p.funcIndex[name] }

// Import returns the linker-imported function with the given name, or nil.
func (p *Program) Import(name string) *ImportedFunction { return p.importIndex[name] }

// Function is a fully typed local function.
type Function struct {
	Name      string
	Pos       ast.Position
	Input     types.Type
	Output    types.Type
	Body      Instr
	Pure      bool
	NoDiscard bool
	Const     bool
	Bound     StepBound
}

// ImportedFunction is an opaque call-graph leaf: its bound and purity were
// finalized by the external linker.
type ImportedFunction struct {
	Name   string
	Pos    ast.Position
	Input  types.Type
	Output types.Type
	Pure   bool
	Bound  StepBound
}
