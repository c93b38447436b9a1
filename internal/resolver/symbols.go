package resolver

import (
	"tact/internal/ast"
	"tact/internal/types"
)

type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolInput
	SymbolOutput
	SymbolLoopVar
	SymbolWith
	SymbolBinder
)

type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     types.Type
	Position ast.Position
	ReadOnly bool
	Used     bool
}

type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
	parent  *SymbolTable
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
		parent:  parent,
	}
}

func (st *SymbolTable) Define(name string, kind SymbolKind, t types.Type, pos ast.Position) *Symbol {
	symbol := &Symbol{
		Name:     name,
		Kind:     kind,
		Type:     t,
		Position: pos,
		ReadOnly: kind != SymbolVariable && kind != SymbolOutput,
	}
	st.symbols[name] = symbol
	st.order = append(st.order, name)
	return symbol
}

func (st *SymbolTable) Lookup(name string) *Symbol {
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	if st.parent != nil {
		return st.parent.Lookup(name)
	}
	return nil
}

func (st *SymbolTable) LookupLocal(name string) *Symbol {
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	return nil
}

// Names returns all reachable symbol names, for suggestion lookups.
func (st *SymbolTable) Names() []string {
	var names []string
	for t := st; t != nil; t = t.parent {
		names = append(names, t.order...)
	}
	return names
}

// LocalSymbols returns the symbols of this scope in declaration order.
func (st *SymbolTable) LocalSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(st.order))
	for _, name := range st.order {
		out = append(out, st.symbols[name])
	}
	return out
}
