package stepbound

import (
	"tact/internal/ast"
	"tact/internal/ir"
)

// Graph is an explicit arena of call-graph nodes and edges. Acyclicity and
// bottom-up bound propagation are structural checks over the arena, not
// behaviors discovered by simulating execution.
type Graph struct {
	nodes []*Node
	index map[string]int
}

// Node is one function in the call graph. Imported functions are opaque
// leaves: their bounds arrived finalized from the linker and they never have
// outgoing edges.
type Node struct {
	Name     string
	Fn       *ir.Function
	Imported *ir.ImportedFunction
	Edges    []int // callee node indices, deduplicated
	EdgePos  []ast.Position
}

func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

func (g *Graph) add(node *Node) int {
	idx := len(g.nodes)
	g.nodes = append(g.nodes, node)
	g.index[node.Name] = idx
	return idx
}

// Build constructs the call graph of a program, one edge per distinct
// caller/callee pair.
func Build(program *ir.Program) *Graph {
	g := NewGraph()
	for _, imp := range program.Imports {
		g.add(&Node{Name: imp.Name, Imported: imp})
	}
	for _, fn := range program.Functions {
		g.add(&Node{Name: fn.Name, Fn: fn})
	}
	for _, fn := range program.Functions {
		node := g.nodes[g.index[fn.Name]]
		seen := make(map[int]bool)
		walkCalls(fn.Body, func(call *ir.Call) {
			callee, ok := g.index[call.Callee]
			if !ok || seen[callee] {
				return
			}
			seen[callee] = true
			node.Edges = append(node.Edges, callee)
			node.EdgePos = append(node.EdgePos, call.Pos)
		})
	}
	return g
}

// Node returns the node with the given name, or nil.
func (g *Graph) Node(name string) *Node {
	if idx, ok := g.index[name]; ok {
		return g.nodes[idx]
	}
	return nil
}

// FindCycle returns one call cycle as a name path, or nil when the graph is
// a DAG. Self-edges count as cycles.
func (g *Graph) FindCycle() []string {
	const (
		white = iota // unvisited
		gray         // on the current DFS stack
		black        // fully explored
	)
	color := make([]int, len(g.nodes))
	var stack []int
	var cycle []string

	var visit func(int) bool
	visit = func(n int) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, m := range g.nodes[n].Edges {
			if color[m] == gray {
				// Slice the stack from the first occurrence of m to close
				// the reported cycle.
				start := 0
				for i, s := range stack {
					if s == m {
						start = i
						break
					}
				}
				for _, s := range stack[start:] {
					cycle = append(cycle, g.nodes[s].Name)
				}
				cycle = append(cycle, g.nodes[m].Name)
				return true
			}
			if color[m] == white && visit(m) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for n := range g.nodes {
		if color[n] == white && visit(n) {
			return cycle
		}
	}
	return nil
}

// Topological returns the nodes callee-first, so every bound is finalized
// before any caller that needs it. Must only be called on a DAG.
func (g *Graph) Topological() []*Node {
	visited := make([]bool, len(g.nodes))
	order := make([]*Node, 0, len(g.nodes))

	var visit func(int)
	visit = func(n int) {
		visited[n] = true
		for _, m := range g.nodes[n].Edges {
			if !visited[m] {
				visit(m)
			}
		}
		order = append(order, g.nodes[n])
	}

	for n := range g.nodes {
		if !visited[n] {
			visit(n)
		}
	}
	return order
}

// walkCalls invokes fn for every call expression in an instruction tree.
func walkCalls(instr ir.Instr, fn func(*ir.Call)) {
	walkInstrExprs(instr, func(e ir.Expr) {
		if call, ok := e.(*ir.Call); ok {
			fn(call)
		}
	})
}

// walkInstrExprs invokes fn for every expression in an instruction tree,
// including nested sub-expressions.
func walkInstrExprs(instr ir.Instr, fn func(ir.Expr)) {
	switch s := instr.(type) {
	case *ir.Block:
		for _, v := range s.Vars {
			if v.Init != nil {
				walkExpr(v.Init, fn)
			}
		}
		for _, item := range s.Items {
			walkInstrExprs(item, fn)
		}
	case *ir.Set:
		for _, w := range s.With {
			walkExpr(w.Value, fn)
		}
		for _, e := range s.Entries {
			walkExpr(e.Target, fn)
			walkExpr(e.Value, fn)
		}
	case *ir.If:
		for _, arm := range s.Arms {
			walkExpr(arm.Cond, fn)
			walkInstrExprs(arm.Body, fn)
		}
		if s.Default != nil {
			walkInstrExprs(s.Default, fn)
		}
	case *ir.For:
		walkExpr(s.From, fn)
		walkExpr(s.To, fn)
		walkInstrExprs(s.Body, fn)
	case *ir.While:
		walkExpr(s.Cond, fn)
		walkInstrExprs(s.Body, fn)
	case *ir.Match:
		walkExpr(s.Scrutinee, fn)
		for _, arm := range s.Arms {
			walkInstrExprs(arm.Body, fn)
		}
		if s.Default != nil {
			walkInstrExprs(s.Default, fn)
		}
	case *ir.ExprStmt:
		walkExpr(s.X, fn)
	}
}

func walkExpr(e ir.Expr, fn func(ir.Expr)) {
	fn(e)
	switch x := e.(type) {
	case *ir.Binary:
		walkExpr(x.L, fn)
		walkExpr(x.R, fn)
	case *ir.Unary:
		walkExpr(x.X, fn)
	case *ir.Call:
		walkExpr(x.Arg, fn)
	case *ir.Cast:
		walkExpr(x.X, fn)
	case *ir.MakeTuple:
		for _, v := range x.Values {
			walkExpr(v, fn)
		}
	case *ir.MakeVector:
		for _, v := range x.Elems {
			walkExpr(v, fn)
		}
	case *ir.FieldAccess:
		walkExpr(x.X, fn)
	case *ir.Index:
		walkExpr(x.X, fn)
		walkExpr(x.Idx, fn)
	case *ir.Fold:
		walkExpr(x.X, fn)
	case *ir.MakeVariant:
		walkExpr(x.Payload, fn)
	}
}
