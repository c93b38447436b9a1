package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tact/internal/ast"
	"tact/internal/ir"
	"tact/internal/resolver"
	"tact/internal/stepbound"
	"tact/internal/types"
)

func ident(name string) ast.Ident { return ast.Ident{Value: name} }

func named(name string) *ast.NamedType { return &ast.NamedType{Name: name} }

func tupleType(fields ...*ast.TypeField) *ast.TupleType {
	return &ast.TupleType{Fields: fields}
}

func typeField(name string, t ast.TypeExpr) *ast.TypeField {
	return &ast.TypeField{Name: ident(name), Type: t}
}

func intLit(v int64) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.IntLiteral, IntVal: v}
}

func ref(name string) *ast.IdentExpr { return &ast.IdentExpr{Name: name} }

func binary(op string, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func call(callee string, arg ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: ident(callee), Arg: arg}
}

func field(target ast.Expr, name string) *ast.FieldAccessExpr {
	return &ast.FieldAccessExpr{Target: target, Field: ident(name)}
}

func block(vars []*ast.VarDecl, items ...ast.Instruction) *ast.Block {
	return &ast.Block{Vars: vars, Items: items}
}

func varDecl(name string, init ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{Name: ident(name), Init: init}
}

func assign(target string, value ast.Expr) *ast.SetStmt {
	return &ast.SetStmt{Entries: []*ast.SetEntry{{Target: ref(target), Value: value}}}
}

func fn(name string, input, output ast.TypeExpr, body ast.Instruction) *ast.Function {
	return &ast.Function{Name: ident(name), Input: input, Output: output, Body: body}
}

// compile resolves and bound-checks a module, failing the test on any
// diagnostics so evaluator tests start from an analyzable program.
func compile(t *testing.T, m *ast.Module) *ir.Program {
	t.Helper()
	r := resolver.NewResolver()
	program := r.Resolve(m)
	assert.False(t, r.HasErrors(), "fixture must resolve cleanly: %v", r.Errors())

	a := stepbound.NewAnalyzer(program, 1<<20, 1)
	a.Analyze()
	assert.False(t, a.HasErrors(), "fixture must bound cleanly: %v", a.Errors())
	return program
}

func u8val(v int64) *IntValue {
	return &IntValue{T: types.TypeU8, V: v}
}

func pair(a, b int64) *TupleValue {
	return &TupleValue{
		T: &types.Tuple{Fields: []types.TupleField{
			{Name: "a", Type: types.TypeU8},
			{Name: "b", Type: types.TypeU8},
		}},
		Fields: []Value{u8val(a), u8val(b)},
	}
}

func boolTriple(x, y, z bool) *TupleValue {
	return &TupleValue{
		T: &types.Tuple{Fields: []types.TupleField{
			{Name: "x", Type: types.TypeBool},
			{Name: "y", Type: types.TypeBool},
			{Name: "z", Type: types.TypeBool},
		}},
		Fields: []Value{&BoolValue{V: x}, &BoolValue{V: y}, &BoolValue{V: z}},
	}
}
