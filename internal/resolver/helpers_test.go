package resolver

import (
	"tact/internal/ast"
	"tact/internal/errors"
)

// AST construction helpers. The external parser normally produces these
// trees; tests build them by hand.

func ident(name string) ast.Ident {
	return ast.Ident{Value: name}
}

func named(name string) *ast.NamedType {
	return &ast.NamedType{Name: name}
}

func tupleType(fields ...*ast.TypeField) *ast.TupleType {
	return &ast.TupleType{Fields: fields}
}

func typeField(name string, t ast.TypeExpr) *ast.TypeField {
	return &ast.TypeField{Name: ident(name), Type: t}
}

func intLit(v int64) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.IntLiteral, IntVal: v}
}

func boolLit(v bool) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.BoolLiteral, BoolVal: v}
}

func ref(name string) *ast.IdentExpr {
	return &ast.IdentExpr{Name: name}
}

func binary(op string, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func call(callee string, arg ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: ident(callee), Arg: arg}
}

func block(vars []*ast.VarDecl, items ...ast.Instruction) *ast.Block {
	return &ast.Block{Vars: vars, Items: items}
}

func varDecl(name string, t ast.TypeExpr, init ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{Name: ident(name), Type: t, Init: init}
}

func set(entries ...*ast.SetEntry) *ast.SetStmt {
	return &ast.SetStmt{Entries: entries}
}

func setEntry(target, value ast.Expr) *ast.SetEntry {
	return &ast.SetEntry{Target: target, Value: value}
}

func setOut(value ast.Expr) *ast.SetStmt {
	return set(setEntry(ref("out"), value))
}

func fn(name string, input, output ast.TypeExpr, body ast.Instruction) *ast.Function {
	return &ast.Function{Name: ident(name), Input: input, Output: output, Body: body}
}

func module(fns ...*ast.Function) *ast.Module {
	return &ast.Module{Name: ident("test"), Functions: fns}
}

func errorCodes(errs []errors.CompilerError) []string {
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	return codes
}
