package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tact/internal/ast"
	"tact/internal/config"
	"tact/internal/errors"
	"tact/internal/ir"
)

// Minimal AST builders; the external parser normally produces these trees.

func ident(name string) ast.Ident {
	return ast.Ident{Value: name}
}

func named(name string) *ast.NamedType {
	return &ast.NamedType{Name: name}
}

func intLit(v int64) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.IntLiteral, IntVal: v}
}

func ref(name string) *ast.IdentExpr {
	return &ast.IdentExpr{Name: name}
}

func call(callee string, arg ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: ident(callee), Arg: arg}
}

func setOut(value ast.Expr) *ast.SetStmt {
	return &ast.SetStmt{Entries: []*ast.SetEntry{{Target: ref("out"), Value: value}}}
}

func fn(name string, input, output ast.TypeExpr, body ast.Instruction) *ast.Function {
	return &ast.Function{Name: ident(name), Input: input, Output: output, Body: body}
}

func module(fns ...*ast.Function) *ast.Module {
	return &ast.Module{Name: ident("test"), Functions: fns}
}

func diagnosticCodes(result *Result) []string {
	codes := make([]string, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		codes[i] = d.Code
	}
	return codes
}

func TestCompileValidModule(t *testing.T) {
	m := module(
		fn("double", named("u16"), named("u16"),
			setOut(&ast.BinaryExpr{Op: "*", Left: ref("in"), Right: intLit(2)})),
	)

	result := Compile(m, config.Default())
	assert.False(t, result.Failed(), "a valid module should compile: %v", diagnosticCodes(result))
	require.NotNil(t, result.Program, "success yields a program")
	assert.Empty(t, result.Diagnostics)
	assert.False(t, result.Truncated)

	f := result.Program.Function("double")
	require.NotNil(t, f)
	assert.Equal(t, ir.BoundFinite, f.Bound.Kind, "analysis fills in the step bound")
}

func TestCompileResolutionErrorStopsPipeline(t *testing.T) {
	m := module(
		fn("broken", named("u8"), named("u8"), setOut(ref("missing"))),
	)

	result := Compile(m, config.Default())
	assert.True(t, result.Failed())
	assert.Nil(t, result.Program, "a failed compile yields no program")
	assert.Contains(t, diagnosticCodes(result), errors.ErrorUndefinedName)
}

func TestCompileRecursionIsRejected(t *testing.T) {
	m := module(
		fn("loop", named("u8"), named("u8"), setOut(call("loop", ref("in")))),
	)

	result := Compile(m, config.Default())
	assert.True(t, result.Failed())
	assert.Nil(t, result.Program)
	assert.Contains(t, diagnosticCodes(result), errors.ErrorRecursion)
}

func TestCompileBudgetExceeded(t *testing.T) {
	m := module(
		fn("wide", named("u8"), named("u8"),
			&ast.ForStmt{
				Var: ident("i"), From: intLit(0), To: intLit(100),
				Body: setOut(&ast.BinaryExpr{Op: "+", Left: ref("out"), Right: intLit(1)}),
			}),
	)

	opts := config.Default()
	opts.StepBudget = 10
	result := Compile(m, opts)
	assert.True(t, result.Failed())
	assert.Contains(t, diagnosticCodes(result), errors.ErrorStepBudgetExceeded)
}

func TestCompileConstFailureIsHardError(t *testing.T) {
	div := fn("halve", named("u8"), named("u8"),
		setOut(&ast.BinaryExpr{Op: "/", Left: intLit(10), Right: ref("in")}))
	div.Pure = true
	div.Const = true

	m := module(
		div,
		fn("use", named("u8"), named("u8"), setOut(call("halve", intLit(0)))),
	)

	result := Compile(m, config.Default())
	assert.True(t, result.Failed())
	assert.Nil(t, result.Program)
	assert.Contains(t, diagnosticCodes(result), errors.ErrorConstEvaluation)
}

func TestCompilePureFailureFallsBackSilently(t *testing.T) {
	div := fn("halve", named("u8"), named("u8"),
		setOut(&ast.BinaryExpr{Op: "/", Left: intLit(10), Right: ref("in")}))
	div.Pure = true

	m := module(
		div,
		fn("use", named("u8"), named("u8"), setOut(call("halve", intLit(0)))),
	)

	result := Compile(m, config.Default())
	assert.False(t, result.Failed(), "a failed @pure fold is left for runtime: %v", diagnosticCodes(result))
	require.NotNil(t, result.Program)

	use := result.Program.Function("use")
	require.NotNil(t, use)
	s := use.Body.(*ir.Set)
	_, isCall := s.Entries[0].Value.(*ir.Call)
	assert.True(t, isCall, "the unfoldable call survives to runtime")
}

func TestCompileWarningsDoNotFail(t *testing.T) {
	body := &ast.Block{
		Vars:  []*ast.VarDecl{{Name: ident("unused"), Init: intLit(1)}},
		Items: []ast.Instruction{setOut(ref("in"))},
	}
	m := module(fn("id", named("u8"), named("u8"), body))

	result := Compile(m, config.Default())
	assert.False(t, result.Failed(), "warnings alone do not fail a build")
	require.NotNil(t, result.Program)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.WarningUnusedVariable, result.Diagnostics[0].Code)
	assert.Equal(t, errors.Warning, result.Diagnostics[0].Level)
}

func TestCompileTruncatesDiagnostics(t *testing.T) {
	m := module(
		fn("a", named("u8"), named("u8"), setOut(ref("gone1"))),
		fn("b", named("u8"), named("u8"), setOut(ref("gone2"))),
		fn("c", named("u8"), named("u8"), setOut(ref("gone3"))),
	)

	opts := config.Default()
	opts.MaxDiagnostics = 2
	result := Compile(m, opts)
	assert.True(t, result.Failed())
	assert.Len(t, result.Diagnostics, 2)
	assert.True(t, result.Truncated)
}
