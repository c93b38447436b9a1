package stepbound

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tact/internal/ast"
	"tact/internal/errors"
	"tact/internal/ir"
)

func while(cond ast.Expr, body ast.Instruction) *ast.WhileStmt {
	return &ast.WhileStmt{Cond: cond, Body: body}
}

// firstWhile digs the first WHILE instruction out of a function body.
func firstWhile(t *testing.T, fn *ir.Function) *ir.While {
	t.Helper()
	blk := fn.Body.(*ir.Block)
	for _, item := range blk.Items {
		if w, ok := item.(*ir.While); ok {
			return w
		}
	}
	t.Fatal("fixture has no while loop")
	return nil
}

func TestWhileCountUpProven(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0))},
				while(binary("<", ref("i"), intLit(10)),
					block(nil,
						assign("out", binary("+", ref("out"), intLit(1))),
						assign("i", binary("+", ref("i"), intLit(1))))),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.False(t, a.HasErrors(), "unexpected errors: %v", codes(a.Errors()))
	w := firstWhile(t, program.Function("f"))
	assert.Equal(t, 10, w.MaxIter, "i goes 0..10 in steps of 1")
}

func TestWhileCountDownProven(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(20))},
				while(binary(">", ref("i"), intLit(0)),
					block(nil, assign("i", binary("-", ref("i"), intLit(4))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.False(t, a.HasErrors(), "unexpected errors: %v", codes(a.Errors()))
	w := firstWhile(t, program.Function("f"))
	assert.Equal(t, 5, w.MaxIter, "20 to 0 in steps of 4")
}

func TestWhileInclusiveGuardAddsOneIteration(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0))},
				while(binary("<=", ref("i"), intLit(10)),
					block(nil, assign("i", binary("+", ref("i"), intLit(1))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.False(t, a.HasErrors())
	w := firstWhile(t, program.Function("f"))
	assert.Equal(t, 11, w.MaxIter, "<= runs the body for i = 10 as well")
}

func TestWhileFlippedGuardProven(t *testing.T) {
	// Constant on the left, variable on the right.
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0))},
				while(binary(">", intLit(8), ref("i")),
					block(nil, assign("i", binary("+", ref("i"), intLit(2))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.False(t, a.HasErrors())
	w := firstWhile(t, program.Function("f"))
	assert.Equal(t, 4, w.MaxIter)
}

func TestWhileGuardOnInputUnprovable(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0))},
				while(binary("<", ref("i"), ref("in")),
					block(nil, assign("i", binary("+", ref("i"), intLit(1))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.Contains(t, codes(a.Errors()), errors.ErrorStepBoundUnprovable,
		"the limit is runtime input, no bound exists")
}

func TestWhileWithoutInductionStepUnprovable(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0))},
				while(binary("<", ref("i"), intLit(10)),
					block(nil, assign("out", binary("+", ref("out"), intLit(1))))),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.Contains(t, codes(a.Errors()), errors.ErrorStepBoundUnprovable,
		"a body that never advances the guard variable has no bound")
}

func TestWhileWrongDirectionUnprovable(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u16"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(1))},
				while(binary("<", ref("i"), intLit(100)),
					block(nil, assign("i", binary("-", ref("i"), intLit(1))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.Contains(t, codes(a.Errors()), errors.ErrorStepBoundUnprovable,
		"stepping away from the limit never terminates")
}

func TestWhileConditionalStepUnprovable(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("bool"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0))},
				while(binary("<", ref("i"), intLit(10)),
					block(nil, &ast.IfStmt{
						Arms: []*ast.IfArm{{
							Cond: ref("in"),
							Body: block(nil, assign("i", binary("+", ref("i"), intLit(1)))),
						}},
					})),
				assign("out", intLit(1)),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.Contains(t, codes(a.Errors()), errors.ErrorStepBoundUnprovable,
		"an update hidden behind a branch may never run")
}

func TestWhileFalseGuardZeroIterations(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(10))},
				while(binary("<", ref("i"), intLit(10)),
					block(nil, assign("i", binary("+", ref("i"), intLit(1))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.False(t, a.HasErrors())
	w := firstWhile(t, program.Function("f"))
	assert.Equal(t, 0, w.MaxIter, "the guard fails on entry")
}

func TestWhileTrackedConstantLimitProven(t *testing.T) {
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0)), varDecl("n", intLit(5))},
				while(binary("<", ref("i"), ref("n")),
					block(nil, assign("i", binary("+", ref("i"), intLit(1))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.False(t, a.HasErrors(), "unexpected errors: %v", codes(a.Errors()))
	w := firstWhile(t, program.Function("f"))
	assert.Equal(t, 5, w.MaxIter, "a limit variable the body never touches stays constant")
}

func TestWhileReassignedLimitUnprovable(t *testing.T) {
	// The guard reads n's entry value, but the body moves n; the entry
	// value proves nothing about later iterations.
	m := &ast.Module{Name: ident("test"), Functions: []*ast.Function{
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("i", intLit(0)), varDecl("n", intLit(5))},
				while(binary("<", ref("i"), ref("n")),
					block(nil,
						assign("n", intLit(10)),
						assign("i", binary("+", ref("i"), intLit(1))))),
				assign("out", ref("in")),
			)),
	}}
	program := resolve(t, m)

	a := analyze(program, testBudget)

	assert.Contains(t, codes(a.Errors()), errors.ErrorStepBoundUnprovable,
		"a limit the body reassigns is not a constant")
}
