package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tact/internal/ast"
	"tact/internal/errors"
	"tact/internal/ir"
)

func directionModule(fns ...*ast.Function) *ast.Module {
	m := module(fns...)
	m.TypeDefs = []*ast.TypeDef{
		{Name: ident("direction"), Expr: &ast.SumType{Variants: []*ast.SumVariant{
			{Tag: ident("north"), Type: named("u8")},
			{Tag: ident("south"), Type: named("u8")},
		}}},
		{Name: ident("weekday"), Expr: &ast.EnumType{Tags: []*ast.EnumTag{
			{Name: ident("monday"), Value: 0},
			{Name: ident("tuesday"), Value: 1},
		}}},
	}
	return m
}

func matchArm(tag, binder string, body ast.Instruction) *ast.MatchArm {
	p := &ast.Pattern{Tag: tag}
	if binder != "" {
		b := ident(binder)
		p.Binder = &b
	}
	return &ast.MatchArm{Pattern: p, Body: body}
}

func TestSumMatchBindsPayload(t *testing.T) {
	m := directionModule(
		fn("dist", named("direction"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Arms: []*ast.MatchArm{
					matchArm("north", "v", block(nil, setOut(ref("v")))),
					matchArm("south", "v", block(nil, setOut(ref("v")))),
				},
			})),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
	body := program.Function("dist").Body.(*ir.Block)
	match := body.Items[0].(*ir.Match)
	assert.Equal(t, "north", match.Arms[0].Tag)
	assert.Equal(t, "v", match.Arms[0].Binder)
}

func TestSumMatchGapIsResolutionError(t *testing.T) {
	m := directionModule(
		fn("partial", named("direction"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Arms: []*ast.MatchArm{
					matchArm("north", "v", block(nil, setOut(ref("v")))),
				},
			})),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorNonExhaustiveMatch,
		"a missing sum variant can never bind its payload, so the gap is static")
}

func TestSumMatchDefaultCoversGap(t *testing.T) {
	m := directionModule(
		fn("partial", named("direction"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Arms: []*ast.MatchArm{
					matchArm("north", "v", block(nil, setOut(ref("v")))),
				},
				Default: block(nil, setOut(intLit(0))),
			})),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
}

func TestEnumMatchGapPassesResolution(t *testing.T) {
	m := directionModule(
		fn("pick", named("weekday"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Arms: []*ast.MatchArm{
					matchArm("monday", "", block(nil, setOut(intLit(1)))),
				},
			})),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.False(t, r.HasErrors(),
		"enum gaps surface during constant evaluation, not here: %v", errorCodes(r.Errors()))
}

func TestMatchUnknownVariantRejected(t *testing.T) {
	m := directionModule(
		fn("f", named("direction"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Arms: []*ast.MatchArm{
					matchArm("east", "v", block(nil, setOut(ref("v")))),
				},
			})),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorUndefinedName)
}

func TestMatchDuplicateArmRejected(t *testing.T) {
	m := directionModule(
		fn("f", named("direction"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Arms: []*ast.MatchArm{
					matchArm("north", "v", block(nil, setOut(ref("v")))),
					matchArm("north", "w", block(nil, setOut(ref("w")))),
					matchArm("south", "v", block(nil, setOut(ref("v")))),
				},
			})),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorDuplicateDeclaration)
}

func TestIntegerMatchWithLiteralPatterns(t *testing.T) {
	two := int64(2)
	m := module(
		fn("f", named("u8"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Arms: []*ast.MatchArm{
					{Pattern: &ast.Pattern{IntValue: &two}, Body: block(nil, setOut(intLit(1)))},
				},
				Default: block(nil, setOut(intLit(0))),
			})),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
}

func TestMatchOnBoolRejected(t *testing.T) {
	m := module(
		fn("f", named("bool"), named("u8"),
			block(nil, &ast.MatchStmt{
				Scrutinee: ref("in"),
				Default:   block(nil, setOut(intLit(0))),
			})),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.True(t, r.HasErrors(), "bool scrutinees belong in IF, not MATCH")
}

func TestVariantConstruction(t *testing.T) {
	m := directionModule(
		fn("north5", named("u8"), named("direction"),
			block(nil, setOut(&ast.VariantExpr{
				Type:    ident("direction"),
				Tag:     ident("north"),
				Payload: intLit(5),
			}))),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
	assert.NotNil(t, program.Function("north5"))
}

func TestEnumConstReference(t *testing.T) {
	m := directionModule(
		fn("start", named("u8"), named("weekday"),
			block(nil, setOut(&ast.EnumConstExpr{
				Type: ident("weekday"),
				Tag:  ident("monday"),
			}))),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
	body := program.Function("start").Body.(*ir.Block)
	ec := body.Items[0].(*ir.Set).Entries[0].Value.(*ir.EnumConst)
	assert.Equal(t, "monday", ec.Tag)
	assert.Equal(t, int64(0), ec.Value)
}
