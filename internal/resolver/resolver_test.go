package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tact/internal/ast"
	"tact/internal/errors"
	"tact/internal/ir"
	"tact/internal/types"
)

func TestSimpleFunctionResolves(t *testing.T) {
	m := module(
		fn("double", named("u16"), named("u16"),
			block(nil, setOut(binary("*", ref("in"), intLit(2))))),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "should resolve cleanly: %v", errorCodes(r.Errors()))
	assert.NotNil(t, program.Function("double"))
	assert.True(t, types.TypeU16.Equal(program.Function("double").Output))
}

func TestLiteralInference(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("u16"),
			block(
				[]*ast.VarDecl{varDecl("x", nil, intLit(300))},
				setOut(ref("x")),
			)),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
	body := program.Function("f").Body.(*ir.Block)
	assert.True(t, types.TypeU16.Equal(body.Vars[0].Type), "300 should infer as u16")
}

func TestImplicitWideningCastInserted(t *testing.T) {
	m := module(
		fn("widen", named("u8"), named("u16"),
			block(nil, setOut(ref("in")))),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors())
	body := program.Function("widen").Body.(*ir.Block)
	entry := body.Items[0].(*ir.Set).Entries[0]
	cast, ok := entry.Value.(*ir.Cast)
	assert.True(t, ok, "u8 to u16 assignment should go through a cast")
	assert.True(t, types.TypeU16.Equal(cast.T))
}

func TestMixedOperandsWiden(t *testing.T) {
	m := module(
		fn("mix", tupleType(typeField("a", named("u8")), typeField("b", named("i16"))), named("i16"),
			block(nil, setOut(binary("+",
				&ast.FieldAccessExpr{Target: ref("in"), Field: ident("a")},
				&ast.FieldAccessExpr{Target: ref("in"), Field: ident("b")})))),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
	body := program.Function("mix").Body.(*ir.Block)
	sum := body.Items[0].(*ir.Set).Entries[0].Value.(*ir.Binary)
	assert.True(t, types.TypeI16.Equal(sum.T), "u8 + i16 should widen to i16")
	_, leftCast := sum.L.(*ir.Cast)
	assert.True(t, leftCast, "the u8 side should be cast up")
}

func TestIncompatibleOperandsRejected(t *testing.T) {
	m := module(
		fn("bad", tupleType(typeField("a", named("u32")), typeField("b", named("i32"))), named("i32"),
			block(nil, setOut(binary("+",
				&ast.FieldAccessExpr{Target: ref("in"), Field: ident("a")},
				&ast.FieldAccessExpr{Target: ref("in"), Field: ident("b")})))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.True(t, r.HasErrors())
	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorIncompatibleOperand, "u32 + i32 has no common type")
}

func TestDiscardedResultOfNoDiscard(t *testing.T) {
	checked := fn("checked", named("u8"), named("u8"),
		block(nil, setOut(ref("in"))))
	checked.NoDiscard = true

	m := module(
		checked,
		fn("caller", named("u8"), named("u8"),
			block(nil,
				&ast.ExprStmt{Expr: call("checked", ref("in"))},
				setOut(ref("in")))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorDiscardedResult)
}

func TestDiscardAllowedForPlainFunctions(t *testing.T) {
	m := module(
		fn("plain", named("u8"), named("u8"),
			block(nil, setOut(ref("in")))),
		fn("caller", named("u8"), named("u8"),
			block(nil,
				&ast.ExprStmt{Expr: call("plain", ref("in"))},
				setOut(ref("in")))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
}

func TestPointerVariableRejected(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("u8"),
			block(
				[]*ast.VarDecl{varDecl("p", &ast.PointerType{Referent: named("u8")}, nil)},
				setOut(ref("in")),
			)),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorPointerStore)
}

func TestPointerOutputRejected(t *testing.T) {
	m := module(
		fn("leak", named("u8"), &ast.PointerType{Referent: named("u8")},
			block(nil)),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorPointerStore)
}

func TestPointerDereferenceYieldsReferent(t *testing.T) {
	m := module(
		fn("deref", &ast.PointerType{Referent: named("u16")}, named("u16"),
			block(nil, setOut(&ast.UnaryExpr{Op: "*", Operand: ref("in")}))),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "pointer inputs are fine, only storage is banned: %v", errorCodes(r.Errors()))
	assert.NotNil(t, program.Function("deref"))
}

func TestUndefinedNameSuggestsSimilar(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("u8"),
			block(
				[]*ast.VarDecl{varDecl("counter", nil, intLit(1))},
				setOut(ref("countr")),
				setOut(ref("counter")),
			)),
	)

	r := NewResolver()
	r.Resolve(m)

	var found *errors.CompilerError
	for i := range r.Errors() {
		if r.Errors()[i].Code == errors.ErrorUndefinedName {
			found = &r.Errors()[i]
		}
	}
	assert.NotNil(t, found, "misspelled name should be reported")
	assert.NotEmpty(t, found.Suggestions, "close match 'counter' should be suggested")
}

func TestDuplicateFunctionRejected(t *testing.T) {
	m := module(
		fn("twice", named("u8"), named("u8"), block(nil, setOut(ref("in")))),
		fn("twice", named("u16"), named("u16"), block(nil, setOut(ref("in")))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorDuplicateDeclaration)
}

func TestInputNotAssignable(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("u8"),
			block(nil, set(setEntry(ref("in"), intLit(1))), setOut(ref("in")))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.True(t, r.HasErrors(), "writing the input binding must fail")
}

func TestLoopVariableNotAssignable(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("u8"),
			block(nil,
				&ast.ForStmt{
					Var:  ident("i"),
					From: intLit(0),
					To:   intLit(4),
					Body: block(nil, set(setEntry(ref("i"), intLit(0)))),
				},
				setOut(ref("in")))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.True(t, r.HasErrors(), "the loop variable is read-only")
}

func TestUnusedVariableWarns(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("u8"),
			block(
				[]*ast.VarDecl{varDecl("dead", nil, intLit(1))},
				setOut(ref("in")),
			)),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "warnings never fail resolution")
	assert.Contains(t, errorCodes(r.Errors()), errors.WarningUnusedVariable)
	assert.NotNil(t, program.Function("f"), "the function still resolves")
}

func TestConstImpliesPure(t *testing.T) {
	f := fn("answer", named("u8"), named("u8"),
		block(nil, setOut(ref("in"))))
	f.Const = true

	r := NewResolver()
	program := r.Resolve(module(f))

	assert.False(t, r.HasErrors())
	resolved := program.Function("answer")
	assert.True(t, resolved.Const)
	assert.True(t, resolved.Pure, "@const functions are pure by definition")
}

func TestFoldRequiresBoolAggregate(t *testing.T) {
	m := module(
		fn("f", tupleType(typeField("a", named("u8")), typeField("b", named("u8"))), named("bool"),
			block(nil, setOut(&ast.FoldExpr{Op: ast.FoldAll, Operand: ref("in")}))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorIncompatibleOperand)
}

func TestFoldOverBoolTuple(t *testing.T) {
	m := module(
		fn("f", tupleType(typeField("a", named("bool")), typeField("b", named("bool"))), named("bool"),
			block(nil, setOut(&ast.FoldExpr{Op: ast.FoldAny, Operand: ref("in")}))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
}

func TestConstantIndexOutOfRange(t *testing.T) {
	m := module(
		fn("f", &ast.VectorType{Elem: named("u8"), Length: 3}, named("u8"),
			block(nil, setOut(&ast.IndexExpr{Target: ref("in"), Index: intLit(3)}))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.True(t, r.HasErrors(), "index 3 into a length-3 vector is out of range")
}

func TestNegatedLiteralTypesSigned(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("i8"),
			block(nil, setOut(&ast.UnaryExpr{Op: "-", Operand: intLit(1)}))),
	)

	r := NewResolver()
	program := r.Resolve(m)

	assert.False(t, r.HasErrors(), "unexpected errors: %v", errorCodes(r.Errors()))
	body := program.Function("f").Body.(*ir.Block)
	lit, ok := body.Items[0].(*ir.Set).Entries[0].Value.(*ir.IntLit)
	assert.True(t, ok, "-1 should fold into a literal")
	assert.Equal(t, int64(-1), lit.Value)
	assert.True(t, types.TypeI8.Equal(lit.T))
}

func TestLiteralBeyondEveryScalarRejected(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("u32"),
			block(nil, setOut(intLit(5000000000)))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorTypeMismatch,
		"5000000000 fits no integer scalar")
}

func TestNegatedLiteralBeyondI32Rejected(t *testing.T) {
	m := module(
		fn("f", named("u8"), named("i32"),
			block(nil, setOut(&ast.UnaryExpr{Op: "-", Operand: intLit(3000000000)}))),
	)

	r := NewResolver()
	r.Resolve(m)

	assert.Contains(t, errorCodes(r.Errors()), errors.ErrorTypeMismatch,
		"-3000000000 is below i32's minimum")
}
