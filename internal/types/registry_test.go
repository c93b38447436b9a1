package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tact/internal/ast"
)

func named(name string) *ast.NamedType {
	return &ast.NamedType{Name: name}
}

func TestResolveScalarNames(t *testing.T) {
	r := NewRegistry()
	for name, kind := range ScalarByName {
		resolved, err := r.Resolve(named(name))
		assert.NoError(t, err)
		assert.True(t, ScalarOf(kind).Equal(resolved))
	}
}

func TestAliasChainResolution(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Declare("coordinate", named("i16")))
	assert.NoError(t, r.Declare("point", &ast.TupleType{
		Fields: []*ast.TypeField{
			{Name: ast.Ident{Value: "x"}, Type: named("coordinate")},
			{Name: ast.Ident{Value: "y"}, Type: named("coordinate")},
		},
	}))

	resolved, err := r.ResolveAlias("point", ast.Position{})
	assert.NoError(t, err)

	tup, ok := resolved.(*Tuple)
	assert.True(t, ok, "point should resolve to a tuple")
	assert.Len(t, tup.Fields, 2)
	assert.True(t, TypeI16.Equal(tup.Fields[0].Type))
}

func TestAliasCycleDetected(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Declare("a", named("b")))
	assert.NoError(t, r.Declare("b", named("a")))

	_, err := r.ResolveAlias("a", ast.Position{})
	assert.Error(t, err)
	var cycle *CycleError
	assert.ErrorAs(t, err, &cycle)
}

func TestSelfReferentialAliasIsACycle(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Declare("loop", named("loop")))

	_, err := r.ResolveAlias("loop", ast.Position{})
	var cycle *CycleError
	assert.ErrorAs(t, err, &cycle)
	assert.Equal(t, "loop", cycle.Name)
}

func TestScalarShadowingRejected(t *testing.T) {
	r := NewRegistry()
	err := r.Declare("u8", named("i32"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "shadows a built-in scalar")
}

func TestDuplicateAliasRejected(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Declare("count", named("u32")))
	err := r.Declare("count", named("u16"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate type definition")
}

func TestUnknownTypeName(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(named("mystery"))
	var unknown *UnknownTypeError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "mystery", unknown.Name)
}

func TestVectorShapeInvariant(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(&ast.VectorType{Elem: named("u8"), Length: 1})
	var shape *ShapeError
	assert.ErrorAs(t, err, &shape)

	resolved, err := r.Resolve(&ast.VectorType{Elem: named("u8"), Length: 2})
	assert.NoError(t, err)
	vec, ok := resolved.(*Vector)
	assert.True(t, ok)
	assert.Equal(t, 2, vec.Length)
}

func TestSumAndEnumShapeInvariants(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(&ast.SumType{Variants: []*ast.SumVariant{
		{Tag: ast.Ident{Value: "only"}, Type: named("u8")},
	}})
	var shape *ShapeError
	assert.ErrorAs(t, err, &shape)

	_, err = r.Resolve(&ast.EnumType{Tags: []*ast.EnumTag{
		{Name: ast.Ident{Value: "single"}, Value: 0},
	}})
	assert.ErrorAs(t, err, &shape)
}

func TestDuplicateTupleFieldRejected(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(&ast.TupleType{Fields: []*ast.TypeField{
		{Name: ast.Ident{Value: "x"}, Type: named("u8")},
		{Name: ast.Ident{Value: "x"}, Type: named("u8")},
	}})
	var shape *ShapeError
	assert.ErrorAs(t, err, &shape)
	assert.Contains(t, err.Error(), "duplicate tuple field")
}

func TestDuplicateEnumTagRejected(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(&ast.EnumType{Tags: []*ast.EnumTag{
		{Name: ast.Ident{Value: "red"}, Value: 0},
		{Name: ast.Ident{Value: "red"}, Value: 1},
	}})
	var shape *ShapeError
	assert.ErrorAs(t, err, &shape)
}
