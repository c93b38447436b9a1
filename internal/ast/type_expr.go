package ast

import (
	"fmt"
	"strings"
)

// TypeExpr is a syntactic type as written in source. The resolver turns these
// into semantic types, chasing aliases and checking structural invariants.
type TypeExpr interface {
	Node
	isTypeExpr()
}

func (*NamedType) isTypeExpr()   {}
func (*TupleType) isTypeExpr()   {}
func (*VectorType) isTypeExpr()  {}
func (*SumType) isTypeExpr()     {}
func (*EnumType) isTypeExpr()    {}
func (*PointerType) isTypeExpr() {}

// NamedType references a scalar type or a declared alias by name.
type NamedType struct {
	Pos  Position
	Name string
}

// TupleType is an ordered mapping of field names to types. Field order and
// names are significant for compatibility.
type TupleType struct {
	Pos    Position
	Fields []*TypeField
}

type TypeField struct {
	Pos  Position
	Name Ident
	Type TypeExpr
}

// VectorType is a homogeneous fixed-length aggregate, length at least 2.
type VectorType struct {
	Pos    Position
	Elem   TypeExpr
	Length int
}

// SumType is an ordered tagged union with at least 2 variants.
type SumType struct {
	Pos      Position
	Variants []*SumVariant
}

type SumVariant struct {
	Pos  Position
	Tag  Ident
	Type TypeExpr
}

// EnumType is an ordered mapping of tags to integer constants.
type EnumType struct {
	Pos  Position
	Tags []*EnumTag
}

type EnumTag struct {
	Pos   Position
	Name  Ident
	Value int64
}

// PointerType is a non-storable reference to a referent type.
type PointerType struct {
	Pos      Position
	Referent TypeExpr
}

func (t *NamedType) String() string { return t.Name }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name.Value, f.Type.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (f *TypeField) String() string { return f.Name.Value + ": " + f.Type.String() }

func (t *VectorType) String() string {
	return fmt.Sprintf("[%d]%s", t.Length, t.Elem.String())
}

func (t *SumType) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = fmt.Sprintf("%s(%s)", v.Tag.Value, v.Type.String())
	}
	return "<" + strings.Join(parts, " | ") + ">"
}

func (v *SumVariant) String() string { return v.Tag.Value + "(" + v.Type.String() + ")" }

func (t *EnumType) String() string {
	parts := make([]string, len(t.Tags))
	for i, tag := range t.Tags {
		parts[i] = fmt.Sprintf("%s = %d", tag.Name.Value, tag.Value)
	}
	return "enum{" + strings.Join(parts, ", ") + "}"
}

func (tg *EnumTag) String() string { return tg.Name.Value }

func (t *PointerType) String() string { return "&" + t.Referent.String() }
