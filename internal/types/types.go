package types

import (
	"fmt"
	"strings"
)

// Type is a fully resolved semantic type. Types are built once from the
// declaration tree and become immutable after alias substitution.
type Type interface {
	String() string
	Equal(Type) bool
}

type ScalarKind int

const (
	U8 ScalarKind = iota
	I8
	U16
	I16
	U32
	I32
	F32
	Bool
)

var scalarNames = map[ScalarKind]string{
	U8: "u8", I8: "i8", U16: "u16", I16: "i16",
	U32: "u32", I32: "i32", F32: "f32", Bool: "bool",
}

// ScalarByName maps source-level scalar type names to their kinds.
var ScalarByName = map[string]ScalarKind{
	"u8": U8, "i8": I8, "u16": U16, "i16": I16,
	"u32": U32, "i32": I32, "f32": F32, "bool": Bool,
}

type Scalar struct {
	Kind ScalarKind
}

func (s *Scalar) String() string { return scalarNames[s.Kind] }

func (s *Scalar) Equal(other Type) bool {
	o, ok := other.(*Scalar)
	return ok && o.Kind == s.Kind
}

// Shared scalar instances; scalars are interned so pointer identity works for
// the common cases.
var (
	TypeU8   = &Scalar{U8}
	TypeI8   = &Scalar{I8}
	TypeU16  = &Scalar{U16}
	TypeI16  = &Scalar{I16}
	TypeU32  = &Scalar{U32}
	TypeI32  = &Scalar{I32}
	TypeF32  = &Scalar{F32}
	TypeBool = &Scalar{Bool}
)

var scalarSingletons = map[ScalarKind]*Scalar{
	U8: TypeU8, I8: TypeI8, U16: TypeU16, I16: TypeI16,
	U32: TypeU32, I32: TypeI32, F32: TypeF32, Bool: TypeBool,
}

func ScalarOf(kind ScalarKind) *Scalar { return scalarSingletons[kind] }

// TupleField is one named position of a tuple. Order and names are both
// significant for compatibility.
type TupleField struct {
	Name string
	Type Type
}

type Tuple struct {
	Fields []TupleField
}

// Unit is the empty tuple, the vacuous aggregate for fold operators.
var Unit = &Tuple{}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) Equal(other Type) bool {
	o, ok := other.(*Tuple)
	if !ok || len(o.Fields) != len(t.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if o.Fields[i].Name != f.Name || !f.Type.Equal(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

// Field returns the named field and its position, or nil when absent.
func (t *Tuple) Field(name string) (*TupleField, int) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], i
		}
	}
	return nil, -1
}

// Vector is a homogeneous aggregate of fixed length, at least 2.
type Vector struct {
	Elem   Type
	Length int
}

func (v *Vector) String() string {
	return fmt.Sprintf("[%d]%s", v.Length, v.Elem.String())
}

func (v *Vector) Equal(other Type) bool {
	o, ok := other.(*Vector)
	return ok && o.Length == v.Length && v.Elem.Equal(o.Elem)
}

// SumVariant is one tagged alternative of a sum type.
type SumVariant struct {
	Tag  string
	Type Type
}

// Sum is an ordered tagged union with at least 2 variants.
type Sum struct {
	Variants []SumVariant
}

func (s *Sum) String() string {
	parts := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		parts[i] = fmt.Sprintf("%s(%s)", v.Tag, v.Type.String())
	}
	return "<" + strings.Join(parts, " | ") + ">"
}

func (s *Sum) Equal(other Type) bool {
	o, ok := other.(*Sum)
	if !ok || len(o.Variants) != len(s.Variants) {
		return false
	}
	for i, v := range s.Variants {
		if o.Variants[i].Tag != v.Tag || !v.Type.Equal(o.Variants[i].Type) {
			return false
		}
	}
	return true
}

// Variant returns the variant with the given tag, or nil.
func (s *Sum) Variant(tag string) *SumVariant {
	for i := range s.Variants {
		if s.Variants[i].Tag == tag {
			return &s.Variants[i]
		}
	}
	return nil
}

// EnumTag is one named constant of an enum.
type EnumTag struct {
	Name  string
	Value int64
}

// Enum is an ordered mapping of tags to integer constants, at least 2 tags.
type Enum struct {
	Tags []EnumTag
}

func (e *Enum) String() string {
	parts := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		parts[i] = fmt.Sprintf("%s = %d", t.Name, t.Value)
	}
	return "enum{" + strings.Join(parts, ", ") + "}"
}

func (e *Enum) Equal(other Type) bool {
	o, ok := other.(*Enum)
	if !ok || len(o.Tags) != len(e.Tags) {
		return false
	}
	for i, t := range e.Tags {
		if o.Tags[i].Name != t.Name || o.Tags[i].Value != t.Value {
			return false
		}
	}
	return true
}

// Tag returns the tag with the given name, or nil.
func (e *Enum) Tag(name string) *EnumTag {
	for i := range e.Tags {
		if e.Tags[i].Name == name {
			return &e.Tags[i]
		}
	}
	return nil
}

// Pointer is a reference to a referent type. Pointers are never storable:
// the resolver rejects any assignment, declaration or function output whose
// static type is a Pointer.
type Pointer struct {
	Referent Type
}

func (p *Pointer) String() string { return "&" + p.Referent.String() }

func (p *Pointer) Equal(other Type) bool {
	o, ok := other.(*Pointer)
	return ok && p.Referent.Equal(o.Referent)
}

// IsNumeric reports whether t belongs to the numeric scalar family.
func IsNumeric(t Type) bool {
	s, ok := t.(*Scalar)
	return ok && s.Kind != Bool
}

// IsInteger reports whether t is an integer scalar.
func IsInteger(t Type) bool {
	s, ok := t.(*Scalar)
	return ok && s.Kind != Bool && s.Kind != F32
}

// IsBool reports whether t is the boolean scalar.
func IsBool(t Type) bool {
	s, ok := t.(*Scalar)
	return ok && s.Kind == Bool
}

// IsBoolAggregate reports whether t is a tuple or vector whose elements all
// reduce to bool, the operand family of the fold operators. The unit tuple
// qualifies vacuously.
func IsBoolAggregate(t Type) bool {
	switch agg := t.(type) {
	case *Tuple:
		for _, f := range agg.Fields {
			if !IsBool(f.Type) {
				return false
			}
		}
		return true
	case *Vector:
		return IsBool(agg.Elem)
	}
	return false
}
