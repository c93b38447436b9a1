package eval

import (
	"fmt"
	"strings"

	"tact/internal/types"
)

// Value is a fully evaluated runtime value. Aggregates own their elements;
// assignment through a path clones the spine so bindings never alias.
type Value interface {
	Type() types.Type
	String() string
}

// IntValue is an integer scalar value. The scalar type determines the
// overflow range enforced by arithmetic.
type IntValue struct {
	T *types.Scalar
	V int64
}

type FloatValue struct {
	V float32
}

type BoolValue struct {
	V bool
}

// TupleValue holds one value per field, in field order.
type TupleValue struct {
	T      *types.Tuple
	Fields []Value
}

type VectorValue struct {
	T     *types.Vector
	Elems []Value
}

// VariantValue is a sum-type value: the active tag and its payload.
type VariantValue struct {
	T       *types.Sum
	Tag     string
	Payload Value
}

// EnumValue is an enum tag, carrying its integer constant for comparisons.
type EnumValue struct {
	T   *types.Enum
	Tag string
	V   int64
}

func (v *IntValue) Type() types.Type     { return v.T }
func (v *FloatValue) Type() types.Type   { return types.TypeF32 }
func (v *BoolValue) Type() types.Type    { return types.TypeBool }
func (v *TupleValue) Type() types.Type   { return v.T }
func (v *VectorValue) Type() types.Type  { return v.T }
func (v *VariantValue) Type() types.Type { return v.T }
func (v *EnumValue) Type() types.Type    { return v.T }

func (v *IntValue) String() string   { return fmt.Sprintf("%d", v.V) }
func (v *FloatValue) String() string { return fmt.Sprintf("%g", v.V) }
func (v *BoolValue) String() string {
	if v.V {
		return "true"
	}
	return "false"
}

func (v *TupleValue) String() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = v.T.Fields[i].Name + ": " + f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v *VectorValue) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v *VariantValue) String() string {
	return v.Tag + "(" + v.Payload.String() + ")"
}

func (v *EnumValue) String() string { return v.Tag }

// ZeroValue constructs the zero value of a type: integers and floats are 0,
// booleans false, aggregates are zeroed element-wise, sums take their first
// variant's zero payload, enums their first tag.
func ZeroValue(t types.Type) Value {
	switch ty := t.(type) {
	case *types.Scalar:
		switch ty.Kind {
		case types.Bool:
			return &BoolValue{}
		case types.F32:
			return &FloatValue{}
		default:
			return &IntValue{T: ty}
		}
	case *types.Tuple:
		fields := make([]Value, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = ZeroValue(f.Type)
		}
		return &TupleValue{T: ty, Fields: fields}
	case *types.Vector:
		elems := make([]Value, ty.Length)
		for i := range elems {
			elems[i] = ZeroValue(ty.Elem)
		}
		return &VectorValue{T: ty, Elems: elems}
	case *types.Sum:
		v := ty.Variants[0]
		return &VariantValue{T: ty, Tag: v.Tag, Payload: ZeroValue(v.Type)}
	case *types.Enum:
		tag := ty.Tags[0]
		return &EnumValue{T: ty, Tag: tag.Name, V: tag.Value}
	}
	return nil
}

// valuesEqual implements the structural equality of == and !=.
func valuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case *IntValue:
		if y, ok := b.(*IntValue); ok {
			return x.V == y.V
		}
	case *FloatValue:
		if y, ok := b.(*FloatValue); ok {
			return x.V == y.V
		}
	case *BoolValue:
		if y, ok := b.(*BoolValue); ok {
			return x.V == y.V
		}
	case *TupleValue:
		y, ok := b.(*TupleValue)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !valuesEqual(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	case *VectorValue:
		y, ok := b.(*VectorValue)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !valuesEqual(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *VariantValue:
		y, ok := b.(*VariantValue)
		if !ok {
			return false
		}
		return x.Tag == y.Tag && valuesEqual(x.Payload, y.Payload)
	case *EnumValue:
		if y, ok := b.(*EnumValue); ok {
			return x.V == y.V
		}
	}
	return false
}
