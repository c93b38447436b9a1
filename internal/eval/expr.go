package eval

import (
	"tact/internal/ast"
	"tact/internal/ir"
	"tact/internal/types"
)

func (m *machine) evalExpr(f *frame, e ir.Expr) (Value, error) {
	switch x := e.(type) {
	case *ir.IntLit:
		scalar, ok := x.T.(*types.Scalar)
		if !ok {
			return nil, internalErrorf("integer literal with non-scalar type %s", x.T)
		}
		return &IntValue{T: scalar, V: x.Value}, nil

	case *ir.FloatLit:
		return &FloatValue{V: float32(x.Value)}, nil

	case *ir.BoolLit:
		return &BoolValue{V: x.Value}, nil

	case *ir.VarRef:
		if v, ok := f.lookup(x.Name); ok {
			return v, nil
		}
		// Module variables are linker state; their values are not known at
		// compile time.
		for _, g := range m.program.Globals {
			if g.Name == x.Name {
				return nil, evalErrorf("reads module variable %s", x.Name)
			}
		}
		return nil, internalErrorf("unbound variable %s", x.Name)

	case *ir.Binary:
		return m.evalBinary(f, x)

	case *ir.Unary:
		return m.evalUnary(f, x)

	case *ir.Call:
		return m.evalCall(f, x)

	case *ir.Cast:
		v, err := m.evalExpr(f, x.X)
		if err != nil {
			return nil, err
		}
		return widenValue(v, x.T)

	case *ir.MakeTuple:
		if err := m.tick(1); err != nil {
			return nil, err
		}
		fields := make([]Value, len(x.Values))
		for i, fe := range x.Values {
			v, err := m.evalExpr(f, fe)
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
		return &TupleValue{T: x.T, Fields: fields}, nil

	case *ir.MakeVector:
		if err := m.tick(1); err != nil {
			return nil, err
		}
		elems := make([]Value, len(x.Elems))
		for i, ee := range x.Elems {
			v, err := m.evalExpr(f, ee)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &VectorValue{T: x.T, Elems: elems}, nil

	case *ir.FieldAccess:
		v, err := m.evalExpr(f, x.X)
		if err != nil {
			return nil, err
		}
		tup, ok := v.(*TupleValue)
		if !ok {
			return nil, internalErrorf("field access on non-tuple %s", v.Type())
		}
		if err := m.tick(1); err != nil {
			return nil, err
		}
		return tup.Fields[x.FieldIdx], nil

	case *ir.Index:
		v, err := m.evalExpr(f, x.X)
		if err != nil {
			return nil, err
		}
		idx, err := m.evalInt(f, x.Idx)
		if err != nil {
			return nil, err
		}
		vec, ok := v.(*VectorValue)
		if !ok {
			return nil, internalErrorf("index on non-vector %s", v.Type())
		}
		if idx < 0 || int(idx) >= len(vec.Elems) {
			return nil, evalErrorf("index %d out of range for %s", idx, vec.T)
		}
		if err := m.tick(1); err != nil {
			return nil, err
		}
		return vec.Elems[idx], nil

	case *ir.Fold:
		v, err := m.evalExpr(f, x.X)
		if err != nil {
			return nil, err
		}
		if err := m.tick(1); err != nil {
			return nil, err
		}
		return foldBools(x.Op, v)

	case *ir.MakeVariant:
		v, err := m.evalExpr(f, x.Payload)
		if err != nil {
			return nil, err
		}
		if err := m.tick(1); err != nil {
			return nil, err
		}
		return &VariantValue{T: x.T, Tag: x.Tag, Payload: v}, nil

	case *ir.EnumConst:
		return &EnumValue{T: x.T, Tag: x.Tag, V: x.Value}, nil
	}
	return nil, internalErrorf("unknown expression %T", e)
}

func (m *machine) evalCall(f *frame, x *ir.Call) (Value, error) {
	if x.Imported {
		return nil, evalErrorf("calls imported function %s", x.Callee)
	}
	fn := m.program.Function(x.Callee)
	if fn == nil {
		return nil, internalErrorf("unknown callee %s", x.Callee)
	}
	arg, err := m.evalExpr(f, x.Arg)
	if err != nil {
		return nil, err
	}
	if err := m.tick(1); err != nil {
		return nil, err
	}
	return m.call(fn, arg)
}

func (m *machine) evalBinary(f *frame, x *ir.Binary) (Value, error) {
	l, err := m.evalExpr(f, x.L)
	if err != nil {
		return nil, err
	}
	r, err := m.evalExpr(f, x.R)
	if err != nil {
		return nil, err
	}
	if err := m.tick(1); err != nil {
		return nil, err
	}

	switch x.Op {
	case "and", "or":
		lb, lok := l.(*BoolValue)
		rb, rok := r.(*BoolValue)
		if !lok || !rok {
			return nil, internalErrorf("boolean operator on %s and %s", l.Type(), r.Type())
		}
		if x.Op == "and" {
			return &BoolValue{V: lb.V && rb.V}, nil
		}
		return &BoolValue{V: lb.V || rb.V}, nil

	case "==":
		return &BoolValue{V: valuesEqual(l, r)}, nil
	case "!=":
		return &BoolValue{V: !valuesEqual(l, r)}, nil
	}

	if li, ok := l.(*IntValue); ok {
		ri, ok := r.(*IntValue)
		if !ok {
			return nil, internalErrorf("mixed operands for %s", x.Op)
		}
		return intBinary(x, li, ri)
	}
	if lf, ok := l.(*FloatValue); ok {
		rf, ok := r.(*FloatValue)
		if !ok {
			return nil, internalErrorf("mixed operands for %s", x.Op)
		}
		return floatBinary(x.Op, lf.V, rf.V)
	}
	return nil, internalErrorf("operator %s on %s", x.Op, l.Type())
}

func intBinary(x *ir.Binary, l, r *IntValue) (Value, error) {
	switch x.Op {
	case "<":
		return &BoolValue{V: l.V < r.V}, nil
	case "<=":
		return &BoolValue{V: l.V <= r.V}, nil
	case ">":
		return &BoolValue{V: l.V > r.V}, nil
	case ">=":
		return &BoolValue{V: l.V >= r.V}, nil
	}

	scalar, ok := x.T.(*types.Scalar)
	if !ok {
		return nil, internalErrorf("arithmetic with non-scalar result %s", x.T)
	}
	var v int64
	switch x.Op {
	case "+":
		v = l.V + r.V
	case "-":
		v = l.V - r.V
	case "*":
		v = l.V * r.V
	case "/":
		if r.V == 0 {
			return nil, evalErrorf("division by zero")
		}
		v = l.V / r.V
	case "%":
		if r.V == 0 {
			return nil, evalErrorf("division by zero")
		}
		v = l.V % r.V
	default:
		return nil, internalErrorf("unknown integer operator %s", x.Op)
	}
	min, max := types.IntegerRange(scalar.Kind)
	if v < min || v > max {
		return nil, evalErrorf("%s overflow: %d is outside [%d, %d]", scalar, v, min, max)
	}
	return &IntValue{T: scalar, V: v}, nil
}

func floatBinary(op string, l, r float32) (Value, error) {
	switch op {
	case "<":
		return &BoolValue{V: l < r}, nil
	case "<=":
		return &BoolValue{V: l <= r}, nil
	case ">":
		return &BoolValue{V: l > r}, nil
	case ">=":
		return &BoolValue{V: l >= r}, nil
	case "+":
		return &FloatValue{V: l + r}, nil
	case "-":
		return &FloatValue{V: l - r}, nil
	case "*":
		return &FloatValue{V: l * r}, nil
	case "/":
		if r == 0 {
			return nil, evalErrorf("division by zero")
		}
		return &FloatValue{V: l / r}, nil
	}
	return nil, internalErrorf("unknown float operator %s", op)
}

func (m *machine) evalUnary(f *frame, x *ir.Unary) (Value, error) {
	v, err := m.evalExpr(f, x.X)
	if err != nil {
		return nil, err
	}
	if err := m.tick(1); err != nil {
		return nil, err
	}
	switch x.Op {
	case "not":
		b, ok := v.(*BoolValue)
		if !ok {
			return nil, internalErrorf("not on %s", v.Type())
		}
		return &BoolValue{V: !b.V}, nil
	case "-":
		switch n := v.(type) {
		case *IntValue:
			scalar, ok := x.T.(*types.Scalar)
			if !ok {
				return nil, internalErrorf("negation with non-scalar type %s", x.T)
			}
			neg := -n.V
			min, max := types.IntegerRange(scalar.Kind)
			if neg < min || neg > max {
				return nil, evalErrorf("%s overflow: %d is outside [%d, %d]", scalar, neg, min, max)
			}
			return &IntValue{T: scalar, V: neg}, nil
		case *FloatValue:
			return &FloatValue{V: -n.V}, nil
		}
		return nil, internalErrorf("negation on %s", v.Type())
	case "*":
		// Pointer referents are linker state, same as module variables.
		return nil, evalErrorf("dereferences a pointer")
	}
	return nil, internalErrorf("unknown unary operator %s", x.Op)
}

// widenValue converts a value along an implicit lossless cast. Aggregate
// casts widen element-wise, mirroring how the checker lifts widening over
// tuples and vectors.
func widenValue(v Value, to types.Type) (Value, error) {
	switch target := to.(type) {
	case *types.Scalar:
		switch x := v.(type) {
		case *IntValue:
			if target.Kind == types.F32 {
				return &FloatValue{V: float32(x.V)}, nil
			}
			return &IntValue{T: target, V: x.V}, nil
		case *FloatValue:
			if target.Kind == types.F32 {
				return x, nil
			}
		case *BoolValue:
			if target.Kind == types.Bool {
				return x, nil
			}
		}

	case *types.Tuple:
		tup, ok := v.(*TupleValue)
		if !ok || len(tup.Fields) != len(target.Fields) {
			break
		}
		fields := make([]Value, len(tup.Fields))
		for i, fv := range tup.Fields {
			wv, err := widenValue(fv, target.Fields[i].Type)
			if err != nil {
				return nil, err
			}
			fields[i] = wv
		}
		return &TupleValue{T: target, Fields: fields}, nil

	case *types.Vector:
		vec, ok := v.(*VectorValue)
		if !ok || len(vec.Elems) != target.Length {
			break
		}
		elems := make([]Value, len(vec.Elems))
		for i, ev := range vec.Elems {
			wv, err := widenValue(ev, target.Elem)
			if err != nil {
				return nil, err
			}
			elems[i] = wv
		}
		return &VectorValue{T: target, Elems: elems}, nil
	}
	return nil, internalErrorf("cast from %s to %s", v.Type(), to)
}

// foldBools reduces a boolean aggregate with ALL, NONE or ANY. The empty
// tuple folds to the operator's identity: ALL and NONE hold vacuously, ANY
// does not.
func foldBools(op ast.FoldOp, v Value) (Value, error) {
	var elems []Value
	switch agg := v.(type) {
	case *TupleValue:
		elems = agg.Fields
	case *VectorValue:
		elems = agg.Elems
	default:
		return nil, internalErrorf("fold on %s", v.Type())
	}

	anyTrue := false
	allTrue := true
	for _, e := range elems {
		b, ok := e.(*BoolValue)
		if !ok {
			return nil, internalErrorf("fold over non-boolean element %s", e.Type())
		}
		if b.V {
			anyTrue = true
		} else {
			allTrue = false
		}
	}

	switch op {
	case ast.FoldAll:
		return &BoolValue{V: allTrue}, nil
	case ast.FoldNone:
		return &BoolValue{V: !anyTrue}, nil
	case ast.FoldAny:
		return &BoolValue{V: anyTrue}, nil
	}
	return nil, internalErrorf("unknown fold operator")
}
