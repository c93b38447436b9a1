package eval

import (
	goerrors "errors"

	"tact/internal/ast"
	"tact/internal/errors"
	"tact/internal/ir"
	"tact/internal/types"
)

// Folder rewrites call sites whose callee is pure and whose argument is
// fully constant into the literal result of evaluating the call. A failed
// evaluation of a @const callee is a compile error: @const promises its
// callers a compile-time value, so there is nothing to fall back to. A
// failed evaluation of a merely @pure callee leaves the call in place for
// the runtime, silently.
type Folder struct {
	program *ir.Program
	errors  []errors.CompilerError
}

func NewFolder(program *ir.Program) *Folder {
	return &Folder{program: program}
}

// Errors returns all accumulated diagnostics.
func (f *Folder) Errors() []errors.CompilerError {
	return f.errors
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (f *Folder) HasErrors() bool {
	for _, err := range f.errors {
		if err.Level == errors.Error {
			return true
		}
	}
	return false
}

// Fold rewrites the program in place. Expressions fold bottom-up, so an
// inner folded call can turn an outer call's argument constant.
func (f *Folder) Fold() {
	for _, g := range f.program.Globals {
		if g.Init != nil {
			g.Init = f.foldExpr(g.Init)
		}
	}
	for _, fn := range f.program.Functions {
		f.foldInstr(fn.Body)
	}
}

func (f *Folder) foldInstr(instr ir.Instr) {
	switch s := instr.(type) {
	case *ir.Block:
		for _, v := range s.Vars {
			if v.Init != nil {
				v.Init = f.foldExpr(v.Init)
			}
		}
		for _, item := range s.Items {
			f.foldInstr(item)
		}
	case *ir.Set:
		for _, w := range s.With {
			w.Value = f.foldExpr(w.Value)
		}
		for _, e := range s.Entries {
			e.Value = f.foldExpr(e.Value)
			e.Target = f.foldExpr(e.Target)
		}
	case *ir.If:
		for _, arm := range s.Arms {
			arm.Cond = f.foldExpr(arm.Cond)
			f.foldInstr(arm.Body)
		}
		if s.Default != nil {
			f.foldInstr(s.Default)
		}
	case *ir.For:
		s.From = f.foldExpr(s.From)
		s.To = f.foldExpr(s.To)
		f.foldInstr(s.Body)
	case *ir.While:
		s.Cond = f.foldExpr(s.Cond)
		f.foldInstr(s.Body)
	case *ir.Match:
		s.Scrutinee = f.foldExpr(s.Scrutinee)
		for _, arm := range s.Arms {
			f.foldInstr(arm.Body)
		}
		if s.Default != nil {
			f.foldInstr(s.Default)
		}
	case *ir.ExprStmt:
		s.X = f.foldExpr(s.X)
	}
}

func (f *Folder) foldExpr(e ir.Expr) ir.Expr {
	switch x := e.(type) {
	case *ir.Binary:
		x.L = f.foldExpr(x.L)
		x.R = f.foldExpr(x.R)
		return x
	case *ir.Unary:
		x.X = f.foldExpr(x.X)
		return x
	case *ir.Cast:
		x.X = f.foldExpr(x.X)
		return x
	case *ir.MakeTuple:
		for i, v := range x.Values {
			x.Values[i] = f.foldExpr(v)
		}
		return x
	case *ir.MakeVector:
		for i, v := range x.Elems {
			x.Elems[i] = f.foldExpr(v)
		}
		return x
	case *ir.FieldAccess:
		x.X = f.foldExpr(x.X)
		return x
	case *ir.Index:
		x.X = f.foldExpr(x.X)
		x.Idx = f.foldExpr(x.Idx)
		return x
	case *ir.Fold:
		x.X = f.foldExpr(x.X)
		return x
	case *ir.MakeVariant:
		x.Payload = f.foldExpr(x.Payload)
		return x
	case *ir.Call:
		x.Arg = f.foldExpr(x.Arg)
		return f.foldCall(x)
	}
	return e
}

func (f *Folder) foldCall(call *ir.Call) ir.Expr {
	if call.Imported {
		return call
	}
	fn := f.program.Function(call.Callee)
	if fn == nil || !fn.Pure || !fn.Bound.IsFinite() {
		return call
	}
	arg, ok := litValue(call.Arg)
	if !ok {
		return call
	}

	result, err := Invoke(f.program, fn, arg)
	if err == nil {
		return valueToExpr(result, call.Pos)
	}

	var internal *internalError
	if goerrors.As(err, &internal) {
		f.errors = append(f.errors, errors.Internal(internal.msg, call.Pos))
		return call
	}
	if fn.Const {
		f.errors = append(f.errors, errors.ConstEvaluation(fn.Name, err.Error(), call.Pos))
	}
	return call
}

// litValue extracts the constant value of a literal expression tree, if the
// whole tree is constant.
func litValue(e ir.Expr) (Value, bool) {
	switch x := e.(type) {
	case *ir.IntLit:
		scalar, ok := x.T.(*types.Scalar)
		if !ok {
			return nil, false
		}
		return &IntValue{T: scalar, V: x.Value}, true
	case *ir.FloatLit:
		return &FloatValue{V: float32(x.Value)}, true
	case *ir.BoolLit:
		return &BoolValue{V: x.Value}, true
	case *ir.EnumConst:
		return &EnumValue{T: x.T, Tag: x.Tag, V: x.Value}, true
	case *ir.Cast:
		inner, ok := litValue(x.X)
		if !ok {
			return nil, false
		}
		v, err := widenValue(inner, x.T)
		if err != nil {
			return nil, false
		}
		return v, true
	case *ir.MakeTuple:
		fields := make([]Value, len(x.Values))
		for i, fe := range x.Values {
			v, ok := litValue(fe)
			if !ok {
				return nil, false
			}
			fields[i] = v
		}
		return &TupleValue{T: x.T, Fields: fields}, true
	case *ir.MakeVector:
		elems := make([]Value, len(x.Elems))
		for i, ee := range x.Elems {
			v, ok := litValue(ee)
			if !ok {
				return nil, false
			}
			elems[i] = v
		}
		return &VectorValue{T: x.T, Elems: elems}, true
	case *ir.MakeVariant:
		payload, ok := litValue(x.Payload)
		if !ok {
			return nil, false
		}
		return &VariantValue{T: x.T, Tag: x.Tag, Payload: payload}, true
	}
	return nil, false
}

// valueToExpr renders an evaluated value back into literal IR.
func valueToExpr(v Value, pos ast.Position) ir.Expr {
	switch x := v.(type) {
	case *IntValue:
		return &ir.IntLit{Pos: pos, T: x.T, Value: x.V}
	case *FloatValue:
		return &ir.FloatLit{Pos: pos, Value: float64(x.V)}
	case *BoolValue:
		return &ir.BoolLit{Pos: pos, Value: x.V}
	case *TupleValue:
		values := make([]ir.Expr, len(x.Fields))
		for i, fv := range x.Fields {
			values[i] = valueToExpr(fv, pos)
		}
		return &ir.MakeTuple{Pos: pos, Values: values, T: x.T}
	case *VectorValue:
		elems := make([]ir.Expr, len(x.Elems))
		for i, ev := range x.Elems {
			elems[i] = valueToExpr(ev, pos)
		}
		return &ir.MakeVector{Pos: pos, Elems: elems, T: x.T}
	case *VariantValue:
		return &ir.MakeVariant{Pos: pos, Tag: x.Tag, Payload: valueToExpr(x.Payload, pos), T: x.T}
	case *EnumValue:
		return &ir.EnumConst{Pos: pos, Tag: x.Tag, Value: x.V, T: x.T}
	}
	return nil
}
