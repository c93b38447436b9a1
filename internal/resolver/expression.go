package resolver

import (
	"fmt"

	"tact/internal/ast"
	"tact/internal/errors"
	"tact/internal/ir"
	"tact/internal/types"
)

// resolveExpr types an expression, inserting implicit widening casts where
// the compatibility check demands them. Returns nil after recording a
// diagnostic.
func (r *Resolver) resolveExpr(expr ast.Expr, scope *SymbolTable) ir.Expr {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return r.resolveLiteral(e)
	case *ast.IdentExpr:
		return r.resolveIdent(e, scope)
	case *ast.BinaryExpr:
		return r.resolveBinary(e, scope)
	case *ast.UnaryExpr:
		return r.resolveUnary(e, scope)
	case *ast.CallExpr:
		return r.resolveCall(e, scope)
	case *ast.TupleExpr:
		return r.resolveTuple(e, scope)
	case *ast.VectorExpr:
		return r.resolveVector(e, scope)
	case *ast.FieldAccessExpr:
		return r.resolveFieldAccess(e, scope)
	case *ast.IndexExpr:
		return r.resolveIndex(e, scope)
	case *ast.FoldExpr:
		return r.resolveFold(e, scope)
	case *ast.VariantExpr:
		return r.resolveVariant(e, scope)
	case *ast.EnumConstExpr:
		return r.resolveEnumConst(e, scope)
	}
	r.addError(errors.Internal("unhandled expression kind", expr.NodePos()))
	return nil
}

func (r *Resolver) resolveLiteral(e *ast.LiteralExpr) ir.Expr {
	switch e.Kind {
	case ast.IntLiteral:
		t := types.SmallestIntFor(e.IntVal)
		if t == nil {
			r.addError(errors.LiteralOutOfRange(e.IntVal, e.Pos))
			return nil
		}
		return &ir.IntLit{Pos: e.Pos, T: t, Value: e.IntVal}
	case ast.FloatLiteral:
		return &ir.FloatLit{Pos: e.Pos, Value: e.FloatVal}
	default:
		return &ir.BoolLit{Pos: e.Pos, Value: e.BoolVal}
	}
}

func (r *Resolver) resolveIdent(e *ast.IdentExpr, scope *SymbolTable) ir.Expr {
	sym := scope.Lookup(e.Name)
	if sym == nil {
		similar := errors.FindSimilarNames(e.Name, scope.Names())
		r.addError(errors.UndefinedName(e.Name, e.Pos, similar))
		return nil
	}
	sym.Used = true
	return &ir.VarRef{Pos: e.Pos, Name: e.Name, T: sym.Type}
}

var boolOps = map[string]bool{"and": true, "or": true}
var compareOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var arithOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}

func (r *Resolver) resolveBinary(e *ast.BinaryExpr, scope *SymbolTable) ir.Expr {
	left := r.resolveExpr(e.Left, scope)
	right := r.resolveExpr(e.Right, scope)
	if left == nil || right == nil {
		return nil
	}

	switch {
	case boolOps[e.Op]:
		if !types.IsBool(left.Type()) || !types.IsBool(right.Type()) {
			r.addError(errors.IncompatibleOperand(e.Op, left.Type().String(), right.Type().String(), e.Pos))
			return nil
		}
		return &ir.Binary{Pos: e.Pos, Op: e.Op, L: left, R: right, T: types.TypeBool}

	case arithOps[e.Op]:
		if !types.IsNumeric(left.Type()) || !types.IsNumeric(right.Type()) {
			r.addError(errors.IncompatibleOperand(e.Op, left.Type().String(), right.Type().String(), e.Pos))
			return nil
		}
		if e.Op == "%" && (!types.IsInteger(left.Type()) || !types.IsInteger(right.Type())) {
			r.addError(errors.IncompatibleOperand(e.Op, left.Type().String(), right.Type().String(), e.Pos))
			return nil
		}
		l, rr, common := r.widenPair(left, right, e.Pos, e.Op)
		if common == nil {
			return nil
		}
		return &ir.Binary{Pos: e.Pos, Op: e.Op, L: l, R: rr, T: common}

	case compareOps[e.Op]:
		if !types.IsNumeric(left.Type()) || !types.IsNumeric(right.Type()) {
			r.addError(errors.IncompatibleOperand(e.Op, left.Type().String(), right.Type().String(), e.Pos))
			return nil
		}
		l, rr, common := r.widenPair(left, right, e.Pos, e.Op)
		if common == nil {
			return nil
		}
		return &ir.Binary{Pos: e.Pos, Op: e.Op, L: l, R: rr, T: types.TypeBool}

	case equalityOps[e.Op]:
		// Equality works across the numeric family via widening, and on any
		// pair of structurally equal types (bools, enums, tuples of such).
		if types.IsNumeric(left.Type()) && types.IsNumeric(right.Type()) {
			l, rr, common := r.widenPair(left, right, e.Pos, e.Op)
			if common == nil {
				return nil
			}
			return &ir.Binary{Pos: e.Pos, Op: e.Op, L: l, R: rr, T: types.TypeBool}
		}
		if !left.Type().Equal(right.Type()) {
			r.addError(errors.IncompatibleOperand(e.Op, left.Type().String(), right.Type().String(), e.Pos))
			return nil
		}
		return &ir.Binary{Pos: e.Pos, Op: e.Op, L: left, R: right, T: types.TypeBool}
	}

	r.addError(errors.IncompatibleOperand(e.Op, left.Type().String(), right.Type().String(), e.Pos))
	return nil
}

func (r *Resolver) resolveUnary(e *ast.UnaryExpr, scope *SymbolTable) ir.Expr {
	operand := r.resolveExpr(e.Operand, scope)
	if operand == nil {
		return nil
	}

	switch e.Op {
	case "not":
		if !types.IsBool(operand.Type()) {
			r.addError(errors.IncompatibleOperand(e.Op, operand.Type().String(), "", e.Pos))
			return nil
		}
		return &ir.Unary{Pos: e.Pos, Op: e.Op, X: operand, T: types.TypeBool}

	case "-":
		// Negating an integer literal folds into the literal itself so that
		// "-1" types as i8, not as a negated u8.
		if lit, ok := operand.(*ir.IntLit); ok {
			t := types.SmallestIntFor(-lit.Value)
			if t == nil {
				r.addError(errors.LiteralOutOfRange(-lit.Value, e.Pos))
				return nil
			}
			return &ir.IntLit{Pos: e.Pos, T: t, Value: -lit.Value}
		}
		if !types.IsNumeric(operand.Type()) {
			r.addError(errors.IncompatibleOperand(e.Op, operand.Type().String(), "", e.Pos))
			return nil
		}
		t := negationType(operand.Type())
		if t == nil {
			r.addError(errors.IncompatibleOperand(e.Op, operand.Type().String(), "", e.Pos))
			return nil
		}
		x := operand
		if !t.Equal(operand.Type()) {
			x = &ir.Cast{Pos: e.Pos, X: operand, T: t}
		}
		return &ir.Unary{Pos: e.Pos, Op: e.Op, X: x, T: t}

	case "*":
		// Pointer dereference yields the referent value.
		ptr, ok := operand.Type().(*types.Pointer)
		if !ok {
			r.addError(errors.IncompatibleOperand(e.Op, operand.Type().String(), "", e.Pos))
			return nil
		}
		return &ir.Unary{Pos: e.Pos, Op: e.Op, X: operand, T: ptr.Referent}
	}

	r.addError(errors.IncompatibleOperand(e.Op, operand.Type().String(), "", e.Pos))
	return nil
}

// negationType gives the signed type a negation result needs: signed and
// float types keep their own, unsigned types widen to the signed type that
// holds their full range. u32 has no such type.
func negationType(t types.Type) types.Type {
	s, ok := t.(*types.Scalar)
	if !ok {
		return nil
	}
	switch s.Kind {
	case types.I8, types.I16, types.I32, types.F32:
		return t
	case types.U8:
		return types.TypeI16
	case types.U16:
		return types.TypeI32
	}
	return nil
}

func (r *Resolver) resolveCall(e *ast.CallExpr, scope *SymbolTable) ir.Expr {
	name := e.Callee.Value
	sig := r.signatures[name]
	if sig == nil {
		candidates := make([]string, 0, len(r.signatures))
		for n := range r.signatures {
			candidates = append(candidates, n)
		}
		r.addError(errors.UndefinedName(name, e.Pos, errors.FindSimilarNames(name, candidates)))
		return nil
	}

	arg := r.resolveExpr(e.Arg, scope)
	if arg == nil {
		return nil
	}
	arg = r.coerce(arg, sig.input, e.Arg.NodePos())
	if arg == nil {
		return nil
	}
	return &ir.Call{Pos: e.Pos, Callee: name, Arg: arg, T: sig.output, Imported: sig.imported}
}

func (r *Resolver) resolveTuple(e *ast.TupleExpr, scope *SymbolTable) ir.Expr {
	fields := make([]types.TupleField, len(e.Fields))
	values := make([]ir.Expr, len(e.Fields))
	seen := make(map[string]bool, len(e.Fields))
	for i, f := range e.Fields {
		if seen[f.Name.Value] {
			r.addError(errors.DuplicateDeclaration(f.Name.Value, f.Pos))
			return nil
		}
		seen[f.Name.Value] = true
		v := r.resolveExpr(f.Value, scope)
		if v == nil {
			return nil
		}
		fields[i] = types.TupleField{Name: f.Name.Value, Type: v.Type()}
		values[i] = v
	}
	return &ir.MakeTuple{Pos: e.Pos, Values: values, T: &types.Tuple{Fields: fields}}
}

func (r *Resolver) resolveVector(e *ast.VectorExpr, scope *SymbolTable) ir.Expr {
	if len(e.Elems) < 2 {
		r.addError(errors.NewError(errors.ErrorTypeMismatch, "vector literal must have at least 2 elements", e.Pos).Build())
		return nil
	}
	elems := make([]ir.Expr, len(e.Elems))
	for i, el := range e.Elems {
		v := r.resolveExpr(el, scope)
		if v == nil {
			return nil
		}
		elems[i] = v
	}

	// All elements must share a lossless common type.
	common := elems[0].Type()
	for _, el := range elems[1:] {
		res := types.Check(common, el.Type())
		if res.Status == types.Incompatible {
			r.addError(errors.TypeMismatch(common.String(), el.Type().String(), el.ExprPos()))
			return nil
		}
		common = res.Type
	}
	for i, el := range elems {
		elems[i] = r.coerce(el, common, el.ExprPos())
		if elems[i] == nil {
			return nil
		}
	}
	return &ir.MakeVector{Pos: e.Pos, Elems: elems, T: &types.Vector{Elem: common, Length: len(elems)}}
}

func (r *Resolver) resolveFieldAccess(e *ast.FieldAccessExpr, scope *SymbolTable) ir.Expr {
	target := r.resolveExpr(e.Target, scope)
	if target == nil {
		return nil
	}
	tuple, ok := target.Type().(*types.Tuple)
	if !ok {
		r.addError(errors.IncompatibleOperand("."+e.Field.Value, target.Type().String(), "", e.Pos))
		return nil
	}
	field, idx := tuple.Field(e.Field.Value)
	if field == nil {
		available := make([]string, len(tuple.Fields))
		for i, f := range tuple.Fields {
			available[i] = f.Name
		}
		r.addError(errors.UndefinedName(e.Field.Value, e.Field.Pos, errors.FindSimilarNames(e.Field.Value, available)))
		return nil
	}
	return &ir.FieldAccess{Pos: e.Pos, X: target, Field: field.Name, FieldIdx: idx, T: field.Type}
}

func (r *Resolver) resolveIndex(e *ast.IndexExpr, scope *SymbolTable) ir.Expr {
	target := r.resolveExpr(e.Target, scope)
	index := r.resolveExpr(e.Index, scope)
	if target == nil || index == nil {
		return nil
	}
	vec, ok := target.Type().(*types.Vector)
	if !ok {
		r.addError(errors.IncompatibleOperand("[]", target.Type().String(), "", e.Pos))
		return nil
	}
	if !types.IsInteger(index.Type()) {
		r.addError(errors.IncompatibleOperand("[]", vec.String(), index.Type().String(), e.Pos))
		return nil
	}
	if v, ok := ir.ConstInt(index); ok && (v < 0 || v >= int64(vec.Length)) {
		r.addError(errors.NewError(errors.ErrorTypeMismatch,
			fmt.Sprintf("index %d out of range for %s", v, vec.String()), e.Pos).Build())
		return nil
	}
	return &ir.Index{Pos: e.Pos, X: target, Idx: index, T: vec.Elem}
}

func (r *Resolver) resolveFold(e *ast.FoldExpr, scope *SymbolTable) ir.Expr {
	operand := r.resolveExpr(e.Operand, scope)
	if operand == nil {
		return nil
	}
	if !types.IsBoolAggregate(operand.Type()) {
		r.addError(errors.IncompatibleFoldOperand(e.Op.String(), operand.Type().String(), e.Pos))
		return nil
	}
	return &ir.Fold{Pos: e.Pos, Op: e.Op, X: operand}
}

func (r *Resolver) resolveVariant(e *ast.VariantExpr, scope *SymbolTable) ir.Expr {
	t, err := r.registry.ResolveAlias(e.Type.Value, e.Type.Pos)
	if err != nil {
		r.addTypeError(err)
		return nil
	}
	sum, ok := t.(*types.Sum)
	if !ok {
		r.addError(errors.TypeMismatch("sum type", t.String(), e.Pos))
		return nil
	}
	variant := sum.Variant(e.Tag.Value)
	if variant == nil {
		tags := make([]string, len(sum.Variants))
		for i, v := range sum.Variants {
			tags[i] = v.Tag
		}
		r.addError(errors.UndefinedName(e.Tag.Value, e.Tag.Pos, errors.FindSimilarNames(e.Tag.Value, tags)))
		return nil
	}
	payload := r.resolveExpr(e.Payload, scope)
	if payload == nil {
		return nil
	}
	payload = r.coerce(payload, variant.Type, e.Payload.NodePos())
	if payload == nil {
		return nil
	}
	return &ir.MakeVariant{Pos: e.Pos, Tag: variant.Tag, Payload: payload, T: sum}
}

func (r *Resolver) resolveEnumConst(e *ast.EnumConstExpr, scope *SymbolTable) ir.Expr {
	t, err := r.registry.ResolveAlias(e.Type.Value, e.Type.Pos)
	if err != nil {
		r.addTypeError(err)
		return nil
	}
	enum, ok := t.(*types.Enum)
	if !ok {
		r.addError(errors.TypeMismatch("enum", t.String(), e.Pos))
		return nil
	}
	tag := enum.Tag(e.Tag.Value)
	if tag == nil {
		names := make([]string, len(enum.Tags))
		for i, tg := range enum.Tags {
			names[i] = tg.Name
		}
		r.addError(errors.UndefinedName(e.Tag.Value, e.Tag.Pos, errors.FindSimilarNames(e.Tag.Value, names)))
		return nil
	}
	return &ir.EnumConst{Pos: e.Pos, Tag: tag.Name, Value: tag.Value, T: enum}
}

// widenPair brings two numeric operands to their lossless common type,
// inserting casts as needed. Integer literals retype in place instead of
// widening the whole expression, so "x + 1" keeps x's type.
func (r *Resolver) widenPair(left, right ir.Expr, pos ast.Position, op string) (ir.Expr, ir.Expr, types.Type) {
	if lit, ok := left.(*ir.IntLit); ok {
		if adapted := adaptIntLit(lit, right.Type()); adapted != nil {
			left = adapted
		}
	}
	if lit, ok := right.(*ir.IntLit); ok {
		if adapted := adaptIntLit(lit, left.Type()); adapted != nil {
			right = adapted
		}
	}

	res := types.Check(left.Type(), right.Type())
	if res.Status == types.Incompatible {
		r.addError(errors.IncompatibleOperand(op, left.Type().String(), right.Type().String(), pos))
		return nil, nil, nil
	}
	if !left.Type().Equal(res.Type) {
		left = &ir.Cast{Pos: left.ExprPos(), X: left, T: res.Type}
	}
	if !right.Type().Equal(res.Type) {
		right = &ir.Cast{Pos: right.ExprPos(), X: right, T: res.Type}
	}
	return left, right, res.Type
}

// adaptIntLit retypes an integer literal to the given scalar when the value
// fits, or to f32 when the target is float and the mantissa holds it.
func adaptIntLit(lit *ir.IntLit, to types.Type) ir.Expr {
	s, ok := to.(*types.Scalar)
	if !ok {
		return nil
	}
	if s.Kind == types.F32 {
		if lit.Value >= -(1<<24) && lit.Value <= 1<<24 {
			return &ir.FloatLit{Pos: lit.Pos, Value: float64(lit.Value)}
		}
		return nil
	}
	if s.Kind == types.Bool {
		return nil
	}
	min, max := types.IntegerRange(s.Kind)
	if lit.Value >= min && lit.Value <= max {
		return &ir.IntLit{Pos: lit.Pos, T: to, Value: lit.Value}
	}
	return nil
}

// coerce makes value usable where target's type is required, inserting a
// widening cast when the compatibility check allows one.
func (r *Resolver) coerce(value ir.Expr, target types.Type, pos ast.Position) ir.Expr {
	if lit, ok := value.(*ir.IntLit); ok {
		if adapted := adaptIntLit(lit, target); adapted != nil {
			value = adapted
		}
	}
	res := types.Check(value.Type(), target)
	if res.Status == types.Compatible {
		return value
	}
	if res.Status == types.CastRequired && res.Type.Equal(target) {
		return &ir.Cast{Pos: pos, X: value, T: target}
	}
	r.addError(errors.TypeMismatch(target.String(), value.Type().String(), pos))
	return nil
}
