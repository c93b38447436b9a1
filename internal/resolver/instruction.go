package resolver

import (
	"fmt"

	"tact/internal/ast"
	"tact/internal/errors"
	"tact/internal/ir"
	"tact/internal/types"
)

// resolveInstr types one instruction. Returns nil after recording a
// diagnostic; resolution of sibling instructions continues regardless so a
// single body surfaces as many errors as possible.
func (r *Resolver) resolveInstr(instr ast.Instruction, scope *SymbolTable) ir.Instr {
	switch s := instr.(type) {
	case *ast.Block:
		return r.resolveBlock(s, scope)
	case *ast.SetStmt:
		return r.resolveSet(s, scope)
	case *ast.IfStmt:
		return r.resolveIf(s, scope)
	case *ast.ForStmt:
		return r.resolveFor(s, scope)
	case *ast.WhileStmt:
		return r.resolveWhile(s, scope)
	case *ast.MatchStmt:
		return r.resolveMatch(s, scope)
	case *ast.ExprStmt:
		return r.resolveExprStmt(s, scope)
	}
	r.addError(errors.Internal("unhandled instruction kind", instr.NodePos()))
	return nil
}

func (r *Resolver) resolveBlock(b *ast.Block, scope *SymbolTable) ir.Instr {
	blockScope := NewSymbolTable(scope)
	failed := false

	vars := make([]*ir.VarDef, 0, len(b.Vars))
	for _, v := range b.Vars {
		if blockScope.LookupLocal(v.Name.Value) != nil {
			r.addError(errors.DuplicateDeclaration(v.Name.Value, v.Pos))
			failed = true
			continue
		}
		t := r.resolveVarDecl(v, blockScope)
		if t == nil {
			failed = true
			continue
		}
		blockScope.Define(v.Name.Value, SymbolVariable, t, v.Pos)
		vars = append(vars, &ir.VarDef{Pos: v.Pos, Name: v.Name.Value, Type: t, Init: r.varInits[v]})
	}

	items := make([]ir.Instr, 0, len(b.Items))
	for _, item := range b.Items {
		resolved := r.resolveInstr(item, blockScope)
		if resolved == nil {
			failed = true
			continue
		}
		items = append(items, resolved)
	}

	// Declared-but-never-read locals are worth a warning; they never block
	// emission.
	for _, sym := range blockScope.LocalSymbols() {
		if sym.Kind == SymbolVariable && !sym.Used {
			r.addError(errors.UnusedVariable(sym.Name, sym.Position))
		}
	}

	if failed {
		return nil
	}
	return &ir.Block{Pos: b.Pos, Vars: vars, Items: items}
}

func (r *Resolver) resolveSet(s *ast.SetStmt, scope *SymbolTable) ir.Instr {
	// WITH bindings evaluate last-declared-to-first, each visible to the
	// entries declared before it and to the main right-hand sides. Resolving
	// in reverse declaration order builds exactly that scope chain.
	withScope := scope
	defs := make([]*ir.WithDef, len(s.With))
	for i := len(s.With) - 1; i >= 0; i-- {
		w := s.With[i]
		value := r.resolveExpr(w.Value, withScope)
		if value == nil {
			return nil
		}
		if _, ptr := value.Type().(*types.Pointer); ptr {
			r.addError(errors.PointerStore(fmt.Sprintf("WITH binding '%s'", w.Name.Value), w.Pos))
			return nil
		}
		next := NewSymbolTable(withScope)
		next.Define(w.Name.Value, SymbolWith, value.Type(), w.Pos)
		withScope = next
		defs[i] = &ir.WithDef{Pos: w.Pos, Name: w.Name.Value, Type: value.Type(), Value: value}
	}

	entries := make([]*ir.SetEntry, 0, len(s.Entries))
	failed := false
	for _, entry := range s.Entries {
		target := r.resolveTarget(entry.Target, scope)
		// Sources see the WITH bindings; targets resolve against the
		// enclosing scope only.
		value := r.resolveExpr(entry.Value, withScope)
		if target == nil || value == nil {
			failed = true
			continue
		}
		if _, ptr := value.Type().(*types.Pointer); ptr {
			r.addError(errors.PointerStore("assigned value", entry.Pos))
			failed = true
			continue
		}
		value = r.coerce(value, target.Type(), entry.Value.NodePos())
		if value == nil {
			failed = true
			continue
		}
		entries = append(entries, &ir.SetEntry{Pos: entry.Pos, Target: target, Value: value})
	}
	if failed {
		return nil
	}
	return &ir.Set{Pos: s.Pos, With: defs, Entries: entries}
}

// resolveTarget resolves an assignment target: a writable variable or a
// field/index path into one.
func (r *Resolver) resolveTarget(expr ast.Expr, scope *SymbolTable) ir.Expr {
	switch e := expr.(type) {
	case *ast.IdentExpr:
		sym := scope.Lookup(e.Name)
		if sym == nil {
			r.addError(errors.UndefinedName(e.Name, e.Pos, errors.FindSimilarNames(e.Name, scope.Names())))
			return nil
		}
		if sym.ReadOnly {
			r.addError(errors.NewError(errors.ErrorTypeMismatch,
				fmt.Sprintf("'%s' is not assignable", e.Name), e.Pos).Build())
			return nil
		}
		if _, ptr := sym.Type.(*types.Pointer); ptr {
			r.addError(errors.PointerStore(fmt.Sprintf("variable '%s'", e.Name), e.Pos))
			return nil
		}
		return &ir.VarRef{Pos: e.Pos, Name: e.Name, T: sym.Type}
	case *ast.FieldAccessExpr, *ast.IndexExpr:
		// Paths reuse expression resolution; writability was checked at the
		// root identifier when the path was built.
		root := rootIdent(expr)
		if root != nil {
			if sym := scope.Lookup(root.Name); sym != nil && sym.ReadOnly {
				r.addError(errors.NewError(errors.ErrorTypeMismatch,
					fmt.Sprintf("'%s' is not assignable", root.Name), root.Pos).Build())
				return nil
			}
		}
		return r.resolveExpr(expr, scope)
	}
	r.addError(errors.NewError(errors.ErrorTypeMismatch,
		"assignment target must be a variable, field or index", expr.NodePos()).Build())
	return nil
}

func rootIdent(expr ast.Expr) *ast.IdentExpr {
	for {
		switch e := expr.(type) {
		case *ast.IdentExpr:
			return e
		case *ast.FieldAccessExpr:
			expr = e.Target
		case *ast.IndexExpr:
			expr = e.Target
		default:
			return nil
		}
	}
}

func (r *Resolver) resolveIf(s *ast.IfStmt, scope *SymbolTable) ir.Instr {
	arms := make([]*ir.IfArm, 0, len(s.Arms))
	failed := false
	for _, arm := range s.Arms {
		cond := r.resolveExpr(arm.Cond, scope)
		if cond != nil && !types.IsBool(cond.Type()) {
			r.addError(errors.TypeMismatch("bool", cond.Type().String(), arm.Cond.NodePos()))
			cond = nil
		}
		body := r.resolveInstr(arm.Body, scope)
		if cond == nil || body == nil {
			failed = true
			continue
		}
		arms = append(arms, &ir.IfArm{Pos: arm.Pos, Cond: cond, Body: body})
	}
	var dflt ir.Instr
	if s.Default != nil {
		dflt = r.resolveInstr(s.Default, scope)
		if dflt == nil {
			failed = true
		}
	}
	if failed {
		return nil
	}
	return &ir.If{Pos: s.Pos, Arms: arms, Default: dflt}
}

func (r *Resolver) resolveFor(s *ast.ForStmt, scope *SymbolTable) ir.Instr {
	from := r.resolveExpr(s.From, scope)
	to := r.resolveExpr(s.To, scope)
	if from == nil || to == nil {
		return nil
	}
	if !types.IsInteger(from.Type()) || !types.IsInteger(to.Type()) {
		r.addError(errors.IncompatibleOperand("..", from.Type().String(), to.Type().String(), s.Pos))
		return nil
	}
	from, to, common := r.widenPair(from, to, s.Pos, "..")
	if common == nil {
		return nil
	}

	bodyScope := NewSymbolTable(scope)
	bodyScope.Define(s.Var.Value, SymbolLoopVar, common, s.Var.Pos)
	body := r.resolveInstr(s.Body, bodyScope)
	if body == nil {
		return nil
	}
	return &ir.For{Pos: s.Pos, Var: s.Var.Value, From: from, To: to, Body: body}
}

func (r *Resolver) resolveWhile(s *ast.WhileStmt, scope *SymbolTable) ir.Instr {
	cond := r.resolveExpr(s.Cond, scope)
	if cond == nil {
		return nil
	}
	if !types.IsBool(cond.Type()) {
		r.addError(errors.TypeMismatch("bool", cond.Type().String(), s.Cond.NodePos()))
		return nil
	}
	body := r.resolveInstr(s.Body, scope)
	if body == nil {
		return nil
	}
	return &ir.While{Pos: s.Pos, Cond: cond, Body: body}
}

func (r *Resolver) resolveMatch(s *ast.MatchStmt, scope *SymbolTable) ir.Instr {
	scrutinee := r.resolveExpr(s.Scrutinee, scope)
	if scrutinee == nil {
		return nil
	}

	switch t := scrutinee.Type().(type) {
	case *types.Sum:
		return r.resolveSumMatch(s, scrutinee, t, scope)
	case *types.Enum:
		return r.resolveEnumMatch(s, scrutinee, t, scope)
	case *types.Scalar:
		if t.Kind != types.Bool && t.Kind != types.F32 {
			return r.resolveIntMatch(s, scrutinee, scope)
		}
	}
	r.addError(errors.IncompatibleOperand("match", scrutinee.Type().String(), "", s.Pos))
	return nil
}

func (r *Resolver) resolveSumMatch(s *ast.MatchStmt, scrutinee ir.Expr, sum *types.Sum, scope *SymbolTable) ir.Instr {
	arms := make([]*ir.MatchArm, 0, len(s.Arms))
	covered := make(map[string]bool, len(s.Arms))
	failed := false

	for _, arm := range s.Arms {
		variant := sum.Variant(arm.Pattern.Tag)
		if variant == nil {
			r.addError(errors.UndefinedName(arm.Pattern.Tag, arm.Pattern.Pos, nil))
			failed = true
			continue
		}
		if covered[variant.Tag] {
			r.addError(errors.DuplicateDeclaration(variant.Tag, arm.Pattern.Pos))
			failed = true
			continue
		}
		covered[variant.Tag] = true

		armScope := NewSymbolTable(scope)
		binder := ""
		if arm.Pattern.Binder != nil {
			binder = arm.Pattern.Binder.Value
			armScope.Define(binder, SymbolBinder, variant.Type, arm.Pattern.Binder.Pos)
		}
		body := r.resolveInstr(arm.Body, armScope)
		if body == nil {
			failed = true
			continue
		}
		arms = append(arms, &ir.MatchArm{Pos: arm.Pos, Tag: variant.Tag, Binder: binder, Body: body})
	}

	var dflt ir.Instr
	if s.Default != nil {
		dflt = r.resolveInstr(s.Default, scope)
		if dflt == nil {
			failed = true
		}
	} else {
		// Exhaustiveness over a sum type is decidable, so a gap is a
		// resolution error rather than an evaluator surprise.
		var missing []string
		for _, v := range sum.Variants {
			if !covered[v.Tag] {
				missing = append(missing, v.Tag)
			}
		}
		if len(missing) > 0 {
			r.addError(errors.NonExhaustiveMatch(missing, s.Pos))
			failed = true
		}
	}

	if failed {
		return nil
	}
	return &ir.Match{Pos: s.Pos, Scrutinee: scrutinee, Arms: arms, Default: dflt}
}

func (r *Resolver) resolveEnumMatch(s *ast.MatchStmt, scrutinee ir.Expr, enum *types.Enum, scope *SymbolTable) ir.Instr {
	arms := make([]*ir.MatchArm, 0, len(s.Arms))
	covered := make(map[string]bool, len(s.Arms))
	failed := false

	for _, arm := range s.Arms {
		tag := enum.Tag(arm.Pattern.Tag)
		if tag == nil {
			r.addError(errors.UndefinedName(arm.Pattern.Tag, arm.Pattern.Pos, nil))
			failed = true
			continue
		}
		if covered[tag.Name] {
			r.addError(errors.DuplicateDeclaration(tag.Name, arm.Pattern.Pos))
			failed = true
			continue
		}
		covered[tag.Name] = true

		body := r.resolveInstr(arm.Body, scope)
		if body == nil {
			failed = true
			continue
		}
		value := tag.Value
		arms = append(arms, &ir.MatchArm{Pos: arm.Pos, Tag: tag.Name, IntValue: &value, Body: body})
	}

	var dflt ir.Instr
	if s.Default != nil {
		dflt = r.resolveInstr(s.Default, scope)
		if dflt == nil {
			failed = true
		}
	}
	// An enum match without '_' may still miss tags here: the gap surfaces
	// in the evaluator when folding, or is left to the runtime for unfolded
	// calls. Only sum-type gaps are hard resolution errors, since a missing
	// variant arm could never bind its payload.

	if failed {
		return nil
	}
	return &ir.Match{Pos: s.Pos, Scrutinee: scrutinee, Arms: arms, Default: dflt}
}

func (r *Resolver) resolveIntMatch(s *ast.MatchStmt, scrutinee ir.Expr, scope *SymbolTable) ir.Instr {
	arms := make([]*ir.MatchArm, 0, len(s.Arms))
	failed := false

	for _, arm := range s.Arms {
		if arm.Pattern.IntValue == nil {
			r.addError(errors.NewError(errors.ErrorTypeMismatch,
				"integer match arms must use integer literal patterns", arm.Pattern.Pos).Build())
			failed = true
			continue
		}
		body := r.resolveInstr(arm.Body, scope)
		if body == nil {
			failed = true
			continue
		}
		value := *arm.Pattern.IntValue
		arms = append(arms, &ir.MatchArm{Pos: arm.Pos, IntValue: &value, Body: body})
	}

	var dflt ir.Instr
	if s.Default != nil {
		dflt = r.resolveInstr(s.Default, scope)
		if dflt == nil {
			failed = true
		}
	}
	// Integer exhaustiveness is undecidable without '_'; the gap surfaces
	// in the evaluator, or at runtime for unfolded calls.

	if failed {
		return nil
	}
	return &ir.Match{Pos: s.Pos, Scrutinee: scrutinee, Arms: arms, Default: dflt}
}

func (r *Resolver) resolveExprStmt(s *ast.ExprStmt, scope *SymbolTable) ir.Instr {
	x := r.resolveExpr(s.Expr, scope)
	if x == nil {
		return nil
	}
	// A call whose result dies as a bare statement violates @nodiscard.
	// Consumption by assignment, argument position or a larger expression
	// never reaches this branch.
	if call, ok := x.(*ir.Call); ok {
		if sig := r.signatures[call.Callee]; sig != nil && sig.noDiscard {
			r.addError(errors.DiscardedResult(call.Callee, s.Pos))
			return nil
		}
	}
	return &ir.ExprStmt{Pos: s.Pos, X: x}
}
