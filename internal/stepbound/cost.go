package stepbound

import (
	"tact/internal/errors"
	"tact/internal/ir"
)

// costWalker computes the structural worst-case cost of an instruction
// tree. It carries an abstract store of variables with known constant
// integer values, maintained in program order, which the WHILE bound proof
// consumes.
type costWalker struct {
	analyzer *Analyzer
	bounds   map[string]int64
	env      map[string]int64 // variables with known constant values
	failed   bool
	silent   bool // probe re-walks must not duplicate diagnostics
}

func (w *costWalker) report(err errors.CompilerError) {
	w.failed = true
	if !w.silent {
		w.analyzer.errors = append(w.analyzer.errors, err)
	}
}

func (w *costWalker) instrCost(instr ir.Instr) int64 {
	switch s := instr.(type) {
	case *ir.Block:
		var total int64
		for _, v := range s.Vars {
			total = satAdd(total, w.varCost(v))
		}
		for _, item := range s.Items {
			total = satAdd(total, w.instrCost(item))
		}
		return total

	case *ir.Set:
		// WITH evaluations plus source evaluations, then one step for the
		// atomic commit of all targets.
		var total int64 = 1
		for _, with := range s.With {
			total = satAdd(total, exprCost(with.Value, w.bounds))
		}
		for _, e := range s.Entries {
			total = satAdd(total, exprCost(e.Value, w.bounds))
			total = satAdd(total, exprCost(e.Target, w.bounds))
		}
		w.recordSet(s)
		return total

	case *ir.If:
		// The taken branch is not statically known: every condition may be
		// evaluated, and the worst branch bounds the rest.
		var condTotal int64
		var branchMax int64
		for _, arm := range s.Arms {
			condTotal = satAdd(condTotal, exprCost(arm.Cond, w.bounds))
			if c := w.branchCost(arm.Body); c > branchMax {
				branchMax = c
			}
		}
		if s.Default != nil {
			if c := w.branchCost(s.Default); c > branchMax {
				branchMax = c
			}
		}
		w.invalidateAssigned(instr)
		return satAdd(condTotal, branchMax)

	case *ir.For:
		rangeCost := satAdd(exprCost(s.From, w.bounds), exprCost(s.To, w.bounds))
		from, fromOK := w.constValue(s.From)
		to, toOK := w.constValue(s.To)
		if !fromOK || !toOK {
			w.report(errors.UnboundedLoop(s.Pos))
			return 0
		}
		iters := to - from
		if iters < 0 {
			iters = 0
		}
		// Values assigned in the body are unknown on every iteration after
		// the first, so the body is costed without them.
		w.invalidateAssigned(s.Body)
		body := w.branchCost(s.Body)
		return satAdd(rangeCost, satMul(iters, satAdd(body, int64(w.analyzer.overhead))))

	case *ir.While:
		maxIter, ok := w.proveWhileBound(s)
		if !ok {
			w.report(errors.StepBoundUnprovable(s.Pos))
			return 0
		}
		s.MaxIter = clampInt(maxIter)
		w.invalidateAssigned(s.Body)
		cond := exprCost(s.Cond, w.bounds)
		body := w.branchCost(s.Body)
		perIter := satAdd(satAdd(cond, body), int64(w.analyzer.overhead))
		// The final failing guard test is paid once more.
		return satAdd(satMul(maxIter, perIter), cond)

	case *ir.Match:
		total := satAdd(exprCost(s.Scrutinee, w.bounds), 1)
		var branchMax int64
		for _, arm := range s.Arms {
			if c := w.branchCost(arm.Body); c > branchMax {
				branchMax = c
			}
		}
		if s.Default != nil {
			if c := w.branchCost(s.Default); c > branchMax {
				branchMax = c
			}
		}
		w.invalidateAssigned(instr)
		return satAdd(total, branchMax)

	case *ir.ExprStmt:
		return satAdd(1, exprCost(s.X, w.bounds))
	}
	return 0
}

func (w *costWalker) varCost(v *ir.VarDef) int64 {
	var total int64 = 1
	if v.Init != nil {
		total = satAdd(total, exprCost(v.Init, w.bounds))
		if c, ok := ir.ConstInt(v.Init); ok {
			w.env[v.Name] = c
		}
	}
	return total
}

// branchCost computes a nested instruction's cost in a child abstract store
// so branch-local constant knowledge never leaks into the parent.
func (w *costWalker) branchCost(instr ir.Instr) int64 {
	child := &costWalker{
		analyzer: w.analyzer,
		bounds:   w.bounds,
		env:      make(map[string]int64, len(w.env)),
		silent:   w.silent,
	}
	for k, v := range w.env {
		child.env[k] = v
	}
	cost := child.instrCost(instr)
	if child.failed {
		w.failed = true
	}
	return cost
}

// recordSet updates the abstract store for a straight-line simultaneous
// assignment: constant sources become known, everything else assigned
// becomes unknown.
func (w *costWalker) recordSet(s *ir.Set) {
	for _, e := range s.Entries {
		ref, ok := e.Target.(*ir.VarRef)
		if !ok {
			continue
		}
		if c, isConst := ir.ConstInt(e.Value); isConst {
			w.env[ref.Name] = c
		} else {
			delete(w.env, ref.Name)
		}
	}
}

// invalidateAssigned drops constant knowledge for every variable assigned
// anywhere inside instr: after a branch or loop the store must not claim to
// know values the execution may have changed.
func (w *costWalker) invalidateAssigned(instr ir.Instr) {
	for name := range assignedVars(instr) {
		delete(w.env, name)
	}
}

// assignedVars collects the names of variables assigned anywhere in an
// instruction tree.
func assignedVars(instr ir.Instr) map[string]bool {
	out := make(map[string]bool)
	var walk func(ir.Instr)
	walk = func(in ir.Instr) {
		switch s := in.(type) {
		case *ir.Block:
			for _, item := range s.Items {
				walk(item)
			}
		case *ir.Set:
			for _, e := range s.Entries {
				if ref, ok := e.Target.(*ir.VarRef); ok {
					out[ref.Name] = true
				} else if root := rootVar(e.Target); root != "" {
					out[root] = true
				}
			}
		case *ir.If:
			for _, arm := range s.Arms {
				walk(arm.Body)
			}
			if s.Default != nil {
				walk(s.Default)
			}
		case *ir.For:
			walk(s.Body)
		case *ir.While:
			walk(s.Body)
		case *ir.Match:
			for _, arm := range s.Arms {
				walk(arm.Body)
			}
			if s.Default != nil {
				walk(s.Default)
			}
		}
	}
	walk(instr)
	return out
}

func rootVar(e ir.Expr) string {
	for {
		switch x := e.(type) {
		case *ir.VarRef:
			return x.Name
		case *ir.FieldAccess:
			e = x.X
		case *ir.Index:
			e = x.X
		default:
			return ""
		}
	}
}

// constValue resolves an expression to a compile-time constant integer,
// consulting the abstract store for variable references.
func (w *costWalker) constValue(e ir.Expr) (int64, bool) {
	if c, ok := ir.ConstInt(e); ok {
		return c, true
	}
	if ref, ok := e.(*ir.VarRef); ok {
		c, known := w.env[ref.Name]
		return c, known
	}
	if cast, ok := e.(*ir.Cast); ok {
		return w.constValue(cast.X)
	}
	return 0, false
}

// exprCost charges one unit per evaluated operation. Literals, variable
// reads and enum constants are free; implicit casts are register moves the
// backend folds away. A call costs one unit plus the callee's finalized
// bound.
func exprCost(e ir.Expr, bounds map[string]int64) int64 {
	switch x := e.(type) {
	case *ir.IntLit, *ir.FloatLit, *ir.BoolLit, *ir.VarRef, *ir.EnumConst:
		return 0
	case *ir.Cast:
		return exprCost(x.X, bounds)
	case *ir.Binary:
		return satAdd(1, satAdd(exprCost(x.L, bounds), exprCost(x.R, bounds)))
	case *ir.Unary:
		return satAdd(1, exprCost(x.X, bounds))
	case *ir.Call:
		callee := bounds[x.Callee]
		return satAdd(1, satAdd(exprCost(x.Arg, bounds), callee))
	case *ir.MakeTuple:
		var total int64 = 1
		for _, v := range x.Values {
			total = satAdd(total, exprCost(v, bounds))
		}
		return total
	case *ir.MakeVector:
		var total int64 = 1
		for _, v := range x.Elems {
			total = satAdd(total, exprCost(v, bounds))
		}
		return total
	case *ir.FieldAccess:
		return satAdd(1, exprCost(x.X, bounds))
	case *ir.Index:
		return satAdd(1, satAdd(exprCost(x.X, bounds), exprCost(x.Idx, bounds)))
	case *ir.Fold:
		return satAdd(1, exprCost(x.X, bounds))
	case *ir.MakeVariant:
		return satAdd(1, exprCost(x.Payload, bounds))
	}
	return 1
}
