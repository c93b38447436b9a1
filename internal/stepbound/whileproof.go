package stepbound

import (
	"tact/internal/ir"
)

// proveWhileBound attempts to prove a finite iteration count for a WHILE
// loop. The provable shape is deliberately narrow: the guard compares an
// induction variable against a compile-time constant, the variable's value
// entering the loop is known, and the body advances it by exactly one
// unconditional constant-stepped update. Anything else is rejected and the
// loop must be rewritten as FOR or restructured.
func (w *costWalker) proveWhileBound(s *ir.While) (int64, bool) {
	assigned := assignedVars(s.Body)
	ind, op, limit, ok := w.splitGuard(s.Cond, assigned)
	if !ok {
		return 0, false
	}

	init, known := w.env[ind]
	if !known {
		return 0, false
	}

	delta, ok := inductionStep(s.Body, ind)
	if !ok {
		return 0, false
	}

	return iterationCount(init, limit, delta, op)
}

// splitGuard decomposes the loop condition into (variable, op, constant
// limit), normalizing so the variable is on the left. The limit may be a
// literal or a tracked constant variable that the body never assigns.
func (w *costWalker) splitGuard(cond ir.Expr, assigned map[string]bool) (string, string, int64, bool) {
	bin, ok := cond.(*ir.Binary)
	if !ok {
		return "", "", 0, false
	}
	switch bin.Op {
	case "<", "<=", ">", ">=", "!=":
	default:
		return "", "", 0, false
	}

	if v, ok := derefVar(bin.L); ok {
		if limit, stable := w.stableLimit(bin.R, assigned); stable {
			return v, bin.Op, limit, true
		}
	}
	if v, ok := derefVar(bin.R); ok {
		if limit, stable := w.stableLimit(bin.L, assigned); stable {
			return v, flipCmp(bin.Op), limit, true
		}
	}
	return "", "", 0, false
}

// stableLimit resolves the guard's limit operand to a constant. A tracked
// variable qualifies only when the body never assigns it; its entry value
// would go stale mid-loop otherwise.
func (w *costWalker) stableLimit(e ir.Expr, assigned map[string]bool) (int64, bool) {
	if v, ok := derefVar(e); ok && assigned[v] {
		return 0, false
	}
	return w.constValue(e)
}

func derefVar(e ir.Expr) (string, bool) {
	for {
		switch x := e.(type) {
		case *ir.VarRef:
			return x.Name, true
		case *ir.Cast:
			e = x.X
		default:
			return "", false
		}
	}
}

func flipCmp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	}
	return op
}

// inductionStep finds the single unconditional update of the induction
// variable in the loop body: a top-level SET entry of the form v = v + c or
// v = v - c. A second update, or an update nested inside a branch or inner
// loop, voids the proof.
func inductionStep(body ir.Instr, ind string) (int64, bool) {
	items := []ir.Instr{body}
	if block, ok := body.(*ir.Block); ok {
		items = block.Items
	}

	var delta int64
	found := false
	for _, item := range items {
		set, ok := item.(*ir.Set)
		if !ok {
			// The induction variable must not be touched anywhere else,
			// including conditionally.
			if assignedVars(item)[ind] {
				return 0, false
			}
			continue
		}
		for _, e := range set.Entries {
			target, isVar := derefVar(e.Target)
			if !isVar || target != ind {
				continue
			}
			if found {
				return 0, false
			}
			d, ok := stepDelta(e.Value, ind)
			if !ok {
				return 0, false
			}
			delta = d
			found = true
		}
	}
	if !found || delta == 0 {
		return 0, false
	}
	return delta, true
}

// stepDelta recognizes v + c, c + v and v - c for a positive constant c.
func stepDelta(e ir.Expr, ind string) (int64, bool) {
	if cast, ok := e.(*ir.Cast); ok {
		return stepDelta(cast.X, ind)
	}
	bin, ok := e.(*ir.Binary)
	if !ok {
		return 0, false
	}

	switch bin.Op {
	case "+":
		if v, ok := derefVar(bin.L); ok && v == ind {
			if c, isConst := ir.ConstInt(bin.R); isConst && c > 0 {
				return c, true
			}
		}
		if v, ok := derefVar(bin.R); ok && v == ind {
			if c, isConst := ir.ConstInt(bin.L); isConst && c > 0 {
				return c, true
			}
		}
	case "-":
		if v, ok := derefVar(bin.L); ok && v == ind {
			if c, isConst := ir.ConstInt(bin.R); isConst && c > 0 {
				return -c, true
			}
		}
	}
	return 0, false
}

// iterationCount solves the recurrence v' = v + delta against the guard.
// Guards that can only hold forever under the given step direction are
// rejected rather than bounded.
func iterationCount(init, limit, delta int64, op string) (int64, bool) {
	switch op {
	case "<":
		if init >= limit {
			return 0, true
		}
		if delta < 0 {
			return 0, false
		}
		return ceilDiv(limit-init, delta), true
	case "<=":
		if init > limit {
			return 0, true
		}
		if delta < 0 {
			return 0, false
		}
		return ceilDiv(limit-init+1, delta), true
	case ">":
		if init <= limit {
			return 0, true
		}
		if delta > 0 {
			return 0, false
		}
		return ceilDiv(init-limit, -delta), true
	case ">=":
		if init < limit {
			return 0, true
		}
		if delta > 0 {
			return 0, false
		}
		return ceilDiv(init-limit+1, -delta), true
	case "!=":
		dist := limit - init
		if dist == 0 {
			return 0, true
		}
		// The step must land exactly on the limit or the guard never fails.
		if dist%delta != 0 || dist/delta < 0 {
			return 0, false
		}
		return dist / delta, true
	}
	return 0, false
}

func ceilDiv(n, d int64) int64 {
	return (n + d - 1) / d
}
