package eval

import (
	"fmt"

	"tact/internal/ir"
	"tact/internal/types"
)

// evalError reports that the evaluated program itself failed: arithmetic
// overflow, division by zero, an unmatched MATCH scrutinee, an out-of-range
// index, or a dependency the evaluator cannot see behind (imported
// functions, module variables). The fold policy decides whether it becomes
// a compile error or a silent fallback to runtime.
type evalError struct {
	msg string
}

func (e *evalError) Error() string { return e.msg }

func evalErrorf(format string, args ...any) error {
	return &evalError{msg: fmt.Sprintf(format, args...)}
}

// internalError reports that evaluation contradicted the analyzer: the step
// counter crossed the proven bound, or the IR was malformed. These are
// compiler bugs, never program behavior.
type internalError struct {
	msg string
}

func (e *internalError) Error() string { return e.msg }

func internalErrorf(format string, args ...any) error {
	return &internalError{msg: fmt.Sprintf(format, args...)}
}

// machine executes a function invocation against the typed IR. The step
// counter is charged conservatively below the analyzer's cost model, so a
// run that crosses the proven bound can only mean the model is broken.
type machine struct {
	program *ir.Program
	steps   int
	limit   int
}

// frame is one lexical scope of bindings, chained to its parent.
type frame struct {
	vars   map[string]Value
	parent *frame
}

func newFrame(parent *frame) *frame {
	return &frame{vars: make(map[string]Value), parent: parent}
}

func (f *frame) lookup(name string) (Value, bool) {
	for s := f; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (f *frame) define(name string, v Value) {
	f.vars[name] = v
}

// assign rebinds name in the scope that defines it.
func (f *frame) assign(name string, v Value) bool {
	for s := f; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v
			return true
		}
	}
	return false
}

// Invoke evaluates one invocation of fn with the given input value. The
// function must carry a finite proven bound.
func Invoke(program *ir.Program, fn *ir.Function, input Value) (Value, error) {
	if !fn.Bound.IsFinite() {
		return nil, internalErrorf("function %s has no finite step bound", fn.Name)
	}
	m := &machine{program: program, limit: fn.Bound.Steps}
	return m.call(fn, input)
}

func (m *machine) tick(n int) error {
	m.steps += n
	if m.steps > m.limit {
		return internalErrorf("step counter crossed the proven bound of %d", m.limit)
	}
	return nil
}

func (m *machine) call(fn *ir.Function, input Value) (Value, error) {
	f := newFrame(nil)
	f.define("in", input)
	f.define("out", ZeroValue(fn.Output))
	if err := m.execInstr(f, fn.Body); err != nil {
		return nil, err
	}
	out, _ := f.lookup("out")
	return out, nil
}

func (m *machine) execInstr(f *frame, instr ir.Instr) error {
	switch s := instr.(type) {
	case *ir.Block:
		scope := newFrame(f)
		for _, v := range s.Vars {
			if err := m.tick(1); err != nil {
				return err
			}
			val := ZeroValue(v.Type)
			if v.Init != nil {
				iv, err := m.evalExpr(scope, v.Init)
				if err != nil {
					return err
				}
				val = iv
			}
			scope.define(v.Name, val)
		}
		for _, item := range s.Items {
			if err := m.execInstr(scope, item); err != nil {
				return err
			}
		}
		return nil

	case *ir.Set:
		return m.execSet(f, s)

	case *ir.If:
		for _, arm := range s.Arms {
			cond, err := m.evalExpr(f, arm.Cond)
			if err != nil {
				return err
			}
			b, ok := cond.(*BoolValue)
			if !ok {
				return internalErrorf("non-boolean condition")
			}
			if b.V {
				return m.execInstr(f, arm.Body)
			}
		}
		if s.Default != nil {
			return m.execInstr(f, s.Default)
		}
		return evalErrorf("no IF condition held and there is no '_' arm")

	case *ir.For:
		from, err := m.evalInt(f, s.From)
		if err != nil {
			return err
		}
		to, err := m.evalInt(f, s.To)
		if err != nil {
			return err
		}
		scalar, ok := s.From.Type().(*types.Scalar)
		if !ok {
			return internalErrorf("non-integer loop range")
		}
		for i := from; i < to; i++ {
			if err := m.tick(1); err != nil {
				return err
			}
			scope := newFrame(f)
			scope.define(s.Var, &IntValue{T: scalar, V: i})
			if err := m.execInstr(scope, s.Body); err != nil {
				return err
			}
		}
		return nil

	case *ir.While:
		iters := 0
		for {
			cond, err := m.evalExpr(f, s.Cond)
			if err != nil {
				return err
			}
			b, ok := cond.(*BoolValue)
			if !ok {
				return internalErrorf("non-boolean condition")
			}
			if !b.V {
				return nil
			}
			iters++
			if iters > s.MaxIter {
				return internalErrorf("loop ran past its proven iteration bound of %d", s.MaxIter)
			}
			if err := m.tick(1); err != nil {
				return err
			}
			if err := m.execInstr(f, s.Body); err != nil {
				return err
			}
		}

	case *ir.Match:
		return m.execMatch(f, s)

	case *ir.ExprStmt:
		if err := m.tick(1); err != nil {
			return err
		}
		_, err := m.evalExpr(f, s.X)
		return err
	}
	return internalErrorf("unknown instruction %T", instr)
}

// execSet implements simultaneous assignment: WITH bindings evaluate from
// last declared to first, every source and target path evaluates against
// the pre-commit bindings, and all targets commit as one step.
func (m *machine) execSet(f *frame, s *ir.Set) error {
	scope := newFrame(f)
	for i := len(s.With) - 1; i >= 0; i-- {
		w := s.With[i]
		v, err := m.evalExpr(scope, w.Value)
		if err != nil {
			return err
		}
		scope.define(w.Name, v)
	}

	type write struct {
		root string
		path []pathStep
		val  Value
	}
	writes := make([]write, 0, len(s.Entries))
	for _, e := range s.Entries {
		val, err := m.evalExpr(scope, e.Value)
		if err != nil {
			return err
		}
		root, path, err := m.resolveTarget(scope, e.Target)
		if err != nil {
			return err
		}
		writes = append(writes, write{root: root, path: path, val: val})
	}

	if err := m.tick(1); err != nil {
		return err
	}
	for _, wr := range writes {
		cur, ok := f.lookup(wr.root)
		if !ok {
			return internalErrorf("unbound assignment target %s", wr.root)
		}
		next, err := setPath(cur, wr.path, wr.val)
		if err != nil {
			return err
		}
		if !f.assign(wr.root, next) {
			return internalErrorf("unbound assignment target %s", wr.root)
		}
	}
	return nil
}

// pathStep addresses one level inside an aggregate: a tuple field position
// or a vector index.
type pathStep struct {
	field int
	index int
	isIdx bool
}

// resolveTarget decomposes an assignment target into a root variable and a
// path of aggregate steps, evaluating index expressions against the
// pre-commit state.
func (m *machine) resolveTarget(f *frame, target ir.Expr) (string, []pathStep, error) {
	var path []pathStep
	for {
		switch t := target.(type) {
		case *ir.VarRef:
			// Steps were collected outermost-first; reverse into
			// root-to-leaf order.
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return t.Name, path, nil
		case *ir.FieldAccess:
			path = append(path, pathStep{field: t.FieldIdx})
			target = t.X
		case *ir.Index:
			idx, err := m.evalInt(f, t.Idx)
			if err != nil {
				return "", nil, err
			}
			path = append(path, pathStep{index: int(idx), isIdx: true})
			target = t.X
		default:
			return "", nil, internalErrorf("invalid assignment target %T", target)
		}
	}
}

// setPath writes val at the addressed position, cloning the spine so the
// pre-commit snapshot stays intact.
func setPath(cur Value, path []pathStep, val Value) (Value, error) {
	if len(path) == 0 {
		return val, nil
	}
	step := path[0]
	if step.isIdx {
		vec, ok := cur.(*VectorValue)
		if !ok {
			return nil, internalErrorf("indexed assignment into non-vector")
		}
		if step.index < 0 || step.index >= len(vec.Elems) {
			return nil, evalErrorf("index %d out of range for %s", step.index, vec.T)
		}
		elems := make([]Value, len(vec.Elems))
		copy(elems, vec.Elems)
		inner, err := setPath(elems[step.index], path[1:], val)
		if err != nil {
			return nil, err
		}
		elems[step.index] = inner
		return &VectorValue{T: vec.T, Elems: elems}, nil
	}
	tup, ok := cur.(*TupleValue)
	if !ok {
		return nil, internalErrorf("field assignment into non-tuple")
	}
	if step.field < 0 || step.field >= len(tup.Fields) {
		return nil, internalErrorf("field index %d out of range", step.field)
	}
	fields := make([]Value, len(tup.Fields))
	copy(fields, tup.Fields)
	inner, err := setPath(fields[step.field], path[1:], val)
	if err != nil {
		return nil, err
	}
	fields[step.field] = inner
	return &TupleValue{T: tup.T, Fields: fields}, nil
}

func (m *machine) execMatch(f *frame, s *ir.Match) error {
	scrut, err := m.evalExpr(f, s.Scrutinee)
	if err != nil {
		return err
	}
	if err := m.tick(1); err != nil {
		return err
	}

	for _, arm := range s.Arms {
		switch v := scrut.(type) {
		case *VariantValue:
			if arm.Tag != v.Tag {
				continue
			}
			scope := newFrame(f)
			if arm.Binder != "" {
				scope.define(arm.Binder, v.Payload)
			}
			return m.execInstr(scope, arm.Body)
		case *EnumValue:
			if arm.Tag != v.Tag {
				continue
			}
			return m.execInstr(f, arm.Body)
		case *IntValue:
			if arm.IntValue == nil || *arm.IntValue != v.V {
				continue
			}
			return m.execInstr(f, arm.Body)
		default:
			return internalErrorf("unmatchable scrutinee %T", scrut)
		}
	}
	if s.Default != nil {
		return m.execInstr(f, s.Default)
	}
	return evalErrorf("no match arm covers %s", scrut)
}

func (m *machine) evalInt(f *frame, e ir.Expr) (int64, error) {
	v, err := m.evalExpr(f, e)
	if err != nil {
		return 0, err
	}
	iv, ok := v.(*IntValue)
	if !ok {
		return 0, internalErrorf("expected integer, got %s", v.Type())
	}
	return iv.V, nil
}
