package stepbound

import (
	"tact/internal/errors"
	"tact/internal/ir"
)

// Analyzer proves a per-function upper bound on executed instructions and
// checks it against the per-invocation step budget. Bounds are computed
// bottom-up over the call DAG: a caller's bound is finalized only after
// every callee's bound is.
type Analyzer struct {
	program  *ir.Program
	budget   int
	overhead int // fixed per-iteration loop bookkeeping cost
	errors   []errors.CompilerError
}

// Cost saturation ceiling. Bounds beyond this are far past any plausible
// budget; saturating keeps nested-loop multiplication from overflowing.
const costCap = int64(1) << 40

func NewAnalyzer(program *ir.Program, budget, loopOverhead int) *Analyzer {
	// The evaluator charges one bookkeeping step per loop iteration; the
	// model must never charge less than the machine spends.
	if loopOverhead < 1 {
		loopOverhead = 1
	}
	return &Analyzer{
		program:  program,
		budget:   budget,
		overhead: loopOverhead,
	}
}

// Errors returns all accumulated diagnostics.
func (a *Analyzer) Errors() []errors.CompilerError {
	return a.errors
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (a *Analyzer) HasErrors() bool {
	for _, err := range a.errors {
		if err.Level == errors.Error {
			return true
		}
	}
	return false
}

// Analyze builds the call graph, rejects cycles, and computes every
// function's step bound in topological order. Bounds are written into the
// program's functions; they are set exactly once and never invalidated
// within a compile run.
func (a *Analyzer) Analyze() {
	graph := Build(a.program)

	if cycle := graph.FindCycle(); cycle != nil {
		pos := a.program.Functions[0].Pos
		if node := graph.Node(cycle[0]); node != nil && node.Fn != nil {
			pos = node.Fn.Pos
		}
		a.errors = append(a.errors, errors.Recursion(cycle, pos))
		return
	}

	bounds := make(map[string]int64, len(a.program.Functions)+len(a.program.Imports))
	for _, node := range graph.Topological() {
		if node.Imported != nil {
			bounds[node.Name] = int64(node.Imported.Bound.Steps)
			continue
		}
		a.analyzeFunction(node.Fn, bounds)
	}
}

func (a *Analyzer) analyzeFunction(fn *ir.Function, bounds map[string]int64) {
	w := &costWalker{analyzer: a, bounds: bounds, env: make(map[string]int64)}
	total := w.instrCost(fn.Body)
	if w.failed {
		fn.Bound = ir.StepBound{Kind: ir.BoundUnbounded}
		return
	}

	if total > int64(a.budget) {
		// Name the instruction whose cumulative cost first crosses the
		// budget, so the diagnostic points at the expensive spot rather
		// than the function header.
		pos := fn.Pos
		if block, ok := fn.Body.(*ir.Block); ok {
			probe := &costWalker{analyzer: a, bounds: bounds, env: make(map[string]int64), silent: true}
			var running int64
			for _, v := range block.Vars {
				running = satAdd(running, probe.varCost(v))
			}
			for _, item := range block.Items {
				running = satAdd(running, probe.instrCost(item))
				if running > int64(a.budget) {
					pos = item.InstrPos()
					break
				}
			}
		}
		a.errors = append(a.errors, errors.StepBudgetExceeded(fn.Name, clampInt(total), a.budget, pos))
		fn.Bound = ir.StepBound{Kind: ir.BoundFinite, Steps: clampInt(total)}
		bounds[fn.Name] = total
		return
	}

	fn.Bound = ir.Finite(int(total))
	bounds[fn.Name] = total
}

func satAdd(a, b int64) int64 {
	if a > costCap-b {
		return costCap
	}
	return a + b
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > costCap/b {
		return costCap
	}
	return a * b
}

func clampInt(v int64) int {
	if v > int64(^uint(0)>>1) {
		return int(^uint(0) >> 1)
	}
	return int(v)
}
