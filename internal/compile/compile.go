package compile

import (
	"github.com/tliron/commonlog"

	"tact/internal/ast"
	"tact/internal/config"
	"tact/internal/errors"
	"tact/internal/eval"
	"tact/internal/ir"
	"tact/internal/resolver"
	"tact/internal/stepbound"
)

var log = commonlog.GetLogger("tact.compile")

// Result is the outcome of one compile run. Program is nil when any
// error-level diagnostic was produced; warnings alone do not fail a build.
type Result struct {
	Program     *ir.Program
	Diagnostics []errors.CompilerError
	Truncated   bool
}

// Failed reports whether the compile produced any error-level diagnostic.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Level == errors.Error {
			return true
		}
	}
	return false
}

// Compile runs the semantic pipeline over a parsed module: type resolution,
// step-bound analysis, then constant folding. Later phases run only when
// the earlier ones succeed, since they consume the earlier phases' output.
func Compile(module *ast.Module, opts config.Options) *Result {
	result := &Result{}

	log.Infof("resolving module %s", module.Name)
	res := resolver.NewResolver()
	program := res.Resolve(module)
	result.Diagnostics = append(result.Diagnostics, res.Errors()...)
	if res.HasErrors() {
		log.Infof("resolution failed with %d diagnostics", len(result.Diagnostics))
		return truncate(result, opts)
	}

	log.Infof("analyzing step bounds, budget %d", opts.StepBudget)
	analyzer := stepbound.NewAnalyzer(program, opts.StepBudget, opts.LoopOverhead)
	analyzer.Analyze()
	result.Diagnostics = append(result.Diagnostics, analyzer.Errors()...)
	if analyzer.HasErrors() {
		log.Infof("step-bound analysis failed with %d diagnostics", len(result.Diagnostics))
		return truncate(result, opts)
	}

	log.Info("folding constant calls")
	folder := eval.NewFolder(program)
	folder.Fold()
	result.Diagnostics = append(result.Diagnostics, folder.Errors()...)
	if folder.HasErrors() {
		log.Infof("constant evaluation failed with %d diagnostics", len(result.Diagnostics))
		return truncate(result, opts)
	}

	result.Program = program
	log.Debugf("lowered program:\n%s", ir.Print(program))
	return truncate(result, opts)
}

func truncate(result *Result, opts config.Options) *Result {
	if len(result.Diagnostics) > opts.MaxDiagnostics {
		result.Diagnostics = result.Diagnostics[:opts.MaxDiagnostics]
		result.Truncated = true
	}
	return result
}
