package resolver

import (
	"fmt"

	"tact/internal/ast"
	"tact/internal/errors"
	"tact/internal/ir"
	"tact/internal/types"
)

// Resolver turns a declaration tree into a fully typed program: aliases
// resolved, variable types inferred, operands checked, implicit casts
// inserted. Diagnostics accumulate across independent declarations so one
// run reports as much as possible; code emission is refused downstream if
// any error was recorded.
type Resolver struct {
	module   *ast.Module
	registry *types.Registry
	errors   []errors.CompilerError
	symbols  *SymbolTable

	functions map[string]*ast.Function
	imports   map[string]*ast.ImportedFunction

	// Resolved signatures, filled in pass 1 so bodies can call in any order.
	signatures map[string]*signature

	// Typed initializers keyed by declaration, consumed while lowering
	// blocks; also holds module-variable initializers for the evaluator.
	varInits map[*ast.VarDecl]ir.Expr
}

type signature struct {
	input     types.Type
	output    types.Type
	pure      bool
	noDiscard bool
	imported  bool
}

func NewResolver() *Resolver {
	return &Resolver{
		registry:   types.NewRegistry(),
		functions:  make(map[string]*ast.Function),
		imports:    make(map[string]*ast.ImportedFunction),
		signatures: make(map[string]*signature),
		varInits:   make(map[*ast.VarDecl]ir.Expr),
	}
}

// Errors returns all accumulated diagnostics.
func (r *Resolver) Errors() []errors.CompilerError {
	return r.errors
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (r *Resolver) HasErrors() bool {
	for _, err := range r.errors {
		if err.Level == errors.Error {
			return true
		}
	}
	return false
}

// Registry exposes the resolved type registry to later stages.
func (r *Resolver) Registry() *types.Registry { return r.registry }

// Resolve runs both passes over the module and returns the typed program.
// The program is returned even when diagnostics were recorded so tooling can
// inspect the parts that did resolve; callers must consult HasErrors before
// handing it to code generation.
func (r *Resolver) Resolve(module *ast.Module) *ir.Program {
	r.module = module
	r.errors = r.errors[:0]
	r.symbols = NewSymbolTable(nil)

	// Pass 1: declare type aliases, register all signatures. Bodies may call
	// functions declared later in the file, so every header must be known
	// before any body is resolved.
	for _, td := range module.TypeDefs {
		if err := r.registry.Declare(td.Name.Value, td.Expr); err != nil {
			r.addTypeError(err)
		}
	}
	for _, imp := range module.Imports {
		r.declareImport(imp)
	}
	for _, fn := range module.Functions {
		r.declareFunction(fn)
	}

	// Force resolution of every declared alias so cycles surface even for
	// aliases no signature mentions.
	for _, td := range module.TypeDefs {
		if _, err := r.registry.ResolveAlias(td.Name.Value, td.Pos); err != nil {
			r.addTypeError(err)
		}
	}

	// Module variables resolve in declaration order; each initializer may
	// reference only the variables above it.
	var globals []*ir.VarDef
	for _, v := range module.Vars {
		if g := r.resolveModuleVar(v); g != nil {
			globals = append(globals, g)
		}
	}

	// Pass 2: resolve function bodies with the full signature context.
	var fns []*ir.Function
	for _, fn := range module.Functions {
		if resolved := r.resolveFunction(fn); resolved != nil {
			fns = append(fns, resolved)
		}
	}

	var imps []*ir.ImportedFunction
	for _, imp := range module.Imports {
		sig := r.signatures[imp.Name.Value]
		if sig == nil || !sig.imported {
			continue
		}
		imps = append(imps, &ir.ImportedFunction{
			Name:   imp.Name.Value,
			Pos:    imp.Pos,
			Input:  sig.input,
			Output: sig.output,
			Pure:   sig.pure,
			Bound:  ir.Finite(imp.Bound),
		})
	}

	return ir.NewProgram(module.Name.Value, globals, fns, imps)
}

func (r *Resolver) declareImport(imp *ast.ImportedFunction) {
	name := imp.Name.Value
	if _, dup := r.signatures[name]; dup {
		r.addError(errors.DuplicateDeclaration(name, imp.Pos))
		return
	}
	input := r.resolveType(imp.Input)
	output := r.resolveType(imp.Output)
	if input == nil || output == nil {
		return
	}
	r.imports[name] = imp
	r.signatures[name] = &signature{input: input, output: output, pure: imp.Pure, imported: true}
}

func (r *Resolver) declareFunction(fn *ast.Function) {
	name := fn.Name.Value
	if _, dup := r.signatures[name]; dup {
		r.addError(errors.DuplicateDeclaration(name, fn.Pos))
		return
	}
	input := r.resolveType(fn.Input)
	output := r.resolveType(fn.Output)
	if input == nil || output == nil {
		return
	}
	// A function output must never be a pointer: frames do not outlive
	// their call, so a returned reference would dangle by construction.
	if _, ptr := output.(*types.Pointer); ptr {
		r.addError(errors.PointerStore(fmt.Sprintf("output of function '%s'", name), fn.Pos))
		return
	}
	r.functions[name] = fn
	r.signatures[name] = &signature{
		input:     input,
		output:    output,
		pure:      fn.Pure || fn.Const, // @const implies @pure
		noDiscard: fn.NoDiscard,
	}
}

func (r *Resolver) resolveModuleVar(v *ast.VarDecl) *ir.VarDef {
	if existing := r.symbols.LookupLocal(v.Name.Value); existing != nil {
		r.addError(errors.DuplicateDeclaration(v.Name.Value, v.Pos))
		return nil
	}
	t := r.resolveVarDecl(v, r.symbols)
	if t == nil {
		return nil
	}
	r.symbols.Define(v.Name.Value, SymbolVariable, t, v.Pos)
	return &ir.VarDef{Pos: v.Pos, Name: v.Name.Value, Type: t, Init: r.varInits[v]}
}

func (r *Resolver) resolveFunction(fn *ast.Function) *ir.Function {
	sig := r.signatures[fn.Name.Value]
	if sig == nil || sig.imported {
		return nil
	}

	before := len(r.errors)

	scope := NewSymbolTable(r.symbols)
	scope.Define("in", SymbolInput, sig.input, fn.Pos)
	scope.Define("out", SymbolOutput, sig.output, fn.Pos)

	body := r.resolveInstr(fn.Body, scope)
	if body == nil || r.countErrorsSince(before) > 0 {
		// The function failed resolution; keep going so independent
		// declarations still produce diagnostics.
		return nil
	}

	return &ir.Function{
		Name:      fn.Name.Value,
		Pos:       fn.Pos,
		Input:     sig.input,
		Output:    sig.output,
		Body:      body,
		Pure:      sig.pure,
		NoDiscard: sig.noDiscard,
		Const:     fn.Const,
	}
}

func (r *Resolver) countErrorsSince(mark int) int {
	n := 0
	for _, err := range r.errors[mark:] {
		if err.Level == errors.Error {
			n++
		}
	}
	return n
}

// resolveVarDecl resolves a declaration with an explicit type, an inferred
// type, or both, inserting a widening cast on the initializer when needed.
func (r *Resolver) resolveVarDecl(v *ast.VarDecl, scope *SymbolTable) types.Type {
	var declared types.Type
	if v.Type != nil {
		declared = r.resolveType(v.Type)
		if declared == nil {
			return nil
		}
		if _, ptr := declared.(*types.Pointer); ptr {
			r.addError(errors.PointerStore(fmt.Sprintf("variable '%s'", v.Name.Value), v.Pos))
			return nil
		}
	}

	if v.Init == nil {
		return declared
	}

	init := r.resolveExpr(v.Init, scope)
	if init == nil {
		return declared
	}
	if _, ptr := init.Type().(*types.Pointer); ptr {
		r.addError(errors.PointerStore(fmt.Sprintf("initializer of '%s'", v.Name.Value), v.Pos))
		return nil
	}

	if declared == nil {
		r.varInits[v] = init
		return init.Type()
	}

	coerced := r.coerce(init, declared, v.Pos)
	if coerced == nil {
		return nil
	}
	r.varInits[v] = coerced
	return declared
}

func (r *Resolver) resolveType(expr ast.TypeExpr) types.Type {
	t, err := r.registry.Resolve(expr)
	if err != nil {
		r.addTypeError(err)
		return nil
	}
	return t
}

func (r *Resolver) addError(err errors.CompilerError) {
	r.errors = append(r.errors, err)
}

// addTypeError maps registry error values onto diagnostics.
func (r *Resolver) addTypeError(err error) {
	switch e := err.(type) {
	case *types.CycleError:
		r.addError(errors.AliasCycle(e.Name, e.Pos))
	case *types.UnknownTypeError:
		similar := errors.FindSimilarNames(e.Name, r.registry.AliasNames())
		r.addError(errors.UndefinedName(e.Name, e.Pos, similar))
	case *types.ShapeError:
		r.addError(errors.NewError(errors.ErrorTypeMismatch, e.Message, e.Pos).Build())
	default:
		r.addError(errors.Internal(err.Error(), ast.Position{}))
	}
}
