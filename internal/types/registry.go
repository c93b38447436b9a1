package types

import (
	"fmt"

	"tact/internal/ast"
)

// Registry manages the named types of one compilation unit: the built-in
// scalars plus declared aliases. It is written once while the resolver
// processes TYPEDEFS and is read-only afterwards, so later stages may share
// it without locking.
type Registry struct {
	aliases  map[string]ast.TypeExpr
	resolved map[string]Type
	inFlight map[string]bool // alias names currently being resolved, for cycle detection
}

// CycleError reports an alias whose resolution revisits a name already in
// progress.
type CycleError struct {
	Name string
	Pos  ast.Position
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("type alias cycle through '%s'", e.Name)
}

// ShapeError reports a type expression violating a structural invariant,
// such as a vector shorter than 2 or a sum type with a single variant.
type ShapeError struct {
	Message string
	Pos     ast.Position
}

func (e *ShapeError) Error() string { return e.Message }

// UnknownTypeError reports a reference to a name that is neither a scalar
// nor a declared alias.
type UnknownTypeError struct {
	Name string
	Pos  ast.Position
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type '%s'", e.Name)
}

func NewRegistry() *Registry {
	return &Registry{
		aliases:  make(map[string]ast.TypeExpr),
		resolved: make(map[string]Type),
		inFlight: make(map[string]bool),
	}
}

// Declare registers an alias without resolving it yet. Resolution is
// deferred so aliases may reference each other regardless of declaration
// order, as long as no cycle forms.
func (r *Registry) Declare(name string, expr ast.TypeExpr) error {
	if _, ok := ScalarByName[name]; ok {
		return &ShapeError{Message: fmt.Sprintf("type name '%s' shadows a built-in scalar", name), Pos: expr.NodePos()}
	}
	if _, ok := r.aliases[name]; ok {
		return &ShapeError{Message: fmt.Sprintf("duplicate type definition '%s'", name), Pos: expr.NodePos()}
	}
	r.aliases[name] = expr
	return nil
}

// HasAlias reports whether name was declared as an alias.
func (r *Registry) HasAlias(name string) bool {
	_, ok := r.aliases[name]
	return ok
}

// AliasNames returns the declared alias names, for suggestion lookups.
func (r *Registry) AliasNames() []string {
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	return names
}

// ResolveAlias resolves a declared alias name to its semantic type. The
// result is memoized; a revisit of a name already in progress is a cycle.
func (r *Registry) ResolveAlias(name string, pos ast.Position) (Type, error) {
	if t, ok := r.resolved[name]; ok {
		return t, nil
	}
	if r.inFlight[name] {
		return nil, &CycleError{Name: name, Pos: pos}
	}
	expr, ok := r.aliases[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name, Pos: pos}
	}

	r.inFlight[name] = true
	t, err := r.Resolve(expr)
	delete(r.inFlight, name)
	if err != nil {
		return nil, err
	}
	r.resolved[name] = t
	return t, nil
}

// Resolve turns a syntactic type expression into a semantic type, chasing
// aliases and enforcing the structural invariants of the type model.
func (r *Registry) Resolve(expr ast.TypeExpr) (Type, error) {
	switch te := expr.(type) {
	case *ast.NamedType:
		if kind, ok := ScalarByName[te.Name]; ok {
			return ScalarOf(kind), nil
		}
		return r.ResolveAlias(te.Name, te.Pos)

	case *ast.TupleType:
		fields := make([]TupleField, len(te.Fields))
		seen := make(map[string]bool, len(te.Fields))
		for i, f := range te.Fields {
			if seen[f.Name.Value] {
				return nil, &ShapeError{Message: fmt.Sprintf("duplicate tuple field '%s'", f.Name.Value), Pos: f.Pos}
			}
			seen[f.Name.Value] = true
			ft, err := r.Resolve(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = TupleField{Name: f.Name.Value, Type: ft}
		}
		return &Tuple{Fields: fields}, nil

	case *ast.VectorType:
		if te.Length < 2 {
			return nil, &ShapeError{Message: fmt.Sprintf("vector length must be at least 2, got %d", te.Length), Pos: te.Pos}
		}
		elem, err := r.Resolve(te.Elem)
		if err != nil {
			return nil, err
		}
		return &Vector{Elem: elem, Length: te.Length}, nil

	case *ast.SumType:
		if len(te.Variants) < 2 {
			return nil, &ShapeError{Message: "sum type must have at least 2 variants", Pos: te.Pos}
		}
		variants := make([]SumVariant, len(te.Variants))
		seen := make(map[string]bool, len(te.Variants))
		for i, v := range te.Variants {
			if seen[v.Tag.Value] {
				return nil, &ShapeError{Message: fmt.Sprintf("duplicate variant tag '%s'", v.Tag.Value), Pos: v.Pos}
			}
			seen[v.Tag.Value] = true
			vt, err := r.Resolve(v.Type)
			if err != nil {
				return nil, err
			}
			variants[i] = SumVariant{Tag: v.Tag.Value, Type: vt}
		}
		return &Sum{Variants: variants}, nil

	case *ast.EnumType:
		if len(te.Tags) < 2 {
			return nil, &ShapeError{Message: "enum must have at least 2 tags", Pos: te.Pos}
		}
		tags := make([]EnumTag, len(te.Tags))
		seen := make(map[string]bool, len(te.Tags))
		for i, tag := range te.Tags {
			if seen[tag.Name.Value] {
				return nil, &ShapeError{Message: fmt.Sprintf("duplicate enum tag '%s'", tag.Name.Value), Pos: tag.Pos}
			}
			seen[tag.Name.Value] = true
			tags[i] = EnumTag{Name: tag.Name.Value, Value: tag.Value}
		}
		return &Enum{Tags: tags}, nil

	case *ast.PointerType:
		referent, err := r.Resolve(te.Referent)
		if err != nil {
			return nil, err
		}
		return &Pointer{Referent: referent}, nil
	}

	return nil, &ShapeError{Message: "unsupported type expression", Pos: expr.NodePos()}
}
