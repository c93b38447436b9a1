package errors

import (
	"fmt"
	"strings"

	"tact/internal/ast"
)

// ErrorBuilder provides a fluent interface for creating compiler errors with
// suggestions
type ErrorBuilder struct {
	err CompilerError
}

// NewError creates a new error builder
func NewError(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *ErrorBuilder) WithLength(length int) *ErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *ErrorBuilder) WithSuggestion(message string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *ErrorBuilder) WithNote(note string) *ErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *ErrorBuilder) Build() CompilerError {
	return b.err
}

// Constructors for the diagnostic kinds the compiler produces

// AliasCycle reports a type alias whose resolution revisits itself.
func AliasCycle(name string, pos ast.Position) CompilerError {
	return NewError(ErrorAliasCycle, fmt.Sprintf("type alias cycle through '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion("break the cycle by inlining one of the aliased types").
		WithNote("alias resolution must terminate; an alias may not reference itself directly or indirectly").
		Build()
}

// TypeMismatch reports a value whose type cannot serve where it is used.
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	return NewError(ErrorTypeMismatch, fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual), pos).
		WithNote("only lossless widenings are inserted implicitly; i32 and u32 never convert to each other or to f32").
		Build()
}

// LiteralOutOfRange reports an integer literal that fits no scalar type.
func LiteralOutOfRange(value int64, pos ast.Position) CompilerError {
	return NewError(ErrorTypeMismatch, fmt.Sprintf("integer literal %d fits no scalar type", value), pos).
		WithNote("integer scalars span u8..u32 and i8..i32; the widest values are 4294967295 and -2147483648").
		Build()
}

// IncompatibleOperand reports an operator applied outside its type family.
func IncompatibleOperand(op, leftType, rightType string, pos ast.Position) CompilerError {
	builder := NewError(ErrorIncompatibleOperand, fmt.Sprintf("invalid operation: %s %s %s", leftType, op, rightType), pos)

	switch op {
	case "+", "-", "*", "/", "%":
		builder = builder.WithSuggestion("arithmetic operations require numeric scalars").
			WithNote("numeric scalars are: u8, i8, u16, i16, u32, i32, f32")
	case "and", "or", "&&", "||":
		builder = builder.WithSuggestion("boolean operations require bool operands").
			WithSuggestion("use a comparison operator to produce a bool")
	case "==", "!=", "<", "<=", ">", ">=":
		builder = builder.WithSuggestion("comparison operands must share a lossless common type")
	}

	return builder.Build()
}

// IncompatibleFoldOperand reports ALL/NONE/ANY applied to a non-boolean
// aggregate.
func IncompatibleFoldOperand(op, actual string, pos ast.Position) CompilerError {
	return NewError(ErrorIncompatibleOperand, fmt.Sprintf("%s requires a tuple or vector of bool, found %s", op, actual), pos).
		WithHelp("fold operators reduce a boolean aggregate to a single bool").
		Build()
}

// DiscardedResult reports a @nodiscard call whose result is dropped.
func DiscardedResult(functionName string, pos ast.Position) CompilerError {
	return NewError(ErrorDiscardedResult, fmt.Sprintf("result of @nodiscard function '%s' is discarded", functionName), pos).
		WithLength(len(functionName)).
		WithSuggestion("assign the result or use it inside a larger expression").
		WithNote("@nodiscard marks results whose loss is almost certainly a bug").
		Build()
}

// UndefinedName reports a reference to an undeclared name, with near-name
// suggestions when available.
func UndefinedName(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewError(ErrorUndefinedName, fmt.Sprintf("undefined name '%s'", name), pos).
		WithLength(len(name))

	if len(similarNames) == 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	} else if len(similarNames) > 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	} else {
		builder = builder.WithSuggestion("declare the name before its first use").
			WithNote("a variable may reference only previously declared names plus the function input")
	}

	return builder.Build()
}

// DuplicateDeclaration reports a name declared twice in one scope.
func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return NewError(ErrorDuplicateDeclaration, fmt.Sprintf("duplicate declaration: %s", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename the duplicate '%s' to a unique name", name)).
		WithNote("identifiers must be unique within their scope").
		Build()
}

// PointerStore reports an attempt to persist a pointer value.
func PointerStore(what string, pos ast.Position) CompilerError {
	return NewError(ErrorPointerStore, fmt.Sprintf("%s has pointer type; pointers cannot be stored", what), pos).
		WithSuggestion("dereference the pointer and store the referent value instead").
		WithNote("references never persist: the stack is the only storage and frames do not outlive their call").
		Build()
}

// NonExhaustiveMatch reports a match missing cases with no '_' arm.
func NonExhaustiveMatch(missing []string, pos ast.Position) CompilerError {
	builder := NewError(ErrorNonExhaustiveMatch, "match does not cover all cases", pos)
	if len(missing) > 0 {
		builder = builder.WithNote("unhandled: " + strings.Join(missing, ", "))
	}
	return builder.WithSuggestion("add the missing arms or a '_' catch-all").Build()
}

// Recursion reports a function on a call cycle, naming the cycle path.
func Recursion(cycle []string, pos ast.Position) CompilerError {
	return NewError(ErrorRecursion, "recursive call cycle: "+strings.Join(cycle, " -> "), pos).
		WithSuggestion("restructure the computation as a bounded loop").
		WithNote("recursion is structurally forbidden; the call graph must stay a DAG").
		Build()
}

// UnboundedLoop reports a FOR range that is not a compile-time constant.
func UnboundedLoop(pos ast.Position) CompilerError {
	return NewError(ErrorUnboundedLoop, "loop range is not a compile-time constant", pos).
		WithSuggestion("use literal or enum-constant range bounds").
		WithNote("every loop must contribute a finite amount to the function's step bound").
		Build()
}

// StepBoundUnprovable reports a WHILE loop with no provable iteration bound.
func StepBoundUnprovable(pos ast.Position) CompilerError {
	return NewError(ErrorStepBoundUnprovable, "no constant iteration bound could be proven for this loop", pos).
		WithSuggestion("drive the loop with a counter stepped by a constant toward a constant limit").
		WithSuggestion("or rewrite the loop as FOR over a constant range").
		WithNote("the bound proof is conservative: loops it cannot analyze are rejected").
		Build()
}

// StepBudgetExceeded reports a function whose proven bound exceeds the
// per-invocation budget, naming the offending function.
func StepBudgetExceeded(functionName string, bound, budget int, pos ast.Position) CompilerError {
	return NewError(ErrorStepBudgetExceeded,
		fmt.Sprintf("function '%s' needs %d steps in the worst case, budget is %d", functionName, bound, budget), pos).
		WithSuggestion("split the function or shrink its loop ranges").
		Build()
}

// ConstEvaluation reports a @const call that failed to fold. This is always a
// hard compile error; the same failure on a plain @pure call degrades to
// leaving the call for runtime instead.
func ConstEvaluation(functionName, cause string, pos ast.Position) CompilerError {
	return NewError(ErrorConstEvaluation,
		fmt.Sprintf("@const function '%s' failed to fold: %s", functionName, cause), pos).
		WithNote("@const functions must always fold successfully given constant arguments").
		Build()
}

// Internal reports a compiler defect. It must abort loudly, never silently
// miscompile.
func Internal(message string, pos ast.Position) CompilerError {
	return NewError(ErrorInternal, "internal compiler error: "+message, pos).
		WithNote("this is a compiler bug; please report it").
		Build()
}

// UnusedVariable creates a warning for unused variables
func UnusedVariable(name string, pos ast.Position) CompilerError {
	return NewWarning(WarningUnusedVariable, fmt.Sprintf("variable '%s' is declared but never used", name), pos).
		WithLength(len(name)).
		WithSuggestion("remove the variable declaration if it's not needed").
		Build()
}

// FindSimilarNames returns candidates within a small edit distance of the
// target, for "did you mean" suggestions.
func FindSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
