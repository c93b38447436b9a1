package errors

// Error codes for the tact compiler.
// These codes identify diagnostics consistently across the toolchain and in
// the structured (kind, location, message) list handed to external tools.
//
// Error code ranges:
// E0100-E0199: Type resolution errors
// E0200-E0299: Call-graph and step-bound errors
// E0300-E0399: Constant evaluation errors
// E0900-E0999: Internal compiler defects
// W0001-W0099: Warning codes

const (
	// Type resolution errors (E0100-E0199)

	// E0101: Type alias resolution revisited a name already in progress
	ErrorAliasCycle = "E0101"

	// E0102: Expression type does not match the required type
	ErrorTypeMismatch = "E0102"

	// E0103: Operator applied to operands outside its type family
	ErrorIncompatibleOperand = "E0103"

	// E0104: @nodiscard call result used as a bare statement
	ErrorDiscardedResult = "E0104"

	// E0105: Reference to an undeclared variable, function or type
	ErrorUndefinedName = "E0105"

	// E0106: Duplicate declaration in the same scope
	ErrorDuplicateDeclaration = "E0106"

	// E0107: Attempt to store a pointer-typed value
	ErrorPointerStore = "E0107"

	// E0108: Match over a sum type or enum misses variants and has no '_'
	ErrorNonExhaustiveMatch = "E0108"

	// Call-graph and step-bound errors (E0200-E0299)

	// E0201: Function participates in a call cycle
	ErrorRecursion = "E0201"

	// E0202: FOR loop range is not a compile-time constant
	ErrorUnboundedLoop = "E0202"

	// E0203: WHILE loop iteration count could not be proven
	ErrorStepBoundUnprovable = "E0203"

	// E0204: Proven step bound exceeds the per-invocation budget
	ErrorStepBudgetExceeded = "E0204"

	// Constant evaluation errors (E0300-E0399)

	// E0301: @const call failed to fold at compile time
	ErrorConstEvaluation = "E0301"

	// Internal defects (E0900-E0999)

	// E0901: Compiler invariant violated; always a compiler bug
	ErrorInternal = "E0901"

	// Warning codes

	// W0001: Variable declared but never used
	WarningUnusedVariable = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorAliasCycle:
		return "Type alias resolution forms a cycle"
	case ErrorTypeMismatch:
		return "Expression type does not match the required type"
	case ErrorIncompatibleOperand:
		return "Operator applied to operands outside its type family"
	case ErrorDiscardedResult:
		return "Result of a @nodiscard call is not consumed"
	case ErrorUndefinedName:
		return "Name is used but not declared in the current scope"
	case ErrorDuplicateDeclaration:
		return "Duplicate declaration found"
	case ErrorPointerStore:
		return "Pointer values cannot be stored or returned"
	case ErrorNonExhaustiveMatch:
		return "Match does not cover all cases and has no '_' arm"
	case ErrorRecursion:
		return "Function participates in a call cycle; recursion is forbidden"
	case ErrorUnboundedLoop:
		return "Loop range is not a compile-time constant"
	case ErrorStepBoundUnprovable:
		return "No constant iteration bound could be proven for the loop"
	case ErrorStepBudgetExceeded:
		return "Function exceeds its per-invocation step budget"
	case ErrorConstEvaluation:
		return "@const function failed to fold with constant arguments"
	case ErrorInternal:
		return "Internal compiler defect"
	case WarningUnusedVariable:
		return "Variable is declared but never used"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0100" && code < "E0200":
		return "Type Resolution"
	case code >= "E0200" && code < "E0300":
		return "Step Bound"
	case code >= "E0300" && code < "E0400":
		return "Constant Evaluation"
	case code >= "E0900" && code < "E1000":
		return "Internal"
	case len(code) > 0 && code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
