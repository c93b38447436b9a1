package errors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"tact/internal/ast"
)

func plainFormat(t *testing.T, err CompilerError, source string) string {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()
	return NewErrorReporter("demo.tact", source).FormatError(err)
}

func TestFormatErrorHeaderAndLocation(t *testing.T) {
	source := "var x: u8\nSET x: y END\n"
	err := UndefinedName("y", ast.Position{Filename: "demo.tact", Line: 2, Column: 8}, []string{"x"})

	out := plainFormat(t, err, source)

	assert.Contains(t, out, "error[E0105]: undefined name 'y'")
	assert.Contains(t, out, "demo.tact:2:8")
	assert.Contains(t, out, "SET x: y END", "the offending source line is echoed")
	assert.Contains(t, out, "did you mean 'x'?")
}

func TestFormatWarning(t *testing.T) {
	source := "var dead: 1\n"
	err := UnusedVariable("dead", ast.Position{Line: 1, Column: 5})

	out := plainFormat(t, err, source)

	assert.Contains(t, out, "warning[W0001]")
	assert.True(t, IsWarning(err.Code))
}

func TestRecursionErrorNamesTheCycle(t *testing.T) {
	err := Recursion([]string{"ping", "pong", "ping"}, ast.Position{Line: 1, Column: 1})

	assert.Equal(t, ErrorRecursion, err.Code)
	assert.Contains(t, err.Message, "ping -> pong -> ping")
}

func TestStepBudgetExceededCarriesNumbers(t *testing.T) {
	err := StepBudgetExceeded("hot", 900, 512, ast.Position{Line: 3, Column: 1})

	assert.Equal(t, ErrorStepBudgetExceeded, err.Code)
	assert.Contains(t, err.Message, "900")
	assert.Contains(t, err.Message, "512")
	assert.Contains(t, err.Message, "hot")
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Type Resolution", GetErrorCategory(ErrorTypeMismatch))
	assert.Equal(t, "Step Bound", GetErrorCategory(ErrorRecursion))
	assert.Equal(t, "Constant Evaluation", GetErrorCategory(ErrorConstEvaluation))
	assert.Equal(t, "Internal", GetErrorCategory(ErrorInternal))
	assert.Equal(t, "Warning", GetErrorCategory(WarningUnusedVariable))
}

func TestFindSimilarNames(t *testing.T) {
	candidates := []string{"counter", "count", "input", "x"}

	similar := FindSimilarNames("countr", candidates)

	assert.Contains(t, similar, "counter")
	assert.NotContains(t, similar, "input")
	assert.NotContains(t, similar, "x", "very short names make noise, not suggestions")
}

func TestFindSimilarNamesNoMatch(t *testing.T) {
	assert.Empty(t, FindSimilarNames("zzz", []string{"counter", "total"}))
}

func TestFormatErrorOutOfRangeLine(t *testing.T) {
	err := TypeMismatch("u8", "bool", ast.Position{Line: 99, Column: 1})

	out := plainFormat(t, err, "one line only\n")

	assert.Contains(t, out, "error[E0102]", "formatting survives positions past the source end")
	assert.False(t, strings.Contains(out, "one line only"))
}
