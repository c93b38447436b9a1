package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Print returns a human-readable listing of the program, one function per
// section with its bound and metadata. Intended for debugging and golden
// tests, not for consumption by the code generator.
func Print(p *Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", p.Module)
	for _, imp := range p.Imports {
		fmt.Fprintf(&sb, "import fn %s: %s -> %s  ; bound=%s\n",
			imp.Name, imp.Input.String(), imp.Output.String(), boundString(imp.Bound))
	}
	for _, fn := range p.Functions {
		sb.WriteString("\n")
		var flags []string
		if fn.Pure {
			flags = append(flags, "@pure")
		}
		if fn.NoDiscard {
			flags = append(flags, "@nodiscard")
		}
		if fn.Const {
			flags = append(flags, "@const")
		}
		if len(flags) > 0 {
			sb.WriteString(strings.Join(flags, " ") + "\n")
		}
		fmt.Fprintf(&sb, "fn %s: %s -> %s  ; bound=%s\n",
			fn.Name, fn.Input.String(), fn.Output.String(), boundString(fn.Bound))
		printInstr(&sb, fn.Body, 1)
	}
	return sb.String()
}

func boundString(b StepBound) string {
	switch b.Kind {
	case BoundFinite:
		return strconv.Itoa(b.Steps)
	case BoundUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

func printInstr(sb *strings.Builder, instr Instr, depth int) {
	pad := strings.Repeat("  ", depth)
	switch s := instr.(type) {
	case *Block:
		for _, v := range s.Vars {
			if v.Init != nil {
				fmt.Fprintf(sb, "%svar %s %s = %s\n", pad, v.Name, v.Type.String(), ExprString(v.Init))
			} else {
				fmt.Fprintf(sb, "%svar %s %s\n", pad, v.Name, v.Type.String())
			}
		}
		for _, item := range s.Items {
			printInstr(sb, item, depth)
		}
	case *Set:
		for _, w := range s.With {
			fmt.Fprintf(sb, "%swith %s = %s\n", pad, w.Name, ExprString(w.Value))
		}
		parts := make([]string, len(s.Entries))
		for i, e := range s.Entries {
			parts[i] = ExprString(e.Target) + " <- " + ExprString(e.Value)
		}
		fmt.Fprintf(sb, "%sset %s\n", pad, strings.Join(parts, ", "))
	case *If:
		for i, arm := range s.Arms {
			kw := "if"
			if i > 0 {
				kw = "elif"
			}
			fmt.Fprintf(sb, "%s%s %s:\n", pad, kw, ExprString(arm.Cond))
			printInstr(sb, arm.Body, depth+1)
		}
		if s.Default != nil {
			fmt.Fprintf(sb, "%selse:\n", pad)
			printInstr(sb, s.Default, depth+1)
		}
	case *For:
		fmt.Fprintf(sb, "%sfor %s in %s..%s:\n", pad, s.Var, ExprString(s.From), ExprString(s.To))
		printInstr(sb, s.Body, depth+1)
	case *While:
		fmt.Fprintf(sb, "%swhile %s:  ; max_iter=%d\n", pad, ExprString(s.Cond), s.MaxIter)
		printInstr(sb, s.Body, depth+1)
	case *Match:
		fmt.Fprintf(sb, "%smatch %s:\n", pad, ExprString(s.Scrutinee))
		for _, arm := range s.Arms {
			label := arm.Tag
			if arm.IntValue != nil {
				label = strconv.FormatInt(*arm.IntValue, 10)
			}
			if arm.Binder != "" {
				label += "(" + arm.Binder + ")"
			}
			fmt.Fprintf(sb, "%s  %s:\n", pad, label)
			printInstr(sb, arm.Body, depth+2)
		}
		if s.Default != nil {
			fmt.Fprintf(sb, "%s  _:\n", pad)
			printInstr(sb, s.Default, depth+2)
		}
	case *ExprStmt:
		fmt.Fprintf(sb, "%s%s\n", pad, ExprString(s.X))
	}
}

// ExprString renders an expression for listings and diagnostics.
func ExprString(e Expr) string {
	switch x := e.(type) {
	case *IntLit:
		return strconv.FormatInt(x.Value, 10)
	case *FloatLit:
		return strconv.FormatFloat(x.Value, 'g', -1, 32)
	case *BoolLit:
		return strconv.FormatBool(x.Value)
	case *VarRef:
		return x.Name
	case *Binary:
		return "(" + ExprString(x.L) + " " + x.Op + " " + ExprString(x.R) + ")"
	case *Unary:
		return "(" + x.Op + ExprString(x.X) + ")"
	case *Call:
		return x.Callee + "(" + ExprString(x.Arg) + ")"
	case *Cast:
		return fmt.Sprintf("%s(%s)", x.T.String(), ExprString(x.X))
	case *MakeTuple:
		parts := make([]string, len(x.Values))
		for i, v := range x.Values {
			parts[i] = x.T.Fields[i].Name + ": " + ExprString(v)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *MakeVector:
		parts := make([]string, len(x.Elems))
		for i, v := range x.Elems {
			parts[i] = ExprString(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *FieldAccess:
		return ExprString(x.X) + "." + x.Field
	case *Index:
		return ExprString(x.X) + "[" + ExprString(x.Idx) + "]"
	case *Fold:
		return x.Op.String() + "(" + ExprString(x.X) + ")"
	case *MakeVariant:
		return x.Tag + "(" + ExprString(x.Payload) + ")"
	case *EnumConst:
		return x.Tag
	}
	return "?"
}
