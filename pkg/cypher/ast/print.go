package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders id to a canonical textual form, for the subset of
// expressions that have one: literals, boolean trees, and comparison
// chains (spec §8, "round-trip stability"). Other expression kinds still
// render (for diagnostics/EXPLAIN output) but are not guaranteed
// round-trip stable.
func Print(a *Arena, id ExprID) string {
	if id == NoExpr {
		return ""
	}
	return printExpr(a, a.Expr(id))
}

func printExpr(a *Arena, e Expr) string {
	switch n := e.(type) {
	case *Literal:
		return printLiteral(n)
	case *Parameter:
		return "$" + n.Name
	case *Variable:
		return n.Name
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", printID(a, n.Left), opSymbol(n.Op), printID(a, n.Right))
	case *Not:
		return "NOT " + printID(a, n.Operand)
	case *ChainCmp:
		parts := make([]string, len(n.Ops))
		for i, op := range n.Ops {
			parts[i] = fmt.Sprintf("(%s %s %s)", printID(a, n.Terms[i]), opSymbol(op), printID(a, n.Terms[i+1]))
		}
		return strings.Join(parts, " AND ")
	case *BoolTree:
		parts := make([]string, len(n.Operands))
		for i, op := range n.Operands {
			parts[i] = printID(a, op)
		}
		return "(" + strings.Join(parts, " "+opSymbol(n.Op)+" ") + ")"
	case *IsNull:
		if n.Negated {
			return printID(a, n.Operand) + " IS NOT NULL"
		}
		return printID(a, n.Operand) + " IS NULL"
	case *PropertyAccess:
		return printID(a, n.Target) + "." + n.Key
	case *Subscript:
		return fmt.Sprintf("%s[%s]", printID(a, n.Target), printID(a, n.Index))
	case *Slice:
		return fmt.Sprintf("%s[%s..%s]", printID(a, n.Target), printID(a, n.Lo), printID(a, n.Hi))
	case *TypeCast:
		return printID(a, n.Operand) + " :: " + n.Target
	case *CaseExpr:
		var sb strings.Builder
		sb.WriteString("CASE")
		if n.Operand != NoExpr {
			sb.WriteString(" " + printID(a, n.Operand))
		}
		for i := range n.Whens {
			sb.WriteString(fmt.Sprintf(" WHEN %s THEN %s", printID(a, n.Whens[i]), printID(a, n.Thens[i])))
		}
		sb.WriteString(" ELSE " + printID(a, n.Else) + " END")
		return sb.String()
	case *ListLiteral:
		parts := make([]string, len(n.Items))
		for i, it := range n.Items {
			parts[i] = printID(a, it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *MapLiteral:
		parts := make([]string, len(n.Keys))
		for i, k := range n.Keys {
			parts[i] = k + ": " + printID(a, n.Values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *FuncCall:
		parts := make([]string, len(n.Args))
		for i, arg := range n.Args {
			parts[i] = printID(a, arg)
		}
		distinct := ""
		if n.Distinct {
			distinct = "DISTINCT "
		}
		return fmt.Sprintf("%s(%s%s)", n.Name, distinct, strings.Join(parts, ", "))
	case *PathVar:
		return n.Name
	case *WildcardStar:
		return "*"
	case *ExistsPattern:
		return "EXISTS {...}"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func printID(a *Arena, id ExprID) string {
	if id == NoExpr {
		return "NULL"
	}
	return printExpr(a, a.Expr(id))
}

func printLiteral(l *Literal) string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case LitString:
		return "'" + strings.ReplaceAll(l.Str, "'", "\\'") + "'"
	case LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	case LitNull:
		return "null"
	default:
		return "null"
	}
}

func opSymbol(op BinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLte:
		return "<="
	case OpGte:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpIn:
		return "IN"
	case OpStartsWith:
		return "STARTS WITH"
	case OpEndsWith:
		return "ENDS WITH"
	case OpContains:
		return "CONTAINS"
	case OpRegexMatch:
		return "=~"
	default:
		return "?"
	}
}
