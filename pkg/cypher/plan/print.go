package plan

import (
	"fmt"
	"strings"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
)

// Format renders node as an indented, human-readable plan tree, the
// relational-plan analogue of the teacher's explain.go PlanOperator tree
// (EXPLAIN/PROFILE formatting) adapted to print range tables, joins, and
// writer directives instead of storage-engine operators. It takes the
// originating Arena so expression ids can be rendered with ast.Print
// rather than as bare integers.
func Format(arena *ast.Arena, node Node) string {
	var b strings.Builder
	formatNode(&b, arena, node, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func exprStr(arena *ast.Arena, id ast.ExprID) string {
	if id == ast.NoExpr {
		return "<none>"
	}
	return ast.Print(arena, id)
}

func formatNode(b *strings.Builder, arena *ast.Arena, node Node, depth int) {
	if node == nil {
		indent(b, depth)
		b.WriteString("<empty>\n")
		return
	}
	switch n := node.(type) {
	case *RangeTableEntry:
		indent(b, depth)
		kind := "vertex"
		if n.IsEdge {
			kind = "edge"
		}
		fmt.Fprintf(b, "Scan(%s) graph=%s label=%s as=%s", kind, n.Graph, labelOrStar(n.Label), n.Alias)
		if n.IndexHint != "" {
			fmt.Fprintf(b, " index_hint=%s", n.IndexHint)
		}
		b.WriteString("\n")
	case *VLECall:
		indent(b, depth)
		hi := fmt.Sprintf("%d", n.Hi)
		if n.HiInfinite {
			hi = "inf"
		}
		fmt.Fprintf(b, "VLE as=%s %s->%s label=%s range=[%d..%s] dir=%s\n",
			n.Alias, n.StartAlias, n.EndAlias, labelOrStar(n.EdgeLabel), n.Lo, hi, dirStr(n.Direction))
	case *Join:
		indent(b, depth)
		kind := "InnerJoin"
		if n.Kind == JoinLateralLeft {
			kind = "LateralLeftJoin"
		}
		fmt.Fprintf(b, "%s on=%s\n", kind, exprStr(arena, n.On))
		formatNode(b, arena, n.Left, depth+1)
		formatNode(b, arena, n.Right, depth+1)
	case *Filter:
		indent(b, depth)
		fmt.Fprintf(b, "Filter(%s)\n", exprStr(arena, n.Predicate))
		formatNode(b, arena, n.Input, depth+1)
	case *Projection:
		indent(b, depth)
		fmt.Fprintf(b, "Project distinct=%v [", n.Distinct)
		for i, it := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s", exprStr(arena, it.Expr))
			if it.Alias != "" {
				fmt.Fprintf(b, " AS %s", it.Alias)
			}
		}
		b.WriteString("]\n")
		formatNode(b, arena, n.Input, depth+1)
	case *Unwind:
		indent(b, depth)
		fmt.Fprintf(b, "Unwind(%s) AS %s\n", exprStr(arena, n.Expr), n.As)
		formatNode(b, arena, n.Input, depth+1)
	case *Sort:
		indent(b, depth)
		b.WriteString("Sort [")
		for i, it := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			dir := "ASC"
			if it.Desc {
				dir = "DESC"
			}
			fmt.Fprintf(b, "%s %s", exprStr(arena, it.Expr), dir)
		}
		b.WriteString("]\n")
		formatNode(b, arena, n.Input, depth+1)
	case *LimitOffset:
		indent(b, depth)
		fmt.Fprintf(b, "LimitOffset skip=%s limit=%s\n", exprStr(arena, n.Skip), exprStr(arena, n.Limit))
		formatNode(b, arena, n.Input, depth+1)
	case *SetOp:
		indent(b, depth)
		kind := "Union"
		if n.Kind == SetOpUnionAll {
			kind = "UnionAll"
		}
		fmt.Fprintf(b, "%s\n", kind)
		formatNode(b, arena, n.Left, depth+1)
		formatNode(b, arena, n.Right, depth+1)
	case *Exists:
		indent(b, depth)
		fmt.Fprintf(b, "Exists refs=%v\n", n.OuterRefs)
		formatNode(b, arena, n.Subquery, depth+1)
	case *WriterCall:
		indent(b, depth)
		fmt.Fprintf(b, "WriterCall(%s)\n", n.FuncName)
		formatNode(b, arena, n.Input, depth+1)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "Unknown(%T)\n", n)
	}
}

func labelOrStar(l string) string {
	if l == "" {
		return "*"
	}
	return l
}

func dirStr(d ast.Direction) string {
	switch d {
	case ast.DirOut:
		return "->"
	case ast.DirIn:
		return "<-"
	default:
		return "-"
	}
}
