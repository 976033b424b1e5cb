package transform

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

// collectExists walks id's expression tree and, for every ast.ExistsPattern
// it finds, builds the correlated subquery plan.Exists describes (spec
// §4.3) and records it in out, keyed by the ExistsPattern's own ExprID so a
// host evaluator can look it up without a second lowering pass over the
// expression tree. OuterRefs is every name currently bound in b, since an
// EXISTS pattern may reference any of them.
func collectExists(arena *ast.Arena, cat *catalog.Catalog, graphName string, b *binder.Binder, id ast.ExprID, out map[ast.ExprID]*plan.Exists) error {
	if id == ast.NoExpr {
		return nil
	}
	switch e := arena.Expr(id).(type) {
	case *ast.Literal, *ast.Parameter, *ast.Variable, *ast.WildcardStar, *ast.PathVar:
		return nil
	case *ast.Binary:
		if err := collectExists(arena, cat, graphName, b, e.Left, out); err != nil {
			return err
		}
		return collectExists(arena, cat, graphName, b, e.Right, out)
	case *ast.Not:
		return collectExists(arena, cat, graphName, b, e.Operand, out)
	case *ast.ChainCmp:
		for _, t := range e.Terms {
			if err := collectExists(arena, cat, graphName, b, t, out); err != nil {
				return err
			}
		}
		return nil
	case *ast.BoolTree:
		for _, o := range e.Operands {
			if err := collectExists(arena, cat, graphName, b, o, out); err != nil {
				return err
			}
		}
		return nil
	case *ast.IsNull:
		return collectExists(arena, cat, graphName, b, e.Operand, out)
	case *ast.PropertyAccess:
		return collectExists(arena, cat, graphName, b, e.Target, out)
	case *ast.Subscript:
		if err := collectExists(arena, cat, graphName, b, e.Target, out); err != nil {
			return err
		}
		return collectExists(arena, cat, graphName, b, e.Index, out)
	case *ast.Slice:
		if err := collectExists(arena, cat, graphName, b, e.Target, out); err != nil {
			return err
		}
		if err := collectExists(arena, cat, graphName, b, e.Lo, out); err != nil {
			return err
		}
		return collectExists(arena, cat, graphName, b, e.Hi, out)
	case *ast.TypeCast:
		return collectExists(arena, cat, graphName, b, e.Operand, out)
	case *ast.CaseExpr:
		if err := collectExists(arena, cat, graphName, b, e.Operand, out); err != nil {
			return err
		}
		for _, w := range e.Whens {
			if err := collectExists(arena, cat, graphName, b, w, out); err != nil {
				return err
			}
		}
		for _, t := range e.Thens {
			if err := collectExists(arena, cat, graphName, b, t, out); err != nil {
				return err
			}
		}
		return collectExists(arena, cat, graphName, b, e.Else, out)
	case *ast.ListLiteral:
		for _, it := range e.Items {
			if err := collectExists(arena, cat, graphName, b, it, out); err != nil {
				return err
			}
		}
		return nil
	case *ast.MapLiteral:
		for _, v := range e.Values {
			if err := collectExists(arena, cat, graphName, b, v, out); err != nil {
				return err
			}
		}
		return nil
	case *ast.FuncCall:
		for _, a := range e.Args {
			if err := collectExists(arena, cat, graphName, b, a, out); err != nil {
				return err
			}
		}
		return nil
	case *ast.ExistsPattern:
		outer := make([]string, len(b.All()))
		for i, bd := range b.All() {
			outer[i] = bd.Name
		}
		child := binder.New(arena)
		for _, name := range outer {
			bd, _ := b.Lookup(name)
			if _, err := child.Declare(name, bd.Kind, bd.Expr, false); err != nil {
				return err
			}
		}
		pr, err := transformPatterns(arena, cat, graphName, child, []ast.Path{e.Pattern}, false)
		if err != nil {
			return err
		}
		pred := and(arena, pr.Predicate, e.Where)
		var sub plan.Node = pr.Node
		if pred != ast.NoExpr {
			sub = &plan.Filter{Input: pr.Node, Predicate: pred}
		}
		out[id] = &plan.Exists{Subquery: sub, OuterRefs: outer}
		return nil
	default:
		return nil
	}
}
