package transform

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/binder"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
)

// patternResult is what transformPatterns produces for one MATCH-shaped
// clause: the join tree over every range-table entry/VLE call the
// pattern(s) introduce, plus the full conjoined predicate (join
// predicates, label-id filters, property containment, and edge-
// uniqueness across every path in the clause — spec §4.4.5 applies it
// "across all paths in one MATCH clause", not per path).
type patternResult struct {
	Node      plan.Node
	Predicate ast.ExprID // NoExpr if nothing constrains the pattern at all
}

// transformPatterns implements the Pattern-to-Join Transformer (T, spec
// §4.4) for every comma-separated path of one MATCH/OPTIONAL MATCH/EXISTS
// pattern list. fromCreate distinguishes CREATE's own pattern walk (which
// declares rather than matches) from a read pattern.
func transformPatterns(arena *ast.Arena, cat *catalog.Catalog, graphName string, b *binder.Binder, paths []ast.Path, fromCreate bool) (patternResult, error) {
	var node plan.Node
	var preds []ast.ExprID
	var allEdgeNames, allVleNames []string

	for _, path := range paths {
		pNode, pPreds, edgeNames, vleNames, err := transformOnePath(arena, cat, graphName, b, path, fromCreate)
		if err != nil {
			return patternResult{}, err
		}
		node = crossJoin(node, pNode)
		preds = append(preds, pPreds...)
		allEdgeNames = append(allEdgeNames, edgeNames...)
		allVleNames = append(allVleNames, vleNames...)
	}

	preds = append(preds, edgeUniqueness(arena, allEdgeNames, allVleNames))
	return patternResult{Node: node, Predicate: and(arena, preds...)}, nil
}

// crossJoin appends next onto acc with no predicate of its own (every
// predicate this pattern needs is collected separately and applied as one
// Filter over the whole MATCH clause, per spec §4.5).
func crossJoin(acc, next plan.Node) plan.Node {
	if next == nil {
		return acc
	}
	if acc == nil {
		return next
	}
	return &plan.Join{Left: acc, Right: next, Kind: plan.JoinInner, On: ast.NoExpr}
}

func transformOnePath(arena *ast.Arena, cat *catalog.Catalog, graphName string, b *binder.Binder, path ast.Path, fromCreate bool) (plan.Node, []ast.ExprID, []string, []string, error) {
	included := make([]bool, len(path.Nodes))
	for i := range path.Nodes {
		n := &path.Nodes[i]
		hadName := n.Name != ""
		included[i] = hadName || n.Label != "" || n.Props != ast.NoExpr
		if _, err := b.NameNode(n, fromCreate); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	var node plan.Node
	var preds []ast.ExprID
	var edgeNames, vleNames []string

	for i := range path.Nodes {
		n := &path.Nodes[i]
		if !included[i] {
			continue
		}
		node = crossJoin(node, &plan.RangeTableEntry{Alias: n.Name, Graph: graphName, Label: n.Label, IsEdge: false})
		if n.Label != "" {
			preds = append(preds, labelIDFilter(arena, n.Name, n.Label))
		}
		preds = append(preds, containmentPredicate(arena, n.Name, n.Props))
	}

	for i := range path.Rels {
		r := &path.Rels[i]
		if _, err := b.NameRel(r, fromCreate); err != nil {
			return nil, nil, nil, nil, err
		}

		leftOK := included[i]
		rightOK := included[i+1]
		leftName := path.Nodes[i].Name
		rightName := path.Nodes[i+1].Name

		if r.VarLen != nil {
			vleNames = append(vleNames, r.Name)
			lo, hi, hiInf := r.VarLen.Lo, r.VarLen.Hi, r.VarLen.HiInfinite()
			if !hiInf && lo > hi {
				return nil, nil, nil, nil, cyphererr.ErrInvalidVLERange.New(lo, hi)
			}
			node = crossJoin(node, &plan.VLECall{
				Alias: r.Name, StartAlias: leftName, EndAlias: rightName,
				EdgeLabel: r.Label, Props: r.Props, Lo: lo, Hi: hi, HiInfinite: hiInf,
				Direction: r.Direction,
			})
			preds = append(preds, vleEndpointPredicate(arena, leftName, rightName, r.Name, r.Direction, leftOK, rightOK))
			preds = append(preds, containmentPredicate(arena, r.Name, r.Props))
			continue
		}

		edgeNames = append(edgeNames, r.Name)
		node = crossJoin(node, &plan.RangeTableEntry{Alias: r.Name, Graph: graphName, Label: r.Label, IsEdge: true})
		if r.Label != "" {
			preds = append(preds, labelIDFilter(arena, r.Name, r.Label))
		}
		preds = append(preds, containmentPredicate(arena, r.Name, r.Props))
		preds = append(preds, edgeEndpointPredicate(arena, leftName, rightName, r.Name, r.Direction, leftOK, rightOK))
	}

	if path.VarName != "" {
		names := pathEntityNames(path)
		preds = append(preds, arena.NewExpr(&ast.Binary{
			Op:   ast.OpEq,
			Left: arena.NewExpr(&ast.PathVar{Name: path.VarName}),
			Right: buildTraversal(arena, names),
		}))
	}

	return node, preds, edgeNames, vleNames, nil
}

func pathEntityNames(path ast.Path) []string {
	names := make([]string, 0, len(path.Nodes)+len(path.Rels))
	for i := range path.Nodes {
		names = append(names, path.Nodes[i].Name)
		if i < len(path.Rels) {
			names = append(names, path.Rels[i].Name)
		}
	}
	return names
}

// edgeEndpointPredicate implements spec §4.4.2's join-predicate rule for a
// fixed (non-VLE) edge, folding out predicates for sides whose node isn't
// materialized in the join tree (the unconstrained anonymous case; spec
// §4.4.2 "attached to that edge" — here simply omitted, since nothing
// downstream references an unmaterialized node's id anyway).
func edgeEndpointPredicate(arena *ast.Arena, leftName, rightName, edgeName string, dir ast.Direction, leftOK, rightOK bool) ast.ExprID {
	startCol := func(side string) ast.ExprID {
		return arena.NewExpr(&ast.PropertyAccess{Target: arena.NewExpr(&ast.Variable{Name: edgeName}), Key: side})
	}
	combo := func(leftCol, rightCol string) ast.ExprID {
		var parts []ast.ExprID
		if leftOK {
			parts = append(parts, arena.NewExpr(&ast.Binary{Op: ast.OpEq, Left: idOf(arena, leftName), Right: startCol(leftCol)}))
		}
		if rightOK {
			parts = append(parts, arena.NewExpr(&ast.Binary{Op: ast.OpEq, Left: idOf(arena, rightName), Right: startCol(rightCol)}))
		}
		return and(arena, parts...)
	}
	switch dir {
	case ast.DirOut:
		return combo("start_id", "end_id")
	case ast.DirIn:
		return combo("end_id", "start_id")
	default: // DirEither: disjunction of both directed forms (spec §4.4.2)
		a := combo("start_id", "end_id")
		bq := combo("end_id", "start_id")
		if a == ast.NoExpr {
			return bq
		}
		if bq == ast.NoExpr {
			return a
		}
		return arena.NewExpr(&ast.BoolTree{Op: ast.OpOr, Operands: []ast.ExprID{a, bq}})
	}
}

// vleEndpointPredicate mirrors edgeEndpointPredicate for a variable-length
// edge using the specialised start_of/end_of operators spec §4.4.4 names.
func vleEndpointPredicate(arena *ast.Arena, leftName, rightName, vleName string, dir ast.Direction, leftOK, rightOK bool) ast.ExprID {
	sideFn := func(fn string) ast.ExprID {
		return arena.NewExpr(&ast.FuncCall{Name: fn, Args: []ast.ExprID{arena.NewExpr(&ast.Variable{Name: vleName})}})
	}
	combo := func(leftFn, rightFn string) ast.ExprID {
		var parts []ast.ExprID
		if leftOK {
			parts = append(parts, arena.NewExpr(&ast.Binary{Op: ast.OpEq, Left: idOf(arena, leftName), Right: sideFn(leftFn)}))
		}
		if rightOK {
			parts = append(parts, arena.NewExpr(&ast.Binary{Op: ast.OpEq, Left: idOf(arena, rightName), Right: sideFn(rightFn)}))
		}
		return and(arena, parts...)
	}
	switch dir {
	case ast.DirOut:
		return combo("start_of", "end_of")
	case ast.DirIn:
		return combo("end_of", "start_of")
	default:
		a := combo("start_of", "end_of")
		bq := combo("end_of", "start_of")
		if a == ast.NoExpr {
			return bq
		}
		if bq == ast.NoExpr {
			return a
		}
		return arena.NewExpr(&ast.BoolTree{Op: ast.OpOr, Operands: []ast.ExprID{a, bq}})
	}
}
