// Package cypher is the front-end's public entry point, spec §6's
// `cypher(graph_name, query_text, params) -> rows` operation lowered one
// stage short of execution: it runs the whole L -> P -> N -> T/C/U/W
// pipeline and hands back a plan tree plus the bindings a host executor
// needs to run it, rather than rows itself (row production belongs to the
// host storage engine, spec §1's external collaborator).
package cypher

import (
	"fmt"

	"github.com/cyphergraph/cyphercore/pkg/config"
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/parser"
	"github.com/cyphergraph/cyphercore/pkg/cypher/plan"
	"github.com/cyphergraph/cyphercore/pkg/cypher/transform"
)

// Compiled is the result of compiling one query: its plan tree, the
// correlated EXISTS subqueries the expression transformer pulled out, and
// the parsed Query's Params set (which the parser leaves empty).
type Compiled struct {
	GraphName string
	Arena     *ast.Arena
	Plan      plan.Node
	Exists    map[ast.ExprID]*plan.Exists
	Params    map[string]struct{}
}

// Compile runs the full pipeline over queryText against graphName, using
// cfg to bound the source length the lexer will accept (spec §6). A nil
// cfg falls back to config.LoadFromEnv's defaults.
func Compile(cfg *config.Config, cat *catalog.Catalog, graphName, queryText string) (*Compiled, error) {
	if cfg == nil {
		cfg = config.LoadFromEnv()
	}
	if graphName == "" {
		graphName = cfg.DefaultGraphNamespace
	}
	if len(queryText) > cfg.MaxQueryLength {
		return nil, fmt.Errorf("query text exceeds max length %d bytes", cfg.MaxQueryLength)
	}

	query, err := parser.Parse(queryText)
	if err != nil {
		return nil, err
	}
	if err := checkVLEBounds(query, cfg.MaxVLEUpperBound); err != nil {
		return nil, err
	}

	result, err := transform.Transform(query, cat, graphName)
	if err != nil {
		return nil, err
	}
	return &Compiled{GraphName: graphName, Arena: query.Arena, Plan: result.Plan, Exists: result.Exists, Params: query.Params}, nil
}

// checkVLEBounds walks every clause's patterns, including those of both
// branches of a UNION, for a variable-length relationship whose hi exceeds
// cfg.MaxVLEUpperBound, independent of whatever the pattern's own [lo,hi]
// syntax otherwise allows (spec §6, SPEC_FULL's config guardrails).
// Patterns inside EXISTS { ... } expressions are not checked.
func checkVLEBounds(query *ast.Query, maxHi int) error {
	return checkChainVLEBounds(query.Arena, query.Head, maxHi)
}

func checkChainVLEBounds(arena *ast.Arena, head ast.ClauseID, maxHi int) error {
	for id := head; id != ast.NoClause; id = arena.NextOf(id) {
		var paths []ast.Path
		switch c := arena.Clause(id).(type) {
		case *ast.Match:
			paths = c.Patterns
		case *ast.Create:
			paths = c.Patterns
		case *ast.Merge:
			paths = []ast.Path{c.Path}
		case *ast.Return:
			if c.Op != ast.SetOpNone {
				if err := checkChainVLEBounds(arena, c.Larg, maxHi); err != nil {
					return err
				}
				if err := checkChainVLEBounds(arena, c.Rarg, maxHi); err != nil {
					return err
				}
			}
		}
		for _, p := range paths {
			for i := range p.Rels {
				vl := p.Rels[i].VarLen
				if vl != nil && !vl.HiInfinite() && vl.Hi > maxHi {
					return fmt.Errorf("variable-length upper bound %d exceeds configured maximum %d", vl.Hi, maxHi)
				}
			}
		}
	}
	return nil
}

// Format renders a compiled plan for EXPLAIN-style inspection (spec §6,
// SPEC_FULL's "EXPLAIN/PROFILE-style plan printing").
func Format(c *Compiled) string {
	return plan.Format(c.Arena, c.Plan)
}
