// Package plan defines the relational plan tree emitted by
// pkg/cypher/transform: range-table entries, joins, projections, and the
// writer directives of spec §4.8. The node shapes follow the
// tree-of-nodes convention of github.com/dolthub/go-mysql-server's
// sql.Node/sql.Expression (the retrieval pack kept only test files for
// that package, so the convention is reproduced from its observable
// shape rather than copied). Expressions are not duplicated here: every
// predicate/projection item is an ast.ExprID into the Query's Arena, kept
// alive for the lifetime of the plan.
package plan

import "github.com/cyphergraph/cyphercore/pkg/cypher/ast"

// Node is the marker interface implemented by every plan tree node.
type Node interface {
	planNode()
}

// JoinKind distinguishes the join strategies spec §4.5 names.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLateralLeft
)

// RangeTableEntry is a scan of one label's fact table, aliased to an
// entity's (possibly anonymous) bound name (spec §4.4.1).
type RangeTableEntry struct {
	Alias     string
	Graph     string
	Label     string // "" if the entity carries no label constraint
	IsEdge    bool
	IndexHint string // supplemental: printed by Format when set; the transform never sets it (SPEC_FULL "Index hints")
}

func (*RangeTableEntry) planNode() {}

// VLECall is the lateral set-returning function invocation a variable-
// length relationship lowers to (spec §4.4, "Variable-length edges"):
// `vle(start_id, end_id, edge_constraint, lo, hi, direction)`.
type VLECall struct {
	Alias      string
	StartAlias string
	EndAlias   string
	EdgeLabel  string   // "" if unconstrained
	Props      ast.ExprID // NoExpr if unconstrained
	Lo, Hi     int
	HiInfinite bool
	Direction  ast.Direction
}

func (*VLECall) planNode() {}

// Join combines Left and Right under On, per spec §4.4.2/§4.5. Kind
// JoinLateralLeft marks an OPTIONAL MATCH's lateral LEFT JOIN; On is NoExpr for a
// cross-join placeholder later filtered by a Filter node.
type Join struct {
	Left, Right Node
	On          ast.ExprID
	Kind        JoinKind
}

func (*Join) planNode() {}

// Filter applies Predicate (join predicates, property containment,
// explicit WHERE, edge-uniqueness — all conjoined by the caller into one
// ast.BoolTree) over Input.
type Filter struct {
	Input     Node
	Predicate ast.ExprID
}

func (*Filter) planNode() {}

// ProjectItem is one projected column.
type ProjectItem struct {
	Expr  ast.ExprID
	Alias string
}

// Projection implements MATCH/WITH/RETURN's output shape (spec §4.5).
type Projection struct {
	Input    Node
	Items    []ProjectItem
	Distinct bool
}

func (*Projection) planNode() {}

// Unwind implements `UNWIND expr AS v` as `age_unnest(expr) AS v` over
// Input (spec §4.5).
type Unwind struct {
	Input Node
	Expr  ast.ExprID
	As    string
}

func (*Unwind) planNode() {}

// SortItem is one ORDER BY term.
type SortItem struct {
	Expr ast.ExprID
	Desc bool
}

// Sort applies ORDER BY over Input.
type Sort struct {
	Input Node
	Items []SortItem
}

func (*Sort) planNode() {}

// LimitOffset applies SKIP/LIMIT over Input. Skip/Limit are NoExpr when
// absent.
type LimitOffset struct {
	Input      Node
	Skip, Limit ast.ExprID
}

func (*LimitOffset) planNode() {}

// SetOpKind distinguishes UNION from UNION ALL.
type SetOpKind int

const (
	SetOpUnion SetOpKind = iota
	SetOpUnionAll
)

// SetOp is the UNION Planner's internal node (spec §4.6). The transformer
// checks only that both branches project the same number of columns;
// column types are not unified. SetOp records which rows survive
// (distinct vs all).
type SetOp struct {
	Left, Right Node
	Kind        SetOpKind
}

func (*SetOp) planNode() {}

// Exists wraps Subquery as a correlated EXISTS test (spec §4.3
// "EXISTS { pattern }"): the expression transformer builds Subquery with
// the same pipeline used for MATCH and records this node in a side table
// keyed by the ExprID of the parsed ast.ExistsPattern, which stays in the
// expression tree unchanged. OuterRefs
// names the outer-scope bindings the subquery correlates against, so the
// host can decide how to decorrelate or push the join.
type Exists struct {
	Subquery  Node
	OuterRefs []string
}

func (*Exists) planNode() {}

// WriterCall is a CREATE/SET/REMOVE/DELETE/MERGE clause's opaque target-
// list entry (spec §4.5/§6): `_create_clause(directive)` and friends.
// FuncName is one of the four conventional names from spec §6; SET and
// REMOVE share `_set_clause`.
type WriterCall struct {
	Input     Node
	FuncName  string
	Directive any
}

func (*WriterCall) planNode() {}
