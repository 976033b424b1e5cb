package ast

// Clause is the marker interface implemented by every clause AST node
// (spec §3 "AST nodes"). The Clause Pipeline (C) dispatches on the
// concrete type with a type switch.
type Clause interface {
	clauseNode()
}

// OrderItem is one ORDER BY term.
type OrderItem struct {
	Expr       ExprID
	Descending bool
}

// ReturnItem is one projected expression, optionally aliased.
type ReturnItem struct {
	Expr  ExprID
	Alias string // "" if the item is a bare variable with no AS
}

// Match is `[OPTIONAL] MATCH pattern [WHERE where]`. A MATCH clause may
// carry more than one comma-separated path pattern; Patterns holds them
// all, and the edge-uniqueness predicate (§4.4.5) applies across every
// path in Patterns together.
type Match struct {
	Optional bool
	Patterns []Path
	Where    ExprID // NoExpr if absent
}

func (*Match) clauseNode() {}

// Create is a `CREATE pattern` clause. Like Match, one clause may create
// several comma-separated paths.
type Create struct {
	Patterns []Path
}

func (*Create) clauseNode() {}

// Merge is `MERGE path [ON CREATE SET ...] [ON MATCH SET ...]`.
type Merge struct {
	Path        Path
	OnCreateSet []SetItem
	OnMatchSet  []SetItem
}

func (*Merge) clauseNode() {}

// SetItem is one `variable.property = expr` or `variable.property += expr`
// target/value pair, or (when IsLabel is true) a `variable:Label` label
// addition.
type SetItem struct {
	Variable string
	Property string // "" when IsLabel
	IsLabel  bool
	Label    string // set when IsLabel
	Value    ExprID
	Append   bool // += shorthand (merges map properties rather than replacing)
}

// Set is `SET items...`; Remove reuses the same shape with IsRemove true
// and no Value/Append meaning (spec §3 "Set{items, is_remove}").
type Set struct {
	Items    []SetItem
	IsRemove bool
}

func (*Set) clauseNode() {}

// Delete is `[DETACH] DELETE exprs...`.
type Delete struct {
	Detach bool
	Exprs  []ExprID
}

func (*Delete) clauseNode() {}

// Unwind is `UNWIND expr AS name`.
type Unwind struct {
	Expr ExprID
	As   string
}

func (*Unwind) clauseNode() {}

// With is `WITH [DISTINCT] items [ORDER BY ...] [SKIP ..] [LIMIT ..] [WHERE ..]`.
// Every non-variable item must carry an alias (spec §4.5) — enforced by
// the binder/transformer, not the parser.
type With struct {
	Distinct bool
	Star     bool // WITH * (SPEC_FULL Open Question (b))
	Items    []ReturnItem
	OrderBy  []OrderItem
	Skip     ExprID
	Limit    ExprID
	Where    ExprID
}

func (*With) clauseNode() {}

// SetOp names the set-operation connecting two RETURN branches under UNION.
type SetOp int

const (
	SetOpNone SetOp = iota
	SetOpUnion
	SetOpUnionAll
)

// Return is `RETURN [DISTINCT] items [ORDER BY ..] [SKIP ..] [LIMIT ..]`,
// or (when Op != SetOpNone) the UNION of two Return trees (spec §3
// "Return{... op, all_or_distinct, larg, rarg}"). A UNION node's Larg/Rarg
// hold the head ClauseIDs of the two branches' clause chains (the later
// branch in Larg, the earlier in Rarg). The parser sets no items, ORDER BY,
// SKIP or LIMIT on a UNION node; a trailing ORDER BY/SKIP/LIMIT is parsed
// into the last branch's own RETURN.
type Return struct {
	Distinct bool
	Star     bool
	Items    []ReturnItem
	OrderBy  []OrderItem
	Skip     ExprID
	Limit    ExprID

	Op   SetOp
	Larg ClauseID
	Rarg ClauseID
}

func (*Return) clauseNode() {}

// SubPattern wraps a pattern used as a standalone clause context, e.g. the
// pattern inside EXISTS {...} when parsed as a clause list rather than
// inline in an expression (spec §3 "SubPattern{pattern}").
type SubPattern struct {
	Pattern Path
	Where   ExprID
}

func (*SubPattern) clauseNode() {}

// YieldItem is one `name [AS alias]` in a CALL ... YIELD list.
type YieldItem struct {
	Name  string
	Alias string
}

// CallYield is `CALL proc.name(args) [YIELD items]`. Parsed per grammar,
// always rejected by the transformer with ErrCallProcedures (Non-goal,
// spec §1/§7 Not-Supported) — kept as a first-class clause variant so the
// parser accepts the syntax instead of failing at the lexer.
type CallYield struct {
	Procedure string
	Args      []ExprID
	Yields    []YieldItem
}

func (*CallYield) clauseNode() {}

// ClauseLink is one node of the clause chain doubly-linked list (spec §3
// "Clause chain"). Prev/Next are NoClause at the ends. Every ClauseID's
// link lives in its owning Arena (Arena.Link), addressable independently
// of which Query variable built it — a UNION leaf's chain is reachable
// this way even though it is never appended to the top Query's own walk.
type ClauseLink struct {
	Prev ClauseID
	Self ClauseID
	Next ClauseID
}

// Query is the root of one parsed statement: its clause chain head/tail
// plus the arena that owns every node referenced by ExprID/ClauseID and
// every ClauseLink. Walk the chain with Arena.NextOf(Head) ... NoClause.
type Query struct {
	Arena  *Arena
	Head   ClauseID
	Tail   ClauseID
	Params map[string]struct{} // parameter-name set; the parser creates it empty and does not record the parameters a query references
}
