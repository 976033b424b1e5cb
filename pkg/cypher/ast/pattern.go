package ast

// Direction is the arrow direction of a relationship pattern.
type Direction int

const (
	DirOut    Direction = iota // -[e]->
	DirIn                      // <-[e]-
	DirEither                  // -[e]-
)

// VarLen is present on a RelPattern iff it is a variable-length edge
// (spec §3 "Relationship pattern"). Hi == -1 means unbounded (∞).
type VarLen struct {
	Lo int
	Hi int // -1 == infinite
}

// HiInfinite reports whether the upper bound is unbounded.
func (v VarLen) HiInfinite() bool { return v.Hi < 0 }

// NodePattern is `(name? :Label? {props}?)`. Name == "" means anonymous;
// the binder assigns it a deterministic "_default_<n>" name (spec §4.2).
type NodePattern struct {
	Name  string
	Label string // "" if no label given; "" never distinguishes from unset elsewhere
	Props ExprID // NoExpr if absent; otherwise a MapLiteral
}

// RelPattern is `[name? :Label? (*range)? {props}?]` plus the direction
// carried by the adjacent dashes/arrows.
type RelPattern struct {
	Name      string
	Label     string
	Direction Direction
	Props     ExprID // NoExpr if absent
	VarLen    *VarLen // nil unless this is a variable-length edge
}

// Path is an alternating sequence of nodes and relationships:
// Nodes[0] Rels[0] Nodes[1] Rels[1] Nodes[2] ...
// Invariant: len(Nodes) == len(Rels)+1 (spec §3 "len(path) ∈ {1,3,5,...}"
// expressed as node/relationship counts instead of a flat slice length).
type Path struct {
	Nodes   []NodePattern
	Rels    []RelPattern
	VarName string // "" if the path itself is not bound to a variable
}

// NumEdges returns the number of relationships in the path.
func (p Path) NumEdges() int { return len(p.Rels) }
