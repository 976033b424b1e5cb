// Package vle implements the Variable-Length Edge Traversal Engine (spec
// §4.7, component V): a suspendable depth-first search over the in-memory
// adjacency index built by pkg/cypher/catalog, emitting one path per call
// to Next rather than materializing the whole result set up front. This
// mirrors the source's set-returning-function shape while staying a plain
// Go iterator (Design Notes §9, "Graph traversal as an iterator") — no
// goroutine, no channel, just explicit stacks stepped by Next().
package vle

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/catalog"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
)

// Match is the per-edge filter a VLE relationship may carry: a label id
// (0 means unconstrained) and a property-containment template (nil means
// unconstrained). The template is checked key by key: every key must be
// present on the edge with a value equal under Go's ==, which is good
// enough for the in-memory catalog fixtures this module tests against.
type Match struct {
	LabelID int64 // 0 means unconstrained
	Props   map[string]any
}

func (m Match) matches(e catalog.AdjacencyEntry) bool {
	if m.LabelID != 0 && e.LabelID != m.LabelID {
		return false
	}
	for k, v := range m.Props {
		got, ok := e.Properties[k]
		if !ok || got != v {
			return false
		}
	}
	return true
}

// pathFrame is one entry pushed to edge_stack: the adjacency entry plus
// which vertex it was discovered from, needed to compute next_vertex under
// the undirected (DirEither) case without a second catalog lookup.
type pathFrame struct {
	entry    catalog.AdjacencyEntry
	fromID   int64
	list     byte // 'o', 'i', or 's' — which adjacency list this came from, for determinism only
}

// Engine is one call site's traversal state (spec §4.7 "State"). It must
// not be shared across concurrent call sites; construct a fresh Engine per
// VLE function invocation.
type Engine struct {
	cat *catalog.Catalog

	startID int64
	endID   int64
	hasEnd  bool

	lo, hi     int
	hiInf      bool
	direction  ast.Direction
	match      Match

	edgeStack   []pathFrame
	vertexStack []int64 // parent vertices, used only for DirEither backtracking
	pathStack   []pathFrame

	visited map[int64]bool

	started   bool
	done      bool
	cancelled bool
}

// New constructs an Engine for one vsid→veid traversal. endID/hasEnd lets
// the caller omit the end vertex (an open-ended VLE expansion); when
// hasEnd is false every path whose length lies within [lo,hi] is yielded,
// matching a relationship pattern whose far node is unbound.
func New(cat *catalog.Catalog, startID int64, endID int64, hasEnd bool, lo, hi int, hiInfinite bool, direction ast.Direction, match Match) (*Engine, error) {
	if !hiInfinite && lo > hi {
		return nil, cyphererr.ErrInvalidVLERange.New(lo, hi)
	}
	return &Engine{
		cat: cat, startID: startID, endID: endID, hasEnd: hasEnd,
		lo: lo, hi: hi, hiInf: hiInfinite, direction: direction, match: match,
		visited: map[int64]bool{},
	}, nil
}

// Cancel releases the Engine's hash table and stacks, per spec §5
// "Cancellation": the next Next() call after Cancel observes done.
func (e *Engine) Cancel() {
	e.cancelled = true
	e.edgeStack = nil
	e.vertexStack = nil
	e.pathStack = nil
	e.visited = nil
}

// adjacencyFor returns the candidate out-edges from vertex v honoring
// Direction, in the deterministic out-then-in-then-self order (spec §5).
func (e *Engine) adjacencyFor(v int64) []pathFrame {
	var out []pathFrame
	switch e.direction {
	case ast.DirOut:
		for _, a := range e.cat.OutEdges(v) {
			if e.match.matches(a) {
				out = append(out, pathFrame{entry: a, fromID: v, list: 'o'})
			}
		}
	case ast.DirIn:
		for _, a := range e.cat.InEdges(v) {
			if e.match.matches(a) {
				out = append(out, pathFrame{entry: a, fromID: v, list: 'i'})
			}
		}
	default: // DirEither
		for _, a := range e.cat.OutEdges(v) {
			if e.match.matches(a) {
				out = append(out, pathFrame{entry: a, fromID: v, list: 'o'})
			}
		}
		for _, a := range e.cat.InEdges(v) {
			if e.match.matches(a) {
				out = append(out, pathFrame{entry: a, fromID: v, list: 'i'})
			}
		}
	}
	for _, a := range e.cat.SelfEdges(v) {
		if e.match.matches(a) {
			out = append(out, pathFrame{entry: a, fromID: v, list: 's'})
		}
	}
	return out
}

func (e *Engine) init() {
	e.pushAdjacency(e.startID)
	e.started = true
}

// pushAdjacency pushes v's not-yet-visited candidate edges onto edgeStack
// in reverse, so the first candidate in adjacencyFor's order is explored
// first.
func (e *Engine) pushAdjacency(v int64) {
	cands := e.adjacencyFor(v)
	for i := len(cands) - 1; i >= 0; i-- {
		if !e.visited[cands[i].entry.EdgeID] {
			e.edgeStack = append(e.edgeStack, cands[i])
		}
	}
}

// nextVertex computes the vertex reached by following frame from the
// current path position (spec §4.7 step 2.ii). catalog.AdjacencyEntry
// already stores OtherID as "the vertex at the far end of the edge" for
// whichever list (out/in/self) it was built from, so no direction switch
// is needed here.
func nextVertex(frame pathFrame) int64 {
	return frame.entry.OtherID
}

// Path is one yielded variable-length result: the ordered edge ids walked
// and the terminal vertex reached.
type Path struct {
	EdgeIDs []int64
	EndID   int64
}

// Next advances the DFS until it can yield a Path, or reports done. It may
// be called repeatedly on the same Engine; state persists between calls
// until exhaustion or Cancel (spec §4.7 "suspendable").
func (e *Engine) Next() (Path, bool) {
	if e.cancelled {
		return Path{}, false
	}
	if !e.started {
		e.init()
	}
	for len(e.edgeStack) > 0 {
		top := e.edgeStack[len(e.edgeStack)-1]
		key := top.entry.EdgeID

		if e.visited[key] {
			if len(e.pathStack) > 0 && e.pathStack[len(e.pathStack)-1].entry.EdgeID == key {
				// Backtracking: pop from the path, mark unvisited, pop the
				// edge stack, and (DirEither) pop the parent vertex too.
				e.pathStack = e.pathStack[:len(e.pathStack)-1]
				e.visited[key] = false
				e.edgeStack = e.edgeStack[:len(e.edgeStack)-1]
				if e.direction == ast.DirEither && len(e.vertexStack) > 0 {
					e.vertexStack = e.vertexStack[:len(e.vertexStack)-1]
				}
			} else {
				// A loop rediscovery: drop it from the edge stack only.
				e.edgeStack = e.edgeStack[:len(e.edgeStack)-1]
			}
			continue
		}

		e.visited[key] = true
		e.pathStack = append(e.pathStack, top)
		parent := top.fromID
		v := nextVertex(top)

		yieldable := len(e.pathStack) >= e.lo && (e.hiInf || len(e.pathStack) <= e.hi)
		if yieldable && (!e.hasEnd || v == e.endID) {
			path := e.snapshotPath(v)
			if len(e.pathStack) < e.hi || e.hiInf {
				if e.direction == ast.DirEither {
					e.vertexStack = append(e.vertexStack, parent)
				}
				e.pushAdjacency(v)
			}
			return path, true
		}

		if len(e.pathStack) < e.hi || e.hiInf {
			if e.direction == ast.DirEither {
				e.vertexStack = append(e.vertexStack, parent)
			}
			e.pushAdjacency(v)
		}
	}
	e.done = true
	return Path{}, false
}

// snapshotPath materializes the current pathStack as a yieldable Path
// (spec §4.7 step 2.i.II "yield the current path"). No edge id repeats in
// it because visited guarantees every pathStack entry is unique.
func (e *Engine) snapshotPath(endID int64) Path {
	ids := make([]int64, len(e.pathStack))
	for i, f := range e.pathStack {
		ids[i] = f.entry.EdgeID
	}
	return Path{EdgeIDs: ids, EndID: endID}
}

// Done reports whether the engine has exhausted every candidate path.
func (e *Engine) Done() bool { return e.done }

// All drains the engine into a slice, for tests and the CLI's `vle`
// subcommand where suspendability isn't needed. Not used by the
// transform pass itself, which only ever emits the VLECall plan node and
// leaves execution to the host (spec §1).
func All(e *Engine) []Path {
	var out []Path
	for {
		p, ok := e.Next()
		if !ok {
			break
		}
		out = append(out, p)
	}
	return out
}
