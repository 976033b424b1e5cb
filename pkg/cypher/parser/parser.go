// Package parser builds an ast.Query from a token stream, per spec §4.1
// (component P). The grammar is a hand-rolled recursive-descent /
// precedence-climbing parser — not a declarative grammar-tag library like
// participle — because the spec requires stateful rewrites mid-parse
// (chained-comparison accumulation, AND/OR flattening, unary-minus literal
// folding) that are awkward to express as a static grammar (SPEC_FULL.md
// Domain Stack).
package parser

import (
	"strconv"
	"strings"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
	"github.com/cyphergraph/cyphercore/pkg/cypher/lexer"
	"github.com/cyphergraph/cyphercore/pkg/cypher/token"
)

// Parser holds the token stream and the arena the resulting AST is built
// into.
type Parser struct {
	toks  []token.Token
	pos   int
	arena *ast.Arena
}

// Parse tokenizes and parses src into a Query. The Query's Arena owns
// every node reachable from it.
func Parse(src string) (*ast.Query, error) {
	toks, err := lexer.All(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks, arena: ast.NewArena()}
	return p.parseCypherStmt()
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atKeyword(kw string) bool {
	return p.cur().Kind == token.Keyword && p.cur().Lexeme == kw
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, p.unexpected(k.String())
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return p.unexpected(kw)
	}
	p.advance()
	return nil
}

func (p *Parser) unexpected(wanted string) error {
	t := p.cur()
	return cyphererr.WithSpan(
		cyphererr.ErrUnexpectedToken.New(t.String(), "expected "+wanted),
		cyphererr.Span{Start: t.Span.Start, End: t.Span.End})
}

// identOrSafeKeyword consumes an identifier-position token: a plain Ident,
// or a Keyword token that is in the safe-keyword set (spec §4.1 keyword
// classification — safe keywords double as identifiers).
func (p *Parser) identOrSafeKeyword() (string, error) {
	t := p.cur()
	if t.Kind == token.Ident {
		p.advance()
		return t.Lexeme, nil
	}
	if t.Kind == token.Keyword && token.IsSafeKeyword(t.Lexeme) {
		p.advance()
		return t.Lexeme, nil
	}
	return "", p.unexpected("identifier")
}

// parseCypherStmt implements:
//
//	cypher_stmt := single_query (UNION [ALL|DISTINCT] cypher_stmt)*
func (p *Parser) parseCypherStmt() (*ast.Query, error) {
	q := &ast.Query{Arena: p.arena, Head: ast.NoClause, Tail: ast.NoClause, Params: map[string]struct{}{}}
	if err := p.parseSingleQuery(q); err != nil {
		return nil, err
	}

	for p.atKeyword("UNION") {
		p.advance()
		op := ast.SetOpUnion
		if p.atKeyword("ALL") {
			p.advance()
			op = ast.SetOpUnionAll
		} else if p.atKeyword("DISTINCT") {
			p.advance()
		}

		rightHead := q.Head
		*q = ast.Query{Arena: p.arena, Head: ast.NoClause, Tail: ast.NoClause, Params: q.Params}
		if err := p.parseSingleQuery(q); err != nil {
			return nil, err
		}
		leftHead := q.Head

		union := p.arena.NewClause(&ast.Return{Op: op, Larg: leftHead, Rarg: rightHead, Skip: ast.NoExpr, Limit: ast.NoExpr})
		q.Head = union
		q.Tail = union
	}

	if !p.at(token.EOF) {
		return nil, p.unexpected("end of query")
	}
	return q, nil
}

func (p *Parser) appendClause(q *ast.Query, c ast.Clause) {
	id := p.arena.NewClause(c)
	if q.Tail != ast.NoClause {
		p.arena.Link(q.Tail).Next = id
		p.arena.Link(id).Prev = q.Tail
	}
	if q.Head == ast.NoClause {
		q.Head = id
	}
	q.Tail = id
}

// parseSingleQuery implements:
//
//	single_query := (reading_clause* updating_clause* WITH)*
//	                reading_clause* (updating_clause+ | updating_clause* RETURN)
func (p *Parser) parseSingleQuery(q *ast.Query) error {
	for {
		sawAny := false
		for p.isReadingClauseStart() {
			c, err := p.parseReadingClause()
			if err != nil {
				return err
			}
			p.appendClause(q, c)
			sawAny = true
		}
		for p.isUpdatingClauseStart() {
			c, err := p.parseUpdatingClause()
			if err != nil {
				return err
			}
			p.appendClause(q, c)
			sawAny = true
		}
		if p.atKeyword("WITH") {
			c, err := p.parseWith()
			if err != nil {
				return err
			}
			p.appendClause(q, c)
			sawAny = true
			continue
		}
		if !sawAny {
			break
		}
		if p.isReadingClauseStart() || p.isUpdatingClauseStart() {
			continue
		}
		break
	}

	if p.atKeyword("RETURN") {
		c, err := p.parseReturn()
		if err != nil {
			return err
		}
		p.appendClause(q, c)
	}
	return nil
}

func (p *Parser) isReadingClauseStart() bool {
	return p.atKeyword("MATCH") || p.atKeyword("OPTIONAL") || p.atKeyword("UNWIND") || p.atKeyword("CALL")
}

func (p *Parser) isUpdatingClauseStart() bool {
	return p.atKeyword("CREATE") || p.atKeyword("MERGE") || p.atKeyword("SET") ||
		p.atKeyword("REMOVE") || p.atKeyword("DELETE") || p.atKeyword("DETACH")
}

func (p *Parser) parseReadingClause() (ast.Clause, error) {
	switch {
	case p.atKeyword("OPTIONAL"):
		p.advance()
		if err := p.expectKeyword("MATCH"); err != nil {
			return nil, err
		}
		return p.parseMatchBody(true)
	case p.atKeyword("MATCH"):
		p.advance()
		return p.parseMatchBody(false)
	case p.atKeyword("UNWIND"):
		return p.parseUnwind()
	case p.atKeyword("CALL"):
		return p.parseCallYield()
	default:
		return nil, p.unexpected("reading clause")
	}
}

func (p *Parser) parseUpdatingClause() (ast.Clause, error) {
	switch {
	case p.atKeyword("CREATE"):
		return p.parseCreate()
	case p.atKeyword("MERGE"):
		return p.parseMerge()
	case p.atKeyword("SET"):
		return p.parseSet()
	case p.atKeyword("REMOVE"):
		return p.parseRemove()
	case p.atKeyword("DELETE"), p.atKeyword("DETACH"):
		return p.parseDelete()
	default:
		return nil, p.unexpected("updating clause")
	}
}

// parseIntLexeme parses a base-10 integer literal token already consumed
// into lexeme form (used by variable-length range quantifiers).
func parseIntLexeme(lexeme string) (int64, error) {
	return strconv.ParseInt(lexeme, 10, 64)
}

func unquoteLower(s string) string { return strings.ToLower(s) }
