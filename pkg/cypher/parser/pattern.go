package parser

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/token"
)

// parsePath implements the path-pattern grammar of spec §4.1/§4.4:
//
//	path          := [variable '='] node_pattern (rel_pattern node_pattern)*
//	node_pattern  := '(' [variable] [':' label (':' label)*] ['{' props '}'] ')'
//	rel_pattern   := ('-' | '<-') ['[' [variable] [':' type ('|' type)*]
//	                 [varlen] ['{' props '}'] ']'] ('-' | '->')
//	varlen        := '*' [int] ['..' [int]]
func (p *Parser) parsePath() (ast.Path, error) {
	var path ast.Path

	if (p.at(token.Ident) || (p.at(token.Keyword) && token.IsSafeKeyword(p.cur().Lexeme))) && p.peekN(1).Kind == token.Eq {
		name, err := p.identOrSafeKeyword()
		if err != nil {
			return path, err
		}
		p.advance() // '='
		path.VarName = name
	}

	node, err := p.parseNodePattern()
	if err != nil {
		return path, err
	}
	path.Nodes = append(path.Nodes, node)

	for p.at(token.Dash) || p.at(token.DashArrow) {
		rel, err := p.parseRelPattern()
		if err != nil {
			return path, err
		}
		next, err := p.parseNodePattern()
		if err != nil {
			return path, err
		}
		path.Rels = append(path.Rels, rel)
		path.Nodes = append(path.Nodes, next)
	}

	return path, nil
}

func (p *Parser) parseNodePattern() (ast.NodePattern, error) {
	var n ast.NodePattern
	if _, err := p.expect(token.LParen); err != nil {
		return n, err
	}
	if p.canStartVariable() {
		name, err := p.identOrSafeKeyword()
		if err != nil {
			return n, err
		}
		n.Name = name
	}
	if p.at(token.Colon) {
		p.advance()
		label, err := p.identOrSafeKeyword()
		if err != nil {
			return n, err
		}
		n.Label = label
		// Additional `:Label2` conjunctions are accepted syntactically; the
		// single-Label AST shape keeps only the first (spec §3 NodePattern
		// carries one Label, not a set).
		for p.at(token.Colon) {
			p.advance()
			if _, err := p.identOrSafeKeyword(); err != nil {
				return n, err
			}
		}
	}
	if p.at(token.LBrace) {
		props, err := p.parseMapLiteral()
		if err != nil {
			return n, err
		}
		n.Props = props
	} else {
		n.Props = ast.NoExpr
	}
	if _, err := p.expect(token.RParen); err != nil {
		return n, err
	}
	return n, nil
}

// canStartVariable reports whether the current token may begin a pattern
// variable name, as opposed to immediately starting a label, property map,
// or the pattern's closing delimiter.
func (p *Parser) canStartVariable() bool {
	if p.at(token.Ident) {
		return true
	}
	if p.at(token.Keyword) && token.IsSafeKeyword(p.cur().Lexeme) {
		return true
	}
	return false
}

func (p *Parser) parseRelPattern() (ast.RelPattern, error) {
	var r ast.RelPattern
	leftArrow := false
	if p.at(token.DashArrow) {
		p.advance()
		leftArrow = true
	} else if _, err := p.expect(token.Dash); err != nil {
		return r, err
	}

	if p.at(token.LBracket) {
		p.advance()
		if p.canStartVariable() {
			name, err := p.identOrSafeKeyword()
			if err != nil {
				return r, err
			}
			r.Name = name
		}
		if p.at(token.Colon) {
			p.advance()
			label, err := p.identOrSafeKeyword()
			if err != nil {
				return r, err
			}
			r.Label = label
			// `:TYPE1|TYPE2` alternation is accepted but, like node labels,
			// only the first type is retained in the single-Label AST shape.
			for p.at(token.Pipe) {
				p.advance()
				if _, err := p.identOrSafeKeyword(); err != nil {
					return r, err
				}
			}
		}
		if p.at(token.Star) {
			vl, err := p.parseVarLen()
			if err != nil {
				return r, err
			}
			r.VarLen = &vl
		}
		if p.at(token.LBrace) {
			props, err := p.parseMapLiteral()
			if err != nil {
				return r, err
			}
			r.Props = props
		} else {
			r.Props = ast.NoExpr
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return r, err
		}
	} else {
		r.Props = ast.NoExpr
	}

	rightArrow := false
	if p.at(token.Arrow) {
		p.advance()
		rightArrow = true
	} else if _, err := p.expect(token.Dash); err != nil {
		return r, err
	}

	switch {
	case leftArrow && !rightArrow:
		r.Direction = ast.DirIn
	case rightArrow && !leftArrow:
		r.Direction = ast.DirOut
	default:
		r.Direction = ast.DirEither
	}
	return r, nil
}

// parseVarLen implements `*[lo][..[hi]]`, defaulting the lower bound to 1
// and the upper bound to unbounded when elided (spec §4.4.4).
func (p *Parser) parseVarLen() (ast.VarLen, error) {
	if _, err := p.expect(token.Star); err != nil {
		return ast.VarLen{}, err
	}
	vl := ast.VarLen{Lo: 1, Hi: -1}
	if p.at(token.Integer) {
		n, err := parseIntLexeme(p.cur().Lexeme)
		if err != nil {
			return vl, p.unexpected("integer")
		}
		p.advance()
		vl.Lo = int(n)
		vl.Hi = int(n)
	}
	if p.at(token.DotDot) {
		p.advance()
		vl.Hi = -1
		if p.at(token.Integer) {
			n, err := parseIntLexeme(p.cur().Lexeme)
			if err != nil {
				return vl, p.unexpected("integer")
			}
			p.advance()
			vl.Hi = int(n)
		}
	}
	return vl, nil
}
