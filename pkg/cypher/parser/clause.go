package parser

import (
	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/token"
)

// parsePathList parses one or more comma-separated path patterns, shared
// by MATCH and CREATE (spec §4.1, "pattern" production).
func (p *Parser) parsePathList() ([]ast.Path, error) {
	var paths []ast.Path
	for {
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return paths, nil
}

// parseMatchBody parses the pattern list and optional WHERE that follow an
// already-consumed (OPTIONAL) MATCH keyword.
func (p *Parser) parseMatchBody(optional bool) (ast.Clause, error) {
	patterns, err := p.parsePathList()
	if err != nil {
		return nil, err
	}
	where := ast.ExprID(ast.NoExpr)
	if p.atKeyword("WHERE") {
		p.advance()
		w, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		where = w
	}
	return &ast.Match{Optional: optional, Patterns: patterns, Where: where}, nil
}

func (p *Parser) parseUnwind() (ast.Clause, error) {
	if err := p.expectKeyword("UNWIND"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	name, err := p.identOrSafeKeyword()
	if err != nil {
		return nil, err
	}
	return &ast.Unwind{Expr: expr, As: name}, nil
}

// parseCallYield parses `CALL proc.name(args) [YIELD items]`. The
// transformer unconditionally rejects this clause with ErrCallProcedures
// (spec §1/§7 Non-goal); it is still parsed so the grammar accepts the
// syntax instead of failing at the lexer.
func (p *Parser) parseCallYield() (ast.Clause, error) {
	if err := p.expectKeyword("CALL"); err != nil {
		return nil, err
	}
	name, err := p.identOrSafeKeyword()
	if err != nil {
		return nil, err
	}
	for p.at(token.Dot) {
		p.advance()
		part, err := p.identOrSafeKeyword()
		if err != nil {
			return nil, err
		}
		name = name + "." + part
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	var yields []ast.YieldItem
	if p.atKeyword("YIELD") {
		p.advance()
		for {
			n, err := p.identOrSafeKeyword()
			if err != nil {
				return nil, err
			}
			alias := ""
			if p.atKeyword("AS") {
				p.advance()
				alias, err = p.identOrSafeKeyword()
				if err != nil {
					return nil, err
				}
			}
			yields = append(yields, ast.YieldItem{Name: n, Alias: alias})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	return &ast.CallYield{Procedure: name, Args: args, Yields: yields}, nil
}

func (p *Parser) parseCreate() (ast.Clause, error) {
	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}
	patterns, err := p.parsePathList()
	if err != nil {
		return nil, err
	}
	return &ast.Create{Patterns: patterns}, nil
}

func (p *Parser) parseMerge() (ast.Clause, error) {
	if err := p.expectKeyword("MERGE"); err != nil {
		return nil, err
	}
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	m := &ast.Merge{Path: path}
	for p.atKeyword("ON") {
		p.advance()
		switch {
		case p.atKeyword("CREATE"):
			p.advance()
			if err := p.expectKeyword("SET"); err != nil {
				return nil, err
			}
			items, err := p.parseSetItemList()
			if err != nil {
				return nil, err
			}
			m.OnCreateSet = items
		case p.atKeyword("MATCH"):
			p.advance()
			if err := p.expectKeyword("SET"); err != nil {
				return nil, err
			}
			items, err := p.parseSetItemList()
			if err != nil {
				return nil, err
			}
			m.OnMatchSet = items
		default:
			return nil, p.unexpected("CREATE or MATCH")
		}
	}
	return m, nil
}

func (p *Parser) parseSet() (ast.Clause, error) {
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	items, err := p.parseSetItemList()
	if err != nil {
		return nil, err
	}
	return &ast.Set{Items: items, IsRemove: false}, nil
}

func (p *Parser) parseSetItemList() ([]ast.SetItem, error) {
	var items []ast.SetItem
	for {
		item, err := p.parseSetItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

// parseSetItem implements spec §4.1's SET item production:
// `var:Label` (label add), or `var.prop = expr` / `var.prop += expr`
// (property replace/merge).
func (p *Parser) parseSetItem() (ast.SetItem, error) {
	name, err := p.identOrSafeKeyword()
	if err != nil {
		return ast.SetItem{}, err
	}
	if p.at(token.Colon) {
		p.advance()
		label, err := p.identOrSafeKeyword()
		if err != nil {
			return ast.SetItem{}, err
		}
		return ast.SetItem{Variable: name, IsLabel: true, Label: label, Value: ast.NoExpr}, nil
	}
	if _, err := p.expect(token.Dot); err != nil {
		return ast.SetItem{}, err
	}
	prop, err := p.identOrSafeKeyword()
	if err != nil {
		return ast.SetItem{}, err
	}
	append := false
	if p.at(token.PlusEq) {
		p.advance()
		append = true
	} else if _, err := p.expect(token.Eq); err != nil {
		return ast.SetItem{}, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return ast.SetItem{}, err
	}
	return ast.SetItem{Variable: name, Property: prop, Value: val, Append: append}, nil
}

func (p *Parser) parseRemove() (ast.Clause, error) {
	if err := p.expectKeyword("REMOVE"); err != nil {
		return nil, err
	}
	var items []ast.SetItem
	for {
		item, err := p.parseRemoveItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Set{Items: items, IsRemove: true}, nil
}

func (p *Parser) parseRemoveItem() (ast.SetItem, error) {
	name, err := p.identOrSafeKeyword()
	if err != nil {
		return ast.SetItem{}, err
	}
	if p.at(token.Colon) {
		p.advance()
		label, err := p.identOrSafeKeyword()
		if err != nil {
			return ast.SetItem{}, err
		}
		return ast.SetItem{Variable: name, IsLabel: true, Label: label, Value: ast.NoExpr}, nil
	}
	if _, err := p.expect(token.Dot); err != nil {
		return ast.SetItem{}, err
	}
	prop, err := p.identOrSafeKeyword()
	if err != nil {
		return ast.SetItem{}, err
	}
	return ast.SetItem{Variable: name, Property: prop, Value: ast.NoExpr}, nil
}

func (p *Parser) parseDelete() (ast.Clause, error) {
	detach := false
	if p.atKeyword("DETACH") {
		p.advance()
		detach = true
	}
	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	var exprs []ast.ExprID
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Delete{Detach: detach, Exprs: exprs}, nil
}

// parseReturnItemList parses a comma-separated list of projection items,
// shared by WITH and RETURN.
func (p *Parser) parseReturnItemList() ([]ast.ReturnItem, error) {
	var items []ast.ReturnItem
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		alias := ""
		if p.atKeyword("AS") {
			p.advance()
			alias, err = p.identOrSafeKeyword()
			if err != nil {
				return nil, err
			}
		}
		items = append(items, ast.ReturnItem{Expr: expr, Alias: alias})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseOrderByClause() ([]ast.OrderItem, error) {
	if !p.atKeyword("ORDER") {
		return nil, nil
	}
	p.advance()
	if err := p.expectKeyword("BY"); err != nil {
		return nil, err
	}
	var items []ast.OrderItem
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		desc := false
		switch {
		case p.atKeyword("ASC"), p.atKeyword("ASCENDING"):
			p.advance()
		case p.atKeyword("DESC"), p.atKeyword("DESCENDING"):
			p.advance()
			desc = true
		}
		items = append(items, ast.OrderItem{Expr: e, Descending: desc})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseSkipClause() (ast.ExprID, error) {
	if !p.atKeyword("SKIP") {
		return ast.NoExpr, nil
	}
	p.advance()
	return p.parseExpr()
}

func (p *Parser) parseLimitClause() (ast.ExprID, error) {
	if !p.atKeyword("LIMIT") {
		return ast.NoExpr, nil
	}
	p.advance()
	return p.parseExpr()
}

// parseWith implements:
//
//	WITH [DISTINCT] (* [, items] | items) [ORDER BY ..] [SKIP ..] [LIMIT ..] [WHERE ..]
//
// `WITH *` (SPEC_FULL.md Open Question (b)) carries every currently bound
// variable forward unchanged; it may be followed by extra computed items.
func (p *Parser) parseWith() (ast.Clause, error) {
	if err := p.expectKeyword("WITH"); err != nil {
		return nil, err
	}
	w := &ast.With{Skip: ast.NoExpr, Limit: ast.NoExpr, Where: ast.NoExpr}
	if p.atKeyword("DISTINCT") {
		p.advance()
		w.Distinct = true
	}
	if p.at(token.Star) {
		p.advance()
		w.Star = true
		if p.at(token.Comma) {
			p.advance()
			items, err := p.parseReturnItemList()
			if err != nil {
				return nil, err
			}
			w.Items = items
		}
	} else {
		items, err := p.parseReturnItemList()
		if err != nil {
			return nil, err
		}
		w.Items = items
	}

	orderBy, err := p.parseOrderByClause()
	if err != nil {
		return nil, err
	}
	w.OrderBy = orderBy
	if w.Skip, err = p.parseSkipClause(); err != nil {
		return nil, err
	}
	if w.Limit, err = p.parseLimitClause(); err != nil {
		return nil, err
	}
	if p.atKeyword("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		w.Where = where
	}
	return w, nil
}

// parseReturn implements:
//
//	RETURN [DISTINCT] (* [, items] | items) [ORDER BY ..] [SKIP ..] [LIMIT ..]
func (p *Parser) parseReturn() (ast.Clause, error) {
	if err := p.expectKeyword("RETURN"); err != nil {
		return nil, err
	}
	r := &ast.Return{Skip: ast.NoExpr, Limit: ast.NoExpr}
	if p.atKeyword("DISTINCT") {
		p.advance()
		r.Distinct = true
	}
	if p.at(token.Star) {
		p.advance()
		r.Star = true
		if p.at(token.Comma) {
			p.advance()
			items, err := p.parseReturnItemList()
			if err != nil {
				return nil, err
			}
			r.Items = items
		}
	} else {
		items, err := p.parseReturnItemList()
		if err != nil {
			return nil, err
		}
		r.Items = items
	}

	orderBy, err := p.parseOrderByClause()
	if err != nil {
		return nil, err
	}
	r.OrderBy = orderBy
	var err2 error
	if r.Skip, err2 = p.parseSkipClause(); err2 != nil {
		return nil, err2
	}
	if r.Limit, err2 = p.parseLimitClause(); err2 != nil {
		return nil, err2
	}
	return r, nil
}
