package parser

import (
	"strconv"

	"github.com/cyphergraph/cyphercore/pkg/cypher/ast"
	"github.com/cyphergraph/cyphercore/pkg/cypher/token"
)

// recognizedCastTypes are the target type names a typecast `x :: T` may
// name (spec §4.3).
var recognizedCastTypes = map[string]bool{
	"integer": true, "float": true, "numeric": true, "string": true,
	"boolean": true, "vertex": true, "edge": true, "traversal": true,
	"variable_edge": true,
}

// parseExpr is the entry point for expression parsing, at the lowest
// precedence (OR), per spec §4.1's precedence table.
func (p *Parser) parseExpr() (ast.ExprID, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.ExprID, error) {
	left, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	if !p.atKeyword("OR") {
		return left, nil
	}
	operands := appendFlattened(p.arena, ast.OpOr, nil, left)
	for p.atKeyword("OR") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		operands = appendFlattened(p.arena, ast.OpOr, operands, right)
	}
	return p.arena.NewExpr(&ast.BoolTree{Op: ast.OpOr, Operands: operands}), nil
}

func (p *Parser) parseAnd() (ast.ExprID, error) {
	left, err := p.parseXor()
	if err != nil {
		return 0, err
	}
	if !p.atKeyword("AND") {
		return left, nil
	}
	operands := appendFlattened(p.arena, ast.OpAnd, nil, left)
	for p.atKeyword("AND") {
		p.advance()
		right, err := p.parseXor()
		if err != nil {
			return 0, err
		}
		operands = appendFlattened(p.arena, ast.OpAnd, operands, right)
	}
	return p.arena.NewExpr(&ast.BoolTree{Op: ast.OpAnd, Operands: operands}), nil
}

// appendFlattened implements spec §4.1's "Boolean flattening": if the
// operand being appended (the chain's first operand or any later `right`)
// is already a tree of the same connective, its operands are spliced in
// rather than nested one level deeper, so that the AND (OR) tree built by
// parseAnd (parseOr) never has an AND (OR) child (spec §8).
func appendFlattened(a *ast.Arena, op ast.BinaryOp, operands []ast.ExprID, right ast.ExprID) []ast.ExprID {
	if bt, ok := a.Expr(right).(*ast.BoolTree); ok && bt.Op == op {
		return append(operands, bt.Operands...)
	}
	return append(operands, right)
}

// parseXor desugars `A XOR B` to `(A OR B) AND NOT (A AND B)` at parse
// time (spec §4.1).
func (p *Parser) parseXor() (ast.ExprID, error) {
	left, err := p.parseNot()
	if err != nil {
		return 0, err
	}
	for p.atKeyword("XOR") {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return 0, err
		}
		orPart := p.arena.NewExpr(&ast.BoolTree{Op: ast.OpOr, Operands: []ast.ExprID{left, right}})
		andPart := p.arena.NewExpr(&ast.BoolTree{Op: ast.OpAnd, Operands: []ast.ExprID{left, right}})
		notAndPart := p.arena.NewExpr(&ast.Not{Operand: andPart})
		left = p.arena.NewExpr(&ast.BoolTree{Op: ast.OpAnd, Operands: []ast.ExprID{orPart, notAndPart}})
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.ExprID, error) {
	if p.atKeyword("NOT") {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return 0, err
		}
		return p.arena.NewExpr(&ast.Not{Operand: operand}), nil
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.Eq: ast.OpEq, token.Neq: ast.OpNeq, token.Lt: ast.OpLt,
	token.Gt: ast.OpGt, token.Lte: ast.OpLte, token.Gte: ast.OpGte,
}

// parseComparison implements spec §4.1's chained-comparison rule: the
// terms and operators of `a ⊙1 b ⊙2 c ...` are accumulated as they are
// parsed into one ChainCmp rather than rewriting an already built binary
// node (Design Notes §9, "Chained comparisons"); a single comparison is
// built as a plain Binary node.
func (p *Parser) parseComparison() (ast.ExprID, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	if _, ok := comparisonOps[p.cur().Kind]; !ok {
		return left, nil
	}

	terms := []ast.ExprID{left}
	var ops []ast.BinaryOp
	for {
		op, ok := comparisonOps[p.cur().Kind]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		ops = append(ops, op)
		terms = append(terms, right)
	}
	if len(ops) == 1 {
		return p.arena.NewExpr(&ast.Binary{Op: ops[0], Left: terms[0], Right: terms[1]}), nil
	}
	return p.arena.NewExpr(&ast.ChainCmp{Terms: terms, Ops: ops}), nil
}

func (p *Parser) parseAdditive() (ast.ExprID, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for p.at(token.Plus) || p.at(token.Dash) {
		op := ast.OpAdd
		if p.at(token.Dash) {
			op = ast.OpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return 0, err
		}
		left = p.arena.NewExpr(&ast.Binary{Op: op, Left: left, Right: right})
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.ExprID, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case token.Star:
			op = ast.OpMul
		case token.Slash:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		left = p.arena.NewExpr(&ast.Binary{Op: op, Left: left, Right: right})
	}
	return left, nil
}

func (p *Parser) parsePower() (ast.ExprID, error) {
	left, err := p.parseInIs()
	if err != nil {
		return 0, err
	}
	if p.at(token.Caret) {
		p.advance()
		right, err := p.parsePower() // right-associative
		if err != nil {
			return 0, err
		}
		return p.arena.NewExpr(&ast.Binary{Op: ast.OpPow, Left: left, Right: right}), nil
	}
	return left, nil
}

func (p *Parser) parseInIs() (ast.ExprID, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.atKeyword("IN"):
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.Binary{Op: ast.OpIn, Left: left, Right: right})
		case p.atKeyword("IS"):
			p.advance()
			negated := false
			if p.atKeyword("NOT") {
				p.advance()
				negated = true
			}
			if err := p.expectKeyword("NULL"); err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.IsNull{Operand: left, Negated: negated})
		default:
			return left, nil
		}
	}
}

// parseUnary folds `-` applied directly to a numeric literal into the
// literal's value rather than emitting a Negate node (spec §4.1).
func (p *Parser) parseUnary() (ast.ExprID, error) {
	if p.at(token.Dash) {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if lit, ok := p.arena.Expr(operand).(*ast.Literal); ok {
			switch lit.Kind {
			case ast.LitInt:
				return p.arena.NewExpr(&ast.Literal{Kind: ast.LitInt, Int: -lit.Int}), nil
			case ast.LitFloat:
				return p.arena.NewExpr(&ast.Literal{Kind: ast.LitFloat, Float: -lit.Float}), nil
			}
		}
		zero := p.arena.NewExpr(&ast.Literal{Kind: ast.LitInt, Int: 0})
		return p.arena.NewExpr(&ast.Binary{Op: ast.OpSub, Left: zero, Right: operand}), nil
	}
	return p.parseStringMatch()
}

func (p *Parser) parseStringMatch() (ast.ExprID, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.atKeyword("STARTS"):
			p.advance()
			if err := p.expectKeyword("WITH"); err != nil {
				return 0, err
			}
			right, err := p.parsePostfix()
			if err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.Binary{Op: ast.OpStartsWith, Left: left, Right: right})
		case p.atKeyword("ENDS"):
			p.advance()
			if err := p.expectKeyword("WITH"); err != nil {
				return 0, err
			}
			right, err := p.parsePostfix()
			if err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.Binary{Op: ast.OpEndsWith, Left: left, Right: right})
		case p.atKeyword("CONTAINS"):
			p.advance()
			right, err := p.parsePostfix()
			if err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.Binary{Op: ast.OpContains, Left: left, Right: right})
		case p.at(token.RegexEq):
			p.advance()
			right, err := p.parsePostfix()
			if err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.FuncCall{Name: "regex_match", Args: []ast.ExprID{left, right}})
		default:
			return left, nil
		}
	}
}

// parsePostfix handles subscript/slice, dot access (property chains), and
// trailing typecasts, in any order and number, the tightest-binding tier
// in spec §4.1.
func (p *Parser) parsePostfix() (ast.ExprID, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			key, err := p.identOrSafeKeyword()
			if err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.PropertyAccess{Target: left, Key: key})
		case p.at(token.LBracket):
			p.advance()
			if p.at(token.DotDot) {
				p.advance()
				hi, err := p.parseExpr()
				if err != nil {
					return 0, err
				}
				if _, err := p.expect(token.RBracket); err != nil {
					return 0, err
				}
				left = p.arena.NewExpr(&ast.Slice{Target: left, Lo: ast.NoExpr, Hi: hi})
				continue
			}
			idx, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			if p.at(token.DotDot) {
				p.advance()
				hi := ast.ExprID(ast.NoExpr)
				if !p.at(token.RBracket) {
					hi, err = p.parseExpr()
					if err != nil {
						return 0, err
					}
				}
				if _, err := p.expect(token.RBracket); err != nil {
					return 0, err
				}
				left = p.arena.NewExpr(&ast.Slice{Target: left, Lo: idx, Hi: hi})
				continue
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return 0, err
			}
			left = p.arena.NewExpr(&ast.Subscript{Target: left, Index: idx})
		case p.at(token.DoubleColon):
			p.advance()
			name, err := p.identOrSafeKeyword()
			if err != nil {
				return 0, err
			}
			lname := toLower(name)
			if !recognizedCastTypes[lname] {
				return 0, p.unexpected("recognized type name")
			}
			left = p.arena.NewExpr(&ast.TypeCast{Operand: left, Target: lname})
		default:
			return left, nil
		}
	}
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func (p *Parser) parsePrimary() (ast.ExprID, error) {
	t := p.cur()
	switch t.Kind {
	case token.Integer:
		p.advance()
		n, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			return 0, p.unexpected("integer")
		}
		return p.arena.NewExpr(&ast.Literal{Kind: ast.LitInt, Int: n}), nil
	case token.Float:
		p.advance()
		f, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return 0, p.unexpected("float")
		}
		return p.arena.NewExpr(&ast.Literal{Kind: ast.LitFloat, Float: f}), nil
	case token.String:
		p.advance()
		return p.arena.NewExpr(&ast.Literal{Kind: ast.LitString, Str: t.Lexeme}), nil
	case token.Parameter:
		p.advance()
		return p.arena.NewExpr(&ast.Parameter{Name: t.Lexeme}), nil
	case token.LParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return 0, err
		}
		return e, nil
	case token.LBracket:
		return p.parseListLiteral()
	case token.LBrace:
		return p.parseMapLiteral()
	case token.Star:
		p.advance()
		return p.arena.NewExpr(&ast.WildcardStar{}), nil
	case token.Keyword:
		switch t.Lexeme {
		case "TRUE":
			p.advance()
			return p.arena.NewExpr(&ast.Literal{Kind: ast.LitBool, Bool: true}), nil
		case "FALSE":
			p.advance()
			return p.arena.NewExpr(&ast.Literal{Kind: ast.LitBool, Bool: false}), nil
		case "NULL":
			p.advance()
			return p.arena.NewExpr(&ast.Literal{Kind: ast.LitNull}), nil
		case "NOT":
			return p.parseNot()
		case "CASE":
			return p.parseCase()
		case "EXISTS":
			return p.parseExistsPattern()
		default:
			if token.IsSafeKeyword(t.Lexeme) {
				return p.parseIdentOrCall()
			}
			return 0, p.unexpected("expression")
		}
	case token.Ident:
		return p.parseIdentOrCall()
	default:
		return 0, p.unexpected("expression")
	}
}

func (p *Parser) parseIdentOrCall() (ast.ExprID, error) {
	name, err := p.identOrSafeKeyword()
	if err != nil {
		return 0, err
	}
	if !p.at(token.LParen) {
		return p.arena.NewExpr(&ast.Variable{Name: name}), nil
	}
	p.advance()
	distinct := false
	if p.atKeyword("DISTINCT") {
		p.advance()
		distinct = true
	}
	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return 0, err
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
		return 0, err
	}
	return p.arena.NewExpr(&ast.FuncCall{Name: name, Args: args, Distinct: distinct}), nil
}

func (p *Parser) parseListLiteral() (ast.ExprID, error) {
	if _, err := p.expect(token.LBracket); err != nil {
		return 0, err
	}
	var items []ast.ExprID
	if !p.at(token.RBracket) {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			items = append(items, e)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return 0, err
	}
	return p.arena.NewExpr(&ast.ListLiteral{Items: items}), nil
}

func (p *Parser) parseMapLiteral() (ast.ExprID, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return 0, err
	}
	var keys []string
	var values []ast.ExprID
	if !p.at(token.RBrace) {
		for {
			k, err := p.identOrSafeKeyword()
			if err != nil {
				return 0, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return 0, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			keys = append(keys, k)
			values = append(values, v)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return 0, err
	}
	return p.arena.NewExpr(&ast.MapLiteral{Keys: keys, Values: values}), nil
}

// parseCase covers both CASE forms; an elided ELSE defaults to NULL
// (spec §4.3).
func (p *Parser) parseCase() (ast.ExprID, error) {
	if err := p.expectKeyword("CASE"); err != nil {
		return 0, err
	}
	operand := ast.ExprID(ast.NoExpr)
	if !p.atKeyword("WHEN") {
		e, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		operand = e
	}
	var whens, thens []ast.ExprID
	for p.atKeyword("WHEN") {
		p.advance()
		w, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := p.expectKeyword("THEN"); err != nil {
			return 0, err
		}
		th, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		whens = append(whens, w)
		thens = append(thens, th)
	}
	elseExpr := p.arena.NewExpr(&ast.Literal{Kind: ast.LitNull})
	if p.atKeyword("ELSE") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		elseExpr = e
	}
	if err := p.expectKeyword("END"); err != nil {
		return 0, err
	}
	return p.arena.NewExpr(&ast.CaseExpr{Operand: operand, Whens: whens, Thens: thens, Else: elseExpr}), nil
}

func (p *Parser) parseExistsPattern() (ast.ExprID, error) {
	if err := p.expectKeyword("EXISTS"); err != nil {
		return 0, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return 0, err
	}
	path, err := p.parsePath()
	if err != nil {
		return 0, err
	}
	where := ast.ExprID(ast.NoExpr)
	if p.atKeyword("WHERE") {
		p.advance()
		w, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		where = w
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return 0, err
	}
	return p.arena.NewExpr(&ast.ExistsPattern{Pattern: path, Where: where}), nil
}
