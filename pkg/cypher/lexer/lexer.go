// Package lexer tokenizes openCypher source text into the token stream
// consumed by pkg/cypher/parser, per spec §4.1 (component L).
//
// The scanner is a hand-rolled rune-at-a-time state machine rather than a
// table of precompiled regexes: a lexer sees every byte exactly once and
// branches on rune class (quote/bracket/digit/letter), the same state-machine
// shape the teacher's splitPropertyPairs used for a narrower job (splitting
// one property map). Here it drives the whole token stream.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cyphergraph/cyphercore/pkg/cypher/cyphererr"
	"github.com/cyphergraph/cyphercore/pkg/cypher/token"
)

// Lexer scans a single Cypher query string into tokens on demand.
type Lexer struct {
	src  string
	pos  int // byte offset of the next unread rune
	done bool
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, size
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() {
	_, size := l.peekRune()
	l.pos += size
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		r, size := l.peekRune()
		if size == 0 {
			return
		}
		if unicode.IsSpace(r) {
			l.pos += size
			continue
		}
		if r == '/' && l.peekAt(1) == '/' {
			for {
				r2, s2 := l.peekRune()
				if s2 == 0 || r2 == '\n' {
					break
				}
				l.pos += s2
			}
			continue
		}
		if r == '/' && l.peekAt(1) == '*' {
			l.pos += 2
			for {
				r2, s2 := l.peekRune()
				if s2 == 0 {
					break
				}
				if r2 == '*' && l.peekAt(1) == '/' {
					l.pos += 2
					break
				}
				l.pos += s2
			}
			continue
		}
		return
	}
}

// Next scans and returns the next token. Once EOF is returned, every
// subsequent call returns EOF again.
func (l *Lexer) Next() (token.Token, error) {
	l.skipSpaceAndComments()
	start := l.pos
	r, size := l.peekRune()
	if size == 0 {
		return token.Token{Kind: token.EOF, Span: token.Span{Start: start, End: start}}, nil
	}

	switch {
	case r == '\'' || r == '"':
		return l.scanString(r)
	case r == '$':
		return l.scanParameter()
	case unicode.IsDigit(r):
		return l.scanNumber()
	case isIdentStart(r):
		return l.scanIdentOrKeyword()
	default:
		return l.scanOperator()
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (l *Lexer) scanString(quote rune) (token.Token, error) {
	start := l.pos
	l.advance() // opening quote
	var sb strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 {
			return token.Token{}, cyphererr.WithSpan(
				cyphererr.ErrUnexpectedToken.New("EOF", "unterminated string"),
				cyphererr.Span{Start: start, End: l.pos})
		}
		if r == '\\' {
			l.advance()
			esc, esize := l.peekRune()
			if esize == 0 {
				break
			}
			sb.WriteRune(unescape(esc))
			l.advance()
			continue
		}
		if r == quote {
			l.advance()
			break
		}
		sb.WriteRune(r)
		l.advance()
	}
	return token.Token{Kind: token.String, Lexeme: sb.String(), Span: token.Span{Start: start, End: l.pos}}, nil
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}

func (l *Lexer) scanParameter() (token.Token, error) {
	start := l.pos
	l.advance() // $
	var sb strings.Builder
	r, size := l.peekRune()
	if size == 0 || !isIdentStart(r) {
		return token.Token{}, cyphererr.WithSpan(
			cyphererr.ErrUnexpectedToken.New("$", "expected parameter name"),
			cyphererr.Span{Start: start, End: l.pos})
	}
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentPart(r) {
			break
		}
		sb.WriteRune(r)
		l.advance()
	}
	return token.Token{Kind: token.Parameter, Lexeme: sb.String(), Span: token.Span{Start: start, End: l.pos}}, nil
}

func (l *Lexer) scanNumber() (token.Token, error) {
	start := l.pos
	isFloat := false
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if unicode.IsDigit(r) {
			l.advance()
			continue
		}
		if r == '.' && l.peekAt(1) != '.' && isDigitByte(l.peekAt(1)) {
			isFloat = true
			l.advance()
			continue
		}
		if (r == 'e' || r == 'E') && (isDigitByte(l.peekAt(1)) || l.peekAt(1) == '+' || l.peekAt(1) == '-') {
			isFloat = true
			l.advance()
			if l.peekAt(0) == '+' || l.peekAt(0) == '-' {
				l.advance()
			}
			continue
		}
		break
	}
	lexeme := l.src[start:l.pos]
	kind := token.Integer
	if isFloat {
		kind = token.Float
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Span: token.Span{Start: start, End: l.pos}}, nil
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func (l *Lexer) scanIdentOrKeyword() (token.Token, error) {
	start := l.pos
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentPart(r) {
			break
		}
		l.advance()
	}
	lexeme := l.src[start:l.pos]
	upper := strings.ToUpper(lexeme)
	if isKeyword, _ := token.LookupKeyword(upper); isKeyword {
		return token.Token{Kind: token.Keyword, Lexeme: upper, Span: token.Span{Start: start, End: l.pos}}, nil
	}
	return token.Token{Kind: token.Ident, Lexeme: lexeme, Span: token.Span{Start: start, End: l.pos}}, nil
}

// twoCharOps maps a two-byte lexeme to its token Kind. Checked before
// falling back to single-character operators.
var twoCharOps = map[string]token.Kind{
	"<>": token.Neq,
	"!=": token.Neq,
	"<=": token.Lte,
	">=": token.Gte,
	"->": token.Arrow,
	"<-": token.DashArrow,
	"=~": token.RegexEq,
	"+=": token.PlusEq,
	"::": token.DoubleColon,
	"..": token.DotDot,
}

func (l *Lexer) scanOperator() (token.Token, error) {
	start := l.pos
	if l.pos+2 <= len(l.src) {
		two := l.src[l.pos : l.pos+2]
		if kind, ok := twoCharOps[two]; ok {
			l.pos += 2
			return token.Token{Kind: kind, Lexeme: two, Span: token.Span{Start: start, End: l.pos}}, nil
		}
	}

	b := l.src[l.pos]
	var kind token.Kind
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '.':
		kind = token.Dot
	case '|':
		kind = token.Pipe
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Dash
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '^':
		kind = token.Caret
	case '=':
		kind = token.Eq
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	default:
		l.pos++
		return token.Token{}, cyphererr.WithSpan(
			cyphererr.ErrUnexpectedToken.New(string(b), "unrecognized character"),
			cyphererr.Span{Start: start, End: l.pos})
	}
	l.pos++
	return token.Token{Kind: kind, Lexeme: string(b), Span: token.Span{Start: start, End: l.pos}}, nil
}

// All scans the full token stream, appending a trailing EOF token.
func All(src string) ([]token.Token, error) {
	l := New(src)
	var toks []token.Token
	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks, nil
		}
	}
}
