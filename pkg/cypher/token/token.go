// Package token defines the lexical tokens of openCypher and the
// reserved-vs-safe keyword classification from spec §4.1/§6.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Illegal

	Ident
	Parameter // $name
	Integer
	Float
	String

	// Punctuation
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma
	Colon
	Semicolon
	Dot
	DotDot // ..
	Pipe   // |

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Eq      // =
	Neq     // <> or !=
	Lt
	Gt
	Lte
	Gte
	Arrow     // ->
	DashArrow // <-
	Dash      // -
	RegexEq   // =~
	PlusEq    // += (SET shorthand)
	DoubleColon

	// Keyword (reserved-conflicted and safe alike end up here; the
	// lexeme carries which keyword and the keyword table says which
	// bucket it's in)
	Keyword
)

var kindNames = map[Kind]string{
	EOF: "EOF", Illegal: "ILLEGAL", Ident: "IDENT", Parameter: "PARAMETER",
	Integer: "INTEGER", Float: "FLOAT", String: "STRING",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Colon: ":", Semicolon: ";", Dot: ".", DotDot: "..", Pipe: "|",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Caret: "^",
	Eq: "=", Neq: "<>", Lt: "<", Gt: ">", Lte: "<=", Gte: ">=",
	Arrow: "->", DashArrow: "<-", Dash: "-", RegexEq: "=~", PlusEq: "+=",
	DoubleColon: "::", Keyword: "KEYWORD",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Span is a byte-offset range into the source query text.
type Span struct {
	Start int
	End   int
}

// Token is the atomic lexical unit produced by the lexer: (kind, lexeme, span).
type Token struct {
	Kind   Kind
	Lexeme string
	Span   Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Span.Start)
}

// reservedConflicted keywords may only appear in their syntactic slot; they
// cannot double as an identifier or schema name.
var reservedConflicted = map[string]bool{
	"END":   true,
	"FALSE": true,
	"NULL":  true,
	"TRUE":  true,
}

// safeKeywords may appear in contexts expecting an identifier or schema
// name, as well as in their own syntactic slot.
var safeKeywords = map[string]bool{
	"MATCH": true, "OPTIONAL": true, "CREATE": true, "MERGE": true,
	"SET": true, "REMOVE": true, "DELETE": true, "DETACH": true,
	"WITH": true, "RETURN": true, "UNWIND": true, "UNION": true, "ALL": true,
	"DISTINCT": true, "AS": true, "WHERE": true, "ORDER": true, "BY": true,
	"ASC": true, "ASCENDING": true, "DESC": true, "DESCENDING": true,
	"SKIP": true, "LIMIT": true, "AND": true, "OR": true, "XOR": true,
	"NOT": true, "IN": true, "IS": true, "STARTS": true, "ENDS": true,
	"CONTAINS": true, "CASE": true, "WHEN": true, "THEN": true, "ELSE": true,
	"CALL": true, "YIELD": true, "EXISTS": true, "COUNT": true,
	"FOREACH": true, "LOAD": true, "CSV": true, "USING": true, "PERIODIC": true,
	"COMMIT": true, "EXPLAIN": true, "PROFILE": true, "SHOW": true,
	"ON": true,
}

// LookupKeyword reports whether word (already upper-cased by the caller) is
// a keyword at all, and whether it is reserved-conflicted (cannot be used
// as an identifier) as opposed to safe.
func LookupKeyword(upper string) (isKeyword bool, reserved bool) {
	if reservedConflicted[upper] {
		return true, true
	}
	if safeKeywords[upper] {
		return true, false
	}
	return false, false
}

// IsSafeKeyword reports whether upper is a safe keyword (may double as an
// identifier/schema name).
func IsSafeKeyword(upper string) bool { return safeKeywords[upper] }

// IsReservedConflicted reports whether upper is one of END/FALSE/NULL/TRUE.
func IsReservedConflicted(upper string) bool { return reservedConflicted[upper] }
