package lexer

import (
	"testing"

	"github.com/cyphergraph/cyphercore/pkg/cypher/token"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := All(src)
	require.NoError(t, err)
	var ks []token.Kind
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	return ks
}

func TestLexerBasicClause(t *testing.T) {
	ks := kinds(t, "MATCH (a)-[r]->(b) RETURN a")
	require.Equal(t, []token.Kind{
		token.Keyword, token.LParen, token.Ident, token.RParen,
		token.Dash, token.LBracket, token.Ident, token.RBracket, token.Arrow,
		token.LParen, token.Ident, token.RParen, token.Keyword, token.Ident, token.EOF,
	}, ks)
}

func TestLexerParameterAndOperators(t *testing.T) {
	toks, err := All("WHERE a.k = $limit <> 3 AND b.k >= 2.5e1")
	require.NoError(t, err)
	var lexemes []string
	for _, tok := range toks {
		lexemes = append(lexemes, tok.Lexeme)
	}
	require.Contains(t, lexemes, "limit")
	require.Contains(t, lexemes, "2.5e1")
}

func TestLexerStringEscapes(t *testing.T) {
	toks, err := All(`RETURN 'a\'b\nc'`)
	require.NoError(t, err)
	require.Equal(t, "a'b\nc", toks[1].Lexeme)
}

func TestLexerReservedConflictedKeyword(t *testing.T) {
	toks, err := All("RETURN true, false, null")
	require.NoError(t, err)
	require.Equal(t, token.Keyword, toks[1].Kind)
	require.Equal(t, "TRUE", toks[1].Lexeme)
}

func TestLexerVarLengthRange(t *testing.T) {
	ks := kinds(t, "[*1..3]")
	require.Equal(t, []token.Kind{
		token.LBracket, token.Star, token.Integer, token.DotDot, token.Integer, token.RBracket, token.EOF,
	}, ks)
}

func TestLexerUnterminatedStringErrors(t *testing.T) {
	_, err := All("RETURN 'abc")
	require.Error(t, err)
}
