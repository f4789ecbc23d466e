package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(toks []token) []tokenKind {
	ks := make([]tokenKind, len(toks))
	for i, t := range toks {
		ks[i] = t.kind
	}
	return ks
}

func TestLexSimpleAssign(t *testing.T) {
	toks, err := lex("x = 1\n")
	require.NoError(t, err)
	require.Equal(t, []tokenKind{tokIdent, tokOp, tokInt, tokNewline, tokEOF}, kinds(toks))
}

func TestLexIndentDedent(t *testing.T) {
	src := "def f():\n    return 1\nx = 2\n"
	toks, err := lex(src)
	require.NoError(t, err)

	var sawIndent, sawDedent bool
	for _, tk := range toks {
		if tk.kind == tokIndent {
			sawIndent = true
		}
		if tk.kind == tokDedent {
			sawDedent = true
		}
	}
	require.True(t, sawIndent)
	require.True(t, sawDedent)
}

func TestLexInconsistentIndentationErrors(t *testing.T) {
	src := "if x:\n    y = 1\n  z = 2\n"
	_, err := lex(src)
	require.Error(t, err)
}

func TestLexKeywordsVsIdents(t *testing.T) {
	toks, err := lex("class Foo:\n    pass\n")
	require.NoError(t, err)
	require.Equal(t, tokKeyword, toks[0].kind)
	require.Equal(t, "class", toks[0].text)
	require.Equal(t, tokIdent, toks[1].kind)
	require.Equal(t, "Foo", toks[1].text)
}

func TestLexMultiCharOperators(t *testing.T) {
	toks, err := lex("x -> y == z\n")
	require.NoError(t, err)
	var ops []string
	for _, tk := range toks {
		if tk.kind == tokOp {
			ops = append(ops, tk.text)
		}
	}
	require.Equal(t, []string{"->", "=="}, ops)
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := lex(`s = "a\"b"` + "\n")
	require.NoError(t, err)
	var found bool
	for _, tk := range toks {
		if tk.kind == tokString {
			require.Equal(t, `a"b`, tk.text)
			found = true
		}
	}
	require.True(t, found)
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	_, err := lex(`s = "abc` + "\n")
	require.Error(t, err)
}

func TestLexCommentsIgnored(t *testing.T) {
	toks, err := lex("x = 1 # a comment\n")
	require.NoError(t, err)
	require.Equal(t, []tokenKind{tokIdent, tokOp, tokInt, tokNewline, tokEOF}, kinds(toks))
}

func TestLexTokenSpansAreNonDegenerate(t *testing.T) {
	toks, err := lex("foobar\n")
	require.NoError(t, err)
	require.Equal(t, tokIdent, toks[0].kind)
	require.Equal(t, 0, toks[0].start)
	require.Equal(t, len("foobar"), toks[0].end)
}
