package spec

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verr "github.com/paladinking/desclang/error"
)

func TestLexer_Run(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "desclang.spec")
	defer teardown()

	type tok struct {
		kind tokenKind
		text string
		row  int
		col  int
	}

	src := `include: <a.h>;
atoms: A, B;
// comment
X = 'a\'b' + A : $ $0;`
	expected := []tok{
		{tokenKindKWInclude, "include:", 1, 1},
		{tokenKindText, "<", 1, 10},
		{tokenKindID, "a", 1, 11},
		{tokenKindText, ".", 1, 12},
		{tokenKindID, "h", 1, 13},
		{tokenKindText, ">", 1, 14},
		{tokenKindSemicolon, ";", 1, 15},
		{tokenKindKWAtoms, "atoms:", 2, 1},
		{tokenKindID, "A", 2, 8},
		{tokenKindComma, ",", 2, 9},
		{tokenKindID, "B", 2, 11},
		{tokenKindSemicolon, ";", 2, 12},
		{tokenKindID, "X", 4, 1},
		{tokenKindEquals, "=", 4, 3},
		{tokenKindLiteral, "a'b", 4, 5},
		{tokenKindPlus, "+", 4, 12},
		{tokenKindID, "A", 4, 14},
		{tokenKindColon, ":", 4, 16},
		{tokenKindText, "$", 4, 18},
		{tokenKindText, "$", 4, 20},
		{tokenKindText, "0", 4, 21},
		{tokenKindSemicolon, ";", 4, 22},
		{tokenKindEOF, "", 4, 23},
	}

	l, err := newLexer([]byte(src))
	require.NoError(t, err)
	for _, e := range expected {
		actual, err := l.next()
		require.NoError(t, err)
		assert.Equal(t, e, tok{actual.kind, actual.text, actual.pos.Row, actual.pos.Col})
		if actual.kind != tokenKindEOF && actual.kind != tokenKindLiteral {
			assert.Equal(t, actual.text, src[actual.start:actual.end])
		}
	}
}

func TestLexer_Literal(t *testing.T) {
	tests := []struct {
		src  string
		text string
	}{
		{src: `''`, text: ``},
		{src: `'+'`, text: `+`},
		{src: `'\\'`, text: `\`},
		{src: `'\''`, text: `'`},
		{src: `'[0-9]+'`, text: `[0-9]+`},
		{src: `'\n'`, text: `\n`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			l, err := newLexer([]byte(tt.src))
			require.NoError(t, err)
			tok, err := l.next()
			require.NoError(t, err)
			assert.Equal(t, tokenKindLiteral, tok.kind)
			assert.Equal(t, tt.text, tok.text)
		})
	}
}

func TestLexer_UnclosedLiteral(t *testing.T) {
	l, err := newLexer([]byte(`PROGRAM = 'abc;`))
	require.NoError(t, err)

	tok, err := l.next()
	require.NoError(t, err)
	assert.Equal(t, tokenKindID, tok.kind)
	tok, err = l.next()
	require.NoError(t, err)
	assert.Equal(t, tokenKindEquals, tok.kind)

	_, err = l.next()
	var specErr *verr.SpecError
	require.True(t, errors.As(err, &specErr))
	assert.ErrorIs(t, specErr, synErrUnclosedLiteral)
	assert.Equal(t, 1, specErr.Row)
	assert.Equal(t, 11, specErr.Col)

	tok, err = l.next()
	require.NoError(t, err)
	assert.Equal(t, tokenKindEOF, tok.kind)
}
