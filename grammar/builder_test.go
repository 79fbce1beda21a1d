package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verr "github.com/paladinking/desclang/error"
	"github.com/paladinking/desclang/grammar/symbol"
	"github.com/paladinking/desclang/spec"
)

func build(t *testing.T, src string, opts ...BuildOption) (*Grammar, error) {
	t.Helper()
	ast, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	b := &GrammarBuilder{
		AST: ast,
	}
	return b.Build(opts...)
}

func TestGrammarBuilder_SemanticErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "desclang.grammar")
	defer teardown()

	tests := []struct {
		caption string
		src     string
		errs    []error
	}{
		{
			caption: "an atom is declared twice",
			src: `
atoms: A, A;
PROGRAM = A;
`,
			errs: []error{semErrDuplicateTerminal},
		},
		{
			caption: "a production reuses the name of an atom",
			src: `
atoms: A;
A = 'a';
PROGRAM = A;
`,
			errs: []error{semErrDuplicateName},
		},
		{
			caption: "an atom reuses the name of a production",
			src: `
A = 'a';
atoms: A;
PROGRAM = A;
`,
			errs: []error{semErrDuplicateName},
		},
		{
			caption: "a production is defined by two statements",
			src: `
PROGRAM = 'a';
PROGRAM = 'b';
`,
			errs: []error{semErrDuplicateProduction},
		},
		{
			caption: "a pattern is attached to a production",
			src: `
PROGRAM = 'a';
pattern: PROGRAM = 'x';
`,
			errs: []error{semErrPatternNotTerminal},
		},
		{
			caption: "a terminal has two patterns",
			src: `
atoms: A;
pattern: A = 'a';
pattern: A = 'b';
PROGRAM = A;
`,
			errs: []error{semErrDuplicatePattern},
		},
		{
			caption: "an inline hook refers to a literal",
			src: `
PROGRAM = 'a' : $ $0;
`,
			errs: []error{semErrInvalidInlineHook},
		},
		{
			caption: "an inline hook refers to a void child",
			src: `
atoms: NUM, SEP;
type: SEP = void;
PROGRAM = NUM + SEP : $ $1;
`,
			errs: []error{semErrInvalidInlineHook},
		},
		{
			caption: "the error symbol is declared as an atom",
			src: `
atoms: error;
PROGRAM = 'a';
`,
			errs: []error{semErrReservedSymbolError},
		},
		{
			caption: "the error symbol is defined as a production",
			src: `
error = 'a';
PROGRAM = 'a';
`,
			errs: []error{semErrReservedSymbolError},
		},
		{
			caption: "a grammar without productions",
			src: `
atoms: A;
`,
			errs: []error{semErrNoProduction},
		},
		{
			caption: "every error is reported in source order",
			src: `
atoms: A, A;
PROGRAM = A;
PROGRAM = A;
`,
			errs: []error{semErrDuplicateTerminal, semErrDuplicateProduction},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g, err := build(t, tt.src)
			assert.Nil(t, g)
			var specErrs verr.SpecErrors
			require.True(t, errors.As(err, &specErrs), "unexpected error: %v", err)
			require.Len(t, specErrs, len(tt.errs))
			for i, expected := range tt.errs {
				assert.ErrorIs(t, specErrs[i], expected)
			}
		})
	}
}

func TestGrammarBuilder_UnresolvedSymbol(t *testing.T) {
	_, err := build(t, `
PROGRAM = FOO + BAR;
BAR = 'b';
`)
	var unresolved *UnresolvedSymbolError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "FOO", unresolved.Name)
	assert.Contains(t, err.Error(), "FOO")
}

func TestGrammarBuilder_StartSymbol(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		start   string
		kind    symbol.Kind
	}{
		{
			caption: "the default start symbol is missing",
			src:     `STMT = 'a';`,
			start:   DefaultStartSymbol,
		},
		{
			caption: "the specified start symbol is missing",
			src:     `PROGRAM = 'a';`,
			start:   "MAIN",
		},
		{
			caption: "the start symbol is an atom",
			src: `
atoms: A;
PROGRAM = A;
`,
			start: "A",
			kind:  symbol.KindTerminal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := build(t, tt.src, SpecifyStartSymbol(tt.start))
			var startErr *StartSymbolError
			require.True(t, errors.As(err, &startErr))
			assert.Equal(t, tt.start, startErr.Name)
			assert.Equal(t, tt.kind, startErr.Kind)
		})
	}
}

func TestGrammarBuilder_Build(t *testing.T) {
	g, err := build(t, `
include: #include "ast.h";
type: EXPR = Expr*;
atoms: NUMBER, WS;
type: NUMBER = const char*;
type: WS = void;
pattern: NUMBER = '[0-9]+';
PROGRAM = EXPR : $ $0;
EXPR = EXPR + '+' + NUMBER : add | NUMBER + WS : num;
`, SpecifyName("calc"), SpecifyStartSymbol("PROGRAM"))
	require.NoError(t, err)
	symTab := g.SymbolTable()

	assert.Equal(t, "calc", g.name)
	assert.Equal(t, []string{`#include "ast.h"`}, g.includes)

	start := named(t, symTab, "PROGRAM")
	assert.Equal(t, start, g.Start())
	assert.Equal(t, symbol.DefaultValueType, symTab.ValueType(start))

	expr := named(t, symTab, "EXPR")
	alts := symTab.Alternatives(expr)
	require.Len(t, alts, 2)
	for _, alt := range alts {
		assert.Equal(t, "Expr*", symTab.ValueType(alt))
		assert.Equal(t, expr, symTab.Symbol(alt).Head)
	}
	assert.Equal(t, "add", symTab.Symbol(alts[0]).Hook)
	assert.Equal(t, "num", symTab.Symbol(alts[1]).Hook)
	assert.Equal(t, alts[1], symTab.Tail(expr))

	num := named(t, symTab, "NUMBER")
	assert.Equal(t, symbol.KindTerminal, symTab.Kind(num))
	assert.Equal(t, "[0-9]+", symTab.Symbol(num).Pattern)
	assert.Equal(t, "const char*", symTab.ValueType(num))
	assert.Equal(t, symbol.VoidValueType, symTab.ValueType(named(t, symTab, "WS")))

	plus := literal(t, symTab, "+")
	assert.Equal(t, symbol.KindLiteral, symTab.Kind(plus))

	assert.Equal(t, symTab.Len()-1, symTab.EOF().Int())
	assert.Empty(t, symTab.Placeholders())
}
