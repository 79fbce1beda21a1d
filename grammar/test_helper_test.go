package grammar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paladinking/desclang/grammar/symbol"
	"github.com/paladinking/desclang/spec"
)

func buildGrammar(t *testing.T, src string, opts ...BuildOption) *Grammar {
	t.Helper()
	ast, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	b := &GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build(opts...)
	require.NoError(t, err)
	return g
}

func buildTestAutomaton(t *testing.T, src string) *Automaton {
	t.Helper()
	g := buildGrammar(t, src)
	a, err := buildAutomaton(g.SymbolTable(), g.Start(), 0, false)
	require.NoError(t, err)
	return a
}

func formatItems(a *Automaton, state *State) []string {
	var items []string
	for _, item := range state.Items.items {
		items = append(items, item.format(a.symTab))
	}
	return items
}

// summarize renders the states and edges of an automaton for comparison.
func summarize(a *Automaton) []string {
	var lines []string
	for _, state := range a.States {
		lines = append(lines, a.format(state))
		for _, e := range state.Edges {
			lines = append(lines, fmt.Sprintf("%v -%v-> %v", state.Num, a.symTab.Symbol(e.Symbol).Label(), e.Dest))
		}
	}
	return lines
}

func literal(t *testing.T, symTab *symbol.SymbolTableReader, text string) symbol.Handle {
	t.Helper()
	h, ok := symTab.LookupLiteral(text)
	require.True(t, ok, "literal %v", text)
	return h
}

func named(t *testing.T, symTab *symbol.SymbolTableReader, name string) symbol.Handle {
	t.Helper()
	h, ok := symTab.Lookup(name)
	require.True(t, ok, "symbol %v", name)
	return h
}

const arithmeticGrammar = `
atoms: NUMBER;
pattern: NUMBER = '[0-9]+';
PROGRAM = EXPR;
EXPR = EXPR + '+' + TERM | TERM;
TERM = TERM + '*' + FACTOR | FACTOR;
FACTOR = '(' + EXPR + ')' | NUMBER;
`
