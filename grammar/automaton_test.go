package grammar

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAutomaton_Sequence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "desclang.grammar")
	defer teardown()

	g := buildGrammar(t, `PROGRAM = 'a' + 'b';`)
	symTab := g.SymbolTable()
	a, err := buildAutomaton(symTab, g.Start(), 0, false)
	require.NoError(t, err)
	require.Len(t, a.States, 3)

	a0, ok := a.States[0].edge(literal(t, symTab, "a"))
	require.True(t, ok)
	assert.Equal(t, stateNum(1), a0)
	b1, ok := a.States[1].edge(literal(t, symTab, "b"))
	require.True(t, ok)
	assert.Equal(t, stateNum(2), b1)
	assert.Empty(t, a.States[2].Edges)

	assert.Equal(t, []string{"PROGRAM -> . 'a' 'b' {$}"}, formatItems(a, a.States[0]))
	assert.Equal(t, []string{"PROGRAM -> 'a' 'b' . {$}"}, formatItems(a, a.States[2]))

	conflicts := validateAutomaton(a, g.Start())
	assert.Empty(t, conflicts)
	assert.Equal(t, []stateNum{2}, a.acceptingStates())
}

func TestBuildAutomaton_LeftRecursion(t *testing.T) {
	g := buildGrammar(t, `
PROGRAM = LIST;
LIST = LIST + ITEM | ITEM;
ITEM = 'x';
`)
	symTab := g.SymbolTable()
	a, err := buildAutomaton(symTab, g.Start(), 0, false)
	require.NoError(t, err)
	require.Len(t, a.States, 5)

	// The item 'x' completes in the same state whether it starts or continues the list.
	x := literal(t, symTab, "x")
	fromInitial, ok := a.States[0].edge(x)
	require.True(t, ok)
	list, ok := a.States[0].edge(named(t, symTab, "LIST"))
	require.True(t, ok)
	fromList, ok := a.States[list].edge(x)
	require.True(t, ok)
	assert.Equal(t, fromInitial, fromList)
	assert.Equal(t, []string{"ITEM -> 'x' . {'x', $}"}, formatItems(a, a.States[fromInitial]))

	assert.Empty(t, validateAutomaton(a, g.Start()))
	assert.Equal(t, []stateNum{list}, a.acceptingStates())
}

func TestBuildAutomaton_Deterministic(t *testing.T) {
	g1 := buildGrammar(t, arithmeticGrammar)
	g2 := buildGrammar(t, arithmeticGrammar)
	a1, err := buildAutomaton(g1.SymbolTable(), g1.Start(), 0, false)
	require.NoError(t, err)
	a2, err := buildAutomaton(g2.SymbolTable(), g2.Start(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, summarize(a1), summarize(a2))

	cg1, _, err := Compile(g1)
	require.NoError(t, err)
	cg2, _, err := Compile(g2)
	require.NoError(t, err)
	assert.Equal(t, cg1.Terminals, cg2.Terminals)
	assert.Equal(t, cg1.Productions, cg2.Productions)
	assert.Equal(t, cg1.ParsingTable, cg2.ParsingTable)
}

func TestBuildAutomaton_StatesAreUnique(t *testing.T) {
	a := buildTestAutomaton(t, arithmeticGrammar)
	for i, s1 := range a.States {
		assert.Equal(t, stateNum(i), s1.Num)
		for _, s2 := range a.States[i+1:] {
			assert.False(t, s1.Items.equal(s2.Items), "states %v and %v are equal", s1.Num, s2.Num)
		}
		for _, e := range s1.Edges {
			assert.Less(t, e.Dest.Int(), len(a.States))
			assert.NotEqual(t, stateNumInitial, e.Dest)
		}
	}
}

func TestBuildAutomaton_Lookaheads(t *testing.T) {
	a := buildTestAutomaton(t, arithmeticGrammar)
	for _, state := range a.States {
		for _, item := range state.Items.items {
			syms := item.Lookahead.Symbols()
			require.NotEmpty(t, syms, item.format(a.symTab))
			for i := 1; i < len(syms); i++ {
				assert.Less(t, syms[i-1], syms[i])
			}
			for _, h := range syms {
				assert.True(t, a.symTab.Symbol(h).IsTerminal())
			}
		}
	}
}

func TestBuildAutomaton_StateLimit(t *testing.T) {
	g := buildGrammar(t, arithmeticGrammar)
	_, err := buildAutomaton(g.SymbolTable(), g.Start(), 3, false)
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 3, capErr.Limit)
	assert.Equal(t, "states", capErr.Resource)
}

func TestItemSet(t *testing.T) {
	g := buildGrammar(t, `
PROGRAM = A | B;
A = 'a';
B = 'b';
`)
	symTab := g.SymbolTable()
	a := named(t, symTab, "A")
	b := named(t, symTab, "B")
	x := literal(t, symTab, "a")
	y := literal(t, symTab, "b")

	s1 := newItemSet()
	s1.add(b, 0, NewLookaheadSet(y))
	s1.add(a, 1, NewLookaheadSet(x))
	s1.add(a, 0, NewLookaheadSet(x))

	s2 := newItemSet()
	s2.add(a, 0, NewLookaheadSet(x))
	s2.add(a, 1, NewLookaheadSet(x))
	s2.add(b, 0, NewLookaheadSet(y))

	assert.True(t, s1.equal(s2))
	fp1, err := fingerprint(s1)
	require.NoError(t, err)
	fp2, err := fingerprint(s2)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	// Adding an existing item only merges its lookahead.
	assert.True(t, s2.add(b, 0, NewLookaheadSet(x)))
	assert.False(t, s2.add(b, 0, NewLookaheadSet(x)))
	assert.Equal(t, 3, s2.Len())
	assert.False(t, s1.equal(s2))
	assert.True(t, s1.sameCore(s2))
	assert.Equal(t, NewLookaheadSet(y, x).Symbols(), s2.find(b, 0).Lookahead.Symbols())
	assert.Nil(t, s2.find(b, 1))
}
