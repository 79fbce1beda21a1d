package grammar

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spec "github.com/paladinking/desclang/spec/grammar"
)

func TestCompile_Sequence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "desclang.grammar")
	defer teardown()

	g := buildGrammar(t, `PROGRAM = 'a' + 'b';`, SpecifyName("seq"))
	cg, report, err := Compile(g)
	require.NoError(t, err)
	assert.Nil(t, report)

	assert.Equal(t, "seq", cg.Name)
	assert.Equal(t, "PROGRAM", cg.StartSymbol)
	assert.Equal(t, []*spec.Terminal{
		{Number: 0, Name: "error", Kind: spec.TerminalKindError, ValueType: "void"},
		{Number: 1, Name: "a", Kind: spec.TerminalKindLiteral, ValueType: "void"},
		{Number: 2, Name: "b", Kind: spec.TerminalKindLiteral, ValueType: "void"},
		{Number: 3, Name: "$", Kind: spec.TerminalKindEOF, ValueType: "void"},
	}, cg.Terminals)
	assert.Equal(t, []*spec.Family{
		{Number: 0, Name: "PROGRAM", ValueType: "int64"},
	}, cg.Families)
	assert.Equal(t, []*spec.Production{
		{Number: 1, Family: 0, RHSLen: 2, Children: []int{}},
	}, cg.Productions)

	pt := cg.ParsingTable
	assert.Equal(t, 3, pt.StateCount)
	assert.Equal(t, 4, pt.TerminalCount)
	assert.Equal(t, 1, pt.FamilyCount)
	assert.Equal(t, 0, pt.InitialState)
	assert.Equal(t, 0, pt.StartFamily)
	assert.Equal(t, 0, pt.ErrorSymbol)
	assert.Equal(t, 3, pt.EOFSymbol)
	assert.Equal(t, []int{
		0, -1, 0, 0,
		0, 0, -2, 0,
		0, 0, 0, 1,
	}, pt.Action)
	assert.Equal(t, []int{0, 0, 0}, pt.GoTo)
	assert.Nil(t, pt.ActionRowNums)
	assert.Equal(t, []int{2}, pt.AcceptStates)
	assert.Equal(t, []int{0, 0, 0}, pt.ErrorTrapperStates)
	assert.Equal(t, [][]int{{1}, {2}, {3}}, pt.ExpectedTerminals)
}

func TestCompile_GoTo(t *testing.T) {
	g := buildGrammar(t, `
PROGRAM = LIST;
LIST = LIST + ITEM | ITEM;
ITEM = 'x' | error;
`)
	a, err := buildAutomaton(g.SymbolTable(), g.Start(), 0, false)
	require.NoError(t, err)
	require.Empty(t, validateAutomaton(a, g.Start()))
	nums := newNumbering(g.SymbolTable())
	tab := (&lrTableBuilder{
		automaton: a,
		nums:      nums,
	}).build()

	symTab := g.SymbolTable()
	for _, state := range a.States {
		for _, e := range state.Edges {
			if symTab.Symbol(e.Symbol).IsTerminal() {
				act, dest, _ := tab.getAction(state.Num, nums.terminals[e.Symbol])
				assert.Equal(t, ActionTypeShift, act)
				assert.Equal(t, e.Dest, dest)
				continue
			}
			dest, ok := tab.getGoTo(state.Num, nums.family(symTab, e.Symbol))
			assert.True(t, ok)
			assert.Equal(t, e.Dest, dest)
		}
	}

	// Only the states expecting an item can shift the error symbol.
	for _, state := range a.States {
		_, canTrap := state.edge(0)
		assert.Equal(t, canTrap, tab.errorTrapperStates[state.Num] == 1)
		assert.NotContains(t, tab.expectedTerminals[state.Num], nums.terminals[0])
	}
	assert.Equal(t, 1, tab.errorTrapperStates[0])

	_, ok := tab.getGoTo(stateNumInitial, nums.families[named(t, symTab, "PROGRAM")])
	assert.False(t, ok)
}

func TestCompile_Children(t *testing.T) {
	g := buildGrammar(t, `
atoms: NUM, SEP;
type: SEP = void;
pattern: NUM = '[0-9]+';
pattern: SEP = ',';
PROGRAM = NUM + SEP + 'x' + ITEM : make;
ITEM = NUM;
`)
	cg, _, err := Compile(g)
	require.NoError(t, err)
	// ITEM is referenced before PROGRAM is defined, so it takes production 1.
	assert.Equal(t, []int{0}, cg.Productions[0].Children)
	assert.Equal(t, []int{0, 3}, cg.Production(2).Children)
	assert.Equal(t, "make", cg.Production(2).Hook)
}

func TestCompile_Conflict(t *testing.T) {
	g := buildGrammar(t, `
PROGRAM = E;
E = E + '+' + E | 'n';
`)
	cg, report, err := Compile(g, EnableReporting())
	assert.Nil(t, cg)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, ConflictKindShiftReduce, conflict.Kind)

	require.NotNil(t, report)
	require.Len(t, report.States, 5)
	assert.Equal(t, []*spec.SRConflict{
		{Symbol: 1, State: 2, Production: 1},
	}, report.States[3].SRConflict)
	for i, state := range report.States {
		if i != 3 {
			assert.Empty(t, state.SRConflict)
		}
		assert.Empty(t, state.RRConflict)
	}
	assert.True(t, report.States[1].Accept)
}

func TestCompile_Report(t *testing.T) {
	g := buildGrammar(t, `PROGRAM = 'a' + 'b';`)
	_, report, err := Compile(g, EnableReporting())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, []*spec.ReportProduction{
		{Number: 1, Family: 0, RHS: []string{"'a'", "'b'"}},
	}, report.Productions)
	require.Len(t, report.States, 3)
	assert.Equal(t, []*spec.Transition{{Symbol: 1, State: 1}}, report.States[0].Shift)
	assert.Equal(t, []*spec.Item{{Production: 1, Dot: 0, LookAhead: []int{3}}}, report.States[0].Items)
	assert.Empty(t, report.States[0].Reduce)
	assert.False(t, report.States[0].Accept)
	assert.Equal(t, []*spec.Reduce{{LookAhead: []int{3}, Production: 1}}, report.States[2].Reduce)
	assert.True(t, report.States[2].Accept)
}

func TestCompile_Compress(t *testing.T) {
	g := buildGrammar(t, arithmeticGrammar)
	plain, _, err := Compile(g)
	require.NoError(t, err)
	compressed, _, err := Compile(g, Compress())
	require.NoError(t, err)

	cpt := compressed.ParsingTable
	ppt := plain.ParsingTable
	require.Len(t, cpt.ActionRowNums, ppt.StateCount)
	require.Len(t, cpt.GoToRowNums, ppt.StateCount)
	assert.Less(t, len(cpt.Action), len(ppt.Action))
	for s := 0; s < ppt.StateCount; s++ {
		for term := 0; term < ppt.TerminalCount; term++ {
			assert.Equal(t, ppt.ActionEntry(s, term), cpt.ActionEntry(s, term))
		}
		for fam := 0; fam < ppt.FamilyCount; fam++ {
			assert.Equal(t, ppt.GoToEntry(s, fam), cpt.GoToEntry(s, fam))
		}
	}
}

func TestCompile_MergeCores(t *testing.T) {
	g := buildGrammar(t, arithmeticGrammar)
	plain, _, err := Compile(g)
	require.NoError(t, err)
	merged, _, err := Compile(g, MergeCores())
	require.NoError(t, err)
	assert.Less(t, merged.ParsingTable.StateCount, plain.ParsingTable.StateCount)
	assert.Equal(t, plain.Productions, merged.Productions)
}

func TestCompile_StateLimit(t *testing.T) {
	g := buildGrammar(t, arithmeticGrammar)
	_, _, err := Compile(g, StateLimit(2))
	var capErr *CapacityError
	assert.True(t, errors.As(err, &capErr))
}

func TestCompile_InvalidPattern(t *testing.T) {
	g := buildGrammar(t, `
atoms: NUM;
pattern: NUM = '[0-9';
PROGRAM = NUM;
`)
	_, _, err := Compile(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern of NUM")
}

func TestCompile_NullableLookahead(t *testing.T) {
	g := buildGrammar(t, `
PROGRAM = A + B + 'c';
A = 'a';
B = '' | 'b';
`)

	reduceLookahead := func(t *testing.T, opts ...CompileOption) []string {
		t.Helper()
		cg, report, err := Compile(g, append(opts, EnableReporting())...)
		require.NoError(t, err)

		var shifted *spec.Transition
		for _, tran := range report.States[0].Shift {
			if cg.Terminals[tran.Symbol].Label() == "'a'" {
				shifted = tran
			}
		}
		require.NotNil(t, shifted)
		reduces := report.States[shifted.State].Reduce
		require.Len(t, reduces, 1)

		var labels []string
		for _, term := range reduces[0].LookAhead {
			labels = append(labels, cg.Terminals[term].Label())
		}
		return labels
	}

	assert.Equal(t, []string{"'b'"}, reduceLookahead(t))
	assert.ElementsMatch(t, []string{"'b'", "'c'"}, reduceLookahead(t, NullableLookahead()))
}
