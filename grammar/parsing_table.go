package grammar

import (
	"github.com/paladinking/desclang/grammar/symbol"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

type productionNum int

const productionNumNil = productionNum(0)

func (n productionNum) Int() int {
	return int(n)
}

type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

// numbering assigns the table numbers: terminal columns and productions in
// ascending handle order, families in ascending order of their heads.
type numbering struct {
	terminals   map[symbol.Handle]int
	termHandles []symbol.Handle
	prods       map[symbol.Handle]productionNum
	prodHandles []symbol.Handle
	families    map[symbol.Handle]int
	famHandles  []symbol.Handle
}

func newNumbering(symTab *symbol.SymbolTableReader) *numbering {
	n := &numbering{
		terminals: map[symbol.Handle]int{},
		prods:     map[symbol.Handle]productionNum{},
		families:  map[symbol.Handle]int{},
	}
	for i, h := range symTab.Terminals() {
		n.terminals[h] = i
		n.termHandles = append(n.termHandles, h)
	}
	for i, h := range symTab.Productions() {
		n.prods[h] = productionNum(i + 1)
		n.prodHandles = append(n.prodHandles, h)
	}
	for i, h := range symTab.Families() {
		n.families[h] = i
		n.famHandles = append(n.famHandles, h)
	}
	return n
}

// family returns the family number of any alternative.
func (n *numbering) family(symTab *symbol.SymbolTableReader, prod symbol.Handle) int {
	return n.families[symTab.Symbol(prod).Head]
}

type ParsingTable struct {
	actionTable   []actionEntry
	goToTable     []goToEntry
	stateCount    int
	terminalCount int
	familyCount   int

	// errorTrapperStates[s] is 1 when state s has an edge labelled with the error symbol.
	errorTrapperStates []int
	expectedTerminals  [][]int
	acceptStates       []int
}

func (t *ParsingTable) getAction(state stateNum, term int) (ActionType, stateNum, productionNum) {
	return t.actionTable[state.Int()*t.terminalCount+term].describe()
}

func (t *ParsingTable) getGoTo(state stateNum, family int) (stateNum, bool) {
	e := t.goToTable[state.Int()*t.familyCount+family]
	return stateNum(e), e != goToEntryEmpty
}

func (t *ParsingTable) writeAction(state stateNum, term int, act actionEntry) {
	t.actionTable[state.Int()*t.terminalCount+term] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, family int, dest stateNum) {
	t.goToTable[state.Int()*t.familyCount+family] = goToEntry(dest)
}

type lrTableBuilder struct {
	automaton *Automaton
	nums      *numbering
}

// build expects a validated automaton; every (state, terminal) pair has at most one action.
func (b *lrTableBuilder) build() *ParsingTable {
	symTab := b.automaton.symTab
	stateCount := len(b.automaton.States)
	termCount := len(b.nums.termHandles)
	famCount := len(b.nums.famHandles)
	tab := &ParsingTable{
		actionTable:        make([]actionEntry, stateCount*termCount),
		goToTable:          make([]goToEntry, stateCount*famCount),
		stateCount:         stateCount,
		terminalCount:      termCount,
		familyCount:        famCount,
		errorTrapperStates: make([]int, stateCount),
		expectedTerminals:  make([][]int, stateCount),
	}

	for _, state := range b.automaton.States {
		for _, e := range state.Edges {
			sym := symTab.Symbol(e.Symbol)
			if sym.IsTerminal() {
				tab.writeAction(state.Num, b.nums.terminals[e.Symbol], newShiftActionEntry(e.Dest))
				if e.Symbol == symbol.HandleError {
					tab.errorTrapperStates[state.Num] = 1
				}
				continue
			}
			tab.writeGoTo(state.Num, b.nums.family(symTab, e.Symbol), e.Dest)
		}
		for _, item := range state.Items.items {
			if !item.reducible(symTab) {
				continue
			}
			for _, la := range item.Lookahead.syms {
				tab.writeAction(state.Num, b.nums.terminals[la], newReduceActionEntry(b.nums.prods[item.Prod]))
			}
		}
		if state.Accept {
			tab.acceptStates = append(tab.acceptStates, state.Num.Int())
		}

		expected := []int{}
		for term := 0; term < termCount; term++ {
			if b.nums.termHandles[term] == symbol.HandleError {
				continue
			}
			if act, _, _ := tab.getAction(state.Num, term); act != ActionTypeError {
				expected = append(expected, term)
			}
		}
		tab.expectedTerminals[state.Num] = expected
	}

	return tab
}
