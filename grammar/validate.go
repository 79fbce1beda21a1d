package grammar

import (
	"fmt"
	"strings"

	"github.com/paladinking/desclang/grammar/symbol"
)

// validateAutomaton classifies every (state, terminal) pair, collects all
// conflicts and marks the accepting states.
func validateAutomaton(a *Automaton, start symbol.Handle) []*ConflictError {
	symTab := a.symTab
	startTail := symTab.Tail(start)
	eof := symTab.EOF()

	var conflicts []*ConflictError
	for _, state := range a.States {
		for _, term := range symTab.Terminals() {
			next, shift := state.edge(term)
			var reducer *Item
			for _, item := range state.Items.items {
				if !item.reducible(symTab) || !item.Lookahead.Contains(term) {
					continue
				}
				if reducer != nil {
					conflicts = append(conflicts, &ConflictError{
						Kind:   ConflictKindReduceReduce,
						State:  state.Num.Int(),
						Symbol: symTab.Symbol(term).Label(),
						Productions: []string{
							formatProduction(symTab, reducer.Prod),
							formatProduction(symTab, item.Prod),
						},
						Dump:  a.format(state),
						sym:   term,
						prods: []symbol.Handle{reducer.Prod, item.Prod},
					})
				}
				if shift {
					conflicts = append(conflicts, &ConflictError{
						Kind:        ConflictKindShiftReduce,
						State:       state.Num.Int(),
						Symbol:      symTab.Symbol(term).Label(),
						NextState:   next.Int(),
						Productions: []string{formatProduction(symTab, item.Prod)},
						Dump:        a.format(state),
						sym:         term,
						prods:       []symbol.Handle{item.Prod},
					})
				}
				if term == eof && symTab.Tail(item.Prod) == startTail {
					state.Accept = true
				}
				reducer = item
			}
		}
	}

	if len(conflicts) > 0 {
		tracer().Infof("total %d conflicts", len(conflicts))
	}

	return conflicts
}

func (a *Automaton) acceptingStates() []stateNum {
	var states []stateNum
	for _, state := range a.States {
		if state.Accept {
			states = append(states, state.Num)
		}
	}
	return states
}

func formatProduction(symTab *symbol.SymbolTableReader, prod symbol.Handle) string {
	var b strings.Builder
	sym := symTab.Symbol(prod)
	fmt.Fprintf(&b, "%v ->", sym.Name)
	if len(sym.RHS) == 0 {
		b.WriteString(" ''")
	}
	for _, h := range sym.RHS {
		fmt.Fprintf(&b, " %v", symTab.Symbol(h).Label())
	}
	return b.String()
}
