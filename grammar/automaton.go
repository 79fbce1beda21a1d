package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/paladinking/desclang/grammar/symbol"
)

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return fmt.Sprintf("%v", int(n))
}

type Edge struct {
	Symbol symbol.Handle
	Dest   stateNum
}

type State struct {
	Num    stateNum
	Items  *ItemSet
	Edges  []*Edge
	Accept bool
}

// edge returns the destination of the edge labelled sym.
func (s *State) edge(sym symbol.Handle) (stateNum, bool) {
	for _, e := range s.Edges {
		if e.Symbol == sym {
			return e.Dest, true
		}
	}
	return stateNumInitial, false
}

// Automaton owns its states in creation order. State 0 is the entry point.
type Automaton struct {
	States []*State
	symTab *symbol.SymbolTableReader
}

func (a *Automaton) format(state *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "state %v:", state.Num)
	for _, item := range state.Items.items {
		fmt.Fprintf(&b, "\n    %v", item.format(a.symTab))
	}
	return b.String()
}

type automatonBuilder struct {
	symTab     *symbol.SymbolTableReader
	closure    *closureEngine
	index      *stateIndex
	automaton  *Automaton
	stateLimit int
}

// buildAutomaton seeds state 0 with every alternative of the start family at
// dot 0 and lookahead {$}, then expands the states depth first.
func buildAutomaton(symTab *symbol.SymbolTableReader, start symbol.Handle, stateLimit int, walkNullable bool) (*Automaton, error) {
	b := &automatonBuilder{
		symTab:  symTab,
		closure: newClosureEngine(symTab, walkNullable),
		index:   newStateIndex(),
		automaton: &Automaton{
			symTab: symTab,
		},
		stateLimit: stateLimit,
	}

	seed := newItemSet()
	for _, alt := range symTab.Alternatives(start) {
		seed.add(alt, 0, NewLookaheadSet(symTab.EOF()))
	}
	b.closure.close(seed)
	fp, err := fingerprint(seed)
	if err != nil {
		return nil, err
	}
	initial, err := b.register(seed, fp)
	if err != nil {
		return nil, err
	}
	err = b.expand(initial)
	if err != nil {
		return nil, err
	}

	tracer().Infof("automaton has %d states", len(b.automaton.States))

	return b.automaton, nil
}

func (b *automatonBuilder) register(set *ItemSet, fp string) (*State, error) {
	if b.stateLimit > 0 && len(b.automaton.States) >= b.stateLimit {
		return nil, &CapacityError{
			Resource: "states",
			Limit:    b.stateLimit,
		}
	}
	state := &State{
		Num:   stateNum(len(b.automaton.States)),
		Items: set,
	}
	b.automaton.States = append(b.automaton.States, state)
	b.index.add(fp, state)
	tracer().Debugf("new state %v with %d items", state.Num, set.Len())
	return state, nil
}

func (b *automatonBuilder) expand(src *State) error {
	// Partitions by the symbol after the dot, in the order the symbols are first seen.
	parts := linkedhashmap.New()
	for _, item := range src.Items.items {
		next := item.next(b.symTab)
		if next.IsNil() {
			continue
		}
		var raw *ItemSet
		if v, ok := parts.Get(next); ok {
			raw = v.(*ItemSet)
		} else {
			raw = newItemSet()
			parts.Put(next, raw)
		}
		raw.add(item.Prod, item.Dot+1, item.Lookahead.Clone())
	}

	it := parts.Iterator()
	for it.Next() {
		sym := it.Key().(symbol.Handle)
		cand := b.closure.close(it.Value().(*ItemSet))

		dest, fp, err := b.index.find(cand)
		if err != nil {
			return err
		}
		if dest != nil {
			src.Edges = append(src.Edges, &Edge{
				Symbol: sym,
				Dest:   dest.Num,
			})
			continue
		}

		dest, err = b.register(cand, fp)
		if err != nil {
			return err
		}
		src.Edges = append(src.Edges, &Edge{
			Symbol: sym,
			Dest:   dest.Num,
		})
		err = b.expand(dest)
		if err != nil {
			return err
		}
	}

	return nil
}
