package grammar

import (
	"github.com/emirpasic/gods/sets/hashset"

	"github.com/paladinking/desclang/grammar/symbol"
)

type closureEngine struct {
	symTab *symbol.SymbolTableReader

	// firsts caches the first-symbol sets of production families.
	firsts map[symbol.Handle]*LookaheadSet

	// nullable holds the heads of the families that can derive the empty
	// string. It is nil unless the lookahead walks past nullable followers.
	nullable *hashset.Set
}

// newClosureEngine computes lookaheads from the single symbol after the
// production being entered. With walkNullable, a follower that can derive the
// empty string lets the symbols after it through as well.
func newClosureEngine(symTab *symbol.SymbolTableReader, walkNullable bool) *closureEngine {
	c := &closureEngine{
		symTab: symTab,
		firsts: map[symbol.Handle]*LookaheadSet{},
	}
	if walkNullable {
		c.nullable = findNullable(symTab)
	}
	return c
}

func (c *closureEngine) isNullable(h symbol.Handle) bool {
	return c.nullable != nil && c.nullable.Contains(h)
}

// findNullable iterates until no more families turn out to be nullable.
func findNullable(symTab *symbol.SymbolTableReader) *hashset.Set {
	nullable := hashset.New()
	for {
		changed := false
		for _, h := range symTab.Productions() {
			head := symTab.Symbol(h).Head
			if nullable.Contains(head) {
				continue
			}
			empty := true
			for _, e := range symTab.Symbol(h).RHS {
				if !nullable.Contains(e) {
					empty = false
					break
				}
			}
			if empty {
				nullable.Add(head)
				changed = true
			}
		}
		if !changed {
			return nullable
		}
	}
}

// close expands set in place until a full pass adds no item and grows no lookahead.
func (c *closureEngine) close(set *ItemSet) *ItemSet {
	for pass := 1; ; pass++ {
		changed := false
		// Items added during a pass are visited by the next one.
		items := append([]*Item{}, set.items...)
		for _, item := range items {
			sym := item.next(c.symTab)
			if sym.IsNil() || !c.symTab.Symbol(sym).IsProduction() {
				continue
			}
			la := c.lookahead(item)
			for _, alt := range c.symTab.Alternatives(sym) {
				if set.add(alt, 0, la.Clone()) {
					changed = true
				}
			}
		}
		if !changed {
			tracer().Debugf("closure reached a fixpoint after %d passes with %d items", pass, set.Len())
			return set
		}
	}
}

// lookahead computes the lookahead of the items entering the production after
// the dot of item. Only the symbol following that production is consulted: its
// first symbols when it is a production, itself when it is a terminal, and the
// lookahead of item when the alternative ends there.
func (c *closureEngine) lookahead(item *Item) *LookaheadSet {
	rhs := c.symTab.Symbol(item.Prod).RHS
	la := NewLookaheadSet()
	for i := item.Dot + 1; i < len(rhs); i++ {
		follower := rhs[i]
		if !c.symTab.Symbol(follower).IsProduction() {
			la.Insert(follower)
			return la
		}
		la.Union(c.first(follower))
		if !c.isNullable(follower) {
			return la
		}
	}
	la.Union(item.Lookahead)
	return la
}

// first returns the terminals and literals that can start a string derived
// from the family of h. Only the first symbol of each alternative counts; an
// empty alternative adds nothing.
func (c *closureEngine) first(h symbol.Handle) *LookaheadSet {
	if set, ok := c.firsts[h]; ok {
		return set
	}
	set := NewLookaheadSet()
	c.collectFirst(h, set, hashset.New())
	c.firsts[h] = set
	return set
}

func (c *closureEngine) collectFirst(h symbol.Handle, set *LookaheadSet, visited *hashset.Set) {
	visited.Add(h)
	for _, alt := range c.symTab.Alternatives(h) {
		for _, e := range c.symTab.Symbol(alt).RHS {
			if !c.symTab.Symbol(e).IsProduction() {
				set.Insert(e)
				break
			}
			if !visited.Contains(e) {
				c.collectFirst(e, set, visited)
			}
			if !c.isNullable(e) {
				break
			}
		}
	}
}
