package grammar

import (
	"fmt"
	"strings"

	"github.com/paladinking/desclang/grammar/symbol"
)

// Item is a production with a dot position and the terminals that may follow
// the production once it has been recognized.
type Item struct {
	Prod      symbol.Handle
	Dot       int
	Lookahead *LookaheadSet
}

// next returns the symbol right after the dot, or HandleNil for a reduce item.
func (i *Item) next(symTab *symbol.SymbolTableReader) symbol.Handle {
	rhs := symTab.Symbol(i.Prod).RHS
	if i.Dot >= len(rhs) {
		return symbol.HandleNil
	}
	return rhs[i.Dot]
}

func (i *Item) reducible(symTab *symbol.SymbolTableReader) bool {
	return i.Dot >= len(symTab.Symbol(i.Prod).RHS)
}

func (i *Item) less(prod symbol.Handle, dot int) bool {
	if i.Prod != prod {
		return i.Prod < prod
	}
	return i.Dot < dot
}

func (i *Item) format(symTab *symbol.SymbolTableReader) string {
	var b strings.Builder
	sym := symTab.Symbol(i.Prod)
	fmt.Fprintf(&b, "%v ->", sym.Name)
	for n, h := range sym.RHS {
		if n == i.Dot {
			b.WriteString(" .")
		}
		fmt.Fprintf(&b, " %v", symTab.Symbol(h).Label())
	}
	if i.Dot >= len(sym.RHS) {
		b.WriteString(" .")
	}
	b.WriteString(" {")
	for n, h := range i.Lookahead.syms {
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString(symTab.Symbol(h).Label())
	}
	b.WriteString("}")
	return b.String()
}

// ItemSet keeps its items ordered by (production, dot). Adding an item whose
// production and dot are already present merges the lookaheads instead.
type ItemSet struct {
	items []*Item
}

func newItemSet() *ItemSet {
	return &ItemSet{}
}

func (s *ItemSet) Items() []*Item {
	return s.items
}

func (s *ItemSet) Len() int {
	return len(s.items)
}

// add inserts an item, taking ownership of its lookahead, and reports whether
// the set changed.
func (s *ItemSet) add(prod symbol.Handle, dot int, la *LookaheadSet) bool {
	lo, hi := 0, len(s.items)
	for lo < hi {
		m := (lo + hi) / 2
		if s.items[m].less(prod, dot) {
			lo = m + 1
		} else {
			hi = m
		}
	}
	if lo < len(s.items) && s.items[lo].Prod == prod && s.items[lo].Dot == dot {
		return s.items[lo].Lookahead.Union(la)
	}
	s.items = append(s.items, nil)
	copy(s.items[lo+1:], s.items[lo:])
	s.items[lo] = &Item{
		Prod:      prod,
		Dot:       dot,
		Lookahead: la,
	}
	return true
}

func (s *ItemSet) find(prod symbol.Handle, dot int) *Item {
	for _, item := range s.items {
		if item.Prod == prod && item.Dot == dot {
			return item
		}
	}
	return nil
}

// equal compares two sets position by position, including their lookaheads.
func (s *ItemSet) equal(o *ItemSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i, item := range s.items {
		oItem := o.items[i]
		if item.Prod != oItem.Prod || item.Dot != oItem.Dot || !item.Lookahead.Equal(oItem.Lookahead) {
			return false
		}
	}
	return true
}

// sameCore compares two sets ignoring their lookaheads.
func (s *ItemSet) sameCore(o *ItemSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i, item := range s.items {
		if item.Prod != o.items[i].Prod || item.Dot != o.items[i].Dot {
			return false
		}
	}
	return true
}
