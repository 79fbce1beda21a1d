package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paladinking/desclang/grammar/symbol"
)

// LookaheadSet is a set of terminal handles kept in ascending order without
// duplicates.
type LookaheadSet struct {
	syms []symbol.Handle
}

func NewLookaheadSet(syms ...symbol.Handle) *LookaheadSet {
	s := &LookaheadSet{}
	for _, sym := range syms {
		s.Insert(sym)
	}
	return s
}

// Insert adds sym at its sorted position and reports whether the set grew.
func (s *LookaheadSet) Insert(sym symbol.Handle) bool {
	i := sort.Search(len(s.syms), func(i int) bool {
		return s.syms[i] >= sym
	})
	if i < len(s.syms) && s.syms[i] == sym {
		return false
	}
	s.syms = append(s.syms, 0)
	copy(s.syms[i+1:], s.syms[i:])
	s.syms[i] = sym
	return true
}

func (s *LookaheadSet) Contains(sym symbol.Handle) bool {
	for _, e := range s.syms {
		if e == sym {
			return true
		}
		if e > sym {
			return false
		}
	}
	return false
}

func (s *LookaheadSet) Equal(o *LookaheadSet) bool {
	if len(s.syms) != len(o.syms) {
		return false
	}
	for i, e := range s.syms {
		if o.syms[i] != e {
			return false
		}
	}
	return true
}

// Union merges o into s and reports whether s grew.
func (s *LookaheadSet) Union(o *LookaheadSet) bool {
	grew := false
	for _, e := range o.syms {
		if s.Insert(e) {
			grew = true
		}
	}
	return grew
}

func (s *LookaheadSet) Clone() *LookaheadSet {
	return &LookaheadSet{
		syms: append([]symbol.Handle{}, s.syms...),
	}
}

func (s *LookaheadSet) Len() int {
	return len(s.syms)
}

// Symbols returns a copy of the members in ascending order.
func (s *LookaheadSet) Symbols() []symbol.Handle {
	return append([]symbol.Handle{}, s.syms...)
}

func (s *LookaheadSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, e := range s.syms {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", e.Int())
	}
	b.WriteString("}")
	return b.String()
}
