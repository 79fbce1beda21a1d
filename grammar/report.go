package grammar

import (
	"github.com/paladinking/desclang/grammar/symbol"
	spec "github.com/paladinking/desclang/spec/grammar"
)

func genReport(a *Automaton, nums *numbering, conflicts []*ConflictError) *spec.Report {
	symTab := a.symTab

	var prods []*spec.ReportProduction
	for _, h := range nums.prodHandles {
		sym := symTab.Symbol(h)
		rhs := make([]string, len(sym.RHS))
		for i, e := range sym.RHS {
			rhs[i] = symTab.Symbol(e).Label()
		}
		prods = append(prods, &spec.ReportProduction{
			Number: nums.prods[h].Int(),
			Family: nums.family(symTab, h),
			RHS:    rhs,
			Hook:   sym.Hook,
		})
	}

	srConflicts := map[stateNum][]*spec.SRConflict{}
	rrConflicts := map[stateNum][]*spec.RRConflict{}
	for _, c := range conflicts {
		switch c.Kind {
		case ConflictKindShiftReduce:
			srConflicts[stateNum(c.State)] = append(srConflicts[stateNum(c.State)], &spec.SRConflict{
				Symbol:     nums.terminals[c.sym],
				State:      c.NextState,
				Production: nums.prods[c.prods[0]].Int(),
			})
		case ConflictKindReduceReduce:
			rrConflicts[stateNum(c.State)] = append(rrConflicts[stateNum(c.State)], &spec.RRConflict{
				Symbol:      nums.terminals[c.sym],
				Production1: nums.prods[c.prods[0]].Int(),
				Production2: nums.prods[c.prods[1]].Int(),
			})
		}
	}

	states := make([]*spec.State, len(a.States))
	for i, state := range a.States {
		var items []*spec.Item
		var reduces []*spec.Reduce
		for _, item := range state.Items.items {
			la := make([]int, len(item.Lookahead.syms))
			for j, h := range item.Lookahead.syms {
				la[j] = nums.terminals[h]
			}
			items = append(items, &spec.Item{
				Production: nums.prods[item.Prod].Int(),
				Dot:        item.Dot,
				LookAhead:  la,
			})
			if item.reducible(symTab) {
				reduces = append(reduces, &spec.Reduce{
					LookAhead:  la,
					Production: nums.prods[item.Prod].Int(),
				})
			}
		}

		var shifts []*spec.Transition
		var goTos []*spec.Transition
		for _, e := range state.Edges {
			if symTab.Kind(e.Symbol) == symbol.KindProduction {
				goTos = append(goTos, &spec.Transition{
					Symbol: nums.family(symTab, e.Symbol),
					State:  e.Dest.Int(),
				})
				continue
			}
			shifts = append(shifts, &spec.Transition{
				Symbol: nums.terminals[e.Symbol],
				State:  e.Dest.Int(),
			})
		}

		states[i] = &spec.State{
			Number:     state.Num.Int(),
			Items:      items,
			Shift:      shifts,
			Reduce:     reduces,
			GoTo:       goTos,
			Accept:     state.Accept,
			SRConflict: srConflicts[state.Num],
			RRConflict: rrConflicts[state.Num],
		}
	}

	return &spec.Report{
		Terminals:   genTerminals(symTab, nums),
		Families:    genFamilies(symTab, nums),
		Productions: prods,
		States:      states,
	}
}
