package grammar

// mergeCores folds together the states whose item sets have the same core,
// uniting their lookaheads item by item. The first state of each core group
// represents the group. Surviving states keep their creation order and are
// renumbered densely, so state 0 stays the initial state.
//
// Merging may introduce reduce/reduce conflicts that the unmerged automaton
// did not have; validation runs on the merged result.
func mergeCores(a *Automaton) {
	reps := []*State{}
	newNum := make(map[stateNum]stateNum, len(a.States))
	for _, state := range a.States {
		var rep *State
		for _, r := range reps {
			if r.Items.sameCore(state.Items) {
				rep = r
				break
			}
		}
		if rep == nil {
			newNum[state.Num] = stateNum(len(reps))
			reps = append(reps, state)
			continue
		}
		for i, item := range state.Items.items {
			rep.Items.items[i].Lookahead.Union(item.Lookahead)
		}
		newNum[state.Num] = newNum[rep.Num]
	}

	if len(reps) == len(a.States) {
		return
	}

	tracer().Infof("merged %d states into %d", len(a.States), len(reps))

	for _, state := range reps {
		state.Num = newNum[state.Num]
		for _, e := range state.Edges {
			e.Dest = newNum[e.Dest]
		}
	}
	a.States = reps
}
