package grammar

import (
	"github.com/cnf/structhash"
)

type itemKey struct {
	Prod      uint32
	Dot       int
	Lookahead []uint32
}

type stateKey struct {
	Items []itemKey
}

func newStateKey(set *ItemSet) *stateKey {
	key := &stateKey{
		Items: make([]itemKey, len(set.items)),
	}
	for i, item := range set.items {
		la := make([]uint32, len(item.Lookahead.syms))
		for j, h := range item.Lookahead.syms {
			la[j] = uint32(h)
		}
		key.Items[i] = itemKey{
			Prod:      uint32(item.Prod),
			Dot:       item.Dot,
			Lookahead: la,
		}
	}
	return key
}

// stateIndex buckets states by a fingerprint of their canonical item sequence.
// Equality within a bucket is still decided by comparing the item sets, so the
// index finds exactly the state a linear scan over all states would find.
type stateIndex struct {
	buckets map[string][]*State
}

func newStateIndex() *stateIndex {
	return &stateIndex{
		buckets: map[string][]*State{},
	}
}

func fingerprint(set *ItemSet) (string, error) {
	return structhash.Hash(newStateKey(set), 1)
}

func (idx *stateIndex) find(set *ItemSet) (*State, string, error) {
	fp, err := fingerprint(set)
	if err != nil {
		return nil, "", err
	}
	for _, state := range idx.buckets[fp] {
		if state.Items.equal(set) {
			return state, fp, nil
		}
	}
	return nil, fp, nil
}

func (idx *stateIndex) add(fp string, state *State) {
	idx.buckets[fp] = append(idx.buckets[fp], state)
}
