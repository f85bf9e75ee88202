package quiz

import (
	"math/rand"
	"sort"
	"time"
)

// Sample draws up to k questions from qs in uniformly random order: each
// question gets an independent random key and the set is sorted by key, so
// every permutation is reachable and nothing repeats. k > len(qs) returns
// all of qs shuffled; an empty set returns an empty slice, never an error.
func Sample(qs []Question, k int, rng *rand.Rand) []Question {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if k < 0 {
		k = 0
	}
	type keyed struct {
		q   Question
		key float64
	}
	keys := make([]keyed, len(qs))
	for i, q := range qs {
		keys[i] = keyed{q: q, key: rng.Float64()}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].key < keys[j].key })

	if k > len(keys) {
		k = len(keys)
	}
	out := make([]Question, 0, k)
	for _, e := range keys[:k] {
		out = append(out, e.q)
	}
	return out
}
