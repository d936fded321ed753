package domain

import (
	"math/rand/v2"
	"sort"
)

// Sample picks which of n candidates survive a cap of limit. The
// choice is a seeded shuffle, so equal seeds pick equal subsets, and
// the returned positions are ascending so survivors keep their
// discovery order. A non-positive or generous limit keeps everything.
func Sample(n, limit int, seed uint64) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}

	if limit <= 0 || limit >= n {
		return positions
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(n, func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	picked := positions[:limit]
	sort.Ints(picked)

	return picked
}
