package domain

import (
	"math/rand"

	m "bespec.dev/pkg/bespec/internal/model"
)

// Shuffle returns a reordered copy of the forest. One generator seeded from
// seed permutes every sibling list, recursing into group children in their
// post-permutation order, so a single seed deterministically orders the whole
// forest. The same (seed, forest) pair always yields the same ordering; the
// input is never modified.
func Shuffle(seed int64, forest []m.Node) []m.Node {
	rng := rand.New(rand.NewSource(seed))

	return shuffleLevel(rng, forest)
}

func shuffleLevel(rng *rand.Rand, nodes []m.Node) []m.Node {
	shuffled := make([]m.Node, len(nodes))
	for i, j := range rng.Perm(len(nodes)) {
		shuffled[i] = nodes[j]
	}

	for i, node := range shuffled {
		g, ok := node.(*m.Group)
		if !ok {
			continue
		}

		shuffled[i] = &m.Group{
			Description: g.Description,
			Hooks:       g.Hooks,
			Children:    shuffleLevel(rng, g.Children),
			Focused:     g.Focused,
		}
	}

	return shuffled
}
