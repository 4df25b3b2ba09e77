package catalog

import "math/rand/v2"

// Recommend returns up to n distinct items from items in random order.
// items is not modified.
func Recommend(items []Item, n int, rng *rand.Rand) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out[:min(max(n, 0), len(out))]
}
