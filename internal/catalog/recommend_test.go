package catalog

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRecommendPicksDistinctItems(t *testing.T) {
	items := DefaultItems()
	before := DefaultItems()

	got := Recommend(items, 3, rand.New(rand.NewPCG(1, 2)))

	assert.Len(t, got, 3)
	seen := map[int]bool{}
	for _, it := range got {
		assert.False(t, seen[it.ID], "duplicate %s", it.Name)
		seen[it.ID] = true
		assert.Contains(t, items, it)
	}
	if diff := cmp.Diff(before, items); diff != "" {
		t.Errorf("input modified (-before +after):\n%s", diff)
	}
}

func TestRecommendIsDeterministicForASeed(t *testing.T) {
	a := Recommend(DefaultItems(), 3, rand.New(rand.NewPCG(7, 7)))
	b := Recommend(DefaultItems(), 3, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestRecommendBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	two := DefaultItems()[:2]

	assert.Len(t, Recommend(two, 3, rng), 2)
	assert.Empty(t, Recommend(two, 0, rng))
	assert.Empty(t, Recommend(two, -1, rng))
	assert.NotNil(t, Recommend(nil, 3, rng))
	assert.Empty(t, Recommend(nil, 3, rng))
}
