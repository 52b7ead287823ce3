package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitness(t *testing.T) {
	g := smallGraph(t)

	cost, err := Fitness([]int{2, 0, 1, 3}, g)
	require.NoError(t, err)
	require.Equal(t, 289.0+510.0+153.0+664.0, cost)

	again, err := Fitness([]int{2, 0, 1, 3}, g)
	require.NoError(t, err)
	require.Equal(t, cost, again)
}

func TestFitness_MissingEdge(t *testing.T) {
	g, err := NewGraph([][]Edge{
		{{Destination: 1, Cost: 1}},
		{{Destination: 2, Cost: 1}},
		{},
	})
	require.NoError(t, err)

	_, err = Fitness([]int{0, 1, 2}, g)
	require.ErrorIs(t, err, ErrMissingEdge)
}

func TestGenerateTour(t *testing.T) {
	g := randomGraph(t, 30, 7)
	rng := newTestRand(42)

	for i := 0; i < 50; i++ {
		tour, err := generateTour(rng, g)
		require.NoError(t, err)
		requireConsistent(t, tour, g)
	}
}

func TestCompareTours(t *testing.T) {
	assert.Equal(t, 0, CompareTours(NewTour(nil, 10.2), NewTour(nil, 10.9)))
	assert.Equal(t, -1, CompareTours(NewTour(nil, 9.9), NewTour(nil, 10.0)))
	assert.Equal(t, 1, CompareTours(NewTour(nil, 11), NewTour(nil, 10)))

	// 只比较代价，不比较路线
	assert.True(t, NewTour([]int{0, 1}, 3).Equal(NewTour([]int{1, 0}, 3)))
	assert.False(t, NewTour([]int{0, 1}, 3).Equal(NewTour([]int{0, 1}, 4)))
}

func TestTour_CloneDoesNotAlias(t *testing.T) {
	tour := NewTour([]int{0, 1, 2}, 5)
	clone := tour.Clone()
	clone.Route[0] = 2

	assert.Equal(t, []int{0, 1, 2}, tour.Route)
}

func TestSampleDistinct(t *testing.T) {
	rng := newTestRand(1)

	for i := 0; i < 100; i++ {
		sample := sampleDistinct(rng, 10, 4)
		require.Len(t, sample, 4)

		seen := map[int]bool{}
		for _, v := range sample {
			require.GreaterOrEqual(t, v, 0)
			require.Less(t, v, 10)
			require.False(t, seen[v])
			seen[v] = true
		}
	}

	assert.Len(t, sampleDistinct(rng, 3, 5), 3)
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, IsPermutation([]int{2, 0, 1}, 3))
	assert.False(t, IsPermutation([]int{2, 0, 0}, 3))
	assert.False(t, IsPermutation([]int{2, 0, 3}, 3))
	assert.False(t, IsPermutation([]int{0, 1}, 3))
}
