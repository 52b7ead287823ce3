package evolution

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// smallGraph 为 4 个城市的对称代价图
func smallGraph(t *testing.T) *Graph {
	t.Helper()

	g, err := NewGraph([][]Edge{
		{{Destination: 1, Cost: 153}, {Destination: 2, Cost: 510}, {Destination: 3, Cost: 706}},
		{{Destination: 0, Cost: 153}, {Destination: 2, Cost: 422}, {Destination: 3, Cost: 664}},
		{{Destination: 0, Cost: 510}, {Destination: 1, Cost: 422}, {Destination: 3, Cost: 289}},
		{{Destination: 0, Cost: 706}, {Destination: 1, Cost: 664}, {Destination: 2, Cost: 289}},
	})
	require.NoError(t, err)
	return g
}

// randomGraph 生成 n 个城市、整数代价的完全图
func randomGraph(t *testing.T, n int, seed uint64) *Graph {
	t.Helper()

	rng := newTestRand(seed)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cost := float64(rng.IntN(1000) + 1)
			matrix[i][j] = cost
			matrix[j][i] = cost
		}
	}

	g, err := NewGraphFromMatrix(matrix)
	require.NoError(t, err)
	return g
}

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func requireConsistent(t *testing.T, tour *Tour, g *Graph) {
	t.Helper()

	require.True(t, IsPermutation(tour.Route, g.Size()), "route %v is not a permutation", tour.Route)
	cost, err := Fitness(tour.Route, g)
	require.NoError(t, err)
	require.Equal(t, cost, tour.Cost)
}
