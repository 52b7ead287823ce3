package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraph_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		vertices [][]Edge
	}{
		{"empty", nil},
		{"destination out of range", [][]Edge{{{Destination: 1, Cost: 1}}, {{Destination: 2, Cost: 1}}}},
		{"negative destination", [][]Edge{{{Destination: -1, Cost: 1}}, {}}},
		{"negative cost", [][]Edge{{{Destination: 1, Cost: -3}}, {{Destination: 0, Cost: 3}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.vertices)
			require.ErrorIs(t, err, ErrInvalidGraph)
		})
	}
}

func TestGraph_CostIsDirected(t *testing.T) {
	g, err := NewGraph([][]Edge{
		{{Destination: 1, Cost: 5}},
		{{Destination: 0, Cost: 7}},
	})
	require.NoError(t, err)

	cost, ok := g.Cost(0, 1)
	assert.True(t, ok)
	assert.Equal(t, 5.0, cost)

	cost, ok = g.Cost(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 7.0, cost)

	_, ok = g.Cost(0, 0)
	assert.False(t, ok)
	_, ok = g.Cost(5, 0)
	assert.False(t, ok)
}

func TestNewGraphFromMatrix(t *testing.T) {
	g, err := NewGraphFromMatrix([][]float64{
		{0, 1, 2},
		{3, 0, 4},
		{5, 6, 0},
	})
	require.NoError(t, err)
	require.Equal(t, 3, g.Size())

	cost, ok := g.Cost(2, 1)
	require.True(t, ok)
	require.Equal(t, 6.0, cost)

	_, err = NewGraphFromMatrix([][]float64{{0, 1}, {1}})
	require.ErrorIs(t, err, ErrInvalidGraph)
}

func TestGraph_VerticesRebuildsSameGraph(t *testing.T) {
	g := smallGraph(t)

	rebuilt, err := NewGraph(g.Vertices())
	require.NoError(t, err)

	for from := 0; from < g.Size(); from++ {
		for to := 0; to < g.Size(); to++ {
			want, wantOK := g.Cost(from, to)
			got, gotOK := rebuilt.Cost(from, to)
			require.Equal(t, wantOK, gotOK)
			require.Equal(t, want, got)
		}
	}

	assert.Equal(t, []Edge{{Destination: 1, Cost: 153}, {Destination: 2, Cost: 510}, {Destination: 3, Cost: 706}}, g.Vertices()[0])
}

func TestGraph_Complete(t *testing.T) {
	g, err := NewGraphFromMatrix([][]float64{
		{0, 1, 2},
		{3, 0, 4},
		{5, 6, 0},
	})
	require.NoError(t, err)
	require.NoError(t, g.Complete())

	g, err = NewGraph([][]Edge{
		{{Destination: 1, Cost: 1}, {Destination: 2, Cost: 2}},
		{{Destination: 0, Cost: 3}, {Destination: 2, Cost: 4}},
		{{Destination: 0, Cost: 5}},
	})
	require.NoError(t, err)

	err = g.Complete()
	require.ErrorIs(t, err, ErrInvalidGraph)
	assert.Contains(t, err.Error(), "2 到城市 1")
}
