package tsplib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

const burmaSmall = `<travellingSalesmanProblemInstance>
<name>burma14</name>
<source>TSPLIB</source>
<description>14-Staedte in Burma (Zaw Win)</description>
<doublePrecision>15</doublePrecision>
<ignoredDigits>5</ignoredDigits>
<graph>
<vertex>
    <edge cost="1.530000000000000e+02">1</edge>
    <edge cost="5.100000000000000e+02">2</edge>
    <edge cost="7.060000000000000e+02">3</edge>
</vertex>
<vertex>
    <edge cost="1.530000000000000e+02">0</edge>
    <edge cost="4.220000000000000e+02">2</edge>
    <edge cost="6.640000000000000e+02">3</edge>
</vertex>
<vertex>
    <edge cost="5.100000000000000e+02">0</edge>
    <edge cost="4.220000000000000e+02">1</edge>
    <edge cost="2.890000000000000e+02">3</edge>
</vertex>
<vertex>
    <edge cost="7.060000000000000e+02">0</edge>
    <edge cost="6.640000000000000e+02">1</edge>
    <edge cost="2.890000000000000e+02">2</edge>
</vertex>
</graph>
</travellingSalesmanProblemInstance>`

func TestParse(t *testing.T) {
	instance, err := Parse(strings.NewReader(burmaSmall))
	require.NoError(t, err)

	assert.Equal(t, "burma14", instance.Name)
	assert.Equal(t, "TSPLIB", instance.Source)
	assert.Equal(t, "14-Staedte in Burma (Zaw Win)", instance.Description)
	assert.Equal(t, 15.0, instance.DoublePrecision)
	assert.Equal(t, 5, instance.IgnoredDigits)
	require.Len(t, instance.Vertices, 4)
	require.Len(t, instance.Vertices[2].Edges, 3)

	g, err := instance.Graph()
	require.NoError(t, err)
	require.Equal(t, 4, g.Size())

	cost, err := evolution.Fitness([]int{2, 0, 1, 3}, g)
	require.NoError(t, err)
	assert.Equal(t, 1616.0, cost)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burma.xml")
	require.NoError(t, os.WriteFile(path, []byte(burmaSmall), 0o644))

	instance, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "burma14", instance.Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.xml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", "<travellingSalesmanProblemInstance><name>"},
		{"wrong root", "<foo></foo>"},
		{"no vertices", "<travellingSalesmanProblemInstance><name>x</name><graph></graph></travellingSalesmanProblemInstance>"},
		{"single city", "<travellingSalesmanProblemInstance><name>x</name><graph><vertex></vertex></graph></travellingSalesmanProblemInstance>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.ErrorIs(t, err, ErrInvalidInstance)
		})
	}
}

func TestInstance_GraphInvalidEdges(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"non integer destination", `<travellingSalesmanProblemInstance><graph><vertex><edge cost="1">a</edge></vertex><vertex></vertex></graph></travellingSalesmanProblemInstance>`},
		{"destination out of range", `<travellingSalesmanProblemInstance><graph><vertex><edge cost="1">5</edge></vertex><vertex></vertex></graph></travellingSalesmanProblemInstance>`},
		{"missing edge", `<travellingSalesmanProblemInstance><graph>
<vertex><edge cost="1">1</edge><edge cost="1">2</edge><edge cost="1">3</edge></vertex>
<vertex><edge cost="1">0</edge><edge cost="1">2</edge><edge cost="1">3</edge></vertex>
<vertex><edge cost="1">0</edge><edge cost="1">1</edge></vertex>
<vertex><edge cost="1">0</edge><edge cost="1">1</edge><edge cost="1">2</edge></vertex>
</graph></travellingSalesmanProblemInstance>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance, err := Parse(strings.NewReader(tt.src))
			require.NoError(t, err)

			_, err = instance.Graph()
			require.ErrorIs(t, err, ErrInvalidInstance)
		})
	}
}
