package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParameters() Parameters {
	return Parameters{
		Crossover:      CrossoverFix,
		Mutation:       MutationSingle,
		PopulationSize: 20,
		TournamentSize: 5,
		Generations:    300,
	}
}

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Parameters)
		cities int
		valid  bool
	}{
		{"default", func(p *Parameters) {}, 10, true},
		{"population too small", func(p *Parameters) { p.PopulationSize = 9 }, 10, false},
		{"tournament too small", func(p *Parameters) { p.TournamentSize = 1 }, 10, false},
		{"tournament exceeds population", func(p *Parameters) { p.TournamentSize = 21 }, 10, false},
		{"tournament equals population", func(p *Parameters) { p.TournamentSize = 20 }, 10, true},
		{"no generations", func(p *Parameters) { p.Generations = 0 }, 10, false},
		{"single city", func(p *Parameters) {}, 1, false},
		{"two cities", func(p *Parameters) {}, 2, true},
		{"ordered needs four cities", func(p *Parameters) { p.Crossover = CrossoverOrdered }, 3, false},
		{"multiple needs four cities", func(p *Parameters) { p.Mutation = MutationMultiple }, 3, false},
		{"unknown crossover", func(p *Parameters) { p.Crossover = 5 }, 10, false},
		{"unknown mutation", func(p *Parameters) { p.Mutation = 5 }, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParameters()
			tt.modify(&p)

			err := p.Validate(tt.cities)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidParameters)
			}
		})
	}
}

func TestNew_RejectsInvalidParameters(t *testing.T) {
	params := defaultParameters()
	params.TournamentSize = 100

	_, err := New(params, smallGraph(t))
	require.ErrorIs(t, err, ErrInvalidParameters)
}

func TestSimulation_Run(t *testing.T) {
	g := randomGraph(t, 14, 99)

	for _, crossover := range []CrossoverOperator{CrossoverFix, CrossoverOrdered} {
		for _, mutation := range []MutationOperator{MutationInversion, MutationSingle, MutationMultiple} {
			t.Run(crossover.String()+"/"+mutation.String(), func(t *testing.T) {
				params := defaultParameters()
				params.Crossover = crossover
				params.Mutation = mutation

				var reported []Statistics
				sim, err := New(params, g, WithSeed(1), WithReporter(ReporterFunc(func(stats Statistics) {
					reported = append(reported, stats)
				})))
				require.NoError(t, err)
				require.NoError(t, sim.Run())

				result := sim.Result()
				require.Len(t, result.BestHistory, params.Generations)
				require.Len(t, result.WorstHistory, params.Generations)
				require.Len(t, result.AverageHistory, params.Generations)
				require.Len(t, reported, params.Generations)

				for i := 1; i < len(result.BestHistory); i++ {
					require.LessOrEqual(t, result.BestHistory[i], result.BestHistory[i-1], "generation %d", i)
					require.LessOrEqual(t, result.WorstHistory[i], result.WorstHistory[i-1], "generation %d", i)
				}
				for i, stats := range reported {
					require.Equal(t, i, stats.Generation)
					require.Equal(t, params.Generations, stats.Generations)
					require.Equal(t, result.BestHistory[i], stats.Best)
				}

				requireConsistent(t, result.BestTour, g)
				assert.Equal(t, result.BestHistory[len(result.BestHistory)-1], result.BestTour.Cost)
				for _, tour := range sim.Population().Individuals() {
					requireConsistent(t, tour, g)
				}
			})
		}
	}
}

func TestSimulation_SingleGeneration(t *testing.T) {
	params := defaultParameters()
	params.Generations = 1

	sim, err := New(params, smallGraph(t), WithSeed(3))
	require.NoError(t, err)
	require.NoError(t, sim.Run())

	result := sim.Result()
	require.Len(t, result.BestHistory, 1)
	require.Equal(t, sim.Statistics().Best, result.BestHistory[0])
}

func TestSimulation_SameSeedIsReproducible(t *testing.T) {
	g := randomGraph(t, 20, 8)
	params := defaultParameters()
	params.Crossover = CrossoverOrdered
	params.Mutation = MutationMultiple

	run := func() *Result {
		sim, err := New(params, g, WithSeed(2024))
		require.NoError(t, err)
		require.NoError(t, sim.Run())
		return sim.Result()
	}

	first, second := run(), run()
	require.Equal(t, first.BestHistory, second.BestHistory)
	require.Equal(t, first.AverageHistory, second.AverageHistory)
	require.Equal(t, first.BestTour.Route, second.BestTour.Route)
}

func TestSimulation_ImprovesOnRandomGraph(t *testing.T) {
	g := randomGraph(t, 20, 31)
	params := defaultParameters()
	params.Generations = 2000

	sim, err := New(params, g, WithSeed(77))
	require.NoError(t, err)
	require.NoError(t, sim.Run())

	result := sim.Result()
	assert.Less(t, result.AverageHistory[len(result.AverageHistory)-1], result.AverageHistory[0])
}
