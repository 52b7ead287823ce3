package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

func testGraph(t *testing.T) *evolution.Graph {
	t.Helper()

	g, err := evolution.NewGraphFromMatrix([][]float64{
		{0, 10, 15, 20, 12, 30},
		{10, 0, 35, 25, 17, 28},
		{15, 35, 0, 30, 21, 11},
		{20, 25, 30, 0, 14, 19},
		{12, 17, 21, 14, 0, 23},
		{30, 28, 11, 19, 23, 0},
	})
	require.NoError(t, err)
	return g
}

func testParameters() evolution.Parameters {
	return evolution.Parameters{
		Crossover:      evolution.CrossoverOrdered,
		Mutation:       evolution.MutationInversion,
		PopulationSize: 10,
		TournamentSize: 3,
		Generations:    50,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	var (
		mu      sync.Mutex
		reports = map[int]int{}
	)

	r := &Runner{
		Workers: 2,
		Seed:    42,
		Logger:  discardLogger(),
		NewReporter: func(index int, id string) evolution.Reporter {
			return evolution.ReporterFunc(func(stats evolution.Statistics) {
				mu.Lock()
				defer mu.Unlock()
				reports[index]++
			})
		},
	}

	outcomes, err := r.Run(context.Background(), testGraph(t), testParameters(), 4)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	ids := map[string]bool{}
	for i, outcome := range outcomes {
		require.NoError(t, outcome.Err)
		assert.Equal(t, i, outcome.Index)
		assert.NotEmpty(t, outcome.ID)
		ids[outcome.ID] = true

		require.NotNil(t, outcome.Result)
		assert.Len(t, outcome.Result.BestHistory, 50)
		assert.True(t, evolution.IsPermutation(outcome.Result.BestTour.Route, 6))
		assert.Equal(t, 50, reports[i])
	}
	assert.Len(t, ids, 4)
}

func TestRunSameSeedReproducible(t *testing.T) {
	g := testGraph(t)
	params := testParameters()

	first, err := (&Runner{Workers: 3, Seed: 7, Logger: discardLogger()}).Run(context.Background(), g, params, 3)
	require.NoError(t, err)
	second, err := (&Runner{Workers: 1, Seed: 7, Logger: discardLogger()}).Run(context.Background(), g, params, 3)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Result.BestHistory, second[i].Result.BestHistory)
	}
	// 不同的运行使用不同的种子
	assert.NotEqual(t, deriveSeed(7, 0), deriveSeed(7, 1))
}

func TestRunInvalidParameters(t *testing.T) {
	params := testParameters()
	params.TournamentSize = 11

	outcomes, err := (&Runner{Logger: discardLogger()}).Run(context.Background(), testGraph(t), params, 2)
	assert.ErrorIs(t, err, evolution.ErrInvalidParameters)
	assert.Nil(t, outcomes)
}

func TestRunFailureIsolated(t *testing.T) {
	errBroken := errors.New("broken")
	var calls atomic.Int32

	original := newSimulation
	t.Cleanup(func() { newSimulation = original })
	newSimulation = func(params evolution.Parameters, g *evolution.Graph, opts ...evolution.Option) (*evolution.Simulation, error) {
		// 第二次创建失败，其余正常
		if calls.Add(1) == 2 {
			return nil, errBroken
		}
		return original(params, g, opts...)
	}

	outcomes, err := (&Runner{Workers: 1, Logger: discardLogger()}).Run(context.Background(), testGraph(t), testParameters(), 3)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			assert.ErrorIs(t, outcome.Err, errBroken)
			assert.Nil(t, outcome.Result)
			continue
		}
		assert.NotNil(t, outcome.Result)
	}
	assert.Equal(t, 1, failed)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := (&Runner{Logger: discardLogger()}).Run(ctx, testGraph(t), testParameters(), 3)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for _, outcome := range outcomes {
		assert.ErrorIs(t, outcome.Err, context.Canceled)
		assert.Nil(t, outcome.Result)
	}
}
