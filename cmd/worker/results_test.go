package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/runner"
)

func succeeded(index int, cost float64) runner.Outcome {
	return runner.Outcome{
		Index: index,
		ID:    "run-" + string(rune('a'+index)),
		Result: &evolution.Result{
			BestHistory:    []float64{cost + 10, cost},
			WorstHistory:   []float64{cost + 30, cost + 20},
			AverageHistory: []float64{cost + 20, cost + 10},
			BestTour:       evolution.NewTour([]int{0, 2, 1}, cost),
		},
		Duration: 1500 * time.Millisecond,
	}
}

func failed(index int) runner.Outcome {
	return runner.Outcome{
		Index: index,
		ID:    "run-" + string(rune('a'+index)),
		Err:   evolution.ErrMissingEdge,
	}
}

func TestCollectResults(t *testing.T) {
	results, status, errMsg := collectResults([]runner.Outcome{succeeded(0, 100), failed(1), succeeded(2, 90)})

	require.Len(t, results, 3)
	assert.Equal(t, domain.RunStatusFinished, status)
	assert.Contains(t, errMsg, "第 2 次运行 (run-b)")

	assert.Equal(t, 100.0, results[0].BestCost)
	assert.Equal(t, []int{0, 2, 1}, results[0].BestRoute)
	assert.Equal(t, 1.5, results[0].Duration)

	assert.Equal(t, evolution.ErrMissingEdge.Error(), results[1].Error)
	assert.Empty(t, results[1].BestHistory)
	assert.NotNil(t, results[1].BestRoute)

	costs, failedRuns := bestCosts(results)
	assert.Equal(t, []float64{100, 90}, costs)
	assert.Equal(t, 1, failedRuns)
}

func TestCollectResultsAllFailed(t *testing.T) {
	_, status, errMsg := collectResults([]runner.Outcome{failed(0), failed(1)})

	assert.Equal(t, domain.RunStatusFailed, status)
	assert.NotEmpty(t, errMsg)
}

func TestCollectResultsAllSucceeded(t *testing.T) {
	_, status, errMsg := collectResults([]runner.Outcome{succeeded(0, 1)})

	assert.Equal(t, domain.RunStatusFinished, status)
	assert.Empty(t, errMsg)
}
