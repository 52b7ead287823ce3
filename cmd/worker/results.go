package main

import (
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/runner"
)

/**
 * collectResults 把各次运行的结果整理为持久化的格式
 * 只要有一次运行成功整体就算完成，全部失败时为失败，失败原因汇总到 errMsg
 */
func collectResults(outcomes []runner.Outcome) (results []domain.RunResult, status domain.RunStatus, errMsg string) {
	results = make([]domain.RunResult, len(outcomes))
	failures := make([]string, 0)

	for i, outcome := range outcomes {
		result := domain.RunResult{
			Index:          outcome.Index,
			RunUUID:        outcome.ID,
			BestHistory:    []float64{},
			WorstHistory:   []float64{},
			AverageHistory: []float64{},
			BestRoute:      []int{},
			Duration:       outcome.Duration.Seconds(),
		}

		if outcome.Err != nil {
			result.Error = outcome.Err.Error()
			failures = append(failures, fmt.Sprintf("第 %d 次运行 (%s): %s", outcome.Index+1, outcome.ID, result.Error))
		} else {
			result.BestHistory = outcome.Result.BestHistory
			result.WorstHistory = outcome.Result.WorstHistory
			result.AverageHistory = outcome.Result.AverageHistory
			result.BestRoute = outcome.Result.BestTour.Route
			result.BestCost = outcome.Result.BestTour.Cost
		}

		results[i] = result
	}

	status = domain.RunStatusFinished
	if len(failures) == len(outcomes) {
		status = domain.RunStatusFailed
	}

	return results, status, strings.Join(failures, "; ")
}

// bestCosts 返回成功运行的最优代价，用于通知邮件
func bestCosts(results []domain.RunResult) ([]float64, int) {
	costs := make([]float64, 0, len(results))
	failed := 0
	for _, result := range results {
		if result.Error != "" {
			failed++
			continue
		}
		costs = append(costs, result.BestCost)
	}
	return costs, failed
}
