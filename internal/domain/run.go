package domain

import (
	"time"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
)

// Run 一次求解请求，同一组参数会独立运行 NumberRuns 次
type Run struct {
	ID                int64                `json:"id"`
	ProblemInstanceID int64                `json:"problemInstanceID"`
	RequesterID       int64                `json:"requesterID"`
	Parameters        evolution.Parameters `json:"parameters"`
	NumberRuns        int                  `json:"numberRuns"`
	Status            RunStatus            `json:"status"`
	Error             string               `json:"error"`
	Results           []RunResult          `json:"results,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	FinishedAt        *time.Time           `json:"finishedAt"`
	Version           int32                `json:"-"`
}

// RunResult 其中一次独立运行的结果，失败时只有 Error 有意义
type RunResult struct {
	Index          int       `json:"index"`
	RunUUID        string    `json:"runUUID"`
	BestHistory    []float64 `json:"bestHistory"`
	WorstHistory   []float64 `json:"worstHistory"`
	AverageHistory []float64 `json:"averageHistory"`
	BestRoute      []int     `json:"bestRoute"`
	BestCost       float64   `json:"bestCost"`
	Error          string    `json:"error"`
	Duration       float64   `json:"duration"` // 秒
}

// RunMessage 是投递到 simulation_queue 的消息
type RunMessage struct {
	RunID int64 `json:"runID"`
}
