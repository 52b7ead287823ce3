// Package runner 并发地对同一个问题实例执行多次独立的进化运行
package runner

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
	"golang.org/x/sync/errgroup"
)

// newSimulation 便于测试替换
var newSimulation = evolution.New

// ReporterFactory 为第 index 次运行创建进度汇报器，可以返回 nil
type ReporterFactory func(index int, id string) evolution.Reporter

// Outcome 一次独立运行的结果，Err 不为 nil 时 Result 为 nil
type Outcome struct {
	Index    int
	ID       string
	Result   *evolution.Result
	Err      error
	Duration time.Duration
}

type Runner struct {
	// Workers 同时运行的 Simulation 数量上限，<= 0 时使用 CPU 核数
	Workers int
	// Seed 不为 0 时每次运行的种子由 Seed 和运行序号确定，便于复现
	Seed        uint64
	NewReporter ReporterFactory
	Logger      *slog.Logger
}

/**
 * Run 执行 runs 次独立运行
 * 参数错误会在启动任何运行之前返回；单次运行失败只记录在对应的 Outcome 中，不影响其他运行
 * ctx 被取消后不再启动新的运行，已经开始的运行会执行完所有代
 */
func (r *Runner) Run(ctx context.Context, g *evolution.Graph, params evolution.Parameters, runs int) ([]Outcome, error) {
	if err := params.Validate(g.Size()); err != nil {
		return nil, err
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := r.Workers
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	outcomes := make([]Outcome, runs)
	eg := errgroup.Group{}
	eg.SetLimit(concurrency)

	for i := 0; i < runs; i++ {
		outcomes[i] = Outcome{
			Index: i,
			ID:    uuid.NewString(),
		}

		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}

		eg.Go(func() error {
			outcome := &outcomes[i]
			if err := ctx.Err(); err != nil {
				outcome.Err = err
				return nil
			}

			opts := make([]evolution.Option, 0, 2)
			if r.Seed != 0 {
				opts = append(opts, evolution.WithSeed(deriveSeed(r.Seed, uint64(i))))
			}
			if r.NewReporter != nil {
				if reporter := r.NewReporter(i, outcome.ID); reporter != nil {
					opts = append(opts, evolution.WithReporter(reporter))
				}
			}

			logger.Info("开始运行", "index", i, "run_id", outcome.ID)
			start := time.Now()
			outcome.Result, outcome.Err = simulate(params, g, opts)
			outcome.Duration = time.Since(start)

			if outcome.Err != nil {
				logger.Error("运行失败", "index", i, "run_id", outcome.ID, "error", outcome.Err)
				return nil
			}

			logger.Info("运行完成", "index", i, "run_id", outcome.ID, "best", outcome.Result.BestTour.Cost, "duration", outcome.Duration)
			return nil
		})
	}

	// 每个 goroutine 都返回 nil，错误保存在各自的 Outcome 中
	_ = eg.Wait()

	return outcomes, nil
}

func simulate(params evolution.Parameters, g *evolution.Graph, opts []evolution.Option) (*evolution.Result, error) {
	sim, err := newSimulation(params, g, opts...)
	if err != nil {
		return nil, err
	}
	if err := sim.Run(); err != nil {
		return nil, err
	}
	return sim.Result(), nil
}

// deriveSeed 用 SplitMix64 混合基础种子和运行序号，得到互不相关的种子
func deriveSeed(base, stream uint64) uint64 {
	x := base ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
