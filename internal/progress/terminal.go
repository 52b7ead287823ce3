package progress

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

/**
 * Terminal 汇总多次并发运行的进度
 * 输出是终端时在同一行刷新总进度，否则每 interval 代输出一条日志
 */
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	tty      bool
	interval int
	logger   *slog.Logger
	done     []int
	total    []int
	best     float64
	finished bool
}

func NewTerminal(out *os.File, runs int, interval int, logger *slog.Logger) *Terminal {
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return newTerminal(out, tty, runs, interval, logger)
}

func newTerminal(out io.Writer, tty bool, runs int, interval int, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminal{
		out:      out,
		tty:      tty,
		interval: interval,
		logger:   logger,
		done:     make([]int, runs),
		total:    make([]int, runs),
		best:     math.Inf(1),
	}
}

// Reporter 返回第 index 次运行使用的汇报器
func (t *Terminal) Reporter(index int) evolution.Reporter {
	return evolution.ReporterFunc(func(stats evolution.Statistics) {
		t.report(index, stats)
	})
}

func (t *Terminal) report(index int, stats evolution.Statistics) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done[index] = stats.Generation + 1
	t.total[index] = stats.Generations
	t.best = math.Min(t.best, stats.Best)

	if !t.tty {
		if due(stats, t.interval) {
			t.logger.Info("进化进度",
				"run", index+1,
				"generation", stats.Generation,
				"generations", stats.Generations,
				"best", stats.Best,
				"average", stats.Average,
				"worst", stats.Worst,
			)
		}
		return
	}

	done, total := 0, 0
	for i := range t.done {
		done += t.done[i]
		total += t.total[i]
	}
	// 尚未开始的运行按同样的代数计入总量
	if stats.Generations > 0 {
		for i := range t.total {
			if t.total[i] == 0 {
				total += stats.Generations
			}
		}
	}

	fmt.Fprintf(t.out, "\r进度 %5.1f%% (%d/%d 代)  当前最优 %.0f", 100*float64(done)/float64(total), done, total, t.best)
}

// Finish 结束终端上的进度行
func (t *Terminal) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tty && !t.finished {
		fmt.Fprintln(t.out)
	}
	t.finished = true
}
