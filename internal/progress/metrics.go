package progress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

const metricsNamespace = "tsp_evolver"

type Metrics struct {
	// GenerationsTotal 所有运行累计进化的代数，不含初始化的第 0 代
	GenerationsTotal prometheus.Counter
	// BestCost 每次运行当前的最优代价，标签 run_id
	BestCost *prometheus.GaugeVec
	// RunsTotal 完成的运行数量，标签 status (finished, failed)
	RunsTotal *prometheus.CounterVec
	// RunDurationSeconds 单次运行的耗时
	RunDurationSeconds prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GenerationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "generations_total",
			Help:      "Total number of generations evolved",
		}),
		BestCost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "best_cost",
			Help:      "Cost of the best tour of a running simulation",
		}, []string{"run_id"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Total number of simulations by final status",
		}, []string{"status"}),
		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a single simulation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
	}
}

// Reporter 返回对应运行使用的汇报器，运行结束后需要调用 Forget
func (m *Metrics) Reporter(runID string) evolution.Reporter {
	gauge := m.BestCost.WithLabelValues(runID)
	return evolution.ReporterFunc(func(stats evolution.Statistics) {
		if stats.Generation > 0 {
			m.GenerationsTotal.Inc()
		}
		gauge.Set(stats.Best)
	})
}

// Observe 记录一次运行的最终状态，并删除它的最优代价序列
func (m *Metrics) Observe(runID string, seconds float64, err error) {
	status := "finished"
	if err != nil {
		status = "failed"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(seconds)
	m.Forget(runID)
}

func (m *Metrics) Forget(runID string) {
	m.BestCost.DeleteLabelValues(runID)
}
