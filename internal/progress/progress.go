// Package progress 提供几种进度汇报器，把每一代的统计量写到 redis、终端和 Prometheus
package progress

import "github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"

// Multi 把统计量依次转发给多个汇报器，nil 会被忽略
type Multi []evolution.Reporter

func (m Multi) Report(stats evolution.Statistics) {
	for _, r := range m {
		if r != nil {
			r.Report(stats)
		}
	}
}

// Combine 过滤掉 nil 之后组合多个汇报器
func Combine(reporters ...evolution.Reporter) evolution.Reporter {
	m := make(Multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

// due 判断这一代是否需要汇报：每 interval 代一次，第 0 代和最后一代一定汇报
func due(stats evolution.Statistics, interval int) bool {
	if interval <= 1 {
		return true
	}
	return stats.Generation%interval == 0 || stats.Generation == stats.Generations-1
}
