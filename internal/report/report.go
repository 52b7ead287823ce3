// Package report 把多次独立运行的历史记录整理成可直接绘图的序列
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

var (
	ErrNoData         = errors.New("没有可用于统计的运行记录")
	ErrLengthMismatch = errors.New("各次运行的代数不一致")
	ErrUnknownOption  = errors.New("未知的统计选项")
)

// Statistic 选择每次运行中的哪一条历史记录
type Statistic int

const (
	StatisticBest Statistic = iota
	StatisticWorst
	StatisticAverage
)

var statisticNames = map[Statistic]string{
	StatisticBest:    "best",
	StatisticWorst:   "worst",
	StatisticAverage: "average",
}

func (s Statistic) String() string {
	if name, ok := statisticNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Statistic(%d)", int(s))
}

func ParseStatistic(s string) (Statistic, error) {
	for statistic, name := range statisticNames {
		if strings.EqualFold(s, name) {
			return statistic, nil
		}
	}
	return 0, fmt.Errorf("%w: 统计量 %q", ErrUnknownOption, s)
}

// Mode 决定如何在多次运行之间汇总
type Mode int

const (
	// ModeAverage 逐代求所有运行的平均值
	ModeAverage Mode = iota
	// ModeBest 最终值最小的那次运行
	ModeBest
	// ModeWorst 最终值最大的那次运行
	ModeWorst
	// ModeRange 同时给出最差、平均和最优三条序列
	ModeRange
	// ModeAll 每次运行一条序列
	ModeAll
)

var modeNames = map[Mode]string{
	ModeAverage: "average",
	ModeBest:    "best",
	ModeWorst:   "worst",
	ModeRange:   "range",
	ModeAll:     "all",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	for mode, name := range modeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: 汇总方式 %q", ErrUnknownOption, s)
}

// History 一次运行的三条历史记录，下标为代数；Run 为该运行在整个请求中的下标
type History struct {
	Run     int
	Best    []float64
	Worst   []float64
	Average []float64
}

func FromResult(run int, result *evolution.Result) History {
	return History{
		Run:     run,
		Best:    result.BestHistory,
		Worst:   result.WorstHistory,
		Average: result.AverageHistory,
	}
}

func (h History) values(statistic Statistic) []float64 {
	switch statistic {
	case StatisticWorst:
		return h.Worst
	case StatisticAverage:
		return h.Average
	default:
		return h.Best
	}
}

type Series struct {
	Name string `json:"name"`
	// Run 为该序列来自的运行下标，汇总得到的序列为 -1
	Run    int       `json:"run"`
	Values []float64 `json:"values"`
	Final  float64   `json:"final"`
}

type Report struct {
	Statistic string   `json:"statistic"`
	Mode      string   `json:"mode"`
	Series    []Series `json:"series"`
}

func Build(histories []History, statistic Statistic, mode Mode) (*Report, error) {
	if _, ok := statisticNames[statistic]; !ok {
		return nil, fmt.Errorf("%w: 统计量 %d", ErrUnknownOption, int(statistic))
	}
	if _, ok := modeNames[mode]; !ok {
		return nil, fmt.Errorf("%w: 汇总方式 %d", ErrUnknownOption, int(mode))
	}

	data := make([][]float64, len(histories))
	for i, h := range histories {
		data[i] = h.values(statistic)
	}
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, ErrNoData
	}
	for i, values := range data {
		if len(values) != len(data[0]) {
			return nil, fmt.Errorf("%w: 第 %d 次运行有 %d 代，第 %d 次运行有 %d 代", ErrLengthMismatch, histories[i].Run+1, len(values), histories[0].Run+1, len(data[0]))
		}
	}

	report := &Report{
		Statistic: statistic.String(),
		Mode:      mode.String(),
	}

	switch mode {
	case ModeAverage:
		report.Series = []Series{newSeries("average", -1, mean(data))}
	case ModeBest:
		i := extreme(data, func(a, b float64) bool { return a < b })
		report.Series = []Series{newSeries("best", histories[i].Run, data[i])}
	case ModeWorst:
		i := extreme(data, func(a, b float64) bool { return a > b })
		report.Series = []Series{newSeries("worst", histories[i].Run, data[i])}
	case ModeRange:
		worst := extreme(data, func(a, b float64) bool { return a > b })
		best := extreme(data, func(a, b float64) bool { return a < b })
		report.Series = []Series{
			newSeries("worst", histories[worst].Run, data[worst]),
			newSeries("average", -1, mean(data)),
			newSeries("best", histories[best].Run, data[best]),
		}
	case ModeAll:
		report.Series = make([]Series, len(data))
		for i, values := range data {
			run := histories[i].Run
			report.Series[i] = newSeries(fmt.Sprintf("run %d", run+1), run, values)
		}
	}

	return report, nil
}

func newSeries(name string, run int, values []float64) Series {
	return Series{
		Name:   name,
		Run:    run,
		Values: values,
		Final:  values[len(values)-1],
	}
}

func mean(data [][]float64) []float64 {
	result := make([]float64, len(data[0]))
	for _, values := range data {
		for i, v := range values {
			result[i] += v
		}
	}
	for i := range result {
		result[i] /= float64(len(data))
	}
	return result
}

// extreme 按最后一代的值挑选运行，相同时保留靠前的
func extreme(data [][]float64, better func(a, b float64) bool) int {
	index := 0
	for i := 1; i < len(data); i++ {
		if better(data[i][len(data[i])-1], data[index][len(data[index])-1]) {
			index = i
		}
	}
	return index
}
