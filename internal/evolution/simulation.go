package evolution

import (
	"math/rand/v2"
)

type Option func(*Simulation)

// WithRand 指定随机数源，同一个 *rand.Rand 不能被多个 Simulation 共享
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) {
		s.rng = rng
	}
}

// WithSeed 用固定种子创建随机数源，便于复现
func WithSeed(seed uint64) Option {
	return func(s *Simulation) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithReporter(reporter Reporter) Option {
	return func(s *Simulation) {
		s.reporter = reporter
	}
}

// Simulation 对一个问题实例的一次完整运行
type Simulation struct {
	parameters Parameters
	graph      *Graph
	rng        *rand.Rand
	reporter   Reporter

	population *Population
	generation int

	bestHistory    []float64
	worstHistory   []float64
	averageHistory []float64
	bestTour       *Tour
}

// New 检查参数并生成第 0 代种群
func New(parameters Parameters, g *Graph, opts ...Option) (*Simulation, error) {
	if err := parameters.Validate(g.Size()); err != nil {
		return nil, err
	}

	s := &Simulation{
		parameters:     parameters,
		graph:          g,
		bestHistory:    make([]float64, 0, parameters.Generations),
		worstHistory:   make([]float64, 0, parameters.Generations),
		averageHistory: make([]float64, 0, parameters.Generations),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		// 每个 Simulation 独立播种，避免并发运行之间的结果相关
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	population, err := NewPopulation(s.rng, parameters.PopulationSize, g)
	if err != nil {
		return nil, err
	}
	s.population = population
	s.record()

	return s, nil
}

// Run 依次执行第 1 代到第 Generations-1 代，不会提前停止
func (s *Simulation) Run() error {
	for s.generation+1 < s.parameters.Generations {
		if err := s.population.evolve(s.rng, &s.parameters, s.graph); err != nil {
			return err
		}
		s.generation++
		s.record()
	}
	return nil
}

// record 记录当前代的统计量并通知 reporter
func (s *Simulation) record() {
	stats := s.Statistics()

	s.bestHistory = append(s.bestHistory, stats.Best)
	s.worstHistory = append(s.worstHistory, stats.Worst)
	s.averageHistory = append(s.averageHistory, stats.Average)

	if s.bestTour == nil || CompareTours(s.population.Best(), s.bestTour) < 0 {
		s.bestTour = s.population.Best().Clone()
	}

	if s.reporter != nil {
		s.reporter.Report(stats)
	}
}

func (s *Simulation) Statistics() Statistics {
	return Statistics{
		Generation:  s.generation,
		Generations: s.parameters.Generations,
		Best:        s.population.Best().Cost,
		Worst:       s.population.Worst().Cost,
		Average:     s.population.AverageCost(),
	}
}

func (s *Simulation) Population() *Population {
	return s.population
}

func (s *Simulation) Result() *Result {
	return &Result{
		Parameters:     s.parameters,
		BestHistory:    s.bestHistory,
		WorstHistory:   s.worstHistory,
		AverageHistory: s.averageHistory,
		BestTour:       s.bestTour.Clone(),
	}
}
