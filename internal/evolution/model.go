package evolution

import "fmt"

const (
	MinPopulationSize = 10
	MinTournamentSize = 2
)

// Parameters 一次运行的参数，由外部配置层给出默认值
type Parameters struct {
	Crossover      CrossoverOperator `json:"crossover"`
	Mutation       MutationOperator  `json:"mutation"`
	PopulationSize int               `json:"populationSize"`
	TournamentSize int               `json:"tournamentSize"`
	Generations    int               `json:"generations"`
}

// Validate 在运行开始前检查参数，cities 为代价图中的城市数量
func (p *Parameters) Validate(cities int) error {
	if _, ok := crossoverNames[p.Crossover]; !ok {
		return fmt.Errorf("%w: 未知的交叉算子 %d", ErrInvalidParameters, int(p.Crossover))
	}
	if _, ok := mutationNames[p.Mutation]; !ok {
		return fmt.Errorf("%w: 未知的变异算子 %d", ErrInvalidParameters, int(p.Mutation))
	}
	if p.PopulationSize < MinPopulationSize {
		return fmt.Errorf("%w: 种群大小不能小于 %d", ErrInvalidParameters, MinPopulationSize)
	}
	if p.TournamentSize < MinTournamentSize {
		return fmt.Errorf("%w: 锦标赛大小不能小于 %d", ErrInvalidParameters, MinTournamentSize)
	}
	if p.TournamentSize > p.PopulationSize {
		return fmt.Errorf("%w: 锦标赛大小 %d 不能超过种群大小 %d", ErrInvalidParameters, p.TournamentSize, p.PopulationSize)
	}
	if p.Generations < 1 {
		return fmt.Errorf("%w: 迭代次数至少为 1", ErrInvalidParameters)
	}
	if cities < 2 {
		return fmt.Errorf("%w: 至少需要 2 个城市", ErrInvalidParameters)
	}
	// 顺序交叉和两次交换都需要抽取 4 个互不相同的下标
	if cities < 4 && (p.Crossover == CrossoverOrdered || p.Mutation == MutationMultiple) {
		return fmt.Errorf("%w: %s 交叉与 %s 变异至少需要 4 个城市", ErrInvalidParameters, p.Crossover, p.Mutation)
	}
	return nil
}

// Statistics 某一代结束后的种群统计量
type Statistics struct {
	Generation  int     `json:"generation"`
	Generations int     `json:"generations"`
	Best        float64 `json:"best"`
	Worst       float64 `json:"worst"`
	Average     float64 `json:"average"`
}

// Reporter 接收每一代的统计量，只作为旁路观察，不影响进化过程
type Reporter interface {
	Report(stats Statistics)
}

// ReporterFunc 让普通函数满足 Reporter
type ReporterFunc func(stats Statistics)

func (f ReporterFunc) Report(stats Statistics) {
	f(stats)
}

// Result 运行结束后对外暴露的结果，三条历史记录长度相同，下标即代数
type Result struct {
	Parameters     Parameters `json:"parameters"`
	BestHistory    []float64  `json:"bestHistory"`
	WorstHistory   []float64  `json:"worstHistory"`
	AverageHistory []float64  `json:"averageHistory"`
	BestTour       *Tour      `json:"bestTour"`
}
