package evolution

import (
	"fmt"
	"math/rand/v2"
)

// Population 固定大小的种群以及缓存的统计量
type Population struct {
	size        int
	individuals []*Tour

	best        *Tour
	worst       *Tour
	averageCost float64
}

// NewPopulation 随机生成 size 条路线组成初始种群
func NewPopulation(rng *rand.Rand, size int, g *Graph) (*Population, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: 种群大小必须为正数", ErrInvalidParameters)
	}

	p := &Population{
		size:        size,
		individuals: make([]*Tour, 0, size),
	}

	for i := 0; i < size; i++ {
		tour, err := generateTour(rng, g)
		if err != nil {
			return nil, err
		}
		p.individuals = append(p.individuals, tour)
	}

	if err := p.refresh(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Population) Size() int {
	return p.size
}

// Individuals 返回种群中的个体，调用方不应修改
func (p *Population) Individuals() []*Tour {
	return p.individuals
}

func (p *Population) Best() *Tour {
	return p.best
}

func (p *Population) Worst() *Tour {
	return p.worst
}

func (p *Population) AverageCost() float64 {
	return p.averageCost
}

// refresh 重新计算最优、最差个体以及平均代价
func (p *Population) refresh() error {
	bestIndex, err := p.bestIndex()
	if err != nil {
		return err
	}
	worstIndex, err := p.worstIndex()
	if err != nil {
		return err
	}

	sum := 0.0
	for _, tour := range p.individuals {
		sum += tour.Cost
	}

	p.best = p.individuals[bestIndex]
	p.worst = p.individuals[worstIndex]
	p.averageCost = sum / float64(len(p.individuals))
	return nil
}

// bestIndex 代价最小的个体，相同时取第一个
func (p *Population) bestIndex() (int, error) {
	if len(p.individuals) == 0 {
		return 0, ErrEmptyPopulation
	}
	best := 0
	for i := 1; i < len(p.individuals); i++ {
		if CompareTours(p.individuals[i], p.individuals[best]) < 0 {
			best = i
		}
	}
	return best, nil
}

// worstIndex 代价最大的个体，相同时取最后一个
func (p *Population) worstIndex() (int, error) {
	if len(p.individuals) == 0 {
		return 0, ErrEmptyPopulation
	}
	worst := 0
	for i := 1; i < len(p.individuals); i++ {
		if CompareTours(p.individuals[i], p.individuals[worst]) >= 0 {
			worst = i
		}
	}
	return worst, nil
}

// tournament 不放回地抽取 size 个个体，返回其中代价最小的一个
// 两次调用可能选中同一个个体
func (p *Population) tournament(rng *rand.Rand, size int) *Tour {
	indices := sampleDistinct(rng, len(p.individuals), size)

	winner := p.individuals[indices[0]]
	for _, i := range indices[1:] {
		if CompareTours(p.individuals[i], winner) < 0 {
			winner = p.individuals[i]
		}
	}
	return winner
}

// replaceWeakest 仅当子代不差于当前最差个体时替换之，返回是否发生替换
func (p *Population) replaceWeakest(child *Tour) (bool, error) {
	worst, err := p.worstIndex()
	if err != nil {
		return false, err
	}

	if p.individuals[worst].Cost < child.Cost {
		return false, nil
	}

	p.individuals[worst] = child
	return true, nil
}

/**
 * 一次稳态进化：
 * 两次锦标赛选出父本 -> 交叉得到两个子代 -> 分别变异 -> 依次尝试替换最差个体 -> 更新统计量
 * 第一个子代的替换可能改变最差个体，第二个子代需要在此基础上再比较
 */
func (p *Population) evolve(rng *rand.Rand, params *Parameters, g *Graph) error {
	firstParent := p.tournament(rng, params.TournamentSize)
	secondParent := p.tournament(rng, params.TournamentSize)

	firstChild, secondChild, err := firstParent.crossover(rng, secondParent, params.Crossover, g)
	if err != nil {
		return err
	}

	if err := firstChild.mutate(rng, params.Mutation, g); err != nil {
		return err
	}
	if err := secondChild.mutate(rng, params.Mutation, g); err != nil {
		return err
	}

	if _, err := p.replaceWeakest(firstChild); err != nil {
		return err
	}
	if _, err := p.replaceWeakest(secondChild); err != nil {
		return err
	}

	return p.refresh()
}
