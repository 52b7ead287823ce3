package evolution

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Tour 即染色体：城市的一个排列以及缓存的回路总代价
type Tour struct {
	Route []int   `json:"route"`
	Cost  float64 `json:"cost"`
}

// NewTour 直接用给定路线和代价创建 Tour，调用方需要自行保证二者一致
func NewTour(route []int, cost float64) *Tour {
	return &Tour{
		Route: route,
		Cost:  cost,
	}
}

// Equal 只比较代价，不比较路线
func (t *Tour) Equal(other *Tour) bool {
	return t.Cost == other.Cost
}

// CompareTours 按代价比较两条路线，比较前将代价截断为整数
func CompareTours(a, b *Tour) int {
	return cmp.Compare(int64(a.Cost), int64(b.Cost))
}

func (t *Tour) Clone() *Tour {
	return &Tour{
		Route: slices.Clone(t.Route),
		Cost:  t.Cost,
	}
}

// refresh 在路线被修改后重新计算代价
func (t *Tour) refresh(g *Graph) error {
	cost, err := Fitness(t.Route, g)
	if err != nil {
		return err
	}
	t.Cost = cost
	return nil
}

/**
 * 计算路线的回路总代价
 * 下标 0 的前驱为路线的最后一个城市（闭合回路），其余下标的前驱为 route[i-1]
 * 按下标顺序累加，保证同一路线的结果可复现
 */
func Fitness(route []int, g *Graph) (float64, error) {
	cost := 0.0

	for i, city := range route {
		prev := route[len(route)-1]
		if i > 0 {
			prev = route[i-1]
		}

		edgeCost, ok := g.Cost(prev, city)
		if !ok {
			return 0, fmt.Errorf("%w: %d -> %d", ErrMissingEdge, prev, city)
		}
		cost += edgeCost
	}

	return cost, nil
}

// generateTour 随机生成一条路线
func generateTour(rng *rand.Rand, g *Graph) (*Tour, error) {
	route := make([]int, g.Size())
	for i := range route {
		route[i] = i
	}
	rng.Shuffle(len(route), func(i, j int) {
		route[i], route[j] = route[j], route[i]
	})

	cost, err := Fitness(route, g)
	if err != nil {
		return nil, err
	}

	return &Tour{
		Route: route,
		Cost:  cost,
	}, nil
}

// sampleDistinct 从 [0, n) 中不放回地抽取 k 个下标，返回顺序是随机的
func sampleDistinct(rng *rand.Rand, n, k int) []int {
	k = min(k, n)
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// IsPermutation 检查路线是否恰好包含 0..n-1 各一次
func IsPermutation(route []int, n int) bool {
	if len(route) != n {
		return false
	}
	seen := make([]bool, n)
	for _, city := range route {
		if city < 0 || city >= n || seen[city] {
			return false
		}
		seen[city] = true
	}
	return true
}
