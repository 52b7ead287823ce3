package evolution

import (
	"fmt"
	"math"
	"slices"
)

// Edge 表示从某个城市出发到 Destination 的有向边
type Edge struct {
	Destination int     `json:"destination"`
	Cost        float64 `json:"cost"`
}

// Graph 是只读的代价图，第 i 个元素为城市 i 出发的所有边
// 构建完成后不再修改，因此可以被多个并发运行的 Simulation 共享
type Graph struct {
	costs []map[int]float64
}

func NewGraph(vertices [][]Edge) (*Graph, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: 图中没有任何城市", ErrInvalidGraph)
	}

	g := &Graph{
		costs: make([]map[int]float64, len(vertices)),
	}

	for from, edges := range vertices {
		g.costs[from] = make(map[int]float64, len(edges))
		for _, edge := range edges {
			if edge.Destination < 0 || edge.Destination >= len(vertices) {
				return nil, fmt.Errorf("%w: 城市 %d 的边指向不存在的城市 %d", ErrInvalidGraph, from, edge.Destination)
			}
			if math.IsNaN(edge.Cost) || edge.Cost < 0 {
				return nil, fmt.Errorf("%w: 城市 %d 到城市 %d 的代价 %v 非法", ErrInvalidGraph, from, edge.Destination, edge.Cost)
			}
			g.costs[from][edge.Destination] = edge.Cost
		}
	}

	return g, nil
}

// NewGraphFromMatrix 用代价矩阵构建完全图，对角线会被忽略
func NewGraphFromMatrix(matrix [][]float64) (*Graph, error) {
	vertices := make([][]Edge, len(matrix))
	for i, row := range matrix {
		if len(row) != len(matrix) {
			return nil, fmt.Errorf("%w: 第 %d 行的长度为 %d，应为 %d", ErrInvalidGraph, i, len(row), len(matrix))
		}
		vertices[i] = make([]Edge, 0, len(row)-1)
		for j, cost := range row {
			if i == j {
				continue
			}
			vertices[i] = append(vertices[i], Edge{Destination: j, Cost: cost})
		}
	}

	return NewGraph(vertices)
}

// Size 返回城市数量
func (g *Graph) Size() int {
	return len(g.costs)
}

// Cost 返回 from -> to 的代价，边不存在时第二个返回值为 false
func (g *Graph) Cost(from, to int) (float64, bool) {
	if from < 0 || from >= len(g.costs) {
		return 0, false
	}
	cost, ok := g.costs[from][to]
	return cost, ok
}

// Vertices 将图导出为按目标城市排序的边列表，可用于持久化后重新构建
func (g *Graph) Vertices() [][]Edge {
	vertices := make([][]Edge, len(g.costs))
	for from, costs := range g.costs {
		vertices[from] = make([]Edge, 0, len(costs))
		for to, cost := range costs {
			vertices[from] = append(vertices[from], Edge{Destination: to, Cost: cost})
		}
		slices.SortFunc(vertices[from], func(a, b Edge) int {
			return a.Destination - b.Destination
		})
	}
	return vertices
}

// Complete 检查任意两个不同城市之间都存在有向边，缺少的第一条边以 ErrInvalidGraph 返回
func (g *Graph) Complete() error {
	for from, costs := range g.costs {
		for to := range g.costs {
			if from == to {
				continue
			}
			if _, ok := costs[to]; !ok {
				return fmt.Errorf("%w: 缺少城市 %d 到城市 %d 的边", ErrInvalidGraph, from, to)
			}
		}
	}
	return nil
}
