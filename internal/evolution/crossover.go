package evolution

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// unassigned 为顺序交叉中尚未填充的位置的标记
const unassigned = -1

// crossover 以 t 为第一个父本、other 为第二个父本生成两个子代
func (t *Tour) crossover(rng *rand.Rand, other *Tour, op CrossoverOperator, g *Graph) (*Tour, *Tour, error) {
	var first, second []int

	switch op {
	case CrossoverFix:
		// 交叉点在 [1, len-1] 中，保证两段都不为空
		point := rng.IntN(len(t.Route)-1) + 1

		first = make([]int, 0, len(t.Route))
		first = append(first, t.Route[:point]...)
		first = append(first, other.Route[point:]...)

		second = make([]int, 0, len(t.Route))
		second = append(second, other.Route[:point]...)
		second = append(second, t.Route[point:]...)

		repairChild(first)
		repairChild(second)
	case CrossoverOrdered:
		// 4 个互不相同的切点，升序后得到两个不重叠的片段
		points := sampleDistinct(rng, len(t.Route), 4)
		slices.Sort(points)

		var err error
		if first, err = orderedChild(t.Route, other.Route, points); err != nil {
			return nil, nil, err
		}
		if second, err = orderedChild(other.Route, t.Route, points); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: 未知的交叉算子 %d", ErrInvalidParameters, int(op))
	}

	firstChild := &Tour{Route: first}
	if err := firstChild.refresh(g); err != nil {
		return nil, nil, err
	}
	secondChild := &Tour{Route: second}
	if err := secondChild.refresh(g); err != nil {
		return nil, nil, err
	}

	return firstChild, secondChild, nil
}

/**
 * 修复单点交叉产生的子代
 * 缺失的城市按升序收集；重复的城市从左到右扫描，记录其较早出现的位置；
 * 然后按顺序一一对应地用缺失城市替换重复位置
 */
func repairChild(child []int) {
	n := len(child)
	count := make([]int, n)
	for _, city := range child {
		if city >= 0 && city < n {
			count[city]++
		}
	}

	missing := make([]int, 0)
	for city, c := range count {
		if c == 0 {
			missing = append(missing, city)
		}
	}
	if len(missing) == 0 {
		return
	}

	duplicates := make([]int, 0, len(missing))
	for i, city := range child {
		if city >= 0 && city < n && count[city] > 1 {
			duplicates = append(duplicates, i)
			count[city]--
		}
	}

	for i := 0; i < min(len(duplicates), len(missing)); i++ {
		child[duplicates[i]] = missing[i]
	}
}

/**
 * 顺序交叉
 * points 为升序的 4 个切点，[points[0], points[1]] 与 [points[2], points[3]]（闭区间）
 * 两段从 first 原位继承；其余城市按照它们在 second 中的位置排序后，从左到右填入空位
 */
func orderedChild(first, second []int, points []int) ([]int, error) {
	n := len(first)
	child := make([]int, n)
	for i := range child {
		child[i] = unassigned
	}

	inherited := make([]bool, n)
	for _, segment := range [][2]int{{points[0], points[1]}, {points[2], points[3]}} {
		for i := segment[0]; i <= segment[1]; i++ {
			city := first[i]
			if city < 0 || city >= n {
				return nil, fmt.Errorf("%w: 城市 %d 超出范围", ErrCityNotFound, city)
			}
			child[i] = city
			inherited[city] = true
		}
	}

	// 若存在重复，取最后一次出现的位置
	position := make(map[int]int, n)
	for i, city := range second {
		position[city] = i
	}

	type replacement struct {
		index int
		city  int
	}
	remainder := make([]replacement, 0, n)
	for _, city := range first {
		if city < 0 || city >= n {
			return nil, fmt.Errorf("%w: 城市 %d 超出范围", ErrCityNotFound, city)
		}
		if inherited[city] {
			continue
		}
		index, ok := position[city]
		if !ok {
			return nil, fmt.Errorf("%w: 第二个父本中没有城市 %d", ErrCityNotFound, city)
		}
		remainder = append(remainder, replacement{index: index, city: city})
	}
	slices.SortStableFunc(remainder, func(a, b replacement) int {
		return a.index - b.index
	})

	next := 0
	for _, r := range remainder {
		if inherited[r.city] {
			continue
		}
		for next < n && child[next] != unassigned {
			next++
		}
		if next == n {
			return nil, fmt.Errorf("%w: 子代中没有空位放置城市 %d", ErrCityNotFound, r.city)
		}
		child[next] = r.city
		inherited[r.city] = true
	}

	if slices.Contains(child, unassigned) {
		return nil, fmt.Errorf("%w: 子代中仍有未填充的位置", ErrCityNotFound)
	}

	return child, nil
}
