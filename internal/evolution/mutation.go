package evolution

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// mutate 按给定算子原地变异路线，并重新计算代价
func (t *Tour) mutate(rng *rand.Rand, op MutationOperator, g *Graph) error {
	switch op {
	case MutationInversion:
		// 两个切点都在 [1, len] 中，第二个与第一个相同时重新抽取
		first := rng.IntN(len(t.Route)) + 1
		second := rng.IntN(len(t.Route)) + 1
		for second == first {
			second = rng.IntN(len(t.Route)) + 1
		}
		t.invert(min(first, second), max(first, second))
	case MutationSingle:
		first := rng.IntN(len(t.Route))
		second := rng.IntN(len(t.Route))
		for second == first {
			second = rng.IntN(len(t.Route))
		}
		t.Route[first], t.Route[second] = t.Route[second], t.Route[first]
	case MutationMultiple:
		// 一次性不放回抽取 4 个下标，做两次独立的交换
		indices := sampleDistinct(rng, len(t.Route), 4)
		t.Route[indices[0]], t.Route[indices[1]] = t.Route[indices[1]], t.Route[indices[0]]
		t.Route[indices[2]], t.Route[indices[3]] = t.Route[indices[3]], t.Route[indices[2]]
	default:
		return fmt.Errorf("%w: 未知的变异算子 %d", ErrInvalidParameters, int(op))
	}

	return t.refresh(g)
}

/**
 * 逆转变异
 * 将路线切分为 [0,a) [a,b) [b,len) 三段，把首尾两段拼接后整体逆序，
 * 再按原长度拆回到中间段的两侧，中间段保持不变
 */
func (t *Tour) invert(a, b int) {
	head := t.Route[:a]
	middle := t.Route[a:b]
	tail := t.Route[b:]

	outer := make([]int, 0, len(head)+len(tail))
	outer = append(outer, head...)
	outer = append(outer, tail...)
	slices.Reverse(outer)

	route := make([]int, 0, len(t.Route))
	route = append(route, outer[:len(head)]...)
	route = append(route, middle...)
	route = append(route, outer[len(head):]...)

	t.Route = route
}
