package evolution

import (
	"fmt"
	"strings"
)

// CrossoverOperator 交叉算子
type CrossoverOperator int

const (
	CrossoverFix     CrossoverOperator = iota // 单点交叉 + 修复
	CrossoverOrdered                          // 双片段顺序交叉
)

var crossoverNames = map[CrossoverOperator]string{
	CrossoverFix:     "fix",
	CrossoverOrdered: "ordered",
}

func (c CrossoverOperator) String() string {
	if name, ok := crossoverNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CrossoverOperator(%d)", int(c))
}

func ParseCrossoverOperator(s string) (CrossoverOperator, error) {
	for op, name := range crossoverNames {
		if strings.EqualFold(s, name) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: 未知的交叉算子 %q", ErrInvalidParameters, s)
}

func (c CrossoverOperator) MarshalText() ([]byte, error) {
	if _, ok := crossoverNames[c]; !ok {
		return nil, fmt.Errorf("%w: 未知的交叉算子 %d", ErrInvalidParameters, int(c))
	}
	return []byte(c.String()), nil
}

func (c *CrossoverOperator) UnmarshalText(text []byte) error {
	op, err := ParseCrossoverOperator(string(text))
	if err != nil {
		return err
	}
	*c = op
	return nil
}

// MutationOperator 变异算子
type MutationOperator int

const (
	MutationInversion MutationOperator = iota // 逆转变异
	MutationSingle                            // 单次交换
	MutationMultiple                          // 两次交换
)

var mutationNames = map[MutationOperator]string{
	MutationInversion: "inversion",
	MutationSingle:    "single",
	MutationMultiple:  "multiple",
}

func (m MutationOperator) String() string {
	if name, ok := mutationNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MutationOperator(%d)", int(m))
}

func ParseMutationOperator(s string) (MutationOperator, error) {
	for op, name := range mutationNames {
		if strings.EqualFold(s, name) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: 未知的变异算子 %q", ErrInvalidParameters, s)
}

func (m MutationOperator) MarshalText() ([]byte, error) {
	if _, ok := mutationNames[m]; !ok {
		return nil, fmt.Errorf("%w: 未知的变异算子 %d", ErrInvalidParameters, int(m))
	}
	return []byte(m.String()), nil
}

func (m *MutationOperator) UnmarshalText(text []byte) error {
	op, err := ParseMutationOperator(string(text))
	if err != nil {
		return err
	}
	*m = op
	return nil
}
