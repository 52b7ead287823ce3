package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

// ParseParameters 把请求中的算子名称和数值组装成运行参数并做完整校验
func ParseParameters(crossover, mutation string, populationSize, tournamentSize, generations, cities int) (evolution.Parameters, error) {
	params := evolution.Parameters{
		PopulationSize: populationSize,
		TournamentSize: tournamentSize,
		Generations:    generations,
	}

	var err error
	if params.Crossover, err = evolution.ParseCrossoverOperator(crossover); err != nil {
		return params, err
	}
	if params.Mutation, err = evolution.ParseMutationOperator(mutation); err != nil {
		return params, err
	}
	if err := params.Validate(cities); err != nil {
		return params, err
	}

	return params, nil
}

func ValidateNumberRuns(numberRuns, max int) error {
	if numberRuns < 1 {
		return fmt.Errorf("%w: 运行次数至少为 1", evolution.ErrInvalidParameters)
	}
	if numberRuns > max {
		return fmt.Errorf("%w: 运行次数不能超过 %d", evolution.ErrInvalidParameters, max)
	}
	return nil
}

// ValidateCostMatrix 检查上传的代价矩阵是否为方阵
func ValidateCostMatrix(matrix [][]float64) error {
	if len(matrix) < 2 {
		return fmt.Errorf("%w: 至少需要 2 个城市", evolution.ErrInvalidGraph)
	}
	for i, row := range matrix {
		if len(row) != len(matrix) {
			return fmt.Errorf("%w: 第 %d 行有 %d 列，应为 %d 列", evolution.ErrInvalidGraph, i+1, len(row), len(matrix))
		}
	}
	return nil
}
