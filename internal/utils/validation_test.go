package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

func TestParseParameters(t *testing.T) {
	params, err := ParseParameters("ordered", "inversion", 50, 5, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, evolution.CrossoverOrdered, params.Crossover)
	assert.Equal(t, evolution.MutationInversion, params.Mutation)
	assert.Equal(t, 50, params.PopulationSize)

	tests := []struct {
		name                                        string
		crossover, mutation                         string
		population, tournament, generations, cities int
	}{
		{"未知交叉算子", "pmx", "single", 50, 5, 100, 10},
		{"未知变异算子", "fix", "scramble", 50, 5, 100, 10},
		{"种群过小", "fix", "single", 9, 5, 100, 10},
		{"锦标赛过大", "fix", "single", 10, 11, 100, 10},
		{"城市过少", "ordered", "single", 10, 2, 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParameters(tt.crossover, tt.mutation, tt.population, tt.tournament, tt.generations, tt.cities)
			assert.ErrorIs(t, err, evolution.ErrInvalidParameters)
		})
	}
}

func TestValidateNumberRuns(t *testing.T) {
	assert.NoError(t, ValidateNumberRuns(1, 32))
	assert.NoError(t, ValidateNumberRuns(32, 32))
	assert.ErrorIs(t, ValidateNumberRuns(0, 32), evolution.ErrInvalidParameters)
	assert.ErrorIs(t, ValidateNumberRuns(33, 32), evolution.ErrInvalidParameters)
}

func TestValidateCostMatrix(t *testing.T) {
	assert.NoError(t, ValidateCostMatrix([][]float64{{0, 1}, {1, 0}}))
	assert.ErrorIs(t, ValidateCostMatrix([][]float64{{0}}), evolution.ErrInvalidGraph)
	assert.ErrorIs(t, ValidateCostMatrix([][]float64{{0, 1}, {1}}), evolution.ErrInvalidGraph)
}
