package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEvolutionConfig_Defaults(t *testing.T) {
	cfg, err := LoadEvolutionConfig()
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Generations)
	assert.Equal(t, 50, cfg.PopulationSize)
	assert.Equal(t, 5, cfg.TournamentSize)
	assert.Equal(t, 1, cfg.NumberRuns)
	assert.Equal(t, "fix", cfg.Crossover)
	assert.Equal(t, "single", cfg.Mutation)
}

func TestLoadEvolutionConfig_FromEnvironment(t *testing.T) {
	t.Setenv("EVOLUTION_GENERATIONS", "500")
	t.Setenv("EVOLUTION_MUTATION", "inversion")

	cfg, err := LoadEvolutionConfig()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Generations)
	assert.Equal(t, "inversion", cfg.Mutation)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	// t.Setenv 会在测试结束后恢复原值
	t.Setenv("DATABASE_DSN", "")
	require.NoError(t, os.Unsetenv("DATABASE_DSN"))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/tsp")
	t.Setenv("INITIAL_ADMIN_PASSWORD", "secret")
	t.Setenv("INITIAL_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("RABBITMQ_DSN", "amqp://localhost")
	t.Setenv("EVOLUTION_POPULATION_SIZE", "80")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/tsp", cfg.Database.DSN)
	assert.Equal(t, "simulation_queue", cfg.RabbitMQ.SimulationQueue)
	assert.Equal(t, 80, cfg.Evolution.PopulationSize)
	assert.Equal(t, 10000, cfg.Evolution.Generations)
}
