package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

const runColumns = `
	id, problem_instance_id, requester_id, crossover, mutation, population_size, tournament_size,
	generations, number_runs, status, error, created_at, finished_at, version
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	run := &domain.Run{}
	var crossover, mutation string
	var finishedAt sql.NullTime

	dst := []any{
		&run.ID,
		&run.ProblemInstanceID,
		&run.RequesterID,
		&crossover,
		&mutation,
		&run.Parameters.PopulationSize,
		&run.Parameters.TournamentSize,
		&run.Parameters.Generations,
		&run.NumberRuns,
		&run.Status,
		&run.Error,
		&run.CreatedAt,
		&finishedAt,
		&run.Version,
	}
	if err := s.Scan(dst...); err != nil {
		return nil, err
	}

	var err error
	if run.Parameters.Crossover, err = evolution.ParseCrossoverOperator(crossover); err != nil {
		return nil, err
	}
	if run.Parameters.Mutation, err = evolution.ParseMutationOperator(mutation); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return run, nil
}

func (r *Repository) CreateRun(run *domain.Run) error {
	query := `
		INSERT INTO runs (problem_instance_id, requester_id, crossover, mutation, population_size, tournament_size, generations, number_runs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, error, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{
		run.ProblemInstanceID,
		run.RequesterID,
		run.Parameters.Crossover.String(),
		run.Parameters.Mutation.String(),
		run.Parameters.PopulationSize,
		run.Parameters.TournamentSize,
		run.Parameters.Generations,
		run.NumberRuns,
	}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&run.ID, &run.Status, &run.Error, &run.CreatedAt, &run.Version)
}

func (r *Repository) GetRunByID(id int64) (*domain.Run, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	return scanRun(r.dbpool.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id))
}

// GetAllRuns requesterID 为 0 时返回所有人的运行
func (r *Repository) GetAllRuns(requesterID int64) ([]*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE ($1::bigint = 0 OR requester_id = $1::bigint) ORDER BY id DESC`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// UpdateRunStatus 只允许从 fromStatus 转换到 status，不满足时返回 sql.ErrNoRows
func (r *Repository) UpdateRunStatus(run *domain.Run, fromStatus domain.RunStatus, status domain.RunStatus, errMsg string) error {
	query := `
		UPDATE runs
		SET
			status = $1::text,
			error = $2,
			finished_at = CASE WHEN $1::text IN ('finished', 'failed') THEN now() ELSE finished_at END,
			version = version + 1
		WHERE id = $3 AND status = $4
		RETURNING status, error, finished_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var finishedAt sql.NullTime
	if err := r.dbpool.QueryRowContext(ctx, query, status, errMsg, run.ID, fromStatus).Scan(&run.Status, &run.Error, &finishedAt, &run.Version); err != nil {
		return err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return nil
}

/**
 * FinishRun 在同一个事务中保存所有运行结果并更新状态
 * 重复投递的消息会覆盖之前保存的结果
 */
func (r *Repository) FinishRun(run *domain.Run) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_results WHERE run_id = $1`, run.ID); err != nil {
		return err
	}

	query := `
		INSERT INTO run_results (run_id, run_index, run_uuid, best_history, worst_history, average_history, best_route, best_cost, error, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, result := range run.Results {
		args := []any{run.ID, result.Index, result.RunUUID}
		for _, v := range []any{result.BestHistory, result.WorstHistory, result.AverageHistory, result.BestRoute} {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			args = append(args, data)
		}
		args = append(args, result.BestCost, result.Error, result.Duration)

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	var finishedAt time.Time
	query = `
		UPDATE runs
		SET status = $1, error = $2, finished_at = now(), version = version + 1
		WHERE id = $3
		RETURNING finished_at, version
	`
	if err := tx.QueryRowContext(ctx, query, run.Status, run.Error, run.ID).Scan(&finishedAt, &run.Version); err != nil {
		return err
	}
	run.FinishedAt = &finishedAt

	return tx.Commit()
}

func (r *Repository) GetRunResults(runID int64) ([]domain.RunResult, error) {
	query := `
		SELECT run_index, run_uuid, best_history, worst_history, average_history, best_route, best_cost, error, duration
		FROM run_results WHERE run_id = $1 ORDER BY run_index
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.RunResult, 0)
	for rows.Next() {
		var result domain.RunResult
		var best, worst, average, route []byte

		dst := []any{&result.Index, &result.RunUUID, &best, &worst, &average, &route, &result.BestCost, &result.Error, &result.Duration}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		for _, pair := range []struct {
			data []byte
			v    any
		}{
			{best, &result.BestHistory},
			{worst, &result.WorstHistory},
			{average, &result.AverageHistory},
			{route, &result.BestRoute},
		} {
			if err := json.Unmarshal(pair.data, pair.v); err != nil {
				return nil, err
			}
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// CountRunsByStatus 统计某个用户提交的运行在各个状态下的数量
func (r *Repository) CountRunsByStatus(requesterID int64) (map[domain.RunStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM runs WHERE requester_id = $1 GROUP BY status`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.RunStatus]int)
	for rows.Next() {
		var status domain.RunStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
