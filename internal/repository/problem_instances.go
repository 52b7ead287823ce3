package repository

import (
	"encoding/json"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
)

// CreateProblemInstance 代价图以 JSONB 的形式保存在 vertices 列中
func (r *Repository) CreateProblemInstance(instance *domain.ProblemInstance) error {
	vertices, err := json.Marshal(instance.Vertices)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO problem_instances (name, slug, source, description, city_count, vertices)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{instance.Name, instance.Slug, instance.Source, instance.Description, instance.CityCount, vertices}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&instance.ID, &instance.CreatedAt, &instance.Version)
}

func (r *Repository) GetProblemInstanceByID(id int64) (*domain.ProblemInstance, error) {
	query := `
		SELECT name, slug, source, description, city_count, vertices, created_at, version
		FROM problem_instances WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	instance := &domain.ProblemInstance{ID: id}
	var vertices []byte

	dst := []any{&instance.Name, &instance.Slug, &instance.Source, &instance.Description, &instance.CityCount, &vertices, &instance.CreatedAt, &instance.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(vertices, &instance.Vertices); err != nil {
		return nil, err
	}

	return instance, nil
}

// GetAllProblemInstances 只返回元信息，不包含代价图
func (r *Repository) GetAllProblemInstances() ([]*domain.ProblemInstance, error) {
	query := `
		SELECT id, name, slug, source, description, city_count, created_at, version
		FROM problem_instances ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := make([]*domain.ProblemInstance, 0)
	for rows.Next() {
		instance := &domain.ProblemInstance{}
		dst := []any{&instance.ID, &instance.Name, &instance.Slug, &instance.Source, &instance.Description, &instance.CityCount, &instance.CreatedAt, &instance.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instances, nil
}

func (r *Repository) DeleteProblemInstance(id int64) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM problem_instances WHERE id = $1`, id)
	return err
}
