package domain

import (
	"time"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

// ProblemInstance 一个旅行商问题实例，Vertices 为按城市下标排列的出边
type ProblemInstance struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Source      string             `json:"source"`
	Description string             `json:"description"`
	CityCount   int                `json:"cityCount"`
	Vertices    [][]evolution.Edge `json:"vertices,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	Version     int32              `json:"-"`
}

func (p *ProblemInstance) Graph() (*evolution.Graph, error) {
	return evolution.NewGraph(p.Vertices)
}
