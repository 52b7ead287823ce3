// Package tsplib 读取 TSPLIB 的 XML 格式问题实例
package tsplib

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

var ErrInvalidInstance = errors.New("无效的 TSPLIB 实例")

type Edge struct {
	Cost        float64 `xml:"cost,attr"`
	Destination string  `xml:",chardata"`
}

type Vertex struct {
	Edges []Edge `xml:"edge"`
}

type Instance struct {
	XMLName         xml.Name `xml:"travellingSalesmanProblemInstance"`
	Name            string   `xml:"name"`
	Source          string   `xml:"source"`
	Description     string   `xml:"description"`
	DoublePrecision float64  `xml:"doublePrecision"`
	IgnoredDigits   int      `xml:"ignoredDigits"`
	Vertices        []Vertex `xml:"graph>vertex"`
}

func Parse(r io.Reader) (*Instance, error) {
	instance := &Instance{}
	if err := xml.NewDecoder(r).Decode(instance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInstance, err)
	}

	if len(instance.Vertices) < 2 {
		return nil, fmt.Errorf("%w: 实例 %q 至少需要 2 个城市，实际为 %d 个", ErrInvalidInstance, instance.Name, len(instance.Vertices))
	}

	return instance, nil
}

func ParseFile(path string) (*Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Graph 将实例转换为代价图，任意两个不同城市之间都必须有边
func (i *Instance) Graph() (*evolution.Graph, error) {
	vertices := make([][]evolution.Edge, len(i.Vertices))

	for from, vertex := range i.Vertices {
		vertices[from] = make([]evolution.Edge, 0, len(vertex.Edges))
		for _, edge := range vertex.Edges {
			destination, err := strconv.Atoi(strings.TrimSpace(edge.Destination))
			if err != nil {
				return nil, fmt.Errorf("%w: 城市 %d 的边目标 %q 不是整数", ErrInvalidInstance, from, edge.Destination)
			}
			vertices[from] = append(vertices[from], evolution.Edge{
				Destination: destination,
				Cost:        edge.Cost,
			})
		}
	}

	g, err := evolution.NewGraph(vertices)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInstance, err)
	}
	if err := g.Complete(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInstance, err)
	}

	return g, nil
}
