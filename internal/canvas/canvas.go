// Package canvas serializes layout results into the JSON Canvas
// interchange format.
package canvas

import (
	"strings"

	"github.com/google/uuid"

	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

// Node is one JSON Canvas node, either a file node or a group node.
type Node struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	File   string `json:"file,omitempty"`
	Label  string `json:"label,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color,omitempty"`
}

// Edge connects two nodes by id.
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide string `json:"fromSide"`
	ToNode   string `json:"toNode"`
	ToSide   string `json:"toSide"`
}

// Graph is the complete canvas artifact.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// classColors maps a declared note class to a JSON Canvas preset color.
// Unmapped classes stay uncolored.
var classColors = map[string]string{
	"daily":    "1",
	"meeting":  "2",
	"resource": "3",
	"project":  "4",
	"area":     "5",
	"person":   "6",
}

// idAllocator hands out run-scoped unique node ids. Ids only need to be
// unique within one canvas, not globally.
type idAllocator struct {
	seen map[string]struct{}
}

func newIDAllocator() *idAllocator {
	return &idAllocator{seen: make(map[string]struct{})}
}

func (a *idAllocator) next() string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		if _, dup := a.seen[id]; !dup {
			a.seen[id] = struct{}{}
			return id
		}
	}
}

// BuildGraph converts a layout result into a canvas graph, assigning every
// node a fresh id and remapping edges onto those ids.
func BuildGraph(result service.LayoutResult) *Graph {
	ids := newIDAllocator()
	g := &Graph{
		Nodes: make([]Node, 0, len(result.Nodes)),
		Edges: make([]Edge, 0, len(result.Edges)),
	}

	nodeIDs := make([]string, len(result.Nodes))
	for i, n := range result.Nodes {
		id := ids.next()
		nodeIDs[i] = id

		node := Node{
			ID:     id,
			X:      n.X,
			Y:      n.Y,
			Width:  n.Width,
			Height: n.Height,
		}
		if n.Group {
			node.Type = "group"
			node.Label = n.Label
		} else {
			node.Type = "file"
			node.File = n.File
			node.Color = classColors[n.Class]
		}
		g.Nodes = append(g.Nodes, node)
	}

	for _, e := range result.Edges {
		g.Edges = append(g.Edges, Edge{
			ID:       ids.next(),
			FromNode: nodeIDs[e.From],
			FromSide: "right",
			ToNode:   nodeIDs[e.To],
			ToSide:   "left",
		})
	}
	return g
}
