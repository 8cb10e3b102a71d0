package canvas

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

func sampleResult() service.LayoutResult {
	return service.LayoutResult{
		Nodes: []service.LayoutNode{
			{File: "Projects/a.md", Label: "a", Class: "project", X: 0, Y: 0, Width: 250, Height: 120},
			{Label: "Archive", Group: true, X: 310, Y: 0, Width: 900, Height: 700},
			{File: "Archive/b.md", Label: "b", Class: "junk", X: 350, Y: 90, Width: 250, Height: 120},
		},
		Edges:    []service.LayoutEdge{{From: 0, To: 1}},
		TopLevel: 2,
	}
}

func TestBuildGraph(t *testing.T) {
	g := BuildGraph(sampleResult())
	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 1)

	ids := make(map[string]bool)
	for _, n := range g.Nodes {
		assert.Len(t, n.ID, 16)
		assert.False(t, ids[n.ID], "duplicate node id %s", n.ID)
		ids[n.ID] = true
	}

	assert.Equal(t, "file", g.Nodes[0].Type)
	assert.Equal(t, "Projects/a.md", g.Nodes[0].File)
	assert.Equal(t, "4", g.Nodes[0].Color, "project class maps to preset 4")

	assert.Equal(t, "group", g.Nodes[1].Type)
	assert.Equal(t, "Archive", g.Nodes[1].Label)
	assert.Empty(t, g.Nodes[1].File)

	assert.Empty(t, g.Nodes[2].Color, "unmapped class stays uncolored")

	e := g.Edges[0]
	assert.True(t, ids[e.FromNode], "edge references existing node")
	assert.True(t, ids[e.ToNode], "edge references existing node")
	assert.NotEqual(t, e.FromNode, e.ToNode)
	assert.Equal(t, "right", e.FromSide)
	assert.Equal(t, "left", e.ToSide)
}

func TestWriteNoOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := BuildGraph(sampleResult())

	first, err := Write(fs, "out/graph.canvas", g)
	require.NoError(t, err)
	assert.Equal(t, "out/graph.canvas", first)

	second, err := Write(fs, "out/graph.canvas", g)
	require.NoError(t, err)
	assert.Equal(t, "out/graph-1.canvas", second)

	third, err := Write(fs, "out/graph.canvas", g)
	require.NoError(t, err)
	assert.Equal(t, "out/graph-2.canvas", third)

	// Original untouched and still valid JSON Canvas.
	data, err := afero.ReadFile(fs, first)
	require.NoError(t, err)
	var decoded Graph
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Nodes, 3)
	assert.Len(t, decoded.Edges, 1)
}
