package service

import (
	"fmt"
	"testing"

	"github.com/raphaelgruber/vaultmap-go/internal/models"
)

func linkedNote(path, folder string, links ...string) models.Note {
	return models.Note{
		Path:   path,
		Title:  models.Stem(path),
		Links:  links,
		Folder: folder,
	}
}

func TestLayoutEdgesFromSharedReferences(t *testing.T) {
	svc := NewLayoutService(discardLogger())
	notes := []models.Note{
		linkedNote("A.md", "", "b", "missing"),
		linkedNote("B.md", "", "a"), // reciprocal link must not duplicate the edge
		linkedNote("C.md", "", "c"), // self link dropped
	}

	result := svc.Layout(notes, 50)
	if len(result.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(result.Nodes))
	}
	if len(result.Edges) != 1 {
		t.Fatalf("edges = %+v, want exactly 1", result.Edges)
	}

	for _, e := range result.Edges {
		if e.From == e.To {
			t.Errorf("self loop: %+v", e)
		}
		if e.From < 0 || e.From >= len(result.Nodes) || e.To < 0 || e.To >= len(result.Nodes) {
			t.Errorf("dangling edge: %+v", e)
		}
	}
}

func TestLayoutGridPlacement(t *testing.T) {
	svc := NewLayoutService(discardLogger())
	var notes []models.Note
	for i := 0; i < 5; i++ {
		notes = append(notes, linkedNote(fmt.Sprintf("n%d.md", i), ""))
	}

	result := svc.Layout(notes, 50)
	// ceil(sqrt(5)) = 3 columns.
	wantX := []int{0, 310, 620, 0, 310}
	wantY := []int{0, 0, 0, 180, 180}
	for i, n := range result.Nodes {
		if n.X != wantX[i] || n.Y != wantY[i] {
			t.Errorf("node %d at (%d,%d), want (%d,%d)", i, n.X, n.Y, wantX[i], wantY[i])
		}
	}
}

func TestLayoutClusteringBudget(t *testing.T) {
	// 60 documents split 40/20 across two folders with maxNodes=50:
	// both folders collapse, top-level count stays within budget.
	svc := NewLayoutService(discardLogger())
	var notes []models.Note
	for i := 0; i < 40; i++ {
		notes = append(notes, linkedNote(fmt.Sprintf("Big/n%d.md", i), "Big"))
	}
	for i := 0; i < 20; i++ {
		notes = append(notes, linkedNote(fmt.Sprintf("Small/n%d.md", i), "Small"))
	}

	result := svc.Layout(notes, 50)
	if !result.Clustered {
		t.Fatal("expected clustering to trigger")
	}
	if result.TopLevel > 50 {
		t.Errorf("top-level nodes = %d, want <= 50", result.TopLevel)
	}

	var groups []LayoutNode
	for _, n := range result.Nodes {
		if n.Group {
			groups = append(groups, n)
		}
	}
	if len(groups) != 2 {
		t.Fatalf("group nodes = %d, want 2", len(groups))
	}
	// Largest folder first.
	if groups[0].Label != "Big" {
		t.Errorf("first cluster = %q, want Big", groups[0].Label)
	}
	// Every document still appears inside its cluster.
	if len(result.Nodes) != 62 {
		t.Errorf("nodes = %d, want 60 files + 2 groups", len(result.Nodes))
	}
}

func TestLayoutSmallFoldersKeptIndividually(t *testing.T) {
	svc := NewLayoutService(discardLogger())
	var notes []models.Note
	for i := 0; i < 55; i++ {
		notes = append(notes, linkedNote(fmt.Sprintf("Big/n%d.md", i), "Big"))
	}
	notes = append(notes,
		linkedNote("Tiny/a.md", "Tiny"),
		linkedNote("Tiny/b.md", "Tiny"),
	)

	result := svc.Layout(notes, 50)
	if !result.Clustered {
		t.Fatal("expected clustering to trigger")
	}

	groupCount, fileTop := 0, 0
	for _, n := range result.Nodes {
		if n.Group {
			groupCount++
		}
	}
	for _, n := range result.Nodes {
		if !n.Group && n.File[:5] == "Tiny/" {
			fileTop++
		}
	}
	if groupCount != 1 {
		t.Errorf("group nodes = %d, want only the Big cluster", groupCount)
	}
	if fileTop != 2 {
		t.Errorf("individual Tiny notes = %d, want 2", fileTop)
	}
	if result.TopLevel != 3 {
		t.Errorf("top-level = %d, want 3", result.TopLevel)
	}
}

func TestLayoutIntraClusterEdgesDropped(t *testing.T) {
	svc := NewLayoutService(discardLogger())
	var notes []models.Note
	for i := 0; i < 60; i++ {
		notes = append(notes, linkedNote(fmt.Sprintf("Big/n%d.md", i), "Big", "n0"))
	}
	// Other has a single member, so it stays an individual node.
	notes = append(notes, linkedNote("Other/x.md", "Other", "n0"))

	result := svc.Layout(notes, 50)

	// All Big-internal links collapse away; only Other/x.md -> cluster survives.
	if len(result.Edges) != 1 {
		t.Fatalf("edges = %+v, want 1 cross-cluster edge", result.Edges)
	}
	e := result.Edges[0]
	if result.Nodes[e.From].Group == result.Nodes[e.To].Group {
		t.Errorf("edge should join a file node and a group node: %+v", e)
	}
}

func TestLayoutClusterMembersInsideBounds(t *testing.T) {
	svc := NewLayoutService(discardLogger())
	var notes []models.Note
	for i := 0; i < 60; i++ {
		notes = append(notes, linkedNote(fmt.Sprintf("Big/n%03d.md", i), "Big"))
	}

	result := svc.Layout(notes, 50)
	var cluster *LayoutNode
	for i := range result.Nodes {
		if result.Nodes[i].Group {
			cluster = &result.Nodes[i]
			break
		}
	}
	if cluster == nil {
		t.Fatal("no cluster node")
	}

	for _, n := range result.Nodes {
		if n.Group || n.File == "" {
			continue
		}
		if n.X < cluster.X || n.Y < cluster.Y ||
			n.X+n.Width > cluster.X+cluster.Width ||
			n.Y+n.Height > cluster.Y+cluster.Height {
			t.Errorf("member %s at (%d,%d) outside cluster bounds", n.File, n.X, n.Y)
		}
	}
}

func TestLayoutDeterminism(t *testing.T) {
	svc := NewLayoutService(discardLogger())
	var notes []models.Note
	for i := 0; i < 60; i++ {
		notes = append(notes, linkedNote(fmt.Sprintf("F%d/n%d.md", i%4, i), fmt.Sprintf("F%d", i%4), "n0"))
	}

	first := svc.Layout(notes, 50)
	second := svc.Layout(notes, 50)
	if len(first.Nodes) != len(second.Nodes) || len(first.Edges) != len(second.Edges) {
		t.Fatal("layout not deterministic in counts")
	}
	for i := range first.Nodes {
		if first.Nodes[i] != second.Nodes[i] {
			t.Errorf("node %d differs between runs", i)
		}
	}
	for i := range first.Edges {
		if first.Edges[i] != second.Edges[i] {
			t.Errorf("edge %d differs between runs", i)
		}
	}
}
