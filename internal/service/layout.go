package service

import (
	"log/slog"
	"math"
	"sort"

	"github.com/raphaelgruber/vaultmap-go/internal/models"
)

// DefaultMaxNodes is the top-level node budget before clustering triggers.
const DefaultMaxNodes = 50

// Grid geometry constants, in canvas pixels.
const (
	nodeWidth        = 250
	nodeHeight       = 120
	spacingX         = 60
	spacingY         = 60
	clusterPadding   = 40
	clusterLabelBand = 50
)

// clusterKeepLimit is the largest folder still placed note-by-note while
// the node budget allows.
const clusterKeepLimit = 3

// LayoutNode is one positioned node of the layout: either a single note
// (File set) or a synthetic cluster standing in for a folder (Group true).
type LayoutNode struct {
	File   string
	Label  string
	Class  string
	Group  bool
	X      int
	Y      int
	Width  int
	Height int
}

// LayoutEdge connects two nodes by index into LayoutResult.Nodes.
type LayoutEdge struct {
	From int
	To   int
}

// LayoutResult is the positioned relationship graph.
type LayoutResult struct {
	Nodes     []LayoutNode
	Edges     []LayoutEdge
	TopLevel  int
	Clustered bool
}

// LayoutService projects a document snapshot onto a 2-D grid layout.
type LayoutService struct {
	logger *slog.Logger
}

// NewLayoutService creates a new layout service.
func NewLayoutService(logger *slog.Logger) *LayoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayoutService{logger: logger}
}

// topItem is one top-level grid cell: a single document or a whole folder
// collapsed into a cluster.
type topItem struct {
	doc     int   // document index when not a cluster
	label   string
	members []int // document indexes when a cluster
	cluster bool
}

// Layout builds the edge list from shared references, clusters overflow
// nodes by folder when the document count exceeds maxNodes, and computes
// grid positions for everything.
func (s *LayoutService) Layout(notes []models.Note, maxNodes int) LayoutResult {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	docEdges := resolveEdges(notes)

	clustered := len(notes) > maxNodes
	var items []topItem
	if clustered {
		items = clusterByFolder(notes, maxNodes)
	} else {
		items = make([]topItem, len(notes))
		for i := range notes {
			items[i] = topItem{doc: i}
		}
	}

	result := s.place(notes, items)
	result.Clustered = clustered
	result.TopLevel = len(items)
	result.Edges = remapEdges(docEdges, items, result)

	s.logger.Debug("layout computed",
		"documents", len(notes),
		"top_level", result.TopLevel,
		"edges", len(result.Edges),
		"clustered", clustered,
	)
	return result
}

// resolveEdges resolves each note's outgoing links against a stem lookup
// and records one undirected edge per cross-document pair.
func resolveEdges(notes []models.Note) [][2]int {
	stems := make(map[string]int, len(notes))
	for i, n := range notes {
		stem := models.Stem(n.Path)
		if _, exists := stems[stem]; !exists {
			stems[stem] = i
		}
	}

	var edges [][2]int
	seen := make(map[[2]int]bool)
	for i, n := range notes {
		for _, link := range n.Links {
			j, ok := stems[link]
			if !ok || j == i {
				continue
			}
			pair := [2]int{min(i, j), max(i, j)}
			if !seen[pair] {
				seen[pair] = true
				edges = append(edges, pair)
			}
		}
	}
	return edges
}

// clusterByFolder groups documents by immediate folder, largest folder
// first. Small folders stay note-by-note while the budget allows; larger
// ones collapse into a single cluster item. Once the budget is exhausted
// the remaining folders are left out of the layout.
func clusterByFolder(notes []models.Note, maxNodes int) []topItem {
	byFolder := make(map[string][]int)
	var order []string
	for i, n := range notes {
		if _, seen := byFolder[n.Folder]; !seen {
			order = append(order, n.Folder)
		}
		byFolder[n.Folder] = append(byFolder[n.Folder], i)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if len(byFolder[order[i]]) != len(byFolder[order[j]]) {
			return len(byFolder[order[i]]) > len(byFolder[order[j]])
		}
		return order[i] < order[j]
	})

	var items []topItem
	budget := maxNodes
	for _, folder := range order {
		members := byFolder[folder]
		switch {
		case len(members) <= clusterKeepLimit && budget >= len(members):
			for _, idx := range members {
				items = append(items, topItem{doc: idx})
			}
			budget -= len(members)
		case budget >= 1:
			items = append(items, topItem{
				label:   displayFolder(folder),
				members: members,
				cluster: true,
			})
			budget--
		}
		if budget == 0 {
			break
		}
	}
	return items
}

// place positions every item on a ceil-sqrt grid. Cluster members are laid
// out on their own sub-grid inside the cluster node.
func (s *LayoutService) place(notes []models.Note, items []topItem) LayoutResult {
	columns := gridColumns(len(items))

	// Uniform cell: the widest item decides, so clusters never overlap
	// their grid neighbors.
	cellW, cellH := nodeWidth, nodeHeight
	for _, item := range items {
		if item.cluster {
			w, h := clusterSize(len(item.members))
			cellW = max(cellW, w)
			cellH = max(cellH, h)
		}
	}

	var result LayoutResult
	for i, item := range items {
		col, row := i%columns, i/columns
		x := col * (cellW + spacingX)
		y := row * (cellH + spacingY)

		if !item.cluster {
			n := notes[item.doc]
			result.Nodes = append(result.Nodes, LayoutNode{
				File:   n.Path,
				Label:  n.Title,
				Class:  n.Class(),
				X:      x,
				Y:      y,
				Width:  nodeWidth,
				Height: nodeHeight,
			})
			continue
		}

		w, h := clusterSize(len(item.members))
		result.Nodes = append(result.Nodes, LayoutNode{
			Label:  item.label,
			Group:  true,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})

		subColumns := gridColumns(len(item.members))
		for k, idx := range item.members {
			scol, srow := k%subColumns, k/subColumns
			n := notes[idx]
			result.Nodes = append(result.Nodes, LayoutNode{
				File:   n.Path,
				Label:  n.Title,
				Class:  n.Class(),
				X:      x + clusterPadding + scol*(nodeWidth+spacingX),
				Y:      y + clusterPadding + clusterLabelBand + srow*(nodeHeight+spacingY),
				Width:  nodeWidth,
				Height: nodeHeight,
			})
		}
	}
	return result
}

// remapEdges lifts document-level edges to top-level node indexes,
// dropping edges fully inside one cluster and deduplicating.
func remapEdges(docEdges [][2]int, items []topItem, result LayoutResult) []LayoutEdge {
	// Node index of each top-level item, and the owning item per document.
	itemNode := make([]int, len(items))
	docItem := make(map[int]int)
	nodeIdx := 0
	for i, item := range items {
		itemNode[i] = nodeIdx
		if item.cluster {
			for _, d := range item.members {
				docItem[d] = i
			}
			nodeIdx += 1 + len(item.members)
		} else {
			docItem[item.doc] = i
			nodeIdx++
		}
	}

	var edges []LayoutEdge
	seen := make(map[[2]int]bool)
	for _, e := range docEdges {
		ia, okA := docItem[e[0]]
		ib, okB := docItem[e[1]]
		if !okA || !okB || ia == ib {
			continue
		}
		pair := [2]int{min(itemNode[ia], itemNode[ib]), max(itemNode[ia], itemNode[ib])}
		if !seen[pair] {
			seen[pair] = true
			edges = append(edges, LayoutEdge{From: pair[0], To: pair[1]})
		}
	}
	return edges
}

func gridColumns(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// clusterSize approximates the box containing a sub-grid of members plus
// padding and the label band.
func clusterSize(members int) (int, int) {
	cols := gridColumns(members)
	rows := (members + cols - 1) / cols
	w := cols*nodeWidth + (cols-1)*spacingX + 2*clusterPadding
	h := rows*nodeHeight + (rows-1)*spacingY + 2*clusterPadding + clusterLabelBand
	return w, h
}
