package service

import (
	"log/slog"
	"math"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/raphaelgruber/vaultmap-go/internal/models"
)

// Defaults for Detect.
const (
	DefaultMinSimilarity = 80
	DefaultMaxGroups     = 20
)

// DuplicateService partitions a document snapshot into likely-duplicate
// groups. Tier-2 detection compares all pairs, so callers should cap cost
// via scope size; around 2,000 notes per scope stays comfortable.
type DuplicateService struct {
	logger *slog.Logger
}

// NewDuplicateService creates a new duplicate service.
func NewDuplicateService(logger *slog.Logger) *DuplicateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DuplicateService{logger: logger}
}

// flaggedPair is one tier-2 candidate pair before component merge.
type flaggedPair struct {
	a, b       int
	reason     models.DuplicateReason
	similarity float64
}

// Detect runs both tiers and returns groups sorted by (tier asc,
// similarity desc), truncated to maxGroups. The second return reports
// whether groups were dropped by the cap.
func (s *DuplicateService) Detect(notes []models.Note, minSimilarity float64, maxGroups int) ([]models.DuplicateGroup, bool) {
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}

	normTitles := make([]string, len(notes))
	for i, n := range notes {
		normTitles[i] = models.NormalizeTitle(n.Title)
	}

	groups := s.exactGroups(notes, normTitles)
	pairs := s.flagPairs(notes, normTitles, minSimilarity)
	groups = append(groups, s.mergePairs(notes, pairs)...)

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Tier != groups[j].Tier {
			return groups[i].Tier < groups[j].Tier
		}
		return groups[i].Similarity > groups[j].Similarity
	})

	truncated := len(groups) > maxGroups
	if truncated {
		groups = groups[:maxGroups]
	}

	s.logger.Debug("duplicate detection complete", "documents", len(notes), "groups", len(groups), "truncated", truncated)
	return groups, truncated
}

// exactGroups builds tier-1 groups: identical normalized titles.
func (s *DuplicateService) exactGroups(notes []models.Note, normTitles []string) []models.DuplicateGroup {
	byTitle := make(map[string][]int)
	var order []string
	for i, t := range normTitles {
		if t == "" {
			continue
		}
		if _, seen := byTitle[t]; !seen {
			order = append(order, t)
		}
		byTitle[t] = append(byTitle[t], i)
	}

	var groups []models.DuplicateGroup
	for _, t := range order {
		members := byTitle[t]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, models.DuplicateGroup{
			Tier:       models.TierExact,
			Reason:     models.ReasonIdenticalTitle,
			Similarity: 100,
			Notes:      summaries(notes, members),
		})
	}
	return groups
}

// flagPairs finds tier-2 candidate pairs. Pairs whose normalized titles are
// equal are already covered jointly by tier 1 and skipped. The similar-title
// check takes precedence over the tags-and-folder check.
func (s *DuplicateService) flagPairs(notes []models.Note, normTitles []string, minSimilarity float64) []flaggedPair {
	var pairs []flaggedPair
	for i := 0; i < len(notes); i++ {
		for j := i + 1; j < len(notes); j++ {
			if normTitles[i] != "" && normTitles[i] == normTitles[j] {
				continue
			}

			if ratio := titleSimilarity(normTitles[i], normTitles[j]); ratio*100 >= minSimilarity {
				pairs = append(pairs, flaggedPair{
					a: i, b: j,
					reason:     models.ReasonSimilarTitle,
					similarity: round1(ratio * 100),
				})
				continue
			}

			if len(notes[i].Tags) > 0 && notes[i].Folder == notes[j].Folder &&
				models.SetsEqual(notes[i].Tags, notes[j].Tags) {
				pairs = append(pairs, flaggedPair{
					a: i, b: j,
					reason:     models.ReasonSameTagsAndFolder,
					similarity: math.Round(jaccard(notes[i].Tags, notes[j].Tags) * 100),
				})
			}
		}
	}
	return pairs
}

// mergePairs collapses flagged pairs into connected components via
// breadth-first traversal. Components of size >=2 become tier-2 groups;
// the displayed reason and similarity come from the highest-similarity
// pair touching each component.
func (s *DuplicateService) mergePairs(notes []models.Note, pairs []flaggedPair) []models.DuplicateGroup {
	adjacency := make(map[int][]int)
	for _, p := range pairs {
		adjacency[p.a] = append(adjacency[p.a], p.b)
		adjacency[p.b] = append(adjacency[p.b], p.a)
	}

	flagged := make([]int, 0, len(adjacency))
	for idx := range adjacency {
		flagged = append(flagged, idx)
	}
	sort.Ints(flagged)

	var groups []models.DuplicateGroup
	visited := make(map[int]bool)
	for _, start := range flagged {
		if visited[start] {
			continue
		}

		// Iterative BFS; dense duplicate clusters must not hit stack limits.
		component := []int{start}
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adjacency[cur] {
				if !visited[next] {
					visited[next] = true
					component = append(component, next)
					queue = append(queue, next)
				}
			}
		}

		if len(component) < 2 {
			continue
		}
		sort.Ints(component)

		best := bestPair(pairs, component)
		groups = append(groups, models.DuplicateGroup{
			Tier:       models.TierFuzzy,
			Reason:     best.reason,
			Similarity: best.similarity,
			Notes:      summaries(notes, component),
		})
	}
	return groups
}

// bestPair picks the highest-similarity flagged pair touching a component.
func bestPair(pairs []flaggedPair, component []int) flaggedPair {
	members := make(map[int]bool, len(component))
	for _, idx := range component {
		members[idx] = true
	}

	var best flaggedPair
	found := false
	for _, p := range pairs {
		if !members[p.a] && !members[p.b] {
			continue
		}
		if !found || p.similarity > best.similarity {
			best = p
			found = true
		}
	}
	return best
}

func summaries(notes []models.Note, indexes []int) []models.NoteSummary {
	out := make([]models.NoteSummary, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, models.NoteSummary{Path: notes[idx].Path, Title: notes[idx].Title})
	}
	return out
}

// titleSimilarity is a normalized edit-distance ratio in [0,1].
func titleSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// jaccard computes the Jaccard ratio of two normalized tag slices.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	bSet := models.ToSet(b)
	inter := 0
	for _, s := range a {
		if _, ok := bSet[s]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
