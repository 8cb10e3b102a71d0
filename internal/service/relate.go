// Package service implements the vaultmap engine: relationship scoring,
// duplicate detection, and graph layout. All operations are pure,
// synchronous computations over an already-materialized document snapshot.
package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/raphaelgruber/vaultmap-go/internal/models"
)

// Additive scoring weights. Scores are never normalized; a candidate's
// score is exactly the sum of its reason weights.
const (
	weightSharedClass = 15
	weightSharedLink  = 12
	weightSharedValue = 10
	weightSharedTag   = 8
	weightSameFolder  = 5
	weightSameParent  = 2
)

// maxLinkDetail caps how many shared link targets a reason spells out.
// Display only; every shared target still scores.
const maxLinkDetail = 5

// DefaultTopN is the default result cap for Related.
const DefaultTopN = 10

// RelateService scores pairwise affinity between notes.
type RelateService struct {
	logger *slog.Logger
}

// NewRelateService creates a new relate service.
func NewRelateService(logger *slog.Logger) *RelateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelateService{logger: logger}
}

// Related scores target against every candidate and returns the topN
// non-zero results, highest score first. Ties keep candidate input order,
// and the target itself is never returned.
func (s *RelateService) Related(target models.Note, candidates []models.Note, topN int) []models.ScoredCandidate {
	if topN <= 0 {
		topN = DefaultTopN
	}

	targetTags := models.ToSet(target.Tags)
	targetLinks := models.ToSet(target.Links)
	targetClass := target.Class()

	var results []models.ScoredCandidate
	for _, cand := range candidates {
		if cand.Path == target.Path {
			continue
		}
		reasons := s.scorePair(target, cand, targetClass, targetTags, targetLinks)
		if len(reasons) == 0 {
			continue
		}
		score := 0
		for _, r := range reasons {
			score += r.Weight
		}
		results = append(results, models.ScoredCandidate{
			Path:    cand.Path,
			Title:   cand.Title,
			Score:   score,
			Reasons: reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topN {
		results = results[:topN]
	}

	s.logger.Debug("related computed", "target", target.Path, "candidates", len(candidates), "results", len(results))
	return results
}

// scorePair accumulates every contributing reason for one candidate.
func (s *RelateService) scorePair(target, cand models.Note, targetClass string, targetTags, targetLinks map[string]struct{}) []models.ScoreReason {
	var reasons []models.ScoreReason

	// Declared class, case-insensitive, empty never matches.
	if targetClass != "" && targetClass == cand.Class() {
		reasons = append(reasons, models.ScoreReason{
			Kind:   models.ReasonSharedProperty,
			Detail: fmt.Sprintf("%s: %s", models.ClassProperty, targetClass),
			Weight: weightSharedClass,
		})
	}

	// Allow-listed value properties, one reason per property.
	for _, prop := range models.ValueProperties {
		tvals := models.ValueSet(target.Properties[prop])
		if len(tvals) == 0 {
			continue
		}
		shared := models.Intersect(tvals, models.ToSet(models.ValueSet(cand.Properties[prop])))
		if len(shared) > 0 {
			reasons = append(reasons, models.ScoreReason{
				Kind:   models.ReasonSharedProperty,
				Detail: fmt.Sprintf("%s: %s", prop, strings.Join(shared, ", ")),
				Weight: weightSharedValue * len(shared),
			})
		}
	}

	// Shared tags.
	if shared := models.Intersect(cand.Tags, targetTags); len(shared) > 0 {
		reasons = append(reasons, models.ScoreReason{
			Kind:   models.ReasonSharedTag,
			Detail: "tags: " + strings.Join(shared, ", "),
			Weight: weightSharedTag * len(shared),
		})
	}

	// Shared outgoing links.
	if shared := models.Intersect(cand.Links, targetLinks); len(shared) > 0 {
		reasons = append(reasons, models.ScoreReason{
			Kind:   models.ReasonSharedLink,
			Detail: "links: " + linkDetail(shared),
			Weight: weightSharedLink * len(shared),
		})
	}

	// Folder proximity, mutually exclusive.
	if target.Folder == cand.Folder {
		reasons = append(reasons, models.ScoreReason{
			Kind:   models.ReasonFolderProximity,
			Detail: "same folder: " + displayFolder(target.Folder),
			Weight: weightSameFolder,
		})
	} else if target.ParentFolder != "" && target.ParentFolder == cand.ParentFolder {
		reasons = append(reasons, models.ScoreReason{
			Kind:   models.ReasonFolderProximity,
			Detail: "same parent folder: " + target.ParentFolder,
			Weight: weightSameParent,
		})
	}

	return reasons
}

func linkDetail(shared []string) string {
	if len(shared) <= maxLinkDetail {
		return strings.Join(shared, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(shared[:maxLinkDetail], ", "), len(shared)-maxLinkDetail)
}

func displayFolder(folder string) string {
	if folder == "" {
		return "/"
	}
	return folder
}
