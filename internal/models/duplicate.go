package models

// DuplicateTier is the detection confidence bucket: 1 exact, 2 fuzzy.
type DuplicateTier int

const (
	TierExact DuplicateTier = 1
	TierFuzzy DuplicateTier = 2
)

// DuplicateReason explains why a group was flagged.
type DuplicateReason string

const (
	ReasonIdenticalTitle    DuplicateReason = "identical-title"
	ReasonSimilarTitle      DuplicateReason = "similar-title"
	ReasonSameTagsAndFolder DuplicateReason = "same-tags-and-folder"
)

// NoteSummary identifies one member of a duplicate group.
type NoteSummary struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// DuplicateGroup is a set of likely-duplicate notes.
//
// A path belongs to at most one tier-1 group; tier-2 groups are the
// connected components of the flagged-pair graph, so a path never appears
// in two tier-2 groups either.
type DuplicateGroup struct {
	Tier       DuplicateTier   `json:"tier"`
	Reason     DuplicateReason `json:"reason"`
	Similarity float64         `json:"similarity"`
	Notes      []NoteSummary   `json:"notes"`
}
