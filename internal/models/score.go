package models

// ReasonKind categorizes why two notes were scored as related.
type ReasonKind string

const (
	ReasonSharedProperty  ReasonKind = "shared-property"
	ReasonSharedTag       ReasonKind = "shared-tag"
	ReasonSharedLink      ReasonKind = "shared-link"
	ReasonFolderProximity ReasonKind = "folder-proximity"
)

// ScoreReason is one weighted contribution to a candidate's score.
type ScoreReason struct {
	Kind   ReasonKind `json:"kind"`
	Detail string     `json:"detail"`
	Weight int        `json:"weight"`
}

// ScoredCandidate is a ranked result of scoring one note against another.
// Score is always the sum of the reason weights.
type ScoredCandidate struct {
	Path    string        `json:"path"`
	Title   string        `json:"title"`
	Score   int           `json:"score"`
	Reasons []ScoreReason `json:"reasons"`
}
