package models

// ScoreVector holds one integer score in [0,5] per criterion, positionally
// aligned with the criteria list it was scored against.
type ScoreVector []int

// Total returns the sum of all scores in the vector.
func (v ScoreVector) Total() int {
	total := 0
	for _, s := range v {
		total += s
	}
	return total
}

// CandidateResult represents the evaluation result for one candidate.
// Name is derived from the resume filename with the extension stripped.
type CandidateResult struct {
	Name   string      `json:"name"`
	Scores ScoreVector `json:"scores"`
	Total  int         `json:"total"`
	Rank   int         `json:"rank,omitempty"`
}

// CandidateFailure records a resume that could not be processed. Failures are
// reported alongside results; they never abort sibling candidates.
type CandidateFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// RankedReport holds all candidates sorted by total score (descending, ties
// keep submission order) together with the criteria they were scored against.
type RankedReport struct {
	Criteria    []string           `json:"criteria"`
	Candidates  []CandidateResult  `json:"candidates"`
	Failures    []CandidateFailure `json:"failures,omitempty"`
	GeneratedAt string             `json:"generated_at"`
}

// CriteriaResponse is the response payload for criteria extraction.
type CriteriaResponse struct {
	Criteria []string `json:"criteria"`
}
