// Package ranking aggregates per-candidate score vectors into a ranked report.
package ranking

import (
	"sort"
	"time"

	"github.com/fmuoria/resume-ranker/internal/models"
)

// Rank sorts candidates by total score descending and assigns ranks starting
// at 1. The sort is stable: candidates with equal totals keep their relative
// input order. Pure aggregation; no I/O.
func Rank(results []models.CandidateResult, criteria []string, failures []models.CandidateFailure) models.RankedReport {
	ranked := make([]models.CandidateResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return models.RankedReport{
		Criteria:    criteria,
		Candidates:  ranked,
		Failures:    failures,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
}
