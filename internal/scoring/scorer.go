package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fmuoria/resume-ranker/internal/llm"
	"github.com/fmuoria/resume-ranker/internal/models"
)

// scoringTemperature keeps scoring near-deterministic.
const scoringTemperature = 0.1

const systemInstruction = `You are an expert HR system that evaluates resumes against job criteria.
For each criterion, provide a score from 0 to 5, where:

0: No evidence of meeting the criterion
1: Minimal evidence, significantly below expectations
2: Some evidence, but below expectations
3: Meets expectations
4: Exceeds expectations
5: Far exceeds expectations

Be objective and consistent in your scoring. Focus on concrete evidence in the resume.`

// standaloneDigit matches a digit token in [0,5] bounded by word boundaries.
var standaloneDigit = regexp.MustCompile(`\b[0-5]\b`)

// Scorer evaluates a resume against a fixed ordered criteria list.
type Scorer struct {
	completer llm.Completer
}

// NewScorer creates a new scorer instance.
func NewScorer(completer llm.Completer) *Scorer {
	return &Scorer{completer: completer}
}

// Score asks the model to rate the resume against each criterion and parses
// the response into a ScoreVector of exactly len(criteria) entries, every one
// in [0,5]. Unparseable or missing scores become 0 rather than an error; only
// a completion-service failure is returned as one.
func (s *Scorer) Score(ctx context.Context, resumeText string, criteria []string) (models.ScoreVector, error) {
	if len(criteria) == 0 {
		return models.ScoreVector{}, nil
	}

	request := s.buildRequest(resumeText, criteria)

	response, err := s.completer.Complete(ctx, systemInstruction, request, scoringTemperature)
	if err != nil {
		return nil, fmt.Errorf("scoring resume: %w", err)
	}

	return parseScores(response, len(criteria)), nil
}

func (s *Scorer) buildRequest(resumeText string, criteria []string) string {
	var sb strings.Builder
	sb.WriteString("Score the following resume against each criterion on a scale of 0-5:\n\n")
	sb.WriteString("CRITERIA:\n")
	for i, criterion := range criteria {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, criterion))
	}
	sb.WriteString("\nRESUME:\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\nFor each criterion, provide ONLY a numeric score (0-5). ")
	sb.WriteString("Return your answers as a list of numbers in the same order as the criteria, with nothing else.\n")
	return sb.String()
}

// parseScores applies the tiered parsing strategies to the raw response. The
// first line-based strategy that yields exactly n valid scores wins; when none
// does, the digit-scan fallback takes standalone digits in appearance order.
// The result is padded with zeros or truncated so its length is always n.
func parseScores(response string, n int) models.ScoreVector {
	lines := strings.Split(response, "\n")

	strategies := []func(string) (int, bool){
		scoreLineExact,
		scoreLineKeyed,
		scoreLineOrdinal,
	}

	for _, strategy := range strategies {
		scores := collectLineScores(lines, strategy)
		if len(scores) == n {
			return scores
		}
	}

	return fitToLength(scanDigits(response, n), n)
}

// collectLineScores runs one strategy over every line, keeping qualifying
// scores in response order. Positional correspondence to the criteria order is
// assumed, not cross-checked.
func collectLineScores(lines []string, strategy func(string) (int, bool)) models.ScoreVector {
	scores := models.ScoreVector{}
	for _, line := range lines {
		if score, ok := strategy(strings.TrimSpace(line)); ok {
			scores = append(scores, score)
		}
	}
	return scores
}

// scoreLineExact accepts a line that is exactly a single digit in [0,5].
func scoreLineExact(line string) (int, bool) {
	return digitValue(line)
}

// scoreLineKeyed accepts a line whose text after the first ": " separator is
// exactly a digit in [0,5], e.g. "Criterion 1: 4".
func scoreLineKeyed(line string) (int, bool) {
	idx := strings.Index(line, ": ")
	if idx < 0 {
		return 0, false
	}
	return digitValue(strings.TrimSpace(line[idx+2:]))
}

// scoreLineOrdinal accepts "<prefix>. <digit>" or "<prefix>) <digit>" lines, e.g.
// "1. 4" or "1) 4". A ". " separator is preferred over ") " when both occur.
func scoreLineOrdinal(line string) (int, bool) {
	sep := ". "
	idx := strings.Index(line, sep)
	if idx < 0 {
		sep = ") "
		idx = strings.Index(line, sep)
	}
	if idx < 0 {
		return 0, false
	}
	return digitValue(strings.TrimSpace(line[idx+len(sep):]))
}

// scanDigits is the last-resort strategy: every standalone digit token in
// [0,5] across the whole response, in appearance order, up to n.
func scanDigits(response string, n int) models.ScoreVector {
	scores := models.ScoreVector{}
	for _, match := range standaloneDigit.FindAllString(response, -1) {
		if len(scores) == n {
			break
		}
		if score, ok := digitValue(match); ok {
			scores = append(scores, score)
		}
	}
	return scores
}

// fitToLength pads the vector with zeros or truncates it to exactly n entries.
// Missing scores degrade to the worst case instead of failing the candidate.
func fitToLength(scores models.ScoreVector, n int) models.ScoreVector {
	if len(scores) > n {
		return scores[:n]
	}
	for len(scores) < n {
		scores = append(scores, 0)
	}
	return scores
}

func digitValue(s string) (int, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '5' {
		return 0, false
	}
	return int(s[0] - '0'), true
}
