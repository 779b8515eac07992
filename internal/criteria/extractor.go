package criteria

import (
	"context"
	"fmt"
	"strings"

	"github.com/fmuoria/resume-ranker/internal/llm"
)

// extractionTemperature keeps criteria extraction near-deterministic.
const extractionTemperature = 0.1

const systemInstruction = `You are an expert HR system that analyzes job descriptions and extracts key ranking criteria.
Extract specific criteria related to:
1. Required skills
2. Experience (years, specific domains)
3. Education requirements
4. Certifications
5. Technical knowledge
6. Soft skills

Format each criterion as a clear, standalone requirement. Do not include vague statements.
Return only the list of criteria, with each item being a specific, measurable requirement.`

// bulletMarkers are the list prefixes stripped from a criterion line.
var bulletMarkers = []string{"- ", "• ", "* ", "· "}

// Extractor turns a job description into an ordered list of criteria.
type Extractor struct {
	completer llm.Completer
}

// NewExtractor creates a new criteria extractor.
func NewExtractor(completer llm.Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract asks the model for ranking criteria and parses its free-text answer
// into an ordered list. An empty list is valid output when the model returns
// nothing usable. The job description must be non-empty; callers validate.
func (e *Extractor) Extract(ctx context.Context, jobDescription string) ([]string, error) {
	request := e.buildRequest(jobDescription)

	response, err := e.completer.Complete(ctx, systemInstruction, request, extractionTemperature)
	if err != nil {
		return nil, fmt.Errorf("extracting criteria: %w", err)
	}

	return parseCriteria(response), nil
}

func (e *Extractor) buildRequest(jobDescription string) string {
	var sb strings.Builder
	sb.WriteString("Extract the key ranking criteria from the following job description:\n\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\nReturn ONLY a list of specific criteria, with each item as a clear, standalone requirement.\n")
	return sb.String()
}

// parseCriteria converts the raw model response into criteria, line by line:
// strip one bullet or numeric list marker, drop empty and heading lines, keep
// everything else in encounter order. Verbatim repeats are kept as-is.
func parseCriteria(response string) []string {
	criteria := []string{}

	for _, line := range strings.Split(response, "\n") {
		cleaned := strings.TrimSpace(line)
		cleaned = stripListMarker(cleaned)

		if cleaned == "" || strings.HasPrefix(cleaned, "#") {
			continue
		}

		criteria = append(criteria, cleaned)
	}

	return criteria
}

// stripListMarker removes a single leading bullet marker, or a numeric list
// marker of the exact form "<n>. " for n in 1..10.
func stripListMarker(line string) string {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}

	for n := 1; n <= 10; n++ {
		marker := fmt.Sprintf("%d. ", n)
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}

	return line
}
