package scoring

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fmuoria/resume-ranker/internal/llm"
	"github.com/fmuoria/resume-ranker/internal/models"
)

type fakeCompleter struct {
	response    string
	err         error
	user        string
	temperature float32
	calls       int
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string, temperature float32) (string, error) {
	f.calls++
	f.user = user
	f.temperature = temperature
	return f.response, f.err
}

// TestParseScores_LineExact tests Strategy A: lines that are exactly one digit
func TestParseScores_LineExact(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     models.ScoreVector
	}{
		{
			name:     "Plain digits",
			response: "4\n5",
			n:        2,
			want:     models.ScoreVector{4, 5},
		},
		{
			name:     "Digits with surrounding whitespace",
			response: "  4 \n\t5\n0",
			n:        3,
			want:     models.ScoreVector{4, 5, 0},
		},
		{
			name:     "Blank lines between digits",
			response: "3\n\n2\n\n1",
			n:        3,
			want:     models.ScoreVector{3, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseScores(tt.response, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseScores() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParseScores_Keyed tests Strategy B: "Criterion 1: 4" style lines
func TestParseScores_Keyed(t *testing.T) {
	response := "Criterion 1: 4\nCriterion 2: 5\nCriterion 3: 0"

	got := parseScores(response, 3)
	want := models.ScoreVector{4, 5, 0}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseScores() = %v, want %v", got, want)
	}
}

// TestParseScores_Ordinal tests Strategy C: "1. 4" and "1) 4" style lines
func TestParseScores_Ordinal(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     models.ScoreVector
	}{
		{
			name:     "Dot separator",
			response: "1. 4\n2. 5",
			n:        2,
			want:     models.ScoreVector{4, 5},
		},
		{
			name:     "Paren separator",
			response: "1) 3\n2) 2",
			n:        2,
			want:     models.ScoreVector{3, 2},
		},
		{
			name:     "Mixed separators",
			response: "1. 4\n2) 1",
			n:        2,
			want:     models.ScoreVector{4, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseScores(tt.response, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseScores() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParseScores_StrategyPrecedence tests that an exact line parse wins even
// when the digit scan would find different numbers elsewhere in the text
func TestParseScores_StrategyPrecedence(t *testing.T) {
	// Strategy A finds exactly two scores; the narrative sentence contains
	// other standalone digits that must be ignored.
	response := "I rate this candidate highly, maybe 3 out of 5 overall.\n4\n5"

	got := parseScores(response, 2)
	want := models.ScoreVector{4, 5}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseScores() = %v, want %v", got, want)
	}
}

// TestParseScores_FallbackDigitScan tests Strategy D activation when no
// line-based strategy yields the expected count
func TestParseScores_FallbackDigitScan(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     models.ScoreVector
	}{
		{
			name:     "Digits embedded in prose",
			response: "The candidate scores 4 on the first criterion and 2 on the second.",
			n:        2,
			want:     models.ScoreVector{4, 2},
		},
		{
			name:     "Appearance order preserved",
			response: "scores: 5 then 0 then 3",
			n:        3,
			want:     models.ScoreVector{5, 0, 3},
		},
		{
			name:     "Digits outside range skipped",
			response: "I give a 7 which means 4 really, plus a 9 and a 2",
			n:        2,
			want:     models.ScoreVector{4, 2},
		},
		{
			name:     "Multi-digit numbers are not standalone digits",
			response: "experience of 12 years merits 4 and 25 merits 3",
			n:        2,
			want:     models.ScoreVector{4, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseScores(tt.response, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseScores() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParseScores_Padding tests that missing trailing scores degrade to zero
func TestParseScores_Padding(t *testing.T) {
	response := "4"

	got := parseScores(response, 3)
	want := models.ScoreVector{4, 0, 0}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseScores() = %v, want %v", got, want)
	}
}

// TestParseScores_Truncation tests that surplus scores are cut to the first n
func TestParseScores_Truncation(t *testing.T) {
	// Five line-exact scores for three criteria: no line strategy matches the
	// expected count, so the digit scan takes the first three.
	response := "4\n5\n3\n2\n1"

	got := parseScores(response, 3)
	want := models.ScoreVector{4, 5, 3}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseScores() = %v, want %v", got, want)
	}
}

// TestParseScores_GarbageResponse tests the all-zero degradation
func TestParseScores_GarbageResponse(t *testing.T) {
	response := "I cannot evaluate this resume."

	got := parseScores(response, 4)
	want := models.ScoreVector{0, 0, 0, 0}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseScores() = %v, want %v", got, want)
	}
}

// TestParseScores_AlwaysBoundedAndSized tests the structural invariant over
// assorted malformed responses
func TestParseScores_AlwaysBoundedAndSized(t *testing.T) {
	responses := []string{
		"",
		"no numbers here",
		"999\n888",
		"6\n7\n8",
		"4\n5\n3\n2\n1\n0\n4\n5",
		"Criterion 1: maybe\nCriterion 2: 9",
		"1. \n2. ten\n3. 5",
		strings.Repeat("5 ", 100),
	}

	for _, response := range responses {
		for n := 0; n <= 5; n++ {
			got := parseScores(response, n)
			if len(got) != n {
				t.Errorf("parseScores(%q, %d) has length %d, want %d", response, n, len(got), n)
			}
			for _, score := range got {
				if score < 0 || score > 5 {
					t.Errorf("parseScores(%q, %d) contains out-of-range score %d", response, n, score)
				}
			}
		}
	}
}

// TestScore_ShortCircuitsOnEmptyCriteria tests that no completion call is made
// for an empty criteria list
func TestScore_ShortCircuitsOnEmptyCriteria(t *testing.T) {
	fake := &fakeCompleter{response: "4"}
	scorer := NewScorer(fake)

	got, err := scorer.Score(context.Background(), "resume text", nil)
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Score() = %v, want empty vector", got)
	}
	if fake.calls != 0 {
		t.Errorf("expected no completion calls, got %d", fake.calls)
	}
}

// TestScore_BuildsNumberedCriteriaPrompt tests the scoring prompt shape
func TestScore_BuildsNumberedCriteriaPrompt(t *testing.T) {
	fake := &fakeCompleter{response: "4\n5"}
	scorer := NewScorer(fake)

	criteria := []string{"5 years Python experience", "CS degree"}
	got, err := scorer.Score(context.Background(), "worked with Python since 2019", criteria)
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	want := models.ScoreVector{4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}

	if !strings.Contains(fake.user, "1. 5 years Python experience") {
		t.Error("prompt does not number the first criterion")
	}
	if !strings.Contains(fake.user, "2. CS degree") {
		t.Error("prompt does not number the second criterion")
	}
	if !strings.Contains(fake.user, "worked with Python since 2019") {
		t.Error("prompt does not embed the resume text")
	}
	if fake.temperature != scoringTemperature {
		t.Errorf("temperature = %v, want %v", fake.temperature, scoringTemperature)
	}
}

// TestScore_ServiceErrorPropagates tests that completion failures are not
// masked as parsing failures
func TestScore_ServiceErrorPropagates(t *testing.T) {
	fake := &fakeCompleter{err: llm.ErrService}
	scorer := NewScorer(fake)

	_, err := scorer.Score(context.Background(), "resume", []string{"CS degree"})
	if !errors.Is(err, llm.ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}
}
