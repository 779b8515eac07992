package criteria

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fmuoria/resume-ranker/internal/llm"
)

// fakeCompleter returns a canned response and records the prompt it was
// given.
type fakeCompleter struct {
	response    string
	err         error
	system      string
	user        string
	temperature float32
	calls       int
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, temperature float32) (string, error) {
	f.calls++
	f.system = system
	f.user = user
	f.temperature = temperature
	return f.response, f.err
}

// TestParseCriteria_ListMarkers tests that bullet and numeric markers are stripped
func TestParseCriteria_ListMarkers(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "Dash bullet",
			response: "- Bachelor's degree required",
			want:     []string{"Bachelor's degree required"},
		},
		{
			name:     "Dot bullet",
			response: "• 5+ years of Go experience",
			want:     []string{"5+ years of Go experience"},
		},
		{
			name:     "Star bullet",
			response: "* AWS certification",
			want:     []string{"AWS certification"},
		},
		{
			name:     "Middle dot bullet",
			response: "· Strong communication skills",
			want:     []string{"Strong communication skills"},
		},
		{
			name:     "Numeric marker",
			response: "1. 5+ years Python experience",
			want:     []string{"5+ years Python experience"},
		},
		{
			name:     "Two digit numeric marker",
			response: "10. Kubernetes knowledge",
			want:     []string{"Kubernetes knowledge"},
		},
		{
			name:     "Numeric marker above ten kept verbatim",
			response: "11. Salesforce knowledge",
			want:     []string{"11. Salesforce knowledge"},
		},
		{
			name:     "No marker",
			response: "Master's degree in Computer Science",
			want:     []string{"Master's degree in Computer Science"},
		},
		{
			name:     "Marker without trailing space kept verbatim",
			response: "-Bachelor's degree",
			want:     []string{"-Bachelor's degree"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCriteria(tt.response)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseCriteria(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

// TestParseCriteria_DiscardsHeadingsAndEmptyLines tests filtering of unusable lines
func TestParseCriteria_DiscardsHeadingsAndEmptyLines(t *testing.T) {
	response := "## Skills\n\n- 5 years Python experience\n   \n# Education\n- CS degree\n### Notes"

	got := parseCriteria(response)
	want := []string{"5 years Python experience", "CS degree"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseCriteria() = %v, want %v", got, want)
	}
}

// TestParseCriteria_KeepsVerbatimRepeats tests that duplicates are not removed
func TestParseCriteria_KeepsVerbatimRepeats(t *testing.T) {
	response := "- CS degree\n- CS degree"

	got := parseCriteria(response)
	if len(got) != 2 {
		t.Fatalf("parseCriteria() returned %d criteria, want 2", len(got))
	}
	if got[0] != got[1] {
		t.Errorf("expected verbatim repeat to be kept, got %v", got)
	}
}

// TestParseCriteria_EncounterOrder tests that criteria keep the response order
func TestParseCriteria_EncounterOrder(t *testing.T) {
	response := "3. Third\n1. First\n2. Second"

	got := parseCriteria(response)
	want := []string{"Third", "First", "Second"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseCriteria() = %v, want %v", got, want)
	}
}

// TestParseCriteria_EmptyResponse tests that nothing usable yields an empty list
func TestParseCriteria_EmptyResponse(t *testing.T) {
	got := parseCriteria("")
	if len(got) != 0 {
		t.Errorf("parseCriteria(\"\") = %v, want empty", got)
	}
}

// TestExtract_BuildsPromptAndParses tests the full extraction round trip
func TestExtract_BuildsPromptAndParses(t *testing.T) {
	fake := &fakeCompleter{response: "- 5 years Python experience\n- CS degree"}
	extractor := NewExtractor(fake)

	jobDescription := "Must have 5 years Python and a CS degree."
	got, err := extractor.Extract(context.Background(), jobDescription)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	want := []string{"5 years Python experience", "CS degree"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}

	if !strings.Contains(fake.user, jobDescription) {
		t.Error("request prompt does not embed the job description")
	}
	if !strings.Contains(fake.system, "Soft skills") {
		t.Error("system instruction does not list the requirement categories")
	}
	if fake.temperature != extractionTemperature {
		t.Errorf("temperature = %v, want %v", fake.temperature, extractionTemperature)
	}
}

// TestExtract_ServiceErrorPropagates tests that completion failures surface as-is
func TestExtract_ServiceErrorPropagates(t *testing.T) {
	fake := &fakeCompleter{err: llm.ErrService}
	extractor := NewExtractor(fake)

	_, err := extractor.Extract(context.Background(), "some job description")
	if !errors.Is(err, llm.ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}
}
