package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fmuoria/resume-ranker/internal/criteria"
	"github.com/fmuoria/resume-ranker/internal/ingestion"
	"github.com/fmuoria/resume-ranker/internal/llm"
	"github.com/fmuoria/resume-ranker/internal/models"
	"github.com/fmuoria/resume-ranker/internal/scoring"
)

const defaultConcurrency = 4

// Pipeline orchestrates criteria extraction and batch resume scoring.
// Criteria extraction always completes before any resume is scored, since
// scoring is parameterized by the final criteria list.
type Pipeline struct {
	extractor   *criteria.Extractor
	scorer      *scoring.Scorer
	logger      *zap.Logger
	concurrency int
}

// New creates a pipeline around the given completion service.
func New(completer llm.Completer, concurrency int, logger *zap.Logger) *Pipeline {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pipeline{
		extractor:   criteria.NewExtractor(completer),
		scorer:      scoring.NewScorer(completer),
		logger:      logger,
		concurrency: concurrency,
	}
}

// ExtractCriteria extracts the ranking criteria from a job description
// document. An empty criteria list is degraded-but-valid output; a document
// that yields no text at all is a validation error.
func (p *Pipeline) ExtractCriteria(ctx context.Context, doc ingestion.RawDocument) ([]string, error) {
	text, err := ingestion.ExtractText(doc.Data, doc.Name)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("job description %s contains no extractable text", doc.Name)
	}

	extracted, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	p.logger.Info("extracted criteria",
		zap.String("document", doc.Name),
		zap.Int("count", len(extracted)),
	)

	return extracted, nil
}

// ScoreResumes scores each resume against the criteria list. Resumes are
// independent units of work and run concurrently up to the configured limit;
// a failed resume is reported as a CandidateFailure and never aborts its
// siblings. Results keep submission order.
func (p *Pipeline) ScoreResumes(ctx context.Context, docs []ingestion.RawDocument, criteriaList []string) ([]models.CandidateResult, []models.CandidateFailure) {
	resultSlots := make([]*models.CandidateResult, len(docs))
	failureSlots := make([]*models.CandidateFailure, len(docs))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			name := ingestion.CandidateName(doc.Name)

			if err := ctx.Err(); err != nil {
				failureSlots[i] = &models.CandidateFailure{Name: name, Reason: err.Error()}
				return nil
			}

			result, err := p.scoreOne(ctx, doc, criteriaList)
			if err != nil {
				p.logger.Warn("failed to score candidate", zap.String("candidate", name), zap.Error(err))
				failureSlots[i] = &models.CandidateFailure{Name: name, Reason: err.Error()}
				return nil
			}

			resultSlots[i] = &result
			return nil
		})
	}

	g.Wait()

	results := make([]models.CandidateResult, 0, len(docs))
	failures := make([]models.CandidateFailure, 0)
	for i := range docs {
		if resultSlots[i] != nil {
			results = append(results, *resultSlots[i])
		}
		if failureSlots[i] != nil {
			failures = append(failures, *failureSlots[i])
		}
	}

	return results, failures
}

func (p *Pipeline) scoreOne(ctx context.Context, doc ingestion.RawDocument, criteriaList []string) (models.CandidateResult, error) {
	text, err := ingestion.ExtractText(doc.Data, doc.Name)
	if err != nil {
		return models.CandidateResult{}, err
	}

	scores, err := p.scorer.Score(ctx, text, criteriaList)
	if err != nil {
		return models.CandidateResult{}, err
	}

	name := ingestion.CandidateName(doc.Name)
	p.logger.Info("scored candidate", zap.String("candidate", name), zap.Int("total", scores.Total()))

	return models.CandidateResult{
		Name:   name,
		Scores: scores,
		Total:  scores.Total(),
	}, nil
}
