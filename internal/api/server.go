package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fmuoria/resume-ranker/internal/agent"
	"github.com/fmuoria/resume-ranker/internal/export"
	"github.com/fmuoria/resume-ranker/internal/ingestion"
	"github.com/fmuoria/resume-ranker/internal/llm"
	"github.com/fmuoria/resume-ranker/internal/models"
	"github.com/fmuoria/resume-ranker/internal/ranking"
)

const (
	defaultMaxUploadBytes = 32 << 20 // 32 MB

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ResumeSource fetches resume documents from somewhere other than the upload
// form, e.g. a Gmail inbox.
type ResumeSource interface {
	FetchResumes(ctx context.Context, subject string) ([]ingestion.RawDocument, error)
}

// Server handles HTTP requests for criteria extraction and resume scoring.
type Server struct {
	pipeline       *agent.Pipeline
	gmail          ResumeSource
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewServer creates a new API server. gmail may be nil, in which case the
// gmail scoring method is rejected at request time. maxUploadMB <= 0 falls
// back to the default upload limit.
func NewServer(pipeline *agent.Pipeline, gmail ResumeSource, logger *zap.Logger, maxUploadMB int) *Server {
	maxUploadBytes := int64(defaultMaxUploadBytes)
	if maxUploadMB > 0 {
		maxUploadBytes = int64(maxUploadMB) << 20
	}
	return &Server{
		pipeline:       pipeline,
		gmail:          gmail,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Router builds the gin engine with middleware and routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		RequestID(),
		Logging(s.logger),
		gin.Recovery(),
	)

	r.POST("/extract-criteria", s.handleExtractCriteria)
	r.POST("/score-resumes", s.handleScoreResumes)
	r.GET("/health", s.handleHealth)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleExtractCriteria accepts a job description file (.pdf or .docx) and
// returns the extracted ranking criteria. An empty criteria list is valid
// output; the caller decides whether to proceed with it.
func (s *Server) handleExtractCriteria(c *gin.Context) {
	doc, err := s.readUpload(c, "file")
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	extracted, err := s.pipeline.ExtractCriteria(c.Request.Context(), doc)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CriteriaResponse{Criteria: extracted})
}

// handleScoreResumes scores a batch of resumes against the provided criteria
// and streams back an xlsx report. Per-resume failures land in the report's
// summary sheet; they never fail the request.
func (s *Server) handleScoreResumes(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}

	criteriaList := prunedCriteria(c.PostFormArray("criteria"))
	if len(criteriaList) == 0 {
		s.respondError(c, http.StatusBadRequest, "no criteria provided")
		return
	}

	docs, err := s.collectResumes(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	results, failures := s.pipeline.ScoreResumes(c.Request.Context(), docs, criteriaList)
	report := ranking.Rank(results, criteriaList, failures)

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, report); err != nil {
		s.logger.Error("failed to render report", zap.Error(err))
		s.respondError(c, http.StatusInternalServerError, "failed to render report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename=resume_scores.xlsx`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// collectResumes gathers resume documents either from the multipart upload or
// from the configured Gmail source.
func (s *Server) collectResumes(c *gin.Context) ([]ingestion.RawDocument, error) {
	method := c.PostForm("method")

	switch method {
	case "", "upload":
		files := c.Request.MultipartForm.File["files"]
		if len(files) == 0 {
			return nil, errors.New("no resume files provided")
		}
		docs := make([]ingestion.RawDocument, 0, len(files))
		for _, header := range files {
			doc, err := readFileHeader(header)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, nil
	case "gmail":
		if s.gmail == nil {
			return nil, errors.New("gmail ingestion is not configured")
		}
		subject := c.PostForm("gmail_subject")
		if subject == "" {
			return nil, errors.New("gmail_subject is required for gmail method")
		}
		return s.gmail.FetchResumes(c.Request.Context(), subject)
	default:
		return nil, fmt.Errorf("method must be 'upload' or 'gmail', got %q", method)
	}
}

// readUpload reads a single uploaded file into memory.
func (s *Server) readUpload(c *gin.Context, field string) (ingestion.RawDocument, error) {
	if err := c.Request.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return ingestion.RawDocument{}, fmt.Errorf("failed to parse form: %v", err)
	}

	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return ingestion.RawDocument{}, fmt.Errorf("%s is required", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ingestion.RawDocument{}, fmt.Errorf("failed to read %s: %v", header.Filename, err)
	}

	// Leave the stream rewound in case another handler layer reuses it.
	file.Seek(0, io.SeekStart)

	return ingestion.RawDocument{Name: header.Filename, Data: data}, nil
}

func readFileHeader(header *multipart.FileHeader) (ingestion.RawDocument, error) {
	file, err := header.Open()
	if err != nil {
		return ingestion.RawDocument{}, fmt.Errorf("failed to open %s: %v", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ingestion.RawDocument{}, fmt.Errorf("failed to read %s: %v", header.Filename, err)
	}

	return ingestion.RawDocument{Name: header.Filename, Data: data}, nil
}

// respondPipelineError maps pipeline errors to status codes: document errors
// are the caller's fault, completion-service failures are upstream.
func (s *Server) respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingestion.ErrUnsupportedFormat), errors.Is(err, ingestion.ErrCorruptDocument):
		s.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrService):
		s.respondError(c, http.StatusBadGateway, err.Error())
	default:
		s.respondError(c, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func prunedCriteria(raw []string) []string {
	criteria := make([]string, 0, len(raw))
	for _, criterion := range raw {
		if criterion != "" {
			criteria = append(criteria, criterion)
		}
	}
	return criteria
}
