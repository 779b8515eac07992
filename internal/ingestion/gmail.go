package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailFetcher pulls resume attachments from a Gmail inbox.
type GmailFetcher struct {
	service *gmail.Service
	logger  *zap.Logger
}

// NewGmailFetcher builds a Gmail client from an OAuth credentials file and a
// cached token file. The token file must already exist; there is no
// interactive consent flow in the server.
func NewGmailFetcher(ctx context.Context, credentialsFile, tokenFile string, logger *zap.Logger) (*GmailFetcher, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load oauth token: %w", err)
	}

	client := config.Client(ctx, token)
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailFetcher{service: srv, logger: logger}, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// FetchResumes returns every .pdf and .docx attachment from messages matching
// the subject filter. Attachments stay in memory; nothing is written to disk.
// Messages or attachments that cannot be retrieved are skipped with a warning.
func (g *GmailFetcher) FetchResumes(ctx context.Context, subject string) ([]RawDocument, error) {
	user := "me"
	query := fmt.Sprintf("subject:%s has:attachment", subject)

	list, err := g.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}

	if len(list.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var docs []RawDocument
	for _, msg := range list.Messages {
		message, err := g.service.Users.Messages.Get(user, msg.Id).Context(ctx).Do()
		if err != nil {
			g.logger.Warn("unable to retrieve message", zap.String("message_id", msg.Id), zap.Error(err))
			continue
		}

		for _, part := range message.Payload.Parts {
			if part.Filename == "" || part.Body == nil || part.Body.AttachmentId == "" {
				continue
			}

			ext := strings.ToLower(filepath.Ext(part.Filename))
			if ext != ".pdf" && ext != ".docx" {
				g.logger.Debug("skipping unsupported attachment", zap.String("filename", part.Filename))
				continue
			}

			attachment, err := g.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				g.logger.Warn("unable to retrieve attachment", zap.String("filename", part.Filename), zap.Error(err))
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				g.logger.Warn("unable to decode attachment", zap.String("filename", part.Filename), zap.Error(err))
				continue
			}

			docs = append(docs, RawDocument{Name: part.Filename, Data: data})
			g.logger.Info("fetched attachment", zap.String("filename", part.Filename), zap.Int("bytes", len(data)))
		}
	}

	return docs, nil
}
