package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fmuoria/resume-ranker/internal/agent"
	"github.com/fmuoria/resume-ranker/internal/api"
	"github.com/fmuoria/resume-ranker/internal/ingestion"
	"github.com/fmuoria/resume-ranker/internal/llm"
	"github.com/fmuoria/resume-ranker/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume ranking HTTP server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	cfg, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	client, err := llm.NewVertexAIClient(ctx, cfg.Project, cfg.Location, cfg.Model)
	if err != nil {
		logger.Fatal("creating the Vertex AI client", zap.Error(err))
	}
	defer client.Close()

	completer := llm.NewLoggingCompleter(client, logger)
	pipeline := agent.New(completer, cfg.Concurrency, logger)

	var gmailSource api.ResumeSource
	if cfg.GmailEnabled() {
		fetcher, err := ingestion.NewGmailFetcher(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile, logger)
		if err != nil {
			logger.Warn("gmail ingestion disabled", zap.Error(err))
		} else {
			gmailSource = fetcher
		}
	}

	server := api.NewServer(pipeline, gmailSource, logger, cfg.MaxUploadMB)

	logger.Info("starting the resume ranker",
		zap.String("version", version),
		zap.Int("port", cfg.Port),
		zap.String("model", cfg.Model),
		zap.Bool("gmail", gmailSource != nil),
	)

	if err := server.Router().Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
