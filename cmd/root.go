package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fmuoria/resume-ranker/internal/config"
)

const app = "resume-ranker"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-ranker extracts ranking criteria from job descriptions and scores resumes against them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	if err := viper.BindEnv("project", "GOOGLE_CLOUD_PROJECT"); err != nil {
		log.Fatalf("binding GOOGLE_CLOUD_PROJECT environment variable: %v", err)
	}
	if err := viper.BindEnv("location", "GOOGLE_CLOUD_LOCATION"); err != nil {
		log.Fatalf("binding GOOGLE_CLOUD_LOCATION environment variable: %v", err)
	}
	if err := viper.BindEnv("port", "PORT"); err != nil {
		log.Fatalf("binding PORT environment variable: %v", err)
	}

	viper.SetDefault("port", 8080)
	viper.SetDefault("location", "us-central1")
	viper.SetDefault("model", "gemini-1.5-flash")
	viper.SetDefault("concurrency", 4)
	viper.SetDefault("max-upload-mb", 32)
}

func initConfig() {
	// A missing .env file is fine; environment variables win either way.
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*config.Config, error) {
	var cfg *config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
