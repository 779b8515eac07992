package config

import "fmt"

// Config holds application configuration, populated from the config file,
// environment variables, and flags by the cmd package.
type Config struct {
	Port        int    `mapstructure:"port"`
	Project     string `mapstructure:"project"`
	Location    string `mapstructure:"location"`
	Model       string `mapstructure:"model"`
	Concurrency int    `mapstructure:"concurrency"`
	MaxUploadMB int    `mapstructure:"max-upload-mb"`

	Gmail *GmailConfig `mapstructure:"gmail"`
}

// GmailConfig enables the optional Gmail resume source.
type GmailConfig struct {
	CredentialsFile string `mapstructure:"credentials-file"`
	TokenFile       string `mapstructure:"token-file"`
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("google cloud project is required (set project in the config file or GOOGLE_CLOUD_PROJECT)")
	}

	if c.Gmail != nil && c.Gmail.CredentialsFile != "" && c.Gmail.TokenFile == "" {
		return fmt.Errorf("gmail token-file is required when gmail credentials are configured")
	}

	return nil
}

// GmailEnabled reports whether the Gmail resume source is configured.
func (c *Config) GmailEnabled() bool {
	return c.Gmail != nil && c.Gmail.CredentialsFile != ""
}
