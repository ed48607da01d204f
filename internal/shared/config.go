package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifyConfig     `toml:"spotify"`
	Document    DocumentConfig    `toml:"document"`
	Match       MatchConfig       `toml:"match"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyCredentials `toml:"spotify"`
}

// SpotifyCredentials contains the client-credential pair for the Spotify Web API.
type SpotifyCredentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// SpotifyConfig contains Spotify endpoint and paging settings.
type SpotifyConfig struct {
	TokenURL  string  `toml:"token_url"`
	APIURL    string  `toml:"api_url"`
	PageSize  int     `toml:"page_size"`
	AllPages  bool    `toml:"all_pages"`
	RateLimit float64 `toml:"rate_limit"` // page requests per second
}

// DocumentConfig describes the layout of the reference table.
type DocumentConfig struct {
	HeaderRow int `toml:"header_row"`
}

// MatchConfig contains matching settings.
type MatchConfig struct {
	Threshold float64 `toml:"threshold"`
}

// LoadConfig reads a TOML configuration file from the specified path and decodes it on top of [DefaultConfig].
//
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration can drive a run.
//
// Each credential is checked on its own so a run missing both reports both.
func (c *Config) Validate() error {
	var errs []error

	if c.Credentials.Spotify.ClientID == "" {
		errs = append(errs, fmt.Errorf("%w: client id needs to be set (--client-id or SPOTIFY_CLIENT_ID)", ErrMissingCredentials))
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("%w: secret needs to be set (--secret or SPOTIFY_SECRET)", ErrMissingCredentials))
	}
	if c.Document.HeaderRow < 0 {
		errs = append(errs, fmt.Errorf("%w: header row must not be negative, got %d", ErrInvalidConfig, c.Document.HeaderRow))
	}
	if c.Spotify.PageSize < 1 || c.Spotify.PageSize > 100 {
		errs = append(errs, fmt.Errorf("%w: page size must be between 1 and 100, got %d", ErrInvalidConfig, c.Spotify.PageSize))
	}

	return errors.Join(errs...)
}

// ThresholdInRange reports whether the match threshold is a reachable similarity score.
func (c *Config) ThresholdInRange() bool {
	return c.Match.Threshold >= 0 && c.Match.Threshold <= 1
}
