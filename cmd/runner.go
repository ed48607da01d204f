package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/docmatch/internal/services"
	"github.com/desertthunder/docmatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistFactory builds a playlist source once credentials are resolved.
type PlaylistFactory func(config *shared.Config, logger *log.Logger) (services.PlaylistSource, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	documents  services.DocumentSource
	playlists  PlaylistFactory
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config means the config file named by --config (if present) is loaded on each run.
type RunnerOpts struct {
	Config     *shared.Config
	Documents  services.DocumentSource
	Playlists  PlaylistFactory
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Documents == nil {
		opts.Documents = services.NewDocumentService(opts.HTTPClient)
	}
	if opts.Playlists == nil {
		opts.Playlists = spotifyFactory(opts.HTTPClient)
	}

	return &Runner{
		config:     opts.Config,
		documents:  opts.Documents,
		playlists:  opts.Playlists,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func spotifyFactory(c *http.Client) PlaylistFactory {
	return func(config *shared.Config, logger *log.Logger) (services.PlaylistSource, error) {
		return services.NewSpotifyService(services.SpotifyOpts{
			ClientID:     config.Credentials.Spotify.ClientID,
			ClientSecret: config.Credentials.Spotify.ClientSecret,
			TokenURL:     config.Spotify.TokenURL,
			APIURL:       config.Spotify.APIURL,
			PageSize:     config.Spotify.PageSize,
			AllPages:     config.Spotify.AllPages,
			RateLimit:    config.Spotify.RateLimit,
			HTTPClient:   c,
			Logger:       logger,
		})
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){configCommand} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
