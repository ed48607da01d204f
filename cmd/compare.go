package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/docmatch/internal/formatter"
	"github.com/desertthunder/docmatch/internal/shared"
	"github.com/desertthunder/docmatch/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Compare fetches the document table and the playlist, then prints every track whose title matches a row.
//
// Credentials are validated before any network request is made.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	docURL := cmd.String("doc-url")
	playlistID := cmd.String("playlist-id")

	if docURL == "" {
		return fmt.Errorf("%w: --doc-url flag is required", shared.ErrMissingArgument)
	}
	if playlistID == "" {
		return fmt.Errorf("%w: --playlist-id flag is required", shared.ErrMissingArgument)
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if !config.ThresholdInRange() {
		r.logger.Warn("threshold is outside [0, 1]", "threshold", config.Match.Threshold)
	}

	logger := shared.WithLogger(r.logger, "run", shared.GenerateID())

	playlists, err := r.playlists(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create playlist source: %w", err)
	}

	engine := tasks.NewReconciler(r.documents, playlists, nil)

	progress := make(chan tasks.ProgressUpdate, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			logger.Debug(u.Message, "phase", u.Phase)
		}
	}()

	result, err := engine.Run(ctx, progress, tasks.ReconcileOpts{
		DocURL:     docURL,
		HeaderRow:  config.Document.HeaderRow,
		PlaylistID: playlistID,
		Threshold:  config.Match.Threshold,
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	logger.Info("reconciliation complete",
		"tracks", len(result.Tracks), "rows", len(result.Table.Rows), "matches", len(result.Matches))

	palette := formatter.PaletteFor(r.output, !cmd.Bool("no-color"))
	return formatter.WriteMatches(r.output, result.Matches, palette)
}

// resolveConfig layers flags over environment over the config file over defaults.
func (r *Runner) resolveConfig(cmd *cli.Command) (*shared.Config, error) {
	base := r.config
	if base == nil {
		path := cmd.String("config")
		if _, err := os.Stat(path); err == nil {
			if base, err = shared.LoadConfig(path); err != nil {
				return nil, err
			}
			r.logger.Debug("loaded config", "path", path)
		} else if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		} else {
			base = shared.DefaultConfig()
		}
	}

	config := *base

	// String flags already fall back to their environment variables.
	if v := cmd.String("client-id"); v != "" {
		config.Credentials.Spotify.ClientID = v
	}
	if v := cmd.String("secret"); v != "" {
		config.Credentials.Spotify.ClientSecret = v
	}
	if cmd.IsSet("threshold") {
		config.Match.Threshold = cmd.Float("threshold")
	}
	if cmd.IsSet("header-row") {
		config.Document.HeaderRow = cmd.Int("header-row")
	}
	if cmd.IsSet("all-pages") {
		config.Spotify.AllPages = cmd.Bool("all-pages")
	}

	return &config, nil
}

// ConfigInit writes the example configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Configuration written to %s\n", path)
}
