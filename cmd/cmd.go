// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const (
	envClientID     = "SPOTIFY_CLIENT_ID"
	envClientSecret = "SPOTIFY_SECRET"
)

// newApp builds the root command. Running it without a subcommand compares a playlist against a document.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "docmatch",
		Usage:    "Match Spotify playlist tracks against a table in a published document",
		Version:  "0.1.0",
		Flags:    compareFlags(),
		Action:   r.Compare,
		Commands: r.register(),
	}
}

func compareFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "doc-url",
			Usage: "URL of the document containing the reference table (local paths also work)",
		},
		&cli.StringFlag{
			Name:  "playlist-id",
			Usage: "Spotify playlist ID, URI or URL",
		},
		&cli.StringFlag{
			Name:    "client-id",
			Usage:   "Spotify client ID",
			Sources: cli.EnvVars(envClientID),
		},
		&cli.StringFlag{
			Name:    "secret",
			Usage:   "Spotify client secret",
			Sources: cli.EnvVars(envClientSecret),
		},
		&cli.FloatFlag{
			Name:  "threshold",
			Usage: "Minimum similarity score to report a match",
			Value: 0.88,
		},
		&cli.IntFlag{
			Name:  "header-row",
			Usage: "Zero-based table row holding the column names",
			Value: 9,
		},
		&cli.BoolFlag{
			Name:  "all-pages",
			Usage: "Fetch every page of the playlist instead of only the first",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "docmatch.toml",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable styled output",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// configCommand handles configuration file operations.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the file to create",
						Value:   "docmatch.toml",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
