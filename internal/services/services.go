// package services defines interfaces PlaylistSource and DocumentSource for the two inputs of a run
//
// Spotify (client credentials), HTML documents
package services

import (
	"context"

	"github.com/desertthunder/docmatch/internal/models"
)

// PlaylistSource defines the interface for catalog services that can list the tracks of a playlist.
type PlaylistSource interface {
	// Authenticate obtains an access credential for the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context) error

	// PlaylistTracks retrieves the tracks of a playlist in service order.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// DocumentSource defines the interface for fetching the reference table.
type DocumentSource interface {
	// FetchTable retrieves source and extracts exactly one table from it, using headerRow for column names.
	FetchTable(ctx context.Context, source string, headerRow int) (*models.Table, error)
}

var (
	_ PlaylistSource = (*SpotifyService)(nil)
	_ DocumentSource = (*DocumentService)(nil)
)
