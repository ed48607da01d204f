package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/docmatch/internal/matcher"
	"github.com/desertthunder/docmatch/internal/models"
	"github.com/desertthunder/docmatch/internal/services"
	"github.com/desertthunder/docmatch/internal/shared"
)

// ReconcileOpts contains the inputs of a single run.
type ReconcileOpts struct {
	DocURL     string  // Document URL or local path
	HeaderRow  int     // Zero-based row holding column names
	PlaylistID string  // Playlist ID, URI or URL
	Threshold  float64 // Minimum similarity to report
}

// ReconcileResult contains all data from a reconciliation.
type ReconcileResult struct {
	Table   *models.Table        // Parsed document table
	Tracks  []models.Track       // Playlist tracks in service order
	Matches []models.MatchResult // Pairs at or above the threshold
}

// Engine defines the reconciliation operation.
type Engine interface {
	// Run fetches both inputs and returns every track/row pair whose title similarity reaches the threshold.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts ReconcileOpts) (*ReconcileResult, error)
}

// Reconciler implements Engine.
// Contains dependencies on the document and playlist sources and the title scorer.
type Reconciler struct {
	documents services.DocumentSource
	playlists services.PlaylistSource
	scorer    matcher.Scorer
}

// NewReconciler creates a Reconciler. A nil scorer uses [matcher.JaroWinkler].
func NewReconciler(documents services.DocumentSource, playlists services.PlaylistSource, scorer matcher.Scorer) *Reconciler {
	if scorer == nil {
		scorer = matcher.JaroWinkler{}
	}
	return &Reconciler{documents: documents, playlists: playlists, scorer: scorer}
}

// sendProgress sends a progress update through the channel without blocking.
func (r *Reconciler) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs a full reconciliation: document, then playlist, then comparison.
func (r *Reconciler) Run(ctx context.Context, progress chan<- ProgressUpdate, opts ReconcileOpts) (*ReconcileResult, error) {
	if r.documents == nil {
		return nil, fmt.Errorf("%w: document source not initialized", shared.ErrInvalidConfig)
	}
	if r.playlists == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrInvalidConfig)
	}

	r.sendProgress(progress, fetchDocumentUpdate(opts.DocURL))

	table, err := r.documents.FetchTable(ctx, opts.DocURL, opts.HeaderRow)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	r.sendProgress(progress, fetchPlaylistUpdate(r.playlists.Name(), opts.PlaylistID))

	if err := r.playlists.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("failed to authenticate with %s: %w", r.playlists.Name(), err)
	}

	tracks, err := r.playlists.PlaylistTracks(ctx, opts.PlaylistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	r.sendProgress(progress, compareUpdate(len(tracks), len(table.Rows)))

	matches := Match(tracks, table, opts.Threshold, r.scorer)

	r.sendProgress(progress, completeUpdate(len(matches)))

	return &ReconcileResult{
		Table:   table,
		Tracks:  tracks,
		Matches: matches,
	}, nil
}

// Match scores every track title against the Title column of every row and keeps the pairs with score >= threshold.
//
// Results are ordered by track, then by document row.
func Match(tracks []models.Track, table *models.Table, threshold float64, scorer matcher.Scorer) []models.MatchResult {
	if scorer == nil {
		scorer = matcher.JaroWinkler{}
	}

	var matches []models.MatchResult
	for _, track := range tracks {
		for _, row := range table.Rows {
			score := scorer.Score(track.Title, row.Get(models.ColumnTitle))
			if score >= threshold {
				matches = append(matches, models.MatchResult{Track: track, Row: row, Score: score})
			}
		}
	}
	return matches
}
