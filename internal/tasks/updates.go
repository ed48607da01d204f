package tasks

import "fmt"

// ProgressUpdate represents a progress event during a run.
//
// Used to send updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchDocument Phase = iota
	FetchPlaylist
	Compare
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchDocument:
		return "fetch_document"
	case FetchPlaylist:
		return "fetch_playlist"
	case Compare:
		return "compare"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchDocumentUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDocument,
		Message: fmt.Sprintf("Fetching document %s...", url),
	}
}

func fetchPlaylistUpdate(service, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Message: fmt.Sprintf("Fetching playlist %s from %s...", id, service),
	}
}

func compareUpdate(tracks, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Message: fmt.Sprintf("Comparing %d tracks against %d rows...", tracks, rows),
		Data:    tracks * rows,
	}
}

func completeUpdate(matches int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Message: fmt.Sprintf("Found %d matches", matches),
		Data:    matches,
	}
}
