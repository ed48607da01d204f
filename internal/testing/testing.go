// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/docmatch/internal/models"
)

// MockPlaylistSource is a test double for [services.PlaylistSource]
type MockPlaylistSource struct {
	Tracks    []models.Track
	AuthErr   error
	TracksErr error

	AuthCalls   int
	TracksCalls int
	LastID      string
}

func (m *MockPlaylistSource) Authenticate(ctx context.Context) error {
	m.AuthCalls++
	return m.AuthErr
}

func (m *MockPlaylistSource) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.TracksCalls++
	m.LastID = playlistID
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return m.Tracks, nil
}

func (m *MockPlaylistSource) Name() string { return "mock" }

// MockDocumentSource is a test double for [services.DocumentSource]
type MockDocumentSource struct {
	Table *models.Table
	Err   error

	Calls         int
	LastSource    string
	LastHeaderRow int
}

func (m *MockDocumentSource) FetchTable(ctx context.Context, source string, headerRow int) (*models.Table, error) {
	m.Calls++
	m.LastSource = source
	m.LastHeaderRow = headerRow
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Table, nil
}

// ReviewTable builds a table with the required review columns from (title, version) pairs.
func ReviewTable(rows ...[2]string) *models.Table {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r[0], r[1], "opinion of " + r[0], "issues of " + r[0], "ref/" + r[0]})
	}
	return models.NewTable(models.RequiredColumns, records)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// CountingRoundTripper records requests and fails every one of them
type CountingRoundTripper struct {
	Requests []*http.Request
}

func (c *CountingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.Requests = append(c.Requests, req)
	return nil, errors.New("network disabled in test")
}

func AssertNoRequests(t *testing.T, c *CountingRoundTripper) {
	t.Helper()
	if len(c.Requests) != 0 {
		t.Errorf("expected no network requests, got %d (first: %s)", len(c.Requests), c.Requests[0].URL)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s to exist: %v", path, err)
	}
}
