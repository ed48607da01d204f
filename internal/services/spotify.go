// Spotify Web API implementation of [PlaylistSource]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/get-playlists-tracks
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/docmatch/internal/models"
	"github.com/desertthunder/docmatch/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
	defaultPageSize = 100
)

var playlistIDPattern = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents the parts of a Spotify track object that are read.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Type    string          `json:"type"`
}

// SpotifyPlaylistItem represents a track within a playlist context.
//
// Track is null for items that were removed from the catalog.
type SpotifyPlaylistItem struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPlaylistTracks represents a paginated response of playlist items.
type SpotifyPlaylistTracks struct {
	Items    []SpotifyPlaylistItem `json:"items"`
	Total    int                   `json:"total"`
	Limit    int                   `json:"limit"`
	Offset   int                   `json:"offset"`
	Next     *string               `json:"next"`
	Previous *string               `json:"previous"`
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string       // defaults to the accounts service
	APIURL       string       // defaults to the Web API v1 base
	PageSize     int          // defaults to 100
	AllPages     bool         // follow next links past the first page
	RateLimit    float64      // page requests per second when AllPages is set; <= 0 disables throttling
	HTTPClient   *http.Client // base client for token and API requests
	Logger       *log.Logger
}

// SpotifyService implements [PlaylistSource] for the Spotify Web API.
// Uses [clientcredentials] for app-only authentication; no user login is involved.
type SpotifyService struct {
	config     *clientcredentials.Config
	baseClient *http.Client
	httpClient *http.Client
	apiURL     string
	pageSize   int
	allPages   bool
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service with the given client credentials.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.APIURL == "" {
		opts.APIURL = spotifyBaseURL
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &SpotifyService{
		config: &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		baseClient: opts.HTTPClient,
		apiURL:     strings.TrimRight(opts.APIURL, "/"),
		pageSize:   opts.PageSize,
		allPages:   opts.AllPages,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate exchanges the client credentials for an access token.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.baseClient)

	token, err := s.config.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.httpClient = oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, s.config.TokenSource(ctx)))
	return nil
}

// getJSON performs an authenticated GET against rawURL and decodes the body into result.
func (s *SpotifyService) getJSON(ctx context.Context, rawURL string, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrPlaylistNotFound, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// PlaylistTracksPage retrieves one page of items for a playlist.
func (s *SpotifyService) PlaylistTracksPage(ctx context.Context, playlistID string, limit, offset int) (*SpotifyPlaylistTracks, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	q.Set("additional_types", "track")

	endpoint := fmt.Sprintf("%s/playlists/%s/tracks?%s", s.apiURL, url.PathEscape(playlistID), q.Encode())
	return s.page(ctx, endpoint)
}

func (s *SpotifyService) page(ctx context.Context, endpoint string) (*SpotifyPlaylistTracks, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var response SpotifyPlaylistTracks
	if err := s.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// PlaylistTracks returns the playlist's tracks as {title, first artist} in playlist order.
//
// Only the first page is read unless the service was built with AllPages.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	id, err := ParsePlaylistID(playlistID)
	if err != nil {
		return nil, err
	}

	response, err := s.PlaylistTracksPage(ctx, id, s.pageSize, 0)
	if err != nil {
		return nil, err
	}

	tracks := s.collect(nil, response)
	for s.allPages && response.Next != nil && *response.Next != "" {
		s.logger.Debug("fetching next playlist page", "offset", response.Offset+response.Limit)
		if response, err = s.page(ctx, *response.Next); err != nil {
			return nil, err
		}
		tracks = s.collect(tracks, response)
	}

	if !s.allPages && response.Next != nil {
		s.logger.Warn("playlist truncated to first page", "total", response.Total, "fetched", len(response.Items))
	}

	return tracks, nil
}

func (s *SpotifyService) collect(tracks []models.Track, response *SpotifyPlaylistTracks) []models.Track {
	for i, item := range response.Items {
		if item.Track == nil {
			s.logger.Warn("skipping unavailable playlist item", "position", response.Offset+i)
			continue
		}

		track := models.Track{Title: item.Track.Name}
		if len(item.Track.Artists) > 0 {
			track.Artist = item.Track.Artists[0].Name
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// ParsePlaylistID extracts a playlist ID from a bare ID, a spotify:playlist URI, or an open.spotify.com URL.
func ParsePlaylistID(s string) (string, error) {
	raw := strings.TrimSpace(s)
	id := raw

	switch {
	case strings.HasPrefix(raw, "spotify:"):
		parts := strings.Split(raw, ":")
		if len(parts) < 3 || parts[len(parts)-2] != "playlist" {
			return "", fmt.Errorf("%w: %q is not a playlist URI", shared.ErrInvalidArgument, s)
		}
		id = parts[len(parts)-1]
	case strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		id = ""
		for i := 0; i < len(segs)-1; i++ {
			if segs[i] == "playlist" {
				id = segs[i+1]
				break
			}
		}
	}

	if !playlistIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q is not a playlist ID, URI or URL", shared.ErrInvalidArgument, s)
	}
	return id, nil
}
