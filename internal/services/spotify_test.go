package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/docmatch/internal/models"
	"github.com/desertthunder/docmatch/internal/shared"
)

// fakeSpotify serves the token endpoint and a paginated playlist tracks endpoint.
type fakeSpotify struct {
	*httptest.Server
	items       []SpotifyPlaylistItem
	tokenCalls  atomic.Int32
	trackCalls  atomic.Int32
	trackStatus int
}

func newFakeSpotify(t *testing.T, items []SpotifyPlaylistItem) *fakeSpotify {
	t.Helper()
	f := &fakeSpotify{items: items}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		id, secret, ok := r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		if !ok || id != "test_client_id" || secret != "test_client_secret" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"invalid_client","error_description":"Invalid client"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"test_token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("GET /v1/playlists/{id}/tracks", func(w http.ResponseWriter, r *http.Request) {
		f.trackCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer test_token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.trackStatus != 0 {
			w.WriteHeader(f.trackStatus)
			return
		}
		if r.PathValue("id") != "37i9dQZF1DXcBWIGoYBM5M" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("additional_types") != "track" {
			t.Errorf("expected additional_types=track, got %q", r.URL.RawQuery)
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := min(offset+limit, len(f.items))

		page := SpotifyPlaylistTracks{
			Items:  f.items[offset:end],
			Total:  len(f.items),
			Limit:  limit,
			Offset: offset,
		}
		if end < len(f.items) {
			next := fmt.Sprintf("%s/v1/playlists/%s/tracks?offset=%d&limit=%d&additional_types=track", f.URL, r.PathValue("id"), end, limit)
			page.Next = &next
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(page)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeSpotify) opts() SpotifyOpts {
	return SpotifyOpts{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		TokenURL:     f.URL + "/api/token",
		APIURL:       f.URL + "/v1",
		HTTPClient:   f.Client(),
		Logger:       shared.NewLogger(&bytes.Buffer{}),
	}
}

func item(title string, artists ...string) SpotifyPlaylistItem {
	track := &SpotifyTrack{Name: title, Type: "track"}
	for _, a := range artists {
		track.Artists = append(track.Artists, SpotifyArtist{Name: a})
	}
	return SpotifyPlaylistItem{Track: track}
}

const testPlaylistID = "37i9dQZF1DXcBWIGoYBM5M"

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(SpotifyOpts{ClientID: "id", ClientSecret: "secret"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.pageSize != 100 {
				t.Errorf("expected default page size 100, got %d", srv.pageSize)
			}
			if srv.config.TokenURL != spotifyTokenURL {
				t.Errorf("expected default token URL, got %s", srv.config.TokenURL)
			}
			if srv.apiURL != spotifyBaseURL {
				t.Errorf("expected default API URL, got %s", srv.apiURL)
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(SpotifyOpts{ClientSecret: "secret"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(SpotifyOpts{ClientID: "id"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("exchanges client credentials", func(t *testing.T) {
			f := newFakeSpotify(t, nil)
			srv, err := NewSpotifyService(f.opts())
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			if err := srv.Authenticate(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.httpClient == nil {
				t.Error("expected an authenticated client")
			}
			if got := f.tokenCalls.Load(); got != 1 {
				t.Errorf("expected one token request, got %d", got)
			}
		})

		t.Run("invalid credentials", func(t *testing.T) {
			f := newFakeSpotify(t, nil)
			opts := f.opts()
			opts.ClientSecret = "wrong"
			srv, _ := NewSpotifyService(opts)

			err := srv.Authenticate(context.Background())
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("unreachable service", func(t *testing.T) {
			f := newFakeSpotify(t, nil)
			opts := f.opts()
			f.Close()
			srv, _ := NewSpotifyService(opts)

			err := srv.Authenticate(context.Background())
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})

	t.Run("PlaylistTracks", func(t *testing.T) {
		items := []SpotifyPlaylistItem{
			item("Hello", "A", "Featured"),
			item("World", "B"),
			{Track: nil},
			item("No Artist"),
			item("Fourth", "D"),
		}

		authed := func(t *testing.T, f *fakeSpotify, mutate func(*SpotifyOpts)) *SpotifyService {
			t.Helper()
			opts := f.opts()
			if mutate != nil {
				mutate(&opts)
			}
			srv, err := NewSpotifyService(opts)
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}
			if err := srv.Authenticate(context.Background()); err != nil {
				t.Fatalf("failed to authenticate: %v", err)
			}
			return srv
		}

		t.Run("reduces items to title and first artist", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			srv := authed(t, f, nil)

			tracks, err := srv.PlaylistTracks(context.Background(), testPlaylistID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []models.Track{
				{Title: "Hello", Artist: "A"},
				{Title: "World", Artist: "B"},
				{Title: "No Artist", Artist: ""},
				{Title: "Fourth", Artist: "D"},
			}
			if len(tracks) != len(want) {
				t.Fatalf("expected %d tracks, got %d: %+v", len(want), len(tracks), tracks)
			}
			for i := range want {
				if tracks[i] != want[i] {
					t.Errorf("track %d: expected %+v, got %+v", i, want[i], tracks[i])
				}
			}
			if calls := f.tokenCalls.Load(); calls != 1 {
				t.Errorf("expected one token request, got %d", calls)
			}
		})

		t.Run("first page only by default", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			srv := authed(t, f, func(o *SpotifyOpts) { o.PageSize = 2 })

			tracks, err := srv.PlaylistTracks(context.Background(), testPlaylistID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 2 {
				t.Errorf("expected 2 tracks from the first page, got %d", len(tracks))
			}
			if calls := f.trackCalls.Load(); calls != 1 {
				t.Errorf("expected a single page request, got %d", calls)
			}
		})

		t.Run("all pages follows next links", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			srv := authed(t, f, func(o *SpotifyOpts) {
				o.PageSize = 2
				o.AllPages = true
				o.RateLimit = 1000
			})

			tracks, err := srv.PlaylistTracks(context.Background(), testPlaylistID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 4 {
				t.Errorf("expected 4 tracks, got %d", len(tracks))
			}
			if tracks[3].Title != "Fourth" {
				t.Errorf("expected service order to be kept, got %+v", tracks)
			}
			if calls := f.trackCalls.Load(); calls != 3 {
				t.Errorf("expected 3 page requests, got %d", calls)
			}
		})

		t.Run("accepts playlist URLs", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			srv := authed(t, f, nil)

			tracks, err := srv.PlaylistTracks(context.Background(), "https://open.spotify.com/playlist/"+testPlaylistID+"?si=abc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 4 {
				t.Errorf("expected 4 tracks, got %d", len(tracks))
			}
		})

		t.Run("unknown playlist", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			srv := authed(t, f, nil)

			_, err := srv.PlaylistTracks(context.Background(), "doesNotExist")
			if !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})

		t.Run("server error", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			f.trackStatus = http.StatusInternalServerError
			srv := authed(t, f, nil)

			_, err := srv.PlaylistTracks(context.Background(), testPlaylistID)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("forbidden", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			f.trackStatus = http.StatusForbidden
			srv := authed(t, f, nil)

			_, err := srv.PlaylistTracks(context.Background(), testPlaylistID)
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("requires authentication", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			srv, _ := NewSpotifyService(f.opts())

			_, err := srv.PlaylistTracks(context.Background(), testPlaylistID)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if calls := f.trackCalls.Load(); calls != 0 {
				t.Errorf("expected no API request, got %d", calls)
			}
		})

		t.Run("invalid playlist ID", func(t *testing.T) {
			f := newFakeSpotify(t, items)
			srv := authed(t, f, nil)

			_, err := srv.PlaylistTracks(context.Background(), "spotify:album:abc")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})
}

func TestParsePlaylistID(t *testing.T) {
	tc := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare ID", in: testPlaylistID, want: testPlaylistID},
		{name: "padded ID", in: "  " + testPlaylistID + "\n", want: testPlaylistID},
		{name: "URI", in: "spotify:playlist:" + testPlaylistID, want: testPlaylistID},
		{name: "legacy user URI", in: "spotify:user:someone:playlist:" + testPlaylistID, want: testPlaylistID},
		{name: "URL", in: "https://open.spotify.com/playlist/" + testPlaylistID, want: testPlaylistID},
		{name: "URL with query", in: "https://open.spotify.com/playlist/" + testPlaylistID + "?si=xyz", want: testPlaylistID},
		{name: "localized URL", in: "https://open.spotify.com/intl-de/playlist/" + testPlaylistID, want: testPlaylistID},
		{name: "album URI", in: "spotify:album:" + testPlaylistID, wantErr: true},
		{name: "track URL", in: "https://open.spotify.com/track/" + testPlaylistID, wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "path traversal", in: "../me", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlaylistID(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v (id %q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePlaylistID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlaylistTruncationWarning(t *testing.T) {
	var logs bytes.Buffer
	f := newFakeSpotify(t, []SpotifyPlaylistItem{item("a", "x"), item("b", "y"), item("c", "z")})
	opts := f.opts()
	opts.PageSize = 2
	opts.Logger = shared.NewLogger(&logs)

	srv, _ := NewSpotifyService(opts)
	if err := srv.Authenticate(context.Background()); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if _, err := srv.PlaylistTracks(context.Background(), testPlaylistID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(logs.String(), "playlist truncated to first page") {
		t.Errorf("expected truncation warning, got %q", logs.String())
	}
}
