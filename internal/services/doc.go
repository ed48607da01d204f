// Package services implements the two fetchers a run depends on.
//
// # Playlist Source
//
// [SpotifyService] implements [PlaylistSource] against the Spotify Web API.
// It authenticates with the client-credentials grant ([clientcredentials.Config]), so no browser
// or redirect is involved, and the resulting [oauth2] client refreshes the token on its own.
//
// Playlist IDs may be given as a bare ID, a spotify:playlist:<id> URI or an open.spotify.com URL.
//
// Only the first page of items is read by default. With AllPages set, next links are followed
// and each page request waits on a [rate.Limiter].
//
// # Document Source
//
// [DocumentService] implements [DocumentSource] for HTML documents (typically a Google Doc
// published to the web). Tables are read with goquery. The document must hold exactly one
// table; the row at the header index names the columns and colspan/rowspan cells are
// repeated into every slot they cover.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAuthFailed] : token exchange failed, or the API answered 401/403
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
//   - [shared.ErrAPIRequest] : any other failed API request
//   - [shared.ErrDocumentFetch] : document could not be retrieved
//   - [shared.ErrInputShape] : zero or several tables ([TableCountError]) or a header row past the end
//   - [shared.ErrMissingColumns] : header row lacks a required column
package services
