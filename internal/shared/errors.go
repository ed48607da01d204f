package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and network errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrDocumentFetch    = fmt.Errorf("document request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")

	// Input shape errors
	ErrInputShape     = fmt.Errorf("unexpected input shape")
	ErrMissingColumns = fmt.Errorf("missing required columns")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
