package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFileUnset   = fmt.Errorf("auth file not configured")
	ErrAuthFileMissing = fmt.Errorf("auth file not found")
	ErrAuthInit        = fmt.Errorf("auth file rejected")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrOperationFailed    = fmt.Errorf("service reported failure")
	ErrPlaylistLoad       = fmt.Errorf("playlist load failed")
	ErrSongLoad           = fmt.Errorf("song load failed")
	ErrPlaylistCreate     = fmt.Errorf("playlist create failed")
	ErrPlaylistDelete     = fmt.Errorf("playlist delete failed")
	ErrSongAdd            = fmt.Errorf("song add failed")
	ErrSongDelete         = fmt.Errorf("song delete failed")
	ErrSongMove           = fmt.Errorf("song move failed")
	ErrSongNotFound       = fmt.Errorf("song not found in playlist")
	ErrSearchFailed       = fmt.Errorf("search failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
