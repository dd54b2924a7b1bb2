// Package services defines the [Catalog] interface for YouTube Music playlist
// operations and implements it against the FastAPI proxy server.
//
// # Catalog Interface
//
// Playlist reads, playlist writes, and catalog search go through a single
// abstraction so orchestration layers can be exercised against fakes.
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication complexities.
// The auth file path is sent via X-Auth-File header on each request.
// All operations are synchronous HTTP calls to the proxy endpoints, paced by
// a token-bucket limiter so bursts of playlist writes do not trip upstream
// throttling.
//
// # Write Acknowledgements
//
// The proxy forwards upstream write results verbatim. A 2xx response can
// still carry an explicit failure marker (a bare false, {"status": "failed"},
// or {"ok": false}); [OperationFailed] detects these and the typed methods
// convert them to errors. Anything else, including an empty body, counts as
// success.
//
// # Error Handling
//
// Methods wrap failures in typed errors from the shared package:
//   - [shared.ErrServiceUnavailable] : proxy unreachable
//   - [shared.ErrAPIRequest] : HTTP request rejected by the proxy
//   - [shared.ErrPlaylistLoad], [shared.ErrSongLoad] : read failures
//   - [shared.ErrPlaylistCreate], [shared.ErrPlaylistDelete] : playlist writes
//   - [shared.ErrSongAdd], [shared.ErrSongDelete], [shared.ErrSongMove] : entry writes
//
// Search errors are returned unwrapped; migration folds them into per-song
// failure reporting rather than failing a batch.
//
// # OAuth Setup
//
// [OAuthSetup] drives the OAuth device flow for producing the oauth
// credential file the proxy accepts as an alternative to browser headers.
package services
