// Package batch implements the JSON action protocol used by external
// callers. One request document comes in on a reader, names an action and
// carries its parameters; one response document goes out on a writer.
// Responses are either {ok:true, ...} with action-specific fields or
// {ok:false, error, code, status, details?}.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytshift/internal/order"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/desertthunder/ytshift/internal/tasks"
)

const (
	listLimit  = 500
	entryLimit = 5000
)

// Error codes carried by failure envelopes.
const (
	CodeInvalidInput    = "invalid_input"
	CodeMissingAuthFile = "missing_auth_file"
	CodeAuthInitFailed  = "auth_init_failed"
	CodePlaylistLoad    = "playlist_load_failed"
	CodeSongLoad        = "song_load_failed"
	CodePlaylistCreate  = "playlist_create_failed"
	CodePlaylistDelete  = "playlist_delete_failed"
	CodeSongAdd         = "playlist_song_add_failed"
	CodeSongDelete      = "playlist_song_delete_failed"
	CodeSongMove        = "playlist_song_move_failed"
	CodeSongNotFound    = "playlist_song_not_found"
	CodeServerError     = "server_error"
)

// Error is a protocol failure. Status carries the HTTP status the error
// maps to when the handler is fronted by the action server.
type Error struct {
	Message string
	Code    string
	Status  int
	Details string
}

type errorBody struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

func (e *Error) body() errorBody {
	return errorBody{Error: e.Message, Code: e.Code, Status: e.Status, Details: e.Details}
}

// Envelope returns the wire form of the failure, the same document the
// stdio loop prints. Callers fronting the handler with HTTP marshal this
// as the response body.
func (e *Error) Envelope() any {
	return e.body()
}

func invalidInput(msg string) *Error {
	return &Error{Message: msg, Code: CodeInvalidInput, Status: 400}
}

// Handler executes batch actions against the catalog.
type Handler struct {
	catalog  services.Catalog
	planner  *order.Planner
	engine   tasks.Engine
	authFile string
	debug    bool
	logger   *log.Logger
}

// HandlerOpts bundles the dependencies a Handler needs. Logger is
// optional; the default logs to stderr so stdout stays pure JSON.
type HandlerOpts struct {
	Catalog  services.Catalog
	Planner  *order.Planner
	Engine   tasks.Engine
	AuthFile string
	Debug    bool
	Logger   *log.Logger
}

// NewHandler creates a Handler from opts.
func NewHandler(opts HandlerOpts) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}

	return &Handler{
		catalog:  opts.Catalog,
		planner:  opts.Planner,
		engine:   opts.Engine,
		authFile: opts.AuthFile,
		debug:    opts.Debug,
		logger:   logger,
	}
}

// Run reads one JSON payload from r, executes it and writes the response
// document to w. It returns the process exit code: 0 when the action
// succeeded, 1 when the response is a failure envelope.
func (h *Handler) Run(ctx context.Context, r io.Reader, w io.Writer) int {
	raw, err := io.ReadAll(r)
	if err != nil {
		return h.fail(w, invalidInput("Missing migration payload."))
	}

	response, dispatchErr := h.DispatchRaw(ctx, raw)
	if dispatchErr != nil {
		return h.fail(w, dispatchErr)
	}

	h.write(w, response)
	return 0
}

// DispatchRaw parses one raw payload document and dispatches it.
func (h *Handler) DispatchRaw(ctx context.Context, raw []byte) (any, *Error) {
	if strings.TrimSpace(string(raw)) == "" {
		return nil, invalidInput("Missing migration payload.")
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		e := invalidInput("Invalid migration payload.")
		e.Details = err.Error()
		return nil, e
	}

	payload, ok := parsed.(map[string]any)
	if !ok {
		return nil, invalidInput("Payload must be a JSON object.")
	}

	return h.Dispatch(ctx, payload)
}

// Dispatch resolves and runs one action. An empty or missing action name
// defaults to "status". Every action, status included, requires a usable
// auth file.
func (h *Handler) Dispatch(ctx context.Context, payload map[string]any) (any, *Error) {
	action := shared.SafeString(payload["action"])
	if action == "" {
		action = "status"
	}

	h.logger.Debug("dispatching batch action", "action", action)

	if authErr := h.verifyAuth(); authErr != nil {
		return nil, authErr
	}

	switch action {
	case "status":
		return h.status(ctx)
	case "playlists":
		return h.playlists(ctx)
	case "playlistSongs":
		return h.playlistSongs(ctx, payload)
	case "createPlaylist":
		return h.createPlaylist(ctx, payload)
	case "removePlaylistItems":
		return h.removePlaylistItems(ctx, payload)
	case "deletePlaylist":
		return h.deletePlaylist(ctx, payload)
	case "insertVideoAtPosition":
		return h.insertVideoAtPosition(ctx, payload)
	case "movePlaylistSong":
		return h.movePlaylistSong(ctx, payload)
	case "migrateSongs":
		return h.migrateSongs(ctx, payload)
	default:
		return nil, invalidInput("Unknown ytmusic action.")
	}
}

func (h *Handler) verifyAuth() *Error {
	err := shared.VerifyAuthFile(h.authFile)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrAuthFileUnset):
		return &Error{
			Message: "YTMUSIC_AUTH_FILE is not configured.",
			Code:    CodeMissingAuthFile,
			Status:  500,
		}
	case errors.Is(err, shared.ErrAuthFileMissing):
		return &Error{
			Message: fmt.Sprintf("Auth file does not exist: %s", h.authFile),
			Code:    CodeMissingAuthFile,
			Status:  400,
		}
	default:
		return &Error{
			Message: "Failed to initialize ytmusicapi. Check your auth file.",
			Code:    CodeAuthInitFailed,
			Status:  400,
			Details: err.Error(),
		}
	}
}

// classify maps a service error chain onto the protocol's code and status
// table. The sentinel picks the message; the full chain rides in details.
func classify(err error) *Error {
	switch {
	case errors.Is(err, shared.ErrPlaylistLoad):
		return &Error{Message: "Failed to load YouTube Music playlists.", Code: CodePlaylistLoad, Status: 502, Details: err.Error()}
	case errors.Is(err, shared.ErrSongLoad):
		return &Error{Message: "Failed to load playlist songs.", Code: CodeSongLoad, Status: 502, Details: err.Error()}
	case errors.Is(err, shared.ErrPlaylistCreate):
		return &Error{Message: "Failed to create YouTube Music playlist.", Code: CodePlaylistCreate, Status: 502, Details: err.Error()}
	case errors.Is(err, shared.ErrPlaylistDelete):
		return &Error{Message: "Failed to delete YouTube Music playlist.", Code: CodePlaylistDelete, Status: 502, Details: err.Error()}
	case errors.Is(err, shared.ErrSongAdd):
		return &Error{Message: "Failed to add video to YouTube Music playlist.", Code: CodeSongAdd, Status: 502, Details: err.Error()}
	case errors.Is(err, shared.ErrSongDelete):
		return &Error{Message: "Failed to delete songs from YouTube Music playlist.", Code: CodeSongDelete, Status: 502, Details: err.Error()}
	case errors.Is(err, shared.ErrSongMove):
		return &Error{Message: "Failed to move song in YouTube Music playlist.", Code: CodeSongMove, Status: 502, Details: err.Error()}
	case errors.Is(err, shared.ErrSongNotFound):
		return &Error{Message: "Could not find selected song in playlist.", Code: CodeSongNotFound, Status: 404}
	case errors.Is(err, shared.ErrInvalidInput):
		return invalidInput(err.Error())
	default:
		return &Error{Message: err.Error(), Code: CodeServerError, Status: 500}
	}
}

func (h *Handler) fail(w io.Writer, e *Error) int {
	h.write(w, e.body())
	return 1
}

func (h *Handler) write(w io.Writer, doc any) {
	data, err := json.Marshal(doc)
	if err != nil {
		h.logger.Error("failed to encode batch response", "error", err)
		fmt.Fprintln(w, `{"ok":false,"error":"Failed to encode response.","code":"server_error","status":500}`)
		return
	}

	fmt.Fprintln(w, string(data))
}
