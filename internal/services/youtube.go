// YouTube Music [Catalog] implementation
//
// Communicates with the FastAPI proxy server running on port 8080. The
// proxy wraps the ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/ytshift/internal/shared"
	"golang.org/x/time/rate"
)

const defaultYTBaseURL string = "http://localhost:8080"

// FilterSongs and FilterVideos are the search filters the proxy accepts.
const (
	FilterSongs  = "songs"
	FilterVideos = "videos"
)

// YouTubeService implements the Catalog interface for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a new YouTube Music service instance.
//
// rps caps outgoing request throughput; zero or negative disables pacing.
// A nil client falls back to [http.DefaultClient].
func NewYouTubeService(baseURL, authFile string, rps float64, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	if client == nil {
		client = http.DefaultClient
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	return &YouTubeService{
		baseURL:    baseURL,
		authFile:   authFile,
		httpClient: client,
		limiter:    limiter,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// AuthFile returns the configured browser auth file path.
func (y *YouTubeService) AuthFile() string {
	return y.authFile
}

// SetAuthFile replaces the browser auth file carried on subsequent requests.
func (y *YouTubeService) SetAuthFile(path string) {
	y.authFile = path
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request canceled: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health checks that the proxy service is reachable.
//
// Calls GET /health on the proxy.
func (y *YouTubeService) Health(ctx context.Context) error {
	if err := y.doRequest(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return nil
}

// ListPlaylists retrieves library playlists for the authenticated user.
//
// Calls GET /api/library/playlists on the proxy. Rows without a usable id
// are dropped; untitled rows get a placeholder name.
func (y *YouTubeService) ListPlaylists(ctx context.Context, limit int) ([]Playlist, error) {
	var rows []struct {
		PlaylistID  string `json:"playlistId"`
		BrowseID    string `json:"browseId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Count       int    `json:"count"`
	}

	endpoint := fmt.Sprintf("/api/library/playlists?limit=%d", limit)
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlaylistLoad, err)
	}

	playlists := make([]Playlist, 0, len(rows))
	for _, row := range rows {
		id := row.PlaylistID
		if id == "" {
			id = row.BrowseID
		}
		if id == "" {
			continue
		}

		name := strings.TrimSpace(row.Title)
		if name == "" {
			name = "Untitled playlist"
		}

		playlists = append(playlists, Playlist{
			ID:          id,
			Name:        name,
			Description: row.Description,
			TrackCount:  row.Count,
		})
	}

	return playlists, nil
}

// ListEntries retrieves a playlist's entries in playback order.
//
// Calls GET /api/playlists/{id} on the proxy. A missing or malformed track
// listing decodes to an empty snapshot rather than an error, since reads
// issued right after a write can observe a half-built payload.
func (y *YouTubeService) ListEntries(ctx context.Context, playlistID string, limit int) (Snapshot, error) {
	var payload struct {
		ID     string          `json:"id"`
		Title  string          `json:"title"`
		Tracks json.RawMessage `json:"tracks"`
	}

	endpoint := fmt.Sprintf("/api/playlists/%s?limit=%d", url.PathEscape(playlistID), limit)
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSongLoad, err)
	}

	if len(payload.Tracks) == 0 {
		return Snapshot{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(payload.Tracks, &entries); err != nil {
		return Snapshot{}, nil
	}

	return Snapshot(entries), nil
}

// CreatePlaylist creates a private playlist and returns its id.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	body := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         title,
		Description:   description,
		PrivacyStatus: "PRIVATE",
	}

	var created struct {
		PlaylistID string `json:"playlist_id"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", body, &created); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	if strings.TrimSpace(created.PlaylistID) == "" {
		return "", fmt.Errorf("%w: service returned a blank playlist id", shared.ErrPlaylistCreate)
	}

	return created.PlaylistID, nil
}

// DeletePlaylist removes a playlist.
//
// Calls DELETE /api/playlists/{id} on the proxy.
func (y *YouTubeService) DeletePlaylist(ctx context.Context, playlistID string) error {
	var result any

	endpoint := fmt.Sprintf("/api/playlists/%s", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodDelete, endpoint, nil, &result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlaylistDelete, err)
	}

	if OperationFailed(result) {
		return fmt.Errorf("%w: %v", shared.ErrPlaylistDelete, shared.ErrOperationFailed)
	}

	return nil
}

// AppendEntries adds videos to the end of a playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YouTubeService) AppendEntries(ctx context.Context, playlistID string, videoIDs []string, allowDuplicates bool) error {
	body := struct {
		VideoIDs   []string `json:"video_ids"`
		Duplicates bool     `json:"duplicates"`
	}{
		VideoIDs:   videoIDs,
		Duplicates: allowDuplicates,
	}

	var result any

	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSongAdd, err)
	}

	if OperationFailed(result) {
		return fmt.Errorf("%w: %v", shared.ErrSongAdd, shared.ErrOperationFailed)
	}

	return nil
}

// RemoveEntries removes the referenced entries from a playlist.
//
// Calls POST /api/playlists/{id}/items/remove on the proxy.
func (y *YouTubeService) RemoveEntries(ctx context.Context, playlistID string, refs []SongRef) error {
	body := struct {
		Videos []SongRef `json:"videos"`
	}{
		Videos: refs,
	}

	var result any

	endpoint := fmt.Sprintf("/api/playlists/%s/items/remove", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSongDelete, err)
	}

	if OperationFailed(result) {
		return fmt.Errorf("%w: %v", shared.ErrSongDelete, shared.ErrOperationFailed)
	}

	return nil
}

// Reorder moves the entry holding setVideoID in front of the entry holding
// beforeSetVideoID.
//
// Calls POST /api/playlists/{id}/items/move on the proxy.
func (y *YouTubeService) Reorder(ctx context.Context, playlistID, setVideoID, beforeSetVideoID string) error {
	body := struct {
		SetVideoID       string `json:"setVideoId"`
		BeforeSetVideoID string `json:"beforeSetVideoId,omitempty"`
	}{
		SetVideoID:       setVideoID,
		BeforeSetVideoID: beforeSetVideoID,
	}

	var result any

	endpoint := fmt.Sprintf("/api/playlists/%s/items/move", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSongMove, err)
	}

	if OperationFailed(result) {
		return fmt.Errorf("%w: %v", shared.ErrSongMove, shared.ErrOperationFailed)
	}

	return nil
}

// Search queries the catalog.
//
// Calls GET /api/search on the proxy. Errors are returned unwrapped so
// callers can fold them into per-song reporting.
func (y *YouTubeService) Search(ctx context.Context, query, filter string, limit int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	if filter != "" {
		params.Set("filter", filter)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var results []Candidate
	if err := y.doRequest(ctx, http.MethodGet, "/api/search?"+params.Encode(), nil, &results); err != nil {
		return nil, err
	}

	return results, nil
}

// Candidate is a search result row considered for matching. The upstream
// payload is loose: artists arrive as objects or bare strings, sometimes
// only as a flat "artist" field, and the album is an object or a string.
type Candidate struct {
	VideoID     string
	Title       string
	ArtistNames []string
	AlbumName   string
}

// ArtistText joins the credited artist names for scoring and display.
func (c Candidate) ArtistText() string {
	return strings.Join(c.ArtistNames, ", ")
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var raw struct {
		VideoID string          `json:"videoId"`
		Title   string          `json:"title"`
		Artists json.RawMessage `json:"artists"`
		Artist  string          `json:"artist"`
		Album   json.RawMessage `json:"album"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.VideoID = raw.VideoID
	c.Title = raw.Title
	c.ArtistNames = parseArtistNames(raw.Artists, raw.Artist)
	c.AlbumName = parseAlbumName(raw.Album)

	return nil
}

func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		VideoID string   `json:"videoId,omitempty"`
		Title   string   `json:"title,omitempty"`
		Artists []string `json:"artists,omitempty"`
		Album   string   `json:"album,omitempty"`
	}{c.VideoID, c.Title, c.ArtistNames, c.AlbumName})
}

func parseArtistNames(raw json.RawMessage, fallback string) []string {
	var names []string

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		for _, item := range items {
			var obj struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(item, &obj); err == nil && strings.TrimSpace(obj.Name) != "" {
				names = append(names, strings.TrimSpace(obj.Name))
				continue
			}

			var name string
			if err := json.Unmarshal(item, &name); err == nil && strings.TrimSpace(name) != "" {
				names = append(names, strings.TrimSpace(name))
			}
		}
	}

	if len(names) == 0 && strings.TrimSpace(fallback) != "" {
		names = append(names, strings.TrimSpace(fallback))
	}

	return names
}

func parseAlbumName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return strings.TrimSpace(obj.Name)
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return strings.TrimSpace(name)
	}

	return ""
}
