// package services defines interface Catalog for interacting with the
// YouTube Music proxy service
package services

import (
	"context"
	"strings"
)

// Catalog defines the operations the YouTube Music proxy exposes for
// playlist reads, playlist writes, and catalog search.
type Catalog interface {
	// Health checks that the proxy service is reachable.
	Health(ctx context.Context) error

	// ListPlaylists retrieves library playlists, capped at limit.
	ListPlaylists(ctx context.Context, limit int) ([]Playlist, error)

	// ListEntries retrieves the ordered entries of a playlist, capped at limit.
	// A malformed or missing track listing decodes to an empty snapshot.
	ListEntries(ctx context.Context, playlistID string, limit int) (Snapshot, error)

	// CreatePlaylist creates a private playlist and returns its id.
	CreatePlaylist(ctx context.Context, title, description string) (string, error)

	// DeletePlaylist removes a playlist.
	DeletePlaylist(ctx context.Context, playlistID string) error

	// AppendEntries adds videos to the end of a playlist.
	AppendEntries(ctx context.Context, playlistID string, videoIDs []string, allowDuplicates bool) error

	// RemoveEntries removes the referenced entries from a playlist.
	RemoveEntries(ctx context.Context, playlistID string, refs []SongRef) error

	// Reorder moves the entry holding setVideoID in front of the entry
	// holding beforeSetVideoID.
	Reorder(ctx context.Context, playlistID, setVideoID, beforeSetVideoID string) error

	// Search queries the catalog. Filter is "songs" or "videos".
	Search(ctx context.Context, query, filter string, limit int) ([]Candidate, error)
}

// Playlist represents a library playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"trackCount,omitempty"`
}

// Entry represents one row of a playlist in playback order.
type Entry struct {
	VideoID    string   `json:"videoId"`
	SetVideoID string   `json:"setVideoId"`
	Title      string   `json:"title"`
	Artists    []Artist `json:"artists"`
	Album      *Album   `json:"album"`
}

// Artist is a credited artist on an entry or search result.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Album is the album attribution on an entry.
type Album struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// ArtistText returns the credited artists joined for display.
func (e Entry) ArtistText() string {
	names := make([]string, 0, len(e.Artists))
	for _, a := range e.Artists {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// AlbumText returns the album name, or "" when the entry has none.
func (e Entry) AlbumText() string {
	if e.Album == nil {
		return ""
	}
	return strings.TrimSpace(e.Album.Name)
}

// Label renders the entry as "artist - title", or just the title when no
// artist is credited.
func (e Entry) Label() string {
	artist := e.ArtistText()
	title := strings.TrimSpace(e.Title)
	if artist == "" {
		return title
	}
	return artist + " - " + title
}

// Detail flattens the entry for listing output.
func (e Entry) Detail() SongDetail {
	return SongDetail{
		Title:      strings.TrimSpace(e.Title),
		Artist:     e.ArtistText(),
		Album:      e.AlbumText(),
		VideoID:    e.VideoID,
		SetVideoID: e.SetVideoID,
	}
}

// SongDetail is the flattened listing row for a playlist entry.
type SongDetail struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	VideoID    string `json:"videoId"`
	SetVideoID string `json:"setVideoId"`
}

// SongRef identifies an entry for removal or reordering. SetVideoID pins an
// exact row; VideoID alone matches the first row carrying that video.
type SongRef struct {
	VideoID    string `json:"videoId,omitempty"`
	SetVideoID string `json:"setVideoId,omitempty"`
}

// Empty reports whether the ref carries no identifier at all.
func (r SongRef) Empty() bool {
	return r.VideoID == "" && r.SetVideoID == ""
}

// Snapshot is a playlist's entries in playback order at one point in time.
type Snapshot []Entry

// Tokens collects the non-empty setVideoId values in the snapshot.
func (s Snapshot) Tokens() map[string]struct{} {
	tokens := make(map[string]struct{}, len(s))
	for _, entry := range s {
		if entry.SetVideoID != "" {
			tokens[entry.SetVideoID] = struct{}{}
		}
	}
	return tokens
}

// Locate finds the row a ref points at. The setVideoId is authoritative;
// the videoId is only consulted among rows that carry a setVideoId, since a
// row without one cannot be moved or removed. Returns -1 and "" when the
// ref matches nothing.
func (s Snapshot) Locate(ref SongRef) (int, string) {
	if ref.SetVideoID != "" {
		for i, entry := range s {
			if entry.SetVideoID == ref.SetVideoID {
				return i, entry.SetVideoID
			}
		}
	}

	if ref.VideoID != "" {
		for i, entry := range s {
			if entry.SetVideoID != "" && entry.VideoID == ref.VideoID {
				return i, entry.SetVideoID
			}
		}
	}

	return -1, ""
}

// OperationFailed reports whether a write acknowledgement carries an
// explicit failure marker. The proxy forwards upstream results as-is, and
// those arrive either as a bare false, as {"status": "failed"|"error"}, or
// as {"ok"|"success": false}. Anything else counts as success.
func OperationFailed(result any) bool {
	if b, ok := result.(bool); ok {
		return !b
	}

	payload, ok := result.(map[string]any)
	if !ok {
		return false
	}

	if status, ok := payload["status"].(string); ok {
		switch strings.ToLower(strings.TrimSpace(status)) {
		case "failed", "error":
			return true
		}
	}

	for _, key := range []string{"ok", "success"} {
		if flag, ok := payload[key].(bool); ok && !flag {
			return true
		}
	}

	return false
}
