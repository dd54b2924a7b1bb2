package batch

import (
	"context"
	"errors"

	"github.com/desertthunder/ytshift/internal/order"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/desertthunder/ytshift/internal/tasks"
)

type statusResponse struct {
	OK        bool `json:"ok"`
	Connected bool `json:"connected"`
}

// playlistSummary mirrors the playlist shape older callers expect. Songs
// is always present and always empty; titles load through playlistSongs.
type playlistSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Songs []string `json:"songs"`
}

type playlistsResponse struct {
	OK        bool              `json:"ok"`
	Playlists []playlistSummary `json:"playlists"`
}

type songsResponse struct {
	OK      bool                  `json:"ok"`
	Songs   []string              `json:"songs"`
	Details []services.SongDetail `json:"songDetails"`
}

type createResponse struct {
	OK       bool            `json:"ok"`
	Playlist playlistSummary `json:"playlist"`
}

type removeResponse struct {
	OK           bool   `json:"ok"`
	PlaylistID   string `json:"playlistId"`
	DeletedCount int    `json:"deletedCount"`
}

type deleteResponse struct {
	OK         bool   `json:"ok"`
	PlaylistID string `json:"playlistId"`
}

type insertResponse struct {
	OK         bool   `json:"ok"`
	PlaylistID string `json:"playlistId"`
	*order.InsertResult
}

type moveResponse struct {
	OK         bool   `json:"ok"`
	PlaylistID string `json:"playlistId"`
	*order.MoveResult
}

type migrateResponse struct {
	OK bool `json:"ok"`
	*tasks.Result
}

func (h *Handler) status(ctx context.Context) (any, *Error) {
	connected := h.catalog.Health(ctx) == nil
	return statusResponse{OK: true, Connected: connected}, nil
}

func (h *Handler) playlists(ctx context.Context) (any, *Error) {
	lists, err := h.catalog.ListPlaylists(ctx, listLimit)
	if err != nil {
		return nil, classify(err)
	}

	summaries := make([]playlistSummary, 0, len(lists))
	for _, pl := range lists {
		summaries = append(summaries, playlistSummary{ID: pl.ID, Name: pl.Name, Songs: []string{}})
	}

	return playlistsResponse{OK: true, Playlists: summaries}, nil
}

func (h *Handler) playlistSongs(ctx context.Context, payload map[string]any) (any, *Error) {
	playlistID := shared.SafeString(payload["playlistId"])
	if playlistID == "" {
		return nil, invalidInput("playlistId is required.")
	}

	snap, err := h.catalog.ListEntries(ctx, playlistID, entryLimit)
	if err != nil {
		return nil, classify(err)
	}

	labels := make([]string, 0, len(snap))
	details := make([]services.SongDetail, 0, len(snap))
	for _, entry := range snap {
		if entry.Title == "" {
			continue
		}
		labels = append(labels, entry.Label())
		details = append(details, entry.Detail())
	}

	return songsResponse{OK: true, Songs: labels, Details: details}, nil
}

func (h *Handler) createPlaylist(ctx context.Context, payload map[string]any) (any, *Error) {
	name := shared.SafeString(payload["name"])
	if name == "" {
		return nil, invalidInput("name is required.")
	}

	description := shared.SafeString(payload["description"])
	id, err := h.catalog.CreatePlaylist(ctx, name, description)
	if err != nil {
		return nil, classify(err)
	}

	h.logger.Info("created playlist", "id", id, "name", name)
	return createResponse{OK: true, Playlist: playlistSummary{ID: id, Name: name, Songs: []string{}}}, nil
}

func (h *Handler) removePlaylistItems(ctx context.Context, payload map[string]any) (any, *Error) {
	playlistID := shared.SafeString(payload["playlistId"])
	if playlistID == "" {
		return nil, invalidInput("playlistId is required.")
	}

	raw, ok := payload["songs"].([]any)
	if !ok {
		return nil, invalidInput("songs must be an array.")
	}

	refs := make([]services.SongRef, 0, len(raw))
	for _, item := range raw {
		ref := songRefFromPayload(item)
		if !ref.Empty() {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return nil, invalidInput("songs must include at least one item with setVideoId or videoId.")
	}

	if err := h.catalog.RemoveEntries(ctx, playlistID, refs); err != nil {
		return nil, classify(err)
	}

	return removeResponse{OK: true, PlaylistID: playlistID, DeletedCount: len(refs)}, nil
}

func (h *Handler) deletePlaylist(ctx context.Context, payload map[string]any) (any, *Error) {
	playlistID := shared.SafeString(payload["playlistId"])
	if playlistID == "" {
		return nil, invalidInput("playlistId is required.")
	}

	if err := h.catalog.DeletePlaylist(ctx, playlistID); err != nil {
		return nil, classify(err)
	}

	h.logger.Info("deleted playlist", "id", playlistID)
	return deleteResponse{OK: true, PlaylistID: playlistID}, nil
}

func (h *Handler) insertVideoAtPosition(ctx context.Context, payload map[string]any) (any, *Error) {
	playlistID := shared.SafeString(payload["playlistId"])
	if playlistID == "" {
		return nil, invalidInput("playlistId is required.")
	}

	videoID := shared.SafeString(payload["videoId"])
	if videoID == "" {
		return nil, invalidInput("videoId is required.")
	}

	expected := shared.NonNegativeInt(payload["expectedIndex"])
	if expected == nil {
		return nil, invalidInput("expectedIndex must be a non-negative integer.")
	}

	result, err := h.planner.InsertAt(ctx, playlistID, videoID, *expected)
	if err != nil {
		if errors.Is(err, shared.ErrSongMove) {
			return nil, &Error{
				Message: "Video was added but could not be moved to requested position.",
				Code:    CodeSongMove,
				Status:  502,
				Details: err.Error(),
			}
		}
		return nil, classify(err)
	}

	return insertResponse{OK: true, PlaylistID: playlistID, InsertResult: result}, nil
}

func (h *Handler) movePlaylistSong(ctx context.Context, payload map[string]any) (any, *Error) {
	playlistID := shared.SafeString(payload["playlistId"])
	if playlistID == "" {
		return nil, invalidInput("playlistId is required.")
	}

	ref := songRefFromPayload(payload["song"])
	if ref.Empty() {
		return nil, invalidInput("song must include setVideoId or videoId.")
	}

	direction, err := order.ParseDirection(shared.SafeString(payload["direction"]))
	if err != nil {
		return nil, invalidInput("direction must be either 'up' or 'down'.")
	}

	positions := shared.NonNegativeInt(payload["positions"])
	if positions == nil || *positions <= 0 {
		return nil, invalidInput("positions must be a positive integer.")
	}

	result, err := h.planner.MoveBy(ctx, playlistID, ref, direction, *positions)
	if err != nil {
		return nil, classify(err)
	}

	return moveResponse{OK: true, PlaylistID: playlistID, MoveResult: result}, nil
}

func (h *Handler) migrateSongs(ctx context.Context, payload map[string]any) (any, *Error) {
	playlistID := shared.SafeString(payload["playlistId"])
	if playlistID == "" {
		return nil, invalidInput("playlistId is required.")
	}

	raw, ok := payload["songs"].([]any)
	if !ok || len(raw) == 0 {
		return nil, invalidInput("songs must be a non-empty array.")
	}

	songs := make([]tasks.Song, 0, len(raw))
	for i, item := range raw {
		songs = append(songs, tasks.SongFromPayload(i, item))
	}

	opts := tasks.MigrateOptions{
		PreservePosition: shared.Truthy(payload["preservePosition"]),
		Debug:            shared.Truthy(payload["debug"]) || h.debug,
	}

	result, err := h.engine.Run(ctx, playlistID, songs, opts)
	if err != nil {
		return nil, classify(err)
	}

	h.logger.Info("migration complete",
		"playlist", playlistID, "migrated", len(result.Migrated), "failed", len(result.Failed))
	return migrateResponse{OK: true, Result: result}, nil
}

func songRefFromPayload(item any) services.SongRef {
	fields, ok := item.(map[string]any)
	if !ok {
		return services.SongRef{}
	}

	return services.SongRef{
		SetVideoID: shared.SafeString(fields["setVideoId"]),
		VideoID:    shared.SafeString(fields["videoId"]),
	}
}
