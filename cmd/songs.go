package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytshift/internal/order"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongsInsert appends a video to a playlist and moves it to the requested
// position.
func (r *Runner) SongsInsert(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist-id")
	videoID := cmd.String("video-id")
	index := int(cmd.Int("index"))
	useJSON := cmd.Bool("json")

	if r.planner == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("inserting video", "playlist_id", playlistID, "video_id", videoID, "index", index)

	result, err := r.planner.InsertAt(ctx, playlistID, videoID, index)
	if err != nil {
		if errors.Is(err, shared.ErrSongMove) {
			return fmt.Errorf("video was added but could not be moved to the requested position: %w", err)
		}
		return err
	}

	if useJSON {
		return r.writeJSON(result, false)
	}

	r.writePlain("✓ Video inserted\n")
	r.writePlain("Playlist: %s\n", playlistID)
	r.writePlain("Video: %s\n", result.VideoID)
	r.writePlain("Position: %d\n", result.InsertedIndex)

	return nil
}

// SongsMove moves a song up or down within a playlist.
func (r *Runner) SongsMove(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist-id")
	positions := int(cmd.Int("positions"))
	useJSON := cmd.Bool("json")

	if r.planner == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	ref := services.SongRef{
		SetVideoID: cmd.String("set-video-id"),
		VideoID:    cmd.String("video-id"),
	}
	if ref.Empty() {
		return fmt.Errorf("%w: either --set-video-id or --video-id is required", shared.ErrMissingArgument)
	}

	dir, err := order.ParseDirection(cmd.String("direction"))
	if err != nil {
		return err
	}

	r.logger.Info("moving song", "playlist_id", playlistID, "direction", dir, "positions", positions)

	result, err := r.planner.MoveBy(ctx, playlistID, ref, dir, positions)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, false)
	}

	if !result.Moved {
		return r.writePlain("Song did not move (already at the edge).\n")
	}

	r.writePlain("✓ Song moved\n")
	r.writePlain("From: %d\n", result.FromIndex)
	r.writePlain("To: %d\n", result.ToIndex)

	return nil
}

// SongsRemove removes the referenced songs from a playlist.
func (r *Runner) SongsRemove(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist-id")
	useJSON := cmd.Bool("json")

	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	setVideoIDs := cmd.StringSlice("set-video-id")
	videoIDs := cmd.StringSlice("video-id")

	refs := make([]services.SongRef, 0, len(setVideoIDs)+len(videoIDs))
	for _, token := range setVideoIDs {
		if token != "" {
			refs = append(refs, services.SongRef{SetVideoID: token})
		}
	}
	for _, id := range videoIDs {
		if id != "" {
			refs = append(refs, services.SongRef{VideoID: id})
		}
	}

	if len(refs) == 0 {
		return fmt.Errorf("%w: at least one --set-video-id or --video-id is required", shared.ErrMissingArgument)
	}

	r.logger.Info("removing songs", "playlist_id", playlistID, "count", len(refs))

	if err := r.catalog.RemoveEntries(ctx, playlistID, refs); err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(map[string]any{"ok": true, "playlistId": playlistID, "deletedCount": len(refs)}, false)
	}

	r.writePlain("✓ Removed %d songs\n", len(refs))
	r.writePlain("Playlist: %s\n", playlistID)

	return nil
}
