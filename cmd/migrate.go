package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/ytshift/internal/formatter"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/desertthunder/ytshift/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Migrate resolves a batch of songs against the catalog and appends them to
// a playlist. The songs JSON comes from --file or stdin.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist-id")
	file := cmd.String("file")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	var data []byte
	var err error
	if file != "" {
		if data, err = os.ReadFile(file); err != nil {
			return fmt.Errorf("failed to read songs file: %w", err)
		}
	} else {
		if data, err = io.ReadAll(os.Stdin); err != nil {
			return fmt.Errorf("failed to read songs from stdin: %w", err)
		}
	}

	songs, err := readSongs(data)
	if err != nil {
		return err
	}

	var cache tasks.MatchCache
	if !cmd.Bool("no-cache") {
		cache = r.matchCache()
	}

	opts := tasks.MigrateOptions{
		PreservePosition: cmd.Bool("preserve-position"),
		Debug:            cmd.Bool("debug") || r.config.Debug,
	}

	r.logger.Info("migrating songs", "playlist_id", playlistID, "count", len(songs))

	result, err := r.engine(cache).Run(ctx, playlistID, songs, opts)
	if err != nil {
		return err
	}

	r.logger.Info("migration complete", "migrated", len(result.Migrated), "failed", len(result.Failed))

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	return r.writePlain("%s", formatter.MigrationToText(result))
}

// readSongs parses a songs payload. Both a bare JSON array and an object
// with a songs key are accepted; individual items stay loose and resolve
// through [tasks.SongFromPayload].
func readSongs(data []byte) ([]tasks.Song, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: songs payload is empty", shared.ErrInvalidInput)
	}

	var items []any
	if err := json.Unmarshal(trimmed, &items); err != nil {
		var wrapper struct {
			Songs []any `json:"songs"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: songs payload is not valid JSON: %v", shared.ErrInvalidInput, err)
		}
		items = wrapper.Songs
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: songs must be a non-empty array", shared.ErrInvalidInput)
	}

	songs := make([]tasks.Song, 0, len(items))
	for i, item := range items {
		songs = append(songs, tasks.SongFromPayload(i, item))
	}
	return songs, nil
}
