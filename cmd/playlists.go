package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytshift/internal/formatter"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList lists library playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	if limit <= 0 {
		limit = r.config.Playlist.ListLimit
	}

	r.logger.Infof("listing playlists with limit %v", limit)

	playlists, err := r.catalog.ListPlaylists(ctx, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists found.\n")
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Songs: %d\n", p.TrackCount)
		r.writePlain("\n")
	}

	return nil
}

// PlaylistsCreate creates a new private playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	description := cmd.String("description")
	useJSON := cmd.Bool("json")

	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("creating playlist", "name", name)

	id, err := r.catalog.CreatePlaylist(ctx, name, description)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.logger.Info("playlist created", "id", id, "name", name)

	if useJSON {
		return r.writeJSON(services.Playlist{ID: id, Name: name, Description: description}, false)
	}

	r.writePlain("✓ Playlist created successfully\n")
	r.writePlain("Name: %s\n", name)
	r.writePlain("ID: %s\n", id)

	return nil
}

// PlaylistsDelete deletes a playlist.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")

	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("deleting playlist", "id", id)

	if err := r.catalog.DeletePlaylist(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Playlist deleted\n")
	r.writePlain("ID: %s\n", id)

	return nil
}

// PlaylistsSongs lists a playlist's songs, optionally exporting the listing
// to a CSV, Markdown, or text file.
func (r *Runner) PlaylistsSongs(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	export := cmd.String("export")
	outputPath := cmd.String("output")

	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	if limit <= 0 {
		limit = r.config.Playlist.EntryLimit
	}

	r.logger.Infof("listing songs for playlist %v", id)

	entries, err := r.catalog.ListEntries(ctx, id, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	details := make([]services.SongDetail, 0, len(entries))
	for _, entry := range entries {
		if entry.Title == "" {
			continue
		}
		details = append(details, entry.Detail())
	}

	if export != "" {
		playlist := r.lookupPlaylist(ctx, id)
		path, err := formatter.WriteSongsExport(playlist, details, export, outputPath)
		if err != nil {
			return fmt.Errorf("failed to export songs: %w", err)
		}
		r.logger.Info("songs exported", "file", path)
		r.writePlain("✓ Songs exported to %s\n", path)
		return nil
	}

	if useJSON {
		return r.writeJSON(details, pretty)
	}

	if len(details) == 0 {
		return r.writePlain("No songs found.\n")
	}

	r.writePlain("Found %d songs:\n\n", len(details))
	for i, d := range details {
		if d.Artist != "" {
			r.writePlain("%d. %s - %s\n", i+1, d.Artist, d.Title)
		} else {
			r.writePlain("%d. %s\n", i+1, d.Title)
		}
		if d.Album != "" {
			r.writePlain("   Album: %s\n", d.Album)
		}
	}

	return nil
}

// lookupPlaylist resolves a playlist's metadata for export headers. A
// lookup failure falls back to the bare id so the export still runs.
func (r *Runner) lookupPlaylist(ctx context.Context, id string) services.Playlist {
	fallback := services.Playlist{ID: id, Name: id}

	playlists, err := r.catalog.ListPlaylists(ctx, r.config.Playlist.ListLimit)
	if err != nil {
		r.logger.Warn("could not resolve playlist name", "error", err)
		return fallback
	}

	for _, p := range playlists {
		if p.ID == id {
			return p
		}
	}
	return fallback
}
