// package formatter renders playlists and migration reports as CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/tasks"
)

// SongsToCSV renders playlist songs as CSV with columns: Index, Title, Artist, Album, VideoID, SetVideoID
func SongsToCSV(songs []services.SongDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Title", "Artist", "Album", "VideoID", "SetVideoID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range songs {
		record := []string{
			strconv.Itoa(i),
			song.Title,
			song.Artist,
			song.Album,
			song.VideoID,
			song.SetVideoID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SongsToMarkdown renders a playlist and its songs as a Markdown document
func SongsToMarkdown(playlist services.Playlist, songs []services.SongDetail) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))

	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, songLabel(song), albumPart))
	}

	return buf.Bytes(), nil
}

// SongsToText renders a playlist and its songs as plain text
func SongsToText(playlist services.Playlist, songs []services.SongDetail) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, songLabel(song)))
	}

	return buf.Bytes(), nil
}

// MigrationToText renders a migration result as a plain text report
func MigrationToText(result *tasks.Result) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.PlaylistID))
	buf.WriteString(fmt.Sprintf("Migrated: %d\n", len(result.Migrated)))
	buf.WriteString(fmt.Sprintf("Failed: %d\n", len(result.Failed)))

	if len(result.Migrated) > 0 {
		buf.WriteString("\nMigrated songs:\n")
		for i, song := range result.Migrated {
			label := song.Title
			if song.Artist != "" {
				label = fmt.Sprintf("%s - %s", song.Artist, song.Title)
			}
			buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, label, song.VideoID))
		}
	}

	if len(result.Failed) > 0 {
		buf.WriteString("\nFailures:\n")
		for i, failure := range result.Failed {
			name := failure.Title
			if name == "" {
				name = failure.SongKey
			}
			buf.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, name, failure.Error))
		}
	}

	return buf.Bytes()
}

func songLabel(song services.SongDetail) string {
	if song.Artist != "" {
		return fmt.Sprintf("%s - %s", song.Artist, song.Title)
	}
	return song.Title
}

// WriteSongsExport renders songs in the requested format ("csv", "markdown"
// or "text") and writes the result to path.
//
// Defaults to {playlist.ID}_songs.{ext} when path is empty.
func WriteSongsExport(playlist services.Playlist, songs []services.SongDetail, format, path string) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case "csv":
		data, err = SongsToCSV(songs)
		ext = "csv"
	case "markdown", "md":
		data, err = SongsToMarkdown(playlist, songs)
		ext = "md"
	case "text", "txt", "":
		data, err = SongsToText(playlist, songs)
		ext = "txt"
	default:
		return "", fmt.Errorf("unknown export format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate export: %w", err)
	}

	if path == "" {
		path = fmt.Sprintf("%s_songs.%s", playlist.ID, ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
