package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytshift/internal/services"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [services.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist services.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d songs", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// songItem wraps [services.Entry] to implement [list.Item].
type songItem struct {
	entry services.Entry
}

func (i songItem) FilterValue() string { return i.entry.Title }
func (i songItem) Title() string {
	if i.entry.Title == "" {
		return "(untitled)"
	}
	return i.entry.Title
}

func (i songItem) Description() string {
	desc := i.entry.ArtistText()
	if album := i.entry.AlbumText(); album != "" {
		desc = fmt.Sprintf("%s • %s", desc, album)
	}
	if i.entry.SetVideoID == "" {
		desc = fmt.Sprintf("%s (pinned)", desc)
	}
	return desc
}

func playlistItems(playlists []services.Playlist) []list.Item {
	items := make([]list.Item, 0, len(playlists))
	for _, p := range playlists {
		items = append(items, playlistItem{playlist: p})
	}
	return items
}

func songItems(entries services.Snapshot) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, songItem{entry: entry})
	}
	return items
}
