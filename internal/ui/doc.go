// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing and reordering playlists:
//  1. [PlaylistListView] : Browse YouTube Music library playlists
//  2. [SongListView] : Inspect a playlist's songs and move them around
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Moves run as commands against the [order.Planner]; a finished move swaps the
// local snapshot mirror instead of refetching, and r resyncs from the catalog.
//
// Keyboard navigation uses vim-style bindings (j/k to navigate, J/K to move the
// selected song, enter, esc, r, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
