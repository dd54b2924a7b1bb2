package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytshift/internal/order"
	"github.com/desertthunder/ytshift/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	SongListView
)

const (
	listLimit  = 500
	entryLimit = 5000
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      services.Catalog
	planner      *order.Planner
	width        int
	height       int
	playlistList list.Model
	playlists    []services.Playlist
	songList     list.Model
	selected     services.Playlist
	entries      services.Snapshot
	busy         bool
	status       string
	statusErr    bool
	err          error
	help         help.Model
	keys         keyMap
}

type playlistsFetchedMsg struct {
	playlists []services.Playlist
	err       error
}

type songsFetchedMsg struct {
	playlist services.Playlist
	entries  services.Snapshot
	err      error
}

type songMovedMsg struct {
	dir    order.Direction
	result *order.MoveResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog services.Catalog, planner *order.Planner) *Model {
	return &Model{
		ctx:     ctx,
		view:    PlaylistListView,
		catalog: catalog,
		planner: planner,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching library playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.playlists = msg.playlists
		m.playlistList = list.New(playlistItems(msg.playlists), list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "YouTube Music Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case songsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.err = nil
		keep := m.songList.Index()
		m.selected = msg.playlist
		m.entries = msg.entries
		m.songList = list.New(songItems(msg.entries), list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = fmt.Sprintf("Songs in '%s'", msg.playlist.Name)
		m.songList.SetSize(m.width-4, m.height-8)
		if m.view == SongListView && keep >= 0 && keep < len(msg.entries) {
			m.songList.Select(keep)
		}
		m.view = SongListView
		return m, nil

	case songMovedMsg:
		return m.applyMove(msg)
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case SongListView:
		return m.renderSongList()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.err = nil
		m.status = ""
		return m, m.fetchPlaylists()
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				return m, m.fetchSongs(pl.playlist)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		m.status = ""
		return m, nil
	case "r":
		m.status = ""
		return m, m.fetchSongs(m.selected)
	case "K":
		return m, m.moveSelected(order.DirectionUp)
	case "J":
		return m, m.moveSelected(order.DirectionDown)
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

// applyMove folds a finished move back into the local snapshot. The planner
// already committed the reorder upstream, so the mirror swap keeps the list
// consistent without a refetch.
func (m *Model) applyMove(msg songMovedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.status = fmt.Sprintf("Move failed: %v", msg.err)
		m.statusErr = true
		return m, nil
	}

	if !msg.result.Moved {
		if msg.dir == order.DirectionUp {
			m.status = "Already at the top."
		} else {
			m.status = "Already at the bottom."
		}
		m.statusErr = false
		return m, nil
	}

	from, to := msg.result.FromIndex, msg.result.ToIndex
	if from >= 0 && from < len(m.entries) && to >= 0 && to < len(m.entries) {
		m.entries[from], m.entries[to] = m.entries[to], m.entries[from]
		m.songList.SetItems(songItems(m.entries))
		m.songList.Select(to)
	}
	m.status = fmt.Sprintf("Moved to position %d.", to+1)
	m.statusErr = false
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.catalog.ListPlaylists(m.ctx, listLimit)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchSongs(playlist services.Playlist) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.catalog.ListEntries(m.ctx, playlist.ID, entryLimit)
		return songsFetchedMsg{playlist: playlist, entries: entries, err: err}
	}
}

// moveSelected kicks off a single-step move for the highlighted song. Rows
// without a setVideoId cannot be reordered, and only one move may be in
// flight at a time since each one invalidates the neighbor indexes.
func (m *Model) moveSelected(dir order.Direction) tea.Cmd {
	if m.busy {
		return nil
	}
	idx := m.songList.Index()
	if idx < 0 || idx >= len(m.entries) {
		return nil
	}
	entry := m.entries[idx]
	if entry.SetVideoID == "" {
		m.status = "Selected song cannot be reordered."
		m.statusErr = true
		return nil
	}

	m.busy = true
	m.status = ""
	ref := services.SongRef{SetVideoID: entry.SetVideoID, VideoID: entry.VideoID}
	playlistID := m.selected.ID
	return func() tea.Msg {
		result, err := m.planner.MoveBy(m.ctx, playlistID, ref, dir, 1)
		return songMovedMsg{dir: dir, result: result, err: err}
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.moveUp, m.keys.moveDown, m.keys.refresh, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var status string
	if m.busy {
		status = styles.help.Render("Moving...")
	} else if m.status != "" {
		if m.statusErr {
			status = styles.warn.Render(m.status)
		} else {
			status = styles.ok.Render(m.status)
		}
	}

	if status != "" {
		return fmt.Sprintf("%s\n%s\n\n%s", m.songList.View(), status, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}
