package models

import (
	"fmt"
	"time"
)

// Match is a cached catalog resolution: the video a (title, artist, album)
// lookup settled on. Rows are keyed by a normalized lookup key so repeated
// migrations of the same song skip the search round trip.
type Match struct {
	id             string
	sequence       int
	key            string
	title          string
	artist         string
	album          string
	videoID        string
	matchedTitle   string
	matchedArtists string
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewMatch creates a Match for the given lookup and resolution. The id is
// assigned by the repository on insert.
func NewMatch(sequence int, key, title, artist, album, videoID, matchedTitle, matchedArtists string) *Match {
	now := time.Now()
	return &Match{
		sequence:       sequence,
		key:            key,
		title:          title,
		artist:         artist,
		album:          album,
		videoID:        videoID,
		matchedTitle:   matchedTitle,
		matchedArtists: matchedArtists,
		createdAt:      now,
		updatedAt:      now,
	}
}

func (m *Match) ID() string             { return m.id }
func (m *Match) Sequence() int          { return m.sequence }
func (m *Match) Key() string            { return m.key }
func (m *Match) Title() string          { return m.title }
func (m *Match) Artist() string         { return m.artist }
func (m *Match) Album() string          { return m.album }
func (m *Match) VideoID() string        { return m.videoID }
func (m *Match) MatchedTitle() string   { return m.matchedTitle }
func (m *Match) MatchedArtists() string { return m.matchedArtists }
func (m *Match) CreatedAt() time.Time   { return m.createdAt }
func (m *Match) UpdatedAt() time.Time   { return m.updatedAt }
func (m *Match) DeletedAt() *time.Time  { return m.deletedAt }

// SetID assigns the repository-generated identifier.
func (m *Match) SetID(id string) { m.id = id }

// SetCreatedAt overwrites the creation timestamp when hydrating from storage.
func (m *Match) SetCreatedAt(t time.Time) { m.createdAt = t }

// SetUpdatedAt overwrites the update timestamp.
func (m *Match) SetUpdatedAt(t time.Time) { m.updatedAt = t }

// SetDeletedAt marks the soft delete timestamp when hydrating from storage.
func (m *Match) SetDeletedAt(t *time.Time) { m.deletedAt = t }

// SetResolution replaces the cached resolution, used when a fresh search
// supersedes a stale row.
func (m *Match) SetResolution(videoID, matchedTitle, matchedArtists string) {
	m.videoID = videoID
	m.matchedTitle = matchedTitle
	m.matchedArtists = matchedArtists
}

// Validate checks that the match carries a lookup key, a title, and a
// resolved video id.
func (m *Match) Validate() error {
	if m.key == "" {
		return fmt.Errorf("match is missing a lookup key")
	}
	if m.title == "" {
		return fmt.Errorf("match is missing a title")
	}
	if m.videoID == "" {
		return fmt.Errorf("match is missing a video id")
	}
	return nil
}
