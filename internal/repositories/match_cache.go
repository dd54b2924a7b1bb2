package repositories

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytshift/internal/match"
	"github.com/desertthunder/ytshift/internal/models"
	"github.com/desertthunder/ytshift/internal/services"
)

// MatchCacheAdapter exposes MatchRepository as the migration engine's
// match cache.
//
// Storage failures are logged and swallowed: the cache only saves search
// round trips, so losing a write must never fail a migration.
type MatchCacheAdapter struct {
	repo   *MatchRepository
	logger *log.Logger
}

// NewMatchCacheAdapter creates a new MatchCacheAdapter with the given repository
func NewMatchCacheAdapter(repo *MatchRepository, logger *log.Logger) *MatchCacheAdapter {
	return &MatchCacheAdapter{repo: repo, logger: logger}
}

// Lookup returns the cached resolution for a song, if one exists.
func (a *MatchCacheAdapter) Lookup(title, artist, album string) (services.Candidate, bool) {
	cached, err := a.repo.GetByKey(CacheKey(title, artist, album))
	if err != nil || cached == nil {
		return services.Candidate{}, false
	}

	a.logger.Debug("match cache hit", "title", title, "videoId", cached.VideoID())

	return services.Candidate{
		VideoID:     cached.VideoID(),
		Title:       cached.MatchedTitle(),
		ArtistNames: splitArtists(cached.MatchedArtists()),
	}, true
}

// Store records a resolved match, replacing any previous resolution for
// the same lookup.
func (a *MatchCacheAdapter) Store(title, artist, album string, c services.Candidate) {
	m := models.NewMatch(0, CacheKey(title, artist, album), title, artist, album,
		c.VideoID, c.Title, c.ArtistText())

	if err := a.repo.Upsert(m); err != nil {
		a.logger.Warn("failed to cache match", "title", title, "error", err)
	}
}

// CacheKey builds the normalized lookup key for a song. Normalization
// makes the cache insensitive to case and punctuation, the same way
// scoring is.
func CacheKey(title, artist, album string) string {
	return match.Normalize(title) + "|" + match.Normalize(artist) + "|" + match.Normalize(album)
}

func splitArtists(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ", ")
}
