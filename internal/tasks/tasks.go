// package tasks implements the song migration workflow.
//
// The core abstraction is MigrationEngine, which resolves each input song
// against the catalog's search index, appends the resolved videos to a
// playlist and optionally reconciles each append back to the song's
// original position. Outcomes are aggregated per song rather than
// streamed; a failed song never aborts the batch.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytshift/internal/match"
	"github.com/desertthunder/ytshift/internal/order"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
)

const (
	searchLimit = 20
	entryLimit  = 5000
)

// Song is one migration input. Malformed marks an input that was not a
// JSON object; it keeps its slot so failures report in input order.
type Song struct {
	Key           string
	Title         string
	Artist        string
	Album         string
	ExpectedIndex *int
	Malformed     bool
}

// SongFromPayload builds a Song from a loosely decoded JSON item. The song
// key defaults to "song-{index}" when the item carries none.
func SongFromPayload(index int, item any) Song {
	fallbackKey := fmt.Sprintf("song-%d", index)

	fields, ok := item.(map[string]any)
	if !ok {
		return Song{Key: fallbackKey, Malformed: true}
	}

	key := shared.SafeString(fields["songKey"])
	if key == "" {
		key = fallbackKey
	}

	return Song{
		Key:           key,
		Title:         shared.SafeString(fields["title"]),
		Artist:        shared.SafeString(fields["artist"]),
		Album:         shared.SafeString(fields["album"]),
		ExpectedIndex: shared.NonNegativeInt(fields["expectedIndex"]),
	}
}

// Migrated describes one song that was added to the playlist.
type Migrated struct {
	SongKey        string `json:"songKey"`
	Title          string `json:"title"`
	Artist         string `json:"artist,omitempty"`
	Album          string `json:"album,omitempty"`
	ExpectedIndex  *int   `json:"expectedIndex,omitempty"`
	VideoID        string `json:"videoId"`
	MatchedTitle   string `json:"matchedTitle,omitempty"`
	MatchedArtists string `json:"matchedArtists,omitempty"`
}

// Failure describes one song that could not be migrated.
type Failure struct {
	SongKey string `json:"songKey"`
	Title   string `json:"title,omitempty"`
	Artist  string `json:"artist,omitempty"`
	Album   string `json:"album,omitempty"`
	Error   string `json:"error"`
}

// SearchTrace records one search issued while resolving a song. Exactly
// one of the payload fields is set per entry.
type SearchTrace struct {
	SongKey         string               `json:"songKey"`
	Title           string               `json:"title,omitempty"`
	Artist          string               `json:"artist,omitempty"`
	Album           string               `json:"album,omitempty"`
	Query           string               `json:"query"`
	Queries         []string             `json:"queries"`
	Results         []services.Candidate `json:"response,omitempty"`
	Error           string               `json:"error,omitempty"`
	FallbackResults []services.Candidate `json:"videoFallbackResponse,omitempty"`
	FallbackError   string               `json:"videoFallbackError,omitempty"`
}

// DebugReport carries the search trace when debugging is requested.
type DebugReport struct {
	Enabled  bool          `json:"enabled"`
	Searches []SearchTrace `json:"searches"`
}

// Result aggregates a full migration run.
type Result struct {
	PlaylistID string       `json:"playlistId"`
	Migrated   []Migrated   `json:"migrated"`
	Failed     []Failure    `json:"failed"`
	Debug      *DebugReport `json:"debug,omitempty"`
}

// MigrateOptions controls a single run.
type MigrateOptions struct {
	// PreservePosition appends songs one at a time and moves each toward
	// its ExpectedIndex instead of batch-appending.
	PreservePosition bool
	// Debug attaches the search trace to the result.
	Debug bool
}

// Catalog is the subset of the remote service the engine drives.
type Catalog interface {
	ListEntries(ctx context.Context, playlistID string, limit int) (services.Snapshot, error)
	AppendEntries(ctx context.Context, playlistID string, videoIDs []string, allowDuplicates bool) error
	Search(ctx context.Context, query, filter string, limit int) ([]services.Candidate, error)
}

// MatchCache remembers resolved matches across runs so repeated
// migrations skip the search round trips.
type MatchCache interface {
	Lookup(title, artist, album string) (services.Candidate, bool)
	Store(title, artist, album string, c services.Candidate)
}

// Engine drives song migrations into a playlist.
type Engine interface {
	Run(ctx context.Context, playlistID string, songs []Song, opts MigrateOptions) (*Result, error)
}

// MigrationEngine implements Engine against the remote catalog. A nil
// cache disables match caching.
type MigrationEngine struct {
	svc     Catalog
	planner *order.Planner
	cache   MatchCache
}

// NewMigrationEngine creates a MigrationEngine over svc and planner.
func NewMigrationEngine(svc Catalog, planner *order.Planner, cache MatchCache) *MigrationEngine {
	return &MigrationEngine{svc: svc, planner: planner, cache: cache}
}

// Run migrates songs into the playlist. Songs that cannot be resolved or
// appended land in Result.Failed with a per-song reason; the returned
// error covers only input problems, never per-song outcomes. In
// position-preserving mode a song whose append succeeded counts as
// migrated even when the follow-up move fails, because the video is in
// the playlist either way.
func (e *MigrationEngine) Run(ctx context.Context, playlistID string, songs []Song, opts MigrateOptions) (*Result, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: songs must be a non-empty array", shared.ErrInvalidInput)
	}

	result := &Result{
		PlaylistID: playlistID,
		Migrated:   []Migrated{},
		Failed:     []Failure{},
	}
	trace := []SearchTrace{}

	var pending []Migrated
	for i, song := range songs {
		key := song.Key
		if key == "" {
			key = fmt.Sprintf("song-%d", i)
		}

		if song.Malformed {
			result.Failed = append(result.Failed, Failure{
				SongKey: key,
				Error:   "Song payload must be an object.",
			})
			continue
		}

		if song.Title == "" {
			result.Failed = append(result.Failed, failure(key, song, "Song title is required."))
			continue
		}

		if e.cache != nil {
			if hit, ok := e.cache.Lookup(song.Title, song.Artist, song.Album); ok {
				pending = append(pending, migrated(key, song, hit))
				continue
			}
		}

		query := strings.TrimSpace(song.Artist + " " + song.Title)
		queries := []string{query}
		if song.Album != "" {
			queries = append(queries, strings.TrimSpace(song.Artist+" "+song.Title+" "+song.Album))
		}

		candidates, err := e.searchMerged(ctx, queries, services.FilterSongs)
		if err != nil {
			if opts.Debug {
				t := traceEntry(key, song, query, queries)
				t.Error = err.Error()
				trace = append(trace, t)
			}

			result.Failed = append(result.Failed, failure(key, song, fmt.Sprintf("Search failed: %v", err)))
			continue
		}

		if opts.Debug {
			t := traceEntry(key, song, query, queries)
			t.Results = candidates
			trace = append(trace, t)
		}

		best, found := match.PickBest(candidates, song.Title, song.Artist, song.Album, true)
		if !found {
			// Videos are a lower-confidence pool, so the artist gate
			// comes off for this pass.
			fallback, ferr := e.searchMerged(ctx, queries, services.FilterVideos)
			if ferr != nil {
				if opts.Debug {
					t := traceEntry(key, song, query, queries)
					t.FallbackError = ferr.Error()
					trace = append(trace, t)
				}

				fallback = nil
			}

			if opts.Debug {
				t := traceEntry(key, song, query, queries)
				t.FallbackResults = fallback
				trace = append(trace, t)
			}

			best, found = match.PickBest(fallback, song.Title, song.Artist, song.Album, false)
		}

		if !found {
			result.Failed = append(result.Failed, failure(key, song, "No matching song found on YouTube Music."))
			continue
		}

		if e.cache != nil {
			e.cache.Store(song.Title, song.Artist, song.Album, best)
		}

		pending = append(pending, migrated(key, song, best))
	}

	if len(pending) > 0 {
		if opts.PreservePosition {
			e.appendPreservingPositions(ctx, playlistID, pending, result)
		} else {
			e.appendBatch(ctx, playlistID, pending, result)
		}
	}

	if opts.Debug {
		result.Debug = &DebugReport{Enabled: true, Searches: trace}
	}

	return result, nil
}

// appendBatch adds every pending video in one call. The batch succeeds or
// fails as a unit.
func (e *MigrationEngine) appendBatch(ctx context.Context, playlistID string, pending []Migrated, result *Result) {
	ids := make([]string, len(pending))
	for i, p := range pending {
		ids[i] = p.VideoID
	}

	if err := e.svc.AppendEntries(ctx, playlistID, ids, false); err != nil {
		msg := fmt.Sprintf("Failed to add songs to playlist: %v", err)
		for _, p := range pending {
			result.Failed = append(result.Failed, Failure{
				SongKey: p.SongKey,
				Title:   p.Title,
				Artist:  p.Artist,
				Album:   p.Album,
				Error:   msg,
			})
		}

		return
	}

	result.Migrated = append(result.Migrated, pending...)
}

// appendPreservingPositions adds pending videos one at a time, snapshots
// tokens before each append and moves the new row toward its expected
// index. Positioning is best effort: reconciliation and move failures
// leave the song migrated at the playlist tail.
func (e *MigrationEngine) appendPreservingPositions(ctx context.Context, playlistID string, pending []Migrated, result *Result) {
	for _, p := range pending {
		before := e.beforeTokens(ctx, playlistID)

		if err := e.svc.AppendEntries(ctx, playlistID, []string{p.VideoID}, false); err != nil {
			result.Failed = append(result.Failed, Failure{
				SongKey: p.SongKey,
				Title:   p.Title,
				Artist:  p.Artist,
				Album:   p.Album,
				Error:   fmt.Sprintf("Failed to add song to playlist: %v", err),
			})
			continue
		}

		result.Migrated = append(result.Migrated, p)

		if p.ExpectedIndex == nil || e.planner == nil {
			continue
		}

		_, _ = e.planner.PlaceAppended(ctx, playlistID, p.VideoID, before, *p.ExpectedIndex)
	}
}

// beforeTokens reads the playlist's current token set. An unreadable
// playlist yields an empty set, which degrades reconciliation to its
// duplicate fallback instead of blocking the append.
func (e *MigrationEngine) beforeTokens(ctx context.Context, playlistID string) order.TokenSet {
	snap, err := e.svc.ListEntries(ctx, playlistID, entryLimit)
	if err != nil {
		return order.TokenSet{}
	}

	return snap.Tokens()
}

// searchMerged runs every query variant through one search filter and
// merges the results, deduplicating by video id in first-seen order.
func (e *MigrationEngine) searchMerged(ctx context.Context, queries []string, filter string) ([]services.Candidate, error) {
	merged := make([]services.Candidate, 0)
	seen := make(map[string]struct{})

	for _, q := range queries {
		found, err := e.svc.Search(ctx, q, filter, searchLimit)
		if err != nil {
			return nil, err
		}

		for _, c := range found {
			if c.VideoID == "" {
				continue
			}
			if _, dup := seen[c.VideoID]; dup {
				continue
			}

			seen[c.VideoID] = struct{}{}
			merged = append(merged, c)
		}
	}

	return merged, nil
}

func failure(key string, song Song, msg string) Failure {
	return Failure{
		SongKey: key,
		Title:   song.Title,
		Artist:  song.Artist,
		Album:   song.Album,
		Error:   msg,
	}
}

func migrated(key string, song Song, c services.Candidate) Migrated {
	return Migrated{
		SongKey:        key,
		Title:          song.Title,
		Artist:         song.Artist,
		Album:          song.Album,
		ExpectedIndex:  song.ExpectedIndex,
		VideoID:        c.VideoID,
		MatchedTitle:   c.Title,
		MatchedArtists: c.ArtistText(),
	}
}

func traceEntry(key string, song Song, query string, queries []string) SearchTrace {
	return SearchTrace{
		SongKey: key,
		Title:   song.Title,
		Artist:  song.Artist,
		Album:   song.Album,
		Query:   query,
		Queries: queries,
	}
}
