package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/ytshift/internal/order"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
)

type searchCall struct {
	query  string
	filter string
	limit  int
}

type mockCatalog struct {
	searchResults map[string][]services.Candidate
	searchErr     error
	searchErrOn   string
	searchCalls   []searchCall
	appends       [][]string
	appendDups    []bool
	appendErr     error
	listQueue     []services.Snapshot
	listErr       error
	listCalls     int
	reorders      [][2]string
	reorderErr    error
}

func searchKey(filter, query string) string {
	return filter + "|" + query
}

func (m *mockCatalog) Search(ctx context.Context, query, filter string, limit int) ([]services.Candidate, error) {
	m.searchCalls = append(m.searchCalls, searchCall{query: query, filter: filter, limit: limit})
	if m.searchErr != nil && (m.searchErrOn == "" || m.searchErrOn == filter) {
		return nil, m.searchErr
	}

	return m.searchResults[searchKey(filter, query)], nil
}

func (m *mockCatalog) AppendEntries(ctx context.Context, playlistID string, videoIDs []string, allowDuplicates bool) error {
	m.appends = append(m.appends, videoIDs)
	m.appendDups = append(m.appendDups, allowDuplicates)
	return m.appendErr
}

func (m *mockCatalog) ListEntries(ctx context.Context, playlistID string, limit int) (services.Snapshot, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(m.listQueue) == 0 {
		return services.Snapshot{}, nil
	}

	idx := m.listCalls - 1
	if idx >= len(m.listQueue) {
		idx = len(m.listQueue) - 1
	}

	return m.listQueue[idx], nil
}

func (m *mockCatalog) Reorder(ctx context.Context, playlistID, setVideoID, beforeSetVideoID string) error {
	m.reorders = append(m.reorders, [2]string{setVideoID, beforeSetVideoID})
	return m.reorderErr
}

type mockCache struct {
	hits    map[string]services.Candidate
	lookups []string
	stores  []string
}

func cacheKey(title, artist, album string) string {
	return title + "|" + artist + "|" + album
}

func (m *mockCache) Lookup(title, artist, album string) (services.Candidate, bool) {
	key := cacheKey(title, artist, album)
	m.lookups = append(m.lookups, key)
	hit, ok := m.hits[key]
	return hit, ok
}

func (m *mockCache) Store(title, artist, album string, c services.Candidate) {
	m.stores = append(m.stores, cacheKey(title, artist, album))
}

func testCandidate(videoID, title string, artists ...string) services.Candidate {
	return services.Candidate{VideoID: videoID, Title: title, ArtistNames: artists}
}

func testPlanner(m *mockCatalog) *order.Planner {
	return order.NewPlanner(m, order.PollPolicy{Attempts: 2, Delay: 0}, 0)
}

func TestSongFromPayload(t *testing.T) {
	t.Run("Builds a song from an object", func(t *testing.T) {
		song := SongFromPayload(0, map[string]any{
			"songKey":       "k1",
			"title":         " Veridis Quo ",
			"artist":        "Daft Punk",
			"album":         "Discovery",
			"expectedIndex": 3.0,
		})

		if song.Key != "k1" || song.Title != "Veridis Quo" {
			t.Errorf("unexpected song %+v", song)
		}
		if song.ExpectedIndex == nil || *song.ExpectedIndex != 3 {
			t.Errorf("expected index 3, got %v", song.ExpectedIndex)
		}
		if song.Malformed {
			t.Error("expected a well formed song")
		}
	})

	t.Run("Defaults the song key", func(t *testing.T) {
		song := SongFromPayload(5, map[string]any{"title": "Song"})
		if song.Key != "song-5" {
			t.Errorf("expected song-5, got %s", song.Key)
		}
	})

	t.Run("Accepts numeric string indexes", func(t *testing.T) {
		song := SongFromPayload(0, map[string]any{"title": "Song", "expectedIndex": "4"})
		if song.ExpectedIndex == nil || *song.ExpectedIndex != 4 {
			t.Errorf("expected index 4, got %v", song.ExpectedIndex)
		}
	})

	t.Run("Drops unusable indexes", func(t *testing.T) {
		for _, raw := range []any{-1.0, 1.5, true, "soon"} {
			song := SongFromPayload(0, map[string]any{"title": "Song", "expectedIndex": raw})
			if song.ExpectedIndex != nil {
				t.Errorf("expected nil index for %v, got %d", raw, *song.ExpectedIndex)
			}
		}
	})

	t.Run("Marks non objects malformed", func(t *testing.T) {
		song := SongFromPayload(2, "not an object")
		if !song.Malformed || song.Key != "song-2" {
			t.Errorf("expected a malformed song-2, got %+v", song)
		}
	})
}

func TestMigrationEngine_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects missing input", func(t *testing.T) {
		engine := NewMigrationEngine(&mockCatalog{}, nil, nil)

		if _, err := engine.Run(ctx, "", []Song{{Key: "a", Title: "T"}}, MigrateOptions{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input for missing playlist, got %v", err)
		}
		if _, err := engine.Run(ctx, "PL1", nil, MigrateOptions{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input for empty songs, got %v", err)
		}
	})

	t.Run("Migrates resolved songs in one batch", func(t *testing.T) {
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Daft Punk")},
			searchKey(services.FilterSongs, "Justice Genesis"):       {testCandidate("v2", "Genesis", "Justice")},
		}}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{
			{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"},
			{Key: "b", Title: "Genesis", Artist: "Justice"},
		}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Failed) != 0 {
			t.Fatalf("expected no failures, got %+v", result.Failed)
		}
		if len(result.Migrated) != 2 {
			t.Fatalf("expected two migrated songs, got %d", len(result.Migrated))
		}
		if result.Migrated[0].VideoID != "v1" || result.Migrated[1].VideoID != "v2" {
			t.Errorf("unexpected video ids %+v", result.Migrated)
		}
		if result.Migrated[0].MatchedArtists != "Daft Punk" {
			t.Errorf("expected the matched artist text, got %q", result.Migrated[0].MatchedArtists)
		}

		if len(mock.appends) != 1 {
			t.Fatalf("expected one batch append, got %v", mock.appends)
		}
		if len(mock.appends[0]) != 2 || mock.appends[0][0] != "v1" {
			t.Errorf("expected both videos in order, got %v", mock.appends[0])
		}
		if mock.appendDups[0] {
			t.Error("expected the append to refuse duplicates")
		}
		if mock.listCalls != 0 {
			t.Error("expected no snapshot reads in batch mode")
		}
	})

	t.Run("Reports songs without titles in place", func(t *testing.T) {
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterSongs, "Justice Genesis"): {testCandidate("v2", "Genesis", "Justice")},
		}}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{
			{Key: "a", Artist: "Daft Punk"},
			{Key: "b", Title: "Genesis", Artist: "Justice"},
		}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Failed) != 1 || result.Failed[0].Error != "Song title is required." {
			t.Fatalf("expected a title failure, got %+v", result.Failed)
		}
		if result.Failed[0].SongKey != "a" || result.Failed[0].Artist != "Daft Punk" {
			t.Errorf("expected the failure to carry the song fields, got %+v", result.Failed[0])
		}
		if len(result.Migrated) != 1 || result.Migrated[0].SongKey != "b" {
			t.Errorf("expected the valid song to migrate, got %+v", result.Migrated)
		}
	})

	t.Run("Fails malformed payload items", func(t *testing.T) {
		mock := &mockCatalog{}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{SongFromPayload(0, 42.0)}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Failed) != 1 {
			t.Fatalf("expected one failure, got %+v", result.Failed)
		}

		f := result.Failed[0]
		if f.SongKey != "song-0" || f.Error != "Song payload must be an object." {
			t.Errorf("unexpected failure %+v", f)
		}
		if f.Title != "" || f.Artist != "" {
			t.Errorf("expected a bare failure entry, got %+v", f)
		}
	})

	t.Run("Defaults missing song keys by position", func(t *testing.T) {
		mock := &mockCatalog{}
		engine := NewMigrationEngine(mock, nil, nil)

		result, err := engine.Run(ctx, "PL1", []Song{{Title: ""}}, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed[0].SongKey != "song-0" {
			t.Errorf("expected song-0, got %s", result.Failed[0].SongKey)
		}
	})

	t.Run("Marks a song failed when search errors", func(t *testing.T) {
		mock := &mockCatalog{searchErr: fmt.Errorf("quota exhausted")}
		engine := NewMigrationEngine(mock, nil, nil)

		result, err := engine.Run(ctx, "PL1", []Song{{Key: "a", Title: "Genesis"}}, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Failed) != 1 {
			t.Fatalf("expected one failure, got %+v", result.Failed)
		}
		if result.Failed[0].Error != "Search failed: quota exhausted" {
			t.Errorf("unexpected failure message %q", result.Failed[0].Error)
		}
		if len(mock.appends) != 0 {
			t.Error("expected no appends")
		}
	})

	t.Run("Falls back to the video index", func(t *testing.T) {
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterSongs, "Daft Punk Veridis Quo"):  {testCandidate("v1", "Veridis Quo", "Tribute Band")},
			searchKey(services.FilterVideos, "Daft Punk Veridis Quo"): {testCandidate("v9", "Veridis Quo (Video)", "Daft Punk")},
		}}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 1 || result.Migrated[0].VideoID != "v9" {
			t.Fatalf("expected the fallback video, got %+v", result.Migrated)
		}

		filters := make([]string, len(mock.searchCalls))
		for i, call := range mock.searchCalls {
			filters[i] = call.filter
		}
		if len(filters) != 2 || filters[0] != services.FilterSongs || filters[1] != services.FilterVideos {
			t.Errorf("expected a songs search then a videos search, got %v", filters)
		}
	})

	t.Run("Reports no match when both passes come up empty", func(t *testing.T) {
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Tribute Band")},
		}}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Failed) != 1 || result.Failed[0].Error != "No matching song found on YouTube Music." {
			t.Errorf("expected a no-match failure, got %+v", result.Failed)
		}
	})

	t.Run("Album variants widen the search", func(t *testing.T) {
		repeated := testCandidate("v1", "Veridis Quo", "Daft Punk")
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterSongs, "Daft Punk Veridis Quo"):           {repeated},
			searchKey(services.FilterSongs, "Daft Punk Veridis Quo Discovery"): {repeated, testCandidate("v2", "Veridis Quo (Live)", "Daft Punk")},
		}}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk", Album: "Discovery"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 1 || result.Migrated[0].VideoID != "v1" {
			t.Fatalf("expected the deduplicated best match, got %+v", result.Migrated)
		}

		if len(mock.searchCalls) != 2 {
			t.Fatalf("expected both query variants, got %v", mock.searchCalls)
		}
		if mock.searchCalls[1].query != "Daft Punk Veridis Quo Discovery" {
			t.Errorf("unexpected album query %q", mock.searchCalls[1].query)
		}
	})

	t.Run("Batch append failure fails every pending song", func(t *testing.T) {
		mock := &mockCatalog{
			searchResults: map[string][]services.Candidate{
				searchKey(services.FilterSongs, "Justice Genesis"): {testCandidate("v2", "Genesis", "Justice")},
			},
			appendErr: fmt.Errorf("%w: server busy", shared.ErrSongAdd),
		}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{
			{Key: "a"},
			{Key: "b", Title: "Genesis", Artist: "Justice"},
		}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 0 {
			t.Errorf("expected no migrated songs, got %+v", result.Migrated)
		}
		if len(result.Failed) != 2 {
			t.Fatalf("expected two failures, got %+v", result.Failed)
		}
		if result.Failed[0].Error != "Song title is required." {
			t.Errorf("expected the validation failure first, got %+v", result.Failed[0])
		}
		if !strings.HasPrefix(result.Failed[1].Error, "Failed to add songs to playlist:") {
			t.Errorf("unexpected batch failure message %q", result.Failed[1].Error)
		}
	})

	t.Run("Preserve position appends one at a time and reorders", func(t *testing.T) {
		idx := 0
		mock := &mockCatalog{
			searchResults: map[string][]services.Candidate{
				searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Daft Punk")},
			},
			listQueue: []services.Snapshot{
				{services.Entry{VideoID: "x", SetVideoID: "t0"}},
				{services.Entry{VideoID: "x", SetVideoID: "t0"}, services.Entry{VideoID: "v1", SetVideoID: "t1"}},
			},
		}
		engine := NewMigrationEngine(mock, testPlanner(mock), nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk", ExpectedIndex: &idx}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{PreservePosition: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 1 {
			t.Fatalf("expected one migrated song, got %+v", result.Failed)
		}
		if len(mock.appends) != 1 || len(mock.appends[0]) != 1 {
			t.Fatalf("expected a single-video append, got %v", mock.appends)
		}
		if len(mock.reorders) != 1 || mock.reorders[0] != [2]string{"t1", "t0"} {
			t.Errorf("expected t1 to move before t0, got %v", mock.reorders)
		}
	})

	t.Run("Preserve position keeps a song migrated when the move fails", func(t *testing.T) {
		idx := 0
		mock := &mockCatalog{
			searchResults: map[string][]services.Candidate{
				searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Daft Punk")},
			},
			listQueue: []services.Snapshot{
				{services.Entry{VideoID: "x", SetVideoID: "t0"}},
				{services.Entry{VideoID: "x", SetVideoID: "t0"}, services.Entry{VideoID: "v1", SetVideoID: "t1"}},
			},
			reorderErr: fmt.Errorf("%w: rejected", shared.ErrSongMove),
		}
		engine := NewMigrationEngine(mock, testPlanner(mock), nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk", ExpectedIndex: &idx}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{PreservePosition: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 1 || len(result.Failed) != 0 {
			t.Errorf("expected the song to stay migrated, got %+v / %+v", result.Migrated, result.Failed)
		}
	})

	t.Run("Preserve position skips songs without an expected index", func(t *testing.T) {
		mock := &mockCatalog{
			searchResults: map[string][]services.Candidate{
				searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Daft Punk")},
			},
			listQueue: []services.Snapshot{{services.Entry{VideoID: "x", SetVideoID: "t0"}}},
		}
		engine := NewMigrationEngine(mock, testPlanner(mock), nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{PreservePosition: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 1 {
			t.Fatalf("expected one migrated song, got %+v", result.Failed)
		}
		if mock.listCalls != 1 {
			t.Errorf("expected only the before read, got %d reads", mock.listCalls)
		}
		if len(mock.reorders) != 0 {
			t.Errorf("expected no reorders, got %v", mock.reorders)
		}
	})

	t.Run("Preserve position fails songs whose append fails", func(t *testing.T) {
		mock := &mockCatalog{
			searchResults: map[string][]services.Candidate{
				searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Daft Punk")},
			},
			appendErr: fmt.Errorf("%w: rejected", shared.ErrSongAdd),
		}
		engine := NewMigrationEngine(mock, testPlanner(mock), nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{PreservePosition: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 0 {
			t.Errorf("expected no migrated songs, got %+v", result.Migrated)
		}
		if len(result.Failed) != 1 || !strings.HasPrefix(result.Failed[0].Error, "Failed to add song to playlist:") {
			t.Errorf("unexpected failure %+v", result.Failed)
		}
	})

	t.Run("Cache hits skip the search", func(t *testing.T) {
		cache := &mockCache{hits: map[string]services.Candidate{
			cacheKey("Veridis Quo", "Daft Punk", ""): testCandidate("v1", "Veridis Quo", "Daft Punk"),
		}}
		mock := &mockCatalog{}
		engine := NewMigrationEngine(mock, nil, cache)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Migrated) != 1 || result.Migrated[0].VideoID != "v1" {
			t.Fatalf("expected the cached match, got %+v", result.Migrated)
		}
		if len(mock.searchCalls) != 0 {
			t.Errorf("expected no searches, got %v", mock.searchCalls)
		}
		if len(cache.stores) != 0 {
			t.Errorf("expected no store for a cache hit, got %v", cache.stores)
		}
	})

	t.Run("Resolved matches land in the cache", func(t *testing.T) {
		cache := &mockCache{}
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Daft Punk")},
		}}
		engine := NewMigrationEngine(mock, nil, cache)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		if _, err := engine.Run(ctx, "PL1", songs, MigrateOptions{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cache.stores) != 1 || cache.stores[0] != cacheKey("Veridis Quo", "Daft Punk", "") {
			t.Errorf("expected the resolved match to be stored, got %v", cache.stores)
		}
	})

	t.Run("Debug trace records each search", func(t *testing.T) {
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterVideos, "Daft Punk Veridis Quo"): {testCandidate("v9", "Veridis Quo (Video)", "Daft Punk")},
		}}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{Debug: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Debug == nil || !result.Debug.Enabled {
			t.Fatal("expected the debug report")
		}

		searches := result.Debug.Searches
		if len(searches) != 2 {
			t.Fatalf("expected a songs entry and a fallback entry, got %d", len(searches))
		}
		if searches[0].Query != "Daft Punk Veridis Quo" || len(searches[0].Queries) != 1 {
			t.Errorf("unexpected query fields %+v", searches[0])
		}
		if searches[0].Results != nil && len(searches[0].Results) != 0 {
			t.Errorf("expected an empty songs response, got %+v", searches[0].Results)
		}
		if len(searches[1].FallbackResults) != 1 {
			t.Errorf("expected the fallback results, got %+v", searches[1])
		}
	})

	t.Run("Debug stays off by default", func(t *testing.T) {
		mock := &mockCatalog{searchResults: map[string][]services.Candidate{
			searchKey(services.FilterSongs, "Daft Punk Veridis Quo"): {testCandidate("v1", "Veridis Quo", "Daft Punk")},
		}}
		engine := NewMigrationEngine(mock, nil, nil)

		songs := []Song{{Key: "a", Title: "Veridis Quo", Artist: "Daft Punk"}}

		result, err := engine.Run(ctx, "PL1", songs, MigrateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Debug != nil {
			t.Errorf("expected no debug report, got %+v", result.Debug)
		}
	})
}
