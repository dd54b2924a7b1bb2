package match

import (
	"testing"

	"github.com/desertthunder/ytshift/internal/services"
)

func candidate(videoID, title string, artists []string, album string) services.Candidate {
	return services.Candidate{
		VideoID:     videoID,
		Title:       title,
		ArtistNames: artists,
		AlbumName:   album,
	}
}

func TestNormalize(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Song Title", want: "song title"},
		{name: "collapses punctuation runs", input: "Song!!! -- Title?", want: "song title"},
		{name: "trims edges", input: "  (Song)  ", want: "song"},
		{name: "keeps digits", input: "Track 03", want: "track 03"},
		{name: "empty input", input: "", want: ""},
		{name: "only punctuation", input: "?!...", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}

			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestScore(t *testing.T) {
	t.Run("exact title and artist with video id", func(t *testing.T) {
		c := candidate("vid1", "Veridis Quo", []string{"Daft Punk"}, "")

		if got := Score(c, "Veridis Quo", "Daft Punk"); got != 15 {
			t.Errorf("Score() = %d, want 15", got)
		}
	})

	t.Run("substring title with exact artist", func(t *testing.T) {
		c := candidate("vid1", "Veridis Quo (Official Video)", []string{"Daft Punk"}, "")

		if got := Score(c, "Veridis Quo", "Daft Punk"); got != 12 {
			t.Errorf("Score() = %d, want 12", got)
		}
	})

	t.Run("title containment is one-directional", func(t *testing.T) {
		// The wanted title must appear inside the result title; a result
		// that is a fragment of the wanted title earns nothing.
		c := candidate("vid1", "Veridis", []string{"Daft Punk"}, "")

		if got := Score(c, "Veridis Quo", "Daft Punk"); got != 7 {
			t.Errorf("Score() = %d, want 7 (artist 5 + video 2)", got)
		}
	})

	t.Run("artist token overlap", func(t *testing.T) {
		c := candidate("vid1", "Collab Song", []string{"MC Punk"}, "")

		if got := Score(c, "Collab Song", "Daft Punk"); got != 11 {
			t.Errorf("Score() = %d, want 11 (title 8 + token 1 + video 2)", got)
		}
	})

	t.Run("missing video id drops the bonus", func(t *testing.T) {
		c := candidate("", "Veridis Quo", []string{"Daft Punk"}, "")

		if got := Score(c, "Veridis Quo", "Daft Punk"); got != 13 {
			t.Errorf("Score() = %d, want 13", got)
		}
	})

	t.Run("empty targets earn nothing beyond video id", func(t *testing.T) {
		c := candidate("vid1", "Anything", []string{"Anyone"}, "")

		if got := Score(c, "", ""); got != 2 {
			t.Errorf("Score() = %d, want 2", got)
		}
	})
}

func TestArtistLevel(t *testing.T) {
	tc := []struct {
		name    string
		artists []string
		target  string
		want    int
	}{
		{name: "exact", artists: []string{"Daft Punk"}, target: "Daft Punk", want: 3},
		{name: "contained", artists: []string{"Daft Punk", "Pharrell Williams"}, target: "Daft Punk", want: 2},
		{name: "shared token", artists: []string{"MC Punk"}, target: "Daft Punk", want: 1},
		{name: "no agreement", artists: []string{"Justice"}, target: "Daft Punk", want: 0},
		{name: "empty target", artists: []string{"Daft Punk"}, target: "", want: 0},
		{name: "no artists on result", artists: nil, target: "Daft Punk", want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate("vid1", "Song", tt.artists, "")
			if got := ArtistLevel(c, tt.target); got != tt.want {
				t.Errorf("ArtistLevel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAlbumLevel(t *testing.T) {
	tc := []struct {
		name   string
		album  string
		target string
		want   int
	}{
		{name: "exact", album: "Discovery", target: "Discovery", want: 2},
		{name: "contained", album: "Discovery (Deluxe Edition)", target: "Discovery", want: 1},
		{name: "no agreement", album: "Homework", target: "Discovery", want: 0},
		{name: "empty target", album: "Discovery", target: "", want: 0},
		{name: "result without album", album: "", target: "Discovery", want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate("vid1", "Song", nil, tt.album)
			if got := AlbumLevel(c, tt.target); got != tt.want {
				t.Errorf("AlbumLevel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPickBest(t *testing.T) {
	t.Run("prefers higher total score", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate("vid1", "Veridis Quo (Live)", []string{"Daft Punk"}, ""),
			candidate("vid2", "Veridis Quo", []string{"Daft Punk"}, "Discovery"),
		}

		best, ok := PickBest(candidates, "Veridis Quo", "Daft Punk", "Discovery", true)
		if !ok {
			t.Fatal("expected a match")
		}
		if best.VideoID != "vid2" {
			t.Errorf("expected vid2 to win, got %s", best.VideoID)
		}
	})

	t.Run("drops candidates without video ids", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate("", "Veridis Quo", []string{"Daft Punk"}, "Discovery"),
			candidate("vid2", "Veridis Quo (Live)", []string{"Daft Punk"}, ""),
		}

		best, ok := PickBest(candidates, "Veridis Quo", "Daft Punk", "", true)
		if !ok {
			t.Fatal("expected a match")
		}
		if best.VideoID != "vid2" {
			t.Errorf("expected the playable candidate, got %s", best.VideoID)
		}
	})

	t.Run("returns false when nothing is playable", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate("", "Veridis Quo", []string{"Daft Punk"}, ""),
		}

		if _, ok := PickBest(candidates, "Veridis Quo", "Daft Punk", "", true); ok {
			t.Error("expected no match")
		}
	})

	t.Run("artist filter keeps agreeing candidates", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate("vid1", "Veridis Quo", []string{"Tribute Band"}, ""),
			candidate("vid2", "Veridis Quo", []string{"Daft Punk"}, ""),
		}

		best, ok := PickBest(candidates, "Veridis Quo", "Daft Punk", "", true)
		if !ok {
			t.Fatal("expected a match")
		}
		if best.VideoID != "vid2" {
			t.Errorf("expected the agreeing artist to win, got %s", best.VideoID)
		}
	})

	t.Run("required artist match rejects disagreeing sets", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate("vid1", "Veridis Quo", []string{"Tribute Band"}, ""),
		}

		if _, ok := PickBest(candidates, "Veridis Quo", "Daft Punk", "", true); ok {
			t.Error("expected no match when artist agreement is required")
		}
	})

	t.Run("optional artist match ranks the full set", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate("vid1", "Veridis Quo", []string{"Tribute Band"}, ""),
		}

		best, ok := PickBest(candidates, "Veridis Quo", "Daft Punk", "", false)
		if !ok {
			t.Fatal("expected a match without artist requirement")
		}
		if best.VideoID != "vid1" {
			t.Errorf("expected vid1, got %s", best.VideoID)
		}
	})

	t.Run("ties resolve to the earliest candidate", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate("vid1", "Veridis Quo", []string{"Daft Punk"}, ""),
			candidate("vid2", "Veridis Quo", []string{"Daft Punk"}, ""),
		}

		best, ok := PickBest(candidates, "Veridis Quo", "Daft Punk", "", true)
		if !ok {
			t.Fatal("expected a match")
		}
		if best.VideoID != "vid1" {
			t.Errorf("expected the first of equal scores, got %s", best.VideoID)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if _, ok := PickBest(nil, "Veridis Quo", "Daft Punk", "", true); ok {
			t.Error("expected no match for empty input")
		}
	})
}
