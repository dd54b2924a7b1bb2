// Package match scores catalog search results against a wanted song and
// picks the best candidate.
//
// Scoring is integer-weighted over normalized text. The title contributes
// 8 for an exact match or 5 when it is contained in the result title; the
// artist contributes 5 exact, 3 contained, or 1 for a shared token; a
// playable result (non-empty videoId) adds 2. The album is graded 0-2 and
// weighted by 4 in [TotalScore].
package match

import (
	"regexp"
	"strings"

	"github.com/desertthunder/ytshift/internal/services"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases s and collapses every run of characters outside
// [a-z0-9] into a single space. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// Score rates how well a candidate matches the wanted title and artist.
func Score(c services.Candidate, title, artist string) int {
	score := 0

	resultTitle := Normalize(c.Title)
	resultArtists := Normalize(c.ArtistText())
	wantTitle := Normalize(title)
	wantArtist := Normalize(artist)

	if wantTitle != "" && resultTitle == wantTitle {
		score += 8
	} else if wantTitle != "" && strings.Contains(resultTitle, wantTitle) {
		score += 5
	}

	if wantArtist != "" && resultArtists == wantArtist {
		score += 5
	} else if wantArtist != "" && strings.Contains(resultArtists, wantArtist) {
		score += 3
	} else if wantArtist != "" && anyTokenIn(wantArtist, resultArtists) {
		score += 1
	}

	if strings.TrimSpace(c.VideoID) != "" {
		score += 2
	}

	return score
}

// ArtistLevel grades the artist agreement between a candidate and the
// wanted artist: 3 exact, 2 contained, 1 shared token, 0 none.
func ArtistLevel(c services.Candidate, artist string) int {
	want := Normalize(artist)
	if want == "" {
		return 0
	}

	resultArtists := Normalize(c.ArtistText())
	if resultArtists == "" {
		return 0
	}

	if resultArtists == want {
		return 3
	}
	if strings.Contains(resultArtists, want) {
		return 2
	}
	if anyTokenIn(want, resultArtists) {
		return 1
	}
	return 0
}

// AlbumLevel grades the album agreement between a candidate and the wanted
// album: 2 exact, 1 contained, 0 none.
func AlbumLevel(c services.Candidate, album string) int {
	want := Normalize(album)
	if want == "" {
		return 0
	}

	resultAlbum := Normalize(c.AlbumName)
	if resultAlbum == "" {
		return 0
	}

	if resultAlbum == want {
		return 2
	}
	if strings.Contains(resultAlbum, want) {
		return 1
	}
	return 0
}

// TotalScore combines Score with the weighted album level. This is the
// ranking PickBest maximizes.
func TotalScore(c services.Candidate, title, artist, album string) int {
	return Score(c, title, artist) + AlbumLevel(c, album)*4
}

// PickBest returns the highest-scoring candidate, or false when nothing
// usable remains.
//
// Candidates without a videoId are dropped first since they cannot be added
// to a playlist. When an artist is given, candidates that agree with it at
// any level are preferred; if none agree, requireArtistMatch decides
// whether to give up or rank the full set anyway. Ties resolve to the
// earliest candidate in the input.
func PickBest(candidates []services.Candidate, title, artist, album string, requireArtistMatch bool) (services.Candidate, bool) {
	valid := make([]services.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.VideoID) != "" {
			valid = append(valid, c)
		}
	}

	if len(valid) == 0 {
		return services.Candidate{}, false
	}

	if artist != "" {
		filtered := make([]services.Candidate, 0, len(valid))
		for _, c := range valid {
			if ArtistLevel(c, artist) > 0 {
				filtered = append(filtered, c)
			}
		}

		if len(filtered) > 0 {
			valid = filtered
		} else if requireArtistMatch {
			return services.Candidate{}, false
		}
	}

	best := valid[0]
	bestScore := TotalScore(best, title, artist, album)
	for _, c := range valid[1:] {
		if score := TotalScore(c, title, artist, album); score > bestScore {
			best = c
			bestScore = score
		}
	}

	return best, true
}

func anyTokenIn(want, haystack string) bool {
	for _, token := range strings.Split(want, " ") {
		if token != "" && strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}
