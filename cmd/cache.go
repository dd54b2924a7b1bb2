package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// matchRecord is the wire shape for a cached match listing.
type matchRecord struct {
	Sequence       int    `json:"sequence"`
	Key            string `json:"key"`
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	Album          string `json:"album,omitempty"`
	VideoID        string `json:"videoId"`
	MatchedTitle   string `json:"matchedTitle,omitempty"`
	MatchedArtists string `json:"matchedArtists,omitempty"`
}

// CacheList prints cached search matches, optionally filtered by artist or
// video ID.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.matchRepo()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}
	if videoID := cmd.String("video-id"); videoID != "" {
		criteria["video_id"] = videoID
	}

	matches, err := repo.List(criteria)
	if err != nil {
		return err
	}

	r.logger.Infof("found %v cached matches", len(matches))

	if cmd.Bool("json") {
		records := make([]matchRecord, 0, len(matches))
		for _, m := range matches {
			records = append(records, matchRecord{
				Sequence:       m.Sequence(),
				Key:            m.Key(),
				Title:          m.Title(),
				Artist:         m.Artist(),
				Album:          m.Album(),
				VideoID:        m.VideoID(),
				MatchedTitle:   m.MatchedTitle(),
				MatchedArtists: m.MatchedArtists(),
			})
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(matches) == 0 {
		return r.writePlain("No cached matches found.\n")
	}

	r.writePlain("Found %d cached matches:\n\n", len(matches))
	for i, m := range matches {
		label := m.Title()
		if m.Artist() != "" {
			label = fmt.Sprintf("%s - %s", m.Artist(), m.Title())
		}
		r.writePlain("%d. %s\n", i+1, label)
		if m.Album() != "" {
			r.writePlain("   Album: %s\n", m.Album())
		}
		if m.VideoID() != "" {
			r.writePlain("   Video ID: %s\n", m.VideoID())
		} else {
			r.writePlain("   Video ID: (no match)\n")
		}
		if m.MatchedTitle() != "" {
			matched := m.MatchedTitle()
			if m.MatchedArtists() != "" {
				matched = fmt.Sprintf("%s by %s", matched, m.MatchedArtists())
			}
			r.writePlain("   Matched: %s\n", matched)
		}
		r.writePlain("\n")
	}

	return nil
}

// CacheClear soft-deletes every cached match.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.matchRepo()
	if err != nil {
		return err
	}

	cleared, err := repo.Purge()
	if err != nil {
		return err
	}

	r.logger.Infof("cleared %v cached matches", cleared)

	r.writePlain("✓ Cleared %d cached matches\n", cleared)
	return nil
}
