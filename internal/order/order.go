package order

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ytshift/internal/services"
)

const defaultEntryLimit = 5000

// TokenSet holds the position tokens present in a playlist snapshot.
type TokenSet map[string]struct{}

// PollPolicy bounds the reload loop that runs after an append. The catalog's
// read path lags its write path, so a freshly appended row may take a few
// reads to show up.
type PollPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPollPolicy returns the standard five attempts at 250ms apart.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{Attempts: 5, Delay: 250 * time.Millisecond}
}

// Lister reads playlist entries.
type Lister interface {
	ListEntries(ctx context.Context, playlistID string, limit int) (services.Snapshot, error)
}

// Row pairs a playlist entry with its index in the snapshot it came from.
type Row struct {
	Index int
	Entry services.Entry
}

// Reconciler locates a just-appended video by diffing position tokens
// against the set recorded before the append. The catalog never reports
// where an append landed, so the row has to be found by re-reading.
type Reconciler struct {
	svc   Lister
	poll  PollPolicy
	limit int
	sleep func(time.Duration)
}

// NewReconciler builds a Reconciler over svc. A non-positive entryLimit
// falls back to the catalog's maximum page size.
func NewReconciler(svc Lister, poll PollPolicy, entryLimit int) *Reconciler {
	if poll.Attempts < 1 {
		poll.Attempts = 1
	}
	if poll.Delay < 0 {
		poll.Delay = 0
	}
	if entryLimit <= 0 {
		entryLimit = defaultEntryLimit
	}

	return &Reconciler{svc: svc, poll: poll, limit: entryLimit, sleep: time.Sleep}
}

// FindAppended polls the playlist until it can locate the row created by
// appending videoID. Scanning runs from the tail since appends land at the
// end. A row whose token is absent from before is the genuine new entry;
// when every matching token predates the append (the video already existed
// in the playlist) the highest-index match is returned as a best-effort
// guess. A nil row with a nil error means the append went through but the
// row could not be located, so the caller should skip positioning.
func (r *Reconciler) FindAppended(ctx context.Context, playlistID, videoID string, before TokenSet) (*Row, services.Snapshot, error) {
	var snap services.Snapshot

	for attempt := 0; attempt < r.poll.Attempts; attempt++ {
		if attempt > 0 {
			r.sleep(r.poll.Delay)
		}

		cur, err := r.svc.ListEntries(ctx, playlistID, r.limit)
		if err != nil {
			if attempt == r.poll.Attempts-1 {
				return nil, snap, fmt.Errorf("playlist reload after append: %w", err)
			}

			continue
		}

		snap = cur
		if len(snap) == 0 {
			continue
		}

		var fallback *Row
		for i := len(snap) - 1; i >= 0; i-- {
			entry := snap[i]
			if entry.VideoID != videoID || entry.SetVideoID == "" {
				continue
			}

			if _, seen := before[entry.SetVideoID]; !seen {
				return &Row{Index: i, Entry: entry}, snap, nil
			}

			if fallback == nil {
				fallback = &Row{Index: i, Entry: entry}
			}
		}

		if fallback != nil {
			return fallback, snap, nil
		}
	}

	return nil, snap, nil
}
