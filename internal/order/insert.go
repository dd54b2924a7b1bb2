package order

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytshift/internal/shared"
)

// Mutator extends Lister with the write primitives position planning needs.
type Mutator interface {
	Lister
	AppendEntries(ctx context.Context, playlistID string, videoIDs []string, allowDuplicates bool) error
	Reorder(ctx context.Context, playlistID, setVideoID, beforeSetVideoID string) error
}

// InsertResult reports where an appended video ended up. InsertedIndex is
// the best known position: the clamped target after a successful move, the
// tail index when no anchor row exists, or the raw requested index when the
// row was never located.
type InsertResult struct {
	VideoID       string `json:"videoId"`
	InsertedIndex int    `json:"insertedIndex"`
	Moved         bool   `json:"moved"`
}

// Planner turns absolute and relative position requests into the catalog's
// only ordering primitive, a token-to-token move call.
type Planner struct {
	svc   Mutator
	recon *Reconciler
}

// NewPlanner builds a Planner over svc, polling reads per poll.
func NewPlanner(svc Mutator, poll PollPolicy, entryLimit int) *Planner {
	return &Planner{svc: svc, recon: NewReconciler(svc, poll, entryLimit)}
}

// InsertAt appends videoID to the playlist and moves it to expectedIndex.
// The target is clamped to the playlist's length. The append and the move
// fail independently: an error after the append means the video is in the
// playlist but not at the requested position.
func (p *Planner) InsertAt(ctx context.Context, playlistID, videoID string, expectedIndex int) (*InsertResult, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", shared.ErrInvalidInput)
	}
	if expectedIndex < 0 {
		return nil, fmt.Errorf("%w: expected index must be a non-negative integer", shared.ErrInvalidInput)
	}

	before, err := p.svc.ListEntries(ctx, playlistID, p.recon.limit)
	if err != nil {
		return nil, err
	}

	if err := p.svc.AppendEntries(ctx, playlistID, []string{videoID}, false); err != nil {
		return nil, err
	}

	return p.PlaceAppended(ctx, playlistID, videoID, before.Tokens(), expectedIndex)
}

// PlaceAppended locates the row created by appending videoID and issues at
// most one reorder call to land it at expectedIndex. The append must have
// already happened; before holds the token set recorded ahead of it.
// Outcomes that leave the row where it is report Moved false. Only a failed
// reorder call is an error, since the append itself succeeded.
func (p *Planner) PlaceAppended(ctx context.Context, playlistID, videoID string, before TokenSet, expectedIndex int) (*InsertResult, error) {
	row, snap, err := p.recon.FindAppended(ctx, playlistID, videoID, before)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &InsertResult{VideoID: videoID, InsertedIndex: expectedIndex}, nil
	}

	bounded := expectedIndex
	if tail := len(snap) - 1; bounded > tail {
		bounded = tail
	}
	if row.Index == bounded {
		return &InsertResult{VideoID: videoID, InsertedIndex: bounded}, nil
	}

	// Removing the row from an earlier slot shifts everything after it up
	// by one, so the anchor has to sit one past the target in that case.
	successorSlot := bounded
	if row.Index < bounded {
		successorSlot = bounded + 1
	}
	if successorSlot >= len(snap) {
		return &InsertResult{VideoID: videoID, InsertedIndex: len(snap) - 1}, nil
	}

	successor := ""
	for i := successorSlot; i < len(snap); i++ {
		if tok := snap[i].SetVideoID; tok != "" && tok != row.Entry.SetVideoID {
			successor = tok
			break
		}
	}
	if successor == "" {
		return &InsertResult{VideoID: videoID, InsertedIndex: len(snap) - 1}, nil
	}

	if err := p.svc.Reorder(ctx, playlistID, row.Entry.SetVideoID, successor); err != nil {
		return nil, fmt.Errorf("video was added but could not be moved: %w", err)
	}

	return &InsertResult{VideoID: videoID, InsertedIndex: bounded, Moved: true}, nil
}
