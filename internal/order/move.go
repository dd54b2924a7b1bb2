package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
)

// Direction selects which neighbor a relative move steps past.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a raw direction value.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	default:
		return "", fmt.Errorf("%w: direction must be either 'up' or 'down'", shared.ErrInvalidInput)
	}
}

// MoveResult reports the indices observed during a relative move. Moved is
// true iff the row changed position.
type MoveResult struct {
	Moved     bool `json:"moved"`
	FromIndex int  `json:"fromIndex"`
	ToIndex   int  `json:"toIndex"`
}

// MoveBy moves the row named by ref up or down by the given number of
// positions, clamped to the available headroom. Each step issues one
// reorder call and swaps the affected rows in an in-memory mirror, so
// later steps anchor against local state instead of re-reading. A neighbor
// without a position token stops the walk early. Playlists with fewer than
// two rows report Moved false without an error.
func (p *Planner) MoveBy(ctx context.Context, playlistID string, ref services.SongRef, dir Direction, positions int) (*MoveResult, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if ref.Empty() {
		return nil, fmt.Errorf("%w: song must include setVideoId or videoId", shared.ErrInvalidInput)
	}
	if dir != DirectionUp && dir != DirectionDown {
		return nil, fmt.Errorf("%w: direction must be either 'up' or 'down'", shared.ErrInvalidInput)
	}
	if positions <= 0 {
		return nil, fmt.Errorf("%w: positions must be a positive integer", shared.ErrInvalidInput)
	}

	snap, err := p.svc.ListEntries(ctx, playlistID, p.recon.limit)
	if err != nil {
		return nil, err
	}
	if len(snap) < 2 {
		return &MoveResult{}, nil
	}

	idx, token := snap.Locate(ref)
	if idx < 0 || token == "" {
		return nil, fmt.Errorf("%w: could not find selected song", shared.ErrSongNotFound)
	}

	steps := positions
	if dir == DirectionUp {
		if idx < steps {
			steps = idx
		}
	} else if headroom := len(snap) - 1 - idx; headroom < steps {
		steps = headroom
	}
	if steps <= 0 {
		return &MoveResult{FromIndex: idx, ToIndex: idx}, nil
	}

	mirror := make(services.Snapshot, len(snap))
	copy(mirror, snap)

	cur := idx
	for i := 0; i < steps; i++ {
		if dir == DirectionUp {
			neighbor := mirror[cur-1].SetVideoID
			if neighbor == "" {
				break
			}

			if err := p.svc.Reorder(ctx, playlistID, token, neighbor); err != nil {
				return nil, err
			}

			mirror[cur-1], mirror[cur] = mirror[cur], mirror[cur-1]
			cur--
		} else {
			// The catalog only moves a token to precede another, so a
			// downward step moves the successor backward past the target.
			neighbor := mirror[cur+1].SetVideoID
			if neighbor == "" {
				break
			}

			if err := p.svc.Reorder(ctx, playlistID, neighbor, token); err != nil {
				return nil, err
			}

			mirror[cur], mirror[cur+1] = mirror[cur+1], mirror[cur]
			cur++
		}
	}

	return &MoveResult{Moved: cur != idx, FromIndex: idx, ToIndex: cur}, nil
}
