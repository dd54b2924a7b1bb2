package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
)

func newTestPlanner(fake *fakeCatalog) *Planner {
	p := NewPlanner(fake, PollPolicy{Attempts: 3, Delay: time.Millisecond}, 0)
	p.recon.sleep = func(time.Duration) {}
	return p
}

func TestPlanner_InsertAt(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects invalid input before any remote call", func(t *testing.T) {
		tc := []struct {
			name     string
			playlist string
			video    string
			index    int
		}{
			{name: "missing playlist id", playlist: "", video: "v1", index: 0},
			{name: "missing video id", playlist: "PL1", video: "", index: 0},
			{name: "negative index", playlist: "PL1", video: "v1", index: -1},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				fake := &fakeCatalog{}
				p := newTestPlanner(fake)

				_, err := p.InsertAt(ctx, tt.playlist, tt.video, tt.index)
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected invalid input, got %v", err)
				}
				if fake.listCalls != 0 || len(fake.appends) != 0 {
					t.Error("expected no remote calls")
				}
			})
		}
	})

	t.Run("Places the appended row at the requested index", func(t *testing.T) {
		before := services.Snapshot{entry("a", "t0"), entry("b", "t1"), entry("c", "t2")}
		after := services.Snapshot{entry("a", "t0"), entry("b", "t1"), entry("c", "t2"), entry("d", "t3")}
		fake := &fakeCatalog{listFn: func(call int) (services.Snapshot, error) {
			if call == 1 {
				return before, nil
			}

			return after, nil
		}}
		p := newTestPlanner(fake)

		res, err := p.InsertAt(ctx, "PL1", "d", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Moved || res.InsertedIndex != 1 {
			t.Errorf("expected a move to index 1, got %+v", res)
		}
		if len(fake.appends) != 1 || fake.appends[0][0] != "d" {
			t.Errorf("expected one append of d, got %v", fake.appends)
		}
		if fake.appendDups[0] {
			t.Error("expected the append to refuse duplicates")
		}
		if len(fake.reorders) != 1 || fake.reorders[0] != [2]string{"t3", "t1"} {
			t.Errorf("expected t3 to move before t1, got %v", fake.reorders)
		}
	})

	t.Run("Reports at target without a move", func(t *testing.T) {
		after := services.Snapshot{entry("a", "t0"), entry("b", "t1"), entry("c", "t2"), entry("d", "t3")}
		fake := &fakeCatalog{listFn: func(call int) (services.Snapshot, error) {
			if call == 1 {
				return after[:3], nil
			}

			return after, nil
		}}
		p := newTestPlanner(fake)

		res, err := p.InsertAt(ctx, "PL1", "d", 9)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Moved {
			t.Error("expected no move when the row lands inside the clamped target")
		}
		if res.InsertedIndex != 3 {
			t.Errorf("expected the clamped index 3, got %d", res.InsertedIndex)
		}
		if len(fake.reorders) != 0 {
			t.Errorf("expected no reorder calls, got %v", fake.reorders)
		}
	})

	t.Run("Reports the raw index when the row never appears", func(t *testing.T) {
		fake := &fakeCatalog{listFn: func(int) (services.Snapshot, error) {
			return services.Snapshot{entry("a", "t0")}, nil
		}}
		p := newTestPlanner(fake)

		res, err := p.InsertAt(ctx, "PL1", "ghost", 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Moved || res.InsertedIndex != 7 {
			t.Errorf("expected an unmoved result at the requested index, got %+v", res)
		}
		if len(fake.reorders) != 0 {
			t.Error("expected no reorder calls")
		}
	})

	t.Run("Leaves the tail entry when no anchor exists", func(t *testing.T) {
		after := services.Snapshot{entry("a", "t0"), entry("b", ""), entry("c", ""), entry("d", "t3")}
		fake := &fakeCatalog{listFn: func(call int) (services.Snapshot, error) {
			if call == 1 {
				return after[:3], nil
			}

			return after, nil
		}}
		p := newTestPlanner(fake)

		res, err := p.InsertAt(ctx, "PL1", "d", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Moved || res.InsertedIndex != 3 {
			t.Errorf("expected the tail index without a move, got %+v", res)
		}
		if len(fake.reorders) != 0 {
			t.Error("expected no reorder calls")
		}
	})

	t.Run("Aborts when the before read fails", func(t *testing.T) {
		fake := &fakeCatalog{listFn: func(int) (services.Snapshot, error) {
			return nil, fmt.Errorf("%w: gateway timeout", shared.ErrSongLoad)
		}}
		p := newTestPlanner(fake)

		_, err := p.InsertAt(ctx, "PL1", "d", 0)
		if !errors.Is(err, shared.ErrSongLoad) {
			t.Errorf("expected a load error, got %v", err)
		}
		if len(fake.appends) != 0 {
			t.Error("expected no append after a failed read")
		}
	})

	t.Run("Aborts when the append fails", func(t *testing.T) {
		fake := &fakeCatalog{
			listFn: func(int) (services.Snapshot, error) {
				return services.Snapshot{entry("a", "t0")}, nil
			},
			appendErr: fmt.Errorf("%w: quota exceeded", shared.ErrSongAdd),
		}
		p := newTestPlanner(fake)

		_, err := p.InsertAt(ctx, "PL1", "d", 0)
		if !errors.Is(err, shared.ErrSongAdd) {
			t.Errorf("expected an add error, got %v", err)
		}
		if fake.listCalls != 1 {
			t.Errorf("expected only the before read, got %d reads", fake.listCalls)
		}
	})

	t.Run("Surfaces reorder failures after a successful append", func(t *testing.T) {
		before := services.Snapshot{entry("a", "t0"), entry("b", "t1")}
		after := services.Snapshot{entry("a", "t0"), entry("b", "t1"), entry("d", "t2")}
		fake := &fakeCatalog{
			listFn: func(call int) (services.Snapshot, error) {
				if call == 1 {
					return before, nil
				}

				return after, nil
			},
			reorderErr: fmt.Errorf("%w: rejected", shared.ErrSongMove),
		}
		p := newTestPlanner(fake)

		_, err := p.InsertAt(ctx, "PL1", "d", 0)
		if !errors.Is(err, shared.ErrSongMove) {
			t.Fatalf("expected a move error, got %v", err)
		}
		if !strings.Contains(err.Error(), "could not be moved") {
			t.Errorf("expected the message to flag the added video, got %q", err)
		}
	})
}
