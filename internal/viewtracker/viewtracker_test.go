package viewtracker

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
)

func setup(t *testing.T) (*InMemoryTracker, *storystore.Memory, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := storystore.NewMemory(24*time.Hour, clock, logger.New(logger.Opts{}))
	return NewInMemoryTracker(store), store, clock
}

func TestRecordViewIsIdempotentPerViewer(t *testing.T) {
	tracker, store, _ := setup(t)
	story := store.Admit(&domain.Story{Media: domain.MediaRef{Kind: domain.MediaKindImage}})

	for i := 0; i < 5; i++ {
		views, err := tracker.RecordView("viewer-a", story.ID)
		if err != nil {
			t.Fatalf("RecordView: %v", err)
		}
		if views != 1 {
			t.Fatalf("call %d: expected 1 view, got %d", i+1, views)
		}
	}

	if !tracker.Seen("viewer-a", story.ID) {
		t.Fatal("expected story marked seen for viewer-a")
	}
}

func TestRecordViewCountsDistinctViewers(t *testing.T) {
	tracker, store, _ := setup(t)
	story := store.Admit(&domain.Story{Media: domain.MediaRef{Kind: domain.MediaKindImage}})

	if _, err := tracker.RecordView("viewer-a", story.ID); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	views, err := tracker.RecordView("viewer-b", story.ID)
	if err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if views != 2 {
		t.Fatalf("expected 2 views, got %d", views)
	}
}

func TestRecordViewOnEvictedStoryIsNoOp(t *testing.T) {
	tracker, store, clock := setup(t)
	story := store.Admit(&domain.Story{Media: domain.MediaRef{Kind: domain.MediaKindImage}})

	clock.Advance(24*time.Hour + time.Minute)
	store.EvictExpired(clock.Now())

	if _, err := tracker.RecordView("viewer-a", story.ID); !errors.Is(err, storystore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Neither side of the pair happened.
	if tracker.Seen("viewer-a", story.ID) {
		t.Fatal("viewed set polluted by a failed record")
	}
}

func TestStaleViewedIDsAreHarmless(t *testing.T) {
	tracker, store, clock := setup(t)
	story := store.Admit(&domain.Story{Media: domain.MediaRef{Kind: domain.MediaKindImage}})

	if _, err := tracker.RecordView("viewer-a", story.ID); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	clock.Advance(24*time.Hour + time.Minute)
	store.EvictExpired(clock.Now())

	// The stale id stays in the set; further records of it are no-ops.
	if _, err := tracker.RecordView("viewer-a", story.ID); !errors.Is(err, storystore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
