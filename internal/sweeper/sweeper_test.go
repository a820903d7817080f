package sweeper

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/pkg/config"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
)

func newTestSweeper(t *testing.T) (*Sweeper, *storystore.Memory, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	log := logger.New(logger.Opts{})
	store := storystore.NewMemory(24*time.Hour, clock, log)

	cfg := &config.Config{}
	cfg.Stories.TTL = 24 * time.Hour
	cfg.Stories.SweepInterval = time.Minute

	return New(Opts{
		Store:  store,
		Clock:  clock,
		Config: cfg,
		Logger: log,
	}), store, clock
}

func TestSweepEvictsExpiredStories(t *testing.T) {
	sw, store, clock := newTestSweeper(t)

	store.Admit(&domain.Story{Media: domain.MediaRef{Kind: domain.MediaKindImage}})
	if got := len(store.All()); got != 1 {
		t.Fatalf("expected 1 story after admission, got %d", got)
	}

	clock.Advance(24*time.Hour + time.Minute)
	sw.Sweep()

	if got := len(store.All()); got != 0 {
		t.Fatalf("expected empty store after sweep, got %d stories", got)
	}
}

func TestSweepKeepsLiveStories(t *testing.T) {
	sw, store, clock := newTestSweeper(t)

	store.Admit(&domain.Story{Media: domain.MediaRef{Kind: domain.MediaKindImage}})
	clock.Advance(23 * time.Hour)
	sw.Sweep()

	if got := len(store.All()); got != 1 {
		t.Fatalf("expected live story to survive the sweep, got %d stories", got)
	}
}

func TestSweepEmptyStore(t *testing.T) {
	sw, _, _ := newTestSweeper(t)
	sw.Sweep() // must not panic or error
}

func TestStartStop(t *testing.T) {
	sw, _, _ := newTestSweeper(t)

	if err := sw.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sw.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	sw, _, _ := newTestSweeper(t)
	if err := sw.Stop(); err != nil {
		t.Fatalf("Stop without Start: %v", err)
	}
}
