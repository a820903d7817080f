package viewtracker

import (
	"sync"

	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
)

// Tracker counts a view at most once per viewer per story. Viewer
// identity is process-local; the viewed sets grow until the process
// exits and ids left behind by evicted stories are harmless.
type Tracker interface {
	// RecordView marks the story viewed by viewerID and returns the
	// story's current view count. Repeated calls for the same pair
	// change nothing and return the count unchanged. An evicted or
	// unknown story returns storystore.ErrNotFound.
	RecordView(viewerID string, storyID int64) (int, error)

	Seen(viewerID string, storyID int64) bool
}

type InMemoryTracker struct {
	mu     sync.Mutex
	store  storystore.Store
	viewed map[string]map[int64]struct{}
}

func NewInMemoryTracker(store storystore.Store) *InMemoryTracker {
	return &InMemoryTracker{
		store:  store,
		viewed: make(map[string]map[int64]struct{}),
	}
}

var _ Tracker = (*InMemoryTracker)(nil)

func (t *InMemoryTracker) RecordView(viewerID string, storyID int64) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.viewed[viewerID]
	if !ok {
		set = make(map[int64]struct{})
		t.viewed[viewerID] = set
	}

	if _, seen := set[storyID]; seen {
		story, err := t.store.Get(storyID)
		if err != nil {
			return 0, err
		}
		return story.Views, nil
	}

	updated, err := t.store.Mutate(storyID, func(s *domain.Story) {
		s.Views++
	})
	if err != nil {
		// Story already gone; leave the set untouched so the
		// increment and the set update stay atomic together.
		return 0, err
	}

	set[storyID] = struct{}{}
	return updated.Views, nil
}

func (t *InMemoryTracker) Seen(viewerID string, storyID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.viewed[viewerID][storyID]
	return ok
}
