package storystore

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
)

// Memory holds the canonical story records in process memory. Every
// operation is one critical section, so a mutation is never observable
// half-applied and an eviction racing a mutate resolves in lock order:
// the later mutate sees ErrNotFound, never a resurrected record.
type Memory struct {
	mu     sync.Mutex
	ttl    time.Duration
	clock  clockwork.Clock
	logger logger.Logger

	stories []*domain.Story
	index   map[int64]int
	lastID  int64
}

func NewMemory(ttl time.Duration, clock clockwork.Clock, log logger.Logger) *Memory {
	return &Memory{
		ttl:    ttl,
		clock:  clock,
		logger: log.WithComponent("StoryStore"),
		index:  make(map[int64]int),
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Admit(story *domain.Story) *domain.Story {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()

	// Ids derive from the admission time; bump on collision so two
	// admissions in the same millisecond stay distinct and ordered.
	id := now.UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id

	admitted := story.Clone()
	admitted.ID = id
	admitted.CreatedAt = now
	admitted.Views = 0
	admitted.Likes = 0
	admitted.Comments = nil

	m.stories = append(m.stories, admitted)
	m.index[id] = len(m.stories) - 1

	m.logger.Info("Story admitted", "id", id, "kind", admitted.Media.Kind)
	return admitted.Clone()
}

func (m *Memory) Get(id int64) (*domain.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.stories[pos].Clone(), nil
}

func (m *Memory) All() []*domain.Story {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Story, 0, len(m.stories))
	for _, st := range m.stories {
		out = append(out, st.Clone())
	}
	return out
}

func (m *Memory) Mutate(id int64, fn func(*domain.Story)) (*domain.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return nil, ErrNotFound
	}

	current := m.stories[pos]
	updated := current.Clone()
	fn(updated)

	// Fields fixed at admission do not drift through Mutate.
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.Media = current.Media
	updated.DurationSeconds = current.DurationSeconds

	m.stories[pos] = updated
	return updated.Clone(), nil
}

func (m *Memory) EvictExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	kept := m.stories[:0]
	for _, st := range m.stories {
		if now.Sub(st.CreatedAt) >= m.ttl {
			evicted++
			delete(m.index, st.ID)
			if st.Media.Handle != nil {
				if err := st.Media.Handle.Close(); err != nil {
					m.logger.Error("Failed to release media handle", "id", st.ID, "error", err)
				}
			}
			m.logger.Info("Story evicted", "id", st.ID, "age", now.Sub(st.CreatedAt).String())
			continue
		}
		kept = append(kept, st)
	}

	if evicted > 0 {
		for i, st := range kept {
			m.index[st.ID] = i
		}
	}
	m.stories = kept
	return evicted
}
