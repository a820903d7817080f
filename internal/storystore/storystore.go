package storystore

import (
	"errors"
	"time"

	"github.com/tgstories/telegram-stories-bot/internal/domain"
)

var ErrNotFound = errors.New("story not found")

//go:generate go run go.uber.org/mock/mockgen -source=storystore.go -destination=mocks/mock.go

// Store is the authoritative collection of live stories. Admit is the
// only way in and EvictExpired the only way out; view, like and
// comment mutations go through Mutate so every update is a
// whole-record replacement.
type Store interface {
	// Admit assigns a collision-free id and the admission timestamp,
	// zeroes the counters and inserts the story. The returned record
	// is a copy.
	Admit(story *domain.Story) *domain.Story

	Get(id int64) (*domain.Story, error)

	// All returns the live stories in insertion order.
	All() []*domain.Story

	// Mutate applies fn to a copy of the story and swaps the whole
	// record back in. An absent id is a no-op returning ErrNotFound.
	// Immutable fields set at admission cannot be changed by fn.
	Mutate(id int64, fn func(*domain.Story)) (*domain.Story, error)

	// EvictExpired removes every story older than the retention window
	// as of now and releases its media handle. It reports the number
	// of stories evicted.
	EvictExpired(now time.Time) int
}
