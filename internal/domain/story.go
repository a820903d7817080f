package domain

import "time"

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaHandle is a disposable reference to the binary asset backing a
// story. The story owns it for its whole lifetime; the store releases
// it when the story is evicted.
type MediaHandle interface {
	URL() string
	Close() error
}

type MediaRef struct {
	Handle MediaHandle
	Kind   MediaKind
}

// Story is an ephemeral media post with a bounded visibility window.
type Story struct {
	ID        int64
	Media     MediaRef
	CreatedAt time.Time
	// DurationSeconds is set only for video stories and never exceeds
	// the configured playback cap once admitted.
	DurationSeconds float64
	Views           int
	Likes           int
	Comments        []string
}

// Clone returns a deep enough copy that callers can never alias the
// canonical record: the comments slice is copied, the media handle is
// shared on purpose.
func (s *Story) Clone() *Story {
	c := *s
	c.Comments = append([]string(nil), s.Comments...)
	return &c
}
