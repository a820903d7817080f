package mediaingest

import (
	"context"
	"errors"
	"time"

	"github.com/tgstories/telegram-stories-bot/internal/domain"
)

var (
	ErrUnauthorized    = errors.New("upload requires an admin capability")
	ErrNoFileSelected  = errors.New("no file selected")
	ErrUnsupportedType = errors.New("unsupported media type")
)

// Prober reports the true duration of a motion-media asset. Probing
// may take a while; implementations honor the context deadline.
type Prober interface {
	Duration(ctx context.Context, asset domain.RawAsset) (time.Duration, error)
}

type Ingestor interface {
	// Ingest validates, classifies and admits an upload as a story.
	// A video story is admitted only after its duration probe has
	// resolved and the duration has been trimmed to the cap; a failed
	// probe admits nothing. There is no partial admission.
	Ingest(ctx context.Context, c domain.Capability, asset domain.RawAsset) (*domain.Story, error)
}
