package mediaingestimpl

import (
	"context"
	"strings"
	"time"

	"github.com/tgstories/telegram-stories-bot/internal/admingate"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/mediaingest"
	"github.com/tgstories/telegram-stories-bot/internal/mediastore"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/pkg/config"
	"github.com/tgstories/telegram-stories-bot/pkg/errors"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

const probeTimeout = 60 * time.Second

type Opts struct {
	fx.In

	Gate   admingate.Gate
	Store  storystore.Store
	Media  mediastore.Store
	Prober mediaingest.Prober
	Config *config.Config
	Logger logger.Logger
}

type IngestorImpl struct {
	gate   admingate.Gate
	store  storystore.Store
	media  mediastore.Store
	prober mediaingest.Prober
	config *config.Config
	logger logger.Logger
}

func New(opts Opts) *IngestorImpl {
	return &IngestorImpl{
		gate:   opts.Gate,
		store:  opts.Store,
		media:  opts.Media,
		prober: opts.Prober,
		config: opts.Config,
		logger: opts.Logger.WithComponent("MediaIngest"),
	}
}

var _ mediaingest.Ingestor = (*IngestorImpl)(nil)

func (i *IngestorImpl) Ingest(ctx context.Context, c domain.Capability, asset domain.RawAsset) (*domain.Story, error) {
	if !i.gate.Validate(c) {
		return nil, mediaingest.ErrUnauthorized
	}

	if asset.Empty() {
		return nil, mediaingest.ErrNoFileSelected
	}

	kind, err := classify(asset.ContentType)
	if err != nil {
		i.logger.Info("Upload rejected", "name", asset.Name, "contentType", asset.ContentType)
		return nil, err
	}

	story := &domain.Story{Media: domain.MediaRef{Kind: kind}}

	if kind == domain.MediaKindVideo {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		dur, err := i.prober.Duration(probeCtx, asset)
		if err != nil {
			i.logger.Error("Video probe failed", "name", asset.Name, "error", err)
			return nil, errors.Wrap(err, "failed to probe video duration")
		}

		seconds := dur.Seconds()
		if seconds > i.config.Stories.MaxVideoSeconds {
			i.logger.Info("Trimming video to playback cap",
				"name", asset.Name,
				"probedSeconds", seconds,
				"capSeconds", i.config.Stories.MaxVideoSeconds)
			seconds = i.config.Stories.MaxVideoSeconds
		}
		story.DurationSeconds = seconds
	}

	// The blob is stored only after every check has passed, so a
	// rejected upload never leaves an orphaned handle behind.
	story.Media.Handle = i.media.Put(asset)

	admitted := i.store.Admit(story)
	i.logger.Info("Story ingested",
		"id", admitted.ID,
		"kind", kind,
		"durationSeconds", admitted.DurationSeconds)
	return admitted, nil
}

func classify(contentType string) (domain.MediaKind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.MediaKindImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return domain.MediaKindVideo, nil
	default:
		return "", mediaingest.ErrUnsupportedType
	}
}
