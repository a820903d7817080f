package reactionlogimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/reactionlog"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/internal/telegram"
	"github.com/tgstories/telegram-stories-bot/pkg/formatter"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

const (
	relayWorkers = 4
	relayTimeout = 30 * time.Second
)

type Opts struct {
	fx.In

	LC       fx.Lifecycle
	Store    storystore.Store
	Telegram telegram.Client
	Logger   logger.Logger
}

type LogImpl struct {
	store    storystore.Store
	telegram telegram.Client
	logger   logger.Logger
	relay    *ants.Pool
}

func New(opts Opts) (*LogImpl, error) {
	// Non-blocking pool: a saturated relay drops the notification
	// instead of stalling the comment path.
	pool, err := ants.NewPool(relayWorkers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create relay pool: %w", err)
	}

	l := &LogImpl{
		store:    opts.Store,
		telegram: opts.Telegram,
		logger:   opts.Logger.WithComponent("ReactionLog"),
		relay:    pool,
	}

	opts.LC.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Release()
			return nil
		},
	})

	return l, nil
}

var _ reactionlog.Log = (*LogImpl)(nil)

func (l *LogImpl) Like(storyID int64) (int, error) {
	updated, err := l.store.Mutate(storyID, func(s *domain.Story) {
		s.Likes++
	})
	if err != nil {
		return 0, err
	}
	return updated.Likes, nil
}

func (l *LogImpl) Comment(storyID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return reactionlog.ErrEmptyComment
	}

	updated, err := l.store.Mutate(storyID, func(s *domain.Story) {
		s.Comments = append(s.Comments, text)
	})
	if err != nil {
		return err
	}

	l.relayToModerator(updated, text)
	return nil
}

// relayToModerator forwards the comment on a background worker. The
// comment is already appended by the time this runs, so no outcome
// here can make it look lost to the submitter.
func (l *LogImpl) relayToModerator(story *domain.Story, text string) {
	header := fmt.Sprintf("New comment on story %d (%s views, %s likes):",
		story.ID,
		formatter.FormatNumber(story.Views),
		formatter.FormatNumber(story.Likes),
	)
	msg := formatter.EscapeMarkdownV2(header) + "\n" + formatter.EscapeMarkdownV2(text)

	err := l.relay.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
		defer cancel()

		if err := l.telegram.NotifyModerator(ctx, msg); err != nil {
			l.logger.Error("Moderator relay failed", "storyID", story.ID, "error", err)
		}
	})
	if err != nil {
		l.logger.Warn("Moderator relay dropped", "storyID", story.ID, "error", err)
	}
}
