// Package sweeper evicts stories past their retention window on a
// fixed interval. The interval is a staleness bound, not a hard
// deadline: a story may stay visible up to one interval past its
// nominal expiry.
package sweeper

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/pkg/config"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Store  storystore.Store
	Clock  clockwork.Clock
	Config *config.Config
	Logger logger.Logger
}

type Sweeper struct {
	store    storystore.Store
	clock    clockwork.Clock
	interval time.Duration
	logger   logger.Logger

	scheduler gocron.Scheduler
}

func New(opts Opts) *Sweeper {
	return &Sweeper{
		store:    opts.Store,
		clock:    opts.Clock,
		interval: opts.Config.Stories.SweepInterval,
		logger:   opts.Logger.WithComponent("ExpirySweeper"),
	}
}

// Start schedules the recurring eviction pass.
func (s *Sweeper) Start() error {
	scheduler, err := gocron.NewScheduler(gocron.WithClock(s.clock))
	if err != nil {
		return fmt.Errorf("failed to create sweep scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.Sweep),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler
	s.logger.Info("Expiry sweeper started", "interval", s.interval.String())
	return nil
}

// Sweep runs one eviction pass. It never fails outward; an empty
// store is a no-op pass.
func (s *Sweeper) Sweep() {
	evicted := s.store.EvictExpired(s.clock.Now())
	if evicted > 0 {
		s.logger.Info("Expired stories evicted", "count", evicted)
	}
}

func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}
