package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/tgstories/telegram-stories-bot/internal/admingate"
	"github.com/tgstories/telegram-stories-bot/internal/admingate/admingateimpl"
	"github.com/tgstories/telegram-stories-bot/internal/api"
	"github.com/tgstories/telegram-stories-bot/internal/mediaingest"
	"github.com/tgstories/telegram-stories-bot/internal/mediaingest/mediaingestimpl"
	"github.com/tgstories/telegram-stories-bot/internal/mediastore"
	"github.com/tgstories/telegram-stories-bot/internal/reactionlog"
	"github.com/tgstories/telegram-stories-bot/internal/reactionlog/reactionlogimpl"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/internal/sweeper"
	"github.com/tgstories/telegram-stories-bot/internal/telegram"
	"github.com/tgstories/telegram-stories-bot/internal/telegram/telegramimpl"
	"github.com/tgstories/telegram-stories-bot/internal/viewtracker"
	"github.com/tgstories/telegram-stories-bot/pkg/config"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		func() clockwork.Clock { return clockwork.NewRealClock() },
	),
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			admingateimpl.New,
			fx.As(new(admingate.Gate)),
		),
		fx.Annotate(
			func(cfg *config.Config, log logger.Logger) *mediaingestimpl.FFProbe {
				return mediaingestimpl.NewFFProbe(cfg.Ffprobe.Path, log)
			},
			fx.As(new(mediaingest.Prober)),
		),
		fx.Annotate(
			mediaingestimpl.New,
			fx.As(new(mediaingest.Ingestor)),
		),
		fx.Annotate(
			reactionlogimpl.New,
			fx.As(new(reactionlog.Log)),
		),
	),
	storystore.Module,
	mediastore.Module,
	viewtracker.Module,
	fx.Provide(
		sweeper.New,
		api.New,
	),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, server *api.Server, sw *sweeper.Sweeper) {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: server.Routes(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := sw.Start(); err != nil {
				return err
			}

			go func() {
				log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed to start", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := sw.Stop(); err != nil {
				log.Error("Failed to stop sweeper", "error", err)
			}
			return httpServer.Shutdown(ctx)
		},
	})
}
