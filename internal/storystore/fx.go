package storystore

import (
	"github.com/jonboulle/clockwork"
	"github.com/tgstories/telegram-stories-bot/pkg/config"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			func(cfg *config.Config, clock clockwork.Clock, log logger.Logger) *Memory {
				return NewMemory(cfg.Stories.TTL, clock, log)
			},
			fx.As(new(Store)),
		),
	),
)
