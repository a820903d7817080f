package mediastore

import (
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			func(log logger.Logger) *Memory {
				return NewMemory(log)
			},
			fx.As(new(Store)),
		),
	),
)
