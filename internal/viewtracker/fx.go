package viewtracker

import (
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			func(store storystore.Store) *InMemoryTracker {
				return NewInMemoryTracker(store)
			},
			fx.As(new(Tracker)),
		),
	),
)
