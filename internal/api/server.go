package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tgstories/telegram-stories-bot/internal/admingate"
	"github.com/tgstories/telegram-stories-bot/internal/mediaingest"
	"github.com/tgstories/telegram-stories-bot/internal/mediastore"
	"github.com/tgstories/telegram-stories-bot/internal/ratelimit"
	"github.com/tgstories/telegram-stories-bot/internal/reactionlog"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
	"github.com/tgstories/telegram-stories-bot/internal/viewtracker"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

const (
	capabilityHeader = "X-Capability-Token"
	verifyTimeout    = 30 * time.Second
	maxUploadBytes   = 64 << 20
)

type Opts struct {
	fx.In

	Gate      admingate.Gate
	Ingestor  mediaingest.Ingestor
	Store     storystore.Store
	Tracker   viewtracker.Tracker
	Reactions reactionlog.Log
	Media     mediastore.Store
	Logger    logger.Logger
}

type Server struct {
	gate      admingate.Gate
	ingestor  mediaingest.Ingestor
	store     storystore.Store
	tracker   viewtracker.Tracker
	reactions reactionlog.Log
	media     mediastore.Store
	limiter   ratelimit.Limiter
	logger    logger.Logger
}

func New(opts Opts) *Server {
	return &Server{
		gate:      opts.Gate,
		ingestor:  opts.Ingestor,
		store:     opts.Store,
		tracker:   opts.Tracker,
		reactions: opts.Reactions,
		media:     opts.Media,
		limiter:   ratelimit.NewInMemoryLimiter(1, time.Second, 5),
		logger:    opts.Logger.WithComponent("API"),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/media/{id}", s.handleMedia)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.viewerCookie)

		r.Post("/admin/verify", s.handleVerify)

		r.Route("/stories", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleUpload)
			r.Get("/{id}", s.handleGet)
			r.Post("/{id}/view", s.handleView)
			r.With(s.rateLimited).Post("/{id}/like", s.handleLike)
			r.With(s.rateLimited).Post("/{id}/comments", s.handleComment)
		})
	})

	return r
}
