package admingateimpl

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tgstories/telegram-stories-bot/internal/admingate"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/telegram"
	"github.com/tgstories/telegram-stories-bot/pkg/logger"
	"go.uber.org/fx"
)

const statusAdministrator = "administrator"

type Opts struct {
	fx.In

	Telegram telegram.Client
	Logger   logger.Logger
}

type GateImpl struct {
	telegram telegram.Client
	logger   logger.Logger

	mu     sync.Mutex
	issued map[string]struct{}
}

func New(opts Opts) *GateImpl {
	return &GateImpl{
		telegram: opts.Telegram,
		logger:   opts.Logger.WithComponent("AdminGate"),
		issued:   make(map[string]struct{}),
	}
}

var _ admingate.Gate = (*GateImpl)(nil)

func (g *GateImpl) RequestCapability(ctx context.Context, userID int64) (domain.Capability, error) {
	status, err := g.telegram.GetChatMemberStatus(ctx, userID)
	if err != nil {
		// Fail closed: the caller only ever learns "denied".
		g.logger.Error("Admin check failed", "userID", userID, "error", err)
		return domain.Capability{}, admingate.ErrDenied
	}

	if status != statusAdministrator {
		g.logger.Info("Admin capability denied", "userID", userID, "status", status)
		return domain.Capability{}, admingate.ErrDenied
	}

	capability := domain.Capability{Token: uuid.NewString()}

	g.mu.Lock()
	g.issued[capability.Token] = struct{}{}
	g.mu.Unlock()

	g.logger.Info("Admin capability granted", "userID", userID)
	return capability, nil
}

func (g *GateImpl) Validate(c domain.Capability) bool {
	if !c.Valid() {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.issued[c.Token]
	return ok
}
