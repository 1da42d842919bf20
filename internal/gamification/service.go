package gamification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/core/events"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
)

// Award is the outcome of one recorded action.
type Award struct {
	Identity     *identity.Identity
	Action       Action
	Amount       int
	LevelsGained int
}

type Progress struct {
	IdentityID string  `json:"id"`
	Level      int     `json:"level"`
	XP         int     `json:"xp"`
	Required   int     `json:"required"`
	Percent    float64 `json:"percent"`
	BadgeCount int     `json:"badges"`
}

// Service applies the engine to identities held in a store.
type Service struct {
	store  identity.Store
	engine *Engine
	bus    *events.EventBus
	logger *slog.Logger

	mu sync.Mutex
}

func NewService(store identity.Store, engine *Engine, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		engine: engine,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) Engine() *Engine {
	return s.engine
}

// RecordAction awards the XP configured for action to the identity and saves
// the result.
func (s *Service) RecordAction(ctx context.Context, identityID string, action Action) (*Award, error) {
	if _, ok := s.engine.RewardFor(action); !ok {
		return nil, internal.ErrUnknownAction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.FindByID(ctx, identityID)
	if err != nil {
		s.logger.Error("identity lookup failed", "identity_id", identityID, "error", err)
		return nil, internal.NewInternalError("Failed to look up identity", err)
	}
	if id == nil {
		return nil, internal.ErrIdentityNotFound
	}

	fromLevel := id.Level
	amount, gained, _ := s.engine.AwardAction(id, action)

	if err := s.store.Update(ctx, id); err != nil {
		s.logger.Error("failed to save progression", "identity_id", identityID, "error", err)
		return nil, internal.NewInternalError("Failed to save progression", err)
	}

	s.logger.Info("xp awarded",
		"identity_id", id.ID,
		"action", action,
		"amount", amount,
		"xp", id.XP,
		"level", id.Level)
	s.publish(ctx, events.NewXPAwardedEvent(id.ID, string(action), amount, id.XP, id.Level))

	if gained > 0 {
		s.logger.Info("level up", "identity_id", id.ID, "from", fromLevel, "to", id.Level)
		s.publish(ctx, events.NewLevelUpEvent(id.ID, fromLevel, id.Level))
	}

	return &Award{
		Identity:     id,
		Action:       action,
		Amount:       amount,
		LevelsGained: gained,
	}, nil
}

func (s *Service) Leaderboard(ctx context.Context, q LeaderboardQuery) ([]LeaderboardEntry, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("Failed to list identities", err)
	}
	return s.engine.RankLeaderboard(ids, q), nil
}

func (s *Service) Progress(ctx context.Context, identityID string) (*Progress, error) {
	id, err := s.store.FindByID(ctx, identityID)
	if err != nil {
		return nil, internal.NewInternalError("Failed to look up identity", err)
	}
	if id == nil {
		return nil, internal.ErrIdentityNotFound
	}

	return &Progress{
		IdentityID: id.ID,
		Level:      id.Level,
		XP:         id.XP,
		Required:   s.engine.XPRequiredForLevel(id.Level),
		Percent:    s.engine.LevelProgressPercent(id.XP, id.Level),
		BadgeCount: s.engine.BadgeCount(id),
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.logger.Error("progression event handler failed", "event_type", event.EventType(), "error", err)
	}
}
