// Package app wires the session and gamification cores from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/core/events"
	"github.com/frahmantamala/performance-dashboard/internal/gamification"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	identityPostgres "github.com/frahmantamala/performance-dashboard/internal/identity/postgres"
	"github.com/frahmantamala/performance-dashboard/internal/session"
	"github.com/frahmantamala/performance-dashboard/internal/storage/database"
	"github.com/frahmantamala/performance-dashboard/internal/storage/kv"
	"github.com/frahmantamala/performance-dashboard/internal/transport/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// App owns one session and the services around it. The view layer holds an
// App and calls into it; nothing here is process-global.
type App struct {
	Config       *internal.Config
	Logger       *slog.Logger
	Events       *events.EventBus
	Identities   identity.Store
	Session      *session.Manager
	Gamification *gamification.Service
	Guard        *middleware.Guard

	db    *sqlx.DB
	redis *redis.Client
}

func New(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	engine, err := gamification.NewEngineFromConfig(cfg.Gamification)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			logger.Error("gamification config rejected", "code", appErr.Code, "details", appErr.GetDetailedMessage())
		}
		return nil, fmt.Errorf("invalid gamification config: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Events: events.NewEventBus(logger),
	}
	a.subscribeAudit()

	if cfg.NeedsDatabase() {
		if err := a.openDatabase(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	if err := a.buildIdentities(ctx); err != nil {
		a.Close()
		return nil, err
	}

	sessions, err := a.buildSessionStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	verifier, err := buildVerifier(cfg.Session)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Session = session.NewManager(a.Identities, verifier, sessions,
		session.WithLatency(cfg.Session.Latency),
		session.WithStorageKey(cfg.Session.StorageKey),
		session.WithLogger(logger),
		session.WithEventBus(a.Events),
	)
	a.Gamification = gamification.NewService(a.Identities, engine, a.Events, logger)
	a.Guard = middleware.NewGuard(a.Session, logger)

	if err := a.Session.Restore(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return a, nil
}

func (a *App) openDatabase(ctx context.Context) error {
	conn, err := database.Open(a.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.db = conn

	if a.Config.Database.AutoMigrate {
		if err := database.Migrate(ctx, conn.DB, a.Config.Database.Driver, "up", ""); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

func (a *App) buildIdentities(ctx context.Context) error {
	switch a.Config.Identity.Store {
	case internal.IdentityStoreDatabase:
		gdb, err := database.Gorm(a.db.DB, a.Config.Database.Driver)
		if err != nil {
			return err
		}
		a.Identities = identityPostgres.NewIdentityRepository(gdb)
	default:
		a.Identities = identity.NewMemoryStore()
	}

	if a.Config.Identity.SeedDemo {
		created, err := identity.Seed(ctx, a.Identities, identity.DemoIdentities())
		if err != nil {
			return fmt.Errorf("failed to seed demo identities: %w", err)
		}
		a.Logger.Debug("demo identities seeded", "created", created)
	}
	return nil
}

func (a *App) buildSessionStore(ctx context.Context) (kv.Store, error) {
	switch a.Config.Session.Store {
	case internal.SessionStoreSQL:
		return kv.NewSQLStore(a.db), nil
	case internal.SessionStoreRedis:
		a.redis = kv.NewRedisClient(a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
		pingCtx, cancel := internal.WithTimeout(ctx, 0)
		defer cancel()
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		return kv.NewRedisStore(a.redis, "dashboard:"), nil
	default:
		return kv.NewMemoryStore(), nil
	}
}

func buildVerifier(cfg internal.SessionConfig) (session.CredentialVerifier, error) {
	if cfg.Verifier == internal.VerifierBcrypt {
		v, err := session.NewBcryptVerifier(cfg.DemoPassword, cfg.BCryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to build bcrypt verifier: %w", err)
		}
		return v, nil
	}
	return session.NewSharedSecretVerifier(cfg.DemoPassword), nil
}

func (a *App) subscribeAudit() {
	audit := func(_ context.Context, e events.Event) error {
		a.Logger.Debug("domain event", "event_type", e.EventType(), "event_id", e.EventID())
		return nil
	}
	for _, t := range []string{
		events.EventTypeIdentityRegistered,
		events.EventTypeIdentityLoggedIn,
		events.EventTypeIdentityLoggedOut,
		events.EventTypeXPAwarded,
		events.EventTypeLevelUp,
	} {
		a.Events.Subscribe(t, audit)
	}
}

// RecordAction awards XP for action to the session identity and keeps the
// persisted session in step.
func (a *App) RecordAction(ctx context.Context, action gamification.Action) (*gamification.Award, error) {
	current, ok := a.Session.Current()
	if !ok {
		return nil, internal.ErrNoSession
	}

	award, err := a.Gamification.RecordAction(ctx, current.ID, action)
	if err != nil {
		return nil, err
	}
	a.Session.Refresh(ctx, award.Identity)
	return award, nil
}

// Progress describes the session identity's progress towards its next level.
func (a *App) Progress(ctx context.Context) (*gamification.Progress, error) {
	current, ok := a.Session.Current()
	if !ok {
		return nil, internal.ErrNoSession
	}
	return a.Gamification.Progress(ctx, current.ID)
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	return errors.Join(errs...)
}
