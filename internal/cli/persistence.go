package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/quiztree/internal/config"
	"github.com/aretw0/quiztree/pkg/adapters/file"
	"github.com/aretw0/quiztree/pkg/adapters/memory"
	redisstore "github.com/aretw0/quiztree/pkg/adapters/redis"
	"github.com/aretw0/quiztree/pkg/ports"
	"github.com/aretw0/quiztree/pkg/session"
	"github.com/redis/go-redis/v9"
)

// Persistence bundles the store selected by the configuration with the
// session manager guarding it.
type Persistence struct {
	Store    ports.StateStore
	Sessions *session.Manager
	close    func() error
}

// Close releases backend connections.
func (p *Persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// SetupPersistence initializes the state store and session manager for the
// configured backend. Redis also provides the distributed session lock.
func SetupPersistence(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Persistence, error) {
	mgrOpts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.LockTTL()),
	}

	switch cfg.Session.Store {
	case config.StoreFile:
		store := file.New(cfg.Session.Dir)
		return &Persistence{Store: store, Sessions: session.NewManager(store, mgrOpts...)}, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		store := redisstore.NewFromClient(client,
			redisstore.WithPrefix(cfg.Redis.Prefix),
			redisstore.WithTTL(cfg.RedisTTL()),
		)
		locker := redisstore.NewLocker(client, cfg.Redis.Prefix+"lock:")
		mgrOpts = append(mgrOpts, session.WithLocker(locker))
		logger.Debug("using redis session store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return &Persistence{Store: store, Sessions: session.NewManager(store, mgrOpts...), close: client.Close}, nil

	default:
		store := memory.NewStore()
		return &Persistence{Store: store, Sessions: session.NewManager(store, mgrOpts...)}, nil
	}
}

// ResetSession clears the session data for the given ID.
func ResetSession(ctx context.Context, cfg config.Config, sessionID string) error {
	p, err := SetupPersistence(ctx, runStoreConfig(cfg, sessionID), nopLogger())
	if err != nil {
		return err
	}
	defer p.Close()
	return p.Store.Delete(ctx, sessionID)
}

// runStoreConfig picks the store of an interactive run. Named sessions must
// survive the process, so the in-memory default is upgraded to files.
func runStoreConfig(cfg config.Config, sessionID string) config.Config {
	if sessionID != "" && cfg.Session.Store == config.StoreMemory {
		cfg.Session.Store = config.StoreFile
	}
	return cfg
}
