package cli

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/gosuda/kanban/internal/api/ws"
	"github.com/gosuda/kanban/internal/config"
	"github.com/gosuda/kanban/internal/persist"
	filestore "github.com/gosuda/kanban/internal/store/file"
	"github.com/gosuda/kanban/internal/store/postgres"
	redisstore "github.com/gosuda/kanban/internal/store/redis"
	"github.com/gosuda/kanban/internal/store/sqlite"
)

const sqliteFile = "kanban.db"

// backends owns the connections opened for one command run.
type backends struct {
	storage persist.Storage
	broker  ws.Broker
	redis   *redisstore.Client
}

func (b *backends) Close() {
	if b.storage != nil {
		_ = b.storage.Close()
	}
	// The redis client may back both storage and broker.
	if b.redis != nil && persist.Storage(b.redis) != b.storage {
		_ = b.redis.Close()
	}
}

func (b *backends) redisClient(ctx context.Context, cfg *config.Config) (*redisstore.Client, error) {
	if b.redis != nil {
		return b.redis, nil
	}
	client, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	b.redis = client
	return client, nil
}

// openStorage connects the configured persistence backend.
func openStorage(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		b.storage = persist.NewMemoryStorage()
	case config.BackendFile:
		s, err := filestore.New(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		b.storage = s
	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, filepath.Join(cfg.Storage.Dir, sqliteFile))
		if err != nil {
			return nil, err
		}
		b.storage = s
	case config.BackendPostgres:
		if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
			return nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}
		s, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
		if err != nil {
			return nil, err
		}
		b.storage = s
	case config.BackendRedis:
		client, err := b.redisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.storage = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return b, nil
}

// openBroker selects the event broker for the WebSocket feed.
func (b *backends) openBroker(ctx context.Context, cfg *config.Config) error {
	if cfg.PubSub != config.PubSubRedis {
		b.broker = ws.NewLocalBroker()
		return nil
	}
	client, err := b.redisClient(ctx, cfg)
	if err != nil {
		return err
	}
	b.broker = client
	return nil
}
