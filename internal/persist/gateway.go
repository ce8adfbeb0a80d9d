package persist

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/domain"
)

// Gateway loads and saves the store state under a single key. Failures are
// logged and never returned to the caller.
type Gateway struct {
	storage Storage
	key     string
	logger  zerolog.Logger
}

// NewGateway returns a gateway writing to key. An empty key uses DefaultKey.
func NewGateway(storage Storage, key string, logger zerolog.Logger) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	return &Gateway{storage: storage, key: key, logger: logger}
}

func (g *Gateway) Key() string { return g.key }

// Load reads the stored state. It reports false when nothing usable is
// stored. A persisted in-flight fetch cannot survive a restart, so a loading
// status comes back as idle.
func (g *Gateway) Load(ctx context.Context) (*domain.State, bool) {
	data, err := g.storage.Get(ctx, g.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.logger.Warn().Err(err).Str("key", g.key).Msg("read persisted state")
		}
		return nil, false
	}

	s, err := Decode(data)
	if err != nil {
		g.logger.Warn().Err(err).Str("key", g.key).Msg("discard persisted state")
		return nil, false
	}
	if s.UI.HydrationStatus == domain.HydrationLoading {
		s.UI.HydrationStatus = domain.HydrationIdle
	}
	return s, true
}

// LoadOrSeed returns the stored state, or seed() when none is usable.
func (g *Gateway) LoadOrSeed(ctx context.Context, seed func() *domain.State) *domain.State {
	if s, ok := g.Load(ctx); ok {
		return s
	}
	g.logger.Debug().Str("key", g.key).Msg("no persisted state, using seed")
	return seed()
}

// Save writes s. Errors are logged at warn level and swallowed.
func (g *Gateway) Save(ctx context.Context, s *domain.State) {
	data, err := Encode(s)
	if err != nil {
		g.logger.Warn().Err(err).Msg("encode state")
		return
	}
	if err := g.storage.Set(ctx, g.key, data); err != nil {
		g.logger.Warn().Err(err).Str("key", g.key).Msg("persist state")
	}
}

// Listener saves every state change published by a dispatch store.
func (g *Gateway) Listener(ctx context.Context) dispatch.Listener {
	return func(r dispatch.Result) {
		if !r.Changed {
			return
		}
		g.Save(ctx, r.Next)
	}
}
