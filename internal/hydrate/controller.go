package hydrate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

// Fetcher loads a dataset. *Client is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context) (*domain.Dataset, error)
}

// Dispatcher is the subset of *dispatch.Store the controller drives.
type Dispatcher interface {
	Dispatch(ctx context.Context, a reducer.Action) (dispatch.Result, error)
	State() *domain.State
}

// Controller runs dataset fetches and reports their outcome to the store.
// Fetches are never cancelled by a retry; each completion is dispatched in
// arrival order and the last one wins.
type Controller struct {
	store   Dispatcher
	fetcher Fetcher
	timeout time.Duration
	logger  zerolog.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewController(store Dispatcher, fetcher Fetcher, timeout time.Duration, logger zerolog.Logger) *Controller {
	return &Controller{store: store, fetcher: fetcher, timeout: timeout, logger: logger}
}

// EnsureHydrated starts a fetch only if none has been attempted yet. It
// reports whether a fetch was started.
func (c *Controller) EnsureHydrated(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store.State().UI.HydrationStatus != domain.HydrationIdle {
		return false
	}
	return c.start(ctx) == nil
}

// Retry starts a fetch regardless of the current status and returns its
// request id.
func (c *Controller) Retry(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requestID := uuid.NewString()
	if err := c.startWithID(ctx, requestID); err != nil {
		return "", err
	}
	return requestID, nil
}

// Wait blocks until every started fetch has reported back.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) start(ctx context.Context) error {
	return c.startWithID(ctx, uuid.NewString())
}

func (c *Controller) startWithID(ctx context.Context, requestID string) error {
	if _, err := c.store.Dispatch(ctx, reducer.HydrationPending{RequestID: requestID}); err != nil {
		return err
	}

	// The fetch outlives the caller's request but not the timeout.
	base := context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(base, requestID)
	}()
	return nil
}

func (c *Controller) run(ctx context.Context, requestID string) {
	fetchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var action reducer.Action
	ds, err := c.fetcher.Fetch(fetchCtx)
	if err != nil {
		c.logger.Warn().Err(err).Str("request_id", requestID).Msg("dataset fetch failed")
		action = reducer.HydrationRejected{RequestID: requestID, Error: err.Error()}
	} else {
		c.logger.Info().Str("request_id", requestID).Int("boards", len(ds.Boards)).Msg("dataset fetched")
		action = reducer.HydrationFulfilled{RequestID: requestID, Dataset: ds}
	}

	if _, err := c.store.Dispatch(ctx, action); err != nil {
		if errors.Is(err, dispatch.ErrClosed) {
			c.logger.Debug().Str("request_id", requestID).Msg("store closed before hydration completed")
			return
		}
		c.logger.Warn().Err(err).Str("request_id", requestID).Msg("dispatch hydration result")
	}
}
