// Package dispatch serializes every state transition through a single writer
// goroutine and fans the results out to listeners.
package dispatch

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

// ErrClosed is returned by Dispatch once the store has been closed.
var ErrClosed = errors.New("dispatch: store closed")

// Result describes one applied action.
type Result struct {
	Action  reducer.Action
	Prev    *domain.State
	Next    *domain.State
	Version uint64
	Changed bool
}

// Listener observes applied actions. Listeners run on the writer goroutine in
// dispatch order and must not call Dispatch synchronously.
type Listener func(Result)

type Option func(*Store)

// WithInvariantCheck validates the state after every change and logs
// violations at warn level.
func WithInvariantCheck(enabled bool) Option {
	return func(s *Store) { s.checkInvariants = enabled }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

type request struct {
	action reducer.Action
	reply  chan Result
}

// Store holds the current state. All writes go through Dispatch; reads are
// lock-free snapshots.
type Store struct {
	logger          zerolog.Logger
	checkInvariants bool

	state   atomic.Pointer[domain.State]
	version uint64 // owned by the writer goroutine

	requests chan request
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once

	mu        sync.Mutex
	listeners map[uint64]Listener
	nextID    uint64
}

// New starts a store seeded with initial. A nil initial state starts empty.
func New(initial *domain.State, opts ...Option) *Store {
	if initial == nil {
		initial = domain.NewState()
	}
	s := &Store{
		logger:    zerolog.Nop(),
		requests:  make(chan request),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(initial)

	go s.loop()
	return s
}

// State returns the latest published state. Callers must treat it as
// read-only.
func (s *Store) State() *domain.State {
	return s.state.Load()
}

// Dispatch applies a and waits for the result. A reducer no-op is reported
// through Result.Changed, not as an error. If ctx ends after the action was
// accepted, the action still applies.
func (s *Store) Dispatch(ctx context.Context, a reducer.Action) (Result, error) {
	req := request{action: a, reply: make(chan Result, 1)}

	select {
	case s.requests <- req:
	case <-s.done:
		return Result{}, ErrClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Close stops the writer goroutine. Dispatches that have not been accepted
// yet fail with ErrClosed. Close is idempotent.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *Store) loop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case req := <-s.requests:
			req.reply <- s.apply(req.action)
		}
	}
}

func (s *Store) apply(a reducer.Action) Result {
	prev := s.state.Load()
	next := reducer.Reduce(prev, a)
	res := Result{Action: a, Prev: prev, Next: next, Changed: next != prev}

	if res.Changed {
		s.version++
		s.state.Store(next)
		if s.checkInvariants {
			if err := reducer.CheckInvariants(next); err != nil {
				s.logger.Warn().Err(err).Str("action", actionType(a)).Msg("state invariant violated")
			}
		}
	} else {
		s.logger.Debug().Str("action", actionType(a)).Msg("action left state unchanged")
	}
	res.Version = s.version

	for _, l := range s.snapshotListeners() {
		l(res)
	}
	return res
}

func (s *Store) snapshotListeners() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Listener, 0, len(s.listeners))
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

func actionType(a reducer.Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.Type()
}
