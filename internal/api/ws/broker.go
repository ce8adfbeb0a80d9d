package ws

import (
	"context"
	"sync"

	redisstore "github.com/gosuda/kanban/internal/store/redis"
)

// Broker fans board events out to subscribers. *redisstore.Client is the
// cross-process implementation; LocalBroker serves a single process.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

var (
	_ Broker = (*LocalBroker)(nil)
	_ Broker = (*redisstore.Client)(nil)
)

const subscriberBuffer = 64

// LocalBroker is an in-process Broker. Slow subscribers miss messages rather
// than stall publishers.
type LocalBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan []byte
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[int]chan []byte)}
}

func (b *LocalBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(_ context.Context, channel string) (<-chan []byte, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan []byte, subscriberBuffer)
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]chan []byte)
	}
	b.subs[channel][id] = ch

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[channel], id)
			if len(b.subs[channel]) == 0 {
				delete(b.subs, channel)
			}
			close(ch)
		})
	}
	return ch, cleanup, nil
}

func (b *LocalBroker) subscriberCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[channel])
}
