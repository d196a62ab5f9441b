package wmPubsub

import (
	"context"
	"log/slog"
	"sync"

	"assetview/pkg/types/pubsub"

	"github.com/pkg/errors"
)

var (
	_ pubsub.PubSub = (*PubSub)(nil)
)

var (
	ErrInvalidPubSubConfig = errors.New("invalid pubsub config")
	ErrClosed              = errors.New("pubsub closed")
)

// PubSub fans every published payload out to all current subscribers.
// Subscribers that fall behind lose messages rather than block publishers.
type PubSub struct {
	topic  string
	buffer int
	ctx    context.Context
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan []byte
	nextID int
	closed bool
}

type Option func(*PubSub)

func WithContext(ctx context.Context) Option {
	return func(ps *PubSub) {
		ps.ctx = ctx
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(ps *PubSub) {
		ps.logger = l
	}
}

func WithTopic(topic string) Option {
	return func(ps *PubSub) {
		ps.topic = topic
	}
}

// WithBuffer sets the per-subscriber channel capacity.
func WithBuffer(n int) Option {
	return func(ps *PubSub) {
		ps.buffer = n
	}
}

func (ps *PubSub) IsValid() error {
	switch {
	case ps.ctx == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "ctx cannot be nil")
	case ps.logger == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "logger cannot be nil")
	case ps.topic == "":
		return errors.Wrap(ErrInvalidPubSubConfig, "topic cannot be empty")
	case ps.buffer < 0:
		return errors.Wrap(ErrInvalidPubSubConfig, "buffer cannot be negative")
	default:
		return nil
	}
}

func New(opts ...Option) (*PubSub, error) {
	ps := &PubSub{
		buffer: 10,
		subs:   make(map[int]chan []byte),
	}

	for _, opt := range opts {
		opt(ps)
	}

	if err := ps.IsValid(); err != nil {
		return nil, err
	}

	go func() {
		<-ps.ctx.Done()
		ps.close()
	}()

	return ps, nil
}

func (ps *PubSub) Publish(payload []byte) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.closed {
		return errors.Wrap(ErrClosed, ps.topic)
	}

	for id, ch := range ps.subs {
		select {
		case ch <- payload:
		default:
			ps.logger.Warn("subscriber full, dropping message", "topic", ps.topic, "subscriber", id)
		}
	}
	return nil
}

func (ps *PubSub) Subscribe() (<-chan []byte, func(), error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.closed {
		return nil, nil, errors.Wrap(ErrClosed, ps.topic)
	}

	id := ps.nextID
	ps.nextID++
	ch := make(chan []byte, ps.buffer)
	ps.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			ps.mu.Lock()
			defer ps.mu.Unlock()
			if sub, ok := ps.subs[id]; ok {
				delete(ps.subs, id)
				close(sub)
			}
		})
	}

	return ch, unsubscribe, nil
}

func (ps *PubSub) close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.closed = true
	for id, ch := range ps.subs {
		delete(ps.subs, id)
		close(ch)
	}
}
