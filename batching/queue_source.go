package batching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ludic-rl/rolloutflow/types"
)

// ItemQueue is the capability a QueueSource needs from its backing
// queue: a non-blocking pop. *fifo.Queue satisfies it; so does any
// adapter over a channel or an external broker client.
type ItemQueue[T any] interface {
	TryPop() (T, bool)
}

// BuildRequestFunc maps one raw queue item to one base RolloutRequest.
// An error it returns propagates unmodified out of Produce.
type BuildRequestFunc[T any] func(item T) (types.RolloutRequest, error)

// QueueSource drains a thread-safe FIFO of curriculum items and
// compiles them into rollout requests.
//
// Produce never waits for producers: it takes at most batchSize items,
// stops at the first empty pop, and accepts partial batches. Callers
// must tolerate variably sized, occasionally empty batches; that is the
// backpressure contract.
type QueueSource[T any] struct {
	name      string
	queue     ItemQueue[T]
	batchSize int
	build     BuildRequestFunc[T]
	cfg       sourceConfig
}

// NewQueueSource builds a queue-backed source. batchSize must be
// positive and build non-nil, else ErrInvalidConfiguration.
func NewQueueSource[T any](q ItemQueue[T], batchSize int, build BuildRequestFunc[T], opts ...SourceOption) (*QueueSource[T], error) {
	if q == nil {
		return nil, fmt.Errorf("%w: queue must not be nil", ErrInvalidConfiguration)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfiguration, batchSize)
	}
	if build == nil {
		return nil, fmt.Errorf("%w: build_request must not be nil", ErrInvalidConfiguration)
	}
	cfg, err := newSourceConfig("queue", opts)
	if err != nil {
		return nil, err
	}
	return &QueueSource[T]{
		name:      cfg.name,
		queue:     q,
		batchSize: batchSize,
		build:     build,
		cfg:       cfg,
	}, nil
}

// Produce pulls up to batchSize items without blocking, compiles them,
// and applies the configured strategy. With zero items available it
// follows the exhaustion policy: ErrRequestsExhausted or an empty
// batch.
func (s *QueueSource[T]) Produce() ([]types.RolloutRequest, error) {
	reqs := make([]types.RolloutRequest, 0, s.batchSize)
	for len(reqs) < s.batchSize {
		item, ok := s.queue.TryPop()
		if !ok {
			break
		}
		req, err := s.build(item)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if len(reqs) == 0 {
		s.cfg.collector.ObserveExhausted(s.name)
		if s.cfg.onEmpty == OnEmptyReturnEmpty {
			s.cfg.logger.Debug("queue empty, returning empty batch")
			return []types.RolloutRequest{}, nil
		}
		s.cfg.logger.Warn("queue empty, no more requests to generate")
		return nil, fmt.Errorf("%w: queue is empty", ErrRequestsExhausted)
	}

	baseCount := len(reqs)
	if s.cfg.strategy != nil {
		reqs = s.cfg.strategy.Expand(reqs)
		if len(reqs) > baseCount {
			s.cfg.collector.ObserveGroups(s.name, baseCount)
		}
	}

	s.cfg.collector.ObserveBatch(s.name, len(reqs))
	s.cfg.logger.Debug("produced batch",
		zap.Int("items", baseCount),
		zap.Int("requests", len(reqs)))
	return reqs, nil
}

// MakeRequestsFnFromQueue wraps NewQueueSource and returns the source's
// Produce method as a RequestsFn closure.
func MakeRequestsFnFromQueue[T any](q ItemQueue[T], batchSize int, build BuildRequestFunc[T], opts ...SourceOption) (RequestsFn, error) {
	src, err := NewQueueSource(q, batchSize, build, opts...)
	if err != nil {
		return nil, err
	}
	return src.Produce, nil
}
