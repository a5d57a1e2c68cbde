// Package rolloutflow provides a top-level convenience entry point for
// compiling curriculum items into rollout requests.
//
// Usage:
//
//	import "github.com/ludic-rl/rolloutflow"
//
//	src, err := rolloutflow.SequenceSource(samples, 32, builder,
//	    rolloutflow.WithGroupSize(8), rolloutflow.WithShuffle(true))
//
// This is a thin wrapper around the batching package; use it when you
// prefer the shorter import path.
package rolloutflow

import (
	"github.com/ludic-rl/rolloutflow/batching"
	"github.com/ludic-rl/rolloutflow/types"
)

// Re-exported core types.

// RolloutRequest is one fully specified unit of execution.
type RolloutRequest = types.RolloutRequest

// RequestSource is the interface a training loop drives.
type RequestSource = batching.RequestSource

// RequestStrategy expands logical requests into execution requests.
type RequestStrategy = batching.RequestStrategy

// SourceOption configures a request source.
type SourceOption = batching.SourceOption

// Sentinel errors.
var (
	ErrInvalidConfiguration = batching.ErrInvalidConfiguration
	ErrRequestsExhausted    = batching.ErrRequestsExhausted
)

// Re-exported source options.
var (
	WithName            = batching.WithName
	WithStrategy        = batching.WithStrategy
	WithGroupSize       = batching.WithGroupSize
	WithStrategyRNGSeed = batching.WithStrategyRNGSeed
	WithOnEmpty         = batching.WithOnEmpty
	WithShuffle         = batching.WithShuffle
	WithRNGSeed         = batching.WithRNGSeed
	WithLogger          = batching.WithLogger
	WithCollector       = batching.WithCollector
)

// Exhaustion policies.
const (
	OnEmptyError       = batching.OnEmptyError
	OnEmptyReturnEmpty = batching.OnEmptyReturnEmpty
)

// QueueSource builds a queue-backed source over Item values.
func QueueSource[T any](q batching.ItemQueue[batching.Item[T]], batchSize int, builder batching.RequestBuilder[T], opts ...SourceOption) (*batching.QueueSource[batching.Item[T]], error) {
	return batching.NewDatasetQueueSource(q, batchSize, builder, opts...)
}

// SequenceSource builds an infinite epoch-cycling source over a fixed
// dataset.
func SequenceSource[T any](samples []T, batchSize int, builder batching.RequestBuilder[T], opts ...SourceOption) (*batching.SequenceSource[T], error) {
	return batching.NewDatasetSequenceSource(samples, batchSize, builder, opts...)
}
