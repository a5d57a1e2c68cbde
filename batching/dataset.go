package batching

import "github.com/ludic-rl/rolloutflow/types"

// NewDatasetQueueSource is the convenience constructor for the common
// dataset-over-a-queue pattern: producers enqueue Item values (sample
// plus unshuffled dataset index) and the builder turns each into a base
// request. Group expansion is enabled with WithGroupSize.
func NewDatasetQueueSource[T any](q ItemQueue[Item[T]], batchSize int, builder RequestBuilder[T], opts ...SourceOption) (*QueueSource[Item[T]], error) {
	build := func(it Item[T]) (types.RolloutRequest, error) {
		return builder.Build(it.Index, it.Sample), nil
	}
	return NewQueueSource(q, batchSize, build, opts...)
}

// NewDatasetSequenceSource is the convenience constructor for a fixed
// in-memory dataset: an infinite epoch-cycling source using the builder
// for per-sample construction. Shuffling and its seed come from
// WithShuffle / WithRNGSeed; group expansion from WithGroupSize.
func NewDatasetSequenceSource[T any](samples []T, batchSize int, builder RequestBuilder[T], opts ...SourceOption) (*SequenceSource[T], error) {
	return NewSequenceSource(samples, batchSize, builder.Build, opts...)
}
