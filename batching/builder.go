package batching

import "github.com/ludic-rl/rolloutflow/types"

// Item pairs a sample with its position in the unshuffled dataset. It
// is the unit queued by dataset-style producers.
type Item[T any] struct {
	Index  int
	Sample T
}

// EnvKwargsFunc overrides the environment kwargs derived from a sample.
type EnvKwargsFunc[T any] func(sample T) types.Args

// MetaFunc produces request metadata for a sample.
type MetaFunc[T any] func(idx int, sample T) types.Meta

// SeedFunc produces a seed for a sample. idx is the sample's position
// in the unshuffled dataset, so seed defaults stay stable across
// shuffled epochs.
type SeedFunc[T any] func(idx int, sample T) int64

// RequestBuilder turns one raw sample into one base RolloutRequest. It
// covers the common single-sample-env pattern: the env instance wraps
// one example, the protocol configuration is fixed per source.
//
// All hook fields are optional. Defaults: env kwargs {"sample": s},
// empty meta, and both seeds equal to the dataset index. Hooks must be
// pure; anything they panic with propagates to the Produce caller.
type RequestBuilder[T any] struct {
	EnvKind        string
	ProtocolKind   string
	ProtocolKwargs types.Args
	Inference      *types.InferenceSpec
	EnvKwargsFn    EnvKwargsFunc[T]
	MetaFn         MetaFunc[T]
	EnvSeedFn      SeedFunc[T]
	SamplingSeedFn SeedFunc[T]
}

// Build constructs the base request for the sample at dataset index idx.
func (b RequestBuilder[T]) Build(idx int, sample T) types.RolloutRequest {
	kwargs := types.Args{"sample": sample}
	if b.EnvKwargsFn != nil {
		kwargs = b.EnvKwargsFn(sample)
	}

	var meta types.Meta
	if b.MetaFn != nil {
		meta = b.MetaFn(idx, sample)
	}

	envSeed := int64(idx)
	if b.EnvSeedFn != nil {
		envSeed = b.EnvSeedFn(idx, sample)
	}
	samplingSeed := int64(idx)
	if b.SamplingSeedFn != nil {
		samplingSeed = b.SamplingSeedFn(idx, sample)
	}

	return types.RolloutRequest{
		Env:          types.EnvSpec{Kind: b.EnvKind, Kwargs: kwargs},
		Protocol:     types.ProtocolSpec{Kind: b.ProtocolKind, Kwargs: b.ProtocolKwargs},
		NumEpisodes:  1,
		EnvSeed:      types.Int64Ptr(envSeed),
		SamplingSeed: types.Int64Ptr(samplingSeed),
		Inference:    b.Inference,
		Meta:         meta,
	}
}
