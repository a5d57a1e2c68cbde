package batching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludic-rl/rolloutflow/fifo"
	"github.com/ludic-rl/rolloutflow/types"
)

func passthroughBuild(it Item[string]) (types.RolloutRequest, error) {
	return RequestBuilder[string]{EnvKind: "gsm8k", ProtocolKind: "single_agent"}.Build(it.Index, it.Sample), nil
}

func fillQueue(t *testing.T, n int) *fifo.Queue[Item[string]] {
	t.Helper()
	q := fifo.New[Item[string]](n + 1)
	for i := 0; i < n; i++ {
		require.True(t, q.TryPush(Item[string]{Index: i, Sample: "s"}))
	}
	return q
}

func TestNewQueueSourceValidation(t *testing.T) {
	q := fifo.New[Item[string]](1)

	tests := []struct {
		name string
		fn   func() error
	}{
		{
			name: "nil queue",
			fn: func() error {
				_, err := NewQueueSource[Item[string]](nil, 1, passthroughBuild)
				return err
			},
		},
		{
			name: "zero batch size",
			fn: func() error {
				_, err := NewQueueSource[Item[string]](q, 0, passthroughBuild)
				return err
			},
		},
		{
			name: "negative batch size",
			fn: func() error {
				_, err := NewQueueSource[Item[string]](q, -3, passthroughBuild)
				return err
			},
		},
		{
			name: "nil build function",
			fn: func() error {
				_, err := NewQueueSource[Item[string]](q, 1, nil)
				return err
			},
		},
		{
			name: "unknown exhaustion policy",
			fn: func() error {
				_, err := NewQueueSource(q, 1, passthroughBuild, WithOnEmpty("panic"))
				return err
			},
		},
		{
			name: "strategy and group size together",
			fn: func() error {
				_, err := NewQueueSource(q, 1, passthroughBuild,
					WithStrategy(IdentityStrategy{}), WithGroupSize(4))
				return err
			},
		},
		{
			name: "non-positive group size",
			fn: func() error {
				_, err := NewQueueSource(q, 1, passthroughBuild, WithGroupSize(0))
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestQueueSourceDrainsInPartialBatches(t *testing.T) {
	q := fillQueue(t, 5)
	src, err := NewQueueSource(q, 2, passthroughBuild)
	require.NoError(t, err)

	for _, want := range []int{2, 2, 1} {
		batch, err := src.Produce()
		require.NoError(t, err)
		assert.Len(t, batch, want)
	}

	_, err = src.Produce()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestsExhausted)
}

func TestQueueSourceReturnEmptyPolicy(t *testing.T) {
	q := fillQueue(t, 1)
	src, err := NewQueueSource(q, 2, passthroughBuild, WithOnEmpty(OnEmptyReturnEmpty))
	require.NoError(t, err)

	batch, err := src.Produce()
	require.NoError(t, err)
	assert.Len(t, batch, 1)

	batch, err = src.Produce()
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestQueueSourceExhaustionIsRecoverable(t *testing.T) {
	q := fifo.New[Item[string]](4)
	src, err := NewQueueSource(q, 2, passthroughBuild)
	require.NoError(t, err)

	_, err = src.Produce()
	assert.ErrorIs(t, err, ErrRequestsExhausted)

	// A producer refills the queue; the next call succeeds.
	require.True(t, q.TryPush(Item[string]{Index: 0, Sample: "s"}))
	batch, err := src.Produce()
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestQueueSourceBuildErrorPropagatesUnwrapped(t *testing.T) {
	buildErr := errors.New("bad sample")
	q := fillQueue(t, 1)
	src, err := NewQueueSource(q, 1, func(Item[string]) (types.RolloutRequest, error) {
		return types.RolloutRequest{}, buildErr
	})
	require.NoError(t, err)

	_, err = src.Produce()
	assert.ErrorIs(t, err, buildErr)
}

func TestQueueSourceAppliesStrategy(t *testing.T) {
	q := fillQueue(t, 2)
	src, err := NewQueueSource(q, 2, passthroughBuild,
		WithGroupSize(3), WithStrategyRNGSeed(11))
	require.NoError(t, err)

	batch, err := src.Produce()
	require.NoError(t, err)
	require.Len(t, batch, 6)
	assert.Equal(t, batch[0].GroupID(), batch[2].GroupID())
	assert.NotEqual(t, batch[0].GroupID(), batch[3].GroupID())
}

func TestMakeRequestsFnFromQueue(t *testing.T) {
	q := fillQueue(t, 3)
	fn, err := MakeRequestsFnFromQueue(q, 2, passthroughBuild)
	require.NoError(t, err)

	batch, err := fn()
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	batch, err = fn()
	require.NoError(t, err)
	assert.Len(t, batch, 1)

	_, err = fn()
	assert.ErrorIs(t, err, ErrRequestsExhausted)
}

func TestDatasetQueueSourceBuildsFromItems(t *testing.T) {
	type sample struct {
		Question string
		ID       string
	}

	q := fifo.New[Item[sample]](4)
	require.True(t, q.TryPush(Item[sample]{Index: 7, Sample: sample{Question: "q1", ID: "abc"}}))
	require.True(t, q.TryPush(Item[sample]{Index: 8, Sample: sample{Question: "q2"}}))

	builder := RequestBuilder[sample]{
		EnvKind:      "gsm8k",
		ProtocolKind: "single_agent",
		MetaFn: func(idx int, s sample) types.Meta {
			return types.Meta{"sample_index": idx, "question_id": s.ID}
		},
	}

	src, err := NewDatasetQueueSource(q, 8, builder)
	require.NoError(t, err)

	batch, err := src.Produce()
	require.NoError(t, err)
	require.Len(t, batch, 2)

	r0 := batch[0]
	assert.Equal(t, "gsm8k", r0.Env.Kind)
	assert.Equal(t, sample{Question: "q1", ID: "abc"}, r0.Env.Kwargs["sample"])
	assert.Equal(t, "single_agent", r0.Protocol.Kind)
	require.NotNil(t, r0.EnvSeed)
	assert.Equal(t, int64(7), *r0.EnvSeed)
	assert.Equal(t, 7, r0.Meta["sample_index"])
	assert.Equal(t, "abc", r0.Meta["question_id"])

	r1 := batch[1]
	require.NotNil(t, r1.EnvSeed)
	assert.Equal(t, int64(8), *r1.EnvSeed)
}

func TestDatasetQueueSourceGroupExpandsSamplingSeeds(t *testing.T) {
	q := fifo.New[Item[string]](1)
	require.True(t, q.TryPush(Item[string]{Index: 0, Sample: "q"}))

	builder := RequestBuilder[string]{
		EnvKind:        "gsm8k",
		ProtocolKind:   "single_agent",
		SamplingSeedFn: func(int, string) int64 { return 100 },
	}

	src, err := NewDatasetQueueSource(q, 1, builder, WithGroupSize(3))
	require.NoError(t, err)

	batch, err := src.Produce()
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, r := range batch {
		require.NotNil(t, r.EnvSeed)
		assert.Equal(t, int64(0), *r.EnvSeed)
		require.NotNil(t, r.SamplingSeed)
		assert.Equal(t, int64(100+i), *r.SamplingSeed)
		assert.Equal(t, 1, r.NumEpisodes)
	}
}
