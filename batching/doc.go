/*
Package batching compiles curriculum items into immutable rollout
requests for an external execution engine.

Two request sources cover the two data-source shapes that show up in
training loops:

  - QueueSource drains a thread-safe FIFO filled by external producers.
    It never blocks: a Produce call takes whatever is available, up to
    the batch size, and signals exhaustion per its configured policy.
  - SequenceSource cycles deterministically over a fixed in-memory
    dataset, optionally reshuffling each epoch. It never exhausts.

Both sources map raw items to base requests through injected builder
hooks and then pass the batch through an optional RequestStrategy. The
GRPO strategy expands each base request into a group of G variants that
share an environment seed but diverge in sampling seed, tagged with a
common group_id for downstream credit assignment.

Sources are single-consumer: concurrent Produce calls on the same
instance are not supported. Only the backing FIFO is concurrent.
*/
package batching
