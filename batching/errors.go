package batching

import "errors"

var (
	// ErrInvalidConfiguration reports a programmer error caught at
	// construction time: non-positive batch or group size, an empty
	// dataset, or an unknown exhaustion policy. Never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRequestsExhausted reports that a queue-backed source was asked
	// for work while its queue was empty and its policy is OnEmptyError.
	// Recoverable: the caller may retry later, end the epoch, or switch
	// sources.
	ErrRequestsExhausted = errors.New("requests exhausted")
)
