package queue

import "context"

// Job is a registered handler for one message type.
type Job interface {
	// Name returns the unique identifier of the job.
	Name() string

	// Type returns the message type this job consumes. A job registered
	// under TypeAny receives every message without a dedicated job.
	Type() string

	// Handle processes one message payload.
	Handle(ctx context.Context, payload interface{}) error
}

// TypeAny registers a job as the fallback consumer for unmatched types.
const TypeAny = "*"
