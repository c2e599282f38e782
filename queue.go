package zero2prod

import "context"

// QueueService delivers raw newsletter issues published to a message queue.
// Each payload is a JSON-encoded Issue.
type QueueService interface {
	Consume(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}
