package interfaces

// EventPublisher emits domain events, such as recorded transactions, to an
// external broker. Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(topic string, event any) error
}
