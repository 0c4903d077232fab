package services

// EventPublisher publishes domain events for interested consumers. The
// RabbitMQ client in pkg/rabbitmq satisfies it; a nil publisher disables
// event publication entirely, which tests rely on.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// Routing keys for the order events the storefront emits.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)
