package rabbitmq

import (
	"context"
	"log"
)

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

var (
	_ PublisherInterface = (*Publisher)(nil)
	_ PublisherInterface = NopPublisher{}
)

// NopPublisher stands in when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	log.Printf("rabbitmq disabled, dropping %s event", routingKey)
	return nil
}
