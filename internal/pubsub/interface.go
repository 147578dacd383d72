package pubsub

import "context"

// PubSubClient publishes events and decodes their payloads.
type PubSubClient interface {
	SendMessage(ctx context.Context, event EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}

// Handler consumes the encoded payload of an event.
type Handler func(ctx context.Context, data []byte) error

var _ PubSubClient = (*Direct)(nil)
