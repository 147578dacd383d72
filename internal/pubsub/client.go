package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Google Cloud Pub/Sub. Every event is published to topicID
// with the event type in the "event" attribute. The returned func closes the client.
func New(ctx context.Context, projectID, topicID string) (PubSubClient, func(), error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		if err := pubSubC.Close(); err != nil {
			log.Error("Failed to close pubsub client", "error", err)
		}
	}

	c := &client{
		client:   pubSubC,
		topic:    topicID,
		teardown: teardown,
	}
	return c, teardown, nil
}

func (c *client) SendMessage(ctx context.Context, event EventType, data any) error {
	msgpackData, err := Encode(data)
	if err != nil {
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{"event": string(event)},
	}
	result := c.client.Topic(c.topic).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", c.topic, "event", event)
		return err
	}
	log.Info("SendMessage", "serverID", serverID, "event", event)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

// Encode marshals an event payload with MessagePack.
func Encode(data any) ([]byte, error) {
	b, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, err
	}
	return b, nil
}

// Decode unmarshals a MessagePack payload into the provided pointer.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

// NewDirect creates an in-process publisher with no subscribers.
func NewDirect() *Direct {
	return &Direct{subscribers: map[EventType][]Handler{}}
}

// Subscribe registers h for event.
func (d *Direct) Subscribe(event EventType, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[event] = append(d.subscribers[event], h)
}

// SendMessage encodes data and hands it to every subscriber of event in turn.
// Subscriber errors are logged and do not fail the send.
func (d *Direct) SendMessage(ctx context.Context, event EventType, data any) error {
	payload, err := Encode(data)
	if err != nil {
		return err
	}
	d.mu.RLock()
	handlers := append([]Handler(nil), d.subscribers[event]...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		log.Debug("No subscribers for event", "event", event)
	}
	for _, h := range handlers {
		if err := h(ctx, payload); err != nil {
			log.Error("Subscriber failed", "event", event, "error", err)
		}
	}
	return nil
}

func (d *Direct) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}
