package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// PushEnvelope is the JSON body Pub/Sub push subscriptions post to an endpoint.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data        string            `json:"data"`
		MessageID   string            `json:"messageId"`
		Attributes  map[string]string `json:"attributes"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
}

// ReadPush decodes a push request body and returns the raw payload and its event type.
func ReadPush(body io.Reader) ([]byte, EventType, error) {
	var env PushEnvelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return nil, "", fmt.Errorf("invalid push envelope: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 data: %w", err)
	}
	return data, EventType(env.Message.Attributes["event"]), nil
}
