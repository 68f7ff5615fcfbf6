package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Google Cloud Pub/Sub. The returned teardown closes the client.
func New(projectID string) (PubSubClient, func()) {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	teardown := func() {
		pubSubC.Close()
	}

	c := &client{
		client:   pubSubC,
		teardown: teardown,
	}
	return c, c.teardown
}

func (c *client) SendMessage(topic EventType, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("SendMessage", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

// nopClient is used when no Google Cloud project is configured. Events are
// encoded so payload errors still surface, then dropped.
type nopClient struct{}

// NewNop returns a PubSubClient that publishes nothing.
func NewNop() PubSubClient {
	return nopClient{}
}

func (nopClient) SendMessage(topic EventType, data any) error {
	if _, err := msgpack.Marshal(data); err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	log.Debug("Pub/Sub disabled, dropping event", "topic", topic)
	return nil
}

func (nopClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func decode(data []byte, returnValue any) error {
	// Unmarshal the MessagePack data into the provided pointer struct
	err := msgpack.Unmarshal(data, returnValue)
	if err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
