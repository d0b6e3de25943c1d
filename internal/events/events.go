// Package events publishes night watch, community event and post lifecycle
// events to an MQTT broker so other services can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// Event types.
const (
	WatchCreated  = "night_watch/created"
	WatchJoined   = "night_watch/joined"
	WatchAssigned = "night_watch/assigned"
	WatchClosed   = "night_watch/closed"

	EventCreated = "events/created"
	EventDeleted = "events/deleted"
	PostAdded    = "posting/added"
	PostDeleted  = "posting/deleted"
)

// Event is the envelope sent on the wire.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// MQTTClient defines the subset of the paho client the publisher needs.
type MQTTClient interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes events as JSON on <prefix>/<event type>.
type MQTTPublisher struct {
	client      MQTTClient
	topicPrefix string
	qos         byte
	timeout     time.Duration
	log         *logrus.Logger
}

// NewMQTTPublisher wraps an already configured client.
func NewMQTTPublisher(client MQTTClient, topicPrefix string, qos byte, log *logrus.Logger) *MQTTPublisher {
	return &MQTTPublisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
		qos:         qos,
		timeout:     5 * time.Second,
		log:         log,
	}
}

// Dial creates a paho client for broker and connects it.
func Dial(broker, clientID, topicPrefix string, qos byte, log *logrus.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)

	p := NewMQTTPublisher(mqtt.NewClient(opts), topicPrefix, qos, log)
	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", token.Error())
	}
	return p, nil
}

// Topic returns the topic an event type is published on.
func (p *MQTTPublisher) Topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "/" + eventType
}

// Publish sends the event and waits for the broker acknowledgement, bounded
// by the context and the publisher timeout.
func (p *MQTTPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	topic := p.Topic(eventType)
	token := p.client.Publish(topic, p.qos, false, data)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	if p.log != nil {
		p.log.WithFields(logrus.Fields{"topic": topic, "type": eventType}).Debug("Published event")
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
