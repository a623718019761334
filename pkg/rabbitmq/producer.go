package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kaduna-connect/directory-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys published on the directory exchange.
const (
	RoutingKeyRegistrationSubmitted = "registration.submitted"
	RoutingKeyRegistrationApproved  = "registration.approved"
)

// Publisher publishes JSON events to a single topic exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	Close()
}

// EventProducer publishes to a durable topic exchange. The amqp channel is not
// safe for concurrent use, so every publish holds mu.
type EventProducer struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer dials RabbitMQ and declares the exchange.
func NewEventProducer(amqpURL, exchange string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	p := &EventProducer{conn: conn, channel: ch, exchange: exchange}
	if err := p.declare(); err != nil {
		p.Close()
		return nil, err
	}

	logger.Info("RabbitMQ producer ready", map[string]interface{}{
		"exchange": exchange,
	})
	return p, nil
}

func (p *EventProducer) declare() error {
	return p.channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil)
}

// reopen replaces a channel the broker closed after an error.
func (p *EventProducer) reopen() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	p.channel = ch
	return p.declare()
}

// Publish marshals body to JSON and publishes it, retrying once on a fresh channel.
func (p *EventProducer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	logger.Warn("Publish failed, reopening channel", map[string]interface{}{
		"exchange":    p.exchange,
		"routing_key": routingKey,
		"error":       err.Error(),
	})
	if reopenErr := p.reopen(); reopenErr != nil {
		return reopenErr
	}
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

// Close closes the channel and the connection.
func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// FallbackPublisher logs events instead of sending them. Used when RabbitMQ
// is not configured or unreachable at startup.
type FallbackPublisher struct{}

func (FallbackPublisher) Publish(_ context.Context, routingKey string, body interface{}) error {
	logger.Debug("Event not published (no broker)", map[string]interface{}{
		"routing_key": routingKey,
		"body":        body,
	})
	return nil
}

func (FallbackPublisher) Close() {}
