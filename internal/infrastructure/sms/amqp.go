package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Message is the payload published for the SMS gateway to deliver.
type Message struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// AMQPSender hands outgoing text messages to an SMS gateway through a
// durable RabbitMQ topic exchange.
type AMQPSender struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
	log        zerolog.Logger

	mu sync.Mutex // guards ch
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	if u.Path == "" {
		clean += "/"
	}
	return clean, nil
}

// NewAMQPSender dials RabbitMQ and declares the exchange once up front.
func NewAMQPSender(amqpURL, exchange, routingKey string, log zerolog.Logger) (*AMQPSender, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("amqp url: %w", err)
	}

	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	return &AMQPSender{
		conn:       conn,
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		log:        log,
	}, nil
}

// Send publishes one message. It returns once the broker has accepted the
// publish, not when the SMS is delivered.
func (s *AMQPSender) Send(ctx context.Context, phone, message string) error {
	msg := Message{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		Body:        message,
		CreatedAt:   time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode sms: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ch.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish sms: %w", err)
	}

	s.log.Debug().
		Str("message_id", msg.ID).
		Str("exchange", s.exchange).
		Str("routing_key", s.routingKey).
		Msg("sms queued")
	return nil
}

// Close gracefully closes the channel and connection.
func (s *AMQPSender) Close() {
	if s.ch != nil {
		s.ch.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}
