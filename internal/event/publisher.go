package event

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// Publisher emits platform lifecycle events (quiz created, session
// completed, ...) to an AMQP topic exchange. It is optional: when RabbitMQ
// is not configured the caller simply holds a nil *Publisher.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one event, using the event type as the routing key. Failures
// are logged, not returned: event delivery is best-effort and never blocks a
// user-facing operation.
func (p *Publisher) Publish(eventType string, payload interface{}) {
	if p == nil {
		return
	}
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("event %s: encode: %v", eventType, err)
		return
	}
	err = p.channel.Publish(p.exchange, eventType, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("event %s: publish: %v", eventType, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
