package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Event types published by the attempt engine. Routing keys on a topic
// exchange; downstream services (gamification dashboards, reconciliation
// workers) bind what they need.
const (
	AttemptStarted         = "quiz.attempt.started"
	AttemptSubmitted       = "quiz.attempt.submitted"
	AttemptPassed          = "quiz.attempt.passed"
	EnrollmentCreated      = "enrollment.created"
	StatsUpdateFailed      = "quiz.stats.update_failed"
	GamificationFailed     = "gamification.update_failed"
	ShownSetEchoDivergence = "quiz.attempt.shown_set_divergence"
)

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

// Publish sends one event with the event type as routing key. A nil
// publisher is a no-op so callers can run without a broker configured.
func (p *Publisher) Publish(eventType string, payload interface{}) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(map[string]interface{}{
		"type":      eventType,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	err = p.channel.Publish(p.exchange, eventType, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("event: publish %s failed: %v", eventType, err)
	}
	return err
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
