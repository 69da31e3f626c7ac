package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/prompt-general/supportdesk/internal/config"
)

// InteractionEvent is the analytics record published for every answered
// question.
type InteractionEvent struct {
	SessionID   string    `json:"session_id"`
	UserID      int       `json:"user_id,omitempty"`
	UserMessage string    `json:"user_message"`
	QueryType   string    `json:"query_type"`
	DataSource  string    `json:"data_source"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher emits interaction events to Kafka. Publishing is best-effort:
// a broker failure is logged and dropped, never surfaced on the chat path.
// With no brokers configured every publish is a no-op.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates an event publisher
func NewPublisher(cfg config.EventsConfig) *Publisher {
	if len(cfg.Brokers) == 0 {
		log.Printf("[events] no brokers configured, interaction events disabled")
		return &Publisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		Compression:  kafka.Gzip,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &Publisher{writer: writer}
}

// Publish emits one interaction event
func (p *Publisher) Publish(ctx context.Context, event InteractionEvent) {
	if p.writer == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		log.Printf("[events] failed to encode interaction event: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
	}); err != nil {
		log.Printf("[events] failed to publish interaction event: %v", err)
	}
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
