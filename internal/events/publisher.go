package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	TypeUserRegistered = "user.registered"
	TypeProductCreated = "product.created"
)

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type UserRegistered struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

type ProductCreated struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Category  *string `json:"category,omitempty"`
	Price     float64 `json:"price"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
	Close() error
}

// Writer - подмножество *kafka.Writer, подменяется в тестах.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer Writer
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	})
}

func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	log.Debug().Str("event_type", event.Type).Str("key", key).Msg("events: published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// publishTimeout ограничивает ожидание брокера внутри пользовательского запроса.
var publishTimeout = 2 * time.Second

// PublishBestEffort публикует событие и только логирует ошибку: запрос пользователя
// от брокера не зависит.
func PublishBestEffort(ctx context.Context, p Publisher, key string, event Event) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, key, event); err != nil {
		log.Warn().Err(err).Str("event_type", event.Type).Msg("events: publish failed")
	}
}
