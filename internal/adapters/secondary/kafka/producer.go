package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

// Producer реализация Kafka producer для событий жизненного цикла заявок
type Producer struct {
	producer sarama.SyncProducer
	cfg      *Config
	log      *slog.Logger
}

// NewProducer создаёт новый Kafka producer
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	// Настройка безопасности (если указано)
	if cfg.SecurityProtocol == "SASL_SSL" || cfg.SecurityProtocol == "SASL_PLAINTEXT" {
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		if cfg.SASLMechanism == "SCRAM-SHA-256" {
			config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		}
		config.Net.SASL.User = cfg.SASLUsername
		config.Net.SASL.Password = cfg.SASLPassword
		// TLS только для SASL_SSL
		if cfg.SecurityProtocol == "SASL_SSL" {
			config.Net.TLS.Enable = true
		}
	}

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return &Producer{
		producer: producer,
		cfg:      cfg,
		log:      log,
	}, nil
}

// requestEvent сериализуемое событие жизненного цикла заявки
type requestEvent struct {
	Event       string    `json:"event"`
	RequestID   string    `json:"request_id"`
	ClaimStatus string    `json:"claim_status"`
	ClaimedBy   *string   `json:"claimed_by,omitempty"`
	ClaimedName *string   `json:"claimed_name,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// SendRequestEvent публикует событие жизненного цикла заявки.
// Key равен request_id, чтобы события одной заявки попадали в одну партицию
// и сохраняли порядок.
func (p *Producer) SendRequestEvent(ctx context.Context, event string, request *domain.Request) error {
	valueBytes, err := json.Marshal(requestEvent{
		Event:       event,
		RequestID:   request.ID.String(),
		ClaimStatus: request.ClaimStatus.String(),
		ClaimedBy:   request.ClaimedBy,
		ClaimedName: request.ClaimedName,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("request_id"),
			Value: []byte(request.ID.String()),
		},
		{
			Key:   []byte("event"),
			Value: []byte(event),
		},
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.cfg.Topic,
		Key:     sarama.StringEncoder(request.ID.String()),
		Value:   sarama.ByteEncoder(valueBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.cfg.Topic,
			"key", request.ID.String(),
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w",
			p.cfg.Topic, request.ID.String(), err)
	}

	p.log.Debug("request event sent to kafka",
		"topic", p.cfg.Topic,
		"partition", partition,
		"offset", offset,
		"key", request.ID.String(),
		"event", event,
	)

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
