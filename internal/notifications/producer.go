package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"cinebook/pkg/logger"
)

// Port is the outbound notification contract the booking core depends on.
// Implementations deliver events to whatever fan-out mechanism is deployed;
// the core never blocks its critical path on delivery.
type Port interface {
	PublishSeatUpdate(ctx context.Context, showtimeID string, seatLabels []string, status string) error
	PublishTicketValidated(ctx context.Context, bookingReference, showtimeID string, seatLabels []string) error
	PublishBroadcast(ctx context.Context, title, message, audience string) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka event producer.
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration.
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "cinebook-events",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaPort publishes booking events to Kafka.
type KafkaPort struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

// NewKafkaPort creates a Kafka-backed notification port.
func NewKafkaPort(config *KafkaProducerConfig, log *logger.Logger) (Port, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Idempotent writes require a single in-flight request
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps all events for one showtime on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("Kafka event producer created", "topic", config.Topic, "brokers", config.Brokers)
	return &KafkaPort{producer: producer, config: config, log: log}, nil
}

// PublishSeatUpdate emits a seat-state change for a showtime.
func (kp *KafkaPort) PublishSeatUpdate(ctx context.Context, showtimeID string, seatLabels []string, status string) error {
	return kp.publish(&Event{
		ID:        uuid.New(),
		Type:      EventTypeSeatUpdate,
		CreatedAt: time.Now(),
		SeatUpdate: &SeatUpdatePayload{
			ShowtimeID: showtimeID,
			Seats:      seatLabels,
			Status:     status,
		},
	})
}

// PublishTicketValidated emits a gate check-in event.
func (kp *KafkaPort) PublishTicketValidated(ctx context.Context, bookingReference, showtimeID string, seatLabels []string) error {
	return kp.publish(&Event{
		ID:        uuid.New(),
		Type:      EventTypeTicketValidated,
		CreatedAt: time.Now(),
		TicketValidated: &TicketValidatedPayload{
			BookingReference: bookingReference,
			ShowtimeID:       showtimeID,
			Seats:            seatLabels,
		},
	})
}

// PublishBroadcast emits an admin announcement.
func (kp *KafkaPort) PublishBroadcast(ctx context.Context, title, message, audience string) error {
	return kp.publish(&Event{
		ID:        uuid.New(),
		Type:      EventTypeBroadcast,
		CreatedAt: time.Now(),
		Broadcast: &BroadcastPayload{
			Title:    title,
			Message:  message,
			Audience: audience,
		},
	})
}

func (kp *KafkaPort) publish(event *Event) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.Topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   kp.createHeaders(event),
		Timestamp: event.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	kp.log.Debug("Event published to Kafka",
		"topic", kp.config.Topic,
		"partition", partition,
		"offset", offset,
		"type", event.Type,
	)
	return nil
}

func (kp *KafkaPort) createHeaders(event *Event) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("producer"), Value: []byte("cinebook-core")},
		{Key: []byte("created_at"), Value: []byte(event.CreatedAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer.
func (kp *KafkaPort) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		kp.log.Info("Kafka event producer closed")
	}
	return nil
}

// HealthCheck validates producer configuration.
func (kp *KafkaPort) HealthCheck(ctx context.Context) error {
	if kp.producer == nil {
		return fmt.Errorf("health check failed: producer is nil")
	}
	if kp.config.Topic == "" {
		return fmt.Errorf("health check failed: topic not configured")
	}
	return nil
}

// NoopPort discards all events. Used when the broker is disabled so the
// booking core never has to nil-check its notification dependency.
type NoopPort struct{}

func NewNoopPort() Port { return &NoopPort{} }

func (NoopPort) PublishSeatUpdate(ctx context.Context, showtimeID string, seatLabels []string, status string) error {
	return nil
}

func (NoopPort) PublishTicketValidated(ctx context.Context, bookingReference, showtimeID string, seatLabels []string) error {
	return nil
}

func (NoopPort) PublishBroadcast(ctx context.Context, title, message, audience string) error {
	return nil
}

func (NoopPort) Close() error { return nil }

func (NoopPort) HealthCheck(ctx context.Context) error { return nil }
