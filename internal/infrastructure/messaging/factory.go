package messaging

import (
	"fmt"
	"log/slog"

	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/infrastructure/kafka"
	pkgkafka "github.com/bibbank/fraud-detection/pkg/kafka"
)

// NewEventPublisher returns a Kafka publisher when brokers are configured and
// a LogPublisher otherwise. The close func releases the producer.
func NewEventPublisher(cfg pkgkafka.Config, topic string, logger *slog.Logger) (port.EventPublisher, func() error, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info("no kafka brokers configured, events go to the log")
		return NewLogPublisher(logger), func() error { return nil }, nil
	}

	producer, err := pkgkafka.NewProducer(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info("publishing events to kafka", "brokers", cfg.Brokers, "topic", topic)
	return kafka.NewPublisher(producer, topic, logger), producer.Close, nil
}
