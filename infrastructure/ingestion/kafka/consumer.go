// Package kafka consumes the upstream ingestion stream and lands raw records
// in staging. Delivery is at-least-once; the staging insert is idempotent on
// ingestion id, so redelivered messages are no-ops.
package kafka

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/pkg/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the wire format of one ingestion message.
type envelope struct {
	IngestionID  string              `json:"ingestion_id"`
	ConnectionID string              `json:"connection_id"`
	Source       string              `json:"source"`
	EmittedAt    time.Time           `json:"emitted_at"`
	Payload      jsoniter.RawMessage `json:"payload"`
}

type Consumer struct {
	readers     []*kafka.Reader
	stagingRepo repository.StagingRecordRepository
}

func NewConsumer(cfg *config.Kafka, stagingRepo repository.StagingRecordRepository) *Consumer {
	readers := make([]*kafka.Reader, 0, len(cfg.Topics))
	for _, topic := range cfg.Topics {
		readers = append(readers, kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.Brokers,
			GroupID:        cfg.GroupID,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
		}))
	}

	return &Consumer{
		readers:     readers,
		stagingRepo: stagingRepo,
	}
}

// Start runs one consume loop per topic until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for _, reader := range c.readers {
		go c.consume(ctx, reader)
	}

	go func() {
		<-ctx.Done()
		for _, reader := range c.readers {
			if err := reader.Close(); err != nil {
				logrus.WithError(err).Warn("Error closing kafka reader")
			}
		}
	}()
}

func (c *Consumer) consume(ctx context.Context, reader *kafka.Reader) {
	logger := logrus.WithField("topic", reader.Config().Topic)
	logger.Info("Kafka consumer started")

	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Kafka consumer stopped")
				return
			}
			logger.WithError(err).Error("Error reading kafka message")
			continue
		}

		c.handleMessage(ctx, logger, message)
	}
}

// handleMessage lands one message in staging. Malformed messages are counted
// and skipped; a poison message must never stall the partition.
func (c *Consumer) handleMessage(ctx context.Context, logger *logrus.Entry, message kafka.Message) {
	var env envelope
	if err := json.Unmarshal(message.Value, &env); err != nil {
		logger.WithError(err).WithField("offset", message.Offset).Warn("Discarding malformed ingestion message")
		observability.StagingRecordsConsumed.WithLabelValues("unknown", "invalid").Inc()
		return
	}

	if env.IngestionID == "" || env.Source == "" || len(env.Payload) == 0 {
		logger.WithField("offset", message.Offset).Warn("Discarding ingestion message with missing fields")
		observability.StagingRecordsConsumed.WithLabelValues(env.Source, "invalid").Inc()
		return
	}

	record := &domain.RawRecord{
		ID:           uuid.NewString(),
		IngestionID:  env.IngestionID,
		ConnectionID: env.ConnectionID,
		Source:       env.Source,
		Payload:      env.Payload,
		EmittedAt:    env.EmittedAt,
		ReceivedAt:   time.Now(),
	}

	inserted, err := c.stagingRepo.Insert(ctx, record)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"ingestion_id": env.IngestionID,
			"source":       env.Source,
		}).Error("Error landing record in staging")
		return
	}

	result := "inserted"
	if !inserted {
		result = "duplicate"
	}
	observability.StagingRecordsConsumed.WithLabelValues(env.Source, result).Inc()
}
