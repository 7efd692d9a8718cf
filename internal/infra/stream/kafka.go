// Package stream publishes lead events to Kafka for downstream analytics consumers.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/xavierca1/nexmart-api/internal/entity"
	"github.com/xavierca1/nexmart-api/internal/infra/http/middleware"
)

const DefaultTopic = "leads.captured"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 20 * time.Millisecond,
			Compression:  kafka.Snappy,
		},
	}
}

func (p *KafkaPublisher) PublishLeadCaptured(ctx context.Context, event entity.LeadCapturedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.LeadID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("LeadCaptured")},
			{Key: "version", Value: []byte(strconv.Itoa(event.Version))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		middleware.RecordIntegrationError("kafka")
		return fmt.Errorf("write lead event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
