package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

// WelcomeSender delivers the follow-up message for a captured lead.
type WelcomeSender interface {
	SendLeadWelcome(to string) error
}

type channelConsumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel channelConsumer
	Sender  WelcomeSender
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, sender WelcomeSender, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel: ch,
		Sender:  sender,
		Logger:  logger,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("worker waiting for lead events", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("worker stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.handle(d)
		}
	}
}

func (w *Worker) handle(d amqp.Delivery) {
	var event entity.LeadCapturedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.Email == "" {
		w.Logger.Error("malformed lead event, dead-lettering", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log := w.Logger.With(zap.String("lead_id", event.LeadID), zap.String("event_id", event.EventID))

	if err := w.Sender.SendLeadWelcome(event.Email); err != nil {
		// Dead-lettered, replay from the DLQ.
		log.Error("welcome email failed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log.Info("welcome email sent")
	_ = d.Ack(false)
}
