package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
)

// AlertSender delivers error notifications to a human.
type AlertSender interface {
	SendAlert(ctx context.Context, n entity.Notification) error
}

// consumer is satisfied by *amqp.Channel.
type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	ch     consumer
	alerts AlertSender
	logger *zap.Logger
}

func NewWorker(ch consumer, alerts AlertSender, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{ch: ch, alerts: alerts, logger: logger}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.ch.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.logger.Info("👷 worker aguardando na fila", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.logger.Warn("⚠️ canal de entregas fechado")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks informational notifications, mails error ones and sends
// anything it cannot process to the dead-letter queue.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var n entity.Notification
	if err := json.Unmarshal(d.Body, &n); err != nil {
		w.logger.Error("❌ JSON inválido", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if n.Type != entity.NotificationError || w.alerts == nil {
		w.logger.Debug("📥 notificação recebida",
			zap.String("type", string(n.Type)), zap.String("title", n.Title))
		d.Ack(false)
		return
	}

	if err := w.alerts.SendAlert(ctx, n); err != nil {
		w.logger.Error("❌ falha ao enviar alerta", zap.String("id", n.ID), zap.Error(err))
		d.Nack(false, false)
		return
	}

	w.logger.Info("📧 alerta enviado", zap.String("id", n.ID), zap.String("title", n.Title))
	d.Ack(false)
}
