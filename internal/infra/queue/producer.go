package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/seller-console/internal/entity"
)

// publisher is satisfied by *amqp.Channel.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type NotificationProducer struct {
	ch publisher
}

func NewProducer(ch publisher) *NotificationProducer {
	return &NotificationProducer{ch: ch}
}

func (p *NotificationProducer) PublishNotification(ctx context.Context, n entity.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("erro ao converter notificação: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName, // ex.console
		RoutingKey,   // k.notification
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    n.ID,
			Type:         string(n.Type),
			Timestamp:    n.CreatedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
