package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Reporta/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeExecutionFinished MessageType = "execution.finished"
)

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ExecutionFinishedPayload — payload события о завершённом выполнении.
type ExecutionFinishedPayload struct {
	ExecutionID      uuid.UUID  `json:"execution_id"`
	ReportID         *uuid.UUID `json:"report_id,omitempty"`
	Status           string     `json:"status"`
	RecordsProcessed int        `json:"records_processed"`
	Recipients       int        `json:"recipients"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	DurationMs       *int64     `json:"duration_ms,omitempty"`
}

// Publisher публикует события в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishExecutionFinished публикует событие о завершённом выполнении.
// Потребитель: monitor.
func (p *Publisher) PublishExecutionFinished(ctx context.Context, exec *domain.ReportExecution) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeExecutionFinished,
		Payload: ExecutionFinishedPayload{
			ExecutionID:      exec.ID,
			ReportID:         exec.ReportID,
			Status:           string(exec.Status),
			RecordsProcessed: exec.RecordsProcessed,
			Recipients:       len(exec.EmailsSentTo),
			ErrorMessage:     exec.ErrorMessage,
			DurationMs:       exec.DurationMs,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeExecutions, RoutingKeyFinished, msg)
}
