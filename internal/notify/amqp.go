package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fintrend/internal/log"
)

// AlertMessage is the queued form of a notification: the rendered message
// plus when it was produced. Consumers deliver it over their own channels.
type AlertMessage struct {
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// AMQPChannel publishes alert messages to a durable queue so delivery can be
// handled out of process. It implements Channel like the direct transports.
type AMQPChannel struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	logger       *log.Logger
}

func NewAMQPChannel(url, exchangeName, queueName string, logger *log.Logger) (*AMQPChannel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &AMQPChannel{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger,
	}

	if err := c.setup(); err != nil {
		c.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return c, nil
}

func (c *AMQPChannel) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (c *AMQPChannel) Name() string {
	return "amqp"
}

func (c *AMQPChannel) Configured() bool {
	return c.channel != nil
}

// Send queues the message for out-of-process delivery.
func (c *AMQPChannel) Send(ctx context.Context, subject, body string) error {
	msg := AlertMessage{Subject: subject, Body: body, Timestamp: time.Now()}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal alert message: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publish alert message: %w", err)
	}

	c.logger.Info("alert message queued",
		log.FieldChannel, c.Name(),
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// Consume hands queued alert messages to handler until ctx is cancelled.
// Handler failures requeue the delivery; malformed payloads are dropped.
func (c *AMQPChannel) Consume(ctx context.Context, handler func(*AlertMessage) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.Info("consuming alert messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping message consumption", log.FieldError, ctx.Err().Error())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			var msg AlertMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				c.logger.Error("failed to unmarshal alert message", log.FieldError, err.Error())
				delivery.Nack(false, false)
				continue
			}

			if err := handler(&msg); err != nil {
				c.logger.Error("failed to handle alert message", log.FieldError, err.Error())
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *AMQPChannel) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
