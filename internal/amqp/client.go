// Package amqp publishes and consumes transaction sync events. The chat
// service emits an event after each store mutation; the export worker
// consumes them and mirrors the change to the spreadsheet ledger.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	syncQueue    string
	deleteQueue  string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		syncQueue:    queueName,
		deleteQueue:  queueName + ".delete",
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
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

	for _, queue := range []string{c.syncQueue, c.deleteQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// routing key matches the queue name on a direct exchange
		if err := c.channel.QueueBind(queue, queue, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", routingKey, err)
	}
	return nil
}

// PublishTransactionSync emits a sync event for a created or updated
// transaction.
func (c *Client) PublishTransactionSync(ctx context.Context, id, revision int64) error {
	msg := NewTransactionSyncMessage(id, revision)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal sync message: %w", err)
	}

	if err := c.publish(ctx, c.syncQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published transaction sync message",
		"id", id,
		"revision", revision,
		"exchange", c.exchangeName,
		"queue", c.syncQueue)
	return nil
}

// PublishTransactionDelete emits a delete event.
func (c *Client) PublishTransactionDelete(ctx context.Context, id int64) error {
	msg := NewTransactionDeleteMessage(id)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal delete message: %w", err)
	}

	if err := c.publish(ctx, c.deleteQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published transaction delete message",
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.deleteQueue)
	return nil
}

// Consume delivers sync and delete events to the handlers until ctx ends.
// Messages are acked only after the handler succeeds; handler errors
// requeue the delivery, unmarshalable payloads are dropped.
func (c *Client) Consume(ctx context.Context, onSync func(*TransactionSyncMessage) error, onDelete func(*TransactionDeleteMessage) error) error {
	syncs, err := c.channel.Consume(c.syncQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", c.syncQueue, err)
	}
	deletes, err := c.channel.Consume(c.deleteQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", c.deleteQueue, err)
	}

	slog.InfoContext(ctx, "Started consuming transaction events",
		"sync_queue", c.syncQueue, "delete_queue", c.deleteQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()

		case delivery, ok := <-syncs:
			if !ok {
				return fmt.Errorf("sync channel closed")
			}
			c.handleDelivery(ctx, delivery, func(body []byte) error {
				msg, err := TransactionSyncMessageFromJSON(body)
				if err != nil {
					return unmarshalError{err}
				}
				return onSync(msg)
			})

		case delivery, ok := <-deletes:
			if !ok {
				return fmt.Errorf("delete channel closed")
			}
			c.handleDelivery(ctx, delivery, func(body []byte) error {
				msg, err := TransactionDeleteMessageFromJSON(body)
				if err != nil {
					return unmarshalError{err}
				}
				return onDelete(msg)
			})
		}
	}
}

type unmarshalError struct{ err error }

func (e unmarshalError) Error() string { return "unmarshal message: " + e.err.Error() }

func (c *Client) handleDelivery(ctx context.Context, delivery amqp091.Delivery, handle func([]byte) error) {
	if err := handle(delivery.Body); err != nil {
		if _, malformed := err.(unmarshalError); malformed {
			slog.ErrorContext(ctx, "Dropping malformed message", "error", err)
			delivery.Nack(false, false) // don't requeue
			return
		}
		slog.ErrorContext(ctx, "Failed to handle message, requeueing", "error", err)
		delivery.Nack(false, true)
		return
	}
	delivery.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
