package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AMQPNotifier publishes events as persistent JSON messages to a direct
// exchange.
type AMQPNotifier struct {
	conn         *amqp091.Connection
	exchangeName string
	routingKey   string

	// amqp091 channels must not be shared by concurrent publishers.
	mu      sync.Mutex
	channel *amqp091.Channel
}

// NewAMQPNotifier dials url and declares the exchange and a durable queue
// bound with routingKey.
func NewAMQPNotifier(url, exchangeName, routingKey string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		routingKey:   routingKey,
	}

	if err := n.setup(); err != nil {
		n.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return n, nil
}

func (n *AMQPNotifier) setup() error {
	err := n.channel.ExchangeDeclare(
		n.exchangeName, // name
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

	_, err = n.channel.QueueDeclare(
		n.routingKey, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = n.channel.QueueBind(
		n.routingKey,   // queue name
		n.routingKey,   // routing key
		n.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// NotifyPlan publishes a settlement plan.
func (n *AMQPNotifier) NotifyPlan(ctx context.Context, msg *PlanMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := n.publish(ctx, TypeSettlementPlan, msg.GroupID, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published settlement plan",
		"group_id", msg.GroupID,
		"transfers", len(msg.Transfers),
		"exchange", n.exchangeName)
	return nil
}

// NotifyExpense publishes an expense-added event.
func (n *AMQPNotifier) NotifyExpense(ctx context.Context, msg *ExpenseMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := n.publish(ctx, TypeExpenseAdded, msg.GroupID, body); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Published expense event",
		"group_id", msg.GroupID,
		"expense_id", msg.ExpenseID)
	return nil
}

func (n *AMQPNotifier) publish(ctx context.Context, msgType, groupID string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	n.mu.Lock()
	defer n.mu.Unlock()

	err := n.channel.PublishWithContext(
		ctx,
		n.exchangeName, // exchange
		n.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Type:         msgType,
			Headers:      amqp091.Table{"group_id": groupID},
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
