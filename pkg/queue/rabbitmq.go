package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fanhouse/pkg/config"
	"fanhouse/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName  = "notification_queue"
	NotificationExchange   = "notifications"
	NotificationRoutingKey = "notification"

	maxPriority = 10
)

// NotificationTask is one notification addressed to a single user.
type NotificationTask struct {
	UserID   string                 `json:"user_id"`
	Type     string                 `json:"type"`
	Data     map[string]interface{} `json:"data"`
	Priority int                    `json:"priority"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		amqp.Table{
			"x-max-priority": maxPriority,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		NotificationQueueName,  // queue name
		NotificationRoutingKey, // routing key
		NotificationExchange,   // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
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

func clampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > maxPriority {
		return maxPriority
	}
	return uint8(p)
}

// PublishNotificationTask enqueues a task as a persistent message.
func (c *Client) PublishNotificationTask(ctx context.Context, task NotificationTask) error {
	if task.Priority == 0 {
		task.Priority = 1
	}

	taskJSON, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		NotificationExchange,   // exchange
		NotificationRoutingKey, // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         taskJSON,
			Priority:     clampPriority(task.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish message to exchange=%s: %v", NotificationExchange, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s notification for user %s", task.Type, task.UserID)
	return nil
}

// ConsumeNotificationTasks hands each delivery to handler. Malformed bodies
// are dropped, handler failures are requeued. It blocks until ctx is done or
// the channel closes.
func (c *Client) ConsumeNotificationTasks(ctx context.Context, handler func(ctx context.Context, task NotificationTask) error) error {
	if err := c.channel.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		NotificationQueueName, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from notification queue: %s", NotificationQueueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handleDelivery(ctx, msg, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(ctx context.Context, task NotificationTask) error) {
	task, err := DecodeTask(msg.Body)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to unmarshal notification task: %v, body=%s", err, string(msg.Body))
		msg.Nack(false, false)
		return
	}

	if err := handler(ctx, task); err != nil {
		c.logger.Error("[RABBITMQ] Handler failed to process notification task: %v, task=%+v", err, task)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

func DecodeTask(body []byte) (NotificationTask, error) {
	var task NotificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		return task, err
	}
	if task.UserID == "" || task.Type == "" {
		return task, fmt.Errorf("task missing user_id or type")
	}
	return task, nil
}

// GetQueueLength returns the number of messages in the queue
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
