package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"threadboard/pkg/config"
	"threadboard/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EngagementQueueName = "engagement_queue"
	EngagementExchange  = "engagement"

	maxPriority = 10
)

const (
	EventPostLiked      = "post_liked"
	EventCommentLiked   = "comment_liked"
	EventCommentReplied = "comment_replied"
)

// EngagementEvent tells a user that someone interacted with their content.
type EngagementEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	ActorID   string    `json:"actor_id"`
	PostID    int64     `json:"post_id,omitempty"`
	CommentID int64     `json:"comment_id,omitempty"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
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

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func declareTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		EngagementExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		EngagementQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-max-priority": maxPriority},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(EngagementQueueName, "engagement.#", EngagementExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
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

// PublishEngagementEvent publishes a persistent message routed as engagement.<type>.
func (c *Client) PublishEngagementEvent(event EngagementEvent) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}

	key := RoutingKey(event)
	if err := c.channel.Publish(EngagementExchange, key, false, false, msg); err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", EngagementExchange, key, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("[RABBITMQ] Published %s event for user_id=%s", event.Type, event.UserID)
	return nil
}

// ConsumeEngagementEvents delivers events from the engagement queue to handler
// until the channel closes. Messages are acked after handler succeeds.
func (c *Client) ConsumeEngagementEvents(handler func(event EngagementEvent) error) error {
	msgs, err := c.channel.Consume(
		EngagementQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", EngagementQueueName)

	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler, c.logger)
		}
		c.logger.Info("[RABBITMQ] Delivery channel closed for queue: %s", EngagementQueueName)
	}()

	return nil
}

// handleDelivery drops undecodable messages and requeues a failed event once.
func handleDelivery(msg amqp.Delivery, handler func(event EngagementEvent) error, log *logger.Logger) {
	var event EngagementEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Error("[RABBITMQ] Failed to unmarshal engagement event: %v, body=%s", err, string(msg.Body))
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		log.Error("[RABBITMQ] Handler failed for %s event, redelivered=%t: %v", event.Type, msg.Redelivered, err)
		msg.Nack(false, !msg.Redelivered)
		return
	}

	msg.Ack(false)
}

func RoutingKey(event EngagementEvent) string {
	return "engagement." + event.Type
}

func buildPublishing(event EngagementEvent) (amqp.Publishing, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.Priority = clampPriority(event.Priority)

	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Priority:     uint8(event.Priority),
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.CreatedAt,
	}, nil
}

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > maxPriority {
		return maxPriority
	}
	return p
}
