package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Config struct {
	URL            string `mapstructure:"url"`
	ConnectionName string `mapstructure:"connection_name"`
}

// RabbitMQ owns the broker connection shared by the outbox publisher and the
// notification consumer. Channels are opened per role.
type RabbitMQ struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	fields := brokerFields(cfg)

	props := amqp.NewConnectionProperties()
	if cfg.ConnectionName != "" {
		props.SetClientConnectionName(cfg.ConnectionName)
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Properties: props})
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	logger.Info("Connected to RabbitMQ", fields...)

	return &RabbitMQ{conn: conn, logger: logger}, nil
}

// brokerFields describes the broker without the credentials in the URL.
func brokerFields(cfg Config) []zap.Field {
	fields := []zap.Field{zap.String("connectionName", cfg.ConnectionName)}

	uri, err := amqp.ParseURI(cfg.URL)
	if err != nil {
		return append(fields, zap.String("url", "unparseable"))
	}

	return append(fields,
		zap.String("host", uri.Host),
		zap.Int("port", uri.Port),
		zap.String("vhost", uri.Vhost),
		zap.String("user", uri.Username))
}

func (r *RabbitMQ) OpenChannel() (*amqp.Channel, error) {
	if r.conn == nil || r.conn.IsClosed() {
		return nil, fmt.Errorf("connection is closed")
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, nil
}

// DeclareTopology declares the durable event queues and logs their backlog, so
// a worker starting after an outage shows how many transaction events wait.
func (r *RabbitMQ) DeclareTopology(queues []string) error {
	ch, err := r.OpenChannel()
	if err != nil {
		return fmt.Errorf("failed to open channel for topology: %w", err)
	}
	defer ch.Close()

	for _, name := range queues {
		queue, err := ch.QueueDeclare(name, true, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}

		r.logger.Info("Event queue declared",
			zap.String("queue", queue.Name),
			zap.Int("pendingEvents", queue.Messages),
			zap.Int("consumers", queue.Consumers))
	}

	return nil
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel for publisher: %w", err)
	}

	return NewRabbitPublisher(ch), nil
}

func (r *RabbitMQ) CreateConsumer() (Consumer, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel for consumer: %w", err)
	}

	return NewRabbitConsumer(ch), nil
}

func (r *RabbitMQ) Close() error {
	if r.conn != nil && !r.conn.IsClosed() {
		return r.conn.Close()
	}

	return nil
}
