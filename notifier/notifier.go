package notifier

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const exchangeName = "orders_topic"

// Notifier publishes order lifecycle events to a durable topic exchange.
// Consumers (kitchen displays, notification senders) bind their own queues;
// delivery guarantees beyond broker persistence are out of scope.
type Notifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logrus.Logger
}

func Connect(url string, log *logrus.Logger) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.WithField("component", "notifier").Info("connected to RabbitMQ")
	return &Notifier{conn: conn, channel: channel, log: log}, nil
}

// Publish sends one persistent JSON message; the event name is the routing
// key (order.created, order.status_changed, order.canceled).
func (n *Notifier) Publish(ctx context.Context, event string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return n.channel.PublishWithContext(ctx,
		exchangeName, // exchange
		event,        // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
}

func (n *Notifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
