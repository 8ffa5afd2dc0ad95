package notify

import (
	"cocina/common"
	"cocina/event"
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "kitchen_topic"

// routing keys per event category; unknown categories are not published
var topicByCategory = map[event.Category]string{
	event.CategoryOrderPlaced:    "kitchen.order.placed",
	event.CategoryItemAssigned:   "kitchen.item.assigned",
	event.CategoryItemCompleted:  "kitchen.item.completed",
	event.CategoryOrderCompleted: "kitchen.order.completed",
}

// Notifier pushes kitchen updates to RabbitMQ. Delivery is fire-and-forget
// and at most once per call; the caller only controls when Publish runs
// (after the surrounding unit of work commits), not whether it arrives.
type Notifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(url string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Notifier{conn: conn, ch: ch}, nil
}

func (n *Notifier) Close() {
	if n == nil {
		return
	}
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

func (n *Notifier) Publish(topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return n.ch.PublishWithContext(context.Background(), Exchange, topic, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}

// AsEventHandler adapts the notifier to the post-commit event pipeline.
func (n *Notifier) AsEventHandler() event.EventHandler {
	return func(record *event.EventRecord) *event.EventHandleResult {
		topic, supported := topicByCategory[record.Category]
		if !supported {
			return nil
		}
		if err := n.Publish(topic, record.Payload); err != nil {
			common.Log.Errorf("failed to publish %s for source %v: %v", topic, record.SourceID, err)
			return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: "kitchenNotifier"}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: "kitchenNotifier"}
	}
}
