package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderConfirmations = "order_confirmations"
	TopicOrderAlerts        = "order_alerts"
)

// KafkaSender publishes notifications as JSON events; a downstream
// consumer turns them into customer emails and business alerts.
type KafkaSender struct {
	writer *kafka.Writer
}

func NewKafkaSender(address string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(address),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (s *KafkaSender) publish(ctx context.Context, topic string, n OrderNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}
	err = s.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(n.OrderID.String()),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("kafka: write to %s: %w", topic, err)
	}
	return nil
}

func (s *KafkaSender) SendOrderConfirmation(ctx context.Context, n OrderNotification) error {
	return s.publish(ctx, TopicOrderConfirmations, n)
}

func (s *KafkaSender) SendOrderAlert(ctx context.Context, n OrderNotification) error {
	return s.publish(ctx, TopicOrderAlerts, n)
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
