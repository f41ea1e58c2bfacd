package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// DispatchEvent is emitted once per completed send request.
type DispatchEvent struct {
	RequestID  string    `json:"request_id"`
	UserID     string    `json:"user_id"`
	Recipients []string  `json:"recipients"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(broker, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}}
}

func (p *Producer) Publish(ctx context.Context, ev DispatchEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}
	msg := kafka.Message{Key: []byte(ev.RequestID), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish dispatch event: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
