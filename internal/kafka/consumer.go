package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer reads the search topic and hands decoded events to a handler.
// Malformed payloads are logged and skipped so one bad message cannot wedge
// the consumer group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			// Search events are small JSON documents; don't wait to batch them.
			MinBytes:          1,
			MaxBytes:          1 << 20,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks delivering events until the context is canceled, the reader
// fails, or the handler returns an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, SearchEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeSearchEvent(msg.Value)
		if err != nil {
			log.Printf("skip event at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeSearchEvent(value []byte) (SearchEvent, error) {
	var event SearchEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return SearchEvent{}, fmt.Errorf("decode search event: %w", err)
	}
	if event.Reference == "" {
		return SearchEvent{}, fmt.Errorf("search event has no reference")
	}
	return event, nil
}
