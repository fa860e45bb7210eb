// Package notify dispatches booking lifecycle events to the notification
// sink. Dispatch is fire-and-forget: a committed booking is never failed
// or rolled back because its notification could not be delivered.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Booking    *model.Booking `json:"booking,omitempty"`
	Date       string         `json:"date"`
	Time       string         `json:"time"`
	OccurredAt string         `json:"occurredAt"`
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *model.Booking) error
	BookingCancelled(ctx context.Context, date, slot string) error
	Close() error
}

// KafkaNotifier publishes events keyed by "date:time" so events for the
// same slot stay ordered within a partition.
type KafkaNotifier struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaNotifier(brokers []string, topic string, log *logger.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka writer error", "error", fmt.Sprintf(msg, args...))
		}),
	}

	return &KafkaNotifier{writer: writer, log: log}
}

func (n *KafkaNotifier) BookingConfirmed(ctx context.Context, booking *model.Booking) error {
	event := Event{
		ID:         uuid.NewString(),
		Type:       EventBookingConfirmed,
		Booking:    booking,
		Date:       booking.Date,
		Time:       booking.Time,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	return n.publish(ctx, event)
}

func (n *KafkaNotifier) BookingCancelled(ctx context.Context, date, slot string) error {
	event := Event{
		ID:         uuid.NewString(),
		Type:       EventBookingCancelled,
		Date:       date,
		Time:       slot,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	return n.publish(ctx, event)
}

func (n *KafkaNotifier) publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Date + ":" + event.Time),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte("slotbook")},
		},
	})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NopNotifier serves deployments without a broker configured.
type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(context.Context, *model.Booking) error { return nil }
func (NopNotifier) BookingCancelled(context.Context, string, string) error { return nil }
func (NopNotifier) Close() error                                           { return nil }
