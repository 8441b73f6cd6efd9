package events

import (
	"context"

	"reservio/pkg/logger"
	"reservio/pkg/model"
)

// Notifier is the service-facing surface. Publishing is best-effort: a
// broker outage must never fail the reservation operation itself.
type Notifier interface {
	ReservationCreated(ctx context.Context, r *model.Reservation)
	ReservationUpdated(ctx context.Context, r *model.Reservation)
	ReservationCancelled(ctx context.Context, r *model.Reservation)
}

type kafkaNotifier struct {
	producer *Producer
	log      *logger.Logger
}

func NewKafkaNotifier(producer *Producer, log *logger.Logger) Notifier {
	return &kafkaNotifier{producer: producer, log: log}
}

func (n *kafkaNotifier) ReservationCreated(ctx context.Context, r *model.Reservation) {
	n.publish(ctx, TypeReservationCreated, r)
}

func (n *kafkaNotifier) ReservationUpdated(ctx context.Context, r *model.Reservation) {
	n.publish(ctx, TypeReservationUpdated, r)
}

func (n *kafkaNotifier) ReservationCancelled(ctx context.Context, r *model.Reservation) {
	n.publish(ctx, TypeReservationCancelled, r)
}

func (n *kafkaNotifier) publish(ctx context.Context, eventType string, r *model.Reservation) {
	msg, err := NewMessage(eventType, r.ObjectID, r)
	if err != nil {
		n.log.Error("Failed to encode reservation event",
			"event_type", eventType, "reservation_id", r.ID, "error", err)
		return
	}

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish reservation event",
			"event_type", eventType, "reservation_id", r.ID, "error", err)
		return
	}

	n.log.Debug("Reservation event published",
		"event_type", eventType, "reservation_id", r.ID, "object_id", r.ObjectID)
}

type noopNotifier struct{}

// NewNoopNotifier is used when no Kafka brokers are configured.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) ReservationCreated(context.Context, *model.Reservation)   {}
func (noopNotifier) ReservationUpdated(context.Context, *model.Reservation)   {}
func (noopNotifier) ReservationCancelled(context.Context, *model.Reservation) {}
