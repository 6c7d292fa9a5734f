// Package notify provides the outbox-backed notification dispatcher and
// the worker-side delivery handler.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"motordesk/internal/domain/notification"
	"motordesk/internal/infrastructure/storage/postgres"
	"motordesk/pkg/logger"
)

// OutboxDispatcher implements notification.Dispatcher by enqueueing the
// message into the transactional outbox. The enqueue rides the caller's
// transaction, so a rolled-back business change never leaks a notification.
type OutboxDispatcher struct {
	publisher *postgres.OutboxPublisher
}

// NewOutboxDispatcher creates a dispatcher writing to the outbox.
func NewOutboxDispatcher(publisher *postgres.OutboxPublisher) *OutboxDispatcher {
	return &OutboxDispatcher{publisher: publisher}
}

var _ notification.Dispatcher = (*OutboxDispatcher)(nil)

// Send enqueues the notification. Must be called inside a transaction.
func (d *OutboxDispatcher) Send(ctx context.Context, msg notification.Message) error {
	if msg.Event == "" {
		return fmt.Errorf("notification event is required")
	}
	if msg.Priority == "" {
		msg.Priority = notification.PriorityNormal
	}
	return d.publisher.Publish(ctx, msg.Event, msg)
}

// DeliveryHandler is the worker-side postgres.OutboxHandler. Actual email
// or push delivery sits behind a gateway in production; here delivery is
// a structured log record, which is enough for the back office screens
// that read notifications straight from the outbox table.
type DeliveryHandler struct{}

// NewDeliveryHandler creates the delivery handler.
func NewDeliveryHandler() *DeliveryHandler {
	return &DeliveryHandler{}
}

var _ postgres.OutboxHandler = (*DeliveryHandler)(nil)

// Handle delivers a single outbox message.
func (h *DeliveryHandler) Handle(ctx context.Context, outboxMsg *postgres.OutboxMessage) error {
	var msg notification.Message
	if err := json.Unmarshal(outboxMsg.Payload, &msg); err != nil {
		return fmt.Errorf("unmarshal notification payload: %w", err)
	}

	target := "broadcast"
	if msg.TargetUserID != nil {
		target = *msg.TargetUserID
	}

	logger.Info(ctx, "notification delivered",
		"event", msg.Event,
		"title", msg.Title,
		"priority", string(msg.Priority),
		"target", target,
		"message_id", outboxMsg.ID.String(),
	)
	return nil
}
