// Package notification defines the contract for operator notifications.
// Implementations live in the infrastructure layer; the default one writes
// to the transactional outbox so delivery survives crashes.
package notification

import "context"

// Priority of a notification.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Message is a notification to back-office operators.
type Message struct {
	// Event is a machine-readable event name (e.g. "invoice.sent")
	Event string `json:"event"`

	// Title is the short headline
	Title string `json:"title"`

	// Body is the full text
	Body string `json:"body"`

	Priority Priority `json:"priority"`

	// TargetUserID addresses a single operator; nil broadcasts to all.
	TargetUserID *string `json:"targetUserId,omitempty"`
}

// Dispatcher delivers notifications.
// Send must be safe to call inside a database transaction: outbox-backed
// implementations enqueue within the caller's transaction.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}
