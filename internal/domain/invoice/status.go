package invoice

// Status represents the invoice lifecycle state.
type Status string

const (
	// StatusDraft is the initial state: fully editable, no number assigned.
	StatusDraft Status = "draft"

	// StatusSent means the invoice was issued and delivered to the recipient.
	// Content is frozen; only lifecycle actions remain.
	StatusSent Status = "sent"

	// StatusPaid is terminal: payment received.
	StatusPaid Status = "paid"

	// StatusOverdue means the due date passed without payment.
	StatusOverdue Status = "overdue"

	// StatusCancelled is terminal: invoice voided.
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CanTransitionTo reports whether the transition s -> target is allowed.
//
//	draft   -> sent, cancelled
//	sent    -> paid, overdue, cancelled
//	overdue -> paid
//	paid, cancelled -> (terminal)
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSent || target == StatusCancelled
	case StatusSent:
		return target == StatusPaid || target == StatusOverdue || target == StatusCancelled
	case StatusOverdue:
		return target == StatusPaid
	default:
		return false
	}
}

// IsEditable reports whether invoice content may still change.
func (s Status) IsEditable() bool {
	return s == StatusDraft
}
