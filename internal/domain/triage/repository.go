package triage

import (
	"context"

	"motordesk/internal/core/id"
	"motordesk/internal/domain"
)

// ContactFilter narrows contact message listings.
type ContactFilter struct {
	Status *ContactStatus
	Search string
	Limit  int
	Offset int
}

// LeadFilter narrows lead listings.
type LeadFilter struct {
	Status    *LeadStatus
	VehicleID *id.ID
	Search    string
	Limit     int
	Offset    int
}

// ContactRepository persists contact messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	GetByID(ctx context.Context, id id.ID) (*ContactMessage, error)
	Update(ctx context.Context, msg *ContactMessage) error
	List(ctx context.Context, filter ContactFilter) (domain.ListResult[*ContactMessage], error)
}

// LeadRepository persists leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id id.ID) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	List(ctx context.Context, filter LeadFilter) (domain.ListResult[*Lead], error)
}
