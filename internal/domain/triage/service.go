package triage

import (
	"context"
	"fmt"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/core/tx"
	"motordesk/internal/domain"
	"motordesk/internal/domain/notification"
	"motordesk/pkg/logger"
)

// Service provides business logic for the triage inbox.
type Service struct {
	contacts   ContactRepository
	leads      LeadRepository
	dispatcher notification.Dispatcher
	txManager  tx.Manager
}

// NewService creates a new triage service.
func NewService(
	contacts ContactRepository,
	leads LeadRepository,
	dispatcher notification.Dispatcher,
	txManager tx.Manager,
) *Service {
	return &Service{
		contacts:   contacts,
		leads:      leads,
		dispatcher: dispatcher,
		txManager:  txManager,
	}
}

// --- Contact messages ---

// SubmitContact records an inbound contact message and alerts operators.
func (s *Service) SubmitContact(ctx context.Context, msg *ContactMessage) error {
	if err := msg.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.contacts.Create(ctx, msg); err != nil {
			return fmt.Errorf("create contact message: %w", err)
		}
		note := notification.Message{
			Event:    "contact.received",
			Title:    "New contact message",
			Body:     fmt.Sprintf("%s wrote: %s", msg.Name, msg.Subject),
			Priority: notification.PriorityNormal,
		}
		if err := s.dispatcher.Send(ctx, note); err != nil {
			return apperror.NewDependencyUnavailable("notification dispatcher", err)
		}
		return nil
	})
}

// GetContact retrieves one contact message.
func (s *Service) GetContact(ctx context.Context, msgID id.ID) (*ContactMessage, error) {
	return s.contacts.GetByID(ctx, msgID)
}

// ListContacts lists contact messages.
func (s *Service) ListContacts(ctx context.Context, filter ContactFilter) (domain.ListResult[*ContactMessage], error) {
	return s.contacts.List(ctx, filter)
}

// UpdateContactStatus moves a contact message to the given status, optionally
// replacing the operator notes. Unknown statuses are rejected; the contact
// vocabulary is not interchangeable with the lead one.
func (s *Service) UpdateContactStatus(ctx context.Context, msgID id.ID, status ContactStatus, notes *string) (*ContactMessage, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidation("unknown contact status").
			WithDetail("field", "status").
			WithDetail("value", string(status))
	}

	msg, err := s.contacts.GetByID(ctx, msgID)
	if err != nil {
		return nil, err
	}

	msg.Status = status
	if notes != nil {
		msg.Notes = *notes
	}
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.contacts.Update(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "contact status updated", "id", msgID, "status", status)
	return msg, nil
}

// --- Leads ---

// SubmitLead records an inbound lead and alerts operators.
func (s *Service) SubmitLead(ctx context.Context, lead *Lead) error {
	if err := lead.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.leads.Create(ctx, lead); err != nil {
			return fmt.Errorf("create lead: %w", err)
		}
		note := notification.Message{
			Event:    "lead.received",
			Title:    "New lead",
			Body:     fmt.Sprintf("%s is interested, contact: %s %s", lead.Name, lead.Email, lead.Phone),
			Priority: notification.PriorityHigh,
		}
		if err := s.dispatcher.Send(ctx, note); err != nil {
			return apperror.NewDependencyUnavailable("notification dispatcher", err)
		}
		return nil
	})
}

// GetLead retrieves one lead.
func (s *Service) GetLead(ctx context.Context, leadID id.ID) (*Lead, error) {
	return s.leads.GetByID(ctx, leadID)
}

// ListLeads lists leads.
func (s *Service) ListLeads(ctx context.Context, filter LeadFilter) (domain.ListResult[*Lead], error) {
	return s.leads.List(ctx, filter)
}

// UpdateLeadStatus moves a lead to the given pipeline status, optionally
// replacing the operator notes.
func (s *Service) UpdateLeadStatus(ctx context.Context, leadID id.ID, status LeadStatus, notes *string) (*Lead, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidation("unknown lead status").
			WithDetail("field", "status").
			WithDetail("value", string(status))
	}

	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	lead.Status = status
	if notes != nil {
		lead.Notes = *notes
	}
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.leads.Update(ctx, lead)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "lead status updated", "id", leadID, "status", status)
	return lead, nil
}
