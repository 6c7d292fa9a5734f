package invoice

import (
	"context"
	"fmt"
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/core/numerator"
	"motordesk/internal/core/tx"
	"motordesk/internal/core/types"
	"motordesk/internal/domain"
	"motordesk/internal/domain/catalogs/recipient"
	"motordesk/internal/domain/catalogs/vehicle"
	"motordesk/internal/domain/notification"
	"motordesk/pkg/logger"
)

// Invoice numbers must be gapless within a year, so the numerator runs in
// strict mode inside the issuing transaction: a rollback releases the number.
const numberPrefix = "INV"

// RecipientLookup resolves recipients for draft prefill.
type RecipientLookup interface {
	GetByID(ctx context.Context, id id.ID) (*recipient.Recipient, error)
}

// VehicleLookup resolves vehicles for draft prefill.
type VehicleLookup interface {
	GetByID(ctx context.Context, id id.ID) (*vehicle.Vehicle, error)
}

// Service provides business operations for invoices.
type Service struct {
	repo       Repository
	recipients RecipientLookup
	vehicles   VehicleLookup
	numerator  numerator.Generator
	dispatcher notification.Dispatcher
	txManager  tx.Manager

	now func() time.Time
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	recipients RecipientLookup,
	vehicles VehicleLookup,
	gen numerator.Generator,
	dispatcher notification.Dispatcher,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		recipients: recipients,
		vehicles:   vehicles,
		numerator:  gen,
		dispatcher: dispatcher,
		txManager:  txManager,
		now:        time.Now,
	}
}

// CreateDraftInput carries the optional prefill parameters for a new draft.
type CreateDraftInput struct {
	RecipientID id.ID
	VehicleID   *id.ID
	DueDate     *time.Time
	TaxRate     *types.Money
	Discount    *types.Money
	Comment     string
}

// CreateDraft creates a draft invoice prefilled from the recipient directory
// and, when a vehicle is given, from the vehicle catalog. Drafts are saved
// without full content validation: the operator finishes them later and the
// strict check runs at issuance.
func (s *Service) CreateDraft(ctx context.Context, input CreateDraftInput) (*Invoice, error) {
	rcp, err := s.recipients.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}

	inv := NewInvoice(rcp.ID, RecipientSnapshot{
		Name:    rcp.Name,
		Email:   rcp.Email,
		Phone:   strOrEmpty(rcp.Phone),
		Address: strOrEmpty(rcp.Address),
	})

	if input.VehicleID != nil {
		veh, err := s.vehicles.GetByID(ctx, *input.VehicleID)
		if err != nil {
			return nil, err
		}
		inv.ApplyVehicle(veh.ID, VehicleSnapshot{
			Make:      veh.Make,
			Model:     veh.Model,
			Year:      veh.Year,
			Color:     strOrEmpty(veh.Color),
			Trim:      strOrEmpty(veh.Trim),
			VIN:       strOrEmpty(veh.VIN),
			ListPrice: veh.ListPrice,
		}, veh.DisplayName())
	}

	if input.DueDate != nil {
		inv.DueDate = *input.DueDate
	}
	if input.TaxRate != nil {
		inv.TaxRate = *input.TaxRate
	}
	if input.Discount != nil {
		inv.Discount = *input.Discount
	}
	inv.Comment = input.Comment
	inv.RecalculateTotals()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice draft created", "id", inv.ID, "recipient", inv.Recipient.Name)
	return inv, nil
}

// GetByID retrieves an invoice with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	return s.repo.GetByID(ctx, docID)
}

// UpdateDraft saves edits to a draft. Issued invoices are frozen: any
// content change after issuance is rejected. Totals are always recomputed
// server-side before saving; client-supplied totals are ignored.
func (s *Service) UpdateDraft(ctx context.Context, inv *Invoice) error {
	current, err := s.repo.GetByID(ctx, inv.ID)
	if err != nil {
		return err
	}

	if !current.Status.IsEditable() {
		return apperror.NewInvalidTransition(string(current.Status), "update")
	}

	// Drafts skip full content validation, but the line collection must
	// never reach zero length, same as RemoveLine enforces.
	if len(inv.Lines) == 0 {
		return apperror.NewValidation("invoice must have at least one line").
			WithDetail("field", "lines")
	}

	// Number and status are not editable through this path.
	inv.Number = current.Number
	inv.Status = current.Status
	inv.RecalculateTotals()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		return nil
	})
}

// IssueAndSend validates the draft, assigns its permanent number and moves it
// to sent, then enqueues the recipient notification. Everything runs in one
// transaction: if the notification cannot be enqueued, the invoice stays a
// draft and the number is released with the rollback.
func (s *Service) IssueAndSend(ctx context.Context, docID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	inv.RecalculateTotals()
	if err := inv.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cfg := numerator.DefaultConfig(numberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyStrict}, s.now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		if err := inv.Issue(number); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		msg := notification.Message{
			Event:    "invoice.sent",
			Title:    fmt.Sprintf("Invoice %s sent", inv.Number),
			Body:     fmt.Sprintf("Invoice %s for %s (%s) was sent to %s.", inv.Number, inv.Recipient.Name, inv.Total.StringFixed(2), inv.Recipient.Email),
			Priority: notification.PriorityNormal,
		}
		if err := s.dispatcher.Send(ctx, msg); err != nil {
			return apperror.NewDependencyUnavailable("notification dispatcher", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice issued", "id", inv.ID, "number", inv.Number)
	return inv, nil
}

// MarkPaid records payment for a sent or overdue invoice.
func (s *Service) MarkPaid(ctx context.Context, docID id.ID) (*Invoice, error) {
	return s.applyTransition(ctx, docID, func(inv *Invoice) error { return inv.MarkPaid() }, "invoice paid")
}

// Cancel voids a draft or sent invoice.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*Invoice, error) {
	return s.applyTransition(ctx, docID, func(inv *Invoice) error { return inv.Cancel() }, "invoice cancelled")
}

func (s *Service) applyTransition(ctx context.Context, docID id.ID, apply func(*Invoice) error, logMsg string) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := apply(inv); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, logMsg, "id", inv.ID, "number", inv.Number, "status", inv.Status)
	return inv, nil
}

// Delete removes a draft invoice. Issued invoices are part of the audit
// trail and can only be cancelled, never deleted.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	inv, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if inv.Status != StatusDraft {
		return apperror.NewInvalidTransition(string(inv.Status), "delete")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return nil
	})
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// sweepBatchSize bounds one overdue sweep pass.
const sweepBatchSize = 200

// MarkOverdueInvoices flips sent invoices past their due date to overdue and
// notifies operators. Returns the number of invoices transitioned. Run
// periodically by the worker; reads in between rely on EffectiveStatus.
func (s *Service) MarkOverdueInvoices(ctx context.Context) (int, error) {
	pastDue, err := s.repo.ListPastDue(ctx, s.now(), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list past due: %w", err)
	}

	marked := 0
	for _, inv := range pastDue {
		inv := inv
		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := inv.MarkOverdue(); err != nil {
				return err
			}
			if err := s.repo.Update(ctx, inv); err != nil {
				return fmt.Errorf("update invoice: %w", err)
			}
			msg := notification.Message{
				Event:    "invoice.overdue",
				Title:    fmt.Sprintf("Invoice %s is overdue", inv.Number),
				Body:     fmt.Sprintf("Invoice %s for %s was due on %s.", inv.Number, inv.Recipient.Name, inv.DueDate.Format("2006-01-02")),
				Priority: notification.PriorityHigh,
			}
			if err := s.dispatcher.Send(ctx, msg); err != nil {
				return apperror.NewDependencyUnavailable("notification dispatcher", err)
			}
			return nil
		})
		if err != nil {
			// A concurrent payment or cancellation is fine; skip and move on.
			if apperror.IsInvalidTransition(err) || apperror.IsConcurrentModification(err) {
				continue
			}
			return marked, err
		}
		marked++
	}

	return marked, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
