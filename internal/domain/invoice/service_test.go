package invoice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/core/numerator"
	"motordesk/internal/domain"
	"motordesk/internal/domain/catalogs/recipient"
	"motordesk/internal/domain/catalogs/vehicle"
	"motordesk/internal/domain/notification"
)

// --- Test doubles ---

// fakeRepo is an in-memory invoice store. GetByID hands out copies so
// uncommitted mutations never leak into the store.
type fakeRepo struct {
	invoices map[id.ID]*Invoice
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{invoices: make(map[id.ID]*Invoice)}
}

func (r *fakeRepo) clone(inv *Invoice) *Invoice {
	cp := *inv
	cp.Lines = append([]LineItem(nil), inv.Lines...)
	if inv.Vehicle != nil {
		v := *inv.Vehicle
		cp.Vehicle = &v
	}
	return &cp
}

func (r *fakeRepo) Create(ctx context.Context, inv *Invoice) error {
	r.invoices[inv.ID] = r.clone(inv)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	inv, ok := r.invoices[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	return r.clone(inv), nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	for _, inv := range r.invoices {
		if inv.Number == number {
			return r.clone(inv), nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeRepo) Update(ctx context.Context, inv *Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return apperror.NewNotFound("invoice", inv.ID.String())
	}
	r.invoices[inv.ID] = r.clone(inv)
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.invoices, docID)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	var items []*Invoice
	for _, inv := range r.invoices {
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		items = append(items, r.clone(inv))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return domain.ListResult[*Invoice]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) ListPastDue(ctx context.Context, cutoff time.Time, limit int) ([]*Invoice, error) {
	var items []*Invoice
	for _, inv := range r.invoices {
		if inv.Status == StatusSent && inv.DueDate.Before(cutoff) {
			items = append(items, r.clone(inv))
		}
	}
	return items, nil
}

// fakeTxManager emulates rollback by snapshotting the repo before the
// function runs and restoring it on error.
type fakeTxManager struct {
	repo *fakeRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[id.ID]*Invoice, len(m.repo.invoices))
	for k, v := range m.repo.invoices {
		snapshot[k] = m.repo.clone(v)
	}
	if err := fn(ctx); err != nil {
		m.repo.invoices = snapshot
		return err
	}
	return nil
}

// fakeDispatcher records sent messages and can be switched to fail.
type fakeDispatcher struct {
	messages []notification.Message
	fail     bool
}

func (d *fakeDispatcher) Send(ctx context.Context, msg notification.Message) error {
	if d.fail {
		return errors.New("outbox insert failed")
	}
	d.messages = append(d.messages, msg)
	return nil
}

type fakeRecipients struct {
	byID map[id.ID]*recipient.Recipient
}

func (f *fakeRecipients) GetByID(ctx context.Context, rid id.ID) (*recipient.Recipient, error) {
	if r, ok := f.byID[rid]; ok {
		return r, nil
	}
	return nil, apperror.NewNotFound("recipient", rid.String())
}

type fakeVehicles struct {
	byID map[id.ID]*vehicle.Vehicle
}

func (f *fakeVehicles) GetByID(ctx context.Context, vid id.ID) (*vehicle.Vehicle, error) {
	if v, ok := f.byID[vid]; ok {
		return v, nil
	}
	return nil, apperror.NewNotFound("vehicle", vid.String())
}

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	dispatcher *fakeDispatcher
	recipient  *recipient.Recipient
	vehicle    *vehicle.Vehicle
	numbers    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rcp := recipient.NewRecipient("Dana Malik", "dana@example.com")
	veh := vehicle.NewVehicle("Toyota", "Land Cruiser", 2025)
	veh.ListPrice = money("120000")

	f := &fixture{
		repo:       newFakeRepo(),
		dispatcher: &fakeDispatcher{},
		recipient:  rcp,
		vehicle:    veh,
	}

	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			f.numbers++
			return fmt.Sprintf("%s-%d-%05d", cfg.Prefix, period.Year(), f.numbers), nil
		},
	}

	f.svc = NewService(
		f.repo,
		&fakeRecipients{byID: map[id.ID]*recipient.Recipient{rcp.ID: rcp}},
		&fakeVehicles{byID: map[id.ID]*vehicle.Vehicle{veh.ID: veh}},
		gen,
		f.dispatcher,
		&fakeTxManager{repo: f.repo},
	)
	return f
}

func (f *fixture) createDraft(t *testing.T) *Invoice {
	t.Helper()
	inv, err := f.svc.CreateDraft(context.Background(), CreateDraftInput{
		RecipientID: f.recipient.ID,
		VehicleID:   &f.vehicle.ID,
	})
	require.NoError(t, err)
	return inv
}

// --- Tests ---

func TestCreateDraft_PrefillsFromCatalogs(t *testing.T) {
	f := newFixture(t)
	inv := f.createDraft(t)

	assert.Equal(t, StatusDraft, inv.Status)
	assert.Equal(t, "Dana Malik", inv.Recipient.Name)
	require.NotNil(t, inv.Vehicle)
	assert.Equal(t, "Toyota", inv.Vehicle.Make)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Toyota Land Cruiser 2025", inv.Lines[0].Description)
	assert.True(t, inv.Lines[0].UnitPrice.Equal(money("120000")))

	stored, err := f.repo.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, stored.Status)
}

func TestCreateDraft_UnknownRecipient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateDraft(context.Background(), CreateDraftInput{RecipientID: id.New()})
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestIssueAndSend(t *testing.T) {
	f := newFixture(t)
	draft := f.createDraft(t)

	issued, err := f.svc.IssueAndSend(context.Background(), draft.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusSent, issued.Status)
	assert.NotEmpty(t, issued.Number)

	stored, err := f.repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, stored.Status)
	assert.Equal(t, issued.Number, stored.Number)

	require.Len(t, f.dispatcher.messages, 1)
	assert.Equal(t, "invoice.sent", f.dispatcher.messages[0].Event)
}

func TestIssueAndSend_InvalidDraftRejected(t *testing.T) {
	f := newFixture(t)
	inv, err := f.svc.CreateDraft(context.Background(), CreateDraftInput{RecipientID: f.recipient.ID})
	require.NoError(t, err)

	// The blank placeholder line has no description: issuance must fail.
	_, err = f.svc.IssueAndSend(context.Background(), inv.ID)
	assert.True(t, apperror.IsValidation(err), "got %v", err)

	stored, gerr := f.repo.GetByID(context.Background(), inv.ID)
	require.NoError(t, gerr)
	assert.Equal(t, StatusDraft, stored.Status)
	assert.Empty(t, stored.Number)
	assert.Empty(t, f.dispatcher.messages)
}

func TestIssueAndSend_DispatcherFailureIsRecoverable(t *testing.T) {
	f := newFixture(t)
	draft := f.createDraft(t)

	f.dispatcher.fail = true
	_, err := f.svc.IssueAndSend(context.Background(), draft.ID)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, apperror.CodeDependencyUnavailable, appErr.Code)

	// The transaction rolled back: the invoice is still an unnumbered draft.
	stored, gerr := f.repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, gerr)
	assert.Equal(t, StatusDraft, stored.Status)
	assert.Empty(t, stored.Number)

	// Once the dependency recovers, the same draft issues cleanly.
	f.dispatcher.fail = false
	issued, err := f.svc.IssueAndSend(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, issued.Status)
}

func TestIssueAndSend_TwiceRejected(t *testing.T) {
	f := newFixture(t)
	draft := f.createDraft(t)

	issued, err := f.svc.IssueAndSend(context.Background(), draft.ID)
	require.NoError(t, err)

	_, err = f.svc.IssueAndSend(context.Background(), draft.ID)
	assert.True(t, apperror.IsInvalidTransition(err), "got %v", err)

	stored, gerr := f.repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, gerr)
	assert.Equal(t, issued.Number, stored.Number, "number must never change")
}

func TestUpdateDraft_EmptyLinesRejected(t *testing.T) {
	f := newFixture(t)
	draft := f.createDraft(t)

	edited, err := f.repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, err)
	edited.Lines = nil

	err = f.svc.UpdateDraft(context.Background(), edited)
	assert.True(t, apperror.IsValidation(err), "got %v", err)

	// The stored draft keeps its lines.
	stored, gerr := f.repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, gerr)
	require.NotEmpty(t, stored.Lines)
}

func TestUpdateDraft_FrozenAfterIssuance(t *testing.T) {
	f := newFixture(t)
	draft := f.createDraft(t)
	_, err := f.svc.IssueAndSend(context.Background(), draft.ID)
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, err)
	stored.AddLine("Extra fee", 1, money("100"))

	err = f.svc.UpdateDraft(context.Background(), stored)
	assert.True(t, apperror.IsInvalidTransition(err), "got %v", err)
}

func TestDelete_DraftOnly(t *testing.T) {
	f := newFixture(t)
	draft := f.createDraft(t)

	sent := f.createDraft(t)
	_, err := f.svc.IssueAndSend(context.Background(), sent.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), draft.ID))
	_, err = f.repo.GetByID(context.Background(), draft.ID)
	assert.True(t, apperror.IsNotFound(err))

	err = f.svc.Delete(context.Background(), sent.ID)
	assert.True(t, apperror.IsInvalidTransition(err), "got %v", err)
}

func TestMarkPaidAndCancel(t *testing.T) {
	f := newFixture(t)
	draft := f.createDraft(t)
	_, err := f.svc.IssueAndSend(context.Background(), draft.ID)
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)

	// Terminal: cancel after payment must fail and change nothing.
	_, err = f.svc.Cancel(context.Background(), draft.ID)
	assert.True(t, apperror.IsInvalidTransition(err), "got %v", err)

	stored, gerr := f.repo.GetByID(context.Background(), draft.ID)
	require.NoError(t, gerr)
	assert.Equal(t, StatusPaid, stored.Status)
}

func TestMarkOverdueInvoices(t *testing.T) {
	f := newFixture(t)

	late := f.createDraft(t)
	_, err := f.svc.IssueAndSend(context.Background(), late.ID)
	require.NoError(t, err)

	onTime := f.createDraft(t)
	_, err = f.svc.IssueAndSend(context.Background(), onTime.ID)
	require.NoError(t, err)

	// Push one invoice past its due date directly in the store.
	stored := f.repo.invoices[late.ID]
	stored.DueDate = time.Now().AddDate(0, 0, -5)

	f.dispatcher.messages = nil
	marked, err := f.svc.MarkOverdueInvoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := f.repo.GetByID(context.Background(), late.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, got.Status)

	untouched, err := f.repo.GetByID(context.Background(), onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, untouched.Status)

	require.Len(t, f.dispatcher.messages, 1)
	assert.Equal(t, "invoice.overdue", f.dispatcher.messages[0].Event)
}
