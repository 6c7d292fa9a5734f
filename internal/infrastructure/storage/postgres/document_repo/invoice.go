// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/core/types"
	"motordesk/internal/domain"
	"motordesk/internal/domain/invoice"
	"motordesk/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable     = "doc_invoices"
	invoiceLinesTable = "doc_invoice_lines"
)

// invoiceRow is the flat table shape of an invoice. Recipient and vehicle
// snapshots are stored as columns on the document row, not as references:
// the invoice must read the same forever, whatever happens to the catalogs.
type invoiceRow struct {
	ID           id.ID     `db:"id"`
	DeletionMark bool      `db:"deletion_mark"`
	Version      int       `db:"version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	CreatedBy    string    `db:"created_by"`
	UpdatedBy    string    `db:"updated_by"`

	Number  string    `db:"number"`
	Date    time.Time `db:"date"`
	Comment string    `db:"comment"`

	Status string `db:"status"`

	RecipientID      id.ID  `db:"recipient_id"`
	RecipientName    string `db:"recipient_name"`
	RecipientEmail   string `db:"recipient_email"`
	RecipientPhone   string `db:"recipient_phone"`
	RecipientAddress string `db:"recipient_address"`

	VehicleID        *id.ID       `db:"vehicle_id"`
	VehicleMake      *string      `db:"vehicle_make"`
	VehicleModel     *string      `db:"vehicle_model"`
	VehicleYear      *int         `db:"vehicle_year"`
	VehicleColor     *string      `db:"vehicle_color"`
	VehicleTrim      *string      `db:"vehicle_trim"`
	VehicleVIN       *string      `db:"vehicle_vin"`
	VehicleListPrice *types.Money `db:"vehicle_list_price"`

	DueDate   time.Time   `db:"due_date"`
	TaxRate   types.Money `db:"tax_rate"`
	Discount  types.Money `db:"discount"`
	Subtotal  types.Money `db:"subtotal"`
	TaxAmount types.Money `db:"tax_amount"`
	Total     types.Money `db:"total"`
}

func toRow(inv *invoice.Invoice) *invoiceRow {
	row := &invoiceRow{
		ID:           inv.ID,
		DeletionMark: inv.DeletionMark,
		Version:      inv.Version,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
		CreatedBy:    inv.CreatedBy,
		UpdatedBy:    inv.UpdatedBy,

		Number:  inv.Number,
		Date:    inv.Date,
		Comment: inv.Comment,

		Status: string(inv.Status),

		RecipientID:      inv.RecipientID,
		RecipientName:    inv.Recipient.Name,
		RecipientEmail:   inv.Recipient.Email,
		RecipientPhone:   inv.Recipient.Phone,
		RecipientAddress: inv.Recipient.Address,

		VehicleID: inv.VehicleID,

		DueDate:   inv.DueDate,
		TaxRate:   inv.TaxRate,
		Discount:  inv.Discount,
		Subtotal:  inv.Subtotal,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
	}

	if inv.Vehicle != nil {
		v := inv.Vehicle
		price := v.ListPrice
		row.VehicleMake = &v.Make
		row.VehicleModel = &v.Model
		row.VehicleYear = &v.Year
		row.VehicleColor = &v.Color
		row.VehicleTrim = &v.Trim
		row.VehicleVIN = &v.VIN
		row.VehicleListPrice = &price
	}

	return row
}

func fromRow(row *invoiceRow) *invoice.Invoice {
	inv := &invoice.Invoice{
		Status:      invoice.Status(row.Status),
		RecipientID: row.RecipientID,
		Recipient: invoice.RecipientSnapshot{
			Name:    row.RecipientName,
			Email:   row.RecipientEmail,
			Phone:   row.RecipientPhone,
			Address: row.RecipientAddress,
		},
		VehicleID: row.VehicleID,
		DueDate:   row.DueDate,
		TaxRate:   row.TaxRate,
		Discount:  row.Discount,
		Subtotal:  row.Subtotal,
		TaxAmount: row.TaxAmount,
		Total:     row.Total,
	}

	inv.ID = row.ID
	inv.DeletionMark = row.DeletionMark
	inv.Version = row.Version
	inv.CreatedAt = row.CreatedAt
	inv.UpdatedAt = row.UpdatedAt
	inv.CreatedBy = row.CreatedBy
	inv.UpdatedBy = row.UpdatedBy
	inv.Number = row.Number
	inv.Date = row.Date
	inv.Comment = row.Comment

	if row.VehicleID != nil {
		snap := &invoice.VehicleSnapshot{}
		if row.VehicleMake != nil {
			snap.Make = *row.VehicleMake
		}
		if row.VehicleModel != nil {
			snap.Model = *row.VehicleModel
		}
		if row.VehicleYear != nil {
			snap.Year = *row.VehicleYear
		}
		if row.VehicleColor != nil {
			snap.Color = *row.VehicleColor
		}
		if row.VehicleTrim != nil {
			snap.Trim = *row.VehicleTrim
		}
		if row.VehicleVIN != nil {
			snap.VIN = *row.VehicleVIN
		}
		if row.VehicleListPrice != nil {
			snap.ListPrice = *row.VehicleListPrice
		}
		inv.Vehicle = snap
	}

	return inv
}

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[invoiceRow](),
	}
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// Builder returns a new squirrel builder.
func (r *InvoiceRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InvoiceRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *InvoiceRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(invoicesTable)
}

// Create inserts the invoice with its lines.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	data := postgres.StructToMap(toRow(inv))

	q := r.Builder().
		Insert(invoicesTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", invoicesTable, err)
	}

	return r.saveLines(ctx, inv.ID, inv.Lines)
}

// GetByID retrieves the invoice with its lines.
func (r *InvoiceRepo) GetByID(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": docID})

	return r.getOne(ctx, q, docID.String())
}

// GetByNumber retrieves an issued invoice by its number.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"number": number})

	return r.getOne(ctx, q, number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*invoice.Invoice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row invoiceRow
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", key)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	inv := fromRow(&row)
	lines, err := r.getLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines

	return inv, nil
}

// Update rewrites the invoice and its lines with optimistic locking.
func (r *InvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	data := postgres.StructToMap(toRow(inv))

	// Immutable and repo-managed columns never appear in SET.
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")
	delete(data, "created_by")
	delete(data, "updated_at")

	q := r.Builder().
		Update(invoicesTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": inv.ID}).
		Where(squirrel.Eq{"version": inv.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", invoicesTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("invoice", inv.ID.String())
	}

	inv.Version++
	return r.saveLines(ctx, inv.ID, inv.Lines)
}

// Delete physically removes the invoice and its lines.
func (r *InvoiceRepo) Delete(ctx context.Context, docID id.ID) error {
	querier := r.querier(ctx)

	if _, err := querier.Exec(ctx, "DELETE FROM "+invoiceLinesTable+" WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	result, err := querier.Exec(ctx, "DELETE FROM "+invoicesTable+" WHERE id = $1", docID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", docID.String())
	}

	return nil
}

// List retrieves invoices with filtering and pagination. Lines are not
// loaded for listings; the totals on the document row are enough there.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	if filter.RecipientID != nil {
		q = q.Where(squirrel.Eq{"recipient_id": *filter.RecipientID})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"recipient_name": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var rows []*invoiceRow
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	result.Items = make([]*invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		result.Items = append(result.Items, fromRow(row))
	}

	return result, nil
}

// ListPastDue returns sent invoices whose due date is before the cutoff.
func (r *InvoiceRepo) ListPastDue(ctx context.Context, cutoff time.Time, limit int) ([]*invoice.Invoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"status": string(invoice.StatusSent)}).
		Where(squirrel.Lt{"due_date": cutoff}).
		OrderBy("due_date ASC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*invoiceRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list past due: %w", err)
	}

	items := make([]*invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	return items, nil
}

// --- Lines ---

func (r *InvoiceRepo) getLines(ctx context.Context, docID id.ID) ([]invoice.LineItem, error) {
	q := r.Builder().
		Select("line_id", "line_no", "description", "quantity", "unit_price", "total").
		From(invoiceLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []invoice.LineItem
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// saveLines replaces the full line set of the document.
func (r *InvoiceRepo) saveLines(ctx context.Context, docID id.ID, lines []invoice.LineItem) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + invoiceLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(invoiceLinesTable).
		Columns("line_id", "document_id", "line_no", "description", "quantity", "unit_price", "total")

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.LineNo, line.Description, line.Quantity, line.UnitPrice, line.Total)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

func (r *InvoiceRepo) parseOrderBy(orderBy string) (string, error) {
	allowed := map[string]struct{}{
		"id": {}, "number": {}, "date": {}, "due_date": {},
		"status": {}, "total": {}, "recipient_name": {},
		"created_at": {}, "updated_at": {},
	}

	if strings.TrimSpace(orderBy) == "" {
		return "date DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}
