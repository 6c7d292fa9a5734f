package triage_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/domain"
	"motordesk/internal/domain/triage"
	"motordesk/internal/infrastructure/storage/postgres"
)

const leadsTable = "inbox_leads"

// LeadRepo implements triage.LeadRepository.
type LeadRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewLeadRepo creates a new lead repository.
func NewLeadRepo(txManager *postgres.TxManager) *LeadRepo {
	return &LeadRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[triage.Lead](),
	}
}

var _ triage.LeadRepository = (*LeadRepo)(nil)

// Create inserts a new lead.
func (r *LeadRepo) Create(ctx context.Context, lead *triage.Lead) error {
	q := builder().
		Insert(leadsTable).
		SetMap(postgres.StructToMap(lead))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", leadsTable, err)
	}
	return nil
}

// GetByID retrieves a lead.
func (r *LeadRepo) GetByID(ctx context.Context, leadID id.ID) (*triage.Lead, error) {
	q := builder().
		Select(r.selectCols...).
		From(leadsTable).
		Where(squirrel.Eq{"id": leadID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lead triage.Lead
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &lead, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("lead", leadID.String())
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

// Update rewrites the lead with optimistic locking.
func (r *LeadRepo) Update(ctx context.Context, lead *triage.Lead) error {
	data := postgres.StructToMap(lead)
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")

	q := builder().
		Update(leadsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": lead.ID}).
		Where(squirrel.Eq{"version": lead.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", leadsTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("lead", lead.ID.String())
	}

	lead.Version++
	return nil
}

// List retrieves leads, newest first.
func (r *LeadRepo) List(ctx context.Context, filter triage.LeadFilter) (domain.ListResult[*triage.Lead], error) {
	result := domain.ListResult[*triage.Lead]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := builder().
		Select(r.selectCols...).
		From(leadsTable).
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	if filter.VehicleID != nil {
		q = q.Where(squirrel.Eq{"vehicle_id": *filter.VehicleID})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}

	countQ := builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC")
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

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list leads: %w", err)
	}

	return result, nil
}
