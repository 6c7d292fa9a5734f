// Package triage_repo provides PostgreSQL implementations for the
// contact message and lead inboxes.
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

const contactsTable = "inbox_contact_messages"

// ContactRepo implements triage.ContactRepository.
type ContactRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewContactRepo creates a new contact message repository.
func NewContactRepo(txManager *postgres.TxManager) *ContactRepo {
	return &ContactRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[triage.ContactMessage](),
	}
}

var _ triage.ContactRepository = (*ContactRepo)(nil)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new contact message.
func (r *ContactRepo) Create(ctx context.Context, msg *triage.ContactMessage) error {
	q := builder().
		Insert(contactsTable).
		SetMap(postgres.StructToMap(msg))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", contactsTable, err)
	}
	return nil
}

// GetByID retrieves a contact message.
func (r *ContactRepo) GetByID(ctx context.Context, msgID id.ID) (*triage.ContactMessage, error) {
	q := builder().
		Select(r.selectCols...).
		From(contactsTable).
		Where(squirrel.Eq{"id": msgID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var msg triage.ContactMessage
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &msg, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("contact message", msgID.String())
		}
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	return &msg, nil
}

// Update rewrites the message with optimistic locking.
func (r *ContactRepo) Update(ctx context.Context, msg *triage.ContactMessage) error {
	data := postgres.StructToMap(msg)
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")

	q := builder().
		Update(contactsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": msg.ID}).
		Where(squirrel.Eq{"version": msg.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", contactsTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("contact message", msg.ID.String())
	}

	msg.Version++
	return nil
}

// List retrieves contact messages, newest first.
func (r *ContactRepo) List(ctx context.Context, filter triage.ContactFilter) (domain.ListResult[*triage.ContactMessage], error) {
	result := domain.ListResult[*triage.ContactMessage]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := builder().
		Select(r.selectCols...).
		From(contactsTable).
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"subject": pattern},
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
		return result, fmt.Errorf("list contact messages: %w", err)
	}

	return result, nil
}
