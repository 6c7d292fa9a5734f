package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"motordesk/internal/core/apperror"
	"motordesk/internal/domain/catalogs/recipient"
	"motordesk/internal/infrastructure/storage/postgres"
)

const recipientTable = "cat_recipients"

// RecipientRepo implements recipient.Repository.
type RecipientRepo struct {
	*BaseCatalogRepo[*recipient.Recipient]
}

// NewRecipientRepo creates a new recipient repository.
func NewRecipientRepo(txManager *postgres.TxManager) *RecipientRepo {
	return &RecipientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*recipient.Recipient](
			txManager,
			recipientTable,
			postgres.ExtractDBColumns[recipient.Recipient](),
			func() *recipient.Recipient { return &recipient.Recipient{} },
		),
	}
}

// FindByEmail retrieves recipient by email.
func (r *RecipientRepo) FindByEmail(ctx context.Context, email string) (*recipient.Recipient, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	rcp, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("recipient", email)
		}
		return nil, err
	}
	return rcp, nil
}

var _ recipient.Repository = (*RecipientRepo)(nil)
