package transaction

import (
	"context"

	"github.com/xraph/mint/id"
)

// Store is the storage contract for the audit trail. It is append-only:
// there is deliberately no update or delete.
type Store interface {
	Append(ctx context.Context, t *Transaction) error

	// List returns an economy's rows in append order.
	List(ctx context.Context, economyID id.EconomyID, opts ListOpts) ([]*Transaction, error)

	// ListByAccount returns the rows referencing an account as source or
	// destination, in append order. Works for closed accounts.
	ListByAccount(ctx context.Context, accountID id.AccountID, opts ListOpts) ([]*Transaction, error)
}

// ListOpts filters audit trail reads.
type ListOpts struct {
	Action Action // Zero value = all actions
	Limit  int
	Offset int
}
