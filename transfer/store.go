package transfer

import (
	"context"

	"github.com/xraph/mint/id"
)

// Store is the storage contract for recurring transfers.
type Store interface {
	Create(ctx context.Context, r *RecurringTransfer) error
	Get(ctx context.Context, transferID id.RecurringID) (*RecurringTransfer, error)

	// List returns every recurring transfer, ordered by creation time.
	// The tick pass walks all of them; due-ness is clock arithmetic, not
	// a store concern.
	List(ctx context.Context) ([]*RecurringTransfer, error)

	// ListByAccount returns the recurring transfers drawing from the
	// given source account.
	ListByAccount(ctx context.Context, fromID id.AccountID) ([]*RecurringTransfer, error)

	// Update persists LastPaidAt and PaymentsLeft after a catch-up.
	Update(ctx context.Context, r *RecurringTransfer) error

	Delete(ctx context.Context, transferID id.RecurringID) error
}
