package account

import (
	"context"

	"github.com/xraph/mint/id"
)

// Store is the storage contract for accounts and balance subscriptions.
type Store interface {
	Create(ctx context.Context, a *Account) error

	// Get resolves an account by ID. Closed accounts ARE returned: the
	// audit trail references them and replay must keep working.
	Get(ctx context.Context, accountID id.AccountID) (*Account, error)

	// GetUserAccount returns the open USER-kind account owned by the
	// principal in the economy, or a not-found error. Closed accounts are
	// excluded.
	GetUserAccount(ctx context.Context, ownerID int64, economyID id.EconomyID) (*Account, error)

	// GetByName resolves an open account by display name within an
	// economy. Closed accounts are excluded.
	GetByName(ctx context.Context, economyID id.EconomyID, name string) (*Account, error)

	// List returns the open accounts of an economy.
	List(ctx context.Context, economyID id.EconomyID, opts ListOpts) ([]*Account, error)

	// Update persists name/owner/closure changes. Balances are only
	// written through the composite store applications.
	Update(ctx context.Context, a *Account) error

	CreateSubscription(ctx context.Context, s *BalanceSubscription) error
	DeleteSubscription(ctx context.Context, principalID int64, accountID id.AccountID) error
	ListSubscribers(ctx context.Context, accountID id.AccountID) ([]int64, error)

	// DeleteAccountSubscriptions cascades subscription removal when an
	// account is closed.
	DeleteAccountSubscriptions(ctx context.Context, accountID id.AccountID) error
}

// ListOpts filters account listings.
type ListOpts struct {
	Kind   Kind // Zero value = all kinds
	Limit  int
	Offset int
}
