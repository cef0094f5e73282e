package permission

import (
	"context"

	"github.com/xraph/mint/id"
)

// Store is the storage contract for permission entries.
type Store interface {
	// Upsert inserts the entry, first deleting any existing entry with
	// the same (principal, kind, account, economy) key.
	Upsert(ctx context.Context, e *Entry) error

	// Delete removes the entry with the given key, reverting the
	// principal to the built-in defaults for that scope. Deleting a
	// missing entry is not an error.
	Delete(ctx context.Context, principalID int64, kind Kind, accountID id.AccountID, economyID id.EconomyID) error

	// ListFor returns every stored entry whose principal is one of the
	// given IDs and whose kind matches. Scope filtering is the
	// resolver's job.
	ListFor(ctx context.Context, principalIDs []int64, kind Kind) ([]*Entry, error)

	// DeleteAccountEntries cascades entry removal when an account is
	// closed.
	DeleteAccountEntries(ctx context.Context, accountID id.AccountID) error
}
