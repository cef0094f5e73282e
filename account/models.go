// Package account defines balance-holding accounts and balance-change
// subscriptions.
package account

import (
	"time"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

// Kind classifies an account within an economy.
type Kind string

const (
	KindUser        Kind = "user"
	KindGovernment  Kind = "government"
	KindCorporation Kind = "corporation"
	KindCharity     Kind = "charity"
)

// MaxNameLength is the display-name cap for accounts.
const MaxNameLength = 64

// Account is a named balance holder within one economy.
//
// Accounts are soft-closed, never physically removed: historical
// transaction rows keep referencing them. Lookups by name or owner
// exclude closed accounts; lookups by ID resolve them (audit replay
// depends on this asymmetry).
type Account struct {
	types.Entity
	ID      id.AccountID `json:"id"`
	Name    string       `json:"name"`
	OwnerID *int64       `json:"owner_id,omitempty"` // nil for ownerless/system accounts
	Kind    Kind         `json:"kind"`
	// Balance is in integer minor units. It never goes negative through
	// the public surface; it may dip negative transiently inside an
	// income-tax pass, which always restores it to zero before returning.
	Balance      int64        `json:"balance"`
	IncomeToDate int64        `json:"income_to_date"` // Accumulated since the last income-tax pass
	EconomyID    id.EconomyID `json:"economy_id"`
	ClosedAt     *time.Time   `json:"closed_at,omitempty"`
}

// Closed reports whether the account has been soft-closed.
func (a *Account) Closed() bool { return a.ClosedAt != nil }

// OwnedBy reports whether the given principal owns this account.
func (a *Account) OwnedBy(principalID int64) bool {
	return a.OwnerID != nil && *a.OwnerID == principalID
}

// BalanceSubscription grants a principal a copy of balance-change
// notifications for one account. It is independent of ownership and of
// the permission system.
type BalanceSubscription struct {
	ID          id.SubscriptionID `json:"id"`
	PrincipalID int64             `json:"principal_id"`
	AccountID   id.AccountID      `json:"account_id"`
}
