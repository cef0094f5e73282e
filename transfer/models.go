// Package transfer defines recurring transfers and their catch-up
// arithmetic.
package transfer

import (
	"time"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

// Kind is the semantic class of a transfer. It decides how the ledger
// treats the credited amount.
type Kind string

const (
	// KindPersonal is a plain transfer between accounts.
	KindPersonal Kind = "personal"
	// KindIncome additionally accumulates the amount into the
	// recipient's income-to-date counter for later income taxation.
	KindIncome Kind = "income"
	// KindPurchase runs the economy's VAT brackets inline, diverting
	// part of the amount to the bracket destination accounts.
	KindPurchase Kind = "purchase"
)

// RecurringTransfer is a scheduled repeating transaction replayed by the
// tick pass. Missed periods are applied exactly, never skipped.
type RecurringTransfer struct {
	types.Entity
	ID           id.RecurringID `json:"id"`
	AuthorizerID int64          `json:"authorizer_id"` // Principal whose permissions each payment runs under
	FromID       id.AccountID   `json:"from_id"`
	ToID         id.AccountID   `json:"to_id"`
	Amount       int64          `json:"amount"`
	Kind         Kind           `json:"kind"`
	LastPaidAt   time.Time      `json:"last_paid_at"`
	Interval     time.Duration  `json:"interval"`
	PaymentsLeft *int           `json:"payments_left,omitempty"` // nil = unlimited
}

// PeriodsDue returns how many whole payment intervals have elapsed since
// the last payment. Zero means the transfer is not due.
func (r *RecurringTransfer) PeriodsDue(now time.Time) int {
	if r.Interval <= 0 {
		return 0
	}
	elapsed := now.Sub(r.LastPaidAt)
	if elapsed < r.Interval {
		return 0
	}
	return int(elapsed / r.Interval)
}

// Exhausted reports whether the remaining payment budget has run out.
func (r *RecurringTransfer) Exhausted() bool {
	return r.PaymentsLeft != nil && *r.PaymentsLeft <= 0
}
