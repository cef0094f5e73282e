// Package transaction defines the immutable audit ledger rows. Every
// mutating engine operation appends exactly one row; rows are never
// updated or deleted.
package transaction

import (
	"time"

	"github.com/xraph/mint/id"
)

// Action is the operation class a transaction row records.
type Action string

const (
	ActionTransfer         Action = "transfer"
	ActionManageFunds      Action = "manage_funds"
	ActionUpdatePermission Action = "update_permissions"
	ActionUpdateTaxBracket Action = "update_tax_brackets"
	ActionUpdateEconomy    Action = "update_economies"
	ActionPerformTaxes     Action = "perform_taxes"
	ActionUpdateAccount    Action = "update_accounts"
)

// Change is the create/update/delete subtype of the recorded action.
type Change string

const (
	ChangeCreate Change = "create"
	ChangeUpdate Change = "update"
	ChangeDelete Change = "delete"
)

// Transaction is one append-only ledger/audit entry. Monetary rows carry
// Amount and account references; non-monetary rows (permission diffs,
// registry changes) describe themselves in Metadata.
type Transaction struct {
	ID            id.TransactionID `json:"id"`
	ActorID       int64            `json:"actor_id"`
	Timestamp     time.Time        `json:"timestamp"`
	Action        Action           `json:"action"`
	Change        Change           `json:"change"`
	EconomyID     id.EconomyID     `json:"economy_id,omitempty"`
	FromAccountID id.AccountID     `json:"from_account_id,omitempty"`
	ToAccountID   id.AccountID     `json:"to_account_id,omitempty"`
	Amount        *int64           `json:"amount,omitempty"` // Gross amount in minor units
	Metadata      map[string]any   `json:"metadata,omitempty"`
}
