// Package permission defines the permission kinds, the stored grant/deny
// entries, and the pure resolution algorithm that answers "may principal
// P do action A on scope S?".
package permission

import (
	"github.com/xraph/mint/id"
)

// Kind enumerates the actions the permission system governs.
type Kind string

const (
	// Citizen-level permissions.
	KindOpenAccount             Kind = "open_account"
	KindCloseAccount            Kind = "close_account"
	KindTransferFunds           Kind = "transfer_funds"
	KindCreateRecurringTransfer Kind = "create_recurring_transfer"
	KindViewBalance             Kind = "view_balance"
	KindLoginAsAccount          Kind = "login_as_account"

	// Administrative permissions.
	KindOpenSpecialAccount Kind = "open_special_account"
	KindManageFunds        Kind = "manage_funds"
	KindManagePermissions  Kind = "manage_permissions"
	KindManageEconomies    Kind = "manage_economies"
	KindManageTaxBrackets  Kind = "manage_tax_brackets"
)

// GlobalDefaults are granted to every principal when no stored entry
// applies.
var GlobalDefaults = map[Kind]bool{
	KindOpenAccount: true,
}

// OwnerDefaults are granted to an account's owner when no stored entry
// applies.
var OwnerDefaults = map[Kind]bool{
	KindCloseAccount:            true,
	KindTransferFunds:           true,
	KindViewBalance:             true,
	KindCreateRecurringTransfer: true,
	KindLoginAsAccount:          true,
}

// Entry is a stored grant or deny for a principal, permission kind and
// optional account/economy scope. At most one entry exists per
// (principal, kind, account, economy) key; granting replaces it.
//
// If AccountID is set, EconomyID (when also set) must equal that
// account's economy; an unset EconomyID is inferred from the account.
type Entry struct {
	ID          id.PermissionID `json:"id"`
	PrincipalID int64           `json:"principal_id"` // User or group snowflake
	Kind        Kind            `json:"kind"`
	AccountID   id.AccountID    `json:"account_id,omitempty"` // Nil = any account
	EconomyID   id.EconomyID    `json:"economy_id,omitempty"` // Nil = any economy
	Allowed     bool            `json:"allowed"`
}

// Specificity ranks how narrowly an entry is scoped: an account-scoped
// entry outranks an economy-scoped one, which outranks a global one.
func (e *Entry) Specificity() int {
	switch {
	case !e.AccountID.IsNil():
		return 2
	case !e.EconomyID.IsNil():
		return 1
	default:
		return 0
	}
}

// SameKey reports whether two entries address the same
// (principal, kind, account, economy) key.
func (e *Entry) SameKey(other *Entry) bool {
	return e.PrincipalID == other.PrincipalID &&
		e.Kind == other.Kind &&
		e.AccountID == other.AccountID &&
		e.EconomyID == other.EconomyID
}
