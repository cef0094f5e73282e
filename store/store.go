// Package store defines the unified storage interface for all Mint
// entities, plus the composite applications that commit monetary
// mutations and their audit rows as one atomic unit.
package store

import (
	"context"

	"github.com/xraph/mint/account"
	"github.com/xraph/mint/economy"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/tax"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
)

// Store is the unified storage interface for all Mint entities.
// Instead of embedding the per-package sub-interfaces, all methods are
// declared explicitly to avoid naming conflicts.
type Store interface {
	// Economy methods
	CreateEconomy(ctx context.Context, e *economy.Economy) error
	GetEconomy(ctx context.Context, economyID id.EconomyID) (*economy.Economy, error)
	GetEconomyByName(ctx context.Context, currencyName string) (*economy.Economy, error)
	GetEconomyByGuild(ctx context.Context, guildID int64) (*economy.Economy, error)
	ListEconomies(ctx context.Context) ([]*economy.Economy, error)
	DeleteEconomy(ctx context.Context, economyID id.EconomyID) error
	BindGuild(ctx context.Context, guildID int64, economyID id.EconomyID) error
	UnbindGuild(ctx context.Context, guildID int64) error
	ListGuilds(ctx context.Context, economyID id.EconomyID) ([]*economy.Guild, error)

	// Account methods. GetAccount resolves closed accounts (the audit
	// trail depends on it); the name/owner lookups exclude them.
	CreateAccount(ctx context.Context, a *account.Account) error
	GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error)
	GetUserAccount(ctx context.Context, ownerID int64, economyID id.EconomyID) (*account.Account, error)
	GetAccountByName(ctx context.Context, economyID id.EconomyID, name string) (*account.Account, error)
	ListAccounts(ctx context.Context, economyID id.EconomyID, opts account.ListOpts) ([]*account.Account, error)
	UpdateAccount(ctx context.Context, a *account.Account) error

	// Balance subscription methods
	CreateSubscription(ctx context.Context, s *account.BalanceSubscription) error
	DeleteSubscription(ctx context.Context, principalID int64, accountID id.AccountID) error
	ListSubscribers(ctx context.Context, accountID id.AccountID) ([]int64, error)
	DeleteAccountSubscriptions(ctx context.Context, accountID id.AccountID) error

	// Permission methods
	UpsertPermission(ctx context.Context, e *permission.Entry) error
	DeletePermission(ctx context.Context, principalID int64, kind permission.Kind, accountID id.AccountID, economyID id.EconomyID) error
	ListPermissionsFor(ctx context.Context, principalIDs []int64, kind permission.Kind) ([]*permission.Entry, error)
	DeleteAccountPermissions(ctx context.Context, accountID id.AccountID) error

	// Tax bracket methods. ListTaxBrackets returns brackets sorted by
	// Start descending, the evaluation order of every tax pass.
	CreateTaxBracket(ctx context.Context, b *tax.Bracket) error
	GetTaxBracket(ctx context.Context, bracketID id.TaxBracketID) (*tax.Bracket, error)
	GetTaxBracketByName(ctx context.Context, economyID id.EconomyID, name string) (*tax.Bracket, error)
	ListTaxBrackets(ctx context.Context, economyID id.EconomyID, kind tax.Kind) ([]*tax.Bracket, error)
	DeleteTaxBracket(ctx context.Context, bracketID id.TaxBracketID) error

	// Recurring transfer methods
	CreateRecurringTransfer(ctx context.Context, r *transfer.RecurringTransfer) error
	GetRecurringTransfer(ctx context.Context, transferID id.RecurringID) (*transfer.RecurringTransfer, error)
	ListRecurringTransfers(ctx context.Context) ([]*transfer.RecurringTransfer, error)
	ListRecurringTransfersByAccount(ctx context.Context, fromID id.AccountID) ([]*transfer.RecurringTransfer, error)
	UpdateRecurringTransfer(ctx context.Context, r *transfer.RecurringTransfer) error
	DeleteRecurringTransfer(ctx context.Context, transferID id.RecurringID) error

	// Audit trail methods (append-only)
	AppendTransaction(ctx context.Context, t *transaction.Transaction) error
	ListTransactions(ctx context.Context, economyID id.EconomyID, opts transaction.ListOpts) ([]*transaction.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID id.AccountID, opts transaction.ListOpts) ([]*transaction.Transaction, error)

	// Composite atomic applications
	ApplyTransfer(ctx context.Context, app *TransferApplication) error
	AdjustBalance(ctx context.Context, adj *BalanceAdjustment) error
	ApplyTaxPass(ctx context.Context, app *TaxApplication) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Credit is one destination of a transfer application.
type Credit struct {
	AccountID id.AccountID
	Amount    int64
}

// TransferApplication commits a fund movement as one atomic unit: the
// source balance is re-validated against Debit, the debit and every
// credit are applied, the optional income counter is bumped, and the
// audit row is appended. Either everything commits or nothing does.
//
// The credits normally sum to Debit (the net amount to the recipient
// plus any VAT diverted to bracket destinations).
type TransferApplication struct {
	FromID  id.AccountID
	Debit   int64
	Credits []Credit

	// IncomeAccountID, when set, has its income-to-date counter
	// incremented by IncomeDelta in the same unit.
	IncomeAccountID id.AccountID
	IncomeDelta     int64

	Record *transaction.Transaction
}

// BalanceAdjustment commits a direct balance change (money printing or
// fund removal) plus its audit row as one atomic unit. A negative delta
// is re-validated against the current balance.
type BalanceAdjustment struct {
	AccountID id.AccountID
	Delta     int64
	Record    *transaction.Transaction
}

// AccountState is the absolute post-pass state of one account inside a
// tax application.
type AccountState struct {
	AccountID    id.AccountID
	Balance      int64
	IncomeToDate int64
}

// TaxApplication commits a whole tax pass as one atomic unit: every
// listed account's balance and income counter are set to the computed
// post-pass values, and the audit row is appended. The engine computes
// States from a snapshot taken under its write serialization, so
// absolute values are safe to apply.
type TaxApplication struct {
	EconomyID id.EconomyID
	States    []AccountState
	Record    *transaction.Transaction
}
