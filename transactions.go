package mint

import (
	"context"
	"fmt"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/store"
	"github.com/xraph/mint/tax"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
)

// PerformTransaction moves funds between two accounts of the same
// economy. INCOME transfers additionally accumulate the amount into the
// recipient's income counter; PURCHASE transfers run the economy's VAT
// brackets inline, diverting part of the amount to bracket destinations.
// One TRANSFER audit row carries the gross amount. Requires
// TRANSFER_FUNDS on the source account.
func (m *Mint) PerformTransaction(ctx context.Context, actorID int64, fromID, toID id.AccountID, amount int64, kind transfer.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.performTransactionLocked(ctx, actorID, fromID, toID, amount, kind)
}

// performTransactionLocked is the transfer pipeline shared with the
// recurring scheduler. Caller holds m.mu.
func (m *Mint) performTransactionLocked(ctx context.Context, actorID int64, fromID, toID id.AccountID, amount int64, kind transfer.Kind) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	from, err := m.store.GetAccount(ctx, fromID)
	if err != nil {
		return err
	}
	if from.Closed() {
		return ErrAccountClosed
	}
	to, err := m.store.GetAccount(ctx, toID)
	if err != nil {
		return err
	}
	if to.Closed() {
		return ErrAccountClosed
	}

	if err := m.authorize(ctx, actorID, permission.KindTransferFunds, from, id.ID{}); err != nil {
		return err
	}
	if from.EconomyID != to.EconomyID {
		return ErrCrossEconomy
	}
	if from.Balance < amount {
		return ErrInsufficientFunds
	}
	if fromID == toID {
		// Debit and credit cancel out; success without side effects.
		return nil
	}

	// Inline VAT pass for purchases: each bracket, highest first, taxes
	// the remaining amount and routes its cut to its own destination.
	var vatCredits []store.Credit
	net := amount
	if kind == transfer.KindPurchase {
		brackets, err := m.store.ListTaxBrackets(ctx, from.EconomyID, tax.KindVAT)
		if err != nil {
			return err
		}
		for _, b := range brackets {
			if b.AffectedKind != to.Kind {
				continue
			}
			cut := b.Assess(net)
			if cut <= 0 {
				continue
			}
			net -= cut
			vatCredits = append(vatCredits, store.Credit{AccountID: b.DestinationID, Amount: cut})
		}
	}

	app := &store.TransferApplication{
		FromID:  fromID,
		Debit:   amount,
		Credits: append([]store.Credit{{AccountID: toID, Amount: net}}, vatCredits...),
	}
	if kind == transfer.KindIncome {
		app.IncomeAccountID = toID
		app.IncomeDelta = amount
	}

	record := m.newRecord(actorID, transaction.ActionTransfer, transaction.ChangeCreate, from.EconomyID)
	record.FromAccountID = fromID
	record.ToAccountID = toID
	record.Amount = &amount
	record.Metadata = map[string]any{"kind": string(kind)}
	app.Record = record

	if err := m.store.ApplyTransfer(ctx, app); err != nil {
		return err
	}

	m.logger.Info("transfer performed",
		"from", fromID,
		"to", toID,
		"amount", amount,
		"kind", kind,
		"visibility", "public",
	)
	m.plugins.EmitTransferPerformed(ctx, record)

	message := fmt.Sprintf("%d moved from %s to %s", amount, from.Name, to.Name)
	m.notifySubscribers(ctx, fromID, "Balance changed", message)
	m.notifySubscribers(ctx, toID, "Balance changed", message)
	return nil
}

// PrintMoney mints new funds directly into an account. Requires
// MANAGE_FUNDS on the account.
func (m *Mint) PrintMoney(ctx context.Context, actorID int64, toID id.AccountID, amount int64) error {
	return m.manageFunds(ctx, actorID, toID, amount, transaction.ChangeCreate)
}

// RemoveFunds destroys funds held by an account. The account must hold
// at least the removed amount. Requires MANAGE_FUNDS on the account.
func (m *Mint) RemoveFunds(ctx context.Context, actorID int64, fromID id.AccountID, amount int64) error {
	return m.manageFunds(ctx, actorID, fromID, -amount, transaction.ChangeDelete)
}

func (m *Mint) manageFunds(ctx context.Context, actorID int64, accountID id.AccountID, delta int64, change transaction.Change) error {
	if delta == 0 {
		return ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, err := m.store.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.Closed() {
		return ErrAccountClosed
	}
	if err := m.authorize(ctx, actorID, permission.KindManageFunds, acct, id.ID{}); err != nil {
		return err
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	record := m.newRecord(actorID, transaction.ActionManageFunds, change, acct.EconomyID)
	record.ToAccountID = accountID
	record.Amount = &amount

	if err := m.store.AdjustBalance(ctx, &store.BalanceAdjustment{
		AccountID: accountID,
		Delta:     delta,
		Record:    record,
	}); err != nil {
		return err
	}

	m.logger.Info("funds managed",
		"account", accountID,
		"delta", delta,
		"visibility", "private",
	)
	m.plugins.EmitFundsManaged(ctx, record)
	m.notifySubscribers(ctx, accountID, "Balance changed",
		fmt.Sprintf("%s balance adjusted by %d", acct.Name, delta))
	return nil
}

// ListTransactions returns an economy's audit trail in append order.
func (m *Mint) ListTransactions(ctx context.Context, economyID id.EconomyID, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	return m.store.ListTransactions(ctx, economyID, opts)
}

// ListAccountTransactions returns the audit rows referencing an account
// as source or destination. Works for closed accounts.
func (m *Mint) ListAccountTransactions(ctx context.Context, accountID id.AccountID, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	return m.store.ListAccountTransactions(ctx, accountID, opts)
}
