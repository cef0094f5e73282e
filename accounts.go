package mint

import (
	"context"
	"fmt"

	"github.com/xraph/mint/account"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/types"
)

// OpenAccount opens an account in an economy. Opening one's own USER
// account requires OPEN_ACCOUNT (granted to everyone by default); any
// other kind or owner requires OPEN_SPECIAL_ACCOUNT. A principal may
// hold at most one open USER account per economy. The name defaults to
// a canonical mention of the owner and is capped at 64 characters.
func (m *Mint) OpenAccount(ctx context.Context, actorID int64, ownerID *int64, economyID id.EconomyID, name string, kind account.Kind) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.store.GetEconomy(ctx, economyID); err != nil {
		return nil, err
	}

	required := permission.KindOpenSpecialAccount
	if kind == account.KindUser && ownerID != nil && *ownerID == actorID {
		required = permission.KindOpenAccount
	}
	if err := m.authorize(ctx, actorID, required, nil, economyID); err != nil {
		return nil, err
	}

	if kind == account.KindUser && ownerID != nil {
		if _, err := m.store.GetUserAccount(ctx, *ownerID, economyID); err == nil {
			return nil, ErrUserAccountTaken
		}
	}

	if name == "" {
		if ownerID == nil {
			return nil, ErrInvalidInput
		}
		name = fmt.Sprintf("<@%d>", *ownerID)
	}
	if len(name) > account.MaxNameLength {
		return nil, ErrNameTooLong
	}

	acct := &account.Account{
		Entity:    types.NewEntityAt(m.now()),
		ID:        id.NewAccountID(),
		Name:      name,
		OwnerID:   ownerID,
		Kind:      kind,
		EconomyID: economyID,
	}
	if err := m.store.CreateAccount(ctx, acct); err != nil {
		return nil, err
	}

	record := m.newRecord(actorID, transaction.ActionUpdateAccount, transaction.ChangeCreate, economyID)
	record.ToAccountID = acct.ID
	record.Metadata = map[string]any{"name": name, "kind": string(kind)}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return nil, err
	}

	m.logger.Info("account opened",
		"account", acct.ID,
		"economy", economyID,
		"kind", kind,
		"visibility", "public",
	)
	m.plugins.EmitAccountOpened(ctx, acct)
	return acct, nil
}

// CloseAccount soft-closes an account, cascading its permission entries
// and balance subscriptions. Historical audit rows keep resolving the
// account by ID. Requires CLOSE_ACCOUNT on the account.
func (m *Mint) CloseAccount(ctx context.Context, actorID int64, accountID id.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, err := m.store.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.Closed() {
		return ErrAccountClosed
	}
	if err := m.authorize(ctx, actorID, permission.KindCloseAccount, acct, id.ID{}); err != nil {
		return err
	}

	now := m.now()
	acct.ClosedAt = &now
	acct.Touch()
	if err := m.store.UpdateAccount(ctx, acct); err != nil {
		return err
	}
	if err := m.store.DeleteAccountPermissions(ctx, accountID); err != nil {
		return err
	}
	if err := m.store.DeleteAccountSubscriptions(ctx, accountID); err != nil {
		return err
	}

	record := m.newRecord(actorID, transaction.ActionUpdateAccount, transaction.ChangeDelete, acct.EconomyID)
	record.ToAccountID = accountID
	record.Metadata = map[string]any{"name": acct.Name}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.logger.Info("account closed", "account", accountID, "visibility", "public")
	m.plugins.EmitAccountClosed(ctx, acct)
	return nil
}

// TransferOwnership hands an account to a new owner. Requires
// CLOSE_ACCOUNT on the account; for USER accounts the new owner must
// not already hold one in the economy.
func (m *Mint) TransferOwnership(ctx context.Context, actorID int64, accountID id.AccountID, newOwnerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, err := m.store.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.Closed() {
		return ErrAccountClosed
	}
	if err := m.authorize(ctx, actorID, permission.KindCloseAccount, acct, id.ID{}); err != nil {
		return err
	}
	if acct.Kind == account.KindUser {
		if _, err := m.store.GetUserAccount(ctx, newOwnerID, acct.EconomyID); err == nil {
			return ErrUserAccountTaken
		}
	}

	var previousOwner int64
	if acct.OwnerID != nil {
		previousOwner = *acct.OwnerID
	}
	acct.OwnerID = &newOwnerID
	acct.Touch()
	if err := m.store.UpdateAccount(ctx, acct); err != nil {
		return err
	}

	record := m.newRecord(actorID, transaction.ActionUpdateAccount, transaction.ChangeUpdate, acct.EconomyID)
	record.ToAccountID = accountID
	record.Metadata = map[string]any{
		"previous_owner": previousOwner,
		"new_owner":      newOwnerID,
	}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.plugins.EmitOwnershipTransferred(ctx, acct, previousOwner)
	return nil
}

// Balance returns an account's balance in the economy's currency unit.
// Requires VIEW_BALANCE on the account.
func (m *Mint) Balance(ctx context.Context, actorID int64, accountID id.AccountID) (types.Money, error) {
	acct, err := m.store.GetAccount(ctx, accountID)
	if err != nil {
		return types.Money{}, err
	}
	if err := m.authorize(ctx, actorID, permission.KindViewBalance, acct, id.ID{}); err != nil {
		return types.Money{}, err
	}
	econ, err := m.store.GetEconomy(ctx, acct.EconomyID)
	if err != nil {
		return types.Money{}, err
	}
	return types.In(econ.CurrencyUnit, acct.Balance), nil
}

// Subscribe grants a principal balance-change notifications for an
// account. The actor needs VIEW_BALANCE on the account.
func (m *Mint) Subscribe(ctx context.Context, actorID, principalID int64, accountID id.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, err := m.store.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.Closed() {
		return ErrAccountClosed
	}
	if err := m.authorize(ctx, actorID, permission.KindViewBalance, acct, id.ID{}); err != nil {
		return err
	}
	return m.store.CreateSubscription(ctx, &account.BalanceSubscription{
		ID:          id.NewSubscriptionID(),
		PrincipalID: principalID,
		AccountID:   accountID,
	})
}

// Unsubscribe removes a balance subscription. Removing a missing
// subscription is not an error.
func (m *Mint) Unsubscribe(ctx context.Context, principalID int64, accountID id.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.DeleteSubscription(ctx, principalID, accountID)
}

// GetAccount retrieves an account by ID. Closed accounts resolve.
func (m *Mint) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	return m.store.GetAccount(ctx, accountID)
}

// GetUserAccount retrieves a principal's open USER account in an economy.
func (m *Mint) GetUserAccount(ctx context.Context, ownerID int64, economyID id.EconomyID) (*account.Account, error) {
	return m.store.GetUserAccount(ctx, ownerID, economyID)
}

// GetAccountByName retrieves an open account by display name.
func (m *Mint) GetAccountByName(ctx context.Context, economyID id.EconomyID, name string) (*account.Account, error) {
	return m.store.GetAccountByName(ctx, economyID, name)
}

// ListAccounts returns the open accounts of an economy.
func (m *Mint) ListAccounts(ctx context.Context, economyID id.EconomyID, opts account.ListOpts) ([]*account.Account, error) {
	return m.store.ListAccounts(ctx, economyID, opts)
}
