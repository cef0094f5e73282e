package mint

import (
	"context"

	"github.com/xraph/mint/account"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/store"
	"github.com/xraph/mint/tax"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/types"
)

// CreateTaxBracket adds a tax bracket to an economy. The destination
// account must be an open account of the same economy; the rate is an
// integer percentage. Requires MANAGE_TAX_BRACKETS at the economy.
func (m *Mint) CreateTaxBracket(ctx context.Context, actorID int64, economyID id.EconomyID, name string, affected account.Kind, kind tax.Kind, start, end int64, rate int, destinationID id.AccountID) (*tax.Bracket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.store.GetEconomy(ctx, economyID); err != nil {
		return nil, err
	}
	if err := m.authorize(ctx, actorID, permission.KindManageTaxBrackets, nil, economyID); err != nil {
		return nil, err
	}

	if name == "" || affected == "" {
		return nil, ErrInvalidInput
	}
	switch kind {
	case tax.KindWealth, tax.KindIncome, tax.KindVAT:
	default:
		return nil, ErrInvalidInput
	}
	if rate < 0 || rate > 100 {
		return nil, ErrInvalidRate
	}
	if start < 0 || start >= end {
		return nil, ErrInvalidBracketRange
	}

	dest, err := m.store.GetAccount(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	if dest.Closed() {
		return nil, ErrAccountClosed
	}
	if dest.EconomyID != economyID {
		return nil, ErrCrossEconomy
	}

	bracket := &tax.Bracket{
		Entity:        types.NewEntityAt(m.now()),
		ID:            id.NewTaxBracketID(),
		Name:          name,
		EconomyID:     economyID,
		AffectedKind:  affected,
		Kind:          kind,
		Start:         start,
		End:           end,
		Rate:          rate,
		DestinationID: destinationID,
	}
	if err := m.store.CreateTaxBracket(ctx, bracket); err != nil {
		return nil, err
	}

	record := m.newRecord(actorID, transaction.ActionUpdateTaxBracket, transaction.ChangeCreate, economyID)
	record.ToAccountID = destinationID
	record.Metadata = map[string]any{
		"name":  name,
		"kind":  string(kind),
		"start": start,
		"end":   end,
		"rate":  rate,
	}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return nil, err
	}

	m.plugins.EmitTaxBracketsUpdated(ctx, bracket)
	return bracket, nil
}

// DeleteTaxBracket removes a bracket. Requires MANAGE_TAX_BRACKETS at
// the bracket's economy.
func (m *Mint) DeleteTaxBracket(ctx context.Context, actorID int64, bracketID id.TaxBracketID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bracket, err := m.store.GetTaxBracket(ctx, bracketID)
	if err != nil {
		return err
	}
	if err := m.authorize(ctx, actorID, permission.KindManageTaxBrackets, nil, bracket.EconomyID); err != nil {
		return err
	}
	if err := m.store.DeleteTaxBracket(ctx, bracketID); err != nil {
		return err
	}

	record := m.newRecord(actorID, transaction.ActionUpdateTaxBracket, transaction.ChangeDelete, bracket.EconomyID)
	record.Metadata = map[string]any{"name": bracket.Name}
	if err := m.store.AppendTransaction(ctx, record); err != nil {
		return err
	}

	m.plugins.EmitTaxBracketsUpdated(ctx, bracket)
	return nil
}

// ListTaxBrackets returns an economy's brackets of the given kind,
// highest bracket first. An empty kind returns all brackets.
func (m *Mint) ListTaxBrackets(ctx context.Context, economyID id.EconomyID, kind tax.Kind) ([]*tax.Bracket, error) {
	return m.store.ListTaxBrackets(ctx, economyID, kind)
}

// taxState is one account's running balances during a tax pass.
type taxState struct {
	acct    *account.Account
	balance int64
	income  int64
}

// contribution records how much one income bracket took from an account
// and where it went, so debt write-offs can claw it back.
type contribution struct {
	dest   *taxState
	amount int64
}

// PerformTaxes runs an economy's batch tax passes: every WEALTH bracket
// against running balances, then every INCOME bracket against the
// accumulated income counters, withdrawing from balances. Accounts
// overdrawn by income tax are restored to zero and the shortfall is
// clawed back from the destination revenue (a write-off, logged
// privately). Income counters reset economy-wide. The whole pass
// commits as one atomic unit with a single PERFORM_TAXES audit row.
// Requires MANAGE_TAX_BRACKETS at the economy.
func (m *Mint) PerformTaxes(ctx context.Context, actorID int64, economyID id.EconomyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.store.GetEconomy(ctx, economyID); err != nil {
		return err
	}
	if err := m.authorize(ctx, actorID, permission.KindManageTaxBrackets, nil, economyID); err != nil {
		return err
	}

	accounts, err := m.store.ListAccounts(ctx, economyID, account.ListOpts{})
	if err != nil {
		return err
	}
	states := make([]*taxState, 0, len(accounts))
	byID := make(map[string]*taxState, len(accounts))
	for _, acct := range accounts {
		st := &taxState{acct: acct, balance: acct.Balance, income: acct.IncomeToDate}
		states = append(states, st)
		byID[acct.ID.String()] = st
	}

	var collected, writeOffs int64

	// Wealth pass: running balances, highest bracket first.
	wealth, err := m.store.ListTaxBrackets(ctx, economyID, tax.KindWealth)
	if err != nil {
		return err
	}
	for _, b := range wealth {
		dest, ok := byID[b.DestinationID.String()]
		if !ok {
			m.logger.Warn("tax bracket destination unavailable, skipping",
				"bracket", b.Name, "destination", b.DestinationID)
			continue
		}
		for _, st := range states {
			if st.acct.Kind != b.AffectedKind || st.acct.ID == b.DestinationID {
				continue
			}
			cut := b.Assess(st.balance)
			if cut <= 0 {
				continue
			}
			st.balance -= cut
			dest.balance += cut
			collected += cut
		}
	}

	// Income pass: keyed on accumulated income, withdrawn from the
	// balance. Balances may dip negative here; the write-off below
	// restores them to exactly zero.
	income, err := m.store.ListTaxBrackets(ctx, economyID, tax.KindIncome)
	if err != nil {
		return err
	}
	contribs := make(map[*taxState][]contribution)
	for _, b := range income {
		dest, ok := byID[b.DestinationID.String()]
		if !ok {
			m.logger.Warn("tax bracket destination unavailable, skipping",
				"bracket", b.Name, "destination", b.DestinationID)
			continue
		}
		for _, st := range states {
			if st.acct.Kind != b.AffectedKind || st.acct.ID == b.DestinationID {
				continue
			}
			cut := b.Assess(st.income)
			if cut <= 0 {
				continue
			}
			st.balance -= cut
			dest.balance += cut
			collected += cut
			contribs[st] = append(contribs[st], contribution{dest: dest, amount: cut})
		}
	}

	// Debt write-off: claw the shortfall back from the destinations the
	// income pass paid, most recent bracket first.
	for _, st := range states {
		if st.balance >= 0 {
			continue
		}
		debt := -st.balance
		shortfall := debt
		st.balance = 0
		list := contribs[st]
		for i := len(list) - 1; i >= 0 && shortfall > 0; i-- {
			take := list[i].amount
			if take > shortfall {
				take = shortfall
			}
			list[i].dest.balance -= take
			shortfall -= take
			writeOffs += take
		}
		m.logger.Warn("income tax debt written off",
			"account", st.acct.ID,
			"amount", debt,
			"visibility", "private",
		)
	}
	collected -= writeOffs

	// Income counters reset economy-wide, taxed or not.
	appStates := make([]store.AccountState, 0, len(states))
	for _, st := range states {
		appStates = append(appStates, store.AccountState{
			AccountID:    st.acct.ID,
			Balance:      st.balance,
			IncomeToDate: 0,
		})
	}

	record := m.newRecord(actorID, transaction.ActionPerformTaxes, transaction.ChangeUpdate, economyID)
	record.Amount = &collected
	record.Metadata = map[string]any{
		"wealth_brackets": len(wealth),
		"income_brackets": len(income),
		"write_offs":      writeOffs,
	}

	if err := m.store.ApplyTaxPass(ctx, &store.TaxApplication{
		EconomyID: economyID,
		States:    appStates,
		Record:    record,
	}); err != nil {
		return err
	}

	m.logger.Info("taxes performed",
		"economy", economyID,
		"collected", collected,
		"accounts", len(states),
		"visibility", "public",
	)
	m.plugins.EmitTaxesPerformed(ctx, economyID.String(), collected)
	return nil
}
