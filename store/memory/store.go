// Package memory provides an in-memory store implementation, suitable
// for tests and ephemeral deployments.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/xraph/mint"
	"github.com/xraph/mint/account"
	"github.com/xraph/mint/economy"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/store"
	"github.com/xraph/mint/tax"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
)

type Store struct {
	mu sync.RWMutex

	// Economy storage
	economies map[string]*economy.Economy
	guilds    map[int64]*economy.Guild

	// Account storage
	accounts      map[string]*account.Account
	subscriptions map[string]*account.BalanceSubscription

	// Permission storage
	permissions map[string]*permission.Entry

	// Tax bracket storage
	brackets map[string]*tax.Bracket

	// Recurring transfer storage
	transfers map[string]*transfer.RecurringTransfer

	// Audit trail (append-only)
	transactions []*transaction.Transaction

	seq int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		economies:     make(map[string]*economy.Economy),
		guilds:        make(map[int64]*economy.Guild),
		accounts:      make(map[string]*account.Account),
		subscriptions: make(map[string]*account.BalanceSubscription),
		permissions:   make(map[string]*permission.Entry),
		brackets:      make(map[string]*tax.Bracket),
		transfers:     make(map[string]*transfer.RecurringTransfer),
		transactions:  make([]*transaction.Transaction, 0),
	}
}

// Economy Store implementation

func (s *Store) CreateEconomy(_ context.Context, e *economy.Economy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.economies {
		if existing.CurrencyName == e.CurrencyName {
			return mint.ErrEconomyExists
		}
	}
	cp := *e
	s.economies[e.ID.String()] = &cp
	return nil
}

func (s *Store) GetEconomy(_ context.Context, economyID id.EconomyID) (*economy.Economy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.economies[economyID.String()]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, mint.ErrEconomyNotFound
}

func (s *Store) GetEconomyByName(_ context.Context, currencyName string) (*economy.Economy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.economies {
		if e.CurrencyName == currencyName {
			cp := *e
			return &cp, nil
		}
	}
	return nil, mint.ErrEconomyNotFound
}

func (s *Store) GetEconomyByGuild(_ context.Context, guildID int64) (*economy.Economy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.guilds[guildID]
	if !ok {
		return nil, mint.ErrEconomyNotFound
	}
	if e, ok := s.economies[g.EconomyID.String()]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, mint.ErrEconomyNotFound
}

func (s *Store) ListEconomies(_ context.Context) ([]*economy.Economy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*economy.Economy, 0, len(s.economies))
	for _, e := range s.economies {
		cp := *e
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) DeleteEconomy(_ context.Context, economyID id.EconomyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := economyID.String()
	if _, ok := s.economies[key]; !ok {
		return mint.ErrEconomyNotFound
	}
	delete(s.economies, key)
	for guildID, g := range s.guilds {
		if g.EconomyID == economyID {
			delete(s.guilds, guildID)
		}
	}
	for k, a := range s.accounts {
		if a.EconomyID == economyID {
			s.dropAccountRowsLocked(a.ID)
			delete(s.accounts, k)
		}
	}
	for k, b := range s.brackets {
		if b.EconomyID == economyID {
			delete(s.brackets, k)
		}
	}
	for k, e := range s.permissions {
		if e.EconomyID == economyID {
			delete(s.permissions, k)
		}
	}
	return nil
}

// dropAccountRowsLocked removes everything hanging off an account:
// subscriptions, permission entries, and recurring transfers in either
// direction. Audit rows are retained.
func (s *Store) dropAccountRowsLocked(accountID id.AccountID) {
	for k, sub := range s.subscriptions {
		if sub.AccountID == accountID {
			delete(s.subscriptions, k)
		}
	}
	for k, e := range s.permissions {
		if e.AccountID == accountID {
			delete(s.permissions, k)
		}
	}
	for k, r := range s.transfers {
		if r.FromID == accountID || r.ToID == accountID {
			delete(s.transfers, k)
		}
	}
}

func (s *Store) BindGuild(_ context.Context, guildID int64, economyID id.EconomyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.economies[economyID.String()]; !ok {
		return mint.ErrEconomyNotFound
	}
	s.guilds[guildID] = &economy.Guild{GuildID: guildID, EconomyID: economyID}
	return nil
}

func (s *Store) UnbindGuild(_ context.Context, guildID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.guilds[guildID]; !ok {
		return mint.ErrGuildNotBound
	}
	delete(s.guilds, guildID)
	return nil
}

func (s *Store) ListGuilds(_ context.Context, economyID id.EconomyID) ([]*economy.Guild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*economy.Guild, 0)
	for _, g := range s.guilds {
		if g.EconomyID == economyID {
			cp := *g
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].GuildID < result[j].GuildID
	})
	return result, nil
}

// Account Store implementation

func (s *Store) CreateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.EconomyID == a.EconomyID && existing.Name == a.Name && !existing.Closed() {
			return mint.ErrAccountExists
		}
	}
	cp := *a
	s.accounts[a.ID.String()] = &cp
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID id.AccountID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[accountID.String()]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, mint.ErrAccountNotFound
}

func (s *Store) GetUserAccount(_ context.Context, ownerID int64, economyID id.EconomyID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.EconomyID == economyID && a.Kind == account.KindUser && a.OwnedBy(ownerID) && !a.Closed() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mint.ErrAccountNotFound
}

func (s *Store) GetAccountByName(_ context.Context, economyID id.EconomyID, name string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.EconomyID == economyID && a.Name == name && !a.Closed() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mint.ErrAccountNotFound
}

func (s *Store) ListAccounts(_ context.Context, economyID id.EconomyID, opts account.ListOpts) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*account.Account, 0)
	for _, a := range s.accounts {
		if a.EconomyID != economyID || a.Closed() {
			continue
		}
		if opts.Kind != "" && a.Kind != opts.Kind {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) UpdateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[a.ID.String()]; !ok {
		return mint.ErrAccountNotFound
	}
	cp := *a
	s.accounts[a.ID.String()] = &cp
	return nil
}

// Balance subscription methods

func subscriptionKey(principalID int64, accountID id.AccountID) string {
	return accountID.String() + "/" + itoa(principalID)
}

func (s *Store) CreateSubscription(_ context.Context, sub *account.BalanceSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sub
	s.subscriptions[subscriptionKey(sub.PrincipalID, sub.AccountID)] = &cp
	return nil
}

func (s *Store) DeleteSubscription(_ context.Context, principalID int64, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subscriptions, subscriptionKey(principalID, accountID))
	return nil
}

func (s *Store) ListSubscribers(_ context.Context, accountID id.AccountID) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]int64, 0)
	for _, sub := range s.subscriptions {
		if sub.AccountID == accountID {
			result = append(result, sub.PrincipalID)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

func (s *Store) DeleteAccountSubscriptions(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, sub := range s.subscriptions {
		if sub.AccountID == accountID {
			delete(s.subscriptions, k)
		}
	}
	return nil
}

// Permission Store implementation

func permissionKey(e *permission.Entry) string {
	return itoa(e.PrincipalID) + "/" + string(e.Kind) + "/" + e.AccountID.String() + "/" + e.EconomyID.String()
}

func (s *Store) UpsertPermission(_ context.Context, e *permission.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	s.permissions[permissionKey(e)] = &cp
	return nil
}

func (s *Store) DeletePermission(_ context.Context, principalID int64, kind permission.Kind, accountID id.AccountID, economyID id.EconomyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.permissions, permissionKey(&permission.Entry{
		PrincipalID: principalID,
		Kind:        kind,
		AccountID:   accountID,
		EconomyID:   economyID,
	}))
	return nil
}

func (s *Store) ListPermissionsFor(_ context.Context, principalIDs []int64, kind permission.Kind) ([]*permission.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]bool, len(principalIDs))
	for _, pid := range principalIDs {
		wanted[pid] = true
	}
	result := make([]*permission.Entry, 0)
	for _, e := range s.permissions {
		if e.Kind == kind && wanted[e.PrincipalID] {
			cp := *e
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (s *Store) DeleteAccountPermissions(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.permissions {
		if e.AccountID == accountID {
			delete(s.permissions, k)
		}
	}
	return nil
}

// Tax bracket Store implementation

func (s *Store) CreateTaxBracket(_ context.Context, b *tax.Bracket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.brackets {
		if existing.EconomyID == b.EconomyID && existing.Name == b.Name {
			return mint.ErrBracketExists
		}
	}
	cp := *b
	s.brackets[b.ID.String()] = &cp
	return nil
}

func (s *Store) GetTaxBracket(_ context.Context, bracketID id.TaxBracketID) (*tax.Bracket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.brackets[bracketID.String()]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, mint.ErrBracketNotFound
}

func (s *Store) GetTaxBracketByName(_ context.Context, economyID id.EconomyID, name string) (*tax.Bracket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.brackets {
		if b.EconomyID == economyID && b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, mint.ErrBracketNotFound
}

func (s *Store) ListTaxBrackets(_ context.Context, economyID id.EconomyID, kind tax.Kind) ([]*tax.Bracket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*tax.Bracket, 0)
	for _, b := range s.brackets {
		if b.EconomyID != economyID {
			continue
		}
		if kind != "" && b.Kind != kind {
			continue
		}
		cp := *b
		result = append(result, &cp)
	}
	// Highest bracket first, the order tax passes evaluate in.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Start == result[j].Start {
			return result[i].Name < result[j].Name
		}
		return result[i].Start > result[j].Start
	})
	return result, nil
}

func (s *Store) DeleteTaxBracket(_ context.Context, bracketID id.TaxBracketID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.brackets[bracketID.String()]; !ok {
		return mint.ErrBracketNotFound
	}
	delete(s.brackets, bracketID.String())
	return nil
}

// Recurring transfer Store implementation

func (s *Store) CreateRecurringTransfer(_ context.Context, r *transfer.RecurringTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	if r.PaymentsLeft != nil {
		n := *r.PaymentsLeft
		cp.PaymentsLeft = &n
	}
	s.transfers[r.ID.String()] = &cp
	return nil
}

func (s *Store) GetRecurringTransfer(_ context.Context, transferID id.RecurringID) (*transfer.RecurringTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.transfers[transferID.String()]; ok {
		return copyTransfer(r), nil
	}
	return nil, mint.ErrTransferNotFound
}

func (s *Store) ListRecurringTransfers(_ context.Context) ([]*transfer.RecurringTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*transfer.RecurringTransfer, 0, len(s.transfers))
	for _, r := range s.transfers {
		result = append(result, copyTransfer(r))
	}
	sortTransfers(result)
	return result, nil
}

func (s *Store) ListRecurringTransfersByAccount(_ context.Context, fromID id.AccountID) ([]*transfer.RecurringTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*transfer.RecurringTransfer, 0)
	for _, r := range s.transfers {
		if r.FromID == fromID {
			result = append(result, copyTransfer(r))
		}
	}
	sortTransfers(result)
	return result, nil
}

func (s *Store) UpdateRecurringTransfer(_ context.Context, r *transfer.RecurringTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transfers[r.ID.String()]; !ok {
		return mint.ErrTransferNotFound
	}
	s.transfers[r.ID.String()] = copyTransfer(r)
	return nil
}

func (s *Store) DeleteRecurringTransfer(_ context.Context, transferID id.RecurringID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transfers[transferID.String()]; !ok {
		return mint.ErrTransferNotFound
	}
	delete(s.transfers, transferID.String())
	return nil
}

// Audit trail implementation

func (s *Store) AppendTransaction(_ context.Context, t *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append(s.transactions, copyTransaction(t))
	return nil
}

func (s *Store) ListTransactions(_ context.Context, economyID id.EconomyID, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*transaction.Transaction, 0)
	for _, t := range s.transactions {
		if t.EconomyID != economyID {
			continue
		}
		if opts.Action != "" && t.Action != opts.Action {
			continue
		}
		result = append(result, copyTransaction(t))
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) ListAccountTransactions(_ context.Context, accountID id.AccountID, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*transaction.Transaction, 0)
	for _, t := range s.transactions {
		if t.FromAccountID != accountID && t.ToAccountID != accountID {
			continue
		}
		if opts.Action != "" && t.Action != opts.Action {
			continue
		}
		result = append(result, copyTransaction(t))
	}
	return paginate(result, opts.Limit, opts.Offset), nil
}

// Composite atomic applications

func (s *Store) ApplyTransfer(_ context.Context, app *store.TransferApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[app.FromID.String()]
	if !ok {
		return mint.ErrAccountNotFound
	}
	if from.Balance < app.Debit {
		return mint.ErrInsufficientFunds
	}
	// Validate every target before mutating anything.
	for _, c := range app.Credits {
		if _, ok := s.accounts[c.AccountID.String()]; !ok {
			return mint.ErrAccountNotFound
		}
	}
	if !app.IncomeAccountID.IsNil() {
		if _, ok := s.accounts[app.IncomeAccountID.String()]; !ok {
			return mint.ErrAccountNotFound
		}
	}

	from.Balance -= app.Debit
	for _, c := range app.Credits {
		s.accounts[c.AccountID.String()].Balance += c.Amount
	}
	if !app.IncomeAccountID.IsNil() {
		s.accounts[app.IncomeAccountID.String()].IncomeToDate += app.IncomeDelta
	}
	if app.Record != nil {
		s.transactions = append(s.transactions, copyTransaction(app.Record))
	}
	return nil
}

func (s *Store) AdjustBalance(_ context.Context, adj *store.BalanceAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[adj.AccountID.String()]
	if !ok {
		return mint.ErrAccountNotFound
	}
	if a.Balance+adj.Delta < 0 {
		return mint.ErrInsufficientFunds
	}
	a.Balance += adj.Delta
	if adj.Record != nil {
		s.transactions = append(s.transactions, copyTransaction(adj.Record))
	}
	return nil
}

func (s *Store) ApplyTaxPass(_ context.Context, app *store.TaxApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, state := range app.States {
		if _, ok := s.accounts[state.AccountID.String()]; !ok {
			return mint.ErrAccountNotFound
		}
	}
	for _, state := range app.States {
		a := s.accounts[state.AccountID.String()]
		a.Balance = state.Balance
		a.IncomeToDate = state.IncomeToDate
	}
	if app.Record != nil {
		s.transactions = append(s.transactions, copyTransaction(app.Record))
	}
	return nil
}

// Core methods

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Helpers

func copyTransfer(r *transfer.RecurringTransfer) *transfer.RecurringTransfer {
	cp := *r
	if r.PaymentsLeft != nil {
		n := *r.PaymentsLeft
		cp.PaymentsLeft = &n
	}
	return &cp
}

func copyTransaction(t *transaction.Transaction) *transaction.Transaction {
	cp := *t
	if t.Amount != nil {
		n := *t.Amount
		cp.Amount = &n
	}
	if t.Metadata != nil {
		cp.Metadata = make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

func sortTransfers(transfers []*transfer.RecurringTransfer) {
	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].ID.String() < transfers[j].ID.String()
		}
		return transfers[i].CreatedAt.Before(transfers[j].CreatedAt)
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
