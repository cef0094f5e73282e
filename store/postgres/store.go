// Package postgres implements the Mint store on PostgreSQL via the Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/account"
	"github.com/xraph/mint/economy"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	mintstore "github.com/xraph/mint/store"
	"github.com/xraph/mint/tax"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
//
// Select clauses reach the server as written, so every read here uses
// positional $N markers. The composite applications run inside a single
// transaction, so a failure mid-sequence rolls back every prior write.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("mint/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("mint/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Economy Store ====================

func (s *Store) CreateEconomy(ctx context.Context, e *economy.Economy) error {
	var count int
	err := s.pg.NewRaw(`SELECT COUNT(*) FROM mint_economies WHERE currency_name = $1`, e.CurrencyName).
		Scan(ctx, &count)
	if err != nil {
		return err
	}
	if count > 0 {
		return mint.ErrEconomyExists
	}
	_, err = s.pg.NewInsert(toEconomyModel(e)).Exec(ctx)
	return err
}

func (s *Store) GetEconomy(ctx context.Context, economyID id.EconomyID) (*economy.Economy, error) {
	m := new(economyModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", economyID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrEconomyNotFound
		}
		return nil, err
	}
	return fromEconomyModel(m)
}

func (s *Store) GetEconomyByName(ctx context.Context, currencyName string) (*economy.Economy, error) {
	m := new(economyModel)
	err := s.pg.NewSelect(m).
		Where("currency_name = $1", currencyName).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrEconomyNotFound
		}
		return nil, err
	}
	return fromEconomyModel(m)
}

func (s *Store) GetEconomyByGuild(ctx context.Context, guildID int64) (*economy.Economy, error) {
	g := new(guildModel)
	err := s.pg.NewSelect(g).
		Where("guild_id = $1", guildID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrEconomyNotFound
		}
		return nil, err
	}
	economyID, err := id.ParseEconomyID(g.EconomyID)
	if err != nil {
		return nil, err
	}
	return s.GetEconomy(ctx, economyID)
}

func (s *Store) ListEconomies(ctx context.Context) ([]*economy.Economy, error) {
	var models []economyModel
	err := s.pg.NewSelect(&models).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*economy.Economy, len(models))
	for i := range models {
		if result[i], err = fromEconomyModel(&models[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) DeleteEconomy(ctx context.Context, economyID id.EconomyID) error {
	key := economyID.String()
	res, err := s.pg.NewDelete((*economyModel)(nil)).
		Where("id = $1", key).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mint.ErrEconomyNotFound
	}

	if _, err := s.pg.NewDelete((*guildModel)(nil)).Where("economy_id = $1", key).Exec(ctx); err != nil {
		return err
	}
	if _, err := s.pg.NewDelete((*taxBracketModel)(nil)).Where("economy_id = $1", key).Exec(ctx); err != nil {
		return err
	}
	if _, err := s.pg.NewDelete((*permissionModel)(nil)).Where("economy_id = $1", key).Exec(ctx); err != nil {
		return err
	}
	if _, err := s.pg.NewRaw(`
		DELETE FROM mint_recurring_transfers WHERE from_id IN
			(SELECT id FROM mint_accounts WHERE economy_id = $1)
		OR to_id IN
			(SELECT id FROM mint_accounts WHERE economy_id = $2)
	`, key, key).Exec(ctx); err != nil {
		return err
	}
	if _, err := s.pg.NewRaw(`
		DELETE FROM mint_balance_subscriptions WHERE account_id IN
			(SELECT id FROM mint_accounts WHERE economy_id = $1)
	`, key).Exec(ctx); err != nil {
		return err
	}
	_, err = s.pg.NewDelete((*accountModel)(nil)).Where("economy_id = $1", key).Exec(ctx)
	return err
}

func (s *Store) BindGuild(ctx context.Context, guildID int64, economyID id.EconomyID) error {
	if _, err := s.GetEconomy(ctx, economyID); err != nil {
		return err
	}
	if _, err := s.pg.NewDelete((*guildModel)(nil)).Where("guild_id = $1", guildID).Exec(ctx); err != nil {
		return err
	}
	_, err := s.pg.NewInsert(&guildModel{GuildID: guildID, EconomyID: economyID.String()}).Exec(ctx)
	return err
}

func (s *Store) UnbindGuild(ctx context.Context, guildID int64) error {
	res, err := s.pg.NewDelete((*guildModel)(nil)).
		Where("guild_id = $1", guildID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mint.ErrGuildNotBound
	}
	return nil
}

func (s *Store) ListGuilds(ctx context.Context, economyID id.EconomyID) ([]*economy.Guild, error) {
	var models []guildModel
	err := s.pg.NewSelect(&models).
		Where("economy_id = $1", economyID.String()).
		OrderExpr("guild_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*economy.Guild, len(models))
	for i := range models {
		if result[i], err = fromGuildModel(&models[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ==================== Account Store ====================

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	var count int
	err := s.pg.NewRaw(`
		SELECT COUNT(*) FROM mint_accounts
		WHERE economy_id = $1 AND name = $2 AND closed_at IS NULL
	`, a.EconomyID.String(), a.Name).Scan(ctx, &count)
	if err != nil {
		return err
	}
	if count > 0 {
		return mint.ErrAccountExists
	}
	_, err = s.pg.NewInsert(toAccountModel(a)).Exec(ctx)
	return err
}

func (s *Store) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", accountID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrAccountNotFound
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) GetUserAccount(ctx context.Context, ownerID int64, economyID id.EconomyID) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("owner_id = $1", ownerID).
		Where("economy_id = $2", economyID.String()).
		Where("kind = $3", string(account.KindUser)).
		Where("closed_at IS NULL").
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrAccountNotFound
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) GetAccountByName(ctx context.Context, economyID id.EconomyID, name string) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("economy_id = $1", economyID.String()).
		Where("name = $2", name).
		Where("closed_at IS NULL").
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrAccountNotFound
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) ListAccounts(ctx context.Context, economyID id.EconomyID, opts account.ListOpts) ([]*account.Account, error) {
	var models []accountModel
	q := s.pg.NewSelect(&models).
		Where("economy_id = $1", economyID.String()).
		Where("closed_at IS NULL")

	argIdx := 2
	if opts.Kind != "" {
		q = q.Where(fmt.Sprintf("kind = $%d", argIdx), string(opts.Kind))
		argIdx++
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC, name ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	result := make([]*account.Account, len(models))
	for i := range models {
		var err error
		if result[i], err = fromAccountModel(&models[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	res, err := s.pg.NewUpdate(toAccountModel(a)).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mint.ErrAccountNotFound
	}
	return nil
}

// ==================== Balance subscriptions ====================

func (s *Store) CreateSubscription(ctx context.Context, sub *account.BalanceSubscription) error {
	// Upsert keyed on (principal, account).
	if err := s.DeleteSubscription(ctx, sub.PrincipalID, sub.AccountID); err != nil {
		return err
	}
	_, err := s.pg.NewInsert(&balanceSubscriptionModel{
		ID:          sub.ID.String(),
		PrincipalID: sub.PrincipalID,
		AccountID:   sub.AccountID.String(),
	}).Exec(ctx)
	return err
}

func (s *Store) DeleteSubscription(ctx context.Context, principalID int64, accountID id.AccountID) error {
	_, err := s.pg.NewDelete((*balanceSubscriptionModel)(nil)).
		Where("principal_id = $1", principalID).
		Where("account_id = $2", accountID.String()).
		Exec(ctx)
	return err
}

func (s *Store) ListSubscribers(ctx context.Context, accountID id.AccountID) ([]int64, error) {
	var models []balanceSubscriptionModel
	err := s.pg.NewSelect(&models).
		Where("account_id = $1", accountID.String()).
		OrderExpr("principal_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]int64, len(models))
	for i := range models {
		result[i] = models[i].PrincipalID
	}
	return result, nil
}

func (s *Store) DeleteAccountSubscriptions(ctx context.Context, accountID id.AccountID) error {
	_, err := s.pg.NewDelete((*balanceSubscriptionModel)(nil)).
		Where("account_id = $1", accountID.String()).
		Exec(ctx)
	return err
}

// ==================== Permission Store ====================

func (s *Store) UpsertPermission(ctx context.Context, e *permission.Entry) error {
	m := toPermissionModel(e)
	if _, err := s.pg.NewDelete((*permissionModel)(nil)).
		Where("principal_id = $1", m.PrincipalID).
		Where("kind = $2", m.Kind).
		Where("account_id = $3", m.AccountID).
		Where("economy_id = $4", m.EconomyID).
		Exec(ctx); err != nil {
		return err
	}
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) DeletePermission(ctx context.Context, principalID int64, kind permission.Kind, accountID id.AccountID, economyID id.EconomyID) error {
	accountKey, economyKey := "", ""
	if !accountID.IsNil() {
		accountKey = accountID.String()
	}
	if !economyID.IsNil() {
		economyKey = economyID.String()
	}
	_, err := s.pg.NewDelete((*permissionModel)(nil)).
		Where("principal_id = $1", principalID).
		Where("kind = $2", string(kind)).
		Where("account_id = $3", accountKey).
		Where("economy_id = $4", economyKey).
		Exec(ctx)
	return err
}

func (s *Store) ListPermissionsFor(ctx context.Context, principalIDs []int64, kind permission.Kind) ([]*permission.Entry, error) {
	if len(principalIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(principalIDs))
	args := make([]any, len(principalIDs))
	for i, pid := range principalIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args[i] = pid
	}

	var models []permissionModel
	err := s.pg.NewSelect(&models).
		Where("kind = $1", string(kind)).
		Where(fmt.Sprintf("principal_id IN (%s)", strings.Join(placeholders, ", ")), args...).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*permission.Entry, len(models))
	for i := range models {
		if result[i], err = fromPermissionModel(&models[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) DeleteAccountPermissions(ctx context.Context, accountID id.AccountID) error {
	_, err := s.pg.NewDelete((*permissionModel)(nil)).
		Where("account_id = $1", accountID.String()).
		Exec(ctx)
	return err
}

// ==================== Tax bracket Store ====================

func (s *Store) CreateTaxBracket(ctx context.Context, b *tax.Bracket) error {
	var count int
	err := s.pg.NewRaw(`
		SELECT COUNT(*) FROM mint_tax_brackets WHERE economy_id = $1 AND name = $2
	`, b.EconomyID.String(), b.Name).Scan(ctx, &count)
	if err != nil {
		return err
	}
	if count > 0 {
		return mint.ErrBracketExists
	}
	_, err = s.pg.NewInsert(toTaxBracketModel(b)).Exec(ctx)
	return err
}

func (s *Store) GetTaxBracket(ctx context.Context, bracketID id.TaxBracketID) (*tax.Bracket, error) {
	m := new(taxBracketModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", bracketID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrBracketNotFound
		}
		return nil, err
	}
	return fromTaxBracketModel(m)
}

func (s *Store) GetTaxBracketByName(ctx context.Context, economyID id.EconomyID, name string) (*tax.Bracket, error) {
	m := new(taxBracketModel)
	err := s.pg.NewSelect(m).
		Where("economy_id = $1", economyID.String()).
		Where("name = $2", name).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrBracketNotFound
		}
		return nil, err
	}
	return fromTaxBracketModel(m)
}

func (s *Store) ListTaxBrackets(ctx context.Context, economyID id.EconomyID, kind tax.Kind) ([]*tax.Bracket, error) {
	var models []taxBracketModel
	q := s.pg.NewSelect(&models).
		Where("economy_id = $1", economyID.String())
	if kind != "" {
		q = q.Where("kind = $2", string(kind))
	}
	// Highest bracket first, the order tax passes evaluate in.
	q = q.OrderExpr("range_start DESC, name ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	result := make([]*tax.Bracket, len(models))
	for i := range models {
		var err error
		if result[i], err = fromTaxBracketModel(&models[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) DeleteTaxBracket(ctx context.Context, bracketID id.TaxBracketID) error {
	res, err := s.pg.NewDelete((*taxBracketModel)(nil)).
		Where("id = $1", bracketID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mint.ErrBracketNotFound
	}
	return nil
}

// ==================== Recurring transfer Store ====================

func (s *Store) CreateRecurringTransfer(ctx context.Context, r *transfer.RecurringTransfer) error {
	_, err := s.pg.NewInsert(toRecurringTransferModel(r)).Exec(ctx)
	return err
}

func (s *Store) GetRecurringTransfer(ctx context.Context, transferID id.RecurringID) (*transfer.RecurringTransfer, error) {
	m := new(recurringTransferModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", transferID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrTransferNotFound
		}
		return nil, err
	}
	return fromRecurringTransferModel(m)
}

func (s *Store) ListRecurringTransfers(ctx context.Context) ([]*transfer.RecurringTransfer, error) {
	var models []recurringTransferModel
	err := s.pg.NewSelect(&models).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fromRecurringTransferModels(models)
}

func (s *Store) ListRecurringTransfersByAccount(ctx context.Context, fromID id.AccountID) ([]*transfer.RecurringTransfer, error) {
	var models []recurringTransferModel
	err := s.pg.NewSelect(&models).
		Where("from_id = $1", fromID.String()).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return fromRecurringTransferModels(models)
}

func fromRecurringTransferModels(models []recurringTransferModel) ([]*transfer.RecurringTransfer, error) {
	result := make([]*transfer.RecurringTransfer, len(models))
	for i := range models {
		var err error
		if result[i], err = fromRecurringTransferModel(&models[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) UpdateRecurringTransfer(ctx context.Context, r *transfer.RecurringTransfer) error {
	res, err := s.pg.NewUpdate(toRecurringTransferModel(r)).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mint.ErrTransferNotFound
	}
	return nil
}

func (s *Store) DeleteRecurringTransfer(ctx context.Context, transferID id.RecurringID) error {
	res, err := s.pg.NewDelete((*recurringTransferModel)(nil)).
		Where("id = $1", transferID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mint.ErrTransferNotFound
	}
	return nil
}

// ==================== Audit trail ====================

func (s *Store) AppendTransaction(ctx context.Context, t *transaction.Transaction) error {
	_, err := s.pg.NewInsert(toTransactionModel(t)).Exec(ctx)
	return err
}

func (s *Store) ListTransactions(ctx context.Context, economyID id.EconomyID, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	var models []transactionModel
	q := s.pg.NewSelect(&models).
		Where("economy_id = $1", economyID.String())
	if opts.Action != "" {
		q = q.Where("action = $2", string(opts.Action))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return fromTransactionModels(models)
}

func (s *Store) ListAccountTransactions(ctx context.Context, accountID id.AccountID, opts transaction.ListOpts) ([]*transaction.Transaction, error) {
	key := accountID.String()
	var models []transactionModel
	q := s.pg.NewSelect(&models).
		Where("from_account_id = $1 OR to_account_id = $2", key, key)
	if opts.Action != "" {
		q = q.Where("action = $3", string(opts.Action))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return fromTransactionModels(models)
}

func fromTransactionModels(models []transactionModel) ([]*transaction.Transaction, error) {
	result := make([]*transaction.Transaction, len(models))
	for i := range models {
		var err error
		if result[i], err = fromTransactionModel(&models[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ==================== Composite atomic applications ====================

func (s *Store) ApplyTransfer(ctx context.Context, app *mintstore.TransferApplication) error {
	tx, err := s.pg.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("mint/postgres: begin transfer: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.NewRaw(`SELECT balance FROM mint_accounts WHERE id = $1`, app.FromID.String()).
		Scan(ctx, &balance)
	if err != nil {
		if isNoRows(err) {
			return mint.ErrAccountNotFound
		}
		return err
	}
	if balance < app.Debit {
		return mint.ErrInsufficientFunds
	}
	for _, c := range app.Credits {
		if err := requireAccount(ctx, tx, c.AccountID); err != nil {
			return err
		}
	}
	if !app.IncomeAccountID.IsNil() {
		if err := requireAccount(ctx, tx, app.IncomeAccountID); err != nil {
			return err
		}
	}

	if _, err := tx.NewUpdate((*accountModel)(nil)).
		Set("balance = balance - $1", app.Debit).
		Where("id = $2", app.FromID.String()).
		Exec(ctx); err != nil {
		return err
	}
	for _, c := range app.Credits {
		if _, err := tx.NewUpdate((*accountModel)(nil)).
			Set("balance = balance + $1", c.Amount).
			Where("id = $2", c.AccountID.String()).
			Exec(ctx); err != nil {
			return err
		}
	}
	if !app.IncomeAccountID.IsNil() {
		if _, err := tx.NewUpdate((*accountModel)(nil)).
			Set("income_to_date = income_to_date + $1", app.IncomeDelta).
			Where("id = $2", app.IncomeAccountID.String()).
			Exec(ctx); err != nil {
			return err
		}
	}
	if app.Record != nil {
		if _, err := tx.NewInsert(toTransactionModel(app.Record)).Exec(ctx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) AdjustBalance(ctx context.Context, adj *mintstore.BalanceAdjustment) error {
	tx, err := s.pg.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("mint/postgres: begin adjustment: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.NewRaw(`SELECT balance FROM mint_accounts WHERE id = $1`, adj.AccountID.String()).
		Scan(ctx, &balance)
	if err != nil {
		if isNoRows(err) {
			return mint.ErrAccountNotFound
		}
		return err
	}
	if balance+adj.Delta < 0 {
		return mint.ErrInsufficientFunds
	}

	if _, err := tx.NewUpdate((*accountModel)(nil)).
		Set("balance = balance + $1", adj.Delta).
		Where("id = $2", adj.AccountID.String()).
		Exec(ctx); err != nil {
		return err
	}
	if adj.Record != nil {
		if _, err := tx.NewInsert(toTransactionModel(adj.Record)).Exec(ctx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ApplyTaxPass(ctx context.Context, app *mintstore.TaxApplication) error {
	tx, err := s.pg.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("mint/postgres: begin tax pass: %w", err)
	}
	defer tx.Rollback()

	for _, state := range app.States {
		if err := requireAccount(ctx, tx, state.AccountID); err != nil {
			return err
		}
	}
	for _, state := range app.States {
		if _, err := tx.NewUpdate((*accountModel)(nil)).
			Set("balance = $1", state.Balance).
			Set("income_to_date = $2", state.IncomeToDate).
			Where("id = $3", state.AccountID.String()).
			Exec(ctx); err != nil {
			return err
		}
	}
	if app.Record != nil {
		if _, err := tx.NewInsert(toTransactionModel(app.Record)).Exec(ctx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func requireAccount(ctx context.Context, tx *pgdriver.PgTx, accountID id.AccountID) error {
	var count int
	err := tx.NewRaw(`SELECT COUNT(*) FROM mint_accounts WHERE id = $1`, accountID.String()).
		Scan(ctx, &count)
	if err != nil {
		return err
	}
	if count == 0 {
		return mint.ErrAccountNotFound
	}
	return nil
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
