package postgres

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/mint/account"
	"github.com/xraph/mint/economy"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/tax"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
	"github.com/xraph/mint/types"
)

// ==================== Economy models ====================

type economyModel struct {
	grove.BaseModel `grove:"table:mint_economies"`

	ID           string    `grove:"id,pk"`
	CurrencyName string    `grove:"currency_name"`
	CurrencyUnit string    `grove:"currency_unit"`
	OwnerGuildID int64     `grove:"owner_guild_id"`
	CreatedAt    time.Time `grove:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"`
}

func toEconomyModel(e *economy.Economy) *economyModel {
	return &economyModel{
		ID:           e.ID.String(),
		CurrencyName: e.CurrencyName,
		CurrencyUnit: e.CurrencyUnit,
		OwnerGuildID: e.OwnerGuildID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func fromEconomyModel(m *economyModel) (*economy.Economy, error) {
	economyID, err := id.ParseEconomyID(m.ID)
	if err != nil {
		return nil, err
	}
	return &economy.Economy{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           economyID,
		CurrencyName: m.CurrencyName,
		CurrencyUnit: m.CurrencyUnit,
		OwnerGuildID: m.OwnerGuildID,
	}, nil
}

type guildModel struct {
	grove.BaseModel `grove:"table:mint_guilds"`

	GuildID   int64  `grove:"guild_id,pk"`
	EconomyID string `grove:"economy_id"`
}

func fromGuildModel(m *guildModel) (*economy.Guild, error) {
	economyID, err := id.ParseEconomyID(m.EconomyID)
	if err != nil {
		return nil, err
	}
	return &economy.Guild{GuildID: m.GuildID, EconomyID: economyID}, nil
}

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:mint_accounts"`

	ID           string     `grove:"id,pk"`
	Name         string     `grove:"name"`
	OwnerID      *int64     `grove:"owner_id"`
	Kind         string     `grove:"kind"`
	Balance      int64      `grove:"balance"`
	IncomeToDate int64      `grove:"income_to_date"`
	EconomyID    string     `grove:"economy_id"`
	ClosedAt     *time.Time `grove:"closed_at"`
	CreatedAt    time.Time  `grove:"created_at"`
	UpdatedAt    time.Time  `grove:"updated_at"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		ID:           a.ID.String(),
		Name:         a.Name,
		OwnerID:      a.OwnerID,
		Kind:         string(a.Kind),
		Balance:      a.Balance,
		IncomeToDate: a.IncomeToDate,
		EconomyID:    a.EconomyID.String(),
		ClosedAt:     a.ClosedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	accountID, err := id.ParseAccountID(m.ID)
	if err != nil {
		return nil, err
	}
	economyID, err := id.ParseEconomyID(m.EconomyID)
	if err != nil {
		return nil, err
	}
	return &account.Account{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           accountID,
		Name:         m.Name,
		OwnerID:      m.OwnerID,
		Kind:         account.Kind(m.Kind),
		Balance:      m.Balance,
		IncomeToDate: m.IncomeToDate,
		EconomyID:    economyID,
		ClosedAt:     m.ClosedAt,
	}, nil
}

type balanceSubscriptionModel struct {
	grove.BaseModel `grove:"table:mint_balance_subscriptions"`

	ID          string `grove:"id,pk"`
	PrincipalID int64  `grove:"principal_id"`
	AccountID   string `grove:"account_id"`
}

// ==================== Permission models ====================

type permissionModel struct {
	grove.BaseModel `grove:"table:mint_permissions"`

	ID          string `grove:"id,pk"`
	PrincipalID int64  `grove:"principal_id"`
	Kind        string `grove:"kind"`
	AccountID   string `grove:"account_id"` // empty = any account
	EconomyID   string `grove:"economy_id"` // empty = any economy
	Allowed     bool   `grove:"allowed"`
}

func toPermissionModel(e *permission.Entry) *permissionModel {
	m := &permissionModel{
		ID:          e.ID.String(),
		PrincipalID: e.PrincipalID,
		Kind:        string(e.Kind),
		Allowed:     e.Allowed,
	}
	if !e.AccountID.IsNil() {
		m.AccountID = e.AccountID.String()
	}
	if !e.EconomyID.IsNil() {
		m.EconomyID = e.EconomyID.String()
	}
	return m
}

func fromPermissionModel(m *permissionModel) (*permission.Entry, error) {
	entryID, err := id.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	e := &permission.Entry{
		ID:          entryID,
		PrincipalID: m.PrincipalID,
		Kind:        permission.Kind(m.Kind),
		Allowed:     m.Allowed,
	}
	if m.AccountID != "" {
		if e.AccountID, err = id.ParseAccountID(m.AccountID); err != nil {
			return nil, err
		}
	}
	if m.EconomyID != "" {
		if e.EconomyID, err = id.ParseEconomyID(m.EconomyID); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ==================== Tax bracket models ====================

type taxBracketModel struct {
	grove.BaseModel `grove:"table:mint_tax_brackets"`

	ID            string    `grove:"id,pk"`
	Name          string    `grove:"name"`
	EconomyID     string    `grove:"economy_id"`
	AffectedKind  string    `grove:"affected_kind"`
	Kind          string    `grove:"kind"`
	RangeStart    int64     `grove:"range_start"`
	RangeEnd      int64     `grove:"range_end"`
	Rate          int       `grove:"rate"`
	DestinationID string    `grove:"destination_id"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toTaxBracketModel(b *tax.Bracket) *taxBracketModel {
	return &taxBracketModel{
		ID:            b.ID.String(),
		Name:          b.Name,
		EconomyID:     b.EconomyID.String(),
		AffectedKind:  string(b.AffectedKind),
		Kind:          string(b.Kind),
		RangeStart:    b.Start,
		RangeEnd:      b.End,
		Rate:          b.Rate,
		DestinationID: b.DestinationID.String(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func fromTaxBracketModel(m *taxBracketModel) (*tax.Bracket, error) {
	bracketID, err := id.ParseTaxBracketID(m.ID)
	if err != nil {
		return nil, err
	}
	economyID, err := id.ParseEconomyID(m.EconomyID)
	if err != nil {
		return nil, err
	}
	destinationID, err := id.ParseAccountID(m.DestinationID)
	if err != nil {
		return nil, err
	}
	return &tax.Bracket{
		Entity:        types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:            bracketID,
		Name:          m.Name,
		EconomyID:     economyID,
		AffectedKind:  account.Kind(m.AffectedKind),
		Kind:          tax.Kind(m.Kind),
		Start:         m.RangeStart,
		End:           m.RangeEnd,
		Rate:          m.Rate,
		DestinationID: destinationID,
	}, nil
}

// ==================== Recurring transfer models ====================

type recurringTransferModel struct {
	grove.BaseModel `grove:"table:mint_recurring_transfers"`

	ID           string    `grove:"id,pk"`
	AuthorizerID int64     `grove:"authorizer_id"`
	FromID       string    `grove:"from_id"`
	ToID         string    `grove:"to_id"`
	Amount       int64     `grove:"amount"`
	Kind         string    `grove:"kind"`
	LastPaidAt   time.Time `grove:"last_paid_at"`
	IntervalNS   int64     `grove:"interval_ns"`
	PaymentsLeft *int      `grove:"payments_left"`
	CreatedAt    time.Time `grove:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"`
}

func toRecurringTransferModel(r *transfer.RecurringTransfer) *recurringTransferModel {
	return &recurringTransferModel{
		ID:           r.ID.String(),
		AuthorizerID: r.AuthorizerID,
		FromID:       r.FromID.String(),
		ToID:         r.ToID.String(),
		Amount:       r.Amount,
		Kind:         string(r.Kind),
		LastPaidAt:   r.LastPaidAt,
		IntervalNS:   int64(r.Interval),
		PaymentsLeft: r.PaymentsLeft,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func fromRecurringTransferModel(m *recurringTransferModel) (*transfer.RecurringTransfer, error) {
	transferID, err := id.ParseRecurringID(m.ID)
	if err != nil {
		return nil, err
	}
	fromID, err := id.ParseAccountID(m.FromID)
	if err != nil {
		return nil, err
	}
	toID, err := id.ParseAccountID(m.ToID)
	if err != nil {
		return nil, err
	}
	return &transfer.RecurringTransfer{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           transferID,
		AuthorizerID: m.AuthorizerID,
		FromID:       fromID,
		ToID:         toID,
		Amount:       m.Amount,
		Kind:         transfer.Kind(m.Kind),
		LastPaidAt:   m.LastPaidAt,
		Interval:     time.Duration(m.IntervalNS),
		PaymentsLeft: m.PaymentsLeft,
	}, nil
}

// ==================== Transaction models ====================

type transactionModel struct {
	grove.BaseModel `grove:"table:mint_transactions"`

	ID            string          `grove:"id,pk"`
	ActorID       int64           `grove:"actor_id"`
	Timestamp     time.Time       `grove:"timestamp"`
	Action        string          `grove:"action"`
	Change        string          `grove:"change"`
	EconomyID     string          `grove:"economy_id"`
	FromAccountID string          `grove:"from_account_id"`
	ToAccountID   string          `grove:"to_account_id"`
	Amount        *int64          `grove:"amount"`
	Metadata      json.RawMessage `grove:"metadata"`
}

func toTransactionModel(t *transaction.Transaction) *transactionModel {
	metadata, _ := json.Marshal(t.Metadata) //nolint:errcheck // best-effort

	m := &transactionModel{
		ID:        t.ID.String(),
		ActorID:   t.ActorID,
		Timestamp: t.Timestamp,
		Action:    string(t.Action),
		Change:    string(t.Change),
		Amount:    t.Amount,
		Metadata:  metadata,
	}
	if !t.EconomyID.IsNil() {
		m.EconomyID = t.EconomyID.String()
	}
	if !t.FromAccountID.IsNil() {
		m.FromAccountID = t.FromAccountID.String()
	}
	if !t.ToAccountID.IsNil() {
		m.ToAccountID = t.ToAccountID.String()
	}
	return m
}

func fromTransactionModel(m *transactionModel) (*transaction.Transaction, error) {
	transactionID, err := id.ParseTransactionID(m.ID)
	if err != nil {
		return nil, err
	}
	t := &transaction.Transaction{
		ID:        transactionID,
		ActorID:   m.ActorID,
		Timestamp: m.Timestamp,
		Action:    transaction.Action(m.Action),
		Change:    transaction.Change(m.Change),
		Amount:    m.Amount,
	}
	if m.EconomyID != "" {
		if t.EconomyID, err = id.ParseEconomyID(m.EconomyID); err != nil {
			return nil, err
		}
	}
	if m.FromAccountID != "" {
		if t.FromAccountID, err = id.ParseAccountID(m.FromAccountID); err != nil {
			return nil, err
		}
	}
	if m.ToAccountID != "" {
		if t.ToAccountID, err = id.ParseAccountID(m.ToAccountID); err != nil {
			return nil, err
		}
	}
	if len(m.Metadata) > 0 && string(m.Metadata) != "null" {
		_ = json.Unmarshal(m.Metadata, &t.Metadata) //nolint:errcheck // best-effort
	}
	return t, nil
}
