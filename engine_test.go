package mint_test

import (
	"context"
	"errors"
	"testing"
	"time"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/account"
	"github.com/xraph/mint/economy"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/principal"
	"github.com/xraph/mint/store/memory"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
)

const (
	testGuildID = int64(500)
	aliceID     = int64(11)
	bobID       = int64(12)
	carolID     = int64(13)
	modGroupID  = int64(900)
)

func ptr[T any](v T) *T { return &v }

// fixture wires an engine against the memory store with a controllable
// clock. Mutate now between calls to move time forward.
type fixture struct {
	t    *testing.T
	ctx  context.Context
	mint *mint.Mint
	now  time.Time
	econ *economy.Economy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:   t,
		ctx: context.Background(),
		now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	dir := &principal.StaticDirectory{
		Members: map[int64][]int64{
			aliceID: {},
			bobID:   {modGroupID},
		},
		Ranks: []int64{modGroupID},
	}

	f.mint = mint.New(memory.New(),
		mint.WithDirectory(dir),
		mint.WithRanker(dir),
		mint.WithClock(func() time.Time { return f.now }),
	)

	econ, err := f.mint.CreateEconomy(f.ctx, principal.ConsoleID, "tau", "τ", testGuildID)
	if err != nil {
		t.Fatalf("create economy: %v", err)
	}
	f.econ = econ
	return f
}

func (f *fixture) openUser(owner int64, name string) *account.Account {
	f.t.Helper()
	acct, err := f.mint.OpenAccount(f.ctx, owner, &owner, f.econ.ID, name, account.KindUser)
	if err != nil {
		f.t.Fatalf("open user account %q: %v", name, err)
	}
	return acct
}

func (f *fixture) openSpecial(kind account.Kind, name string) *account.Account {
	f.t.Helper()
	acct, err := f.mint.OpenAccount(f.ctx, principal.ConsoleID, nil, f.econ.ID, name, kind)
	if err != nil {
		f.t.Fatalf("open %s account %q: %v", kind, name, err)
	}
	return acct
}

func (f *fixture) print(accountID id.AccountID, amount int64) {
	f.t.Helper()
	if err := f.mint.PrintMoney(f.ctx, principal.ConsoleID, accountID, amount); err != nil {
		f.t.Fatalf("print money: %v", err)
	}
}

func (f *fixture) balance(accountID id.AccountID) int64 {
	f.t.Helper()
	acct, err := f.mint.GetAccount(f.ctx, accountID)
	if err != nil {
		f.t.Fatalf("get account: %v", err)
	}
	return acct.Balance
}

func (f *fixture) auditRows() []*transaction.Transaction {
	f.t.Helper()
	rows, err := f.mint.ListTransactions(f.ctx, f.econ.ID, transaction.ListOpts{})
	if err != nil {
		f.t.Fatalf("list transactions: %v", err)
	}
	return rows
}

func TestCreateEconomyBindsOwnerGuild(t *testing.T) {
	f := newFixture(t)

	econ, err := f.mint.EconomyForGuild(f.ctx, testGuildID)
	if err != nil {
		t.Fatalf("economy for guild: %v", err)
	}
	if econ.ID != f.econ.ID {
		t.Fatalf("guild bound to %s, want %s", econ.ID, f.econ.ID)
	}
	if econ.CurrencyName != "tau" || econ.CurrencyUnit != "τ" {
		t.Fatalf("unexpected currency %q/%q", econ.CurrencyName, econ.CurrencyUnit)
	}
}

func TestRegisterGuildRebindsExistingBinding(t *testing.T) {
	f := newFixture(t)

	second, err := f.mint.CreateEconomy(f.ctx, principal.ConsoleID, "crowns", "cr", testGuildID+1)
	if err != nil {
		t.Fatalf("create second economy: %v", err)
	}

	extraGuild := testGuildID + 50
	if err := f.mint.RegisterGuild(f.ctx, principal.ConsoleID, extraGuild, f.econ.ID); err != nil {
		t.Fatalf("register guild: %v", err)
	}

	// Rebinding to another economy replaces the old binding.
	if err := f.mint.RegisterGuild(f.ctx, principal.ConsoleID, extraGuild, second.ID); err != nil {
		t.Fatalf("rebind guild: %v", err)
	}
	econ, err := f.mint.EconomyForGuild(f.ctx, extraGuild)
	if err != nil {
		t.Fatalf("economy for guild: %v", err)
	}
	if econ.ID != second.ID {
		t.Fatalf("guild bound to %s, want %s", econ.ID, second.ID)
	}
}

func TestOwnerGuildCannotBeMoved(t *testing.T) {
	f := newFixture(t)

	second, err := f.mint.CreateEconomy(f.ctx, principal.ConsoleID, "crowns", "cr", testGuildID+1)
	if err != nil {
		t.Fatalf("create second economy: %v", err)
	}

	if err := f.mint.RegisterGuild(f.ctx, principal.ConsoleID, testGuildID, second.ID); !errors.Is(err, mint.ErrOwnerGuild) {
		t.Fatalf("register owner guild elsewhere: got %v, want ErrOwnerGuild", err)
	}
	if err := f.mint.UnregisterGuild(f.ctx, principal.ConsoleID, testGuildID); !errors.Is(err, mint.ErrOwnerGuild) {
		t.Fatalf("unregister owner guild: got %v, want ErrOwnerGuild", err)
	}
}

func TestOpenAccountDefaultPermission(t *testing.T) {
	f := newFixture(t)

	// carol is unknown to the directory; opening her own USER account is
	// allowed by default.
	acct, err := f.mint.OpenAccount(f.ctx, carolID, ptr(carolID), f.econ.ID, "carol", account.KindUser)
	if err != nil {
		t.Fatalf("open own account: %v", err)
	}
	if acct.Kind != account.KindUser || !acct.OwnedBy(carolID) {
		t.Fatalf("unexpected account %+v", acct)
	}

	// A second USER account for the same owner in the same economy is
	// rejected.
	if _, err := f.mint.OpenAccount(f.ctx, carolID, ptr(carolID), f.econ.ID, "carol-two", account.KindUser); !errors.Is(err, mint.ErrUserAccountTaken) {
		t.Fatalf("second user account: got %v, want ErrUserAccountTaken", err)
	}

	// Special accounts need an explicit grant carol does not have.
	if _, err := f.mint.OpenAccount(f.ctx, carolID, nil, f.econ.ID, "carol-corp", account.KindCorporation); !errors.Is(err, mint.ErrPermissionDenied) {
		t.Fatalf("open special account: got %v, want ErrPermissionDenied", err)
	}
}

func TestCloseAccountIsSoft(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 100)

	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 40, transfer.KindPersonal); err != nil {
		t.Fatalf("transfer before close: %v", err)
	}

	if err := f.mint.CloseAccount(f.ctx, aliceID, alice.ID); err != nil {
		t.Fatalf("close account: %v", err)
	}

	// Closed accounts refuse further movement.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 10, transfer.KindPersonal); !errors.Is(err, mint.ErrAccountClosed) {
		t.Fatalf("transfer after close: got %v, want ErrAccountClosed", err)
	}
	if err := f.mint.CloseAccount(f.ctx, aliceID, alice.ID); !errors.Is(err, mint.ErrAccountClosed) {
		t.Fatalf("double close: got %v, want ErrAccountClosed", err)
	}

	// Direct lookup still works, name lookup and listings do not.
	if _, err := f.mint.GetAccount(f.ctx, alice.ID); err != nil {
		t.Fatalf("get closed account: %v", err)
	}
	if _, err := f.mint.GetAccountByName(f.ctx, f.econ.ID, "alice"); !errors.Is(err, mint.ErrAccountNotFound) {
		t.Fatalf("get closed account by name: got %v, want ErrAccountNotFound", err)
	}
	accts, err := f.mint.ListAccounts(f.ctx, f.econ.ID, account.ListOpts{})
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	for _, a := range accts {
		if a.ID == alice.ID {
			t.Fatal("closed account still listed")
		}
	}

	// The audit trail keeps the closed account's history.
	rows, err := f.mint.ListAccountTransactions(f.ctx, alice.ID, transaction.ListOpts{})
	if err != nil {
		t.Fatalf("list account transactions: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("closed account has no transaction history")
	}

	// The owner can open a fresh USER account afterwards.
	if _, err := f.mint.OpenAccount(f.ctx, aliceID, ptr(aliceID), f.econ.ID, "alice-two", account.KindUser); err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")

	// bob already holds a USER account, so ownership transfer of another
	// USER account to bob is rejected.
	f.openUser(bobID, "bob")
	if err := f.mint.TransferOwnership(f.ctx, aliceID, alice.ID, bobID); !errors.Is(err, mint.ErrUserAccountTaken) {
		t.Fatalf("transfer to holder: got %v, want ErrUserAccountTaken", err)
	}

	if err := f.mint.TransferOwnership(f.ctx, aliceID, alice.ID, carolID); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	got, err := f.mint.GetAccount(f.ctx, alice.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !got.OwnedBy(carolID) {
		t.Fatalf("account owner = %v, want carol", got.OwnerID)
	}
}

func TestBalanceCarriesCurrencyUnit(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	f.print(alice.ID, 250)

	money, err := f.mint.Balance(f.ctx, aliceID, alice.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if money.Amount != 250 || money.Unit != "τ" {
		t.Fatalf("balance = %+v, want 250 τ", money)
	}
}

func TestDeleteEconomyCascades(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	f.print(alice.ID, 100)

	if err := f.mint.DeleteEconomy(f.ctx, principal.ConsoleID, f.econ.ID); err != nil {
		t.Fatalf("delete economy: %v", err)
	}

	if _, err := f.mint.GetEconomy(f.ctx, f.econ.ID); !errors.Is(err, mint.ErrEconomyNotFound) {
		t.Fatalf("get deleted economy: got %v, want ErrEconomyNotFound", err)
	}
	if _, err := f.mint.GetAccount(f.ctx, alice.ID); !errors.Is(err, mint.ErrAccountNotFound) {
		t.Fatalf("get cascaded account: got %v, want ErrAccountNotFound", err)
	}
	if _, err := f.mint.EconomyForGuild(f.ctx, testGuildID); !errors.Is(err, mint.ErrEconomyNotFound) {
		t.Fatalf("guild binding survived: got %v, want ErrEconomyNotFound", err)
	}
}
