package mint_test

import (
	"errors"
	"testing"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/account"
	"github.com/xraph/mint/principal"
	"github.com/xraph/mint/tax"
	"github.com/xraph/mint/transaction"
	"github.com/xraph/mint/transfer"
)

func TestPerformTransaction(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 1000)

	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 300, transfer.KindPersonal); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := f.balance(alice.ID); got != 700 {
		t.Fatalf("alice balance = %d, want 700", got)
	}
	if got := f.balance(bob.ID); got != 300 {
		t.Fatalf("bob balance = %d, want 300", got)
	}

	// Overdrawing is rejected and leaves balances untouched.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 701, transfer.KindPersonal); !errors.Is(err, mint.ErrInsufficientFunds) {
		t.Fatalf("overdraw: got %v, want ErrInsufficientFunds", err)
	}
	if got := f.balance(alice.ID); got != 700 {
		t.Fatalf("alice balance after failed transfer = %d, want 700", got)
	}

	// Zero and negative amounts are invalid.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 0, transfer.KindPersonal); !errors.Is(err, mint.ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, -5, transfer.KindPersonal); !errors.Is(err, mint.ErrInvalidAmount) {
		t.Fatalf("negative amount: got %v, want ErrInvalidAmount", err)
	}
}

func TestPerformTransactionRejectsCrossEconomy(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	f.print(alice.ID, 100)

	other, err := f.mint.CreateEconomy(f.ctx, principal.ConsoleID, "crowns", "cr", testGuildID+1)
	if err != nil {
		t.Fatalf("create second economy: %v", err)
	}
	stranger, err := f.mint.OpenAccount(f.ctx, bobID, ptr(bobID), other.ID, "bob", account.KindUser)
	if err != nil {
		t.Fatalf("open account in second economy: %v", err)
	}

	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, stranger.ID, 10, transfer.KindPersonal); !errors.Is(err, mint.ErrCrossEconomy) {
		t.Fatalf("cross-economy transfer: got %v, want ErrCrossEconomy", err)
	}
	if got := f.balance(alice.ID); got != 100 {
		t.Fatalf("alice balance = %d, want 100", got)
	}
}

func TestSelfTransferIsNoOp(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	f.print(alice.ID, 100)
	before := len(f.auditRows())

	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, alice.ID, 40, transfer.KindPersonal); err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	if got := f.balance(alice.ID); got != 100 {
		t.Fatalf("alice balance = %d, want 100", got)
	}
	if after := len(f.auditRows()); after != before {
		t.Fatalf("self transfer wrote %d audit rows", after-before)
	}
}

func TestIncomeTransferAccruesIncome(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 1000)

	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 400, transfer.KindIncome); err != nil {
		t.Fatalf("income transfer: %v", err)
	}
	got, err := f.mint.GetAccount(f.ctx, bob.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.Balance != 400 || got.IncomeToDate != 400 {
		t.Fatalf("bob balance/income = %d/%d, want 400/400", got.Balance, got.IncomeToDate)
	}

	// Personal transfers do not touch the income counter.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 100, transfer.KindPersonal); err != nil {
		t.Fatalf("personal transfer: %v", err)
	}
	got, _ = f.mint.GetAccount(f.ctx, bob.ID)
	if got.Balance != 500 || got.IncomeToDate != 400 {
		t.Fatalf("bob balance/income = %d/%d, want 500/400", got.Balance, got.IncomeToDate)
	}
}

func TestPurchaseAppliesVATInline(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	shop := f.openSpecial(account.KindCorporation, "shop")
	treasury := f.openSpecial(account.KindGovernment, "treasury")
	f.print(alice.ID, 1000)

	_, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "vat-standard",
		account.KindCorporation, tax.KindVAT, 0, 10000, 10, treasury.ID)
	if err != nil {
		t.Fatalf("create vat bracket: %v", err)
	}

	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, shop.ID, 200, transfer.KindPurchase); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	// Buyer pays gross, seller receives net, the cut goes to the bracket
	// destination.
	if got := f.balance(alice.ID); got != 800 {
		t.Fatalf("alice balance = %d, want 800", got)
	}
	if got := f.balance(shop.ID); got != 180 {
		t.Fatalf("shop balance = %d, want 180", got)
	}
	if got := f.balance(treasury.ID); got != 20 {
		t.Fatalf("treasury balance = %d, want 20", got)
	}

	// The audit row records the gross amount.
	rows := f.auditRows()
	last := rows[len(rows)-1]
	if last.Action != transaction.ActionTransfer || last.Amount == nil || *last.Amount != 200 {
		t.Fatalf("audit row = %+v, want transfer of 200", last)
	}
}

func TestPurchaseRunsVATBracketsSequentially(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	shop := f.openSpecial(account.KindCorporation, "shop")
	treasury := f.openSpecial(account.KindGovernment, "treasury")
	council := f.openSpecial(account.KindGovernment, "council")
	f.print(alice.ID, 3000)

	// Two brackets: the higher one taxes first, and its cut shrinks the
	// amount the lower one sees.
	_, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "vat-luxury",
		account.KindCorporation, tax.KindVAT, 1000, 3000, 10, treasury.ID)
	if err != nil {
		t.Fatalf("create luxury bracket: %v", err)
	}
	_, err = f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "vat-base",
		account.KindCorporation, tax.KindVAT, 0, 1000, 5, council.ID)
	if err != nil {
		t.Fatalf("create base bracket: %v", err)
	}

	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, shop.ID, 2000, transfer.KindPurchase); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	// Luxury assesses 2000: (2000-1000)*10/100 = 100, leaving 1900.
	// Base assesses 1900: the full 0-1000 range at 5% = 50, leaving 1850.
	if got := f.balance(treasury.ID); got != 100 {
		t.Fatalf("treasury balance = %d, want 100", got)
	}
	if got := f.balance(council.ID); got != 50 {
		t.Fatalf("council balance = %d, want 50", got)
	}
	if got := f.balance(shop.ID); got != 1850 {
		t.Fatalf("shop balance = %d, want 1850", got)
	}
	if got := f.balance(alice.ID); got != 1000 {
		t.Fatalf("alice balance = %d, want 1000", got)
	}

	// A single audit row still carries the gross amount.
	rows := f.auditRows()
	last := rows[len(rows)-1]
	if last.Action != transaction.ActionTransfer || last.Amount == nil || *last.Amount != 2000 {
		t.Fatalf("audit row = %+v, want transfer of 2000", last)
	}
}

func TestVATSkipsOtherAccountKinds(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	treasury := f.openSpecial(account.KindGovernment, "treasury")
	f.print(alice.ID, 1000)

	_, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "vat-standard",
		account.KindCorporation, tax.KindVAT, 0, 10000, 10, treasury.ID)
	if err != nil {
		t.Fatalf("create vat bracket: %v", err)
	}

	// The seller is a USER account; the corporation bracket does not apply.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 200, transfer.KindPurchase); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if got := f.balance(bob.ID); got != 200 {
		t.Fatalf("bob balance = %d, want 200", got)
	}
	if got := f.balance(treasury.ID); got != 0 {
		t.Fatalf("treasury balance = %d, want 0", got)
	}
}

func TestManageFunds(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")

	f.print(alice.ID, 500)
	if got := f.balance(alice.ID); got != 500 {
		t.Fatalf("balance after print = %d, want 500", got)
	}

	if err := f.mint.RemoveFunds(f.ctx, principal.ConsoleID, alice.ID, 200); err != nil {
		t.Fatalf("remove funds: %v", err)
	}
	if got := f.balance(alice.ID); got != 300 {
		t.Fatalf("balance after removal = %d, want 300", got)
	}

	// Removal may not push a balance negative.
	if err := f.mint.RemoveFunds(f.ctx, principal.ConsoleID, alice.ID, 301); !errors.Is(err, mint.ErrInsufficientFunds) {
		t.Fatalf("over-removal: got %v, want ErrInsufficientFunds", err)
	}

	// Regular users cannot manage funds.
	if err := f.mint.PrintMoney(f.ctx, aliceID, alice.ID, 100); !errors.Is(err, mint.ErrPermissionDenied) {
		t.Fatalf("print as user: got %v, want ErrPermissionDenied", err)
	}
}

func TestWealthTaxPass(t *testing.T) {
	f := newFixture(t)
	acme := f.openSpecial(account.KindCorporation, "acme")
	treasury := f.openSpecial(account.KindGovernment, "treasury")
	f.print(acme.ID, 2000)

	_, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "wealth-upper",
		account.KindCorporation, tax.KindWealth, 1000, 2000, 10, treasury.ID)
	if err != nil {
		t.Fatalf("create wealth bracket: %v", err)
	}

	// First pass: the full bracket span is due.
	if err := f.mint.PerformTaxes(f.ctx, principal.ConsoleID, f.econ.ID); err != nil {
		t.Fatalf("first tax pass: %v", err)
	}
	if got := f.balance(acme.ID); got != 1900 {
		t.Fatalf("acme after first pass = %d, want 1900", got)
	}
	if got := f.balance(treasury.ID); got != 100 {
		t.Fatalf("treasury after first pass = %d, want 100", got)
	}

	// Second pass assesses the reduced balance pro rata.
	if err := f.mint.PerformTaxes(f.ctx, principal.ConsoleID, f.econ.ID); err != nil {
		t.Fatalf("second tax pass: %v", err)
	}
	if got := f.balance(acme.ID); got != 1810 {
		t.Fatalf("acme after second pass = %d, want 1810", got)
	}
	if got := f.balance(treasury.ID); got != 190 {
		t.Fatalf("treasury after second pass = %d, want 190", got)
	}

	rows := f.auditRows()
	var taxRows int
	for _, r := range rows {
		if r.Action == transaction.ActionPerformTaxes {
			taxRows++
		}
	}
	if taxRows != 2 {
		t.Fatalf("tax pass audit rows = %d, want 2", taxRows)
	}
}

func TestIncomeTaxResetsCounters(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	treasury := f.openSpecial(account.KindGovernment, "treasury")
	f.print(alice.ID, 1000)

	// bob earns 400 as income.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 400, transfer.KindIncome); err != nil {
		t.Fatalf("income transfer: %v", err)
	}

	_, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "income-flat",
		account.KindUser, tax.KindIncome, 0, 1000, 20, treasury.ID)
	if err != nil {
		t.Fatalf("create income bracket: %v", err)
	}

	if err := f.mint.PerformTaxes(f.ctx, principal.ConsoleID, f.econ.ID); err != nil {
		t.Fatalf("tax pass: %v", err)
	}

	// 20% of 400 income withdrawn from the balance.
	got, _ := f.mint.GetAccount(f.ctx, bob.ID)
	if got.Balance != 320 {
		t.Fatalf("bob balance = %d, want 320", got.Balance)
	}
	if got.IncomeToDate != 0 {
		t.Fatalf("bob income counter = %d, want 0 after pass", got.IncomeToDate)
	}
	if got := f.balance(treasury.ID); got != 80 {
		t.Fatalf("treasury balance = %d, want 80", got)
	}

	// Income counters reset economy-wide, including untaxed accounts.
	aliceAcct, _ := f.mint.GetAccount(f.ctx, alice.ID)
	if aliceAcct.IncomeToDate != 0 {
		t.Fatalf("alice income counter = %d, want 0", aliceAcct.IncomeToDate)
	}
}

func TestIncomeTaxWritesOffDebt(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	treasury := f.openSpecial(account.KindGovernment, "treasury")
	f.print(alice.ID, 1000)

	// bob earns 500 as income, then spends 450 of it.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 500, transfer.KindIncome); err != nil {
		t.Fatalf("income transfer: %v", err)
	}
	if err := f.mint.PerformTransaction(f.ctx, bobID, bob.ID, alice.ID, 450, transfer.KindPersonal); err != nil {
		t.Fatalf("spend: %v", err)
	}

	_, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "income-flat",
		account.KindUser, tax.KindIncome, 0, 1000, 20, treasury.ID)
	if err != nil {
		t.Fatalf("create income bracket: %v", err)
	}

	// Assessed tax is 100 against a balance of 50. The shortfall is
	// written off: bob lands on exactly zero and the treasury only keeps
	// what was actually covered.
	if err := f.mint.PerformTaxes(f.ctx, principal.ConsoleID, f.econ.ID); err != nil {
		t.Fatalf("tax pass: %v", err)
	}
	if got := f.balance(bob.ID); got != 0 {
		t.Fatalf("bob balance = %d, want 0", got)
	}
	if got := f.balance(treasury.ID); got != 50 {
		t.Fatalf("treasury balance = %d, want 50", got)
	}
}

func TestCreateTaxBracketValidation(t *testing.T) {
	f := newFixture(t)
	treasury := f.openSpecial(account.KindGovernment, "treasury")

	cases := []struct {
		name  string
		start int64
		end   int64
		rate  int
		want  error
	}{
		{"rate above 100", 0, 100, 101, mint.ErrInvalidRate},
		{"negative rate", 0, 100, -1, mint.ErrInvalidRate},
		{"inverted range", 200, 100, 10, mint.ErrInvalidBracketRange},
		{"negative start", -1, 100, 10, mint.ErrInvalidBracketRange},
	}
	for _, tc := range cases {
		_, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, tc.name,
			account.KindUser, tax.KindIncome, tc.start, tc.end, tc.rate, treasury.ID)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// Destination must live in the same economy.
	other, err := f.mint.CreateEconomy(f.ctx, principal.ConsoleID, "crowns", "cr", testGuildID+1)
	if err != nil {
		t.Fatalf("create second economy: %v", err)
	}
	foreign, err := f.mint.OpenAccount(f.ctx, principal.ConsoleID, nil, other.ID, "foreign", account.KindGovernment)
	if err != nil {
		t.Fatalf("open foreign account: %v", err)
	}
	if _, err := f.mint.CreateTaxBracket(f.ctx, principal.ConsoleID, f.econ.ID, "foreign-dest",
		account.KindUser, tax.KindIncome, 0, 100, 10, foreign.ID); !errors.Is(err, mint.ErrCrossEconomy) {
		t.Errorf("foreign destination: got %v, want ErrCrossEconomy", err)
	}
}
