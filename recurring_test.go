package mint_test

import (
	"errors"
	"testing"
	"time"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/transfer"
)

func TestRecurringTransferLifecycle(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 1000)

	day := 24 * time.Hour
	rt, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 10, day, ptr(10), transfer.KindPersonal)
	if err != nil {
		t.Fatalf("create recurring transfer: %v", err)
	}

	// The first payment happens at creation.
	if got := f.balance(alice.ID); got != 990 {
		t.Fatalf("alice after creation = %d, want 990", got)
	}
	if rt.PaymentsLeft == nil || *rt.PaymentsLeft != 9 {
		t.Fatalf("payments left = %v, want 9", rt.PaymentsLeft)
	}

	start := f.now

	// A tick before the first period elapses pays nothing.
	f.now = start.Add(time.Hour)
	if err := f.mint.Tick(f.ctx); err != nil {
		t.Fatalf("tick +1h: %v", err)
	}
	if got := f.balance(alice.ID); got != 990 {
		t.Fatalf("alice after +1h = %d, want 990", got)
	}

	// One full period due.
	f.now = start.Add(day)
	if err := f.mint.Tick(f.ctx); err != nil {
		t.Fatalf("tick +1d: %v", err)
	}
	if got := f.balance(alice.ID); got != 980 {
		t.Fatalf("alice after +1d = %d, want 980", got)
	}

	// Missed periods are replayed exactly: six more days elapsed since
	// the last payment.
	f.now = start.Add(7 * day)
	if err := f.mint.Tick(f.ctx); err != nil {
		t.Fatalf("tick +7d: %v", err)
	}
	if got := f.balance(alice.ID); got != 920 {
		t.Fatalf("alice after +7d = %d, want 920", got)
	}

	// Only two payments remain; the budget runs out mid-replay and the
	// transfer is removed.
	f.now = start.Add(12 * day)
	if err := f.mint.Tick(f.ctx); err != nil {
		t.Fatalf("tick +12d: %v", err)
	}
	if got := f.balance(alice.ID); got != 900 {
		t.Fatalf("alice after +12d = %d, want 900", got)
	}
	if got := f.balance(bob.ID); got != 100 {
		t.Fatalf("bob total = %d, want 100", got)
	}
	if _, err := f.mint.GetRecurringTransfer(f.ctx, rt.ID); !errors.Is(err, mint.ErrTransferNotFound) {
		t.Fatalf("exhausted transfer lookup: got %v, want ErrTransferNotFound", err)
	}
}

func TestTickIsIdempotentWhenNothingIsDue(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 1000)

	if _, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 10, 24*time.Hour, nil, transfer.KindPersonal); err != nil {
		t.Fatalf("create recurring transfer: %v", err)
	}

	before := len(f.auditRows())
	for i := 0; i < 3; i++ {
		if err := f.mint.Tick(f.ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if after := len(f.auditRows()); after != before {
		t.Fatalf("idle ticks wrote %d audit rows", after-before)
	}
	if got := f.balance(alice.ID); got != 990 {
		t.Fatalf("alice balance = %d, want 990", got)
	}
}

func TestRecurringTransferCanceledOnInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 15)

	day := 24 * time.Hour
	rt, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 10, day, nil, transfer.KindPersonal)
	if err != nil {
		t.Fatalf("create recurring transfer: %v", err)
	}
	if got := f.balance(alice.ID); got != 5 {
		t.Fatalf("alice after creation = %d, want 5", got)
	}

	// The next payment cannot be covered; the transfer is canceled, not
	// retried forever.
	f.now = f.now.Add(day)
	if err := f.mint.Tick(f.ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := f.balance(alice.ID); got != 5 {
		t.Fatalf("alice balance = %d, want 5", got)
	}
	if _, err := f.mint.GetRecurringTransfer(f.ctx, rt.ID); !errors.Is(err, mint.ErrTransferNotFound) {
		t.Fatalf("canceled transfer lookup: got %v, want ErrTransferNotFound", err)
	}
}

func TestRecurringTransferCreationValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 100)

	day := 24 * time.Hour
	if _, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 0, day, nil, transfer.KindPersonal); !errors.Is(err, mint.ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 10, 0, nil, transfer.KindPersonal); !errors.Is(err, mint.ErrInvalidInterval) {
		t.Fatalf("zero interval: got %v, want ErrInvalidInterval", err)
	}
	if _, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 10, day, ptr(0), transfer.KindPersonal); !errors.Is(err, mint.ErrInvalidInput) {
		t.Fatalf("zero count: got %v, want ErrInvalidInput", err)
	}

	// Creation fails outright when the first payment cannot be made.
	if _, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 200, day, nil, transfer.KindPersonal); !errors.Is(err, mint.ErrInsufficientFunds) {
		t.Fatalf("uncovered first payment: got %v, want ErrInsufficientFunds", err)
	}
	transfers, err := f.mint.ListRecurringTransfers(f.ctx, alice.ID)
	if err != nil {
		t.Fatalf("list recurring transfers: %v", err)
	}
	if len(transfers) != 0 {
		t.Fatalf("failed creation persisted %d transfers", len(transfers))
	}
}

func TestCancelRecurringTransfer(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 1000)

	rt, err := f.mint.CreateRecurringTransfer(f.ctx, aliceID, alice.ID, bob.ID, 10, 24*time.Hour, nil, transfer.KindPersonal)
	if err != nil {
		t.Fatalf("create recurring transfer: %v", err)
	}

	// A stranger cannot cancel someone else's schedule.
	if err := f.mint.CancelRecurringTransfer(f.ctx, carolID, rt.ID); !errors.Is(err, mint.ErrPermissionDenied) {
		t.Fatalf("cancel as stranger: got %v, want ErrPermissionDenied", err)
	}

	if err := f.mint.CancelRecurringTransfer(f.ctx, aliceID, rt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.mint.GetRecurringTransfer(f.ctx, rt.ID); !errors.Is(err, mint.ErrTransferNotFound) {
		t.Fatalf("canceled transfer lookup: got %v, want ErrTransferNotFound", err)
	}
}
