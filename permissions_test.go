package mint_test

import (
	"errors"
	"testing"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/principal"
	"github.com/xraph/mint/transfer"
)

func TestChangePermissionDenyOverridesDefault(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 100)

	// Owner default lets alice move her own funds.
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 10, transfer.KindPersonal); err != nil {
		t.Fatalf("transfer before deny: %v", err)
	}

	// An economy-wide deny overrides the owner default.
	scope := mint.Scope{EconomyID: f.econ.ID}
	if err := f.mint.ChangePermission(f.ctx, principal.ConsoleID, aliceID, permission.KindTransferFunds, false, scope); err != nil {
		t.Fatalf("deny transfer_funds: %v", err)
	}
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 10, transfer.KindPersonal); !errors.Is(err, mint.ErrPermissionDenied) {
		t.Fatalf("transfer after deny: got %v, want ErrPermissionDenied", err)
	}

	// A more specific allow at account scope wins over the economy deny.
	acctScope := mint.Scope{AccountID: alice.ID}
	if err := f.mint.ChangePermission(f.ctx, principal.ConsoleID, aliceID, permission.KindTransferFunds, true, acctScope); err != nil {
		t.Fatalf("allow at account scope: %v", err)
	}
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 10, transfer.KindPersonal); err != nil {
		t.Fatalf("transfer after account allow: %v", err)
	}
}

func TestChangePermissionUpsertsSameScope(t *testing.T) {
	f := newFixture(t)
	f.openUser(aliceID, "alice")
	scope := mint.Scope{EconomyID: f.econ.ID}

	if err := f.mint.ChangePermission(f.ctx, principal.ConsoleID, aliceID, permission.KindManageFunds, true, scope); err != nil {
		t.Fatalf("allow: %v", err)
	}
	ok, err := f.mint.HasPermission(f.ctx, aliceID, permission.KindManageFunds, scope)
	if err != nil {
		t.Fatalf("has permission: %v", err)
	}
	if !ok {
		t.Fatal("expected manage_funds allowed")
	}

	// Writing the same key again replaces the entry rather than stacking.
	if err := f.mint.ChangePermission(f.ctx, principal.ConsoleID, aliceID, permission.KindManageFunds, false, scope); err != nil {
		t.Fatalf("deny: %v", err)
	}
	ok, err = f.mint.HasPermission(f.ctx, aliceID, permission.KindManageFunds, scope)
	if err != nil {
		t.Fatalf("has permission: %v", err)
	}
	if ok {
		t.Fatal("expected manage_funds denied after upsert")
	}
}

func TestResetPermissionRestoresDefaults(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	bob := f.openUser(bobID, "bob")
	f.print(alice.ID, 100)
	scope := mint.Scope{EconomyID: f.econ.ID}

	if err := f.mint.ChangePermission(f.ctx, principal.ConsoleID, aliceID, permission.KindTransferFunds, false, scope); err != nil {
		t.Fatalf("deny: %v", err)
	}
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 10, transfer.KindPersonal); !errors.Is(err, mint.ErrPermissionDenied) {
		t.Fatalf("transfer while denied: got %v, want ErrPermissionDenied", err)
	}

	if err := f.mint.ResetPermission(f.ctx, principal.ConsoleID, aliceID, permission.KindTransferFunds, scope); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := f.mint.PerformTransaction(f.ctx, aliceID, alice.ID, bob.ID, 10, transfer.KindPersonal); err != nil {
		t.Fatalf("transfer after reset: %v", err)
	}
}

func TestGroupGrantAppliesToMembers(t *testing.T) {
	f := newFixture(t)
	alice := f.openUser(aliceID, "alice")
	f.openUser(bobID, "bob")
	scope := mint.Scope{EconomyID: f.econ.ID}

	// bob is in the moderator group; alice is not.
	if err := f.mint.ChangePermission(f.ctx, principal.ConsoleID, modGroupID, permission.KindManageFunds, true, scope); err != nil {
		t.Fatalf("grant group: %v", err)
	}

	if err := f.mint.PrintMoney(f.ctx, bobID, alice.ID, 100); err != nil {
		t.Fatalf("print as group member: %v", err)
	}
	if err := f.mint.PrintMoney(f.ctx, aliceID, alice.ID, 100); !errors.Is(err, mint.ErrPermissionDenied) {
		t.Fatalf("print as non-member: got %v, want ErrPermissionDenied", err)
	}
}

func TestEconomyCreatorReceivesManagePermissions(t *testing.T) {
	f := newFixture(t)

	econ, err := f.mint.CreateEconomy(f.ctx, aliceID, "crowns", "cr", testGuildID+1)
	if err != nil {
		// alice needs manage_economies first.
		if !errors.Is(err, mint.ErrPermissionDenied) {
			t.Fatalf("create economy: %v", err)
		}
		if err := f.mint.ChangePermission(f.ctx, principal.ConsoleID, aliceID, permission.KindManageEconomies, true, mint.Scope{}); err != nil {
			t.Fatalf("grant manage_economies: %v", err)
		}
		econ, err = f.mint.CreateEconomy(f.ctx, aliceID, "crowns", "cr", testGuildID+1)
		if err != nil {
			t.Fatalf("create economy after grant: %v", err)
		}
	}

	// The creator is bootstrapped as permission manager of the economy.
	ok, err := f.mint.HasPermission(f.ctx, aliceID, permission.KindManagePermissions, mint.Scope{EconomyID: econ.ID})
	if err != nil {
		t.Fatalf("has permission: %v", err)
	}
	if !ok {
		t.Fatal("creator lacks manage_permissions in the new economy")
	}
}

func TestChangePermissionRequiresManager(t *testing.T) {
	f := newFixture(t)
	f.openUser(aliceID, "alice")
	scope := mint.Scope{EconomyID: f.econ.ID}

	err := f.mint.ChangePermission(f.ctx, aliceID, bobID, permission.KindManageFunds, true, scope)
	if !errors.Is(err, mint.ErrPermissionDenied) {
		t.Fatalf("change as regular user: got %v, want ErrPermissionDenied", err)
	}
}
