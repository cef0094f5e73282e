package permission_test

import (
	"testing"

	"github.com/xraph/mint/account"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/permission"
	"github.com/xraph/mint/principal"
)

const (
	userID  int64 = 529676139837521920
	groupID int64 = 554769523635650580
	adminG  int64 = 646434492101165068
)

func testAccount(owner int64, economyID id.EconomyID) *account.Account {
	return &account.Account{
		ID:        id.NewAccountID(),
		Name:      "test",
		OwnerID:   &owner,
		Kind:      account.KindUser,
		EconomyID: economyID,
	}
}

func TestResolveDefaults(t *testing.T) {
	econ := id.NewEconomyID()
	acct := testAccount(userID, econ)
	p := principal.Principal{ID: userID}
	stranger := principal.Principal{ID: userID + 1}

	tests := []struct {
		name string
		p    principal.Principal
		req  permission.Request
		want bool
	}{
		{
			"open account is a global default",
			p,
			permission.Request{Kind: permission.KindOpenAccount, EconomyID: econ},
			true,
		},
		{
			"manage funds defaults to denied",
			p,
			permission.Request{Kind: permission.KindManageFunds, EconomyID: econ},
			false,
		},
		{
			"owner may transfer from own account",
			p,
			permission.Request{Kind: permission.KindTransferFunds, Account: acct, EconomyID: econ},
			true,
		},
		{
			"stranger may not transfer from someone else's account",
			stranger,
			permission.Request{Kind: permission.KindTransferFunds, Account: acct, EconomyID: econ},
			false,
		},
		{
			"owner may view own balance",
			p,
			permission.Request{Kind: permission.KindViewBalance, Account: acct, EconomyID: econ},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := permission.Resolve(tt.p, tt.req, nil, nil)
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveConsoleBypass(t *testing.T) {
	deny := &permission.Entry{
		ID:          id.NewPermissionID(),
		PrincipalID: principal.ConsoleID,
		Kind:        permission.KindManageEconomies,
		Allowed:     false,
	}
	req := permission.Request{Kind: permission.KindManageEconomies}

	if !permission.Resolve(principal.Principal{ID: principal.ConsoleID}, req, []*permission.Entry{deny}, nil) {
		t.Error("console principal must bypass stored entries")
	}
}

// Most specific wins: an account-scoped allow must beat a global deny for
// the same principal and kind.
func TestResolveSpecificityPrecedence(t *testing.T) {
	econ := id.NewEconomyID()
	acct := testAccount(userID+1, econ)
	p := principal.Principal{ID: userID}

	globalDeny := &permission.Entry{
		ID:          id.NewPermissionID(),
		PrincipalID: userID,
		Kind:        permission.KindTransferFunds,
		Allowed:     false,
	}
	accountAllow := &permission.Entry{
		ID:          id.NewPermissionID(),
		PrincipalID: userID,
		Kind:        permission.KindTransferFunds,
		AccountID:   acct.ID,
		EconomyID:   econ,
		Allowed:     true,
	}
	economyDeny := &permission.Entry{
		ID:          id.NewPermissionID(),
		PrincipalID: userID,
		Kind:        permission.KindTransferFunds,
		EconomyID:   econ,
		Allowed:     false,
	}

	req := permission.Request{Kind: permission.KindTransferFunds, Account: acct, EconomyID: econ}

	tests := []struct {
		name    string
		entries []*permission.Entry
		want    bool
	}{
		{"account allow beats global deny", []*permission.Entry{globalDeny, accountAllow}, true},
		{"order of entries does not matter", []*permission.Entry{accountAllow, globalDeny}, true},
		{"account allow beats economy deny", []*permission.Entry{economyDeny, accountAllow}, true},
		{"economy deny beats nothing at account scope", []*permission.Entry{economyDeny}, false},
		{"global deny alone denies", []*permission.Entry{globalDeny}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := permission.Resolve(p, req, tt.entries, nil)
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveGroupEntries(t *testing.T) {
	econ := id.NewEconomyID()
	p := principal.Principal{ID: userID, Groups: []int64{groupID, adminG}}

	groupAllow := &permission.Entry{
		ID:          id.NewPermissionID(),
		PrincipalID: groupID,
		Kind:        permission.KindManageFunds,
		EconomyID:   econ,
		Allowed:     true,
	}
	directDeny := &permission.Entry{
		ID:          id.NewPermissionID(),
		PrincipalID: userID,
		Kind:        permission.KindManageFunds,
		EconomyID:   econ,
		Allowed:     false,
	}
	higherGroupDeny := &permission.Entry{
		ID:          id.NewPermissionID(),
		PrincipalID: adminG,
		Kind:        permission.KindManageFunds,
		EconomyID:   econ,
		Allowed:     false,
	}

	// adminG outranks groupID.
	rank := func(a, b int64) int {
		order := map[int64]int{groupID: 1, adminG: 2}
		return order[a] - order[b]
	}

	req := permission.Request{Kind: permission.KindManageFunds, EconomyID: econ}

	tests := []struct {
		name    string
		entries []*permission.Entry
		want    bool
	}{
		{"group grant applies to member", []*permission.Entry{groupAllow}, true},
		{"direct entry beats group entry", []*permission.Entry{groupAllow, directDeny}, false},
		{"higher-precedence group wins", []*permission.Entry{groupAllow, higherGroupDeny}, false},
		{"higher-precedence group wins regardless of order", []*permission.Entry{higherGroupDeny, groupAllow}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := permission.Resolve(p, req, tt.entries, rank)
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("non-member ignores group entries", func(t *testing.T) {
		outsider := principal.Principal{ID: userID + 5}
		if permission.Resolve(outsider, req, []*permission.Entry{groupAllow}, rank) {
			t.Error("group grant leaked to a non-member")
		}
	})
}

func TestResolveScopeMismatches(t *testing.T) {
	econ := id.NewEconomyID()
	otherEcon := id.NewEconomyID()
	acct := testAccount(userID+1, econ)
	otherAcct := testAccount(userID+1, econ)
	p := principal.Principal{ID: userID}

	tests := []struct {
		name  string
		entry *permission.Entry
		req   permission.Request
		want  bool
	}{
		{
			"entry for another account does not apply",
			&permission.Entry{PrincipalID: userID, Kind: permission.KindTransferFunds, AccountID: otherAcct.ID, EconomyID: econ, Allowed: true},
			permission.Request{Kind: permission.KindTransferFunds, Account: acct, EconomyID: econ},
			false,
		},
		{
			"entry for another economy does not apply",
			&permission.Entry{PrincipalID: userID, Kind: permission.KindTransferFunds, EconomyID: otherEcon, Allowed: true},
			permission.Request{Kind: permission.KindTransferFunds, Account: acct, EconomyID: econ},
			false,
		},
		{
			"account-scoped entry does not apply to an economy-wide question",
			&permission.Entry{PrincipalID: userID, Kind: permission.KindManageFunds, AccountID: acct.ID, EconomyID: econ, Allowed: true},
			permission.Request{Kind: permission.KindManageFunds, EconomyID: econ},
			false,
		},
		{
			"global entry applies everywhere",
			&permission.Entry{PrincipalID: userID, Kind: permission.KindManageFunds, Allowed: true},
			permission.Request{Kind: permission.KindManageFunds, EconomyID: otherEcon},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := permission.Resolve(p, tt.req, []*permission.Entry{tt.entry}, nil)
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}
