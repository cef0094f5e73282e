package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/mint/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"EconomyID", id.NewEconomyID, "econ_"},
		{"AccountID", id.NewAccountID, "acct_"},
		{"PermissionID", id.NewPermissionID, "perm_"},
		{"TaxBracketID", id.NewTaxBracketID, "taxb_"},
		{"RecurringID", id.NewRecurringID, "rtr_"},
		{"TransactionID", id.NewTransactionID, "txn_"},
		{"SubscriptionID", id.NewSubscriptionID, "bsub_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixAccount)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixAccount {
		t.Errorf("expected prefix %q, got %q", id.PrefixAccount, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		newFn func() id.ID
	}{
		{"economy", id.NewEconomyID},
		{"account", id.NewAccountID},
		{"transaction", id.NewTransactionID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tt.newFn()
			parsed, err := id.Parse(orig.String())
			if err != nil {
				t.Fatalf("Parse(%q): %v", orig.String(), err)
			}
			if parsed.String() != orig.String() {
				t.Errorf("round trip: got %q, want %q", parsed.String(), orig.String())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not a typeid"},
		{"bad suffix", "acct_!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("Parse(%q): expected error", tt.input)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	acct := id.NewAccountID()

	if _, err := id.ParseAccountID(acct.String()); err != nil {
		t.Fatalf("ParseAccountID(%q): %v", acct.String(), err)
	}

	if _, err := id.ParseEconomyID(acct.String()); err == nil {
		t.Error("ParseEconomyID accepted an account ID")
	}
}

func TestNilID(t *testing.T) {
	var nilID id.ID

	if !nilID.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil ID String: got %q, want empty", nilID.String())
	}
	if nilID.Prefix() != "" {
		t.Errorf("nil ID Prefix: got %q, want empty", nilID.Prefix())
	}

	v, err := nilID.Value()
	if err != nil {
		t.Fatalf("nil ID Value: %v", err)
	}
	if v != nil {
		t.Errorf("nil ID Value: got %v, want nil (SQL NULL)", v)
	}
}

func TestTextMarshaling(t *testing.T) {
	orig := id.NewRecurringID()

	data, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if parsed.String() != orig.String() {
		t.Errorf("round trip: got %q, want %q", parsed.String(), orig.String())
	}

	var empty id.ID
	if err := empty.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(nil): %v", err)
	}
	if !empty.IsNil() {
		t.Error("UnmarshalText(nil) should produce the nil ID")
	}
}

func TestScan(t *testing.T) {
	orig := id.NewTaxBracketID()

	tests := []struct {
		name    string
		src     any
		wantNil bool
	}{
		{"string", orig.String(), false},
		{"bytes", []byte(orig.String()), false},
		{"nil", nil, true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scanned id.ID
			if err := scanned.Scan(tt.src); err != nil {
				t.Fatalf("Scan(%v): %v", tt.src, err)
			}
			if scanned.IsNil() != tt.wantNil {
				t.Errorf("IsNil: got %v, want %v", scanned.IsNil(), tt.wantNil)
			}
		})
	}

	var scanned id.ID
	if err := scanned.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
