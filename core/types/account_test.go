package types

import (
	"math/big"
	"testing"
)

func TestAccountCreditDebit(t *testing.T) {
	acc := NewAccount()
	acc.Credit("MNT", big.NewInt(100))
	acc.Credit("MNT", big.NewInt(50))
	if got := acc.Balance("MNT"); got.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("expected 150, got %s", got)
	}
	if err := acc.Debit("MNT", big.NewInt(120)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if got := acc.Balance("MNT"); got.Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("expected 30, got %s", got)
	}
	if err := acc.Debit("MNT", big.NewInt(31)); err == nil {
		t.Fatalf("expected overdraft to fail")
	}
	if err := acc.Debit("MNT", big.NewInt(-1)); err == nil {
		t.Fatalf("expected negative debit to fail")
	}
	if got := acc.Balance("WMNT"); got.Sign() != 0 {
		t.Fatalf("expected zero for unknown symbol, got %s", got)
	}
}

func TestAccountBalanceIsCopy(t *testing.T) {
	acc := NewAccount()
	acc.Credit("MNT", big.NewInt(10))
	acc.Balance("MNT").SetInt64(999)
	if got := acc.Balance("MNT"); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("expected balance isolated from returned copy, got %s", got)
	}
}

func TestAccountClone(t *testing.T) {
	acc := NewAccount()
	acc.Nonce = 3
	acc.Credit("MNT", big.NewInt(10))
	clone := acc.Clone()
	clone.Credit("MNT", big.NewInt(5))
	clone.Nonce = 4
	if got := acc.Balance("MNT"); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("clone mutated original, got %s", got)
	}
	if acc.Nonce != 3 {
		t.Fatalf("clone mutated nonce")
	}
}

func TestParseFormatAddress(t *testing.T) {
	var addr [20]byte
	addr[0] = 0xAB
	addr[19] = 0x01
	formatted := FormatAddress(addr)
	parsed, err := ParseAddress(formatted)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != addr {
		t.Fatalf("round trip mismatch: %s", formatted)
	}
	// The 0x prefix is optional.
	if _, err := ParseAddress(formatted[2:]); err != nil {
		t.Fatalf("parse without prefix: %v", err)
	}
	for _, bad := range []string{"", "0x12", "zz", "0x" + formatted} {
		if _, err := ParseAddress(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
