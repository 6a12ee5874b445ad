package types

import (
	"fmt"
	"math/big"
)

// Account tracks the spendable balances of a single principal. Balances are
// keyed by currency symbol; the native coin is stored under its symbol like
// any registered fungible token.
type Account struct {
	Nonce    uint64              `json:"nonce"`
	Balances map[string]*big.Int `json:"balances"`
}

// NewAccount returns an account with an empty balance table.
func NewAccount() *Account {
	return &Account{Balances: make(map[string]*big.Int)}
}

// Balance returns the balance held for the given symbol. The returned value
// is a copy; mutating it does not affect the account.
func (a *Account) Balance(symbol string) *big.Int {
	if a == nil || a.Balances == nil {
		return big.NewInt(0)
	}
	bal, ok := a.Balances[symbol]
	if !ok || bal == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(bal)
}

// Credit adds amount to the balance held for symbol.
func (a *Account) Credit(symbol string, amount *big.Int) {
	if a == nil || amount == nil || amount.Sign() == 0 {
		return
	}
	if a.Balances == nil {
		a.Balances = make(map[string]*big.Int)
	}
	current, ok := a.Balances[symbol]
	if !ok || current == nil {
		current = big.NewInt(0)
	}
	a.Balances[symbol] = new(big.Int).Add(current, amount)
}

// Debit subtracts amount from the balance held for symbol. It fails when the
// balance cannot cover the amount.
func (a *Account) Debit(symbol string, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("account: negative debit amount")
	}
	if a == nil {
		return fmt.Errorf("account: nil account")
	}
	current := a.Balance(symbol)
	if current.Cmp(amount) < 0 {
		return fmt.Errorf("account: balance below debit amount")
	}
	if a.Balances == nil {
		a.Balances = make(map[string]*big.Int)
	}
	a.Balances[symbol] = current.Sub(current, amount)
	return nil
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return NewAccount()
	}
	clone := &Account{Nonce: a.Nonce, Balances: make(map[string]*big.Int, len(a.Balances))}
	for symbol, bal := range a.Balances {
		if bal == nil {
			clone.Balances[symbol] = big.NewInt(0)
			continue
		}
		clone.Balances[symbol] = new(big.Int).Set(bal)
	}
	return clone
}
