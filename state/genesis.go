package state

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"mintmarket/core/types"
	"mintmarket/native/market"
)

// Genesis describes the initial allocation applied to an empty state: funded
// accounts, registered fungible tokens and NFT collections with their minted
// tokens.
type Genesis struct {
	Accounts    []GenesisAccount    `json:"accounts"`
	Tokens      []string            `json:"tokens"`
	Collections []GenesisCollection `json:"collections"`
}

type GenesisAccount struct {
	Address  string            `json:"address"`
	Balances map[string]string `json:"balances"`
}

type GenesisCollection struct {
	ID      string          `json:"id"`
	Royalty *GenesisRoyalty `json:"royalty,omitempty"`
	Tokens  []GenesisToken  `json:"tokens"`
}

type GenesisRoyalty struct {
	Receiver string `json:"receiver"`
	Bps      uint32 `json:"bps"`
}

type GenesisToken struct {
	ID    uint64 `json:"id"`
	Owner string `json:"owner"`
}

// LoadGenesis reads and parses a genesis document from disk.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genesis: read %s: %w", path, err)
	}
	doc := new(Genesis)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("genesis: parse %s: %w", path, err)
	}
	return doc, nil
}

// GenesisApplied reports whether a genesis document has already been applied
// to the backing database.
func (m *Manager) GenesisApplied() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.genesisDone
}

// ApplyGenesis registers tokens and collections, mints the declared assets
// and credits the initial balances. The allocation runs once per database; a
// node restarting against an initialised data dir skips it.
func (m *Manager) ApplyGenesis(doc *Genesis) error {
	if doc == nil {
		return nil
	}
	if m.GenesisApplied() {
		return nil
	}
	for _, symbol := range doc.Tokens {
		if err := m.RegisterToken(symbol); err != nil {
			return err
		}
	}
	for _, acc := range doc.Accounts {
		addr, err := types.ParseAddress(acc.Address)
		if err != nil {
			return fmt.Errorf("genesis: %w", err)
		}
		for symbol, raw := range acc.Balances {
			normalized, err := market.NormalizeCurrency(symbol)
			if err != nil {
				return err
			}
			amount, ok := new(big.Int).SetString(raw, 10)
			if !ok || amount.Sign() < 0 {
				return fmt.Errorf("genesis: invalid balance %q for %s", raw, acc.Address)
			}
			if err := m.Credit(addr, normalized, amount); err != nil {
				return err
			}
		}
	}
	for _, coll := range doc.Collections {
		var policy *RoyaltyPolicy
		if coll.Royalty != nil {
			receiver, err := types.ParseAddress(coll.Royalty.Receiver)
			if err != nil {
				return fmt.Errorf("genesis: %w", err)
			}
			policy = &RoyaltyPolicy{Receiver: receiver, Bps: coll.Royalty.Bps}
		}
		if err := m.CreateCollection(coll.ID, policy); err != nil {
			return err
		}
		for _, token := range coll.Tokens {
			owner, err := types.ParseAddress(token.Owner)
			if err != nil {
				return fmt.Errorf("genesis: %w", err)
			}
			if err := m.MintToken(coll.ID, token.ID, owner); err != nil {
				return err
			}
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genesisDone = true
	return m.db.Put(keyGenesisDone, []byte{1})
}
