package market

import "math/big"

// CurrencyTransfer moves value between a principal and escrow custody. Pull
// implementations must report a balance or authorization shortfall with
// ErrInsufficientFunds so the engine can surface it verbatim.
type CurrencyTransfer interface {
	Pull(principal [20]byte, currency string, amount *big.Int) error
	Push(principal [20]byte, currency string, amount *big.Int) error
}

// AssetTransfer moves ownership of one non-fungible asset. Implementations
// must verify that from currently holds the token and that the token belongs
// to the collection; any failure aborts the enclosing settlement.
type AssetTransfer interface {
	Transfer(from, to [20]byte, collection string, tokenID uint64) error
}

// RoyaltyResolver returns the royalty owed on a sale, or ok=false when the
// collection declares no royalty policy. Plain and royalty-aware collections
// dispatch through the same AssetTransfer capability; this probe is the only
// variant-specific surface.
type RoyaltyResolver interface {
	Resolve(collection string, tokenID uint64, saleAmount *big.Int) (receiver [20]byte, royalty *big.Int, ok bool, err error)
}
