package market

import (
	"fmt"
	"math/big"
	"strings"
)

// NativeSymbol is the canonical symbol of the native coin. Offers priced in
// the native coin must be accompanied by a supplied value matching the
// escrowed amount; token-priced offers are pulled from the buyer's balance
// instead.
const NativeSymbol = "MNT"

// OfferStatus represents the lifecycle states of an offer. Active is the sole
// non-terminal state; Canceled and Accepted are sinks.
type OfferStatus uint8

const (
	OfferActive OfferStatus = iota + 1
	OfferCanceled
	OfferAccepted
)

// Valid reports whether the status value is within the supported range.
func (s OfferStatus) Valid() bool {
	switch s {
	case OfferActive, OfferCanceled, OfferAccepted:
		return true
	default:
		return false
	}
}

func (s OfferStatus) String() string {
	switch s {
	case OfferActive:
		return "active"
	case OfferCanceled:
		return "canceled"
	case OfferAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Offer captures a buyer's escrow-backed bid on a specific asset or on any
// asset within a collection. TokenID is set at creation for token-bound
// offers and stays nil for collection offers; collection-offer acceptance
// supplies the asset out-of-band and never mutates the stored record.
type Offer struct {
	ID         uint64
	Buyer      [20]byte
	Collection string
	TokenID    *uint64
	Currency   string
	Amount     *big.Int
	CreatedAt  int64
	Status     OfferStatus
}

// IsCollectionOffer reports whether the offer targets any asset in its
// collection rather than one specific token.
func (o *Offer) IsCollectionOffer() bool {
	return o != nil && o.TokenID == nil
}

// Clone returns a deep copy of the offer so callers can safely mutate the
// copy without affecting the stored instance.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	clone := *o
	if o.TokenID != nil {
		tokenID := *o.TokenID
		clone.TokenID = &tokenID
	}
	if o.Amount != nil {
		clone.Amount = new(big.Int).Set(o.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// NormalizeCurrency canonicalises a currency symbol to uppercase and rejects
// symbols outside the supported shape. The native coin and registered
// fungible tokens share the same namespace.
func NormalizeCurrency(symbol string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))
	if len(trimmed) < 2 || len(trimmed) > 12 {
		return "", fmt.Errorf("market: unsupported currency symbol: %q", symbol)
	}
	for _, r := range trimmed {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("market: unsupported currency symbol: %q", symbol)
		}
	}
	return trimmed, nil
}

// NormalizeCollection trims and validates a collection identifier.
func NormalizeCollection(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("market: empty collection identifier")
	}
	return trimmed, nil
}

// SanitizeOffer validates and normalises the supplied offer, returning a
// cloned instance with canonical currency casing and a non-nil amount. The
// original value is not mutated.
func SanitizeOffer(o *Offer) (*Offer, error) {
	if o == nil {
		return nil, fmt.Errorf("market: nil offer")
	}
	clone := o.Clone()
	currency, err := NormalizeCurrency(clone.Currency)
	if err != nil {
		return nil, err
	}
	clone.Currency = currency
	collection, err := NormalizeCollection(clone.Collection)
	if err != nil {
		return nil, err
	}
	clone.Collection = collection
	if clone.Amount == nil {
		clone.Amount = big.NewInt(0)
	}
	if clone.Amount.Sign() < 0 {
		return nil, fmt.Errorf("market: offer amount must be non-negative")
	}
	if !clone.Status.Valid() {
		return nil, fmt.Errorf("market: invalid offer status: %d", clone.Status)
	}
	if clone.Status == OfferActive && clone.Amount.Sign() == 0 {
		return nil, fmt.Errorf("market: active offer with zero amount")
	}
	return clone, nil
}
