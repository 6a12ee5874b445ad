package events

import (
	"encoding/hex"
	"math/big"

	"mintmarket/core/types"
)

const (
	TypeOfferCreated      = "market.offer.created"
	TypeOfferPriceUpdated = "market.offer.price_updated"
	TypeOfferCanceled     = "market.offer.canceled"
	TypeOfferAccepted     = "market.offer.accepted"
)

// OfferCreated is emitted when a buyer opens a new offer and the escrow pull
// succeeds.
type OfferCreated struct {
	ID         uint64
	Buyer      [20]byte
	Collection string
	TokenID    *uint64
	Currency   string
	Amount     *big.Int
	CreatedAt  int64
}

func (OfferCreated) EventType() string { return TypeOfferCreated }

func (e OfferCreated) Event() *types.Event {
	attrs := map[string]string{
		"id":         uintToString(e.ID),
		"buyer":      hex.EncodeToString(e.Buyer[:]),
		"collection": e.Collection,
		"currency":   e.Currency,
		"amount":     formatAmount(e.Amount),
		"createdAt":  intToString(e.CreatedAt),
	}
	if e.TokenID != nil {
		attrs["tokenId"] = uintToString(*e.TokenID)
	}
	return &types.Event{Type: TypeOfferCreated, Attributes: attrs}
}

// OfferPriceUpdated is emitted after a price change has been applied and the
// escrow delta settled.
type OfferPriceUpdated struct {
	ID        uint64
	Buyer     [20]byte
	Currency  string
	OldAmount *big.Int
	NewAmount *big.Int
}

func (OfferPriceUpdated) EventType() string { return TypeOfferPriceUpdated }

func (e OfferPriceUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeOfferPriceUpdated,
		Attributes: map[string]string{
			"id":        uintToString(e.ID),
			"buyer":     hex.EncodeToString(e.Buyer[:]),
			"currency":  e.Currency,
			"oldAmount": formatAmount(e.OldAmount),
			"newAmount": formatAmount(e.NewAmount),
		},
	}
}

// OfferCanceled is emitted once the full escrowed amount has been refunded to
// the buyer.
type OfferCanceled struct {
	ID       uint64
	Buyer    [20]byte
	Currency string
	Amount   *big.Int
}

func (OfferCanceled) EventType() string { return TypeOfferCanceled }

func (e OfferCanceled) Event() *types.Event {
	return &types.Event{
		Type: TypeOfferCanceled,
		Attributes: map[string]string{
			"id":       uintToString(e.ID),
			"buyer":    hex.EncodeToString(e.Buyer[:]),
			"currency": e.Currency,
			"amount":   formatAmount(e.Amount),
		},
	}
}

// OfferAccepted is emitted after an offer settled: payout complete and the
// asset transferred to the buyer. TokenID is always set; for collection
// offers it carries the asset chosen by the seller at acceptance.
type OfferAccepted struct {
	ID         uint64
	Buyer      [20]byte
	Seller     [20]byte
	Collection string
	TokenID    uint64
	Currency   string
	Amount     *big.Int
	Royalty    *big.Int
}

func (OfferAccepted) EventType() string { return TypeOfferAccepted }

func (e OfferAccepted) Event() *types.Event {
	attrs := map[string]string{
		"id":         uintToString(e.ID),
		"buyer":      hex.EncodeToString(e.Buyer[:]),
		"seller":     hex.EncodeToString(e.Seller[:]),
		"collection": e.Collection,
		"tokenId":    uintToString(e.TokenID),
		"currency":   e.Currency,
		"amount":     formatAmount(e.Amount),
	}
	if e.Royalty != nil && e.Royalty.Sign() > 0 {
		attrs["royalty"] = formatAmount(e.Royalty)
	}
	return &types.Event{Type: TypeOfferAccepted, Attributes: attrs}
}
