package market

import (
	"fmt"
	"math/big"

	"mintmarket/core/events"
)

// Settlement orchestrates acceptance: royalty payout, seller payout and asset
// transfer as one indivisible unit. It shares the engine's state, adapters
// and operation mutex, so settlements serialize with every other lifecycle
// operation.
type Settlement struct {
	engine *Engine
}

// NewSettlement constructs a settlement engine bound to the supplied market
// engine.
func NewSettlement(engine *Engine) *Settlement {
	return &Settlement{engine: engine}
}

// AcceptNFTOffer settles a token-bound offer. The caller must currently hold
// the offer's token; on success the caller receives the escrowed amount minus
// any royalty and the buyer receives the token.
func (s *Settlement) AcceptNFTOffer(caller [20]byte, id uint64) error {
	return s.accept(caller, id, nil)
}

// AcceptCollectionOffer settles a collection offer against the token the
// caller supplies. The binding holds for this one settlement only; the stored
// record never gains a token reference.
func (s *Settlement) AcceptCollectionOffer(caller [20]byte, id uint64, tokenID uint64) error {
	token := tokenID
	return s.accept(caller, id, &token)
}

func (s *Settlement) accept(caller [20]byte, id uint64, suppliedToken *uint64) error {
	if s == nil || s.engine == nil {
		return errNilState
	}
	e := s.engine
	if err := e.ready(); err != nil {
		return err
	}
	if e.assets == nil {
		return errNilAssets
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate(caller); err != nil {
		return err
	}
	offer, err := e.loadOffer(id)
	if err != nil {
		return err
	}
	if offer.Status != OfferActive {
		return ErrOfferInactive
	}
	tokenID, err := bindToken(offer, suppliedToken)
	if err != nil {
		return err
	}
	amount := cloneBigInt(offer.Amount)

	// Checks done; flip the record before touching the adapters so a
	// reentrant call observes the terminal state. Any adapter failure below
	// reverts the whole unit.
	snap := e.state.Snapshot()
	offer.Status = OfferAccepted
	if err := e.state.OfferPut(offer); err != nil {
		e.state.RevertToSnapshot(snap)
		return err
	}
	if err := e.state.EscrowDebit(offer.Currency, amount); err != nil {
		e.state.RevertToSnapshot(snap)
		return err
	}
	royalty, err := s.payOut(offer, caller, tokenID, amount)
	if err != nil {
		e.state.RevertToSnapshot(snap)
		return err
	}
	if err := e.assets.Transfer(caller, offer.Buyer, offer.Collection, tokenID); err != nil {
		e.state.RevertToSnapshot(snap)
		return wrapAssetErr(err)
	}
	e.state.DiscardSnapshot(snap)
	e.emit(events.OfferAccepted{
		ID:         offer.ID,
		Buyer:      offer.Buyer,
		Seller:     caller,
		Collection: offer.Collection,
		TokenID:    tokenID,
		Currency:   offer.Currency,
		Amount:     amount,
		Royalty:    royalty,
	})
	return nil
}

// payOut distributes the escrowed amount: the royalty share (capped at the
// sale amount) to the declared receiver, the remainder to the seller. It
// returns the royalty actually paid.
func (s *Settlement) payOut(offer *Offer, seller [20]byte, tokenID uint64, amount *big.Int) (*big.Int, error) {
	e := s.engine
	royalty := big.NewInt(0)
	if e.royalties != nil {
		receiver, owed, ok, err := e.royalties.Resolve(offer.Collection, tokenID, amount)
		if err != nil {
			return nil, err
		}
		if ok && owed != nil && owed.Sign() > 0 {
			royalty = new(big.Int).Set(owed)
			if royalty.Cmp(amount) > 0 {
				royalty.Set(amount)
			}
			if err := e.currency.Push(receiver, offer.Currency, royalty); err != nil {
				return nil, err
			}
		}
	}
	remainder := new(big.Int).Sub(amount, royalty)
	if remainder.Sign() > 0 {
		if err := e.currency.Push(seller, offer.Currency, remainder); err != nil {
			return nil, err
		}
	}
	return royalty, nil
}

// bindToken resolves the token a settlement operates on. Token-bound offers
// settle against their stored token and reject a caller-supplied one;
// collection offers require one. Whether the supplied token actually belongs
// to the collection is verified by the asset transfer itself.
func bindToken(offer *Offer, supplied *uint64) (uint64, error) {
	if offer.IsCollectionOffer() {
		if supplied == nil {
			return 0, fmt.Errorf("%w: collection offer requires a token", ErrAssetTransferFailed)
		}
		return *supplied, nil
	}
	if supplied != nil && *supplied != *offer.TokenID {
		return 0, fmt.Errorf("%w: offer is bound to token %d", ErrAssetTransferFailed, *offer.TokenID)
	}
	return *offer.TokenID, nil
}
