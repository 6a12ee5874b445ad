package market

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"mintmarket/core/events"
	nativecommon "mintmarket/native/common"
)

const moduleName = "market"

// engineState is the authoritative offer store plus the per-currency escrow
// ledger. Snapshot/RevertToSnapshot bracket every lifecycle operation so that
// a failing sub-step retains none of its effects; adapter implementations
// must route their own mutations through the same journal. A successful
// operation ends with DiscardSnapshot so the backend can release the undo
// records it kept for the revert.
type engineState interface {
	OfferPut(*Offer) error
	OfferGet(id uint64) (*Offer, bool)
	NextOfferID() (uint64, error)
	EscrowCredit(currency string, amount *big.Int) error
	EscrowDebit(currency string, amount *big.Int) error
	EscrowBalance(currency string) (*big.Int, error)
	Snapshot() int
	RevertToSnapshot(revision int)
	DiscardSnapshot(revision int)
}

// Engine owns the offer lifecycle: creation, price updates and cancellation,
// together with the escrow accounting they require. Acceptance lives in
// Settlement. All exported operations are serialized on an internal mutex;
// no operation observes another's partial progress.
type Engine struct {
	mu sync.Mutex

	state     engineState
	currency  CurrencyTransfer
	assets    AssetTransfer
	royalties RoyaltyResolver
	emitter   events.Emitter
	pauses    nativecommon.PauseView
	operators nativecommon.OperatorView
	nowFn     func() int64
}

// NewEngine creates a market engine with a no-op emitter. Callers wire the
// state backend and adapters via the setters before use.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetCurrencyTransfer configures the adapter that moves currency between
// principals and escrow custody.
func (e *Engine) SetCurrencyTransfer(adapter CurrencyTransfer) { e.currency = adapter }

// SetAssetTransfer configures the adapter that moves asset ownership.
func (e *Engine) SetAssetTransfer(adapter AssetTransfer) { e.assets = adapter }

// SetRoyaltyResolver configures the optional royalty probe consulted at
// settlement. A nil resolver means no collection pays royalties.
func (e *Engine) SetRoyaltyResolver(resolver RoyaltyResolver) { e.royalties = resolver }

// SetPauses configures the administrative pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetOperators configures the registry gating which principals the engine may
// move funds for. A nil view grants everyone.
func (e *Engine) SetOperators(v nativecommon.OperatorView) { e.operators = v }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for creation timestamps.
// Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(event)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.currency == nil {
		return errNilCurrency
	}
	return nil
}

func (e *Engine) gate(principal [20]byte) error {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	return nativecommon.Authorize(e.operators, moduleName, principal)
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// checkSuppliedValue enforces the funding contract of a pull: native-coin
// pulls must be accompanied by exactly the pulled amount, token pulls by no
// value at all.
func checkSuppliedValue(currency string, required, supplied *big.Int) error {
	sent := cloneBigInt(supplied)
	if sent.Sign() < 0 {
		return ErrCurrencyMismatch
	}
	if currency == NativeSymbol {
		if sent.Cmp(required) != 0 {
			return ErrCurrencyMismatch
		}
		return nil
	}
	if sent.Sign() != 0 {
		return ErrCurrencyMismatch
	}
	return nil
}

// checkNoSuppliedValue rejects any value sent with an operation that expects
// none (price decreases and equal-price updates).
func checkNoSuppliedValue(supplied *big.Int) error {
	if supplied != nil && supplied.Sign() != 0 {
		return ErrCurrencyMismatch
	}
	return nil
}

// CreateNFTOffer opens an escrow-backed offer on one specific token and pulls
// the full amount from the buyer into custody. The identifier of the new
// offer is returned on success; on failure no record is created and no funds
// move.
func (e *Engine) CreateNFTOffer(buyer [20]byte, collection string, tokenID uint64, amount *big.Int, currency string, suppliedValue *big.Int) (*Offer, error) {
	token := tokenID
	return e.createOffer(buyer, collection, &token, amount, currency, suppliedValue)
}

// CreateCollectionOffer opens an escrow-backed offer on any token within the
// collection. The target asset is chosen by the accepting seller at
// settlement and is never written back to the record.
func (e *Engine) CreateCollectionOffer(buyer [20]byte, collection string, amount *big.Int, currency string, suppliedValue *big.Int) (*Offer, error) {
	return e.createOffer(buyer, collection, nil, amount, currency, suppliedValue)
}

func (e *Engine) createOffer(buyer [20]byte, collection string, tokenID *uint64, amount *big.Int, currency string, suppliedValue *big.Int) (*Offer, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate(buyer); err != nil {
		return nil, err
	}
	normalizedCollection, err := NormalizeCollection(collection)
	if err != nil {
		return nil, err
	}
	normalizedCurrency, err := NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := checkSuppliedValue(normalizedCurrency, amount, suppliedValue); err != nil {
		return nil, err
	}
	snap := e.state.Snapshot()
	id, err := e.state.NextOfferID()
	if err != nil {
		return nil, err
	}
	offer := &Offer{
		ID:         id,
		Buyer:      buyer,
		Collection: normalizedCollection,
		TokenID:    tokenID,
		Currency:   normalizedCurrency,
		Amount:     cloneBigInt(amount),
		CreatedAt:  e.now(),
		Status:     OfferActive,
	}
	if err := e.state.OfferPut(offer); err != nil {
		e.state.RevertToSnapshot(snap)
		return nil, err
	}
	if err := e.currency.Pull(buyer, normalizedCurrency, offer.Amount); err != nil {
		e.state.RevertToSnapshot(snap)
		return nil, err
	}
	if err := e.state.EscrowCredit(normalizedCurrency, offer.Amount); err != nil {
		e.state.RevertToSnapshot(snap)
		return nil, err
	}
	e.state.DiscardSnapshot(snap)
	e.emit(events.OfferCreated{
		ID:         offer.ID,
		Buyer:      offer.Buyer,
		Collection: offer.Collection,
		TokenID:    offer.TokenID,
		Currency:   offer.Currency,
		Amount:     cloneBigInt(offer.Amount),
		CreatedAt:  offer.CreatedAt,
	})
	return offer.Clone(), nil
}

// UpdatePrice re-prices an active offer, pulling the increase from the buyer
// or refunding the decrease to them. Equal re-pricing is permitted and moves
// no funds. Only the buyer may re-price, and only while the offer is active.
func (e *Engine) UpdatePrice(caller [20]byte, id uint64, newAmount *big.Int, suppliedValue *big.Int) (*Offer, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate(caller); err != nil {
		return nil, err
	}
	offer, err := e.loadOffer(id)
	if err != nil {
		return nil, err
	}
	if offer.Status != OfferActive {
		return nil, ErrOfferInactive
	}
	if offer.Buyer != caller {
		return nil, ErrUnauthorized
	}
	if newAmount == nil || newAmount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	oldAmount := cloneBigInt(offer.Amount)
	switch newAmount.Cmp(oldAmount) {
	case 0:
		if err := checkNoSuppliedValue(suppliedValue); err != nil {
			return nil, err
		}
		e.emit(events.OfferPriceUpdated{ID: offer.ID, Buyer: offer.Buyer, Currency: offer.Currency, OldAmount: oldAmount, NewAmount: cloneBigInt(newAmount)})
		return offer.Clone(), nil
	case 1:
		delta := new(big.Int).Sub(newAmount, oldAmount)
		if err := checkSuppliedValue(offer.Currency, delta, suppliedValue); err != nil {
			return nil, err
		}
		snap := e.state.Snapshot()
		offer.Amount = cloneBigInt(newAmount)
		if err := e.state.OfferPut(offer); err != nil {
			e.state.RevertToSnapshot(snap)
			return nil, err
		}
		if err := e.currency.Pull(offer.Buyer, offer.Currency, delta); err != nil {
			e.state.RevertToSnapshot(snap)
			return nil, err
		}
		if err := e.state.EscrowCredit(offer.Currency, delta); err != nil {
			e.state.RevertToSnapshot(snap)
			return nil, err
		}
		e.state.DiscardSnapshot(snap)
	default:
		delta := new(big.Int).Sub(oldAmount, newAmount)
		if err := checkNoSuppliedValue(suppliedValue); err != nil {
			return nil, err
		}
		snap := e.state.Snapshot()
		offer.Amount = cloneBigInt(newAmount)
		if err := e.state.OfferPut(offer); err != nil {
			e.state.RevertToSnapshot(snap)
			return nil, err
		}
		if err := e.state.EscrowDebit(offer.Currency, delta); err != nil {
			e.state.RevertToSnapshot(snap)
			return nil, err
		}
		if err := e.currency.Push(offer.Buyer, offer.Currency, delta); err != nil {
			e.state.RevertToSnapshot(snap)
			return nil, err
		}
		e.state.DiscardSnapshot(snap)
	}
	e.emit(events.OfferPriceUpdated{ID: offer.ID, Buyer: offer.Buyer, Currency: offer.Currency, OldAmount: oldAmount, NewAmount: cloneBigInt(newAmount)})
	return offer.Clone(), nil
}

// Cancel refunds the full escrowed amount to the buyer and retires the offer.
// Terminal offers stay queryable; any further mutation fails with
// ErrOfferInactive.
func (e *Engine) Cancel(caller [20]byte, id uint64) error {
	if err := e.ready(); err != nil {
		return err
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
	if offer.Buyer != caller {
		return ErrUnauthorized
	}
	amount := cloneBigInt(offer.Amount)
	snap := e.state.Snapshot()
	offer.Status = OfferCanceled
	if err := e.state.OfferPut(offer); err != nil {
		e.state.RevertToSnapshot(snap)
		return err
	}
	if err := e.state.EscrowDebit(offer.Currency, amount); err != nil {
		e.state.RevertToSnapshot(snap)
		return err
	}
	if err := e.currency.Push(offer.Buyer, offer.Currency, amount); err != nil {
		e.state.RevertToSnapshot(snap)
		return err
	}
	e.state.DiscardSnapshot(snap)
	e.emit(events.OfferCanceled{ID: offer.ID, Buyer: offer.Buyer, Currency: offer.Currency, Amount: amount})
	return nil
}

// Get returns a copy of the stored offer record, terminal or not.
func (e *Engine) Get(id uint64) (*Offer, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadOffer(id)
}

// EscrowBalance returns the total custodied balance for a currency, which
// equals the sum of all active offer amounts in that currency.
func (e *Engine) EscrowBalance(currency string) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	normalized, err := NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.EscrowBalance(normalized)
}

func (e *Engine) loadOffer(id uint64) (*Offer, error) {
	offer, ok := e.state.OfferGet(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrOfferNotFound, id)
	}
	sanitized, err := SanitizeOffer(offer)
	if err != nil {
		return nil, err
	}
	return sanitized, nil
}

func wrapAssetErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAssetTransferFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrAssetTransferFailed, err)
}
