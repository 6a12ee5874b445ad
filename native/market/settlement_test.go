package market

import (
	"errors"
	"math/big"
	"testing"

	"mintmarket/core/events"
)

func newTestSettlement() (*Settlement, *Engine, *mockState, *captureEmitter) {
	engine, state, emitter := newTestEngine()
	return NewSettlement(engine), engine, state, emitter
}

func TestAcceptNFTOffer(t *testing.T) {
	settlement, engine, state, emitter := newTestSettlement()
	buyer := newTestAddress(0x11)
	seller := newTestAddress(0x12)
	state.credit(buyer, NativeSymbol, big.NewInt(100))
	state.mint("gallery", 0, seller)

	offer, err := engine.CreateNFTOffer(buyer, "gallery", 0, big.NewInt(100), NativeSymbol, big.NewInt(100))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := settlement.AcceptNFTOffer(seller, offer.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := state.balance(seller, NativeSymbol); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected seller paid 100, got %s", got)
	}
	if owner := state.owners["gallery"][0]; owner != buyer {
		t.Fatalf("expected buyer to own token 0")
	}
	if got := state.escrow[NativeSymbol]; got.Sign() != 0 {
		t.Fatalf("expected escrow drained, got %s", got)
	}
	stored, _ := state.OfferGet(offer.ID)
	if stored.Status != OfferAccepted {
		t.Fatalf("expected accepted status, got %v", stored.Status)
	}
	if emitter.lastType() != events.TypeOfferAccepted {
		t.Fatalf("expected accepted event, got %q", emitter.lastType())
	}
	if len(state.snaps) != 0 {
		t.Fatalf("expected snapshot released after settlement, got %d", len(state.snaps))
	}
}

func TestAcceptNFTOfferWithRoyalty(t *testing.T) {
	settlement, engine, state, _ := newTestSettlement()
	buyer := newTestAddress(0x13)
	seller := newTestAddress(0x14)
	artist := newTestAddress(0x15)
	state.credit(buyer, NativeSymbol, big.NewInt(200))
	state.mint("gallery", 3, seller)
	state.royalties["gallery"] = mockRoyalty{receiver: artist, bps: 1_000}

	offer, err := engine.CreateNFTOffer(buyer, "gallery", 3, big.NewInt(200), NativeSymbol, big.NewInt(200))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := settlement.AcceptNFTOffer(seller, offer.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := state.balance(artist, NativeSymbol); got.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("expected royalty 20, got %s", got)
	}
	if got := state.balance(seller, NativeSymbol); got.Cmp(big.NewInt(180)) != 0 {
		t.Fatalf("expected seller paid 180, got %s", got)
	}
}

func TestAcceptRoyaltyCappedAtAmount(t *testing.T) {
	settlement, engine, state, _ := newTestSettlement()
	buyer := newTestAddress(0x16)
	seller := newTestAddress(0x17)
	artist := newTestAddress(0x18)
	state.credit(buyer, NativeSymbol, big.NewInt(50))
	state.mint("gallery", 4, seller)
	state.royalties["gallery"] = mockRoyalty{receiver: artist, fixed: big.NewInt(500)}

	offer, err := engine.CreateNFTOffer(buyer, "gallery", 4, big.NewInt(50), NativeSymbol, big.NewInt(50))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := settlement.AcceptNFTOffer(seller, offer.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := state.balance(artist, NativeSymbol); got.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected capped royalty 50, got %s", got)
	}
	if got := state.balance(seller, NativeSymbol); got.Sign() != 0 {
		t.Fatalf("expected seller paid nothing, got %s", got)
	}
}

func TestAcceptFailsWhenCallerNotOwner(t *testing.T) {
	settlement, engine, state, emitter := newTestSettlement()
	buyer := newTestAddress(0x19)
	seller := newTestAddress(0x1A)
	impostor := newTestAddress(0x1B)
	state.credit(buyer, NativeSymbol, big.NewInt(100))
	state.mint("gallery", 5, seller)

	offer, err := engine.CreateNFTOffer(buyer, "gallery", 5, big.NewInt(100), NativeSymbol, big.NewInt(100))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	emitted := len(emitter.events)
	if err := settlement.AcceptNFTOffer(impostor, offer.ID); !errors.Is(err, ErrAssetTransferFailed) {
		t.Fatalf("expected ErrAssetTransferFailed, got %v", err)
	}
	stored, _ := state.OfferGet(offer.ID)
	if stored.Status != OfferActive {
		t.Fatalf("expected offer to remain active, got %v", stored.Status)
	}
	if got := state.escrow[NativeSymbol]; got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected escrow untouched, got %s", got)
	}
	if got := state.balance(impostor, NativeSymbol); got.Sign() != 0 {
		t.Fatalf("expected impostor unpaid, got %s", got)
	}
	if owner := state.owners["gallery"][5]; owner != seller {
		t.Fatalf("expected seller to keep token 5")
	}
	if len(emitter.events) != emitted {
		t.Fatalf("expected no events for failed settlement")
	}
}

func TestAcceptCollectionOffer(t *testing.T) {
	settlement, engine, state, _ := newTestSettlement()
	buyer := newTestAddress(0x1C)
	seller := newTestAddress(0x1D)
	second := newTestAddress(0x1E)
	state.credit(buyer, NativeSymbol, big.NewInt(100))
	state.mint("gallery", 0, seller)
	state.mint("gallery", 1, second)

	offer, err := engine.CreateCollectionOffer(buyer, "gallery", big.NewInt(100), NativeSymbol, big.NewInt(100))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := settlement.AcceptCollectionOffer(seller, offer.ID, 0); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := state.balance(seller, NativeSymbol); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected seller paid 100, got %s", got)
	}
	if owner := state.owners["gallery"][0]; owner != buyer {
		t.Fatalf("expected buyer to own token 0")
	}
	stored, _ := state.OfferGet(offer.ID)
	if stored.TokenID != nil {
		t.Fatalf("expected record to stay unbound, got token %d", *stored.TokenID)
	}
	// The offer is terminal; a second seller cannot settle it again.
	if err := settlement.AcceptCollectionOffer(second, offer.ID, 1); !errors.Is(err, ErrOfferInactive) {
		t.Fatalf("expected ErrOfferInactive, got %v", err)
	}
}

func TestAcceptCollectionOfferForeignToken(t *testing.T) {
	settlement, engine, state, _ := newTestSettlement()
	buyer := newTestAddress(0x1F)
	seller := newTestAddress(0x20)
	state.credit(buyer, NativeSymbol, big.NewInt(100))
	state.mint("prints", 0, seller)

	offer, err := engine.CreateCollectionOffer(buyer, "gallery", big.NewInt(100), NativeSymbol, big.NewInt(100))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Token 0 lives in a different collection; the transfer must refuse it.
	if err := settlement.AcceptCollectionOffer(seller, offer.ID, 0); !errors.Is(err, ErrAssetTransferFailed) {
		t.Fatalf("expected ErrAssetTransferFailed, got %v", err)
	}
	stored, _ := state.OfferGet(offer.ID)
	if stored.Status != OfferActive {
		t.Fatalf("expected offer to remain active")
	}
}

func TestAcceptNFTOfferRequiresTokenBinding(t *testing.T) {
	settlement, engine, state, _ := newTestSettlement()
	buyer := newTestAddress(0x21)
	seller := newTestAddress(0x22)
	state.credit(buyer, NativeSymbol, big.NewInt(40))
	state.mint("gallery", 8, seller)

	offer, err := engine.CreateCollectionOffer(buyer, "gallery", big.NewInt(40), NativeSymbol, big.NewInt(40))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := settlement.AcceptNFTOffer(seller, offer.ID); !errors.Is(err, ErrAssetTransferFailed) {
		t.Fatalf("expected ErrAssetTransferFailed for unbound accept, got %v", err)
	}
}

func TestAcceptTerminalOffer(t *testing.T) {
	settlement, engine, state, _ := newTestSettlement()
	buyer := newTestAddress(0x23)
	seller := newTestAddress(0x24)
	state.credit(buyer, NativeSymbol, big.NewInt(60))
	state.mint("gallery", 6, seller)

	offer, err := engine.CreateNFTOffer(buyer, "gallery", 6, big.NewInt(60), NativeSymbol, big.NewInt(60))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := engine.Cancel(buyer, offer.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := settlement.AcceptNFTOffer(seller, offer.ID); !errors.Is(err, ErrOfferInactive) {
		t.Fatalf("expected ErrOfferInactive, got %v", err)
	}

	if err := settlement.AcceptNFTOffer(seller, 99); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestAcceptPushFailureRevertsRecord(t *testing.T) {
	settlement, engine, state, _ := newTestSettlement()
	buyer := newTestAddress(0x25)
	seller := newTestAddress(0x26)
	state.credit(buyer, NativeSymbol, big.NewInt(30))
	state.mint("gallery", 2, seller)

	offer, err := engine.CreateNFTOffer(buyer, "gallery", 2, big.NewInt(30), NativeSymbol, big.NewInt(30))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	state.pushErr = errors.New("payout rail down")
	if err := settlement.AcceptNFTOffer(seller, offer.ID); err == nil {
		t.Fatalf("expected payout failure to abort settlement")
	}
	stored, _ := state.OfferGet(offer.ID)
	if stored.Status != OfferActive {
		t.Fatalf("expected record reverted to active, got %v", stored.Status)
	}
	if got := state.escrow[NativeSymbol]; got.Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("expected escrow restored, got %s", got)
	}
}
