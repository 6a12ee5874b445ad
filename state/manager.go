package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"mintmarket/core/types"
	"mintmarket/native/market"
	"mintmarket/storage"
)

const vaultDomainTag = "mintmarket/escrow-vault/"

var (
	prefixAccount    = []byte("acct/")
	prefixOffer      = []byte("offr/")
	prefixEscrow     = []byte("escr/")
	prefixCollection = []byte("coll/")
	prefixOwner      = []byte("ownr/")
	prefixTokenReg   = []byte("treg/")
	keyOfferSeq      = []byte("seq/offer")
	keyGenesisDone   = []byte("meta/genesis")
)

// RoyaltyPolicy declares the royalty owed on every sale within a collection.
type RoyaltyPolicy struct {
	Receiver [20]byte
	Bps      uint32
}

// Collection describes a registered NFT collection.
type Collection struct {
	ID      string
	Royalty *RoyaltyPolicy
}

// Manager is the authoritative state behind the market engine: accounts,
// offer records, the per-currency escrow ledger and the NFT registry. It
// implements the engine's state interface together with the currency, asset
// and royalty adapters. All runtime state lives in memory and writes through
// to the backing database; every mutation is journaled so the engine can
// revert a half-applied operation wholesale.
type Manager struct {
	mu sync.Mutex
	db storage.Database

	accounts    map[[20]byte]*types.Account
	offers      map[uint64]*market.Offer
	offerSeq    uint64
	escrow      map[string]*big.Int
	collections map[string]*Collection
	owners      map[string]map[uint64][20]byte
	tokens      map[string]bool
	genesisDone bool

	journal []journalEntry
}

// NewManager builds a manager on top of the supplied database, loading any
// previously persisted state.
func NewManager(db storage.Database) (*Manager, error) {
	if db == nil {
		return nil, fmt.Errorf("state: nil database")
	}
	m := &Manager{
		db:          db,
		accounts:    make(map[[20]byte]*types.Account),
		offers:      make(map[uint64]*market.Offer),
		escrow:      make(map[string]*big.Int),
		collections: make(map[string]*Collection),
		owners:      make(map[string]map[uint64][20]byte),
		tokens:      make(map[string]bool),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// VaultAddress derives the custody address for a currency. The derivation is
// deterministic so the vault survives restarts without further bookkeeping.
func VaultAddress(currency string) [20]byte {
	hash := ethcrypto.Keccak256([]byte(vaultDomainTag + currency))
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr
}

// --- journal -----------------------------------------------------------

type journalEntry interface {
	revert(m *Manager)
}

type accountChange struct {
	addr [20]byte
	prev *types.Account // nil when the account did not exist
}

func (c accountChange) revert(m *Manager) {
	if c.prev == nil {
		delete(m.accounts, c.addr)
		_ = m.db.Delete(accountKey(c.addr))
		return
	}
	m.accounts[c.addr] = c.prev.Clone()
	m.persistAccount(c.addr, c.prev)
}

type offerChange struct {
	id   uint64
	prev *market.Offer
}

func (c offerChange) revert(m *Manager) {
	if c.prev == nil {
		delete(m.offers, c.id)
		_ = m.db.Delete(offerKey(c.id))
		return
	}
	m.offers[c.id] = c.prev.Clone()
	m.persistOffer(c.prev)
}

type seqChange struct {
	prev uint64
}

func (c seqChange) revert(m *Manager) {
	m.offerSeq = c.prev
	m.persistSeq()
}

type escrowChange struct {
	symbol string
	prev   *big.Int
}

func (c escrowChange) revert(m *Manager) {
	if c.prev == nil {
		delete(m.escrow, c.symbol)
		_ = m.db.Delete(escrowKey(c.symbol))
		return
	}
	m.escrow[c.symbol] = new(big.Int).Set(c.prev)
	m.persistEscrow(c.symbol)
}

type ownerChange struct {
	collection string
	tokenID    uint64
	prev       [20]byte
}

func (c ownerChange) revert(m *Manager) {
	tokens := m.owners[c.collection]
	if tokens == nil {
		tokens = make(map[uint64][20]byte)
		m.owners[c.collection] = tokens
	}
	tokens[c.tokenID] = c.prev
	m.persistOwner(c.collection, c.tokenID, c.prev)
}

// Snapshot returns a revision that can be passed to RevertToSnapshot to undo
// every mutation recorded after this point.
func (m *Manager) Snapshot() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.journal)
}

// RevertToSnapshot unwinds the journal back to the given revision, restoring
// both the in-memory state and the persisted records.
func (m *Manager) RevertToSnapshot(revision int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if revision < 0 || revision > len(m.journal) {
		return
	}
	for i := len(m.journal) - 1; i >= revision; i-- {
		m.journal[i].revert(m)
	}
	m.journal = m.journal[:revision]
}

// DiscardSnapshot commits everything recorded after the given revision: the
// mutations stay applied and their undo entries are released, so the journal
// does not accumulate over the life of the process.
func (m *Manager) DiscardSnapshot(revision int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if revision < 0 || revision > len(m.journal) {
		return
	}
	for i := revision; i < len(m.journal); i++ {
		m.journal[i] = nil
	}
	m.journal = m.journal[:revision]
}

// --- accounts ----------------------------------------------------------

func (m *Manager) account(addr [20]byte) *types.Account {
	if acc, ok := m.accounts[addr]; ok {
		return acc
	}
	return nil
}

func (m *Manager) setAccount(addr [20]byte, acc *types.Account) {
	var prev *types.Account
	if existing, ok := m.accounts[addr]; ok {
		prev = existing.Clone()
	}
	m.journal = append(m.journal, accountChange{addr: addr, prev: prev})
	m.accounts[addr] = acc.Clone()
	m.persistAccount(addr, acc)
}

// BalanceOf returns the balance a principal holds in the given currency.
func (m *Manager) BalanceOf(addr [20]byte, currency string) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.account(addr)
	if acc == nil {
		return big.NewInt(0)
	}
	return acc.Balance(currency)
}

// Credit adds funds to a principal's balance. Used by genesis allocation and
// administrative faucets, not by the lifecycle engine.
func (m *Manager) Credit(addr [20]byte, currency string, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureCurrency(currency); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("state: credit amount must be non-negative")
	}
	acc := m.account(addr)
	if acc == nil {
		acc = types.NewAccount()
	} else {
		acc = acc.Clone()
	}
	acc.Credit(currency, amount)
	m.setAccount(addr, acc)
	return nil
}

func (m *Manager) ensureCurrency(currency string) error {
	if currency == market.NativeSymbol {
		return nil
	}
	if !m.tokens[currency] {
		return fmt.Errorf("state: unregistered currency %s", currency)
	}
	return nil
}

// --- CurrencyTransfer adapter ------------------------------------------

// Pull moves amount of currency from the principal into the escrow vault.
func (m *Manager) Pull(principal [20]byte, currency string, amount *big.Int) error {
	return m.move(principal, VaultAddress(currency), currency, amount, true)
}

// Push moves amount of currency from the escrow vault back to the principal.
func (m *Manager) Push(principal [20]byte, currency string, amount *big.Int) error {
	return m.move(VaultAddress(currency), principal, currency, amount, false)
}

func (m *Manager) move(from, to [20]byte, currency string, amount *big.Int, principalFunded bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("state: negative transfer amount")
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := m.ensureCurrency(currency); err != nil {
		return err
	}
	fromAcc := m.account(from)
	if fromAcc == nil || fromAcc.Balance(currency).Cmp(amount) < 0 {
		if principalFunded {
			return fmt.Errorf("%w: %s", market.ErrInsufficientFunds, currency)
		}
		return fmt.Errorf("state: vault balance below %s payout", currency)
	}
	fromAcc = fromAcc.Clone()
	if err := fromAcc.Debit(currency, amount); err != nil {
		return err
	}
	toAcc := m.account(to)
	if toAcc == nil {
		toAcc = types.NewAccount()
	} else {
		toAcc = toAcc.Clone()
	}
	toAcc.Credit(currency, amount)
	m.setAccount(from, fromAcc)
	m.setAccount(to, toAcc)
	return nil
}

// --- escrow ledger ------------------------------------------------------

func (m *Manager) setEscrow(symbol string, value *big.Int) {
	var prev *big.Int
	if existing, ok := m.escrow[symbol]; ok {
		prev = new(big.Int).Set(existing)
	}
	m.journal = append(m.journal, escrowChange{symbol: symbol, prev: prev})
	m.escrow[symbol] = new(big.Int).Set(value)
	m.persistEscrow(symbol)
}

// EscrowCredit records custody of amount attributable to active offers in the
// given currency.
func (m *Manager) EscrowCredit(currency string, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("state: negative escrow credit")
	}
	current, ok := m.escrow[currency]
	if !ok {
		current = big.NewInt(0)
	}
	m.setEscrow(currency, new(big.Int).Add(current, amount))
	return nil
}

// EscrowDebit releases custody of amount in the given currency.
func (m *Manager) EscrowDebit(currency string, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("state: negative escrow debit")
	}
	current, ok := m.escrow[currency]
	if !ok || current.Cmp(amount) < 0 {
		return fmt.Errorf("state: escrow ledger below %s debit", currency)
	}
	m.setEscrow(currency, new(big.Int).Sub(current, amount))
	return nil
}

// EscrowBalance reports the total custodied balance for a currency.
func (m *Manager) EscrowBalance(currency string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.escrow[currency]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(current), nil
}

// --- offer store --------------------------------------------------------

// OfferPut sanitizes and stores the offer record.
func (m *Manager) OfferPut(offer *market.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sanitized, err := market.SanitizeOffer(offer)
	if err != nil {
		return err
	}
	var prev *market.Offer
	if existing, ok := m.offers[sanitized.ID]; ok {
		prev = existing.Clone()
	}
	m.journal = append(m.journal, offerChange{id: sanitized.ID, prev: prev})
	m.offers[sanitized.ID] = sanitized.Clone()
	m.persistOffer(sanitized)
	return nil
}

// OfferGet returns a copy of the stored offer record.
func (m *Manager) OfferGet(id uint64) (*market.Offer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return nil, false
	}
	return offer.Clone(), true
}

// NextOfferID allocates the next identifier from the single shared counter.
// Identifiers start at 1 and are never reused.
func (m *Manager) NextOfferID() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journal = append(m.journal, seqChange{prev: m.offerSeq})
	m.offerSeq++
	m.persistSeq()
	return m.offerSeq, nil
}

// --- NFT registry & AssetTransfer adapter -------------------------------

// RegisterToken registers a fungible token symbol the bank will honour.
func (m *Manager) RegisterToken(symbol string) error {
	normalized, err := market.NormalizeCurrency(symbol)
	if err != nil {
		return err
	}
	if normalized == market.NativeSymbol {
		return fmt.Errorf("state: %s is the native coin", normalized)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[normalized] = true
	return m.db.Put(tokenRegKey(normalized), []byte{1})
}

// CreateCollection registers an NFT collection, optionally with a royalty
// policy applied to every sale within it.
func (m *Manager) CreateCollection(id string, royalty *RoyaltyPolicy) error {
	normalized, err := market.NormalizeCollection(id)
	if err != nil {
		return err
	}
	if royalty != nil && royalty.Bps > 10_000 {
		return fmt.Errorf("state: royalty bps out of range")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[normalized]; ok {
		return fmt.Errorf("state: collection %s already exists", normalized)
	}
	coll := &Collection{ID: normalized}
	if royalty != nil {
		policy := *royalty
		coll.Royalty = &policy
	}
	m.collections[normalized] = coll
	m.owners[normalized] = make(map[uint64][20]byte)
	return m.persistCollection(coll)
}

// MintToken assigns a fresh token within a collection to an owner.
func (m *Manager) MintToken(collection string, tokenID uint64, owner [20]byte) error {
	collection, err := market.NormalizeCollection(collection)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens, ok := m.owners[collection]
	if !ok {
		return fmt.Errorf("state: unknown collection %s", collection)
	}
	if _, exists := tokens[tokenID]; exists {
		return fmt.Errorf("state: token %s/%d already minted", collection, tokenID)
	}
	tokens[tokenID] = owner
	return m.persistOwnerErr(collection, tokenID, owner)
}

// OwnerOf reports the current owner of a token.
func (m *Manager) OwnerOf(collection string, tokenID uint64) ([20]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens, ok := m.owners[collection]
	if !ok {
		return [20]byte{}, false
	}
	owner, ok := tokens[tokenID]
	return owner, ok
}

// Transfer moves token ownership after verifying the sender holds it. The
// mutation is journaled so an aborted settlement restores the previous owner.
func (m *Manager) Transfer(from, to [20]byte, collection string, tokenID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens, ok := m.owners[collection]
	if !ok {
		return fmt.Errorf("state: unknown collection %s", collection)
	}
	owner, ok := tokens[tokenID]
	if !ok {
		return fmt.Errorf("state: token %s/%d not minted", collection, tokenID)
	}
	if owner != from {
		return fmt.Errorf("state: %s does not own token %s/%d", types.FormatAddress(from), collection, tokenID)
	}
	m.journal = append(m.journal, ownerChange{collection: collection, tokenID: tokenID, prev: owner})
	tokens[tokenID] = to
	m.persistOwner(collection, tokenID, to)
	return nil
}

// Resolve implements the royalty probe: collections without a policy report
// ok=false, others owe saleAmount*bps/10000 to the declared receiver.
func (m *Manager) Resolve(collection string, tokenID uint64, saleAmount *big.Int) ([20]byte, *big.Int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return [20]byte{}, nil, false, fmt.Errorf("state: unknown collection %s", collection)
	}
	if coll.Royalty == nil || coll.Royalty.Bps == 0 {
		return [20]byte{}, nil, false, nil
	}
	if saleAmount == nil || saleAmount.Sign() <= 0 {
		return [20]byte{}, nil, false, nil
	}
	owed := new(big.Int).Mul(saleAmount, new(big.Int).SetUint64(uint64(coll.Royalty.Bps)))
	owed.Div(owed, big.NewInt(10_000))
	if owed.Sign() == 0 {
		return [20]byte{}, nil, false, nil
	}
	return coll.Royalty.Receiver, owed, true, nil
}

// --- persistence --------------------------------------------------------

type storedBalance struct {
	Symbol string
	Amount *big.Int
}

type storedAccount struct {
	Nonce    uint64
	Balances []storedBalance
}

type storedOffer struct {
	ID         uint64
	Buyer      [20]byte
	Collection string
	HasToken   bool
	TokenID    uint64
	Currency   string
	Amount     *big.Int
	CreatedAt  uint64
	Status     uint8
}

type storedCollection struct {
	ID         string
	HasRoyalty bool
	Receiver   [20]byte
	Bps        uint32
}

func accountKey(addr [20]byte) []byte {
	return append(append([]byte(nil), prefixAccount...), addr[:]...)
}

func offerKey(id uint64) []byte {
	key := append([]byte(nil), prefixOffer...)
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], id)
	return append(key, raw[:]...)
}

func escrowKey(symbol string) []byte {
	return append(append([]byte(nil), prefixEscrow...), symbol...)
}

func collectionKey(id string) []byte {
	hash := ethcrypto.Keccak256([]byte(id))
	return append(append([]byte(nil), prefixCollection...), hash...)
}

func ownerKey(collection string, tokenID uint64) []byte {
	hash := ethcrypto.Keccak256([]byte(collection))
	key := append(append([]byte(nil), prefixOwner...), hash...)
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], tokenID)
	return append(key, raw[:]...)
}

func tokenRegKey(symbol string) []byte {
	return append(append([]byte(nil), prefixTokenReg...), symbol...)
}

func (m *Manager) persistAccount(addr [20]byte, acc *types.Account) {
	stored := storedAccount{Nonce: acc.Nonce}
	symbols := make([]string, 0, len(acc.Balances))
	for symbol := range acc.Balances {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		bal := acc.Balances[symbol]
		if bal == nil || bal.Sign() == 0 {
			continue
		}
		stored.Balances = append(stored.Balances, storedBalance{Symbol: symbol, Amount: new(big.Int).Set(bal)})
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return
	}
	_ = m.db.Put(accountKey(addr), encoded)
}

func (m *Manager) persistOffer(offer *market.Offer) {
	stored := storedOffer{
		ID:         offer.ID,
		Buyer:      offer.Buyer,
		Collection: offer.Collection,
		Currency:   offer.Currency,
		Amount:     cloneAmount(offer.Amount),
		CreatedAt:  uint64(offer.CreatedAt),
		Status:     uint8(offer.Status),
	}
	if offer.TokenID != nil {
		stored.HasToken = true
		stored.TokenID = *offer.TokenID
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return
	}
	_ = m.db.Put(offerKey(offer.ID), encoded)
}

func (m *Manager) persistSeq() {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], m.offerSeq)
	_ = m.db.Put(keyOfferSeq, raw[:])
}

func (m *Manager) persistEscrow(symbol string) {
	value, ok := m.escrow[symbol]
	if !ok {
		_ = m.db.Delete(escrowKey(symbol))
		return
	}
	payload, err := rlp.EncodeToBytes([]interface{}{symbol, value})
	if err != nil {
		return
	}
	_ = m.db.Put(escrowKey(symbol), payload)
}

func (m *Manager) persistCollection(coll *Collection) error {
	stored := storedCollection{ID: coll.ID}
	if coll.Royalty != nil {
		stored.HasRoyalty = true
		stored.Receiver = coll.Royalty.Receiver
		stored.Bps = coll.Royalty.Bps
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return err
	}
	return m.db.Put(collectionKey(coll.ID), encoded)
}

func (m *Manager) persistOwner(collection string, tokenID uint64, owner [20]byte) {
	_ = m.persistOwnerErr(collection, tokenID, owner)
}

func (m *Manager) persistOwnerErr(collection string, tokenID uint64, owner [20]byte) error {
	payload, err := rlp.EncodeToBytes([]interface{}{collection, tokenID, owner})
	if err != nil {
		return err
	}
	return m.db.Put(ownerKey(collection, tokenID), payload)
}

func (m *Manager) load() error {
	if err := m.db.Iterate(prefixAccount, func(key, value []byte) error {
		if len(key) != len(prefixAccount)+20 {
			return fmt.Errorf("state: malformed account key")
		}
		var addr [20]byte
		copy(addr[:], key[len(prefixAccount):])
		stored := new(storedAccount)
		if err := rlp.DecodeBytes(value, stored); err != nil {
			return fmt.Errorf("state: decode account: %w", err)
		}
		acc := types.NewAccount()
		acc.Nonce = stored.Nonce
		for _, bal := range stored.Balances {
			acc.Credit(bal.Symbol, bal.Amount)
		}
		m.accounts[addr] = acc
		return nil
	}); err != nil {
		return err
	}
	if err := m.db.Iterate(prefixOffer, func(key, value []byte) error {
		stored := new(storedOffer)
		if err := rlp.DecodeBytes(value, stored); err != nil {
			return fmt.Errorf("state: decode offer: %w", err)
		}
		offer := &market.Offer{
			ID:         stored.ID,
			Buyer:      stored.Buyer,
			Collection: stored.Collection,
			Currency:   stored.Currency,
			Amount:     cloneAmount(stored.Amount),
			CreatedAt:  int64(stored.CreatedAt),
			Status:     market.OfferStatus(stored.Status),
		}
		if stored.HasToken {
			tokenID := stored.TokenID
			offer.TokenID = &tokenID
		}
		m.offers[offer.ID] = offer
		return nil
	}); err != nil {
		return err
	}
	if raw, err := m.db.Get(keyOfferSeq); err == nil {
		if len(raw) != 8 {
			return fmt.Errorf("state: malformed offer sequence")
		}
		m.offerSeq = binary.BigEndian.Uint64(raw)
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	if _, err := m.db.Get(keyGenesisDone); err == nil {
		m.genesisDone = true
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	if err := m.db.Iterate(prefixEscrow, func(key, value []byte) error {
		var entry struct {
			Symbol string
			Value  *big.Int
		}
		if err := rlp.DecodeBytes(value, &entry); err != nil {
			return fmt.Errorf("state: decode escrow ledger: %w", err)
		}
		m.escrow[entry.Symbol] = cloneAmount(entry.Value)
		return nil
	}); err != nil {
		return err
	}
	if err := m.db.Iterate(prefixCollection, func(key, value []byte) error {
		stored := new(storedCollection)
		if err := rlp.DecodeBytes(value, stored); err != nil {
			return fmt.Errorf("state: decode collection: %w", err)
		}
		coll := &Collection{ID: stored.ID}
		if stored.HasRoyalty {
			coll.Royalty = &RoyaltyPolicy{Receiver: stored.Receiver, Bps: stored.Bps}
		}
		m.collections[coll.ID] = coll
		if _, ok := m.owners[coll.ID]; !ok {
			m.owners[coll.ID] = make(map[uint64][20]byte)
		}
		return nil
	}); err != nil {
		return err
	}
	if err := m.db.Iterate(prefixOwner, func(key, value []byte) error {
		var entry struct {
			Collection string
			TokenID    uint64
			Owner      [20]byte
		}
		if err := rlp.DecodeBytes(value, &entry); err != nil {
			return fmt.Errorf("state: decode token owner: %w", err)
		}
		tokens, ok := m.owners[entry.Collection]
		if !ok {
			tokens = make(map[uint64][20]byte)
			m.owners[entry.Collection] = tokens
		}
		tokens[entry.TokenID] = entry.Owner
		return nil
	}); err != nil {
		return err
	}
	return m.db.Iterate(prefixTokenReg, func(key, value []byte) error {
		symbol := string(key[len(prefixTokenReg):])
		m.tokens[symbol] = true
		return nil
	})
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
