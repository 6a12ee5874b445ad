package market

import "errors"

// Operation failure kinds. Every lifecycle call aborts with exactly one of
// these (or a configuration error) and retains none of its effects.
var (
	// ErrInvalidAmount rejects zero or negative offer amounts.
	ErrInvalidAmount = errors.New("market: invalid amount")
	// ErrCurrencyMismatch rejects supplied value that does not match the
	// amount the operation requires for the offer's currency.
	ErrCurrencyMismatch = errors.New("market: supplied value does not match")
	// ErrUnauthorized rejects callers other than the offer's buyer.
	ErrUnauthorized = errors.New("market: caller is not the offer buyer")
	// ErrOfferInactive rejects mutations of terminal offers.
	ErrOfferInactive = errors.New("market: offer is not active")
	// ErrInsufficientFunds surfaces a failed escrow pull.
	ErrInsufficientFunds = errors.New("market: insufficient funds")
	// ErrAssetTransferFailed surfaces a failed ownership transfer, e.g. the
	// accepting caller does not hold the asset.
	ErrAssetTransferFailed = errors.New("market: asset transfer failed")
	// ErrOfferNotFound reports an unknown offer identifier.
	ErrOfferNotFound = errors.New("market: offer not found")
)

var (
	errNilState    = errors.New("market engine: state not configured")
	errNilCurrency = errors.New("market engine: currency adapter not configured")
	errNilAssets   = errors.New("market engine: asset adapter not configured")
)
