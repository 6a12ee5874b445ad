package rpc

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"mintmarket/core/types"
	"mintmarket/native/common"
	"mintmarket/native/market"
)

const (
	codeMarketInvalidParams = -32031
	codeMarketForbidden     = -32032
	codeMarketConflict      = -32033
	codeMarketInsufficient  = -32034
	codeMarketAssetFailed   = -32035
	codeMarketNotFound      = -32036
	codeMarketUnavailable   = -32037
)

type createNFTOfferParams struct {
	Buyer         string `json:"buyer"`
	Collection    string `json:"collection"`
	TokenID       uint64 `json:"tokenId"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	SuppliedValue string `json:"suppliedValue,omitempty"`
}

type createCollectionOfferParams struct {
	Buyer         string `json:"buyer"`
	Collection    string `json:"collection"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	SuppliedValue string `json:"suppliedValue,omitempty"`
}

type updatePriceParams struct {
	ID            uint64 `json:"id"`
	Caller        string `json:"caller"`
	NewAmount     string `json:"newAmount"`
	SuppliedValue string `json:"suppliedValue,omitempty"`
}

type offerActorParams struct {
	ID     uint64 `json:"id"`
	Caller string `json:"caller"`
}

type acceptCollectionParams struct {
	ID      uint64 `json:"id"`
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
}

type offerIDParams struct {
	ID uint64 `json:"id"`
}

type escrowBalanceParams struct {
	Currency string `json:"currency"`
}

type offerJSON struct {
	ID         uint64  `json:"id"`
	Buyer      string  `json:"buyer"`
	Collection string  `json:"collection"`
	TokenID    *uint64 `json:"tokenId,omitempty"`
	Currency   string  `json:"currency"`
	Amount     string  `json:"amount"`
	CreatedAt  int64   `json:"createdAt"`
	Status     string  `json:"status"`
}

func offerToJSON(offer *market.Offer) *offerJSON {
	if offer == nil {
		return nil
	}
	out := &offerJSON{
		ID:         offer.ID,
		Buyer:      types.FormatAddress(offer.Buyer),
		Collection: offer.Collection,
		Currency:   offer.Currency,
		Amount:     offer.Amount.String(),
		CreatedAt:  offer.CreatedAt,
		Status:     offer.Status.String(),
	}
	if offer.TokenID != nil {
		tokenID := *offer.TokenID
		out.TokenID = &tokenID
	}
	return out
}

func parseAmount(raw string, required bool) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if required {
			return nil, fmt.Errorf("amount required")
		}
		return nil, nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return value, nil
}

func (s *Server) decodeParams(w http.ResponseWriter, req *RPCRequest, out interface{}) bool {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", "exactly one parameter object expected")
		return false
	}
	if err := jsonUnmarshalStrict(req.Params[0], out); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return false
	}
	return true
}

func (s *Server) writeEngineError(w http.ResponseWriter, req *RPCRequest, method string, err error) {
	s.metrics.ObserveOperation(method, "error")
	switch {
	case errors.Is(err, market.ErrInvalidAmount), errors.Is(err, market.ErrCurrencyMismatch):
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
	case errors.Is(err, market.ErrUnauthorized), errors.Is(err, common.ErrOperatorBlocked):
		writeError(w, http.StatusForbidden, req.ID, codeMarketForbidden, "forbidden", err.Error())
	case errors.Is(err, market.ErrOfferInactive):
		writeError(w, http.StatusConflict, req.ID, codeMarketConflict, "offer_inactive", err.Error())
	case errors.Is(err, market.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, req.ID, codeMarketInsufficient, "insufficient_funds", err.Error())
	case errors.Is(err, market.ErrAssetTransferFailed):
		writeError(w, http.StatusConflict, req.ID, codeMarketAssetFailed, "asset_transfer_failed", err.Error())
	case errors.Is(err, market.ErrOfferNotFound):
		writeError(w, http.StatusNotFound, req.ID, codeMarketNotFound, "not_found", err.Error())
	case errors.Is(err, common.ErrModulePaused):
		writeError(w, http.StatusServiceUnavailable, req.ID, codeMarketUnavailable, "module_paused", err.Error())
	default:
		s.logger.Error("market operation failed", "method", method, "err", err)
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "internal_error", err.Error())
	}
}

func (s *Server) observeSuccess(method, currency string) {
	s.metrics.ObserveOperation(method, "ok")
	if balance, err := s.engine.EscrowBalance(currency); err == nil {
		value, _ := new(big.Float).SetInt(balance).Float64()
		s.metrics.SetEscrowBalance(currency, value)
	}
}

func (s *Server) handleCreateNFTOffer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params createNFTOfferParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	buyer, err := types.ParseAddress(params.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	supplied, err := parseAmount(params.SuppliedValue, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	offer, err := s.engine.CreateNFTOffer(buyer, params.Collection, params.TokenID, amount, params.Currency, supplied)
	if err != nil {
		s.writeEngineError(w, req, "createNFTOffer", err)
		return
	}
	s.observeSuccess("createNFTOffer", offer.Currency)
	s.metrics.OfferOpened()
	writeResult(w, req.ID, offerToJSON(offer))
}

func (s *Server) handleCreateCollectionOffer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params createCollectionOfferParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	buyer, err := types.ParseAddress(params.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	supplied, err := parseAmount(params.SuppliedValue, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	offer, err := s.engine.CreateCollectionOffer(buyer, params.Collection, amount, params.Currency, supplied)
	if err != nil {
		s.writeEngineError(w, req, "createCollectionOffer", err)
		return
	}
	s.observeSuccess("createCollectionOffer", offer.Currency)
	s.metrics.OfferOpened()
	writeResult(w, req.ID, offerToJSON(offer))
}

func (s *Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params updatePriceParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	caller, err := types.ParseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	newAmount, err := parseAmount(params.NewAmount, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	supplied, err := parseAmount(params.SuppliedValue, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	offer, err := s.engine.UpdatePrice(caller, params.ID, newAmount, supplied)
	if err != nil {
		s.writeEngineError(w, req, "updatePrice", err)
		return
	}
	s.observeSuccess("updatePrice", offer.Currency)
	writeResult(w, req.ID, offerToJSON(offer))
}

func (s *Server) handleCancelOffer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params offerActorParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	caller, err := types.ParseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.Cancel(caller, params.ID); err != nil {
		s.writeEngineError(w, req, "cancelOffer", err)
		return
	}
	offer, err := s.engine.Get(params.ID)
	if err != nil {
		s.writeEngineError(w, req, "cancelOffer", err)
		return
	}
	s.observeSuccess("cancelOffer", offer.Currency)
	s.metrics.OfferClosed("canceled")
	writeResult(w, req.ID, offerToJSON(offer))
}

func (s *Server) handleAcceptNFTOffer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params offerActorParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	caller, err := types.ParseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.settlement.AcceptNFTOffer(caller, params.ID); err != nil {
		s.writeEngineError(w, req, "acceptNFTOffer", err)
		return
	}
	offer, err := s.engine.Get(params.ID)
	if err != nil {
		s.writeEngineError(w, req, "acceptNFTOffer", err)
		return
	}
	s.observeSuccess("acceptNFTOffer", offer.Currency)
	s.metrics.OfferClosed("accepted")
	writeResult(w, req.ID, offerToJSON(offer))
}

func (s *Server) handleAcceptCollectionOffer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params acceptCollectionParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	caller, err := types.ParseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.settlement.AcceptCollectionOffer(caller, params.ID, params.TokenID); err != nil {
		s.writeEngineError(w, req, "acceptCollectionOffer", err)
		return
	}
	offer, err := s.engine.Get(params.ID)
	if err != nil {
		s.writeEngineError(w, req, "acceptCollectionOffer", err)
		return
	}
	s.observeSuccess("acceptCollectionOffer", offer.Currency)
	s.metrics.OfferClosed("accepted")
	writeResult(w, req.ID, offerToJSON(offer))
}

func (s *Server) handleGetOffer(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params offerIDParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	offer, err := s.engine.Get(params.ID)
	if err != nil {
		s.writeEngineError(w, req, "getOffer", err)
		return
	}
	writeResult(w, req.ID, offerToJSON(offer))
}

func (s *Server) handleEscrowBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params escrowBalanceParams
	if !s.decodeParams(w, req, &params) {
		return
	}
	balance, err := s.engine.EscrowBalance(params.Currency)
	if err != nil {
		s.writeEngineError(w, req, "escrowBalance", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"currency": strings.ToUpper(strings.TrimSpace(params.Currency)), "balance": balance.String()})
}
