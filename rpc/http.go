package rpc

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"mintmarket/native/market"
	"mintmarket/observability/metrics"
)

const jsonRPCVersion = "2.0"

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
)

// Server exposes the offer lifecycle over a single JSON-RPC endpoint.
type Server struct {
	engine     *market.Engine
	settlement *market.Settlement
	metrics    *metrics.MarketMetrics
	logger     *slog.Logger
	authToken  string
}

func NewServer(engine *market.Engine, settlement *market.Settlement, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:     engine,
		settlement: settlement,
		metrics:    metrics.Market(),
		logger:     logger,
		authToken:  strings.TrimSpace(os.Getenv("MARKET_RPC_TOKEN")),
	}
}

// Start serves the RPC endpoint on addr and blocks.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting JSON-RPC server", "addr", addr)
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return http.ListenAndServe(addr, mux)
}

// Handler returns the HTTP handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return mux
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func jsonUnmarshalStrict(raw json.RawMessage, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "Bearer "+s.authToken {
		return nil
	}
	return &RPCError{Code: codeUnauthorized, Message: "unauthorized"}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, nil, codeInvalidRequest, "POST required", nil)
		return
	}
	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch req.Method {
	case "market_createNFTOffer":
		s.handleCreateNFTOffer(w, r, &req)
	case "market_createCollectionOffer":
		s.handleCreateCollectionOffer(w, r, &req)
	case "market_updatePrice":
		s.handleUpdatePrice(w, r, &req)
	case "market_cancelOffer":
		s.handleCancelOffer(w, r, &req)
	case "market_acceptNFTOffer":
		s.handleAcceptNFTOffer(w, r, &req)
	case "market_acceptCollectionOffer":
		s.handleAcceptCollectionOffer(w, r, &req)
	case "market_getOffer":
		s.handleGetOffer(w, r, &req)
	case "market_escrowBalance":
		s.handleEscrowBalance(w, r, &req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", req.Method)
	}
}
