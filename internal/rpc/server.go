// Package rpc implements the JSON-RPC 2.0 API server.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/guelowrd/non-fungible-pixels/config"
	"github.com/guelowrd/non-fungible-pixels/internal/host"
	klog "github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/internal/metrics"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Server is the JSON-RPC 2.0 HTTP server.
type Server struct {
	addr         string
	runtime      *host.Runtime
	genesis      *config.Genesis
	metrics      *metrics.Metrics // nil = no /metrics and no RPC counters.
	serveMetrics bool
	faucetAmount *uint256.Int // nil = account_faucet disabled.
	server       *http.Server
	logger       zerolog.Logger
	ln           net.Listener
	allowedNets  []*net.IPNet // Empty = allow all.
	corsOrigins  []string     // Empty = no CORS headers.
}

// New creates a new RPC server. The rpcCfg parameter controls IP filtering,
// CORS and the /metrics endpoint. A zero-value RPCConfig allows all IPs and
// disables CORS.
func New(addr string, rt *host.Runtime, genesis *config.Genesis, rpcCfg ...config.RPCConfig) *Server {
	s := &Server{
		addr:    addr,
		runtime: rt,
		genesis: genesis,
		logger:  klog.WithComponent("rpc"),
	}

	if len(rpcCfg) > 0 {
		s.allowedNets = parseAllowedIPs(rpcCfg[0].AllowedIPs)
		s.corsOrigins = rpcCfg[0].CORSOrigins
		s.serveMetrics = rpcCfg[0].Metrics
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/", s.handleRequest)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
// "*" allows everything.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		if entry == "*" {
			return nil
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err == nil {
			nets = append(nets, ipNet)
			continue
		}
		// Try as a single IP (add /32 or /128).
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// SetMetrics attaches the metrics registry. RPC requests are counted and,
// if the config enabled it, GET /metrics serves the registry.
func (s *Server) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetFaucet enables account_faucet, crediting amount per request.
func (s *Server) SetFaucet(amount *uint256.Int) {
	s.faucetAmount = amount
}

// Start begins listening and serving in a background goroutine.
// It returns immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("rpc listen: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("RPC server error")
		}
	}()

	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// allowRequest applies the IP filter.
func (s *Server) allowRequest(w http.ResponseWriter, r *http.Request) bool {
	if len(s.allowedNets) == 0 {
		return true
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	ip := net.ParseIP(host)
	if ip == nil || !s.isIPAllowed(ip) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.serveMetrics || s.metrics == nil {
		http.NotFound(w, r)
		return
	}
	if !s.allowRequest(w, r) {
		return
	}
	s.metrics.Handler().ServeHTTP(w, r)
}

// handleRequest is the main HTTP handler for JSON-RPC requests.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if !s.allowRequest(w, r) {
		return
	}

	// CORS headers.
	s.setCORSHeaders(w, r)

	// Handle CORS preflight.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, nil, CodeInvalidRequest, "only POST method is allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, nil, CodeParseError, "failed to read request body")
		return
	}
	if len(body) > maxBodySize {
		writeError(w, nil, CodeInvalidRequest, "request body too large")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, nil, CodeParseError, "invalid JSON")
		return
	}

	if req.JSONRPC != "2.0" {
		writeError(w, req.ID, CodeInvalidRequest, "jsonrpc must be \"2.0\"")
		return
	}

	reqID := uuid.New().String()
	start := time.Now()
	result, rpcErr := s.dispatch(&req)
	s.observe(reqID, &req, rpcErr, time.Since(start))

	if rpcErr != nil {
		writeJSON(w, Response{
			JSONRPC: "2.0",
			Error:   rpcErr,
			ID:      req.ID,
		})
		return
	}

	writeJSON(w, Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      req.ID,
	})
}

// observe logs and counts one dispatched request.
func (s *Server) observe(reqID string, req *Request, rpcErr *Error, took time.Duration) {
	method, outcome := req.Method, "ok"
	ev := s.logger.Debug()
	if rpcErr != nil {
		outcome = "error"
		if rpcErr.Code == CodeMethodNotFound {
			method = "unknown"
		}
		if rpcErr.Code == CodeInternalError {
			ev = s.logger.Warn()
		}
		ev = ev.Int("code", rpcErr.Code).Str("error", rpcErr.Message)
	}
	ev.Str("request_id", reqID).Str("method", req.Method).Dur("took", took).Msg("RPC request")

	if s.metrics != nil {
		s.metrics.ObserveRPC(method, outcome, took)
	}
}

// dispatch routes a request to the appropriate handler.
func (s *Server) dispatch(req *Request) (interface{}, *Error) {
	switch req.Method {
	case "ledger_getInfo":
		return s.handleLedgerGetInfo(req)
	case "token_create":
		return s.handleTokenCreate(req)
	case "token_mint":
		return s.handleTokenMint(req)
	case "token_get":
		return s.handleTokenGet(req)
	case "token_getIds":
		return s.handleTokenGetIDs(req)
	case "token_getTotalCreated":
		return s.handleTokenGetTotalCreated(req)
	case "token_getTotal":
		return s.handleTokenGetTotal(req)
	case "token_getName":
		return s.handleTokenGetName(req)
	case "token_getCreator":
		return s.handleTokenGetCreator(req)
	case "token_getMintPrice":
		return s.handleTokenGetMintPrice(req)
	case "token_getMaxEditions":
		return s.handleTokenGetMaxEditions(req)
	case "token_getMintedEditions":
		return s.handleTokenGetMintedEditions(req)
	case "token_getWidth":
		return s.handleTokenGetWidth(req)
	case "token_getHeight":
		return s.handleTokenGetHeight(req)
	case "token_getData":
		return s.handleTokenGetData(req)
	case "token_getEditionIds":
		return s.handleTokenGetEditionIDs(req)
	case "edition_get":
		return s.handleEditionGet(req)
	case "edition_getIds":
		return s.handleEditionGetIDs(req)
	case "edition_getTokenId":
		return s.handleEditionGetTokenID(req)
	case "creator_list":
		return s.handleCreatorList(req)
	case "creator_getTokenIds":
		return s.handleCreatorGetTokenIDs(req)
	case "owner_list":
		return s.handleOwnerList(req)
	case "owner_getEditionIds":
		return s.handleOwnerGetEditionIDs(req)
	case "util_sha256":
		return s.handleUtilSha256(req)
	case "account_getBalance":
		return s.handleAccountGetBalance(req)
	case "account_getNonce":
		return s.handleAccountGetNonce(req)
	case "account_faucet":
		return s.handleAccountFaucet(req)
	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}
	}
}

// writeJSON writes a JSON-RPC response.
func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError writes a JSON-RPC error response.
func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	writeJSON(w, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	})
}

// isIPAllowed checks if the IP is in the allowed networks list.
func (s *Server) isIPAllowed(ip net.IP) bool {
	for _, n := range s.allowedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// setCORSHeaders adds CORS headers based on the configured origins.
func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsOrigins) == 0 {
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}

	allowed := false
	for _, o := range s.corsOrigins {
		if o == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			allowed = true
			break
		}
		if o == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			allowed = true
			break
		}
	}

	if allowed {
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	}
}

// parseParams unmarshals the request params into the given target.
func parseParams(req *Request, target interface{}) *Error {
	if len(req.Params) == 0 || string(req.Params) == "null" {
		return &Error{Code: CodeInvalidParams, Message: "params required"}
	}
	if err := json.Unmarshal(req.Params, target); err != nil {
		return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}
