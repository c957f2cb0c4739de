// Package rpc implements the JSON-RPC 2.0 API server.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/astralis-games/planetforge/config"
	"github.com/astralis-games/planetforge/internal/archive"
	"github.com/astralis-games/planetforge/internal/forge"
	"github.com/astralis-games/planetforge/internal/ledger"
	klog "github.com/astralis-games/planetforge/internal/log"
	"github.com/astralis-games/planetforge/internal/registry"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Version is reported by node_getInfo.
const Version = "0.1.0"

// Server is the JSON-RPC 2.0 HTTP server.
type Server struct {
	addr         string
	forge        *forge.Service
	ledger       *ledger.Ledger
	registry     *registry.Registry
	archive      *archive.Archive // nil = archive disabled.
	params       *config.Params
	metadataBase string
	server       *http.Server
	logger       zerolog.Logger
	ln           net.Listener
	allowedNets  []*net.IPNet // Empty = allow all.
	corsOrigins  []string     // Empty = no CORS headers.
}

// New creates a new RPC server over the node's services. The archive
// may be nil, which disables the archive_* methods and the metadata
// document route. The rpcCfg parameter controls IP filtering and CORS;
// a zero-value RPCConfig allows all IPs and disables CORS.
func New(addr string, f *forge.Service, led *ledger.Ledger, reg *registry.Registry,
	arc *archive.Archive, params *config.Params, metadataBase string, rpcCfg ...config.RPCConfig) *Server {

	s := &Server{
		addr:         addr,
		forge:        f,
		ledger:       led,
		registry:     reg,
		archive:      arc,
		params:       params,
		metadataBase: metadataBase,
		logger:       klog.WithComponent("rpc"),
	}

	if len(rpcCfg) > 0 {
		s.allowedNets = parseAllowedIPs(rpcCfg[0].AllowedIPs)
		s.corsOrigins = rpcCfg[0].CORSOrigins
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)
	mux.HandleFunc("/metadata/", s.handleMetadataDocument)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
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

// handleRequest is the main HTTP handler for JSON-RPC requests.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if !s.checkClientIP(w, r) {
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

	result, rpcErr := s.dispatch(r.Context(), &req)
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

// handleMetadataDocument serves stored metadata documents at
// GET /metadata/<planet-id>.json.
func (s *Server) handleMetadataDocument(w http.ResponseWriter, r *http.Request) {
	if !s.checkClientIP(w, r) {
		return
	}
	s.setCORSHeaders(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "only GET method is allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.archive == nil {
		http.Error(w, "archive disabled", http.StatusNotFound)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/metadata/")
	planetID, ok := strings.CutSuffix(name, ".json")
	if !ok || planetID == "" || strings.Contains(planetID, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	data, err := s.archive.Descriptor(planetID)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// dispatch routes a request to the appropriate handler.
func (s *Server) dispatch(ctx context.Context, req *Request) (interface{}, *Error) {
	switch req.Method {
	case "forge_mint":
		return s.handleForgeMint(ctx, req)
	case "forge_derive":
		return s.handleForgeDerive(req)
	case "ledger_getMint":
		return s.handleLedgerGetMint(req)
	case "ledger_getHolding":
		return s.handleLedgerGetHolding(req)
	case "ledger_getHoldingsByOwner":
		return s.handleLedgerGetHoldingsByOwner(req)
	case "registry_getMetadata":
		return s.handleRegistryGetMetadata(req)
	case "archive_earn":
		return s.handleArchiveEarn(req)
	case "archive_get":
		return s.handleArchiveGet(req)
	case "archive_listEarned":
		return s.handleArchiveListEarned(req)
	case "archive_listUnminted":
		return s.handleArchiveListUnminted(req)
	case "archive_markMinted":
		return s.handleArchiveMarkMinted(req)
	case "archive_uploadMetadata":
		return s.handleArchiveUploadMetadata(req)
	case "node_getInfo":
		return s.handleNodeGetInfo(req)
	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}
	}
}

// checkClientIP enforces the allowed-IP list. It writes the error
// response itself and reports whether the request may proceed.
func (s *Server) checkClientIP(w http.ResponseWriter, r *http.Request) bool {
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

	// Check if origin is allowed.
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
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	}
}

// parseParams unmarshals the request params into the given target.
func parseParams(req *Request, target interface{}) *Error {
	if req.Params == nil {
		return &Error{Code: CodeInvalidParams, Message: "params required"}
	}

	data, err := json.Marshal(req.Params)
	if err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params"}
	}

	if err := json.Unmarshal(data, target); err != nil {
		return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}
