// Package rpcclient implements the client side of the planetforge
// JSON-RPC API: typed calls for the forge, ledger, registry, and
// archive endpoints served by forged.
package rpcclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/astralis-games/planetforge/internal/archive"
	"github.com/astralis-games/planetforge/internal/forge"
	"github.com/astralis-games/planetforge/internal/ledger"
	"github.com/astralis-games/planetforge/internal/registry"
	"github.com/astralis-games/planetforge/internal/rpc"
)

// Client talks to one forged node.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Uint64
}

// New creates a client targeting the given endpoint URL.
func New(endpoint string) *Client {
	return NewWithTimeout(endpoint, 10*time.Second)
}

// NewWithTimeout creates a client with a custom HTTP timeout.
func NewWithTimeout(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// RPCError is the error object a forged node returns for a failed
// call. Code carries the server's JSON-RPC error code; the helper
// predicates below match the planetforge-specific codes.
type RPCError struct {
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is the node's not-found error
// (missing mint, holding, metadata, or archive record).
func IsNotFound(err error) bool { return hasCode(err, rpc.CodeNotFound) }

// IsUnauthorized reports whether err is the node's authorization
// error (derivation proof rejected).
func IsUnauthorized(err error) bool { return hasCode(err, rpc.CodeUnauthorized) }

// IsConflict reports whether err is the node's conflict error (planet
// already minted, archive record already marked).
func IsConflict(err error) bool { return hasCode(err, rpc.CodeConflict) }

func hasCode(err error, code int) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      uint64      `json:"id"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *errorObject    `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

type errorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Call invokes a JSON-RPC method and unmarshals the result into the
// provided pointer. If result is nil, the response result is
// discarded. The typed methods below cover every forged endpoint;
// Call remains exported for methods this client has no wrapper for.
func (c *Client) Call(method string, params, result interface{}) error {
	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.http.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		// The node rejects filtered callers with a plain-text HTTP
		// error; surface the status instead of a decode failure.
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("http status %s: %s", resp.Status, bytes.TrimSpace(data))
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
			Data:    rpcResp.Error.Data,
		}
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}

	return nil
}

// ── Node ────────────────────────────────────────────────────────────────

// NodeInfo returns the node's network, version, and program addresses.
func (c *Client) NodeInfo() (*rpc.NodeInfoResult, error) {
	var info rpc.NodeInfoResult
	if err := c.Call("node_getInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ── Forge ───────────────────────────────────────────────────────────────

// Derive returns the addresses the forge would derive for a planet.
// Owner is optional; when set the result includes the owner's holding
// address.
func (c *Client) Derive(planetID, owner string) (*rpc.ForgeDeriveResult, error) {
	var result rpc.ForgeDeriveResult
	err := c.Call("forge_derive", rpc.ForgeDeriveParam{PlanetID: planetID, Owner: owner}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Mint invokes forge_mint and returns the issuance receipt.
func (c *Client) Mint(params rpc.ForgeMintParam) (*forge.Receipt, error) {
	var receipt forge.Receipt
	if err := c.Call("forge_mint", params, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ── Ledger ──────────────────────────────────────────────────────────────

// GetMint returns the mint account at a base58 address.
func (c *Client) GetMint(address string) (*ledger.Mint, error) {
	var mint ledger.Mint
	if err := c.Call("ledger_getMint", rpc.AddressParam{Address: address}, &mint); err != nil {
		return nil, err
	}
	return &mint, nil
}

// GetHolding returns the holding account at a base58 address.
func (c *Client) GetHolding(address string) (*ledger.Holding, error) {
	var holding ledger.Holding
	if err := c.Call("ledger_getHolding", rpc.AddressParam{Address: address}, &holding); err != nil {
		return nil, err
	}
	return &holding, nil
}

// HoldingsByOwner returns all holding accounts of one owner.
func (c *Client) HoldingsByOwner(owner string) (*rpc.HoldingListResult, error) {
	var list rpc.HoldingListResult
	if err := c.Call("ledger_getHoldingsByOwner", rpc.OwnerParam{Owner: owner}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ── Registry ────────────────────────────────────────────────────────────

// GetMetadata returns a metadata record by account address or by mint.
func (c *Client) GetMetadata(params rpc.MetadataParam) (*registry.Metadata, error) {
	var meta registry.Metadata
	if err := c.Call("registry_getMetadata", params, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ── Archive ─────────────────────────────────────────────────────────────

// EarnPlanet records an earned planet for a player.
func (c *Client) EarnPlanet(params rpc.ArchiveEarnParam) (*archive.Record, error) {
	var rec archive.Record
	if err := c.Call("archive_earn", params, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetPlanet returns the archive record for a player's planet.
func (c *Client) GetPlanet(player, planetID string) (*archive.Record, error) {
	var rec archive.Record
	err := c.Call("archive_get", rpc.ArchiveGetParam{Player: player, PlanetID: planetID}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListEarned returns all of a player's earned planets, newest first.
func (c *Client) ListEarned(player string) (*rpc.ArchiveListResult, error) {
	return c.listPlanets("archive_listEarned", player)
}

// ListUnminted returns the player's planets not yet minted, newest
// first.
func (c *Client) ListUnminted(player string) (*rpc.ArchiveListResult, error) {
	return c.listPlanets("archive_listUnminted", player)
}

func (c *Client) listPlanets(method, player string) (*rpc.ArchiveListResult, error) {
	var list rpc.ArchiveListResult
	if err := c.Call(method, rpc.ArchivePlayerParam{Player: player}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// MarkMinted stores a mint outcome on a player's archive record.
func (c *Client) MarkMinted(params rpc.ArchiveMarkMintedParam) (*archive.Record, error) {
	var rec archive.Record
	if err := c.Call("archive_markMinted", params, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UploadMetadata publishes the metadata document for a player's planet
// and returns the URI it is served at.
func (c *Client) UploadMetadata(player, planetID string) (*rpc.ArchiveUploadResult, error) {
	var result rpc.ArchiveUploadResult
	err := c.Call("archive_uploadMetadata", rpc.ArchiveGetParam{Player: player, PlanetID: planetID}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
