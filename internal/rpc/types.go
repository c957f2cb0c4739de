package rpc

import (
	"github.com/astralis-games/planetforge/internal/archive"
	"github.com/astralis-games/planetforge/internal/ledger"
	"github.com/astralis-games/planetforge/pkg/types"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeUnauthorized   = -32001
	CodeConflict       = -32002
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Forge param/result types ────────────────────────────────────────────

// ForgeMintParam is used by forge_mint. Owner and MetadataAccount are
// base58 addresses; the metadata account is constructed client-side and
// re-verified by the forge.
type ForgeMintParam struct {
	PlanetID        string `json:"planet_id"`
	Name            string `json:"name"`
	URI             string `json:"uri"`
	Owner           string `json:"owner"`
	MetadataAccount string `json:"metadata_account"`
}

// ForgeDeriveParam is used by forge_derive.
type ForgeDeriveParam struct {
	PlanetID string `json:"planet_id"`
	Owner    string `json:"owner,omitempty"` // Optional: include holding derivation.
}

// ForgeDeriveResult is returned by forge_derive.
type ForgeDeriveResult struct {
	PlanetID      string `json:"planet_id"`
	Mint          string `json:"mint"`
	MintBump      uint8  `json:"mint_bump"`
	Authority     string `json:"authority"`
	AuthorityBump uint8  `json:"authority_bump"`
	Metadata      string `json:"metadata"`
	MetadataBump  uint8  `json:"metadata_bump"`
	Holding       string `json:"holding,omitempty"`
}

// ── Ledger param/result types ───────────────────────────────────────────

// AddressParam is used by endpoints that take a single base58 address.
type AddressParam struct {
	Address string `json:"address"`
}

// OwnerParam is used by ledger_getHoldingsByOwner.
type OwnerParam struct {
	Owner string `json:"owner"`
}

// HoldingListResult is returned by ledger_getHoldingsByOwner.
type HoldingListResult struct {
	Owner    string           `json:"owner"`
	Count    int              `json:"count"`
	Holdings []ledger.Holding `json:"holdings"`
}

// ── Registry param types ────────────────────────────────────────────────

// MetadataParam is used by registry_getMetadata. Exactly one of Address
// or Mint must be set.
type MetadataParam struct {
	Address string `json:"address,omitempty"`
	Mint    string `json:"mint,omitempty"`
}

// ── Archive param/result types ──────────────────────────────────────────

// ArchiveEarnParam is used by archive_earn.
type ArchiveEarnParam struct {
	Player     string         `json:"player"`
	PlanetID   string         `json:"planet_id"`
	PlanetName string         `json:"planet_name"`
	Traits     archive.Traits `json:"traits"`
}

// ArchivePlayerParam is used by archive_listEarned and
// archive_listUnminted.
type ArchivePlayerParam struct {
	Player string `json:"player"`
}

// ArchiveGetParam is used by archive_get and archive_uploadMetadata.
type ArchiveGetParam struct {
	Player   string `json:"player"`
	PlanetID string `json:"planet_id"`
}

// ArchiveListResult is returned by archive_listEarned and
// archive_listUnminted.
type ArchiveListResult struct {
	Player  string           `json:"player"`
	Count   int              `json:"count"`
	Records []archive.Record `json:"records"`
}

// ArchiveMarkMintedParam is used by archive_markMinted.
type ArchiveMarkMintedParam struct {
	Player      string `json:"player"`
	PlanetID    string `json:"planet_id"`
	Mint        string `json:"mint"`
	Signature   string `json:"signature"`
	MetadataURI string `json:"metadata_uri"`
}

// ArchiveUploadResult is returned by archive_uploadMetadata.
type ArchiveUploadResult struct {
	PlanetID string `json:"planet_id"`
	URI      string `json:"uri"`
}

// ── Node result types ───────────────────────────────────────────────────

// NodeInfoResult is returned by node_getInfo.
type NodeInfoResult struct {
	Network         string `json:"network"`
	Version         string `json:"version"`
	ForgeProgram    string `json:"forge_program"`
	TokenProgram    string `json:"token_program"`
	MetadataProgram string `json:"metadata_program"`
	TokenSymbol     string `json:"token_symbol"`
	ArchiveEnabled  bool   `json:"archive_enabled"`
}

// parseAddress decodes a required base58 address parameter.
func parseAddress(field, value string) (types.Address, *Error) {
	if value == "" {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: field + " is required"}
	}
	addr, err := types.ParseAddress(value)
	if err != nil {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: "invalid " + field + ": " + err.Error()}
	}
	return addr, nil
}
