package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/astralis-games/planetforge/config"
	"github.com/astralis-games/planetforge/internal/archive"
	"github.com/astralis-games/planetforge/internal/forge"
	"github.com/astralis-games/planetforge/internal/ledger"
	"github.com/astralis-games/planetforge/internal/registry"
	"github.com/astralis-games/planetforge/pkg/types"
)

// ── Forge endpoints ─────────────────────────────────────────────────────

func (s *Server) handleForgeMint(ctx context.Context, req *Request) (interface{}, *Error) {
	var params ForgeMintParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	owner, rpcErr := parseAddress("owner", params.Owner)
	if rpcErr != nil {
		return nil, rpcErr
	}
	metaAccount, rpcErr := parseAddress("metadata_account", params.MetadataAccount)
	if rpcErr != nil {
		return nil, rpcErr
	}

	receipt, err := s.forge.Mint(ctx, forge.Request{
		PlanetID:        params.PlanetID,
		Name:            params.Name,
		URI:             params.URI,
		Owner:           owner,
		MetadataAccount: metaAccount,
	})
	if err != nil {
		return nil, forgeError(err)
	}
	return receipt, nil
}

func (s *Server) handleForgeDerive(req *Request) (interface{}, *Error) {
	var params ForgeDeriveParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.PlanetID == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "planet_id is required"}
	}

	program := s.forge.Program()
	mint, mintBump, err := forge.DeriveMint(params.PlanetID, program)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("derive mint: %v", err)}
	}
	authority, authBump, err := forge.DeriveAuthority(params.PlanetID, program)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("derive authority: %v", err)}
	}
	meta, metaBump, err := registry.DeriveMetadataAddress(mint)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("derive metadata: %v", err)}
	}

	result := &ForgeDeriveResult{
		PlanetID:      params.PlanetID,
		Mint:          mint.String(),
		MintBump:      mintBump,
		Authority:     authority.String(),
		AuthorityBump: authBump,
		Metadata:      meta.String(),
		MetadataBump:  metaBump,
	}

	if params.Owner != "" {
		owner, rpcErr := parseAddress("owner", params.Owner)
		if rpcErr != nil {
			return nil, rpcErr
		}
		holding, _, err := ledger.DeriveHoldingAddress(owner, mint)
		if err != nil {
			return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("derive holding: %v", err)}
		}
		result.Holding = holding.String()
	}

	return result, nil
}

// forgeError maps forge taxonomy errors onto JSON-RPC error codes. The
// full error chain travels in the message, untranslated.
func forgeError(err error) *Error {
	code := CodeInternalError
	switch {
	case errors.Is(err, forge.ErrInvalidRequest) || errors.Is(err, forge.ErrInvalidMetadataAccount):
		code = CodeInvalidParams
	case errors.Is(err, forge.ErrAuthorization):
		code = CodeUnauthorized
	case errors.Is(err, forge.ErrIssuance):
		code = CodeConflict
	}
	return &Error{Code: code, Message: err.Error()}
}

// ── Ledger endpoints ────────────────────────────────────────────────────

func (s *Server) handleLedgerGetMint(req *Request) (interface{}, *Error) {
	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	addr, rpcErr := parseAddress("address", params.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}

	m, err := s.ledger.GetMint(addr)
	if err != nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("mint not found: %v", err)}
	}
	return m, nil
}

func (s *Server) handleLedgerGetHolding(req *Request) (interface{}, *Error) {
	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	addr, rpcErr := parseAddress("address", params.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}

	h, err := s.ledger.GetHolding(addr)
	if err != nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("holding account not found: %v", err)}
	}
	return h, nil
}

func (s *Server) handleLedgerGetHoldingsByOwner(req *Request) (interface{}, *Error) {
	var params OwnerParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	owner, rpcErr := parseAddress("owner", params.Owner)
	if rpcErr != nil {
		return nil, rpcErr
	}

	holdings, err := s.ledger.HoldingsByOwner(owner)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &HoldingListResult{
		Owner:    owner.String(),
		Count:    len(holdings),
		Holdings: holdings,
	}, nil
}

// ── Registry endpoints ──────────────────────────────────────────────────

func (s *Server) handleRegistryGetMetadata(req *Request) (interface{}, *Error) {
	var params MetadataParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	var (
		meta *registry.Metadata
		err  error
	)
	switch {
	case params.Address != "":
		addr, rpcErr := parseAddress("address", params.Address)
		if rpcErr != nil {
			return nil, rpcErr
		}
		meta, err = s.registry.Get(addr)
	case params.Mint != "":
		mint, rpcErr := parseAddress("mint", params.Mint)
		if rpcErr != nil {
			return nil, rpcErr
		}
		meta, err = s.registry.GetByMint(mint)
	default:
		return nil, &Error{Code: CodeInvalidParams, Message: "address or mint is required"}
	}
	if err != nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("metadata not found: %v", err)}
	}
	return meta, nil
}

// ── Archive endpoints ───────────────────────────────────────────────────

// requireArchive rejects archive requests when the archive is disabled.
func (s *Server) requireArchive() *Error {
	if s.archive == nil {
		return &Error{Code: CodeNotFound, Message: "archive not enabled"}
	}
	return nil
}

func (s *Server) handleArchiveEarn(req *Request) (interface{}, *Error) {
	if rpcErr := s.requireArchive(); rpcErr != nil {
		return nil, rpcErr
	}
	var params ArchiveEarnParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	rec, err := s.archive.Earn(params.Player, params.PlanetID, params.PlanetName, params.Traits)
	if err != nil {
		if errors.Is(err, archive.ErrEmptyField) {
			return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
		}
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return rec, nil
}

func (s *Server) handleArchiveGet(req *Request) (interface{}, *Error) {
	if rpcErr := s.requireArchive(); rpcErr != nil {
		return nil, rpcErr
	}
	var params ArchiveGetParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	rec, err := s.archive.Get(params.Player, params.PlanetID)
	if err != nil {
		return nil, &Error{Code: CodeNotFound, Message: err.Error()}
	}
	return rec, nil
}

func (s *Server) handleArchiveListEarned(req *Request) (interface{}, *Error) {
	return s.handleArchiveList(req, false)
}

func (s *Server) handleArchiveListUnminted(req *Request) (interface{}, *Error) {
	return s.handleArchiveList(req, true)
}

func (s *Server) handleArchiveList(req *Request, unmintedOnly bool) (interface{}, *Error) {
	if rpcErr := s.requireArchive(); rpcErr != nil {
		return nil, rpcErr
	}
	var params ArchivePlayerParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Player == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "player is required"}
	}

	var (
		records []archive.Record
		err     error
	)
	if unmintedOnly {
		records, err = s.archive.ListUnminted(params.Player)
	} else {
		records, err = s.archive.ListEarned(params.Player)
	}
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &ArchiveListResult{
		Player:  params.Player,
		Count:   len(records),
		Records: records,
	}, nil
}

func (s *Server) handleArchiveMarkMinted(req *Request) (interface{}, *Error) {
	if rpcErr := s.requireArchive(); rpcErr != nil {
		return nil, rpcErr
	}
	var params ArchiveMarkMintedParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	mint, rpcErr := parseAddress("mint", params.Mint)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var sig types.Digest
	if params.Signature != "" {
		parsed, err := types.ParseDigest(params.Signature)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid signature: %v", err)}
		}
		sig = parsed
	}

	rec, err := s.archive.MarkMinted(params.Player, params.PlanetID, mint, sig, params.MetadataURI)
	if err != nil {
		switch {
		case errors.Is(err, archive.ErrRecordNotFound):
			return nil, &Error{Code: CodeNotFound, Message: err.Error()}
		case errors.Is(err, archive.ErrAlreadyMinted):
			return nil, &Error{Code: CodeConflict, Message: err.Error()}
		}
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return rec, nil
}

func (s *Server) handleArchiveUploadMetadata(req *Request) (interface{}, *Error) {
	if rpcErr := s.requireArchive(); rpcErr != nil {
		return nil, rpcErr
	}
	var params ArchiveGetParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	uri, err := s.archive.UploadMetadata(params.Player, params.PlanetID, s.metadataBase)
	if err != nil {
		if errors.Is(err, archive.ErrRecordNotFound) {
			return nil, &Error{Code: CodeNotFound, Message: err.Error()}
		}
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &ArchiveUploadResult{PlanetID: params.PlanetID, URI: uri}, nil
}

// ── Node endpoints ──────────────────────────────────────────────────────

func (s *Server) handleNodeGetInfo(req *Request) (interface{}, *Error) {
	return &NodeInfoResult{
		Network:         string(s.params.Network),
		Version:         Version,
		ForgeProgram:    s.params.ForgeProgram.String(),
		TokenProgram:    s.params.TokenProgram.String(),
		MetadataProgram: s.params.MetadataProgram.String(),
		TokenSymbol:     config.TokenSymbol,
		ArchiveEnabled:  s.archive != nil,
	}, nil
}
