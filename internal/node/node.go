// Package node provides a reusable planetforge node that can be embedded
// in any binary (daemon, test harness, etc.).
package node

import (
	"fmt"
	"os"

	"github.com/astralis-games/planetforge/config"
	"github.com/astralis-games/planetforge/internal/archive"
	"github.com/astralis-games/planetforge/internal/forge"
	"github.com/astralis-games/planetforge/internal/ledger"
	klog "github.com/astralis-games/planetforge/internal/log"
	"github.com/astralis-games/planetforge/internal/registry"
	"github.com/astralis-games/planetforge/internal/rpc"
	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized planetforge node.
type Node struct {
	cfg    *config.Config
	params *config.Params
	logger zerolog.Logger

	// Core
	db       storage.DB
	forge    *forge.Service
	ledger   *ledger.Ledger
	registry *registry.Registry
	archive  *archive.Archive

	// RPC
	rpcServer *rpc.Server
}

// New creates and initializes a new Node. It performs all setup steps
// (logger, storage, forge, ledger, registry, archive, RPC) but does NOT
// start the RPC listener. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Init logger ──────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = logsDir + "/planetforge.log"
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	// ── 2. Protocol parameters ──────────────────────────────────────
	params := config.ParamsFor(cfg.Network)

	logger.Info().
		Str("network", string(cfg.Network)).
		Str("forge_program", params.ForgeProgram.String()).
		Msg("Starting Planetforge Node")

	// ── 3. Open storage ─────────────────────────────────────────────
	var db storage.DB
	switch cfg.Storage.Backend {
	case "memory":
		db = storage.NewMemory()
		logger.Info().Msg("Using in-memory storage")
	default:
		bdb, err := storage.NewBadger(cfg.LedgerDir())
		if err != nil {
			return nil, fmt.Errorf("open database at %s: %w", cfg.LedgerDir(), err)
		}
		db = bdb
		logger.Info().Str("path", cfg.LedgerDir()).Msg("Database opened")
	}

	// ── 4. Forge and read-side services ─────────────────────────────
	// The forge runs over a staging host so an issuance commits all of
	// its writes or none of them. Read-side services run over the base
	// database directly; each store keeps its keys in its own
	// namespace, so they can share it.
	forgeSvc := forge.New(forge.NewStorageHost(db), params.ForgeProgram)
	led := ledger.New(db, params.ForgeProgram)
	reg := registry.New(db, led, params.ForgeProgram)

	// ── 5. Archive ──────────────────────────────────────────────────
	var arc *archive.Archive
	if cfg.Archive.Enabled {
		arc = archive.New(db)
		logger.Info().
			Str("metadata_base", cfg.Archive.MetadataBaseURL).
			Msg("Planet archive enabled")
	} else {
		logger.Info().Msg("Planet archive disabled by config")
	}

	// ── 6. RPC server ───────────────────────────────────────────────
	var rpcServer *rpc.Server
	if cfg.RPC.Enabled {
		rpcAddr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		rpcServer = rpc.New(rpcAddr, forgeSvc, led, reg, arc, params,
			cfg.Archive.MetadataBaseURL, cfg.RPC)
	} else {
		logger.Warn().Msg("RPC disabled by config; node is only reachable in-process")
	}

	return &Node{
		cfg:       cfg,
		params:    params,
		logger:    logger,
		db:        db,
		forge:     forgeSvc,
		ledger:    led,
		registry:  reg,
		archive:   arc,
		rpcServer: rpcServer,
	}, nil
}

// Start brings up the RPC listener.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return fmt.Errorf("start RPC: %w", err)
		}
		n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server started")
	}

	n.logger.Info().
		Str("network", string(n.cfg.Network)).
		Bool("archive", n.archive != nil).
		Msg("Node started successfully")

	return nil
}

// Stop performs graceful shutdown in reverse order.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Forge returns the issuance service for in-process callers.
func (n *Node) Forge() *forge.Service {
	return n.forge
}

// Ledger returns the read-side token ledger.
func (n *Node) Ledger() *ledger.Ledger {
	return n.ledger
}

// Registry returns the read-side metadata registry.
func (n *Node) Registry() *registry.Registry {
	return n.registry
}

// Archive returns the planet archive, or nil when disabled.
func (n *Node) Archive() *archive.Archive {
	return n.archive
}
