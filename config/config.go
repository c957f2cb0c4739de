// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Protocol parameters: program addresses and issuance rules, fixed
//     per network (see Params)
//   - Node settings: runtime configuration, can vary per node
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or devnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Devnet  NetworkType = "devnet"
)

// TokenSymbol is the ticker carried by every planet token.
const TokenSymbol = "PLANET"

// MintAmount is the number of units issued per planet. Planet tokens
// are unique: exactly one unit ever exists per mint.
const MintAmount uint64 = 1

// =============================================================================
// Node Configuration (runtime, per-node settings)
// =============================================================================

// Config holds node-specific runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Storage backend
	Storage StorageConfig

	// RPC server
	RPC RPCConfig

	// Archive (earned-planet bookkeeping and metadata documents)
	Archive ArchiveConfig

	// Wallet
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Backend string `conf:"storage.backend"` // badger or memory
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// ArchiveConfig holds archive settings.
type ArchiveConfig struct {
	Enabled         bool   `conf:"archive.enabled"`
	MetadataBaseURL string `conf:"archive.metadata_base"`
}

// WalletConfig holds wallet settings.
type WalletConfig struct {
	Enabled  bool   `conf:"wallet.enabled"`
	FilePath string `conf:"wallet.file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.planetforge
//	macOS:   ~/Library/Application Support/Planetforge
//	Windows: %APPDATA%\Planetforge
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planetforge"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Planetforge")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Planetforge")
		}
		return filepath.Join(home, "AppData", "Roaming", "Planetforge")
	default:
		return filepath.Join(home, ".planetforge")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// LedgerDir returns the ledger database directory.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.NetworkDataDir(), "ledger")
}

// WalletDir returns the wallet storage directory.
func (c *Config) WalletDir() string {
	return filepath.Join(c.NetworkDataDir(), "wallet")
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "planetforge.conf")
}
