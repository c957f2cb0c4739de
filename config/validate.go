package config

import (
	"fmt"
	"net/url"
)

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Devnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Devnet)
	}
	switch cfg.Storage.Backend {
	case "badger", "memory":
	default:
		return fmt.Errorf("storage.backend must be badger or memory")
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	if cfg.Archive.Enabled {
		if cfg.Archive.MetadataBaseURL == "" {
			return fmt.Errorf("archive.metadata_base must be set when the archive is enabled")
		}
		u, err := url.Parse(cfg.Archive.MetadataBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("archive.metadata_base must be an absolute URL")
		}
	}
	return nil
}
