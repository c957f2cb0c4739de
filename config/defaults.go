package config

// DefaultMainnet returns the default node configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Backend: "badger",
		},
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8899,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Archive: ArchiveConfig{
			Enabled:         true,
			MetadataBaseURL: "https://assets.astralis.games/planetforge",
		},
		Wallet: WalletConfig{
			Enabled: false,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultDevnet returns the default node configuration for devnet.
func DefaultDevnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Devnet
	cfg.RPC.Port = 8999
	cfg.Archive.MetadataBaseURL = "https://assets.astralis.games/planetforge-dev"
	return cfg
}

// Default returns the default node configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Devnet:
		return DefaultDevnet()
	default:
		return DefaultMainnet()
	}
}
