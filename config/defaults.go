package config

// DefaultMainnet returns the default node configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Engine: EngineBadger,
		},
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       7341,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Faucet: FaucetConfig{
			Enabled: false,
			Amount:  "10",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultTestnet returns the default node configuration for testnet.
// The faucet is on so wallets can fund themselves.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.Port = 7441
	cfg.Faucet.Enabled = true
	return cfg
}

// Default returns the default node configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
