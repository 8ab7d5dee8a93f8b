// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Genesis: ledger identity and initial balances, fixed at first start
//   - Node settings: runtime configuration, can change between restarts
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Storage engines.
const (
	EngineBadger = "badger"
	EngineMemory = "memory"
)

// =============================================================================
// Node Configuration (runtime, per-node settings)
// =============================================================================

// Config holds node-specific runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`
	// Genesis is an optional path to a custom genesis file.
	Genesis string `conf:"genesis"`

	Storage StorageConfig
	RPC     RPCConfig
	Faucet  FaucetConfig
	Log     LogConfig
}

// StorageConfig selects the database backend.
type StorageConfig struct {
	Engine string `conf:"storage.engine"` // badger or memory
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
	Metrics     bool     `conf:"rpc.metrics"`
}

// FaucetConfig controls the account_faucet RPC method.
type FaucetConfig struct {
	Enabled bool   `conf:"faucet.enabled"`
	Amount  string `conf:"faucet.amount"` // display units per request
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
//	Linux:   ~/.nfp
//	macOS:   ~/Library/Application Support/NFP
//	Windows: %APPDATA%\NFP
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nfp"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "NFP")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "NFP")
		}
		return filepath.Join(home, "AppData", "Roaming", "NFP")
	default:
		return filepath.Join(home, ".nfp")
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
	return filepath.Join(c.DataDir, "nfp.conf")
}
