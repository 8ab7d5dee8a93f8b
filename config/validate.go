package config

import (
	"fmt"
	"net"

	"github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
)

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	switch cfg.Storage.Engine {
	case EngineBadger, EngineMemory:
	default:
		return fmt.Errorf("storage.engine must be %q or %q", EngineBadger, EngineMemory)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	for i, ip := range cfg.RPC.AllowedIPs {
		if ip == "*" {
			continue
		}
		if net.ParseIP(ip) == nil {
			if _, _, err := net.ParseCIDR(ip); err != nil {
				return fmt.Errorf("rpc.allowed[%d] %q is not an IP or CIDR", i, ip)
			}
		}
	}
	if cfg.Faucet.Enabled {
		amount, err := currency.DisplayToAtomic(cfg.Faucet.Amount)
		if err != nil {
			return fmt.Errorf("faucet.amount: %w", err)
		}
		if amount.IsZero() {
			return fmt.Errorf("faucet.amount must be positive")
		}
	}
	if cfg.Log.Level != "" && !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error, off", cfg.Log.Level)
	}
	return nil
}
