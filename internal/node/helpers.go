package node

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guelowrd/non-fungible-pixels/config"
	"github.com/guelowrd/non-fungible-pixels/internal/storage"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/holiman/uint256"
)

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// loadGenesis returns the custom genesis file if one is configured, the
// built-in genesis of the network otherwise.
func loadGenesis(cfg *config.Config) (*config.Genesis, error) {
	if cfg.Genesis == "" {
		return config.GenesisFor(cfg.Network), nil
	}
	path := expandHome(cfg.Genesis)
	g, err := config.LoadGenesis(path)
	if err != nil {
		return nil, fmt.Errorf("load genesis %s: %w", path, err)
	}
	return g, nil
}

// openStorage opens the configured database engine.
func openStorage(cfg *config.Config) (storage.DB, error) {
	switch cfg.Storage.Engine {
	case config.EngineMemory:
		return storage.NewMemory(), nil
	case config.EngineBadger, "":
		db, err := storage.NewBadger(cfg.LedgerDir())
		if err != nil {
			return nil, fmt.Errorf("open database at %s: %w", cfg.LedgerDir(), err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported storage engine: %s", cfg.Storage.Engine)
	}
}

// faucetAmount parses the per-request faucet credit.
func faucetAmount(cfg *config.Config) (*uint256.Int, error) {
	amount, err := currency.DisplayToAtomic(cfg.Faucet.Amount)
	if err != nil {
		return nil, fmt.Errorf("faucet amount %q: %w", cfg.Faucet.Amount, err)
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("faucet amount must be positive")
	}
	return amount, nil
}
