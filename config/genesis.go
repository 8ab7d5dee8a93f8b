package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
	"github.com/holiman/uint256"
)

// ContractAccount is the default account that holds attached deposits
// and pays creators.
const ContractAccount = "nfp.contract"

// Genesis fixes the ledger identity and the initial balances. It is
// hashed on first start and the hash is checked on every restart.
type Genesis struct {
	LedgerID        string `json:"ledger_id"`
	ContractAccount string `json:"contract_account"`
	// Alloc maps account addresses to display amounts.
	Alloc map[string]string `json:"alloc"`
}

// MainnetGenesis returns the mainnet genesis configuration.
func MainnetGenesis() *Genesis {
	return &Genesis{
		LedgerID:        "nfp-mainnet-1",
		ContractAccount: ContractAccount,
		Alloc:           map[string]string{},
	}
}

// TestnetGenesis returns the testnet genesis configuration. Testnet
// accounts are funded through the faucet.
func TestnetGenesis() *Genesis {
	g := MainnetGenesis()
	g.LedgerID = "nfp-testnet-1"
	return g
}

// GenesisFor returns the genesis config for the given network.
func GenesisFor(network NetworkType) *Genesis {
	switch network {
	case Testnet:
		return TestnetGenesis()
	default:
		return MainnetGenesis()
	}
}

// LoadGenesis loads and validates a genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genesis file: %w", err)
	}
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing genesis file: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	return &g, nil
}

// Save writes the genesis configuration to a file.
func (g *Genesis) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding genesis: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing genesis file: %w", err)
	}
	return nil
}

// Validate checks that the genesis configuration is well formed.
func (g *Genesis) Validate() error {
	if g.LedgerID == "" {
		return fmt.Errorf("ledger_id is required")
	}
	if g.ContractAccount == "" {
		return fmt.Errorf("contract_account is required")
	}
	if _, err := g.Allocations(); err != nil {
		return err
	}
	return nil
}

// Allocations parses the alloc table into atomic amounts.
func (g *Genesis) Allocations() (map[string]*uint256.Int, error) {
	out := make(map[string]*uint256.Int, len(g.Alloc))
	total := new(uint256.Int)
	for addr, amount := range g.Alloc {
		if _, err := types.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("invalid alloc address %q: %w", addr, err)
		}
		v, err := currency.DisplayToAtomic(amount)
		if err != nil {
			return nil, fmt.Errorf("alloc %s: %w", addr, err)
		}
		if _, overflow := total.AddOverflow(total, v); overflow {
			return nil, fmt.Errorf("genesis allocations overflow")
		}
		out[addr] = v
	}
	return out, nil
}

// Hash returns a BLAKE3 hash of the genesis configuration.
// encoding/json sorts map keys, so the encoding is canonical.
func (g *Genesis) Hash() (types.Hash, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return types.Hash{}, err
	}
	return crypto.Hash(data), nil
}
