package node

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/guelowrd/non-fungible-pixels/config"
	"github.com/guelowrd/non-fungible-pixels/internal/host"
	"github.com/guelowrd/non-fungible-pixels/internal/rpcclient"
	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct {
		input, want string
	}{
		{"~/foo/bar", filepath.Join(home, "foo/bar")},
		{"~/.nfp/genesis.json", filepath.Join(home, ".nfp/genesis.json")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestOpenStorage(t *testing.T) {
	cfg := config.Default(config.Testnet)
	cfg.DataDir = t.TempDir()

	cfg.Storage.Engine = config.EngineMemory
	db, err := openStorage(cfg)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	db.Close()

	cfg.Storage.Engine = config.EngineBadger
	db, err = openStorage(cfg)
	if err != nil {
		t.Fatalf("badger: %v", err)
	}
	db.Close()

	cfg.Storage.Engine = "leveldb"
	if _, err := openStorage(cfg); err == nil {
		t.Error("unknown engine should fail")
	}
}

func TestLoadGenesis(t *testing.T) {
	cfg := config.Default(config.Testnet)
	g, err := loadGenesis(cfg)
	if err != nil {
		t.Fatalf("built-in: %v", err)
	}
	if g.LedgerID != "nfp-testnet-1" {
		t.Errorf("ledger id = %s", g.LedgerID)
	}

	custom := &config.Genesis{LedgerID: "custom", ContractAccount: "c", Alloc: map[string]string{}}
	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := custom.Save(path); err != nil {
		t.Fatal(err)
	}
	cfg.Genesis = path
	g, err = loadGenesis(cfg)
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	if g.LedgerID != "custom" || g.ContractAccount != "c" {
		t.Errorf("custom genesis = %+v", g)
	}

	cfg.Genesis = filepath.Join(t.TempDir(), "missing.json")
	if _, err := loadGenesis(cfg); err == nil {
		t.Error("missing genesis file should fail")
	}
}

func TestFaucetAmount(t *testing.T) {
	cfg := config.Default(config.Testnet)
	amount, err := faucetAmount(cfg)
	if err != nil {
		t.Fatalf("faucetAmount: %v", err)
	}
	if currency.ToDisplay(amount) != cfg.Faucet.Amount {
		t.Errorf("amount = %s, want %s", currency.ToDisplay(amount), cfg.Faucet.Amount)
	}
	for _, bad := range []string{"0", "-1", "0.0001", "abc"} {
		cfg.Faucet.Amount = bad
		if _, err := faucetAmount(cfg); err == nil {
			t.Errorf("faucetAmount(%q) should fail", bad)
		}
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default(config.Testnet)
	cfg.DataDir = t.TempDir()
	cfg.RPC.Addr = "127.0.0.1"
	cfg.RPC.Port = 0 // Use random port.
	cfg.Log.Level = "error"
	if err := config.EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs: %v", err)
	}
	return cfg
}

func TestNodeLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Cleanup(func() { types.SetAddressHRP(types.MainnetHRP) })

	cfg := testConfig(t)
	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n.RPCAddr() == "" {
		t.Fatal("RPCAddr should not be empty")
	}
	if types.GetAddressHRP() != types.TestnetHRP {
		t.Errorf("HRP = %s, want %s", types.GetAddressHRP(), types.TestnetHRP)
	}
	if err := n.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	client := rpcclient.New("http://" + n.RPCAddr() + "/")
	key, _ := crypto.GenerateKey()
	if err := client.Call("account_faucet", map[string]string{"account": key.Address().String()}, nil); err != nil {
		t.Fatalf("faucet: %v", err)
	}
	err = client.Send(key, "token_create", map[string]interface{}{
		"name": "Dot", "max_editions": 1, "mint_price": "0", "pixel_data": "7", "width": 1, "height": 1,
	}, nil)
	if err != nil {
		t.Fatalf("token_create: %v", err)
	}
	n.Stop()

	// Reopen the same data dir: state survives and the genesis check passes.
	n2, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer n2.Stop()
	bal, err := n2.Runtime().Balance(key.Address().String())
	if err != nil {
		t.Fatal(err)
	}
	if currency.ToDisplay(bal) != cfg.Faucet.Amount {
		t.Errorf("balance after restart = %s, want %s", currency.ToDisplay(bal), cfg.Faucet.Amount)
	}
	nonce, _ := n2.Runtime().Nonce(key.Address().String())
	if nonce != 1 {
		t.Errorf("nonce after restart = %d, want 1", nonce)
	}
}

func TestNode_GenesisMismatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Cleanup(func() { types.SetAddressHRP(types.MainnetHRP) })

	cfg := testConfig(t)
	cfg.RPC.Enabled = false
	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n.Stop()

	custom := config.TestnetGenesis()
	custom.LedgerID = "other-ledger"
	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := custom.Save(path); err != nil {
		t.Fatal(err)
	}
	cfg.Genesis = path
	if _, err := New(cfg); !errors.Is(err, host.ErrGenesisMismatch) {
		t.Fatalf("New with other genesis: err = %v, want ErrGenesisMismatch", err)
	}
}
