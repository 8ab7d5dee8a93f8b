package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults_Valid(t *testing.T) {
	for _, n := range []NetworkType{Mainnet, Testnet} {
		if err := Validate(Default(n)); err != nil {
			t.Errorf("%s defaults invalid: %v", n, err)
		}
	}
	if Default(Mainnet).Faucet.Enabled {
		t.Error("mainnet faucet should be disabled by default")
	}
	if !Default(Testnet).Faucet.Enabled {
		t.Error("testnet faucet should be enabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"bad network", func(c *Config) { c.Network = "devnet" }},
		{"bad engine", func(c *Config) { c.Storage.Engine = "sqlite" }},
		{"bad port", func(c *Config) { c.RPC.Port = 70000 }},
		{"bad allowed ip", func(c *Config) { c.RPC.AllowedIPs = []string{"not-an-ip"} }},
		{"bad faucet amount", func(c *Config) { c.Faucet.Enabled, c.Faucet.Amount = true, "1.2345" }},
		{"zero faucet amount", func(c *Config) { c.Faucet.Enabled, c.Faucet.Amount = true, "0" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.modify(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate should fail")
			}
		})
	}

	cfg := DefaultMainnet()
	cfg.RPC.AllowedIPs = []string{"127.0.0.1", "10.0.0.0/8", "*"}
	if err := Validate(cfg); err != nil {
		t.Errorf("CIDR and wildcard should be accepted: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfp.conf")
	content := `# comment
network = testnet
rpc.port = 9000
rpc.allowed = 127.0.0.1, 10.0.0.1
rpc.metrics = yes
storage.engine = "memory"
faucet.amount = '2.5'
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Network != Testnet {
		t.Errorf("network = %s", cfg.Network)
	}
	if cfg.RPC.Port != 9000 {
		t.Errorf("rpc.port = %d", cfg.RPC.Port)
	}
	if len(cfg.RPC.AllowedIPs) != 2 || cfg.RPC.AllowedIPs[1] != "10.0.0.1" {
		t.Errorf("rpc.allowed = %v", cfg.RPC.AllowedIPs)
	}
	if !cfg.RPC.Metrics {
		t.Error("rpc.metrics should be true")
	}
	if cfg.Storage.Engine != EngineMemory {
		t.Errorf("storage.engine = %s", cfg.Storage.Engine)
	}
	if cfg.Faucet.Amount != "2.5" {
		t.Errorf("faucet.amount = %s", cfg.Faucet.Amount)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil || len(values) != 0 {
		t.Errorf("LoadFile(missing) = %v, %v", values, err)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	os.WriteFile(path, []byte("novalue\n"), 0644)
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile should reject a line without =")
	}
}

func TestApplyFileConfig_BadPort(t *testing.T) {
	err := ApplyFileConfig(DefaultMainnet(), map[string]string{"rpc.port": "abc"})
	if err == nil {
		t.Error("non-numeric port should fail")
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--testnet", "--rpc=false", "--rpc-port=8000", "--storage=memory", "--metrics"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg := DefaultMainnet()
	ApplyFlags(cfg, f)

	if cfg.Network != Testnet {
		t.Errorf("network = %s", cfg.Network)
	}
	if cfg.RPC.Enabled {
		t.Error("rpc should be disabled by --rpc=false")
	}
	if cfg.RPC.Port != 8000 {
		t.Errorf("rpc.port = %d", cfg.RPC.Port)
	}
	if cfg.Storage.Engine != EngineMemory {
		t.Errorf("engine = %s", cfg.Storage.Engine)
	}
	if !cfg.RPC.Metrics {
		t.Error("metrics should be enabled")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := ParseFlags([]string{"--no-such-flag"}); err == nil {
		t.Error("unknown flag should fail")
	}
	if _, err := ParseFlags([]string{"positional", "--rpc"}); err == nil {
		t.Error("flag after positional argument should fail")
	}
	f, err := ParseFlags([]string{"-h"})
	if err != nil || !f.Help {
		t.Errorf("-h = %+v, %v", f, err)
	}
}

func TestLoad_PrecedenceAndDirs(t *testing.T) {
	dir := t.TempDir()
	cfg, _, err := Load([]string{"--datadir", dir, "--testnet", "--rpc-port=9100"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RPC.Port != 9100 {
		t.Errorf("rpc.port = %d, want flag value 9100", cfg.RPC.Port)
	}
	for _, d := range []string{cfg.LedgerDir(), cfg.KeystoreDir(), cfg.LogsDir()} {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("dir %s not created: %v", d, err)
		}
	}
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestLoad_Help(t *testing.T) {
	if _, _, err := Load([]string{"--version"}); err != ErrExit {
		t.Errorf("Load(--version) error = %v, want ErrExit", err)
	}
}
