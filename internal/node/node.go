// Package node assembles a ledger node from its configuration: storage,
// genesis, the host runtime and the RPC server.
package node

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/guelowrd/non-fungible-pixels/config"
	"github.com/guelowrd/non-fungible-pixels/internal/host"
	"github.com/guelowrd/non-fungible-pixels/internal/ledger"
	klog "github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/internal/metrics"
	"github.com/guelowrd/non-fungible-pixels/internal/rpc"
	"github.com/guelowrd/non-fungible-pixels/internal/storage"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
	"github.com/rs/zerolog"
)

// statsInterval is how often a running node logs ledger totals.
const statsInterval = time.Minute

// Node is a fully-initialized ledger node.
type Node struct {
	cfg       *config.Config
	genesis   *config.Genesis
	logger    zerolog.Logger
	logCloser io.Closer

	// Core
	db      storage.DB
	metrics *metrics.Metrics
	runtime *host.Runtime

	// RPC
	rpcServer *rpc.Server

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates and initializes a new Node. It performs all setup steps
// (logger, genesis, storage, runtime, RPC) but does NOT start background
// goroutines. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Set address HRP ──────────────────────────────────────────
	if cfg.Network == config.Testnet {
		types.SetAddressHRP(types.TestnetHRP)
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	// ── 2. Init logger ──────────────────────────────────────────────
	logFile := expandHome(cfg.Log.File)
	if logFile == "" {
		logFile = filepath.Join(cfg.LogsDir(), "nfpd.log")
	}
	logCloser, err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.Node

	// ── 3. Genesis ──────────────────────────────────────────────────
	genesis, err := loadGenesis(cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	genesisHash, err := genesis.Hash()
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("hash genesis: %w", err)
	}
	alloc, err := genesis.Allocations()
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("genesis alloc: %w", err)
	}

	logger.Info().
		Str("ledger_id", genesis.LedgerID).
		Str("network", string(cfg.Network)).
		Str("contract", genesis.ContractAccount).
		Msg("Starting Non-Fungible Pixels node")

	// ── 4. Open storage ─────────────────────────────────────────────
	db, err := openStorage(cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	logger.Info().Str("engine", cfg.Storage.Engine).Str("path", cfg.LedgerDir()).Msg("Database opened")

	// ── 5. Runtime ──────────────────────────────────────────────────
	m := metrics.New()
	rt := host.New(db, genesis.ContractAccount, m)

	applied, err := rt.ApplyGenesis(genesisHash, alloc)
	if err != nil {
		db.Close()
		logCloser.Close()
		return nil, fmt.Errorf("apply genesis: %w", err)
	}
	if applied {
		logger.Info().Str("hash", genesisHash.String()).Msg("Ledger initialized from genesis")
	} else {
		logger.Info().Msg("Ledger resumed from database")
	}

	// ── 6. RPC server ───────────────────────────────────────────────
	var rpcServer *rpc.Server
	if cfg.RPC.Enabled {
		rpcAddr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		rpcServer = rpc.New(rpcAddr, rt, genesis, cfg.RPC)
		rpcServer.SetMetrics(m)

		if cfg.Faucet.Enabled {
			amount, err := faucetAmount(cfg)
			if err != nil {
				db.Close()
				logCloser.Close()
				return nil, err
			}
			rpcServer.SetFaucet(amount)
			logger.Info().Str("amount", cfg.Faucet.Amount).Msg("Faucet enabled")
		}

		if err := rpcServer.Start(); err != nil {
			db.Close()
			logCloser.Close()
			return nil, fmt.Errorf("start RPC at %s: %w", rpcAddr, err)
		}
		logger.Info().Str("addr", rpcServer.Addr()).Bool("metrics", cfg.RPC.Metrics).Msg("RPC server started")
	} else {
		logger.Warn().Msg("RPC disabled by config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Node{
		cfg:       cfg,
		genesis:   genesis,
		logger:    logger,
		logCloser: logCloser,
		db:        db,
		metrics:   m,
		runtime:   rt,
		rpcServer: rpcServer,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start launches the background goroutines.
func (n *Node) Start() error {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.runStatsLoop(statsInterval)
	}()

	n.logStats("Node started successfully")
	return nil
}

// Stop shuts the node down and releases the database.
func (n *Node) Stop() {
	n.cancel()
	n.wg.Wait()

	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
	if n.logCloser != nil {
		n.logCloser.Close()
	}
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Runtime returns the node's host runtime.
func (n *Node) Runtime() *host.Runtime {
	return n.runtime
}

// Genesis returns the genesis the node was started with.
func (n *Node) Genesis() *config.Genesis {
	return n.genesis
}

func (n *Node) runStatsLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			n.logStats("Ledger stats")
		}
	}
}

func (n *Node) logStats(msg string) {
	var tokens, editions uint64
	err := n.runtime.View(func(s *ledger.Store) error {
		var err error
		if tokens, err = s.TotalTokens(); err != nil {
			return err
		}
		editions, err = s.TotalEditions()
		return err
	})
	if err != nil {
		n.logger.Warn().Err(err).Msg("Read ledger stats")
		return
	}
	n.logger.Info().
		Uint64("tokens", tokens).
		Uint64("editions", editions).
		Str("rpc", n.RPCAddr()).
		Msg(msg)
}
