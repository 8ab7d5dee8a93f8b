// Non-Fungible Pixels ledger daemon.
//
// Usage:
//
//	nfpd [--testnet] [--rpc-port=...]  Run node
//	nfpd --help                        Show help
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/guelowrd/non-fungible-pixels/config"
	"github.com/guelowrd/non-fungible-pixels/internal/node"
)

func main() {
	cfg, _, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrExit) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		n.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	n.Stop()
}
