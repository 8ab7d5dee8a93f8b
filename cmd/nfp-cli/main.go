// nfp-cli is a command-line client for interacting with an nfpd node.
package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/guelowrd/non-fungible-pixels/config"
	"github.com/guelowrd/non-fungible-pixels/internal/rpc"
	"github.com/guelowrd/non-fungible-pixels/internal/rpcclient"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
	"golang.org/x/term"
)

// globals are the flags accepted before the subcommand.
type globals struct {
	rpcURL  string
	dataDir string
	network config.NetworkType
}

// parseGlobals consumes leading --rpc, --datadir, --network and --testnet
// flags and returns the remaining arguments.
func parseGlobals(args []string) (globals, []string) {
	g := globals{dataDir: config.DefaultDataDir(), network: config.Mainnet}
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			g.rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			g.rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			g.dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			g.dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			g.network = config.NetworkType(args[1])
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			g.network = config.NetworkType(args[0][len("--network="):])
			args = args[1:]
		case args[0] == "--testnet":
			g.network = config.Testnet
			args = args[1:]
		default:
			return g.withDefaults(), args
		}
	}
	return g.withDefaults(), args
}

// withDefaults points the RPC URL at the network's default port.
func (g globals) withDefaults() globals {
	if g.rpcURL == "" {
		cfg := config.Default(g.network)
		g.rpcURL = fmt.Sprintf("http://%s:%d/", cfg.RPC.Addr, cfg.RPC.Port)
	}
	return g
}

// keystoreDir returns the keystore path matching nfpd's layout:
// <datadir>/<network>/keystore
func (g globals) keystoreDir() string {
	cfg := config.Default(g.network)
	cfg.DataDir = g.dataDir
	return cfg.KeystoreDir()
}

func main() {
	g, args := parseGlobals(os.Args[1:])

	if g.network == config.Testnet {
		types.SetAddressHRP(types.TestnetHRP)
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	client := rpcclient.New(g.rpcURL)
	ksDir := g.keystoreDir()
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "wallet":
		cmdWallet(cmdArgs, ksDir)
	case "token":
		cmdToken(client, cmdArgs, ksDir)
	case "edition":
		cmdEdition(client, cmdArgs)
	case "creator":
		cmdCreator(client, cmdArgs)
	case "owner":
		cmdOwner(client, cmdArgs)
	case "balance":
		cmdBalance(client, cmdArgs, ksDir)
	case "faucet":
		cmdFaucet(client, cmdArgs, ksDir)
	case "sha256":
		cmdSha256(client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: nfp-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:7341/, testnet 7441)
  --datadir <path>    Data directory (default: ~/.nfp)
  --network <net>     mainnet (default) or testnet
  --testnet           Shorthand for --network testnet

Commands:
  status                          Show ledger status

  wallet create --name <n>        Create a new wallet
  wallet restore --name <n> --mnemonic "..."
                                  Restore a wallet from its mnemonic
  wallet address --wallet <w>     Show the wallet address
  wallet list                     List wallets

  token create --wallet <w> --name <n> --max-editions <n> --price <amt>
               --width <w> --height <h> (--pixels "0,255,..." | --pixels-file <f>)
                                  Register a token
  token mint --wallet <w> --token <id> [--deposit <amt>]
                                  Mint an edition (deposit defaults to the price)
  token get <id>                  Show token details
  token list                      List token ids
  token data <id>                 Print the pixel grid

  edition get <id>                Show edition details
  edition list                    List edition ids in mint order

  creator tokens <account>        List tokens registered by account
  owner editions <account>        List editions owned by account

  balance <account> | --wallet <w>
                                  Show account balance
  faucet <account> | --wallet <w> Request test funds (testnet)
  sha256 <input>                  Hash input with the token id scheme
`)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	var info rpc.LedgerInfoResult
	if err := client.Call("ledger_getInfo", nil, &info); err != nil {
		fatal("ledger_getInfo: %v", err)
	}

	fmt.Printf("Ledger:    %s\n", info.LedgerID)
	fmt.Printf("Contract:  %s\n", info.Contract)
	fmt.Printf("Genesis:   %s\n", info.GenesisHash)
	fmt.Printf("Created:   %d\n", info.TokensCreated)
	fmt.Printf("Tokens:    %d\n", info.Tokens)
	fmt.Printf("Editions:  %d\n", info.Editions)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
