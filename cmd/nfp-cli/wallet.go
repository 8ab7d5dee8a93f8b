package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/guelowrd/non-fungible-pixels/internal/wallet"
	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
)

const walletUsage = "Usage: nfp-cli wallet <create|restore|address|list> [flags]"

func cmdWallet(args []string, ksDir string) {
	if len(args) < 1 {
		fatal(walletUsage)
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(args[1:], ksDir)
	case "restore":
		cmdWalletRestore(args[1:], ksDir)
	case "address":
		cmdWalletAddress(args[1:], ksDir)
	case "list":
		cmdWalletList(ksDir)
	default:
		fatal("Unknown wallet command: %s\n%s", args[0], walletUsage)
	}
}

func cmdWalletCreate(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: nfp-cli wallet create --name <name>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	saveWallet(*name, mnemonic, ksDir)
}

func cmdWalletRestore(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet restore", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: nfp-cli wallet restore --name <name> --mnemonic \"word1 word2 ...\"")
	}
	phrase := strings.Join(strings.Fields(*mnemonic), " ")
	if !wallet.ValidateMnemonic(phrase) {
		fatal("invalid mnemonic")
	}

	saveWallet(*name, phrase, ksDir)
}

func saveWallet(name, mnemonic, ksDir string) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	info, err := ks.Create(name, mnemonic, password, wallet.DefaultParams())
	if err != nil {
		fatal("create wallet: %v", err)
	}

	fmt.Printf("\nWallet saved: %s\n", info.Name)
	fmt.Printf("Address: %s\n", info.Address)
}

func cmdWalletAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet address", flag.ExitOnError)
	name := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: nfp-cli wallet address --wallet <name>")
	}
	fmt.Println(walletAddress(ksDir, *name))
}

func cmdWalletList(ksDir string) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}
	for _, name := range names {
		info, err := ks.Info(name)
		if err != nil {
			fmt.Printf("  %-16s (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("  %-16s %s\n", name, info.Address)
	}
}

// walletAddress returns a wallet's address without unlocking it.
func walletAddress(ksDir, name string) string {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	info, err := ks.Info(name)
	if err != nil {
		fatal("wallet %s: %v", name, err)
	}
	return info.Address.String()
}

// openSigner prompts for the wallet password and returns its signing key.
func openSigner(ksDir, name string) *crypto.PrivateKey {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	acct, err := ks.Open(name, password)
	if err != nil {
		fatal("%v", err)
	}
	return acct.Key
}
