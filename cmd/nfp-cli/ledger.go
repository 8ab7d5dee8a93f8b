package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/guelowrd/non-fungible-pixels/internal/rpc"
	"github.com/guelowrd/non-fungible-pixels/internal/rpcclient"
)

const tokenUsage = "Usage: nfp-cli token <create|mint|get|list|data> [flags]"

func cmdToken(client *rpcclient.Client, args []string, ksDir string) {
	if len(args) < 1 {
		fatal(tokenUsage)
	}

	switch args[0] {
	case "create":
		cmdTokenCreate(client, args[1:], ksDir)
	case "mint":
		cmdTokenMint(client, args[1:], ksDir)
	case "get":
		cmdTokenGet(client, args[1:])
	case "list":
		printIDs(client, "token_getIds", nil, "No tokens found.")
	case "data":
		cmdTokenData(client, args[1:])
	default:
		fatal("Unknown token command: %s\n%s", args[0], tokenUsage)
	}
}

func cmdTokenCreate(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("token create", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	name := fs.String("name", "", "Token name")
	maxEditions := fs.Uint("max-editions", 1, "Maximum number of editions")
	price := fs.String("price", "0", "Mint price (e.g. 1.234)")
	width := fs.Uint("width", 0, "Image width")
	height := fs.Uint("height", 0, "Image height")
	pixels := fs.String("pixels", "", "Comma-separated pixel values")
	pixelsFile := fs.String("pixels-file", "", "File holding comma-separated pixel values")
	fs.Parse(args)

	nameSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "name" {
			nameSet = true
		}
	})
	// An empty name is valid but must be asked for explicitly.
	if *walletName == "" || !nameSet {
		fatal("Usage: nfp-cli token create --wallet <w> --name <n> --max-editions <n> --price <amt> --width <w> --height <h> --pixels <csv>")
	}
	if *maxEditions > 65535 || *width > 255 || *height > 255 {
		fatal("max-editions must fit in 16 bits, width and height in 8 bits")
	}

	data := *pixels
	if *pixelsFile != "" {
		raw, err := os.ReadFile(*pixelsFile)
		if err != nil {
			fatal("read pixels file: %v", err)
		}
		data = normalizePixels(string(raw))
	}

	signer := openSigner(ksDir, *walletName)
	defer signer.Zero()

	var tok rpc.TokenResult
	err := client.Send(signer, "token_create", map[string]interface{}{
		"name":         *name,
		"max_editions": *maxEditions,
		"mint_price":   *price,
		"pixel_data":   data,
		"width":        *width,
		"height":       *height,
	}, &tok)
	if err != nil {
		fatal("token_create: %v", err)
	}

	fmt.Printf("Token created: %s\n", tok.ID)
	printToken(&tok)
}

func cmdTokenMint(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("token mint", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	tokenID := fs.String("token", "", "Token id")
	deposit := fs.String("deposit", "", "Amount to attach (default: the mint price)")
	fs.Parse(args)

	if *walletName == "" || *tokenID == "" {
		fatal("Usage: nfp-cli token mint --wallet <w> --token <id> [--deposit <amt>]")
	}

	amount := *deposit
	if amount == "" {
		if err := client.Call("token_getMintPrice", rpc.TokenIDParam{TokenID: *tokenID}, &amount); err != nil {
			fatal("token_getMintPrice: %v", err)
		}
	}

	signer := openSigner(ksDir, *walletName)
	defer signer.Zero()

	var ed rpc.EditionResult
	err := client.Send(signer, "token_mint", map[string]string{
		"token_id": *tokenID,
		"deposit":  amount,
	}, &ed)
	if err != nil {
		fatal("token_mint: %v", err)
	}

	fmt.Printf("Edition minted: %s\n", ed.ID)
	fmt.Printf("Token:          %s\n", ed.TokenID)
	fmt.Printf("Owner:          %s\n", ed.Owner)
	fmt.Printf("Paid:           %s\n", amount)
}

func cmdTokenGet(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: nfp-cli token get <id>")
	}
	var tok *rpc.TokenResult
	if err := client.Call("token_get", rpc.TokenIDParam{TokenID: args[0]}, &tok); err != nil {
		fatal("token_get: %v", err)
	}
	if tok == nil {
		fatal("token %s not found", args[0])
	}
	printToken(tok)
}

func cmdTokenData(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: nfp-cli token data <id>")
	}
	var tok *rpc.TokenResult
	if err := client.Call("token_get", rpc.TokenIDParam{TokenID: args[0]}, &tok); err != nil {
		fatal("token_get: %v", err)
	}
	if tok == nil {
		fatal("token %s not found", args[0])
	}
	fmt.Print(formatGrid(tok.PixelData, int(tok.Width)))
}

func printToken(t *rpc.TokenResult) {
	fmt.Printf("ID:        %s\n", t.ID)
	fmt.Printf("Name:      %s\n", t.Name)
	fmt.Printf("Sequence:  %d\n", t.Sequence)
	fmt.Printf("Creator:   %s\n", t.Creator)
	fmt.Printf("Price:     %s\n", t.MintPrice)
	fmt.Printf("Editions:  %d / %d\n", t.MintedEditions, t.MaxEditions)
	fmt.Printf("Size:      %dx%d\n", t.Width, t.Height)
}

// ── editions, creators, owners ──────────────────────────────────────────

func cmdEdition(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: nfp-cli edition <get|list>")
	}
	switch args[0] {
	case "get":
		if len(args) < 2 {
			fatal("Usage: nfp-cli edition get <id>")
		}
		var ed *rpc.EditionResult
		if err := client.Call("edition_get", rpc.EditionIDParam{EditionID: args[1]}, &ed); err != nil {
			fatal("edition_get: %v", err)
		}
		if ed == nil {
			fatal("edition %s not found", args[1])
		}
		fmt.Printf("ID:     %s\n", ed.ID)
		fmt.Printf("Token:  %s\n", ed.TokenID)
		fmt.Printf("Owner:  %s\n", ed.Owner)
	case "list":
		printIDs(client, "edition_getIds", nil, "No editions minted.")
	default:
		fatal("Unknown edition command: %s", args[0])
	}
}

func cmdCreator(client *rpcclient.Client, args []string) {
	if len(args) < 2 || args[0] != "tokens" {
		fatal("Usage: nfp-cli creator tokens <account>")
	}
	printIDs(client, "creator_getTokenIds", rpc.CreatorParam{Creator: args[1]}, "")
}

func cmdOwner(client *rpcclient.Client, args []string) {
	if len(args) < 2 || args[0] != "editions" {
		fatal("Usage: nfp-cli owner editions <account>")
	}
	printIDs(client, "owner_getEditionIds", rpc.OwnerParam{Owner: args[1]}, "")
}

func printIDs(client *rpcclient.Client, method string, params interface{}, empty string) {
	var ids []string
	if err := client.Call(method, params, &ids); err != nil {
		fatal("%s: %v", method, err)
	}
	if len(ids) == 0 {
		fmt.Println(empty)
		return
	}
	for i, id := range ids {
		fmt.Printf("  [%d] %s\n", i, id)
	}
}

// ── accounts ────────────────────────────────────────────────────────────

// accountArg resolves "<account>" or "--wallet <w>" to an account.
func accountArg(args []string, ksDir, cmd string) string {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName != "" {
		return walletAddress(ksDir, *walletName)
	}
	if fs.NArg() < 1 {
		fatal("Usage: nfp-cli %s <account> | --wallet <w>", cmd)
	}
	return fs.Arg(0)
}

func cmdBalance(client *rpcclient.Client, args []string, ksDir string) {
	account := accountArg(args, ksDir, "balance")
	var bal rpc.BalanceResult
	if err := client.Call("account_getBalance", rpc.AccountParam{Account: account}, &bal); err != nil {
		fatal("account_getBalance: %v", err)
	}
	fmt.Printf("Account: %s\n", bal.Account)
	fmt.Printf("Balance: %s\n", bal.Balance)
}

func cmdFaucet(client *rpcclient.Client, args []string, ksDir string) {
	account := accountArg(args, ksDir, "faucet")
	var bal rpc.BalanceResult
	if err := client.Call("account_faucet", rpc.AccountParam{Account: account}, &bal); err != nil {
		fatal("account_faucet: %v", err)
	}
	fmt.Printf("Funded:  %s\n", bal.Account)
	fmt.Printf("Balance: %s\n", bal.Balance)
}

func cmdSha256(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: nfp-cli sha256 <input>")
	}
	var out string
	if err := client.Call("util_sha256", rpc.Sha256Param{Input: args[0]}, &out); err != nil {
		fatal("util_sha256: %v", err)
	}
	fmt.Println(out)
}

// ── formatting helpers ──────────────────────────────────────────────────

// normalizePixels turns a file of comma- or whitespace-separated values
// into the comma-separated form.
func normalizePixels(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	})
	return strings.Join(fields, ",")
}

// formatGrid renders pixel values as rows of the given width.
func formatGrid(data []int, width int) string {
	if width <= 0 || len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, v := range data {
		if i%width != 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%3d", v)
		if i%width == width-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
