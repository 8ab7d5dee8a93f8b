package rpc

import (
	"encoding/json"

	"github.com/guelowrd/non-fungible-pixels/internal/ledger"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Request is a JSON-RPC 2.0 request. Params are kept raw because signed
// calls authenticate the exact bytes the client sent.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	Auth    *Auth           `json:"auth,omitempty"`
	ID      interface{}     `json:"id"`
}

// Auth authenticates a write call.
type Auth struct {
	PubKey    string `json:"pubkey"`
	Nonce     uint64 `json:"nonce"`
	Signature string `json:"signature"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// ── Param types ─────────────────────────────────────────────────────────

// TokenCreateParam is used by token_create. PixelData is either the
// comma-separated string form or an array of integers.
type TokenCreateParam struct {
	Name        string          `json:"name"`
	MaxEditions uint16          `json:"max_editions"`
	MintPrice   decimal.Decimal `json:"mint_price"`
	PixelData   json.RawMessage `json:"pixel_data"`
	Width       uint8           `json:"width"`
	Height      uint8           `json:"height"`
}

// TokenMintParam is used by token_mint. Deposit is in display units.
type TokenMintParam struct {
	TokenID string          `json:"token_id"`
	Deposit decimal.Decimal `json:"deposit"`
}

// TokenIDParam is used by endpoints that take a token id.
type TokenIDParam struct {
	TokenID string `json:"token_id"`
}

// EditionIDParam is used by endpoints that take an edition id.
type EditionIDParam struct {
	EditionID string `json:"edition_id"`
}

// CreatorParam is used by creator_getTokenIds.
type CreatorParam struct {
	Creator string `json:"creator"`
}

// OwnerParam is used by owner_getEditionIds.
type OwnerParam struct {
	Owner string `json:"owner"`
}

// AccountParam is used by the account_* endpoints.
type AccountParam struct {
	Account string `json:"account"`
}

// Sha256Param is used by util_sha256.
type Sha256Param struct {
	Input string `json:"input"`
}

// ── Result types ────────────────────────────────────────────────────────

// LedgerInfoResult is returned by ledger_getInfo.
type LedgerInfoResult struct {
	LedgerID      string `json:"ledger_id"`
	Contract      string `json:"contract_account"`
	GenesisHash   string `json:"genesis_hash"`
	TokensCreated uint64 `json:"tokens_created"`
	Tokens        uint64 `json:"tokens"`
	Editions      uint64 `json:"editions"`
}

// TokenResult is the RPC form of a token.
type TokenResult struct {
	ID              string `json:"id"`
	Sequence        uint64 `json:"sequence"`
	Name            string `json:"name"`
	MaxEditions     uint16 `json:"max_editions"`
	Creator         string `json:"creator"`
	MintPrice       string `json:"mint_price"`
	MintPriceAtomic string `json:"mint_price_atomic"`
	PixelData       []int  `json:"pixel_data"`
	Width           uint8  `json:"width"`
	Height          uint8  `json:"height"`
	MintedEditions  uint64 `json:"minted_editions"`
}

// EditionResult is the RPC form of an edition.
type EditionResult struct {
	ID      string `json:"id"`
	TokenID string `json:"token_id"`
	Owner   string `json:"owner"`
}

// BalanceResult is returned by account_getBalance and account_faucet.
type BalanceResult struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
	Atomic  string `json:"atomic"`
}

// NonceResult is returned by account_getNonce.
type NonceResult struct {
	Account string `json:"account"`
	Nonce   uint64 `json:"nonce"`
}

// NewTokenResult converts a token for the wire.
func NewTokenResult(t *ledger.Token) *TokenResult {
	return &TokenResult{
		ID:              t.ID,
		Sequence:        t.Sequence,
		Name:            t.Name,
		MaxEditions:     t.MaxEditions,
		Creator:         t.Creator,
		MintPrice:       currency.ToDisplay(t.MintPrice),
		MintPriceAtomic: t.MintPrice.Dec(),
		PixelData:       pixelInts(t.PixelData),
		Width:           t.Width,
		Height:          t.Height,
		MintedEditions:  t.MintedCount,
	}
}

// NewEditionResult converts an edition for the wire.
func NewEditionResult(e *ledger.Edition) *EditionResult {
	return &EditionResult{ID: e.ID, TokenID: e.TokenID, Owner: e.Owner}
}

func newBalanceResult(account string, v *uint256.Int) *BalanceResult {
	return &BalanceResult{
		Account: account,
		Balance: currency.ToDisplay(v),
		Atomic:  v.Dec(),
	}
}

// pixelInts renders pixel bytes as numbers; []byte would encode as base64.
func pixelInts(data []byte) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b)
	}
	return out
}
