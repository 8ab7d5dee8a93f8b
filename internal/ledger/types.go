// Package ledger implements the pixel token registry: token creation,
// edition minting and the indices that cross-reference tokens, editions,
// creators and owners.
//
// A Store runs over any storage.KV. It performs no locking and no
// rollback of its own; the host runs every write inside a storage.Txn and
// serialises calls.
package ledger

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Token is an immutable template from which editions are minted.
type Token struct {
	ID          string
	Sequence    uint64
	Name        string
	MaxEditions uint16
	Creator     string
	MintPrice   *uint256.Int
	PixelData   []byte
	Width       uint8
	Height      uint8
	// MintedCount is the length of the token's edition list.
	MintedCount uint64
}

// Edition is one minted instance of a token.
type Edition struct {
	ID      string
	TokenID string
	Owner   string
}

// CreateParams are the caller-supplied fields of a new token.
type CreateParams struct {
	Name        string
	MaxEditions uint16
	// MintPrice is in display units with at most three fractional digits.
	MintPrice decimal.Decimal
	PixelData []byte
	Width     uint8
	Height    uint8
}

// Call is the execution context of a single ledger operation.
type Call interface {
	// Caller is the authenticated identity invoking the operation.
	Caller() string
	// AttachedDeposit is the payment sent along with the call.
	AttachedDeposit() *uint256.Int
	// AccountBalance is the balance the executing contract may spend,
	// including the attached deposit.
	AccountBalance() *uint256.Int
	// Transfer moves amount from the contract to the given account.
	Transfer(to string, amount *uint256.Int) error
}
