// Package bank keeps account balances and request nonces.
package bank

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/internal/storage"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBadNonce            = errors.New("bad nonce")
	ErrOverflow            = errors.New("balance overflow")
)

const (
	prefixBalance = "b"
	prefixNonce   = "n"
)

// Bank reads and writes balances over a storage.KV.
type Bank struct {
	kv     storage.KV
	logger zerolog.Logger
}

// New creates a Bank over kv.
func New(kv storage.KV) *Bank {
	return &Bank{kv: kv, logger: log.Bank}
}

// Balance returns the balance of account. Unknown accounts hold zero.
func (b *Bank) Balance(account string) (*uint256.Int, error) {
	raw, err := b.kv.Get(storage.JoinKey(prefixBalance, account))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", account, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("balance of %s: corrupt record (%d bytes)", account, len(raw))
	}
	return new(uint256.Int).SetBytes32(raw), nil
}

func (b *Bank) setBalance(account string, v *uint256.Int) error {
	buf := v.Bytes32()
	if err := b.kv.Put(storage.JoinKey(prefixBalance, account), buf[:]); err != nil {
		return fmt.Errorf("set balance of %s: %w", account, err)
	}
	return nil
}

// Credit adds amount to account.
func (b *Bank) Credit(account string, amount *uint256.Int) error {
	bal, err := b.Balance(account)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return fmt.Errorf("credit %s: %w", account, ErrOverflow)
	}
	return b.setBalance(account, sum)
}

// Transfer moves amount from one account to another.
func (b *Bank) Transfer(from, to string, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	fromBal, err := b.Balance(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance,
			from, currency.ToDisplay(fromBal), currency.ToDisplay(amount))
	}
	if err := b.setBalance(from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	if err := b.Credit(to, amount); err != nil {
		return err
	}
	b.logger.Debug().
		Str("from", from).
		Str("to", to).
		Str("amount", currency.ToDisplay(amount)).
		Msg("Transfer")
	return nil
}

// Nonce returns the next nonce expected from account.
func (b *Bank) Nonce(account string) (uint64, error) {
	raw, err := b.kv.Get(storage.JoinKey(prefixNonce, account))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("nonce of %s: %w", account, err)
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("nonce of %s: corrupt record (%d bytes)", account, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// UseNonce consumes nonce for account. It must equal the expected next
// nonce.
func (b *Bank) UseNonce(account string, nonce uint64) error {
	want, err := b.Nonce(account)
	if err != nil {
		return err
	}
	if nonce != want {
		return fmt.Errorf("%w: got %d, want %d", ErrBadNonce, nonce, want)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], want+1)
	if err := b.kv.Put(storage.JoinKey(prefixNonce, account), buf[:]); err != nil {
		return fmt.Errorf("set nonce of %s: %w", account, err)
	}
	return nil
}
