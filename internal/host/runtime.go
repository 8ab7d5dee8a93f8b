// Package host runs ledger operations the way a contract host would:
// one call at a time, each inside its own transaction, with the caller's
// deposit attached before the ledger sees the call.
package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/guelowrd/non-fungible-pixels/internal/bank"
	"github.com/guelowrd/non-fungible-pixels/internal/ledger"
	"github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/internal/metrics"
	"github.com/guelowrd/non-fungible-pixels/internal/storage"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// Key namespaces inside the database.
var (
	ledgerPrefix = []byte("l/")
	bankPrefix   = []byte("k/")
	metaPrefix   = []byte("m/")
)

var keyGenesisHash = []byte("genesis")

// ErrGenesisMismatch is returned when the database was initialised from a
// different genesis.
var ErrGenesisMismatch = errors.New("genesis mismatch")

// Auth identifies the caller of a write and the nonce it consumes.
type Auth struct {
	Account string
	Nonce   uint64
}

// Runtime serialises ledger calls over a database.
type Runtime struct {
	mu       sync.RWMutex
	db       storage.DB
	contract string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// New creates a Runtime. contract is the account that receives deposits
// and pays creators. m may be nil.
func New(db storage.DB, contract string, m *metrics.Metrics) *Runtime {
	return &Runtime{
		db:       db,
		contract: contract,
		metrics:  m,
		logger:   log.Host,
	}
}

// Contract returns the contract account.
func (r *Runtime) Contract() string {
	return r.contract
}

// CreateToken registers a token on behalf of auth.Account.
func (r *Runtime) CreateToken(auth Auth, p ledger.CreateParams) (*ledger.Token, error) {
	var token *ledger.Token
	err := r.execute("create", auth, nil, nil, func(s *ledger.Store, call ledger.Call) error {
		var err error
		token, err = s.CreateToken(call, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.TokensCreated.Inc()
	}
	return token, nil
}

// MintToken mints an edition for auth.Account, attaching deposit from the
// caller's balance. An unknown token is reported before the deposit moves.
func (r *Runtime) MintToken(auth Auth, tokenID string, deposit *uint256.Int) (*ledger.Edition, error) {
	var edition *ledger.Edition
	exists := func(s *ledger.Store) error {
		t, err := s.GetToken(tokenID)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: token %s", ledger.ErrNotFound, tokenID)
		}
		return nil
	}
	err := r.execute("mint", auth, deposit, exists, func(s *ledger.Store, call ledger.Call) error {
		var err error
		edition, err = s.MintToken(call, tokenID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.EditionsMinted.Inc()
	}
	return edition, nil
}

// execute runs fn inside a fresh transaction. check, when set, runs after
// the nonce is used and before the deposit is attached. The transaction
// commits only if every step succeeds.
func (r *Runtime) execute(op string, auth Auth, deposit *uint256.Int, check func(*ledger.Store) error, fn func(*ledger.Store, ledger.Call) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer log.Timed(r.logger, op)()

	txn, err := storage.NewTxn(r.db)
	if err != nil {
		return err
	}
	defer txn.Discard()

	if err := r.run(txn, auth, deposit, check, fn); err != nil {
		r.logger.Debug().Err(err).Str("op", op).Str("caller", auth.Account).Msg("Call rolled back")
		if r.metrics != nil {
			r.metrics.Reject(op, Reason(err))
		}
		return err
	}
	return txn.Commit()
}

func (r *Runtime) run(txn *storage.Txn, auth Auth, deposit *uint256.Int, check func(*ledger.Store) error, fn func(*ledger.Store, ledger.Call) error) error {
	if auth.Account == "" {
		return fmt.Errorf("%w: caller is required", ledger.ErrValidation)
	}
	b := bank.New(storage.NewPrefixKV(txn, bankPrefix))
	if err := b.UseNonce(auth.Account, auth.Nonce); err != nil {
		return err
	}
	store := ledger.New(storage.NewPrefixKV(txn, ledgerPrefix))
	if check != nil {
		if err := check(store); err != nil {
			return err
		}
	}

	if deposit == nil {
		deposit = new(uint256.Int)
	}
	if err := b.Transfer(auth.Account, r.contract, deposit); err != nil {
		if errors.Is(err, bank.ErrInsufficientBalance) {
			return fmt.Errorf("%w: attach deposit: %w", ledger.ErrInsufficientFunds, err)
		}
		return err
	}
	balance, err := b.Balance(r.contract)
	if err != nil {
		return err
	}

	call := &callContext{
		bank:     b,
		contract: r.contract,
		caller:   auth.Account,
		deposit:  deposit,
		balance:  balance,
	}
	return fn(store, call)
}

// View runs fn against a read-only view of the ledger.
func (r *Runtime) View(fn func(*ledger.Store) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(ledger.New(storage.NewPrefixKV(r.db, ledgerPrefix)))
}

// Balance returns the balance of account.
func (r *Runtime) Balance(account string) (*uint256.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return bank.New(storage.NewPrefixKV(r.db, bankPrefix)).Balance(account)
}

// Nonce returns the next nonce expected from account.
func (r *Runtime) Nonce(account string) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return bank.New(storage.NewPrefixKV(r.db, bankPrefix)).Nonce(account)
}

// Faucet credits account with amount.
func (r *Runtime) Faucet(account string, amount *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, err := storage.NewTxn(r.db)
	if err != nil {
		return err
	}
	defer txn.Discard()

	if err := bank.New(storage.NewPrefixKV(txn, bankPrefix)).Credit(account, amount); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	r.logger.Info().Str("account", account).Str("amount", currency.ToDisplay(amount)).Msg("Faucet credit")
	return nil
}

// ApplyGenesis credits the initial allocation on a fresh database and
// records the genesis hash. On an initialised database it only checks
// that the hash matches. It reports whether the allocation was applied.
func (r *Runtime) ApplyGenesis(hash types.Hash, alloc map[string]*uint256.Int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := storage.NewPrefixKV(r.db, metaPrefix)
	stored, err := meta.Get(keyGenesisHash)
	switch {
	case err == nil:
		if string(stored) != string(hash[:]) {
			return false, fmt.Errorf("%w: database has %x, config has %s", ErrGenesisMismatch, stored, hash)
		}
		return false, nil
	case !errors.Is(err, storage.ErrKeyNotFound):
		return false, fmt.Errorf("read genesis hash: %w", err)
	}

	txn, err := storage.NewTxn(r.db)
	if err != nil {
		return false, err
	}
	defer txn.Discard()

	b := bank.New(storage.NewPrefixKV(txn, bankPrefix))
	for account, amount := range alloc {
		if err := b.Credit(account, amount); err != nil {
			return false, fmt.Errorf("genesis alloc %s: %w", account, err)
		}
	}
	if err := storage.NewPrefixKV(txn, metaPrefix).Put(keyGenesisHash, hash[:]); err != nil {
		return false, err
	}
	if err := txn.Commit(); err != nil {
		return false, err
	}
	r.logger.Info().Str("hash", hash.String()).Int("accounts", len(alloc)).Msg("Genesis applied")
	return true, nil
}

// Reason classifies an operation error for metrics and logs.
func Reason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return "validation"
	case errors.Is(err, ledger.ErrConflict):
		return "conflict"
	case errors.Is(err, ledger.ErrNotFound):
		return "not_found"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, bank.ErrBadNonce):
		return "nonce"
	default:
		return "internal"
	}
}
