package wallet

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
)

const keystoreExt = ".wallet"

var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
)

// keystoreFile is the on-disk JSON form of a wallet. The address and
// public key are stored in the clear so they can be shown without the
// password.
type keystoreFile struct {
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	Account       uint32    `json:"account"`
	Address       string    `json:"address"`
	PublicKey     string    `json:"public_key"`
	EncryptedSeed []byte    `json:"encrypted_seed"`
}

// Info is the public part of a stored wallet.
type Info struct {
	Name      string
	Address   types.Address
	PublicKey []byte
	CreatedAt time.Time
}

// Account is an unlocked wallet ready to sign requests.
type Account struct {
	Info
	Key *crypto.PrivateKey
}

// Keystore manages encrypted wallet files in one directory.
type Keystore struct {
	dir string
}

// NewKeystore opens dir as a keystore, creating it if needed.
func NewKeystore(dir string) (*Keystore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{dir: dir}, nil
}

func (ks *Keystore) path(name string) string {
	return filepath.Join(ks.dir, name+keystoreExt)
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid wallet name %q", name)
	}
	return nil
}

// Create derives the signing key for mnemonic and stores its seed
// encrypted under password.
func (ks *Keystore) Create(name, mnemonic string, password []byte, params EncryptionParams) (*Info, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	path := ks.path(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrWalletExists, name)
	}

	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer wipe(seed)
	key, err := accountKey(seed, 0)
	if err != nil {
		return nil, err
	}
	sealed, err := Encrypt(seed, password, params)
	if err != nil {
		return nil, fmt.Errorf("encrypt seed: %w", err)
	}

	kf := keystoreFile{
		Version:       1,
		CreatedAt:     time.Now().UTC(),
		Address:       key.Address().String(),
		PublicKey:     hex.EncodeToString(key.PublicKeyBytes()),
		EncryptedSeed: sealed,
	}
	if err := writeKeystore(path, &kf); err != nil {
		return nil, err
	}
	log.Wallet.Info().Str("wallet", name).Str("address", kf.Address).Msg("Wallet created")
	return kf.info(name)
}

// Info returns the public part of a wallet without decrypting it.
func (ks *Keystore) Info(name string) (*Info, error) {
	kf, err := readKeystore(ks.path(name))
	if err != nil {
		return nil, err
	}
	return kf.info(name)
}

// Open decrypts a wallet and returns its signing account.
func (ks *Keystore) Open(name string, password []byte) (*Account, error) {
	kf, err := readKeystore(ks.path(name))
	if err != nil {
		return nil, err
	}
	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return nil, fmt.Errorf("unlock wallet %s: %w", name, err)
	}
	defer wipe(seed)

	hd, err := accountKey(seed, kf.Account)
	if err != nil {
		return nil, err
	}
	signer, err := hd.Signer()
	if err != nil {
		return nil, err
	}
	info, err := kf.info(name)
	if err != nil {
		return nil, err
	}
	if signer.Address() != info.Address {
		return nil, fmt.Errorf("wallet %s: derived address does not match stored address", name)
	}
	return &Account{Info: *info, Key: signer}, nil
}

// List returns the names of all wallets, sorted.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == keystoreExt {
			names = append(names, strings.TrimSuffix(e.Name(), keystoreExt))
		}
	}
	sort.Strings(names)
	return names, nil
}

func accountKey(seed []byte, account uint32) (*HDKey, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	return master.DeriveAccount(account)
}

func (kf *keystoreFile) info(name string) (*Info, error) {
	addr, err := types.ParseAddress(kf.Address)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", name, err)
	}
	pub, err := hex.DecodeString(kf.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: public key: %w", name, err)
	}
	return &Info{Name: name, Address: addr, PublicKey: pub, CreatedAt: kf.CreatedAt}, nil
}

func writeKeystore(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func readKeystore(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, strings.TrimSuffix(filepath.Base(path), keystoreExt))
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
