package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// fastParams returns low-cost Argon2 params for fast tests.
func fastParams() EncryptionParams {
	return EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1}
}

func TestGenerateMnemonic(t *testing.T) {
	m1, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	if n := len(strings.Fields(m1)); n != 24 {
		t.Errorf("word count = %d, want 24", n)
	}
	if !ValidateMnemonic(m1) {
		t.Error("generated mnemonic should validate")
	}
	m2, _ := GenerateMnemonic()
	if m1 == m2 {
		t.Error("two generated mnemonics should differ")
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12 words", testMnemonic, true},
		{"bad checksum", strings.Replace(testMnemonic, "about", "abandon", 1), false},
		{"unknown word", "notaword " + testMnemonic[len("abandon "):], false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	want := "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"
	if hex.EncodeToString(seed) != want {
		t.Errorf("seed = %x, want %s", seed, want)
	}
	if _, err := SeedFromMnemonic("not a mnemonic", ""); !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("error = %v, want ErrInvalidMnemonic", err)
	}
}

func TestDeriveAccount_Deterministic(t *testing.T) {
	seed, _ := SeedFromMnemonic(testMnemonic, "")
	master, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey: %v", err)
	}
	a, _ := master.DeriveAccount(0)
	b, _ := master.DeriveAccount(0)
	c, _ := master.DeriveAccount(1)

	if a.Address() != b.Address() {
		t.Error("same path should derive the same address")
	}
	if a.Address() == c.Address() {
		t.Error("different indices should derive different addresses")
	}
	if len(a.PrivateKeyBytes()) != 32 || len(a.PublicKeyBytes()) != 33 {
		t.Errorf("key sizes = %d/%d", len(a.PrivateKeyBytes()), len(a.PublicKeyBytes()))
	}

	signer, err := a.Signer()
	if err != nil {
		t.Fatalf("Signer: %v", err)
	}
	if !bytes.Equal(signer.PublicKey(), a.PublicKeyBytes()) {
		t.Error("signer public key should match HD public key")
	}
	if signer.Address() != crypto.AddressFromPubKey(a.PublicKeyBytes()) {
		t.Error("signer address mismatch")
	}
}

func TestNewMasterKey_BadSeed(t *testing.T) {
	if _, err := NewMasterKey(make([]byte, 32)); err == nil {
		t.Error("32-byte seed should be rejected")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	plaintext := []byte("seed bytes")
	sealed, err := Encrypt(plaintext, []byte("pw"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := Decrypt(sealed, []byte("pw"))
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Decrypt = %q, want %q", got, plaintext)
	}

	if _, err := Decrypt(sealed, []byte("wrong")); !errors.Is(err, ErrDecrypt) {
		t.Errorf("wrong password error = %v, want ErrDecrypt", err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[1+SaltSize] ^= 0xff // memory parameter, authenticated as header
	if _, err := Decrypt(tampered, []byte("pw")); err == nil {
		t.Error("tampered header should fail")
	}

	if _, err := Decrypt(sealed[:10], []byte("pw")); err == nil {
		t.Error("truncated input should fail")
	}
}

func TestEncrypt_RandomizedOutput(t *testing.T) {
	a, _ := Encrypt([]byte("x"), []byte("pw"), fastParams())
	b, _ := Encrypt([]byte("x"), []byte("pw"), fastParams())
	if bytes.Equal(a, b) {
		t.Error("two encryptions should differ (random salt and nonce)")
	}
}

func TestKeystore(t *testing.T) {
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystore: %v", err)
	}

	info, err := ks.Create("alice", testMnemonic, []byte("pw"), fastParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := ks.Create("alice", testMnemonic, []byte("pw"), fastParams()); !errors.Is(err, ErrWalletExists) {
		t.Errorf("duplicate Create error = %v, want ErrWalletExists", err)
	}
	if _, err := ks.Create("../evil", testMnemonic, []byte("pw"), fastParams()); err == nil {
		t.Error("path-like wallet name should be rejected")
	}

	pub, err := ks.Info("alice")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if pub.Address != info.Address {
		t.Errorf("Info address = %s, want %s", pub.Address, info.Address)
	}

	acct, err := ks.Open("alice", []byte("pw"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if acct.Key.Address() != info.Address {
		t.Error("opened key should control the stored address")
	}
	if _, err := ks.Open("alice", []byte("nope")); !errors.Is(err, ErrDecrypt) {
		t.Errorf("wrong password error = %v, want ErrDecrypt", err)
	}
	if _, err := ks.Open("bob", []byte("pw")); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("missing wallet error = %v, want ErrWalletNotFound", err)
	}

	ks.Create("bob", testMnemonic, []byte("pw"), fastParams())
	names, _ := ks.List()
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Errorf("List = %v, want [alice bob]", names)
	}
}
