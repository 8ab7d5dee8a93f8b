package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// SaltSize is the Argon2id salt length.
const SaltSize = 32

// Sealed layout:
// version(1) | salt(32) | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
const (
	sealVersion = 1
	headerSize  = 1 + SaltSize + 4 + 4 + 1
)

// ErrDecrypt is returned when the password is wrong or the data was
// tampered with.
var ErrDecrypt = errors.New("decryption failed")

// EncryptionParams holds Argon2id cost parameters.
type EncryptionParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the Argon2id parameters used for new keystores.
func DefaultParams() EncryptionParams {
	return EncryptionParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 4}
}

func deriveKey(password, salt []byte, p EncryptionParams) []byte {
	return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism, chacha20poly1305.KeySize)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Encrypt seals data under password with Argon2id and XChaCha20-Poly1305.
// The header is authenticated as associated data.
func Encrypt(data, password []byte, p EncryptionParams) ([]byte, error) {
	out := make([]byte, headerSize+chacha20poly1305.NonceSizeX, headerSize+chacha20poly1305.NonceSizeX+len(data)+chacha20poly1305.Overhead)
	out[0] = sealVersion
	salt := out[1 : 1+SaltSize]
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	binary.LittleEndian.PutUint32(out[1+SaltSize:], p.Memory)
	binary.LittleEndian.PutUint32(out[1+SaltSize+4:], p.Iterations)
	out[headerSize-1] = p.Parallelism
	nonce := out[headerSize:]
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	key := deriveKey(password, salt, p)
	defer wipe(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return aead.Seal(out, nonce, data, out[:headerSize]), nil
}

// Decrypt opens data sealed by Encrypt.
func Decrypt(sealed, password []byte) ([]byte, error) {
	minSize := headerSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
	if len(sealed) < minSize {
		return nil, fmt.Errorf("sealed data too short: %d bytes, need at least %d", len(sealed), minSize)
	}
	if sealed[0] != sealVersion {
		return nil, fmt.Errorf("unsupported seal version %d", sealed[0])
	}
	p := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(sealed[1+SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(sealed[1+SaltSize+4:]),
		Parallelism: sealed[headerSize-1],
	}
	salt := sealed[1 : 1+SaltSize]
	nonce := sealed[headerSize : headerSize+chacha20poly1305.NonceSizeX]

	key := deriveKey(password, salt, p)
	defer wipe(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	plain, err := aead.Open(nil, nonce, sealed[headerSize+chacha20poly1305.NonceSizeX:], sealed[:headerSize])
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}
