package crypto

import (
	"bytes"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	if len(key.PublicKey()) != 33 {
		t.Errorf("PublicKey() length = %d, want 33", len(key.PublicKey()))
	}
	if len(key.Serialize()) != 32 {
		t.Errorf("Serialize() length = %d, want 32", len(key.Serialize()))
	}
}

func TestPrivateKeyFromBytes(t *testing.T) {
	original, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	restored, err := PrivateKeyFromBytes(original.Serialize())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	if !bytes.Equal(original.PublicKey(), restored.PublicKey()) {
		t.Error("restored key should have same public key")
	}
	if original.Address() != restored.Address() {
		t.Error("restored key should have same address")
	}
}

func TestPrivateKeyFromBytes_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 31, 33, 64} {
		if _, err := PrivateKeyFromBytes(make([]byte, n)); err == nil {
			t.Errorf("PrivateKeyFromBytes(len %d) should fail", n)
		}
	}
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	digest := Hash([]byte("token_create"))

	sig, err := key.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if !VerifySignature(digest[:], sig, key.PublicKey()) {
		t.Error("valid signature should verify")
	}

	other := Hash([]byte("token_mint"))
	if VerifySignature(other[:], sig, key.PublicKey()) {
		t.Error("signature should not verify for a different digest")
	}

	stranger, _ := GenerateKey()
	if VerifySignature(digest[:], sig, stranger.PublicKey()) {
		t.Error("signature should not verify for a different key")
	}
}

func TestSign_BadDigestLength(t *testing.T) {
	key, _ := GenerateKey()
	if _, err := key.Sign([]byte("short")); err == nil {
		t.Error("Sign() should reject a non-32-byte digest")
	}
}

func TestVerifySignature_Garbage(t *testing.T) {
	digest := Hash(nil)
	if VerifySignature(digest[:], []byte{1, 2, 3}, []byte{4, 5, 6}) {
		t.Error("garbage input should not verify")
	}
}
