package rpc

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/guelowrd/non-fungible-pixels/internal/host"
	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
)

// SigningDigest is the message a client signs for a write call:
// BLAKE3(ledgerID || 0x00 || method || 0x00 || params || 0x00 || nonce as
// 8 big-endian bytes). The ledger id binds the signature to one network.
func SigningDigest(ledgerID, method string, params []byte, nonce uint64) types.Hash {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return crypto.HashParts([]byte(ledgerID), []byte{0}, []byte(method), []byte{0}, params, []byte{0}, n[:])
}

// SignRequest fills req.Auth with a signature over its method and params
// for the ledger identified by ledgerID.
func SignRequest(req *Request, signer crypto.Signer, ledgerID string, nonce uint64) error {
	digest := SigningDigest(ledgerID, req.Method, req.Params, nonce)
	sig, err := signer.Sign(digest[:])
	if err != nil {
		return err
	}
	req.Auth = &Auth{
		PubKey:    hex.EncodeToString(signer.PublicKey()),
		Nonce:     nonce,
		Signature: hex.EncodeToString(sig),
	}
	return nil
}

// authenticate verifies the request signature and returns the caller.
// The nonce itself is checked by the runtime inside the call.
func authenticate(req *Request, ledgerID string) (host.Auth, *Error) {
	if req.Auth == nil {
		return host.Auth{}, &Error{Code: CodeUnauthorized, Message: "auth required"}
	}
	pub, err := hex.DecodeString(req.Auth.PubKey)
	if err != nil || len(pub) != 33 {
		return host.Auth{}, &Error{Code: CodeUnauthorized, Message: "invalid pubkey: must be 33-byte compressed hex"}
	}
	sig, err := hex.DecodeString(req.Auth.Signature)
	if err != nil {
		return host.Auth{}, &Error{Code: CodeUnauthorized, Message: "invalid signature encoding"}
	}
	digest := SigningDigest(ledgerID, req.Method, req.Params, req.Auth.Nonce)
	if !crypto.VerifySignature(digest[:], sig, pub) {
		return host.Auth{}, &Error{Code: CodeUnauthorized, Message: "signature verification failed"}
	}
	return host.Auth{
		Account: crypto.AddressFromPubKey(pub).String(),
		Nonce:   req.Auth.Nonce,
	}, nil
}
