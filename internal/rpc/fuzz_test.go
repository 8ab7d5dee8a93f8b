package rpc

import (
	"encoding/json"
	"testing"
)

// FuzzRPCRequestUnmarshal tests that arbitrary JSON does not panic
// when parsed as a JSON-RPC 2.0 request.
func FuzzRPCRequestUnmarshal(f *testing.F) {
	f.Add([]byte(`{"jsonrpc":"2.0","method":"token_getIds","params":null,"id":1}`))
	f.Add([]byte(`{"jsonrpc":"2.0","method":"token_get","params":{"token_id":"abc"},"id":"test"}`))
	f.Add([]byte(`{"jsonrpc":"2.0","method":"token_mint","params":{},"auth":{"pubkey":"00","nonce":1,"signature":""},"id":2}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"method":"","params":[]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		_ = req.Method
		_ = req.ID
		if req.Auth != nil {
			authenticate(&req, "nfp-testnet-1")
		}
	})
}

// FuzzDecodePixels checks that pixel payloads never panic the decoder.
func FuzzDecodePixels(f *testing.F) {
	f.Add([]byte(`"0,255,0"`))
	f.Add([]byte(`[0,255,0]`))
	f.Add([]byte(`[-1]`))
	f.Add([]byte(`"a,b"`))

	f.Fuzz(func(t *testing.T, data []byte) {
		out, rpcErr := decodePixels(data)
		if rpcErr == nil && out == nil {
			t.Fatal("nil pixels without error")
		}
	})
}
