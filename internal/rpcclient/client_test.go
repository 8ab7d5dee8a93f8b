package rpcclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/guelowrd/non-fungible-pixels/config"
	"github.com/guelowrd/non-fungible-pixels/internal/host"
	klog "github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/internal/rpc"
	"github.com/guelowrd/non-fungible-pixels/internal/storage"
	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	klog.SetLogger(zerolog.Nop())
	os.Exit(m.Run())
}

func setupClient(t *testing.T) *Client {
	t.Helper()

	gen := config.TestnetGenesis()
	rt := host.New(storage.NewMemory(), gen.ContractAccount, nil)
	srv := rpc.New("127.0.0.1:0", rt, gen)
	amount, err := currency.DisplayToAtomic("10")
	if err != nil {
		t.Fatal(err)
	}
	srv.SetFaucet(amount)
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return New(fmt.Sprintf("http://%s/", srv.Addr()))
}

func TestClient_CreateAndMint(t *testing.T) {
	client := setupClient(t)
	creator, _ := crypto.GenerateKey()
	buyer, _ := crypto.GenerateKey()

	var bal rpc.BalanceResult
	if err := client.Call("account_faucet", rpc.AccountParam{Account: buyer.Address().String()}, &bal); err != nil {
		t.Fatalf("faucet: %v", err)
	}

	var tok rpc.TokenResult
	err := client.Send(creator, "token_create", map[string]interface{}{
		"name":         "TestToken",
		"max_editions": 2,
		"mint_price":   "1.234",
		"pixel_data":   "0,255,0,123,0,0,0,255,0",
		"width":        3,
		"height":       3,
	}, &tok)
	if err != nil {
		t.Fatalf("token_create: %v", err)
	}
	if tok.ID != "64291eaa92ff7a285bf5db0664576a1d6d74d51a7e3f8f849718a46838cda7" {
		t.Errorf("token id = %s", tok.ID)
	}

	for i := 0; i < 2; i++ {
		var ed rpc.EditionResult
		if err := client.Send(buyer, "token_mint", map[string]string{"token_id": tok.ID, "deposit": "1.234"}, &ed); err != nil {
			t.Fatalf("mint %d: %v", i, err)
		}
	}

	nonce, err := client.Nonce(buyer.Address().String())
	if err != nil {
		t.Fatalf("Nonce: %v", err)
	}
	if nonce != 2 {
		t.Errorf("nonce = %d, want 2", nonce)
	}
}

func TestClient_CallSigned_BadNonce(t *testing.T) {
	client := setupClient(t)
	key, _ := crypto.GenerateKey()

	err := client.CallSigned(key, 7, "token_create", map[string]interface{}{"name": "X"}, nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != rpc.CodeUnauthorized {
		t.Errorf("error code = %d, want %d", rpcErr.Code, rpc.CodeUnauthorized)
	}
}

func TestClient_NullResult(t *testing.T) {
	client := setupClient(t)

	var tok *rpc.TokenResult
	if err := client.Call("token_get", rpc.TokenIDParam{TokenID: "missing"}, &tok); err != nil {
		t.Fatalf("token_get: %v", err)
	}
	if tok != nil {
		t.Errorf("token = %+v, want nil", tok)
	}
}

func TestClient_Call_InvalidEndpoint(t *testing.T) {
	client := New("http://127.0.0.1:1/") // port 1, should refuse

	var ids []string
	err := client.Call("token_getIds", nil, &ids)
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestClient_Call_MethodNotFound(t *testing.T) {
	client := setupClient(t)

	var raw json.RawMessage
	err := client.Call("nonexistent_method", nil, &raw)
	if err == nil {
		t.Fatal("expected error for unknown method")
	}

	rpcErr, ok := err.(*RPCError)
	if !ok {
		t.Fatalf("expected RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != rpc.CodeMethodNotFound {
		t.Errorf("error code = %d, want %d", rpcErr.Code, rpc.CodeMethodNotFound)
	}
}

func TestClient_LedgerID(t *testing.T) {
	client := setupClient(t)

	id, err := client.LedgerID()
	if err != nil {
		t.Fatalf("LedgerID: %v", err)
	}
	if want := config.TestnetGenesis().LedgerID; id != want {
		t.Errorf("ledger id = %q, want %q", id, want)
	}
}

func TestClient_Send_WrongLedger(t *testing.T) {
	client := setupClient(t)
	client.ledgerID = config.MainnetGenesis().LedgerID
	key, _ := crypto.GenerateKey()

	err := client.Send(key, "token_create", map[string]interface{}{
		"name": "Replayed", "max_editions": 1, "mint_price": "1",
		"pixel_data": "0", "width": 1, "height": 1,
	}, nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != rpc.CodeUnauthorized {
		t.Errorf("error code = %d, want %d", rpcErr.Code, rpc.CodeUnauthorized)
	}
}
