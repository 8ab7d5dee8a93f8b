// Package rpcclient provides a JSON-RPC 2.0 client for nfp nodes.
package rpcclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/guelowrd/non-fungible-pixels/internal/rpc"
	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
)

// Client is a JSON-RPC 2.0 HTTP client.
type Client struct {
	endpoint string
	http     *http.Client

	mu       sync.Mutex
	ledgerID string
}

// New creates a new RPC client targeting the given endpoint URL.
func New(endpoint string) *Client {
	return NewWithTimeout(endpoint, 10*time.Second)
}

// NewWithTimeout creates a new RPC client with a custom HTTP timeout.
func NewWithTimeout(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// rpcError is a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the server responds with an error.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func newRequest(method string, params interface{}) (*rpc.Request, error) {
	req := &rpc.Request{
		JSONRPC: "2.0",
		Method:  method,
		ID:      1,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		req.Params = raw
	}
	return req, nil
}

// Call invokes a JSON-RPC method and unmarshals the result into the provided pointer.
// If result is nil, the response result is discarded. A null result leaves
// result untouched.
func (c *Client) Call(method string, params, result interface{}) error {
	req, err := newRequest(method, params)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

// CallSigned invokes a write method authenticated by signer with the
// given account nonce. The signature is bound to the node's ledger id.
func (c *Client) CallSigned(signer crypto.Signer, nonce uint64, method string, params, result interface{}) error {
	ledgerID, err := c.LedgerID()
	if err != nil {
		return fmt.Errorf("fetch ledger id: %w", err)
	}
	req, err := newRequest(method, params)
	if err != nil {
		return err
	}
	if err := rpc.SignRequest(req, signer, ledgerID, nonce); err != nil {
		return fmt.Errorf("sign request: %w", err)
	}
	return c.do(req, result)
}

// Send looks up the signer's next nonce and then calls CallSigned.
func (c *Client) Send(signer crypto.Signer, method string, params, result interface{}) error {
	account := crypto.AddressFromPubKey(signer.PublicKey()).String()
	nonce, err := c.Nonce(account)
	if err != nil {
		return fmt.Errorf("fetch nonce: %w", err)
	}
	return c.CallSigned(signer, nonce, method, params, result)
}

// LedgerID returns the id of the ledger served by the node. It is fetched
// once and cached.
func (c *Client) LedgerID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ledgerID != "" {
		return c.ledgerID, nil
	}
	var info rpc.LedgerInfoResult
	if err := c.Call("ledger_getInfo", nil, &info); err != nil {
		return "", err
	}
	c.ledgerID = info.LedgerID
	return c.ledgerID, nil
}

// Nonce returns the next nonce the node expects from account.
func (c *Client) Nonce(account string) (uint64, error) {
	var res rpc.NonceResult
	if err := c.Call("account_getNonce", rpc.AccountParam{Account: account}, &res); err != nil {
		return 0, err
	}
	return res.Nonce, nil
}

func (c *Client) do(req *rpc.Request, result interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.http.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
		}
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}

	return nil
}
