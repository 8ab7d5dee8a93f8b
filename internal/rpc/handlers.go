package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/guelowrd/non-fungible-pixels/internal/ledger"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
)

// view runs fn against the ledger and maps its error.
func (s *Server) view(fn func(*ledger.Store) (interface{}, error)) (interface{}, *Error) {
	var out interface{}
	err := s.runtime.View(func(st *ledger.Store) error {
		var err error
		out, err = fn(st)
		return err
	})
	if err != nil {
		return nil, toError(err)
	}
	return out, nil
}

// normalizeAccount renders address-shaped identities in canonical bech32
// form and leaves other account names alone.
func normalizeAccount(account string) string {
	if addr, err := types.ParseAddress(account); err == nil {
		return addr.String()
	}
	return account
}

func tokenIDParam(req *Request) (string, *Error) {
	var params TokenIDParam
	if err := parseParams(req, &params); err != nil {
		return "", err
	}
	if params.TokenID == "" {
		return "", &Error{Code: CodeInvalidParams, Message: "token_id is required"}
	}
	return params.TokenID, nil
}

func editionIDParam(req *Request) (string, *Error) {
	var params EditionIDParam
	if err := parseParams(req, &params); err != nil {
		return "", err
	}
	if params.EditionID == "" {
		return "", &Error{Code: CodeInvalidParams, Message: "edition_id is required"}
	}
	return params.EditionID, nil
}

func accountParam(req *Request) (string, *Error) {
	var params AccountParam
	if err := parseParams(req, &params); err != nil {
		return "", err
	}
	if params.Account == "" {
		return "", &Error{Code: CodeInvalidParams, Message: "account is required"}
	}
	return normalizeAccount(params.Account), nil
}

// decodePixels accepts pixel data as "0,255,0" or [0,255,0].
func decodePixels(raw json.RawMessage) ([]byte, *Error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []byte{}, nil
	}
	var csv string
	if err := json.Unmarshal(raw, &csv); err == nil {
		data, err := ledger.ParsePixelData(csv)
		if err != nil {
			return nil, toError(err)
		}
		return data, nil
	}
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "pixel_data must be a string or an array of integers"}
	}
	data := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, &Error{Code: CodeValidation, Message: fmt.Sprintf("pixel %d: %d is not a value in 0..255", i, v)}
		}
		data[i] = byte(v)
	}
	return data, nil
}

// ── Ledger endpoints ────────────────────────────────────────────────────

func (s *Server) handleLedgerGetInfo(_ *Request) (interface{}, *Error) {
	hash, err := s.genesis.Hash()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("genesis hash: %v", err)}
	}
	return s.view(func(st *ledger.Store) (interface{}, error) {
		info := &LedgerInfoResult{
			LedgerID:    s.genesis.LedgerID,
			Contract:    s.runtime.Contract(),
			GenesisHash: hash.String(),
		}
		var err error
		if info.TokensCreated, err = st.TotalTokensCreated(); err != nil {
			return nil, err
		}
		if info.Tokens, err = st.TotalTokens(); err != nil {
			return nil, err
		}
		if info.Editions, err = st.TotalEditions(); err != nil {
			return nil, err
		}
		return info, nil
	})
}

// ── Write endpoints ─────────────────────────────────────────────────────

func (s *Server) handleTokenCreate(req *Request) (interface{}, *Error) {
	auth, rpcErr := authenticate(req, s.genesis.LedgerID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params TokenCreateParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	pixels, rpcErr := decodePixels(params.PixelData)
	if rpcErr != nil {
		return nil, rpcErr
	}

	tok, err := s.runtime.CreateToken(auth, ledger.CreateParams{
		Name:        params.Name,
		MaxEditions: params.MaxEditions,
		MintPrice:   params.MintPrice,
		PixelData:   pixels,
		Width:       params.Width,
		Height:      params.Height,
	})
	if err != nil {
		return nil, toError(err)
	}
	return NewTokenResult(tok), nil
}

func (s *Server) handleTokenMint(req *Request) (interface{}, *Error) {
	auth, rpcErr := authenticate(req, s.genesis.LedgerID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var params TokenMintParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.TokenID == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "token_id is required"}
	}
	deposit, err := currency.ToAtomic(params.Deposit)
	if err != nil {
		return nil, &Error{Code: CodeValidation, Message: fmt.Sprintf("invalid deposit: %v", err)}
	}

	ed, err := s.runtime.MintToken(auth, params.TokenID, deposit)
	if err != nil {
		return nil, toError(err)
	}
	return NewEditionResult(ed), nil
}

// ── Token endpoints ─────────────────────────────────────────────────────

func (s *Server) handleTokenGet(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) {
		tok, err := st.GetToken(id)
		if err != nil || tok == nil {
			// A typed nil encodes as a null result.
			return (*TokenResult)(nil), err
		}
		return NewTokenResult(tok), nil
	})
}

func (s *Server) handleTokenGetIDs(_ *Request) (interface{}, *Error) {
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenIDs() })
}

func (s *Server) handleTokenGetTotalCreated(_ *Request) (interface{}, *Error) {
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TotalTokensCreated() })
}

func (s *Server) handleTokenGetTotal(_ *Request) (interface{}, *Error) {
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TotalTokens() })
}

func (s *Server) handleTokenGetName(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenName(id) })
}

func (s *Server) handleTokenGetCreator(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenCreator(id) })
}

func (s *Server) handleTokenGetMintPrice(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenMintPrice(id) })
}

func (s *Server) handleTokenGetMaxEditions(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenMaxEditions(id) })
}

func (s *Server) handleTokenGetMintedEditions(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenMintedEditions(id) })
}

func (s *Server) handleTokenGetWidth(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenWidth(id) })
}

func (s *Server) handleTokenGetHeight(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenHeight(id) })
}

func (s *Server) handleTokenGetData(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) {
		data, err := st.TokenData(id)
		if err != nil {
			return nil, err
		}
		return pixelInts(data), nil
	})
}

func (s *Server) handleTokenGetEditionIDs(req *Request) (interface{}, *Error) {
	id, rpcErr := tokenIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.TokenEditionIDs(id) })
}

// ── Edition endpoints ───────────────────────────────────────────────────

func (s *Server) handleEditionGet(req *Request) (interface{}, *Error) {
	id, rpcErr := editionIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) {
		ed, err := st.GetEdition(id)
		if err != nil || ed == nil {
			return (*EditionResult)(nil), err
		}
		return NewEditionResult(ed), nil
	})
}

func (s *Server) handleEditionGetIDs(_ *Request) (interface{}, *Error) {
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.EditionIDs() })
}

func (s *Server) handleEditionGetTokenID(req *Request) (interface{}, *Error) {
	id, rpcErr := editionIDParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.EditionTokenID(id) })
}

// ── Creator / owner endpoints ───────────────────────────────────────────

func (s *Server) handleCreatorList(_ *Request) (interface{}, *Error) {
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.Creators() })
}

func (s *Server) handleCreatorGetTokenIDs(req *Request) (interface{}, *Error) {
	var params CreatorParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Creator == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "creator is required"}
	}
	creator := normalizeAccount(params.Creator)
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.CreatorTokenIDs(creator) })
}

func (s *Server) handleOwnerList(_ *Request) (interface{}, *Error) {
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.Owners() })
}

func (s *Server) handleOwnerGetEditionIDs(req *Request) (interface{}, *Error) {
	var params OwnerParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Owner == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "owner is required"}
	}
	owner := normalizeAccount(params.Owner)
	return s.view(func(st *ledger.Store) (interface{}, error) { return st.OwnerEditionIDs(owner) })
}

// ── Utility / account endpoints ─────────────────────────────────────────

func (s *Server) handleUtilSha256(req *Request) (interface{}, *Error) {
	var params Sha256Param
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	return ledger.Sha256(params.Input), nil
}

func (s *Server) handleAccountGetBalance(req *Request) (interface{}, *Error) {
	account, rpcErr := accountParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	bal, err := s.runtime.Balance(account)
	if err != nil {
		return nil, toError(err)
	}
	return newBalanceResult(account, bal), nil
}

func (s *Server) handleAccountGetNonce(req *Request) (interface{}, *Error) {
	account, rpcErr := accountParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	nonce, err := s.runtime.Nonce(account)
	if err != nil {
		return nil, toError(err)
	}
	return &NonceResult{Account: account, Nonce: nonce}, nil
}

func (s *Server) handleAccountFaucet(req *Request) (interface{}, *Error) {
	if s.faucetAmount == nil {
		return nil, &Error{Code: CodeFaucetDisabled, Message: "faucet is disabled on this node"}
	}
	var params AccountParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := types.ParseAddress(params.Account)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid account: %v", err)}
	}
	account := addr.String()

	if err := s.runtime.Faucet(account, s.faucetAmount); err != nil {
		return nil, toError(err)
	}
	bal, err := s.runtime.Balance(account)
	if err != nil {
		return nil, toError(err)
	}
	return newBalanceResult(account, bal), nil
}
