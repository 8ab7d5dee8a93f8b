package rpc

import (
	"errors"

	"github.com/guelowrd/non-fungible-pixels/internal/bank"
	"github.com/guelowrd/non-fungible-pixels/internal/ledger"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000

	// Ledger rejections.
	CodeValidation        = -32010
	CodeConflict          = -32011
	CodeInsufficientFunds = -32012
	CodeCapacityExceeded  = -32013
	CodeUnauthorized      = -32020
	CodeFaucetDisabled    = -32021
)

// toError maps an operation error to its JSON-RPC error.
func toError(err error) *Error {
	code := CodeInternalError
	switch {
	case errors.Is(err, ledger.ErrValidation):
		code = CodeValidation
	case errors.Is(err, ledger.ErrConflict):
		code = CodeConflict
	case errors.Is(err, ledger.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, bank.ErrInsufficientBalance):
		code = CodeInsufficientFunds
	case errors.Is(err, ledger.ErrCapacityExceeded):
		code = CodeCapacityExceeded
	case errors.Is(err, bank.ErrBadNonce):
		code = CodeUnauthorized
	}
	return &Error{Code: code, Message: err.Error()}
}
