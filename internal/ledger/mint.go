package ledger

import (
	"fmt"

	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
)

// MintToken mints the next edition of a token to the caller and pays the
// mint price to the token's creator.
//
// The deposit must cover the price; any excess stays with the contract.
func (s *Store) MintToken(call Call, tokenID string) (*Edition, error) {
	token, err := s.loadToken(tokenID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("%w: token %s", ErrNotFound, tokenID)
	}

	price := token.MintPrice
	if balance := call.AccountBalance(); balance == nil || balance.Lt(price) {
		s.logger.Debug().Str("token_id", tokenID).Msg("Mint rejected: balance below price")
		return nil, fmt.Errorf("%w: balance %s below mint price %s",
			ErrInsufficientFunds, currency.ToDisplay(balance), currency.ToDisplay(price))
	}
	if deposit := call.AttachedDeposit(); deposit == nil || deposit.Lt(price) {
		s.logger.Debug().Str("token_id", tokenID).Msg("Mint rejected: deposit below price")
		return nil, fmt.Errorf("%w: deposit %s below mint price %s",
			ErrInsufficientFunds, currency.ToDisplay(deposit), currency.ToDisplay(price))
	}
	if token.MintedCount >= uint64(token.MaxEditions) {
		s.logger.Debug().Str("token_id", tokenID).Msg("Mint rejected: sold out")
		return nil, fmt.Errorf("%w: token %s has minted all %d editions",
			ErrCapacityExceeded, tokenID, token.MaxEditions)
	}

	if err := call.Transfer(token.Creator, price); err != nil {
		return nil, fmt.Errorf("pay creator %s: %w", token.Creator, err)
	}

	id := EditionID(token.Name, token.Sequence, token.MintedCount)
	if exists, err := s.kv.Has(editionKey(id)); err != nil {
		return nil, fmt.Errorf("check edition %s: %w", id, err)
	} else if exists {
		return nil, fmt.Errorf("%w: edition %s already exists", ErrConflict, id)
	}

	owner := call.Caller()
	if _, err := s.tokenEditions(tokenID).Push([]byte(id)); err != nil {
		return nil, fmt.Errorf("index token edition: %w", err)
	}
	edition := &Edition{ID: id, TokenID: tokenID, Owner: owner}
	if err := s.putJSON(editionKey(id), editionRecord{ID: id, TokenID: tokenID, Owner: owner}); err != nil {
		return nil, fmt.Errorf("store edition %s: %w", id, err)
	}
	if _, err := s.editionIDs().Push([]byte(id)); err != nil {
		return nil, fmt.Errorf("index edition: %w", err)
	}

	ownerEditions := s.ownerEditions(owner)
	n, err := ownerEditions.Len()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := s.owners().Push([]byte(owner)); err != nil {
			return nil, fmt.Errorf("index owner: %w", err)
		}
	}
	if _, err := ownerEditions.Push([]byte(id)); err != nil {
		return nil, fmt.Errorf("index owner edition: %w", err)
	}

	s.logger.Info().
		Str("edition_id", id).
		Str("token_id", tokenID).
		Str("owner", owner).
		Uint64("number", token.MintedCount+1).
		Uint16("max_editions", token.MaxEditions).
		Msg("Edition minted")

	return edition, nil
}
