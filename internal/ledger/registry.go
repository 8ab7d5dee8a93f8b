package ledger

import (
	"fmt"
	"strings"

	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
)

func validateCreate(p CreateParams) error {
	if want := int(p.Width) * int(p.Height); len(p.PixelData) != want {
		return fmt.Errorf("%w: pixel data has %d values, want %dx%d=%d",
			ErrValidation, len(p.PixelData), p.Width, p.Height, want)
	}
	if err := currency.CheckPrecision(p.MintPrice); err != nil {
		return fmt.Errorf("%w: mint price: %w", ErrValidation, err)
	}
	if p.MintPrice.IsNegative() {
		return fmt.Errorf("%w: mint price %s is negative", ErrValidation, p.MintPrice)
	}
	if strings.Contains(p.Name, crypto.Delimiter) {
		return fmt.Errorf("%w: name %q contains %q", ErrValidation, p.Name, crypto.Delimiter)
	}
	return nil
}

// CreateToken registers a new token owned by the caller.
//
// The token id is derived from the name and the creation sequence number.
// The sequence number is consumed only when the token is stored; a failed
// call leaves the ledger unchanged.
func (s *Store) CreateToken(call Call, p CreateParams) (*Token, error) {
	if err := validateCreate(p); err != nil {
		s.logger.Debug().Err(err).Str("name", p.Name).Msg("Create rejected")
		return nil, err
	}

	seq, err := s.counter()
	if err != nil {
		return nil, err
	}
	id := TokenID(p.Name, seq)

	if exists, err := s.kv.Has(tokenKey(id)); err != nil {
		return nil, fmt.Errorf("check token %s: %w", id, err)
	} else if exists {
		return nil, fmt.Errorf("%w: token %s already exists", ErrConflict, id)
	}
	if taken, err := s.kv.Has(nameKey(p.Name)); err != nil {
		return nil, fmt.Errorf("check name: %w", err)
	} else if taken {
		s.logger.Debug().Str("name", p.Name).Msg("Create rejected: name taken")
		return nil, fmt.Errorf("%w: name %q is already registered", ErrConflict, p.Name)
	}

	price, err := currency.ToAtomic(p.MintPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: mint price: %w", ErrValidation, err)
	}

	creator := call.Caller()
	pixels := make([]byte, len(p.PixelData))
	copy(pixels, p.PixelData)

	if err := s.setCounter(seq + 1); err != nil {
		return nil, err
	}
	if err := s.kv.Put(pixelKey(seq), pixels); err != nil {
		return nil, fmt.Errorf("store pixel data: %w", err)
	}
	rec := tokenRecord{
		ID:          id,
		Sequence:    seq,
		Name:        p.Name,
		MaxEditions: p.MaxEditions,
		Creator:     creator,
		MintPrice:   price.Dec(),
		Width:       p.Width,
		Height:      p.Height,
		Checksum:    pixelChecksum(pixels),
	}
	if err := s.putJSON(tokenKey(id), rec); err != nil {
		return nil, fmt.Errorf("store token %s: %w", id, err)
	}
	if err := s.kv.Put(nameKey(p.Name), []byte(id)); err != nil {
		return nil, fmt.Errorf("store name index: %w", err)
	}
	if _, err := s.tokenIDs().Push([]byte(id)); err != nil {
		return nil, fmt.Errorf("index token: %w", err)
	}

	creatorTokens := s.creatorTokens(creator)
	n, err := creatorTokens.Len()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := s.creators().Push([]byte(creator)); err != nil {
			return nil, fmt.Errorf("index creator: %w", err)
		}
	}
	if _, err := creatorTokens.Push([]byte(id)); err != nil {
		return nil, fmt.Errorf("index creator token: %w", err)
	}

	s.logger.Info().
		Str("token_id", id).
		Uint64("sequence", seq).
		Str("name", p.Name).
		Str("creator", creator).
		Str("price", currency.ToDisplay(price)).
		Uint16("max_editions", p.MaxEditions).
		Msg("Token created")

	return &Token{
		ID:          id,
		Sequence:    seq,
		Name:        p.Name,
		MaxEditions: p.MaxEditions,
		Creator:     creator,
		MintPrice:   price,
		PixelData:   pixels,
		Width:       p.Width,
		Height:      p.Height,
	}, nil
}
