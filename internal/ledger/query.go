package ledger

import (
	"fmt"

	"github.com/guelowrd/non-fungible-pixels/pkg/currency"
)

// GetToken returns the token with the given id, or (nil, nil) if there is
// none.
func (s *Store) GetToken(id string) (*Token, error) {
	return s.loadToken(id)
}

// GetEdition returns the edition with the given id, or (nil, nil) if
// there is none.
func (s *Store) GetEdition(id string) (*Edition, error) {
	return s.loadEdition(id)
}

// TokenIDs returns every token id in creation order.
func (s *Store) TokenIDs() ([]string, error) { return s.tokenIDs().Strings() }

// EditionIDs returns every edition id in global mint order.
func (s *Store) EditionIDs() ([]string, error) { return s.editionIDs().Strings() }

// Creators returns every identity that created a token, in order of
// first creation.
func (s *Store) Creators() ([]string, error) { return s.creators().Strings() }

// Owners returns every identity that minted an edition, in order of
// first mint.
func (s *Store) Owners() ([]string, error) { return s.owners().Strings() }

// TotalTokensCreated returns the lifetime creation counter.
func (s *Store) TotalTokensCreated() (uint64, error) { return s.counter() }

// TotalTokens returns the number of stored tokens.
func (s *Store) TotalTokens() (uint64, error) { return s.tokenIDs().Len() }

// TotalEditions returns the number of minted editions.
func (s *Store) TotalEditions() (uint64, error) { return s.editionIDs().Len() }

func (s *Store) mustToken(id string) (*Token, error) {
	t, err := s.loadToken(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: token %s", ErrNotFound, id)
	}
	return t, nil
}

// TokenName returns the token's name.
func (s *Store) TokenName(id string) (string, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return "", err
	}
	return t.Name, nil
}

// TokenCreator returns the identity that created the token.
func (s *Store) TokenCreator(id string) (string, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return "", err
	}
	return t.Creator, nil
}

// TokenMintPrice returns the token's price in display units.
func (s *Store) TokenMintPrice(id string) (string, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return "", err
	}
	return currency.ToDisplay(t.MintPrice), nil
}

// TokenMaxEditions returns the edition cap of the token.
func (s *Store) TokenMaxEditions(id string) (uint16, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return 0, err
	}
	return t.MaxEditions, nil
}

// TokenMintedEditions returns how many editions of the token exist.
func (s *Store) TokenMintedEditions(id string) (uint64, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return 0, err
	}
	return t.MintedCount, nil
}

// TokenWidth returns the image width in pixels.
func (s *Store) TokenWidth(id string) (uint8, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return 0, err
	}
	return t.Width, nil
}

// TokenHeight returns the image height in pixels.
func (s *Store) TokenHeight(id string) (uint8, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return 0, err
	}
	return t.Height, nil
}

// TokenData returns the token's pixel buffer.
func (s *Store) TokenData(id string) ([]byte, error) {
	t, err := s.mustToken(id)
	if err != nil {
		return nil, err
	}
	return t.PixelData, nil
}

// TokenEditionIDs returns the token's editions in mint order.
func (s *Store) TokenEditionIDs(id string) ([]string, error) {
	if _, err := s.mustToken(id); err != nil {
		return nil, err
	}
	return s.tokenEditions(id).Strings()
}

// EditionTokenID returns the id of the token an edition was minted from.
func (s *Store) EditionTokenID(id string) (string, error) {
	e, err := s.loadEdition(id)
	if err != nil {
		return "", err
	}
	if e == nil {
		return "", fmt.Errorf("%w: edition %s", ErrNotFound, id)
	}
	return e.TokenID, nil
}

// CreatorTokenIDs returns the tokens created by creator, in creation
// order. A creator with no tokens is reported as not found.
func (s *Store) CreatorTokenIDs(creator string) ([]string, error) {
	ids, err := s.creatorTokens(creator).Strings()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: creator %s has no tokens", ErrNotFound, creator)
	}
	return ids, nil
}

// OwnerEditionIDs returns the editions minted by owner, in mint order.
// An owner with no editions is reported as not found.
func (s *Store) OwnerEditionIDs(owner string) ([]string, error) {
	ids, err := s.ownerEditions(owner).Strings()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: owner %s has no editions", ErrNotFound, owner)
	}
	return ids, nil
}
