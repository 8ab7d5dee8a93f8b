package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/guelowrd/non-fungible-pixels/internal/log"
	"github.com/guelowrd/non-fungible-pixels/internal/storage"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// Key layout. Single letters follow the layout of the deployed contract.
const (
	keyCounter       = "s" // creation counter, uint64be
	keyToken         = "a" // a|id -> tokenRecord
	keyTokenIDs      = "i" // vector of token ids
	keyTokenEditions = "b" // b|id -> vector of edition ids
	keyCreatorTokens = "c" // c|creator -> vector of token ids
	keyEdition       = "e" // e|id -> editionRecord
	keyEditionIDs    = "j" // vector of edition ids
	keyOwnerEditions = "o" // o|owner -> vector of edition ids
	keyCreators      = "f" // vector of creators
	keyOwners        = "p" // vector of owners
	keyPixelData     = "d" // d|seq -> raw pixel bytes
	keyNames         = "n" // n|name -> token id
)

// tokenRecord is the stored form of a Token. Pixel data lives under its
// own key and is verified against Checksum on every read.
type tokenRecord struct {
	ID          string     `json:"id"`
	Sequence    uint64     `json:"sequence"`
	Name        string     `json:"name"`
	MaxEditions uint16     `json:"max_editions"`
	Creator     string     `json:"creator"`
	MintPrice   string     `json:"mint_price"`
	Width       uint8      `json:"width"`
	Height      uint8      `json:"height"`
	Checksum    types.Hash `json:"checksum"`
}

type editionRecord struct {
	ID      string `json:"id"`
	TokenID string `json:"token_id"`
	Owner   string `json:"owner"`
}

// Store is the pixel token ledger over a key-value namespace.
type Store struct {
	kv     storage.KV
	logger zerolog.Logger
}

// New creates a Store over kv.
func New(kv storage.KV) *Store {
	return &Store{kv: kv, logger: log.Ledger}
}

func tokenKey(id string) []byte { return storage.JoinKey(keyToken, id) }
func editionKey(id string) []byte { return storage.JoinKey(keyEdition, id) }
func nameKey(name string) []byte { return storage.JoinKey(keyNames, name) }
func pixelKey(seq uint64) []byte { return storage.JoinKey(keyPixelData, strconv.FormatUint(seq, 10)) }
func (s *Store) tokenIDs() *storage.Vector { return storage.NewVector(s.kv, []byte(keyTokenIDs)) }
func (s *Store) editionIDs() *storage.Vector { return storage.NewVector(s.kv, []byte(keyEditionIDs)) }
func (s *Store) creators() *storage.Vector { return storage.NewVector(s.kv, []byte(keyCreators)) }
func (s *Store) owners() *storage.Vector { return storage.NewVector(s.kv, []byte(keyOwners)) }

func (s *Store) tokenEditions(tokenID string) *storage.Vector {
	return storage.NewVector(s.kv, storage.JoinKey(keyTokenEditions, tokenID))
}

func (s *Store) creatorTokens(creator string) *storage.Vector {
	return storage.NewVector(s.kv, storage.JoinKey(keyCreatorTokens, creator))
}

func (s *Store) ownerEditions(owner string) *storage.Vector {
	return storage.NewVector(s.kv, storage.JoinKey(keyOwnerEditions, owner))
}

// counter returns the number of tokens ever created.
func (s *Store) counter() (uint64, error) {
	raw, err := s.kv.Get([]byte(keyCounter))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("read counter: corrupt record (%d bytes)", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (s *Store) setCounter(n uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	if err := s.kv.Put([]byte(keyCounter), buf[:]); err != nil {
		return fmt.Errorf("write counter: %w", err)
	}
	return nil
}

func (s *Store) putJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.kv.Put(key, data)
}

// getJSON decodes the value at key into v. It reports false when the key
// is absent.
func (s *Store) getJSON(key []byte, v interface{}) (bool, error) {
	data, err := s.kv.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal: %w", err)
	}
	return true, nil
}

// loadToken reads a token record and its pixel data. Returns (nil, nil)
// when the token does not exist.
func (s *Store) loadToken(id string) (*Token, error) {
	var rec tokenRecord
	ok, err := s.getJSON(tokenKey(id), &rec)
	if err != nil {
		return nil, fmt.Errorf("load token %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}

	price, err := uint256.FromDecimal(rec.MintPrice)
	if err != nil {
		return nil, fmt.Errorf("load token %s: mint price: %w", id, err)
	}
	pixels, err := s.kv.Get(pixelKey(rec.Sequence))
	if err != nil {
		return nil, fmt.Errorf("load token %s: pixel data: %w", id, err)
	}
	if err := verifyPixels(pixels, rec.Width, rec.Height, rec.Checksum); err != nil {
		return nil, fmt.Errorf("load token %s: %w", id, err)
	}
	minted, err := s.tokenEditions(id).Len()
	if err != nil {
		return nil, fmt.Errorf("load token %s: %w", id, err)
	}

	return &Token{
		ID:          rec.ID,
		Sequence:    rec.Sequence,
		Name:        rec.Name,
		MaxEditions: rec.MaxEditions,
		Creator:     rec.Creator,
		MintPrice:   price,
		PixelData:   pixels,
		Width:       rec.Width,
		Height:      rec.Height,
		MintedCount: minted,
	}, nil
}

func (s *Store) loadEdition(id string) (*Edition, error) {
	var rec editionRecord
	ok, err := s.getJSON(editionKey(id), &rec)
	if err != nil {
		return nil, fmt.Errorf("load edition %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	return &Edition{ID: rec.ID, TokenID: rec.TokenID, Owner: rec.Owner}, nil
}
