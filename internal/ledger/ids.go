package ledger

import (
	"strconv"

	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
)

// TokenID derives the id of the token created with the given name at the
// given creation sequence number.
func TokenID(name string, seq uint64) string {
	return crypto.StringsToSha256(name, strconv.FormatUint(seq, 10))
}

// EditionID derives the id of the n-th edition (zero based) of a token.
func EditionID(name string, seq uint64, n uint64) string {
	return crypto.StringsToSha256(name, strconv.FormatUint(seq, 10), strconv.FormatUint(n, 10))
}

// Sha256 exposes the id hash over a single input. It is a debugging aid
// for reproducing ids off-ledger.
func Sha256(input string) string {
	return crypto.StringsToSha256(input)
}
