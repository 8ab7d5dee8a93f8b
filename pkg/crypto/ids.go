package crypto

import (
	"crypto/sha256"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Delimiter separates the fields fed to StringsToSha256. Values that take
// part in an id must not contain it.
const Delimiter = "|"

// StringsToSha256 joins values with Delimiter and returns the SHA-256
// digest as lowercase hex.
//
// The encoding is fixed by the ids already issued: every UTF-16 code unit
// contributes its low byte, the buffer is then padded with as many zero
// bytes as there are code units, and each digest byte is printed without
// a leading zero nibble. The result is therefore between 32 and 64
// characters long.
func StringsToSha256(values ...string) string {
	sum := sha256.Sum256(encodeIDInput(strings.Join(values, Delimiter)))

	var sb strings.Builder
	sb.Grow(2 * len(sum))
	for _, b := range sum {
		sb.WriteString(strconv.FormatUint(uint64(b), 16))
	}
	return sb.String()
}

func encodeIDInput(s string) []byte {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, 2*len(units))
	for i, u := range units {
		buf[i] = byte(u)
	}
	return buf
}
