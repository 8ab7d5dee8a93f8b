package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guelowrd/non-fungible-pixels/pkg/crypto"
	"github.com/guelowrd/non-fungible-pixels/pkg/types"
)

// ParsePixelData parses the comma-separated form of a pixel buffer, such
// as "0,255,0,123". Each value must be an integer in 0..255. Whitespace
// around values is ignored. An empty string yields an empty buffer.
func ParsePixelData(s string) ([]byte, error) {
	if strings.TrimSpace(s) == "" {
		return []byte{}, nil
	}
	fields := strings.Split(s, ",")
	out := make([]byte, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: pixel %d: %q is not a value in 0..255", ErrValidation, i, f)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// FormatPixelData renders a pixel buffer in comma-separated form.
func FormatPixelData(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	return sb.String()
}

func pixelChecksum(data []byte) types.Hash {
	return crypto.Hash(data)
}

func verifyPixels(data []byte, width, height uint8, sum types.Hash) error {
	if want := int(width) * int(height); len(data) != want {
		return fmt.Errorf("pixel data length %d, want %dx%d=%d", len(data), width, height, want)
	}
	if got := pixelChecksum(data); got != sum {
		return fmt.Errorf("pixel data checksum mismatch: got %s, want %s", got, sum)
	}
	return nil
}
