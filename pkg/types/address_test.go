package types

import (
	"strings"
	"testing"
)

func TestAddress_String(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP(MainnetHRP)
	a := Address{0xab, 0x01}
	if s := a.String(); !strings.HasPrefix(s, "nfp1") {
		t.Errorf("String() should start with 'nfp1', got %s", s)
	}

	SetAddressHRP(TestnetHRP)
	if s := a.String(); !strings.HasPrefix(s, "tnfp1") {
		t.Errorf("String() should start with 'tnfp1', got %s", s)
	}
}

func TestAddress_Roundtrip(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	for _, hrp := range []string{MainnetHRP, TestnetHRP} {
		SetAddressHRP(hrp)
		a := Address{0x8f, 0x3a, 0x44, 0xb8, 0x05, 0x6c, 0xaf, 0xec, 0x36, 0x8d,
			0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80, 0x90, 0xa0}

		parsed, err := ParseAddress(a.String())
		if err != nil {
			t.Fatalf("ParseAddress(%s): %v", a, err)
		}
		if parsed != a {
			t.Errorf("roundtrip = %x, want %x", parsed, a)
		}

		parsed, err = ParseAddress(a.Hex())
		if err != nil {
			t.Fatalf("ParseAddress(hex): %v", err)
		}
		if parsed != a {
			t.Errorf("hex roundtrip = %x, want %x", parsed, a)
		}
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-an-address"},
		{"bad checksum", "nfp1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"},
		{"short hex", "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAddress(tt.input); err == nil {
				t.Errorf("ParseAddress(%q) expected error", tt.input)
			}
		})
	}
}

func TestParseAddress_UnknownPrefix(t *testing.T) {
	oldHRP := activeHRP
	defer func() { activeHRP = oldHRP }()

	SetAddressHRP("zzz")
	s := Address{0x01}.String()
	if _, err := ParseAddress(s); err == nil {
		t.Errorf("ParseAddress(%s) should reject unknown prefix", s)
	}
}
