package crypto

import "testing"

func TestStringsToSha256(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{
			name:   "token id",
			values: []string{"TestToken", "0"},
			want:   "64291eaa92ff7a285bf5db0664576a1d6d74d51a7e3f8f849718a46838cda7",
		},
		{
			name:   "first edition id",
			values: []string{"TestToken", "0", "0"},
			want:   "bd9db3aa79845e1ad9768e1fbdac986ffa3b4a5ae4b542477f7a9f392d8e94",
		},
		{
			name:   "second edition id",
			values: []string{"TestToken", "0", "1"},
			want:   "394d9717f461c56c318cb6b25577b29c399dfbbe46637dedaa76a5c19b885d52",
		},
		{
			name:   "pre-joined fields",
			values: []string{"NFT|0|0"},
			want:   "a091bb74baa72ecd427e817493596d83411c83aeae53b6907e9f7a37fd3167",
		},
		{
			name:   "single value",
			values: []string{"hello"},
			want:   "59da592482395e3cf1ff4a19b4ed6d40179651245d3fd54f2225dead289d57e7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringsToSha256(tt.values...); got != tt.want {
				t.Errorf("StringsToSha256(%q) = %s, want %s", tt.values, got, tt.want)
			}
		})
	}
}

func TestStringsToSha256_JoinEquivalence(t *testing.T) {
	if StringsToSha256("NFT", "0", "0") != StringsToSha256("NFT|0|0") {
		t.Error("separate values and pre-joined input should hash the same")
	}
}

func TestStringsToSha256_Length(t *testing.T) {
	for _, in := range []string{"", "a", "TestToken", "NFT|7|3"} {
		got := StringsToSha256(in)
		if len(got) < 32 || len(got) > 64 {
			t.Errorf("StringsToSha256(%q) length = %d, want 32..64", in, len(got))
		}
	}
}

func TestEncodeIDInput(t *testing.T) {
	got := encodeIDInput("ab")
	want := []byte{'a', 'b', 0, 0}
	if string(got) != string(want) {
		t.Errorf("encodeIDInput(ab) = %v, want %v", got, want)
	}
}
