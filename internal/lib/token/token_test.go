package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromScan(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "full url", raw: "https://event.example.com/verify/abcdef1234567890", want: "abcdef1234567890"},
		{name: "url with query", raw: "https://event.example.com/card/abcdef1234567890?utm=qr#top", want: "abcdef1234567890"},
		{name: "relative path", raw: "card/tok_9f8e7d6c5b4a", want: "tok_9f8e7d6c5b4a"},
		{name: "bare token", raw: "tok_9f8e7d6c5b4a", want: "tok_9f8e7d6c5b4a"},
		{name: "bare token is not altered", raw: "AbCdEf12xyz", want: "AbCdEf12xyz"},
		{name: "short code", raw: "ABCDEF12", want: "ABCDEF12"},
		{name: "trailing slash", raw: "https://event.example.com/card/", wantErr: true},
		{name: "too short segment", raw: "https://event.example.com/card/abc", wantErr: true},
		{name: "too short", raw: "ZZZZ", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromScan(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromManual(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "exact", raw: "ABCDEF12", want: "ABCDEF12"},
		{name: "lowercase", raw: "abcdef12", want: "ABCDEF12"},
		{name: "spaces", raw: "  abcdef12 ", want: "ABCDEF12"},
		{name: "truncated", raw: "abcdef1234567890", want: "ABCDEF12"},
		{name: "too short", raw: "ZZZZ", wantErr: true},
		{name: "empty", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromManual(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	key, err := Parse("abcdef12")
	require.NoError(t, err)
	assert.Equal(t, Key{Value: "ABCDEF12", Kind: KindShortCode}, key)

	key, err = Parse("tok_9f8e7d6c5b4a")
	require.NoError(t, err)
	assert.Equal(t, Key{Value: "tok_9f8e7d6c5b4a", Kind: KindAccessToken}, key)

	_, err = Parse("short")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestGenerate(t *testing.T) {
	a, b := Generate(), Generate()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.Equal(t, strings.ToLower(a), a)
	assert.Equal(t, strings.ToUpper(a[:8]), ShortCode(a))

	key, err := Parse(ShortCode(a))
	require.NoError(t, err)
	assert.Equal(t, KindShortCode, key.Kind)
}
