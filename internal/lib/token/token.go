// Package token turns scanned or typed check-in input into lookup keys.
//
// A guest's QR code encodes either the bare access token or a card URL whose
// last path segment is the token. At the door an operator may instead type the
// short code printed on the card: the first 8 characters of the token,
// uppercased.
package token

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MinLength is the shortest key the resolver accepts.
	MinLength = 8
	// ShortCodeLength is the length of a manually typed code.
	ShortCodeLength = 8
)

var ErrInvalid = errors.New("invalid token")

type Kind int

const (
	KindAccessToken Kind = iota
	KindShortCode
)

func (k Kind) String() string {
	if k == KindShortCode {
		return "short_code"
	}
	return "access_token"
}

// Key is a validated lookup key.
type Key struct {
	Value string
	Kind  Kind
}

// FromScan extracts the candidate token from a camera payload.
func FromScan(raw string) (string, error) {
	candidate := raw
	if strings.Contains(raw, "/") {
		candidate = lastSegment(raw)
	}

	if utf8.RuneCountInString(candidate) < MinLength {
		return "", ErrInvalid
	}

	return candidate, nil
}

// FromManual normalizes a typed short code: trimmed, uppercased and cut to
// ShortCodeLength characters. Anything shorter is rejected.
func FromManual(raw string) (string, error) {
	code := []rune(strings.ToUpper(strings.TrimSpace(raw)))
	if len(code) > ShortCodeLength {
		code = code[:ShortCodeLength]
	}

	if len(code) != ShortCodeLength {
		return "", ErrInvalid
	}

	return string(code), nil
}

// Parse validates a normalized candidate and decides how it is looked up.
func Parse(candidate string) (Key, error) {
	n := utf8.RuneCountInString(candidate)
	switch {
	case n < MinLength:
		return Key{}, ErrInvalid
	case n == ShortCodeLength:
		return Key{Value: strings.ToUpper(candidate), Kind: KindShortCode}, nil
	default:
		return Key{Value: candidate, Kind: KindAccessToken}, nil
	}
}

// Generate returns a fresh access token: 32 lowercase hex characters.
func Generate() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ShortCode derives the manual entry code printed on a guest card.
func ShortCode(accessToken string) string {
	if len(accessToken) < ShortCodeLength {
		return strings.ToUpper(accessToken)
	}
	return strings.ToUpper(accessToken[:ShortCodeLength])
}

func lastSegment(raw string) string {
	// absolute URLs: ignore query and fragment
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		raw = u.Path
	}

	segments := strings.Split(raw, "/")
	return segments[len(segments)-1]
}
