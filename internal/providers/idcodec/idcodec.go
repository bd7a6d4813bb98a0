// Package idcodec turns file paths and grouping keys into URL-safe
// entity identifiers. All adapters share this one codec; the scheme is
// load-bearing because identifiers end up in user-visible links, and any
// change would break them.
//
// Encoding is URL-safe base64 (RFC 4648 §5: "+"→"-", "/"→"_") with
// padding stripped. Decode restores padding before decoding.
package idcodec

import (
	"encoding/base64"
	"strings"
)

// Encode encodes a raw key into a URL-safe identifier.
func Encode(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// Decode decodes an identifier back into its raw key. Callers must treat
// an error as "the token is already a literal key" and fall back to using
// it unchanged.
func Decode(id string) (string, error) {
	// Tolerate tokens produced by padded encoders.
	id = strings.TrimRight(id, "=")
	b, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeOrLiteral decodes an identifier, falling back to the raw token
// when it is not valid base64.
func DecodeOrLiteral(id string) string {
	key, err := Decode(id)
	if err != nil {
		return id
	}
	return key
}
