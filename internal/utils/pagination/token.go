package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const fieldSeparator = "|"

// EncodeMultiFieldToken creates an opaque, URL-safe keyset token from any number of string fields.
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, fieldSeparator)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	tokenStr := string(decodedBytes)
	if tokenStr == "" {
		return nil, fmt.Errorf("invalid pagination token format (empty)")
	}
	return strings.Split(tokenStr, fieldSeparator), nil
}
