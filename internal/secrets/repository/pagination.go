package repository

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/allisson/secretsmanager/internal/cryptoutil"
	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

// PageToken carries the cursor (the ARN of the last secret emitted on the
// previous page) bound to a hash of the filter set it was issued under, so a
// token minted for one filter can't be replayed against another.
type PageToken struct {
	LastARN   string `json:"last_arn"`
	FilterMAC string `json:"filter_mac"`
}

// EncodePageToken signs filter and last with key and returns an opaque,
// URL-safe token string.
func EncodePageToken(key []byte, filter ListFilter, lastARN string) (string, error) {
	mac := filterMAC(key, filter, lastARN)
	tok := PageToken{LastARN: lastARN, FilterMAC: mac}
	raw, err := json.Marshal(tok)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode page token")
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodePageToken validates token against filter and key, returning the
// cursor ARN to resume listing from. Returns domain.ErrInvalidNextToken on
// any tamper, expiry-shaped corruption, or filter mismatch.
func DecodePageToken(key []byte, filter ListFilter, token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", domain.ErrInvalidNextToken
	}
	var tok PageToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", domain.ErrInvalidNextToken
	}
	expected := filterMAC(key, filter, tok.LastARN)
	if !cryptoutil.ConstantTimeEqualString(expected, tok.FilterMAC) {
		return "", domain.ErrInvalidNextToken
	}
	return tok.LastARN, nil
}

// filterMAC hashes the canonical form of filter plus lastARN, reusing the
// HMAC-SHA256 primitive the SigV4 verifier already needs.
func filterMAC(key []byte, filter ListFilter, lastARN string) string {
	canonical := canonicalizeFilter(filter) + "|" + lastARN
	sum := cryptoutil.HMACSHA256(key, []byte(canonical))
	return cryptoutil.HexEncode(sum)
}

func canonicalizeFilter(filter ListFilter) string {
	var b strings.Builder
	writeField := func(name string, values []string) {
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		fmt.Fprintf(&b, "%s=%s;", name, strings.Join(sorted, ","))
	}
	writeField("name", filter.Name)
	writeField("description", filter.Description)
	writeField("tag-key", filter.TagKey)
	writeField("tag-value", filter.TagValue)
	writeField("all", filter.All)
	fmt.Fprintf(&b, "include-deleted=%v;", filter.IncludeDeleted)
	return b.String()
}
