package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

var pageTokenKey = []byte("test-pagination-key")

func TestEncodeDecodePageToken_RoundTrip(t *testing.T) {
	filter := ListFilter{Name: []string{"prod-"}}

	token, err := EncodePageToken(pageTokenKey, filter, "arn:aws:secretsmanager:us-east-1:1:secret:last-abcdef")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	lastARN, err := DecodePageToken(pageTokenKey, filter, token)
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:secretsmanager:us-east-1:1:secret:last-abcdef", lastARN)
}

func TestDecodePageToken_RejectsMismatchedFilter(t *testing.T) {
	original := ListFilter{Name: []string{"prod-"}}
	token, err := EncodePageToken(pageTokenKey, original, "arn:1")
	require.NoError(t, err)

	tampered := ListFilter{Name: []string{"staging-"}}
	_, err = DecodePageToken(pageTokenKey, tampered, token)
	assert.ErrorIs(t, err, domain.ErrInvalidNextToken)
}

func TestDecodePageToken_RejectsWrongKey(t *testing.T) {
	filter := ListFilter{}
	token, err := EncodePageToken(pageTokenKey, filter, "arn:1")
	require.NoError(t, err)

	_, err = DecodePageToken([]byte("a-different-key"), filter, token)
	assert.ErrorIs(t, err, domain.ErrInvalidNextToken)
}

func TestDecodePageToken_RejectsMalformedToken(t *testing.T) {
	_, err := DecodePageToken(pageTokenKey, ListFilter{}, "not-valid-base64!!!")
	assert.ErrorIs(t, err, domain.ErrInvalidNextToken)
}

func TestDecodePageToken_OrderOfValuesDoesNotAffectFilterMAC(t *testing.T) {
	filterA := ListFilter{Name: []string{"a", "b"}}
	filterB := ListFilter{Name: []string{"b", "a"}}

	token, err := EncodePageToken(pageTokenKey, filterA, "arn:1")
	require.NoError(t, err)

	lastARN, err := DecodePageToken(pageTokenKey, filterB, token)
	require.NoError(t, err)
	assert.Equal(t, "arn:1", lastARN)
}
