// Package sigv4 implements AWS Signature Version 4 request verification:
// deterministic reconstruction of the canonical request and string-to-sign,
// HMAC-SHA256 key derivation chaining, and constant-time comparison against
// the signature an AWS SDK client supplied.
package sigv4

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/allisson/secretsmanager/internal/cryptoutil"
)

// Credentials is the single static principal this server authenticates
// requests against.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
}

// Error identifies which SigV4 failure occurred, so the HTTP layer can map
// it to the correct AWS error taxonomy entry.
type Error string

const (
	ErrMissingAuthenticationToken Error = "MissingAuthenticationToken"
	ErrIncompleteSignature        Error = "IncompleteSignature"
	ErrInvalidClientTokenId       Error = "InvalidClientTokenId"
	ErrSignatureDoesNotMatch      Error = "SignatureDoesNotMatch"
)

func (e Error) Error() string { return string(e) }

const service = "secretsmanager"
const algorithm = "AWS4-HMAC-SHA256"
const amzDateLayout = "20060102T150405Z"
const dateLayout = "20060102"

// Request is the subset of an HTTP request the verifier needs. It is
// decoupled from net/http so the router can verify before or after reading
// the body exactly once.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Verify checks req against creds, returning nil if the signature is valid.
// skew bounds how far the request's timestamp may drift from now.
func Verify(req Request, creds Credentials, now time.Time, skew time.Duration) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return ErrMissingAuthenticationToken
	}

	scope, signedHeaders, signature, err := parseAuthorizationHeader(authHeader)
	if err != nil {
		return ErrIncompleteSignature
	}
	if scope.aws4Request != "aws4_request" {
		return ErrIncompleteSignature
	}
	if scope.accessKeyID != creds.AccessKeyID {
		return ErrInvalidClientTokenId
	}

	amzDate := req.Header.Get("X-Amz-Date")
	if amzDate == "" {
		return ErrIncompleteSignature
	}
	requestTime, err := time.Parse(amzDateLayout, amzDate)
	if err != nil {
		return ErrIncompleteSignature
	}
	if requestTime.Format(dateLayout) != scope.date {
		return ErrSignatureDoesNotMatch
	}
	if diff := now.Sub(requestTime); diff > skew || diff < -skew {
		return ErrSignatureDoesNotMatch
	}

	if host := req.Header.Get("Host"); host != "" && !containsHeader(signedHeaders, "host") {
		return ErrIncompleteSignature
	}

	bodyHash := cryptoutil.SHA256Hex(req.Body)
	if declared := req.Header.Get("X-Amz-Content-Sha256"); declared != "" && declared != "UNSIGNED-PAYLOAD" {
		if declared != bodyHash {
			return ErrSignatureDoesNotMatch
		}
	}

	canonicalRequest := buildCanonicalRequest(req, signedHeaders, bodyHash)
	stringToSign := buildStringToSign(amzDate, scope, canonicalRequest)
	signingKey := deriveSigningKey(creds.AccessKeySecret, scope.date, scope.region)
	expected := cryptoutil.HexEncode(cryptoutil.HMACSHA256(signingKey, []byte(stringToSign)))

	if !cryptoutil.ConstantTimeEqualString(expected, signature) {
		return ErrSignatureDoesNotMatch
	}
	return nil
}

func buildCanonicalRequest(req Request, signedHeaders []string, bodyHash string) string {
	get := func(name string) (string, bool) {
		values := req.Header.Values(http.CanonicalHeaderKey(name))
		if name == "host" && req.Header.Get("Host") != "" {
			return req.Header.Get("Host"), true
		}
		if len(values) == 0 {
			return "", false
		}
		return strings.Join(values, ","), true
	}

	declared := req.Header.Get("X-Amz-Content-Sha256")
	hash := bodyHash
	if declared == "UNSIGNED-PAYLOAD" {
		hash = "UNSIGNED-PAYLOAD"
	}

	return strings.Join([]string{
		req.Method,
		canonicalPath(req.Path),
		canonicalQuery(req.Query),
		canonicalHeaders(signedHeaders, get),
		strings.Join(signedHeaders, ";"),
		hash,
	}, "\n")
}

func buildStringToSign(amzDate string, scope signingScope, canonicalRequest string) string {
	credentialScope := strings.Join([]string{scope.date, scope.region, service, "aws4_request"}, "/")
	return strings.Join([]string{
		algorithm,
		amzDate,
		credentialScope,
		cryptoutil.SHA256Hex([]byte(canonicalRequest)),
	}, "\n")
}

// deriveSigningKey implements the SigV4 HMAC chain:
// HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), "secretsmanager"), "aws4_request").
func deriveSigningKey(secret, date, region string) []byte {
	kDate := cryptoutil.HMACSHA256([]byte("AWS4"+secret), []byte(date))
	kRegion := cryptoutil.HMACSHA256(kDate, []byte(region))
	kService := cryptoutil.HMACSHA256(kRegion, []byte(service))
	return cryptoutil.HMACSHA256(kService, []byte("aws4_request"))
}

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

type signingScope struct {
	accessKeyID string
	date        string
	region      string
	service     string
	aws4Request string
}

// parseAuthorizationHeader parses:
// "AWS4-HMAC-SHA256 Credential=<access>/<date>/<region>/secretsmanager/aws4_request, SignedHeaders=<a;b;c>, Signature=<hex>"
func parseAuthorizationHeader(header string) (signingScope, []string, string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != algorithm {
		return signingScope{}, nil, "", fmt.Errorf("unsupported authorization scheme")
	}

	var credential, signedHeadersRaw, signature string
	for _, field := range strings.Split(parts[1], ",") {
		field = strings.TrimSpace(field)
		switch {
		case strings.HasPrefix(field, "Credential="):
			credential = strings.TrimPrefix(field, "Credential=")
		case strings.HasPrefix(field, "SignedHeaders="):
			signedHeadersRaw = strings.TrimPrefix(field, "SignedHeaders=")
		case strings.HasPrefix(field, "Signature="):
			signature = strings.TrimPrefix(field, "Signature=")
		}
	}
	if credential == "" || signedHeadersRaw == "" || signature == "" {
		return signingScope{}, nil, "", fmt.Errorf("missing required authorization field")
	}

	scopeParts := strings.Split(credential, "/")
	if len(scopeParts) != 5 {
		return signingScope{}, nil, "", fmt.Errorf("malformed credential scope")
	}

	scope := signingScope{
		accessKeyID: scopeParts[0],
		date:        scopeParts[1],
		region:      scopeParts[2],
		service:     scopeParts[3],
		aws4Request: scopeParts[4],
	}
	signedHeaders := strings.Split(signedHeadersRaw, ";")
	return scope, signedHeaders, signature, nil
}
