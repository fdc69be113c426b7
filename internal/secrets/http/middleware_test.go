package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/secretsmanager/internal/cryptoutil"
	"github.com/allisson/secretsmanager/internal/sigv4"
)

// sign builds a minimal but valid AWS4-HMAC-SHA256 Authorization header for
// a POST / request with no query string, signing exactly the four headers
// set on req, matching internal/sigv4's canonical-request construction.
func sign(creds sigv4.Credentials, amzDate string, body []byte) string {
	date := amzDate[:8]
	region := "us-east-1"
	service := "secretsmanager"

	bodyHash := cryptoutil.SHA256Hex(body)
	signedHeaders := "content-type;host;x-amz-date;x-amz-target"

	canonicalRequest := strings.Join([]string{
		"POST",
		"/",
		"",
		"content-type:application/x-amz-json-1.1\nhost:example.internal\nx-amz-date:" + amzDate + "\nx-amz-target:secretsmanager.GetSecretValue\n",
		signedHeaders,
		bodyHash,
	}, "\n")

	credentialScope := strings.Join([]string{date, region, service, "aws4_request"}, "/")
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		credentialScope,
		cryptoutil.SHA256Hex([]byte(canonicalRequest)),
	}, "\n")

	kDate := cryptoutil.HMACSHA256([]byte("AWS4"+creds.AccessKeySecret), []byte(date))
	kRegion := cryptoutil.HMACSHA256(kDate, []byte(region))
	kService := cryptoutil.HMACSHA256(kRegion, []byte(service))
	signingKey := cryptoutil.HMACSHA256(kService, []byte("aws4_request"))
	signature := cryptoutil.HexEncode(cryptoutil.HMACSHA256(signingKey, []byte(stringToSign)))

	return "AWS4-HMAC-SHA256 Credential=" + creds.AccessKeyID + "/" + credentialScope +
		", SignedHeaders=" + signedHeaders + ", Signature=" + signature
}

func newSignedTestRequest(creds sigv4.Credentials, body []byte) *http.Request {
	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Host", "example.internal")
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Target", "secretsmanager.GetSecretValue")
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("Authorization", sign(creds, amzDate, body))

	return req
}

func TestSigV4Middleware_RejectsMissingAuthorization(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	creds := sigv4.Credentials{AccessKeyID: "AKIA", AccessKeySecret: "secret"}
	router.POST("/", SigV4Middleware(creds, 5*time.Minute, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MissingAuthenticationToken", rec.Header().Get("x-amzn-errortype"))
}

func TestSigV4Middleware_AcceptsValidSignatureAndRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	creds := sigv4.Credentials{AccessKeyID: "AKIA", AccessKeySecret: "secret"}

	var sawBody []byte
	router.POST("/", SigV4Middleware(creds, 5*time.Minute, nil), func(c *gin.Context) {
		sawBody, _ = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	body := []byte(`{"SecretId":"foo"}`)
	req := newSignedTestRequest(creds, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, sawBody)
}

func TestSigV4Middleware_RejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	creds := sigv4.Credentials{AccessKeyID: "AKIA", AccessKeySecret: "secret"}
	router.POST("/", SigV4Middleware(creds, 5*time.Minute, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	body := []byte(`{"SecretId":"foo"}`)
	req := newSignedTestRequest(creds, body)
	req.Body = io.NopCloser(bytes.NewReader([]byte(`{"SecretId":"tampered"}`)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SignatureDoesNotMatch", rec.Header().Get("x-amzn-errortype"))
}

func TestSigV4Middleware_RejectsWrongAccessKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	creds := sigv4.Credentials{AccessKeyID: "AKIA", AccessKeySecret: "secret"}
	router.POST("/", SigV4Middleware(creds, 5*time.Minute, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	body := []byte(`{"SecretId":"foo"}`)
	wrongCreds := sigv4.Credentials{AccessKeyID: "OTHER", AccessKeySecret: "secret"}
	req := newSignedTestRequest(wrongCreds, body)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "InvalidClientTokenId", rec.Header().Get("x-amzn-errortype"))
}
