package http

import (
	"bytes"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/secretsmanager/internal/awserr"
	"github.com/allisson/secretsmanager/internal/httputil"
	"github.com/allisson/secretsmanager/internal/sigv4"
)

// SigV4Middleware verifies every request against creds before it reaches the
// action dispatcher, reading the body once and restoring it for the handler.
func SigV4Middleware(creds sigv4.Credentials, clockSkew time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			httputil.WriteError(c, awserr.Newf(awserr.SerializationException), logger)
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		req := sigv4.Request{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.RawQuery,
			Header: c.Request.Header,
			Body:   body,
		}

		if err := sigv4.Verify(req, creds, time.Now(), clockSkew); err != nil {
			httputil.WriteError(c, mapSigV4Error(err), logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

func mapSigV4Error(err error) *awserr.Error {
	switch err {
	case sigv4.ErrMissingAuthenticationToken:
		return awserr.Newf(awserr.MissingAuthenticationToken)
	case sigv4.ErrIncompleteSignature:
		return awserr.Newf(awserr.IncompleteSignature)
	case sigv4.ErrInvalidClientTokenId:
		return awserr.Newf(awserr.InvalidClientTokenId)
	case sigv4.ErrSignatureDoesNotMatch:
		return awserr.Newf(awserr.SignatureDoesNotMatch)
	default:
		return awserr.Newf(awserr.InternalFailure)
	}
}
