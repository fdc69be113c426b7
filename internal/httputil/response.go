// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/secretsmanager/internal/awserr"
	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

// ContentTypeAMZJSON is the wire content type every action response carries.
const ContentTypeAMZJSON = "application/x-amz-json-1.1"

// MakeJSONResponse writes body as plain application/json with statusCode.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteResult writes a successful action response as x-amz-json-1.1.
func WriteResult(c *gin.Context, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		WriteError(c, awserr.Newf(awserr.InternalFailure), nil)
		return
	}
	c.Data(status, ContentTypeAMZJSON, payload)
}

// WriteError writes an AWS-shaped error response: the __type/message body
// plus the mirrored x-amzn-errortype header, per original_source's
// simple_error_response convention.
func WriteError(c *gin.Context, err *awserr.Error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("request failed", slog.String("type", string(err.Type)), slog.String("message", err.Message))
	}
	c.Header("x-amzn-errortype", string(err.Type))
	c.Data(err.Type.StatusCode(), ContentTypeAMZJSON, mustMarshal(map[string]string{
		"__type":  string(err.Type),
		"message": err.Message,
	}))
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"__type":"InternalFailure","message":"internal error"}`)
	}
	return b
}

// MapDomainError translates an internal domain/apperrors error into the
// wire-level awserr taxonomy for action handlers.
func MapDomainError(err error) *awserr.Error {
	switch {
	case apperrors.Is(err, domain.ErrSecretNotFound), apperrors.Is(err, domain.ErrVersionNotFound):
		return awserr.Newf(awserr.ResourceNotFoundException)
	case apperrors.Is(err, domain.ErrNameInUse), apperrors.Is(err, domain.ErrClientTokenConflict):
		return awserr.WithMessage(awserr.ResourceExistsException, err.Error())
	case apperrors.Is(err, domain.ErrInvalidNextToken):
		return awserr.WithMessage(awserr.InvalidNextTokenException, err.Error())
	case apperrors.Is(err, domain.ErrSoftDeleted), apperrors.Is(err, domain.ErrNotSoftDeleted),
		apperrors.Is(err, domain.ErrInvalidStageTransition), apperrors.Is(err, domain.ErrInvalidRequest):
		return awserr.WithMessage(awserr.InvalidRequestException, err.Error())
	case apperrors.Is(err, domain.ErrInvalidParameter):
		return awserr.WithMessage(awserr.InvalidParameterException, err.Error())
	case apperrors.Is(err, apperrors.ErrNotFound):
		return awserr.Newf(awserr.ResourceNotFoundException)
	case apperrors.Is(err, apperrors.ErrConflict):
		return awserr.Newf(awserr.ResourceExistsException)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return awserr.WithMessage(awserr.InvalidRequestException, err.Error())
	default:
		return awserr.Newf(awserr.InternalFailure)
	}
}

// WriteDomainError maps err through MapDomainError and writes it.
func WriteDomainError(c *gin.Context, err error, logger *slog.Logger) {
	WriteError(c, MapDomainError(err), logger)
}
