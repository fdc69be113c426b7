// Package http implements the signed secrets API: a single POST / endpoint
// that dispatches on X-Amz-Target to one of the 14 actions (GetRandomPassword
// among them).
package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/secretsmanager/internal/awserr"
	"github.com/allisson/secretsmanager/internal/httputil"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/secrets/http/dto"
	"github.com/allisson/secretsmanager/internal/secrets/usecase"
)

// Handler dispatches X-Amz-Target requests to the secret usecase.
type Handler struct {
	useCase usecase.SecretUseCase
	logger  *slog.Logger
}

// NewHandler builds a Handler bound to the given usecase.
func NewHandler(useCase usecase.SecretUseCase, logger *slog.Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

type actionFunc func(h *Handler, c *gin.Context)

var actions = map[string]actionFunc{
	"CreateSecret":             (*Handler).createSecret,
	"GetSecretValue":           (*Handler).getSecretValue,
	"PutSecretValue":           (*Handler).putSecretValue,
	"UpdateSecret":             (*Handler).updateSecret,
	"DeleteSecret":             (*Handler).deleteSecret,
	"RestoreSecret":            (*Handler).restoreSecret,
	"DescribeSecret":           (*Handler).describeSecret,
	"ListSecrets":              (*Handler).listSecrets,
	"ListSecretVersionIds":     (*Handler).listSecretVersionIds,
	"BatchGetSecretValue":      (*Handler).batchGetSecretValue,
	"UpdateSecretVersionStage": (*Handler).updateSecretVersionStage,
	"TagResource":              (*Handler).tagResource,
	"UntagResource":            (*Handler).untagResource,
	"GetRandomPassword":        (*Handler).getRandomPassword,
}

// Dispatch resolves X-Amz-Target to an action and invokes it. Only the
// suffix after the last dot is matched, so both "secretsmanager.GetSecretValue"
// and bare "GetSecretValue" targets resolve.
func (h *Handler) Dispatch(c *gin.Context) {
	target := c.GetHeader("X-Amz-Target")
	action := target
	if idx := strings.LastIndex(target, "."); idx >= 0 {
		action = target[idx+1:]
	}

	fn, ok := actions[action]
	if !ok {
		httputil.WriteError(c, awserr.Newf(awserr.UnknownOperationException), h.logger)
		return
	}
	fn(h, c)
}

// bindAndValidate decodes the request body into req, treating a missing or
// empty body as {}, then runs its Validate method.
func bindAndValidate(h *Handler, c *gin.Context, req interface{ Validate() error }) bool {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.WriteError(c, awserr.Newf(awserr.SerializationException), h.logger)
		return false
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, req); err != nil {
			httputil.WriteError(c, awserr.Newf(awserr.SerializationException), h.logger)
			return false
		}
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(c, awserr.WithMessage(awserr.ValidationException, err.Error()), h.logger)
		return false
	}
	return true
}

func toDomainTagsForHandler(tags []dto.Tag) []domain.Tag {
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, domain.Tag{Key: t.Key, Value: t.Value})
	}
	return out
}

func (h *Handler) createSecret(c *gin.Context) {
	var req dto.CreateSecretRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httputil.WriteError(c, awserr.WithMessage(awserr.InvalidParameterException, err.Error()), h.logger)
		return
	}
	secret, version, err := h.useCase.CreateSecret(c.Request.Context(), in)
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewCreateSecretResponse(secret, version))
}

func (h *Handler) getSecretValue(c *gin.Context) {
	var req dto.GetSecretValueRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	secret, version, err := h.useCase.GetSecretValue(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewGetSecretValueResponse(secret, version))
}

func (h *Handler) putSecretValue(c *gin.Context) {
	var req dto.PutSecretValueRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httputil.WriteError(c, awserr.WithMessage(awserr.InvalidParameterException, err.Error()), h.logger)
		return
	}
	secret, version, err := h.useCase.PutSecretValue(c.Request.Context(), in)
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewPutSecretValueResponse(secret, version))
}

func (h *Handler) updateSecret(c *gin.Context) {
	var req dto.UpdateSecretRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httputil.WriteError(c, awserr.WithMessage(awserr.InvalidParameterException, err.Error()), h.logger)
		return
	}
	secret, version, err := h.useCase.UpdateSecret(c.Request.Context(), in)
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewUpdateSecretResponse(secret, version))
}

func (h *Handler) deleteSecret(c *gin.Context) {
	var req dto.DeleteSecretRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	secret, err := h.useCase.DeleteSecret(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewDeleteSecretResponse(secret))
}

func (h *Handler) restoreSecret(c *gin.Context) {
	var req dto.RestoreSecretRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	secret, err := h.useCase.RestoreSecret(c.Request.Context(), req.SecretId)
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewRestoreSecretResponse(secret))
}

func (h *Handler) describeSecret(c *gin.Context) {
	var req dto.DescribeSecretRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	secret, versions, err := h.useCase.DescribeSecret(c.Request.Context(), req.SecretId)
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewDescribeSecretResponse(secret, versions))
}

func (h *Handler) listSecrets(c *gin.Context) {
	var req dto.ListSecretsRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	out, err := h.useCase.ListSecrets(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewListSecretsResponse(out))
}

func (h *Handler) listSecretVersionIds(c *gin.Context) {
	var req dto.ListSecretVersionIdsRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	secret, _, err := h.useCase.DescribeSecret(c.Request.Context(), req.SecretId)
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	out, err := h.useCase.ListSecretVersionIds(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewListSecretVersionIdsResponse(secret, out))
}

func (h *Handler) batchGetSecretValue(c *gin.Context) {
	var req dto.BatchGetSecretValueRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	out, err := h.useCase.BatchGetSecretValue(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewBatchGetSecretValueResponse(out))
}

func (h *Handler) updateSecretVersionStage(c *gin.Context) {
	var req dto.UpdateSecretVersionStageRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	secret, err := h.useCase.UpdateSecretVersionStage(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.NewUpdateSecretVersionStageResponse(secret))
}

func (h *Handler) tagResource(c *gin.Context) {
	var req dto.TagResourceRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	if err := h.useCase.TagResource(c.Request.Context(), req.SecretId, toDomainTagsForHandler(req.Tags)); err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, struct{}{})
}

func (h *Handler) untagResource(c *gin.Context) {
	var req dto.UntagResourceRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	if err := h.useCase.UntagResource(c.Request.Context(), req.SecretId, req.TagKeys); err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, struct{}{})
}

func (h *Handler) getRandomPassword(c *gin.Context) {
	var req dto.GetRandomPasswordRequest
	if !bindAndValidate(h, c, &req) {
		return
	}
	password, err := h.useCase.GetRandomPassword(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.WriteDomainError(c, err, h.logger)
		return
	}
	httputil.WriteResult(c, http.StatusOK, dto.GetRandomPasswordResponse{RandomPassword: password})
}
