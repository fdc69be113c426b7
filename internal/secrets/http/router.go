package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/secretsmanager/internal/secrets/usecase"
	"github.com/allisson/secretsmanager/internal/sigv4"
)

// Mount registers the signed secrets API's single POST / route on router,
// running SigV4 verification ahead of action dispatch.
func Mount(router *gin.Engine, useCase usecase.SecretUseCase, creds sigv4.Credentials, clockSkew time.Duration, logger *slog.Logger) {
	handler := NewHandler(useCase, logger)
	router.POST("/", SigV4Middleware(creds, clockSkew, logger), handler.Dispatch)
}
