// Package domain defines core domain models and errors for secrets.
package domain

import (
	"github.com/allisson/secretsmanager/internal/errors"
)

// Secret-specific error definitions. These are the internal vocabulary used
// between the repository and usecase layers; the HTTP layer maps them onto
// the wire-level AWS error taxonomy.
var (
	// ErrSecretNotFound indicates no live secret matches the given SecretId.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrVersionNotFound indicates no version matches the given VersionId/VersionStage.
	ErrVersionNotFound = errors.Wrap(errors.ErrNotFound, "secret version not found")

	// ErrNameInUse indicates the secret name is already used by a live secret.
	ErrNameInUse = errors.Wrap(errors.ErrConflict, "secret name already in use")

	// ErrClientTokenConflict indicates a ClientRequestToken collided with a
	// version whose payload differs from the one requested.
	ErrClientTokenConflict = errors.Wrap(errors.ErrConflict, "client request token already used with a different payload")

	// ErrSoftDeleted indicates the operation is forbidden because the secret
	// is marked for deletion.
	ErrSoftDeleted = errors.Wrap(errors.ErrInvalidInput, "secret is marked for deletion")

	// ErrNotSoftDeleted indicates RestoreSecret or DeleteSecret was called
	// on a secret that is not currently soft-deleted.
	ErrNotSoftDeleted = errors.Wrap(errors.ErrInvalidInput, "secret is not marked for deletion")

	// ErrInvalidStageTransition indicates a requested stage move would
	// violate the exactly-one-AWSCURRENT invariant.
	ErrInvalidStageTransition = errors.Wrap(errors.ErrInvalidInput, "invalid stage transition")

	// ErrInvalidParameter indicates a value out of domain (length, range,
	// mutually-exclusive flags).
	ErrInvalidParameter = errors.Wrap(errors.ErrInvalidInput, "invalid parameter")

	// ErrInvalidRequest indicates the request is malformed in a way that
	// depends on the combination of fields supplied (e.g. mutually
	// exclusive parameters both present).
	ErrInvalidRequest = errors.Wrap(errors.ErrInvalidInput, "invalid request")

	// ErrInvalidNextToken indicates a pagination token failed its
	// tamper-resistance check.
	ErrInvalidNextToken = errors.Wrap(errors.ErrInvalidInput, "invalid pagination token")
)
