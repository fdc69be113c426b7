package repository

import (
	"context"
	"database/sql"

	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

// CreateVersion inserts a new immutable version row. created is false (with
// a nil error) when the insert was skipped because version_id already
// exists for this secret — callers use GetVersionByID to inspect the
// existing row and decide between idempotent replay and conflict.
func (r *SQLiteSecretRepository) CreateVersion(ctx context.Context, version *domain.SecretVersion) (bool, error) {
	q := r.querier(ctx)

	var encString, encBinary any
	if version.SecretString != nil {
		sealed, err := r.db.AEAD().SealString(*version.SecretString)
		if err != nil {
			return false, apperrors.Wrap(err, "failed to encrypt secret string")
		}
		encString = sealed
	}
	if version.SecretBinary != nil {
		sealed, err := r.db.AEAD().Seal(version.SecretBinary)
		if err != nil {
			return false, apperrors.Wrap(err, "failed to encrypt secret binary")
		}
		encBinary = sealed
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO secret_versions (secret_arn, version_id, secret_string, secret_binary, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		version.SecretARN, version.VersionID, encString, encBinary, formatTime(version.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to create secret version")
	}
	return true, nil
}

func (r *SQLiteSecretRepository) GetVersionByID(ctx context.Context, arn, versionID string) (*domain.SecretVersion, error) {
	q := r.querier(ctx)
	row := q.QueryRowContext(ctx, `
		SELECT secret_arn, version_id, secret_string, secret_binary, created_at
		FROM secret_versions WHERE secret_arn = ? AND version_id = ?`, arn, versionID)
	return r.scanVersion(ctx, row)
}

func (r *SQLiteSecretRepository) GetVersionByStage(ctx context.Context, arn, stage string) (*domain.SecretVersion, error) {
	q := r.querier(ctx)
	row := q.QueryRowContext(ctx, `
		SELECT v.secret_arn, v.version_id, v.secret_string, v.secret_binary, v.created_at
		FROM secret_versions v
		JOIN secret_version_stages s ON s.secret_arn = v.secret_arn AND s.version_id = v.version_id
		WHERE v.secret_arn = ? AND s.stage = ?`, arn, stage)
	return r.scanVersion(ctx, row)
}

func (r *SQLiteSecretRepository) scanVersion(ctx context.Context, row *sql.Row) (*domain.SecretVersion, error) {
	var (
		version               domain.SecretVersion
		encString, encBinary  []byte
		createdAt             string
	)
	err := row.Scan(&version.SecretARN, &version.VersionID, &encString, &encBinary, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrVersionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret version")
	}

	if encString != nil {
		plain, derr := r.db.AEAD().OpenString(encString)
		if derr != nil {
			return nil, apperrors.Wrap(derr, "failed to decrypt secret string")
		}
		version.SecretString = &plain
	}
	if encBinary != nil {
		plain, derr := r.db.AEAD().Open(encBinary)
		if derr != nil {
			return nil, apperrors.Wrap(derr, "failed to decrypt secret binary")
		}
		version.SecretBinary = plain
	}
	if version.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse version created_at")
	}

	stages, err := r.stagesForVersion(ctx, version.SecretARN, version.VersionID)
	if err != nil {
		return nil, err
	}
	version.Stages = stages

	return &version, nil
}

func (r *SQLiteSecretRepository) stagesForVersion(ctx context.Context, arn, versionID string) ([]string, error) {
	q := r.querier(ctx)
	rows, err := q.QueryContext(ctx, `
		SELECT stage FROM secret_version_stages WHERE secret_arn = ? AND version_id = ?`, arn, versionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list stages for version")
	}
	defer rows.Close()

	var stages []string
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan stage")
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

func (r *SQLiteSecretRepository) ListVersions(ctx context.Context, arn string, includeDeprecated bool) ([]*domain.SecretVersion, error) {
	q := r.querier(ctx)
	rows, err := q.QueryContext(ctx, `
		SELECT secret_arn, version_id, secret_string, secret_binary, created_at
		FROM secret_versions WHERE secret_arn = ? ORDER BY created_at ASC`, arn)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret versions")
	}
	defer rows.Close()

	var versions []*domain.SecretVersion
	for rows.Next() {
		var (
			v                    domain.SecretVersion
			encString, encBinary []byte
			createdAt            string
		)
		if err := rows.Scan(&v.SecretARN, &v.VersionID, &encString, &encBinary, &createdAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret version")
		}
		if encString != nil {
			plain, derr := r.db.AEAD().OpenString(encString)
			if derr != nil {
				return nil, apperrors.Wrap(derr, "failed to decrypt secret string")
			}
			v.SecretString = &plain
		}
		if encBinary != nil {
			plain, derr := r.db.AEAD().Open(encBinary)
			if derr != nil {
				return nil, apperrors.Wrap(derr, "failed to decrypt secret binary")
			}
			v.SecretBinary = plain
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse version created_at")
		}
		stages, err := r.stagesForVersion(ctx, v.SecretARN, v.VersionID)
		if err != nil {
			return nil, err
		}
		v.Stages = stages
		if !includeDeprecated && len(stages) == 0 {
			continue
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// --- stage labels ---

func (r *SQLiteSecretRepository) RemoveStageAny(ctx context.Context, arn, stage string) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `DELETE FROM secret_version_stages WHERE secret_arn = ? AND stage = ?`, arn, stage)
	if err != nil {
		return apperrors.Wrap(err, "failed to remove stage")
	}
	return nil
}

func (r *SQLiteSecretRepository) AddStage(ctx context.Context, arn, versionID, stage string) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO secret_version_stages (secret_arn, version_id, stage) VALUES (?, ?, ?)`,
		arn, versionID, stage,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to add stage")
	}
	return nil
}

func (r *SQLiteSecretRepository) GetStageHolder(ctx context.Context, arn, stage string) (string, bool, error) {
	q := r.querier(ctx)
	var versionID string
	err := q.QueryRowContext(ctx, `
		SELECT version_id FROM secret_version_stages WHERE secret_arn = ? AND stage = ?`, arn, stage).Scan(&versionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, apperrors.Wrap(err, "failed to get stage holder")
	}
	return versionID, true, nil
}
