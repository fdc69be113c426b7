package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/allisson/secretsmanager/internal/database"
	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

const timeLayout = time.RFC3339Nano

// SQLiteSecretRepository implements SecretRepository against the encrypted
// SQLite store.
type SQLiteSecretRepository struct {
	db *database.DB
}

// NewSQLiteSecretRepository constructs a repository bound to the given
// encrypted store.
func NewSQLiteSecretRepository(db *database.DB) *SQLiteSecretRepository {
	return &SQLiteSecretRepository{db: db}
}

func (r *SQLiteSecretRepository) querier(ctx context.Context) database.Querier {
	return database.GetTx(ctx, r.db.SQL())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullableTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- secrets ---

func (r *SQLiteSecretRepository) CreateSecret(ctx context.Context, secret *domain.Secret) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO secrets (arn, name, name_lower, description, description_lower, kms_key_id,
			created_at, deleted_at, recovery_window_days, last_accessed_date, last_changed_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		secret.ARN, secret.Name, strings.ToLower(secret.Name),
		nullString(secret.Description), nullString(strings.ToLower(secret.Description)),
		nullString(secret.KmsKeyID),
		formatTime(secret.CreatedAt), nil, nil, nil, formatTime(secret.LastChangedDate),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNameInUse
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

func (r *SQLiteSecretRepository) GetSecretByName(ctx context.Context, name string) (*domain.Secret, error) {
	return r.scanSecret(ctx, "name = ?", name)
}

func (r *SQLiteSecretRepository) GetSecretByARN(ctx context.Context, arn string) (*domain.Secret, error) {
	return r.scanSecret(ctx, "arn = ?", arn)
}

func (r *SQLiteSecretRepository) scanSecret(ctx context.Context, where string, arg string) (*domain.Secret, error) {
	q := r.querier(ctx)
	row := q.QueryRowContext(ctx, `
		SELECT arn, name, description, kms_key_id, created_at, deleted_at,
			recovery_window_days, last_accessed_date, last_changed_date
		FROM secrets WHERE `+where, arg)

	var (
		secret                domain.Secret
		description, kmsKeyID sql.NullString
		createdAt             string
		deletedAt             sql.NullString
		recoveryWindow        sql.NullInt64
		lastAccessed          sql.NullString
		lastChanged           string
	)
	err := row.Scan(&secret.ARN, &secret.Name, &description, &kmsKeyID, &createdAt, &deletedAt,
		&recoveryWindow, &lastAccessed, &lastChanged)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	secret.Description = description.String
	secret.KmsKeyID = kmsKeyID.String
	if secret.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse created_at")
	}
	if secret.DeletedAt, err = nullableTimePtr(deletedAt); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse deleted_at")
	}
	if recoveryWindow.Valid {
		days := int(recoveryWindow.Int64)
		secret.RecoveryWindowInDays = &days
	}
	if secret.LastAccessedDate, err = nullableTimePtr(lastAccessed); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse last_accessed_date")
	}
	if secret.LastChangedDate, err = parseTime(lastChanged); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse last_changed_date")
	}

	tags, err := r.ListTags(ctx, secret.ARN)
	if err != nil {
		return nil, err
	}
	secret.Tags = tags

	return &secret, nil
}

func (r *SQLiteSecretRepository) UpdateSecretMetadata(ctx context.Context, secret *domain.Secret) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `
		UPDATE secrets SET description = ?, description_lower = ?, kms_key_id = ?, last_changed_date = ?
		WHERE arn = ?`,
		nullString(secret.Description), nullString(strings.ToLower(secret.Description)),
		nullString(secret.KmsKeyID), formatTime(secret.LastChangedDate), secret.ARN,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret metadata")
	}
	return nil
}

func (r *SQLiteSecretRepository) TouchLastAccessed(ctx context.Context, arn string, at time.Time) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `UPDATE secrets SET last_accessed_date = ? WHERE arn = ?`, formatTime(at), arn)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last_accessed_date")
	}
	return nil
}

func (r *SQLiteSecretRepository) SoftDeleteSecret(ctx context.Context, arn string, deletedAt time.Time, recoveryWindowDays int) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `
		UPDATE secrets SET deleted_at = ?, recovery_window_days = ? WHERE arn = ?`,
		formatTime(deletedAt), recoveryWindowDays, arn,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to soft delete secret")
	}
	return nil
}

func (r *SQLiteSecretRepository) RestoreSecret(ctx context.Context, arn string) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `
		UPDATE secrets SET deleted_at = NULL, recovery_window_days = NULL WHERE arn = ?`, arn)
	if err != nil {
		return apperrors.Wrap(err, "failed to restore secret")
	}
	return nil
}

func (r *SQLiteSecretRepository) HardDeleteSecret(ctx context.Context, arn string) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `DELETE FROM secrets WHERE arn = ?`, arn)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
