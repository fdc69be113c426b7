package repository

import (
	"context"
	"strings"

	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

func (r *SQLiteSecretRepository) SetTag(ctx context.Context, arn, key, value string) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO secret_tags (secret_arn, key, key_lower, value, value_lower)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (secret_arn, key) DO UPDATE SET value = excluded.value, value_lower = excluded.value_lower`,
		arn, key, strings.ToLower(key), value, strings.ToLower(value),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to set tag")
	}
	return nil
}

func (r *SQLiteSecretRepository) DeleteTag(ctx context.Context, arn, key string) error {
	q := r.querier(ctx)
	_, err := q.ExecContext(ctx, `DELETE FROM secret_tags WHERE secret_arn = ? AND key = ?`, arn, key)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete tag")
	}
	return nil
}

func (r *SQLiteSecretRepository) ListTags(ctx context.Context, arn string) ([]domain.Tag, error) {
	q := r.querier(ctx)
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM secret_tags WHERE secret_arn = ? ORDER BY key ASC`, arn)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tags")
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.Key, &t.Value); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan tag")
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *SQLiteSecretRepository) CountTags(ctx context.Context, arn string) (int, error) {
	q := r.querier(ctx)
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM secret_tags WHERE secret_arn = ?`, arn).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count tags")
	}
	return count, nil
}
