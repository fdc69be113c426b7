package repository

import (
	"context"
	"strings"

	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

// ListSecrets returns every live (and, if requested, soft-deleted) secret
// matching filter, ordered by ARN ascending and unpaginated — the usecase layer applies
// SortOrder and NextToken/MaxResults slicing on top, since the pagination
// token must bind to the canonical filter set rather than to a SQL OFFSET.
func (r *SQLiteSecretRepository) ListSecrets(ctx context.Context, filter ListFilter) ([]*domain.Secret, error) {
	q := r.querier(ctx)

	var clauses []string
	var args []any

	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}

	appendFieldFilter(&clauses, &args, "name_lower", filter.Name)
	appendFieldFilter(&clauses, &args, "description_lower", filter.Description)
	appendTagFilter(&clauses, &args, "key_lower", filter.TagKey)
	appendTagFilter(&clauses, &args, "value_lower", filter.TagValue)
	appendAllFilter(&clauses, &args, filter.All)

	query := "SELECT arn FROM secrets"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY arn ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	var arns []string
	for rows.Next() {
		var arn string
		if err := rows.Scan(&arn); err != nil {
			rows.Close()
			return nil, apperrors.Wrap(err, "failed to scan secret arn")
		}
		arns = append(arns, arn)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	secrets := make([]*domain.Secret, 0, len(arns))
	for _, arn := range arns {
		secret, err := r.GetSecretByARN(ctx, arn)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	return secrets, nil
}

// appendFieldFilter ANDs in an OR-of-prefix-matches clause over a column
// already stored lowercased, honoring per-value "!" negation.
func appendFieldFilter(clauses *[]string, args *[]any, column string, values []string) {
	if len(values) == 0 {
		return
	}
	var parts []string
	for _, v := range values {
		negate := strings.HasPrefix(v, "!")
		v = strings.TrimPrefix(v, "!")
		pattern := strings.ToLower(v) + "%"
		if negate {
			parts = append(parts, column+" NOT LIKE ?")
		} else {
			parts = append(parts, column+" LIKE ?")
		}
		*args = append(*args, pattern)
	}
	*clauses = append(*clauses, "("+strings.Join(parts, " OR ")+")")
}

// appendTagFilter is appendFieldFilter over the secret_tags table, expressed
// as an EXISTS subquery scoped to the outer secrets.arn.
func appendTagFilter(clauses *[]string, args *[]any, column string, values []string) {
	if len(values) == 0 {
		return
	}
	var parts []string
	for _, v := range values {
		negate := strings.HasPrefix(v, "!")
		v = strings.TrimPrefix(v, "!")
		pattern := strings.ToLower(v) + "%"
		op := "EXISTS"
		if negate {
			op = "NOT EXISTS"
		}
		parts = append(parts, op+" (SELECT 1 FROM secret_tags t WHERE t.secret_arn = secrets.arn AND t."+column+" LIKE ?)")
		*args = append(*args, pattern)
	}
	*clauses = append(*clauses, "("+strings.Join(parts, " OR ")+")")
}

// appendAllFilter matches a value against name, description, tag key, or tag
// value — whichever of the fields the upstream API collapses into "all".
func appendAllFilter(clauses *[]string, args *[]any, values []string) {
	if len(values) == 0 {
		return
	}
	var parts []string
	for _, v := range values {
		negate := strings.HasPrefix(v, "!")
		v = strings.TrimPrefix(v, "!")
		pattern := strings.ToLower(v) + "%"

		fieldMatch := "(name_lower LIKE ? OR description_lower LIKE ? OR EXISTS " +
			"(SELECT 1 FROM secret_tags t WHERE t.secret_arn = secrets.arn AND (t.key_lower LIKE ? OR t.value_lower LIKE ?)))"
		if negate {
			parts = append(parts, "NOT "+fieldMatch)
		} else {
			parts = append(parts, fieldMatch)
		}
		*args = append(*args, pattern, pattern, pattern, pattern)
	}
	*clauses = append(*clauses, "("+strings.Join(parts, " OR ")+")")
}
