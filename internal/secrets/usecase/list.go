package usecase

import (
	"context"
	"sort"

	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/secrets/repository"
)

const defaultMaxResults = 100

// ListSecrets implements §4.3's ListSecrets semantics: AND/OR filter
// predicate, case-insensitive prefix match, tamper-resistant pagination
// bound to the canonical filter set (§9).
func (s *secretUseCase) ListSecrets(ctx context.Context, in ListSecretsInput) (ListSecretsOutput, error) {
	maxResults := in.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var page []*domain.Secret
	var nextToken string

	err := s.txManager.WithReadTx(ctx, func(ctx context.Context) error {
		all, err := s.repo.ListSecrets(ctx, in.Filter)
		if err != nil {
			return err
		}
		if in.SortOrder == "desc" {
			sort.SliceStable(all, func(i, j int) bool { return all[i].ARN > all[j].ARN })
		} else {
			sort.SliceStable(all, func(i, j int) bool { return all[i].ARN < all[j].ARN })
		}

		start := 0
		if in.NextToken != "" {
			cursorARN, derr := repository.DecodePageToken(s.paginateKey, in.Filter, in.NextToken)
			if derr != nil {
				return derr
			}
			for i, secret := range all {
				if secret.ARN == cursorARN {
					start = i + 1
					break
				}
			}
		}

		end := start + maxResults
		if end > len(all) {
			end = len(all)
		}
		if start < len(all) {
			page = all[start:end]
		}

		if end < len(all) {
			tok, terr := repository.EncodePageToken(s.paginateKey, in.Filter, all[end-1].ARN)
			if terr != nil {
				return terr
			}
			nextToken = tok
		}
		return nil
	})
	if err != nil {
		return ListSecretsOutput{}, err
	}
	return ListSecretsOutput{Secrets: page, NextToken: nextToken}, nil
}

// ListSecretVersionIds implements §4.3's ListSecretVersionIds semantics.
func (s *secretUseCase) ListSecretVersionIds(ctx context.Context, in ListSecretVersionIdsInput) (ListSecretVersionIdsOutput, error) {
	maxResults := in.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var secret *domain.Secret
	var all []*domain.SecretVersion

	err := s.txManager.WithReadTx(ctx, func(ctx context.Context) error {
		var err error
		secret, err = s.resolveSecret(ctx, in.SecretID)
		if err != nil {
			return err
		}
		all, err = s.repo.ListVersions(ctx, secret.ARN, in.IncludeDeprecated)
		return err
	})
	if err != nil {
		return ListSecretVersionIdsOutput{}, err
	}

	pageFilter := repository.ListFilter{Name: []string{in.SecretID}, IncludeDeleted: in.IncludeDeprecated}

	start := 0
	if in.NextToken != "" {
		cursorVersionID, derr := repository.DecodePageToken(s.paginateKey, pageFilter, in.NextToken)
		if derr != nil {
			return ListSecretVersionIdsOutput{}, derr
		}
		for i, v := range all {
			if v.VersionID == cursorVersionID {
				start = i + 1
				break
			}
		}
	}

	end := start + maxResults
	if end > len(all) {
		end = len(all)
	}
	var page []*domain.SecretVersion
	if start < len(all) {
		page = all[start:end]
	}

	var nextToken string
	if end < len(all) {
		tok, terr := repository.EncodePageToken(s.paginateKey, pageFilter, all[end-1].VersionID)
		if terr != nil {
			return ListSecretVersionIdsOutput{}, terr
		}
		nextToken = tok
	}

	return ListSecretVersionIdsOutput{Versions: page, NextToken: nextToken}, nil
}

// BatchGetSecretValue implements §4.3's BatchGetSecretValue semantics:
// either an explicit SecretIdList (≤20) or the ListSecrets filter
// predicate, fetching AWSCURRENT for each match. Per-secret errors are
// collected rather than aborting the batch (§9(b): last_accessed_date is
// touched per secret here too).
func (s *secretUseCase) BatchGetSecretValue(ctx context.Context, in BatchGetSecretValueInput) (BatchGetSecretValueOutput, error) {
	var secretIDs []string

	if in.Filter != nil {
		listOut, err := s.ListSecrets(ctx, ListSecretsInput{Filter: *in.Filter, MaxResults: in.MaxResults, NextToken: in.NextToken})
		if err != nil {
			return BatchGetSecretValueOutput{}, err
		}
		for _, secret := range listOut.Secrets {
			secretIDs = append(secretIDs, secret.ARN)
		}
		out := s.batchFetch(ctx, secretIDs)
		out.NextToken = listOut.NextToken
		return out, nil
	}

	return s.batchFetch(ctx, in.SecretIDList), nil
}

func (s *secretUseCase) batchFetch(ctx context.Context, secretIDs []string) BatchGetSecretValueOutput {
	var out BatchGetSecretValueOutput
	for _, id := range secretIDs {
		secret, version, err := s.GetSecretValue(ctx, GetSecretValueInput{SecretID: id})
		if err != nil {
			out.Errors = append(out.Errors, BatchGetSecretValueError{
				SecretID:  id,
				ErrorCode: errorCodeFor(err),
				Message:   err.Error(),
			})
			continue
		}
		out.Values = append(out.Values, BatchGetSecretValueResult{Secret: secret, Version: version})
	}
	return out
}

func errorCodeFor(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "ResourceNotFoundException"
	case apperrors.Is(err, apperrors.ErrConflict):
		return "ResourceExistsException"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return "InvalidRequestException"
	default:
		return "InternalFailure"
	}
}
