package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

func createTestSecretFor(t *testing.T, repo *SQLiteSecretRepository, name string) *domain.Secret {
	t.Helper()
	secret := newTestSecret(name)
	require.NoError(t, repo.CreateSecret(context.Background(), secret))
	return secret
}

func TestCreateVersion_StringAndBinary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := createTestSecretFor(t, repo, "versioned")

	secretString := "hunter2"
	created, err := repo.CreateVersion(ctx, &domain.SecretVersion{
		SecretARN: secret.ARN, VersionID: "v1", SecretString: &secretString, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.True(t, created)

	got, err := repo.GetVersionByID(ctx, secret.ARN, "v1")
	require.NoError(t, err)
	require.NotNil(t, got.SecretString)
	assert.Equal(t, secretString, *got.SecretString)
	assert.Nil(t, got.SecretBinary)

	binary := []byte{0x01, 0x02, 0x03}
	created, err = repo.CreateVersion(ctx, &domain.SecretVersion{
		SecretARN: secret.ARN, VersionID: "v2", SecretBinary: binary, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.True(t, created)

	got, err = repo.GetVersionByID(ctx, secret.ARN, "v2")
	require.NoError(t, err)
	assert.Nil(t, got.SecretString)
	assert.Equal(t, binary, got.SecretBinary)
}

func TestCreateVersion_DuplicateIDIsNotCreated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := createTestSecretFor(t, repo, "idempotent")

	secretString := "v1-payload"
	created, err := repo.CreateVersion(ctx, &domain.SecretVersion{
		SecretARN: secret.ARN, VersionID: "v1", SecretString: &secretString, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.True(t, created)

	otherString := "different-payload"
	created, err = repo.CreateVersion(ctx, &domain.SecretVersion{
		SecretARN: secret.ARN, VersionID: "v1", SecretString: &otherString, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetVersionByID(ctx, secret.ARN, "v1")
	require.NoError(t, err)
	assert.Equal(t, secretString, *got.SecretString)
}

func TestGetVersionByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	secret := createTestSecretFor(t, repo, "empty")

	_, err := repo.GetVersionByID(context.Background(), secret.ARN, "missing")
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestStages_AddGetRemove(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := createTestSecretFor(t, repo, "staged")

	secretString := "v1"
	_, err := repo.CreateVersion(ctx, &domain.SecretVersion{
		SecretARN: secret.ARN, VersionID: "v1", SecretString: &secretString, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, repo.AddStage(ctx, secret.ARN, "v1", domain.StageAWSCURRENT))

	versionID, ok, err := repo.GetStageHolder(ctx, secret.ARN, domain.StageAWSCURRENT)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", versionID)

	got, err := repo.GetVersionByStage(ctx, secret.ARN, domain.StageAWSCURRENT)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.VersionID)
	assert.True(t, got.HasStage(domain.StageAWSCURRENT))

	require.NoError(t, repo.RemoveStageAny(ctx, secret.ARN, domain.StageAWSCURRENT))

	_, ok, err = repo.GetStageHolder(ctx, secret.ARN, domain.StageAWSCURRENT)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddStage_MovesStageBetweenVersions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := createTestSecretFor(t, repo, "moving-stage")

	s1, s2 := "v1", "v2"
	_, err := repo.CreateVersion(ctx, &domain.SecretVersion{SecretARN: secret.ARN, VersionID: "v1", SecretString: &s1, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = repo.CreateVersion(ctx, &domain.SecretVersion{SecretARN: secret.ARN, VersionID: "v2", SecretString: &s2, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, repo.AddStage(ctx, secret.ARN, "v1", domain.StageAWSCURRENT))
	require.NoError(t, repo.RemoveStageAny(ctx, secret.ARN, domain.StageAWSCURRENT))
	require.NoError(t, repo.AddStage(ctx, secret.ARN, "v2", domain.StageAWSCURRENT))

	versionID, ok, err := repo.GetStageHolder(ctx, secret.ARN, domain.StageAWSCURRENT)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", versionID)
}

func TestListVersions_ExcludesUnstagedUnlessIncludeDeprecated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := createTestSecretFor(t, repo, "listed")

	s1, s2 := "v1", "v2"
	_, err := repo.CreateVersion(ctx, &domain.SecretVersion{SecretARN: secret.ARN, VersionID: "v1", SecretString: &s1, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = repo.CreateVersion(ctx, &domain.SecretVersion{SecretARN: secret.ARN, VersionID: "v2", SecretString: &s2, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, repo.AddStage(ctx, secret.ARN, "v1", domain.StageAWSCURRENT))

	staged, err := repo.ListVersions(ctx, secret.ARN, false)
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, "v1", staged[0].VersionID)

	all, err := repo.ListVersions(ctx, secret.ARN, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
