package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/testutil"
)

func newTestRepo(t *testing.T) *SQLiteSecretRepository {
	t.Helper()
	db := testutil.OpenTestDB(t)
	return NewSQLiteSecretRepository(db)
}

func newTestSecret(name string) *domain.Secret {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Secret{
		ARN:             "arn:aws:secretsmanager:us-east-1:000000000000:secret:" + name + "-abcdef",
		Name:            name,
		Description:     "a test secret",
		CreatedAt:       now,
		LastChangedDate: now,
	}
}

func TestCreateSecret_AndGetByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := newTestSecret("my-secret")

	require.NoError(t, repo.CreateSecret(ctx, secret))

	got, err := repo.GetSecretByName(ctx, "my-secret")
	require.NoError(t, err)
	assert.Equal(t, secret.ARN, got.ARN)
	assert.Equal(t, secret.Description, got.Description)
	assert.False(t, got.IsDeleted())
}

func TestCreateSecret_DuplicateNameConflicts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateSecret(ctx, newTestSecret("dup")))
	err := repo.CreateSecret(ctx, newTestSecret("dup"))
	assert.ErrorIs(t, err, domain.ErrNameInUse)
}

func TestGetSecretByName_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetSecretByName(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestGetSecretByARN(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := newTestSecret("by-arn")
	require.NoError(t, repo.CreateSecret(ctx, secret))

	got, err := repo.GetSecretByARN(ctx, secret.ARN)
	require.NoError(t, err)
	assert.Equal(t, "by-arn", got.Name)
}

func TestUpdateSecretMetadata(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := newTestSecret("updatable")
	require.NoError(t, repo.CreateSecret(ctx, secret))

	secret.Description = "new description"
	secret.KmsKeyID = "alias/custom"
	secret.LastChangedDate = secret.LastChangedDate.Add(time.Minute)
	require.NoError(t, repo.UpdateSecretMetadata(ctx, secret))

	got, err := repo.GetSecretByName(ctx, "updatable")
	require.NoError(t, err)
	assert.Equal(t, "new description", got.Description)
	assert.Equal(t, "alias/custom", got.KmsKeyID)
}

func TestTouchLastAccessed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := newTestSecret("touched")
	require.NoError(t, repo.CreateSecret(ctx, secret))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastAccessed(ctx, secret.ARN, at))

	got, err := repo.GetSecretByARN(ctx, secret.ARN)
	require.NoError(t, err)
	require.NotNil(t, got.LastAccessedDate)
	assert.True(t, got.LastAccessedDate.Equal(at))
}

func TestSoftDeleteAndRestoreSecret(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := newTestSecret("deletable")
	require.NoError(t, repo.CreateSecret(ctx, secret))

	deletedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SoftDeleteSecret(ctx, secret.ARN, deletedAt, 30))

	got, err := repo.GetSecretByARN(ctx, secret.ARN)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted())
	require.NotNil(t, got.RecoveryWindowInDays)
	assert.Equal(t, 30, *got.RecoveryWindowInDays)

	require.NoError(t, repo.RestoreSecret(ctx, secret.ARN))

	got, err = repo.GetSecretByARN(ctx, secret.ARN)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted())
	assert.Nil(t, got.RecoveryWindowInDays)
}

func TestHardDeleteSecret(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := newTestSecret("gone")
	require.NoError(t, repo.CreateSecret(ctx, secret))

	require.NoError(t, repo.HardDeleteSecret(ctx, secret.ARN))

	_, err := repo.GetSecretByARN(ctx, secret.ARN)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestHardDeleteSecret_CascadesVersionsAndTags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	secret := newTestSecret("cascade")
	require.NoError(t, repo.CreateSecret(ctx, secret))
	require.NoError(t, repo.SetTag(ctx, secret.ARN, "env", "prod"))

	secretString := "payload"
	created, err := repo.CreateVersion(ctx, &domain.SecretVersion{
		SecretARN: secret.ARN, VersionID: "v1", SecretString: &secretString, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, repo.HardDeleteSecret(ctx, secret.ARN))

	versions, err := repo.ListVersions(ctx, secret.ARN, true)
	require.NoError(t, err)
	assert.Empty(t, versions)

	tags, err := repo.ListTags(ctx, secret.ARN)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
