package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateSecretRequest_Validate_NameLength(t *testing.T) {
	t.Run("512 chars is accepted", func(t *testing.T) {
		req := &CreateSecretRequest{Name: strings.Repeat("a", 512)}
		assert.NoError(t, req.Validate())
	})

	t.Run("300 chars is accepted", func(t *testing.T) {
		req := &CreateSecretRequest{Name: strings.Repeat("a", 300)}
		assert.NoError(t, req.Validate())
	})

	t.Run("513 chars is rejected", func(t *testing.T) {
		req := &CreateSecretRequest{Name: strings.Repeat("a", 513)}
		assert.Error(t, req.Validate())
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		req := &CreateSecretRequest{Name: ""}
		assert.Error(t, req.Validate())
	})
}

func TestCreateSecretRequest_Validate_NamePattern(t *testing.T) {
	t.Run("allowed characters accepted", func(t *testing.T) {
		req := &CreateSecretRequest{Name: "prod/db_password-1.2+3=4@account"}
		assert.NoError(t, req.Validate())
	})

	t.Run("spaces rejected", func(t *testing.T) {
		req := &CreateSecretRequest{Name: "my secret"}
		assert.Error(t, req.Validate())
	})

	t.Run("other punctuation rejected", func(t *testing.T) {
		req := &CreateSecretRequest{Name: "my!secret"}
		assert.Error(t, req.Validate())
	})
}

func TestGetRandomPasswordRequest_Validate_PasswordLength(t *testing.T) {
	t.Run("unspecified (zero) is accepted", func(t *testing.T) {
		req := &GetRandomPasswordRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("below minimum is rejected", func(t *testing.T) {
		req := &GetRandomPasswordRequest{PasswordLength: 3}
		assert.Error(t, req.Validate())
	})

	t.Run("minimum is accepted", func(t *testing.T) {
		req := &GetRandomPasswordRequest{PasswordLength: 4}
		assert.NoError(t, req.Validate())
	})

	t.Run("maximum is accepted", func(t *testing.T) {
		req := &GetRandomPasswordRequest{PasswordLength: 4096}
		assert.NoError(t, req.Validate())
	})

	t.Run("above maximum is rejected", func(t *testing.T) {
		req := &GetRandomPasswordRequest{PasswordLength: 4097}
		assert.Error(t, req.Validate())
	})
}

func TestGetRandomPasswordRequest_ToInput_RequireEachIncludedTypeDefaultsTrue(t *testing.T) {
	t.Run("omitted defaults to true", func(t *testing.T) {
		req := &GetRandomPasswordRequest{}
		assert.True(t, req.ToInput().RequireEachIncludedType)
	})

	t.Run("explicit false is honored", func(t *testing.T) {
		f := false
		req := &GetRandomPasswordRequest{RequireEachIncludedType: &f}
		assert.False(t, req.ToInput().RequireEachIncludedType)
	})

	t.Run("explicit true is honored", func(t *testing.T) {
		tr := true
		req := &GetRandomPasswordRequest{RequireEachIncludedType: &tr}
		assert.True(t, req.ToInput().RequireEachIncludedType)
	})
}
