package usecase

import (
	"context"

	"github.com/allisson/secretsmanager/internal/cryptoutil"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

const defaultPasswordLength = 32

// GetRandomPassword implements §4.3's GetRandomPassword semantics,
// delegating the character-class and rejection-sampling logic to
// cryptoutil and translating its sentinel errors to the domain vocabulary.
func (s *secretUseCase) GetRandomPassword(ctx context.Context, in GetRandomPasswordInput) (string, error) {
	length := in.PasswordLength
	if length == 0 {
		length = defaultPasswordLength
	}

	password, err := cryptoutil.GenerateRandomPassword(cryptoutil.PasswordOptions{
		Length:                  length,
		ExcludeCharacters:       in.ExcludeCharacters,
		ExcludeLowercase:        in.ExcludeLowercase,
		ExcludeUppercase:        in.ExcludeUppercase,
		ExcludeNumbers:          in.ExcludeNumbers,
		ExcludePunctuation:      in.ExcludePunctuation,
		IncludeSpace:            in.IncludeSpace,
		RequireEachIncludedType: in.RequireEachIncludedType,
	})
	if err != nil {
		return "", domain.ErrInvalidParameter
	}
	return password, nil
}
