package cryptoutil

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	lowercaseChars  = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars     = "0123456789"
	punctuationChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	spaceChar       = " "

	maxRequireEachTypeAttempts = 1000
)

// ErrEmptyCharSet is returned when every character class has been excluded,
// leaving no alphabet to draw from.
var ErrEmptyCharSet = fmt.Errorf("the set of allowed characters is empty")

// ErrEmptyTypeSet is returned when RequireEachIncludedType is set but an
// included class became empty after ExcludeCharacters was subtracted.
var ErrEmptyTypeSet = fmt.Errorf("an included character type has no remaining characters")

// ErrLengthTooShort is returned when PasswordLength is smaller than the
// number of character classes that must each be represented.
var ErrLengthTooShort = fmt.Errorf("password length is shorter than the number of required character types")

// ErrRequireEachTypeExhausted is returned when RequireEachIncludedType could
// not be satisfied within the retry budget.
var ErrRequireEachTypeExhausted = fmt.Errorf("could not generate a password satisfying every required character type")

// PasswordOptions configures GetRandomPassword's character-class selection.
type PasswordOptions struct {
	Length                  int
	ExcludeCharacters       string
	ExcludeLowercase        bool
	ExcludeUppercase        bool
	ExcludeNumbers          bool
	ExcludePunctuation      bool
	IncludeSpace            bool
	RequireEachIncludedType bool
}

// GenerateRandomPassword draws a password from the character classes left
// after excluding any requested class and any individually excluded
// character, using rejection sampling against crypto/rand so the result is
// never modulo-biased. If RequireEachIncludedType is set, it retries (up to
// maxRequireEachTypeAttempts times) until every included class appears at
// least once.
func GenerateRandomPassword(opts PasswordOptions) (string, error) {
	typeSets := buildTypeSets(opts)

	allowed := make([]rune, 0)
	seen := make(map[rune]bool)
	for _, set := range typeSets {
		for _, r := range set {
			if !seen[r] {
				seen[r] = true
				allowed = append(allowed, r)
			}
		}
	}
	if len(allowed) == 0 {
		return "", ErrEmptyCharSet
	}

	if !opts.RequireEachIncludedType {
		return drawUniform(allowed, opts.Length)
	}

	if opts.Length < len(typeSets) {
		return "", ErrLengthTooShort
	}
	for _, set := range typeSets {
		if len(set) == 0 {
			return "", ErrEmptyTypeSet
		}
	}

	for attempt := 0; attempt < maxRequireEachTypeAttempts; attempt++ {
		candidate, err := drawWithEachType(allowed, typeSets, opts.Length)
		if err != nil {
			return "", err
		}
		if satisfiesEveryType(candidate, typeSets) {
			return candidate, nil
		}
	}
	return "", ErrRequireEachTypeExhausted
}

func buildTypeSets(opts PasswordOptions) [][]rune {
	excluded := make(map[rune]bool)
	for _, r := range opts.ExcludeCharacters {
		excluded[r] = true
	}

	filter := func(class string) []rune {
		out := make([]rune, 0, len(class))
		for _, r := range class {
			if !excluded[r] {
				out = append(out, r)
			}
		}
		return out
	}

	var sets [][]rune
	if !opts.ExcludeLowercase {
		sets = append(sets, filter(lowercaseChars))
	}
	if !opts.ExcludeUppercase {
		sets = append(sets, filter(uppercaseChars))
	}
	if !opts.ExcludeNumbers {
		sets = append(sets, filter(numberChars))
	}
	if !opts.ExcludePunctuation {
		sets = append(sets, filter(punctuationChars))
	}
	if opts.IncludeSpace && !excluded[' '] {
		sets = append(sets, filter(spaceChar))
	}
	return sets
}

func drawUniform(allowed []rune, length int) (string, error) {
	out := make([]rune, length)
	for i := range out {
		r, err := rejectionSample(allowed)
		if err != nil {
			return "", err
		}
		out[i] = r
	}
	return string(out), nil
}

func drawWithEachType(allowed []rune, typeSets [][]rune, length int) (string, error) {
	out := make([]rune, length)
	for i, set := range typeSets {
		r, err := rejectionSample(set)
		if err != nil {
			return "", err
		}
		out[i] = r
	}
	for i := len(typeSets); i < length; i++ {
		r, err := rejectionSample(allowed)
		if err != nil {
			return "", err
		}
		out[i] = r
	}
	shuffle(out)
	return string(out), nil
}

func satisfiesEveryType(candidate string, typeSets [][]rune) bool {
	present := make(map[rune]bool, len(candidate))
	for _, r := range candidate {
		present[r] = true
	}
	for _, set := range typeSets {
		found := false
		for _, r := range set {
			if present[r] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// rejectionSample picks a uniformly random element of alphabet using
// crypto/rand, rejecting draws that would otherwise require modulo bias.
func rejectionSample(alphabet []rune) (rune, error) {
	if len(alphabet) == 0 {
		return 0, ErrEmptyTypeSet
	}
	n := big.NewInt(int64(len(alphabet)))
	idx, err := rand.Int(rand.Reader, n)
	if err != nil {
		return 0, fmt.Errorf("failed to draw random index: %w", err)
	}
	return alphabet[idx.Int64()], nil
}

// shuffle performs an unbiased Fisher-Yates shuffle using crypto/rand.
func shuffle(out []rune) {
	for i := len(out) - 1; i > 0; i-- {
		n := big.NewInt(int64(i + 1))
		j, err := rand.Int(rand.Reader, n)
		if err != nil {
			// rand.Reader failures are only possible if the OS entropy
			// source is broken; leaving the remaining order untouched is
			// preferable to panicking inside a password generator.
			continue
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
}
