// Package dto provides the wire-shaped request/response structs for the
// signed secrets API, matching AWS Secrets Manager's field casing so
// existing SDK clients decode them without modification.
package dto

import (
	"encoding/base64"
	"regexp"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/secretsmanager/internal/validation"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/secrets/repository"
	"github.com/allisson/secretsmanager/internal/secrets/usecase"
)

// Tag mirrors AWS's {Key, Value} tag shape.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// secretNamePattern is the allowed character set for a secret name.
var secretNamePattern = regexp.MustCompile(`^[A-Za-z0-9/_+=.@-]+$`)

func toDomainTags(tags []Tag) []domain.Tag {
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, domain.Tag{Key: t.Key, Value: t.Value})
	}
	return out
}

// Filter mirrors AWS's ListSecrets/BatchGetSecretValue {Key, Values} filter
// shape. Key is one of name, description, tag-key, tag-value, all.
type Filter struct {
	Key    string   `json:"Key"`
	Values []string `json:"Values"`
}

func toListFilter(filters []Filter, includeDeleted bool) repository.ListFilter {
	lf := repository.ListFilter{IncludeDeleted: includeDeleted}
	for _, f := range filters {
		switch f.Key {
		case "name":
			lf.Name = append(lf.Name, f.Values...)
		case "description":
			lf.Description = append(lf.Description, f.Values...)
		case "tag-key":
			lf.TagKey = append(lf.TagKey, f.Values...)
		case "tag-value":
			lf.TagValue = append(lf.TagValue, f.Values...)
		case "all":
			lf.All = append(lf.All, f.Values...)
		}
	}
	return lf
}

func decodeBinary(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// CreateSecretRequest is the CreateSecret action body.
type CreateSecretRequest struct {
	Name               string `json:"Name"`
	Description        string `json:"Description"`
	KmsKeyId           string `json:"KmsKeyId"`
	SecretString       string `json:"SecretString"`
	SecretBinary       string `json:"SecretBinary"`
	ClientRequestToken string `json:"ClientRequestToken"`
	Tags               []Tag  `json:"Tags"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank, validation.Length(1, 512), validation.Match(secretNamePattern)),
		validation.Field(&r.SecretBinary, customValidation.Base64),
	)
}

// ToInput converts the request into the usecase's CreateSecretInput.
func (r *CreateSecretRequest) ToInput() (usecase.CreateSecretInput, error) {
	binary, err := decodeBinary(r.SecretBinary)
	if err != nil {
		return usecase.CreateSecretInput{}, err
	}
	in := usecase.CreateSecretInput{
		Name:               r.Name,
		Description:        r.Description,
		KmsKeyID:           r.KmsKeyId,
		SecretBinary:       binary,
		ClientRequestToken: r.ClientRequestToken,
		Tags:               toDomainTags(r.Tags),
	}
	if r.SecretString != "" {
		in.SecretString = &r.SecretString
	}
	return in, nil
}

// GetSecretValueRequest is the GetSecretValue action body.
type GetSecretValueRequest struct {
	SecretId     string `json:"SecretId"`
	VersionId    string `json:"VersionId"`
	VersionStage string `json:"VersionStage"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *GetSecretValueRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
	)
}

// ToInput converts the request into the usecase's GetSecretValueInput.
func (r *GetSecretValueRequest) ToInput() usecase.GetSecretValueInput {
	return usecase.GetSecretValueInput{
		SecretID:     r.SecretId,
		VersionID:    r.VersionId,
		VersionStage: r.VersionStage,
	}
}

// PutSecretValueRequest is the PutSecretValue action body.
type PutSecretValueRequest struct {
	SecretId           string   `json:"SecretId"`
	SecretString       string   `json:"SecretString"`
	SecretBinary       string   `json:"SecretBinary"`
	ClientRequestToken string   `json:"ClientRequestToken"`
	VersionStages      []string `json:"VersionStages"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *PutSecretValueRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
		validation.Field(&r.SecretBinary, customValidation.Base64),
	)
}

// ToInput converts the request into the usecase's PutSecretValueInput.
func (r *PutSecretValueRequest) ToInput() (usecase.PutSecretValueInput, error) {
	binary, err := decodeBinary(r.SecretBinary)
	if err != nil {
		return usecase.PutSecretValueInput{}, err
	}
	in := usecase.PutSecretValueInput{
		SecretID:           r.SecretId,
		SecretBinary:       binary,
		ClientRequestToken: r.ClientRequestToken,
		VersionStages:      r.VersionStages,
	}
	if r.SecretString != "" {
		in.SecretString = &r.SecretString
	}
	return in, nil
}

// UpdateSecretRequest is the UpdateSecret action body.
type UpdateSecretRequest struct {
	SecretId           string `json:"SecretId"`
	Description        *string `json:"Description"`
	KmsKeyId           *string `json:"KmsKeyId"`
	SecretString       string  `json:"SecretString"`
	SecretBinary       string  `json:"SecretBinary"`
	ClientRequestToken string  `json:"ClientRequestToken"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *UpdateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
		validation.Field(&r.SecretBinary, customValidation.Base64),
	)
}

// ToInput converts the request into the usecase's UpdateSecretInput.
func (r *UpdateSecretRequest) ToInput() (usecase.UpdateSecretInput, error) {
	binary, err := decodeBinary(r.SecretBinary)
	if err != nil {
		return usecase.UpdateSecretInput{}, err
	}
	in := usecase.UpdateSecretInput{
		SecretID:           r.SecretId,
		Description:        r.Description,
		KmsKeyID:           r.KmsKeyId,
		SecretBinary:       binary,
		ClientRequestToken: r.ClientRequestToken,
		HasValue:           r.SecretString != "" || r.SecretBinary != "",
	}
	if r.SecretString != "" {
		in.SecretString = &r.SecretString
	}
	return in, nil
}

// DeleteSecretRequest is the DeleteSecret action body.
type DeleteSecretRequest struct {
	SecretId                   string `json:"SecretId"`
	RecoveryWindowInDays       *int   `json:"RecoveryWindowInDays"`
	ForceDeleteWithoutRecovery bool   `json:"ForceDeleteWithoutRecovery"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *DeleteSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
	)
}

// ToInput converts the request into the usecase's DeleteSecretInput.
func (r *DeleteSecretRequest) ToInput() usecase.DeleteSecretInput {
	return usecase.DeleteSecretInput{
		SecretID:                   r.SecretId,
		RecoveryWindowInDays:       r.RecoveryWindowInDays,
		ForceDeleteWithoutRecovery: r.ForceDeleteWithoutRecovery,
	}
}

// RestoreSecretRequest is the RestoreSecret action body.
type RestoreSecretRequest struct {
	SecretId string `json:"SecretId"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *RestoreSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
	)
}

// DescribeSecretRequest is the DescribeSecret action body.
type DescribeSecretRequest struct {
	SecretId string `json:"SecretId"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *DescribeSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
	)
}

// ListSecretsRequest is the ListSecrets action body.
type ListSecretsRequest struct {
	MaxResults     int      `json:"MaxResults"`
	NextToken      string   `json:"NextToken"`
	SortOrder      string   `json:"SortOrder"`
	Filters        []Filter `json:"Filters"`
	IncludeDeleted bool     `json:"IncludeDeleted"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *ListSecretsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SortOrder, validation.In("", "asc", "desc")),
		validation.Field(&r.MaxResults, validation.Min(0)),
	)
}

// ToInput converts the request into the usecase's ListSecretsInput.
func (r *ListSecretsRequest) ToInput() usecase.ListSecretsInput {
	sortOrder := r.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	return usecase.ListSecretsInput{
		Filter:     toListFilter(r.Filters, r.IncludeDeleted),
		MaxResults: r.MaxResults,
		NextToken:  r.NextToken,
		SortOrder:  sortOrder,
	}
}

// ListSecretVersionIdsRequest is the ListSecretVersionIds action body.
type ListSecretVersionIdsRequest struct {
	SecretId          string `json:"SecretId"`
	MaxResults        int    `json:"MaxResults"`
	NextToken         string `json:"NextToken"`
	IncludeDeprecated bool   `json:"IncludeDeprecated"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *ListSecretVersionIdsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
		validation.Field(&r.MaxResults, validation.Min(0)),
	)
}

// ToInput converts the request into the usecase's ListSecretVersionIdsInput.
func (r *ListSecretVersionIdsRequest) ToInput() usecase.ListSecretVersionIdsInput {
	return usecase.ListSecretVersionIdsInput{
		SecretID:          r.SecretId,
		MaxResults:        r.MaxResults,
		NextToken:         r.NextToken,
		IncludeDeprecated: r.IncludeDeprecated,
	}
}

// BatchGetSecretValueRequest is the BatchGetSecretValue action body.
type BatchGetSecretValueRequest struct {
	SecretIdList []string `json:"SecretIdList"`
	Filters      []Filter `json:"Filters"`
	MaxResults   int      `json:"MaxResults"`
	NextToken    string   `json:"NextToken"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *BatchGetSecretValueRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretIdList, validation.Length(0, 20)),
		validation.Field(&r.MaxResults, validation.Min(0)),
	)
}

// ToInput converts the request into the usecase's BatchGetSecretValueInput.
func (r *BatchGetSecretValueRequest) ToInput() usecase.BatchGetSecretValueInput {
	in := usecase.BatchGetSecretValueInput{
		SecretIDList: r.SecretIdList,
		MaxResults:   r.MaxResults,
		NextToken:    r.NextToken,
	}
	if len(r.Filters) > 0 {
		filter := toListFilter(r.Filters, false)
		in.Filter = &filter
	}
	return in
}

// UpdateSecretVersionStageRequest is the UpdateSecretVersionStage action body.
type UpdateSecretVersionStageRequest struct {
	SecretId            string `json:"SecretId"`
	VersionStage        string `json:"VersionStage"`
	RemoveFromVersionId string `json:"RemoveFromVersionId"`
	MoveToVersionId     string `json:"MoveToVersionId"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *UpdateSecretVersionStageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
		validation.Field(&r.VersionStage, validation.Required, customValidation.NotBlank),
	)
}

// ToInput converts the request into the usecase's UpdateSecretVersionStageInput.
func (r *UpdateSecretVersionStageRequest) ToInput() usecase.UpdateSecretVersionStageInput {
	return usecase.UpdateSecretVersionStageInput{
		SecretID:            r.SecretId,
		VersionStage:        r.VersionStage,
		RemoveFromVersionID: r.RemoveFromVersionId,
		MoveToVersionID:     r.MoveToVersionId,
	}
}

// TagResourceRequest is the TagResource action body.
type TagResourceRequest struct {
	SecretId string `json:"SecretId"`
	Tags     []Tag  `json:"Tags"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *TagResourceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Tags, validation.Required),
	)
}

// UntagResourceRequest is the UntagResource action body.
type UntagResourceRequest struct {
	SecretId string   `json:"SecretId"`
	TagKeys  []string `json:"TagKeys"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *UntagResourceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretId, validation.Required, customValidation.NotBlank),
		validation.Field(&r.TagKeys, validation.Required),
	)
}

// GetRandomPasswordRequest is the GetRandomPassword action body.
type GetRandomPasswordRequest struct {
	PasswordLength          int    `json:"PasswordLength"`
	ExcludeCharacters       string `json:"ExcludeCharacters"`
	ExcludeLowercase        bool   `json:"ExcludeLowercase"`
	ExcludeUppercase        bool   `json:"ExcludeUppercase"`
	ExcludeNumbers          bool   `json:"ExcludeNumbers"`
	ExcludePunctuation      bool   `json:"ExcludePunctuation"`
	IncludeSpace            bool   `json:"IncludeSpace"`
	RequireEachIncludedType *bool  `json:"RequireEachIncludedType"`
}

// Validate checks the request is well-formed before it reaches the usecase.
func (r *GetRandomPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PasswordLength, customValidation.OptionalRange(4, 4096)),
	)
}

// ToInput converts the request into the usecase's GetRandomPasswordInput.
// RequireEachIncludedType defaults to true when the field is omitted.
func (r *GetRandomPasswordRequest) ToInput() usecase.GetRandomPasswordInput {
	requireEachIncludedType := true
	if r.RequireEachIncludedType != nil {
		requireEachIncludedType = *r.RequireEachIncludedType
	}
	return usecase.GetRandomPasswordInput{
		PasswordLength:          r.PasswordLength,
		ExcludeCharacters:       r.ExcludeCharacters,
		ExcludeLowercase:        r.ExcludeLowercase,
		ExcludeUppercase:        r.ExcludeUppercase,
		ExcludeNumbers:          r.ExcludeNumbers,
		ExcludePunctuation:      r.ExcludePunctuation,
		IncludeSpace:            r.IncludeSpace,
		RequireEachIncludedType: requireEachIncludedType,
	}
}
