package dto

import (
	"encoding/base64"
	"time"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/secrets/usecase"
)

func epoch(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func epochPtr(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	v := epoch(*t)
	return &v
}

func fromDomainTags(tags []domain.Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, Tag{Key: t.Key, Value: t.Value})
	}
	return out
}

func encodeBinary(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// CreateSecretResponse is the CreateSecret action's response body.
type CreateSecretResponse struct {
	ARN       string `json:"ARN"`
	Name      string `json:"Name"`
	VersionId string `json:"VersionId"`
}

// NewCreateSecretResponse builds the wire response from the domain results.
func NewCreateSecretResponse(secret *domain.Secret, version *domain.SecretVersion) CreateSecretResponse {
	return CreateSecretResponse{ARN: secret.ARN, Name: secret.Name, VersionId: version.VersionID}
}

// PutSecretValueResponse is the PutSecretValue action's response body.
type PutSecretValueResponse struct {
	ARN           string   `json:"ARN"`
	Name          string   `json:"Name"`
	VersionId     string   `json:"VersionId"`
	VersionStages []string `json:"VersionStages"`
}

// NewPutSecretValueResponse builds the wire response from the domain results.
func NewPutSecretValueResponse(secret *domain.Secret, version *domain.SecretVersion) PutSecretValueResponse {
	return PutSecretValueResponse{ARN: secret.ARN, Name: secret.Name, VersionId: version.VersionID, VersionStages: version.Stages}
}

// UpdateSecretResponse is the UpdateSecret action's response body.
type UpdateSecretResponse struct {
	ARN       string `json:"ARN"`
	Name      string `json:"Name"`
	VersionId string `json:"VersionId,omitempty"`
}

// NewUpdateSecretResponse builds the wire response from the domain results.
func NewUpdateSecretResponse(secret *domain.Secret, version *domain.SecretVersion) UpdateSecretResponse {
	resp := UpdateSecretResponse{ARN: secret.ARN, Name: secret.Name}
	if version != nil {
		resp.VersionId = version.VersionID
	}
	return resp
}

// GetSecretValueResponse is the GetSecretValue action's response body.
type GetSecretValueResponse struct {
	ARN           string   `json:"ARN"`
	Name          string   `json:"Name"`
	VersionId     string   `json:"VersionId"`
	SecretString  string   `json:"SecretString,omitempty"`
	SecretBinary  string   `json:"SecretBinary,omitempty"`
	VersionStages []string `json:"VersionStages"`
	CreatedDate   float64  `json:"CreatedDate"`
}

// NewGetSecretValueResponse builds the wire response from the domain results.
func NewGetSecretValueResponse(secret *domain.Secret, version *domain.SecretVersion) GetSecretValueResponse {
	resp := GetSecretValueResponse{
		ARN:           secret.ARN,
		Name:          secret.Name,
		VersionId:     version.VersionID,
		VersionStages: version.Stages,
		CreatedDate:   epoch(version.CreatedAt),
		SecretBinary:  encodeBinary(version.SecretBinary),
	}
	if version.SecretString != nil {
		resp.SecretString = *version.SecretString
	}
	return resp
}

// DeleteSecretResponse is the DeleteSecret action's response body.
type DeleteSecretResponse struct {
	ARN          string   `json:"ARN"`
	Name         string   `json:"Name"`
	DeletionDate *float64 `json:"DeletionDate,omitempty"`
}

// NewDeleteSecretResponse builds the wire response from the domain results.
func NewDeleteSecretResponse(secret *domain.Secret) DeleteSecretResponse {
	return DeleteSecretResponse{ARN: secret.ARN, Name: secret.Name, DeletionDate: epochPtr(secret.DeletedAt)}
}

// RestoreSecretResponse is the RestoreSecret action's response body.
type RestoreSecretResponse struct {
	ARN  string `json:"ARN"`
	Name string `json:"Name"`
}

// NewRestoreSecretResponse builds the wire response from the domain results.
func NewRestoreSecretResponse(secret *domain.Secret) RestoreSecretResponse {
	return RestoreSecretResponse{ARN: secret.ARN, Name: secret.Name}
}

// DescribeSecretResponse is the DescribeSecret action's response body.
type DescribeSecretResponse struct {
	ARN                  string              `json:"ARN"`
	Name                 string              `json:"Name"`
	Description          string              `json:"Description,omitempty"`
	KmsKeyId             string              `json:"KmsKeyId,omitempty"`
	CreatedDate          float64             `json:"CreatedDate"`
	DeletedDate          *float64            `json:"DeletedDate,omitempty"`
	LastAccessedDate     *float64            `json:"LastAccessedDate,omitempty"`
	LastChangedDate      float64             `json:"LastChangedDate"`
	RecoveryWindowInDays *int                `json:"RecoveryWindowInDays,omitempty"`
	Tags                 []Tag               `json:"Tags,omitempty"`
	VersionIdsToStages   map[string][]string `json:"VersionIdsToStages,omitempty"`
}

// NewDescribeSecretResponse builds the wire response from the domain results.
func NewDescribeSecretResponse(secret *domain.Secret, versions []*domain.SecretVersion) DescribeSecretResponse {
	stages := make(map[string][]string, len(versions))
	for _, v := range versions {
		if len(v.Stages) > 0 {
			stages[v.VersionID] = v.Stages
		}
	}
	return DescribeSecretResponse{
		ARN:                  secret.ARN,
		Name:                 secret.Name,
		Description:          secret.Description,
		KmsKeyId:             secret.KmsKeyID,
		CreatedDate:          epoch(secret.CreatedAt),
		DeletedDate:          epochPtr(secret.DeletedAt),
		LastAccessedDate:     epochPtr(secret.LastAccessedDate),
		LastChangedDate:      epoch(secret.LastChangedDate),
		RecoveryWindowInDays: secret.RecoveryWindowInDays,
		Tags:                 fromDomainTags(secret.Tags),
		VersionIdsToStages:   stages,
	}
}

// SecretListEntry is one row of ListSecrets' SecretList.
type SecretListEntry struct {
	ARN              string   `json:"ARN"`
	Name             string   `json:"Name"`
	Description      string   `json:"Description,omitempty"`
	Tags             []Tag    `json:"Tags,omitempty"`
	DeletedDate      *float64 `json:"DeletedDate,omitempty"`
	LastChangedDate  float64  `json:"LastChangedDate"`
	LastAccessedDate *float64 `json:"LastAccessedDate,omitempty"`
}

// ListSecretsResponse is the ListSecrets action's response body.
type ListSecretsResponse struct {
	SecretList []SecretListEntry `json:"SecretList"`
	NextToken  string            `json:"NextToken,omitempty"`
}

// NewListSecretsResponse builds the wire response from the usecase output.
func NewListSecretsResponse(out usecase.ListSecretsOutput) ListSecretsResponse {
	entries := make([]SecretListEntry, 0, len(out.Secrets))
	for _, s := range out.Secrets {
		entries = append(entries, SecretListEntry{
			ARN:              s.ARN,
			Name:             s.Name,
			Description:      s.Description,
			Tags:             fromDomainTags(s.Tags),
			DeletedDate:      epochPtr(s.DeletedAt),
			LastChangedDate:  epoch(s.LastChangedDate),
			LastAccessedDate: epochPtr(s.LastAccessedDate),
		})
	}
	return ListSecretsResponse{SecretList: entries, NextToken: out.NextToken}
}

// SecretVersionsListEntry is one row of ListSecretVersionIds' Versions.
type SecretVersionsListEntry struct {
	VersionId        string   `json:"VersionId"`
	VersionStages    []string `json:"VersionStages,omitempty"`
	CreatedDate      float64  `json:"CreatedDate"`
}

// ListSecretVersionIdsResponse is the ListSecretVersionIds action's response body.
type ListSecretVersionIdsResponse struct {
	ARN       string                    `json:"ARN"`
	Name      string                    `json:"Name"`
	Versions  []SecretVersionsListEntry `json:"Versions"`
	NextToken string                    `json:"NextToken,omitempty"`
}

// NewListSecretVersionIdsResponse builds the wire response from the domain results.
func NewListSecretVersionIdsResponse(secret *domain.Secret, out usecase.ListSecretVersionIdsOutput) ListSecretVersionIdsResponse {
	entries := make([]SecretVersionsListEntry, 0, len(out.Versions))
	for _, v := range out.Versions {
		entries = append(entries, SecretVersionsListEntry{
			VersionId:     v.VersionID,
			VersionStages: v.Stages,
			CreatedDate:   epoch(v.CreatedAt),
		})
	}
	return ListSecretVersionIdsResponse{ARN: secret.ARN, Name: secret.Name, Versions: entries, NextToken: out.NextToken}
}

// BatchGetSecretValueErrorEntry mirrors AWS's APIErrorType.
type BatchGetSecretValueErrorEntry struct {
	SecretId  string `json:"SecretId"`
	ErrorCode string `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// BatchGetSecretValueResponse is the BatchGetSecretValue action's response body.
type BatchGetSecretValueResponse struct {
	SecretValues []GetSecretValueResponse       `json:"SecretValues"`
	Errors       []BatchGetSecretValueErrorEntry `json:"Errors,omitempty"`
	NextToken    string                          `json:"NextToken,omitempty"`
}

// NewBatchGetSecretValueResponse builds the wire response from the usecase output.
func NewBatchGetSecretValueResponse(out usecase.BatchGetSecretValueOutput) BatchGetSecretValueResponse {
	values := make([]GetSecretValueResponse, 0, len(out.Values))
	for _, v := range out.Values {
		values = append(values, NewGetSecretValueResponse(v.Secret, v.Version))
	}
	errs := make([]BatchGetSecretValueErrorEntry, 0, len(out.Errors))
	for _, e := range out.Errors {
		errs = append(errs, BatchGetSecretValueErrorEntry{SecretId: e.SecretID, ErrorCode: e.ErrorCode, Message: e.Message})
	}
	return BatchGetSecretValueResponse{SecretValues: values, Errors: errs, NextToken: out.NextToken}
}

// UpdateSecretVersionStageResponse is the UpdateSecretVersionStage action's response body.
type UpdateSecretVersionStageResponse struct {
	ARN  string `json:"ARN"`
	Name string `json:"Name"`
}

// NewUpdateSecretVersionStageResponse builds the wire response from the domain results.
func NewUpdateSecretVersionStageResponse(secret *domain.Secret) UpdateSecretVersionStageResponse {
	return UpdateSecretVersionStageResponse{ARN: secret.ARN, Name: secret.Name}
}

// GetRandomPasswordResponse is the GetRandomPassword action's response body.
type GetRandomPasswordResponse struct {
	RandomPassword string `json:"RandomPassword"`
}
