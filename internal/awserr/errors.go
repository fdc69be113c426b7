// Package awserr maps internal errors onto the AWS Secrets Manager wire
// error taxonomy: an exact `__type` string plus an HTTP status code, mirrored
// into both the JSON body and the `x-amzn-errortype` response header so
// AWS SDK clients can match on either.
package awserr

import "net/http"

// Type names the wire-level __type for an error response.
type Type string

const (
	ResourceNotFoundException     Type = "ResourceNotFoundException"
	ResourceExistsException       Type = "ResourceExistsException"
	InvalidRequestException       Type = "InvalidRequestException"
	InvalidParameterException     Type = "InvalidParameterException"
	InvalidNextTokenException     Type = "InvalidNextTokenException"
	ValidationException           Type = "ValidationException"
	SerializationException        Type = "SerializationException"
	UnknownOperationException     Type = "UnknownOperationException"
	MissingAuthenticationToken    Type = "MissingAuthenticationToken"
	IncompleteSignature           Type = "IncompleteSignature"
	InvalidClientTokenId          Type = "InvalidClientTokenId"
	SignatureDoesNotMatch         Type = "SignatureDoesNotMatch"
	InternalFailure               Type = "InternalFailure"
)

// Error is a typed, wire-ready AWS-style error.
type Error struct {
	Type    Type
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New constructs an Error of the given type with message.
func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

// StatusCode returns the HTTP status this error type maps to.
//
// Authentication failures map to 403 except MissingAuthenticationToken,
// which maps to 400, matching real AWS behavior. Every other named
// business/validation error maps to 400; InternalFailure maps to 500.
func (t Type) StatusCode() int {
	switch t {
	case InvalidClientTokenId, SignatureDoesNotMatch, IncompleteSignature:
		return http.StatusForbidden
	case InternalFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// defaultMessages mirrors the canonical AWS wording for each error type so
// clients that display raw messages see the expected text.
var defaultMessages = map[Type]string{
	InvalidClientTokenId:        "The security token included in the request is invalid.",
	SignatureDoesNotMatch:       "The request signature we calculated does not match the signature you provided. Check your AWS Secret Access Key and signing method.",
	MissingAuthenticationToken:  "Missing Authentication Token",
	IncompleteSignature:         "The request signature does not conform to AWS standards.",
	ResourceNotFoundException:   "Secrets Manager can't find the resource that you asked for.",
	ResourceExistsException:     "A resource with the ID you requested already exists.",
	InvalidRequestException:     "A parameter value is not valid for the current state of the resource.",
	InvalidParameterException:   "The parameter name or value is invalid.",
	InvalidNextTokenException:   "The NextToken value is invalid.",
	ValidationException:        "1 validation error detected.",
	SerializationException:      "The request body could not be parsed.",
	UnknownOperationException:   "The requested operation is not recognized.",
	InternalFailure:             "An internal error occurred.",
}

// Newf builds an Error using the canonical default message for t.
func Newf(t Type) *Error {
	return &Error{Type: t, Message: defaultMessages[t]}
}

// WithMessage returns a copy of the canonical error with a custom message.
func WithMessage(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}
