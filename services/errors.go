// Package services defines the shared error taxonomy for the RAG pipeline.
//
// Pipeline stage failures (embedding, retrieval, generation) are external
// dependency errors: they are never retried here and surface to the caller
// with the failing stage identified. Validation findings are not errors at
// all — they travel inside validation.Result.
package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeEmbedding     ErrorType = "embedding"
	ErrorTypeRetrieval     ErrorType = "retrieval"
	ErrorTypeGeneration    ErrorType = "generation"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
)

// DomainError represents a structured error with additional context.
// Stage names the pipeline stage that failed, when applicable.
type DomainError struct {
	Type    ErrorType
	Stage   string
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Stage:   string(errType),
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	ErrEmbeddingFailed  = NewDomainError(ErrorTypeEmbedding, "embedding provider call failed", nil)
	ErrRetrievalFailed  = NewDomainError(ErrorTypeRetrieval, "vector search failed", nil)
	ErrGenerationFailed = NewDomainError(ErrorTypeGeneration, "completion provider call failed", nil)
	ErrEmptyCompletion  = NewDomainError(ErrorTypeGeneration, "completion provider returned no choices", nil)

	ErrEmptyQuestion  = NewDomainError(ErrorTypeValidation, "question cannot be empty", nil)
	ErrUnknownTier    = NewDomainError(ErrorTypeConfiguration, "unknown complexity tier", nil)
	ErrInvalidTopK    = NewDomainError(ErrorTypeConfiguration, "top_k must be positive", nil)
	ErrMissingAPIKey  = NewDomainError(ErrorTypeConfiguration, "provider API key not configured", nil)
	ErrIndexUnhealthy = NewDomainError(ErrorTypeRetrieval, "vector index is not reachable", nil)
)

// Error type checking helper functions

// IsEmbeddingError checks if an error came from the embedding stage
func IsEmbeddingError(err error) bool {
	return hasType(err, ErrorTypeEmbedding)
}

// IsRetrievalError checks if an error came from the retrieval stage
func IsRetrievalError(err error) bool {
	return hasType(err, ErrorTypeRetrieval)
}

// IsGenerationError checks if an error came from the generation stage
func IsGenerationError(err error) bool {
	return hasType(err, ErrorTypeGeneration)
}

// IsValidationError checks if an error is an input validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return hasType(err, ErrorTypeConfiguration)
}

func hasType(err error, errType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errType
	}
	return false
}

// FailingStage returns the pipeline stage recorded on a domain error,
// or empty string if err is not a domain error.
func FailingStage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Stage
	}
	return ""
}

// WrapError wraps an error with a stage-typed domain error
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapEmbedding wraps an error as an embedding stage failure
func WrapEmbedding(message string, err error) error {
	return NewDomainError(ErrorTypeEmbedding, message, err)
}

// WrapRetrieval wraps an error as a retrieval stage failure
func WrapRetrieval(message string, err error) error {
	return NewDomainError(ErrorTypeRetrieval, message, err)
}

// WrapGeneration wraps an error as a generation stage failure
func WrapGeneration(message string, err error) error {
	return NewDomainError(ErrorTypeGeneration, message, err)
}
