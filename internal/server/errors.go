// Package server provides the HTTP API for the portfolio builder.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/pipeline"
)

// Error codes returned in the "code" field of error responses
const (
	CodeInvalidRequest       = "invalid_request"
	CodeUploadTooLarge       = "upload_too_large"
	CodeUnsupportedFormat    = "unsupported_format"
	CodeExtractionFailed     = "extraction_failed"
	CodeInvocationFailed     = "invocation_failed"
	CodeGenerationIncomplete = "generation_incomplete"
	CodeTimeout              = "timeout"
	CodeInternal             = "internal_error"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUploadTooLarge indicates the upload exceeded the configured limit
type ErrUploadTooLarge struct {
	Limit int64
}

func (e *ErrUploadTooLarge) Error() string {
	return fmt.Sprintf("upload exceeds the %d byte limit", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorCode returns the machine-readable code for an error
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}

func classify(err error) (int, string) {
	var (
		validationErr  *ErrValidation
		tooLargeErr    *ErrUploadTooLarge
		unsupportedErr *ingestion.UnsupportedFormatError
		extractionErr  *ingestion.ExtractionError
		invocationErr  *llm.InvocationError
		incompleteErr  *pipeline.GenerationIncompleteError
	)

	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge, CodeUploadTooLarge
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType, CodeUnsupportedFormat
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity, CodeExtractionFailed
	case errors.As(err, &incompleteErr):
		return http.StatusBadGateway, CodeGenerationIncomplete
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	case errors.As(err, &invocationErr):
		return http.StatusBadGateway, CodeInvocationFailed
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
