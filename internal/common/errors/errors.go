// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidQuoteInput ErrorCode = "INVALID_QUOTE_INPUT"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
	ErrCodeQuoteCacheFailed  ErrorCode = "QUOTE_CACHE_FAILED"
	ErrCodeJobCompletion     ErrorCode = "JOB_COMPLETION_FAILED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalidQuoteInput = &StandardError{Code: ErrCodeInvalidQuoteInput, Message: "Quote input failed validation"}
	ErrParse             = &StandardError{Code: ErrCodeParseError, Message: "Job variables could not be parsed"}
	ErrQuoteCacheFailed  = &StandardError{Code: ErrCodeQuoteCacheFailed, Message: "Quote cache unavailable"}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidQuoteInputError is raised by the caller-level validator before the
// pricing core runs. fieldErrors are attached as metadata.
func NewInvalidQuoteInputError(details string, fieldErrors []string) *StandardError {
	var md map[string]interface{}
	if len(fieldErrors) > 0 {
		md = map[string]interface{}{"fieldErrors": fieldErrors}
	}
	return &StandardError{
		Code:      ErrCodeInvalidQuoteInput,
		Message:   "Quote input failed validation",
		Details:   details,
		Retryable: false,
		Metadata:  md,
		Timestamp: time.Now().UTC(),
	}
}

func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Job variables could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewQuoteCacheFailedError wraps a Redis failure. Workers log it and carry on.
func NewQuoteCacheFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuoteCacheFailed,
		Message:   "Quote cache unavailable",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewJobCompletionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobCompletion,
		Message:   "Failed to complete job",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidQuoteInput: "INVALID_QUOTE_INPUT",
	ErrCodeParseError:        "PARSE_ERROR",
	ErrCodeQuoteCacheFailed:  "QUOTE_CACHE_FAILED",
	ErrCodeJobCompletion:     "JOB_COMPLETION_FAILED",
	ErrCodeInternal:          "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQuoteCacheFailed, ErrCodeJobCompletion:
		return 3
	default:
		return 0 // validation and parse errors never succeed on retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if fe, ok := stdErr.Metadata["fieldErrors"]; ok {
		vars["fieldErrors"] = fe
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError normalizes any error, wrapped or not, into a StandardError.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "JOB"):
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
