// Package errors provides standardized error handling for lookup workers and
// their BPMN workflow integration.
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
	ErrCodeQueryClassificationFailed ErrorCode = "QUERY_CLASSIFICATION_FAILED"
	ErrCodeLookupTransportFailed     ErrorCode = "LOOKUP_TRANSPORT_FAILED"
	ErrCodeLookupTimeout             ErrorCode = "LOOKUP_TIMEOUT"
	ErrCodeUnexpectedPayload         ErrorCode = "UNEXPECTED_PAYLOAD"
	ErrCodeReplySendFailed           ErrorCode = "REPLY_SEND_FAILED"
	ErrCodeInvalidJobInput           ErrorCode = "INVALID_JOB_INPUT"
	ErrCodeWorkflowEngine            ErrorCode = "WORKFLOW_ENGINE_ERROR"
	ErrCodeInternal                  ErrorCode = "INTERNAL_ERROR"
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

func (e *StandardError) Unwrap() error { return e.cause }

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

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewQueryClassificationError reports input that is neither a person nor a phone query.
func NewQueryClassificationError(mode, input string, cause error) *StandardError {
	e := newError(ErrCodeQueryClassificationFailed, "Query format not recognized",
		fmt.Sprintf("mode: %s", mode), cause)
	e.Metadata = map[string]interface{}{"mode": mode, "inputLength": len([]rune(input))}
	return e
}

// NewLookupTransportError reports a non-2xx answer from the lookup service.
func NewLookupTransportError(statusCode int, cause error) *StandardError {
	e := newError(ErrCodeLookupTransportFailed, "Lookup service returned an HTTP error",
		fmt.Sprintf("statusCode: %d", statusCode), cause)
	e.Metadata = map[string]interface{}{"statusCode": statusCode}
	return e
}

// NewLookupTimeoutError reports a lookup call that exceeded its deadline.
func NewLookupTimeoutError(cause error) *StandardError {
	return newError(ErrCodeLookupTimeout, "Lookup service timeout", cause.Error(), cause)
}

// NewUnexpectedPayloadError reports a response body that could not be read as a lookup payload.
func NewUnexpectedPayloadError(cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return newError(ErrCodeUnexpectedPayload, "Unexpected lookup payload", details, cause)
}

// NewReplySendFailedError reports a reply that could not be delivered.
func NewReplySendFailedError(cause error) *StandardError {
	return newError(ErrCodeReplySendFailed, "Reply delivery failed", cause.Error(), cause)
}

// NewInvalidJobInputError reports job variables that violate the task's input schema.
func NewInvalidJobInputError(details string) *StandardError {
	return newError(ErrCodeInvalidJobInput, "Job input validation failed", details, nil)
}

// NewWorkflowEngineError reports a failed call to the Zeebe gateway.
func NewWorkflowEngineError(operation string, retryable bool, cause error) *StandardError {
	e := newError(ErrCodeWorkflowEngine, fmt.Sprintf("Zeebe operation '%s' failed", operation), cause.Error(), cause)
	e.Retryable = retryable
	return e
}

// NewInternalError wraps anything else.
func NewInternalError(cause error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", cause.Error(), cause)
}

// AsStandard returns err as a StandardError, wrapping unknown errors as internal.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the retry budget for a code. Every failure is
// terminal for its turn, so no code is retried.
func GetRetryCount(code ErrorCode) int {
	return 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   GetRetryCount(stdErr.Code),
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CLASSIFICATION") || strings.Contains(codeStr, "INPUT"):
		return "VALIDATION"
	case strings.Contains(codeStr, "LOOKUP") || strings.Contains(codeStr, "PAYLOAD"):
		return "LOOKUP_SERVICE"
	case strings.Contains(codeStr, "REPLY"):
		return "DELIVERY"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
