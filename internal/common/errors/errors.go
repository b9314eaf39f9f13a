// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Domain error codes. Sentinel errors in the stylist packages use the same
// text, so FromError can map a wrapped sentinel back to its code.
const (
	ErrCodeUnknownCategoryValue ErrorCode = "UNKNOWN_CATEGORY_VALUE"
	ErrCodeInvalidCode          ErrorCode = "INVALID_CODE"
	ErrCodeMissingRule          ErrorCode = "MISSING_RULE"
	ErrCodeEmptyCorpus          ErrorCode = "EMPTY_CORPUS"
	ErrCodeDegenerateTarget     ErrorCode = "DEGENERATE_TARGET"
	ErrCodeMalformedCorpus      ErrorCode = "MALFORMED_CORPUS"
	ErrCodeInvalidBundle        ErrorCode = "INVALID_BUNDLE"
	ErrCodeBundleNotFound       ErrorCode = "BUNDLE_NOT_FOUND"
	ErrCodeMalformedTree        ErrorCode = "MALFORMED_TREE"
	ErrCodeFeatureMismatch      ErrorCode = "FEATURE_MISMATCH"

	ErrCodeBundleLoadFailed      ErrorCode = "BUNDLE_LOAD_FAILED"
	ErrCodeWeatherLookupFailed   ErrorCode = "WEATHER_LOOKUP_FAILED"
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

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

func NewInputValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Job input failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewWeatherLookupFailedError(city string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWeatherLookupFailed,
		Message:   fmt.Sprintf("Weather lookup for '%s' failed", city),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewBundleLoadFailedError(location string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBundleLoadFailed,
		Message:   fmt.Sprintf("Failed to load model bundle from %s", location),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

var domainMessages = map[ErrorCode]string{
	ErrCodeUnknownCategoryValue: "Category value is not in the trained vocabulary",
	ErrCodeInvalidCode:          "Code is outside the trained vocabulary",
	ErrCodeMissingRule:          "Outfit rule table is incomplete",
	ErrCodeEmptyCorpus:          "Training corpus is empty",
	ErrCodeDegenerateTarget:     "Training corpus has fewer than two outfits",
	ErrCodeMalformedCorpus:      "Training corpus file is malformed",
	ErrCodeInvalidBundle:        "Model bundle is invalid",
	ErrCodeBundleNotFound:       "Model bundle not found",
	ErrCodeMalformedTree:        "Decision tree is malformed",
	ErrCodeFeatureMismatch:      "Feature row does not match the model",
}

// FromError normalizes err into a StandardError. A StandardError anywhere
// in the chain is returned as-is; a domain sentinel in the chain becomes
// its code; anything else is INTERNAL_ERROR.
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		code := ErrorCode(e.Error())
		if msg, ok := domainMessages[code]; ok {
			return &StandardError{
				Code:      code,
				Message:   msg,
				Details:   err.Error(),
				Retryable: false,
				Timestamp: time.Now().UTC(),
			}
		}
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes BPMN
// boundary events catch.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeUnknownCategoryValue:  "UNKNOWN_CATEGORY_VALUE",
	ErrCodeInvalidCode:           "MODEL_INCONSISTENT",
	ErrCodeMalformedTree:         "MODEL_INCONSISTENT",
	ErrCodeFeatureMismatch:       "MODEL_INCONSISTENT",
	ErrCodeInvalidBundle:         "MODEL_UNAVAILABLE",
	ErrCodeBundleNotFound:        "MODEL_UNAVAILABLE",
	ErrCodeBundleLoadFailed:      "MODEL_UNAVAILABLE",
	ErrCodeWeatherLookupFailed:   "WEATHER_LOOKUP_FAILED",
	ErrCodeInputValidationFailed: "INPUT_VALIDATION_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeWeatherLookupFailed,
		ErrCodeBundleLoadFailed:
		return 3

	case "EXTERNAL_SERVICE_ERROR",
		"TIMEOUT_ERROR":
		return 2

	default:
		return 0 // Business errors: no retry
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

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "BUNDLE") || strings.Contains(codeStr, "TREE") || strings.Contains(codeStr, "FEATURE"):
		return "MODEL"
	case strings.Contains(codeStr, "CORPUS") || strings.Contains(codeStr, "RULE") || strings.Contains(codeStr, "TARGET"):
		return "TRAINING"
	case strings.Contains(codeStr, "CATEGORY") || strings.Contains(codeStr, "CODE"):
		return "ENCODING"
	case strings.Contains(codeStr, "WEATHER") || strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "EXTERNAL"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
