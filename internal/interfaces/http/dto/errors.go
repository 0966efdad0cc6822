package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked is used when the auth token has been revoked
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeOutOfStock is used when a product cannot cover the requested quantity
	ErrCodeOutOfStock = "ERR_OUT_OF_STOCK"
	// ErrCodeStoreSuspended is used when the target store is suspended or expired
	ErrCodeStoreSuspended = "ERR_STORE_SUSPENDED"
	// ErrCodePlanLimitExceeded is used when a store hits its plan quota
	ErrCodePlanLimitExceeded = "ERR_PLAN_LIMIT_EXCEEDED"
	// ErrCodeGatewayUnavailable is used when no payment gateway can serve the request
	ErrCodeGatewayUnavailable = "ERR_GATEWAY_UNAVAILABLE"
	// ErrCodePartnerUnavailable is used when no shipping partner can serve the request
	ErrCodePartnerUnavailable = "ERR_PARTNER_UNAVAILABLE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeOutOfStock:         http.StatusUnprocessableEntity,
	ErrCodeStoreSuspended:     http.StatusForbidden,
	ErrCodePlanLimitExceeded:  http.StatusUnprocessableEntity,
	ErrCodeGatewayUnavailable: http.StatusUnprocessableEntity,
	ErrCodePartnerUnavailable: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_STATE":         ErrCodeInvalidState,
	"UNAUTHORIZED":          ErrCodeUnauthorized,
	"FORBIDDEN":             ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"OUT_OF_STOCK":          ErrCodeOutOfStock,
	"STORE_SUSPENDED":       ErrCodeStoreSuspended,
	"PLAN_LIMIT_EXCEEDED":   ErrCodePlanLimitExceeded,
	"GATEWAY_NOT_AVAILABLE": ErrCodeGatewayUnavailable,
	"PARTNER_NOT_AVAILABLE": ErrCodePartnerUnavailable,
	"VALIDATION_ERROR":      ErrCodeValidation,
	"BAD_REQUEST":           ErrCodeBadRequest,
	"INTERNAL_ERROR":        ErrCodeInternal,

	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"ACCOUNT_LOCKED":      ErrCodeForbidden,
	"ACCOUNT_INACTIVE":    ErrCodeForbidden,
	"ACCOUNT_DEACTIVATED": ErrCodeForbidden,
	"ACCOUNT_PENDING":     ErrCodeForbidden,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_REVOKED":       ErrCodeTokenRevoked,
	"STORE_CANCELLED":     ErrCodeStoreSuspended,
	"INSUFFICIENT_STOCK":  ErrCodeOutOfStock,
	"PAYMENT_REQUIRED":    ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Unmapped codes are classified by naming convention so a new domain rule
// does not surface as a 500.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return ErrCodeNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	case strings.HasPrefix(code, "ALREADY_"),
		strings.HasPrefix(code, "HAS_"),
		strings.HasPrefix(code, "DUPLICATE_"),
		strings.HasSuffix(code, "_EXISTS"):
		return ErrCodeConflict
	case strings.HasPrefix(code, "CANNOT_"),
		strings.HasPrefix(code, "NO_"),
		strings.HasSuffix(code, "_EXPIRED"),
		strings.HasSuffix(code, "_ARCHIVED"),
		strings.HasSuffix(code, "_DISABLED"):
		return ErrCodeInvalidState
	case strings.HasPrefix(code, "EXCEEDS_"),
		strings.HasSuffix(code, "_EXCEEDED"),
		strings.HasSuffix(code, "_MISMATCH"):
		return ErrCodeBusinessRule
	}
	return code
}
