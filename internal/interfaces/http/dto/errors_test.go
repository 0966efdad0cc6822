package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"unauthorized", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"token expired", ErrCodeTokenExpired, http.StatusUnauthorized},
		{"token revoked", ErrCodeTokenRevoked, http.StatusUnauthorized},
		{"forbidden", ErrCodeForbidden, http.StatusForbidden},
		{"conflict", ErrCodeConflict, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"out of stock", ErrCodeOutOfStock, http.StatusUnprocessableEntity},
		{"plan limit", ErrCodePlanLimitExceeded, http.StatusUnprocessableEntity},
		{"store suspended is forbidden", ErrCodeStoreSuspended, http.StatusForbidden},
		{"gateway unavailable", ErrCodeGatewayUnavailable, http.StatusUnprocessableEntity},
		{"rate limited", ErrCodeRateLimited, http.StatusTooManyRequests},
		{"bad request", ErrCodeBadRequest, http.StatusBadRequest},
		{"unknown code falls back to 500", "ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"domain not found", "NOT_FOUND", ErrCodeNotFound},
		{"domain out of stock", "OUT_OF_STOCK", ErrCodeOutOfStock},
		{"domain store suspended", "STORE_SUSPENDED", ErrCodeStoreSuspended},
		{"domain plan limit", "PLAN_LIMIT_EXCEEDED", ErrCodePlanLimitExceeded},
		{"domain gateway", "GATEWAY_NOT_AVAILABLE", ErrCodeGatewayUnavailable},
		{"domain partner", "PARTNER_NOT_AVAILABLE", ErrCodePartnerUnavailable},
		{"domain credentials", "INVALID_CREDENTIALS", ErrCodeUnauthorized},
		{"already wire format", ErrCodeNotFound, ErrCodeNotFound},
		{"not found suffix", "VARIANT_NOT_FOUND", ErrCodeNotFound},
		{"invalid prefix", "INVALID_SLUG", ErrCodeInvalidInput},
		{"has prefix", "HAS_CHILDREN", ErrCodeConflict},
		{"duplicate prefix", "DUPLICATE_VARIANT_SKU", ErrCodeConflict},
		{"cannot prefix", "CANNOT_DELETE", ErrCodeInvalidState},
		{"exceeds prefix", "EXCEEDS_REMAINING", ErrCodeBusinessRule},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Store not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Store not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Nil(t, resp.Data)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "must be a valid email"},
		{Field: "name", Message: "is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
