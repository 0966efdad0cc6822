package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/interfaces/http/dto"
	"github.com/multistore/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setStoreContext simulates a resolved store without running the middleware
func setStoreContext(c *gin.Context, storeID uuid.UUID) {
	c.Set(middleware.ContextKeyResolvedStoreID, storeID.String())
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, userID uuid.UUID) {
	c.Set(middleware.ContextKeyUserID, userID.String())
}

func newTestContext(t *testing.T, method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t, http.MethodGet, "/")

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t, http.MethodGet, "/")

	h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 10)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t, http.MethodPost, "/")

	h.Created(c, map[string]string{"id": uuid.NewString()})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t, http.MethodDelete, "/")

	h.NoContent(c)
	// Status alone does not write the header until the response is flushed
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_ErrorHelpers(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		call       func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"not found", func(c *gin.Context) { h.NotFound(c, "missing") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"unauthorized", func(c *gin.Context) { h.Unauthorized(c, "nope") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"forbidden", func(c *gin.Context) { h.Forbidden(c, "nope") }, http.StatusForbidden, dto.ErrCodeForbidden},
		{"internal", func(c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t, http.MethodGet, "/")
			tt.call(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_ErrorIncludesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t, http.MethodGet, "/")
	c.Set(middleware.ContextKeyRequestID, "req-99")

	h.BadRequest(c, "bad")

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-99", resp.Error.RequestID)
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("maps domain error codes to status", func(t *testing.T) {
		c, w := newTestContext(t, http.MethodGet, "/")
		h.HandleDomainError(c, shared.NewDomainError("NOT_FOUND", "Order not found"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "Order not found", resp.Error.Message)
	})

	t.Run("unknown errors become 500 without leaking", func(t *testing.T) {
		c, w := newTestContext(t, http.MethodGet, "/")
		h.HandleDomainError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
	})
}

func TestParseIDParam(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid uuid", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/")
		want := uuid.New()
		c.Params = gin.Params{{Key: "id", Value: want.String()}}

		got, ok := h.parseIDParam(c, "id")
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("invalid uuid writes 400", func(t *testing.T) {
		c, w := newTestContext(t, http.MethodGet, "/")
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		_, ok := h.parseIDParam(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStoreID_MissingStore(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/")

	_, err := getStoreID(c)
	assert.Error(t, err)
}

func TestGetUserID(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/")
		want := uuid.New()
		setJWTContext(c, want)

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodGet, "/")

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}
