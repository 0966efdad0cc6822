package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedPayload struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
	Slug  string `json:"slug" binding:"required,slug"`
}

func validationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var payload validatedPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidation_ValidPayload(t *testing.T) {
	router := validationRouter()

	rec := postJSON(router, `{"email":"a@b.test","name":"Acme","slug":"acme-store"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidation_ReportsJSONFieldNames(t *testing.T) {
	router := validationRouter()

	rec := postJSON(router, `{"email":"not-an-email","name":"A","slug":"acme"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)

	fields := make(map[string]string)
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Must be at least 2 characters", fields["name"])
}

func TestValidation_RequiredFields(t *testing.T) {
	router := validationRouter()

	rec := postJSON(router, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.Len(t, resp.Error.Details, 3)
	for _, d := range resp.Error.Details {
		assert.Equal(t, "This field is required", d.Message)
	}
}

func TestValidation_IncludesRequestID(t *testing.T) {
	router := validationRouter()

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestSlugValidator(t *testing.T) {
	router := validationRouter()

	tests := []struct {
		slug  string
		valid bool
	}{
		{"acme", true},
		{"acme-store-2", true},
		{"42", true},
		{"Acme", false},
		{"acme_store", false},
		{"-acme", false},
		{"acme-", false},
		{"acme store", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			payload, _ := json.Marshal(map[string]string{
				"email": "a@b.test",
				"name":  "Acme",
				"slug":  tt.slug,
			})
			rec := postJSON(router, string(payload))

			if tt.valid {
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				resp := decodeErrorResponse(t, rec)
				require.NotEmpty(t, resp.Error.Details)
				assert.Equal(t, "slug", resp.Error.Details[0].Field)
			}
		})
	}
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Error.Details)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}
