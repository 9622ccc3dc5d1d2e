package httperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

func TestStatusFunctions(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string) (int, string)
		status int
	}{
		{"bad request", BadRequest, http.StatusBadRequest},
		{"not found", NotFound, http.StatusNotFound},
		{"method not supported", MethodNotSupported, http.StatusMethodNotAllowed},
		{"unsupported media type", UnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"internal server error", InternalServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := tt.fn("error")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "error", message)

			// Pure: the same input gives the same output.
			status2, message2 := tt.fn("error")
			assert.Equal(t, status, status2)
			assert.Equal(t, message, message2)
		})
	}
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", domain.ErrProductNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("failed to update product: %w", domain.ErrProductNotFound), http.StatusNotFound},
		{"validation", domain.ErrEmptyName, http.StatusBadRequest},
		{"missing attribute", fmt.Errorf("%w: price", domain.ErrMissingAttribute), http.StatusBadRequest},
		{"empty id", domain.ErrEmptyID, http.StatusBadRequest},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := FromDomain(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}

	t.Run("internal details are hidden", func(t *testing.T) {
		_, message := FromDomain(errors.New("password=secret"))
		assert.NotContains(t, message, "secret")
	})
}

func TestResolve_EchoErrors(t *testing.T) {
	status, _ := Resolve(echo.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	status, _ = Resolve(echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = Resolve(echo.ErrUnsupportedMediaType)
	assert.Equal(t, http.StatusUnsupportedMediaType, status)
}

func TestHandler(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := echo.New()
	e.HTTPErrorHandler = Handler(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	e.HTTPErrorHandler(domain.ErrProductNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "Not Found", body.Error)
	assert.Equal(t, domain.ErrProductNotFound.Error(), body.Message)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request failed", entry.Message)
	assert.Equal(t, int64(http.StatusNotFound), entry.ContextMap()["status"])
}
