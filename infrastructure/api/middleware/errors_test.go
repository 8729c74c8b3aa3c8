package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdp-poc/gdp/application/service"
	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/infrastructure/api/v1/dto"
	"github.com/gdp-poc/gdp/internal/config"
	"github.com/gdp-poc/gdp/internal/log"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(404, "resource not found", nil)

	assert.Equal(t, 404, err.Code())
	assert.Equal(t, "resource not found", err.Message())
	assert.Equal(t, "api error 404: resource not found", err.Error())
}

func TestAPIError_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewAPIError(500, "internal error", cause)

	assert.Equal(t, "api error 500: internal error: underlying error", err.Error())
	assert.Same(t, cause, err.Unwrap())
}

func writeError(t *testing.T, err error) (int, dto.StatusResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/menu/structure", nil)
	w := httptest.NewRecorder()
	WriteError(w, req, err, nil)

	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.False(t, resp.Success)
	return w.Code, resp
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing user", fmt.Errorf("structure: %w", service.ErrMissingUser), http.StatusBadRequest, CodeMissingUserID},
		{"not found", fmt.Errorf("page %q: %w", "p9", menu.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"not navigable", service.ErrNotNavigable, http.StatusConflict, CodeNotNavigable},
		{"bad body", NewAPIError(http.StatusBadRequest, "invalid JSON body", errors.New("eof")), http.StatusBadRequest, CodeInvalidBody},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := writeError(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Error)
		})
	}
}

func TestWriteError_Validation(t *testing.T) {
	err := menu.NewValidationError([]menu.Violation{{
		GroupID:       "m1",
		PageID:        "p2",
		GroupPosition: 1,
		PagePosition:  2,
		Field:         menu.FieldURL,
		Message:       "url must not exceed 200 characters",
	}})

	status, resp := writeError(t, err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeValidation, resp.Error)
	assert.Equal(t, "menu 1 - page 2: url must not exceed 200 characters", resp.Message)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "page_p2_url", resp.Violations[0].Key)
	assert.Equal(t, "menu 1 - page 2: url must not exceed 200 characters", resp.Violations[0].Message)
}

func TestWriteError_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(log.WithCorrelationID(req.Context(), "corr-1"))
	WriteError(httptest.NewRecorder(), req, errors.New("boom"), logger.Slog())

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"correlation_id":"corr-1"`)
}

func TestCorrelationID(t *testing.T) {
	var seen string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(CorrelationHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "given")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "given", seen)
}

func TestIdentity(t *testing.T) {
	var seen string
	h := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = User(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeader, " alice@example.com ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "alice@example.com", seen)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, seen)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")
	h := Identity(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/menu/list", nil)
	req.Header.Set(UserHeader, "bob@example.com")
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "request completed", record["msg"])
	assert.Equal(t, float64(http.StatusTeapot), record["status"])
	assert.Equal(t, "bob@example.com", record["user_id"])
}

func TestWriteError_ValidationCountsRemaining(t *testing.T) {
	err := menu.NewValidationError([]menu.Violation{
		{GroupID: "m1", GroupPosition: 1, Field: menu.FieldName, Message: "name must not be blank"},
		{GroupID: "m2", PageID: "p4", GroupPosition: 2, PagePosition: 1, Field: menu.FieldURL, Message: "url must not exceed 200 characters"},
		{GroupID: "m2", PageID: "p5", GroupPosition: 2, PagePosition: 2, Field: menu.FieldName, Message: "name must not be blank"},
	})

	status, resp := writeError(t, err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "menu 1: name must not be blank (and 2 more)", resp.Message)
	assert.Len(t, resp.Violations, 3)
}
