package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophadmin/internal/crypto"
	"github.com/iudanet/gophadmin/pkg/api"
)

const testSecret = "replica-secret"

// echoBody отвечает телом запроса, чтобы проверить его восстановление
func echoBody(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_, _ = w.Write(body)
}

func TestSignatureMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := SignatureMiddleware(logger, testSecret)(http.HandlerFunc(echoBody))

	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		contentType string
		signed      string
		wantCode    string
		wantStatus  int
	}{
		{
			name:       "read signs path and query",
			method:     http.MethodGet,
			target:     "/order/findRange?endDate=2024-01-31&startDate=2024-01-01",
			signed:     "/order/findRange?endDate=2024-01-31&startDate=2024-01-01",
			wantStatus: http.StatusOK,
		},
		{
			name:        "json body signed in canonical form",
			method:      http.MethodPost,
			target:      "/order/save",
			body:        `{ "price": 1500, "memberId": "m1" }`,
			contentType: "application/json; charset=utf-8",
			signed:      `{"memberId":"m1","price":1500}`,
			wantStatus:  http.StatusOK,
		},
		{
			name:       "delete signs escaped path",
			method:     http.MethodDelete,
			target:     "/user/delete/a%20b",
			signed:     "/user/delete/a%20b",
			wantStatus: http.StatusOK,
		},
		{
			name:        "multipart signs path",
			method:      http.MethodPost,
			target:      "/static/upload",
			body:        "--x--",
			contentType: "multipart/form-data; boundary=x",
			signed:      "/static/upload",
			wantStatus:  http.StatusOK,
		},
		{
			name:       "wrong message",
			method:     http.MethodGet,
			target:     "/user/getAll",
			signed:     "/user/getAll?x=1",
			wantStatus: http.StatusUnauthorized,
			wantCode:   api.CodeBadSignature,
		},
		{
			name:        "body signed as path",
			method:      http.MethodPost,
			target:      "/user/save",
			body:        `{"name":"A"}`,
			contentType: "application/json",
			signed:      "/user/save",
			wantStatus:  http.StatusUnauthorized,
			wantCode:    api.CodeBadSignature,
		},
		{
			name:        "broken json",
			method:      http.MethodPost,
			target:      "/user/save",
			body:        `{"name":`,
			contentType: "application/json",
			signed:      `{"name":`,
			wantStatus:  http.StatusOK,
			wantCode:    api.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			req.Header.Set(crypto.SignatureHeader, crypto.Sign(tt.signed, testSecret))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode == "" {
				assert.Equal(t, tt.body, w.Body.String(), "тело доходит до обработчика без изменений")
				return
			}
			var env api.Envelope
			require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
			assert.Equal(t, tt.wantCode, env.Code)
		})
	}
}

func TestSignatureMiddleware_Missing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := SignatureMiddleware(logger, testSecret)(http.HandlerFunc(echoBody))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/getAll", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var env api.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.Equal(t, "missing signature", env.Message)
}

func TestSignatureMiddleware_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := SignatureMiddleware(logger, "")(http.HandlerFunc(echoBody))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/save", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)
}
