package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aguevara193/reviews-api/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestAPIKey_NoKeyConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)

	APIKey("")(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKey_ValidKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	req.Header.Set("X-Api-Key", "secret")

	APIKey("secret")(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKey_MissingOrWrongKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"missing", ""},
		{"wrong", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
			if tt.key != "" {
				req.Header.Set("X-Api-Key", tt.key)
			}

			APIKey("secret")(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequestLogging_SetsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("reviews-api", "info", &buf)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)

	RequestLogging(log)(okHandler()).ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	assert.Contains(t, buf.String(), "http request")
}

func TestRequestLogging_PropagatesInboundCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("reviews-api", "info", &buf)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	req.Header.Set("X-Correlation-ID", "corr-inbound")

	RequestLogging(log)(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "corr-inbound", rec.Header().Get("X-Correlation-ID"))
	assert.Contains(t, buf.String(), "corr-inbound")
}

func TestRecovery_PanicReturns500(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("reviews-api", "error", &buf)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	Recovery(log)(panicking).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestCORS_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reviews", nil)
	req.Header.Set("Origin", "https://shop.example.com")

	CORS(DefaultCORSConfig())(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RestrictedOrigin(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"https://shop.example.com"},
		Environment:    "production",
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	CORS(cfg)(okHandler()).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
