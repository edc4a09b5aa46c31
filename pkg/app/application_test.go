package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dialoom/pkg/auth"
	"dialoom/pkg/client"
	"dialoom/pkg/config"
	httputil "dialoom/pkg/http"
	"dialoom/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type whoAmIHandler struct {
	calls int
}

func (h *whoAmIHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/whoami", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_ = httputil.WriteSuccess(w, auth.UserIDFromContext(r.Context()))
	})
	router.POST("/api/things", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.calls++
		_ = httputil.WriteCreated(w, map[string]int{"n": h.calls})
	})
}

func newTestApplication(t *testing.T) (*Application, *auth.Verifier, *whoAmIHandler) {
	t.Helper()

	cfg := &config.Config{
		Port:              "8080",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ShutdownTimeout:   time.Second,
		Log:               logger.NewNop(),
		Client:            client.NewClient(),
	}

	verifier := auth.NewVerifier(testSecret, "")
	h := &whoAmIHandler{}

	a := NewApplication(cfg)
	a.SetApp(verifier, h)
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a, verifier, h
}

func TestApplication_HealthIsPublic(t *testing.T) {
	a, _, _ := newTestApplication(t)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApplication_RequiresBearerToken(t *testing.T) {
	a, _, _ := newTestApplication(t)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestApplication_AuthenticatedRequest(t *testing.T) {
	a, verifier, _ := newTestApplication(t)
	token, err := verifier.Sign("guest1", "guest@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":"guest1"}`, rec.Body.String())
}

func TestApplication_IdempotentCreate(t *testing.T) {
	a, verifier, h := newTestApplication(t)
	token, err := verifier.Sign("guest1", "guest@example.com", time.Hour)
	require.NoError(t, err)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/things", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyHeader, "key-1")
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 1, h.calls)
}

func TestApplication_RejectsWrongContentType(t *testing.T) {
	a, verifier, h := newTestApplication(t)
	token, err := verifier.Sign("guest1", "guest@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/things", strings.NewReader(`a=b`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, h.calls)
}
