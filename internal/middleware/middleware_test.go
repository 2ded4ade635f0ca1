package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cabin-seat-reservation/internal/config"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func protected() *echo.Echo {
	e := echo.New()
	e.GET("/agent", func(c echo.Context) error {
		return c.String(http.StatusOK, userID(c))
	}, JWTAuth(testSecret), RequireRole("AGENT"))
	return e
}

func get(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRole(t *testing.T) {
	t.Parallel()
	e := protected()
	exp := time.Now().Add(time.Hour).Unix()

	rec := get(e, "/agent", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(e, "/agent", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "agent", "role": "AGENT", "exp": exp})
	assert.Equal(t, http.StatusUnauthorized, get(e, "/agent", wrongKey).Code)

	noExp := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "agent", "role": "AGENT"})
	assert.Equal(t, http.StatusUnauthorized, get(e, "/agent", noExp).Code)

	expired := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "agent", "role": "AGENT", "exp": time.Now().Add(-time.Minute).Unix()})
	assert.Equal(t, http.StatusUnauthorized, get(e, "/agent", expired).Code)

	guest := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "bob", "role": "GUEST", "exp": exp})
	assert.Equal(t, http.StatusForbidden, get(e, "/agent", guest).Code)

	ok := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "agent", "role": "AGENT", "exp": exp})
	rec = get(e, "/agent", ok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "agent", rec.Body.String())
}

func TestCacheKeyDependsOnPathQueryAndVersion(t *testing.T) {
	t.Parallel()
	cfg := config.CacheConfig{Prefix: "cabin:cache", KeyStrategy: "route_query"}
	e := echo.New()
	key := func(target string, version uint64) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		return cacheKeyFrom(cfg, c, version)
	}

	economy := key("/v1/cabin/economy/availability", 1)
	assert.Regexp(t, `^cabin:cache:v1:[0-9a-f]{40}$`, economy)
	assert.Equal(t, economy, key("/v1/cabin/economy/availability", 1))
	assert.NotEqual(t, economy, key("/v1/cabin/first/availability", 1))
	assert.NotEqual(t, economy, key("/v1/cabin/economy/availability", 2))
	assert.NotEqual(t, economy, key("/v1/cabin/economy/availability?format=text", 1))

	cfg.KeyStrategy = "route"
	assert.Equal(t, key("/v1/cabin", 3), key("/v1/cabin?x=1", 3))
}

func TestPayloadCodec(t *testing.T) {
	t.Parallel()
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(bs[:10])
	assert.False(t, ok)
}

func TestMiddlewareWithoutRedisPassesThrough(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
	e.Use(NewRedisCache(config.CacheConfig{Enabled: true}, nil, func() uint64 { return 0 }))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := get(e, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateKeyStrategies(t *testing.T) {
	t.Parallel()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cabin", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/cabin")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	assert.Equal(t, "rl:ip:10.0.0.7", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))

	c.Set("user_id", "agent")
	cfg.KeyStrategy = "ip_user_route"
	assert.Equal(t, "rl:ip:10.0.0.7:user:agent:route:GET /v1/cabin", buildRateKey(cfg, c))
}
