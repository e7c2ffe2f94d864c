package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alwat83/ifyoumind/internal/rest/middleware/auth"
	"github.com/alwat83/ifyoumind/internal/setup/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newMiddleware(t *testing.T) *auth.Middleware {
	t.Helper()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	return auth.New(&config.Auth{
		SessionSecret: testSecret,
		Issuer:        "ifyoumind",
	}, logger)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

// capture runs a request through the middleware and returns the identity
// the downstream handler observed.
func capture(t *testing.T, m *auth.Middleware, authHeader string) (*auth.Identity, bool) {
	t.Helper()

	var (
		identity *auth.Identity
		ok       bool
	)

	router := bunrouter.New(bunrouter.Use(m.AsRESTMiddleware))
	router.GET("/v1/ideas", func(_ http.ResponseWriter, req bunrouter.Request) error {
		identity, ok = auth.FromContext(req.Context())
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/ideas", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	router.ServeHTTP(httptest.NewRecorder(), req)

	return identity, ok
}

func TestValidToken(t *testing.T) {
	t.Parallel()
	m := newMiddleware(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"iss": "ifyoumind",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	identity, ok := capture(t, m, "Bearer "+token)
	require.True(t, ok)
	assert.Equal(t, "user-1", identity.UserID)
	assert.False(t, identity.CanModerate())
}

func TestModeratorClaims(t *testing.T) {
	t.Parallel()
	m := newMiddleware(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":       "mod-1",
		"iss":       "ifyoumind",
		"exp":       time.Now().Add(time.Hour).Unix(),
		"moderator": true,
	})

	identity, ok := capture(t, m, "Bearer "+token)
	require.True(t, ok)
	assert.True(t, identity.Moderator)
	assert.False(t, identity.Admin)
	assert.True(t, identity.CanModerate())
}

func TestMissingHeaderPassesThrough(t *testing.T) {
	t.Parallel()
	m := newMiddleware(t)

	identity, ok := capture(t, m, "")
	assert.False(t, ok)
	assert.Nil(t, identity)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()
	m := newMiddleware(t)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"iss": "ifyoumind",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, ok := capture(t, m, "Bearer "+token)
	assert.False(t, ok)
}

func TestWrongIssuerRejected(t *testing.T) {
	t.Parallel()
	m := newMiddleware(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, ok := capture(t, m, "Bearer "+token)
	assert.False(t, ok)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	m := newMiddleware(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"iss": "ifyoumind",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, ok := capture(t, m, "Bearer "+token)
	assert.False(t, ok)
}
