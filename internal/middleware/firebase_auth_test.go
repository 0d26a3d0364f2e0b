package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeFirebaseAuth(t *testing.T, authHeader string) (error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	reached := false
	next := func(echo.Context) error {
		reached = true
		return nil
	}
	// Header validation happens before the client is touched, so a nil
	// client is fine for the rejection paths.
	return FirebaseAuthMiddleware(nil)(next)(c), reached
}

func TestFirebaseAuthMiddleware_MissingHeader(t *testing.T) {
	err, reached := invokeFirebaseAuth(t, "")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.False(t, reached)
}

func TestFirebaseAuthMiddleware_MalformedHeader(t *testing.T) {
	for _, header := range []string{"abc", "Token abc", "Bearer"} {
		err, reached := invokeFirebaseAuth(t, header)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, header)
		assert.Equal(t, http.StatusUnauthorized, he.Code, header)
		assert.False(t, reached, header)
	}
}
