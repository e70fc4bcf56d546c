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
)

var key = []byte("test-key")

func sign(t *testing.T, claims *Claims, k []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k)
	require.NoError(t, err)
	return s
}

func claimsFor(user string, exp time.Time) *Claims {
	return &Claims{
		Username:         user,
		UserHash:         UserHashFromUsername(user, key),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}
}

func TestJWT(t *testing.T) {
	e := echo.New()
	h := JWT(key)(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(UsernameKey).(string))
	})

	call := func(auth string) (string, error) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		err := h(e.NewContext(req, rec))
		return rec.Body.String(), err
	}
	status := func(err error) int {
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		return he.Code
	}

	good := sign(t, claimsFor("alice", time.Now().Add(time.Hour)), key)

	body, err := call(good)
	require.NoError(t, err)
	assert.Equal(t, "alice", body)

	body, err = call("Bearer " + good)
	require.NoError(t, err)
	assert.Equal(t, "alice", body)

	_, err = call("")
	assert.Equal(t, http.StatusBadRequest, status(err))

	_, err = call(sign(t, claimsFor("alice", time.Now().Add(time.Hour)), []byte("other")))
	assert.Equal(t, http.StatusUnauthorized, status(err))

	_, err = call(sign(t, claimsFor("alice", time.Now().Add(-time.Hour)), key))
	assert.Equal(t, http.StatusUnauthorized, status(err))

	forged := claimsFor("alice", time.Now().Add(time.Hour))
	forged.Username = "admin"
	_, err = call(sign(t, forged, key))
	assert.Equal(t, http.StatusUnauthorized, status(err))

	_, err = call("not-a-token")
	assert.Equal(t, http.StatusBadRequest, status(err))
}

func TestUserHashFromUsername(t *testing.T) {
	assert.Equal(t, UserHashFromUsername(" Alice ", key), UserHashFromUsername("alice", key))
	assert.NotEqual(t, UserHashFromUsername("alice", key), UserHashFromUsername("alice", []byte("x")))
}
