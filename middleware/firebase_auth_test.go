package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahabshop/zahab_backend/models"
)

type fakeVerifier struct {
	principal *models.Principal
	err       error
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, idToken string) (*models.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.principal, nil
}

func runProtected(t *testing.T, verifier TokenVerifier, redisClient *redis.Client, authHeader string) (*httptest.ResponseRecorder, models.Principal, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got models.Principal
	var reached bool
	handler := FirebaseAuth(verifier, redisClient)(func(c echo.Context) error {
		got, reached = GetPrincipal(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, got, reached
}

func TestFirebaseAuthMissingHeader(t *testing.T) {
	rec, _, reached := runProtected(t, &fakeVerifier{}, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "no token provided")
}

func TestFirebaseAuthBadHeaderFormat(t *testing.T) {
	rec, _, reached := runProtected(t, &fakeVerifier{}, nil, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "invalid authorization header format")
}

func TestFirebaseAuthEmptyToken(t *testing.T) {
	rec, _, reached := runProtected(t, &fakeVerifier{}, nil, "Bearer   ")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestFirebaseAuthInvalidToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("token expired")}
	rec, _, reached := runProtected(t, verifier, nil, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestFirebaseAuthAttachesPrincipal(t *testing.T) {
	verifier := &fakeVerifier{principal: &models.Principal{
		UID:      "uid-1",
		Role:     models.RoleManager,
		BranchID: "b1",
	}}

	rec, principal, reached := runProtected(t, verifier, nil, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, "uid-1", principal.UID)
	assert.Equal(t, models.RoleManager, principal.Role)
	assert.Equal(t, "b1", principal.BranchID)
}

func TestFirebaseAuthLogoutDenylist(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	require.NoError(t, mr.Set("logout:uid-1", "1"))
	mr.SetTTL("logout:uid-1", time.Hour)

	verifier := &fakeVerifier{principal: &models.Principal{
		UID:  "uid-1",
		Role: models.RoleSales,
	}}

	rec, _, reached := runProtected(t, verifier, redisClient, "Bearer good-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "logged out")

	// A different uid sails through.
	verifier.principal = &models.Principal{UID: "uid-2", Role: models.RoleSales}
	rec, _, reached = runProtected(t, verifier, redisClient, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestGetPrincipalWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := GetPrincipal(c)
	assert.False(t, ok)
}
