// middleware/firebase_auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/zahabshop/zahab_backend/models"
	"github.com/zahabshop/zahab_backend/utils"
)

// TokenVerifier is the slice of the identity provider the middleware needs.
// services.FirebaseIdentity satisfies it; tests substitute a fake.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*models.Principal, error)
}

const principalContextKey = "principal"

// FirebaseAuth extracts the bearer token, verifies it against the identity
// provider, and attaches the resulting Principal to the request context.
// Failures are always 401: an unverified caller has no role to be forbidden
// with. redisClient may be nil; the logout denylist is then skipped.
func FirebaseAuth(verifier TokenVerifier, redisClient *redis.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Unauthorized: no token provided",
				})
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Unauthorized: invalid authorization header format",
				})
			}

			idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if idToken == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Unauthorized: no token provided",
				})
			}

			principal, err := verifier.VerifyToken(c.Request().Context(), idToken)
			if err != nil {
				c.Logger().Infof("Token verification failed for %s: %v", c.Request().URL.Path, err)
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Invalid or expired token",
				})
			}

			// The provider's revocation check lags a revoke call by up to an
			// hour; the denylist closes that window after logout.
			if utils.IsSessionRevoked(c.Request().Context(), redisClient, principal.UID) {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Session has been logged out",
				})
			}

			c.Set(principalContextKey, *principal)
			return next(c)
		}
	}
}

// GetPrincipal returns the authenticated principal attached by FirebaseAuth.
// The second return is false on routes that bypassed the middleware.
func GetPrincipal(c echo.Context) (models.Principal, bool) {
	principal, ok := c.Get(principalContextKey).(models.Principal)
	return principal, ok
}
