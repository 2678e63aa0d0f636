// controllers/auth_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/config"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/models"
	"github.com/zahabshop/zahab_backend/services"
	"github.com/zahabshop/zahab_backend/utils"
)

// AuthController handles login and logout against the identity provider.
type AuthController struct {
	DB       *mongo.Client
	Identity services.IdentityProvider
	SignIn   *services.PasswordSignIn
	Redis    *redis.Client
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, identity services.IdentityProvider, signIn *services.PasswordSignIn, redisClient *redis.Client) *AuthController {
	return &AuthController{DB: db, Identity: identity, SignIn: signIn, Redis: redisClient}
}

// Login verifies credentials via the provider's REST API, loads the profile
// document, syncs the role/branch custom claims, and returns the ID token.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := utils.ValidateLoginAttempts(ctx, ac.Redis, req.Email); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many login attempts, try again later",
		})
	}

	result, err := ac.SignIn.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid email or password",
			})
		}
		return internalError(c, "Login failed", err)
	}

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"_id": result.UID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Credential exists but no profile document; nothing to
			// authorize against.
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Account is not provisioned",
			})
		}
		return internalError(c, "Failed to load user profile", err)
	}
	if user.IsDelete {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account has been deactivated",
		})
	}

	// Keep the token claims in step with the profile document. The token
	// just issued predates this write, so a changed role lands on the next
	// sign-in, same as the previous revision of this API.
	if err := ac.Identity.SetUserClaims(ctx, user.UID, user.Role, user.BranchID); err != nil {
		return internalError(c, "Failed to sync user claims", err)
	}

	utils.ClearLoginAttempts(ctx, ac.Redis, req.Email)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			ID:        user.UID,
			Email:     user.Email,
			FirstName: user.FirstName,
			Role:      user.Role,
			BranchID:  user.BranchID,
			Token:     result.IDToken,
		},
	})
}

// Logout revokes the principal's refresh tokens and denylists the uid so
// outstanding ID tokens stop working right away.
func (ac *AuthController) Logout(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ac.Identity.RevokeTokens(ctx, principal.UID); err != nil {
		return internalError(c, "Logout failed", err)
	}

	if err := utils.RevokeSession(ctx, ac.Redis, principal.UID); err != nil {
		// Provider-side revocation already happened; the denylist is an
		// accelerator, so its failure is logged and swallowed.
		c.Logger().Warnf("Failed to denylist session for %s: %v", principal.UID, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logout successful",
	})
}
