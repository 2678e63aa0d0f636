// routes/auth_routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/controllers"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/services"
)

// SetupAuthRoutes registers the login and logout endpoints. Login is the
// only unauthenticated API route.
func SetupAuthRoutes(e *echo.Echo, db *mongo.Client, identity services.IdentityProvider, signIn *services.PasswordSignIn, redisClient *redis.Client) {
	authController := controllers.NewAuthController(db, identity, signIn, redisClient)

	auth := e.Group("/api/auth")
	auth.POST("/login", authController.Login)

	protected := auth.Group("")
	protected.Use(middleware.FirebaseAuth(identity, redisClient))
	protected.POST("/logout", authController.Logout)
}
