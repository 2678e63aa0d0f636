// routes/user_routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/controllers"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/services"
)

// SetupUserRoutes registers staff account management endpoints.
func SetupUserRoutes(e *echo.Echo, db *mongo.Client, identity services.IdentityProvider, redisClient *redis.Client) {
	userController := controllers.NewUserController(db, identity)

	users := e.Group("/api/users")
	users.Use(middleware.FirebaseAuth(identity, redisClient))

	users.POST("", userController.CreateUser)
	users.GET("", userController.GetAllUsers)
	users.PUT("/:uid", userController.UpdateUser)
	users.DELETE("/:uid", userController.DeleteUser)
}
