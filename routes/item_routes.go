// routes/item_routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/controllers"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/services"
)

// SetupItemRoutes registers stock item endpoints.
func SetupItemRoutes(e *echo.Echo, db *mongo.Client, identity services.IdentityProvider, redisClient *redis.Client) {
	itemController := controllers.NewItemController(db)

	items := e.Group("/api/items")
	items.Use(middleware.FirebaseAuth(identity, redisClient))

	items.POST("", itemController.CreateItem)
	items.GET("", itemController.GetAllItems)
	items.GET("/:id", itemController.GetItemByID)
	items.PUT("/:id", itemController.UpdateItem)
	items.DELETE("/:id", itemController.DeleteItem)
	items.POST("/:id/photo", itemController.UploadItemPhoto)
}
