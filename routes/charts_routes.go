// routes/charts_routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/controllers"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/services"
)

// SetupChartsRoutes registers dashboard aggregation endpoints.
func SetupChartsRoutes(e *echo.Echo, db *mongo.Client, identity services.IdentityProvider, redisClient *redis.Client) {
	chartsController := controllers.NewChartsController(db)

	charts := e.Group("/api/charts")
	charts.Use(middleware.FirebaseAuth(identity, redisClient))

	charts.GET("/userSums", chartsController.GetUserSums)
	charts.GET("/branchSums", chartsController.GetBranchSums)
	charts.GET("/branchUsersSums", chartsController.GetBranchUserSums)
}
