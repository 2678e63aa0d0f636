// routes/branch_routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/controllers"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/services"
)

// SetupBranchRoutes registers branch management endpoints.
func SetupBranchRoutes(e *echo.Echo, db *mongo.Client, identity services.IdentityProvider, redisClient *redis.Client) {
	branchController := controllers.NewBranchController(db)

	branches := e.Group("/api/branches")
	branches.Use(middleware.FirebaseAuth(identity, redisClient))

	branches.POST("", branchController.CreateBranch)
	branches.GET("", branchController.GetAllBranches)
	branches.PUT("/:id", branchController.UpdateBranch)
	branches.DELETE("/:id", branchController.DeleteBranch)
}
