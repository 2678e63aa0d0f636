// routes/invoice_routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/controllers"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/services"
)

// SetupInvoiceRoutes registers invoice endpoints. The export routes are
// static paths, so they take precedence over the :id parameter route.
func SetupInvoiceRoutes(e *echo.Echo, db *mongo.Client, identity services.IdentityProvider, redisClient *redis.Client) {
	invoiceController := controllers.NewInvoiceController(db)

	invoices := e.Group("/api/invoices")
	invoices.Use(middleware.FirebaseAuth(identity, redisClient))

	invoices.POST("", invoiceController.CreateInvoice)
	invoices.GET("", invoiceController.GetAllInvoices)
	invoices.GET("/pdf", invoiceController.ExportInvoicePDF)
	invoices.GET("/excel", invoiceController.ExportInvoiceExcel)
	invoices.GET("/:id", invoiceController.GetInvoiceByID)
}
