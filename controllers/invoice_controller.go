// controllers/invoice_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zahabshop/zahab_backend/config"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/models"
	"github.com/zahabshop/zahab_backend/policy"
	"github.com/zahabshop/zahab_backend/services"
)

// InvoiceController handles sale invoices. Invoices are append-only: no
// update or delete routes exist for them.
type InvoiceController struct {
	DB *mongo.Client
}

// NewInvoiceController creates a new invoice controller
func NewInvoiceController(db *mongo.Client) *InvoiceController {
	return &InvoiceController{DB: db}
}

// CreateInvoice records a sale against the principal's branch. The branch
// and seller are taken from the token, never from the request body.
func (vc *InvoiceController) CreateInvoice(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	decision := policy.Authorize(principal, policy.ActionCreate, policy.Resource{Kind: policy.KindInvoice})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	var req models.InvoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
	}

	invoice := models.Invoice{
		BranchID:      principal.BranchID,
		UserID:        principal.UID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         req.Items,
		TotalPrice:    req.TotalPrice,
		TotalProfits:  req.TotalProfits,
		GoldPrice:     req.GoldPrice,
		CreatedAt:     time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(vc.DB, "invoices").InsertOne(ctx, invoice)
	if err != nil {
		return internalError(c, "Failed to create invoice", err)
	}

	invoiceID, _ := result.InsertedID.(primitive.ObjectID)
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Invoice created",
		Data:    map[string]interface{}{"id": invoiceID.Hex()},
	})
}

// GetAllInvoices lists invoices newest first, branch-scoped for non-admins.
func (vc *InvoiceController) GetAllInvoices(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if !principal.IsAdmin() {
		filter["branchId"] = principal.BranchID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(vc.DB, "invoices").Find(ctx, filter, opts)
	if err != nil {
		return internalError(c, "Failed to retrieve invoices", err)
	}
	defer cursor.Close(ctx)

	invoices := []models.Invoice{}
	if err = cursor.All(ctx, &invoices); err != nil {
		return internalError(c, "Failed to decode invoices", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoices retrieved successfully",
		Data:    map[string]interface{}{"invoices": invoices},
	})
}

func (vc *InvoiceController) findInvoice(ctx context.Context, hexID string) (models.Invoice, int, string) {
	var invoice models.Invoice

	objID, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return invoice, http.StatusBadRequest, "Invalid invoice ID format"
	}

	err = config.GetCollection(vc.DB, "invoices").FindOne(ctx, bson.M{"_id": objID}).Decode(&invoice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return invoice, http.StatusNotFound, "Invoice not found"
		}
		return invoice, http.StatusInternalServerError, "Failed to retrieve invoice"
	}
	return invoice, 0, ""
}

// GetInvoiceByID returns one invoice, branch-scoped for non-admins.
func (vc *InvoiceController) GetInvoiceByID(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	invoice, status, msg := vc.findInvoice(ctx, c.Param("id"))
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	decision := policy.Authorize(principal, policy.ActionRead, policy.Resource{
		Kind:     policy.KindInvoice,
		BranchID: invoice.BranchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoice retrieved successfully",
		Data:    invoice,
	})
}

// resolveForExport loads the invoice named by the id query parameter and
// runs the export policy check. A non-zero status means the caller should
// respond with it.
func (vc *InvoiceController) resolveForExport(c echo.Context) (models.Invoice, int, string) {
	var invoice models.Invoice

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return invoice, http.StatusUnauthorized, "Unauthorized"
	}

	hexID := c.QueryParam("id")
	if hexID == "" {
		return invoice, http.StatusBadRequest, "Invoice ID is required"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	invoice, status, msg := vc.findInvoice(ctx, hexID)
	if status != 0 {
		return invoice, status, msg
	}

	decision := policy.Authorize(principal, policy.ActionExport, policy.Resource{
		Kind:     policy.KindInvoice,
		BranchID: invoice.BranchID,
	})
	if !decision.Allowed {
		return invoice, http.StatusForbidden, decision.Reason
	}
	return invoice, 0, ""
}

// ExportInvoicePDF streams a printable invoice as a PDF attachment.
func (vc *InvoiceController) ExportInvoicePDF(c echo.Context) error {
	invoice, status, msg := vc.resolveForExport(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	payload, err := services.RenderInvoicePDF(invoice)
	if err != nil {
		return internalError(c, "Failed to render invoice PDF", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+services.ExportFilename(invoice, "pdf")+`"`)
	return c.Blob(http.StatusOK, "application/pdf", payload)
}

// ExportInvoiceExcel streams the invoice as an XLSX attachment.
func (vc *InvoiceController) ExportInvoiceExcel(c echo.Context) error {
	invoice, status, msg := vc.resolveForExport(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	payload, err := services.RenderInvoiceXLSX(invoice)
	if err != nil {
		return internalError(c, "Failed to render invoice spreadsheet", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+services.ExportFilename(invoice, "xlsx")+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}
