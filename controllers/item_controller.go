// controllers/item_controller.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/config"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/models"
	"github.com/zahabshop/zahab_backend/policy"
	"github.com/zahabshop/zahab_backend/utils"
)

// ItemController handles stock item CRUD and photo uploads.
type ItemController struct {
	DB *mongo.Client
}

// NewItemController creates a new item controller
func NewItemController(db *mongo.Client) *ItemController {
	return &ItemController{DB: db}
}

// CreateItem adds a stock item to the principal's own branch. Admins are
// excluded from item creation; stock is entered at the counter.
func (ic *ItemController) CreateItem(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	decision := policy.Authorize(principal, policy.ActionCreate, policy.Resource{Kind: policy.KindItem})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	var req models.ItemRequest
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	itemColl := config.GetCollection(ic.DB, "items")

	// Advisory uniqueness within the branch; a concurrent create can race
	// past this check.
	count, err := itemColl.CountDocuments(ctx, bson.M{
		"name":     req.Name,
		"branchId": principal.BranchID,
		"isDelete": false,
	})
	if err != nil {
		return internalError(c, "Failed to check item name", err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Item already exists",
		})
	}

	item := models.Item{
		Name:        req.Name,
		Weight:      req.Weight,
		Category:    req.Category,
		Karat:       req.Karat,
		FactoryFees: req.FactoryFees,
		Vendor:      req.Vendor,
		BranchID:    principal.BranchID,
		Quantity:    req.Quantity,
		Photo:       req.Photo,
		IsDelete:    false,
		CreatedAt:   time.Now(),
	}

	result, err := itemColl.InsertOne(ctx, item)
	if err != nil {
		return internalError(c, "Failed to create item", err)
	}

	itemID, _ := result.InsertedID.(primitive.ObjectID)
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Item created",
		Data: map[string]interface{}{
			"id":   itemID.Hex(),
			"name": req.Name,
		},
	})
}

// GetAllItems lists active items, branch-scoped for non-admins.
func (ic *ItemController) GetAllItems(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isDelete": false}
	if !principal.IsAdmin() {
		filter["branchId"] = principal.BranchID
	}

	cursor, err := config.GetCollection(ic.DB, "items").Find(ctx, filter)
	if err != nil {
		return internalError(c, "Failed to retrieve items", err)
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err = cursor.All(ctx, &items); err != nil {
		return internalError(c, "Failed to decode items", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Items retrieved successfully",
		Data:    map[string]interface{}{"items": items},
	})
}

// findItem fetches by id without the isDelete filter: direct lookups still
// resolve soft-deleted documents, only lists hide them.
func (ic *ItemController) findItem(ctx context.Context, hexID string) (models.Item, int, string) {
	var item models.Item

	objID, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return item, http.StatusBadRequest, "Invalid item ID format"
	}

	err = config.GetCollection(ic.DB, "items").FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return item, http.StatusNotFound, "Item not found"
		}
		return item, http.StatusInternalServerError, "Failed to retrieve item"
	}
	return item, 0, ""
}

// GetItemByID returns one item, branch-scoped for non-admins.
func (ic *ItemController) GetItemByID(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	item, status, msg := ic.findItem(ctx, c.Param("id"))
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	decision := policy.Authorize(principal, policy.ActionRead, policy.Resource{
		Kind:     policy.KindItem,
		BranchID: item.BranchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Item retrieved successfully",
		Data:    item,
	})
}

// UpdateItem applies a partial update to the mutable item fields.
func (ic *ItemController) UpdateItem(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.ItemUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Weight != nil {
		update["weight"] = *req.Weight
	}
	if req.Category != "" {
		update["category"] = req.Category
	}
	if req.Karat != "" {
		update["karat"] = req.Karat
	}
	if req.FactoryFees != nil {
		update["factoryFees"] = *req.FactoryFees
	}
	if req.Vendor != "" {
		update["vendor"] = req.Vendor
	}
	if req.Quantity != nil {
		update["Quantity"] = *req.Quantity
	}
	if req.Photo != "" {
		update["photo"] = req.Photo
	}
	if len(update) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No fields to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	item, status, msg := ic.findItem(ctx, c.Param("id"))
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	decision := policy.Authorize(principal, policy.ActionUpdate, policy.Resource{
		Kind:     policy.KindItem,
		BranchID: item.BranchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	_, err := config.GetCollection(ic.DB, "items").UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": update})
	if err != nil {
		return internalError(c, "Failed to update item", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Item updated",
	})
}

// DeleteItem soft-deletes an item.
func (ic *ItemController) DeleteItem(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	item, status, msg := ic.findItem(ctx, c.Param("id"))
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	decision := policy.Authorize(principal, policy.ActionDelete, policy.Resource{
		Kind:     policy.KindItem,
		BranchID: item.BranchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	now := time.Now()
	_, err := config.GetCollection(ic.DB, "items").UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": bson.M{
		"isDelete":  true,
		"deletedAt": now,
	}})
	if err != nil {
		return internalError(c, "Failed to delete item", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Item deleted successfully",
		Data:    map[string]interface{}{"id": item.ID.Hex()},
	})
}

// UploadItemPhoto stores a resized photo for an item and records its URL.
func (ic *ItemController) UploadItemPhoto(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	item, status, msg := ic.findItem(ctx, c.Param("id"))
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	decision := policy.Authorize(principal, policy.ActionUpdate, policy.Resource{
		Kind:     policy.KindItem,
		BranchID: item.BranchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Photo file is required",
		})
	}

	photoURL, err := utils.SaveItemPhoto(fileHeader)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported") || strings.Contains(err.Error(), "too large") {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		return internalError(c, "Failed to store photo", err)
	}

	_, err = config.GetCollection(ic.DB, "items").UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": bson.M{
		"photo": photoURL,
	}})
	if err != nil {
		return internalError(c, "Failed to update item photo", err)
	}

	// Drop the replaced file; a miss is fine.
	if item.Photo != "" {
		if err := utils.RemoveUploadedFile(item.Photo); err != nil {
			c.Logger().Warnf("Failed to remove old photo %s: %v", item.Photo, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Photo uploaded",
		Data:    map[string]interface{}{"photo": photoURL},
	})
}
