// controllers/branch_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/config"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/models"
	"github.com/zahabshop/zahab_backend/policy"
)

var errBadObjectID = errors.New("invalid object id")

// findBranchByHexID resolves an active branch by its hex id.
func findBranchByHexID(ctx context.Context, db *mongo.Client, hexID string) (models.Branch, error) {
	var branch models.Branch

	objID, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return branch, errBadObjectID
	}

	err = config.GetCollection(db, "branches").FindOne(ctx, bson.M{
		"_id":      objID,
		"isDelete": false,
	}).Decode(&branch)
	return branch, err
}

// BranchController handles branch CRUD.
type BranchController struct {
	DB *mongo.Client
}

// NewBranchController creates a new branch controller
func NewBranchController(db *mongo.Client) *BranchController {
	return &BranchController{DB: db}
}

// CreateBranch creates a branch. The name-uniqueness check is advisory: two
// concurrent creates can race past it, the partial unique index is the
// backstop.
func (bc *BranchController) CreateBranch(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	decision := policy.Authorize(principal, policy.ActionCreate, policy.Resource{Kind: policy.KindBranch})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	var req models.BranchRequest
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

	branchColl := config.GetCollection(bc.DB, "branches")

	count, err := branchColl.CountDocuments(ctx, bson.M{"name": req.Name, "isDelete": false})
	if err != nil {
		return internalError(c, "Failed to check branch name", err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Branch already exists",
		})
	}

	branch := models.Branch{
		Name:      req.Name,
		IsDelete:  false,
		CreatedAt: time.Now(),
	}
	result, err := branchColl.InsertOne(ctx, branch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Branch already exists",
			})
		}
		return internalError(c, "Failed to create branch", err)
	}

	branchID, _ := result.InsertedID.(primitive.ObjectID)
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Branch created",
		Data: map[string]interface{}{
			"id":   branchID.Hex(),
			"name": req.Name,
		},
	})
}

// GetAllBranches lists active branches, admin only.
func (bc *BranchController) GetAllBranches(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	decision := policy.Authorize(principal, policy.ActionList, policy.Resource{Kind: policy.KindBranch})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(bc.DB, "branches").Find(ctx, bson.M{"isDelete": false})
	if err != nil {
		return internalError(c, "Failed to retrieve branches", err)
	}
	defer cursor.Close(ctx)

	branches := []models.Branch{}
	if err = cursor.All(ctx, &branches); err != nil {
		return internalError(c, "Failed to decode branches", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Branches retrieved successfully",
		Data:    map[string]interface{}{"branches": branches},
	})
}

// UpdateBranch renames a branch. Admins may rename any branch; a manager only
// the one they belong to.
func (bc *BranchController) UpdateBranch(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	branchID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(branchID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid branch ID format",
		})
	}

	var req models.BranchRequest
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

	branchColl := config.GetCollection(bc.DB, "branches")

	var branch models.Branch
	err = branchColl.FindOne(ctx, bson.M{"_id": objID}).Decode(&branch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Branch not found",
			})
		}
		return internalError(c, "Failed to retrieve branch", err)
	}

	decision := policy.Authorize(principal, policy.ActionUpdate, policy.Resource{
		Kind:     policy.KindBranch,
		BranchID: branchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	// Advisory check against other active branches claiming the same name.
	count, err := branchColl.CountDocuments(ctx, bson.M{
		"name":     req.Name,
		"isDelete": false,
		"_id":      bson.M{"$ne": objID},
	})
	if err != nil {
		return internalError(c, "Failed to check branch name", err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Branch with the new name already exists",
		})
	}

	now := time.Now()
	_, err = branchColl.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"name":      req.Name,
		"updatedAt": now,
	}})
	if err != nil {
		return internalError(c, "Failed to update branch", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Branch modified",
		Data:    map[string]interface{}{"name": req.Name},
	})
}

// DeleteBranch soft-deletes a branch, admin only.
func (bc *BranchController) DeleteBranch(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	decision := policy.Authorize(principal, policy.ActionDelete, policy.Resource{Kind: policy.KindBranch})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	branchID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(branchID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid branch ID format",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	branchColl := config.GetCollection(bc.DB, "branches")

	var branch models.Branch
	err = branchColl.FindOne(ctx, bson.M{"_id": objID}).Decode(&branch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Branch not found",
			})
		}
		return internalError(c, "Failed to retrieve branch", err)
	}

	now := time.Now()
	_, err = branchColl.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"isDelete":  true,
		"deletedAt": now,
	}})
	if err != nil {
		return internalError(c, "Failed to delete branch", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Branch deleted",
		Data:    map[string]interface{}{"name": branch.Name},
	})
}
