// controllers/user_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/config"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/models"
	"github.com/zahabshop/zahab_backend/policy"
	"github.com/zahabshop/zahab_backend/services"
	"github.com/zahabshop/zahab_backend/utils"
)

// UserController handles user provisioning and management.
type UserController struct {
	DB       *mongo.Client
	Identity services.IdentityProvider
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client, identity services.IdentityProvider) *UserController {
	return &UserController{DB: db, Identity: identity}
}

// CreateUser provisions the auth credential, writes the profile document and
// sets the role/branch claims. There is no transaction spanning the identity
// provider and the store, so a failed profile write is compensated by
// deleting the just-created credential.
func (uc *UserController) CreateUser(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateUserRequest
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

	targetRole, err := models.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid role: must be admin, manager or sales",
		})
	}

	decision := policy.Authorize(principal, policy.ActionCreate, policy.Resource{
		Kind:             policy.KindUser,
		ProposedRole:     targetRole,
		ProposedBranchID: req.BranchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// The branch must exist before anyone is attached to it.
	branch, err := findBranchByHexID(ctx, uc.DB, req.BranchID)
	if err != nil {
		if err == mongo.ErrNoDocuments || errors.Is(err, errBadObjectID) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Branch does not exist",
			})
		}
		return internalError(c, "Failed to verify branch", err)
	}

	uid, err := uc.Identity.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Email already in use",
			})
		}
		return internalError(c, "Failed to create user", err)
	}

	now := time.Now()
	user := models.User{
		UID:       uid,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      targetRole,
		BranchID:  req.BranchID,
		IsDelete:  false,
		CreatedAt: now,
	}

	_, err = config.GetCollection(uc.DB, "users").InsertOne(ctx, user)
	if err != nil {
		// Compensating action: drop the orphaned credential. If the cleanup
		// itself fails that is logged, not surfaced.
		if delErr := uc.Identity.DeleteUser(ctx, uid); delErr != nil {
			c.Logger().Errorf("Failed to clean up auth credential %s after profile write failure: %v", uid, delErr)
		}
		return internalError(c, "Failed to create user profile", err)
	}

	if err := uc.Identity.SetUserClaims(ctx, uid, targetRole, req.BranchID); err != nil {
		if _, delErr := config.GetCollection(uc.DB, "users").DeleteOne(ctx, bson.M{"_id": uid}); delErr != nil {
			c.Logger().Errorf("Failed to remove profile %s after claims failure: %v", uid, delErr)
		}
		if delErr := uc.Identity.DeleteUser(ctx, uid); delErr != nil {
			c.Logger().Errorf("Failed to clean up auth credential %s after claims failure: %v", uid, delErr)
		}
		return internalError(c, "Failed to set user claims", err)
	}

	// Invite mail is best effort and must not hold up the response.
	go func(email, firstName, branchName string) {
		if err := utils.SendInviteEmail(email, firstName, branchName); err != nil {
			log.Printf("Failed to send invite email to %s: %v", email, err)
		}
	}(req.Email, req.FirstName, branch.Name)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created",
		Data: map[string]interface{}{
			"uid":      uid,
			"email":    req.Email,
			"role":     targetRole,
			"branchId": req.BranchID,
		},
	})
}

// GetAllUsers lists active users, branch-filtered for managers.
func (uc *UserController) GetAllUsers(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	decision := policy.Authorize(principal, policy.ActionList, policy.Resource{Kind: policy.KindUser})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isDelete": false}
	if !principal.IsAdmin() {
		filter["branchId"] = principal.BranchID
	}

	cursor, err := config.GetCollection(uc.DB, "users").Find(ctx, filter)
	if err != nil {
		return internalError(c, "Failed to retrieve users", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return internalError(c, "Failed to decode users", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    map[string]interface{}{"users": users},
	})
}

// UpdateUser changes role and/or branch of a user, subject to policy and the
// last-admin protection, then rewrites the provider claims.
func (uc *UserController) UpdateUser(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "User ID is required",
		})
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if req.Role == "" && req.BranchID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "At least one of role or branchId must be provided",
		})
	}

	var proposedRole models.Role
	if req.Role != "" {
		var err error
		proposedRole, err = models.ParseRole(req.Role)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid role: must be admin, manager or sales",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	usersColl := config.GetCollection(uc.DB, "users")

	var target models.User
	err := usersColl.FindOne(ctx, bson.M{"_id": uid}).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return internalError(c, "Failed to retrieve user", err)
	}

	decision := policy.Authorize(principal, policy.ActionUpdate, policy.Resource{
		Kind:             policy.KindUser,
		BranchID:         target.BranchID,
		TargetRole:       target.Role,
		ProposedRole:     proposedRole,
		ProposedBranchID: req.BranchID,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	// Demoting the only remaining admin would lock everyone out of the
	// admin-gated endpoints.
	if target.Role == models.RoleAdmin && proposedRole != "" && proposedRole != models.RoleAdmin {
		activeAdmins, err := uc.countActiveAdmins(ctx)
		if err != nil {
			return internalError(c, "Failed to count admins", err)
		}
		if policy.RemovesLastAdmin(activeAdmins, target.Role, proposedRole) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Cannot demote the last remaining admin",
			})
		}
	}

	update := bson.M{}
	if req.Role != "" {
		update["role"] = proposedRole
	}
	if req.BranchID != "" {
		update["branchId"] = req.BranchID
	}

	_, err = usersColl.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": update})
	if err != nil {
		return internalError(c, "Failed to update user", err)
	}

	finalRole := target.Role
	if proposedRole != "" {
		finalRole = proposedRole
	}
	finalBranch := target.BranchID
	if req.BranchID != "" {
		finalBranch = req.BranchID
	}
	if err := uc.Identity.SetUserClaims(ctx, uid, finalRole, finalBranch); err != nil {
		return internalError(c, "Failed to update user claims", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated",
	})
}

// DeleteUser soft-deletes a profile. The auth credential stays so the uid
// remains resolvable; the claims and the isDelete flag keep the account out.
func (uc *UserController) DeleteUser(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "User ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	usersColl := config.GetCollection(uc.DB, "users")

	var target models.User
	err := usersColl.FindOne(ctx, bson.M{"_id": uid}).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return internalError(c, "Failed to retrieve user", err)
	}

	decision := policy.Authorize(principal, policy.ActionDelete, policy.Resource{
		Kind:       policy.KindUser,
		BranchID:   target.BranchID,
		TargetRole: target.Role,
	})
	if !decision.Allowed {
		return forbidden(c, decision.Reason)
	}

	if target.Role == models.RoleAdmin && !target.IsDelete {
		activeAdmins, err := uc.countActiveAdmins(ctx)
		if err != nil {
			return internalError(c, "Failed to count admins", err)
		}
		if policy.RemovesLastAdmin(activeAdmins, target.Role, "") {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Cannot delete the last remaining admin",
			})
		}
	}

	now := time.Now()
	_, err = usersColl.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"isDelete":  true,
		"deletedAt": now,
	}})
	if err != nil {
		return internalError(c, "Failed to delete user", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User soft-deleted",
	})
}

func (uc *UserController) countActiveAdmins(ctx context.Context) (int64, error) {
	return config.GetCollection(uc.DB, "users").CountDocuments(ctx, bson.M{
		"role":     models.RoleAdmin,
		"isDelete": false,
	})
}
