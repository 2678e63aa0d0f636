// controllers/charts_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zahabshop/zahab_backend/config"
	"github.com/zahabshop/zahab_backend/middleware"
	"github.com/zahabshop/zahab_backend/models"
)

// ChartsController serves aggregated sales figures for the dashboard.
type ChartsController struct {
	DB *mongo.Client
}

// NewChartsController creates a new charts controller
func NewChartsController(db *mongo.Client) *ChartsController {
	return &ChartsController{DB: db}
}

// SumRow is one aggregation bucket keyed by seller or branch.
type SumRow struct {
	Key          string  `bson:"_id" json:"key"`
	TotalPrice   float64 `bson:"totalPrice" json:"totalPrice"`
	TotalProfits float64 `bson:"totalProfits" json:"totalProfits"`
}

func (cc *ChartsController) sumInvoices(ctx context.Context, match bson.M, groupKey string) ([]SumRow, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":          groupKey,
			"totalPrice":   bson.M{"$sum": "$totalPrice"},
			"totalProfits": bson.M{"$sum": "$totalProfits"},
		}},
		{"$sort": bson.M{"totalPrice": -1}},
	}

	cursor, err := config.GetCollection(cc.DB, "invoices").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []SumRow{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetUserSums sums invoice totals per seller. Admins see everyone, managers
// their branch, sales only themselves.
func (cc *ChartsController) GetUserSums(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	match := bson.M{}
	switch principal.Role {
	case models.RoleAdmin:
	case models.RoleManager:
		match["branchId"] = principal.BranchID
	default:
		match["userId"] = principal.UID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := cc.sumInvoices(ctx, match, "$userId")
	if err != nil {
		return internalError(c, "Failed to aggregate user sums", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User sums retrieved successfully",
		Data:    map[string]interface{}{"sums": rows},
	})
}

// GetBranchSums sums invoice totals per branch. Sales staff have no
// branch-level view.
func (cc *ChartsController) GetBranchSums(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	if principal.Role == models.RoleSales {
		return forbidden(c, "sales staff cannot view branch totals")
	}

	match := bson.M{}
	if !principal.IsAdmin() {
		match["branchId"] = principal.BranchID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := cc.sumInvoices(ctx, match, "$branchId")
	if err != nil {
		return internalError(c, "Failed to aggregate branch sums", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Branch sums retrieved successfully",
		Data:    map[string]interface{}{"sums": rows},
	})
}

// GetBranchUserSums sums invoice totals per seller within one branch. The
// branch comes from the query for admins and from the token for managers.
func (cc *ChartsController) GetBranchUserSums(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	if principal.Role == models.RoleSales {
		return forbidden(c, "sales staff cannot view branch totals")
	}

	branchID := principal.BranchID
	if principal.IsAdmin() {
		branchID = c.QueryParam("branchId")
		if branchID == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Branch ID is required",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := cc.sumInvoices(ctx, bson.M{"branchId": branchID}, "$userId")
	if err != nil {
		return internalError(c, "Failed to aggregate branch user sums", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Branch user sums retrieved successfully",
		Data:    map[string]interface{}{"sums": rows},
	})
}
